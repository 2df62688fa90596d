package notify

import "sync"

// Client is one open event stream for a session.
type Client struct {
	Msg       chan Toast
	SessionID string
}

func NewClient(sessionID string) *Client {
	return &Client{
		Msg:       make(chan Toast, 16),
		SessionID: sessionID,
	}
}

// Hub tracks event-stream clients and routes toasts to the ones watching a
// session. Slow clients miss toasts instead of blocking the sender.
type Hub struct {
	clients map[*Client]bool
	mu      sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[*Client]bool),
	}
}

func (h *Hub) Add(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[client] = true
}

func (h *Hub) Delete(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)
	close(client.Msg)
}

// Close disconnects every client of sessionID.
func (h *Hub) Close(sessionID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		if client.SessionID == sessionID {
			delete(h.clients, client)
			close(client.Msg)
		}
	}
}

func (h *Hub) Broadcast(sessionID string, t Toast) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients {
		if client.SessionID == sessionID {
			select {
			case client.Msg <- t:
			default:
			}
		}
	}
}

// Connected reports whether sessionID has an open event stream.
func (h *Hub) Connected(sessionID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients {
		if client.SessionID == sessionID {
			return true
		}
	}
	return false
}

func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// For returns a Notifier that broadcasts to the clients of sessionID.
func (h *Hub) For(sessionID string) Notifier {
	return sessionNotifier{hub: h, sessionID: sessionID}
}

type sessionNotifier struct {
	hub       *Hub
	sessionID string
}

func (n sessionNotifier) Notify(t Toast) {
	n.hub.Broadcast(n.sessionID, t)
}
