package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/debemdeboas/inkdraft/internal/config"
	"github.com/debemdeboas/inkdraft/internal/notify"
)

// events streams the toasts of a session as server-sent events.
func (s *Server) events(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set(config.HCType, config.CTypeSSE)
	w.Header().Set(config.HCacheControl, "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Del("X-Content-Type-Options")

	client := notify.NewClient(sess.ID())
	s.opts.Hub.Add(client)

	logger := s.logger.With().Str("session_id", sess.ID()).Logger()
	logger.Debug().Msg("Event stream connected")
	defer func() {
		s.opts.Hub.Delete(client)
		logger.Debug().Msg("Event stream disconnected")
	}()

	fmt.Fprintf(w, "event: connected\ndata: %s\n\n", sess.ID())
	flusher.Flush()

	done := r.Context().Done()
	for {
		select {
		case toast, ok := <-client.Msg:
			if !ok {
				// Session closed
				return
			}
			data, err := json.Marshal(toast)
			if err != nil {
				logger.Error().Err(err).Msg("Failed to encode toast")
				continue
			}
			fmt.Fprintf(w, "event: toast\ndata: %s\n\n", data)
			flusher.Flush()
		case <-done:
			return
		}
	}
}
