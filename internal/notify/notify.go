// Package notify delivers transient user notifications (toasts).
package notify

import (
	"slices"
	"sync"
	"time"
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelInfo    Level = "info"
)

type Toast struct {
	Level   Level     `json:"level"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

type Notifier interface {
	Notify(Toast)
}

func send(n Notifier, level Level, msg string) {
	n.Notify(Toast{Level: level, Message: msg, At: time.Now().UTC()})
}

func Success(n Notifier, msg string) { send(n, LevelSuccess, msg) }
func Error(n Notifier, msg string)   { send(n, LevelError, msg) }
func Info(n Notifier, msg string)    { send(n, LevelInfo, msg) }

// Discard drops every toast.
var Discard Notifier = discard{}

type discard struct{}

func (discard) Notify(Toast) {}

// Recorder keeps the toasts it receives. A zero Recorder keeps all of
// them; NewRecorder bounds the history.
type Recorder struct {
	mu     sync.Mutex
	limit  int
	toasts []Toast
}

// NewRecorder returns a Recorder that keeps only the limit most recent toasts.
func NewRecorder(limit int) *Recorder {
	return &Recorder{limit: limit}
}

func (r *Recorder) Notify(t Toast) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.toasts = append(r.toasts, t)
	if r.limit > 0 && len(r.toasts) > r.limit {
		r.toasts = slices.Delete(r.toasts, 0, len(r.toasts)-r.limit)
	}
}

// Toasts returns the recorded toasts, oldest first.
func (r *Recorder) Toasts() []Toast {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.toasts)
}

// Last returns the most recent toast and false when none was recorded.
func (r *Recorder) Last() (Toast, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.toasts) == 0 {
		return Toast{}, false
	}
	return r.toasts[len(r.toasts)-1], true
}

// Multi fans each toast out to every notifier.
type Multi []Notifier

func (m Multi) Notify(t Toast) {
	for _, n := range m {
		n.Notify(t)
	}
}
