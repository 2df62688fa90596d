package session

import (
	"time"

	"github.com/debemdeboas/inkdraft/internal/assist"
	"github.com/debemdeboas/inkdraft/internal/editor"
	"github.com/debemdeboas/inkdraft/internal/notify"
)

// View is what a client renders for a session.
type View struct {
	ID       string          `json:"id"`
	Snapshot editor.Snapshot `json:"state"`
	Stats    editor.Stats    `json:"stats"`

	Saving      bool       `json:"saving"`
	LastSavedAt *time.Time `json:"lastSavedAt,omitempty"`
	Restored    bool       `json:"restored"`

	CanUndo     bool `json:"canUndo"`
	CanRedo     bool `json:"canRedo"`
	CanGenerate bool `json:"canGenerate"`
	CanImprove  bool `json:"canImprove"`

	Generate *assist.Status `json:"generate,omitempty"`
	Improve  *assist.Status `json:"improve,omitempty"`

	LastToast *notify.Toast  `json:"lastToast,omitempty"`
	Toasts    []notify.Toast `json:"toasts,omitempty"`
}

func (s *Session) View() View {
	v := View{
		ID:       s.id,
		Snapshot: s.state.Snapshot(),
		Stats:    s.state.Stats(),
		Saving:   s.autosave.Saving(),
		CanUndo:  s.history.CanUndo(),
		CanRedo:  s.history.CanRedo(),
	}

	if t := s.autosave.LastSavedAt(); !t.IsZero() {
		v.LastSavedAt = &t
	}

	s.mu.Lock()
	v.Restored = s.restored
	s.mu.Unlock()

	if s.assistant != nil {
		v.CanGenerate = s.assistant.CanGenerate()
		v.CanImprove = s.assistant.CanImprove()
		gen := s.assistant.Status(assist.OpGenerate)
		imp := s.assistant.Status(assist.OpImprove)
		v.Generate, v.Improve = &gen, &imp
	}

	if t, ok := s.toasts.Last(); ok {
		v.LastToast = &t
	}
	v.Toasts = s.toasts.Toasts()
	return v
}
