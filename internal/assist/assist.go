// Package assist runs AI content operations against the editor: generating a
// post from its title and improving existing content. At most one operation
// runs at a time per Assistant.
package assist

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/debemdeboas/inkdraft/internal/editor"
)

var (
	ErrMissingTitle   = errors.New("assist: title required")
	ErrMissingContent = errors.New("assist: content required")
	ErrDeclined       = errors.New("assist: replacement declined")
	ErrBusy           = errors.New("assist: another operation is running")
	ErrInvalidKind    = errors.New("assist: unknown improvement kind")
	ErrGateway        = errors.New("assist: gateway failed")
	ErrClosed         = errors.New("assist: closed")
)

// Kind selects how content is improved.
type Kind string

const (
	KindEnhance  Kind = "enhance"
	KindExpand   Kind = "expand"
	KindSimplify Kind = "simplify"
)

var Kinds = []Kind{KindEnhance, KindExpand, KindSimplify}

func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	switch k {
	case KindEnhance, KindExpand, KindSimplify:
		return k, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidKind, s)
}

// Done is the past tense used in success messages.
func (k Kind) Done() string {
	switch k {
	case KindEnhance:
		return "enhanced"
	case KindExpand:
		return "expanded"
	case KindSimplify:
		return "simplified"
	}
	return string(k) + "d"
}

type Operation string

const (
	OpGenerate Operation = "generate"
	OpImprove  Operation = "improve"
)

type GenerateRequest struct {
	Title    string
	Category string
	Tags     []string
}

// Result is what the AI backend answers. A non-nil error from a Gateway
// means the call itself failed.
type Result struct {
	Success bool   `json:"success"`
	Content string `json:"content,omitempty"`
	Error   string `json:"error,omitempty"`
}

type Gateway interface {
	Generate(ctx context.Context, req GenerateRequest) (Result, error)
	Improve(ctx context.Context, content string, kind Kind) (Result, error)
}

// Confirmer asks the user to approve a destructive action.
type Confirmer interface {
	Confirm(prompt string) bool
}

type ConfirmFunc func(prompt string) bool

func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

// Always approves every prompt.
var Always Confirmer = ConfirmFunc(func(string) bool { return true })

// Target is the editor content the Assistant reads and replaces.
type Target interface {
	Snapshot() editor.Snapshot
	HasTitle() bool
	HasContent() bool
	ReplaceContent(markup string)
}
