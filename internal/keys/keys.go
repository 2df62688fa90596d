// Package keys maps editor keyboard shortcuts to actions.
package keys

import (
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

type Action int

const (
	ActionNone Action = iota
	ActionSave
	ActionUndo
	ActionRedo
)

func (a Action) String() string {
	switch a {
	case ActionSave:
		return "save"
	case ActionUndo:
		return "undo"
	case ActionRedo:
		return "redo"
	default:
		return "none"
	}
}

// Keystroke is a key combination such as "ctrl+shift+z".
type Keystroke string

func (k Keystroke) String() string {
	return string(k)
}

// KeyMap defines editor keybindings
type KeyMap struct {
	Save key.Binding
	Undo key.Binding
	Redo key.Binding
}

// DefaultKeyMap binds each action to both the ctrl and cmd modifier.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Save: key.NewBinding(
			key.WithKeys("ctrl+s", "cmd+s"),
			key.WithHelp("ctrl/cmd+s", "save draft"),
		),
		Undo: key.NewBinding(
			key.WithKeys("ctrl+z", "cmd+z"),
			key.WithHelp("ctrl/cmd+z", "undo"),
		),
		Redo: key.NewBinding(
			key.WithKeys("ctrl+y", "cmd+y", "ctrl+shift+z", "cmd+shift+z"),
			key.WithHelp("ctrl/cmd+y", "redo"),
		),
	}
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Save, k.Undo, k.Redo}
}

// FullHelp returns keybindings for the expanded help view
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Save}, {k.Undo, k.Redo}}
}

// Help lists each binding as "<keys>  <description>".
func (k KeyMap) Help() []string {
	lines := make([]string, 0, 3)
	for _, b := range k.ShortHelp() {
		h := b.Help()
		lines = append(lines, h.Key+"  "+h.Desc)
	}
	return lines
}

// Resolve returns the action bound to stroke, normalizing it first.
func (k KeyMap) Resolve(stroke Keystroke) Action {
	stroke = Normalize(string(stroke))
	switch {
	case key.Matches(stroke, k.Save):
		return ActionSave
	case key.Matches(stroke, k.Undo):
		return ActionUndo
	case key.Matches(stroke, k.Redo):
		return ActionRedo
	default:
		return ActionNone
	}
}

var modifierAliases = map[string]string{
	"ctrl":    "ctrl",
	"control": "ctrl",
	"cmd":     "cmd",
	"command": "cmd",
	"meta":    "cmd",
	"super":   "cmd",
	"⌘":       "cmd",
	"alt":     "alt",
	"option":  "alt",
	"opt":     "alt",
	"shift":   "shift",
}

var modifierOrder = []string{"ctrl", "cmd", "alt", "shift"}

// Normalize lowercases stroke, resolves modifier aliases and orders modifiers
// as ctrl, cmd, alt, shift. Both "+" and "-" separate parts.
func Normalize(stroke string) Keystroke {
	stroke = strings.ToLower(strings.TrimSpace(stroke))
	parts := strings.FieldsFunc(stroke, func(r rune) bool { return r == '+' || r == '-' })
	if len(parts) == 0 {
		return ""
	}

	var mods []string
	var rest []string
	for _, p := range parts {
		if m, ok := modifierAliases[p]; ok {
			if !slices.Contains(mods, m) {
				mods = append(mods, m)
			}
			continue
		}
		rest = append(rest, p)
	}

	slices.SortFunc(mods, func(a, b string) int {
		return slices.Index(modifierOrder, a) - slices.Index(modifierOrder, b)
	})
	return Keystroke(strings.Join(append(mods, rest...), "+"))
}

// Event mirrors the fields of a browser keyboard event.
type Event struct {
	Key   string `json:"key"`
	Ctrl  bool   `json:"ctrlKey"`
	Meta  bool   `json:"metaKey"`
	Shift bool   `json:"shiftKey"`
	Alt   bool   `json:"altKey"`
}

// Stroke converts e into a normalized keystroke.
func (e Event) Stroke() Keystroke {
	var parts []string
	if e.Ctrl {
		parts = append(parts, "ctrl")
	}
	if e.Meta {
		parts = append(parts, "cmd")
	}
	if e.Alt {
		parts = append(parts, "alt")
	}
	if e.Shift {
		parts = append(parts, "shift")
	}
	parts = append(parts, e.Key)
	return Normalize(strings.Join(parts, "+"))
}
