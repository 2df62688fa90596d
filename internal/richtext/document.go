// Package richtext models the rich-text editing surface: the current markup,
// change notification and an undo/redo command stack.
package richtext

import (
	"slices"
	"sync"
	"time"
)

// Source tells who made a change.
type Source string

const (
	SourceUser Source = "user"
	SourceAPI  Source = "api"
)

type HistoryOptions struct {
	// Delay merges changes recorded within this window into one undo step.
	Delay time.Duration
	// MaxStack caps the number of undo steps; the oldest are dropped.
	MaxStack int
	// UserOnly records only SourceUser changes.
	UserOnly bool
}

func DefaultHistoryOptions() HistoryOptions {
	return HistoryOptions{
		Delay:    time.Second,
		MaxStack: 100,
		UserOnly: true,
	}
}

type step struct {
	before, after string
}

type Document struct {
	// dispatch orders changes and their notifications together.
	dispatch sync.Mutex

	mu       sync.Mutex
	markup   string
	opts     HistoryOptions
	undo     []step
	redo     []step
	lastRec  time.Time
	now      func() time.Time
	handlers []func(string, Source)
}

func NewDocument(markup string, opts HistoryOptions) *Document {
	if opts.MaxStack <= 0 {
		opts.MaxStack = DefaultHistoryOptions().MaxStack
	}
	return &Document{
		markup: markup,
		opts:   opts,
		now:    time.Now,
	}
}

// OnChange registers fn to be called with the new markup after every change.
func (d *Document) OnChange(fn func(markup string, source Source)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers = append(d.handlers, fn)
}

func (d *Document) Contents() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.markup
}

// SetContents replaces the markup. Setting identical markup is a no-op.
func (d *Document) SetContents(markup string, source Source) {
	d.dispatch.Lock()
	defer d.dispatch.Unlock()

	d.mu.Lock()
	if markup == d.markup {
		d.mu.Unlock()
		return
	}
	before := d.markup
	d.markup = markup
	if source == SourceUser || !d.opts.UserOnly {
		d.record(before, markup)
	}
	handlers := slices.Clone(d.handlers)
	d.mu.Unlock()

	for _, fn := range handlers {
		fn(markup, source)
	}
}

func (d *Document) record(before, after string) {
	d.redo = d.redo[:0]

	now := d.now()
	if n := len(d.undo); n > 0 && !d.lastRec.IsZero() && now.Sub(d.lastRec) < d.opts.Delay {
		d.undo[n-1].after = after
		if d.undo[n-1].before == after {
			d.undo = d.undo[:n-1]
		}
		return
	}
	d.lastRec = now

	d.undo = append(d.undo, step{before: before, after: after})
	if len(d.undo) > d.opts.MaxStack {
		d.undo = slices.Delete(d.undo, 0, len(d.undo)-d.opts.MaxStack)
	}
}

// Cutoff stops the next change from merging into the previous undo step.
func (d *Document) Cutoff() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.lastRec = time.Time{}
}

func (d *Document) Undo() bool {
	return d.change(&d.undo, &d.redo, func(s step) string { return s.before })
}

func (d *Document) Redo() bool {
	return d.change(&d.redo, &d.undo, func(s step) string { return s.after })
}

// change pops a step from src, applies it and pushes it onto dst.
func (d *Document) change(src, dst *[]step, target func(step) string) bool {
	d.dispatch.Lock()
	defer d.dispatch.Unlock()

	d.mu.Lock()
	n := len(*src)
	if n == 0 {
		d.mu.Unlock()
		return false
	}
	s := (*src)[n-1]
	*src = (*src)[:n-1]
	*dst = append(*dst, s)

	d.markup = target(s)
	d.lastRec = time.Time{}
	markup := d.markup
	handlers := slices.Clone(d.handlers)
	d.mu.Unlock()

	for _, fn := range handlers {
		fn(markup, SourceUser)
	}
	return true
}

func (d *Document) CanUndo() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.undo) > 0
}

func (d *Document) CanRedo() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.redo) > 0
}

func (d *Document) ClearHistory() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.undo = nil
	d.redo = nil
	d.lastRec = time.Time{}
}
