// Package autosave persists the editor state after a quiet period.
package autosave

import (
	"sync"
	"time"

	"github.com/debemdeboas/inkdraft/internal/draft"
)

const DefaultDelay = 1500 * time.Millisecond

// Timer is the handle returned by AfterFunc.
type Timer interface {
	Stop() bool
}

// AfterFunc schedules f to run once after d.
type AfterFunc func(d time.Duration, f func()) Timer

func realAfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Saver persists a draft record.
type Saver interface {
	Save(draft.Record) error
}

// SnapshotFunc returns the title and content to persist.
type SnapshotFunc func() (title, content string)

type Options struct {
	Delay     time.Duration
	AfterFunc AfterFunc
	Now       func() time.Time
	// OnError receives failed debounced saves. The next edit schedules
	// another attempt. Flush returns its error to the caller instead.
	OnError func(error)
	OnSaved func(draft.Record)
}

// Scheduler debounces edits into saves. Each Touch cancels the pending save
// and starts a new quiet period; when it elapses the latest state is saved.
type Scheduler struct {
	// saveMu is held from snapshot to write so saves land in snapshot order.
	saveMu sync.Mutex

	mu        sync.Mutex
	saver     Saver
	snapshot  SnapshotFunc
	opts      Options
	timer     Timer
	gen       uint64
	saving    bool
	lastSaved time.Time
	stopped   bool
}

func New(saver Saver, snapshot SnapshotFunc, opts Options) *Scheduler {
	if opts.Delay <= 0 {
		opts.Delay = DefaultDelay
	}
	if opts.AfterFunc == nil {
		opts.AfterFunc = realAfterFunc
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Scheduler{
		saver:    saver,
		snapshot: snapshot,
		opts:     opts,
	}
}

// Touch records a qualifying edit.
func (s *Scheduler) Touch() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return
	}
	if s.timer != nil {
		s.timer.Stop()
	}
	s.gen++
	gen := s.gen
	s.saving = true
	s.timer = s.opts.AfterFunc(s.opts.Delay, func() { s.fire(gen) })
}

func (s *Scheduler) fire(gen uint64) {
	s.saveMu.Lock()

	s.mu.Lock()
	// Flush and Cancel bump gen, so a superseded timer stops here even if
	// it was already running when they took over.
	if s.stopped || gen != s.gen {
		s.mu.Unlock()
		s.saveMu.Unlock()
		return
	}
	s.timer = nil
	s.mu.Unlock()

	rec, err := s.save()

	s.mu.Lock()
	// A newer edit owns the flag if it arrived while saving.
	if gen == s.gen {
		s.saving = false
	}
	s.mu.Unlock()
	s.saveMu.Unlock()

	s.report(rec, err)
}

// Flush cancels any pending save and saves the latest state now.
func (s *Scheduler) Flush() error {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	s.cancel()
	_, err := s.save()
	return err
}

// Cancel drops the pending save without saving. It waits for a save that
// is already writing, so nothing scheduled before Cancel lands after it.
func (s *Scheduler) Cancel() {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()
	s.cancel()
}

func (s *Scheduler) cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.gen++
	s.saving = false
}

func (s *Scheduler) save() (draft.Record, error) {
	title, content := s.snapshot()
	rec := draft.Record{
		Title:   title,
		Content: content,
		SavedAt: s.opts.Now().UTC(),
	}
	if err := s.saver.Save(rec); err != nil {
		return rec, err
	}

	s.mu.Lock()
	s.lastSaved = rec.SavedAt
	s.mu.Unlock()
	return rec, nil
}

func (s *Scheduler) report(rec draft.Record, err error) {
	if err != nil {
		if s.opts.OnError != nil {
			s.opts.OnError(err)
		}
		return
	}
	if s.opts.OnSaved != nil {
		s.opts.OnSaved(rec)
	}
}

// Saving reports whether a save is pending.
func (s *Scheduler) Saving() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saving
}

// LastSavedAt is the time of the last successful save, or zero.
func (s *Scheduler) LastSavedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSaved
}

// Stop cancels the pending save. Later Touch calls are ignored.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.stopped = true
	s.saving = false
}
