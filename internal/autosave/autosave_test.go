package autosave

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/debemdeboas/inkdraft/internal/draft"
)

type fakeTimer struct {
	f       func()
	stopped bool
}

func (t *fakeTimer) Stop() bool {
	wasActive := !t.stopped
	t.stopped = true
	return wasActive
}

type fakeClock struct {
	mu     sync.Mutex
	timers []*fakeTimer
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{f: f}
	c.timers = append(c.timers, t)
	return t
}

// fireAll runs every timer callback, including stopped ones, so superseded
// callbacks racing with Stop are exercised too.
func (c *fakeClock) fireAll() {
	c.mu.Lock()
	timers := c.timers
	c.timers = nil
	c.mu.Unlock()
	for _, t := range timers {
		t.f()
	}
}

func (c *fakeClock) fireActive() {
	c.mu.Lock()
	timers := c.timers
	c.timers = nil
	c.mu.Unlock()
	for _, t := range timers {
		if !t.stopped {
			t.f()
		}
	}
}

type recordingSaver struct {
	mu    sync.Mutex
	saved []draft.Record
	err   error
}

func (r *recordingSaver) Save(rec draft.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.saved = append(r.saved, rec)
	return nil
}

type editor struct {
	mu             sync.Mutex
	title, content string
}

func (e *editor) set(title, content string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.title, e.content = title, content
}

func (e *editor) snapshot() (string, string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.title, e.content
}

var fixedNow = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

func newTestScheduler(saver Saver, ed *editor, opts Options) (*Scheduler, *fakeClock) {
	clock := &fakeClock{}
	opts.AfterFunc = clock.AfterFunc
	opts.Now = func() time.Time { return fixedNow }
	return New(saver, ed.snapshot, opts), clock
}

func TestDebounceSavesLatestStateOnce(t *testing.T) {
	saver := &recordingSaver{}
	ed := &editor{}
	s, clock := newTestScheduler(saver, ed, Options{})

	for i, content := range []string{"<p>H</p>", "<p>He</p>", "<p>Hel</p>", "<p>Hell</p>", "<p>Hello</p>"} {
		ed.set("Title", content)
		s.Touch()
		if !s.Saving() {
			t.Fatalf("Expected saving flag after edit %d", i)
		}
	}

	clock.fireAll()

	if len(saver.saved) != 1 {
		t.Fatalf("Expected exactly one save, got %d", len(saver.saved))
	}
	if saver.saved[0].Content != "<p>Hello</p>" || saver.saved[0].Title != "Title" {
		t.Errorf("Expected latest state to be saved, got %+v", saver.saved[0])
	}
	if s.Saving() {
		t.Error("Expected saving flag to clear after save")
	}
	if !s.LastSavedAt().Equal(fixedNow) {
		t.Errorf("Expected last saved %v, got %v", fixedNow, s.LastSavedAt())
	}
}

func TestSeparateQuietPeriodsSaveSeparately(t *testing.T) {
	saver := &recordingSaver{}
	ed := &editor{}
	s, clock := newTestScheduler(saver, ed, Options{})

	ed.set("a", "")
	s.Touch()
	clock.fireActive()

	ed.set("ab", "")
	s.Touch()
	clock.fireActive()

	if len(saver.saved) != 2 {
		t.Fatalf("Expected two saves, got %d", len(saver.saved))
	}
	if saver.saved[1].Title != "ab" {
		t.Errorf("Expected second save to hold 'ab', got %q", saver.saved[1].Title)
	}
}

func TestFlushCancelsPendingSave(t *testing.T) {
	saver := &recordingSaver{}
	ed := &editor{}
	s, clock := newTestScheduler(saver, ed, Options{})

	ed.set("Hello", "<p>World</p>")
	s.Touch()

	if err := s.Flush(); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}
	if s.Saving() {
		t.Error("Expected saving flag to clear after flush")
	}

	clock.fireAll()

	if len(saver.saved) != 1 {
		t.Fatalf("Expected the pending save to be cancelled, got %d saves", len(saver.saved))
	}
	if saver.saved[0].Content != "<p>World</p>" {
		t.Errorf("Unexpected flushed record %+v", saver.saved[0])
	}
}

func TestSaveErrorClearsFlagWithoutRecordingTime(t *testing.T) {
	boom := errors.New("quota exceeded")
	saver := &recordingSaver{err: boom}
	ed := &editor{}

	var reported []error
	var savedCallbacks int
	s, clock := newTestScheduler(saver, ed, Options{
		OnError: func(err error) { reported = append(reported, err) },
		OnSaved: func(draft.Record) { savedCallbacks++ },
	})

	ed.set("t", "")
	s.Touch()
	clock.fireActive()

	if s.Saving() {
		t.Error("Expected saving flag to clear after a failed save")
	}
	if !s.LastSavedAt().IsZero() {
		t.Error("Expected no last-saved time after failure")
	}
	if len(reported) != 1 || !errors.Is(reported[0], boom) {
		t.Errorf("Expected error to be reported once, got %v", reported)
	}

	// The next cycle retries.
	saver.err = nil
	s.Touch()
	clock.fireActive()
	if len(saver.saved) != 1 || savedCallbacks != 1 {
		t.Errorf("Expected retry on next cycle, got %d saves", len(saver.saved))
	}
}

func TestFlushReturnsError(t *testing.T) {
	boom := errors.New("disk full")
	s, _ := newTestScheduler(&recordingSaver{err: boom}, &editor{}, Options{})
	if err := s.Flush(); !errors.Is(err, boom) {
		t.Errorf("Expected flush error, got %v", err)
	}
}

func TestStop(t *testing.T) {
	saver := &recordingSaver{}
	s, clock := newTestScheduler(saver, &editor{}, Options{})

	s.Touch()
	s.Stop()
	s.Touch()
	clock.fireAll()

	if len(saver.saved) != 0 {
		t.Errorf("Expected no saves after stop, got %d", len(saver.saved))
	}
	if s.Saving() {
		t.Error("Expected saving flag cleared by stop")
	}
}

func TestCancelDropsPendingSave(t *testing.T) {
	saver := &recordingSaver{}
	ed := &editor{}
	s, clock := newTestScheduler(saver, ed, Options{})

	ed.set("Hello", "<p>World</p>")
	s.Touch()
	s.Cancel()

	if s.Saving() {
		t.Error("Expected saving flag cleared by cancel")
	}
	clock.fireAll()
	if len(saver.saved) != 0 {
		t.Fatalf("Expected no saves after cancel, got %d", len(saver.saved))
	}

	// Cancel is not Stop: later edits still save.
	s.Touch()
	clock.fireActive()
	if len(saver.saved) != 1 {
		t.Errorf("Expected edit after cancel to save, got %d saves", len(saver.saved))
	}
}

// blockingSaver holds the first Save until release is closed.
type blockingSaver struct {
	entered chan struct{}
	release chan struct{}

	mu    sync.Mutex
	calls int
	last  draft.Record
}

func (b *blockingSaver) Save(rec draft.Record) error {
	b.mu.Lock()
	b.calls++
	first := b.calls == 1
	b.mu.Unlock()

	if first {
		close(b.entered)
		<-b.release
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.last = rec
	return nil
}

func TestFlushDuringDebouncedSaveWritesLast(t *testing.T) {
	saver := &blockingSaver{entered: make(chan struct{}), release: make(chan struct{})}
	ed := &editor{}
	s, clock := newTestScheduler(saver, ed, Options{})

	ed.set("old", "")
	s.Touch()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		clock.fireActive()
	}()
	<-saver.entered

	ed.set("new", "")
	go func() {
		defer wg.Done()
		if err := s.Flush(); err != nil {
			t.Errorf("Flush failed: %v", err)
		}
	}()
	close(saver.release)
	wg.Wait()

	if saver.last.Title != "new" {
		t.Errorf("Expected flushed state to be written last, got %q", saver.last.Title)
	}
}

func TestRealTimer(t *testing.T) {
	saver := &recordingSaver{}
	done := make(chan struct{})
	s := New(saver, func() (string, string) { return "t", "c" }, Options{
		Delay:   10 * time.Millisecond,
		OnSaved: func(draft.Record) { close(done) },
	})
	defer s.Stop()

	s.Touch()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Timed out waiting for autosave")
	}
}
