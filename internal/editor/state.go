// Package editor holds the observable state of a post being edited.
package editor

import (
	"slices"
	"strings"
	"sync"
)

// Field identifies a mutable part of the state.
type Field string

const (
	FieldTitle         Field = "title"
	FieldContent       Field = "content"
	FieldCategory      Field = "category"
	FieldTags          Field = "tags"
	FieldFeaturedImage Field = "featuredImage"
)

const (
	DefaultEmptyDocument  = "<p><br></p>"
	DefaultWordsPerMinute = 200
)

// Snapshot is a copy of the state at one point in time.
type Snapshot struct {
	Title         string   `json:"title"`
	Content       string   `json:"content"`
	Category      string   `json:"category"`
	Tags          []string `json:"tags"`
	FeaturedImage string   `json:"featuredImage"`
}

type Options struct {
	// EmptyDocument is the markup an empty rich-text surface reports.
	EmptyDocument  string
	WordsPerMinute int
}

type State struct {
	mu        sync.RWMutex
	snap      Snapshot
	opts      Options
	observers []func(Field)
}

func NewState(opts Options) *State {
	if opts.EmptyDocument == "" {
		opts.EmptyDocument = DefaultEmptyDocument
	}
	if opts.WordsPerMinute <= 0 {
		opts.WordsPerMinute = DefaultWordsPerMinute
	}
	return &State{
		snap: Snapshot{Tags: []string{}},
		opts: opts,
	}
}

// OnChange registers fn to be called after a setter changes a field.
func (s *State) OnChange(fn func(Field)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, fn)
}

func (s *State) notify(f Field) {
	s.mu.RLock()
	observers := slices.Clone(s.observers)
	s.mu.RUnlock()

	for _, fn := range observers {
		fn(f)
	}
}

// update applies fn under the lock and notifies observers when it reports a change.
func (s *State) update(f Field, fn func(*Snapshot) bool) {
	s.mu.Lock()
	changed := fn(&s.snap)
	s.mu.Unlock()

	if changed {
		s.notify(f)
	}
}

func setString(dst *string, v string) bool {
	if *dst == v {
		return false
	}
	*dst = v
	return true
}

func (s *State) SetTitle(title string) {
	s.update(FieldTitle, func(snap *Snapshot) bool { return setString(&snap.Title, title) })
}

func (s *State) SetContent(content string) {
	s.update(FieldContent, func(snap *Snapshot) bool { return setString(&snap.Content, content) })
}

func (s *State) SetCategory(category string) {
	s.update(FieldCategory, func(snap *Snapshot) bool { return setString(&snap.Category, category) })
}

func (s *State) SetFeaturedImage(url string) {
	s.update(FieldFeaturedImage, func(snap *Snapshot) bool { return setString(&snap.FeaturedImage, url) })
}

// SetTags replaces the tag set. Blank and duplicate tags are dropped, first
// occurrence wins.
func (s *State) SetTags(tags []string) {
	normalized := normalizeTags(tags)
	s.update(FieldTags, func(snap *Snapshot) bool {
		if slices.Equal(snap.Tags, normalized) {
			return false
		}
		snap.Tags = normalized
		return true
	})
}

func (s *State) AddTag(tag string) {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return
	}
	s.update(FieldTags, func(snap *Snapshot) bool {
		if slices.Contains(snap.Tags, tag) {
			return false
		}
		snap.Tags = append(slices.Clone(snap.Tags), tag)
		return true
	})
}

func (s *State) RemoveTag(tag string) {
	tag = strings.TrimSpace(tag)
	s.update(FieldTags, func(snap *Snapshot) bool {
		i := slices.Index(snap.Tags, tag)
		if i < 0 {
			return false
		}
		snap.Tags = slices.Delete(slices.Clone(snap.Tags), i, i+1)
		return true
	})
}

func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" || slices.Contains(out, tag) {
			continue
		}
		out = append(out, tag)
	}
	return out
}

func (s *State) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := s.snap
	snap.Tags = slices.Clone(s.snap.Tags)
	return snap
}

func (s *State) Title() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.Title
}

func (s *State) Content() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.Content
}

// HasTitle reports whether the trimmed title is non-empty.
func (s *State) HasTitle() bool {
	return strings.TrimSpace(s.Title()) != ""
}

// HasContent reports whether content is present and not the empty document.
func (s *State) HasContent() bool {
	return s.IsContent(s.Content())
}

// IsContent applies the HasContent rule to arbitrary markup.
func (s *State) IsContent(markup string) bool {
	return markup != "" && markup != s.opts.EmptyDocument
}

func (s *State) EmptyDocument() string {
	return s.opts.EmptyDocument
}

func (s *State) Stats() Stats {
	return ComputeStats(s.Content(), s.opts.WordsPerMinute)
}
