package editor

import (
	"reflect"
	"sync"
	"testing"
)

func TestHasTitle(t *testing.T) {
	s := NewState(Options{})
	tests := []struct {
		title string
		want  bool
	}{
		{"", false},
		{"   ", false},
		{"\t\n", false},
		{"Hello", true},
		{"  Hello  ", true},
	}
	for _, tt := range tests {
		s.SetTitle(tt.title)
		if got := s.HasTitle(); got != tt.want {
			t.Errorf("HasTitle() with %q = %v, want %v", tt.title, got, tt.want)
		}
	}
}

func TestHasContent(t *testing.T) {
	s := NewState(Options{})
	tests := []struct {
		content string
		want    bool
	}{
		{"", false},
		{"<p><br></p>", false},
		{"<p>World</p>", true},
		{"<p> </p>", true},
	}
	for _, tt := range tests {
		s.SetContent(tt.content)
		if got := s.HasContent(); got != tt.want {
			t.Errorf("HasContent() with %q = %v, want %v", tt.content, got, tt.want)
		}
	}
}

func TestCustomEmptyDocument(t *testing.T) {
	s := NewState(Options{EmptyDocument: "<div></div>"})
	s.SetContent("<p><br></p>")
	if !s.HasContent() {
		t.Error("Expected default sentinel to count as content under a custom sentinel")
	}
	s.SetContent("<div></div>")
	if s.HasContent() {
		t.Error("Expected custom sentinel to count as empty")
	}
}

func TestTags(t *testing.T) {
	s := NewState(Options{})

	s.SetTags([]string{"go", " ", "web", "go", " web "})
	if got := s.Snapshot().Tags; !reflect.DeepEqual(got, []string{"go", "web"}) {
		t.Errorf("Expected deduplicated tags, got %v", got)
	}

	s.AddTag("ai")
	s.AddTag("go")
	s.AddTag("  ")
	if got := s.Snapshot().Tags; !reflect.DeepEqual(got, []string{"go", "web", "ai"}) {
		t.Errorf("Expected tags in insertion order, got %v", got)
	}

	s.RemoveTag("web")
	s.RemoveTag("missing")
	if got := s.Snapshot().Tags; !reflect.DeepEqual(got, []string{"go", "ai"}) {
		t.Errorf("Expected tag removed, got %v", got)
	}
}

func TestSnapshotIsCopy(t *testing.T) {
	s := NewState(Options{})
	s.SetTags([]string{"a"})

	snap := s.Snapshot()
	snap.Tags[0] = "mutated"

	if s.Snapshot().Tags[0] != "a" {
		t.Error("Expected snapshot to be detached from state")
	}
}

func TestOnChange(t *testing.T) {
	s := NewState(Options{})
	var fields []Field
	s.OnChange(func(f Field) {
		fields = append(fields, f)
		// Observers run outside the lock and may read the state.
		_ = s.Snapshot()
	})

	s.SetTitle("Hello")
	s.SetTitle("Hello")
	s.SetContent("<p>World</p>")
	s.SetCategory("tech")
	s.AddTag("go")
	s.AddTag("go")
	s.RemoveTag("nope")
	s.SetFeaturedImage("/uploads/a.png")

	want := []Field{FieldTitle, FieldContent, FieldCategory, FieldTags, FieldFeaturedImage}
	if !reflect.DeepEqual(fields, want) {
		t.Errorf("Expected notifications %v, got %v", want, fields)
	}
}

func TestConcurrentSetters(t *testing.T) {
	s := NewState(Options{})
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			s.SetContent("<p>x</p>")
			s.AddTag("t")
		}()
		go func() {
			defer wg.Done()
			s.Snapshot()
			s.Stats()
		}()
	}
	wg.Wait()

	if got := s.Snapshot().Tags; len(got) != 1 {
		t.Errorf("Expected a single tag, got %v", got)
	}
}
