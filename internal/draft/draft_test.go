package draft

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/debemdeboas/inkdraft/internal/storage"
)

type failingKV struct{ err error }

func (f failingKV) Get(string) ([]byte, error) { return nil, f.err }
func (f failingKV) Set(string, []byte) error   { return f.err }
func (f failingKV) Delete(string) error        { return f.err }

func TestKey(t *testing.T) {
	tests := []struct {
		profile, base, want string
	}{
		{"abc", "post_editor_draft_v1", "post_editor_draft_v1:abc"},
		{"", "post_editor_draft_v1", "post_editor_draft_v1"},
	}
	for _, tt := range tests {
		if got := Key(tt.profile, tt.base); got != tt.want {
			t.Errorf("Key(%q, %q) = %q, want %q", tt.profile, tt.base, got, tt.want)
		}
	}
}

func TestStoreRoundTrip(t *testing.T) {
	store := NewStore(storage.NewMemoryKV(), "post_editor_draft_v1")
	saved := Record{
		Title:   "Hello",
		Content: "<p>World</p>",
		SavedAt: time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC),
	}

	if err := store.Save(saved); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Title != saved.Title || loaded.Content != saved.Content || !loaded.SavedAt.Equal(saved.SavedAt) {
		t.Errorf("Round trip mismatch: got %+v, want %+v", loaded, saved)
	}
}

func TestStoreLayout(t *testing.T) {
	kv := storage.NewMemoryKV()
	store := NewStore(kv, "k")
	store.Save(Record{Title: "T", Content: "<p>C</p>", SavedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)})

	raw, err := kv.Get("k")
	if err != nil {
		t.Fatal(err)
	}
	want := `{"title":"T","content":"<p>C</p>","savedAt":"2024-01-02T03:04:05Z"}`
	if string(raw) != want {
		t.Errorf("Unexpected persisted layout:\n got %s\nwant %s", raw, want)
	}
}

func TestStoreClear(t *testing.T) {
	store := NewStore(storage.NewMemoryKV(), "k")
	store.Save(Record{Title: "T"})

	if err := store.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if _, err := store.Load(); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound after clear, got %v", err)
	}
	if err := store.Clear(); err != nil {
		t.Errorf("Expected clearing twice to succeed, got %v", err)
	}
}

func TestStoreLoadEmpty(t *testing.T) {
	store := NewStore(storage.NewMemoryKV(), "k")
	if _, err := store.Load(); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestStoreCorruptPayload(t *testing.T) {
	kv := storage.NewMemoryKV()
	kv.Set("k", []byte("{not json"))

	_, err := NewStore(kv, "k").Load()
	if err == nil || errors.Is(err, ErrNotFound) {
		t.Errorf("Expected decode error, got %v", err)
	}
}

func TestStoreBackendFailures(t *testing.T) {
	boom := errors.New("quota exceeded")
	store := NewStore(failingKV{err: boom}, "k")

	if err := store.Save(Record{}); !errors.Is(err, boom) {
		t.Errorf("Expected wrapped backend error from Save, got %v", err)
	}
	if _, err := store.Load(); !errors.Is(err, boom) {
		t.Errorf("Expected wrapped backend error from Load, got %v", err)
	}
	if err := store.Clear(); err == nil || !strings.Contains(err.Error(), "clear draft") {
		t.Errorf("Expected wrapped backend error from Clear, got %v", err)
	}
}
