package storage

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/debemdeboas/inkdraft/internal/db"
	"github.com/debemdeboas/inkdraft/internal/util/compression"
	"github.com/rs/zerolog"
)

func newSQLiteKV(t *testing.T) *SQLiteKV {
	t.Helper()
	db.SetLogger(zerolog.Nop())

	database := db.NewSQLite(":memory:")
	if err := database.InitDB(); err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return NewSQLiteKV(database, nil)
}

func newFileKV(t *testing.T) *FileKV {
	t.Helper()
	kv, err := NewFileKV(filepath.Join(t.TempDir(), "drafts"))
	if err != nil {
		t.Fatalf("Failed to create file store: %v", err)
	}
	return kv
}

func TestBackends(t *testing.T) {
	SetLogger(zerolog.Nop())

	backends := map[string]func(t *testing.T) KV{
		"memory": func(t *testing.T) KV { return NewMemoryKV() },
		"sqlite": func(t *testing.T) KV { return newSQLiteKV(t) },
		"file":   func(t *testing.T) KV { return newFileKV(t) },
	}

	for name, newKV := range backends {
		t.Run(name, func(t *testing.T) {
			kv := newKV(t)

			t.Run("Get missing key", func(t *testing.T) {
				if _, err := kv.Get("missing"); !errors.Is(err, ErrNotFound) {
					t.Errorf("Expected ErrNotFound, got %v", err)
				}
			})

			t.Run("Set then Get", func(t *testing.T) {
				if err := kv.Set("post_editor_draft_v1:p1", []byte(`{"title":"a"}`)); err != nil {
					t.Fatalf("Set failed: %v", err)
				}
				got, err := kv.Get("post_editor_draft_v1:p1")
				if err != nil {
					t.Fatalf("Get failed: %v", err)
				}
				if string(got) != `{"title":"a"}` {
					t.Errorf("Unexpected value %q", got)
				}
			})

			t.Run("Set overwrites", func(t *testing.T) {
				if err := kv.Set("post_editor_draft_v1:p1", []byte(`{"title":"b"}`)); err != nil {
					t.Fatalf("Set failed: %v", err)
				}
				got, _ := kv.Get("post_editor_draft_v1:p1")
				if string(got) != `{"title":"b"}` {
					t.Errorf("Expected last write to win, got %q", got)
				}
			})

			t.Run("Keys are independent", func(t *testing.T) {
				if _, err := kv.Get("post_editor_draft_v1:p2"); !errors.Is(err, ErrNotFound) {
					t.Errorf("Expected other profile to be empty, got %v", err)
				}
			})

			t.Run("Delete", func(t *testing.T) {
				if err := kv.Delete("post_editor_draft_v1:p1"); err != nil {
					t.Fatalf("Delete failed: %v", err)
				}
				if _, err := kv.Get("post_editor_draft_v1:p1"); !errors.Is(err, ErrNotFound) {
					t.Errorf("Expected ErrNotFound after delete, got %v", err)
				}
				if err := kv.Delete("post_editor_draft_v1:p1"); err != nil {
					t.Errorf("Expected deleting a missing key to succeed, got %v", err)
				}
			})
		})
	}
}

func TestMemoryKVCopiesValues(t *testing.T) {
	kv := NewMemoryKV()
	value := []byte("original")
	kv.Set("k", value)
	value[0] = 'X'

	got, _ := kv.Get("k")
	if string(got) != "original" {
		t.Errorf("Expected stored value to be isolated from caller, got %q", got)
	}
}

func TestSQLiteKVCompressesValues(t *testing.T) {
	kv := newSQLiteKV(t)
	value := []byte(strings.Repeat("<p>lorem ipsum</p>", 200))

	if err := kv.Set("k", value); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	var stored []byte
	var hash string
	if err := kv.db.QueryRow(`SELECT value, content_hash FROM drafts WHERE key = ?`, "k").Scan(&stored, &hash); err != nil {
		t.Fatalf("Failed to read raw row: %v", err)
	}
	if len(stored) >= len(value) {
		t.Errorf("Expected compressed value, got %d bytes for %d input", len(stored), len(value))
	}
	if hash == "" {
		t.Error("Expected content hash to be recorded")
	}
}

func TestFileKVEscapesKeys(t *testing.T) {
	kv := newFileKV(t)

	if err := kv.Set("../../etc/passwd", []byte("x")); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	entries, err := os.ReadDir(kv.dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("Expected exactly one file in store dir, got %d", len(entries))
	}
	if strings.Contains(entries[0].Name(), "/") {
		t.Errorf("Unexpected file name %q", entries[0].Name())
	}

	got, err := kv.Get("../../etc/passwd")
	if err != nil || string(got) != "x" {
		t.Errorf("Expected round trip through escaped key, got %q (%v)", got, err)
	}
}

func TestSQLiteKVReadsRowsAfterCodecSwitch(t *testing.T) {
	SetLogger(zerolog.Nop())
	db.SetLogger(zerolog.Nop())

	database := db.NewSQLite(":memory:")
	if err := database.InitDB(); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { database.Close() })

	gzipCodec, err := compression.New("gzip")
	if err != nil {
		t.Fatal(err)
	}
	if err := NewSQLiteKV(database, gzipCodec).Set("draft", []byte("<p>old</p>")); err != nil {
		t.Fatal(err)
	}

	got, err := NewSQLiteKV(database, nil).Get("draft")
	if err != nil || string(got) != "<p>old</p>" {
		t.Errorf("Expected gzip row to stay readable, got %q (%v)", got, err)
	}
}
