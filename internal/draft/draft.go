// Package draft persists the single working draft of a profile.
package draft

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/debemdeboas/inkdraft/internal/storage"
)

// ErrNotFound is returned by Load when no draft has been saved.
var ErrNotFound = errors.New("draft: no saved draft")

// Record is the persisted layout of a draft.
type Record struct {
	Title   string    `json:"title"`
	Content string    `json:"content"`
	SavedAt time.Time `json:"savedAt"`
}

// Key returns the storage key owned by profile.
func Key(profile, base string) string {
	if profile == "" {
		return base
	}
	return base + ":" + profile
}

// Store reads and writes one Record under a fixed key.
type Store struct {
	kv  storage.KV
	key string
}

func NewStore(kv storage.KV, key string) *Store {
	return &Store{kv: kv, key: key}
}

func (s *Store) Key() string {
	return s.key
}

// Save overwrites the stored record.
func (s *Store) Save(r Record) error {
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("encode draft: %w", err)
	}
	if err := s.kv.Set(s.key, data); err != nil {
		return fmt.Errorf("save draft: %w", err)
	}
	return nil
}

func (s *Store) Load() (Record, error) {
	data, err := s.kv.Get(s.key)
	if errors.Is(err, storage.ErrNotFound) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("load draft: %w", err)
	}

	var r Record
	if err := json.Unmarshal(data, &r); err != nil {
		return Record{}, fmt.Errorf("decode draft: %w", err)
	}
	return r, nil
}

func (s *Store) Clear() error {
	if err := s.kv.Delete(s.key); err != nil {
		return fmt.Errorf("clear draft: %w", err)
	}
	return nil
}
