package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/debemdeboas/inkdraft/internal/db"
	"github.com/debemdeboas/inkdraft/internal/util"
	"github.com/debemdeboas/inkdraft/internal/util/compression"
)

// SQLiteKV stores compressed values in the drafts table.
type SQLiteKV struct {
	db         db.DB
	compressor compression.Compressor
}

// NewSQLiteKV stores values compressed with codec, or zstd when codec is nil.
func NewSQLiteKV(database db.DB, codec compression.Compressor) *SQLiteKV {
	if codec == nil {
		codec = compression.Default()
	}
	return &SQLiteKV{
		db:         database,
		compressor: codec,
	}
}

func (s *SQLiteKV) Get(key string) ([]byte, error) {
	var compressed []byte
	err := s.db.QueryRow(`SELECT value FROM drafts WHERE key = ?`, key).Scan(&compressed)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error reading %s: %w", key, err)
	}

	value, err := s.compressor.Decompress(compressed)
	if err != nil {
		return nil, fmt.Errorf("error decompressing %s: %w", key, err)
	}
	return value, nil
}

func (s *SQLiteKV) Set(key string, value []byte) error {
	compressed, err := s.compressor.Compress(value)
	if err != nil {
		return fmt.Errorf("error compressing %s: %w", key, err)
	}

	hash := util.ContentHash(value)
	_, err = s.db.Exec(
		`INSERT INTO drafts (key, value, content_hash, modified_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, content_hash = excluded.content_hash, modified_at = excluded.modified_at`,
		key, compressed, hash, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("error saving %s: %w", key, err)
	}

	storageLogger.Debug().
		Str("key", key).
		Str("content_hash", hash).
		Int("size", len(value)).
		Int("compressed_size", len(compressed)).
		Msg("Value stored")
	return nil
}

func (s *SQLiteKV) Delete(key string) error {
	if _, err := s.db.Exec(`DELETE FROM drafts WHERE key = ?`, key); err != nil {
		return fmt.Errorf("error deleting %s: %w", key, err)
	}
	return nil
}
