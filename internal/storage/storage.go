// Package storage provides a key-value capability for persisting small blobs,
// with in-memory, SQLite and file backends.
package storage

import (
	"errors"

	"github.com/rs/zerolog"
)

// ErrNotFound is returned by Get when the key holds no value.
var ErrNotFound = errors.New("storage: key not found")

// KV stores opaque values under string keys. Delete of a missing key is not
// an error.
type KV interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Delete(key string) error
}

var storageLogger zerolog.Logger

func SetLogger(l zerolog.Logger) {
	storageLogger = l
}
