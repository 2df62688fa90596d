package storage

import (
	"fmt"

	"github.com/debemdeboas/inkdraft/internal/config"
	"github.com/debemdeboas/inkdraft/internal/db"
	"github.com/debemdeboas/inkdraft/internal/util/compression"
)

// Open initializes the post database and the draft KV selected by
// cfg.Driver. The memory driver also keeps posts in memory. codec compresses
// sqlite values; nil means zstd.
func Open(cfg config.StorageConfig, codec compression.Compressor) (db.DB, KV, error) {
	path := cfg.Path
	if cfg.Driver == "memory" {
		path = ":memory:"
	}

	database := db.NewSQLite(path)
	if err := database.InitDB(); err != nil {
		return nil, nil, fmt.Errorf(config.ErrInitializeDatabaseFmt, err)
	}

	var kv KV
	switch cfg.Driver {
	case "sqlite":
		kv = NewSQLiteKV(database, codec)
	case "memory":
		kv = NewMemoryKV()
	case "file":
		fileKV, err := NewFileKV(cfg.Dir)
		if err != nil {
			database.Close()
			return nil, nil, err
		}
		kv = fileKV
	default:
		database.Close()
		return nil, nil, fmt.Errorf(config.ErrUnknownStorageDriverFmt, cfg.Driver)
	}

	storageLogger.Info().Str("driver", cfg.Driver).Msg("Draft storage opened")
	return database, kv, nil
}
