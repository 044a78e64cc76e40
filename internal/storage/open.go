package storage

import (
	"fmt"

	"go.uber.org/zap"
)

const (
	BackendMemory   = "memory"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

// Options selects and configures a backend for Open.
type Options struct {
	Backend    string
	SQLitePath string
	Postgres   DatabaseConfig
	// QuotaBytes limits the memory backend; zero means unlimited.
	QuotaBytes int
}

func Open(opts Options, logger *zap.Logger) (Storage, error) {
	switch opts.Backend {
	case BackendMemory:
		logger.Info("Using in-memory storage")
		return NewMemoryStorage(WithQuota(opts.QuotaBytes)), nil
	case BackendSQLite, "":
		logger.Info("Using SQLite storage", zap.String("path", opts.SQLitePath))
		return NewSQLiteStorage(opts.SQLitePath, logger)
	case BackendPostgres:
		logger.Info("Using PostgreSQL storage", zap.String("host", opts.Postgres.Host))
		return NewPostgresStorage(opts.Postgres, logger)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", opts.Backend)
	}
}
