package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/exp/slog"

	"usersvc/internal/app/server/config"
	"usersvc/internal/domain/user"
	"usersvc/internal/infrastructure/storage/jsonfile"
	"usersvc/internal/infrastructure/storage/postgres"
	"usersvc/internal/infrastructure/storage/sqlite"
)

type Storage interface {
	user.Store
	Ping(ctx context.Context) error
	Close() error
}

// Open открывает хранилище, выбранное в конфигурации
func Open(ctx context.Context, cfg config.Storage, log *slog.Logger) (Storage, error) {
	log = log.With("backend", cfg.Backend)

	switch cfg.Backend {
	case config.BackendJSON:
		if err := ensureDir(cfg.DataFile); err != nil {
			return nil, err
		}
		log.Info("using json file storage", "path", cfg.DataFile)
		return jsonfile.New(cfg.DataFile, log), nil

	case config.BackendSQLite:
		if err := ensureDir(cfg.SQLitePath); err != nil {
			return nil, err
		}
		s, err := sqlite.New(ctx, cfg.SQLitePath, cfg.Migrations, log)
		if err != nil {
			return nil, fmt.Errorf("open sqlite storage: %w", err)
		}
		log.Info("using sqlite storage", "path", cfg.SQLitePath)
		return s, nil

	case config.BackendPostgres:
		s, err := postgres.New(ctx, cfg.DatabaseURI, cfg.Migrations, log)
		if err != nil {
			return nil, fmt.Errorf("open postgres storage: %w", err)
		}
		log.Info("using postgres storage")
		return s, nil
	}

	return nil, fmt.Errorf("%w: %q", config.ErrUnknownBackend, cfg.Backend)
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create data directory %s: %w", dir, err)
	}
	return nil
}
