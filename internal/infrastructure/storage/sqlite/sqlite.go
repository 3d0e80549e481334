package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"golang.org/x/exp/slog"

	"usersvc/internal/domain/user"
	"usersvc/internal/infrastructure/migration"
)

const (
	backend = "sqlite"
	dsnOpts = "?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000&_txlock=immediate"
)

type Storage struct {
	*UserRepository
	db *sql.DB
}

// New применяет миграции к файлу path и открывает базу.
// Пустой migrationsPath - миграции, вшитые в бинарник.
func New(ctx context.Context, path, migrationsPath string, log *slog.Logger) (*Storage, error) {
	mg := migration.NewMigration(migration.SourceURL(migrationsPath, backend), "sqlite3://"+path+dsnOpts, migration.DefaultEngine)
	if err := mg.Up(); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	db, err := sql.Open("sqlite3", path+dsnOpts)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// один писатель на файл
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	return &Storage{
		UserRepository: NewUserRepository(db, log),
		db:             db,
	}, nil
}

func (s *Storage) Close() error {
	return s.db.Close()
}

// Ping проверяет, что файл базы доступен
func (s *Storage) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: ping sqlite: %v", user.ErrStoreUnavailable, err)
	}
	return nil
}
