package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/exp/slog"

	"usersvc/internal/domain/user"
	"usersvc/internal/infrastructure/migration"
)

const backend = "postgres"

type Storage struct {
	*UserRepository
	pool *pgxpool.Pool
}

// New применяет миграции и открывает пул соединений.
// Пустой migrationsPath - миграции, вшитые в бинарник.
func New(ctx context.Context, databaseURI, migrationsPath string, log *slog.Logger) (*Storage, error) {
	mg := migration.NewMigration(migration.SourceURL(migrationsPath, backend), databaseURI, migration.DefaultEngine)
	if err := mg.Up(); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	pool, err := pgxpool.New(ctx, databaseURI)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}

	return &Storage{
		UserRepository: NewUserRepository(pool, log),
		pool:           pool,
	}, nil
}

func (s *Storage) Close() error {
	s.pool.Close()
	return nil
}

// Ping проверяет соединение с базой
func (s *Storage) Ping(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		return fmt.Errorf("%w: ping postgres: %v", user.ErrStoreUnavailable, err)
	}
	return nil
}
