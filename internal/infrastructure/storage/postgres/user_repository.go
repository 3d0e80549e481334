package postgres

import (
	"context"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/exp/slog"

	"usersvc/internal/domain/user"
)

var columns = []string{"user_id", "user_name", "user_surname", "age", "height", "weight", "time_of_add", "is_actual"}

// UserRepository хранит коллекцию в таблице users.
// Ревизия коллекции - счётчик в единственной строке store_revision.
type UserRepository struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

func NewUserRepository(pool *pgxpool.Pool, log *slog.Logger) *UserRepository {
	return &UserRepository{
		pool: pool,
		log:  log.With("component", "user_repository", "backend", backend),
	}
}

func (r *UserRepository) LoadAll(ctx context.Context) ([]user.Record, user.Revision, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly})
	if err != nil {
		r.log.Error("failed to begin read", "error", err)
		return nil, "", fmt.Errorf("%w: begin: %v", user.ErrStoreUnavailable, err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	var rev int64
	if err := tx.QueryRow(ctx, `SELECT revision FROM store_revision WHERE id = 1`).Scan(&rev); err != nil {
		r.log.Error("failed to read revision", "error", err)
		return nil, "", fmt.Errorf("%w: read revision: %v", user.ErrStoreUnavailable, err)
	}

	const query = `
		SELECT id, user_id, user_name, user_surname, age, height, weight, time_of_add, is_actual
		FROM users
		ORDER BY id`

	rows, err := tx.Query(ctx, query)
	if err != nil {
		r.log.Error("failed to list users", "error", err)
		return nil, "", fmt.Errorf("%w: list users: %v", user.ErrStoreUnavailable, err)
	}
	records, err := scanRecords(rows)
	if err != nil {
		r.log.Error("failed to scan users", "error", err)
		return nil, "", fmt.Errorf("%w: scan users: %v", user.ErrStoreUnavailable, err)
	}

	return records, user.Revision(strconv.FormatInt(rev, 10)), nil
}

// SaveAll приводит таблицу к состоянию records одной транзакцией:
// удаляет пропавшие строки, обновляет сохранённые, вставляет новые.
func (r *UserRepository) SaveAll(ctx context.Context, records []user.Record, expected user.Revision) error {
	exp, err := strconv.ParseInt(string(expected), 10, 64)
	if err != nil {
		return user.ErrConflict
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return r.writeFailed("begin", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	tag, err := tx.Exec(ctx,
		`UPDATE store_revision SET revision = revision + 1 WHERE id = 1 AND revision = $1`, exp)
	if err != nil {
		return r.writeFailed("bump revision", err)
	}
	if tag.RowsAffected() == 0 {
		return user.ErrConflict
	}

	keep := make([]int64, 0, len(records))
	for _, rec := range records {
		if rec.ID != 0 {
			keep = append(keep, rec.ID)
		}
	}
	if _, err := tx.Exec(ctx, `DELETE FROM users WHERE NOT (id = ANY($1))`, keep); err != nil {
		return r.writeFailed("delete users", err)
	}

	fresh, err := r.updateExisting(ctx, tx, records)
	if err != nil {
		return r.writeFailed("update users", err)
	}

	if len(fresh) > 0 {
		rows := make([][]any, 0, len(fresh))
		for _, rec := range fresh {
			rows = append(rows, []any{
				rec.UserID, rec.UserName, rec.UserSurname, rec.Age, rec.Height, rec.Weight, rec.TimeOfAdd, rec.IsActual,
			})
		}
		if _, err := tx.CopyFrom(ctx, pgx.Identifier{"users"}, columns, pgx.CopyFromRows(rows)); err != nil {
			return r.writeFailed("insert users", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return r.writeFailed("commit", err)
	}

	r.log.Debug("users saved", "records", len(records), "inserted", len(fresh))
	return nil
}

// updateExisting обновляет строки с известным id и возвращает записи,
// которые нужно вставить.
func (r *UserRepository) updateExisting(ctx context.Context, tx pgx.Tx, records []user.Record) ([]user.Record, error) {
	const query = `
		UPDATE users
		SET user_id = $2, user_name = $3, user_surname = $4, age = $5,
		    height = $6, weight = $7, time_of_add = $8, is_actual = $9
		WHERE id = $1`

	var fresh, existing []user.Record
	batch := &pgx.Batch{}
	for _, rec := range records {
		if rec.ID == 0 {
			fresh = append(fresh, rec)
			continue
		}
		existing = append(existing, rec)
		batch.Queue(query, rec.ID, rec.UserID, rec.UserName, rec.UserSurname,
			rec.Age, rec.Height, rec.Weight, rec.TimeOfAdd, rec.IsActual)
	}
	if batch.Len() == 0 {
		return fresh, nil
	}

	br := tx.SendBatch(ctx, batch)
	for _, rec := range existing {
		tag, err := br.Exec()
		if err != nil {
			_ = br.Close()
			return nil, err
		}
		if tag.RowsAffected() == 0 {
			fresh = append(fresh, rec)
		}
	}
	if err := br.Close(); err != nil {
		return nil, err
	}
	return fresh, nil
}

func (r *UserRepository) writeFailed(step string, err error) error {
	r.log.Error("failed to save users", "step", step, "error", err)
	return fmt.Errorf("%w: %s: %v", user.ErrStoreWriteFailed, step, err)
}

func scanRecords(rows pgx.Rows) ([]user.Record, error) {
	defer rows.Close()

	records := []user.Record{}
	for rows.Next() {
		var (
			rec  user.Record
			name pgtype.Text
		)
		if err := rows.Scan(&rec.ID, &rec.UserID, &name, &rec.UserSurname,
			&rec.Age, &rec.Height, &rec.Weight, &rec.TimeOfAdd, &rec.IsActual); err != nil {
			return nil, err
		}
		rec.UserName = name.String
		rec.TimeOfAdd = rec.TimeOfAdd.UTC()
		records = append(records, rec)
	}
	return records, rows.Err()
}
