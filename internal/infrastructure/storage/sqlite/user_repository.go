package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	"golang.org/x/exp/slog"

	"usersvc/internal/domain/user"
)

// UserRepository хранит коллекцию в таблице users.
// Ревизия коллекции - счётчик в единственной строке store_revision.
type UserRepository struct {
	db  *sql.DB
	log *slog.Logger
}

func NewUserRepository(db *sql.DB, log *slog.Logger) *UserRepository {
	return &UserRepository{
		db:  db,
		log: log.With("component", "user_repository", "backend", backend),
	}
}

func (r *UserRepository) LoadAll(ctx context.Context) ([]user.Record, user.Revision, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		r.log.Error("failed to begin read", "error", err)
		return nil, "", fmt.Errorf("%w: begin: %v", user.ErrStoreUnavailable, err)
	}
	defer tx.Rollback() //nolint:errcheck

	var rev int64
	if err := tx.QueryRowContext(ctx, `SELECT revision FROM store_revision WHERE id = 1`).Scan(&rev); err != nil {
		r.log.Error("failed to read revision", "error", err)
		return nil, "", fmt.Errorf("%w: read revision: %v", user.ErrStoreUnavailable, err)
	}

	const query = `
		SELECT id, user_id, user_name, user_surname, age, height, weight, time_of_add, is_actual
		FROM users
		ORDER BY id`

	rows, err := tx.QueryContext(ctx, query)
	if err != nil {
		r.log.Error("failed to list users", "error", err)
		return nil, "", fmt.Errorf("%w: list users: %v", user.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	records := []user.Record{}
	for rows.Next() {
		var rec user.Record
		// user_name в схеме допускает NULL
		var name sql.NullString
		if err := rows.Scan(&rec.ID, &rec.UserID, &name, &rec.UserSurname,
			&rec.Age, &rec.Height, &rec.Weight, &rec.TimeOfAdd, &rec.IsActual); err != nil {
			r.log.Error("failed to scan user", "error", err)
			return nil, "", fmt.Errorf("%w: scan user: %v", user.ErrStoreUnavailable, err)
		}
		rec.UserName = name.String
		rec.TimeOfAdd = rec.TimeOfAdd.UTC()
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, "", fmt.Errorf("%w: list users: %v", user.ErrStoreUnavailable, err)
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

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return r.writeFailed("begin", err)
	}
	defer tx.Rollback() //nolint:errcheck

	res, err := tx.ExecContext(ctx,
		`UPDATE store_revision SET revision = revision + 1 WHERE id = 1 AND revision = ?`, exp)
	if err != nil {
		return r.writeFailed("bump revision", err)
	}
	if n, err := res.RowsAffected(); err != nil || n == 0 {
		if err != nil {
			return r.writeFailed("bump revision", err)
		}
		return user.ErrConflict
	}

	if err := r.deleteMissing(ctx, tx, records); err != nil {
		return r.writeFailed("delete users", err)
	}

	update, err := tx.PrepareContext(ctx, `
		UPDATE users
		SET user_id = ?, user_name = ?, user_surname = ?, age = ?,
		    height = ?, weight = ?, time_of_add = ?, is_actual = ?
		WHERE id = ?`)
	if err != nil {
		return r.writeFailed("prepare update", err)
	}
	defer update.Close()

	insert, err := tx.PrepareContext(ctx, `
		INSERT INTO users (user_id, user_name, user_surname, age, height, weight, time_of_add, is_actual)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return r.writeFailed("prepare insert", err)
	}
	defer insert.Close()

	inserted := 0
	for _, rec := range records {
		if rec.ID != 0 {
			res, err := update.ExecContext(ctx, rec.UserID, rec.UserName, rec.UserSurname,
				rec.Age, rec.Height, rec.Weight, rec.TimeOfAdd, rec.IsActual, rec.ID)
			if err != nil {
				return r.writeFailed("update user", err)
			}
			if n, _ := res.RowsAffected(); n > 0 {
				continue
			}
		}
		if _, err := insert.ExecContext(ctx, rec.UserID, rec.UserName, rec.UserSurname,
			rec.Age, rec.Height, rec.Weight, rec.TimeOfAdd, rec.IsActual); err != nil {
			return r.writeFailed("insert user", err)
		}
		inserted++
	}

	if err := tx.Commit(); err != nil {
		return r.writeFailed("commit", err)
	}

	r.log.Debug("users saved", "records", len(records), "inserted", inserted)
	return nil
}

// deleteMissing удаляет строки, чьих id нет среди records.
// Список сохраняемых id кладётся во временную таблицу, чтобы не упираться
// в лимит параметров запроса.
func (r *UserRepository) deleteMissing(ctx context.Context, tx *sql.Tx, records []user.Record) error {
	if _, err := tx.ExecContext(ctx, `CREATE TEMP TABLE IF NOT EXISTS keep_ids (id INTEGER PRIMARY KEY)`); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM keep_ids`); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT OR IGNORE INTO keep_ids (id) VALUES (?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, rec := range records {
		if rec.ID == 0 {
			continue
		}
		if _, err := stmt.ExecContext(ctx, rec.ID); err != nil {
			return err
		}
	}

	_, err = tx.ExecContext(ctx, `DELETE FROM users WHERE id NOT IN (SELECT id FROM keep_ids)`)
	return err
}

func (r *UserRepository) writeFailed(step string, err error) error {
	r.log.Error("failed to save users", "step", step, "error", err)
	return fmt.Errorf("%w: %s: %v", user.ErrStoreWriteFailed, step, err)
}
