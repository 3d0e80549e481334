package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/exp/slog"
)

const (
	OpCreate  = "create"
	OpGet     = "get"
	OpUpdate  = "update"
	OpDelete  = "delete"
	OpHistory = "history"
)

// DefaultConflictRetries - сколько раз повторять цикл чтение-изменение-запись
// после проигранной проверки ревизии.
const DefaultConflictRetries = 5

// Observer получает сведения о выполненных операциях (метрики)
type Observer interface {
	ObserveOperation(operation, outcome string, duration time.Duration)
	ObserveConflict(operation string)
}

type Servicer interface {
	Create(ctx context.Context, rec Record) (Record, error)
	Get(ctx context.Context, userID int) (Record, error)
	Update(ctx context.Context, userID int, info Info) (Record, error)
	Delete(ctx context.Context, userID int) (int, error)
	History(ctx context.Context, userID int) ([]Record, error)
}

// Service поддерживает инвариант "не больше одной актуальной записи на user_id"
type Service struct {
	store    Store
	log      *slog.Logger
	observer Observer
	locks    *keyedMutex
	retries  int
	now      func() time.Time
}

type Option func(*Service)

func WithObserver(o Observer) Option {
	return func(s *Service) {
		s.observer = o
	}
}

func WithConflictRetries(n int) Option {
	return func(s *Service) {
		if n >= 0 {
			s.retries = n
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func NewService(store Store, log *slog.Logger, opts ...Option) *Service {
	s := &Service{
		store:   store,
		log:     log.With("component", "user_service"),
		locks:   newKeyedMutex(),
		retries: DefaultConflictRetries,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create делает rec новой актуальной версией пользователя, все прежние записи
// с тем же user_id становятся неактуальными.
func (s *Service) Create(ctx context.Context, rec Record) (created Record, err error) {
	defer s.observe(OpCreate, time.Now(), &err)

	if !rec.Actual() {
		s.log.Debug("rejected not actual record", "user_id", rec.UserID)
		return Record{}, ErrNotActual
	}

	rec.ID = 0
	rec.setActual(true)
	if rec.TimeOfAdd.IsZero() {
		rec.TimeOfAdd = s.now().UTC()
	}

	unlock := s.locks.Lock(rec.UserID)
	defer unlock()

	err = s.mutate(ctx, OpCreate, func(records []Record) ([]Record, error) {
		for i := range records {
			if records[i].UserID == rec.UserID {
				records[i].setActual(false)
			}
		}
		return append(records, rec), nil
	})
	if err != nil {
		s.log.Error("failed to create user", "user_id", rec.UserID, "error", err)
		return Record{}, fmt.Errorf("create user: %w", err)
	}

	s.log.Info("user created", "user_id", rec.UserID)
	return rec, nil
}

// Get возвращает актуальную запись пользователя.
// При нескольких актуальных записях берётся первая в порядке хранения.
func (s *Service) Get(ctx context.Context, userID int) (rec Record, err error) {
	defer s.observe(OpGet, time.Now(), &err)

	records, _, err := s.store.LoadAll(ctx)
	if err != nil {
		s.log.Error("failed to load users", "user_id", userID, "error", err)
		return Record{}, fmt.Errorf("get user: %w", err)
	}

	if i := findActual(records, userID); i >= 0 {
		return records[i], nil
	}
	return Record{}, ErrNotFound
}

// Update перезаписывает изменяемые поля актуальной записи на месте.
// UserID, TimeOfAdd и IsActual не меняются, новая версия не создаётся.
func (s *Service) Update(ctx context.Context, userID int, info Info) (updated Record, err error) {
	defer s.observe(OpUpdate, time.Now(), &err)

	unlock := s.locks.Lock(userID)
	defer unlock()

	err = s.mutate(ctx, OpUpdate, func(records []Record) ([]Record, error) {
		i := findActual(records, userID)
		if i < 0 {
			return nil, ErrNotFound
		}
		records[i].apply(info)
		updated = records[i]
		return records, nil
	})
	if errors.Is(err, ErrNotFound) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		s.log.Error("failed to update user", "user_id", userID, "error", err)
		return Record{}, fmt.Errorf("update user: %w", err)
	}

	s.log.Info("user updated", "user_id", userID)
	return updated, nil
}

// Delete удаляет все записи пользователя, актуальные и исторические.
// Возвращает количество удалённых записей, ноль не считается ошибкой.
func (s *Service) Delete(ctx context.Context, userID int) (removed int, err error) {
	defer s.observe(OpDelete, time.Now(), &err)

	unlock := s.locks.Lock(userID)
	defer unlock()

	err = s.mutate(ctx, OpDelete, func(records []Record) ([]Record, error) {
		kept := make([]Record, 0, len(records))
		for _, r := range records {
			if r.UserID != userID {
				kept = append(kept, r)
			}
		}
		removed = len(records) - len(kept)
		return kept, nil
	})
	if err != nil {
		s.log.Error("failed to delete user", "user_id", userID, "error", err)
		return 0, fmt.Errorf("delete user: %w", err)
	}

	s.log.Info("user deleted", "user_id", userID, "removed", removed)
	return removed, nil
}

// History возвращает все записи пользователя в порядке хранения
func (s *Service) History(ctx context.Context, userID int) (history []Record, err error) {
	defer s.observe(OpHistory, time.Now(), &err)

	records, _, err := s.store.LoadAll(ctx)
	if err != nil {
		s.log.Error("failed to load users", "user_id", userID, "error", err)
		return nil, fmt.Errorf("user history: %w", err)
	}

	for _, r := range records {
		if r.UserID == userID {
			history = append(history, r)
		}
	}
	if len(history) == 0 {
		return nil, ErrNotFound
	}
	return history, nil
}

// mutate выполняет цикл чтение-изменение-запись. При ErrConflict
// коллекция перечитывается и fn вызывается заново.
func (s *Service) mutate(ctx context.Context, op string, fn func([]Record) ([]Record, error)) error {
	for attempt := 0; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		records, rev, err := s.store.LoadAll(ctx)
		if err != nil {
			return fmt.Errorf("load records: %w", err)
		}

		next, err := fn(records)
		if err != nil {
			return err
		}

		err = s.store.SaveAll(ctx, next, rev)
		if err == nil {
			return nil
		}
		if !errors.Is(err, ErrConflict) {
			return fmt.Errorf("save records: %w", err)
		}

		if s.observer != nil {
			s.observer.ObserveConflict(op)
		}
		if attempt >= s.retries {
			return err
		}
		s.log.Debug("store revision changed, retrying", "operation", op, "attempt", attempt+1)
	}
}

func (s *Service) observe(op string, start time.Time, errp *error) {
	if s.observer == nil {
		return
	}
	s.observer.ObserveOperation(op, Outcome(*errp), time.Since(start))
}

// Outcome классифицирует ошибку операции для метрик и логов
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrNotActual):
		return "not_actual"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrConflict):
		return "conflict"
	case errors.Is(err, ErrStoreUnavailable):
		return "store_unavailable"
	case errors.Is(err, ErrStoreWriteFailed):
		return "store_write_failed"
	default:
		return "error"
	}
}

func findActual(records []Record, userID int) int {
	for i, r := range records {
		if r.UserID == userID && r.Actual() {
			return i
		}
	}
	return -1
}
