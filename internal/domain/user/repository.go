package user

import (
	"context"
)

// Store хранит всю коллекцию записей целиком: каждая мутация читает
// все записи и записывает новую коллекцию обратно.
type Store interface {
	// LoadAll возвращает все записи (актуальные и исторические) в порядке хранения.
	// Отсутствующий носитель считается пустым хранилищем с пустой ревизией.
	LoadAll(ctx context.Context) ([]Record, Revision, error)
	// SaveAll атомарно заменяет коллекцию. Возвращает ErrConflict,
	// если ревизия в хранилище отличается от expected.
	SaveAll(ctx context.Context, records []Record, expected Revision) error
}
