package jsonfile

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"

	"usersvc/internal/domain/user"
)

func record(userID int, name string, actual bool) user.Record {
	surname := "Петров"
	age := 41
	weight := 80.5
	return user.Record{
		UserID:      userID,
		UserName:    name,
		UserSurname: &surname,
		Age:         &age,
		Weight:      &weight,
		TimeOfAdd:   time.Date(2024, 3, 8, 10, 30, 0, 0, time.UTC),
		IsActual:    &actual,
	}
}

func newStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.json")
	return New(path, slog.Default()), path
}

func TestStore_LoadAll_MissingFile(t *testing.T) {
	store, _ := newStore(t)

	records, rev, err := store.LoadAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.Equal(t, user.Revision(""), rev)
}

func TestStore_SaveAndLoad(t *testing.T) {
	store, path := newStore(t)
	ctx := context.Background()

	in := []user.Record{record(5, "Иван", false), record(5, "Пётр", true)}
	require.NoError(t, store.SaveAll(ctx, in, ""))

	out, rev, err := store.LoadAll(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, rev)
	require.Len(t, out, 2)
	assert.Equal(t, "Иван", out[0].UserName)
	assert.False(t, out[0].Actual())
	assert.True(t, out[1].Actual())
	assert.Equal(t, *in[1].Weight, *out[1].Weight)
	assert.True(t, in[1].TimeOfAdd.Equal(out[1].TimeOfAdd))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "Пётр")
	assert.Contains(t, string(raw), "\n    {")
	assert.Contains(t, string(raw), `"is_actual": true`)
	assert.NotContains(t, string(raw), `"id"`)
}

func TestStore_NullFields(t *testing.T) {
	store, path := newStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveAll(ctx, []user.Record{{UserID: 1, UserName: "a"}}, ""))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"user_surname": null`)
	assert.Contains(t, string(raw), `"is_actual": null`)

	out, _, err := store.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Nil(t, out[0].IsActual)
	assert.False(t, out[0].Actual())
}

func TestStore_SaveAll_Conflict(t *testing.T) {
	store, _ := newStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveAll(ctx, []user.Record{record(1, "a", true)}, ""))
	_, rev, err := store.LoadAll(ctx)
	require.NoError(t, err)

	// another writer wins
	require.NoError(t, store.SaveAll(ctx, []user.Record{record(2, "b", true)}, rev))

	err = store.SaveAll(ctx, []user.Record{record(3, "c", true)}, rev)
	assert.ErrorIs(t, err, user.ErrConflict)

	out, _, err := store.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, 2, out[0].UserID)
}

func TestStore_SaveAll_StaleEmptyRevision(t *testing.T) {
	store, _ := newStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveAll(ctx, []user.Record{record(1, "a", true)}, ""))

	err := store.SaveAll(ctx, nil, "")
	assert.ErrorIs(t, err, user.ErrConflict)
}

func TestStore_SaveAll_Empty(t *testing.T) {
	store, path := newStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveAll(ctx, nil, ""))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[]", strings.TrimSpace(string(raw)))

	out, _, err := store.LoadAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestStore_LoadAll_Corrupted(t *testing.T) {
	store, path := newStore(t)
	require.NoError(t, os.WriteFile(path, []byte(`{"user_id": 1`), 0o644))

	_, _, err := store.LoadAll(context.Background())
	assert.ErrorIs(t, err, user.ErrStoreUnavailable)
}

func TestStore_LoadAll_EmptyFile(t *testing.T) {
	store, path := newStore(t)
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	records, rev, err := store.LoadAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.NotEmpty(t, rev)

	require.NoError(t, store.SaveAll(context.Background(), []user.Record{record(1, "a", true)}, rev))
}

func TestStore_SaveAll_WriteFailed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "data.json")
	store := New(path, slog.Default())

	err := store.SaveAll(context.Background(), []user.Record{record(1, "a", true)}, "")
	assert.ErrorIs(t, err, user.ErrStoreWriteFailed)

	entries, err := os.ReadDir(filepath.Dir(filepath.Dir(path)))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestStore_CanceledContext(t *testing.T) {
	store, _ := newStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := store.LoadAll(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, store.SaveAll(ctx, nil, ""), context.Canceled)
}

func TestStore_WithService(t *testing.T) {
	store, _ := newStore(t)
	service := user.NewService(store, slog.Default())
	ctx := context.Background()

	_, err := service.Create(ctx, record(5, "first", true))
	require.NoError(t, err)
	_, err = service.Create(ctx, record(5, "second", true))
	require.NoError(t, err)

	_, err = service.Update(ctx, 5, user.Info{UserName: "X"})
	require.NoError(t, err)

	history, err := service.History(ctx, 5)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "first", history[0].UserName)
	assert.Equal(t, "X", history[1].UserName)

	removed, err := service.Delete(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	_, err = service.Get(ctx, 5)
	assert.ErrorIs(t, err, user.ErrNotFound)
}

func TestStore_LoadAll_NaiveTimestamps(t *testing.T) {
	store, path := newStore(t)
	ctx := context.Background()

	// документ в том виде, в каком его пишет прежняя версия сервиса
	doc := `[
    {
        "user_id": 7,
        "user_name": "Анна",
        "user_surname": null,
        "age": 30,
        "height": null,
        "weight": null,
        "time_of_add": "2024-03-08T10:30:00.123456",
        "is_actual": true
    }
]`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	out, rev, err := store.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, time.Date(2024, 3, 8, 10, 30, 0, 123456000, time.UTC), out[0].TimeOfAdd)

	service := user.NewService(store, slog.Default())
	got, err := service.Get(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, "Анна", got.UserName)

	_, err = service.Update(ctx, 7, user.Info{UserName: "Анна", Age: got.Age})
	require.NoError(t, err)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"time_of_add": "2024-03-08T10:30:00.123456Z"`)

	_, newRev, err := store.LoadAll(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, rev, newRev)
}

func TestStore_Ping(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		store, _ := newStore(t)
		assert.NoError(t, store.Ping(context.Background()))
	})

	t.Run("existing file", func(t *testing.T) {
		store, _ := newStore(t)
		require.NoError(t, store.SaveAll(context.Background(), nil, ""))
		assert.NoError(t, store.Ping(context.Background()))
	})

	t.Run("missing directory", func(t *testing.T) {
		store := New(filepath.Join(t.TempDir(), "missing", "data.json"), slog.Default())
		assert.ErrorIs(t, store.Ping(context.Background()), user.ErrStoreUnavailable)
	})

	t.Run("directory is a file", func(t *testing.T) {
		parent := filepath.Join(t.TempDir(), "file")
		require.NoError(t, os.WriteFile(parent, nil, 0o644))
		store := New(filepath.Join(parent, "data.json"), slog.Default())
		assert.ErrorIs(t, store.Ping(context.Background()), user.ErrStoreUnavailable)
	})
}
