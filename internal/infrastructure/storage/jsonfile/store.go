// Package jsonfile хранит записи пользователей в одном JSON-документе:
// массив объектов, каждый объект - сериализованная user.Record.
package jsonfile

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/exp/slog"

	"usersvc/internal/domain/user"
)

const filePerm = 0o644

type Store struct {
	path string
	mu   sync.Mutex
	log  *slog.Logger
}

func New(path string, log *slog.Logger) *Store {
	return &Store{
		path: path,
		log:  log.With("component", "jsonfile_store", "path", path),
	}
}

// LoadAll читает документ целиком. Отсутствующий файл - пустое хранилище.
func (s *Store) LoadAll(ctx context.Context) ([]user.Record, user.Revision, error) {
	if err := ctx.Err(); err != nil {
		return nil, "", err
	}

	data, rev, err := s.read()
	if err != nil {
		return nil, "", err
	}

	records, err := decode(data)
	if err != nil {
		s.log.Error("failed to decode document", "error", err)
		return nil, "", fmt.Errorf("%w: decode %s: %v", user.ErrStoreUnavailable, s.path, err)
	}

	return records, rev, nil
}

// SaveAll заменяет документ, если с момента чтения он не менялся.
// Новый документ пишется во временный файл и переименовывается поверх старого.
func (s *Store) SaveAll(ctx context.Context, records []user.Record, expected user.Revision) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, current, err := s.read()
	if err != nil {
		return err
	}
	if current != expected {
		return user.ErrConflict
	}

	data, err := encode(records)
	if err != nil {
		return fmt.Errorf("%w: encode: %v", user.ErrStoreWriteFailed, err)
	}

	if err := s.write(data); err != nil {
		s.log.Error("failed to write document", "error", err)
		return fmt.Errorf("%w: %v", user.ErrStoreWriteFailed, err)
	}

	s.log.Debug("document saved", "records", len(records))
	return nil
}

// Ping проверяет, что каталог документа существует, а сам документ читается
func (s *Store) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("%w: %v", user.ErrStoreUnavailable, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", user.ErrStoreUnavailable, dir)
	}

	_, _, err = s.read()
	return err
}

func (s *Store) Close() error {
	return nil
}

func (s *Store) read() ([]byte, user.Revision, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("%w: read %s: %v", user.ErrStoreUnavailable, s.path, err)
	}
	return data, revisionOf(data), nil
}

func (s *Store) write(data []byte) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err = tmp.Chmod(filePerm); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err = os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace %s: %w", s.path, err)
	}
	return nil
}

func decode(data []byte) ([]user.Record, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return []user.Record{}, nil
	}

	var records []user.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, err
	}
	if records == nil {
		records = []user.Record{}
	}
	return records, nil
}

func encode(records []user.Record) ([]byte, error) {
	if records == nil {
		records = []user.Record{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(records); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func revisionOf(data []byte) user.Revision {
	sum := blake2b.Sum256(data)
	return user.Revision(hex.EncodeToString(sum[:]))
}
