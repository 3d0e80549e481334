package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"

	"usersvc/internal/app/server/config"
	"usersvc/internal/infrastructure/storage/jsonfile"
	"usersvc/internal/infrastructure/storage/sqlite"
)

func TestOpen(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		cfg     config.Storage
		want    any
		wantErr error
	}{
		{
			name: "json",
			cfg:  config.Storage{Backend: config.BackendJSON, DataFile: filepath.Join(dir, "nested", "data.json")},
			want: &jsonfile.Store{},
		},
		{
			name: "sqlite",
			cfg:  config.Storage{Backend: config.BackendSQLite, SQLitePath: filepath.Join(dir, "db", "users.db")},
			want: &sqlite.Storage{},
		},
		{
			name:    "unknown",
			cfg:     config.Storage{Backend: "mongo"},
			wantErr: config.ErrUnknownBackend,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Open(context.Background(), tt.cfg, slog.Default())
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			defer s.Close()

			assert.IsType(t, tt.want, s)
			assert.NoError(t, s.Ping(context.Background()))
			_, _, err = s.LoadAll(context.Background())
			assert.NoError(t, err)
		})
	}
}
