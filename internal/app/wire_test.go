package app_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"conlang/internal/app"
	"conlang/internal/domain"
)

func TestNewWire_Drivers(t *testing.T) {
	tests := []struct {
		name    string
		storage func(dir string) app.StorageConfig
	}{
		{"memory", func(string) app.StorageConfig { return app.StorageConfig{Driver: app.DriverMemory} }},
		{"file", func(dir string) app.StorageConfig { return app.StorageConfig{Driver: app.DriverFile, Dir: dir} }},
		{"sqlite", func(dir string) app.StorageConfig {
			return app.StorageConfig{Driver: app.DriverSQLite, DSN: filepath.Join(dir, "conlang.db")}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			cfg := app.Config{Addr: "127.0.0.1:0", Storage: tt.storage(t.TempDir())}

			w, err := app.NewWire(ctx, cfg, zap.NewNop())
			require.NoError(t, err)
			defer w.Close()

			u, err := w.Accounts.Register(ctx, domain.NewUser{Username: "alice", Password: "password1"})
			require.NoError(t, err)
			res, err := w.SoundChange.Apply(ctx, u.ID, "papa", nil)
			require.NoError(t, err)
			assert.Equal(t, "papa", res.Output)

			rec := httptest.NewRecorder()
			w.Server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
			assert.Equal(t, http.StatusOK, rec.Code)
		})
	}
}

func TestOpenStore_Unknown(t *testing.T) {
	_, err := app.OpenStore(context.Background(), app.StorageConfig{Driver: "oracle"})
	assert.Error(t, err)
}
