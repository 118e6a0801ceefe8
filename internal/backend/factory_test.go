package backend

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moneyleft/internal/config"
	"moneyleft/internal/core"
)

func TestFromAppConfig(t *testing.T) {
	_, err := FromAppConfig(nil)
	assert.Error(t, err)

	_, err = FromAppConfig(&config.Config{DataBackend: "sheets"})
	assert.Error(t, err)

	cfg, err := FromAppConfig(&config.Config{DataBackend: "sqlite", SQLiteDBPath: "x.db", AMQPURL: "amqp://h/"})
	require.NoError(t, err)
	assert.Equal(t, SQLiteBackend, cfg.Type)
	assert.Equal(t, "x.db", cfg.SQLiteDBPath)
	assert.Equal(t, "amqp://h/", cfg.AMQPURL)
}

func TestConfig_Validate(t *testing.T) {
	assert.Error(t, Config{Type: "oracle"}.Validate())
	assert.Error(t, Config{Type: SQLiteBackend}.Validate())
	assert.NoError(t, Config{Type: MemoryBackend}.Validate())
	assert.Equal(t, []string{"sqlite", "memory"}, GetBackendTypeStrings())
}

func TestCreateBackend(t *testing.T) {
	now := func() time.Time { return time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC) }
	tests := []struct {
		name   string
		config Config
	}{
		{"memory", Config{Type: MemoryBackend, Now: now}},
		{"sqlite", Config{Type: SQLiteBackend, SQLiteDBPath: filepath.Join(t.TempDir(), "ledger.db"), Now: now}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			res, err := NewFactory(nil).CreateBackend(ctx, tt.config)
			require.NoError(t, err)
			assert.Nil(t, res.Events)
			assert.Nil(t, res.Publisher(), "no AMQP configured")

			require.NoError(t, res.Store.Ping(ctx))
			_, err = res.Store.InsertEntry(ctx, core.LedgerEntry{
				Amount: decimal.RequireFromString("42"), Category: "FOOD", Date: core.DateOf(now()),
			})
			require.NoError(t, err)

			today, err := res.Store.EntriesToday(ctx)
			require.NoError(t, err)
			assert.Len(t, today, 1)

			require.NoError(t, res.Cleanup())
			assert.ErrorIs(t, res.Store.Ping(ctx), core.ErrStorageUnavailable)
		})
	}
}
