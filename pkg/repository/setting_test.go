package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *Repositories {
	t.Helper()
	cfg := Config{
		DSN:             ":memory:",
		MaxOpenConns:    1,
		MaxIdleConns:    1,
		ConnMaxLifetime: 30 * time.Second,
	}
	repos, err := NewRepositories(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, repos.Close()) })
	return repos
}

func TestSettingRepository_GetSet(t *testing.T) {
	repos := setupTestDB(t)
	ctx := context.Background()
	require.NoError(t, repos.Ping(ctx))

	val, err := repos.Setting.GetSetting(ctx, "obsidian_vault_name")
	require.NoError(t, err)
	assert.Empty(t, val, "missing key reads as empty")

	require.NoError(t, repos.Setting.SetSetting(ctx, "obsidian_vault_name", "Work"))
	val, err = repos.Setting.GetSetting(ctx, "obsidian_vault_name")
	require.NoError(t, err)
	assert.Equal(t, "Work", val)

	// upsert overwrites
	require.NoError(t, repos.Setting.SetSetting(ctx, "obsidian_vault_name", "Personal & Notes"))
	val, err = repos.Setting.GetSetting(ctx, "obsidian_vault_name")
	require.NoError(t, err)
	assert.Equal(t, "Personal & Notes", val)

	var count int
	require.NoError(t, repos.DB.GetContext(ctx, &count, "SELECT COUNT(*) FROM settings"))
	assert.Equal(t, 1, count)

	// empty value is stored as is
	require.NoError(t, repos.Setting.SetSetting(ctx, "obsidian_api_key", ""))
	val, err = repos.Setting.GetSetting(ctx, "obsidian_api_key")
	require.NoError(t, err)
	assert.Empty(t, val)
}

func TestSettingRepository_Persistence(t *testing.T) {
	dsn := "file:" + filepath.Join(t.TempDir(), "settings.db") + "?mode=rwc&_txlock=immediate"
	ctx := context.Background()

	repos, err := NewRepositories(ctx, Config{DSN: dsn})
	require.NoError(t, err)
	require.NoError(t, repos.Setting.SetSetting(ctx, "obsidian_api_key", "secret"))
	require.NoError(t, repos.Close())

	repos, err = NewRepositories(ctx, Config{DSN: dsn})
	require.NoError(t, err)
	defer repos.Close()
	val, err := repos.Setting.GetSetting(ctx, "obsidian_api_key")
	require.NoError(t, err)
	assert.Equal(t, "secret", val)
}

func TestSettingRepository_ClosedDB(t *testing.T) {
	repos, err := NewRepositories(context.Background(), Config{DSN: ":memory:", MaxOpenConns: 1})
	require.NoError(t, err)
	require.NoError(t, repos.Close())

	_, err = repos.Setting.GetSetting(context.Background(), "k")
	require.Error(t, err)
	err = repos.Setting.SetSetting(context.Background(), "k", "v")
	require.Error(t, err)
}

func TestIsLockError(t *testing.T) {
	tbl := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{errors.New("SQLITE_BUSY: database busy"), true},
		{errors.New("database is locked (5)"), true},
		{errors.New("database table is locked"), true},
		{errors.New("no such table: settings"), false},
	}
	for _, tt := range tbl {
		assert.Equal(t, tt.want, isLockError(tt.err), "%v", tt.err)
	}

	ce := &criticalError{err: errors.New("constraint failed")}
	assert.Equal(t, "constraint failed", ce.Error())
	assert.EqualError(t, errors.Unwrap(ce), "constraint failed")
}
