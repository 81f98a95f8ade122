package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/jot/internal/config"
	"github.com/aretw0/jot/pkg/core"
)

func lookup(env map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	c, err := config.FromEnv(lookup(nil))
	require.NoError(t, err)
	assert.Equal(t, "fs", c.Adapter)
	assert.Equal(t, "json", c.Format)
	assert.Equal(t, core.DefaultHistoryCap, c.HistoryCap)
	assert.Equal(t, core.DefaultPageSize, c.PageSize)
	assert.False(t, c.Versioning)
	assert.NotEmpty(t, c.Dir)
}

func TestFromEnv_Overrides(t *testing.T) {
	c, err := config.FromEnv(lookup(map[string]string{
		config.EnvDir:        "/data/notes",
		config.EnvAdapter:    "SQLite",
		config.EnvFormat:     "yaml",
		config.EnvHistoryCap: "0",
		config.EnvPageSize:   "20",
		config.EnvVersioning: "true",
		config.EnvSQLitePath: "/data/jot.db",
		config.EnvRedisAddr:  "localhost:6379",
		config.EnvRedisDB:    "2",
		config.EnvStrict:     "1",
	}))
	require.NoError(t, err)
	assert.Equal(t, config.Config{
		Dir:        "/data/notes",
		Adapter:    "sqlite",
		Format:     "yaml",
		HistoryCap: 0,
		PageSize:   20,
		Versioning: true,
		SQLitePath: "/data/jot.db",
		RedisAddr:  "localhost:6379",
		RedisDB:    2,
		Strict:     true,
	}, c)
}

func TestFromEnv_Invalid(t *testing.T) {
	for _, env := range []map[string]string{
		{config.EnvHistoryCap: "ten"},
		{config.EnvHistoryCap: "-1"},
		{config.EnvVersioning: "maybe"},
	} {
		_, err := config.FromEnv(lookup(env))
		assert.Error(t, err, "env %v", env)
	}
}

func TestLoad_DotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("JOT_FORMAT=cbor\nJOT_PAGE_SIZE=3\n"), 0644))
	t.Setenv(config.EnvFormat, "")
	os.Unsetenv(config.EnvFormat)
	t.Setenv(config.EnvPageSize, "9")

	c, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "cbor", c.Format)
	assert.Equal(t, 9, c.PageSize, "environment wins over .env")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "absent.env"))
	assert.NoError(t, err)
}
