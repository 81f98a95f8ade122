// Package config reads process configuration from the environment and an
// optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/aretw0/jot/pkg/core"
)

// Environment variable names.
const (
	EnvDir        = "JOT_DIR"
	EnvAdapter    = "JOT_ADAPTER"
	EnvFormat     = "JOT_FORMAT"
	EnvHistoryCap = "JOT_HISTORY_CAP"
	EnvPageSize   = "JOT_PAGE_SIZE"
	EnvVersioning = "JOT_VERSIONING"
	EnvSQLitePath = "JOT_SQLITE_PATH"
	EnvRedisAddr  = "JOT_REDIS_ADDR"
	EnvRedisDB    = "JOT_REDIS_DB"
	EnvStrict     = "JOT_STRICT"
)

// Config is the process-level configuration of jot.
type Config struct {
	Dir        string
	Adapter    string
	Format     string
	HistoryCap int
	PageSize   int
	Versioning bool
	SQLitePath string
	RedisAddr  string
	RedisDB    int
	Strict     bool
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Dir:        defaultDir(),
		Adapter:    "fs",
		Format:     "json",
		HistoryCap: core.DefaultHistoryCap,
		PageSize:   core.DefaultPageSize,
	}
}

// Load reads the given .env files (missing files are skipped) and then the
// environment. Variables already set in the environment win over .env values.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return FromEnv(os.LookupEnv)
}

// FromEnv builds a Config from lookup, starting from Default.
func FromEnv(lookup func(string) (string, bool)) (Config, error) {
	c := Default()
	var err error

	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	num := func(key string, dst *int) {
		v, ok := lookup(key)
		if !ok || strings.TrimSpace(v) == "" || err != nil {
			return
		}
		n, perr := strconv.Atoi(strings.TrimSpace(v))
		if perr != nil || n < 0 {
			err = fmt.Errorf("invalid %s %q: must be a non-negative integer", key, v)
			return
		}
		*dst = n
	}
	flag := func(key string, dst *bool) {
		v, ok := lookup(key)
		if !ok || strings.TrimSpace(v) == "" || err != nil {
			return
		}
		b, perr := strconv.ParseBool(strings.TrimSpace(v))
		if perr != nil {
			err = fmt.Errorf("invalid %s %q: %w", key, v, perr)
			return
		}
		*dst = b
	}

	str(EnvDir, &c.Dir)
	str(EnvAdapter, &c.Adapter)
	str(EnvFormat, &c.Format)
	str(EnvSQLitePath, &c.SQLitePath)
	str(EnvRedisAddr, &c.RedisAddr)
	num(EnvHistoryCap, &c.HistoryCap)
	num(EnvPageSize, &c.PageSize)
	num(EnvRedisDB, &c.RedisDB)
	flag(EnvVersioning, &c.Versioning)
	flag(EnvStrict, &c.Strict)

	if err != nil {
		return Config{}, err
	}
	if c.PageSize == 0 {
		c.PageSize = core.DefaultPageSize
	}
	c.Adapter = strings.ToLower(c.Adapter)
	c.Format = strings.ToLower(c.Format)
	return c, nil
}

// defaultDir is ~/.jot, or .jot when the home directory is unknown.
func defaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".jot"
	}
	return filepath.Join(home, ".jot")
}
