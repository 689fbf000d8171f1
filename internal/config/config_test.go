package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	return path
}

func TestConfig_PoolSizing_Defaults(t *testing.T) {
	path := writeConfigFile(t, `
env: local

postgres:
  url: "postgres://localhost:5432/storefront"
`)

	var cfg Config
	require.NoError(t, cleanenv.ReadConfig(path, &cfg))

	require.EqualValues(t, 10, cfg.Postgres.MaxConns)
	require.EqualValues(t, 2, cfg.Postgres.MinConns)
}

func TestConfig_PoolSizing_FromEnv(t *testing.T) {
	t.Setenv("DB_MAX_CONNS", "25")
	t.Setenv("DB_MIN_CONNS", "5")

	path := writeConfigFile(t, `
env: local

postgres:
  url: "postgres://localhost:5432/storefront"
`)

	var cfg Config
	require.NoError(t, cleanenv.ReadConfig(path, &cfg))

	require.EqualValues(t, 25, cfg.Postgres.MaxConns)
	require.EqualValues(t, 5, cfg.Postgres.MinConns)
}

func TestConfig_PoolSizing_FromYAML(t *testing.T) {
	path := writeConfigFile(t, `
env: local

postgres:
  url: "postgres://localhost:5432/storefront"
  max_conns: 15
  min_conns: 3
`)

	var cfg Config
	require.NoError(t, cleanenv.ReadConfig(path, &cfg))

	require.EqualValues(t, 15, cfg.Postgres.MaxConns)
	require.EqualValues(t, 3, cfg.Postgres.MinConns)
}
