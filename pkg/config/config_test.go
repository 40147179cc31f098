package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeConfig writes a config file into a temp dir and returns its path.
func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

const minimalConfig = `
database:
  host: localhost
  name: seafood_db
  user: app
  password: secret
admin:
  username: admin
  password: changeme123
server:
  command: ["backend", "serve"]
`

func TestLoadMinimalConfig(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalConfig))
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port, "port should default")
	assert.Equal(t, "INFO", cfg.Logging.Level)
	assert.Equal(t, 8000, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, []string{"backend", "serve"}, cfg.Server.Command)
}

func TestLoadProbeDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalConfig))
	require.NoError(t, err)

	assert.Equal(t, 500*time.Millisecond, cfg.Probe.InitialInterval)
	assert.Equal(t, 5*time.Second, cfg.Probe.MaxInterval)
	assert.Equal(t, 2.0, cfg.Probe.Multiplier)
	assert.Equal(t, 2*time.Minute, cfg.Probe.MaxElapsedTime)
}

func TestLoadProbeDurationsFromStrings(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalConfig+`
probe:
  initial_interval: 1s
  max_elapsed_time: 10m
`))
	require.NoError(t, err)

	assert.Equal(t, time.Second, cfg.Probe.InitialInterval)
	assert.Equal(t, 10*time.Minute, cfg.Probe.MaxElapsedTime)
}

func TestLoadUnboundedProbe(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalConfig+`
probe:
  max_elapsed_time: -1ns
`))
	require.NoError(t, err)

	assert.Equal(t, time.Duration(0), cfg.Probe.MaxElapsedTime,
		"negative sentinel should map to unbounded (0)")
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("MOORING_DATABASE_HOST", "db.internal")
	t.Setenv("MOORING_ADMIN_PASSWORD", "fromenv123")

	cfg, err := Load(writeConfig(t, minimalConfig))
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "fromenv123", cfg.Admin.Password)
}

func TestDSN(t *testing.T) {
	cfg := &DatabaseConfig{
		Host: "db", Port: 5432, Name: "seafood_db",
		User: "app", Password: "secret", SSLMode: "disable",
	}
	assert.Equal(t,
		"host=db port=5432 user=app password=secret dbname=seafood_db sslmode=disable",
		cfg.DSN())
	assert.Equal(t, "db:5432", cfg.Addr())
}

func TestSaveAndReloadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg := GetDefaultConfig()
	cfg.Database.Password = "secret"
	cfg.Admin.Password = "changeme123"
	cfg.Server.Command = []string{"backend", "serve"}
	require.NoError(t, SaveConfig(cfg, path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.Database, loaded.Database)
	assert.Equal(t, cfg.Server.Command, loaded.Server.Command)
}

func TestMustLoadMissingFile(t *testing.T) {
	_, err := MustLoad(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mooring init")
}

func TestInitConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	require.NoError(t, InitConfigToPath(path, false))
	assert.Error(t, InitConfigToPath(path, false), "existing file without --force")
	assert.NoError(t, InitConfigToPath(path, true))
}
