package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "slidedeck.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, Default(), cfg)
	assert.Equal(t, "0.0.0.0:3401", cfg.Addr())
	assert.Equal(t, BackendFile, cfg.Storage.Backend)
	assert.Equal(t, "presentation.json", cfg.Storage.FileName)
	assert.Equal(t, "stable", cfg.Slides.IDScheme)
	assert.True(t, cfg.SeedDefault())
	assert.True(t, cfg.Watch())
	assert.Equal(t, 10*time.Second, cfg.GetShutdownTimeout())
}

func TestLoad_FileValuesKeepUnsetDefaults(t *testing.T) {
	path := writeConfig(t, `
server:
  port: "8080"
  shutdown_timeout: 2s
storage:
  backend: sqlite
  db_path: /var/lib/slidedeck/deck.db
  seed_default: false
slides:
  id_scheme: positional
log:
  level: debug
  development: true
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 2*time.Second, cfg.GetShutdownTimeout())
	assert.Equal(t, BackendSQLite, cfg.Storage.Backend)
	assert.Equal(t, "/var/lib/slidedeck/deck.db", cfg.Storage.DBPath)
	assert.Equal(t, "./data", cfg.Storage.DataPath)
	assert.False(t, cfg.SeedDefault())
	assert.True(t, cfg.Watch())
	assert.Equal(t, "positional", cfg.Slides.IDScheme)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Log.Development)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(writeConfig(t, "server: [unclosed"))
	assert.ErrorContains(t, err, "failed to parse config")

	_, err = Load(writeConfig(t, "storage:\n  backend: postgres\n"))
	assert.ErrorContains(t, err, "unknown storage backend")

	_, err = Load(writeConfig(t, "server:\n  shutdown_timeout: soon\n"))
	assert.ErrorContains(t, err, "shutdown_timeout")

	_, err = Load(writeConfig(t, "tls:\n  enabled: true\n"))
	assert.ErrorContains(t, err, "cert_file")
}

func TestEnvOverrides(t *testing.T) {
	t.Run("server and storage", func(t *testing.T) {
		t.Setenv("SLIDEDECK_HOST", "127.0.0.1")
		t.Setenv("SLIDEDECK_PORT", "9000")
		t.Setenv("SLIDEDECK_BACKEND", "SQLite")
		t.Setenv("SLIDEDECK_DATA_PATH", "/srv/decks")
		t.Setenv("SLIDEDECK_DB_PATH", "/srv/decks/deck.db")
		t.Setenv("SLIDEDECK_ID_SCHEME", "positional")
		t.Setenv("SLIDEDECK_LOG_LEVEL", "warn")

		cfg := Default()
		cfg.applyEnvOverrides()

		assert.Equal(t, "127.0.0.1:9000", cfg.Addr())
		assert.Equal(t, BackendSQLite, cfg.Storage.Backend)
		assert.Equal(t, "/srv/decks", cfg.Storage.DataPath)
		assert.Equal(t, "/srv/decks/deck.db", cfg.Storage.DBPath)
		assert.Equal(t, "positional", cfg.Slides.IDScheme)
		assert.Equal(t, "warn", cfg.Log.Level)
	})

	t.Run("tls", func(t *testing.T) {
		t.Setenv("TLS_ENABLED", "true")
		t.Setenv("TLS_CERT_FILE", "/etc/ssl/cert.pem")
		t.Setenv("TLS_KEY_FILE", "/etc/ssl/key.pem")

		cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
		require.NoError(t, err)
		assert.True(t, cfg.TLS.Enabled)
		assert.Equal(t, "/etc/ssl/cert.pem", cfg.TLS.CertFile)
		assert.Equal(t, "/etc/ssl/key.pem", cfg.TLS.KeyFile)
	})

	t.Run("unparsable TLS_ENABLED is ignored", func(t *testing.T) {
		t.Setenv("TLS_ENABLED", "maybe")
		cfg := &Config{TLS: TLSConfig{Enabled: true}}
		cfg.applyEnvOverrides()
		assert.True(t, cfg.TLS.Enabled)
	})

	t.Run("env wins over file", func(t *testing.T) {
		t.Setenv("SLIDEDECK_PORT", "7000")
		cfg, err := Load(writeConfig(t, "server:\n  port: \"8080\"\n"))
		require.NoError(t, err)
		assert.Equal(t, "7000", cfg.Server.Port)
	})
}
