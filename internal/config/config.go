// Package config loads the slidedeck YAML configuration and applies
// environment overrides on top of it.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Storage backends
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// DefaultPath is read when no --config flag is given
const DefaultPath = "slidedeck.yaml"

// Config holds all application configuration
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	TLS     TLSConfig     `yaml:"tls"`
	Storage StorageConfig `yaml:"storage"`
	Slides  SlidesConfig  `yaml:"slides"`
	Log     LogConfig     `yaml:"log"`
}

// ServerConfig holds HTTP listener settings
type ServerConfig struct {
	Host            string `yaml:"host"`
	Port            string `yaml:"port"`
	ShutdownTimeout string `yaml:"shutdown_timeout"`
}

// TLSConfig holds TLS settings
type TLSConfig struct {
	Enabled    bool   `yaml:"enabled"`
	CertFile   string `yaml:"cert_file"`
	KeyFile    string `yaml:"key_file"`
	MinVersion string `yaml:"min_version"`
}

// StorageConfig selects where the presentation document lives
type StorageConfig struct {
	Backend  string `yaml:"backend"`
	DataPath string `yaml:"data_path"`
	FileName string `yaml:"file_name"`
	DBPath   string `yaml:"db_path"`
	// SeedDefault saves the welcome document when the store is empty
	SeedDefault *bool `yaml:"seed_default"`
	// Watch reloads viewers when the document file changes on disk
	Watch *bool `yaml:"watch"`
}

// SlidesConfig holds slide identity settings
type SlidesConfig struct {
	IDScheme string `yaml:"id_scheme"`
}

// LogConfig holds logger settings
type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// Default returns the configuration used when no file is present
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads path, fills unset values with defaults and applies environment
// overrides. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	case os.IsNotExist(err):
	default:
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	cfg.applyDefaults()
	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if c.Server.Port == "" {
		c.Server.Port = "3401"
	}
	if c.Server.ShutdownTimeout == "" {
		c.Server.ShutdownTimeout = "10s"
	}
	if c.TLS.MinVersion == "" {
		c.TLS.MinVersion = "1.2"
	}
	if c.Storage.Backend == "" {
		c.Storage.Backend = BackendFile
	}
	if c.Storage.DataPath == "" {
		c.Storage.DataPath = "./data"
	}
	if c.Storage.FileName == "" {
		c.Storage.FileName = "presentation.json"
	}
	if c.Storage.DBPath == "" {
		c.Storage.DBPath = "./data/slidedeck.db"
	}
	if c.Storage.SeedDefault == nil {
		c.Storage.SeedDefault = boolPtr(true)
	}
	if c.Storage.Watch == nil {
		c.Storage.Watch = boolPtr(true)
	}
	if c.Slides.IDScheme == "" {
		c.Slides.IDScheme = "stable"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if host := os.Getenv("SLIDEDECK_HOST"); host != "" {
		c.Server.Host = host
	}
	if port := os.Getenv("SLIDEDECK_PORT"); port != "" {
		c.Server.Port = port
	}
	if backend := os.Getenv("SLIDEDECK_BACKEND"); backend != "" {
		c.Storage.Backend = strings.ToLower(backend)
	}
	if path := os.Getenv("SLIDEDECK_DATA_PATH"); path != "" {
		c.Storage.DataPath = path
	}
	if path := os.Getenv("SLIDEDECK_DB_PATH"); path != "" {
		c.Storage.DBPath = path
	}
	if scheme := os.Getenv("SLIDEDECK_ID_SCHEME"); scheme != "" {
		c.Slides.IDScheme = scheme
	}
	if level := os.Getenv("SLIDEDECK_LOG_LEVEL"); level != "" {
		c.Log.Level = level
	}

	// TLS variables keep the names the deployment scripts already use
	if enabled, err := strconv.ParseBool(os.Getenv("TLS_ENABLED")); err == nil {
		c.TLS.Enabled = enabled
	}
	if cert := os.Getenv("TLS_CERT_FILE"); cert != "" {
		c.TLS.CertFile = cert
	}
	if key := os.Getenv("TLS_KEY_FILE"); key != "" {
		c.TLS.KeyFile = key
	}
}

// Validate checks the values that cannot be defaulted
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case BackendFile, BackendSQLite:
	default:
		return fmt.Errorf("unknown storage backend %q (want %s or %s)", c.Storage.Backend, BackendFile, BackendSQLite)
	}
	if _, err := time.ParseDuration(c.Server.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid server.shutdown_timeout %q: %w", c.Server.ShutdownTimeout, err)
	}
	if c.TLS.Enabled && (c.TLS.CertFile == "" || c.TLS.KeyFile == "") {
		return fmt.Errorf("tls is enabled but cert_file or key_file is empty")
	}
	return nil
}

// Addr returns the listen address
func (c *Config) Addr() string {
	return c.Server.Host + ":" + c.Server.Port
}

// GetShutdownTimeout returns the graceful shutdown timeout as a duration.
func (c *Config) GetShutdownTimeout() time.Duration {
	d, err := time.ParseDuration(c.Server.ShutdownTimeout)
	if err != nil {
		return 10 * time.Second
	}
	return d
}

// SeedDefault reports whether an empty store gets the welcome document
func (c *Config) SeedDefault() bool {
	return c.Storage.SeedDefault == nil || *c.Storage.SeedDefault
}

// Watch reports whether the document file is watched for outside edits
func (c *Config) Watch() bool {
	return c.Storage.Watch == nil || *c.Storage.Watch
}

func boolPtr(b bool) *bool { return &b }
