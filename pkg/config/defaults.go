package config

import (
	"strings"
	"time"
)

// Default values for the bootstrap configuration.
const (
	DefaultDatabaseHost = "db"
	DefaultDatabasePort = 5432
	DefaultDatabaseName = "seafood_db"
	DefaultDatabaseUser = "postgres"

	DefaultServerHost = "0.0.0.0"
	DefaultServerPort = 8000

	DefaultAdminUsername = "admin"

	DefaultProbeInitialInterval = 500 * time.Millisecond
	DefaultProbeMaxInterval     = 5 * time.Second
	DefaultProbeMultiplier      = 2.0
	DefaultProbeMaxElapsedTime  = 2 * time.Minute
	DefaultProbeDialTimeout     = 2 * time.Second

	DefaultShutdownTimeout = 30 * time.Second
)

// ApplyDefaults sets default values for any unspecified configuration fields.
//
// Zero values (0, "", false, nil) are replaced with defaults; explicit
// values are preserved.
func ApplyDefaults(cfg *Config) {
	applyLoggingDefaults(&cfg.Logging)
	applyDatabaseDefaults(&cfg.Database)
	applyProbeDefaults(&cfg.Probe)
	applyStaticDefaults(&cfg.Static)
	applyAdminDefaults(&cfg.Admin)
	applyServerDefaults(&cfg.Server)
}

func applyLoggingDefaults(cfg *LoggingConfig) {
	if cfg.Level == "" {
		cfg.Level = "INFO"
	}
	// Normalize for consistent internal representation
	cfg.Level = strings.ToUpper(cfg.Level)

	if cfg.Format == "" {
		cfg.Format = "text"
	}
	if cfg.Output == "" {
		cfg.Output = "stdout"
	}
}

func applyDatabaseDefaults(cfg *DatabaseConfig) {
	if cfg.Host == "" {
		cfg.Host = DefaultDatabaseHost
	}
	if cfg.Port == 0 {
		cfg.Port = DefaultDatabasePort
	}
	if cfg.Name == "" {
		cfg.Name = DefaultDatabaseName
	}
	if cfg.User == "" {
		cfg.User = DefaultDatabaseUser
	}
	if cfg.SSLMode == "" {
		cfg.SSLMode = "disable"
	}
	if cfg.MaxOpenConns == 0 {
		cfg.MaxOpenConns = 10
	}
	if cfg.MaxIdleConns == 0 {
		cfg.MaxIdleConns = 2
	}
}

func applyProbeDefaults(cfg *ProbeConfig) {
	if cfg.InitialInterval == 0 {
		cfg.InitialInterval = DefaultProbeInitialInterval
	}
	if cfg.MaxInterval == 0 {
		cfg.MaxInterval = DefaultProbeMaxInterval
	}
	if cfg.Multiplier == 0 {
		cfg.Multiplier = DefaultProbeMultiplier
	}
	// MaxElapsedTime keeps its zero value only when the config explicitly
	// set it; an absent key still means "bounded". Viper cannot tell the
	// two apart for durations, so a sentinel of -1 requests unbounded.
	if cfg.MaxElapsedTime == 0 {
		cfg.MaxElapsedTime = DefaultProbeMaxElapsedTime
	}
	if cfg.MaxElapsedTime < 0 {
		cfg.MaxElapsedTime = 0
	}
	if cfg.DialTimeout == 0 {
		cfg.DialTimeout = DefaultProbeDialTimeout
	}
}

func applyStaticDefaults(cfg *StaticConfig) {
	if cfg.Enabled && cfg.Root == "" {
		cfg.Root = "staticfiles"
	}
}

func applyAdminDefaults(cfg *AdminConfig) {
	if cfg.Username == "" {
		cfg.Username = DefaultAdminUsername
	}
}

func applyServerDefaults(cfg *ServerConfig) {
	if cfg.Host == "" {
		cfg.Host = DefaultServerHost
	}
	if cfg.Port == 0 {
		cfg.Port = DefaultServerPort
	}
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = DefaultShutdownTimeout
	}
}

// GetDefaultConfig returns a configuration populated entirely from defaults.
func GetDefaultConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}
