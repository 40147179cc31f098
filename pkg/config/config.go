package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config represents the mooring bootstrap configuration.
//
// This structure captures everything the bootstrap sequence needs to bring
// the backend into a ready state:
//   - Logging configuration
//   - Database connection (readiness probe target and migration/seed target)
//   - Probe retry policy (bounded exponential backoff)
//   - Static asset collection (optional step)
//   - Admin user seeding credentials
//   - Demo data seeding toggle
//   - Server launch command
//
// Configuration sources (in order of precedence):
//  1. Environment variables (MOORING_*)
//  2. Configuration file (YAML)
//  3. Default values (lowest priority)
type Config struct {
	// Logging controls log output behavior
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`

	// Database configures the PostgreSQL endpoint that the probe waits for
	// and that migrations and seeding run against.
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`

	// Probe configures the readiness probe retry policy.
	Probe ProbeConfig `mapstructure:"probe" yaml:"probe"`

	// Static configures the optional static asset collection step.
	Static StaticConfig `mapstructure:"static" yaml:"static"`

	// Admin contains the admin user credentials seeded on first startup.
	// Credentials are supplied via config or environment, never hard-coded.
	Admin AdminConfig `mapstructure:"admin" yaml:"admin"`

	// Seed controls optional demo data seeding.
	Seed SeedConfig `mapstructure:"seed" yaml:"seed"`

	// Server describes the long-running server process that the bootstrap
	// execs into once every setup step has completed.
	Server ServerConfig `mapstructure:"server" yaml:"server"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	// Level is the minimum log level to output.
	// Valid values: DEBUG, INFO, WARN, ERROR (case-insensitive)
	Level string `mapstructure:"level" validate:"required,oneof=DEBUG INFO WARN ERROR" yaml:"level"`

	// Format specifies the log output format: text or json.
	Format string `mapstructure:"format" validate:"required,oneof=text json" yaml:"format"`

	// Output specifies where logs are written: stdout, stderr, or a file path.
	Output string `mapstructure:"output" validate:"required" yaml:"output"`
}

// DatabaseConfig contains PostgreSQL connection configuration.
type DatabaseConfig struct {
	// Host is the database hostname. Default: "db" (compose service name).
	Host string `mapstructure:"host" validate:"required" yaml:"host"`

	// Port is the database port. Default: 5432.
	Port int `mapstructure:"port" validate:"required,min=1,max=65535" yaml:"port"`

	// Name is the database name.
	Name string `mapstructure:"name" validate:"required" yaml:"name"`

	// User is the database user.
	User string `mapstructure:"user" validate:"required" yaml:"user"`

	// Password is the database password.
	Password string `mapstructure:"password" yaml:"password,omitempty"`

	// SSLMode is one of: disable, require, verify-ca, verify-full.
	SSLMode string `mapstructure:"sslmode" validate:"omitempty,oneof=disable require verify-ca verify-full" yaml:"sslmode"`

	// MaxOpenConns bounds the connection pool during seeding.
	MaxOpenConns int `mapstructure:"max_open_conns" yaml:"max_open_conns,omitempty"`

	// MaxIdleConns bounds idle pooled connections.
	MaxIdleConns int `mapstructure:"max_idle_conns" yaml:"max_idle_conns,omitempty"`
}

// DSN returns the PostgreSQL connection string in keyword form,
// accepted by both pgx and the GORM postgres driver.
func (c *DatabaseConfig) DSN() string {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s",
		c.Host, c.Port, c.User, c.Password, c.Name)
	if c.SSLMode != "" {
		dsn += fmt.Sprintf(" sslmode=%s", c.SSLMode)
	}
	return dsn
}

// Addr returns the host:port pair the readiness probe dials.
func (c *DatabaseConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// ProbeConfig configures the database readiness probe retry policy.
//
// The probe retries TCP dials under exponential backoff until the endpoint
// accepts connections or MaxElapsedTime passes. MaxElapsedTime=0 disables
// the deadline and retries forever, matching the behavior of classic
// wait-for-port entrypoint loops; the bounded default is preferred so a
// misconfigured database host fails the deploy instead of hanging it.
type ProbeConfig struct {
	// InitialInterval is the delay before the first retry. Default: 500ms.
	InitialInterval time.Duration `mapstructure:"initial_interval" validate:"min=0" yaml:"initial_interval"`

	// MaxInterval caps the backoff growth. Default: 5s.
	MaxInterval time.Duration `mapstructure:"max_interval" validate:"min=0" yaml:"max_interval"`

	// Multiplier is the backoff growth factor. Default: 2.0.
	Multiplier float64 `mapstructure:"multiplier" validate:"omitempty,gte=1" yaml:"multiplier"`

	// MaxElapsedTime is the overall probe deadline. 0 retries forever.
	// Default: 2m.
	MaxElapsedTime time.Duration `mapstructure:"max_elapsed_time" validate:"min=0" yaml:"max_elapsed_time"`

	// DialTimeout bounds each individual TCP dial. Default: 2s.
	DialTimeout time.Duration `mapstructure:"dial_timeout" validate:"min=0" yaml:"dial_timeout"`
}

// StaticConfig configures the optional static asset collection step.
type StaticConfig struct {
	// Enabled controls whether static collection runs at all.
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`

	// SourceDirs are the directories whose contents are collected.
	SourceDirs []string `mapstructure:"source_dirs" yaml:"source_dirs,omitempty"`

	// Root is the destination directory for collected assets.
	Root string `mapstructure:"root" yaml:"root,omitempty"`
}

// AdminConfig contains the admin user seeded on first startup.
//
// Either Password or PasswordHash must be set. PasswordHash takes
// precedence and avoids keeping a plaintext password in the config file.
// Use: htpasswd -nbB "" "password" | cut -d: -f2
type AdminConfig struct {
	// Username is the admin username. Default: "admin".
	Username string `mapstructure:"username" validate:"required" yaml:"username"`

	// Email is the admin user's email address (optional).
	Email string `mapstructure:"email" validate:"omitempty,email" yaml:"email,omitempty"`

	// Password is the plaintext admin password, hashed with bcrypt at seed
	// time. Prefer supplying it via MOORING_ADMIN_PASSWORD.
	Password string `mapstructure:"password" yaml:"password,omitempty"`

	// PasswordHash is a pre-computed bcrypt hash of the admin password.
	PasswordHash string `mapstructure:"password_hash" yaml:"password_hash,omitempty"`
}

// SeedConfig controls optional demo data seeding.
type SeedConfig struct {
	// Demo seeds the demo role users (manager, sales, kitchen staff)
	// in addition to the admin. Intended for development environments.
	Demo bool `mapstructure:"demo" yaml:"demo"`

	// DemoPassword is the password assigned to demo users.
	DemoPassword string `mapstructure:"demo_password" yaml:"demo_password,omitempty"`
}

// ServerConfig describes the server process launched after setup.
type ServerConfig struct {
	// Command is the server argv. The first element is resolved via PATH.
	// Required by `mooring up` unless --skip-launch is given.
	Command []string `mapstructure:"command" yaml:"command,omitempty"`

	// Host is the listen address exported to the server as SERVER_HOST.
	// Default: 0.0.0.0.
	Host string `mapstructure:"host" yaml:"host"`

	// Port is the listen port exported to the server as SERVER_PORT.
	// Default: 8000.
	Port int `mapstructure:"port" validate:"required,min=1,max=65535" yaml:"port"`

	// ShutdownTimeout bounds graceful shutdown of a supervised child on
	// platforms without exec-style process replacement.
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"min=0" yaml:"shutdown_timeout"`
}

// Load loads configuration from file, environment, and defaults.
//
// Configuration precedence (highest to lowest):
//  1. Environment variables (MOORING_*)
//  2. Configuration file
//  3. Default values
//
// An empty configPath uses the default location
// ($XDG_CONFIG_HOME/mooring/config.yaml).
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setupViper(v, configPath)

	configFileFound, err := readConfigFile(v)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if configFileFound {
		if err := v.Unmarshal(&cfg, viper.DecodeHook(configDecodeHooks())); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config: %w", err)
		}
	}

	applyEnvOverrides(v, &cfg)
	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// MustLoad loads configuration with helpful error messages when the
// config file is missing.
func MustLoad(configPath string) (*Config, error) {
	if configPath == "" {
		if !DefaultConfigExists() {
			return nil, fmt.Errorf("no configuration file found at default location: %s\n\n"+
				"Please initialize a configuration file first:\n"+
				"  mooring init\n\n"+
				"Or specify a custom config file:\n"+
				"  mooring <command> --config /path/to/config.yaml",
				GetDefaultConfigPath())
		}
		configPath = GetDefaultConfigPath()
	} else {
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("configuration file not found: %s\n\n"+
				"Please create the configuration file:\n"+
				"  mooring init --config %s",
				configPath, configPath)
		}
	}

	cfg, err := Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

// SaveConfig saves the configuration to the specified file path in YAML.
// The file is written with 0600 permissions because it may carry
// credentials (database password, admin password hash).
func SaveConfig(cfg *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// setupViper configures environment variable support and config file search.
func setupViper(v *viper.Viper, configPath string) {
	// Environment variables use the MOORING_ prefix with underscores.
	// Example: MOORING_DATABASE_HOST=db
	v.SetEnvPrefix("MOORING")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath(getConfigDir())
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
}

// readConfigFile reads the configuration file if it exists.
// Returns (fileFound, error).
func readConfigFile(v *viper.Viper) (bool, error) {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return false, nil
		}
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read config file: %w", err)
	}
	return true, nil
}

// applyEnvOverrides copies environment values into the config struct for
// keys viper cannot see during Unmarshal when no config file set them.
// AutomaticEnv only resolves keys that viper already knows about, so the
// ones used as pure env overrides are bound explicitly here.
func applyEnvOverrides(v *viper.Viper, cfg *Config) {
	for key, target := range map[string]*string{
		"database.host":       &cfg.Database.Host,
		"database.name":       &cfg.Database.Name,
		"database.user":       &cfg.Database.User,
		"database.password":   &cfg.Database.Password,
		"admin.username":      &cfg.Admin.Username,
		"admin.email":         &cfg.Admin.Email,
		"admin.password":      &cfg.Admin.Password,
		"admin.password_hash": &cfg.Admin.PasswordHash,
		"seed.demo_password":  &cfg.Seed.DemoPassword,
	} {
		if s := v.GetString(key); s != "" {
			*target = s
		}
	}
	if p := v.GetInt("database.port"); p != 0 {
		cfg.Database.Port = p
	}
	if p := v.GetInt("server.port"); p != 0 {
		cfg.Server.Port = p
	}
	if d := v.GetDuration("probe.max_elapsed_time"); d != 0 {
		cfg.Probe.MaxElapsedTime = d
	}
}

// configDecodeHooks returns the combined decode hook for custom types.
func configDecodeHooks() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		durationDecodeHook(),
	)
}

// durationDecodeHook converts config strings like "30s" or "5m" to
// time.Duration.
func durationDecodeHook() mapstructure.DecodeHookFunc {
	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if to != reflect.TypeOf(time.Duration(0)) {
			return data, nil
		}

		switch v := data.(type) {
		case string:
			return time.ParseDuration(v)
		case int:
			return time.Duration(v), nil
		case int64:
			return time.Duration(v), nil
		case float64:
			// YAML often deserializes numbers as float64
			return time.Duration(v), nil
		default:
			return data, nil
		}
	}
}

// getConfigDir returns the configuration directory path.
//
// Uses XDG_CONFIG_HOME if set, otherwise ~/.config, or falls back to the
// current directory if the home directory cannot be determined.
func getConfigDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "mooring")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "mooring")
}

// GetDefaultConfigPath returns the default configuration file path.
func GetDefaultConfigPath() string {
	return filepath.Join(getConfigDir(), "config.yaml")
}

// DefaultConfigExists checks if a config file exists at the default location.
func DefaultConfigExists() bool {
	_, err := os.Stat(GetDefaultConfigPath())
	return err == nil
}
