package config

import (
	"strings"
	"testing"
)

// validConfig returns a config that passes validation.
func validConfig() *Config {
	cfg := GetDefaultConfig()
	cfg.Admin.Password = "changeme123"
	return cfg
}

func TestValidate_ValidConfig(t *testing.T) {
	if err := Validate(validConfig()); err != nil {
		t.Errorf("Expected valid config to pass validation, got error: %v", err)
	}
}

func TestValidate_InvalidLogLevel(t *testing.T) {
	cfg := validConfig()
	cfg.Logging.Level = "INVALID"

	err := Validate(cfg)
	if err == nil {
		t.Fatal("Expected validation error for invalid log level")
	}
	if !strings.Contains(err.Error(), "oneof") {
		t.Errorf("Expected 'oneof' validation error, got: %v", err)
	}
}

func TestValidate_InvalidLogFormat(t *testing.T) {
	cfg := validConfig()
	cfg.Logging.Format = "xml"

	if err := Validate(cfg); err == nil {
		t.Fatal("Expected validation error for invalid log format")
	}
}

func TestValidate_DatabasePortOutOfRange(t *testing.T) {
	cfg := validConfig()
	cfg.Database.Port = 70000

	err := Validate(cfg)
	if err == nil {
		t.Fatal("Expected validation error for port out of range")
	}
	if !strings.Contains(err.Error(), "max") {
		t.Errorf("Expected 'max' validation error, got: %v", err)
	}
}

func TestValidate_MissingDatabaseHost(t *testing.T) {
	cfg := validConfig()
	cfg.Database.Host = ""

	if err := Validate(cfg); err == nil {
		t.Fatal("Expected validation error for missing database host")
	}
}

func TestValidate_MissingAdminCredentials(t *testing.T) {
	cfg := validConfig()
	cfg.Admin.Password = ""
	cfg.Admin.PasswordHash = ""

	err := Validate(cfg)
	if err == nil {
		t.Fatal("Expected validation error for missing admin credentials")
	}
	if !strings.Contains(err.Error(), "admin") {
		t.Errorf("Expected error about admin credentials, got: %v", err)
	}
}

func TestValidate_PasswordHashAlone(t *testing.T) {
	cfg := validConfig()
	cfg.Admin.Password = ""
	cfg.Admin.PasswordHash = "$2a$10$abcdefghijklmnopqrstuv"

	if err := Validate(cfg); err != nil {
		t.Errorf("Expected hash-only admin config to validate, got: %v", err)
	}
}

func TestValidate_StaticEnabledWithoutSources(t *testing.T) {
	cfg := validConfig()
	cfg.Static.Enabled = true
	cfg.Static.SourceDirs = nil

	err := Validate(cfg)
	if err == nil {
		t.Fatal("Expected validation error for static without sources")
	}
	if !strings.Contains(err.Error(), "source_dirs") {
		t.Errorf("Expected error about source_dirs, got: %v", err)
	}
}

func TestValidate_DemoSeedWithoutPassword(t *testing.T) {
	cfg := validConfig()
	cfg.Admin.Password = ""
	cfg.Admin.PasswordHash = "$2a$10$abcdefghijklmnopqrstuv"
	cfg.Seed.Demo = true

	if err := Validate(cfg); err == nil {
		t.Fatal("Expected validation error for demo seeding without a usable password")
	}
}

func TestValidate_InvalidEmail(t *testing.T) {
	cfg := validConfig()
	cfg.Admin.Email = "not-an-email"

	if err := Validate(cfg); err == nil {
		t.Fatal("Expected validation error for malformed admin email")
	}
}
