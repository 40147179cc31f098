package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Validate checks the configuration against struct validation tags plus
// cross-field rules that tags cannot express.
func Validate(cfg *Config) error {
	v := validator.New()
	if err := v.Struct(cfg); err != nil {
		return err
	}

	// Static collection needs at least one source when enabled.
	if cfg.Static.Enabled && len(cfg.Static.SourceDirs) == 0 {
		return fmt.Errorf("static collection is enabled but static.source_dirs is empty")
	}

	// Admin seeding needs some form of credential.
	if cfg.Admin.Password == "" && cfg.Admin.PasswordHash == "" {
		return fmt.Errorf("admin seeding requires admin.password or admin.password_hash " +
			"(set MOORING_ADMIN_PASSWORD or admin.password_hash in the config file)")
	}

	// Demo seeding reuses the admin password unless one is given, but an
	// admin configured hash-only has no plaintext to reuse.
	if cfg.Seed.Demo && cfg.Seed.DemoPassword == "" && cfg.Admin.Password == "" {
		return fmt.Errorf("demo seeding requires seed.demo_password when admin.password is not set")
	}

	return nil
}
