package config

import (
	"fmt"
	"os"
)

// InitConfig writes a sample configuration file to the default location.
// Returns the path it wrote. Fails if the file exists unless force is set.
func InitConfig(force bool) (string, error) {
	path := GetDefaultConfigPath()
	return path, InitConfigToPath(path, force)
}

// InitConfigToPath writes a sample configuration file to the given path.
func InitConfigToPath(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", path)
	}

	cfg := GetDefaultConfig()
	cfg.Database.Password = "postgres"
	cfg.Admin.Email = "admin@example.com"
	// The sample deliberately leaves admin.password empty; the operator
	// supplies it via MOORING_ADMIN_PASSWORD or sets a bcrypt hash.
	cfg.Server.Command = []string{"backend", "serve"}
	cfg.Static.Enabled = true
	cfg.Static.SourceDirs = []string{"static"}
	cfg.Static.Root = "staticfiles"

	return SaveConfig(cfg, path)
}
