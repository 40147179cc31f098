package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/seefood/mooring/pkg/config"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a sample configuration file",
	Long: `Initialize a sample mooring configuration file.

By default, the configuration file is created at
$XDG_CONFIG_HOME/mooring/config.yaml. Use --config for a custom path.

Examples:
  # Initialize with default location
  mooring init

  # Initialize with custom path
  mooring init --config /etc/mooring/config.yaml

  # Force overwrite existing config
  mooring init --force`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "Force overwrite existing config file")
}

func runInit(cmd *cobra.Command, args []string) error {
	configFile := GetConfigFile()

	var configPath string
	var err error

	if configFile != "" {
		err = config.InitConfigToPath(configFile, initForce)
		configPath = configFile
	} else {
		configPath, err = config.InitConfig(initForce)
	}
	if err != nil {
		return fmt.Errorf("failed to initialize config: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Configuration file created at: %s\n", configPath)
	fmt.Fprintln(out, "\nNext steps:")
	fmt.Fprintln(out, "  1. Edit the configuration file to match your deployment")
	fmt.Fprintln(out, "  2. Supply the admin password via environment:")
	fmt.Fprintln(out, "       export MOORING_ADMIN_PASSWORD=...")
	fmt.Fprintln(out, "     or set admin.password_hash in the config file:")
	fmt.Fprintln(out, "       htpasswd -nbB \"\" \"password\" | cut -d: -f2")
	fmt.Fprintln(out, "  3. Run the bootstrap: mooring up")

	return nil
}
