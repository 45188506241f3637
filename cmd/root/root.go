// Package root implements the command line interface entry point.
package root

import (
	"log"
	"os"

	"github.com/wopanel/wopanel/app"
	"github.com/wopanel/wopanel/cmd/asset"
	"github.com/wopanel/wopanel/cmd/catalog"
	"github.com/wopanel/wopanel/cmd/output"
	"github.com/wopanel/wopanel/cmd/server"
	"github.com/wopanel/wopanel/cmd/site"
	"github.com/wopanel/wopanel/cmd/version"
	"github.com/wopanel/wopanel/config"
	"github.com/wopanel/wopanel/logging"
	"github.com/spf13/cobra"
)

func Execute() {
	if err := NewCmdRoot(config.GetDefaultDataDir()).Execute(); err != nil {
		os.Exit(1)
	}
}

func NewCmdRoot(defaultDataDir string) *cobra.Command {
	var dataDir string

	cmd := &cobra.Command{
		Use:   "wopanel",
		Short: "WordPress site deployment panel",
		Long: `Wopanel provisions WordPress sites through the wo stack and installs
plugins from the public repository or a local asset vault. Deployments are
tracked in a durable site registry.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cfg, err := config.NewConfig(dataDir)
			if err != nil {
				log.Fatalf("Failed to initialize configuration: %s", err)
			}

			// Initialize colors (CLI flag overrides config)
			colorDisabled := !cfg.ColorEnabled
			if output.NoColor.IsSet() {
				colorDisabled = true
			}
			output.InitColors(colorDisabled)

			// Initialize logging (CLI flag overrides config)
			logLevel := cfg.LogLevel
			if logging.LogLevel.IsSet() {
				logLevel = logging.LogLevel.String()
			}
			logging.InitLogging(logLevel)

			if err := app.InitializeWithConfig(cfg); err != nil {
				log.Fatalf("Failed to initialize application: %s", err)
			}
		},
	}

	cmd.PersistentFlags().
		StringVarP(&dataDir, "data-dir", "d", defaultDataDir, "Data directory for configuration, database and vault assets")
	cmd.PersistentFlags().VarP(logging.LogLevel, "log-level", "l", "Set log verbosity level")
	cmd.PersistentFlags().VarP(output.NoColor, "no-color", "c", "Disable colored terminal output")

	cmd.AddCommand(site.NewCmdSite())
	cmd.AddCommand(asset.NewCmdAsset())
	cmd.AddCommand(catalog.NewCmdCatalog())
	cmd.AddCommand(server.NewCmdServer())
	cmd.AddCommand(version.NewCmdVersion())
	return cmd
}
