package commands

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"aethos/internal/app"
	"aethos/internal/logger"
)

var (
	profile    string
	dataHome   string
	configPath string
	logLevel   string
	appCtx     *app.App

	relays      []string
	awaitAck    bool
	metricsAddr string

	getenv = os.Getenv
)

// Execute runs the CLI with a background context.
func Execute() error { return ExecuteContext(context.Background()) }

// ExecuteContext runs the CLI; ctx cancels long-running commands.
func ExecuteContext(ctx context.Context) error {
	return newRootCmd().ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "aethos",
		Short:        "Aethos desktop client core: identity, session cache and relay diagnostics",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg := app.DefaultConfig()
			if configPath != "" {
				if err := app.LoadFile(configPath, &cfg); err != nil {
					return err
				}
			}
			cfg.ApplyEnv(getenv)

			flags := cmd.Flags()
			if flags.Changed("profile") {
				cfg.Profile = profile
			}
			if dataHome != "" {
				cfg.DataHome = dataHome
			}
			if logLevel != "" {
				cfg.LogLevel = logLevel
			}
			if len(relays) > 0 {
				cfg.Relays = relays
			}
			if awaitAck {
				cfg.AwaitAck = true
			}
			if metricsAddr != "" {
				cfg.MetricsAddr = metricsAddr
			}

			log, err := logger.New(cmd.ErrOrStderr(), cfg.LogLevel)
			if err != nil {
				return err
			}
			appCtx, err = app.New(cfg, log)
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if appCtx != nil {
				_ = appCtx.Logger.Sync()
			}
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&profile, "profile", "", "profile name (default \"default\")")
	pf.StringVar(&dataHome, "data-home", "", "data root (default $XDG_DATA_HOME or ~/.local/share)")
	pf.StringVar(&configPath, "config", "", "optional TOML config file")
	pf.StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error (default \"info\")")

	root.AddCommand(initCmd(), fingerprintCmd(), identityCmd(), cacheCmd(), connectCmd())
	return root
}
