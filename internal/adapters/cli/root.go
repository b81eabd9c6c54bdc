package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/geflip-go/internal/app"
	"github.com/andrescamacho/geflip-go/internal/infrastructure/config"
	"github.com/andrescamacho/geflip-go/internal/infrastructure/logging"
)

var (
	// Global flags
	configPath string
	socketPath string
	verbose    bool

	// cfg is loaded once per invocation by the root PersistentPreRunE
	cfg       *config.Config
	logCloser io.Closer
)

// loadConfig and appFactory are replaced in tests
var (
	loadConfig = func() (*config.Config, error) {
		return config.LoadConfig(configPath)
	}

	appFactory = func(ctx context.Context, cfg *config.Config) (*app.App, func(), error) {
		a, err := app.New(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		return a, func() { _ = a.Close() }, nil
	}
)

// NewRootCommand creates the root command for the CLI
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "geflip",
		Short: "geflip - Grand Exchange flip suggestions",
		Long: `geflip ranks profitable buy/sell flips from live Grand Exchange prices,
respecting per-item buy limits and your recent purchases.

Prices come from the OSRS Wiki real-time API. Remaining buy limits come from a
Flipper2 export when one is found, otherwise from the local purchase log.

Examples:
  geflip suggest --budget 50m
  geflip suggest --budget 10m --price-source hybrid --top 20 --with-guide
  geflip record buy 2 1000
  geflip limits
  geflip watch --budget 50m
  geflip watchlist add 2 560 2363
  geflip alert add --item 2363 --direction below --price 11.5k
  geflip flip log --item 2 --qty 1000 --buy 180 --sell 195
  geflip export --budget 50m --format xlsx --out flips.xlsx
  geflip daemon status`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			cfg = loaded
			if socketPath == "" {
				socketPath = cfg.Daemon.SocketPath
			}

			logCfg := cfg.Logging
			if logCfg.Output == "stdout" {
				// stdout is reserved for tables and exports
				logCfg.Output = "stderr"
			}
			if verbose {
				logCfg.Level = "debug"
			}
			closer, err := logging.Setup(logCfg)
			if err != nil {
				return fmt.Errorf("failed to set up logging: %w", err)
			}
			logCloser = closer
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if logCloser != nil {
				return logCloser.Close()
			}
			return nil
		},
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Path to config.yaml (default: search ., ./configs, ~/.geflip, /etc/geflip)")
	rootCmd.PersistentFlags().StringVar(&socketPath, "socket", os.Getenv("GEFLIP_SOCKET"),
		"Path to daemon Unix socket (default from config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Enable debug logging")

	rootCmd.AddCommand(NewSuggestCommand())
	rootCmd.AddCommand(NewRecordCommand())
	rootCmd.AddCommand(NewLimitsCommand())
	rootCmd.AddCommand(NewWatchCommand())
	rootCmd.AddCommand(NewWatchlistCommand())
	rootCmd.AddCommand(NewAlertCommand())
	rootCmd.AddCommand(NewFlipCommand())
	rootCmd.AddCommand(NewItemsCommand())
	rootCmd.AddCommand(NewExportCommand())
	rootCmd.AddCommand(NewConfigCommand())
	rootCmd.AddCommand(NewDaemonCommand())

	return rootCmd
}

// withApp builds the application for the duration of fn
func withApp(ctx context.Context, fn func(ctx context.Context, a *app.App) error) error {
	a, release, err := appFactory(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}
	defer release()
	return fn(ctx, a)
}

// Execute runs the root command
func Execute() {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
