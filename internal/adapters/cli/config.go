package cli

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/geflip-go/internal/infrastructure/config"
	"github.com/andrescamacho/geflip-go/pkg/utils"
)

// NewConfigCommand creates the config command with subcommands
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration settings",
		Long: `Manage geflip configuration settings.

Configuration is loaded from multiple sources with priority:
1. Environment variables (GEFLIP_* prefix)
2. Config file (config.yaml)
3. Default values

User preferences (default budget, top and gp file) are stored in
~/.geflip/preferences.json and apply when the matching flag is omitted.

Examples:
  geflip config show
  geflip config set-budget 50m
  geflip config set-top 15
  geflip config set-gp-file ~/.runelite/gp.json
  geflip config clear`,
	}

	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigSetBudgetCommand())
	cmd.AddCommand(newConfigSetTopCommand())
	cmd.AddCommand(newConfigSetGPFileCommand())
	cmd.AddCommand(newConfigClearCommand())

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			handler, err := newUserConfigHandler()
			if err != nil {
				return fmt.Errorf("failed to create user config handler: %w", err)
			}
			prefs, err := handler.Load()
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Warning: Failed to load user config: %v\n\n", err)
				prefs = &config.UserConfig{}
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "geflip Configuration")
			fmt.Fprintln(out, "====================")

			fmt.Fprintln(out, "User Preferences:")
			fmt.Fprintf(out, "  Config file:      %s\n", handler.GetConfigPath())
			if prefs.DefaultBudget != nil {
				fmt.Fprintf(out, "  Default budget:   %s\n", utils.FormatGP(*prefs.DefaultBudget, true))
			} else {
				fmt.Fprintln(out, "  Default budget:   (not set)")
			}
			if prefs.DefaultTop != nil {
				fmt.Fprintf(out, "  Default top:      %d\n", *prefs.DefaultTop)
			}
			if prefs.GPFile != "" {
				fmt.Fprintf(out, "  GP file:          %s\n", prefs.GPFile)
			}

			fmt.Fprintln(out, "\nDatabase:")
			fmt.Fprintf(out, "  Type:             %s\n", cfg.Database.Type)
			if cfg.Database.URL != "" {
				fmt.Fprintf(out, "  URL:              %s\n", maskPassword(cfg.Database.URL))
			} else if cfg.Database.Path != "" {
				fmt.Fprintf(out, "  Path:             %s\n", cfg.Database.Path)
			}

			fmt.Fprintln(out, "\nPrices:")
			fmt.Fprintf(out, "  Wiki API:         %s\n", cfg.Wiki.BaseURL)
			fmt.Fprintf(out, "  User agent:       %s\n", cfg.Wiki.UserAgent)
			fmt.Fprintf(out, "  Cache:            %s (catalog %s, prices %s)\n",
				cfg.Cache.Backend, cfg.Cache.CatalogTTL, cfg.Cache.PricesTTL)

			fmt.Fprintln(out, "\nLimits:")
			fmt.Fprintf(out, "  Source:           %s\n", cfg.Limits.Source)
			fmt.Fprintf(out, "  Window:           %s\n", cfg.Limits.Window)
			fmt.Fprintf(out, "  Local log:        %s\n", cfg.Limits.LocalPath)

			fmt.Fprintln(out, "\nSuggest defaults:")
			fmt.Fprintf(out, "  Price source:     %s\n", cfg.Suggest.PriceSource)
			fmt.Fprintf(out, "  Min ROI:          %.2f%%\n", cfg.Suggest.MinROI*100)
			fmt.Fprintf(out, "  Min profit:       %d gp\n", cfg.Suggest.MinProfit)
			fmt.Fprintf(out, "  Min volume:       %d/h\n", cfg.Suggest.MinHourlyVolume)
			fmt.Fprintf(out, "  Freshness:        %.0f min (%s)\n", cfg.Suggest.FreshMinutes, cfg.Suggest.FreshPolicy)

			fmt.Fprintln(out, "\nDaemon:")
			fmt.Fprintf(out, "  Socket Path:      %s\n", cfg.Daemon.SocketPath)
			fmt.Fprintf(out, "  HTTP Address:     %s\n", cfg.Daemon.HTTP.Address)
			fmt.Fprintf(out, "  Refresh:          %s\n", cfg.Daemon.RefreshInterval)

			fmt.Fprintln(out, "\nLogging:")
			fmt.Fprintf(out, "  Level:            %s\n", cfg.Logging.Level)
			fmt.Fprintf(out, "  Format:           %s\n", cfg.Logging.Format)
			fmt.Fprintf(out, "  Output:           %s\n", cfg.Logging.Output)

			return nil
		},
	}
}

func newConfigSetBudgetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set-budget <gp>",
		Short: "Set the default budget",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			budget, err := utils.ParseGP(args[0])
			if err != nil {
				return err
			}
			handler, err := newUserConfigHandler()
			if err != nil {
				return err
			}
			if err := handler.SetDefaultBudget(budget); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Default budget set to %s\n", utils.FormatGP(budget, true))
			return nil
		},
	}
}

func newConfigSetTopCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set-top <n>",
		Short: "Set the default number of suggestions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := parseItemID(args[0])
			if err != nil {
				return fmt.Errorf("top must be a positive number: %q", args[0])
			}
			handler, err := newUserConfigHandler()
			if err != nil {
				return err
			}
			if err := handler.Update(func(c *config.UserConfig) { c.DefaultTop = &n }); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Default top set to %d\n", n)
			return nil
		},
	}
}

func newConfigSetGPFileCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set-gp-file <path>",
		Short: "Set the file the watch view reads your gp from",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			handler, err := newUserConfigHandler()
			if err != nil {
				return err
			}
			if err := handler.Update(func(c *config.UserConfig) { c.GPFile = args[0] }); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ GP file set to %s\n", args[0])
			return nil
		},
	}
}

func newConfigClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear all stored preferences",
		RunE: func(cmd *cobra.Command, args []string) error {
			handler, err := newUserConfigHandler()
			if err != nil {
				return err
			}
			if err := handler.Clear(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "✓ Preferences cleared")
			return nil
		},
	}
}

// maskPassword hides the password of a database URL
func maskPassword(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}
	if _, ok := u.User.Password(); ok {
		u.User = url.UserPassword(u.User.Username(), "****")
	}
	return u.String()
}
