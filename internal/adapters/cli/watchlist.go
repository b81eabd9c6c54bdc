package cli

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/geflip-go/internal/adapters/export"
	daemongrpc "github.com/andrescamacho/geflip-go/internal/adapters/grpc"
	"github.com/andrescamacho/geflip-go/internal/app"
	watchCommands "github.com/andrescamacho/geflip-go/internal/application/watch/commands"
	watchQueries "github.com/andrescamacho/geflip-go/internal/application/watch/queries"
	watchServices "github.com/andrescamacho/geflip-go/internal/application/watch/services"
)

// NewWatchlistCommand creates the watchlist command with subcommands
func NewWatchlistCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watchlist",
		Short: "Manage the persisted watchlist",
		Long: `Manage the items the daemon keeps re-evaluating.

The watchlist is stored in the database. The daemon refreshes it on
daemon.refresh_interval; 'watchlist refresh' evaluates it on demand.

Examples:
  geflip watchlist add 2 560 2363
  geflip watchlist list
  geflip watchlist remove 560
  geflip watchlist refresh --budget 50m
  geflip watchlist refresh --daemon`,
	}

	cmd.AddCommand(newWatchlistAddCommand())
	cmd.AddCommand(newWatchlistRemoveCommand())
	cmd.AddCommand(newWatchlistListCommand())
	cmd.AddCommand(newWatchlistRefreshCommand())

	return cmd
}

func newWatchlistAddCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "add <item-id>...",
		Short: "Watch items",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseItemIDs(args)
			if err != nil {
				return err
			}
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				resp, err := a.Mediator.Send(ctx, &watchCommands.AddWatchCommand{ItemIDs: ids})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "✓ Watching %d items\n", resp.(*watchCommands.AddWatchResponse).Watched)
				return nil
			})
		},
	}
}

func newWatchlistRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <item-id>",
		Short: "Stop watching an item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseItemID(args[0])
			if err != nil {
				return err
			}
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				resp, err := a.Mediator.Send(ctx, &watchCommands.RemoveWatchCommand{ItemID: id})
				if err != nil {
					return err
				}
				if !resp.(*watchCommands.RemoveWatchResponse).Removed {
					return fmt.Errorf("item %d is not on the watchlist", id)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "✓ Removed item %d\n", id)
				return nil
			})
		},
	}
}

func newWatchlistListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List watched items",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				resp, err := a.Mediator.Send(ctx, &watchQueries.ListWatchlistQuery{})
				if err != nil {
					return err
				}
				items := resp.(*watchQueries.ListWatchlistResponse).Items
				out := cmd.OutOrStdout()
				if len(items) == 0 {
					fmt.Fprintln(out, "Watchlist is empty.")
					return nil
				}
				w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "ITEM\tNAME\tADDED")
				fmt.Fprintln(w, "────\t────\t─────")
				for _, item := range items {
					fmt.Fprintf(w, "%d\t%s\t%s\n", item.ItemID, item.Name, item.AddedAt.Local().Format(time.DateTime))
				}
				return w.Flush()
			})
		},
	}
}

func newWatchlistRefreshCommand() *cobra.Command {
	var (
		budget    string
		useDaemon bool
		fullGP    bool
	)

	cmd := &cobra.Command{
		Use:   "refresh",
		Short: "Evaluate the watchlist now",
		Long: `Run the engine restricted to the watched items with loosened filters.

With --daemon the running daemon refreshes with its own budget and the result
is also pushed to websocket clients.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var result *watchServices.RefreshResult
			if useDaemon {
				client, err := daemongrpc.NewDaemonClient(socketPath)
				if err != nil {
					return fmt.Errorf("failed to connect to daemon: %w", err)
				}
				defer client.Close()
				ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
				defer cancel()
				if result, err = client.RefreshWatchlist(ctx); err != nil {
					return err
				}
			} else {
				amount, err := resolveBudget(budget)
				if err != nil {
					return err
				}
				err = withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
					refresher := watchServices.NewWatchlistRefresher(a.Suggestions, a.Watchlist, amount, a.Filters)
					result, err = refresher.RefreshOnce(ctx)
					return err
				})
				if err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			if len(result.Watched) == 0 {
				fmt.Fprintln(out, "Watchlist is empty.")
				return nil
			}
			fmt.Fprintf(out, "Refreshed %d watched items at %s (run %s)\n\n",
				len(result.Watched), result.At.Local().Format(time.TimeOnly), result.RunID)
			return export.WriteSuggestionTable(out, result.Suggestions, export.TableOptions{FullGP: fullGP})
		},
	}

	cmd.Flags().StringVarP(&budget, "budget", "b", "", "Available gp (default from 'geflip config set-budget')")
	cmd.Flags().BoolVar(&useDaemon, "daemon", false, "Ask the running daemon to refresh")
	cmd.Flags().BoolVar(&fullGP, "full-gp", false, "Print prices without k/m/b abbreviations")

	return cmd
}
