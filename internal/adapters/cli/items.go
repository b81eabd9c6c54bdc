package cli

import (
	"context"
	"fmt"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/geflip-go/internal/adapters/export"
	"github.com/andrescamacho/geflip-go/internal/app"
	tradingQueries "github.com/andrescamacho/geflip-go/internal/application/trading/queries"
	"github.com/andrescamacho/geflip-go/pkg/utils"
)

// NewItemsCommand creates the items command with subcommands
func NewItemsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "items",
		Short: "Look up items and prices",
		Long: `Search the item catalog and inspect current prices.

Examples:
  geflip items search runite
  geflip items show 2363
  geflip items timeseries 2363 --timestep 1h`,
	}

	cmd.AddCommand(newItemsSearchCommand())
	cmd.AddCommand(newItemsShowCommand())
	cmd.AddCommand(newItemsTimeseriesCommand())

	return cmd
}

func newItemsSearchCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Find items by name (case-insensitive)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				resp, err := a.Mediator.Send(ctx, &tradingQueries.SearchItemsQuery{Query: args[0], Limit: limit})
				if err != nil {
					return err
				}
				result := resp.(*tradingQueries.SearchItemsResponse)
				out := cmd.OutOrStdout()
				if len(result.Items) == 0 {
					fmt.Fprintf(out, "No items match %q.\n", args[0])
					return nil
				}
				w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tNAME\tLIMIT\tMEMBERS")
				fmt.Fprintln(w, "──\t────\t─────\t───────")
				for _, item := range result.Items {
					members := "-"
					if item.Members != nil {
						members = strconv.FormatBool(*item.Members)
					}
					fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", item.ItemID, item.Name, optionalInt(item.BuyLimit), members)
				}
				if err := w.Flush(); err != nil {
					return err
				}
				if result.Total > len(result.Items) {
					fmt.Fprintf(out, "\nShowing %d of %d matches; use --limit to see more.\n", len(result.Items), result.Total)
				}
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of matches")

	return cmd
}

func newItemsShowCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "show <item-id>",
		Short: "Show the current prices of an item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseItemID(args[0])
			if err != nil {
				return err
			}
			format, err := export.ParseFormat(output)
			if err != nil {
				return err
			}
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				resp, err := a.Mediator.Send(ctx, &tradingQueries.GetItemQuery{ItemID: id})
				if err != nil {
					return err
				}
				item := resp.(*tradingQueries.GetItemResponse).Item
				out := cmd.OutOrStdout()
				if format != export.FormatTable {
					return export.Encode(out, format, item)
				}

				fmt.Fprintf(out, "%s (%d)\n", item.Name, item.ItemID)
				fmt.Fprintf(out, "  Buy limit:     %s\n", optionalInt(item.BuyLimit))
				fmt.Fprintf(out, "  Instant buy:   %s %s\n", optionalGP(item.High), optionalTime(item.HighTime))
				fmt.Fprintf(out, "  Instant sell:  %s %s\n", optionalGP(item.Low), optionalTime(item.LowTime))
				fmt.Fprintf(out, "  1h avg high:   %s (%d traded)\n", optionalGP(item.AvgHighPrice), item.HighPriceVolume)
				fmt.Fprintf(out, "  1h avg low:    %s (%d traded)\n", optionalGP(item.AvgLowPrice), item.LowPriceVolume)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "table", "Output format: table, json or yaml")

	return cmd
}

func newItemsTimeseriesCommand() *cobra.Command {
	var (
		timestep string
		last     int
	)

	cmd := &cobra.Command{
		Use:   "timeseries <item-id>",
		Short: "Show recent price history of an item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseItemID(args[0])
			if err != nil {
				return err
			}
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				resp, err := a.Mediator.Send(ctx, &tradingQueries.GetTimeseriesQuery{ItemID: id, Timestep: timestep})
				if err != nil {
					return err
				}
				points := resp.(*tradingQueries.GetTimeseriesResponse).Points
				if last > 0 && len(points) > last {
					points = points[len(points)-last:]
				}
				out := cmd.OutOrStdout()
				if len(points) == 0 {
					fmt.Fprintln(out, "No data points.")
					return nil
				}
				w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "TIME\tAVG HIGH\tAVG LOW\tHIGH VOL\tLOW VOL")
				fmt.Fprintln(w, "────\t────────\t───────\t────────\t───────")
				for _, p := range points {
					fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\n",
						time.Unix(p.Timestamp, 0).Local().Format(time.DateTime),
						optionalGP(p.AvgHighPrice), optionalGP(p.AvgLowPrice),
						p.HighPriceVolume, p.LowPriceVolume)
				}
				return w.Flush()
			})
		},
	}

	cmd.Flags().StringVar(&timestep, "timestep", "5m", "Bucket size: 5m, 1h, 6h or 24h")
	cmd.Flags().IntVar(&last, "last", 24, "Show only the most recent N points (0 shows all)")

	return cmd
}

func optionalInt(v *int64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatInt(*v, 10)
}

func optionalGP(v *int64) string {
	if v == nil {
		return "-"
	}
	return utils.FormatGPGrouped(*v)
}

func optionalTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return "(" + t.Local().Format(time.DateTime) + ")"
}
