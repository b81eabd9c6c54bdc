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
	limitsCommands "github.com/andrescamacho/geflip-go/internal/application/limits/commands"
	limitsQueries "github.com/andrescamacho/geflip-go/internal/application/limits/queries"
)

// NewRecordCommand creates the record command
func NewRecordCommand() *cobra.Command {
	var at string

	cmd := &cobra.Command{
		Use:   "record <buy|sell> <item-id> <quantity>",
		Short: "Record a GE purchase or sale",
		Long: `Append a purchase event to the local log used for remaining buy limits.

Only buys count against the 4 hour buy limit; sells are stored for history.
Events go to the JSON state file, or to the database when limits.source is
"database".

Examples:
  geflip record buy 2 1000
  geflip record sell 2 1000
  geflip record buy 2363 70 --at 1700000000`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			itemID, err := parseItemID(args[1])
			if err != nil {
				return err
			}
			qty, err := strconv.ParseInt(args[2], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid quantity %q", args[2])
			}
			when, err := parseTimeFlag("at", at)
			if err != nil {
				return err
			}

			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				resp, err := a.Mediator.Send(ctx, &limitsCommands.RecordPurchaseCommand{
					ItemID:   itemID,
					Quantity: qty,
					Kind:     args[0],
					At:       when,
				})
				if err != nil {
					return err
				}
				ev := resp.(*limitsCommands.RecordPurchaseResponse).Event
				fmt.Fprintf(cmd.OutOrStdout(), "✓ Recorded %s of %d × item %d at %s\n",
					ev.Kind, ev.Quantity, ev.ItemID,
					time.Unix(ev.Timestamp, 0).Local().Format(time.DateTime))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&at, "at", "", "Event time: unix seconds, YYYY-MM-DD or RFC3339 (default now)")

	return cmd
}

// NewLimitsCommand creates the limits command
func NewLimitsCommand() *cobra.Command {
	var (
		ids    []string
		output string
	)

	cmd := &cobra.Command{
		Use:   "limits",
		Short: "Show remaining buy limits",
		Long: `Show the remaining buy limit per item over the trailing 4 hour window.

The source is the first available of: Flipper2 export, local purchase log.
Without --ids only items with recent buys are listed.

Examples:
  geflip limits
  geflip limits --ids 2,2363
  geflip limits --output json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			itemIDs, err := parseItemIDs(ids)
			if err != nil {
				return err
			}
			format, err := export.ParseFormat(output)
			if err != nil {
				return err
			}
			if format.IsBinary() {
				return fmt.Errorf("limits cannot be written as %s", format)
			}

			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				resp, err := a.Mediator.Send(ctx, &limitsQueries.GetRemainingLimitsQuery{ItemIDs: itemIDs})
				if err != nil {
					return err
				}
				report := resp.(*limitsQueries.GetRemainingLimitsResponse)
				if format != export.FormatTable {
					return export.Encode(cmd.OutOrStdout(), format, limitsDocument{
						Source:        report.Source,
						WindowSeconds: int64(report.Window.Seconds()),
						Items:         report.Items,
					})
				}
				return printLimits(cmd, report)
			})
		},
	}

	cmd.Flags().StringSliceVar(&ids, "ids", nil, "Report these item ids (comma separated)")
	cmd.Flags().StringVarP(&output, "output", "o", "table", "Output format: table, json or yaml")

	return cmd
}

type limitsDocument struct {
	Source        string                            `json:"source,omitempty" yaml:"source,omitempty"`
	WindowSeconds int64                             `json:"window_seconds" yaml:"window_seconds"`
	Items         []limitsQueries.RemainingLimitDTO `json:"items" yaml:"items"`
}

func printLimits(cmd *cobra.Command, report *limitsQueries.GetRemainingLimitsResponse) error {
	out := cmd.OutOrStdout()
	if report.Source == "" {
		fmt.Fprintln(out, "No purchase history source available; buy limits are not tracked.")
		return nil
	}
	fmt.Fprintf(out, "Source: %s (window %s)\n\n", report.Source, report.Window)
	if len(report.Items) == 0 {
		fmt.Fprintln(out, "No buys in the current window.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ITEM\tNAME\tLIMIT\tUSED\tREMAINING")
	fmt.Fprintln(w, "────\t────\t─────\t────\t─────────")
	for _, item := range report.Items {
		fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%d\n", item.ItemID, item.Name, item.BuyLimit, item.Used, item.Remaining)
	}
	return w.Flush()
}
