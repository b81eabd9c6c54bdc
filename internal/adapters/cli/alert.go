package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/geflip-go/internal/app"
	alertCommands "github.com/andrescamacho/geflip-go/internal/application/alert/commands"
	alertQueries "github.com/andrescamacho/geflip-go/internal/application/alert/queries"
	"github.com/andrescamacho/geflip-go/internal/application/alert/types"
	"github.com/andrescamacho/geflip-go/pkg/utils"
)

// NewAlertCommand creates the alert command with subcommands
func NewAlertCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "alert",
		Short: "Manage price alerts",
		Long: `Create and check one-shot price alerts.

An alert fires when the latest price crosses its target: "below" alerts fire
at or under the target, "above" alerts at or over it. The latest instant-buy
price is used, falling back to the instant-sell price. Fired alerts are
deactivated. The daemon checks active alerts every daemon.alert_interval.

Examples:
  geflip alert add --item 2363 --direction below --price 11.5k
  geflip alert add --item 2 --direction above --price 250
  geflip alert list --active
  geflip alert check
  geflip alert remove 6f1c...`,
	}

	cmd.AddCommand(newAlertAddCommand())
	cmd.AddCommand(newAlertListCommand())
	cmd.AddCommand(newAlertRemoveCommand())
	cmd.AddCommand(newAlertCheckCommand())

	return cmd
}

func newAlertAddCommand() *cobra.Command {
	var (
		itemID    int
		direction string
		price     string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a price alert",
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := utils.ParseGP(price)
			if err != nil {
				return err
			}
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				resp, err := a.Mediator.Send(ctx, &alertCommands.CreateAlertCommand{
					ItemID:      itemID,
					Direction:   direction,
					TargetPrice: target,
				})
				if err != nil {
					return err
				}
				created := resp.(*alertCommands.CreateAlertResponse).Alert
				fmt.Fprintf(cmd.OutOrStdout(), "✓ Alert %s: %s %s %s\n",
					created.ID, itemLabel(created), created.Direction, utils.FormatGPGrouped(created.TargetPrice))
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&itemID, "item", 0, "Item id [required]")
	cmd.Flags().StringVar(&direction, "direction", "", "below or above [required]")
	cmd.Flags().StringVar(&price, "price", "", "Target price, e.g. 11.5k [required]")
	cmd.MarkFlagRequired("item")
	cmd.MarkFlagRequired("direction")
	cmd.MarkFlagRequired("price")

	return cmd
}

func newAlertListCommand() *cobra.Command {
	var activeOnly bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List price alerts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				resp, err := a.Mediator.Send(ctx, &alertQueries.ListAlertsQuery{ActiveOnly: activeOnly})
				if err != nil {
					return err
				}
				alerts := resp.(*alertQueries.ListAlertsResponse).Alerts
				if len(alerts) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No alerts.")
					return nil
				}
				return printAlerts(cmd.OutOrStdout(), alerts)
			})
		},
	}

	cmd.Flags().BoolVar(&activeOnly, "active", false, "Only show alerts that have not fired")

	return cmd
}

func newAlertRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <alert-id>",
		Short: "Delete a price alert",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				if _, err := a.Mediator.Send(ctx, &alertCommands.DeleteAlertCommand{AlertID: args[0]}); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "✓ Deleted alert %s\n", args[0])
				return nil
			})
		},
	}
}

func newAlertCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Check active alerts against the latest prices",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				resp, err := a.Mediator.Send(ctx, &alertCommands.CheckAlertsCommand{})
				if err != nil {
					return err
				}
				result := resp.(*alertCommands.CheckAlertsResponse)
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Checked %d active alerts, %d triggered\n", result.Checked, len(result.Triggered))
				if len(result.Triggered) == 0 {
					return nil
				}
				fmt.Fprintln(out)
				return printAlerts(out, result.Triggered)
			})
		},
	}
}

func printAlerts(out io.Writer, alerts []*types.AlertDTO) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tITEM\tDIRECTION\tTARGET\tSTATUS\tCREATED")
	fmt.Fprintln(w, "──\t────\t─────────\t──────\t──────\t───────")
	for _, al := range alerts {
		status := "active"
		if !al.Active {
			status = "fired"
			if al.TriggeredPrice != nil {
				status = "fired @ " + utils.FormatGPGrouped(*al.TriggeredPrice)
			}
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			al.ID, itemLabel(al), al.Direction, utils.FormatGPGrouped(al.TargetPrice),
			status, al.CreatedAt.Local().Format(time.DateTime))
	}
	return w.Flush()
}

func itemLabel(al *types.AlertDTO) string {
	if al.ItemName == "" {
		return fmt.Sprintf("item %d", al.ItemID)
	}
	return fmt.Sprintf("%s (%d)", al.ItemName, al.ItemID)
}
