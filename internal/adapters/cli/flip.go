package cli

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/geflip-go/internal/adapters/export"
	"github.com/andrescamacho/geflip-go/internal/app"
	ledgerCommands "github.com/andrescamacho/geflip-go/internal/application/ledger/commands"
	ledgerQueries "github.com/andrescamacho/geflip-go/internal/application/ledger/queries"
	ledgerTypes "github.com/andrescamacho/geflip-go/internal/application/ledger/types"
	"github.com/andrescamacho/geflip-go/pkg/utils"
)

// NewFlipCommand creates the flip command with subcommands
func NewFlipCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "flip",
		Short: "Log and review completed flips",
		Long: `Keep a history of completed flips and their realised profit.

Profit is computed after the 2% GE tax on the sell side:
  profit = qty × sell − qty × tax − qty × buy

Examples:
  geflip flip log --item 2 --qty 1000 --buy 180 --sell 195
  geflip flip log --item 2363 --qty 70 --buy 12k --sell 12.6k --note "evening dip"
  geflip flip list --from 2024-01-01 --limit 20
  geflip flip summary --from 2024-01-01 --to 2024-01-31`,
	}

	cmd.AddCommand(newFlipLogCommand())
	cmd.AddCommand(newFlipListCommand())
	cmd.AddCommand(newFlipSummaryCommand())

	return cmd
}

func newFlipLogCommand() *cobra.Command {
	var (
		itemID   int
		qty      int64
		buy      string
		sell     string
		boughtAt string
		soldAt   string
		note     string
	)

	cmd := &cobra.Command{
		Use:   "log",
		Short: "Log a completed flip",
		RunE: func(cmd *cobra.Command, args []string) error {
			buyPrice, err := utils.ParseGP(buy)
			if err != nil {
				return err
			}
			sellPrice, err := utils.ParseGP(sell)
			if err != nil {
				return err
			}
			bought, err := parseTimeFlag("bought-at", boughtAt)
			if err != nil {
				return err
			}
			sold, err := parseTimeFlag("sold-at", soldAt)
			if err != nil {
				return err
			}

			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				resp, err := a.Mediator.Send(ctx, &ledgerCommands.LogFlipCommand{
					ItemID:    itemID,
					Quantity:  qty,
					BuyPrice:  buyPrice,
					SellPrice: sellPrice,
					BoughtAt:  bought,
					SoldAt:    sold,
					Note:      note,
				})
				if err != nil {
					return err
				}
				f := resp.(*ledgerCommands.LogFlipResponse).Flip
				fmt.Fprintf(cmd.OutOrStdout(), "✓ Logged flip %s: %d × %s, profit %s gp\n",
					f.ID, f.Quantity, f.ItemName, utils.FormatGPGrouped(f.Profit))
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&itemID, "item", 0, "Item id [required]")
	cmd.Flags().Int64Var(&qty, "qty", 0, "Quantity [required]")
	cmd.Flags().StringVar(&buy, "buy", "", "Unit buy price [required]")
	cmd.Flags().StringVar(&sell, "sell", "", "Unit sell price [required]")
	cmd.Flags().StringVar(&boughtAt, "bought-at", "", "Buy time (default: sell time)")
	cmd.Flags().StringVar(&soldAt, "sold-at", "", "Sell time (default: now)")
	cmd.Flags().StringVar(&note, "note", "", "Free-form note")
	cmd.MarkFlagRequired("item")
	cmd.MarkFlagRequired("qty")
	cmd.MarkFlagRequired("buy")
	cmd.MarkFlagRequired("sell")

	return cmd
}

func newFlipListCommand() *cobra.Command {
	var (
		from   string
		to     string
		itemID int
		limit  int
		offset int
		output string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List logged flips, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := parseTimeFlag("from", from)
			if err != nil {
				return err
			}
			end, err := parseTimeFlag("to", to)
			if err != nil {
				return err
			}
			format, err := export.ParseFormat(output)
			if err != nil {
				return err
			}
			if format.IsBinary() {
				return fmt.Errorf("use 'geflip export --flips' for workbook output")
			}

			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				query := &ledgerQueries.ListFlipsQuery{StartDate: start, EndDate: end, Limit: limit, Offset: offset}
				if itemID > 0 {
					query.ItemID = &itemID
				}
				resp, err := a.Mediator.Send(ctx, query)
				if err != nil {
					return err
				}
				flips := resp.(*ledgerQueries.ListFlipsResponse).Flips
				if format != export.FormatTable {
					if flips == nil {
						flips = []*ledgerTypes.FlipDTO{}
					}
					return export.Encode(cmd.OutOrStdout(), format, flips)
				}
				return printFlips(cmd, flips)
			})
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "Only flips sold at or after this time")
	cmd.Flags().StringVar(&to, "to", "", "Only flips sold before this time")
	cmd.Flags().IntVar(&itemID, "item", 0, "Only flips of this item id")
	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum number of flips to show")
	cmd.Flags().IntVar(&offset, "offset", 0, "Number of flips to skip")
	cmd.Flags().StringVarP(&output, "output", "o", "table", "Output format: table, json or yaml")

	return cmd
}

func printFlips(cmd *cobra.Command, flips []*ledgerTypes.FlipDTO) error {
	out := cmd.OutOrStdout()
	if len(flips) == 0 {
		fmt.Fprintln(out, "No flips found.")
		return nil
	}
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SOLD\tITEM\tQTY\tBUY\tSELL\tPROFIT\tNOTE")
	fmt.Fprintln(w, "────\t────\t───\t───\t────\t──────\t────")
	for _, f := range flips {
		fmt.Fprintf(w, "%s\t%s (%d)\t%d\t%s\t%s\t%s\t%s\n",
			f.SoldAt.Local().Format(time.DateTime), f.ItemName, f.ItemID, f.Quantity,
			utils.FormatGPGrouped(f.BuyPrice), utils.FormatGPGrouped(f.SellPrice),
			utils.FormatGPGrouped(f.Profit), f.Note)
	}
	return w.Flush()
}

func newFlipSummaryCommand() *cobra.Command {
	var (
		from string
		to   string
	)

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Total cost, profit and ROI of logged flips",
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := parseTimeFlag("from", from)
			if err != nil {
				return err
			}
			end, err := parseTimeFlag("to", to)
			if err != nil {
				return err
			}
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				resp, err := a.Mediator.Send(ctx, &ledgerQueries.GetFlipSummaryQuery{StartDate: start, EndDate: end})
				if err != nil {
					return err
				}
				s := resp.(*ledgerQueries.GetFlipSummaryResponse)
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Flip summary (%s)\n", s.Period)
				fmt.Fprintln(out, "==================")
				fmt.Fprintf(out, "  Flips:   %d\n", s.Count)
				fmt.Fprintf(out, "  Cost:    %s gp\n", utils.FormatGPGrouped(s.TotalCost))
				fmt.Fprintf(out, "  Profit:  %s gp\n", utils.FormatGPGrouped(s.TotalProfit))
				fmt.Fprintf(out, "  ROI:     %.2f%%\n", s.ROI*100)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "Start of the period")
	cmd.Flags().StringVar(&to, "to", "", "End of the period")

	return cmd
}
