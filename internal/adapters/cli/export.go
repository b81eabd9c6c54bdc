package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/geflip-go/internal/adapters/export"
	"github.com/andrescamacho/geflip-go/internal/app"
	ledgerQueries "github.com/andrescamacho/geflip-go/internal/application/ledger/queries"
	ledgerTypes "github.com/andrescamacho/geflip-go/internal/application/ledger/types"
)

// exportFlipLimit bounds the flip sheet
const exportFlipLimit = 10_000

// NewExportCommand creates the export command
func NewExportCommand() *cobra.Command {
	var (
		budget    string
		top       int
		ids       []string
		filters   filterFlags
		withGuide bool
		format    string
		out       string
		flips     bool
		from      string
		to        string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export suggestions and the flip log to a file",
		Long: `Run the engine and write the report as an Excel workbook, JSON or YAML.

The workbook has an Info sheet, a Suggestions sheet and, with --flips, a
Flips sheet with the logged flips and their totals on the Info sheet.

Examples:
  geflip export --budget 50m --out flips.xlsx
  geflip export --budget 50m --top 50 --with-guide --out report.xlsx
  geflip export --budget 50m --flips --from 2024-01-01 --out history.xlsx
  geflip export --budget 10m --format yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}
			if f == export.FormatTable {
				return fmt.Errorf("export writes xlsx, json or yaml; use 'geflip suggest' for a table")
			}
			if f.IsBinary() && (out == "" || out == "-") {
				return fmt.Errorf("%s output needs --out FILE", f)
			}
			amount, err := resolveBudget(budget)
			if err != nil {
				return err
			}
			itemIDs, err := parseItemIDs(ids)
			if err != nil {
				return err
			}
			start, err := parseTimeFlag("from", from)
			if err != nil {
				return err
			}
			end, err := parseTimeFlag("to", to)
			if err != nil {
				return err
			}

			var wb export.Workbook
			err = withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				report, err := runSuggest(ctx, cmd, a, amount, resolveTop(cmd, top, cfg.Suggest.Top), itemIDs, &filters, withGuide)
				if err != nil {
					return err
				}
				wb.Report = report
				if !flips {
					return nil
				}
				listed, err := a.Mediator.Send(ctx, &ledgerQueries.ListFlipsQuery{StartDate: start, EndDate: end, Limit: exportFlipLimit})
				if err != nil {
					return err
				}
				wb.Flips = listed.(*ledgerQueries.ListFlipsResponse).Flips
				if wb.Flips == nil {
					wb.Flips = []*ledgerTypes.FlipDTO{}
				}
				summary, err := a.Mediator.Send(ctx, &ledgerQueries.GetFlipSummaryQuery{StartDate: start, EndDate: end})
				if err != nil {
					return err
				}
				wb.FlipSummary = summary.(*ledgerQueries.GetFlipSummaryResponse)
				return nil
			})
			if err != nil {
				return err
			}

			w, closeOut, err := openOutput(cmd, out, f)
			if err != nil {
				return err
			}
			if f == export.FormatXLSX {
				err = export.WriteWorkbook(w, wb)
			} else {
				err = export.Encode(w, f, wb)
			}
			if cerr := closeOut(); err == nil {
				err = cerr
			}
			if err != nil {
				return err
			}
			if out != "" && out != "-" {
				fmt.Fprintf(cmd.ErrOrStderr(), "✓ Wrote %d suggestions to %s\n", len(wb.Report.Suggestions), out)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&budget, "budget", "b", "", "Available gp (default from 'geflip config set-budget')")
	cmd.Flags().IntVarP(&top, "top", "n", 10, "Number of suggestions to export")
	cmd.Flags().StringSliceVar(&ids, "ids", nil, "Only consider these item ids (comma separated)")
	filters.bind(cmd)
	cmd.Flags().BoolVar(&withGuide, "with-guide", false, "Include the official GE guide price")
	cmd.Flags().StringVarP(&format, "format", "f", "xlsx", "File format: xlsx, json or yaml")
	cmd.Flags().StringVar(&out, "out", "", "Output file (required for xlsx; json/yaml default to stdout)")
	cmd.Flags().BoolVar(&flips, "flips", false, "Include the flip log and its summary")
	cmd.Flags().StringVar(&from, "from", "", "With --flips: only flips sold at or after this time")
	cmd.Flags().StringVar(&to, "to", "", "With --flips: only flips sold before this time")

	return cmd
}
