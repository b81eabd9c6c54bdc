package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/geflip-go/internal/adapters/export"
	daemongrpc "github.com/andrescamacho/geflip-go/internal/adapters/grpc"
	"github.com/andrescamacho/geflip-go/internal/app"
	tradingQueries "github.com/andrescamacho/geflip-go/internal/application/trading/queries"
	"github.com/andrescamacho/geflip-go/pkg/utils"
)

// daemonFilterFlags are the filter overrides the daemon RPC understands
var daemonFilterFlags = map[string]bool{
	"price-source": true,
	"min-roi":      true,
	"min-profit":   true,
	"min-volume":   true,
}

// NewSuggestCommand creates the suggest command
func NewSuggestCommand() *cobra.Command {
	var (
		budget    string
		top       int
		ids       []string
		filters   filterFlags
		withGuide bool
		output    string
		fullGP    bool
		useDaemon bool
	)

	cmd := &cobra.Command{
		Use:   "suggest",
		Short: "Suggest profitable flips for a budget",
		Long: `Rank items by expected profit per hour for the given budget.

Each suggestion buys at the instant-sell price and sells at the instant-buy
price (nudged toward each other by --aggressiveness), pays the 2% GE tax, and
is sized by budget, buy limit, remaining limit and hourly volume.

Filter flags override the defaults from the suggest section of config.yaml.
With --daemon the request goes to the running daemon, which reuses its warm
price cache; only --price-source, --min-roi, --min-profit and --min-volume are
forwarded.

Output formats:
  table  - aligned columns (default)
  json   - the full report as JSON
  yaml   - the full report as YAML

Examples:
  geflip suggest --budget 50m
  geflip suggest --budget 10m --top 20 --price-source hybrid
  geflip suggest --budget 2.5m --ids 2,560,2363 --with-guide
  geflip suggest --budget 50m --min-roi 0.02 --output json
  geflip suggest --budget 50m --daemon`,
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := resolveBudget(budget)
			if err != nil {
				return err
			}
			itemIDs, err := parseItemIDs(ids)
			if err != nil {
				return err
			}
			format, err := export.ParseFormat(output)
			if err != nil {
				return err
			}
			if format.IsBinary() {
				return fmt.Errorf("use 'geflip export --format %s' for workbook output", format)
			}
			n := resolveTop(cmd, top, cfg.Suggest.Top)

			var report *export.SuggestionReport
			if useDaemon {
				report, err = suggestViaDaemon(cmd, amount, n, itemIDs, &filters, withGuide)
			} else {
				err = withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
					r, err := runSuggest(ctx, cmd, a, amount, n, itemIDs, &filters, withGuide)
					report = r
					return err
				})
			}
			if err != nil {
				return err
			}

			opts := export.TableOptions{FullGP: fullGP, WithGuide: withGuide}
			if err := export.WriteSuggestions(cmd.OutOrStdout(), format, *report, opts); err != nil {
				return err
			}
			if format == export.FormatTable && len(report.Suggestions) > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "\nBudget %s · prices %s · limits %s · %s\n",
					utils.FormatGP(report.Budget, true), report.PriceSource,
					orDash(report.LimitSource), report.GeneratedAt.Local().Format(time.TimeOnly))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&budget, "budget", "b", "", "Available gp, e.g. 50m, 2.5m, 900k (default from 'geflip config set-budget')")
	cmd.Flags().IntVarP(&top, "top", "n", 10, "Number of suggestions to show")
	cmd.Flags().StringSliceVar(&ids, "ids", nil, "Only consider these item ids (comma separated)")
	filters.bind(cmd)
	cmd.Flags().BoolVar(&withGuide, "with-guide", false, "Add the official GE guide price column")
	cmd.Flags().StringVarP(&output, "output", "o", "table", "Output format: table, json or yaml")
	cmd.Flags().BoolVar(&fullGP, "full-gp", false, "Print prices without k/m/b abbreviations")
	cmd.Flags().BoolVar(&useDaemon, "daemon", false, "Ask the running daemon instead of fetching prices directly")

	return cmd
}

// runSuggest runs the engine in-process and returns the report
func runSuggest(
	ctx context.Context,
	cmd *cobra.Command,
	a *app.App,
	budget int64,
	top int,
	itemIDs []int,
	flags *filterFlags,
	withGuide bool,
) (*export.SuggestionReport, error) {
	filters, err := flags.apply(cmd, a.Filters)
	if err != nil {
		return nil, err
	}
	resp, err := a.Mediator.Send(ctx, &tradingQueries.GenerateSuggestionsQuery{
		Budget:    budget,
		Filters:   &filters,
		TopN:      top,
		ItemIDs:   itemIDs,
		WithGuide: withGuide,
	})
	if err != nil {
		return nil, err
	}
	result := resp.(*tradingQueries.GenerateSuggestionsResponse)
	return &export.SuggestionReport{
		GeneratedAt: result.GeneratedAt,
		Budget:      budget,
		PriceSource: result.PriceSource,
		LimitSource: result.LimitSource,
		Suggestions: result.Suggestions,
	}, nil
}

func suggestViaDaemon(
	cmd *cobra.Command,
	budget int64,
	top int,
	itemIDs []int,
	flags *filterFlags,
	withGuide bool,
) (*export.SuggestionReport, error) {
	for _, name := range filterFlagNames {
		if cmd.Flags().Changed(name) && !daemonFilterFlags[name] {
			return nil, fmt.Errorf("--%s cannot be forwarded to the daemon; drop --daemon to use it", name)
		}
	}

	req := daemongrpc.SuggestRequest{
		Budget:    budget,
		Top:       top,
		ItemIDs:   itemIDs,
		WithGuide: withGuide,
	}
	if cmd.Flags().Changed("price-source") {
		req.PriceSource = flags.priceSource
	}
	if cmd.Flags().Changed("min-roi") {
		req.MinROI = &flags.minROI
	}
	if cmd.Flags().Changed("min-profit") {
		gp, err := utils.ParseGP(flags.minProfit)
		if err != nil {
			return nil, err
		}
		req.MinProfit = &gp
	}
	if cmd.Flags().Changed("min-volume") {
		req.MinVolume = &flags.minVolume
	}

	client, err := daemongrpc.NewDaemonClient(socketPath)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to daemon: %w", err)
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()
	reply, err := client.Suggest(ctx, req)
	if err != nil {
		return nil, err
	}
	return &export.SuggestionReport{
		GeneratedAt: reply.GeneratedAt,
		Budget:      budget,
		PriceSource: reply.PriceSource,
		LimitSource: reply.LimitSource,
		Suggestions: reply.Suggestions,
	}, nil
}
