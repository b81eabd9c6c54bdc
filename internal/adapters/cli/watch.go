package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/geflip-go/internal/app"
	watchServices "github.com/andrescamacho/geflip-go/internal/application/watch/services"
	"github.com/andrescamacho/geflip-go/internal/domain/watch"
	"github.com/andrescamacho/geflip-go/pkg/utils"
)

const clearScreen = "\033[H\033[2J"

// NewWatchCommand creates the live watch command
func NewWatchCommand() *cobra.Command {
	var (
		budget     string
		top        int
		interval   time.Duration
		autoAddTop int
		maxWatch   int
		noAutoAdd  bool
		gpFile     string
		once       bool
		filters    filterFlags
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch the best flips live",
		Long: `Select the top flips, then refresh them on an interval.

Watched items are re-evaluated with looser filters so a good flip does not
vanish on a small dip; items that stop qualifying keep their last reading.
New top candidates are added until --max-watch is reached. Arrows show the
move since the previous refresh.

If --gp-file points at a JSON file with a gp_available, gp, coins or cash
field, the amount is shown in the header.

Examples:
  geflip watch --budget 50m
  geflip watch --budget 20m --interval 30s --max-watch 40
  geflip watch --budget 50m --no-auto-add --top 15
  geflip watch --budget 50m --once`,
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := resolveBudget(budget)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("interval") {
				interval = cfg.Watch.Interval
			}
			if interval <= 0 {
				return fmt.Errorf("--interval must be positive")
			}
			if gpFile == "" {
				gpFile = cfg.Watch.GPFile
				if handler, err := newUserConfigHandler(); err == nil {
					if prefs, err := handler.Load(); err == nil && prefs.GPFile != "" {
						gpFile = prefs.GPFile
					}
				}
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return withApp(ctx, func(ctx context.Context, a *app.App) error {
				base, err := app.WatchFilters(a.Filters, cfg.Watch)
				if err != nil {
					return err
				}
				selection, err := filters.apply(cmd, base)
				if err != nil {
					return err
				}

				session := watchServices.NewSession(a.Suggestions, watchServices.SessionOptions{
					Budget:     amount,
					Top:        resolveTop(cmd, top, cfg.Watch.Top),
					Filters:    selection,
					AutoAdd:    !noAutoAdd && !cfg.Watch.DisableAutoAdd,
					AutoAddTop: pick(cmd, "auto-add-top", autoAddTop, cfg.Watch.AutoAddTop),
					MaxWatch:   pick(cmd, "max-watch", maxWatch, cfg.Watch.MaxWatch),
					GPFile:     gpFile,
				})

				out := cmd.OutOrStdout()
				if once {
					tick, err := session.Start(ctx)
					if err != nil {
						return watchError(err)
					}
					return renderTick(out, tick, amount, len(session.WatchedIDs()))
				}

				err = session.Run(ctx, interval, func(tick *watchServices.Tick) {
					fmt.Fprint(out, clearScreen)
					if err := renderTick(out, tick, amount, len(session.WatchedIDs())); err != nil {
						return
					}
					fmt.Fprintf(out, "\nRefreshing every %s · Ctrl+C to stop\n", interval)
				})
				return watchError(err)
			})
		},
	}

	cmd.Flags().StringVarP(&budget, "budget", "b", "", "Available gp, e.g. 50m (default from 'geflip config set-budget')")
	cmd.Flags().IntVarP(&top, "top", "n", 30, "Size of the initial selection")
	cmd.Flags().DurationVar(&interval, "interval", 10*time.Second, "Refresh interval")
	cmd.Flags().IntVar(&autoAddTop, "auto-add-top", 50, "Candidates considered for auto-add on each refresh")
	cmd.Flags().IntVar(&maxWatch, "max-watch", 100, "Maximum number of watched items")
	cmd.Flags().BoolVar(&noAutoAdd, "no-auto-add", false, "Never add items after the initial selection")
	cmd.Flags().StringVar(&gpFile, "gp-file", "", "JSON file holding your available gp")
	cmd.Flags().BoolVar(&once, "once", false, "Print the initial selection and exit")
	filters.bind(cmd)

	return cmd
}

func pick(cmd *cobra.Command, flag string, value, fallback int) int {
	if cmd.Flags().Changed(flag) {
		return value
	}
	return fallback
}

func watchError(err error) error {
	if errors.Is(err, watchServices.ErrNoInitialSuggestions) {
		return fmt.Errorf("nothing to watch: no items matched the filters for this budget")
	}
	return err
}

func renderTick(out io.Writer, tick *watchServices.Tick, budget int64, watched int) error {
	header := fmt.Sprintf("GE watch · %s · budget %s · %d watched · limits %s",
		tick.At.Local().Format(time.TimeOnly), utils.FormatGP(budget, true), watched, orDash(tick.LimitSource))
	if tick.GP != nil {
		header += " · gp " + utils.FormatGP(*tick.GP, true)
	}
	fmt.Fprintln(out, header)
	if len(tick.Added) > 0 {
		fmt.Fprintf(out, "Added: %v\n", tick.Added)
	}
	fmt.Fprintln(out)

	w := tabwriter.NewWriter(out, 0, 0, 1, ' ', 0)
	fmt.Fprintln(w, "#\tItem (ID)\tBuy\tSell\tQty\tUnit Profit\tTotal Profit\tBuyVol\tSellVol\tCycle h\tGp/h")
	fmt.Fprintln(w, "─\t─────────\t───\t────\t───\t───────────\t────────────\t──────\t───────\t───────\t────")
	for i, row := range tick.Rows {
		s := row.Suggestion
		fmt.Fprintf(w, "%d\t%s (%d)\t%s\t%s\t%d\t%s\t%s\t%s\t%s\t%.2f\t%s\n",
			i+1, s.ItemName(), s.ItemID(),
			withArrow(utils.FormatGP(s.BuyPrice(), true), row.BuyPriceChange()),
			withArrow(utils.FormatGP(s.SellPrice(), true), row.SellPriceChange()),
			s.Quantity(),
			withArrow(utils.FormatGP(s.UnitProfit(), true), row.UnitProfitChange()),
			withArrow(utils.FormatGP(s.TotalProfit(), true), row.TotalProfitChange()),
			withArrow(fmt.Sprint(s.BuyHourlyVolume()), row.BuyVolumeChange()),
			withArrow(fmt.Sprint(s.SellHourlyVolume()), row.SellVolumeChange()),
			s.ExpectedFillHours(),
			withArrow(utils.FormatGP(int64(s.ProfitPerHour()), true), row.ProfitPerHourChange()),
		)
	}
	return w.Flush()
}

func withArrow(value string, change watch.Change) string {
	if arrow := change.Trend.Arrow(); arrow != "" {
		return value + arrow
	}
	return value
}
