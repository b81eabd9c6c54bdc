package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/geflip-go/internal/adapters/export"
	"github.com/andrescamacho/geflip-go/internal/domain/trading"
	"github.com/andrescamacho/geflip-go/internal/infrastructure/config"
	"github.com/andrescamacho/geflip-go/pkg/utils"
)

// newUserConfigHandler is replaced in tests
var newUserConfigHandler = config.NewUserConfigHandler

// filterFlags are the engine filter overrides shared by suggest, export and watch.
// Only flags set on the command line replace the configured defaults.
type filterFlags struct {
	minROI            float64
	minProfit         string
	minVolume         int64
	maxFillHours      float64
	freshMinutes      float64
	freshPolicy       string
	priceSource       string
	latestMaxAge      float64
	aggressiveness    float64
	liquidityFraction float64
}

var filterFlagNames = []string{
	"min-roi", "min-profit", "min-volume", "max-fill-hours", "fresh-minutes",
	"fresh-policy", "price-source", "latest-max-age", "aggressiveness", "liquidity-fraction",
}

func (f *filterFlags) bind(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&f.minROI, "min-roi", 0, "Minimum unit ROI, e.g. 0.01 for 1%")
	cmd.Flags().StringVar(&f.minProfit, "min-profit", "", "Minimum unit profit in gp, e.g. 150 or 1.2k")
	cmd.Flags().Int64Var(&f.minVolume, "min-volume", 0, "Minimum hourly volume on the weaker side")
	cmd.Flags().Float64Var(&f.maxFillHours, "max-fill-hours", 0, "Cap quantity to what fills within this many hours per side (0 disables)")
	cmd.Flags().Float64Var(&f.freshMinutes, "fresh-minutes", 0, "Maximum age of the latest trades in minutes (0 disables)")
	cmd.Flags().StringVar(&f.freshPolicy, "fresh-policy", "", "Freshness policy: any or both")
	cmd.Flags().StringVar(&f.priceSource, "price-source", "", "Price source: latest, 1h or hybrid")
	cmd.Flags().Float64Var(&f.latestMaxAge, "latest-max-age", 0, "Hybrid: maximum age in minutes before falling back to 1h averages")
	cmd.Flags().Float64Var(&f.aggressiveness, "aggressiveness", 0, "Undercut/overcut as a fraction of a quarter spread, 0..1")
	cmd.Flags().Float64Var(&f.liquidityFraction, "liquidity-fraction", 0, "Share of hourly volume you expect to capture, 0..1")
}

func (f *filterFlags) apply(cmd *cobra.Command, base trading.Filters) (trading.Filters, error) {
	flags := cmd.Flags()
	if flags.Changed("min-roi") {
		base.MinUnitROI = f.minROI
	}
	if flags.Changed("min-profit") {
		gp, err := utils.ParseGP(f.minProfit)
		if err != nil {
			return trading.Filters{}, err
		}
		base.MinUnitProfit = gp
	}
	if flags.Changed("min-volume") {
		base.MinHourlyVolume = f.minVolume
	}
	if flags.Changed("max-fill-hours") {
		base.MaxFillHours = f.maxFillHours
	}
	if flags.Changed("fresh-minutes") {
		base.FreshMinutes = f.freshMinutes
	}
	if flags.Changed("fresh-policy") {
		policy, err := trading.ParseFreshnessPolicy(f.freshPolicy)
		if err != nil {
			return trading.Filters{}, err
		}
		base.FreshPolicy = policy
	}
	if flags.Changed("price-source") {
		source, err := trading.ParsePriceSource(f.priceSource)
		if err != nil {
			return trading.Filters{}, err
		}
		base.PriceSource = source
	}
	if flags.Changed("latest-max-age") {
		base.LatestMaxAgeMinutes = f.latestMaxAge
	}
	if flags.Changed("aggressiveness") {
		base.Aggressiveness = f.aggressiveness
	}
	if flags.Changed("liquidity-fraction") {
		base.LiquidityFraction = f.liquidityFraction
	}
	return base, base.Validate()
}

// resolveBudget parses --budget, falling back to the stored default
func resolveBudget(raw string) (int64, error) {
	if raw != "" {
		budget, err := utils.ParseGP(raw)
		if err != nil {
			return 0, err
		}
		if budget <= 0 {
			return 0, fmt.Errorf("budget must be positive: %q", raw)
		}
		return budget, nil
	}

	handler, err := newUserConfigHandler()
	if err != nil {
		return 0, err
	}
	prefs, err := handler.Load()
	if err != nil {
		return 0, err
	}
	if prefs.DefaultBudget != nil {
		return *prefs.DefaultBudget, nil
	}
	return 0, fmt.Errorf("no budget specified: use --budget or set a default with 'geflip config set-budget'")
}

// resolveTop returns --top when set, then the stored default, then fallback
func resolveTop(cmd *cobra.Command, top, fallback int) int {
	if cmd.Flags().Changed("top") {
		return top
	}
	if handler, err := newUserConfigHandler(); err == nil {
		if prefs, err := handler.Load(); err == nil && prefs.DefaultTop != nil {
			return *prefs.DefaultTop
		}
	}
	return fallback
}

func parseItemID(raw string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid item id %q", raw)
	}
	return id, nil
}

// parseItemIDs accepts both "2 560" and "2,560"
func parseItemIDs(args []string) ([]int, error) {
	var ids []int
	for _, arg := range args {
		for _, part := range strings.Split(arg, ",") {
			if strings.TrimSpace(part) == "" {
				continue
			}
			id, err := parseItemID(part)
			if err != nil {
				return nil, err
			}
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// parseTimeFlag accepts unix seconds, YYYY-MM-DD or RFC3339. Empty yields nil.
func parseTimeFlag(name, raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	if secs, err := strconv.ParseInt(raw, 10, 64); err == nil {
		t := time.Unix(secs, 0).UTC()
		return &t, nil
	}
	for _, layout := range []string{time.RFC3339, time.DateOnly} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("invalid --%s %q: use unix seconds, YYYY-MM-DD or RFC3339", name, raw)
}

// openOutput returns the writer for --out. Binary formats refuse the terminal.
func openOutput(cmd *cobra.Command, path string, format export.Format) (io.Writer, func() error, error) {
	if path == "" || path == "-" {
		if format.IsBinary() {
			return nil, nil, fmt.Errorf("%s output needs --out FILE", format)
		}
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create %s: %w", path, err)
	}
	return f, f.Close, nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
