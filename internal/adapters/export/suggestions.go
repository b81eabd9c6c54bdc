package export

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/andrescamacho/geflip-go/internal/application/trading/types"
	"github.com/andrescamacho/geflip-go/pkg/utils"
)

// SuggestionReport is one engine run as presented to the user
type SuggestionReport struct {
	GeneratedAt time.Time              `json:"generated_at" yaml:"generated_at"`
	Budget      int64                  `json:"budget" yaml:"budget"`
	PriceSource string                 `json:"price_source" yaml:"price_source"`
	LimitSource string                 `json:"limit_source,omitempty" yaml:"limit_source,omitempty"`
	Suggestions []*types.SuggestionDTO `json:"suggestions" yaml:"suggestions"`
}

// TableOptions tunes the terminal table
type TableOptions struct {
	// FullGP prints prices and unit profits unabbreviated
	FullGP bool
	// WithGuide adds the official guide price column
	WithGuide bool
}

// NoSuggestionsMessage is printed when the engine returns nothing
const NoSuggestionsMessage = "No suggestions matched your filters. Try lowering min ROI/profit, volume/freshness filters, or raising budget."

var suggestionHeaders = []string{
	"Item (ID)", "Buy", "Sell", "Qty",
	"Unit Profit", "Total Profit", "ROI",
	"Limit", "Remain", "BuyVol", "SellVol", "Buy h", "Sell h", "Cycle h", "Gp/h",
}

// WriteSuggestions renders report in format. Tables use opts; xlsx writes a
// single-sheet workbook.
func WriteSuggestions(w io.Writer, format Format, report SuggestionReport, opts TableOptions) error {
	switch format {
	case FormatTable:
		return WriteSuggestionTable(w, report.Suggestions, opts)
	case FormatXLSX:
		return WriteWorkbook(w, Workbook{Report: &report})
	default:
		if report.Suggestions == nil {
			report.Suggestions = []*types.SuggestionDTO{}
		}
		return Encode(w, format, report)
	}
}

// WriteSuggestionTable writes the aligned suggestion table. Totals and gp/h are
// always abbreviated.
func WriteSuggestionTable(w io.Writer, suggestions []*types.SuggestionDTO, opts TableOptions) error {
	if len(suggestions) == 0 {
		_, err := fmt.Fprintln(w, NoSuggestionsMessage)
		return err
	}

	abbreviate := !opts.FullGP
	tw := tabwriter.NewWriter(w, 0, 0, 1, ' ', 0)

	headers := suggestionHeaders
	if opts.WithGuide {
		headers = append(append([]string{}, headers...), "GE Price")
	}
	writeRow(tw, headers)
	rule := make([]string, len(headers))
	for i, h := range headers {
		rule[i] = strings.Repeat("-", len(h))
	}
	writeRow(tw, rule)

	for _, s := range suggestions {
		row := []string{
			fmt.Sprintf("%s (%d)", s.ItemName, s.ItemID),
			utils.FormatGP(s.BuyPrice, abbreviate),
			utils.FormatGP(s.SellPrice, abbreviate),
			strconv.FormatInt(s.Quantity, 10),
			utils.FormatGP(s.UnitProfit, abbreviate),
			utils.FormatGP(s.TotalProfit, true),
			fmt.Sprintf("%.2f%%", s.UnitROI*100),
			optional(s.BuyLimit),
			optional(s.RemainingLimit),
			strconv.FormatInt(s.BuyHourlyVolume, 10),
			strconv.FormatInt(s.SellHourlyVolume, 10),
			fmt.Sprintf("%.2f", s.BuyFillHours),
			fmt.Sprintf("%.2f", s.SellFillHours),
			fmt.Sprintf("%.2f", s.ExpectedFillHours),
			utils.FormatGP(int64(s.ProfitPerHour), true),
		}
		if opts.WithGuide {
			if s.GuidePrice != nil {
				row = append(row, utils.FormatGP(*s.GuidePrice, abbreviate))
			} else {
				row = append(row, "-")
			}
		}
		writeRow(tw, row)
	}
	return tw.Flush()
}

func writeRow(w io.Writer, cells []string) {
	for i, c := range cells {
		if i > 0 {
			fmt.Fprint(w, "\t")
		}
		fmt.Fprint(w, c)
	}
	fmt.Fprintln(w)
}

func optional(v *int64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatInt(*v, 10)
}
