package export

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	ledgerQueries "github.com/andrescamacho/geflip-go/internal/application/ledger/queries"
	ledgerTypes "github.com/andrescamacho/geflip-go/internal/application/ledger/types"
)

const (
	sheetSuggestions = "Suggestions"
	sheetFlips       = "Flips"
	sheetInfo        = "Info"

	// excelize built-in number formats
	numFmtThousands = 3  // #,##0
	numFmtDecimal   = 4  // #,##0.00
	numFmtPercent   = 10 // 0.00%
)

// Workbook collects the parts of an export. In xlsx each part is a sheet; nil
// parts are skipped and the Info sheet is always written.
type Workbook struct {
	Report      *SuggestionReport                     `json:"report,omitempty" yaml:"report,omitempty"`
	Flips       []*ledgerTypes.FlipDTO                `json:"flips,omitempty" yaml:"flips,omitempty"`
	FlipSummary *ledgerQueries.GetFlipSummaryResponse `json:"flip_summary,omitempty" yaml:"flip_summary,omitempty"`
}

type column struct {
	header string
	width  float64
	numFmt int
}

var suggestionColumns = []column{
	{"Item ID", 9, 0},
	{"Item", 28, 0},
	{"Buy", 12, numFmtThousands},
	{"Sell", 12, numFmtThousands},
	{"Qty", 10, numFmtThousands},
	{"Unit Tax", 10, numFmtThousands},
	{"Unit Profit", 12, numFmtThousands},
	{"Total Cost", 14, numFmtThousands},
	{"Total Profit", 14, numFmtThousands},
	{"ROI", 9, numFmtPercent},
	{"Buy Limit", 10, numFmtThousands},
	{"Remaining", 10, numFmtThousands},
	{"Buy Vol/h", 11, numFmtThousands},
	{"Sell Vol/h", 11, numFmtThousands},
	{"Buy h", 8, numFmtDecimal},
	{"Sell h", 8, numFmtDecimal},
	{"Cycle h", 8, numFmtDecimal},
	{"Gp/h", 14, numFmtThousands},
	{"Price Source", 12, 0},
	{"GE Price", 12, numFmtThousands},
}

var flipColumns = []column{
	{"Sold At", 20, 0},
	{"Bought At", 20, 0},
	{"Item ID", 9, 0},
	{"Item", 28, 0},
	{"Qty", 10, numFmtThousands},
	{"Buy", 12, numFmtThousands},
	{"Sell", 12, numFmtThousands},
	{"Unit Tax", 10, numFmtThousands},
	{"Cost", 14, numFmtThousands},
	{"Profit", 14, numFmtThousands},
	{"Note", 30, 0},
}

// WriteWorkbook builds the workbook and writes it to w
func WriteWorkbook(w io.Writer, wb Workbook) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetInfo); err != nil {
		return err
	}
	if err := writeInfoSheet(f, wb); err != nil {
		return err
	}

	if wb.Report != nil {
		rows := make([][]any, 0, len(wb.Report.Suggestions))
		for _, s := range wb.Report.Suggestions {
			rows = append(rows, []any{
				s.ItemID, s.ItemName, s.BuyPrice, s.SellPrice, s.Quantity,
				s.UnitTax, s.UnitProfit, s.TotalCost, s.TotalProfit, s.UnitROI,
				cellOptional(s.BuyLimit), cellOptional(s.RemainingLimit),
				s.BuyHourlyVolume, s.SellHourlyVolume,
				s.BuyFillHours, s.SellFillHours, s.ExpectedFillHours,
				int64(s.ProfitPerHour), s.PriceSource, cellOptional(s.GuidePrice),
			})
		}
		if err := writeTableSheet(f, sheetSuggestions, suggestionColumns, rows); err != nil {
			return err
		}
	}

	if wb.Flips != nil {
		rows := make([][]any, 0, len(wb.Flips))
		for _, fl := range wb.Flips {
			rows = append(rows, []any{
				fl.SoldAt.UTC().Format(time.DateTime), fl.BoughtAt.UTC().Format(time.DateTime),
				fl.ItemID, fl.ItemName, fl.Quantity, fl.BuyPrice, fl.SellPrice,
				fl.UnitTax, fl.Cost, fl.Profit, fl.Note,
			})
		}
		if err := writeTableSheet(f, sheetFlips, flipColumns, rows); err != nil {
			return err
		}
	}

	if idx, err := f.GetSheetIndex(sheetSuggestions); err == nil && idx >= 0 {
		f.SetActiveSheet(idx)
	}
	return f.Write(w)
}

func writeInfoSheet(f *excelize.File, wb Workbook) error {
	rows := [][]any{{"Exported At", time.Now().UTC().Format(time.DateTime)}}
	if r := wb.Report; r != nil {
		rows = append(rows,
			[]any{"Generated At", r.GeneratedAt.UTC().Format(time.DateTime)},
			[]any{"Budget", r.Budget},
			[]any{"Price Source", r.PriceSource},
			[]any{"Limit Source", orDash(r.LimitSource)},
			[]any{"Suggestions", len(r.Suggestions)},
		)
	}
	if s := wb.FlipSummary; s != nil {
		rows = append(rows,
			[]any{"Flip Period", s.Period},
			[]any{"Flips", s.Count},
			[]any{"Flip Cost", s.TotalCost},
			[]any{"Flip Profit", s.TotalProfit},
			[]any{"Flip ROI", s.ROI},
		)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheetInfo, cell, &row); err != nil {
			return err
		}
	}
	return f.SetColWidth(sheetInfo, "A", "B", 22)
}

func writeTableSheet(f *excelize.File, sheet string, columns []column, rows [][]any) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	headers := make([]any, len(columns))
	for i, c := range columns {
		headers[i] = c.header
	}
	if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
		return err
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}

	bold, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
	})
	if err != nil {
		return err
	}
	lastHeader, err := excelize.CoordinatesToCellName(len(columns), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", lastHeader, bold); err != nil {
		return err
	}

	for i, c := range columns {
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, name, name, c.width); err != nil {
			return err
		}
		if c.numFmt == 0 || len(rows) == 0 {
			continue
		}
		style, err := f.NewStyle(&excelize.Style{NumFmt: c.numFmt})
		if err != nil {
			return err
		}
		last := fmt.Sprintf("%s%d", name, len(rows)+1)
		if err := f.SetCellStyle(sheet, name+"2", last, style); err != nil {
			return err
		}
	}

	if err := f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return err
	}
	if len(rows) > 0 {
		lastCell, err := excelize.CoordinatesToCellName(len(columns), len(rows)+1)
		if err != nil {
			return err
		}
		if err := f.AutoFilter(sheet, "A1:"+lastCell, nil); err != nil {
			return err
		}
	}
	return nil
}

// cellOptional leaves the cell empty for unknown values
func cellOptional(v *int64) any {
	if v == nil {
		return nil
	}
	return *v
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
