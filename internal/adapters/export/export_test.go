package export_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/andrescamacho/geflip-go/internal/adapters/export"
	ledgerQueries "github.com/andrescamacho/geflip-go/internal/application/ledger/queries"
	ledgerTypes "github.com/andrescamacho/geflip-go/internal/application/ledger/types"
	"github.com/andrescamacho/geflip-go/internal/application/trading/types"
)

func int64Ptr(v int64) *int64 { return &v }

func sampleReport() export.SuggestionReport {
	return export.SuggestionReport{
		GeneratedAt: time.Date(2023, 11, 14, 22, 13, 20, 0, time.UTC),
		Budget:      1_000_000,
		PriceSource: "latest",
		LimitSource: "local",
		Suggestions: []*types.SuggestionDTO{
			{
				ItemID:            2,
				ItemName:          "Cannonball",
				BuyLimit:          int64Ptr(11_000),
				BuyPrice:          1015,
				SellPrice:         1185,
				UnitTax:           23,
				UnitProfit:        147,
				UnitROI:           0.1448,
				Quantity:          100,
				TotalCost:         101_500,
				TotalProfit:       14_700,
				BuyHourlyVolume:   5000,
				SellHourlyVolume:  5000,
				BuyFillHours:      0.02,
				SellFillHours:     0.02,
				ExpectedFillHours: 0.04,
				ProfitPerHour:     367_500,
				RemainingLimit:    int64Ptr(11_000),
				PriceSource:       "latest",
			},
		},
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    export.Format
		wantErr bool
	}{
		{"", export.FormatTable, false},
		{"table", export.FormatTable, false},
		{"JSON", export.FormatJSON, false},
		{" yaml ", export.FormatYAML, false},
		{"yml", export.FormatYAML, false},
		{"xlsx", export.FormatXLSX, false},
		{"csv", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := export.ParseFormat(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, export.ErrUnknownFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWriteSuggestionTable(t *testing.T) {
	// Arrange
	var buf bytes.Buffer
	report := sampleReport()

	// Act
	err := export.WriteSuggestionTable(&buf, report.Suggestions, export.TableOptions{WithGuide: true})

	// Assert
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "Item (ID)")
	assert.Contains(t, lines[0], "GE Price")
	assert.True(t, strings.HasPrefix(lines[1], "---------"))
	assert.Contains(t, lines[2], "Cannonball (2)")
	assert.Contains(t, lines[2], "14.48%")
	assert.Contains(t, lines[2], "14.7k")
	assert.True(t, strings.HasSuffix(strings.TrimSpace(lines[2]), "-"), "missing guide price renders as a dash")
}

func TestWriteSuggestionTable_Empty(t *testing.T) {
	var buf bytes.Buffer

	err := export.WriteSuggestionTable(&buf, nil, export.TableOptions{})

	require.NoError(t, err)
	assert.Equal(t, export.NoSuggestionsMessage+"\n", buf.String())
}

func TestWriteSuggestions_StructuredFormats(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer

		err := export.WriteSuggestions(&buf, export.FormatJSON, sampleReport(), export.TableOptions{})

		require.NoError(t, err)
		assert.Contains(t, buf.String(), `"item_name": "Cannonball"`)
		assert.Contains(t, buf.String(), `"limit_source": "local"`)
		assert.NotContains(t, buf.String(), "guide_price")
	})

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer

		err := export.WriteSuggestions(&buf, export.FormatYAML, sampleReport(), export.TableOptions{})

		require.NoError(t, err)
		assert.Contains(t, buf.String(), "price_source: latest")
		assert.Contains(t, buf.String(), "  - item_id: 2")
	})

	t.Run("empty json renders an empty list", func(t *testing.T) {
		var buf bytes.Buffer
		report := sampleReport()
		report.Suggestions = nil

		err := export.WriteSuggestions(&buf, export.FormatJSON, report, export.TableOptions{})

		require.NoError(t, err)
		assert.Contains(t, buf.String(), `"suggestions": []`)
	})
}

func TestWriteWorkbook(t *testing.T) {
	// Arrange
	report := sampleReport()
	bought := time.Date(2023, 11, 14, 10, 0, 0, 0, time.UTC)
	wb := export.Workbook{
		Report: &report,
		Flips: []*ledgerTypes.FlipDTO{{
			ID: "f1", ItemID: 2, ItemName: "Cannonball", Quantity: 100,
			BuyPrice: 1000, SellPrice: 1200, UnitTax: 24, Cost: 100_000, Profit: 17_600,
			BoughtAt: bought, SoldAt: bought.Add(time.Hour),
		}},
		FlipSummary: &ledgerQueries.GetFlipSummaryResponse{Period: "all", Count: 1, TotalCost: 100_000, TotalProfit: 17_600, ROI: 0.176},
	}
	var buf bytes.Buffer

	// Act
	err := export.WriteWorkbook(&buf, wb)

	// Assert
	require.NoError(t, err)
	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Info", "Suggestions", "Flips"}, f.GetSheetList())

	rows, err := f.GetRows("Suggestions")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Item ID", rows[0][0])
	assert.Equal(t, "2", rows[1][0])
	assert.Equal(t, "Cannonball", rows[1][1])

	profit, err := f.GetCellValue("Flips", "J2", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	assert.Equal(t, "17600", profit)

	info, err := f.GetRows("Info")
	require.NoError(t, err)
	assert.Contains(t, info, []string{"Price Source", "latest"})
	assert.Contains(t, info, []string{"Flip Period", "all"})
}

func TestWriteSuggestions_XLSX(t *testing.T) {
	var buf bytes.Buffer

	err := export.WriteSuggestions(&buf, export.FormatXLSX, sampleReport(), export.TableOptions{})

	require.NoError(t, err)
	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"Info", "Suggestions"}, f.GetSheetList())
}
