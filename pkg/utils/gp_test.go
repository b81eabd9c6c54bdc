package utils_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/geflip-go/pkg/utils"
)

func TestParseGP(t *testing.T) {
	tests := []struct {
		input string
		want  int64
	}{
		{"900k", 900_000},
		{"1.5m", 1_500_000},
		{"2B", 2_000_000_000},
		{"1,000,000", 1_000_000},
		{"250gp", 250},
		{" 12_500 GP ", 12_500},
		{"0", 0},
		{"1.2345k", 1234},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := utils.ParseGP(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseGP_Rejects(t *testing.T) {
	for _, input := range []string{"", "abc", "-5m", "1.5x", "k"} {
		_, err := utils.ParseGP(input)
		assert.ErrorIs(t, err, utils.ErrInvalidGP, input)
	}
}

func TestFormatGP(t *testing.T) {
	assert.Equal(t, "1.23b", utils.FormatGP(1_234_000_000, true))
	assert.Equal(t, "4.56m", utils.FormatGP(4_560_000, true))
	assert.Equal(t, "7.8k", utils.FormatGP(7_800, true))
	assert.Equal(t, "999", utils.FormatGP(999, true))
	assert.Equal(t, "-1.5k", utils.FormatGP(-1_500, true))
	assert.Equal(t, "4560000", utils.FormatGP(4_560_000, false))
	assert.Equal(t, "-1,234,567", utils.FormatGPGrouped(-1_234_567))
	assert.Equal(t, "100", utils.FormatGPGrouped(100))
}

func TestParseGuidePrice(t *testing.T) {
	assert.Equal(t, int64(12_300), *utils.ParseGuidePrice("12.3k"))
	assert.Equal(t, int64(1_234), *utils.ParseGuidePrice("1,234"))
	assert.Equal(t, int64(850), *utils.ParseGuidePrice(float64(850)))
	assert.Nil(t, utils.ParseGuidePrice("unknown"))
	assert.Nil(t, utils.ParseGuidePrice("N/A"))
	assert.Nil(t, utils.ParseGuidePrice(nil))
}

func TestGenerateRunID(t *testing.T) {
	id := utils.GenerateRunID("refresh")
	assert.Regexp(t, `^refresh-[0-9a-f]{8}$`, id)
	assert.NotEqual(t, id, utils.GenerateRunID("refresh"))
}
