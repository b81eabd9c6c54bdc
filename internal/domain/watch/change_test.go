package watch_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/andrescamacho/geflip-go/internal/domain/watch"
)

func ptr(v float64) *float64 { return &v }

func TestCompare(t *testing.T) {
	tests := []struct {
		name           string
		current        float64
		previous       *float64
		higherIsBetter bool
		want           watch.Change
	}{
		{"first reading", 100, nil, true, watch.Change{Trend: watch.TrendNew}},
		{"unchanged", 100, ptr(100), true, watch.Change{Trend: watch.TrendFlat}},
		{"profit rose", 120, ptr(100), true, watch.Change{Delta: 20, Trend: watch.TrendUp, Good: true}},
		{"buy price rose", 120, ptr(100), false, watch.Change{Delta: 20, Trend: watch.TrendUp, Good: false}},
		{"buy price fell", 90, ptr(100), false, watch.Change{Delta: -10, Trend: watch.TrendDown, Good: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, watch.Compare(tt.current, tt.previous, tt.higherIsBetter))
		})
	}
}

func TestTrendArrow(t *testing.T) {
	assert.Equal(t, "▲", watch.TrendUp.Arrow())
	assert.Equal(t, "▼", watch.TrendDown.Arrow())
	assert.Empty(t, watch.TrendFlat.Arrow())
	assert.Empty(t, watch.TrendNew.Arrow())
}
