package trading

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFloorDiv(t *testing.T) {
	assert.Equal(t, int64(18), floorDiv(900, 50))
	assert.Equal(t, int64(3), floorDiv(7, 2))
	assert.Equal(t, int64(-4), floorDiv(-7, 2))
	assert.Equal(t, int64(-1), floorDiv(-1, 50))
	assert.Equal(t, int64(-2), floorDiv(-100, 50))
}
