package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeatCode(t *testing.T) {
	assert.Equal(t, "010101", SeatCode(1, 1, 1))
	assert.Equal(t, "120A02", SeatCode(12, 10, 2))
	assert.Equal(t, "05FF01", SeatCode(5, 255, 1))

	// Distinct positions map to distinct codes
	seen := map[string]bool{}
	for row := 1; row <= 4; row++ {
		for col := 1; col <= 4; col++ {
			for floor := 1; floor <= 2; floor++ {
				code := SeatCode(row, col, floor)
				assert.False(t, seen[code], "duplicate code %s", code)
				seen[code] = true
			}
		}
	}
}

func TestSeatPlacementSpans(t *testing.T) {
	two := 2
	zero := 0

	assert.Equal(t, 1, SeatPlacement{}.NormalizedRowSpan())
	assert.Equal(t, 1, SeatPlacement{}.NormalizedColSpan())
	assert.Equal(t, 2, SeatPlacement{RowSpan: &two}.NormalizedRowSpan())
	assert.Equal(t, 1, SeatPlacement{RowSpan: &zero}.NormalizedRowSpan())
}
