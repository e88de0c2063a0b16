package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swifttransit/bus-booking-backend/internal/domain"
	"github.com/swifttransit/bus-booking-backend/internal/models"
)

func intPtr(v int) *int { return &v }

func testBus(rows, cols, floors int) *models.Bus {
	return &models.Bus{GridRows: rows, GridCols: cols, GridFloors: floors, SeatCapacity: 100}
}

func TestValidateLayout(t *testing.T) {
	t.Run("Full Grid Fits", func(t *testing.T) {
		bus := testBus(2, 2, 1)
		placements := []models.SeatPlacement{
			{Row: 0, Col: 0, Floor: 0},
			{Row: 0, Col: 1, Floor: 0},
			{Row: 1, Col: 0, Floor: 0},
			{Row: 1, Col: 1, Floor: 0},
		}

		err := validateLayout(bus, nil, placements)
		assert.NoError(t, err)
	})

	t.Run("Row Out Of Bounds", func(t *testing.T) {
		bus := testBus(2, 2, 1)
		err := validateLayout(bus, nil, []models.SeatPlacement{{Row: 2, Col: 0, Floor: 0}})
		require.Error(t, err)
		assert.True(t, domain.IsValidation(err))
	})

	t.Run("Negative Row Rejected", func(t *testing.T) {
		bus := testBus(2, 2, 1)
		err := validateLayout(bus, nil, []models.SeatPlacement{{Row: -1, Col: 0, Floor: 0}})
		require.Error(t, err)
		assert.True(t, domain.IsValidation(err))
	})

	t.Run("Span Crosses Grid Edge", func(t *testing.T) {
		bus := testBus(2, 2, 1)
		// Anchor is inside the grid but the span reaches column 2
		err := validateLayout(bus, nil, []models.SeatPlacement{
			{Row: 0, Col: 1, Floor: 0, ColSpan: intPtr(2)},
		})
		require.Error(t, err)
		assert.True(t, domain.IsValidation(err))
	})

	t.Run("Span Up To The Edge Is Fine", func(t *testing.T) {
		bus := testBus(2, 2, 1)
		err := validateLayout(bus, nil, []models.SeatPlacement{
			{Row: 0, Col: 0, Floor: 0, ColSpan: intPtr(2)},
		})
		assert.NoError(t, err)
	})

	t.Run("Unknown Floor", func(t *testing.T) {
		bus := testBus(2, 2, 1)
		err := validateLayout(bus, nil, []models.SeatPlacement{{Row: 0, Col: 0, Floor: 1}})
		require.Error(t, err)
		assert.True(t, domain.IsValidation(err))
	})

	t.Run("Negative Floor Rejected", func(t *testing.T) {
		bus := testBus(2, 2, 1)
		err := validateLayout(bus, nil, []models.SeatPlacement{{Row: 0, Col: 0, Floor: -1}})
		require.Error(t, err)
		assert.True(t, domain.IsValidation(err))
	})

	t.Run("Zero Span Rejected", func(t *testing.T) {
		bus := testBus(2, 2, 1)
		err := validateLayout(bus, nil, []models.SeatPlacement{
			{Row: 0, Col: 0, Floor: 0, RowSpan: intPtr(0)},
		})
		require.Error(t, err)
		assert.True(t, domain.IsValidation(err))
	})

	t.Run("Overlap Within Batch Names Both Placements", func(t *testing.T) {
		bus := testBus(3, 3, 1)
		err := validateLayout(bus, nil, []models.SeatPlacement{
			{Row: 0, Col: 0, Floor: 0, RowSpan: intPtr(2), ColSpan: intPtr(2)},
			{Row: 1, Col: 1, Floor: 0},
		})
		require.Error(t, err)
		assert.True(t, domain.IsValidation(err))
		assert.Contains(t, err.Error(), "placements 0 and 1 overlap")
	})

	t.Run("Overlap With Existing Seat", func(t *testing.T) {
		bus := testBus(3, 3, 1)
		existing := []models.Seat{
			{Code: "000000", SeatRow: 0, RowSpan: 1, SeatCol: 0, ColSpan: 2, Floor: 0},
		}
		err := validateLayout(bus, existing, []models.SeatPlacement{
			{Row: 0, Col: 1, Floor: 0},
		})
		require.Error(t, err)
		assert.True(t, domain.IsConflict(err))
		assert.Contains(t, err.Error(), "000000")
	})

	t.Run("Same Cell Different Floors", func(t *testing.T) {
		bus := testBus(2, 2, 2)
		err := validateLayout(bus, nil, []models.SeatPlacement{
			{Row: 0, Col: 0, Floor: 0},
			{Row: 0, Col: 0, Floor: 1},
		})
		assert.NoError(t, err)
	})

	t.Run("Wide Seat Blocks Its Whole Rectangle", func(t *testing.T) {
		bus := testBus(4, 4, 1)
		placements := []models.SeatPlacement{
			{Row: 0, Col: 0, Floor: 0, RowSpan: intPtr(2), ColSpan: intPtr(2)},
			{Row: 2, Col: 0, Floor: 0},
			{Row: 0, Col: 2, Floor: 0},
		}
		assert.NoError(t, validateLayout(bus, nil, placements))

		// Any cell of the rectangle collides
		for _, p := range []models.SeatPlacement{
			{Row: 0, Col: 0, Floor: 0},
			{Row: 0, Col: 1, Floor: 0},
			{Row: 1, Col: 0, Floor: 0},
			{Row: 1, Col: 1, Floor: 0},
		} {
			err := validateLayout(bus, nil, append(placements, p))
			require.Error(t, err)
			assert.True(t, domain.IsValidation(err))
		}
	})
}
