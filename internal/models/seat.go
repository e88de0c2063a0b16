package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Seat represents one sellable position on a bus. Seats are created once per
// bus in a single batch and are immutable afterwards; IsActive disables a
// seat without deleting it.
//
// A seat occupies the rectangle [SeatRow, SeatRow+RowSpan-1] x
// [SeatCol, SeatCol+ColSpan-1] on its floor. (bus, row, col, floor) and
// (bus, code) are unique at the database level.
type Seat struct {
	ID        uuid.UUID `json:"id" db:"id"`
	BusID     uuid.UUID `json:"bus_id" db:"bus_id"`
	Code      string    `json:"code" db:"code"`
	SeatRow   int       `json:"row" db:"seat_row"`
	RowSpan   int       `json:"row_span" db:"row_span"`
	SeatCol   int       `json:"col" db:"seat_col"`
	ColSpan   int       `json:"col_span" db:"col_span"`
	Floor     int       `json:"floor" db:"floor"`
	IsActive  bool      `json:"is_active" db:"is_active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// SeatPlacement is one entry of an add-seats batch
type SeatPlacement struct {
	Row     int  `json:"row" binding:"min=0"`
	Col     int  `json:"col" binding:"min=0"`
	Floor   int  `json:"floor" binding:"min=0"`
	RowSpan *int `json:"row_span,omitempty"`
	ColSpan *int `json:"col_span,omitempty"`
}

// NormalizedRowSpan returns the row span, defaulting to 1
func (p SeatPlacement) NormalizedRowSpan() int {
	if p.RowSpan == nil || *p.RowSpan < 1 {
		return 1
	}
	return *p.RowSpan
}

// NormalizedColSpan returns the col span, defaulting to 1
func (p SeatPlacement) NormalizedColSpan() int {
	if p.ColSpan == nil || *p.ColSpan < 1 {
		return 1
	}
	return *p.ColSpan
}

// AddSeatsRequest represents the batch add-seats call for one bus
type AddSeatsRequest struct {
	Seats []SeatPlacement `json:"seats" binding:"required"`
}

// SeatCode derives the display label for a seat from its position: zero-padded
// row, hex-padded column, zero-padded floor. Fixed widths keep codes
// collision-free and reconstructible without a lookup.
func SeatCode(row, col, floor int) string {
	return fmt.Sprintf("%02d%02X%02d", row, col, floor)
}
