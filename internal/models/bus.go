package models

import (
	"time"

	"github.com/google/uuid"
)

// BusType categorizes buses and scales the per-seat price.
// PriceMultiplier is never below 1 - the fare never shrinks relative to the
// trip's base price.
type BusType struct {
	ID              uuid.UUID `json:"id" db:"id"`
	Name            string    `json:"name" db:"name"`
	PriceMultiplier float64   `json:"price_multiplier" db:"price_multiplier"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}

// Bus represents a vehicle with a 3D seat grid (rows x cols x floors)
type Bus struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	DriverID     *uuid.UUID `json:"driver_id,omitempty" db:"driver_id"`
	PlateNumber  string     `json:"plate_number" db:"plate_number"`
	BusTypeID    uuid.UUID  `json:"bus_type_id" db:"bus_type_id"`
	SeatCapacity int        `json:"seat_capacity" db:"seat_capacity"`
	GridRows     int        `json:"grid_rows" db:"grid_rows"`
	GridCols     int        `json:"grid_cols" db:"grid_cols"`
	GridFloors   int        `json:"grid_floors" db:"grid_floors"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`

	// Joined for display and pricing
	BusTypeName     *string  `json:"bus_type_name,omitempty" db:"bus_type_name"`
	PriceMultiplier *float64 `json:"price_multiplier,omitempty" db:"price_multiplier"`
}

// Multiplier returns the joined bus type multiplier, defaulting to 1
func (b *Bus) Multiplier() float64 {
	if b.PriceMultiplier == nil || *b.PriceMultiplier < 1 {
		return 1
	}
	return *b.PriceMultiplier
}

// CreateBusTypeRequest represents the request to create a bus type
type CreateBusTypeRequest struct {
	Name            string  `json:"name" binding:"required"`
	PriceMultiplier float64 `json:"price_multiplier" binding:"required,gte=1"`
}

// CreateBusRequest represents the request to register a bus
type CreateBusRequest struct {
	DriverID     *string `json:"driver_id,omitempty"`
	PlateNumber  string  `json:"plate_number" binding:"required"`
	BusTypeID    string  `json:"bus_type_id" binding:"required"`
	SeatCapacity int     `json:"seat_capacity" binding:"required,gt=0"`
	GridRows     int     `json:"grid_rows" binding:"required,gt=0"`
	GridCols     int     `json:"grid_cols" binding:"required,gt=0"`
	GridFloors   int     `json:"grid_floors" binding:"required,gt=0"`
}
