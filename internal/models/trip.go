package models

import (
	"time"

	"github.com/google/uuid"
)

// Trip is the sellable unit: a bus running a route at a departure time.
// Route and bus references are severed (SET NULL) when the referenced row is
// deleted. BasePrice is rounded up on every write; the per-seat price is the
// base price x the bus type's multiplier.
type Trip struct {
	ID            uuid.UUID  `json:"id" db:"id"`
	RouteID       *uuid.UUID `json:"route_id,omitempty" db:"route_id"`
	BusID         *uuid.UUID `json:"bus_id,omitempty" db:"bus_id"`
	DriverID      *uuid.UUID `json:"driver_id,omitempty" db:"driver_id"`
	DepartureTime time.Time  `json:"departure_time" db:"departure_time"`
	ArrivalTime   time.Time  `json:"arrival_time" db:"arrival_time"`
	BasePrice     float64    `json:"base_price" db:"base_price"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at" db:"updated_at"`

	// Bus joined eagerly on booking paths
	Bus *Bus `json:"bus,omitempty" db:"-"`
}

// CreateTripRequest represents the request to schedule a trip
type CreateTripRequest struct {
	RouteID       string  `json:"route_id" binding:"required"`
	BusID         string  `json:"bus_id" binding:"required"`
	DriverID      *string `json:"driver_id,omitempty"`
	DepartureTime string  `json:"departure_time" binding:"required"` // RFC 3339
	ArrivalTime   string  `json:"arrival_time" binding:"required"`   // RFC 3339
	BasePrice     float64 `json:"base_price" binding:"required,gt=0"`
}
