package models

import (
	"time"

	"github.com/google/uuid"
)

// Route represents a directed connection between two stations.
// Deleting either station cascades to the route.
type Route struct {
	ID                   uuid.UUID `json:"id" db:"id"`
	OriginStationID      uuid.UUID `json:"origin_station_id" db:"origin_station_id"`
	DestinationStationID uuid.UUID `json:"destination_station_id" db:"destination_station_id"`
	DistanceKm           float64   `json:"distance_km" db:"distance_km"`
	EstimatedMinutes     int       `json:"estimated_minutes" db:"estimated_minutes"`
	CreatedAt            time.Time `json:"created_at" db:"created_at"`
	UpdatedAt            time.Time `json:"updated_at" db:"updated_at"`

	// Joined for display
	OriginName      *string `json:"origin_name,omitempty" db:"origin_name"`
	DestinationName *string `json:"destination_name,omitempty" db:"destination_name"`
}

// CreateRouteRequest represents the request to create a route
type CreateRouteRequest struct {
	OriginStationID      string  `json:"origin_station_id" binding:"required"`
	DestinationStationID string  `json:"destination_station_id" binding:"required"`
	DistanceKm           float64 `json:"distance_km" binding:"required,gt=0"`
	EstimatedMinutes     int     `json:"estimated_minutes" binding:"required,gt=0"`
}
