package models

import (
	"time"

	"github.com/google/uuid"
)

// Station represents a pickup/dropoff terminal
type Station struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// CreateStationRequest represents the request to create a station
type CreateStationRequest struct {
	Name string `json:"name" binding:"required"`
}

// UpdateStationRequest represents the request to rename a station
type UpdateStationRequest struct {
	Name string `json:"name" binding:"required"`
}
