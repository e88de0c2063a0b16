package database

import (
	"database/sql"
	"math"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/swifttransit/bus-booking-backend/internal/domain"
	"github.com/swifttransit/bus-booking-backend/internal/models"
)

// TripRepository handles database operations for the trips table
type TripRepository struct {
	db *sqlx.DB
}

// NewTripRepository creates a new TripRepository
func NewTripRepository(db *sqlx.DB) *TripRepository {
	return &TripRepository{db: db}
}

// Create inserts a new trip. The base price is rounded up on write.
func (r *TripRepository) Create(trip *models.Trip) error {
	if !trip.DepartureTime.Before(trip.ArrivalTime) {
		return domain.ValidationError{Field: "departure_time", Msg: "must be before arrival_time"}
	}
	trip.ID = uuid.New()
	trip.BasePrice = math.Ceil(trip.BasePrice)

	query := `
		INSERT INTO trips (id, route_id, bus_id, driver_id, departure_time, arrival_time, base_price)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at`

	err := r.db.QueryRow(query,
		trip.ID, trip.RouteID, trip.BusID, trip.DriverID,
		trip.DepartureTime, trip.ArrivalTime, trip.BasePrice,
	).Scan(&trip.CreatedAt, &trip.UpdatedAt)
	if isForeignKeyViolation(err) {
		return domain.NotFoundError{Resource: "route or bus"}
	}
	return err
}

// GetByID retrieves a trip by ID
func (r *TripRepository) GetByID(tripID uuid.UUID) (*models.Trip, error) {
	var trip models.Trip
	query := `
		SELECT id, route_id, bus_id, driver_id, departure_time, arrival_time, base_price, created_at, updated_at
		FROM trips
		WHERE id = $1`

	err := r.db.Get(&trip, query, tripID)
	if err == sql.ErrNoRows {
		return nil, domain.NotFoundError{Resource: "trip"}
	}
	if err != nil {
		return nil, err
	}
	return &trip, nil
}

// GetByIDWithBus retrieves a trip with its bus and bus type joined eagerly.
// The booking engine needs the bus for seat-scope checks and the multiplier
// for pricing; a trip whose bus has been deleted is not bookable.
func (r *TripRepository) GetByIDWithBus(tripID uuid.UUID) (*models.Trip, error) {
	trip, err := r.GetByID(tripID)
	if err != nil {
		return nil, err
	}
	if trip.BusID == nil {
		return nil, domain.NotFoundError{Resource: "trip bus"}
	}

	var bus models.Bus
	busQuery := `
		SELECT b.id, b.driver_id, b.plate_number, b.bus_type_id, b.seat_capacity,
		       b.grid_rows, b.grid_cols, b.grid_floors, b.created_at, b.updated_at,
		       bt.name AS bus_type_name, bt.price_multiplier
		FROM buses b
		JOIN bus_types bt ON bt.id = b.bus_type_id
		WHERE b.id = $1`

	err = r.db.Get(&bus, busQuery, *trip.BusID)
	if err == sql.ErrNoRows {
		return nil, domain.NotFoundError{Resource: "trip bus"}
	}
	if err != nil {
		return nil, err
	}

	trip.Bus = &bus
	return trip, nil
}

// List retrieves all trips ordered by departure time
func (r *TripRepository) List() ([]models.Trip, error) {
	trips := []models.Trip{}
	query := `
		SELECT id, route_id, bus_id, driver_id, departure_time, arrival_time, base_price, created_at, updated_at
		FROM trips
		ORDER BY departure_time`

	err := r.db.Select(&trips, query)
	return trips, err
}

// Delete removes a trip
func (r *TripRepository) Delete(tripID uuid.UUID) error {
	result, err := r.db.Exec(`DELETE FROM trips WHERE id = $1`, tripID)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.NotFoundError{Resource: "trip"}
	}
	return nil
}
