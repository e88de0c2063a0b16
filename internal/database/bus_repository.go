package database

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/swifttransit/bus-booking-backend/internal/domain"
	"github.com/swifttransit/bus-booking-backend/internal/models"
)

// BusRepository handles database operations for the buses table
type BusRepository struct {
	db *sqlx.DB
}

// NewBusRepository creates a new BusRepository
func NewBusRepository(db *sqlx.DB) *BusRepository {
	return &BusRepository{db: db}
}

// Create inserts a new bus
func (r *BusRepository) Create(bus *models.Bus) error {
	if bus.GridRows <= 0 || bus.GridCols <= 0 || bus.GridFloors <= 0 {
		return domain.ValidationError{Field: "grid", Msg: "rows, cols and floors must all be positive"}
	}
	bus.ID = uuid.New()

	query := `
		INSERT INTO buses (id, driver_id, plate_number, bus_type_id, seat_capacity, grid_rows, grid_cols, grid_floors)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at`

	err := r.db.QueryRow(query,
		bus.ID, bus.DriverID, bus.PlateNumber, bus.BusTypeID,
		bus.SeatCapacity, bus.GridRows, bus.GridCols, bus.GridFloors,
	).Scan(&bus.CreatedAt, &bus.UpdatedAt)
	if isUniqueViolation(err) {
		return domain.ConflictError{Resource: "bus", Msg: fmt.Sprintf("plate number %q already exists", bus.PlateNumber)}
	}
	if isForeignKeyViolation(err) {
		return domain.NotFoundError{Resource: "bus type"}
	}
	return err
}

// GetByID retrieves a bus with its bus type joined
func (r *BusRepository) GetByID(busID uuid.UUID) (*models.Bus, error) {
	var bus models.Bus
	query := `
		SELECT b.id, b.driver_id, b.plate_number, b.bus_type_id, b.seat_capacity,
		       b.grid_rows, b.grid_cols, b.grid_floors, b.created_at, b.updated_at,
		       bt.name AS bus_type_name, bt.price_multiplier
		FROM buses b
		JOIN bus_types bt ON bt.id = b.bus_type_id
		WHERE b.id = $1`

	err := r.db.Get(&bus, query, busID)
	if err == sql.ErrNoRows {
		return nil, domain.NotFoundError{Resource: "bus"}
	}
	if err != nil {
		return nil, err
	}
	return &bus, nil
}

// List retrieves all buses with bus types joined
func (r *BusRepository) List() ([]models.Bus, error) {
	buses := []models.Bus{}
	query := `
		SELECT b.id, b.driver_id, b.plate_number, b.bus_type_id, b.seat_capacity,
		       b.grid_rows, b.grid_cols, b.grid_floors, b.created_at, b.updated_at,
		       bt.name AS bus_type_name, bt.price_multiplier
		FROM buses b
		JOIN bus_types bt ON bt.id = b.bus_type_id
		ORDER BY b.plate_number`

	err := r.db.Select(&buses, query)
	return buses, err
}

// Delete removes a bus. Trips referencing it get bus_id set to NULL; its
// seats are removed by cascade.
func (r *BusRepository) Delete(busID uuid.UUID) error {
	result, err := r.db.Exec(`DELETE FROM buses WHERE id = $1`, busID)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.NotFoundError{Resource: "bus"}
	}
	return nil
}
