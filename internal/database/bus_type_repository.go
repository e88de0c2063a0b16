package database

import (
	"database/sql"
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/swifttransit/bus-booking-backend/internal/domain"
	"github.com/swifttransit/bus-booking-backend/internal/models"
)

// BusTypeRepository handles database operations for the bus_types table
type BusTypeRepository struct {
	db *sqlx.DB
}

// NewBusTypeRepository creates a new BusTypeRepository
func NewBusTypeRepository(db *sqlx.DB) *BusTypeRepository {
	return &BusTypeRepository{db: db}
}

// Create inserts a new bus type
func (r *BusTypeRepository) Create(busType *models.BusType) error {
	if busType.PriceMultiplier < 1 {
		return domain.ValidationError{Field: "price_multiplier", Msg: "must be at least 1"}
	}
	busType.ID = uuid.New()
	// Quantize to avoid drifting fares across reads
	busType.PriceMultiplier = math.Round(busType.PriceMultiplier*100) / 100

	query := `
		INSERT INTO bus_types (id, name, price_multiplier)
		VALUES ($1, $2, $3)
		RETURNING created_at, updated_at`

	err := r.db.QueryRow(query, busType.ID, busType.Name, busType.PriceMultiplier).
		Scan(&busType.CreatedAt, &busType.UpdatedAt)
	if isUniqueViolation(err) {
		return domain.ConflictError{Resource: "bus type", Msg: fmt.Sprintf("name %q already exists", busType.Name)}
	}
	return err
}

// GetByID retrieves a bus type by ID
func (r *BusTypeRepository) GetByID(busTypeID uuid.UUID) (*models.BusType, error) {
	var busType models.BusType
	query := `SELECT id, name, price_multiplier, created_at, updated_at FROM bus_types WHERE id = $1`

	err := r.db.Get(&busType, query, busTypeID)
	if err == sql.ErrNoRows {
		return nil, domain.NotFoundError{Resource: "bus type"}
	}
	if err != nil {
		return nil, err
	}
	return &busType, nil
}

// List retrieves all bus types
func (r *BusTypeRepository) List() ([]models.BusType, error) {
	busTypes := []models.BusType{}
	query := `SELECT id, name, price_multiplier, created_at, updated_at FROM bus_types ORDER BY name`

	err := r.db.Select(&busTypes, query)
	return busTypes, err
}

// Delete removes a bus type
func (r *BusTypeRepository) Delete(busTypeID uuid.UUID) error {
	result, err := r.db.Exec(`DELETE FROM bus_types WHERE id = $1`, busTypeID)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.NotFoundError{Resource: "bus type"}
	}
	return nil
}
