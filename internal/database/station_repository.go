package database

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/swifttransit/bus-booking-backend/internal/domain"
	"github.com/swifttransit/bus-booking-backend/internal/models"
)

// StationRepository handles database operations for the stations table
type StationRepository struct {
	db *sqlx.DB
}

// NewStationRepository creates a new StationRepository
func NewStationRepository(db *sqlx.DB) *StationRepository {
	return &StationRepository{db: db}
}

// Create inserts a new station
func (r *StationRepository) Create(station *models.Station) error {
	station.ID = uuid.New()

	query := `
		INSERT INTO stations (id, name)
		VALUES ($1, $2)
		RETURNING created_at, updated_at`

	err := r.db.QueryRow(query, station.ID, station.Name).
		Scan(&station.CreatedAt, &station.UpdatedAt)
	if isUniqueViolation(err) {
		return domain.ConflictError{Resource: "station", Msg: fmt.Sprintf("name %q already exists", station.Name)}
	}
	return err
}

// GetByID retrieves a station by ID
func (r *StationRepository) GetByID(stationID uuid.UUID) (*models.Station, error) {
	var station models.Station
	query := `SELECT id, name, created_at, updated_at FROM stations WHERE id = $1`

	err := r.db.Get(&station, query, stationID)
	if err == sql.ErrNoRows {
		return nil, domain.NotFoundError{Resource: "station"}
	}
	if err != nil {
		return nil, err
	}
	return &station, nil
}

// List retrieves all stations ordered by name
func (r *StationRepository) List() ([]models.Station, error) {
	stations := []models.Station{}
	query := `SELECT id, name, created_at, updated_at FROM stations ORDER BY name`

	err := r.db.Select(&stations, query)
	return stations, err
}

// Rename updates a station's name
func (r *StationRepository) Rename(stationID uuid.UUID, name string) error {
	query := `UPDATE stations SET name = $2, updated_at = NOW() WHERE id = $1`

	result, err := r.db.Exec(query, stationID, name)
	if isUniqueViolation(err) {
		return domain.ConflictError{Resource: "station", Msg: fmt.Sprintf("name %q already exists", name)}
	}
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.NotFoundError{Resource: "station"}
	}
	return nil
}

// Delete removes a station. Routes referencing it are removed by the
// ON DELETE CASCADE on routes.
func (r *StationRepository) Delete(stationID uuid.UUID) error {
	result, err := r.db.Exec(`DELETE FROM stations WHERE id = $1`, stationID)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.NotFoundError{Resource: "station"}
	}
	return nil
}
