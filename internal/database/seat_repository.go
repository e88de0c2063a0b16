package database

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/swifttransit/bus-booking-backend/internal/domain"
	"github.com/swifttransit/bus-booking-backend/internal/models"
)

// SeatRepository handles database operations for the seats table
type SeatRepository struct {
	db *sqlx.DB
}

// NewSeatRepository creates a new SeatRepository
func NewSeatRepository(db *sqlx.DB) *SeatRepository {
	return &SeatRepository{db: db}
}

// CreateBatch inserts all seats of one add-seats call in a single
// transaction; either the whole batch lands or none of it does. The unique
// constraint on (bus_id, seat_row, seat_col, floor) is the authoritative
// guard against cross-batch overlap.
func (r *SeatRepository) CreateBatch(seats []models.Seat) error {
	if len(seats) == 0 {
		return domain.ValidationError{Field: "seats", Msg: "at least one seat is required"}
	}

	tx, err := r.db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO seats (id, bus_id, code, seat_row, row_span, seat_col, col_span, floor, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at`

	for i := range seats {
		seats[i].ID = uuid.New()
		err := tx.QueryRow(query,
			seats[i].ID, seats[i].BusID, seats[i].Code,
			seats[i].SeatRow, seats[i].RowSpan, seats[i].SeatCol, seats[i].ColSpan,
			seats[i].Floor, seats[i].IsActive,
		).Scan(&seats[i].CreatedAt)
		if isUniqueViolation(err) {
			return domain.ConflictError{
				Resource: "seat",
				Msg:      fmt.Sprintf("position (%d, %d) on floor %d is already taken", seats[i].SeatRow, seats[i].SeatCol, seats[i].Floor),
			}
		}
		if err != nil {
			return fmt.Errorf("failed to create seat %s: %w", seats[i].Code, err)
		}
	}

	return tx.Commit()
}

// GetByBus retrieves all seats of a bus ordered by position
func (r *SeatRepository) GetByBus(busID uuid.UUID) ([]models.Seat, error) {
	seats := []models.Seat{}
	query := `
		SELECT id, bus_id, code, seat_row, row_span, seat_col, col_span, floor, is_active, created_at
		FROM seats
		WHERE bus_id = $1
		ORDER BY floor, seat_row, seat_col`

	err := r.db.Select(&seats, query, busID)
	return seats, err
}

// GetByIDs retrieves seats by id, restricted to one bus
func (r *SeatRepository) GetByIDs(seatIDs []uuid.UUID, busID uuid.UUID) ([]models.Seat, error) {
	if len(seatIDs) == 0 {
		return []models.Seat{}, nil
	}

	query, args, err := sqlx.In(`
		SELECT id, bus_id, code, seat_row, row_span, seat_col, col_span, floor, is_active, created_at
		FROM seats
		WHERE id IN (?) AND bus_id = ?
		ORDER BY floor, seat_row, seat_col`, seatIDs, busID)
	if err != nil {
		return nil, err
	}

	seats := []models.Seat{}
	err = r.db.Select(&seats, r.db.Rebind(query), args...)
	return seats, err
}

// CountByBus returns the number of seats already created for a bus
func (r *SeatRepository) CountByBus(busID uuid.UUID) (int, error) {
	var count int
	err := r.db.Get(&count, `SELECT COUNT(*) FROM seats WHERE bus_id = $1`, busID)
	return count, err
}
