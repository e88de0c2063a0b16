package database

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swifttransit/bus-booking-backend/internal/domain"
	"github.com/swifttransit/bus-booking-backend/internal/models"
)

func TestCreateSeatBatch(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSeatRepository(db)

	busID := uuid.New()
	now := time.Now()

	t.Run("Success", func(t *testing.T) {
		seats := []models.Seat{
			{BusID: busID, Code: "010101", SeatRow: 1, RowSpan: 1, SeatCol: 1, ColSpan: 1, Floor: 1, IsActive: true},
			{BusID: busID, Code: "010201", SeatRow: 1, RowSpan: 1, SeatCol: 2, ColSpan: 1, Floor: 1, IsActive: true},
		}

		mock.ExpectBegin()
		mock.ExpectQuery(`INSERT INTO seats`).
			WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(now))
		mock.ExpectQuery(`INSERT INTO seats`).
			WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(now))
		mock.ExpectCommit()

		err := repo.CreateBatch(seats)
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, seats[0].ID)
		assert.NotEqual(t, uuid.Nil, seats[1].ID)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Position Taken", func(t *testing.T) {
		seats := []models.Seat{
			{BusID: busID, Code: "020101", SeatRow: 2, RowSpan: 1, SeatCol: 1, ColSpan: 1, Floor: 1, IsActive: true},
		}

		mock.ExpectBegin()
		mock.ExpectQuery(`INSERT INTO seats`).
			WillReturnError(&pq.Error{Code: "23505"})
		mock.ExpectRollback()

		err := repo.CreateBatch(seats)
		require.Error(t, err)
		assert.True(t, domain.IsConflict(err))
		assert.Contains(t, err.Error(), "(2, 1)")

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Empty Batch", func(t *testing.T) {
		err := repo.CreateBatch(nil)
		require.Error(t, err)
		assert.True(t, domain.IsValidation(err))
	})
}

func TestSearchOrderClause(t *testing.T) {
	assert.Equal(t, "b.created_at DESC", searchOrderClause(models.BookingSearchParams{}))
	assert.Equal(t, "t.departure_time ASC", searchOrderClause(models.BookingSearchParams{SortDate: "asc"}))
	assert.Equal(t, "b.total_price DESC", searchOrderClause(models.BookingSearchParams{SortPrice: "desc"}))
	assert.Equal(t, "t.departure_time DESC, b.total_price ASC",
		searchOrderClause(models.BookingSearchParams{SortDate: "DESC", SortPrice: "Asc"}))

	// Junk directions never reach the SQL
	assert.Equal(t, "b.created_at DESC",
		searchOrderClause(models.BookingSearchParams{SortDate: "1; DROP TABLE bookings"}))
}

func TestMissingIDs(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()

	assert.Equal(t, []uuid.UUID{b}, missingIDs([]uuid.UUID{a, b, c}, []uuid.UUID{a, c}))
	assert.Nil(t, missingIDs([]uuid.UUID{a}, []uuid.UUID{a}))
}
