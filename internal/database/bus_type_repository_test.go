package database

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swifttransit/bus-booking-backend/internal/domain"
	"github.com/swifttransit/bus-booking-backend/internal/models"
)

func TestCreateBusType(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBusTypeRepository(db)

	t.Run("Success", func(t *testing.T) {
		now := time.Now()
		mock.ExpectQuery(`INSERT INTO bus_types`).
			WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

		busType := &models.BusType{Name: "Luxury", PriceMultiplier: 1.299}
		err := repo.Create(busType)
		require.NoError(t, err)
		assert.Equal(t, 1.3, busType.PriceMultiplier, "multiplier is quantized to cents")

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Multiplier Below One", func(t *testing.T) {
		err := repo.Create(&models.BusType{Name: "Discount", PriceMultiplier: 0.8})
		require.Error(t, err)
		assert.True(t, domain.IsValidation(err))
	})

	t.Run("Duplicate Name", func(t *testing.T) {
		mock.ExpectQuery(`INSERT INTO bus_types`).
			WillReturnError(&pq.Error{Code: "23505"})

		err := repo.Create(&models.BusType{Name: "Luxury", PriceMultiplier: 1.3})
		require.Error(t, err)
		assert.True(t, domain.IsConflict(err))

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
