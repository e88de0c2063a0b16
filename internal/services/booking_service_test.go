package services

import (
	"io"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swifttransit/bus-booking-backend/internal/database"
	"github.com/swifttransit/bus-booking-backend/internal/domain"
	"github.com/swifttransit/bus-booking-backend/internal/models"
)

func newBookingService(t *testing.T) (*BookingService, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	db := sqlx.NewDb(mockDB, "sqlmock")
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	svc := NewBookingService(
		database.NewBookingRepository(db),
		database.NewTripRepository(db),
		database.NewSeatRepository(db),
		database.NewPaymentMethodRepository(db),
		logger,
		30*time.Minute,
	)
	return svc, mock
}

func guestPaymentDetails() models.PaymentDetailsRequest {
	provider := "card"
	return models.PaymentDetailsRequest{IsGuestPayment: true, GuestPaymentProvider: &provider}
}

func TestCreateBookingValidation(t *testing.T) {
	svc, _ := newBookingService(t)

	validReq := func() *models.CreateBookingRequest {
		return &models.CreateBookingRequest{
			TripID:         uuid.NewString(),
			SeatIDs:        []string{uuid.NewString()},
			FullName:       "Jane Doe",
			Phone:          "0771234567",
			PaymentDetails: guestPaymentDetails(),
		}
	}

	t.Run("Invalid Trip ID", func(t *testing.T) {
		req := validReq()
		req.TripID = "not-a-uuid"

		booking, err := svc.CreateBooking(req, nil)
		require.Error(t, err)
		assert.Nil(t, booking)
		assert.True(t, domain.IsValidation(err))
	})

	t.Run("Duplicate Seat IDs", func(t *testing.T) {
		req := validReq()
		seat := uuid.NewString()
		req.SeatIDs = []string{seat, seat}

		_, err := svc.CreateBooking(req, nil)
		require.Error(t, err)
		assert.True(t, domain.IsValidation(err))
		assert.Contains(t, err.Error(), "twice")
	})

	t.Run("Empty Seat List", func(t *testing.T) {
		req := validReq()
		req.SeatIDs = nil

		_, err := svc.CreateBooking(req, nil)
		require.Error(t, err)
		assert.True(t, domain.IsValidation(err))
	})

	t.Run("Invalid Phone", func(t *testing.T) {
		req := validReq()
		req.Phone = "call me"

		_, err := svc.CreateBooking(req, nil)
		require.Error(t, err)
		assert.True(t, domain.IsValidation(err))
	})

	t.Run("Guest With Stored Method", func(t *testing.T) {
		req := validReq()
		methodID := uuid.NewString()
		req.PaymentDetails = models.PaymentDetailsRequest{PaymentMethodID: &methodID}

		_, err := svc.CreateBooking(req, nil)
		require.Error(t, err)
		assert.True(t, domain.IsUnauthorized(err))
	})

	t.Run("Both Payment Shapes", func(t *testing.T) {
		req := validReq()
		methodID := uuid.NewString()
		provider := "card"
		req.PaymentDetails = models.PaymentDetailsRequest{
			PaymentMethodID:      &methodID,
			IsGuestPayment:       true,
			GuestPaymentProvider: &provider,
		}

		_, err := svc.CreateBooking(req, nil)
		require.Error(t, err)
		assert.True(t, domain.IsValidation(err))
	})
}

func TestCreateBookingGuestFlow(t *testing.T) {
	svc, mock := newBookingService(t)

	now := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)
	svc.WithClock(func() time.Time { return now })

	tripID := uuid.New()
	routeID := uuid.New()
	busID := uuid.New()
	busTypeID := uuid.New()
	seatA := uuid.New()
	seatB := uuid.New()

	departure := now.Add(24 * time.Hour)
	arrival := departure.Add(3 * time.Hour)
	multiplier := 1.3

	tripCols := []string{"id", "route_id", "bus_id", "driver_id", "departure_time", "arrival_time", "base_price", "created_at", "updated_at"}
	busCols := []string{"id", "driver_id", "plate_number", "bus_type_id", "seat_capacity", "grid_rows", "grid_cols", "grid_floors", "created_at", "updated_at", "bus_type_name", "price_multiplier"}
	seatCols := []string{"id", "bus_id", "code", "seat_row", "row_span", "seat_col", "col_span", "floor", "is_active", "created_at"}

	// Trip with bus joined
	mock.ExpectQuery(`SELECT (.+) FROM trips`).
		WithArgs(tripID).
		WillReturnRows(sqlmock.NewRows(tripCols).
			AddRow(tripID, routeID, busID, nil, departure, arrival, 999.5, now, now))
	mock.ExpectQuery(`SELECT (.+) FROM buses b`).
		WithArgs(busID).
		WillReturnRows(sqlmock.NewRows(busCols).
			AddRow(busID, nil, "WP-1234", busTypeID, 40, 10, 4, 1, now, now, "Luxury", multiplier))

	// Lookup code uniqueness probe
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM bookings WHERE lookup_code`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	// Reservation transaction
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT id FROM seats`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(seatA).AddRow(seatB))
	mock.ExpectQuery(`SELECT DISTINCT bs.seat_id`).
		WillReturnRows(sqlmock.NewRows([]string{"seat_id"}))
	mock.ExpectQuery(`INSERT INTO payments`).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))
	mock.ExpectQuery(`INSERT INTO bookings`).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(now))
	mock.ExpectExec(`INSERT INTO booking_seats`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO booking_seats`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	// Seats for the response
	mock.ExpectQuery(`SELECT (.+) FROM seats`).
		WillReturnRows(sqlmock.NewRows(seatCols).
			AddRow(seatA, busID, "010101", 1, 1, 1, 1, 1, true, now).
			AddRow(seatB, busID, "010201", 1, 1, 2, 1, 1, true, now))

	req := &models.CreateBookingRequest{
		TripID:         tripID.String(),
		SeatIDs:        []string{seatA.String(), seatB.String()},
		FullName:       "Jane Doe",
		Phone:          "077 123 4567",
		PaymentDetails: guestPaymentDetails(),
	}

	booking, err := svc.CreateBooking(req, nil)
	require.NoError(t, err)

	// ceil(999.5 * 1.3) = 1300 per seat, two seats
	assert.Equal(t, 2600.0, booking.TotalPrice)
	assert.Equal(t, "0771234567", booking.Phone, "phone is stored sanitized")
	assert.Nil(t, booking.UserID)
	assert.NotEmpty(t, booking.Token)
	assert.NotEmpty(t, booking.CancelToken)
	assert.Regexp(t, `^BK-\d{8}-[0-9A-F]{6}$`, booking.LookupCode)
	require.NotNil(t, booking.ExpiresAt)
	assert.Equal(t, now.Add(30*time.Minute), *booking.ExpiresAt)
	assert.Len(t, booking.Seats, 2)
	require.NotNil(t, booking.Payment)
	assert.True(t, booking.Payment.IsGuestPayment)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBookingDepartedTrip(t *testing.T) {
	svc, mock := newBookingService(t)

	now := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)
	svc.WithClock(func() time.Time { return now })

	tripID := uuid.New()
	busID := uuid.New()
	busTypeID := uuid.New()

	tripCols := []string{"id", "route_id", "bus_id", "driver_id", "departure_time", "arrival_time", "base_price", "created_at", "updated_at"}
	busCols := []string{"id", "driver_id", "plate_number", "bus_type_id", "seat_capacity", "grid_rows", "grid_cols", "grid_floors", "created_at", "updated_at", "bus_type_name", "price_multiplier"}

	departure := now.Add(-time.Hour)
	mock.ExpectQuery(`SELECT (.+) FROM trips`).
		WithArgs(tripID).
		WillReturnRows(sqlmock.NewRows(tripCols).
			AddRow(tripID, nil, busID, nil, departure, departure.Add(time.Hour), 1000.0, now, now))
	mock.ExpectQuery(`SELECT (.+) FROM buses b`).
		WithArgs(busID).
		WillReturnRows(sqlmock.NewRows(busCols).
			AddRow(busID, nil, "WP-1234", busTypeID, 40, 10, 4, 1, now, now, "Standard", 1.0))

	req := &models.CreateBookingRequest{
		TripID:         tripID.String(),
		SeatIDs:        []string{uuid.NewString()},
		FullName:       "Jane Doe",
		Phone:          "0771234567",
		PaymentDetails: guestPaymentDetails(),
	}

	_, err := svc.CreateBooking(req, nil)
	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))
	assert.Contains(t, err.Error(), "departed")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConfirmBookingEmptyToken(t *testing.T) {
	svc, _ := newBookingService(t)

	_, err := svc.ConfirmBooking("")
	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))
}
