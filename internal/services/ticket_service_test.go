package services

import (
	"io"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swifttransit/bus-booking-backend/internal/domain"
	"github.com/swifttransit/bus-booking-backend/internal/models"
)

func TestGenerateETicket(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	bookingID := uuid.New()
	tripID := uuid.New()
	paymentID := uuid.New()
	now := time.Now()
	provider := "card"

	seatCols := []string{"id", "bus_id", "code", "seat_row", "row_span", "seat_col", "col_span", "floor", "is_active", "created_at"}
	tripCols := []string{"id", "route_id", "bus_id", "driver_id", "departure_time", "arrival_time", "base_price", "created_at", "updated_at"}

	bookingRows := func() *sqlmock.Rows {
		return sqlmock.NewRows(testBookingCols).AddRow(
			bookingID, tripID, nil, "Jane Doe", "0771234567", nil, 1500.0,
			paymentID, "tok", "BK-20260831-ABCDEF", "cancel", nil, now,
		)
	}

	t.Run("Paid Booking Renders PDF", func(t *testing.T) {
		queries, mock := newQueryService(t)
		svc := NewTicketService(queries, logger)

		mock.ExpectQuery(`SELECT (.+) FROM bookings WHERE lookup_code`).
			WillReturnRows(bookingRows())
		mock.ExpectQuery(`SELECT (.+) FROM payments WHERE id`).
			WillReturnRows(sqlmock.NewRows(testPaymentCols).AddRow(
				paymentID, models.PaymentStatusCompleted, nil, true, &provider, 1500.0, now, now))
		mock.ExpectQuery(`SELECT (.+) FROM seats s`).
			WillReturnRows(sqlmock.NewRows(seatCols).
				AddRow(uuid.New(), uuid.New(), "010101", 1, 1, 1, 1, 1, true, now))
		mock.ExpectQuery(`SELECT (.+) FROM trips`).
			WillReturnRows(sqlmock.NewRows(tripCols).
				AddRow(tripID, nil, nil, nil, now.Add(time.Hour), now.Add(2*time.Hour), 1500.0, now, now))

		pdfBytes, filename, err := svc.GenerateETicket("BK-20260831-ABCDEF", "0771234567")
		require.NoError(t, err)
		assert.NotEmpty(t, pdfBytes)
		assert.Equal(t, []byte("%PDF"), pdfBytes[:4])
		assert.Equal(t, "ETICKET_BK-20260831-ABCDEF.pdf", filename)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Unpaid Booking Has No Ticket", func(t *testing.T) {
		queries, mock := newQueryService(t)
		svc := NewTicketService(queries, logger)

		expiresAt := now.Add(20 * time.Minute)
		mock.ExpectQuery(`SELECT (.+) FROM bookings WHERE lookup_code`).
			WillReturnRows(sqlmock.NewRows(testBookingCols).AddRow(
				bookingID, tripID, nil, "Jane Doe", "0771234567", nil, 1500.0,
				paymentID, "tok", "BK-20260831-ABCDEF", "cancel", &expiresAt, now))
		mock.ExpectQuery(`SELECT (.+) FROM payments WHERE id`).
			WillReturnRows(sqlmock.NewRows(testPaymentCols).AddRow(
				paymentID, models.PaymentStatusProcessing, nil, true, &provider, 1500.0, now, now))
		mock.ExpectQuery(`SELECT (.+) FROM seats s`).
			WillReturnRows(sqlmock.NewRows(seatCols))
		mock.ExpectQuery(`SELECT (.+) FROM trips`).
			WillReturnRows(sqlmock.NewRows(tripCols).
				AddRow(tripID, nil, nil, nil, now.Add(time.Hour), now.Add(2*time.Hour), 1500.0, now, now))

		pdfBytes, _, err := svc.GenerateETicket("BK-20260831-ABCDEF", "0771234567")
		require.Error(t, err)
		assert.Nil(t, pdfBytes)
		assert.True(t, domain.IsValidation(err))
		assert.Contains(t, err.Error(), "not paid")

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
