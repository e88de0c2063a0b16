package database

import (
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/swifttransit/bus-booking-backend/internal/domain"
	"github.com/swifttransit/bus-booking-backend/internal/models"
)

// BookingRepository handles database operations for bookings, their seat
// join rows and the attached payments.
type BookingRepository struct {
	db *sqlx.DB
}

// NewBookingRepository creates a new BookingRepository
func NewBookingRepository(db *sqlx.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

const bookingColumns = `id, trip_id, user_id, full_name, phone, email, total_price,
	payment_id, token, lookup_code, cancel_token, expires_at, created_at`

const paymentColumns = `id, status, payment_method_id, is_guest_payment,
	guest_payment_provider, amount, created_at, updated_at`

// GenerateLookupCode generates a unique public booking code.
// Format: BK-YYYYMMDD-XXXXXX (6 hex chars). Example: BK-20260831-A1B2C3
func (r *BookingRepository) GenerateLookupCode() (string, error) {
	todayStr := time.Now().Format("20060102")

	for attempts := 0; attempts < 10; attempts++ {
		randomBytes := make([]byte, 3)
		if _, err := rand.Read(randomBytes); err != nil {
			return "", fmt.Errorf("failed to generate random bytes: %w", err)
		}
		code := fmt.Sprintf("BK-%s-%s", todayStr, strings.ToUpper(hex.EncodeToString(randomBytes)))

		var count int
		if err := r.db.Get(&count, `SELECT COUNT(*) FROM bookings WHERE lookup_code = $1`, code); err != nil {
			return "", fmt.Errorf("failed to check lookup code uniqueness: %w", err)
		}
		if count == 0 {
			return code, nil
		}
	}

	return "", fmt.Errorf("failed to generate unique lookup code after 10 attempts")
}

// CreateBooking creates the payment and booking rows and the seat join rows
// in one transaction.
//
// The requested seat rows are locked with SELECT ... FOR UPDATE before the
// live-hold conflict check. Among concurrent requests racing for overlapping
// seat sets, the lock serializes access: exactly one transaction passes the
// conflict check and commits, the rest observe its committed booking and
// fail with a conflict. Requests on disjoint seat sets do not contend.
func (r *BookingRepository) CreateBooking(
	booking *models.Booking,
	payment *models.Payment,
	seatIDs []uuid.UUID,
	busID uuid.UUID,
	now time.Time,
) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// 1. Lock the requested seat rows, scoped to the trip's bus
	lockQuery, args, err := sqlx.In(`
		SELECT id FROM seats
		WHERE id IN (?) AND bus_id = ? AND is_active = TRUE
		FOR UPDATE`, seatIDs, busID)
	if err != nil {
		return fmt.Errorf("failed to build seat lock query: %w", err)
	}

	var locked []uuid.UUID
	if err := tx.Select(&locked, tx.Rebind(lockQuery), args...); err != nil {
		return fmt.Errorf("failed to lock seats: %w", err)
	}
	if len(locked) < len(seatIDs) {
		// Covers both "seat does not exist" and "seat belongs to another bus"
		missing := missingIDs(seatIDs, locked)
		return domain.NotFoundError{Resource: fmt.Sprintf("seats %s", joinIDs(missing))}
	}

	// 2. Conflict check against live holds on this trip
	conflictQuery, args, err := sqlx.In(`
		SELECT DISTINCT bs.seat_id
		FROM booking_seats bs
		JOIN bookings b ON b.id = bs.booking_id
		WHERE b.trip_id = ?
		  AND bs.seat_id IN (?)
		  AND (b.expires_at IS NULL OR b.expires_at > ?)`, booking.TripID, seatIDs, now)
	if err != nil {
		return fmt.Errorf("failed to build conflict query: %w", err)
	}

	var conflicting []uuid.UUID
	if err := tx.Select(&conflicting, tx.Rebind(conflictQuery), args...); err != nil {
		return fmt.Errorf("failed to check seat conflicts: %w", err)
	}
	if len(conflicting) > 0 {
		conflictStrs := make([]string, len(conflicting))
		for i, id := range conflicting {
			conflictStrs[i] = id.String()
		}
		return domain.ConflictError{SeatIDs: conflictStrs}
	}

	// 3. Payment row, amount rounded up on write
	payment.ID = uuid.New()
	payment.Status = models.PaymentStatusProcessing
	payment.Amount = math.Ceil(payment.Amount)

	err = tx.QueryRow(`
		INSERT INTO payments (id, status, payment_method_id, is_guest_payment, guest_payment_provider, amount)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at`,
		payment.ID, payment.Status, payment.PaymentMethodID,
		payment.IsGuestPayment, payment.GuestPaymentProvider, payment.Amount,
	).Scan(&payment.CreatedAt, &payment.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create payment: %w", err)
	}

	// 4. Booking row
	booking.ID = uuid.New()
	booking.PaymentID = payment.ID
	booking.TotalPrice = math.Ceil(booking.TotalPrice)

	err = tx.QueryRow(`
		INSERT INTO bookings (id, trip_id, user_id, full_name, phone, email, total_price,
			payment_id, token, lookup_code, cancel_token, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING created_at`,
		booking.ID, booking.TripID, booking.UserID, booking.FullName, booking.Phone,
		booking.Email, booking.TotalPrice, booking.PaymentID, booking.Token,
		booking.LookupCode, booking.CancelToken, booking.ExpiresAt,
	).Scan(&booking.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}

	// 5. Seat join rows
	for _, seatID := range seatIDs {
		if _, err := tx.Exec(
			`INSERT INTO booking_seats (booking_id, seat_id) VALUES ($1, $2)`,
			booking.ID, seatID,
		); err != nil {
			return fmt.Errorf("failed to attach seat %s: %w", seatID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit booking: %w", err)
	}

	booking.Payment = payment
	return nil
}

// Confirm finalizes the payment of the booking identified by its secret
// token.
//
// Confirmation is deliberately not idempotent: a second attempt on a paid
// booking fails. An expired unpaid booking is deleted here, in the same
// transaction as the read that discovered the expiry, so its seats return to
// the pool without racing a concurrent CreateBooking.
func (r *BookingRepository) Confirm(token string, now time.Time) (*models.Booking, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var booking models.Booking
	err = tx.Get(&booking, `
		SELECT `+bookingColumns+`
		FROM bookings
		WHERE token = $1
		FOR UPDATE`, token)
	if err == sql.ErrNoRows {
		return nil, domain.NotFoundError{Resource: "booking"}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load booking: %w", err)
	}

	var payment models.Payment
	err = tx.Get(&payment, `
		SELECT `+paymentColumns+`
		FROM payments
		WHERE id = $1
		FOR UPDATE`, booking.PaymentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load payment: %w", err)
	}

	if payment.Status == models.PaymentStatusCompleted {
		return nil, domain.ValidationError{Msg: "booking is already paid"}
	}

	if booking.IsExpired(now) {
		// Lazy reclamation: drop the hold so the seats are available to the
		// next CreateBooking immediately.
		if _, err := tx.Exec(`DELETE FROM bookings WHERE id = $1`, booking.ID); err != nil {
			return nil, fmt.Errorf("failed to delete expired booking: %w", err)
		}
		if _, err := tx.Exec(
			`UPDATE payments SET status = $2, updated_at = NOW() WHERE id = $1`,
			payment.ID, models.PaymentStatusCancelled,
		); err != nil {
			return nil, fmt.Errorf("failed to cancel payment of expired booking: %w", err)
		}
		if err := tx.Commit(); err != nil {
			return nil, fmt.Errorf("failed to commit expiry cleanup: %w", err)
		}
		return nil, domain.ValidationError{Msg: "booking hold has expired"}
	}

	if _, err := tx.Exec(
		`UPDATE payments SET status = $2, updated_at = NOW() WHERE id = $1`,
		payment.ID, models.PaymentStatusCompleted,
	); err != nil {
		return nil, fmt.Errorf("failed to complete payment: %w", err)
	}
	if _, err := tx.Exec(
		`UPDATE bookings SET expires_at = NULL WHERE id = $1`,
		booking.ID,
	); err != nil {
		return nil, fmt.Errorf("failed to clear booking expiry: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit confirmation: %w", err)
	}

	booking.ExpiresAt = nil
	payment.Status = models.PaymentStatusCompleted
	booking.Payment = &payment
	return &booking, nil
}

// Cancel removes a booking through its self-service cancel token. The
// deletion releases the seats with the same immediacy as expiry reclamation.
func (r *BookingRepository) Cancel(lookupCode, cancelToken string) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var booking models.Booking
	err = tx.Get(&booking, `
		SELECT `+bookingColumns+`
		FROM bookings
		WHERE lookup_code = $1
		FOR UPDATE`, lookupCode)
	if err == sql.ErrNoRows {
		return domain.NotFoundError{Resource: "booking"}
	}
	if err != nil {
		return fmt.Errorf("failed to load booking: %w", err)
	}

	if booking.CancelToken != cancelToken {
		return domain.ForbiddenError{Msg: "cancel token does not match"}
	}

	if _, err := tx.Exec(`DELETE FROM bookings WHERE id = $1`, booking.ID); err != nil {
		return fmt.Errorf("failed to delete booking: %w", err)
	}
	if _, err := tx.Exec(
		`UPDATE payments SET status = $2, updated_at = NOW() WHERE id = $1`,
		booking.PaymentID, models.PaymentStatusCancelled,
	); err != nil {
		return fmt.Errorf("failed to cancel payment: %w", err)
	}

	return tx.Commit()
}

// GetByLookupCode retrieves a booking by its public code, payment joined
func (r *BookingRepository) GetByLookupCode(code string) (*models.Booking, error) {
	var booking models.Booking
	err := r.db.Get(&booking, `
		SELECT `+bookingColumns+`
		FROM bookings
		WHERE lookup_code = $1`, code)
	if err == sql.ErrNoRows {
		return nil, domain.NotFoundError{Resource: "booking"}
	}
	if err != nil {
		return nil, err
	}

	if err := r.attachPayment(&booking); err != nil {
		return nil, err
	}
	return &booking, nil
}

// GetSeats retrieves the seats reserved by a booking
func (r *BookingRepository) GetSeats(bookingID uuid.UUID) ([]models.Seat, error) {
	seats := []models.Seat{}
	query := `
		SELECT s.id, s.bus_id, s.code, s.seat_row, s.row_span, s.seat_col, s.col_span, s.floor, s.is_active, s.created_at
		FROM seats s
		JOIN booking_seats bs ON bs.seat_id = s.id
		WHERE bs.booking_id = $1
		ORDER BY s.floor, s.seat_row, s.seat_col`

	err := r.db.Select(&seats, query, bookingID)
	return seats, err
}

// CountByUser returns the number of bookings a user owns
func (r *BookingRepository) CountByUser(userID uuid.UUID) (int, error) {
	var total int
	if err := r.db.Get(&total, `SELECT COUNT(*) FROM bookings WHERE user_id = $1`, userID); err != nil {
		return 0, fmt.Errorf("failed to count bookings: %w", err)
	}
	return total, nil
}

// SearchByUser retrieves one page of a user's bookings. Sorting runs on the
// joined trip's departure time and/or the total price; the caller clamps the
// page bounds.
func (r *BookingRepository) SearchByUser(userID uuid.UUID, params models.BookingSearchParams) ([]models.Booking, error) {
	orderBy := searchOrderClause(params)
	offset := (params.Page - 1) * params.PerPage

	query := `
		SELECT b.id, b.trip_id, b.user_id, b.full_name, b.phone, b.email, b.total_price,
		       b.payment_id, b.token, b.lookup_code, b.cancel_token, b.expires_at, b.created_at
		FROM bookings b
		LEFT JOIN trips t ON t.id = b.trip_id
		WHERE b.user_id = $1
		ORDER BY ` + orderBy + `
		LIMIT $2 OFFSET $3`

	bookings := []models.Booking{}
	if err := r.db.Select(&bookings, query, userID, params.PerPage, offset); err != nil {
		return nil, fmt.Errorf("failed to search bookings: %w", err)
	}

	return bookings, nil
}

// GetLiveSeatsByTrip returns the seats covered by live bookings of a trip:
// paid (expires_at IS NULL) or still inside the hold window. The predicate
// matches the conflict check of CreateBooking, so the seat-selection UI and
// the engine agree about availability.
func (r *BookingRepository) GetLiveSeatsByTrip(tripID uuid.UUID, now time.Time) ([]models.Seat, error) {
	seats := []models.Seat{}
	query := `
		SELECT DISTINCT s.id, s.bus_id, s.code, s.seat_row, s.row_span, s.seat_col, s.col_span, s.floor, s.is_active, s.created_at
		FROM seats s
		JOIN booking_seats bs ON bs.seat_id = s.id
		JOIN bookings b ON b.id = bs.booking_id
		WHERE b.trip_id = $1
		  AND (b.expires_at IS NULL OR b.expires_at > $2)
		ORDER BY s.floor, s.seat_row, s.seat_col`

	err := r.db.Select(&seats, query, tripID, now)
	return seats, err
}

// DeleteExpired removes all bookings whose hold lapsed without payment and
// cancels their payments. Returns the number of reclaimed bookings.
func (r *BookingRepository) DeleteExpired(now time.Time) (int64, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`
		UPDATE payments SET status = $2, updated_at = NOW()
		WHERE id IN (SELECT payment_id FROM bookings WHERE expires_at IS NOT NULL AND expires_at <= $1)`,
		now, models.PaymentStatusCancelled,
	); err != nil {
		return 0, fmt.Errorf("failed to cancel expired payments: %w", err)
	}

	result, err := tx.Exec(
		`DELETE FROM bookings WHERE expires_at IS NOT NULL AND expires_at <= $1`, now)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired bookings: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit sweep: %w", err)
	}

	deleted, _ := result.RowsAffected()
	return deleted, nil
}

func (r *BookingRepository) attachPayment(booking *models.Booking) error {
	var payment models.Payment
	err := r.db.Get(&payment, `
		SELECT `+paymentColumns+`
		FROM payments
		WHERE id = $1`, booking.PaymentID)
	if err != nil {
		return fmt.Errorf("failed to load payment: %w", err)
	}
	booking.Payment = &payment
	return nil
}

// searchOrderClause builds the ORDER BY for SearchByUser from the
// whitelisted sort directions. Values outside asc/desc are ignored.
func searchOrderClause(params models.BookingSearchParams) string {
	var clauses []string
	if dir, ok := sortDirection(params.SortDate); ok {
		clauses = append(clauses, "t.departure_time "+dir)
	}
	if dir, ok := sortDirection(params.SortPrice); ok {
		clauses = append(clauses, "b.total_price "+dir)
	}
	if len(clauses) == 0 {
		return "b.created_at DESC"
	}
	return strings.Join(clauses, ", ")
}

func sortDirection(value string) (string, bool) {
	switch strings.ToLower(value) {
	case "asc":
		return "ASC", true
	case "desc":
		return "DESC", true
	default:
		return "", false
	}
}

// missingIDs returns the requested ids absent from found
func missingIDs(requested, found []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(found))
	for _, id := range found {
		seen[id] = true
	}
	var missing []uuid.UUID
	for _, id := range requested {
		if !seen[id] {
			missing = append(missing, id)
		}
	}
	return missing
}
