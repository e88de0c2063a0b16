package services

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/swifttransit/bus-booking-backend/internal/database"
	"github.com/swifttransit/bus-booking-backend/internal/domain"
	"github.com/swifttransit/bus-booking-backend/internal/models"
	"github.com/swifttransit/bus-booking-backend/pkg/validator"
)

// BookingService drives the booking lifecycle: creation with a timed seat
// hold, payment confirmation and self-service cancellation.
type BookingService struct {
	bookingRepo *database.BookingRepository
	tripRepo    *database.TripRepository
	seatRepo    *database.SeatRepository
	methodRepo  *database.PaymentMethodRepository
	phone       *validator.PhoneValidator
	logger      *logrus.Logger

	holdWindow time.Duration
	now        func() time.Time
}

// NewBookingService creates a new booking service. holdWindow is how long an
// unpaid booking blocks its seats.
func NewBookingService(
	bookingRepo *database.BookingRepository,
	tripRepo *database.TripRepository,
	seatRepo *database.SeatRepository,
	methodRepo *database.PaymentMethodRepository,
	logger *logrus.Logger,
	holdWindow time.Duration,
) *BookingService {
	return &BookingService{
		bookingRepo: bookingRepo,
		tripRepo:    tripRepo,
		seatRepo:    seatRepo,
		methodRepo:  methodRepo,
		phone:       validator.NewPhoneValidator(),
		logger:      logger,
		holdWindow:  holdWindow,
		now:         time.Now,
	}
}

// WithClock overrides the time source, for tests
func (s *BookingService) WithClock(now func() time.Time) *BookingService {
	s.now = now
	return s
}

// CreateBooking reserves seats on a trip. userID is nil for guest checkouts.
//
// The returned booking carries the confirmation token, the public lookup
// code and the cancel token; this is the only response that ever includes
// the secrets.
func (s *BookingService) CreateBooking(req *models.CreateBookingRequest, userID *uuid.UUID) (*models.Booking, error) {
	now := s.now()

	// 1. Parse and sanity-check the request
	tripID, err := uuid.Parse(req.TripID)
	if err != nil {
		return nil, domain.ValidationError{Field: "trip_id", Msg: "must be a valid UUID"}
	}

	seatIDs, err := parseSeatIDs(req.SeatIDs)
	if err != nil {
		return nil, err
	}

	phone, err := s.phone.Validate(req.Phone)
	if err != nil {
		return nil, domain.ValidationError{Field: "phone", Msg: err.Error(), Err: err}
	}

	selection, err := models.ParsePaymentSelection(req.PaymentDetails)
	if err != nil {
		return nil, err
	}

	payment, err := s.resolvePayment(selection, userID)
	if err != nil {
		return nil, err
	}

	// 2. Load the trip with its bus; a trip without a bus is not bookable
	trip, err := s.tripRepo.GetByIDWithBus(tripID)
	if err != nil {
		return nil, err
	}
	if !trip.DepartureTime.After(now) {
		return nil, domain.ValidationError{Field: "trip_id", Msg: "trip has already departed"}
	}

	// 3. Price: per-seat price is the base price scaled by the bus type
	// multiplier and rounded up, frozen at creation time
	perSeat := math.Ceil(trip.BasePrice * trip.Bus.Multiplier())
	total := perSeat * float64(len(seatIDs))

	// 4. Credentials for the three later touchpoints
	token, err := generateSecret(32)
	if err != nil {
		return nil, err
	}
	cancelToken, err := generateSecret(16)
	if err != nil {
		return nil, err
	}
	lookupCode, err := s.bookingRepo.GenerateLookupCode()
	if err != nil {
		return nil, err
	}

	expiresAt := now.Add(s.holdWindow)
	booking := &models.Booking{
		TripID:      tripID,
		UserID:      userID,
		FullName:    req.FullName,
		Phone:       phone,
		Email:       req.Email,
		TotalPrice:  total,
		Token:       token,
		LookupCode:  lookupCode,
		CancelToken: cancelToken,
		ExpiresAt:   &expiresAt,
	}
	payment.Amount = total

	// 5. The repository owns the lock-check-insert transaction
	if err := s.bookingRepo.CreateBooking(booking, payment, seatIDs, trip.Bus.ID, now); err != nil {
		return nil, err
	}

	booking.Trip = trip
	if booking.Seats, err = s.seatRepo.GetByIDs(seatIDs, trip.Bus.ID); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"booking_id":  booking.ID,
		"trip_id":     tripID,
		"seat_count":  len(seatIDs),
		"total_price": total,
		"guest":       userID == nil,
		"expires_at":  expiresAt,
	}).Info("Booking created")

	return booking, nil
}

// ConfirmBooking finalizes payment for the booking behind the confirmation
// token. Confirming an expired booking deletes it and frees its seats.
func (s *BookingService) ConfirmBooking(token string) (*models.Booking, error) {
	if token == "" {
		return nil, domain.ValidationError{Field: "token", Msg: "is required"}
	}

	booking, err := s.bookingRepo.Confirm(token, s.now())
	if err != nil {
		return nil, err
	}

	if booking.Seats, err = s.bookingRepo.GetSeats(booking.ID); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"booking_id":  booking.ID,
		"lookup_code": booking.LookupCode,
	}).Info("Booking confirmed")

	return booking, nil
}

// CancelBooking removes a booking through its lookup code and cancel token.
// Both paid and still-held bookings can be cancelled; the seats return to the
// pool immediately.
func (s *BookingService) CancelBooking(req *models.CancelBookingRequest) error {
	if err := s.bookingRepo.Cancel(req.LookupCode, req.CancelToken); err != nil {
		return err
	}

	s.logger.WithField("lookup_code", req.LookupCode).Info("Booking cancelled")
	return nil
}

// resolvePayment turns the parsed payment selection into an unsaved payment
// row. Stored methods require an authenticated owner.
func (s *BookingService) resolvePayment(selection models.PaymentSelection, userID *uuid.UUID) (*models.Payment, error) {
	switch sel := selection.(type) {
	case models.RegisteredPayment:
		if userID == nil {
			return nil, domain.UnauthorizedError{Msg: "stored payment methods require a signed-in user"}
		}
		method, err := s.methodRepo.GetByID(sel.MethodID)
		if err != nil {
			return nil, err
		}
		if method.UserID != *userID {
			return nil, domain.ForbiddenError{Msg: "payment method belongs to another user"}
		}
		return &models.Payment{PaymentMethodID: &method.ID}, nil

	case models.GuestPayment:
		provider := sel.Provider
		return &models.Payment{IsGuestPayment: true, GuestPaymentProvider: &provider}, nil

	default:
		return nil, domain.ValidationError{Field: "payment_details", Msg: "unsupported payment selection"}
	}
}

func parseSeatIDs(raw []string) ([]uuid.UUID, error) {
	if len(raw) == 0 {
		return nil, domain.ValidationError{Field: "seat_ids", Msg: "at least one seat is required"}
	}

	seen := make(map[uuid.UUID]bool, len(raw))
	seatIDs := make([]uuid.UUID, 0, len(raw))
	for _, s := range raw {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, domain.ValidationError{Field: "seat_ids", Msg: fmt.Sprintf("%q is not a valid UUID", s)}
		}
		if seen[id] {
			return nil, domain.ValidationError{Field: "seat_ids", Msg: fmt.Sprintf("seat %s is listed twice", id)}
		}
		seen[id] = true
		seatIDs = append(seatIDs, id)
	}
	return seatIDs, nil
}

// generateSecret returns n random bytes hex encoded
func generateSecret(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate secret: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
