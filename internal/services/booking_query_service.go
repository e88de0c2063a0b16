package services

import (
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/swifttransit/bus-booking-backend/internal/database"
	"github.com/swifttransit/bus-booking-backend/internal/domain"
	"github.com/swifttransit/bus-booking-backend/internal/models"
	"github.com/swifttransit/bus-booking-backend/pkg/validator"
)

const (
	defaultPerPage = 10
	maxPerPage     = 100
)

// BookingQueryService serves the read side of bookings: guest lookup,
// authenticated search and the live seat map of a trip.
type BookingQueryService struct {
	bookingRepo *database.BookingRepository
	tripRepo    *database.TripRepository
	routeRepo   *database.RouteRepository
	phone       *validator.PhoneValidator
	logger      *logrus.Logger
	now         func() time.Time
}

// NewBookingQueryService creates a new booking query service
func NewBookingQueryService(
	bookingRepo *database.BookingRepository,
	tripRepo *database.TripRepository,
	routeRepo *database.RouteRepository,
	logger *logrus.Logger,
) *BookingQueryService {
	return &BookingQueryService{
		bookingRepo: bookingRepo,
		tripRepo:    tripRepo,
		routeRepo:   routeRepo,
		phone:       validator.NewPhoneValidator(),
		logger:      logger,
		now:         time.Now,
	}
}

// WithClock overrides the time source, for tests
func (s *BookingQueryService) WithClock(now func() time.Time) *BookingQueryService {
	s.now = now
	return s
}

// LookUpBooking retrieves a booking by its public code for a guest who also
// knows the booking phone number. The phone acts as the shared secret.
func (s *BookingQueryService) LookUpBooking(lookupCode, phone string) (*models.Booking, error) {
	sanitized, err := s.phone.Validate(phone)
	if err != nil {
		return nil, domain.ValidationError{Field: "phone", Msg: err.Error(), Err: err}
	}

	booking, err := s.bookingRepo.GetByLookupCode(lookupCode)
	if err != nil {
		return nil, err
	}

	if booking.Phone != sanitized {
		return nil, domain.ForbiddenError{Msg: "phone number does not match this booking"}
	}

	if err := s.attachDetails(booking); err != nil {
		return nil, err
	}

	redactBooking(booking)
	return booking, nil
}

// UserSearchBookings retrieves a page of the authenticated user's bookings.
// Page and per-page are clamped to the actual result bounds before the page
// query runs: an out-of-range page returns the last page, not an empty one.
func (s *BookingQueryService) UserSearchBookings(userID uuid.UUID, params models.BookingSearchParams) (*models.BookingSearchResult, error) {
	if params.PerPage < 1 {
		params.PerPage = defaultPerPage
	}
	if params.PerPage > maxPerPage {
		params.PerPage = maxPerPage
	}

	total, err := s.bookingRepo.CountByUser(userID)
	if err != nil {
		return nil, err
	}

	totalPage := int(math.Ceil(float64(total) / float64(params.PerPage)))
	if params.Page < 1 {
		params.Page = 1
	}
	if totalPage > 0 && params.Page > totalPage {
		params.Page = totalPage
	}

	bookings, err := s.bookingRepo.SearchByUser(userID, params)
	if err != nil {
		return nil, err
	}

	for i := range bookings {
		if bookings[i].Seats, err = s.bookingRepo.GetSeats(bookings[i].ID); err != nil {
			return nil, err
		}
		redactBooking(&bookings[i])
	}

	return &models.BookingSearchResult{
		Data:      bookings,
		Page:      params.Page,
		PerPage:   params.PerPage,
		Total:     total,
		TotalPage: totalPage,
	}, nil
}

// GetBookingSeatsByTrip returns the seats currently blocked on a trip: paid
// bookings plus holds still inside their window. Seat selection UIs poll this.
func (s *BookingQueryService) GetBookingSeatsByTrip(tripID uuid.UUID) ([]models.Seat, error) {
	if _, err := s.tripRepo.GetByID(tripID); err != nil {
		return nil, err
	}
	return s.bookingRepo.GetLiveSeatsByTrip(tripID, s.now())
}

// attachDetails loads the seats, trip and route of a booking for display
func (s *BookingQueryService) attachDetails(booking *models.Booking) error {
	var err error
	if booking.Seats, err = s.bookingRepo.GetSeats(booking.ID); err != nil {
		return err
	}

	trip, err := s.tripRepo.GetByID(booking.TripID)
	if err != nil {
		// The trip may have been removed after the fact; the booking itself
		// is still presentable
		if domain.IsNotFound(err) {
			return nil
		}
		return err
	}
	booking.Trip = trip

	if trip.RouteID != nil {
		route, err := s.routeRepo.GetByID(*trip.RouteID)
		if err != nil {
			if domain.IsNotFound(err) {
				return nil
			}
			return err
		}
		booking.Route = route
	}

	return nil
}

// redactBooking strips the confirmation and cancellation secrets before a
// booking leaves a read endpoint. Only the creation response carries them.
func redactBooking(booking *models.Booking) {
	booking.Token = ""
	booking.CancelToken = ""
	if booking.Payment != nil {
		booking.Payment.Method.Redact()
	}
}
