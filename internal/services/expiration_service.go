package services

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/swifttransit/bus-booking-backend/internal/database"
)

// ExpirationService reclaims lapsed seat holds in the background. The booking
// paths already reclaim lazily on touch; the sweep only keeps the bookings
// table from accumulating holds nobody ever touches again.
type ExpirationService struct {
	bookingRepo *database.BookingRepository
	logger      *logrus.Logger
	now         func() time.Time
}

// NewExpirationService creates a new expiration service
func NewExpirationService(bookingRepo *database.BookingRepository, logger *logrus.Logger) *ExpirationService {
	return &ExpirationService{
		bookingRepo: bookingRepo,
		logger:      logger,
		now:         time.Now,
	}
}

// WithClock overrides the time source, for tests
func (s *ExpirationService) WithClock(now func() time.Time) *ExpirationService {
	s.now = now
	return s
}

// SweepExpired deletes all expired unpaid bookings and cancels their
// payments. Returns the number of bookings reclaimed.
func (s *ExpirationService) SweepExpired() (int64, error) {
	started := s.now()

	deleted, err := s.bookingRepo.DeleteExpired(started)
	if err != nil {
		s.logger.WithError(err).Error("Expired booking sweep failed")
		return 0, err
	}

	if deleted > 0 {
		s.logger.WithFields(logrus.Fields{
			"reclaimed": deleted,
			"duration":  time.Since(started),
		}).Info("Expired bookings reclaimed")
	}

	return deleted, nil
}
