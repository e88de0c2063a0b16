package services

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/swifttransit/bus-booking-backend/internal/database"
	"github.com/swifttransit/bus-booking-backend/internal/domain"
	"github.com/swifttransit/bus-booking-backend/internal/models"
)

// SeatLayoutService handles seat layout business logic
type SeatLayoutService struct {
	busRepo  *database.BusRepository
	seatRepo *database.SeatRepository
	logger   *logrus.Logger
}

// NewSeatLayoutService creates a new seat layout service
func NewSeatLayoutService(busRepo *database.BusRepository, seatRepo *database.SeatRepository, logger *logrus.Logger) *SeatLayoutService {
	return &SeatLayoutService{
		busRepo:  busRepo,
		seatRepo: seatRepo,
		logger:   logger,
	}
}

// AddSeats validates a batch of seat placements against the bus grid and the
// seats already placed, then persists the whole batch at once.
func (s *SeatLayoutService) AddSeats(busID uuid.UUID, req *models.AddSeatsRequest) ([]models.Seat, error) {
	// 1. Load the bus for its grid dimensions
	bus, err := s.busRepo.GetByID(busID)
	if err != nil {
		return nil, err
	}

	// 2. Existing seats take part in the overlap check; the batch must fit
	// around them, not just around itself
	existing, err := s.seatRepo.GetByBus(busID)
	if err != nil {
		return nil, fmt.Errorf("failed to load existing seats: %w", err)
	}

	if err := validateLayout(bus, existing, req.Seats); err != nil {
		return nil, err
	}

	// 3. Capacity ceiling
	if len(existing)+len(req.Seats) > bus.SeatCapacity {
		return nil, domain.ValidationError{
			Field: "seats",
			Msg:   fmt.Sprintf("bus holds at most %d seats, %d already placed", bus.SeatCapacity, len(existing)),
		}
	}

	// 4. Build seat rows with deterministic codes derived from position
	seats := make([]models.Seat, len(req.Seats))
	for i, placement := range req.Seats {
		seats[i] = models.Seat{
			BusID:    busID,
			Code:     models.SeatCode(placement.Row, placement.Col, placement.Floor),
			SeatRow:  placement.Row,
			RowSpan:  placement.NormalizedRowSpan(),
			SeatCol:  placement.Col,
			ColSpan:  placement.NormalizedColSpan(),
			Floor:    placement.Floor,
			IsActive: true,
		}
	}

	if err := s.seatRepo.CreateBatch(seats); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"bus_id":     busID,
		"seat_count": len(seats),
	}).Info("Seats added to bus layout")

	return seats, nil
}

// GetLayout returns all seats of a bus
func (s *SeatLayoutService) GetLayout(busID uuid.UUID) ([]models.Seat, error) {
	if _, err := s.busRepo.GetByID(busID); err != nil {
		return nil, err
	}
	return s.seatRepo.GetByBus(busID)
}

// validateLayout checks every placement against the grid bounds and builds a
// cell occupancy map covering existing seats plus the new batch. Positions are
// 0-based: a seat anchored at (r, c) with spans (rs, cs) occupies every cell
// of the rs×cs rectangle on its floor, and the rectangle must stay inside
// [0, rows) × [0, cols) with floor < floors.
func validateLayout(bus *models.Bus, existing []models.Seat, placements []models.SeatPlacement) error {
	type cell struct{ floor, row, col int }
	persisted := make(map[cell]string)
	batch := make(map[cell]int)

	for _, seat := range existing {
		for r := seat.SeatRow; r < seat.SeatRow+seat.RowSpan; r++ {
			for c := seat.SeatCol; c < seat.SeatCol+seat.ColSpan; c++ {
				persisted[cell{seat.Floor, r, c}] = seat.Code
			}
		}
	}

	for i, p := range placements {
		if (p.RowSpan != nil && *p.RowSpan < 1) || (p.ColSpan != nil && *p.ColSpan < 1) {
			return domain.ValidationError{
				Field: fmt.Sprintf("seats[%d]", i),
				Msg:   "row_span and col_span must be at least 1",
			}
		}
		rowSpan := p.NormalizedRowSpan()
		colSpan := p.NormalizedColSpan()
		if p.Floor < 0 || p.Floor >= bus.GridFloors {
			return domain.ValidationError{
				Field: fmt.Sprintf("seats[%d].floor", i),
				Msg:   fmt.Sprintf("must be between 0 and %d", bus.GridFloors-1),
			}
		}
		if p.Row < 0 || p.Row+rowSpan > bus.GridRows {
			return domain.ValidationError{
				Field: fmt.Sprintf("seats[%d].row", i),
				Msg:   fmt.Sprintf("seat spans outside the %d-row grid", bus.GridRows),
			}
		}
		if p.Col < 0 || p.Col+colSpan > bus.GridCols {
			return domain.ValidationError{
				Field: fmt.Sprintf("seats[%d].col", i),
				Msg:   fmt.Sprintf("seat spans outside the %d-column grid", bus.GridCols),
			}
		}

		for r := p.Row; r < p.Row+rowSpan; r++ {
			for c := p.Col; c < p.Col+colSpan; c++ {
				key := cell{p.Floor, r, c}
				if code, taken := persisted[key]; taken {
					return domain.ConflictError{
						Resource: "seat",
						Msg:      fmt.Sprintf("cell (%d, %d) on floor %d is already covered by seat %s", r, c, p.Floor, code),
					}
				}
				if j, taken := batch[key]; taken {
					return domain.ValidationError{
						Field: "seats",
						Msg:   fmt.Sprintf("placements %d and %d overlap at cell (%d, %d) on floor %d", j, i, r, c, p.Floor),
					}
				}
				batch[key] = i
			}
		}
	}

	return nil
}
