package services

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/phpdave11/gofpdf"
	"github.com/sirupsen/logrus"

	"github.com/swifttransit/bus-booking-backend/internal/domain"
	"github.com/swifttransit/bus-booking-backend/internal/models"
)

// TicketService renders e-tickets for paid bookings
type TicketService struct {
	queries *BookingQueryService
	logger  *logrus.Logger
}

// NewTicketService creates a new ticket service
func NewTicketService(queries *BookingQueryService, logger *logrus.Logger) *TicketService {
	return &TicketService{queries: queries, logger: logger}
}

// GenerateETicket renders the e-ticket PDF for a booking, addressed by its
// public code plus the booking phone, the same credentials as guest lookup.
// Unpaid bookings have no ticket yet.
func (s *TicketService) GenerateETicket(lookupCode, phone string) ([]byte, string, error) {
	booking, err := s.queries.LookUpBooking(lookupCode, phone)
	if err != nil {
		return nil, "", err
	}

	if booking.Payment == nil || booking.Payment.Status != models.PaymentStatusCompleted {
		return nil, "", domain.ValidationError{Field: "lookup_code", Msg: "booking is not paid yet"}
	}

	pdfBytes, err := buildETicketPDF(booking)
	if err != nil {
		return nil, "", fmt.Errorf("failed to render e-ticket: %w", err)
	}

	s.logger.WithField("lookup_code", lookupCode).Info("E-ticket generated")

	filename := fmt.Sprintf("ETICKET_%s.pdf", safeFilenamePart(booking.LookupCode))
	return pdfBytes, filename, nil
}

func buildETicketPDF(b *models.Booking) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("E-Ticket", false)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "E-TICKET")
	pdf.Ln(12)

	route := "-"
	if b.Route != nil && b.Route.OriginName != nil && b.Route.DestinationName != nil {
		route = fmt.Sprintf("%s -> %s", *b.Route.OriginName, *b.Route.DestinationName)
	}
	departure := "-"
	if b.Trip != nil {
		departure = b.Trip.DepartureTime.Format("2006-01-02 15:04")
	}

	seatCodes := make([]string, len(b.Seats))
	for i, seat := range b.Seats {
		seatCodes[i] = seat.Code
	}

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("Booking code : %s", b.LookupCode),
		fmt.Sprintf("Passenger    : %s", safe(b.FullName, "-")),
		fmt.Sprintf("Phone        : %s", safe(b.Phone, "-")),
		fmt.Sprintf("Route        : %s", route),
		fmt.Sprintf("Departure    : %s", departure),
		fmt.Sprintf("Seats        : %s", safe(strings.Join(seatCodes, ", "), "-")),
		fmt.Sprintf("Total paid   : %.0f", b.TotalPrice),
	}
	for _, line := range lines {
		pdf.Cell(0, 7, line)
		pdf.Ln(7)
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "Please present this ticket together with the booking phone number at boarding.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func safe(v, fallback string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return fallback
	}
	return v
}

func safeFilenamePart(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "NA"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "_", "\\", "_", ":", "_", "*", "_", "?", "_", "\"", "_", "<", "_", ">", "_", "|", "_")
	return replacer.Replace(s)
}
