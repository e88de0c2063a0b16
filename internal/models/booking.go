package models

import (
	"time"

	"github.com/google/uuid"
)

// Booking reserves a set of seats on one trip for a payer. A booking is
// "live" while expires_at is NULL (paid) or still in the future (hold
// window); expired unpaid bookings are reclaimed lazily on the next touch.
//
// Token is the confirmation secret handed to the client after creation,
// LookupCode the public code for guest lookup, CancelToken the self-service
// cancellation secret. TotalPrice is frozen at creation time.
type Booking struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	TripID      uuid.UUID  `json:"trip_id" db:"trip_id"`
	UserID      *uuid.UUID `json:"user_id,omitempty" db:"user_id"`
	FullName    string     `json:"full_name" db:"full_name"`
	Phone       string     `json:"phone" db:"phone"`
	Email       *string    `json:"email,omitempty" db:"email"`
	TotalPrice  float64    `json:"total_price" db:"total_price"`
	PaymentID   uuid.UUID  `json:"payment_id" db:"payment_id"`
	Token       string     `json:"token,omitempty" db:"token"`
	LookupCode  string     `json:"lookup_code" db:"lookup_code"`
	CancelToken string     `json:"cancel_token,omitempty" db:"cancel_token"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty" db:"expires_at"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`

	// Eagerly joined for display
	Seats   []Seat   `json:"seats,omitempty" db:"-"`
	Payment *Payment `json:"payment,omitempty" db:"-"`
	Trip    *Trip    `json:"trip,omitempty" db:"-"`
	Route   *Route   `json:"route,omitempty" db:"-"`
}

// IsLive reports whether the booking still blocks its seats at instant now
func (b *Booking) IsLive(now time.Time) bool {
	return b.ExpiresAt == nil || b.ExpiresAt.After(now)
}

// IsExpired reports whether the hold window has lapsed without payment
func (b *Booking) IsExpired(now time.Time) bool {
	return b.ExpiresAt != nil && !b.ExpiresAt.After(now)
}

// CreateBookingRequest represents the checkout call
type CreateBookingRequest struct {
	TripID         string                `json:"trip_id" binding:"required"`
	SeatIDs        []string              `json:"seat_ids" binding:"required,min=1"`
	FullName       string                `json:"full_name" binding:"required"`
	Phone          string                `json:"phone" binding:"required"`
	Email          *string               `json:"email,omitempty"`
	PaymentDetails PaymentDetailsRequest `json:"payment_details"`
}

// ConfirmBookingRequest carries the confirmation secret
type ConfirmBookingRequest struct {
	Token string `json:"token" binding:"required"`
}

// CancelBookingRequest carries the self-service cancellation credentials
type CancelBookingRequest struct {
	LookupCode  string `json:"lookup_code" binding:"required"`
	CancelToken string `json:"cancel_token" binding:"required"`
}

// BookingSearchParams is the authenticated search input. SortDate and
// SortPrice take "asc" or "desc"; empty means unsorted on that key.
type BookingSearchParams struct {
	Page      int
	PerPage   int
	SortDate  string
	SortPrice string
}

// BookingSearchResult is the paginated search output. Page and PerPage are
// clamped to the actual result bounds.
type BookingSearchResult struct {
	Data      []Booking `json:"data"`
	Page      int       `json:"page"`
	PerPage   int       `json:"per_page"`
	Total     int       `json:"total"`
	TotalPage int       `json:"total_page"`
}
