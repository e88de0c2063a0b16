package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/swifttransit/bus-booking-backend/internal/domain"
)

// PaymentStatus represents the lifecycle state of a payment
// Matches PostgreSQL ENUM: payment_status
type PaymentStatus string

const (
	PaymentStatusProcessing PaymentStatus = "processing"
	PaymentStatusCompleted  PaymentStatus = "completed"
	PaymentStatusCancelled  PaymentStatus = "cancelled"
)

// GuestPaymentProvider tags the gateway a guest chose at checkout
type GuestPaymentProvider string

const (
	GuestProviderCard         GuestPaymentProvider = "card"
	GuestProviderBankTransfer GuestPaymentProvider = "bank_transfer"
	GuestProviderEWallet      GuestPaymentProvider = "e_wallet"
)

// PaymentMethod is a stored instrument of a registered user. Token is the
// opaque gateway credential and must never be echoed back to clients.
type PaymentMethod struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	Provider  string    `json:"provider" db:"provider"`
	Token     string    `json:"token,omitempty" db:"token"`
	IsDefault bool      `json:"is_default" db:"is_default"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Redact clears the stored gateway credential before the method leaves the
// service layer.
func (m *PaymentMethod) Redact() {
	if m != nil {
		m.Token = ""
	}
}

// Payment represents the money side of a booking. Exactly one of
// PaymentMethodID or (IsGuestPayment + GuestPaymentProvider) is set,
// mirroring the registered/guest split of the booking itself. Amount is
// rounded up on every write.
type Payment struct {
	ID                   uuid.UUID             `json:"id" db:"id"`
	Status               PaymentStatus         `json:"status" db:"status"`
	PaymentMethodID      *uuid.UUID            `json:"payment_method_id,omitempty" db:"payment_method_id"`
	IsGuestPayment       bool                  `json:"is_guest_payment" db:"is_guest_payment"`
	GuestPaymentProvider *GuestPaymentProvider `json:"guest_payment_provider,omitempty" db:"guest_payment_provider"`
	Amount               float64               `json:"amount" db:"amount"`
	CreatedAt            time.Time             `json:"created_at" db:"created_at"`
	UpdatedAt            time.Time             `json:"updated_at" db:"updated_at"`

	// Joined stored method, redacted before responses
	Method *PaymentMethod `json:"method,omitempty" db:"-"`
}

// PaymentSelection is the closed sum over the two ways a booking can pay:
// a stored method of a registered user, or a guest provider tag. Parsing it
// once at the boundary removes the "both or neither set" ambiguity from the
// engine entirely.
type PaymentSelection interface {
	paymentSelection()
}

// RegisteredPayment selects a stored payment method
type RegisteredPayment struct {
	MethodID uuid.UUID
}

func (RegisteredPayment) paymentSelection() {}

// GuestPayment selects a one-off guest gateway
type GuestPayment struct {
	Provider GuestPaymentProvider
}

func (GuestPayment) paymentSelection() {}

// PaymentDetailsRequest is the wire shape of the payment choice
type PaymentDetailsRequest struct {
	PaymentMethodID      *string `json:"payment_method_id,omitempty"`
	IsGuestPayment       bool    `json:"is_guest_payment"`
	GuestPaymentProvider *string `json:"guest_payment_provider,omitempty"`
}

// ParsePaymentSelection enforces the exactly-one-of invariant at the boundary
func ParsePaymentSelection(req PaymentDetailsRequest) (PaymentSelection, error) {
	hasMethod := req.PaymentMethodID != nil && *req.PaymentMethodID != ""
	hasGuest := req.IsGuestPayment || req.GuestPaymentProvider != nil

	if hasMethod && hasGuest {
		return nil, domain.ValidationError{Field: "payment_details", Msg: "provide either a payment method or guest payment details, not both"}
	}

	if hasMethod {
		methodID, err := uuid.Parse(*req.PaymentMethodID)
		if err != nil {
			return nil, domain.ValidationError{Field: "payment_method_id", Msg: "must be a valid UUID"}
		}
		return RegisteredPayment{MethodID: methodID}, nil
	}

	if !req.IsGuestPayment || req.GuestPaymentProvider == nil {
		return nil, domain.ValidationError{Field: "payment_details", Msg: "guest payments require is_guest_payment and guest_payment_provider"}
	}

	provider := GuestPaymentProvider(*req.GuestPaymentProvider)
	switch provider {
	case GuestProviderCard, GuestProviderBankTransfer, GuestProviderEWallet:
		return GuestPayment{Provider: provider}, nil
	default:
		return nil, domain.ValidationError{Field: "guest_payment_provider", Msg: "unknown provider"}
	}
}
