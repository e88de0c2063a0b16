package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swifttransit/bus-booking-backend/internal/domain"
)

func strPtr(s string) *string { return &s }

func TestParsePaymentSelection(t *testing.T) {
	t.Run("Stored Method", func(t *testing.T) {
		methodID := uuid.New()
		sel, err := ParsePaymentSelection(PaymentDetailsRequest{PaymentMethodID: strPtr(methodID.String())})
		require.NoError(t, err)

		registered, ok := sel.(RegisteredPayment)
		require.True(t, ok)
		assert.Equal(t, methodID, registered.MethodID)
	})

	t.Run("Guest Provider", func(t *testing.T) {
		sel, err := ParsePaymentSelection(PaymentDetailsRequest{
			IsGuestPayment:       true,
			GuestPaymentProvider: strPtr("bank_transfer"),
		})
		require.NoError(t, err)

		guest, ok := sel.(GuestPayment)
		require.True(t, ok)
		assert.Equal(t, GuestProviderBankTransfer, guest.Provider)
	})

	t.Run("Both Set", func(t *testing.T) {
		_, err := ParsePaymentSelection(PaymentDetailsRequest{
			PaymentMethodID:      strPtr(uuid.NewString()),
			IsGuestPayment:       true,
			GuestPaymentProvider: strPtr("card"),
		})
		require.Error(t, err)
		assert.True(t, domain.IsValidation(err))
	})

	t.Run("Neither Set", func(t *testing.T) {
		_, err := ParsePaymentSelection(PaymentDetailsRequest{})
		require.Error(t, err)
		assert.True(t, domain.IsValidation(err))
	})

	t.Run("Guest Flag Without Provider", func(t *testing.T) {
		_, err := ParsePaymentSelection(PaymentDetailsRequest{IsGuestPayment: true})
		require.Error(t, err)
		assert.True(t, domain.IsValidation(err))
	})

	t.Run("Unknown Provider", func(t *testing.T) {
		_, err := ParsePaymentSelection(PaymentDetailsRequest{
			IsGuestPayment:       true,
			GuestPaymentProvider: strPtr("cash"),
		})
		require.Error(t, err)
		assert.True(t, domain.IsValidation(err))
	})

	t.Run("Malformed Method ID", func(t *testing.T) {
		_, err := ParsePaymentSelection(PaymentDetailsRequest{PaymentMethodID: strPtr("xyz")})
		require.Error(t, err)
		assert.True(t, domain.IsValidation(err))
	})
}

func TestPaymentMethodRedact(t *testing.T) {
	method := &PaymentMethod{Token: "gw_secret"}
	method.Redact()
	assert.Empty(t, method.Token)

	var nilMethod *PaymentMethod
	assert.NotPanics(t, func() { nilMethod.Redact() })
}
