package database

import (
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/swifttransit/bus-booking-backend/internal/domain"
	"github.com/swifttransit/bus-booking-backend/internal/models"
)

// PaymentMethodRepository handles database operations for stored payment
// methods of registered users.
type PaymentMethodRepository struct {
	db *sqlx.DB
}

// NewPaymentMethodRepository creates a new PaymentMethodRepository
func NewPaymentMethodRepository(db *sqlx.DB) *PaymentMethodRepository {
	return &PaymentMethodRepository{db: db}
}

// Create stores a new payment method
func (r *PaymentMethodRepository) Create(method *models.PaymentMethod) error {
	method.ID = uuid.New()

	query := `
		INSERT INTO payment_methods (id, user_id, provider, token, is_default)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`

	return r.db.QueryRow(query,
		method.ID, method.UserID, method.Provider, method.Token, method.IsDefault,
	).Scan(&method.CreatedAt)
}

// GetByID retrieves a payment method by ID
func (r *PaymentMethodRepository) GetByID(methodID uuid.UUID) (*models.PaymentMethod, error) {
	var method models.PaymentMethod
	query := `
		SELECT id, user_id, provider, token, is_default, created_at
		FROM payment_methods
		WHERE id = $1`

	err := r.db.Get(&method, query, methodID)
	if err == sql.ErrNoRows {
		return nil, domain.NotFoundError{Resource: "payment method"}
	}
	if err != nil {
		return nil, err
	}
	return &method, nil
}

// GetByUser retrieves all payment methods of a user, default first
func (r *PaymentMethodRepository) GetByUser(userID uuid.UUID) ([]models.PaymentMethod, error) {
	methods := []models.PaymentMethod{}
	query := `
		SELECT id, user_id, provider, token, is_default, created_at
		FROM payment_methods
		WHERE user_id = $1
		ORDER BY is_default DESC, created_at`

	err := r.db.Select(&methods, query, userID)
	return methods, err
}

// Delete removes a stored method. Payments referencing it keep their row
// with payment_method_id set to NULL.
func (r *PaymentMethodRepository) Delete(methodID, userID uuid.UUID) error {
	result, err := r.db.Exec(`DELETE FROM payment_methods WHERE id = $1 AND user_id = $2`, methodID, userID)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.NotFoundError{Resource: "payment method"}
	}
	return nil
}
