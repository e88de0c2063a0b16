package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/swifttransit/bus-booking-backend/internal/database"
	"github.com/swifttransit/bus-booking-backend/internal/middleware"
	"github.com/swifttransit/bus-booking-backend/internal/models"
)

// PaymentMethodHandler handles stored payment methods of registered users
type PaymentMethodHandler struct {
	methodRepo *database.PaymentMethodRepository
}

// NewPaymentMethodHandler creates a new PaymentMethodHandler
func NewPaymentMethodHandler(methodRepo *database.PaymentMethodRepository) *PaymentMethodHandler {
	return &PaymentMethodHandler{methodRepo: methodRepo}
}

// CreatePaymentMethodRequest represents the request to store a method
type CreatePaymentMethodRequest struct {
	Provider  string `json:"provider" binding:"required"`
	Token     string `json:"token" binding:"required"`
	IsDefault bool   `json:"is_default"`
}

// CreatePaymentMethod stores a payment method for the signed-in user
// @Summary Store a payment method
// @Tags Payment Methods
// @Accept json
// @Produce json
// @Param request body CreatePaymentMethodRequest true "Payment method"
// @Success 201 {object} models.PaymentMethod
// @Security BearerAuth
// @Router /api/v1/payment-methods [post]
func (h *PaymentMethodHandler) CreatePaymentMethod(c *gin.Context) {
	userCtx, exists := middleware.GetUserContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req CreatePaymentMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	method := &models.PaymentMethod{
		UserID:    userCtx.UserID,
		Provider:  req.Provider,
		Token:     req.Token,
		IsDefault: req.IsDefault,
	}
	if err := h.methodRepo.Create(method); err != nil {
		respondDomainError(c, err)
		return
	}

	method.Redact()
	c.JSON(http.StatusCreated, method)
}

// ListPaymentMethods lists the signed-in user's stored methods
// @Summary List payment methods
// @Tags Payment Methods
// @Produce json
// @Success 200 {array} models.PaymentMethod
// @Security BearerAuth
// @Router /api/v1/payment-methods [get]
func (h *PaymentMethodHandler) ListPaymentMethods(c *gin.Context) {
	userCtx, exists := middleware.GetUserContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	methods, err := h.methodRepo.GetByUser(userCtx.UserID)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	for i := range methods {
		methods[i].Redact()
	}
	c.JSON(http.StatusOK, methods)
}

// DeletePaymentMethod removes one of the signed-in user's stored methods
// @Summary Delete a payment method
// @Tags Payment Methods
// @Param id path string true "Payment method ID"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /api/v1/payment-methods/{id} [delete]
func (h *PaymentMethodHandler) DeletePaymentMethod(c *gin.Context) {
	userCtx, exists := middleware.GetUserContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	methodID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payment method ID"})
		return
	}

	if err := h.methodRepo.Delete(methodID, userCtx.UserID); err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Payment method deleted"})
}
