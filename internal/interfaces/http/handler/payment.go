package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	billingapp "github.com/vetdesk/backend/internal/application/billing"
)

// PaymentHandler handles payment and adjustment act API endpoints
type PaymentHandler struct {
	BaseHandler
	paymentService *billingapp.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(paymentService *billingapp.PaymentService) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
	}
}

// Create godoc
// @ID           createPayment
// @Summary      Record a payment or balance adjustment
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        request body billing.CreatePaymentRequest true "Payment request"
// @Success      201 {object} APIResponse[billing.FinancialActResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /payments [post]
func (h *PaymentHandler) Create(c *gin.Context) {
	var req billingapp.CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	act, err := h.paymentService.CreatePayment(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, act)
}

// Post godoc
// @ID           postPayment
// @Summary      Post a payment to the customer's account
// @Tags         payments
// @Produce      json
// @Param        id path string true "Act ID" format(uuid)
// @Success      200 {object} APIResponse[billing.FinancialActResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /payments/{id}/post [post]
func (h *PaymentHandler) Post(c *gin.Context) {
	actID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid act ID format")
		return
	}

	act, err := h.paymentService.Post(c.Request.Context(), actID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, act)
}
