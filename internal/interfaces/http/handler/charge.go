package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	billingapp "github.com/vetdesk/backend/internal/application/billing"
)

// ChargeHandler handles charge act API endpoints
type ChargeHandler struct {
	BaseHandler
	chargeService *billingapp.ChargeService
}

// NewChargeHandler creates a new ChargeHandler
func NewChargeHandler(chargeService *billingapp.ChargeService) *ChargeHandler {
	return &ChargeHandler{
		chargeService: chargeService,
	}
}

// Create godoc
// @ID           createCharge
// @Summary      Open a new charge act
// @Tags         charges
// @Accept       json
// @Produce      json
// @Param        request body billing.CreateChargeRequest true "Charge creation request"
// @Success      201 {object} APIResponse[billing.FinancialActResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /charges [post]
func (h *ChargeHandler) Create(c *gin.Context) {
	var req billingapp.CreateChargeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	act, err := h.chargeService.CreateCharge(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, act)
}

// GetByID godoc
// @ID           getChargeById
// @Summary      Get a financial act by ID
// @Tags         charges
// @Produce      json
// @Param        id path string true "Act ID" format(uuid)
// @Success      200 {object} APIResponse[billing.FinancialActResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /charges/{id} [get]
func (h *ChargeHandler) GetByID(c *gin.Context) {
	actID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid act ID format")
		return
	}

	act, err := h.chargeService.GetAct(c.Request.Context(), actID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, act)
}

// ListByCustomer godoc
// @ID           listCustomerCharges
// @Summary      List a customer's financial acts
// @Tags         charges
// @Produce      json
// @Param        customer_id query string true "Customer ID" format(uuid)
// @Success      200 {object} APIResponse[[]billing.FinancialActResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /charges [get]
func (h *ChargeHandler) ListByCustomer(c *gin.Context) {
	customerID, err := uuid.Parse(c.Query("customer_id"))
	if err != nil {
		h.BadRequest(c, "Invalid or missing customer_id")
		return
	}

	acts, err := h.chargeService.ListCustomerActs(c.Request.Context(), customerID, parseFilter(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, acts)
}

// AddItem godoc
// @ID           addChargeItem
// @Summary      Add a line item to an open charge
// @Tags         charges
// @Accept       json
// @Produce      json
// @Param        id path string true "Act ID" format(uuid)
// @Param        request body billing.ChargeItemRequest true "Charge item"
// @Success      200 {object} APIResponse[billing.FinancialActResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /charges/{id}/items [post]
func (h *ChargeHandler) AddItem(c *gin.Context) {
	actID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid act ID format")
		return
	}

	var req billingapp.ChargeItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	act, err := h.chargeService.AddItem(c.Request.Context(), actID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, act)
}

// UpdateItem godoc
// @ID           updateChargeItem
// @Summary      Update a line item on an open charge
// @Tags         charges
// @Accept       json
// @Produce      json
// @Param        id path string true "Act ID" format(uuid)
// @Param        item_id path string true "Item ID" format(uuid)
// @Param        request body billing.UpdateChargeItemRequest true "Item update"
// @Success      200 {object} APIResponse[billing.FinancialActResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /charges/{id}/items/{item_id} [put]
func (h *ChargeHandler) UpdateItem(c *gin.Context) {
	actID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid act ID format")
		return
	}

	itemID, err := uuid.Parse(c.Param("item_id"))
	if err != nil {
		h.BadRequest(c, "Invalid item ID format")
		return
	}

	var req billingapp.UpdateChargeItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	act, err := h.chargeService.UpdateItem(c.Request.Context(), actID, itemID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, act)
}

// RemoveItem godoc
// @ID           removeChargeItem
// @Summary      Remove a line item from an open charge
// @Tags         charges
// @Produce      json
// @Param        id path string true "Act ID" format(uuid)
// @Param        item_id path string true "Item ID" format(uuid)
// @Success      200 {object} APIResponse[billing.FinancialActResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /charges/{id}/items/{item_id} [delete]
func (h *ChargeHandler) RemoveItem(c *gin.Context) {
	actID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid act ID format")
		return
	}

	itemID, err := uuid.Parse(c.Param("item_id"))
	if err != nil {
		h.BadRequest(c, "Invalid item ID format")
		return
	}

	act, err := h.chargeService.RemoveItem(c.Request.Context(), actID, itemID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, act)
}

// Complete godoc
// @ID           completeCharge
// @Summary      Mark a charge as completed
// @Tags         charges
// @Produce      json
// @Param        id path string true "Act ID" format(uuid)
// @Success      200 {object} APIResponse[billing.FinancialActResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /charges/{id}/complete [post]
func (h *ChargeHandler) Complete(c *gin.Context) {
	actID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid act ID format")
		return
	}

	act, err := h.chargeService.Complete(c.Request.Context(), actID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, act)
}

// Post godoc
// @ID           postCharge
// @Summary      Post a charge to the customer's account
// @Tags         charges
// @Produce      json
// @Param        id path string true "Act ID" format(uuid)
// @Success      200 {object} APIResponse[billing.FinancialActResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /charges/{id}/post [post]
func (h *ChargeHandler) Post(c *gin.Context) {
	actID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid act ID format")
		return
	}

	act, err := h.chargeService.Post(c.Request.Context(), actID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, act)
}

// Delete godoc
// @ID           deleteCharge
// @Summary      Delete an unposted charge
// @Tags         charges
// @Produce      json
// @Param        id path string true "Act ID" format(uuid)
// @Success      204
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /charges/{id} [delete]
func (h *ChargeHandler) Delete(c *gin.Context) {
	actID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid act ID format")
		return
	}

	if err := h.chargeService.DeleteAct(c.Request.Context(), actID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
