package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	billingapp "github.com/vetdesk/backend/internal/application/billing"
)

// AccountHandler handles customer account balance API endpoints
type AccountHandler struct {
	BaseHandler
	accountService *billingapp.AccountService
}

// NewAccountHandler creates a new AccountHandler
func NewAccountHandler(accountService *billingapp.AccountService) *AccountHandler {
	return &AccountHandler{
		accountService: accountService,
	}
}

// GetBalance godoc
// @ID           getCustomerBalance
// @Summary      Get a customer's account balance summary
// @Tags         accounts
// @Produce      json
// @Param        id path string true "Customer ID" format(uuid)
// @Success      200 {object} APIResponse[billing.BalanceSummaryResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /customers/{id}/balance [get]
func (h *AccountHandler) GetBalance(c *gin.Context) {
	customerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid customer ID format")
		return
	}

	summary, err := h.accountService.GetBalanceSummary(c.Request.Context(), customerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, summary)
}
