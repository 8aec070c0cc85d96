package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	stockapp "github.com/vetdesk/backend/internal/application/stock"
)

// StockHandler handles stock location and level API endpoints
type StockHandler struct {
	BaseHandler
	stockService *stockapp.StockService
}

// NewStockHandler creates a new StockHandler
func NewStockHandler(stockService *stockapp.StockService) *StockHandler {
	return &StockHandler{
		stockService: stockService,
	}
}

// CreateLocation godoc
// @ID           createStockLocation
// @Summary      Create a stock location
// @Tags         stock
// @Accept       json
// @Produce      json
// @Param        request body stock.CreateLocationRequest true "Location creation request"
// @Success      201 {object} APIResponse[stock.LocationResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /stock/locations [post]
func (h *StockHandler) CreateLocation(c *gin.Context) {
	var req stockapp.CreateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	location, err := h.stockService.CreateLocation(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, location)
}

// ListLocations godoc
// @ID           listStockLocations
// @Summary      List stock locations
// @Tags         stock
// @Produce      json
// @Param        search query string false "Search by name"
// @Success      200 {object} APIResponse[[]stock.LocationResponse]
// @Security     BearerAuth
// @Router       /stock/locations [get]
func (h *StockHandler) ListLocations(c *gin.Context) {
	locations, err := h.stockService.ListLocations(c.Request.Context(), parseFilter(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, locations)
}

// GetLevels godoc
// @ID           getStockLocationLevels
// @Summary      Get on-hand stock levels at a location
// @Tags         stock
// @Produce      json
// @Param        id path string true "Location ID" format(uuid)
// @Success      200 {object} APIResponse[[]stock.LevelResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /stock/locations/{id}/levels [get]
func (h *StockHandler) GetLevels(c *gin.Context) {
	locationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid location ID format")
		return
	}

	levels, err := h.stockService.GetLocationLevels(c.Request.Context(), locationID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, levels)
}

// Adjust godoc
// @ID           adjustStock
// @Summary      Manually adjust a stock level
// @Description  Applies a signed quantity delta, for stocktakes and corrections
// @Tags         stock
// @Accept       json
// @Produce      json
// @Param        request body stock.AdjustStockRequest true "Stock adjustment request"
// @Success      204
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /stock/adjustments [post]
func (h *StockHandler) Adjust(c *gin.Context) {
	var req stockapp.AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if err := h.stockService.Adjust(c.Request.Context(), req); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
