package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/vetdesk/backend/internal/application/document"
)

// DocumentHandler handles invoice document API endpoints
type DocumentHandler struct {
	BaseHandler
	documentService *document.Service
}

// NewDocumentHandler creates a new DocumentHandler
func NewDocumentHandler(documentService *document.Service) *DocumentHandler {
	return &DocumentHandler{
		documentService: documentService,
	}
}

// Generate godoc
// @ID           generateInvoiceDocument
// @Summary      Render a posted invoice to PDF
// @Description  Generates the PDF, stores it and returns a presigned download link
// @Tags         documents
// @Produce      json
// @Param        id path string true "Financial act ID" format(uuid)
// @Success      201 {object} APIResponse[document.InvoiceDocumentResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /charges/{id}/document [post]
func (h *DocumentHandler) Generate(c *gin.Context) {
	actID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid charge ID format")
		return
	}

	doc, err := h.documentService.GenerateInvoice(c.Request.Context(), actID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, doc)
}

// Download godoc
// @ID           downloadInvoiceDocument
// @Summary      Get a download link for a generated invoice PDF
// @Tags         documents
// @Produce      json
// @Param        id path string true "Financial act ID" format(uuid)
// @Success      200 {object} APIResponse[document.DownloadResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /charges/{id}/document [get]
func (h *DocumentHandler) Download(c *gin.Context) {
	actID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid charge ID format")
		return
	}

	link, err := h.documentService.DownloadInvoice(c.Request.Context(), actID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, link)
}

// Delete godoc
// @ID           deleteInvoiceDocument
// @Summary      Delete a generated invoice PDF
// @Tags         documents
// @Produce      json
// @Param        id path string true "Financial act ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /charges/{id}/document [delete]
func (h *DocumentHandler) Delete(c *gin.Context) {
	actID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid charge ID format")
		return
	}

	if err := h.documentService.DeleteInvoice(c.Request.Context(), actID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
