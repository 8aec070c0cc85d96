package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	patientapp "github.com/vetdesk/backend/internal/application/patient"
)

// PatientHandler handles patient-related API endpoints
type PatientHandler struct {
	BaseHandler
	patientService *patientapp.PatientService
}

// NewPatientHandler creates a new PatientHandler
func NewPatientHandler(patientService *patientapp.PatientService) *PatientHandler {
	return &PatientHandler{
		patientService: patientService,
	}
}

// TransferPatientRequest moves a patient to a different customer
type TransferPatientRequest struct {
	CustomerID uuid.UUID `json:"customer_id" binding:"required"`
}

// MarkDeceasedRequest records a patient's death
type MarkDeceasedRequest struct {
	DeceasedAt *time.Time `json:"deceased_at"`
}

// Create godoc
// @ID           createPatient
// @Summary      Register a new patient
// @Tags         patients
// @Accept       json
// @Produce      json
// @Param        request body patient.CreatePatientRequest true "Patient registration request"
// @Success      201 {object} APIResponse[patient.PatientResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /patients [post]
func (h *PatientHandler) Create(c *gin.Context) {
	var req patientapp.CreatePatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	created, err := h.patientService.CreatePatient(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, created)
}

// GetByID godoc
// @ID           getPatientById
// @Summary      Get a patient by ID
// @Tags         patients
// @Produce      json
// @Param        id path string true "Patient ID" format(uuid)
// @Success      200 {object} APIResponse[patient.PatientResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /patients/{id} [get]
func (h *PatientHandler) GetByID(c *gin.Context) {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid patient ID format")
		return
	}

	found, err := h.patientService.GetPatient(c.Request.Context(), patientID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, found)
}

// Update godoc
// @ID           updatePatient
// @Summary      Update a patient record
// @Tags         patients
// @Accept       json
// @Produce      json
// @Param        id path string true "Patient ID" format(uuid)
// @Param        request body patient.UpdatePatientRequest true "Patient update request"
// @Success      200 {object} APIResponse[patient.PatientResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /patients/{id} [put]
func (h *PatientHandler) Update(c *gin.Context) {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid patient ID format")
		return
	}

	var req patientapp.UpdatePatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	updated, err := h.patientService.UpdatePatient(c.Request.Context(), patientID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, updated)
}

// Transfer godoc
// @ID           transferPatient
// @Summary      Transfer a patient to another customer
// @Tags         patients
// @Accept       json
// @Produce      json
// @Param        id path string true "Patient ID" format(uuid)
// @Param        request body TransferPatientRequest true "Transfer request"
// @Success      200 {object} APIResponse[patient.PatientResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /patients/{id}/transfer [post]
func (h *PatientHandler) Transfer(c *gin.Context) {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid patient ID format")
		return
	}

	var req TransferPatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	transferred, err := h.patientService.TransferPatient(c.Request.Context(), patientID, req.CustomerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, transferred)
}

// MarkDeceased godoc
// @ID           markPatientDeceased
// @Summary      Record a patient's death
// @Tags         patients
// @Accept       json
// @Produce      json
// @Param        id path string true "Patient ID" format(uuid)
// @Param        request body MarkDeceasedRequest true "Deceased request"
// @Success      200 {object} APIResponse[patient.PatientResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /patients/{id}/deceased [post]
func (h *PatientHandler) MarkDeceased(c *gin.Context) {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid patient ID format")
		return
	}

	var req MarkDeceasedRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.BadRequest(c, err.Error())
			return
		}
	}

	at := time.Now()
	if req.DeceasedAt != nil {
		at = *req.DeceasedAt
	}

	updated, err := h.patientService.MarkDeceased(c.Request.Context(), patientID, at)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, updated)
}
