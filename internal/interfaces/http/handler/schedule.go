package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	schedulingapp "github.com/vetdesk/backend/internal/application/scheduling"
	"github.com/vetdesk/backend/internal/domain/scheduling"
)

// ScheduleHandler handles appointment schedule API endpoints
type ScheduleHandler struct {
	BaseHandler
	scheduleService *schedulingapp.ScheduleService
}

// NewScheduleHandler creates a new ScheduleHandler
func NewScheduleHandler(scheduleService *schedulingapp.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{
		scheduleService: scheduleService,
	}
}

// TransitionAppointmentRequest moves an appointment to a new status
type TransitionAppointmentRequest struct {
	Status string `json:"status" binding:"required"`
}

// GetEvents godoc
// @ID           getScheduleEvents
// @Summary      Get appointments on a schedule for a day
// @Tags         schedules
// @Produce      json
// @Param        id path string true "Schedule ID" format(uuid)
// @Param        day query string false "Day (YYYY-MM-DD), defaults to today"
// @Success      200 {object} APIResponse[scheduling.EventsResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /schedules/{id}/events [get]
func (h *ScheduleHandler) GetEvents(c *gin.Context) {
	scheduleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid schedule ID format")
		return
	}

	day, err := parseDayParam(c, "day")
	if err != nil {
		h.BadRequest(c, "Invalid day, expected YYYY-MM-DD")
		return
	}

	events, err := h.scheduleService.GetScheduleEvents(c.Request.Context(), scheduleID, day)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, events)
}

// GetModHash godoc
// @ID           getScheduleModHash
// @Summary      Get the modification hash for a schedule's day bucket
// @Tags         schedules
// @Produce      json
// @Param        id path string true "Schedule ID" format(uuid)
// @Param        day query string false "Day (YYYY-MM-DD), defaults to today"
// @Success      200 {object} APIResponse[ModHashResponse]
// @Security     BearerAuth
// @Router       /schedules/{id}/mod-hash [get]
func (h *ScheduleHandler) GetModHash(c *gin.Context) {
	scheduleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid schedule ID format")
		return
	}

	day, err := parseDayParam(c, "day")
	if err != nil {
		h.BadRequest(c, "Invalid day, expected YYYY-MM-DD")
		return
	}

	h.Success(c, ModHashResponse{ModHash: h.scheduleService.GetModHash(scheduleID, day)})
}

// CreateAppointment godoc
// @ID           createAppointment
// @Summary      Book an appointment
// @Tags         appointments
// @Accept       json
// @Produce      json
// @Param        request body scheduling.CreateAppointmentRequest true "Appointment booking request"
// @Success      201 {object} APIResponse[scheduling.AppointmentResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /appointments [post]
func (h *ScheduleHandler) CreateAppointment(c *gin.Context) {
	var req schedulingapp.CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	appointment, err := h.scheduleService.CreateAppointment(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, appointment)
}

// Reschedule godoc
// @ID           rescheduleAppointment
// @Summary      Move an appointment to a new schedule or time
// @Tags         appointments
// @Accept       json
// @Produce      json
// @Param        id path string true "Appointment ID" format(uuid)
// @Param        request body scheduling.RescheduleAppointmentRequest true "Reschedule request"
// @Success      200 {object} APIResponse[scheduling.AppointmentResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /appointments/{id}/reschedule [post]
func (h *ScheduleHandler) Reschedule(c *gin.Context) {
	appointmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid appointment ID format")
		return
	}

	var req schedulingapp.RescheduleAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	appointment, err := h.scheduleService.Reschedule(c.Request.Context(), appointmentID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, appointment)
}

// Transition godoc
// @ID           transitionAppointment
// @Summary      Transition an appointment through its status lifecycle
// @Tags         appointments
// @Accept       json
// @Produce      json
// @Param        id path string true "Appointment ID" format(uuid)
// @Param        request body TransitionAppointmentRequest true "Status transition request"
// @Success      200 {object} APIResponse[scheduling.AppointmentResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /appointments/{id}/transition [post]
func (h *ScheduleHandler) Transition(c *gin.Context) {
	appointmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid appointment ID format")
		return
	}

	var req TransitionAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	status := scheduling.AppointmentStatus(req.Status)
	if !status.IsValid() {
		h.BadRequest(c, "Unknown appointment status: "+req.Status)
		return
	}

	appointment, err := h.scheduleService.Transition(c.Request.Context(), appointmentID, status)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, appointment)
}

// DeleteAppointment godoc
// @ID           deleteAppointment
// @Summary      Delete an appointment
// @Tags         appointments
// @Produce      json
// @Param        id path string true "Appointment ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /appointments/{id} [delete]
func (h *ScheduleHandler) DeleteAppointment(c *gin.Context) {
	appointmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid appointment ID format")
		return
	}

	if err := h.scheduleService.DeleteAppointment(c.Request.Context(), appointmentID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
