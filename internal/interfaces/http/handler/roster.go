package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	schedulingapp "github.com/vetdesk/backend/internal/application/scheduling"
	"github.com/vetdesk/backend/internal/domain/scheduling"
)

// RosterHandler handles roster and shift API endpoints
type RosterHandler struct {
	BaseHandler
	rosterService *schedulingapp.RosterService
}

// NewRosterHandler creates a new RosterHandler
func NewRosterHandler(rosterService *schedulingapp.RosterService) *RosterHandler {
	return &RosterHandler{
		rosterService: rosterService,
	}
}

// OverlapCheckRequest asks whether any of the given ranges collide with
// a user's existing events.
type OverlapCheckRequest struct {
	UserID uuid.UUID         `json:"user_id" binding:"required"`
	Ranges []TimeRangeParams `json:"ranges" binding:"required,min=1,dive"`
	Limit  int               `json:"limit"`
}

// TimeRangeParams is a start/end pair in overlap checks
type TimeRangeParams struct {
	Start time.Time `json:"start" binding:"required"`
	End   time.Time `json:"end" binding:"required"`
}

// GetAreaEvents godoc
// @ID           getAreaRosterEvents
// @Summary      Get roster events for an area on a day
// @Tags         rosters
// @Produce      json
// @Param        area_id path string true "Area ID" format(uuid)
// @Param        day query string false "Day (YYYY-MM-DD), defaults to today"
// @Success      200 {object} APIResponse[scheduling.EventsResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /rosters/areas/{area_id}/events [get]
func (h *RosterHandler) GetAreaEvents(c *gin.Context) {
	areaID, err := uuid.Parse(c.Param("area_id"))
	if err != nil {
		h.BadRequest(c, "Invalid area ID format")
		return
	}

	day, err := parseDayParam(c, "day")
	if err != nil {
		h.BadRequest(c, "Invalid day, expected YYYY-MM-DD")
		return
	}

	events, err := h.rosterService.GetAreaEvents(c.Request.Context(), areaID, day)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, events)
}

// GetAreaModHash godoc
// @ID           getAreaRosterModHash
// @Summary      Get the modification hash for an area's day bucket
// @Description  Cheap polling endpoint: clients re-fetch events only when the hash changes
// @Tags         rosters
// @Produce      json
// @Param        area_id path string true "Area ID" format(uuid)
// @Param        day query string false "Day (YYYY-MM-DD), defaults to today"
// @Success      200 {object} APIResponse[ModHashResponse]
// @Security     BearerAuth
// @Router       /rosters/areas/{area_id}/mod-hash [get]
func (h *RosterHandler) GetAreaModHash(c *gin.Context) {
	areaID, err := uuid.Parse(c.Param("area_id"))
	if err != nil {
		h.BadRequest(c, "Invalid area ID format")
		return
	}

	day, err := parseDayParam(c, "day")
	if err != nil {
		h.BadRequest(c, "Invalid day, expected YYYY-MM-DD")
		return
	}

	h.Success(c, ModHashResponse{ModHash: h.rosterService.GetModHash(areaID, day)})
}

// GetUserEvents godoc
// @ID           getUserRosterEvents
// @Summary      Get a user's events across a time range
// @Tags         rosters
// @Produce      json
// @Param        user_id path string true "User ID" format(uuid)
// @Param        from query string true "Range start (RFC 3339)"
// @Param        to query string true "Range end (RFC 3339)"
// @Success      200 {object} APIResponse[scheduling.EventsResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /rosters/users/{user_id}/events [get]
func (h *RosterHandler) GetUserEvents(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		h.BadRequest(c, "Invalid user ID format")
		return
	}

	from, err := parseTimeParam(c, "from")
	if err != nil {
		h.BadRequest(c, "Invalid from, expected RFC 3339")
		return
	}
	to, err := parseTimeParam(c, "to")
	if err != nil {
		h.BadRequest(c, "Invalid to, expected RFC 3339")
		return
	}

	events, err := h.rosterService.GetUserEvents(c.Request.Context(), userID, from, to)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, events)
}

// GetUserModHash godoc
// @ID           getUserRosterModHash
// @Summary      Get the modification hash for a user's range
// @Tags         rosters
// @Produce      json
// @Param        user_id path string true "User ID" format(uuid)
// @Param        from query string true "Range start (RFC 3339)"
// @Param        to query string true "Range end (RFC 3339)"
// @Success      200 {object} APIResponse[ModHashResponse]
// @Security     BearerAuth
// @Router       /rosters/users/{user_id}/mod-hash [get]
func (h *RosterHandler) GetUserModHash(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		h.BadRequest(c, "Invalid user ID format")
		return
	}

	from, err := parseTimeParam(c, "from")
	if err != nil {
		h.BadRequest(c, "Invalid from, expected RFC 3339")
		return
	}
	to, err := parseTimeParam(c, "to")
	if err != nil {
		h.BadRequest(c, "Invalid to, expected RFC 3339")
		return
	}

	h.Success(c, ModHashResponse{ModHash: h.rosterService.GetUserModHash(userID, from, to)})
}

// GetSchedules godoc
// @ID           getAreaSchedules
// @Summary      List the appointment schedules attached to an area
// @Tags         rosters
// @Produce      json
// @Param        area_id path string true "Area ID" format(uuid)
// @Success      200 {object} APIResponse[[]scheduling.ScheduleResponse]
// @Security     BearerAuth
// @Router       /rosters/areas/{area_id}/schedules [get]
func (h *RosterHandler) GetSchedules(c *gin.Context) {
	areaID, err := uuid.Parse(c.Param("area_id"))
	if err != nil {
		h.BadRequest(c, "Invalid area ID format")
		return
	}

	schedules, err := h.rosterService.GetSchedules(c.Request.Context(), areaID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, schedules)
}

// CheckOverlap godoc
// @ID           checkRosterOverlap
// @Summary      Check whether time ranges collide with a user's events
// @Tags         rosters
// @Accept       json
// @Produce      json
// @Param        request body OverlapCheckRequest true "Overlap check request"
// @Success      200 {object} APIResponse[[]scheduling.EventResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /rosters/overlap-check [post]
func (h *RosterHandler) CheckOverlap(c *gin.Context) {
	var req OverlapCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	ranges := make([]scheduling.Times, 0, len(req.Ranges))
	for _, r := range req.Ranges {
		times, err := scheduling.NewTimes(r.Start, r.End)
		if err != nil {
			h.BadRequest(c, err.Error())
			return
		}
		ranges = append(ranges, times)
	}

	events, err := h.rosterService.GetOverlappingEvents(c.Request.Context(), ranges, req.UserID, req.Limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, events)
}

// CreateShift godoc
// @ID           createShift
// @Summary      Create a roster shift, optionally repeating
// @Tags         rosters
// @Accept       json
// @Produce      json
// @Param        request body scheduling.CreateShiftRequest true "Shift creation request"
// @Success      201 {object} APIResponse[[]scheduling.ShiftResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /rosters/shifts [post]
func (h *RosterHandler) CreateShift(c *gin.Context) {
	var req schedulingapp.CreateShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	shifts, err := h.rosterService.CreateShift(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, shifts)
}

// UpdateShift godoc
// @ID           updateShift
// @Summary      Reschedule or reassign a roster shift
// @Tags         rosters
// @Accept       json
// @Produce      json
// @Param        id path string true "Shift ID" format(uuid)
// @Param        request body scheduling.UpdateShiftRequest true "Shift update request"
// @Success      200 {object} APIResponse[scheduling.ShiftResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /rosters/shifts/{id} [put]
func (h *RosterHandler) UpdateShift(c *gin.Context) {
	shiftID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid shift ID format")
		return
	}

	var req schedulingapp.UpdateShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	shift, err := h.rosterService.UpdateShift(c.Request.Context(), shiftID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, shift)
}

// DeleteShift godoc
// @ID           deleteShift
// @Summary      Delete a roster shift
// @Tags         rosters
// @Produce      json
// @Param        id path string true "Shift ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /rosters/shifts/{id} [delete]
func (h *RosterHandler) DeleteShift(c *gin.Context) {
	shiftID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid shift ID format")
		return
	}

	if err := h.rosterService.DeleteShift(c.Request.Context(), shiftID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// ICalFeed godoc
// @ID           getUserICalFeed
// @Summary      Get a user's roster as an iCalendar feed
// @Description  Subscribe-able ICS feed covering the coming weeks
// @Tags         rosters
// @Produce      text/calendar
// @Param        user_id path string true "User ID" format(uuid)
// @Param        weeks query int false "Number of weeks to include" default(4)
// @Success      200 {string} string "ICS calendar"
// @Failure      400 {object} ErrorResponse
// @Router       /rosters/ical/{user_id} [get]
func (h *RosterHandler) ICalFeed(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		h.BadRequest(c, "Invalid user ID format")
		return
	}

	weeks := 4
	if parsed, err := strconv.Atoi(c.Query("weeks")); err == nil && parsed > 0 && parsed <= 26 {
		weeks = parsed
	}

	from := time.Now().AddDate(0, 0, -1)
	to := time.Now().AddDate(0, 0, weeks*7)

	events, err := h.rosterService.GetUserEvents(c.Request.Context(), userID, from, to)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId("-//VetDesk//Roster//EN")
	cal.SetName("VetDesk Roster")

	now := time.Now()
	for _, event := range events.Events {
		entry := cal.AddEvent(fmt.Sprintf("%s@vetdesk", event.ActID))
		entry.SetDtStampTime(now)
		entry.SetStartAt(event.Start)
		entry.SetEndAt(event.End)
		entry.SetSummary(icalSummary(event))
		if event.ScheduleName != "" {
			entry.SetLocation(event.ScheduleName)
		}
	}

	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(cal.Serialize()))
}

func icalSummary(event schedulingapp.EventResponse) string {
	switch {
	case event.PatientName != "":
		return event.Kind + ": " + event.PatientName
	case event.UserName != "":
		return event.Kind + ": " + event.UserName
	default:
		return event.Kind
	}
}

// ModHashResponse carries a bucket's modification hash
type ModHashResponse struct {
	ModHash int64 `json:"mod_hash"`
}
