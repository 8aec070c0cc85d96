package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vetdesk/backend/internal/infrastructure/scheduler"
)

// ReminderHandler exposes manual control over the reminder scheduler
type ReminderHandler struct {
	BaseHandler
	reminderScheduler *scheduler.ReminderScheduler
}

// NewReminderHandler creates a new ReminderHandler
func NewReminderHandler(reminderScheduler *scheduler.ReminderScheduler) *ReminderHandler {
	return &ReminderHandler{
		reminderScheduler: reminderScheduler,
	}
}

// DispatchResultResponse reports how many reminders a run dispatched
type DispatchResultResponse struct {
	Dispatched int `json:"dispatched"`
}

// SchedulerStatusResponse reports the reminder scheduler's next run
type SchedulerStatusResponse struct {
	NextRun time.Time `json:"next_run"`
}

// TriggerDispatch godoc
// @ID           triggerReminderDispatch
// @Summary      Dispatch due reminders immediately
// @Description  Runs one dispatch cycle outside the cron schedule
// @Tags         reminders
// @Produce      json
// @Success      200 {object} APIResponse[DispatchResultResponse]
// @Security     BearerAuth
// @Router       /reminders/dispatch [post]
func (h *ReminderHandler) TriggerDispatch(c *gin.Context) {
	dispatched, err := h.reminderScheduler.TriggerNow(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, DispatchResultResponse{Dispatched: dispatched})
}

// GetStatus godoc
// @ID           getReminderSchedulerStatus
// @Summary      Get the reminder scheduler status
// @Tags         reminders
// @Produce      json
// @Success      200 {object} APIResponse[SchedulerStatusResponse]
// @Security     BearerAuth
// @Router       /reminders/scheduler [get]
func (h *ReminderHandler) GetStatus(c *gin.Context) {
	h.Success(c, SchedulerStatusResponse{NextRun: h.reminderScheduler.NextRun()})
}
