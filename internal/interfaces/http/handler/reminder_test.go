package handler

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vetdesk/backend/internal/infrastructure/scheduler"
)

// dispatchRecorder is an in-memory scheduler.Dispatcher
type dispatchRecorder struct {
	mu    sync.Mutex
	runs  int
	sent  int
	fail  error
	lastT time.Time
}

func (d *dispatchRecorder) DispatchDue(_ context.Context, now time.Time) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.runs++
	d.lastT = now
	if d.fail != nil {
		return 0, d.fail
	}
	return d.sent, nil
}

func (d *dispatchRecorder) runCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.runs
}

func newReminderHandlerFixture(t *testing.T, dispatcher *dispatchRecorder) *gin.Engine {
	t.Helper()

	sched, err := scheduler.NewReminderScheduler(scheduler.ReminderSchedulerConfig{
		CronSchedule: "*/5 * * * *",
	}, dispatcher)
	require.NoError(t, err)

	h := NewReminderHandler(sched)
	router := gin.New()
	router.POST("/reminders/dispatch", h.TriggerDispatch)
	router.GET("/reminders/scheduler", h.GetStatus)
	return router
}

func TestReminderHandler_TriggerDispatch(t *testing.T) {
	dispatcher := &dispatchRecorder{sent: 3}
	router := newReminderHandlerFixture(t, dispatcher)

	rec := performRequest(t, router, http.MethodPost, "/reminders/dispatch", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	result := decodeData[DispatchResultResponse](t, rec)
	assert.Equal(t, 3, result.Dispatched)
	assert.Equal(t, 1, dispatcher.runCount())
}

func TestReminderHandler_TriggerDispatch_Error(t *testing.T) {
	dispatcher := &dispatchRecorder{fail: errors.New("transport unavailable")}
	router := newReminderHandlerFixture(t, dispatcher)

	rec := performRequest(t, router, http.MethodPost, "/reminders/dispatch", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestReminderHandler_GetStatus(t *testing.T) {
	dispatcher := &dispatchRecorder{}
	sched, err := scheduler.NewReminderScheduler(scheduler.ReminderSchedulerConfig{
		CronSchedule: "*/5 * * * *",
	}, dispatcher)
	require.NoError(t, err)

	sched.Start()
	t.Cleanup(func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = sched.Stop(stopCtx)
	})

	h := NewReminderHandler(sched)
	router := gin.New()
	router.GET("/reminders/scheduler", h.GetStatus)

	rec := performRequest(t, router, http.MethodGet, "/reminders/scheduler", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	status := decodeData[SchedulerStatusResponse](t, rec)
	assert.True(t, status.NextRun.After(time.Now()))
}
