// Package scheduler runs periodic background jobs on cron schedules.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const defaultJobTimeout = 5 * time.Minute

// Dispatcher is the job the reminder scheduler drives on each tick.
type Dispatcher interface {
	// DispatchDue sends every pending reminder due at now and reports
	// how many went out.
	DispatchDue(ctx context.Context, now time.Time) (int, error)
}

// ReminderSchedulerConfig holds configuration for the reminder scheduler
type ReminderSchedulerConfig struct {
	// CronSchedule is a standard 5-field cron expression
	CronSchedule string
	// JobTimeout is the maximum time one dispatch sweep can run
	JobTimeout time.Duration
}

// ReminderScheduler drives reminder dispatch on a cron schedule. Ticks
// never overlap: a sweep still running when the next tick fires makes
// the new tick a no-op.
type ReminderScheduler struct {
	config     ReminderSchedulerConfig
	dispatcher Dispatcher
	logger     *zap.Logger

	cron    *cron.Cron
	entryID cron.EntryID

	mu        sync.Mutex
	isRunning bool
	inFlight  bool
}

// ReminderSchedulerOption configures a ReminderScheduler
type ReminderSchedulerOption func(*ReminderScheduler)

// WithLogger sets the scheduler logger
func WithLogger(logger *zap.Logger) ReminderSchedulerOption {
	return func(s *ReminderScheduler) {
		s.logger = logger
	}
}

// NewReminderScheduler creates a scheduler for the given dispatcher
func NewReminderScheduler(config ReminderSchedulerConfig, dispatcher Dispatcher, opts ...ReminderSchedulerOption) (*ReminderScheduler, error) {
	if dispatcher == nil {
		return nil, fmt.Errorf("dispatcher is required")
	}
	if config.CronSchedule == "" {
		config.CronSchedule = "*/5 * * * *"
	}
	if config.JobTimeout == 0 {
		config.JobTimeout = defaultJobTimeout
	}

	s := &ReminderScheduler{
		config:     config,
		dispatcher: dispatcher,
		logger:     zap.NewNop(),
		cron:       cron.New(),
	}
	for _, opt := range opts {
		opt(s)
	}

	entryID, err := s.cron.AddFunc(config.CronSchedule, s.tick)
	if err != nil {
		return nil, fmt.Errorf("invalid cron schedule %q: %w", config.CronSchedule, err)
	}
	s.entryID = entryID

	return s, nil
}

// Start begins scheduling. Starting a running scheduler is a no-op.
func (s *ReminderScheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isRunning {
		return
	}
	s.isRunning = true
	s.cron.Start()

	s.logger.Info("Reminder scheduler started",
		zap.String("schedule", s.config.CronSchedule),
		zap.Duration("job_timeout", s.config.JobTimeout))
}

// Stop halts scheduling and waits for an in-flight sweep to finish,
// bounded by the context.
func (s *ReminderScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	stopCtx := s.cron.Stop()
	select {
	case <-stopCtx.Done():
		s.logger.Info("Reminder scheduler stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// NextRun reports when the next sweep is due. Zero when not running.
func (s *ReminderScheduler) NextRun() time.Time {
	return s.cron.Entry(s.entryID).Next
}

// TriggerNow runs one dispatch sweep immediately, outside the schedule.
func (s *ReminderScheduler) TriggerNow(ctx context.Context) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.config.JobTimeout)
	defer cancel()
	return s.dispatcher.DispatchDue(ctx, time.Now())
}

func (s *ReminderScheduler) tick() {
	s.mu.Lock()
	if s.inFlight {
		s.mu.Unlock()
		s.logger.Warn("Reminder sweep still running, skipping tick")
		return
	}
	s.inFlight = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.inFlight = false
		s.mu.Unlock()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), s.config.JobTimeout)
	defer cancel()

	sent, err := s.dispatcher.DispatchDue(ctx, time.Now())
	if err != nil {
		s.logger.Error("Reminder sweep failed", zap.Error(err))
		return
	}
	if sent > 0 {
		s.logger.Info("Reminder sweep completed", zap.Int("sent", sent))
	}
}
