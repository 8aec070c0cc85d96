package telemetry

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// PracticeMetrics holds the instruments for this system's business
// counters: schedule cache activity, balance allocation passes and
// reminder dispatch.
type PracticeMetrics struct {
	logger *zap.Logger

	cacheHitTotal      *Counter
	cacheMissTotal     *Counter
	cacheEvictionTotal *Counter

	allocationPassTotal    *Counter
	allocationCreatedTotal *Counter

	reminderSentTotal   *Counter
	reminderFailedTotal *Counter
}

// NewPracticeMetrics creates the business instruments on the given provider.
func NewPracticeMetrics(mp *MeterProvider, logger *zap.Logger) (*PracticeMetrics, error) {
	if mp == nil {
		return nil, fmt.Errorf("meter provider is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	meter := mp.Meter("vetdesk.practice")
	pm := &PracticeMetrics{logger: logger}

	var err error
	pm.cacheHitTotal, err = NewCounter(meter,
		"vetdesk_schedule_cache_hit_total",
		"Schedule event cache hits", "{hits}")
	if err != nil {
		return nil, err
	}
	pm.cacheMissTotal, err = NewCounter(meter,
		"vetdesk_schedule_cache_miss_total",
		"Schedule event cache misses", "{misses}")
	if err != nil {
		return nil, err
	}
	pm.cacheEvictionTotal, err = NewCounter(meter,
		"vetdesk_schedule_cache_eviction_total",
		"Schedule event cache evictions", "{evictions}")
	if err != nil {
		return nil, err
	}

	pm.allocationPassTotal, err = NewCounter(meter,
		"vetdesk_allocation_pass_total",
		"Balance allocation passes applied", "{passes}")
	if err != nil {
		return nil, err
	}
	pm.allocationCreatedTotal, err = NewCounter(meter,
		"vetdesk_allocation_created_total",
		"Allocation relationships created", "{allocations}")
	if err != nil {
		return nil, err
	}

	pm.reminderSentTotal, err = NewCounter(meter,
		"vetdesk_reminder_sent_total",
		"Appointment reminders sent", "{reminders}")
	if err != nil {
		return nil, err
	}
	pm.reminderFailedTotal, err = NewCounter(meter,
		"vetdesk_reminder_failed_total",
		"Appointment reminder delivery failures", "{reminders}")
	if err != nil {
		return nil, err
	}

	return pm, nil
}

// RecordAllocationPass counts one applied allocation pass and the
// allocations it created.
func (pm *PracticeMetrics) RecordAllocationPass(ctx context.Context, created int) {
	pm.allocationPassTotal.Inc(ctx)
	if created > 0 {
		pm.allocationCreatedTotal.Add(ctx, int64(created))
	}
}

// RecordRemindersSent counts dispatched reminders.
func (pm *PracticeMetrics) RecordRemindersSent(ctx context.Context, sent int) {
	if sent > 0 {
		pm.reminderSentTotal.Add(ctx, int64(sent))
	}
}

// RecordReminderFailure counts one failed reminder delivery.
func (pm *PracticeMetrics) RecordReminderFailure(ctx context.Context) {
	pm.reminderFailedTotal.Inc(ctx)
}

// CacheStats adapts the practice metrics to the schedule cache's Stats
// notifications.
type CacheStats struct {
	metrics *PracticeMetrics
}

// NewCacheStats creates a cache stats sink backed by the metrics.
func NewCacheStats(metrics *PracticeMetrics) *CacheStats {
	return &CacheStats{metrics: metrics}
}

func (s *CacheStats) Hit(cache string) {
	s.metrics.cacheHitTotal.Inc(context.Background(), AttrCacheName.String(cache))
}

func (s *CacheStats) Miss(cache string) {
	s.metrics.cacheMissTotal.Inc(context.Background(), AttrCacheName.String(cache))
}

func (s *CacheStats) Eviction(cache string) {
	s.metrics.cacheEvictionTotal.Inc(context.Background(), AttrCacheName.String(cache))
}
