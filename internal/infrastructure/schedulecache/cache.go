// Package schedulecache maintains per-day, per-entity snapshots of scheduling
// events (appointments, roster shifts), lazily populated from the persistence
// layer and invalidated as the underlying acts are saved or removed.
//
// Invalidation is always whole-bucket: a save or remove evicts every (entity,
// day) bucket the act touches and the next read requeries. The cache never
// patches a bucket in place, so it can never expose a mix of pre- and
// post-mutation events for the same key.
//
// Callers must only feed the cache committed state. Save/remove notifications
// are expected to arrive via the event bus after the owning transaction has
// committed; evicting on an uncommitted change could repopulate from a state
// that later rolls back.
package schedulecache

import (
	"context"
	"encoding/binary"
	"hash/fnv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vetdesk/backend/internal/domain/scheduling"
	"github.com/vetdesk/backend/internal/domain/shared"
)

const defaultShardCount = 64

// ErrDestroyed is returned when a cache is used after Destroy.
var ErrDestroyed = shared.NewDomainError("CACHE_DESTROYED", "Event cache has been destroyed")

// Stats receives cache activity notifications. Implementations must be
// safe for concurrent use.
type Stats interface {
	Hit(cache string)
	Miss(cache string)
	Eviction(cache string)
}

type nopStats struct{}

func (nopStats) Hit(string)      {}
func (nopStats) Miss(string)     {}
func (nopStats) Eviction(string) {}

// key identifies one cache bucket: an entity (schedule, area or user) and a
// calendar day.
type key struct {
	entity uuid.UUID
	day    int64 // unix seconds of midnight
}

// bucket holds the events for one key. hash is NotCached until the bucket
// has been populated; readers polling ModHash never take the bucket lock.
type bucket struct {
	mu     sync.Mutex
	hash   atomic.Int64
	events []scheduling.Event
}

// shard is one stripe of the cache. The shard lock guards only the map;
// population holds the bucket lock so a rebuild of one key never blocks
// reads of other keys in the same stripe.
type shard struct {
	mu      sync.Mutex
	buckets map[key]*bucket
}

// EventCache is a read-through cache of scheduling events keyed by
// (entity, day). One instance serves one event kind bucketed by one
// subject kind; services compose independent instances for their
// by-area and by-user views.
type EventCache struct {
	name      string
	kind      scheduling.EventKind
	subject   scheduling.SubjectKind
	query     scheduling.EventQuery
	shards    []*shard
	shardMask uint64
	counter   atomic.Int64
	destroyed atomic.Bool
	logger    *zap.Logger
	stats     Stats
}

// Option configures an EventCache
type Option func(*EventCache)

// WithLogger sets the cache logger
func WithLogger(logger *zap.Logger) Option {
	return func(c *EventCache) {
		c.logger = logger
	}
}

// WithStats sets the cache activity recorder
func WithStats(stats Stats) Option {
	return func(c *EventCache) {
		c.stats = stats
	}
}

// WithShardCount sets the number of lock stripes (rounded up to a power of 2)
func WithShardCount(n int) Option {
	return func(c *EventCache) {
		c.shards = make([]*shard, nextPowerOfTwo(n))
	}
}

// NewEventCache creates a cache for one event kind and subject kind, reading
// through the given query on misses.
func NewEventCache(name string, kind scheduling.EventKind, subject scheduling.SubjectKind, query scheduling.EventQuery, opts ...Option) *EventCache {
	c := &EventCache{
		name:    name,
		kind:    kind,
		subject: subject,
		query:   query,
		shards:  make([]*shard, defaultShardCount),
		logger:  zap.NewNop(),
		stats:   nopStats{},
	}
	for _, opt := range opts {
		opt(c)
	}
	for i := range c.shards {
		c.shards[i] = &shard{buckets: make(map[key]*bucket)}
	}
	c.shardMask = uint64(len(c.shards) - 1)
	return c
}

func nextPowerOfTwo(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

func (c *EventCache) shardFor(k key) *shard {
	h := fnv.New64a()
	h.Write(k.entity[:])
	var day [8]byte
	binary.BigEndian.PutUint64(day[:], uint64(k.day))
	h.Write(day[:])
	return c.shards[h.Sum64()&c.shardMask]
}

// Events returns the snapshot for (entity, day), populating the bucket from
// the query on a miss. A query failure propagates to the caller; nothing
// partial is ever stored.
func (c *EventCache) Events(ctx context.Context, entity uuid.UUID, day time.Time) (scheduling.Events, error) {
	if c.destroyed.Load() {
		return scheduling.Events{ModHash: scheduling.NotCached}, ErrDestroyed
	}
	day = scheduling.DayOf(day)
	k := key{entity: entity, day: day.Unix()}
	s := c.shardFor(k)

	s.mu.Lock()
	b, ok := s.buckets[k]
	if !ok {
		b = &bucket{}
		b.hash.Store(scheduling.NotCached)
		s.buckets[k] = b
	}
	s.mu.Unlock()

	b.mu.Lock()
	defer b.mu.Unlock()
	if hash := b.hash.Load(); hash != scheduling.NotCached {
		c.stats.Hit(c.name)
		return snapshot(b.events, hash), nil
	}
	c.stats.Miss(c.name)
	events, err := c.query.EventsIn(ctx, entity, day, day.AddDate(0, 0, 1))
	if err != nil {
		// Leave the bucket unpopulated so the next read retries. If the
		// bucket was evicted while we queried, this entry is already
		// orphaned and harmless.
		return scheduling.Events{ModHash: scheduling.NotCached}, err
	}
	hash := c.counter.Add(1)
	b.events = events
	b.hash.Store(hash)
	return snapshot(events, hash), nil
}

// ModHash returns the bucket's current modification hash, or NotCached when
// the bucket is not resident. It never queries; polling clients use it as a
// cheap liveness check.
func (c *EventCache) ModHash(entity uuid.UUID, day time.Time) int64 {
	if c.destroyed.Load() {
		return scheduling.NotCached
	}
	day = scheduling.DayOf(day)
	k := key{entity: entity, day: day.Unix()}
	s := c.shardFor(k)

	s.mu.Lock()
	b, ok := s.buckets[k]
	s.mu.Unlock()
	if !ok {
		return scheduling.NotCached
	}
	return b.hash.Load()
}

// AddEvent handles a committed save of a scheduling act. Every (entity, day)
// bucket the act now spans is evicted, and when the prior committed state is
// supplied, every bucket it previously spanned as well, so moves between
// entities or across day boundaries invalidate both old and new locations.
func (c *EventCache) AddEvent(prior *scheduling.Event, current scheduling.Event) {
	if c.destroyed.Load() || current.Kind != c.kind {
		return
	}
	if prior != nil {
		c.evictSpanned(*prior)
	}
	c.evictSpanned(current)
}

// RemoveEvent handles a committed removal of a scheduling act; the projection
// must reflect the act's last committed state.
func (c *EventCache) RemoveEvent(event scheduling.Event) {
	if c.destroyed.Load() || event.Kind != c.kind {
		return
	}
	c.evictSpanned(event)
}

// evictSpanned invalidates every day bucket the event's interval touches for
// the cache's subject. Eviction of an absent bucket is a no-op, so concurrent
// writers invalidating the same key both succeed.
func (c *EventCache) evictSpanned(event scheduling.Event) {
	entity, ok := event.Subject(c.subject)
	if !ok {
		return
	}
	for _, day := range event.Times.Days() {
		k := key{entity: entity, day: day.Unix()}
		s := c.shardFor(k)
		s.mu.Lock()
		if _, resident := s.buckets[k]; resident {
			delete(s.buckets, k)
			c.stats.Eviction(c.name)
			c.logger.Debug("evicted event cache bucket",
				zap.String("cache", c.name),
				zap.String("entity", entity.String()),
				zap.Time("day", day))
		}
		s.mu.Unlock()
	}
}

// Destroy releases the cache's buckets. Idempotent; subsequent reads return
// ErrDestroyed and ModHash reports NotCached.
func (c *EventCache) Destroy() {
	if !c.destroyed.CompareAndSwap(false, true) {
		return
	}
	for _, s := range c.shards {
		s.mu.Lock()
		s.buckets = make(map[key]*bucket)
		s.mu.Unlock()
	}
}

func snapshot(events []scheduling.Event, hash int64) scheduling.Events {
	copied := make([]scheduling.Event, len(events))
	copy(copied, events)
	return scheduling.Events{Events: copied, ModHash: hash}
}
