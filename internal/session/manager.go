// Package session keeps one contact controller per visitor session.
package session

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/jellydator/ttlcache/v3"
	"github.com/rs/zerolog"

	"portfolio-contact/internal/contact"
)

// Session binds a visitor to its controller.
type Session struct {
	ID         string
	Locale     string
	Controller *contact.Controller
}

// BuildFunc creates the controller of a new session.
type BuildFunc func(id, locale string) *contact.Controller

// Gauge receives the number of live sessions.
type Gauge interface {
	Set(float64)
}

type Manager struct {
	cache    *ttlcache.Cache[string, *Session]
	build    BuildFunc
	capacity uint64
	mu       sync.Mutex
	gauge    Gauge
	live     atomic.Int64
	started  atomic.Bool
	evicted  []func(*Session)
	logger   zerolog.Logger
}

type Option func(*Manager)

func WithGauge(g Gauge) Option {
	return func(m *Manager) { m.gauge = g }
}

// WithCapacity bounds the number of live sessions. Once full, the least
// recently used session is evicted to make room. Zero means unbounded.
func WithCapacity(n uint64) Option {
	return func(m *Manager) { m.capacity = n }
}

func WithLogger(l zerolog.Logger) Option {
	return func(m *Manager) { m.logger = l.With().Str("component", "session").Logger() }
}

// OnEvicted registers fn to run after a session is removed or expires.
func OnEvicted(fn func(*Session)) Option {
	return func(m *Manager) { m.evicted = append(m.evicted, fn) }
}

// NewManager keeps idle sessions for ttl. Every access extends the ttl.
func NewManager(ttl time.Duration, build BuildFunc, opts ...Option) *Manager {
	m := &Manager{
		build:  build,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(m)
	}

	cacheOpts := []ttlcache.Option[string, *Session]{
		ttlcache.WithTTL[string, *Session](ttl),
	}
	if m.capacity > 0 {
		cacheOpts = append(cacheOpts, ttlcache.WithCapacity[string, *Session](m.capacity))
	}
	m.cache = ttlcache.New[string, *Session](cacheOpts...)

	m.cache.OnEviction(func(_ context.Context, reason ttlcache.EvictionReason, item *ttlcache.Item[string, *Session]) {
		s := item.Value()
		s.Controller.Close()
		for _, fn := range m.evicted {
			fn(s)
		}
		m.report(m.live.Add(-1))
		m.logger.Debug().Str("session_id", s.ID).Int("reason", int(reason)).Msg("contact session evicted")
	})
	return m
}

// Start launches the expiry loop in the background.
func (m *Manager) Start() {
	if m.started.CompareAndSwap(false, true) {
		go m.cache.Start()
	}
}

// Stop ends the expiry loop and closes every remaining session.
func (m *Manager) Stop() {
	if m.started.CompareAndSwap(true, false) {
		m.cache.Stop()
	}
	m.cache.DeleteAll()
}

// Get returns a live session.
func (m *Manager) Get(id string) (*Session, bool) {
	item := m.cache.Get(id)
	if item == nil {
		return nil, false
	}
	return item.Value(), true
}

// Acquire returns the session for id, or creates one with locale when id
// is unknown or not a valid session id. created reports the latter.
func (m *Manager) Acquire(id, locale string) (s *Session, created bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, err := uuid.Parse(id); err == nil {
		if s, ok := m.Get(id); ok {
			return s, false
		}
	}

	s = &Session{ID: uuid.NewString(), Locale: locale}
	s.Controller = m.build(s.ID, locale)
	m.cache.Set(s.ID, s, ttlcache.DefaultTTL)
	m.report(m.live.Add(1))
	m.logger.Debug().Str("session_id", s.ID).Str("locale", locale).Msg("contact session created")
	return s, true
}

// Remove ends a session now.
func (m *Manager) Remove(id string) {
	m.cache.Delete(id)
}

// DeleteExpired evicts sessions whose ttl elapsed without waiting for the
// expiry loop.
func (m *Manager) DeleteExpired() {
	m.cache.DeleteExpired()
}

func (m *Manager) Len() int {
	return m.cache.Len()
}

// report is called from eviction callbacks, so it must not touch the
// cache.
func (m *Manager) report(live int64) {
	if m.gauge != nil {
		m.gauge.Set(float64(live))
	}
}
