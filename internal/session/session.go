// internal/session/session.go
//
// Page-view store.
//
// Context
//   Every GET /login creates a fresh login controller and hands the browser
//   an opaque page ID (a random UUID) in a hidden input.  Follow-up requests
//   quote that ID to reach the same controller, so each page view keeps its
//   own state and a reload starts clean.
//
//   Entries are bounded by capacity and idle TTL.  A background loop sweeps
//   idle pages every SweepInterval.
//
// Style
//   Two-space sentence spacing, Oxford comma, terse inline notes.
//
//------------------------------------------------------------------------------

package session

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/yanizio/adept-login/internal/cache"
	"github.com/yanizio/adept-login/internal/login"
	"github.com/yanizio/adept-login/internal/metrics"
)

// Defaults applied when Config leaves a value at zero.
const (
	DefaultCapacity      = 10000
	DefaultIdleTTL       = 30 * time.Minute
	DefaultSweepInterval = time.Minute
)

// Config sizes the store.
type Config struct {
	Capacity      int
	IdleTTL       time.Duration
	SweepInterval time.Duration
}

// Factory builds the controller for a new page view.
type Factory func() *login.Controller

// Store maps page IDs to controllers.  Safe for concurrent use.
type Store struct {
	lru      *cache.LRU[string, *login.Controller]
	factory  Factory
	interval time.Duration
	log      *zap.SugaredLogger
}

// New returns an empty Store.  Call Run to start idle sweeping.
func New(cfg Config, factory Factory, log *zap.SugaredLogger) *Store {
	if cfg.Capacity <= 0 {
		cfg.Capacity = DefaultCapacity
	}
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = DefaultIdleTTL
	}
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = DefaultSweepInterval
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	s := &Store{factory: factory, interval: cfg.SweepInterval, log: log}
	s.lru = cache.New(cache.Options[string, *login.Controller]{
		Capacity: cfg.Capacity,
		IdleTTL:  cfg.IdleTTL,
		OnEvict:  s.evicted,
	})
	return s
}

// Create starts a new page view.
func (s *Store) Create() (id string, c *login.Controller) {
	id = uuid.NewString()
	c = s.factory()
	s.lru.Add(id, c)
	metrics.PagesActive.Inc()
	return id, c
}

// Get returns the controller for id.  ok is false for malformed, unknown,
// and expired IDs alike.
func (s *Store) Get(id string) (c *login.Controller, ok bool) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, false
	}
	return s.lru.Get(id)
}

// Len reports the number of live page views.
func (s *Store) Len() int { return s.lru.Len() }

// Run sweeps idle pages until ctx is done.
func (s *Store) Run(ctx context.Context) {
	t := time.NewTicker(s.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := s.lru.Sweep(); n > 0 {
				s.log.Debugw("page sweep", "evicted", n, "active", s.lru.Len())
			}
		}
	}
}

func (s *Store) evicted(id string, _ *login.Controller, why cache.Reason) {
	metrics.PagesActive.Dec()
	metrics.PagesEvictedTotal.WithLabelValues(string(why)).Inc()
	if why == cache.ReasonCapacity {
		s.log.Warnw("page evicted under capacity pressure", "page_id", id)
	}
}
