package cart

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/angelmondragon/londonshop-backend/pkg/logger"
	"github.com/angelmondragon/londonshop-backend/pkg/metrics"
	"golang.org/x/sync/singleflight"
)

const evictJobName = "cart-evict"

// StoreFactory returns the store backing one browsing session.
type StoreFactory func(sessionID string) (Store, error)

// SessionsParams groups dependencies for the session registry.
type SessionsParams struct {
	StoreFor  StoreFactory
	Logger    *logger.Logger
	IdleTTL   time.Duration
	Listeners []Listener
	Metrics   *metrics.Storefront
	Jobs      *metrics.JobMetrics
	// Now defaults to time.Now.
	Now func() time.Time
}

// Sessions keeps one live Manager per browsing session and drops managers
// that sit idle. Persisted carts outlive eviction.
type Sessions struct {
	mu        sync.Mutex
	entries   map[string]*sessionEntry
	group     singleflight.Group
	storeFor  StoreFactory
	logg      *logger.Logger
	idleTTL   time.Duration
	listeners []Listener
	metrics   *metrics.Storefront
	jobs      *metrics.JobMetrics
	now       func() time.Time
}

type sessionEntry struct {
	manager  *Manager
	lastSeen time.Time
}

func NewSessions(params SessionsParams) (*Sessions, error) {
	if params.StoreFor == nil {
		return nil, fmt.Errorf("store factory is required")
	}
	if params.IdleTTL <= 0 {
		return nil, fmt.Errorf("idle ttl must be positive")
	}
	s := &Sessions{
		entries:   make(map[string]*sessionEntry),
		storeFor:  params.StoreFor,
		logg:      params.Logger,
		idleTTL:   params.IdleTTL,
		listeners: append([]Listener(nil), params.Listeners...),
		metrics:   params.Metrics,
		jobs:      params.Jobs,
		now:       params.Now,
	}
	if s.logg == nil {
		s.logg = logger.Nop()
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s, nil
}

// Open returns the live manager for sessionID, restoring it from its store on
// first use. Concurrent first opens of one session share a single restore.
func (s *Sessions) Open(ctx context.Context, sessionID string) (*Manager, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, fmt.Errorf("session id is required")
	}
	if m := s.lookup(sessionID); m != nil {
		return m, nil
	}

	v, err, _ := s.group.Do(sessionID, func() (any, error) {
		if m := s.lookup(sessionID); m != nil {
			return m, nil
		}
		store, err := s.storeFor(sessionID)
		if err != nil {
			return nil, fmt.Errorf("cart store for session: %w", err)
		}

		// The restored manager is cached for every later request, so one
		// caller going away must not turn its restore into an empty cart.
		restoreCtx := s.logg.WithCartSession(context.WithoutCancel(ctx), sessionID)
		m := Restore(restoreCtx, Options{
			Store:        store,
			Logger:       s.logg,
			OnStoreError: func(op string, _ error) { s.metrics.CartPersistError(op) },
		})
		m.Subscribe(func(c Change) { s.metrics.CartMutation(string(c.Op)) })
		for _, fn := range s.listeners {
			m.Subscribe(fn)
		}

		s.mu.Lock()
		s.entries[sessionID] = &sessionEntry{manager: m, lastSeen: s.now()}
		n := len(s.entries)
		s.mu.Unlock()
		s.metrics.SetActiveCarts(n)
		return m, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Manager), nil
}

func (s *Sessions) lookup(sessionID string) *Manager {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[sessionID]
	if !ok {
		return nil
	}
	entry.lastSeen = s.now()
	return entry.manager
}

// EvictIdle drops managers not opened since now-IdleTTL and returns how many
// were dropped.
func (s *Sessions) EvictIdle(now time.Time) int {
	cutoff := now.Add(-s.idleTTL)

	s.mu.Lock()
	evicted := 0
	for id, entry := range s.entries {
		if entry.lastSeen.Before(cutoff) {
			delete(s.entries, id)
			evicted++
		}
	}
	n := len(s.entries)
	s.mu.Unlock()

	s.metrics.SetActiveCarts(n)
	return evicted
}

// Run evicts idle managers every interval until ctx is done.
func (s *Sessions) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			start := time.Now()
			evicted := s.EvictIdle(s.now())
			s.jobs.ObserveDuration(evictJobName, time.Since(start))
			s.jobs.IncSuccess(evictJobName)
			if evicted > 0 {
				s.logg.Debug(s.logg.WithFields(ctx, map[string]any{"evicted": evicted, "active": s.Len()}), "idle carts evicted")
			}
		}
	}
}

// Len reports how many managers are live.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
