// Package bookstore owns the authoritative in-memory catalog snapshot:
// fetching it from the API, caching it for the session, and expiring it.
package bookstore

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"

	"bookstand/internal/book"
	"bookstand/internal/session"
)

const (
	// DefaultTTL is how long a fetched snapshot is trusted before a new
	// lookup session triggers a refetch.
	DefaultTTL = 30 * time.Minute

	// maxAttempts is the total number of fetch attempts before a
	// FetchError is surfaced to the caller.
	maxAttempts = 3

	snapshotKey = "books_data"
)

// Fetcher retrieves the full book list from the external data source.
type Fetcher interface {
	FetchBooks(ctx context.Context) ([]book.Record, error)
}

// Store caches one catalog snapshot per session. Reads are served from the
// in-process copy while it is fresh; writes replace the snapshot wholesale,
// never merge into it.
type Store struct {
	mu      sync.RWMutex
	fetcher Fetcher
	cache   *session.Store
	ttl     time.Duration

	snapshot *book.Snapshot

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// Option configures a Store.
type Option func(*Store)

// WithTTL overrides the snapshot freshness window.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) { s.ttl = ttl }
}

// WithSessionCache persists snapshots to a session-scoped key-value store so
// independent commands in one session share a single fetch.
func WithSessionCache(cache *session.Store) Option {
	return func(s *Store) { s.cache = cache }
}

// WithClock overrides the time source. For tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithSleep overrides the backoff sleep between retry attempts. For tests.
func WithSleep(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(s *Store) { s.sleep = sleep }
}

// New creates a Store backed by the given fetcher.
func New(fetcher Fetcher, opts ...Option) *Store {
	s := &Store{
		fetcher: fetcher,
		ttl:     DefaultTTL,
		now:     time.Now,
		sleep: func(ctx context.Context, d time.Duration) error {
			timer := time.NewTimer(d)
			defer timer.Stop()
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-timer.C:
				return nil
			}
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Catalog returns the current snapshot, fetching a new one when the cached
// copy is missing or stale. A stale cache is never served silently after a
// failed fetch; the error is the caller's to handle.
func (s *Store) Catalog(ctx context.Context) (*book.Snapshot, error) {
	now := s.now()

	s.mu.RLock()
	snap := s.snapshot
	s.mu.RUnlock()
	if snap.Fresh(now, s.ttl) {
		slog.Debug("Serving catalog from memory", "books", len(snap.Books), "age", now.Sub(snap.FetchedAt))
		return snap, nil
	}

	if cached := s.fromSessionCache(now); cached != nil {
		s.replace(cached)
		return cached, nil
	}

	books, err := s.fetchWithRetry(ctx)
	if err != nil {
		return nil, err
	}

	snap = &book.Snapshot{Books: books, FetchedAt: s.now()}
	s.replace(snap)
	s.toSessionCache(snap)
	slog.Info("Catalog fetched", "books", len(books))
	return snap, nil
}

// Adopt seeds the store with a record's originating snapshot handed forward
// from a prior screen. The seeded snapshot takes precedence over cache and
// fetch until it goes stale.
func (s *Store) Adopt(snap *book.Snapshot) {
	if snap == nil {
		return
	}
	s.replace(snap)
	s.toSessionCache(snap)
}

// Invalidate drops the cached snapshot so the next Catalog call refetches.
func (s *Store) Invalidate() {
	s.mu.Lock()
	s.snapshot = nil
	s.mu.Unlock()
	if s.cache != nil {
		if err := s.cache.Delete(snapshotKey); err != nil {
			slog.Warn("Failed to clear session cache", "error", err)
		}
	}
}

func (s *Store) replace(snap *book.Snapshot) {
	s.mu.Lock()
	s.snapshot = snap
	s.mu.Unlock()
}

func (s *Store) fromSessionCache(now time.Time) *book.Snapshot {
	if s.cache == nil {
		return nil
	}
	data, ok, err := s.cache.Get(snapshotKey, s.ttl)
	if err != nil {
		slog.Warn("Session cache read failed", "error", err)
		return nil
	}
	if !ok {
		return nil
	}
	var snap book.Snapshot
	if err := json.Unmarshal([]byte(data), &snap); err != nil {
		slog.Warn("Discarding unreadable cached snapshot", "error", err)
		return nil
	}
	if !snap.Fresh(now, s.ttl) {
		return nil
	}
	slog.Debug("Serving catalog from session cache", "books", len(snap.Books))
	return &snap
}

func (s *Store) toSessionCache(snap *book.Snapshot) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(snap)
	if err != nil {
		slog.Warn("Failed to marshal snapshot for caching", "error", err)
		return
	}
	// Caching failure must not fail the fetch itself.
	if err := s.cache.Set(snapshotKey, string(data)); err != nil {
		slog.Warn("Failed to cache snapshot", "error", err)
	}
}

// fetchWithRetry calls the data source up to maxAttempts times, backing off
// exponentially (2s, then 4s) between attempts. FormatErrors surface
// immediately: malformed data does not improve with repetition.
func (s *Store) fetchWithRetry(ctx context.Context) ([]book.Record, error) {
	backoffCfg := backoff.NewExponentialBackOff()
	backoffCfg.InitialInterval = 2 * time.Second
	backoffCfg.Multiplier = 2
	backoffCfg.RandomizationFactor = 0

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		books, err := s.fetcher.FetchBooks(ctx)
		if err == nil {
			return books, nil
		}
		if IsFormatError(err) {
			return nil, err
		}
		lastErr = err
		if attempt == maxAttempts {
			break
		}
		delay := backoffCfg.NextBackOff()
		slog.Warn("Catalog fetch failed, retrying", "attempt", attempt, "delay", delay, "error", err)
		if sleepErr := s.sleep(ctx, delay); sleepErr != nil {
			return nil, sleepErr
		}
	}
	return nil, lastErr
}
