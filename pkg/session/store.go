package session

import (
	"context"
	"sync"
	"time"

	"github.com/lucentlab/lucent/pkg/model"
	"github.com/lucentlab/lucent/pkg/utils/logging"
)

// DefaultKey is the shared fallback session key used when a caller sends no
// session header. Callers without the header collide on this one session;
// that is part of the client contract.
const DefaultKey = "default_user_session"

type entry struct {
	mu       sync.Mutex
	session  *model.Session
	lastUsed time.Time
}

// Store holds in-flight conversation sessions in memory, bounded by a TTL on
// idle sessions. Concurrent requests for the same key are serialized: Acquire
// holds a per-session lock until the returned release function is called, so
// read-modify-append of the history cannot interleave.
type Store struct {
	mu      sync.Mutex
	entries map[string]*entry
	ttl     time.Duration
}

// New creates a session store that evicts sessions idle longer than ttl.
func New(ttl time.Duration) *Store {
	return &Store{
		entries: make(map[string]*entry),
		ttl:     ttl,
	}
}

// Acquire returns the session for key, creating an empty one if none exists,
// and locks it. An empty key falls back to DefaultKey. The caller must invoke
// release when it is done mutating the session.
func (s *Store) Acquire(key string) (*model.Session, func()) {
	if key == "" {
		key = DefaultKey
	}

	s.mu.Lock()
	e, ok := s.entries[key]
	if !ok {
		e = &entry{session: &model.Session{ID: key}}
		s.entries[key] = e
	}
	e.lastUsed = time.Now()
	s.mu.Unlock()

	e.mu.Lock()
	return e.session, e.mu.Unlock
}

// Evict drops sessions whose last use is older than the TTL relative to now,
// and returns how many were dropped. The session history is a disposable
// projection of the product ledger, so evicting an idle session loses nothing
// durable.
func (s *Store) Evict(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	for key, e := range s.entries {
		if now.Sub(e.lastUsed) > s.ttl {
			delete(s.entries, key)
			evicted++
		}
	}
	return evicted
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Start runs the eviction sweeper until ctx is canceled.
func (s *Store) Start(ctx context.Context) {
	interval := s.ttl / 4
	if interval < time.Second {
		interval = time.Second
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := s.Evict(time.Now()); n > 0 {
					logging.From(ctx).Debug("evicted idle sessions", "count", n)
				}
			}
		}
	}()
}
