package auth

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// LockoutPolicy is how many failures lock an account and for how long
type LockoutPolicy struct {
	MaxAttempts int
	Duration    time.Duration
}

func (p LockoutPolicy) withDefaults() LockoutPolicy {
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = 5
	}
	if p.Duration <= 0 {
		p.Duration = 15 * time.Minute
	}
	return p
}

// attempts counts failures inside a window that opens at the first failure, the way the
// Redis counter expires one policy duration after it is created
type attempts struct {
	count       int
	windowEnds  time.Time
	lockedUntil time.Time
}

// expired reports whether the entry no longer affects logins at now
func (a *attempts) expired(now time.Time) bool {
	if !a.lockedUntil.IsZero() {
		return !now.Before(a.lockedUntil)
	}
	return !now.Before(a.windowEnds)
}

// MemoryLockoutStore keeps failed-login counters in process memory
type MemoryLockoutStore struct {
	mu      sync.Mutex
	policy  LockoutPolicy
	entries map[string]*attempts
	now     func() time.Time
}

func NewMemoryLockoutStore(policy LockoutPolicy) *MemoryLockoutStore {
	return &MemoryLockoutStore{
		policy:  policy.withDefaults(),
		entries: make(map[string]*attempts),
		now:     time.Now,
	}
}

func (s *MemoryLockoutStore) Status(ctx context.Context, key string) (time.Duration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[key]
	if !ok || entry.lockedUntil.IsZero() {
		return 0, nil
	}
	remaining := entry.lockedUntil.Sub(s.now())
	if remaining <= 0 {
		// lock expired, start over
		delete(s.entries, key)
		return 0, nil
	}
	return remaining, nil
}

func (s *MemoryLockoutStore) RecordFailure(ctx context.Context, key string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	entry, ok := s.entries[key]
	if !ok || entry.expired(now) {
		entry = &attempts{windowEnds: now.Add(s.policy.Duration)}
		s.entries[key] = entry
	}
	entry.count++

	if entry.count >= s.policy.MaxAttempts {
		entry.lockedUntil = now.Add(s.policy.Duration)
		log.WithFields(log.Fields{
			"key":      key,
			"attempts": entry.count,
		}).Warn("Account locked after repeated failed logins")
		return 0, nil
	}
	return s.policy.MaxAttempts - entry.count, nil
}

func (s *MemoryLockoutStore) Reset(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}

// Cleanup drops expired locks and failure counters whose window has passed
func (s *MemoryLockoutStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for key, entry := range s.entries {
		if entry.expired(now) {
			delete(s.entries, key)
		}
	}
}

// RunCleanup calls Cleanup every interval until ctx is done
func (s *MemoryLockoutStore) RunCleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Cleanup()
		}
	}
}
