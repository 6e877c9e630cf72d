// Package ratelimit enforces a per-client fixed-window request limit on the
// panel API, with an in-memory backend and an optional Redis backend.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Result describes the outcome of a rate limit check.
type Result struct {
	Allowed   bool
	Remaining int
	Reset     time.Time
}

// Limiter provides rate limit checks keyed by client identity.
type Limiter interface {
	Allow(ctx context.Context, key string, limit int, now time.Time) (Result, error)
}

// staleAfterWindows controls how many whole windows an idle counter survives
// before the memory limiter prunes it.
const staleAfterWindows = 60

type memoryEntry struct {
	window int64
	count  int
}

// MemoryLimiter implements a fixed-window in-memory rate limiter.
type MemoryLimiter struct {
	mu        sync.Mutex
	counters  map[string]memoryEntry
	lastPrune int64
}

// NewMemoryLimiter constructs a MemoryLimiter.
func NewMemoryLimiter() *MemoryLimiter {
	return &MemoryLimiter{counters: make(map[string]memoryEntry)}
}

// Allow checks whether the request fits in the current one-second window.
func (l *MemoryLimiter) Allow(_ context.Context, key string, limit int, now time.Time) (Result, error) {
	if limit <= 0 || key == "" {
		return Result{Allowed: true}, nil
	}
	sec := now.Unix()
	reset := time.Unix(sec+1, 0).UTC()

	l.mu.Lock()
	defer l.mu.Unlock()

	l.pruneLocked(sec)

	entry := l.counters[key]
	if entry.window != sec {
		entry = memoryEntry{window: sec}
	}
	if entry.count >= limit {
		l.counters[key] = entry
		return Result{Allowed: false, Remaining: 0, Reset: reset}, nil
	}
	entry.count++
	l.counters[key] = entry
	return Result{Allowed: true, Remaining: limit - entry.count, Reset: reset}, nil
}

// pruneLocked drops counters idle for longer than the stale horizon.
func (l *MemoryLimiter) pruneLocked(sec int64) {
	if sec-l.lastPrune < staleAfterWindows {
		return
	}
	l.lastPrune = sec
	for key, entry := range l.counters {
		if sec-entry.window >= staleAfterWindows {
			delete(l.counters, key)
		}
	}
}
