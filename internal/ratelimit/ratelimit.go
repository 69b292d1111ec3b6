// Package ratelimit provides a keyed token-bucket rate limiter. Keys are
// typically client IPs; each key gets an independent bucket, and buckets
// idle for longer than the eviction window are dropped to bound memory.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	sweepInterval = 5 * time.Minute
	idleWindow    = 10 * time.Minute
)

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// KeyedRateLimiter manages per-key rate limiting with idle eviction.
type KeyedRateLimiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	limit   rate.Limit
	burst   int

	done     chan struct{}
	stopOnce sync.Once
}

// New creates a keyed limiter allowing rps requests per second with the
// given burst per key, and starts the background eviction sweep.
func New(rps float64, burst int) *KeyedRateLimiter {
	k := &KeyedRateLimiter{
		buckets: make(map[string]*bucket),
		limit:   rate.Limit(rps),
		burst:   burst,
		done:    make(chan struct{}),
	}

	go k.sweep()

	return k
}

// Allow reports whether a request for the key may proceed right now.
func (k *KeyedRateLimiter) Allow(key string) bool {
	return k.bucketFor(key).Allow()
}

// Wait blocks until a request for the key is allowed or ctx is canceled.
// Use for outbound calls where waiting beats dropping.
func (k *KeyedRateLimiter) Wait(ctx context.Context, key string) error {
	return k.bucketFor(key).Wait(ctx)
}

func (k *KeyedRateLimiter) bucketFor(key string) *rate.Limiter {
	now := time.Now()

	k.mu.Lock()
	defer k.mu.Unlock()

	b, ok := k.buckets[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(k.limit, k.burst)}
		k.buckets[key] = b
	}
	b.lastSeen = now
	return b.limiter
}

// Stop terminates the eviction sweep.
func (k *KeyedRateLimiter) Stop() {
	k.stopOnce.Do(func() {
		close(k.done)
	})
}

func (k *KeyedRateLimiter) sweep() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-k.done:
			return
		case now := <-ticker.C:
			k.evict(now)
		}
	}
}

func (k *KeyedRateLimiter) evict(now time.Time) {
	k.mu.Lock()
	defer k.mu.Unlock()

	for key, b := range k.buckets {
		if now.Sub(b.lastSeen) > idleWindow {
			delete(k.buckets, key)
		}
	}
}
