// Package ratelimit implements a store-backed fixed-window rate limiter.
// Counters live in the shared key-value store so limits hold across
// service instances. Rate limiting is a defense-in-depth layer: any
// store error during a check is logged and treated as "allow".
package ratelimit

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/go-auth-core/internal/domain"
	redisinfra "github.com/go-auth-core/internal/infrastructure/redis"
)

// keyPrefix matches the wire shape "rl:{action}:{identifier}" that other
// clients inspecting store state depend on.
const keyPrefix = "rl:"

// Limiter enforces at most Max requests per Window per (action, identifier).
type Limiter struct {
	kv     redisinfra.KV
	action string
	max    int64
	window time.Duration
}

func NewLimiter(kv redisinfra.KV, action string, max int, window time.Duration) *Limiter {
	return &Limiter{kv: kv, action: action, max: int64(max), window: window}
}

// Check atomically increments the window counter for identifier and fails
// with domain.RateLimitedError once the count exceeds the maximum. The
// increment and TTL read happen in one pipelined round-trip; a naive
// read-then-write would under-count concurrent bursts.
//
// Store errors are swallowed (fail-open): availability wins over strict
// enforcement here, unlike the revocation list which fails closed.
func (l *Limiter) Check(ctx context.Context, identifier string) error {
	key := fmt.Sprintf("%s%s:%s", keyPrefix, l.action, identifier)

	count, ttl, err := l.kv.IncrWithTTL(ctx, key)
	if err != nil {
		slog.Warn("rate limiter store error, allowing request", "action", l.action, "err", err)
		return nil
	}

	// The first increment in a window always (re)arms the TTL. ttl < 0
	// also covers a pre-existing key that lost its expiry, which would
	// otherwise count forever.
	if count == 1 || ttl < 0 {
		if err := l.kv.Expire(ctx, key, l.window); err != nil {
			slog.Warn("rate limiter expire error, allowing request", "action", l.action, "err", err)
			return nil
		}
		ttl = l.window
	}

	if count > l.max {
		retry := int(math.Ceil(ttl.Seconds()))
		if retry <= 0 {
			retry = int(math.Ceil(l.window.Seconds()))
		}
		return &domain.RateLimitedError{RetryAfter: retry}
	}
	return nil
}
