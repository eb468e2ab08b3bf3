// Package revocation marks issued tokens as revoked until their natural
// expiry. Entries are keyed by jti and carry a TTL no longer than the
// token's remaining lifetime, so the denylist never outlives the tokens
// it vetoes.
package revocation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-auth-core/internal/domain"
	redisinfra "github.com/go-auth-core/internal/infrastructure/redis"
)

const keyPrefix = "revoked:"

// sentinel is the stored value; only key existence matters.
const sentinel = "1"

type List struct {
	kv redisinfra.KV
}

func NewList(kv redisinfra.KV) *List {
	return &List{kv: kv}
}

// Revoke records jti as revoked for remaining. Revoking an already-expired
// token (remaining <= 0) is a no-op, and revoking twice is harmless.
func (l *List) Revoke(ctx context.Context, jti string, remaining time.Duration) error {
	if remaining <= 0 {
		return nil
	}
	if err := l.kv.SetEx(ctx, keyPrefix+jti, sentinel, remaining); err != nil {
		return fmt.Errorf("revoke token %s: %w", jti, err)
	}
	return nil
}

// IsRevoked reports whether jti has a live revocation entry. Callers
// resolving identity must treat a store error as revoked (fail-closed):
// a missing veto must never be mistaken for a valid session.
func (l *List) IsRevoked(ctx context.Context, jti string) (bool, error) {
	_, err := l.kv.Get(ctx, keyPrefix+jti)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, domain.ErrNotFound) {
		return false, nil
	}
	return false, fmt.Errorf("revocation check for %s: %w", jti, err)
}
