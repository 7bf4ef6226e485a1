package utils

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// TokenBlacklist remembers revoked session ids until the token would have expired anyway.
type TokenBlacklist struct {
	store Cache
	now   func() time.Time
}

func NewTokenBlacklist(store Cache) *TokenBlacklist {
	return &TokenBlacklist{store: store, now: time.Now}
}

// Revoke blacklists the token id. Already expired tokens need no entry.
func (b *TokenBlacklist) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	ttl := expiresAt.Sub(b.now())
	if ttl <= 0 {
		return nil
	}
	return b.store.Set(ctx, tokenID, true, ttl)
}

// IsRevoked fails open on store errors so a cache outage does not lock everybody out.
func (b *TokenBlacklist) IsRevoked(ctx context.Context, tokenID string) bool {
	var revoked bool
	ok, err := b.store.Get(ctx, tokenID, &revoked)
	if err != nil {
		L().Warn("token blacklist lookup failed", zap.String("jti", tokenID), zap.Error(err))
		return false
	}
	return ok && revoked
}
