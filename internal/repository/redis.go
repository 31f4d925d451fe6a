package repository

import (
	"context"
	"errors"
	"time"

	"classroom-backend/internal/domain"

	"github.com/redis/go-redis/v9"
)

type tokenBlacklist struct {
	client *redis.Client
}

// NewTokenBlacklist keeps revoked token ids in Redis until they expire.
// A nil client yields a blacklist that never revokes.
func NewTokenBlacklist(client *redis.Client) domain.TokenBlacklist {
	return &tokenBlacklist{client: client}
}

func revokedKey(tokenID string) string {
	return "auth:revoked:" + tokenID
}

func (b *tokenBlacklist) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	if b.client == nil || tokenID == "" {
		return nil
	}
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	return b.client.Set(ctx, revokedKey(tokenID), "1", ttl).Err()
}

func (b *tokenBlacklist) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	if b.client == nil || tokenID == "" {
		return false, nil
	}
	err := b.client.Get(ctx, revokedKey(tokenID)).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
