package repository

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const blacklistKeyPrefix = "auth:blacklist:"

// TokenBlacklist records revoked access tokens in redis, keyed by token
// hash. Entries carry a TTL equal to the token's remaining lifetime, so
// they expire exactly when the token would have and never need cleanup.
type TokenBlacklist struct {
	client *redis.Client
}

func NewTokenBlacklist(client *redis.Client) *TokenBlacklist {
	return &TokenBlacklist{client: client}
}

func (b *TokenBlacklist) Put(ctx context.Context, tokenHash string, userID string, ttl time.Duration) error {
	return b.client.Set(ctx, blacklistKeyPrefix+tokenHash, userID, ttl).Err()
}

func (b *TokenBlacklist) Exists(ctx context.Context, tokenHash string) (bool, error) {
	n, err := b.client.Exists(ctx, blacklistKeyPrefix+tokenHash).Result()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}
