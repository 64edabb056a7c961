package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisLedger keeps issued refresh tokens in Redis instead of postgres.
// Rows live under prefix+token with a TTL matching the token expiry, so
// expired entries disappear on their own; the service still compares
// ExpiresAt so both ledger backends agree at the boundary instant.
type RedisLedger struct {
	client *redis.Client
	prefix string
}

type redisTokenRecord struct {
	UserID    uuid.UUID `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

func NewRedisLedger(client *redis.Client, prefix string) *RedisLedger {
	return &RedisLedger{client: client, prefix: prefix}
}

func (l *RedisLedger) key(tokenString string) string {
	return l.prefix + tokenString
}

func (l *RedisLedger) CreateRefreshToken(ctx context.Context, tokenString string, userID uuid.UUID, expiresAt time.Time) error {
	record, err := json.Marshal(redisTokenRecord{UserID: userID, ExpiresAt: expiresAt})
	if err != nil {
		return fmt.Errorf("encode token record: %w", err)
	}

	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return fmt.Errorf("refresh token already expired at %s", expiresAt.Format(time.RFC3339))
	}

	if err := l.client.Set(ctx, l.key(tokenString), record, ttl).Err(); err != nil {
		return fmt.Errorf("store refresh token: %w", err)
	}
	return nil
}

func (l *RedisLedger) GetRefreshToken(ctx context.Context, tokenString string) (*RefreshToken, error) {
	data, err := l.client.Get(ctx, l.key(tokenString)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load refresh token: %w", err)
	}

	var record redisTokenRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("decode token record: %w", err)
	}

	return &RefreshToken{Token: tokenString, UserID: record.UserID, ExpiresAt: record.ExpiresAt}, nil
}

func (l *RedisLedger) DeleteRefreshTokens(ctx context.Context, tokenString string) (int64, error) {
	deleted, err := l.client.Del(ctx, l.key(tokenString)).Result()
	if err != nil {
		return 0, fmt.Errorf("delete refresh token: %w", err)
	}
	return deleted, nil
}
