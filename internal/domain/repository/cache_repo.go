package repository

import (
	"context"
	"time"
)

// CacheRepository defines key-value cache operations.
type CacheRepository interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
	Increment(ctx context.Context, key string) (int64, error)
	Expire(ctx context.Context, key string, expiration time.Duration) error
	// TTL returns a negative duration when key has no expiry or does not exist.
	TTL(ctx context.Context, key string) (time.Duration, error)
	SetJSON(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	GetJSON(ctx context.Context, key string, dest interface{}) error
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) (bool, error)
	// CompareAndDelete deletes key only if it still holds value.
	CompareAndDelete(ctx context.Context, key string, value string) (bool, error)
}
