// Package yacache provides a small key/value cache with two interchangeable back-ends:
// an in-memory map guarded by a RW-mutex and a Redis client wrapper. The bot uses it to
// remember which updates were already dispatched and to keep per-chat conversation state.
//
// # Quick start (in-memory)
//
//	memory := yacache.NewMemory(time.Minute)
//	defer memory.Close()
//
//	_ = memory.Set(ctx, "state:42", "awaiting_name", 0)
//	state, _ := memory.Get(ctx, "state:42")
//
// # Quick start (Redis)
//
//	client, err := yacache.NewRedisClient(ctx, "localhost:6379", "", 0, log)
//	if err != nil {
//		// Handle error
//	}
//
//	cache := yacache.NewRedis(client)
//	first, _ := cache.SetNX(ctx, "seen:1001", "1", time.Hour)
package yacache

import (
	"context"
	"time"

	"github.com/YaCodeDev/GoYaTgWebhook/yaerrors"
)

// Cache is the storage contract shared by Memory and Redis.
//
// A zero ttl stores the value until it is deleted. Missing keys are reported by Get as
// a 404 Error wrapping ErrKeyNotFound.
type Cache interface {
	// Set stores key -> value, replacing any previous value and TTL.
	//
	// Example:
	//
	//	_ = c.Set(ctx, "state:42", "awaiting_name", 24*time.Hour)
	Set(ctx context.Context, key string, value string, ttl time.Duration) yaerrors.Error

	// SetNX stores key -> value only when key is absent and reports whether it did.
	//
	// Example:
	//
	//	first, err := c.SetNX(ctx, "seen:1001", "1", time.Hour)
	//	if err == nil && !first {
	//		// duplicate
	//	}
	SetNX(ctx context.Context, key string, value string, ttl time.Duration) (bool, yaerrors.Error)

	// Get returns the value stored under key.
	Get(ctx context.Context, key string) (string, yaerrors.Error)

	// Exists reports whether key holds a live value.
	Exists(ctx context.Context, key string) (bool, yaerrors.Error)

	// Del removes key. Deleting a missing key is not an error.
	Del(ctx context.Context, key string) yaerrors.Error

	// Ping verifies that the back-end is reachable.
	Ping(ctx context.Context) yaerrors.Error

	// Close releases the back-end resources.
	Close() yaerrors.Error
}
