// Package yaratelimit implements a fixed-window rate limiter backed by a
// yacache.Cache. The bot uses it to stop a single chat from flooding the
// handlers.
//
// Every subject is stored under
//
//	rate-limit:<group>:<id>
//
// as a MessagePack encoded Window whose TTL ends with the window, so idle
// subjects disappear from the cache on their own.
//
// Read-modify-write is not atomic. Two replicas sharing one Redis may both
// admit the hit that crosses the limit.
package yaratelimit

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/YaCodeDev/GoYaTgWebhook/yacache"
	"github.com/YaCodeDev/GoYaTgWebhook/yaencoding"
	"github.com/YaCodeDev/GoYaTgWebhook/yaerrors"
)

const keyPrefix = "rate-limit:"

// Window is the stored state of one subject.
type Window struct {
	Hits    uint32 `msgpack:"h"`
	StartMs int64  `msgpack:"s"`
}

// Limiter admits at most limit hits per subject inside every window.
type Limiter struct {
	cache  yacache.Cache
	limit  uint32
	window time.Duration
	now    func() time.Time
}

type Option func(*Limiter)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(l *Limiter) {
		l.now = now
	}
}

// New returns a limiter. A zero limit rejects every hit.
//
// Example:
//
//	limiter := yaratelimit.New(yacache.NewMemory(time.Minute), 20, time.Minute)
//	allowed, err := limiter.Allow(ctx, chatID, "updates")
func New(cache yacache.Cache, limit uint32, window time.Duration, opts ...Option) *Limiter {
	limiter := &Limiter{
		cache:  cache,
		limit:  limit,
		window: window,
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(limiter)
	}

	return limiter
}

// Allow records a hit for (id, group) and reports whether it fits the limit.
// Hits past the limit are not stored.
func (l *Limiter) Allow(ctx context.Context, id int64, group string) (bool, yaerrors.Error) {
	now := l.now()

	current, found, err := l.Get(ctx, id, group)
	if err != nil {
		return false, err.Wrap("failed to read rate limit window")
	}

	if !found || now.Sub(time.UnixMilli(current.StartMs)) >= l.window {
		current = Window{StartMs: now.UnixMilli()}
	}

	if current.Hits >= l.limit {
		return false, nil
	}

	current.Hits++

	ttl := time.UnixMilli(current.StartMs).Add(l.window).Sub(now)
	if ttl <= 0 {
		ttl = l.window
	}

	raw, err := yaencoding.EncodeMessagePack(current)
	if err != nil {
		return false, err.Wrap("failed to encode rate limit window")
	}

	if err := l.cache.Set(ctx, Key(id, group), string(raw), ttl); err != nil {
		return false, err.Wrap("failed to store rate limit window")
	}

	return true, nil
}

// Get returns the stored window for (id, group) and whether one exists.
func (l *Limiter) Get(ctx context.Context, id int64, group string) (Window, bool, yaerrors.Error) {
	value, err := l.cache.Get(ctx, Key(id, group))
	if err != nil {
		if errors.Is(err, yacache.ErrKeyNotFound) {
			return Window{}, false, nil
		}

		return Window{}, false, err
	}

	window, err := yaencoding.DecodeMessagePack[Window]([]byte(value))
	if err != nil {
		return Window{}, false, err.Wrap("corrupted rate limit window")
	}

	return *window, true, nil
}

// Reset forgets every hit of (id, group).
func (l *Limiter) Reset(ctx context.Context, id int64, group string) yaerrors.Error {
	if err := l.cache.Del(ctx, Key(id, group)); err != nil {
		return err.Wrap("failed to reset rate limit window")
	}

	return nil
}

// Key is the cache key for (id, group).
//
// Example:
//
//	yaratelimit.Key(100, "updates") // "rate-limit:updates:100"
func Key(id int64, group string) string {
	return keyPrefix + group + ":" + strconv.FormatInt(id, 10)
}
