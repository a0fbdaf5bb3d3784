package yadispatcher

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strconv"
	"time"

	"github.com/YaCodeDev/GoYaTgWebhook/yacache"
	"github.com/YaCodeDev/GoYaTgWebhook/yaencoding"
	"github.com/YaCodeDev/GoYaTgWebhook/yaerrors"
	"github.com/YaCodeDev/GoYaTgWebhook/yaratelimit"
	"github.com/YaCodeDev/GoYaTgWebhook/yatgtypes"
)

const seenKeyPrefix = "seen:"

// HandlerNext is the next step of the middleware chain.
type HandlerNext func(ctx context.Context, handlerData *HandlerData) yaerrors.Error

// HandlerMiddleware runs around a matched handler.
type HandlerMiddleware func(
	ctx context.Context,
	handlerData *HandlerData,
	next HandlerNext,
) yaerrors.Error

// AddMiddleware adds one or more middlewares to the router.
//
// Example of usage:
//
//	r.AddMiddleware(yadispatcher.Recover(), yadispatcher.Deduplicate(cache, time.Hour))
func (r *Router) AddMiddleware(mw ...HandlerMiddleware) {
	r.middlewares = append(r.middlewares, mw...)
}

// chainMiddleware wraps final so that middlewares[0] runs first.
func chainMiddleware(final HandlerNext, middlewares ...HandlerMiddleware) HandlerNext {
	for _, mw := range slices.Backward(middlewares) {
		next := final

		final = func(ctx context.Context, hd *HandlerData) yaerrors.Error {
			return mw(ctx, hd, next)
		}
	}

	return final
}

// Recover converts a handler panic into an error for the error handler.
func Recover() HandlerMiddleware {
	return func(ctx context.Context, hd *HandlerData, next HandlerNext) (err yaerrors.Error) {
		defer func() {
			if recovered := recover(); recovered != nil {
				err = yaerrors.FromError(
					http.StatusInternalServerError,
					fmt.Errorf("%w: %v", ErrHandlerPanic, recovered),
					"update "+strconv.FormatInt(hd.Update.ID, 10),
				)
			}
		}()

		return next(ctx, hd)
	}
}

// Logging traces every handled update with its duration.
func Logging() HandlerMiddleware {
	return func(ctx context.Context, hd *HandlerData, next HandlerNext) yaerrors.Error {
		start := time.Now()

		err := next(ctx, hd)

		hd.Log.Tracef("Handled %s in %s", hd.Update.Kind(), time.Since(start))

		return err
	}
}

// Throttle drops updates from a chat that exceeded limiter's budget for group.
// Updates without a chat or user pass through.
//
// Example of usage:
//
//	router.AddMiddleware(yadispatcher.Throttle(yaratelimit.New(cache, 20, time.Minute), "updates"))
func Throttle(limiter *yaratelimit.Limiter, group string) HandlerMiddleware {
	return func(ctx context.Context, hd *HandlerData, next HandlerNext) yaerrors.Error {
		var subject int64

		switch {
		case hd.Update.EffectiveChat() != nil:
			subject = hd.Update.EffectiveChat().ID
		case hd.Update.EffectiveUser() != nil:
			subject = hd.Update.EffectiveUser().ID
		default:
			return next(ctx, hd)
		}

		allowed, err := limiter.Allow(ctx, subject, group)
		if err != nil {
			return err.Wrap("failed to apply rate limit")
		}

		if !allowed {
			hd.Log.Debugf("Throttled update from %d", subject)

			return nil
		}

		return next(ctx, hd)
	}
}

// SeenMark is stored for every update Deduplicate lets through.
type SeenMark struct {
	UpdateID int64          `msgpack:"id"`
	Kind     yatgtypes.Kind `msgpack:"kind"`
	SeenAt   time.Time      `msgpack:"at"`
}

// Deduplicate skips updates whose id was already handled within ttl. Telegram redelivers
// an update when the webhook answer is lost, so a handler may otherwise run twice.
//
// Example of usage:
//
//	router.AddMiddleware(yadispatcher.Deduplicate(yacache.NewRedis(client), 24*time.Hour))
func Deduplicate(cache yacache.Cache, ttl time.Duration) HandlerMiddleware {
	return func(ctx context.Context, hd *HandlerData, next HandlerNext) yaerrors.Error {
		mark, err := yaencoding.EncodeMessagePack(SeenMark{
			UpdateID: hd.Update.ID,
			Kind:     hd.Update.Kind(),
			SeenAt:   time.Now().UTC(),
		})
		if err != nil {
			return err.Wrap("failed to encode seen mark")
		}

		first, yaerr := cache.SetNX(ctx, SeenKey(hd.Update.ID), string(mark), ttl)
		if yaerr != nil {
			return yaerr.Wrap("failed to mark update as seen")
		}

		if !first {
			hd.Log.Debug("Skipping duplicate update")

			return nil
		}

		return next(ctx, hd)
	}
}

// SeenKey is the cache key Deduplicate uses for updateID.
func SeenKey(updateID int64) string {
	return seenKeyPrefix + strconv.FormatInt(updateID, 10)
}

// LookupSeen returns the mark Deduplicate stored for updateID.
func LookupSeen(ctx context.Context, cache yacache.Cache, updateID int64) (SeenMark, bool, yaerrors.Error) {
	value, err := cache.Get(ctx, SeenKey(updateID))
	if err != nil {
		if errors.Is(err, yacache.ErrKeyNotFound) {
			return SeenMark{}, false, nil
		}

		return SeenMark{}, false, err.Wrap("failed to look up seen mark")
	}

	mark, err := yaencoding.DecodeMessagePack[SeenMark]([]byte(value))
	if err != nil {
		return SeenMark{}, false, err.Wrap("failed to decode seen mark")
	}

	return *mark, true, nil
}
