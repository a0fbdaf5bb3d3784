package yacache

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/YaCodeDev/GoYaTgWebhook/yabackoff"
	"github.com/YaCodeDev/GoYaTgWebhook/yaerrors"
	"github.com/YaCodeDev/GoYaTgWebhook/yalogger"
)

// Redis wraps a *redis.Client and implements Cache.
type Redis struct {
	client *redis.Client
}

// NewRedis turns an already configured client into a Cache.
//
// Example:
//
//	cache := yacache.NewRedis(redis.NewClient(&redis.Options{Addr: "localhost:6379"}))
func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

const (
	connectAttempts  = 5
	connectBaseDelay = 200 * time.Millisecond
	connectMaxDelay  = 3 * time.Second
)

// NewRedisClient dials addr and performs an initial PING, retrying with an
// exponential back-off while ctx allows.
//
// Example:
//
//	client, err := yacache.NewRedisClient(ctx, "127.0.0.1:6379", "", 0, log)
func NewRedisClient(
	ctx context.Context,
	addr string,
	password string,
	db int,
	log yalogger.Logger,
) (*redis.Client, yaerrors.Error) {
	if log == nil {
		log = yalogger.NewBaseLogger(nil).NewLogger()
	}

	log.Infof("Redis connecting to addr %s", addr)

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	policy := yabackoff.NewExponential(connectBaseDelay, 2, connectMaxDelay)

	err := yabackoff.Retry(ctx, &policy, connectAttempts, func(ctx context.Context) error {
		err := client.Ping(ctx).Err()
		if err != nil {
			log.Warnf("Redis ping to %s failed: %v", addr, err)
		}

		return err
	})
	if err != nil {
		_ = client.Close()

		return nil, yaerrors.FromErrorWithLog(
			http.StatusServiceUnavailable,
			err,
			"[REDIS] failed to connect to "+addr,
			log,
		)
	}

	log.Infof("Redis connected to addr %s", addr)

	return client, nil
}

// Raw exposes the underlying client.
func (r *Redis) Raw() *redis.Client {
	return r.client
}

func (r *Redis) Set(ctx context.Context, key string, value string, ttl time.Duration) yaerrors.Error {
	if err := r.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return yaerrors.FromError(http.StatusInternalServerError, err, "[REDIS] set "+key)
	}

	return nil
}

func (r *Redis) SetNX(
	ctx context.Context,
	key string,
	value string,
	ttl time.Duration,
) (bool, yaerrors.Error) {
	ok, err := r.client.SetNX(ctx, key, value, ttl).Result()
	if err != nil {
		return false, yaerrors.FromError(http.StatusInternalServerError, err, "[REDIS] setnx "+key)
	}

	return ok, nil
}

func (r *Redis) Get(ctx context.Context, key string) (string, yaerrors.Error) {
	value, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", yaerrors.FromError(http.StatusNotFound, ErrKeyNotFound, "[REDIS] get "+key)
	}

	if err != nil {
		return "", yaerrors.FromError(http.StatusInternalServerError, err, "[REDIS] get "+key)
	}

	return value, nil
}

func (r *Redis) Exists(ctx context.Context, key string) (bool, yaerrors.Error) {
	count, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		return false, yaerrors.FromError(http.StatusInternalServerError, err, "[REDIS] exists "+key)
	}

	return count > 0, nil
}

func (r *Redis) Del(ctx context.Context, key string) yaerrors.Error {
	if err := r.client.Del(ctx, key).Err(); err != nil {
		return yaerrors.FromError(http.StatusInternalServerError, err, "[REDIS] del "+key)
	}

	return nil
}

func (r *Redis) Ping(ctx context.Context) yaerrors.Error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return yaerrors.FromError(http.StatusServiceUnavailable, err, "[REDIS] ping")
	}

	return nil
}

func (r *Redis) Close() yaerrors.Error {
	if err := r.client.Close(); err != nil {
		return yaerrors.FromError(http.StatusInternalServerError, err, "[REDIS] close")
	}

	return nil
}
