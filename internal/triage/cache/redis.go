package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/awmpietro/under5-screening/internal/logger"
	"github.com/awmpietro/under5-screening/internal/triage"
)

const defaultKeyPrefix = "screening:result:"

// Redis stores JSON-encoded results with a TTL. Redis being unavailable
// degrades to computing every time; it never fails a screening.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
	log    logger.Logger
}

func NewRedis(client *redis.Client, ttl time.Duration, log logger.Logger) *Redis {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Redis{client: client, ttl: ttl, prefix: defaultKeyPrefix, log: log}
}

func (c *Redis) GetOrCompute(ctx context.Context, key string, fn ComputeFunc) (triage.Result, error) {
	redisKey := c.prefix + key

	raw, err := c.client.Get(ctx, redisKey).Bytes()
	switch {
	case err == nil:
		var res triage.Result
		uerr := json.Unmarshal(raw, &res)
		if uerr == nil {
			return res, nil
		}
		c.log.Warn("discarding unreadable cached screening", map[string]any{
			"key":   redisKey,
			"error": uerr.Error(),
		})
	case errors.Is(err, redis.Nil):
	default:
		c.log.Warn("screening cache read failed", map[string]any{
			"key":   redisKey,
			"error": err.Error(),
		})
	}

	res, err := run(fn)
	if err != nil {
		return triage.Result{}, err
	}

	data, err := json.Marshal(res)
	if err != nil {
		return res, nil
	}
	if err := c.client.Set(ctx, redisKey, data, c.ttl).Err(); err != nil {
		c.log.Warn("screening cache write failed", map[string]any{
			"key":   redisKey,
			"error": err.Error(),
		})
	}
	return res, nil
}
