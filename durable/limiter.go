package durable

import (
	"fmt"
	"time"

	"github.com/go-redis/redis"
	"github.com/gofrs/uuid/v5"
)

type Rule struct {
	Window time.Duration
	Max    int
}

// Limiter counts hits in sliding windows kept as redis sorted sets scored
// by millisecond timestamps.
type Limiter struct {
	redis *redis.Client
}

func NewLimiter(client *redis.Client) *Limiter {
	return &Limiter{redis: client}
}

// Allow records one hit for key and reports whether every rule still has
// room for it.
func (limiter *Limiter) Allow(key string, rules ...Rule) (bool, error) {
	for _, rule := range rules {
		count, err := limiter.hit(key, rule.Window)
		if err != nil {
			return false, err
		}
		if count > rule.Max {
			return false, nil
		}
	}
	return true, nil
}

func (limiter *Limiter) hit(key string, window time.Duration) (int, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return 0, err
	}
	now := time.Now()
	key = fmt.Sprintf("limiter:%s:%d", key, int64(window.Seconds()))
	var zcount *redis.IntCmd
	_, err = limiter.redis.Pipelined(func(pipe redis.Pipeliner) error {
		pipe.ZRemRangeByScore(key, "-inf", fmt.Sprint(now.Add(-window).UnixNano()/1000000))
		pipe.ZAdd(key, redis.Z{Score: float64(now.UnixNano() / 1000000), Member: id.String()})
		pipe.Expire(key, window+time.Minute)
		zcount = pipe.ZCard(key)
		return nil
	})
	if err != nil {
		return 0, err
	}
	count, err := zcount.Result()
	return int(count), err
}
