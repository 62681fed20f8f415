package quotecache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// quoteTTL bounds staleness if catalog rates are edited between restarts.
const quoteTTL = 24 * time.Hour

// Redis is a Cache backed by a Redis server, for deployments where several
// operator sessions share one quote cache.
type Redis struct {
	client *redis.Client
	ctx    context.Context
}

// NewRedis creates a Redis cache talking to addr ("host:port").
func NewRedis(addr string) *Redis {
	return &Redis{
		client: redis.NewClient(&redis.Options{Addr: addr}),
		ctx:    context.Background(),
	}
}

// Get returns the cached value for key. Any Redis error reads as a miss.
func (r *Redis) Get(key string) (string, bool) {
	val, err := r.client.Get(r.ctx, key).Result()
	if err != nil {
		return "", false
	}
	return val, true
}

// Set stores value under key with a bounded TTL.
func (r *Redis) Set(key, value string) error {
	return r.client.Set(r.ctx, key, value, quoteTTL).Err()
}
