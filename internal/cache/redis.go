package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisTimeout = 500 * time.Millisecond

// Redis is a Cache backed by a redis server. Errors are treated as misses.
type Redis struct {
	client redis.UniversalClient
	prefix string
}

// NewRedis connects to addr. Keys are namespaced with prefix.
func NewRedis(addr, prefix string) *Redis {
	return NewRedisWithClient(redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  redisTimeout,
		ReadTimeout:  redisTimeout,
		WriteTimeout: redisTimeout,
	}), prefix)
}

// NewRedisWithClient wraps an existing client.
func NewRedisWithClient(client redis.UniversalClient, prefix string) *Redis {
	return &Redis{client: client, prefix: prefix}
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool) {
	ctx, cancel := context.WithTimeout(ctx, redisTimeout)
	defer cancel()
	v, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if err != nil {
		return nil, false
	}
	return v, true
}

func (r *Redis) Put(ctx context.Context, key string, val []byte, ttl time.Duration) {
	ctx, cancel := context.WithTimeout(ctx, redisTimeout)
	defer cancel()
	_ = r.client.Set(ctx, r.prefix+key, val, ttl).Err()
}

// Ping checks connectivity.
func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close releases the client.
func (r *Redis) Close() error {
	return r.client.Close()
}
