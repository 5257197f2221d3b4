// Package cache provides the time-boxed key/value store shared by the
// scoring engine, the peer sampler and the sentiment aggregator.
package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// Cache stores immutable byte values until their TTL expires.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Put(ctx context.Context, key string, val []byte, ttl time.Duration)
}

type entry struct {
	b   []byte
	exp time.Time
}

// Memory is an in-process Cache guarded by a mutex.
type Memory struct {
	mu  sync.Mutex
	m   map[string]entry
	now func() time.Time
}

// NewMemory creates an empty in-process cache.
func NewMemory() *Memory {
	return &Memory{m: make(map[string]entry), now: time.Now}
}

func (c *Memory) Get(_ context.Context, key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.m[key]
	if !ok {
		return nil, false
	}
	if !e.exp.IsZero() && c.now().After(e.exp) {
		delete(c.m, key)
		return nil, false
	}
	return e.b, true
}

func (c *Memory) Put(_ context.Context, key string, val []byte, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e := entry{b: append([]byte(nil), val...)}
	if ttl > 0 {
		e.exp = c.now().Add(ttl)
	}
	c.m[key] = e
}

// Len returns the number of stored entries, expired ones included.
func (c *Memory) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.m)
}

// GetValue decodes the msgpack value stored under key into a T.
// A missing or undecodable entry is a miss.
func GetValue[T any](ctx context.Context, c Cache, key string) (T, bool) {
	var v T
	if c == nil {
		return v, false
	}
	b, ok := c.Get(ctx, key)
	if !ok {
		return v, false
	}
	if err := msgpack.Unmarshal(b, &v); err != nil {
		return v, false
	}
	return v, true
}

// PutValue msgpack-encodes v and stores it under key.
func PutValue[T any](ctx context.Context, c Cache, key string, v T, ttl time.Duration) error {
	if c == nil {
		return nil
	}
	b, err := msgpack.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	c.Put(ctx, key, b, ttl)
	return nil
}
