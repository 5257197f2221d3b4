package cache

import (
	"context"
	"time"

	"github.com/laithjmi2019-hash/fintech-terminal-pro/internal/metrics"
)

// Instrumented records hit/miss counts for a namespace of a Cache.
type Instrumented struct {
	next      Cache
	namespace string
	metrics   *metrics.Registry
}

// WithMetrics wraps c so that every Get is counted under namespace.
func WithMetrics(c Cache, namespace string, m *metrics.Registry) *Instrumented {
	return &Instrumented{next: c, namespace: namespace, metrics: m}
}

func (c *Instrumented) Get(ctx context.Context, key string) ([]byte, bool) {
	b, ok := c.next.Get(ctx, c.namespace+":"+key)
	c.metrics.CacheLookup(c.namespace, ok)
	return b, ok
}

func (c *Instrumented) Put(ctx context.Context, key string, val []byte, ttl time.Duration) {
	c.next.Put(ctx, c.namespace+":"+key, val, ttl)
}
