package cache

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// Options selects and configures a cache backend.
type Options struct {
	Backend   string // memory | redis
	RedisAddr string
	Prefix    string
}

// New builds the configured backend. A redis backend that fails its
// initial ping falls back to memory so scoring keeps working.
func New(ctx context.Context, opts Options, log zerolog.Logger) (Cache, error) {
	switch opts.Backend {
	case "", "memory":
		return NewMemory(), nil
	case "redis":
		r := NewRedis(opts.RedisAddr, opts.Prefix)
		if err := r.Ping(ctx); err != nil {
			log.Warn().Err(err).Str("addr", opts.RedisAddr).Msg("redis unavailable, using in-process cache")
			_ = r.Close()
			return NewMemory(), nil
		}
		return r, nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", opts.Backend)
	}
}
