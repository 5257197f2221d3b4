package recorder

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// Options selects and configures a Store backend.
type Options struct {
	Driver     string // sqlite | postgres | none
	SQLitePath string
	DSN        string
}

// Open returns the Store for opts.Driver.
func Open(ctx context.Context, opts Options, log zerolog.Logger) (Store, error) {
	switch opts.Driver {
	case "", "none":
		return NewNoopStore(), nil
	case "sqlite":
		if dir := filepath.Dir(opts.SQLitePath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create sqlite dir: %w", err)
			}
		}
		s, err := NewSQLiteStore(opts.SQLitePath, log)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "postgres":
		if opts.DSN == "" {
			return nil, fmt.Errorf("postgres store: dsn is required")
		}
		s, err := NewPostgresStore(ctx, opts.DSN, log)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown database driver %q", opts.Driver)
	}
}
