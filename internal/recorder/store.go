package recorder

import (
	"context"
	"errors"

	"github.com/laithjmi2019-hash/fintech-terminal-pro/internal/model"
)

// ErrClosed is returned by stores used after Close.
var ErrClosed = errors.New("store closed")

// Store persists precomputed quant rows, the macro regime and score history.
type Store interface {
	SaveQuantMetrics(ctx context.Context, rec model.QuantRecord) error
	LoadQuantMetrics(ctx context.Context, ticker string) (model.QuantRecord, bool, error)
	SaveRegime(ctx context.Context, regime model.MacroRegime) error
	LatestRegime(ctx context.Context) (model.MacroRegime, bool, error)
	RecordScore(ctx context.Context, res model.CompositeResult) error
	Close() error
}
