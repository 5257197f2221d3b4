package recorder

import (
	"context"

	"github.com/laithjmi2019-hash/fintech-terminal-pro/internal/model"
)

// NoopStore is used when no database is configured. Reads always miss.
type NoopStore struct{}

func NewNoopStore() *NoopStore { return &NoopStore{} }

func (n *NoopStore) SaveQuantMetrics(context.Context, model.QuantRecord) error { return nil }
func (n *NoopStore) LoadQuantMetrics(context.Context, string) (model.QuantRecord, bool, error) {
	return model.QuantRecord{}, false, nil
}
func (n *NoopStore) SaveRegime(context.Context, model.MacroRegime) error { return nil }
func (n *NoopStore) LatestRegime(context.Context) (model.MacroRegime, bool, error) {
	return model.MacroRegime{}, false, nil
}
func (n *NoopStore) RecordScore(context.Context, model.CompositeResult) error { return nil }
func (n *NoopStore) Close() error { return nil }
