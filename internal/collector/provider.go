package collector

import (
	"context"
	"errors"

	"github.com/laithjmi2019-hash/fintech-terminal-pro/internal/model"
)

// ErrNotFound is returned when the provider does not know a ticker.
var ErrNotFound = errors.New("ticker not found")

// History periods understood by providers.
const (
	Period5D   = "5d"
	Period3Mo  = "3mo"
	Period1Y   = "1y"
	Period2Y   = "2y"
	Period10Y  = "10y"
	headlinesN = 5
)

// Provider supplies fundamentals, prices, analyst actions and news for a ticker.
type Provider interface {
	Info(ctx context.Context, ticker string) (model.RawMetricSet, error)
	History(ctx context.Context, ticker, period string) (model.PriceSeries, error)
	UpgradesDowngrades(ctx context.Context, ticker string) ([]model.Revision, error)
	News(ctx context.Context, ticker string) ([]string, error)
	// Lookup resolves a company name or partial symbol to a ticker.
	Lookup(ctx context.Context, query string) (string, error)
	Name() string
}
