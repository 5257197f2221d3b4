package model

import "time"

// OHLCV represents a single candlestick bar.
type OHLCV struct {
	Time   time.Time `json:"time" msgpack:"time"`
	Open   float64   `json:"open" msgpack:"open"`
	High   float64   `json:"high" msgpack:"high"`
	Low    float64   `json:"low" msgpack:"low"`
	Close  float64   `json:"close" msgpack:"close"`
	Volume float64   `json:"volume" msgpack:"volume"`
}

// PriceSeries holds chronological daily bars for one ticker.
type PriceSeries struct {
	Symbol    string    `json:"symbol" msgpack:"symbol"`
	Bars      []OHLCV   `json:"bars" msgpack:"bars"`
	FetchedAt time.Time `json:"fetched_at" msgpack:"fetched_at"`
}

// Len returns the number of bars.
func (s PriceSeries) Len() int { return len(s.Bars) }

// Empty reports whether the series has no bars.
func (s PriceSeries) Empty() bool { return len(s.Bars) == 0 }

// Closes returns the close prices in chronological order.
func (s PriceSeries) Closes() []float64 {
	closes := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		closes[i] = b.Close
	}
	return closes
}

// LastClose returns the most recent close, or 0 for an empty series.
func (s PriceSeries) LastClose() float64 {
	if len(s.Bars) == 0 {
		return 0
	}
	return s.Bars[len(s.Bars)-1].Close
}
