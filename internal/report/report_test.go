package report

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/laithjmi2019-hash/fintech-terminal-pro/internal/model"
)

func f(v float64) *float64 { return &v }

func sampleResult() model.CompositeResult {
	fair := 210.0
	return model.CompositeResult{
		Ticker:       "ACME",
		CompanyName:  "Acme Corp",
		Sector:       "Technology",
		CurrentPrice: 187.25,
		FinalScore:   68,
		FinalGrade:   model.GradeBuy,
		Tiers: []model.TierScore{
			{Tier: 1, Label: "Tier 1: Valuation", Score: 75, Weight: 10},
			{Tier: 9, Label: "Tier 9: Total Yield", Score: 20, Weight: 8},
		},
		Metrics: map[string]any{
			"PEG Ratio":         1.5,
			"RSI (D/W)":         "55 / 60",
			"Short Float":       "N/A",
			"Score (Yahoo)":     70,
			"Alpha (Revisions)": "75.0/100",
		},
		NewsHeadlines: []string{"Acme beats estimates", "Acme names new CEO"},
		DCFFairValue:  &fair,
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleResult()))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, model.MetricLabels, records[0])
	assert.Equal(t, "1.5", records[1][0])
	assert.Equal(t, "55 / 60", records[1][1])
	assert.Equal(t, "", records[1][2], "missing values are empty")
	assert.Equal(t, "70", records[1][8])
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "", FormatValue(nil))
	assert.Equal(t, "0.25", FormatValue(0.25))
	assert.Equal(t, "3", FormatValue(3))
	assert.Equal(t, "x", FormatValue("x"))
	assert.Equal(t, "true", FormatValue(true))
}

func TestWritePDF(t *testing.T) {
	var buf bytes.Buffer
	in := PDFInput{
		Result:   sampleResult(),
		Peers:    []model.PeerRow{{Rank: 1, Record: model.PeerRecord{Ticker: "ACME", PE: f(22), Margins: f(0.2)}}},
		Insights: map[string]string{"Tier 1: Valuation": "Stock appears undervalued or fairly priced."},
		Now:      time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, WritePDF(&buf, in))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
	assert.Greater(t, buf.Len(), 1000)
}

func TestRenderScore(t *testing.T) {
	var buf bytes.Buffer
	RenderScore(&buf, sampleResult(), map[string]string{"Tier 1: Valuation": "cheap"}, TableOptions{})
	out := buf.String()
	assert.Contains(t, out, "Acme Corp (ACME)")
	assert.Contains(t, out, "Score 68/100  Buy")
	assert.Contains(t, out, "Tier 9: Total Yield")
	assert.Contains(t, out, "cheap")
	assert.Contains(t, out, "Beta")
}

func TestRenderPeers(t *testing.T) {
	var buf bytes.Buffer
	rows := []model.PeerRow{
		{Rank: 1, Record: model.PeerRecord{Ticker: "MSFT", PE: f(30.4), Margins: f(0.36), MarketCap: f(3.1e12)}, MarginZ: 1.2},
		{Rank: 2, Record: model.PeerRecord{Ticker: "ORCL"}},
	}
	RenderPeers(&buf, rows, TableOptions{})
	out := buf.String()
	assert.Contains(t, out, "MSFT")
	assert.Contains(t, out, "30.4")
	assert.Contains(t, out, "36.0%")
	assert.Contains(t, out, "N/A*")
	assert.Contains(t, out, "1.20")
}

func TestRenderPulseAndMetrics(t *testing.T) {
	var buf bytes.Buffer
	RenderPulse(&buf, []model.PulseEntry{{Name: "Gold", Price: 2300, Delta: -5, PctChange: -0.21, RSI: 44, Arrow: "▼", Signal: "SELL"}}, TableOptions{})
	assert.Contains(t, buf.String(), "▼ SELL")
	assert.Contains(t, buf.String(), "-0.21%")

	buf.Reset()
	RenderMetrics(&buf, "Backtest", map[string]string{"zeta-key": "2", "alpha-key": "1"}, TableOptions{})
	out := buf.String()
	assert.Less(t, strings.Index(out, "alpha-key"), strings.Index(out, "zeta-key"))
}
