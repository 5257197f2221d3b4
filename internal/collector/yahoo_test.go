package collector

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/laithjmi2019-hash/fintech-terminal-pro/internal/model"
)

const chartBody = `{"chart":{"result":[{"timestamp":[1717459200,1717372800,1717545600],
"indicators":{"quote":[{"open":[101,100,null],"high":[102,101,null],"low":[99,98,null],
"close":[101.5,100.5,null],"volume":[2000,1000,null]}]}}],"error":null}}`

const summaryBody = `{"quoteSummary":{"result":[{
"summaryDetail":{"trailingPE":{"raw":31.2,"fmt":"31.20"},"dividendYield":{"raw":0.005,"fmt":"0.50%"},"beta":{"raw":1.25},"volume":{"raw":5000000},"averageVolume":{"raw":4000000}},
"defaultKeyStatistics":{"pegRatio":{},"shortPercentOfFloat":{"raw":0.012},"heldPercentInsiders":{"raw":0.001}},
"financialData":{"currentPrice":{"raw":190.5},"returnOnEquity":{"raw":1.47},"debtToEquity":{"raw":150.8}},
"assetProfile":{"sector":"Technology","industry":"Consumer Electronics"},
"price":{"longName":"Apple Inc.","trailingPE":{"raw":99}}}],"error":null}}`

const upgradesBody = `{"quoteSummary":{"result":[{"upgradeDowngradeHistory":{"history":[
{"epochGradeDate":1717000000,"firm":"A","action":"up"},
{"epochGradeDate":1718000000,"firm":"B","action":"down"},
{"epochGradeDate":1716000000,"firm":"C","action":"main"}]}}],"error":null}}`

const searchBody = `{"news":[{"title":"one"},{"title":""},{"title":"two"},{"title":"three"},{"title":"four"},{"title":"five"},{"title":"six"}]}`

func newTestYahoo(t *testing.T) (*YahooProvider, *[]string) {
	t.Helper()
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.String())
		switch {
		case strings.Contains(r.URL.Path, "/chart/NOPE"):
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found"}}}`))
		case strings.HasPrefix(r.URL.Path, "/chart/"):
			_, _ = w.Write([]byte(chartBody))
		case strings.HasPrefix(r.URL.Path, "/summary/") && strings.Contains(r.URL.RawQuery, "upgradeDowngradeHistory"):
			_, _ = w.Write([]byte(upgradesBody))
		case strings.HasPrefix(r.URL.Path, "/summary/"):
			_, _ = w.Write([]byte(summaryBody))
		case r.URL.Path == "/search" && r.URL.Query().Get("quotesCount") == "1":
			if r.URL.Query().Get("q") == "apple" {
				_, _ = w.Write([]byte(`{"quotes":[{"symbol":"AAPL"},{"symbol":"APLE"}],"news":[]}`))
				return
			}
			_, _ = w.Write([]byte(`{"quotes":[],"news":[]}`))
		case r.URL.Path == "/search":
			_, _ = w.Write([]byte(searchBody))
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	t.Cleanup(srv.Close)

	return NewYahooProvider(YahooConfig{
		ChartURL:       srv.URL + "/chart",
		SummaryURL:     srv.URL + "/summary",
		SearchURL:      srv.URL + "/search",
		RequestsPerSec: 1000,
		Burst:          10,
	}), &paths
}

func TestYahooProvider_History(t *testing.T) {
	p, paths := newTestYahoo(t)
	s, err := p.History(context.Background(), "SPX", Period1Y)
	require.NoError(t, err)

	require.Len(t, s.Bars, 2)
	assert.Equal(t, 100.5, s.Bars[0].Close)
	assert.Equal(t, 101.5, s.Bars[1].Close)
	assert.True(t, s.Bars[0].Time.Before(s.Bars[1].Time))
	assert.Contains(t, (*paths)[0], "/chart/%5EGSPC")
	assert.Contains(t, (*paths)[0], "range=1y")
}

func TestYahooProvider_HistoryNotFound(t *testing.T) {
	p, _ := newTestYahoo(t)
	_, err := p.History(context.Background(), "NOPE", Period1Y)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestYahooProvider_InfoFlattensModules(t *testing.T) {
	p, _ := newTestYahoo(t)
	info, err := p.Info(context.Background(), "AAPL")
	require.NoError(t, err)

	pe, ok := info.Float(model.KeyTrailingPE)
	require.True(t, ok)
	assert.Equal(t, 31.2, pe, "earlier modules win over later duplicates")

	short, ok := info.Float(model.KeyShortPercentFloat)
	require.True(t, ok)
	assert.Equal(t, 0.012, short)

	_, ok = info.Float(model.KeyPEGRatio)
	assert.False(t, ok, "empty envelopes are absent")

	assert.Equal(t, "Technology", info.String(model.KeySector))
	assert.Equal(t, "Apple Inc.", info.String(model.KeyLongName))
	price, _ := info.Float(model.KeyCurrentPrice)
	assert.Equal(t, 190.5, price)
}

func TestYahooProvider_UpgradesDowngrades(t *testing.T) {
	p, _ := newTestYahoo(t)
	revs, err := p.UpgradesDowngrades(context.Background(), "AAPL")
	require.NoError(t, err)
	require.Len(t, revs, 3)
	assert.Equal(t, model.RevisionDown, revs[0].Action)
	assert.Equal(t, "B", revs[0].Firm)
	assert.Equal(t, model.RevisionUp, revs[1].Action)
	assert.Equal(t, model.RevisionMain, revs[2].Action)
}

func TestYahooProvider_NewsKeepsFiveTitles(t *testing.T) {
	p, _ := newTestYahoo(t)
	titles, err := p.News(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, []string{"one", "two", "three", "four", "five"}, titles)
}

func TestYahooProvider_Lookup(t *testing.T) {
	p, paths := newTestYahoo(t)
	sym, err := p.Lookup(context.Background(), " apple ")
	require.NoError(t, err)
	assert.Equal(t, "AAPL", sym)
	assert.Contains(t, (*paths)[0], "newsCount=0")

	_, err = p.Lookup(context.Background(), "no such company")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMockProvider_Lookup(t *testing.T) {
	m := &MockProvider{Price: 100, Symbols: map[string]string{"microsoft": "MSFT"}}
	sym, err := m.Lookup(context.Background(), "Microsoft")
	require.NoError(t, err)
	assert.Equal(t, "MSFT", sym)

	sym, err = m.Lookup(context.Background(), "btc")
	require.NoError(t, err)
	assert.Equal(t, "BTC-USD", sym)

	_, err = (&MockProvider{}).Lookup(context.Background(), "acme")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestYahooProvider_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()
	p := NewYahooProvider(YahooConfig{SearchURL: srv.URL, RequestsPerSec: 100})
	_, err := p.News(context.Background(), "AAPL")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}
