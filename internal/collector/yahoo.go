package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	yfgo "github.com/komsit37/yf-go"
	"golang.org/x/time/rate"

	"github.com/laithjmi2019-hash/fintech-terminal-pro/internal/model"
)

// summaryModules are the quoteSummary modules flattened into a RawMetricSet.
var summaryModules = []string{
	"summaryDetail",
	"defaultKeyStatistics",
	"financialData",
	"assetProfile",
	"price",
}

// keyAliases renames Yahoo fields to the metric keys the scorer reads.
var keyAliases = map[string]string{
	"shortPercentOfFloat": model.KeyShortPercentFloat,
}

// YahooConfig configures the Yahoo Finance endpoints and request pacing.
type YahooConfig struct {
	ChartURL       string
	SummaryURL     string
	SearchURL      string
	Proxy          string
	Timeout        time.Duration
	RequestsPerSec float64
	Burst          int
	// QuoteClient enables the typed price/name lookup. Nil disables it.
	QuoteClient *yfgo.Client
}

// YahooProvider implements Provider using the Yahoo Finance public API.
type YahooProvider struct {
	client    *http.Client
	cfg       YahooConfig
	limiter   *rate.Limiter
	quotes    *yfgo.Client
	SymbolMap map[string]string
}

// NewYahooProvider creates a provider with optional proxy support.
func NewYahooProvider(cfg YahooConfig) *YahooProvider {
	transport := &http.Transport{}
	if cfg.Proxy != "" {
		if u, err := url.Parse(cfg.Proxy); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.RequestsPerSec <= 0 {
		cfg.RequestsPerSec = 4
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 1
	}
	return &YahooProvider{
		client: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: transport,
		},
		cfg:     cfg,
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSec), cfg.Burst),
		quotes:  cfg.QuoteClient,
		SymbolMap: map[string]string{
			"SPX500": "^GSPC",
			"SPX":    "^GSPC",
			"SP500":  "^GSPC",
		},
	}
}

func (p *YahooProvider) Name() string { return "yahoo" }

func (p *YahooProvider) yahooSymbol(symbol string) string {
	if mapped, ok := p.SymbolMap[symbol]; ok {
		return mapped
	}
	return symbol
}

// getJSON performs a paced GET and decodes the JSON body into out.
func (p *YahooProvider) getJSON(ctx context.Context, u string, out any) error {
	if err := p.limiter.Wait(ctx); err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("yahoo fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("yahoo read body: %w", err)
	}
	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("yahoo: status %d, body: %s", resp.StatusCode, truncate(string(body), 200))
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("yahoo decode: %w", err)
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

// yahooChart is the response structure from Yahoo Finance chart API.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *yahooError `json:"error"`
	} `json:"chart"`
}

type yahooError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

func (e *yahooError) err() error {
	if e == nil {
		return nil
	}
	if strings.EqualFold(e.Code, "Not Found") {
		return ErrNotFound
	}
	return fmt.Errorf("yahoo api error: %s", e.Description)
}

func at(xs []*float64, i int) float64 {
	if i >= len(xs) || xs[i] == nil {
		return 0
	}
	return *xs[i]
}

// History returns daily bars for period (e.g. 1y, 10y).
func (p *YahooProvider) History(ctx context.Context, ticker, period string) (model.PriceSeries, error) {
	series := model.PriceSeries{Symbol: ticker, FetchedAt: time.Now()}
	u := fmt.Sprintf("%s/%s?interval=1d&range=%s",
		p.cfg.ChartURL, url.PathEscape(p.yahooSymbol(ticker)), url.QueryEscape(period))

	var chart yahooChart
	if err := p.getJSON(ctx, u, &chart); err != nil {
		return series, err
	}
	if err := chart.Chart.Error.err(); err != nil {
		return series, err
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Indicators.Quote) == 0 {
		return series, nil
	}

	result := chart.Chart.Result[0]
	quote := result.Indicators.Quote[0]
	bars := make([]model.OHLCV, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		c := at(quote.Close, i)
		if c == 0 {
			continue // null bars (holidays etc.)
		}
		bars = append(bars, model.OHLCV{
			Time:   time.Unix(ts, 0).UTC(),
			Open:   at(quote.Open, i),
			High:   at(quote.High, i),
			Low:    at(quote.Low, i),
			Close:  c,
			Volume: at(quote.Volume, i),
		})
	}
	sort.Slice(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	series.Bars = bars
	return series, nil
}

type quoteSummary struct {
	QuoteSummary struct {
		Result []map[string]json.RawMessage `json:"result"`
		Error  *yahooError                  `json:"error"`
	} `json:"quoteSummary"`
}

func (p *YahooProvider) summary(ctx context.Context, ticker string, modules ...string) (map[string]json.RawMessage, error) {
	u := fmt.Sprintf("%s/%s?modules=%s",
		p.cfg.SummaryURL, url.PathEscape(p.yahooSymbol(ticker)), url.QueryEscape(strings.Join(modules, ",")))
	var qs quoteSummary
	if err := p.getJSON(ctx, u, &qs); err != nil {
		return nil, err
	}
	if err := qs.QuoteSummary.Error.err(); err != nil {
		return nil, err
	}
	if len(qs.QuoteSummary.Result) == 0 {
		return nil, ErrNotFound
	}
	return qs.QuoteSummary.Result[0], nil
}

// Info flattens the fundamentals modules into one metric snapshot.
// Later modules do not overwrite keys set by earlier ones.
func (p *YahooProvider) Info(ctx context.Context, ticker string) (model.RawMetricSet, error) {
	res, err := p.summary(ctx, ticker, summaryModules...)
	if err != nil {
		return model.RawMetricSet{Ticker: ticker}, err
	}
	raw := map[string]any{}
	for _, mod := range summaryModules {
		body, ok := res[mod]
		if !ok {
			continue
		}
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(body, &fields); err != nil {
			continue
		}
		for k, v := range fields {
			if alias, ok := keyAliases[k]; ok {
				k = alias
			}
			if _, seen := raw[k]; seen {
				continue
			}
			if val, ok := flatten(v); ok {
				raw[k] = val
			}
		}
	}
	p.enrichPrice(ctx, ticker, raw)
	return model.NewRawMetricSet(ticker, raw), nil
}

// flatten unwraps Yahoo's {"raw": x, "fmt": "..."} envelopes.
func flatten(v json.RawMessage) (any, bool) {
	var envelope struct {
		Raw *json.Number `json:"raw"`
	}
	if err := json.Unmarshal(v, &envelope); err == nil && envelope.Raw != nil {
		return *envelope.Raw, true
	}
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		return s, true
	}
	var n json.Number
	if err := json.Unmarshal(v, &n); err == nil {
		return n, true
	}
	return nil, false
}

// enrichPrice fills name and price from the typed Price module when the
// flattened snapshot lacks them.
func (p *YahooProvider) enrichPrice(ctx context.Context, ticker string, raw map[string]any) {
	if p.quotes == nil {
		return
	}
	_, hasPrice := raw[model.KeyCurrentPrice]
	_, hasName := raw[model.KeyLongName]
	if hasPrice && hasName {
		return
	}
	if err := p.limiter.Wait(ctx); err != nil {
		return
	}
	res, err := p.quotes.QuoteSummaryTyped(ctx, p.yahooSymbol(ticker), []yfgo.QuoteSummaryModule{yfgo.ModulePrice})
	if err != nil || res.Price == nil {
		return
	}
	if !hasPrice && res.Price.RegularMarketPrice.Raw != nil {
		raw[model.KeyCurrentPrice] = *res.Price.RegularMarketPrice.Raw
	}
	if !hasName {
		if res.Price.LongName != "" {
			raw[model.KeyLongName] = res.Price.LongName
		} else if res.Price.ShortName != "" {
			raw[model.KeyLongName] = res.Price.ShortName
		}
	}
}

type upgradeDowngrade struct {
	History []struct {
		EpochGradeDate int64  `json:"epochGradeDate"`
		Firm           string `json:"firm"`
		Action         string `json:"action"`
	} `json:"history"`
}

// UpgradesDowngrades returns analyst rating changes, newest first.
func (p *YahooProvider) UpgradesDowngrades(ctx context.Context, ticker string) ([]model.Revision, error) {
	res, err := p.summary(ctx, ticker, "upgradeDowngradeHistory")
	if err != nil {
		return nil, err
	}
	body, ok := res["upgradeDowngradeHistory"]
	if !ok {
		return nil, nil
	}
	var ud upgradeDowngrade
	if err := json.Unmarshal(body, &ud); err != nil {
		return nil, fmt.Errorf("yahoo decode upgrades: %w", err)
	}
	out := make([]model.Revision, 0, len(ud.History))
	for _, h := range ud.History {
		out = append(out, model.Revision{
			Date:   time.Unix(h.EpochGradeDate, 0).UTC(),
			Firm:   h.Firm,
			Action: revisionAction(h.Action),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func revisionAction(a string) model.RevisionAction {
	switch strings.ToLower(a) {
	case "up":
		return model.RevisionUp
	case "down":
		return model.RevisionDown
	case "init":
		return model.RevisionInit
	default:
		return model.RevisionMain
	}
}

type searchResponse struct {
	News []struct {
		Title string `json:"title"`
	} `json:"news"`
	Quotes []struct {
		Symbol string `json:"symbol"`
	} `json:"quotes"`
}

// News returns up to five recent headline titles.
func (p *YahooProvider) News(ctx context.Context, ticker string) ([]string, error) {
	q := url.Values{}
	q.Set("q", ticker)
	q.Set("newsCount", fmt.Sprint(headlinesN))
	q.Set("quotesCount", "0")
	var sr searchResponse
	if err := p.getJSON(ctx, p.cfg.SearchURL+"?"+q.Encode(), &sr); err != nil {
		return nil, err
	}
	titles := make([]string, 0, headlinesN)
	for _, n := range sr.News {
		if n.Title == "" {
			continue
		}
		titles = append(titles, n.Title)
		if len(titles) == headlinesN {
			break
		}
	}
	return titles, nil
}

// Lookup returns the best-matching symbol for a company name or ticker
// query, or ErrNotFound when the search has no quotes.
func (p *YahooProvider) Lookup(ctx context.Context, query string) (string, error) {
	q := url.Values{}
	q.Set("q", strings.TrimSpace(query))
	q.Set("quotesCount", "1")
	q.Set("newsCount", "0")
	var sr searchResponse
	if err := p.getJSON(ctx, p.cfg.SearchURL+"?"+q.Encode(), &sr); err != nil {
		return "", fmt.Errorf("yahoo lookup %q: %w", query, err)
	}
	for _, quote := range sr.Quotes {
		if quote.Symbol != "" {
			return quote.Symbol, nil
		}
	}
	return "", fmt.Errorf("lookup %q: %w", query, ErrNotFound)
}
