package sentiment

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/laithjmi2019-hash/fintech-terminal-pro/internal/collector"
)

// maxHeadlines is how many titles each source contributes.
const maxHeadlines = 5

// Source fetches recent headlines for a ticker.
type Source interface {
	Name() string
	Headlines(ctx context.Context, ticker string) ([]string, error)
}

// ProviderNews reads headlines from the market data provider.
type ProviderNews struct {
	Provider collector.Provider
}

func (s ProviderNews) Name() string { return "yahoo" }

func (s ProviderNews) Headlines(ctx context.Context, ticker string) ([]string, error) {
	titles, err := s.Provider.News(ctx, ticker)
	if err != nil {
		return nil, err
	}
	if len(titles) > maxHeadlines {
		titles = titles[:maxHeadlines]
	}
	return titles, nil
}

// GoogleNews reads headlines from the Google News RSS search feed.
type GoogleNews struct {
	BaseURL string
	Client  *http.Client
}

// NewGoogleNews creates a feed reader against baseURL.
func NewGoogleNews(baseURL string, timeout time.Duration) *GoogleNews {
	return &GoogleNews{BaseURL: baseURL, Client: &http.Client{Timeout: timeout}}
}

func (g *GoogleNews) Name() string { return "google" }

func (g *GoogleNews) feedURL(ticker string) string {
	return fmt.Sprintf("%s?q=%s+stock&hl=en-US&gl=US&ceid=US:en", g.BaseURL, url.QueryEscape(ticker))
}

func (g *GoogleNews) Headlines(ctx context.Context, ticker string) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.feedURL(ticker), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")
	resp, err := g.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("google news fetch: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google news: status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("google news parse: %w", err)
	}
	var titles []string
	doc.Find("item title").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if t := strings.TrimSpace(s.Text()); t != "" {
			titles = append(titles, t)
		}
		return len(titles) < maxHeadlines
	})
	return titles, nil
}
