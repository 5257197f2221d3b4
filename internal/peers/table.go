// Package peers builds same-sector comparison samples and the ranked
// peer comparison table.
package peers

// MaxPeers bounds how many comparison tickers accompany the target.
const MaxPeers = 6

// SectorPeers lists the sector leaders used for relative ranking.
var SectorPeers = map[string][]string{
	"Technology":             {"MSFT", "AAPL", "NVDA", "ORCL", "ADBE", "CRM", "AMD"},
	"Financial Services":     {"JPM", "BAC", "GS", "MS", "WFC", "C", "BLK"},
	"Energy":                 {"XOM", "CVX", "SHEL", "TTE", "BP", "COP", "EOG"},
	"Healthcare":             {"JNJ", "UNH", "PFE", "LLY", "MRK", "ABBV", "TMO"},
	"Consumer Cyclical":      {"AMZN", "TSLA", "HD", "MCD", "NKE", "SBUX", "LOW"},
	"Industrials":            {"CAT", "GE", "HON", "UPS", "DE", "LMT", "BA"},
	"Consumer Defensive":     {"WMT", "PG", "KO", "PEP", "COST", "PM", "MO"},
	"Communication Services": {"GOOGL", "META", "NFLX", "DIS", "CMCSA", "TMUS", "VZ"},
	"Basic Materials":        {"LIN", "BHP", "RIO", "SHW", "FCX", "NEM", "APD"},
	"Real Estate":            {"PLD", "AMT", "EQIX", "CCI", "PSA", "O", "VICI"},
	"Utilities":              {"NEE", "DUK", "SO", "D", "AEP", "SRE", "PEG"},
}

// DefaultPeers is used for sectors without a leader list.
var DefaultPeers = []string{"SPY", "QQQ", "DIA"}

// PeersFor returns up to MaxPeers comparison tickers for sector, excluding ticker.
func PeersFor(ticker, sector string) []string {
	candidates, ok := SectorPeers[sector]
	if !ok {
		candidates = DefaultPeers
	}
	out := make([]string, 0, MaxPeers)
	for _, p := range candidates {
		if p == ticker {
			continue
		}
		out = append(out, p)
		if len(out) == MaxPeers {
			break
		}
	}
	return out
}
