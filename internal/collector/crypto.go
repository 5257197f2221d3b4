package collector

import "strings"

// cryptoAliases maps bare coin symbols to Yahoo's USD pairs.
var cryptoAliases = map[string]string{
	"BTC":      "BTC-USD",
	"ETH":      "ETH-USD",
	"SOL":      "SOL-USD",
	"XRP":      "XRP-USD",
	"DOGE":     "DOGE-USD",
	"BTC-USDT": "BTC-USD",
	"ETH-USDT": "ETH-USD",
}

// NormalizeTicker upper-cases a user supplied ticker and maps crypto
// shorthands to the symbol the data provider expects.
func NormalizeTicker(ticker string) string {
	t := strings.ToUpper(strings.TrimSpace(ticker))
	if mapped, ok := cryptoAliases[t]; ok {
		return mapped
	}
	return t
}

// IsCrypto reports whether ticker names a crypto asset.
func IsCrypto(ticker string) bool {
	t := strings.ToUpper(ticker)
	if strings.Contains(t, "-USD") {
		return true
	}
	switch t {
	case "BTC", "ETH", "SOL", "DOGE", "XRP":
		return true
	}
	return false
}
