package model

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Metric keys read from a fundamentals snapshot.
const (
	KeySector              = "sector"
	KeyLongName            = "longName"
	KeyShortName           = "shortName"
	KeySymbol              = "symbol"
	KeyIndustry            = "industry"
	KeyTrailingPE          = "trailingPE"
	KeyForwardPE           = "forwardPE"
	KeyPriceToBook         = "priceToBook"
	KeyPEGRatio            = "pegRatio"
	KeyPriceToSales        = "priceToSalesTrailing12Months"
	KeyEnterpriseToEBITDA  = "enterpriseToEbitda"
	KeyEarningsGrowth      = "earningsGrowth"
	KeyRevenueGrowth       = "revenueGrowth"
	KeyReturnOnEquity      = "returnOnEquity"
	KeyReturnOnAssets      = "returnOnAssets"
	KeyProfitMargins       = "profitMargins"
	KeyOperatingMargins    = "operatingMargins"
	KeyPayoutRatio         = "payoutRatio"
	KeyCurrentRatio        = "currentRatio"
	KeyDebtToEquity        = "debtToEquity"
	KeyOperatingCashflow   = "operatingCashflow"
	KeyFreeCashflow        = "freeCashflow"
	KeyNetIncomeToCommon   = "netIncomeToCommon"
	KeyHeldPctInsiders     = "heldPercentInsiders"
	KeyHeldPctInstitutions = "heldPercentInstitutions"
	KeyMarketCap           = "marketCap"
	KeyVolume              = "volume"
	KeyAverageVolume       = "averageVolume"
	KeyDividendYield       = "dividendYield"
	KeyTargetMeanPrice     = "targetMeanPrice"
	KeyCurrentPrice        = "currentPrice"
	KeyBeta                = "beta"
	KeyShortPercentFloat   = "shortPercentFloat"
	KeySharesOutstanding   = "sharesOutstanding"
)

// textKeys are kept verbatim and never coerced to numbers.
var textKeys = map[string]bool{
	KeySector:    true,
	KeyLongName:  true,
	KeySymbol:    true,
	KeyIndustry:  true,
	KeyShortName: true,
}

// RawMetricSet is an immutable fundamentals snapshot for one ticker.
// Values are coerced once at construction; downstream code only sees
// optional numbers or plain text.
type RawMetricSet struct {
	Ticker string             `json:"ticker" msgpack:"ticker"`
	Values map[string]float64 `json:"values" msgpack:"values"`
	Text   map[string]string  `json:"text" msgpack:"text"`
}

// NewRawMetricSet coerces a loosely typed provider payload into a RawMetricSet.
// Entries that cannot be coerced are dropped.
func NewRawMetricSet(ticker string, raw map[string]any) RawMetricSet {
	m := RawMetricSet{
		Ticker: ticker,
		Values: make(map[string]float64, len(raw)),
		Text:   make(map[string]string),
	}
	for k, v := range raw {
		if textKeys[k] {
			if s, ok := v.(string); ok && s != "" {
				m.Text[k] = s
			}
			continue
		}
		if f, ok := Coerce(v); ok {
			m.Values[k] = f
		}
	}
	return m
}

// Float returns the numeric value for key and whether it is present.
func (m RawMetricSet) Float(key string) (float64, bool) {
	v, ok := m.Values[key]
	return v, ok
}

// Truthy returns the value only when it is present and non-zero.
func (m RawMetricSet) Truthy(key string) (float64, bool) {
	v, ok := m.Values[key]
	if !ok || v == 0 {
		return 0, false
	}
	return v, true
}

// FloatOr returns the value for key or def when absent.
func (m RawMetricSet) FloatOr(key string, def float64) float64 {
	if v, ok := m.Values[key]; ok {
		return v
	}
	return def
}

// String returns the text value for key, or "" when absent.
func (m RawMetricSet) String(key string) string {
	return m.Text[key]
}

// Empty reports whether the snapshot carries no data at all.
func (m RawMetricSet) Empty() bool {
	return len(m.Values) == 0 && len(m.Text) == 0
}

// Coerce converts a number or numeric-looking string into a float64.
// Percent signs and thousands separators are stripped. NaN and
// infinities are treated as absent.
func Coerce(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case nil:
		return 0, false
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int8:
		f = float64(n)
	case int16:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	case uint:
		f = float64(n)
	case uint8:
		f = float64(n)
	case uint16:
		f = float64(n)
	case uint32:
		f = float64(n)
	case uint64:
		f = float64(n)
	case json.Number:
		p, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = p
	case string:
		s := strings.TrimSpace(strings.NewReplacer("%", "", ",", "").Replace(n))
		p, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		f = p
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
