package model

// Peer metric keys used for percentile ranking and comparison tables.
const (
	PeerPE         = "P/E"
	PeerFwdPE      = "Fwd P/E"
	PeerTrailingPE = "Trailing P/E"
	PeerEVEBITDA   = "EV/EBITDA"
	PeerMargins    = "Margins"
	PeerROE        = "ROE"
	PeerPEG        = "PEG"
	PeerMarketCap  = "Mkt Cap"
	PeerPriceSales = "Price/Sales"
	PeerPrice      = "Price"
)

// PeerRecord is the normalized per-ticker row of a peer sample.
// Nil fields are missing after all fallbacks were tried.
type PeerRecord struct {
	Ticker       string   `json:"Ticker" msgpack:"ticker"`
	Price        *float64 `json:"Price" msgpack:"price"`
	PE           *float64 `json:"P/E" msgpack:"pe"`
	FwdPE        *float64 `json:"Fwd P/E" msgpack:"fwd_pe"`
	TrailingPE   *float64 `json:"Trailing P/E" msgpack:"trailing_pe"`
	EVEBITDA     *float64 `json:"EV/EBITDA" msgpack:"ev_ebitda"`
	Margins      *float64 `json:"Margins" msgpack:"margins"`
	ROE          *float64 `json:"ROE" msgpack:"roe"`
	PEG          *float64 `json:"PEG" msgpack:"peg"`
	MarketCap    *float64 `json:"Mkt Cap" msgpack:"mkt_cap"`
	PriceToSales *float64 `json:"Price/Sales" msgpack:"price_sales"`
}

// Value returns the peer metric stored under key.
func (p PeerRecord) Value(key string) (float64, bool) {
	var v *float64
	switch key {
	case PeerPE:
		v = p.PE
	case PeerFwdPE:
		v = p.FwdPE
	case PeerTrailingPE:
		v = p.TrailingPE
	case PeerEVEBITDA:
		v = p.EVEBITDA
	case PeerMargins:
		v = p.Margins
	case PeerROE:
		v = p.ROE
	case PeerPEG:
		v = p.PEG
	case PeerMarketCap:
		v = p.MarketCap
	case PeerPriceSales:
		v = p.PriceToSales
	case PeerPrice:
		v = p.Price
	}
	if v == nil {
		return 0, false
	}
	return *v, true
}

// PeerRow is one ranked line of the peer comparison table.
type PeerRow struct {
	Rank          int        `json:"Rank"`
	Record        PeerRecord `json:"record"`
	CompositeRank float64    `json:"composite_rank"`
	MarginZ       float64    `json:"Margin_Z"`
	// Filled holds P/E, EV/EBITDA, Margins, ROE and PEG after group-mean filling.
	Filled map[string]float64 `json:"filled"`
}
