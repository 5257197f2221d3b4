package scoring

// SectorThresholds holds sector-specific reference bounds.
type SectorThresholds struct {
	PEGood     float64
	PEBad      float64
	PBGood     float64
	PBBad      float64
	ROEGood    float64
	MarginGood float64
	// DEGood is the tolerated debt/equity, in percent.
	DEGood float64
}

// DefaultThresholds applies to the general market and unknown sectors.
var DefaultThresholds = SectorThresholds{
	PEGood:     15,
	PEBad:      35,
	PBGood:     1.5,
	PBBad:      5.0,
	ROEGood:    0.15,
	MarginGood: 0.10,
	DEGood:     100,
}

// SectorFinancialServices gets its own forensics fallback.
const SectorFinancialServices = "Financial Services"

var sectorOverrides = map[string]func(*SectorThresholds){
	"Technology": func(t *SectorThresholds) {
		t.PEGood, t.PEBad = 25, 50
		t.PBGood, t.PBBad = 5.0, 15.0
		t.MarginGood = 0.20
	},
	SectorFinancialServices: func(t *SectorThresholds) {
		t.PEGood, t.PEBad = 10, 20
		t.PBGood, t.PBBad = 1.0, 2.0
		t.DEGood = 200
	},
	"Energy": func(t *SectorThresholds) {
		t.PEGood, t.PEBad = 10, 25
		t.MarginGood = 0.05
	},
	"Healthcare": func(t *SectorThresholds) {
		t.PEGood, t.PEBad = 20, 40
		t.MarginGood = 0.15
	},
}

// ResolveThresholds returns the thresholds for sector, falling back to the defaults.
func ResolveThresholds(sector string) SectorThresholds {
	t := DefaultThresholds
	if apply, ok := sectorOverrides[sector]; ok {
		apply(&t)
	}
	return t
}
