package contracts

import "github.com/wonny/aegis-wheel/pkg/round"

// CSPCandidate is a scored cash-secured put opportunity
// ⭐ SSOT: CSP 후보 (종목당 최대 1개)
type CSPCandidate struct {
	Ticker     string   `json:"ticker"`
	Strike     float64  `json:"strike"`
	DTE        int      `json:"dte"`
	Price      float64  `json:"price"`
	OTMPct     float64  `json:"otmPct"`
	IV         float64  `json:"iv"` // percent
	Bid        float64  `json:"bid"`
	Ask        float64  `json:"ask"`
	Mid        float64  `json:"mid"`
	Premium    float64  `json:"premium"`    // mid × 100
	Collateral float64  `json:"collateral"` // strike × 100
	AnnYield   float64  `json:"annYield"`
	OI         int      `json:"oi"`
	Volume     int      `json:"volume"`
	Delta      *float64 `json:"delta"`

	YieldScore     float64 `json:"yieldScore"`
	LiquidityScore float64 `json:"liquidityScore"`
	SafetyScore    float64 `json:"safetyScore"`
	DeltaScore     float64 `json:"deltaScore"`
	Score          float64 `json:"score"`
}

// Rounded returns a copy with report precision applied
func (c CSPCandidate) Rounded() CSPCandidate {
	c.Price = round.Price(c.Price)
	c.OTMPct = round.Pct(c.OTMPct)
	c.IV = round.Pct(c.IV)
	c.Bid = round.Price(c.Bid)
	c.Ask = round.Price(c.Ask)
	c.Mid = round.Price(c.Mid)
	c.Premium = round.Money(c.Premium)
	c.Collateral = round.Money(c.Collateral)
	c.AnnYield = round.Pct(c.AnnYield)
	c.Delta = round.PtrDelta(c.Delta)
	c.YieldScore = round.Pct(c.YieldScore)
	c.LiquidityScore = round.Delta(c.LiquidityScore)
	c.SafetyScore = round.Delta(c.SafetyScore)
	c.DeltaScore = round.Delta(c.DeltaScore)
	c.Score = round.Pct(c.Score)
	return c
}

// CCCandidate is the best covered call for one held ticker
type CCCandidate struct {
	Ticker       string   `json:"ticker"`
	Strike       float64  `json:"strike"`
	DTE          int      `json:"dte"`
	Price        float64  `json:"price"`
	OTMPct       float64  `json:"otmPct"`
	IV           float64  `json:"iv"`
	Bid          float64  `json:"bid"`
	Ask          float64  `json:"ask"`
	Mid          float64  `json:"mid"`
	Premium      float64  `json:"premium"`
	CoveredValue float64  `json:"coveredValue"` // price × 100
	AnnYield     float64  `json:"annYield"`
	Delta        *float64 `json:"delta"`
	OI           int      `json:"oi"`
}

// Rounded returns a copy with report precision applied
func (c CCCandidate) Rounded() CCCandidate {
	c.Price = round.Price(c.Price)
	c.OTMPct = round.Pct(c.OTMPct)
	c.IV = round.Pct(c.IV)
	c.Bid = round.Price(c.Bid)
	c.Ask = round.Price(c.Ask)
	c.Mid = round.Price(c.Mid)
	c.Premium = round.Money(c.Premium)
	c.CoveredValue = round.Money(c.CoveredValue)
	c.AnnYield = round.Pct(c.AnnYield)
	c.Delta = round.PtrDelta(c.Delta)
	return c
}

// IVRanking is one row of the implied volatility leaderboard
type IVRanking struct {
	Ticker   string   `json:"ticker"`
	Price    float64  `json:"price"`
	IV       float64  `json:"iv"` // percent
	DTE      int      `json:"dte"`
	IVChange *float64 `json:"ivChange"` // percentage points vs previous capture
}

// Rounded returns a copy with report precision applied
func (r IVRanking) Rounded() IVRanking {
	r.Price = round.Price(r.Price)
	r.IV = round.Pct(r.IV)
	r.IVChange = round.PtrPct(r.IVChange)
	return r
}
