package contracts

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f64(v float64) *float64 { return &v }

func TestChainQuote_Mid(t *testing.T) {
	tests := []struct {
		name string
		q    ChainQuote
		want float64
	}{
		{"bid and ask", ChainQuote{Bid: 2, Ask: f64(2.2)}, 2.1},
		{"no ask", ChainQuote{Bid: 2}, 2},
		{"zero ask", ChainQuote{Bid: 1.5, Ask: f64(0)}, 1.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, tt.q.Mid(), 1e-9)
		})
	}
}

func TestTickerSymbol(t *testing.T) {
	assert.Equal(t, "PDD", TickerFromSymbol("US.PDD", "US."))
	assert.Equal(t, "PDD", TickerFromSymbol("PDD", "US."))
	assert.Equal(t, "US.PDD", SymbolFromTicker("PDD", "US."))
	assert.Equal(t, "US.PDD", SymbolFromTicker("US.PDD", "US."))
}

func TestPositionKind_OptionKind(t *testing.T) {
	assert.Equal(t, OptionCall, KindCC.OptionKind())
	assert.Equal(t, OptionPut, KindCSP.OptionKind())
}

func TestPosition_HoldingDays(t *testing.T) {
	tests := []struct {
		name    string
		p       Position
		want    int
		wantErr bool
	}{
		{"one week", Position{SellDate: "2026-02-06", Expiry: "2026-02-13"}, 7, false},
		{"same day", Position{SellDate: "2026-02-13", Expiry: "2026-02-13"}, 0, false},
		{"negative", Position{SellDate: "2026-02-20", Expiry: "2026-02-13"}, -7, false},
		{"missing sell date", Position{Expiry: "2026-02-13"}, 0, true},
		{"malformed", Position{SellDate: "02/06/2026", Expiry: "2026-02-13"}, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.p.HoldingDays()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPortfolio_ActivePositions(t *testing.T) {
	pf := Portfolio{
		CCPositions:  []Position{{Ticker: "PDD"}},
		CSPPositions: []Position{{Ticker: "BABA"}, {Ticker: "JD"}},
	}
	got := pf.ActivePositions()
	require.Len(t, got, 3)
	assert.Equal(t, KindCC, got[0].Kind)
	assert.Equal(t, KindCSP, got[1].Kind)
	assert.Equal(t, "JD", got[2].Ticker)
}

func TestPortfolio_CCEligibleTickers(t *testing.T) {
	pf := Portfolio{
		CCPositions: []Position{{Ticker: "PDD"}},
		IdlePositions: []Holding{
			{Ticker: "PDD", Shares: 100, CanCC: true},
			{Ticker: "TSLA", Shares: 200, CanCC: true},
			{Ticker: "NIO", Shares: 50},
			{Ticker: "TSLA", Shares: 100, CanCC: true},
			{Ticker: "BIDU", Shares: 100, CanCC: true},
		},
	}
	assert.Equal(t, []string{"TSLA", "BIDU"}, pf.CCEligibleTickers())
}

func TestPortfolio_AsOf(t *testing.T) {
	now := time.Date(2026, 2, 14, 16, 30, 0, 0, time.UTC)

	pf := Portfolio{UpdatedAt: "2026-02-10"}
	assert.Equal(t, time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC), pf.AsOf(now))

	pf.UpdatedAt = ""
	assert.Equal(t, time.Date(2026, 2, 14, 0, 0, 0, 0, time.UTC), pf.AsOf(now))
}

func TestValidationErrors(t *testing.T) {
	err := error(ValidationErrors{
		{Field: "cash", Message: "required"},
		{Field: "ccPositions[0].strike", Message: "gt=0"},
	})
	assert.True(t, errors.Is(err, ErrInvalidPortfolio))
	assert.Contains(t, err.Error(), "cash: required")
	assert.Contains(t, err.Error(), "ccPositions[0].strike: gt=0")
}

func TestCSPCandidate_Rounded(t *testing.T) {
	c := CSPCandidate{
		Price:      105,
		OTMPct:     4.7619,
		IV:         30,
		Mid:        2.1,
		Premium:    210.00000001,
		Collateral: 10000,
		AnnYield:   109.5,
		Delta:      f64(-0.25),
		Score:      5.8714,
	}
	r := c.Rounded()
	assert.Equal(t, 4.8, r.OTMPct)
	assert.Equal(t, 210.0, r.Premium)
	assert.Equal(t, 5.9, r.Score)
	assert.Equal(t, -0.25, *r.Delta)
	// original untouched
	assert.Equal(t, 5.8714, c.Score)
}

func TestCapitalEfficiency_Rounded(t *testing.T) {
	c := CapitalEfficiency{
		TotalCapital:   40123.6,
		Utilization:    37.46,
		DeadMoneyItems: []DeadMoneyItem{{Ticker: "NIO", Shares: 50, Value: 247.5}},
	}
	r := c.Rounded()
	assert.Equal(t, 40124.0, r.TotalCapital)
	assert.Equal(t, 37.5, r.Utilization)
	assert.Equal(t, 248.0, r.DeadMoneyItems[0].Value)
	assert.Equal(t, 247.5, c.DeadMoneyItems[0].Value)
}

func TestDecisionReport_Summarize(t *testing.T) {
	r := DecisionReport{
		ProfitAlerts: []ProfitAlert{
			{Signal: SignalTakeProfit},
			{Signal: SignalHolding},
			{Signal: SignalTakeProfit},
		},
		CSPCandidates:     []CSPCandidate{{}},
		CapitalEfficiency: CapitalEfficiency{Utilization: 55.5},
		WeeklyPlan:        []PlanItem{{}, {}},
	}
	s := r.Summarize()
	assert.Equal(t, 3, s.ProfitAlerts)
	assert.Equal(t, 2, s.TakeProfit)
	assert.Equal(t, 1, s.CSPCandidates)
	assert.Equal(t, 55.5, s.Utilization)
	assert.Equal(t, 2, s.PlanItems)
}
