package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/aegis-wheel/internal/contracts"
	"github.com/wonny/aegis-wheel/internal/strategyconfig"
)

func fullInput() Input {
	return Input{
		ProfitAlerts: []contracts.ProfitAlert{
			{Ticker: "PDD", Kind: contracts.KindCC, Strike: 130, ProfitPct: 82.8, Signal: contracts.SignalTakeProfit},
			{Ticker: "JD", Kind: contracts.KindCSP, Strike: 30, ProfitPct: 65, Signal: contracts.SignalApproaching},
			{Ticker: "NIO", Kind: contracts.KindCSP, Strike: 5, ProfitPct: -120, Signal: contracts.SignalUnderwater},
			{Ticker: "BABA", Kind: contracts.KindCSP, Strike: 80, ProfitPct: -180, Signal: contracts.SignalUnderwater},
		},
		ExpiringAlerts: []contracts.ExpiryAlert{
			{Ticker: "PDD", Kind: contracts.KindCC, Strike: 130, Expiry: "2026-02-13", DTE: 0, Action: "Expired, check assignment", NextStep: "next", Urgency: contracts.UrgencyHigh},
			{Ticker: "JD", Kind: contracts.KindCSP, Strike: 30, Expiry: "2026-02-16", DTE: 3, Action: "Expires in 3 days", Urgency: contracts.UrgencyMedium},
			{Ticker: "LI", Kind: contracts.KindCSP, Strike: 20, Expiry: "2026-02-17", DTE: 4, Action: "Expires in 4 days", Urgency: contracts.UrgencyMedium},
		},
		CSPCandidates: []contracts.CSPCandidate{
			{Ticker: "A", Strike: 100, DTE: 7, AnnYield: 109.5, Premium: 210},
			{Ticker: "B", Strike: 50.5, DTE: 7, AnnYield: 90},
			{Ticker: "C", Strike: 20, DTE: 7, AnnYield: 80},
			{Ticker: "D", Strike: 10, DTE: 7, AnnYield: 70},
		},
		CCCandidates: []contracts.CCCandidate{
			{Ticker: "TSLA", Strike: 420, DTE: 7, AnnYield: 78.9, Premium: 605},
		},
		DeadMoney: []contracts.DeadMoneyItem{
			{Ticker: "NIO", Shares: 50, Value: 250, Reason: "Under 100 shares (50), cannot write a covered call"},
		},
	}
}

func TestGenerate_Order(t *testing.T) {
	plan := Generate(fullInput(), strategyconfig.Default().Plan)

	var cats []contracts.PlanCategory
	var prios []int
	for _, p := range plan {
		cats = append(cats, p.Category)
		prios = append(prios, p.Priority)
	}

	assert.Equal(t, []int{0, 0, 1, 1, 2, 2, 2, 2, 3}, prios)
	assert.Equal(t, []contracts.PlanCategory{
		contracts.CategoryProfit,
		contracts.CategoryRisk,
		contracts.CategoryExpiry,
		contracts.CategoryExpiry,
		contracts.CategoryOpportunity,
		contracts.CategoryOpportunity,
		contracts.CategoryOpportunity,
		contracts.CategoryOpportunity,
		contracts.CategoryEfficiency,
	}, cats)

	assert.Equal(t, "🎯 PDD CC $130 up 83% - close and redeploy", plan[0].Action)
	assert.Equal(t, "⚠️ BABA CSP $80 down 180% - evaluate stop-loss", plan[1].Action)
	assert.Equal(t, "next", plan[2].Detail)
	assert.Equal(t, contracts.UrgencyHigh, plan[2].Urgency)
	assert.Equal(t, "💰 CSP A $100 7DTE - annualized 109.5%, premium $210", plan[4].Action)
	assert.Contains(t, plan[5].Action, "$50.5")
	assert.Equal(t, "📈 CC TSLA $420 7DTE - annualized 78.9%, premium $605", plan[7].Action)
	assert.Equal(t, contracts.UrgencyLow, plan[8].Urgency)
	assert.Contains(t, plan[8].Action, "NIO 50 shares ($250)")
}

func TestGenerate_SevereLossBoundary(t *testing.T) {
	cfg := strategyconfig.Default().Plan
	in := Input{ProfitAlerts: []contracts.ProfitAlert{
		{Ticker: "X", ProfitPct: -150, Signal: contracts.SignalUnderwater},
		{Ticker: "Y", ProfitPct: -150.1, Signal: contracts.SignalUnderwater},
	}}
	plan := Generate(in, cfg)
	require.Len(t, plan, 1)
	assert.Contains(t, plan[0].Action, "Y")
}

func TestGenerate_Empty(t *testing.T) {
	plan := Generate(Input{}, strategyconfig.Default().Plan)
	assert.NotNil(t, plan)
	assert.Empty(t, plan)
}

func TestGenerate_Total(t *testing.T) {
	// 모든 입력이 누락 없이 반영되는지
	in := fullInput()
	plan := Generate(in, strategyconfig.Default().Plan)

	want := 1 /* take profit */ + 1 /* severe */ + 2 /* dte<=3 */ + 3 /* csp top3 */ + 1 /* cc */ + 1 /* dead */
	assert.Len(t, plan, want)
}
