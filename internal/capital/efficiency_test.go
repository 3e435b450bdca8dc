package capital

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/aegis-wheel/internal/contracts"
	"github.com/wonny/aegis-wheel/internal/strategyconfig"
)

func cash(v float64) *float64 { return &v }

func lots(n int) *int { return &n }

func TestCalculate_CashOnly(t *testing.T) {
	eff := Calculate(&contracts.Portfolio{Cash: cash(25000)}, strategyconfig.Default().Capital)

	assert.Equal(t, 25000.0, eff.TotalCapital)
	assert.Equal(t, 0.0, eff.DeployedCapital)
	assert.Equal(t, 0.0, eff.Utilization)
	assert.Equal(t, 0.0, eff.WorkingYield)
	assert.Equal(t, 0.0, eff.TotalYield)
	assert.Empty(t, eff.DeadMoneyItems)
	assert.NotNil(t, eff.DeadMoneyItems)
}

func TestCalculate_Empty(t *testing.T) {
	eff := Calculate(&contracts.Portfolio{Cash: cash(0)}, strategyconfig.Default().Capital)
	assert.Equal(t, 0.0, eff.TotalCapital)
	assert.Equal(t, 0.0, eff.Utilization)
	assert.Equal(t, 0.0, eff.DeadMoneyPct)
}

func TestCalculate_Mixed(t *testing.T) {
	pf := &contracts.Portfolio{
		Cash: cash(20000),
		CCPositions: []contracts.Position{
			// 7일 보유, 권리금 70 → 연 3650
			{Ticker: "PDD", CostPerShare: 100, Shares: lots(100), Premium: 70, SellDate: "2026-02-06", Expiry: "2026-02-13"},
		},
		CSPPositions: []contracts.Position{
			{Ticker: "BABA", Collateral: 8000, Premium: 100, SellDate: "2026-02-06", Expiry: "2026-02-16"}, // 10일 → 3650
			{Ticker: "JD", Collateral: 2000, Premium: 50, SellDate: "2026-02-13", Expiry: "2026-02-13"},   // span 0 → skip
			{Ticker: "NIO", Collateral: 0, Premium: 50, Expiry: "2026-02-13"},                            // no sellDate
			{Ticker: "LI", Collateral: 0, Premium: 50, SellDate: "bad", Expiry: "2026-02-13"},            // malformed
		},
		IdlePositions: []contracts.Holding{
			{Ticker: "TSLA", Shares: 100, Cost: 40, CanCC: true},
			{Ticker: "NIO", Shares: 50, Cost: 5},
			{Ticker: "BIDU", Shares: 30, Cost: 100, CanCC: true},
			{Ticker: "XPEV", Shares: 150, Cost: 10},
		},
	}

	eff := Calculate(pf, strategyconfig.Default().Capital)

	assert.InDelta(t, 20000, eff.DeployedCapital, 1e-9)
	assert.InDelta(t, 4000+250+3000+1500, eff.IdleCapital, 1e-9)
	assert.InDelta(t, 48750, eff.TotalCapital, 1e-9)
	assert.InDelta(t, 3650, eff.CCAnnualPremium, 1e-6)
	assert.InDelta(t, 3650, eff.CSPAnnualPremium, 1e-6)
	assert.InDelta(t, 7300, eff.TotalAnnualPremium, 1e-6)
	assert.InDelta(t, 20000.0/48750*100, eff.Utilization, 1e-9)
	assert.InDelta(t, 7300.0/20000*100, eff.WorkingYield, 1e-6)
	assert.InDelta(t, 7300.0/48750*100, eff.TotalYield, 1e-6)
	assert.Equal(t, eff.IdleCapital, eff.DeadMoney)

	require.Len(t, eff.DeadMoneyItems, 1)
	item := eff.DeadMoneyItems[0]
	assert.Equal(t, "NIO", item.Ticker)
	assert.Equal(t, 50, item.Shares)
	assert.Equal(t, 250.0, item.Value)
	assert.Contains(t, item.Reason, "50")

	r := eff.Rounded()
	assert.Equal(t, 41.0, r.Utilization)
	assert.Equal(t, 36.5, r.WorkingYield)
	assert.Equal(t, 7300.0, r.TotalAnnualPremium)
}

func TestCalculate_ExplicitZeroShares(t *testing.T) {
	pf := &contracts.Portfolio{
		Cash: cash(1000),
		CCPositions: []contracts.Position{
			{Ticker: "PDD", CostPerShare: 50, Shares: lots(0)},
			{Ticker: "JD", CostPerShare: 20}, // absent → 100
		},
	}

	eff := Calculate(pf, strategyconfig.Default().Capital)
	assert.Equal(t, 2000.0, eff.DeployedCapital)
}

func TestAnnualizedPremium(t *testing.T) {
	tests := []struct {
		name string
		p    contracts.Position
		want float64
	}{
		{"one year", contracts.Position{Premium: 100, SellDate: "2025-02-13", Expiry: "2026-02-13"}, 100},
		{"negative span", contracts.Position{Premium: 100, SellDate: "2026-02-20", Expiry: "2026-02-13"}, 0},
		{"zero span", contracts.Position{Premium: 100, SellDate: "2026-02-13", Expiry: "2026-02-13"}, 0},
		{"no expiry", contracts.Position{Premium: 100, SellDate: "2026-02-06"}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, AnnualizedPremium([]contracts.Position{tt.p}), 1e-9)
		})
	}
}
