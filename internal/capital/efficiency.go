package capital

import (
	"fmt"

	"github.com/wonny/aegis-wheel/internal/contracts"
	"github.com/wonny/aegis-wheel/internal/strategyconfig"
)

// Calculate aggregates deployed/idle capital and annualized premium
// ⭐ SSOT: 자본 효율 계산은 여기서만
func Calculate(pf *contracts.Portfolio, cfg strategyconfig.Capital) contracts.CapitalEfficiency {
	lot := cfg.ContractShares
	if lot <= 0 {
		lot = 100
	}

	ccCapital := 0.0
	for _, p := range pf.CCPositions {
		ccCapital += p.CostPerShare * float64(p.ShareCount())
	}
	cspCapital := 0.0
	for _, p := range pf.CSPPositions {
		cspCapital += p.Collateral
	}
	idleCapital := 0.0
	for _, h := range pf.IdlePositions {
		idleCapital += h.Value()
	}

	ccAnnual := AnnualizedPremium(pf.CCPositions)
	cspAnnual := AnnualizedPremium(pf.CSPPositions)
	annual := ccAnnual + cspAnnual

	cash := pf.CashOrZero()
	deployed := ccCapital + cspCapital
	total := deployed + idleCapital + cash

	eff := contracts.CapitalEfficiency{
		TotalCapital:       total,
		DeployedCapital:    deployed,
		IdleCapital:        idleCapital,
		Cash:               cash,
		CCAnnualPremium:    ccAnnual,
		CSPAnnualPremium:   cspAnnual,
		TotalAnnualPremium: annual,
		DeadMoney:          idleCapital,
		DeadMoneyItems:     DeadMoneyItems(pf.IdlePositions, lot),
	}

	// 0으로 나누기 방지
	if total > 0 {
		eff.Utilization = deployed / total * 100
		eff.TotalYield = annual / total * 100
		eff.DeadMoneyPct = idleCapital / total * 100
	}
	if deployed > 0 {
		eff.WorkingYield = annual / deployed * 100
	}
	return eff
}

// AnnualizedPremium sums premium × 365/(expiry - sellDate).
// Positions with a missing, malformed or non-positive span contribute nothing.
func AnnualizedPremium(positions []contracts.Position) float64 {
	sum := 0.0
	for _, p := range positions {
		days, err := p.HoldingDays()
		if err != nil || days <= 0 {
			continue
		}
		sum += p.Premium * (365 / float64(days))
	}
	return sum
}

// DeadMoneyItems lists idle lots below one contract that are not CC-eligible
func DeadMoneyItems(holdings []contracts.Holding, lot int) []contracts.DeadMoneyItem {
	items := []contracts.DeadMoneyItem{}
	for _, h := range holdings {
		if h.CanCC || h.Shares >= lot {
			continue
		}
		items = append(items, contracts.DeadMoneyItem{
			Ticker: h.Ticker,
			Shares: h.Shares,
			Value:  h.Value(),
			Reason: fmt.Sprintf("Under %d shares (%d), cannot write a covered call", lot, h.Shares),
		})
	}
	return items
}
