package contracts

import "github.com/wonny/aegis-wheel/pkg/round"

// CapitalEfficiency aggregates deployed, idle and annualized premium
// ⭐ SSOT: 자본 효율 집계 레코드 (런당 1개)
type CapitalEfficiency struct {
	TotalCapital       float64         `json:"totalCapital"`
	DeployedCapital    float64         `json:"deployedCapital"`
	IdleCapital        float64         `json:"idleCapital"`
	Cash               float64         `json:"cash"`
	Utilization        float64         `json:"utilization"`
	WorkingYield       float64         `json:"workingYield"`
	TotalYield         float64         `json:"totalYield"`
	CCAnnualPremium    float64         `json:"ccAnnualPremium"`
	CSPAnnualPremium   float64         `json:"cspAnnualPremium"`
	TotalAnnualPremium float64         `json:"totalAnnualPremium"`
	DeadMoney          float64         `json:"deadMoney"`
	DeadMoneyPct       float64         `json:"deadMoneyPct"`
	DeadMoneyItems     []DeadMoneyItem `json:"deadMoneyItems"`
}

// DeadMoneyItem is an idle lot too small to write a covered call on
type DeadMoneyItem struct {
	Ticker string  `json:"ticker"`
	Shares int     `json:"shares"`
	Value  float64 `json:"value"`
	Reason string  `json:"reason"`
}

// Rounded returns a copy with report precision applied
func (c CapitalEfficiency) Rounded() CapitalEfficiency {
	c.TotalCapital = round.Money(c.TotalCapital)
	c.DeployedCapital = round.Money(c.DeployedCapital)
	c.IdleCapital = round.Money(c.IdleCapital)
	c.Utilization = round.Pct(c.Utilization)
	c.WorkingYield = round.Pct(c.WorkingYield)
	c.TotalYield = round.Pct(c.TotalYield)
	c.CCAnnualPremium = round.Money(c.CCAnnualPremium)
	c.CSPAnnualPremium = round.Money(c.CSPAnnualPremium)
	c.TotalAnnualPremium = round.Money(c.TotalAnnualPremium)
	c.DeadMoney = round.Money(c.DeadMoney)
	c.DeadMoneyPct = round.Pct(c.DeadMoneyPct)

	items := make([]DeadMoneyItem, len(c.DeadMoneyItems))
	for i, it := range c.DeadMoneyItems {
		it.Value = round.Money(it.Value)
		items[i] = it
	}
	c.DeadMoneyItems = items
	return c
}
