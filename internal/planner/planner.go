package planner

import (
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/wonny/aegis-wheel/internal/contracts"
	"github.com/wonny/aegis-wheel/internal/strategyconfig"
)

// Input carries every section the plan is built from.
// Values are expected at report precision so plan text matches the report.
type Input struct {
	ProfitAlerts   []contracts.ProfitAlert
	ExpiringAlerts []contracts.ExpiryAlert
	CSPCandidates  []contracts.CSPCandidate
	CCCandidates   []contracts.CCCandidate
	DeadMoney      []contracts.DeadMoneyItem
}

// Generate builds the prioritized weekly plan.
// Tiers: 0 take-profit then severe loss, 1 expiring soon, 2 top CSP then all CC, 3 dead money.
// ⭐ SSOT: 플랜 우선순위 규칙은 여기서만 (같은 우선순위는 생성 순서 유지)
func Generate(in Input, cfg strategyconfig.Plan) []contracts.PlanItem {
	plan := []contracts.PlanItem{}

	// P0: 익절 트리거
	for _, a := range in.ProfitAlerts {
		if a.Signal != contracts.SignalTakeProfit {
			continue
		}
		plan = append(plan, contracts.PlanItem{
			Priority: contracts.PriorityProfitRisk,
			Category: contracts.CategoryProfit,
			Action: fmt.Sprintf("🎯 %s %s $%s up %.0f%% - close and redeploy",
				a.Ticker, a.Kind, fmtStrike(a.Strike), a.ProfitPct),
			Urgency: contracts.UrgencyHigh,
		})
	}

	// P0: 심각한 손실 경고
	for _, a := range in.ProfitAlerts {
		if a.Signal != contracts.SignalUnderwater || a.ProfitPct >= cfg.SevereLossPct {
			continue
		}
		plan = append(plan, contracts.PlanItem{
			Priority: contracts.PriorityProfitRisk,
			Category: contracts.CategoryRisk,
			Action: fmt.Sprintf("⚠️ %s %s $%s down %.0f%% - evaluate stop-loss",
				a.Ticker, a.Kind, fmtStrike(a.Strike), math.Abs(a.ProfitPct)),
			Urgency: contracts.UrgencyHigh,
		})
	}

	// P1: 만기 임박
	for _, a := range in.ExpiringAlerts {
		if a.DTE > cfg.ExpiryDays {
			continue
		}
		plan = append(plan, contracts.PlanItem{
			Priority: contracts.PriorityExpiry,
			Category: contracts.CategoryExpiry,
			Action: fmt.Sprintf("⏰ %s %s $%s %s - %s",
				a.Ticker, a.Kind, fmtStrike(a.Strike), a.Expiry, a.Action),
			Detail:  a.NextStep,
			Urgency: a.Urgency,
		})
	}

	// P2: CSP 상위 N개
	for i, c := range in.CSPCandidates {
		if i >= cfg.CSPTopN {
			break
		}
		plan = append(plan, contracts.PlanItem{
			Priority: contracts.PriorityOpportunity,
			Category: contracts.CategoryOpportunity,
			Action: fmt.Sprintf("💰 CSP %s $%s %dDTE - annualized %s%%, premium $%.0f",
				c.Ticker, fmtStrike(c.Strike), c.DTE, fmtPct(c.AnnYield), c.Premium),
			Urgency: contracts.UrgencyMedium,
		})
	}

	// P2: 미커버 보유분 CC
	for _, c := range in.CCCandidates {
		plan = append(plan, contracts.PlanItem{
			Priority: contracts.PriorityOpportunity,
			Category: contracts.CategoryOpportunity,
			Action: fmt.Sprintf("📈 CC %s $%s %dDTE - annualized %s%%, premium $%.0f",
				c.Ticker, fmtStrike(c.Strike), c.DTE, fmtPct(c.AnnYield), c.Premium),
			Urgency: contracts.UrgencyMedium,
		})
	}

	// P3: 죽은 돈
	for _, item := range in.DeadMoney {
		plan = append(plan, contracts.PlanItem{
			Priority: contracts.PriorityDeadMoney,
			Category: contracts.CategoryEfficiency,
			Action: fmt.Sprintf("💤 %s %d shares ($%.0f) - %s",
				item.Ticker, item.Shares, item.Value, item.Reason),
			Urgency: contracts.UrgencyLow,
		})
	}

	sort.SliceStable(plan, func(i, j int) bool {
		return plan[i].Priority < plan[j].Priority
	})
	return plan
}

func fmtStrike(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func fmtPct(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}
