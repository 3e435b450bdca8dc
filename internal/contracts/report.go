package contracts

import "time"

// DecisionReport is the single document produced per run
// ⭐ SSOT: 런당 1개의 결정 리포트 (generatedAt 제외 결정적)
type DecisionReport struct {
	RunID         string `json:"runId"`
	GeneratedAt   string `json:"generatedAt"`
	PortfolioDate string `json:"portfolioDate"`
	SnapshotDate  string `json:"snapshotDate,omitempty"`
	StrategyHash  string `json:"strategyHash"`

	ExpiringAlerts    []ExpiryAlert     `json:"expiringAlerts"`
	ProfitAlerts      []ProfitAlert     `json:"profitAlerts"`
	CSPCandidates     []CSPCandidate    `json:"cspCandidates"`
	CCCandidates      []CCCandidate     `json:"ccCandidates"`
	IVRankings        []IVRanking       `json:"ivRankings"`
	CapitalEfficiency CapitalEfficiency `json:"capitalEfficiency"`
	WeeklyPlan        []PlanItem        `json:"weeklyPlan"`
}

// GeneratedAtLayout formats the generation timestamp
const GeneratedAtLayout = "2006-01-02 15:04"

// Summary counts the sections of a report
type Summary struct {
	ExpiringAlerts int     `json:"expiringAlerts"`
	ProfitAlerts   int     `json:"profitAlerts"`
	TakeProfit     int     `json:"takeProfit"`
	CSPCandidates  int     `json:"cspCandidates"`
	CCCandidates   int     `json:"ccCandidates"`
	IVRankings     int     `json:"ivRankings"`
	Utilization    float64 `json:"utilization"`
	PlanItems      int     `json:"planItems"`
}

// Summarize returns section counts for logging
func (r *DecisionReport) Summarize() Summary {
	s := Summary{
		ExpiringAlerts: len(r.ExpiringAlerts),
		ProfitAlerts:   len(r.ProfitAlerts),
		CSPCandidates:  len(r.CSPCandidates),
		CCCandidates:   len(r.CCCandidates),
		IVRankings:     len(r.IVRankings),
		Utilization:    r.CapitalEfficiency.Utilization,
		PlanItems:      len(r.WeeklyPlan),
	}
	for _, a := range r.ProfitAlerts {
		if a.Signal == SignalTakeProfit {
			s.TakeProfit++
		}
	}
	return s
}

// FormatGeneratedAt renders t in the report timestamp layout
func FormatGeneratedAt(t time.Time) string {
	return t.Format(GeneratedAtLayout)
}
