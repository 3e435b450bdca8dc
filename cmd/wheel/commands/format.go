package commands

import (
	"errors"
	"fmt"
	"io"

	"github.com/wonny/aegis-wheel/internal/brain"
	"github.com/wonny/aegis-wheel/internal/contracts"
)

// ═══════════════════════════════════════════════════════════
// Common Formatting Utilities
// 사람용 출력은 stderr (stdout은 --stdout 리포트 전용)
// ═══════════════════════════════════════════════════════════

const (
	ruleHeavy = "═══════════════════════════════════════════════════════════"
	ruleLight = "───────────────────────────────────────────────────────────"
)

// PrintHeader prints a formatted section header
func PrintHeader(w io.Writer, title string) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, ruleHeavy)
	fmt.Fprintf(w, "  %s\n", title)
	fmt.Fprintln(w, ruleLight)
}

// PrintRunSummary prints the outcome of a decision run
func PrintRunSummary(w io.Writer, result *brain.RunResult, outPath string) {
	rep := result.Report
	s := rep.Summarize()

	PrintHeader(w, "Decision Report")
	fmt.Fprintf(w, "  Run ID        : %s\n", result.RunID)
	fmt.Fprintf(w, "  Generated     : %s\n", rep.GeneratedAt)
	fmt.Fprintf(w, "  Portfolio     : %s\n", rep.PortfolioDate)
	fmt.Fprintf(w, "  Snapshot      : %s\n", orDash(rep.SnapshotDate))
	fmt.Fprintf(w, "  Output        : %s\n", outPath)
	fmt.Fprintln(w, ruleLight)
	fmt.Fprintf(w, "  %-16s %6d\n", "Expiring:", s.ExpiringAlerts)
	fmt.Fprintf(w, "  %-16s %6d (take profit %d)\n", "Profit alerts:", s.ProfitAlerts, s.TakeProfit)
	fmt.Fprintf(w, "  %-16s %6d\n", "CSP candidates:", s.CSPCandidates)
	fmt.Fprintf(w, "  %-16s %6d\n", "CC candidates:", s.CCCandidates)
	fmt.Fprintf(w, "  %-16s %6d\n", "IV rankings:", s.IVRankings)
	fmt.Fprintf(w, "  %-16s %6.1f%%\n", "Utilization:", s.Utilization)
	fmt.Fprintln(w, ruleLight)

	if len(rep.WeeklyPlan) == 0 {
		fmt.Fprintln(w, "  No actions this week")
	}
	for _, item := range rep.WeeklyPlan {
		fmt.Fprintf(w, "  [P%d] %s\n", item.Priority, item.Action)
		if item.Detail != "" {
			fmt.Fprintf(w, "       %s\n", item.Detail)
		}
	}

	if len(result.Degraded) > 0 {
		fmt.Fprintln(w, ruleLight)
		fmt.Fprintf(w, "  ⚠️  Missing data: %v\n", result.Degraded)
	}
	fmt.Fprintln(w, ruleHeavy)
	fmt.Fprintf(w, "✅ Completed in %.2fs\n", result.Duration.Seconds())
}

// PrintFailure names the missing prerequisite of a failed run
func PrintFailure(w io.Writer, err error) {
	fmt.Fprintln(w)
	switch {
	case errors.Is(err, contracts.ErrNoPortfolio):
		fmt.Fprintln(w, "❌ No position data: configure PORTFOLIO_SOURCE / PORTFOLIO_LOCATION (or --portfolio)")
	case errors.Is(err, contracts.ErrInvalidPortfolio):
		fmt.Fprintln(w, "❌ Position data failed validation")
	default:
		fmt.Fprintln(w, "❌ Decision run failed")
	}
	fmt.Fprintf(w, "   %v\n", err)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
