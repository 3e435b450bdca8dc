package commands

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/aegis-wheel/internal/contracts"
	"github.com/wonny/aegis-wheel/internal/report"
	"github.com/wonny/aegis-wheel/internal/s0_snapshot"
	"github.com/wonny/aegis-wheel/pkg/redis"
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "저장소/캐시/리포트 상태 확인",
	Long: `스냅샷 저장소 연결, 최신 캡처 날짜, Redis, 마지막 리포트를 확인합니다.

Example:
  go run ./cmd/wheel status`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	rt, err := newRuntime(ctx, cfg, log, runtimeOptions{})
	if err != nil {
		return err
	}
	defer rt.Close()

	w := cmd.OutOrStdout()

	PrintHeader(w, "Wheel Status")
	fmt.Fprintf(w, "  %-18s %s\n", "Env:", cfg.Env)
	fmt.Fprintf(w, "  %-18s %s (%s)\n", "Position source:", cfg.Portfolio.Source, cfg.Portfolio.Location)
	fmt.Fprintf(w, "  %-18s %s\n", "Strategy:", orDash(cfg.StrategyPath))
	fmt.Fprintf(w, "  %-18s %s\n", "Schedule:", cfg.Schedule)

	printStoreStatus(ctx, w, rt)

	fmt.Fprintln(w, ruleLight)
	if rt.cache.Enabled() {
		_, found, err := rt.cache.GetRaw(ctx, redis.KeyDecisionLatest)
		switch {
		case err != nil:
			fmt.Fprintf(w, "  %-18s ❌ %v\n", "Redis:", err)
		case found:
			fmt.Fprintf(w, "  %-18s ✅ latest report cached\n", "Redis:")
		default:
			fmt.Fprintf(w, "  %-18s ✅ connected, nothing published\n", "Redis:")
		}
	} else {
		fmt.Fprintf(w, "  %-18s disabled\n", "Redis:")
	}

	rep, _, err := report.ReadFile(cfg.Report.OutputPath)
	if err != nil {
		fmt.Fprintf(w, "  %-18s none (%s)\n", "Last report:", cfg.Report.OutputPath)
	} else {
		fmt.Fprintf(w, "  %-18s %s (portfolio %s, %d plan items)\n", "Last report:", rep.GeneratedAt, rep.PortfolioDate, len(rep.WeeklyPlan))
	}
	fmt.Fprintln(w, ruleHeavy)
	return nil
}

func printStoreStatus(ctx context.Context, w io.Writer, rt *runtime) {
	fmt.Fprintln(w, ruleLight)

	if rt.db == nil {
		fmt.Fprintf(w, "  %-18s ❌ not connected\n", "Snapshot store:")
		return
	}

	health, err := rt.db.HealthCheck(ctx)
	if err != nil {
		fmt.Fprintf(w, "  %-18s ❌ %v\n", "Snapshot store:", err)
		return
	}
	fmt.Fprintf(w, "  %-18s ✅ %v (%d conns)\n", "Snapshot store:", health.ResponseTime.Round(time.Millisecond), health.TotalConns)

	latest, found, err := rt.reader.LatestDate(ctx, 0)
	switch {
	case err != nil:
		fmt.Fprintf(w, "  %-18s ❌ %v\n", "Latest capture:", err)
	case !found:
		fmt.Fprintf(w, "  %-18s empty\n", "Latest capture:")
	default:
		fmt.Fprintf(w, "  %-18s %s\n", "Latest capture:", latest.Format("2006-01-02"))
		printQuality(ctx, w, rt, latest)
	}

	snap, err := rt.reader.IVSummaries(ctx)
	if err == nil && snap.HasPrevious() {
		fmt.Fprintf(w, "  %-18s %s → %s (%d symbols)\n", "Daily IV:", snap.PrevDate.Format("2006-01-02"), snap.Date.Format("2006-01-02"), len(snap.Latest))
	} else if err == nil && !snap.Date.IsZero() {
		fmt.Fprintf(w, "  %-18s %s (%d symbols)\n", "Daily IV:", snap.Date.Format("2006-01-02"), len(snap.Latest))
	}
}

func printQuality(ctx context.Context, w io.Writer, rt *runtime, date time.Time) {
	cr, ok := rt.reader.(contracts.CoverageReader)
	if !ok {
		return
	}

	q, err := s0_snapshot.NewQualityGate(cr, s0_snapshot.DefaultQualityConfig()).Check(ctx, date)
	if err != nil {
		fmt.Fprintf(w, "  %-18s ❌ %v\n", "Quality:", err)
		return
	}

	mark := "✅"
	if !q.Passed {
		mark = "⚠️"
	}
	fmt.Fprintf(w, "  %-18s %s score %.2f (%d quotes, %d symbols, iv %.0f%%, bid %.0f%%)\n",
		"Quality:", mark, q.QualityScore, q.Quotes, q.Symbols, q.Coverage["iv"]*100, q.Coverage["bid"]*100)
	for _, f := range q.Failures {
		fmt.Fprintf(w, "  %-18s %s\n", "", f)
	}
}
