package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/aegis-wheel/internal/brain"
	"github.com/wonny/aegis-wheel/internal/report"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "결정 리포트 1회 생성",
	Long: `포지션과 최신 옵션 체인 스냅샷으로 결정 리포트를 생성합니다.

흐름:
  portfolio load → (CSP ∥ CC ∥ IV ∥ profit) → expiry → capital → plan → report

포지션 소스가 없으면 실패하고 리포트를 쓰지 않습니다.
스냅샷 저장소가 없으면 해당 섹션만 비운 채로 리포트를 씁니다.

Example:
  go run ./cmd/wheel run
  go run ./cmd/wheel run --source jsliteral --portfolio build.js
  go run ./cmd/wheel run --chain-file chain.json --now 2026-02-13T09:30:00Z --stdout`,
	RunE: runDecision,
}

var (
	runSource    string
	runPortfolio string
	runOut       string
	runNow       string
	runChainFile string
	runStdout    bool
	runStrategy  string
)

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&runSource, "source", "", "position source: file, jsliteral, http")
	runCmd.Flags().StringVar(&runPortfolio, "portfolio", "", "position source path or URL")
	runCmd.Flags().StringVar(&runOut, "out", "", "report output path")
	runCmd.Flags().StringVar(&runNow, "now", "", "run timestamp (RFC3339)")
	runCmd.Flags().StringVar(&runChainFile, "chain-file", "", "offline chain snapshot (JSON) instead of Postgres")
	runCmd.Flags().BoolVar(&runStdout, "stdout", false, "also write the report to stdout")
	runCmd.Flags().StringVar(&runStrategy, "strategy", "", "engine thresholds YAML")
}

func runDecision(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}

	if runSource != "" {
		cfg.Portfolio.Source = runSource
	}
	if runPortfolio != "" {
		cfg.Portfolio.Location = runPortfolio
	}
	if runOut != "" {
		cfg.Report.OutputPath = runOut
	}
	if runStrategy != "" {
		cfg.StrategyPath = runStrategy
	}

	runCfg := brain.RunConfig{}
	if runNow != "" {
		t, err := time.Parse(time.RFC3339, runNow)
		if err != nil {
			return fmt.Errorf("invalid --now (expected RFC3339): %w", err)
		}
		runCfg.Now = t
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rt, err := newRuntime(ctx, cfg, log, runtimeOptions{chainFile: runChainFile})
	if err != nil {
		return err
	}
	defer rt.Close()

	orch, err := rt.orchestrator(cfg.Report.OutputPath)
	if err != nil {
		return err
	}
	if runStdout {
		orch.WithPublishers(report.NewStreamWriter(cmd.OutOrStdout()))
	}

	result, err := orch.Execute(ctx, runCfg)
	rt.pushMetrics()
	if err != nil {
		log.WithError(err).Error("Decision run failed, no report written")
		PrintFailure(cmd.ErrOrStderr(), err)
		return err
	}

	PrintRunSummary(cmd.ErrOrStderr(), result, cfg.Report.OutputPath)
	return nil
}
