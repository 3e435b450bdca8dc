package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wonny/aegis-wheel/internal/api"
	"github.com/wonny/aegis-wheel/internal/api/handlers"
	"github.com/wonny/aegis-wheel/internal/scheduler"
	"github.com/wonny/aegis-wheel/internal/scheduler/jobs"
)

// schedulerCmd represents the scheduler command
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "스케줄러 관리",
	Long: `결정 리포트를 cron 스케줄로 생성합니다.

Subcommands:
  start   - 스케줄러 시작 (--api 로 조회 API 동시 실행)
  list    - 등록된 작업 목록
  run     - 특정 작업 즉시 실행

Example:
  go run ./cmd/wheel scheduler start
  go run ./cmd/wheel scheduler start --api
  go run ./cmd/wheel scheduler run decision_report`,
}

var (
	schedulerStartCmd = &cobra.Command{
		Use:   "start",
		Short: "스케줄러 시작",
		Long: `스케줄러를 시작하고 등록된 모든 작업을 스케줄합니다.

등록되는 작업:
- decision_report: SCHEDULE (기본 평일 16:30)

스케줄러는 Ctrl+C로 종료할 수 있습니다.`,
		RunE: runScheduler,
	}

	schedulerListCmd = &cobra.Command{
		Use:   "list",
		Short: "등록된 작업 목록",
		RunE:  listJobs,
	}

	schedulerRunCmd = &cobra.Command{
		Use:   "run [job_name]",
		Short: "특정 작업 즉시 실행",
		Args:  cobra.ExactArgs(1),
		RunE:  runJob,
	}

	schedulerWithAPI bool
)

func init() {
	rootCmd.AddCommand(schedulerCmd)
	schedulerCmd.AddCommand(schedulerStartCmd)
	schedulerCmd.AddCommand(schedulerListCmd)
	schedulerCmd.AddCommand(schedulerRunCmd)

	schedulerStartCmd.Flags().BoolVar(&schedulerWithAPI, "api", false, "serve the report API in the same process")
}

// initScheduler wires the decision job
func initScheduler(ctx context.Context) (*scheduler.Scheduler, *runtime, error) {
	cfg, log, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}

	rt, err := newRuntime(ctx, cfg, log, runtimeOptions{})
	if err != nil {
		return nil, nil, err
	}

	orch, err := rt.orchestrator(cfg.Report.OutputPath)
	if err != nil {
		rt.Close()
		return nil, nil, err
	}

	job := jobs.NewDecisionJob(orch, cfg.Schedule, log)
	if cfg.Metrics.Enabled {
		job.WithPush(rt.metrics, cfg.Metrics.PushgatewayURL, cfg.Metrics.Job)
	}

	sched := scheduler.New(log)
	if err := sched.AddJob(job); err != nil {
		rt.Close()
		return nil, nil, err
	}
	return sched, rt, nil
}

func runScheduler(cmd *cobra.Command, args []string) error {
	out := cmd.ErrOrStderr()
	fmt.Fprintln(out, "=== Wheel Scheduler ===")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sched, rt, err := initScheduler(ctx)
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}
	defer rt.Close()

	sched.Start()

	fmt.Fprintln(out, "\n✅ Scheduler started successfully")
	fmt.Fprintln(out, "\nRegistered jobs:")
	for _, jobName := range sched.GetAllJobs() {
		next, _ := sched.NextRun(jobName)
		fmt.Fprintf(out, "  - %s (next: %s)\n", jobName, next.Format("2006-01-02 15:04:05"))
	}

	errCh := make(chan error, 1)
	if schedulerWithAPI {
		router := api.NewRouter(api.Routes{
			Decision: handlers.NewDecisionHandler(rt.cache, rt.cfg.Report.OutputPath, rt.log),
			Jobs:     handlers.NewJobsHandler(sched),
			Metrics:  rt.metrics.Handler(),
		}, rt.log)
		server := api.New(rt.cfg, rt.log, router)
		go func() { errCh <- server.Run(ctx) }()
		fmt.Fprintf(out, "\nAPI listening on :%s\n", rt.cfg.Port)
	}

	fmt.Fprintln(out, "\nPress Ctrl+C to stop")

	select {
	case <-ctx.Done():
	case err = <-errCh:
	}

	fmt.Fprintln(out, "\nShutting down scheduler...")
	sched.Stop()
	fmt.Fprintln(out, "Scheduler stopped")

	return err
}

func listJobs(cmd *cobra.Command, args []string) error {
	sched, rt, err := initScheduler(context.Background())
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}
	defer rt.Close()

	fmt.Fprintln(cmd.OutOrStdout(), "Registered jobs:")
	for name, stats := range sched.GetJobStats() {
		fmt.Fprintf(cmd.OutOrStdout(), "  - %-18s %s\n", name, stats.Schedule)
	}
	return nil
}

func runJob(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sched, rt, err := initScheduler(ctx)
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}
	defer rt.Close()

	result, err := sched.RunNow(ctx, args[0])
	if err != nil {
		return err
	}

	out := cmd.ErrOrStderr()
	if !result.Success {
		fmt.Fprintf(out, "❌ %s failed after %d attempt(s): %s\n", result.JobName, result.Attempts, result.Error)
		return fmt.Errorf("job %s failed", result.JobName)
	}
	fmt.Fprintf(out, "✅ %s completed in %.2fs\n", result.JobName, result.Duration.Seconds())
	return nil
}
