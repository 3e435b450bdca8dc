package commands

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wonny/aegis-wheel/internal/api"
	"github.com/wonny/aegis-wheel/internal/api/handlers"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "리포트 조회 API 서버 시작",
	Long: `최신 결정 리포트를 제공하는 읽기 전용 API 서버를 시작합니다.
Redis에 게시된 리포트를 우선 사용하고, 없으면 리포트 파일을 읽습니다.

Endpoints:
  GET /health                      - Health check
  GET /api/decision/latest         - 최신 리포트
  GET /api/decision/latest/summary - 섹션 요약
  GET /api/decision/latest/plan    - 주간 플랜
  GET /api/decision/{date}         - 날짜별 리포트 (YYYY-MM-DD)
  GET /metrics                     - Prometheus (METRICS_ENABLED=true)

Example:
  go run ./cmd/wheel api
  go run ./cmd/wheel api --port 8080`,
	RunE: runAPIServer,
}

var (
	apiPort string
)

func init() {
	rootCmd.AddCommand(apiCmd)

	apiCmd.Flags().StringVar(&apiPort, "port", "", "API 서버 포트 (기본 PORT)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}
	if apiPort != "" {
		cfg.Port = apiPort
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// API는 스냅샷 저장소 불필요
	rt, err := newRuntime(ctx, cfg, log, runtimeOptions{noStore: true})
	if err != nil {
		return err
	}
	defer rt.Close()

	var metricsHandler http.Handler
	if cfg.Metrics.Enabled {
		metricsHandler = rt.metrics.Handler()
	}

	router := api.NewRouter(api.Routes{
		Decision: handlers.NewDecisionHandler(rt.cache, cfg.Report.OutputPath, log),
		Metrics:  metricsHandler,
	}, log)

	fmt.Fprintf(cmd.ErrOrStderr(), "=== Wheel API Server (:%s) ===\n", cfg.Port)
	return api.New(cfg, log, router).Run(ctx)
}
