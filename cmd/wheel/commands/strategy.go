package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/aegis-wheel/internal/strategyconfig"
)

// strategyCmd represents the strategy command
var strategyCmd = &cobra.Command{
	Use:   "strategy",
	Short: "엔진 임계값 설정 관리",
}

var (
	strategyCheckCmd = &cobra.Command{
		Use:   "check",
		Short: "전략 YAML 검증 및 해시 출력",
		Long: `전략 YAML을 기본값 위에 로드하고 검증합니다.
알 수 없는 필드는 즉시 실패합니다 (KnownFields).

Example:
  go run ./cmd/wheel strategy check
  go run ./cmd/wheel strategy check --file config/strategy/wheel.yaml`,
		RunE: runStrategyCheck,
	}

	strategyFile string
)

func init() {
	rootCmd.AddCommand(strategyCmd)
	strategyCmd.AddCommand(strategyCheckCmd)

	strategyCheckCmd.Flags().StringVar(&strategyFile, "file", "config/strategy/wheel.yaml", "strategy YAML")
}

func runStrategyCheck(cmd *cobra.Command, args []string) error {
	w := cmd.OutOrStdout()

	cfg, _, err := strategyconfig.Load(strategyFile)
	if err != nil {
		fmt.Fprintf(w, "❌ %s: %v\n", strategyFile, err)
		return err
	}

	hash, err := strategyconfig.Hash(cfg)
	if err != nil {
		return err
	}

	PrintHeader(w, "Strategy "+cfg.Meta.StrategyID+" v"+cfg.Meta.Version)
	fmt.Fprintf(w, "  %-12s %s\n", "File:", strategyFile)
	fmt.Fprintf(w, "  %-12s %s\n", "Hash:", hash)

	warnings := strategyconfig.Warn(cfg)
	if len(warnings) > 0 {
		fmt.Fprintln(w, ruleLight)
	}
	for _, warn := range warnings {
		fmt.Fprintf(w, "  ⚠️  [%s] %s\n", warn.Code, warn.Message)
	}
	fmt.Fprintln(w, ruleHeavy)
	fmt.Fprintln(w, "✅ valid")
	return nil
}
