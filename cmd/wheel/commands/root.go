package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "wheel",
	Short: "Wheel decision engine - options selling decision report",
	Long: `Wheel Decision Engine CLI

옵션 체인 스냅샷과 보유 포지션으로 주간 결정 리포트를 생성합니다.
CSP/CC 후보, 만기/익절 알림, 자본 효율, 우선순위 플랜.

Usage:
  go run ./cmd/wheel [command]

Examples:
  go run ./cmd/wheel run
  go run ./cmd/wheel run --chain-file testdata/chain.json --stdout
  go run ./cmd/wheel scheduler start
  go run ./cmd/wheel api
  go run ./cmd/wheel status
  go run ./cmd/wheel strategy check`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}
