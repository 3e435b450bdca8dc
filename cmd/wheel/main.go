package main

import (
	"os"

	"github.com/wonny/aegis-wheel/cmd/wheel/commands"
)

// main is the entry point for the wheel CLI
// ⭐ 통합 CLI 진입점: go run ./cmd/wheel [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
