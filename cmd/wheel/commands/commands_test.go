package commands

import (
	"bytes"
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/aegis-wheel/internal/brain"
	"github.com/wonny/aegis-wheel/internal/contracts"
	"github.com/wonny/aegis-wheel/internal/s0_snapshot"
)

func TestStrategyCheck(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs([]string{"strategy", "check", "--file", "../../../config/strategy/wheel.yaml"})

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), "Hash:")
	assert.Contains(t, out.String(), "✅ valid")
}

func TestPrintFailure(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{fmt.Errorf("%w: file source", contracts.ErrNoPortfolio), "No position data"},
		{contracts.ValidationErrors{{Field: "cash", Message: "is required"}}, "failed validation"},
		{fmt.Errorf("boom"), "Decision run failed"},
	}

	for _, tt := range tests {
		var buf bytes.Buffer
		PrintFailure(&buf, tt.err)
		assert.Contains(t, buf.String(), tt.want)
		assert.Contains(t, buf.String(), tt.err.Error())
	}
}

func TestPrintRunSummary(t *testing.T) {
	result := &brain.RunResult{
		RunID: "run-1",
		Report: &contracts.DecisionReport{
			GeneratedAt:   "2026-02-13 09:30",
			PortfolioDate: "2026-02-13",
			WeeklyPlan: []contracts.PlanItem{
				{Priority: 1, Action: "⏰ BABA CSP $80 expires in 3 days", Detail: "Let it expire"},
			},
		},
		Degraded: []string{"csp"},
		Duration: 1500 * time.Millisecond,
	}

	var buf bytes.Buffer
	PrintRunSummary(&buf, result, "decision_data.json")

	s := buf.String()
	assert.Contains(t, s, "run-1")
	assert.Contains(t, s, "[P1] ⏰ BABA CSP $80")
	assert.Contains(t, s, "Let it expire")
	assert.Contains(t, s, "Missing data: [csp]")
	assert.Contains(t, s, "Snapshot      : -")
}

func TestPrintQuality(t *testing.T) {
	date := time.Date(2026, 2, 13, 0, 0, 0, 0, time.UTC)
	iv := 0.35
	store := s0_snapshot.NewMemoryStore([]contracts.ChainQuote{
		{CaptureDate: date, Symbol: "US.PDD", IV: &iv, Bid: 1.1, OpenInterest: 20},
	}, nil)

	var out bytes.Buffer
	printQuality(context.Background(), &out, &runtime{reader: store}, date)

	assert.Contains(t, out.String(), "Quality:")
	assert.Contains(t, out.String(), "1 quotes, 1 symbols")
	assert.Contains(t, out.String(), "iv 100%")
}
