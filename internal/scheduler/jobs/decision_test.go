package jobs

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/aegis-wheel/internal/brain"
	"github.com/wonny/aegis-wheel/internal/contracts"
	"github.com/wonny/aegis-wheel/pkg/logger"
)

type fakeRunner struct {
	err   error
	calls int
}

func (r *fakeRunner) Execute(ctx context.Context, cfg brain.RunConfig) (*brain.RunResult, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	return &brain.RunResult{RunID: "run-1"}, nil
}

func TestDecisionJob(t *testing.T) {
	runner := &fakeRunner{}
	job := NewDecisionJob(runner, "", logger.Nop())

	assert.Equal(t, "decision_report", job.Name())
	assert.Equal(t, DefaultDecisionSchedule, job.Schedule())
	require.NoError(t, job.Run(context.Background()))
	assert.Equal(t, 1, runner.calls)
}

func TestDecisionJob_Error(t *testing.T) {
	runner := &fakeRunner{err: contracts.ErrNoPortfolio}
	job := NewDecisionJob(runner, "@hourly", logger.Nop()).WithPush(nil, "", "wheel_decision")

	assert.Equal(t, "@hourly", job.Schedule())
	err := job.Run(context.Background())
	assert.True(t, errors.Is(err, contracts.ErrNoPortfolio))
}
