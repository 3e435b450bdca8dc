package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/aegis-wheel/internal/contracts"
	"github.com/wonny/aegis-wheel/pkg/logger"
)

// fakeJob fails the first `failures` calls
type fakeJob struct {
	name     string
	schedule string
	failures int32
	err      error
	calls    atomic.Int32
}

func (j *fakeJob) Name() string     { return j.name }
func (j *fakeJob) Schedule() string { return j.schedule }
func (j *fakeJob) Run(ctx context.Context) error {
	n := j.calls.Add(1)
	if n <= j.failures {
		return j.err
	}
	return nil
}

func newScheduler() *Scheduler {
	return New(logger.Nop()).WithRetry(2, time.Millisecond)
}

func TestAddJob(t *testing.T) {
	s := newScheduler()

	require.NoError(t, s.AddJob(&fakeJob{name: "b", schedule: "0 0 9 * * 1-5"}))
	require.NoError(t, s.AddJob(&fakeJob{name: "a", schedule: "@daily"}))
	assert.Equal(t, []string{"a", "b"}, s.GetAllJobs())

	err := s.AddJob(&fakeJob{name: "a", schedule: "@daily"})
	assert.Error(t, err)

	err = s.AddJob(&fakeJob{name: "bad", schedule: "not a cron"})
	assert.Error(t, err)

	next, ok := s.NextRun("a")
	assert.True(t, ok)
	assert.True(t, next.IsZero()) // 아직 Start 전

	require.NoError(t, s.RemoveJob("a"))
	assert.Equal(t, []string{"b"}, s.GetAllJobs())
	assert.Error(t, s.RemoveJob("a"))
}

func TestRunNow_RetriesUntilSuccess(t *testing.T) {
	s := newScheduler()
	job := &fakeJob{name: "decision", schedule: "@daily", failures: 2, err: fmt.Errorf("store down")}
	require.NoError(t, s.AddJob(job))

	result, err := s.RunNow(context.Background(), "decision")
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, 3, result.Attempts)
	assert.Empty(t, result.Error)
}

func TestRunNow_GivesUp(t *testing.T) {
	s := newScheduler()
	job := &fakeJob{name: "decision", schedule: "@daily", failures: 10, err: fmt.Errorf("store down")}
	require.NoError(t, s.AddJob(job))

	result, err := s.RunNow(context.Background(), "decision")
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, 3, result.Attempts) // 1 + 2 retries
	assert.Equal(t, "store down", result.Error)

	stats := s.GetJobStats()["decision"]
	assert.Equal(t, 1, stats.TotalRuns)
	assert.Equal(t, 1, stats.FailureCount)
	assert.NotNil(t, stats.LastFailure)
	assert.Nil(t, stats.LastSuccess)
}

func TestRunNow_InvalidPortfolioNotRetried(t *testing.T) {
	s := newScheduler()
	err := fmt.Errorf("load: %w", contracts.ValidationErrors{{Field: "cash", Message: "is required"}})
	job := &fakeJob{name: "decision", schedule: "@daily", failures: 10, err: err}
	require.NoError(t, s.AddJob(job))

	result, rerr := s.RunNow(context.Background(), "decision")
	require.NoError(t, rerr)
	assert.False(t, result.Success)
	assert.Equal(t, 1, result.Attempts)
	assert.True(t, errors.Is(err, contracts.ErrInvalidPortfolio))
}

func TestRunNow_UnknownJob(t *testing.T) {
	_, err := newScheduler().RunNow(context.Background(), "missing")
	assert.Error(t, err)
	assert.Error(t, newScheduler().RunJob("missing"))
}

func TestJobHistory(t *testing.T) {
	h := &JobHistory{}
	assert.Equal(t, 0.0, h.GetSuccessRate())
	assert.Empty(t, h.GetLatestResults(5))

	for i := 0; i < maxHistory+10; i++ {
		h.AddResult(JobResult{Success: i%2 == 0})
	}
	assert.Len(t, h.Results, maxHistory)
	assert.Len(t, h.GetLatestResults(3), 3)
	assert.Len(t, h.GetFailedResults(), maxHistory/2)
	assert.InDelta(t, 0.5, h.GetSuccessRate(), 1e-9)
}
