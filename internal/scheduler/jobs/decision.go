package jobs

import (
	"context"
	"fmt"

	"github.com/wonny/aegis-wheel/internal/brain"
	"github.com/wonny/aegis-wheel/pkg/logger"
	"github.com/wonny/aegis-wheel/pkg/metrics"
)

// DefaultDecisionSchedule runs on weekdays at 16:30 (seconds field first)
const DefaultDecisionSchedule = "0 30 16 * * 1-5"

// Runner executes one decision run
type Runner interface {
	Execute(ctx context.Context, cfg brain.RunConfig) (*brain.RunResult, error)
}

// DecisionJob produces the decision report on a schedule
// ⭐ SSOT: 결정 리포트 스케줄은 이 Job에서만
type DecisionJob struct {
	runner   Runner
	schedule string
	metrics  *metrics.Recorder
	pushURL  string
	pushJob  string
	logger   *logger.Logger
}

// NewDecisionJob creates a new decision job. Empty schedule → DefaultDecisionSchedule
func NewDecisionJob(runner Runner, schedule string, log *logger.Logger) *DecisionJob {
	if schedule == "" {
		schedule = DefaultDecisionSchedule
	}
	return &DecisionJob{
		runner:   runner,
		schedule: schedule,
		logger:   log,
	}
}

// WithPush pushes run metrics to a Pushgateway after every run
func (j *DecisionJob) WithPush(recorder *metrics.Recorder, url, job string) *DecisionJob {
	j.metrics = recorder
	j.pushURL = url
	j.pushJob = job
	return j
}

// Name returns the job name
func (j *DecisionJob) Name() string {
	return "decision_report"
}

// Schedule returns the cron schedule
func (j *DecisionJob) Schedule() string {
	return j.schedule
}

// Run executes one decision run
func (j *DecisionJob) Run(ctx context.Context) error {
	j.logger.Info("Starting scheduled decision run")

	result, err := j.runner.Execute(ctx, brain.RunConfig{})
	j.push()
	if err != nil {
		return fmt.Errorf("decision run: %w", err)
	}

	j.logger.WithFields(map[string]interface{}{
		"run_id":   result.RunID,
		"degraded": result.Degraded,
	}).Info("Scheduled decision run completed")
	return nil
}

func (j *DecisionJob) push() {
	if j.pushURL == "" {
		return
	}
	if err := j.metrics.Push(j.pushURL, j.pushJob); err != nil {
		j.logger.WithError(err).Warn("Metrics push failed")
	}
}
