package brain

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/wonny/aegis-wheel/internal/capital"
	"github.com/wonny/aegis-wheel/internal/contracts"
	"github.com/wonny/aegis-wheel/internal/monitor"
	"github.com/wonny/aegis-wheel/internal/planner"
	"github.com/wonny/aegis-wheel/internal/report"
	"github.com/wonny/aegis-wheel/internal/selection"
	"github.com/wonny/aegis-wheel/internal/strategyconfig"
	"github.com/wonny/aegis-wheel/pkg/logger"
	"github.com/wonny/aegis-wheel/pkg/metrics"
)

// runNamespace scopes name-based run IDs
var runNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("wheel/decision-run"))

// Stage names (logs, metrics, degraded list)
const (
	StageCSP    = "csp"
	StageCC     = "cc"
	StageIV     = "iv"
	StageProfit = "profit"
)

// Orchestrator assembles one decision report per run
// ⭐ SSOT: 결정 파이프라인 조율은 여기서만
type Orchestrator struct {
	source   contracts.PortfolioSource
	reader   contracts.SnapshotReader // nil = 스냅샷 저장소 없음 (degraded run)
	strategy *strategyconfig.Config
	hash     string

	cspScanner    *selection.CSPScanner
	ccScanner     *selection.CCScanner
	profitTracker *monitor.ProfitTracker

	writer     contracts.ReportSink
	publishers []contracts.ReportSink

	metrics *metrics.Recorder
	logger  *logger.Logger
}

// flusher is implemented by readers that memoize lookups (s0_snapshot.CachedReader)
type flusher interface {
	Flush()
}

// RunConfig holds configuration for a run
type RunConfig struct {
	Now time.Time // zero = time.Now()
}

// RunResult holds the outcome of a run
type RunResult struct {
	RunID    string
	Report   *contracts.DecisionReport
	Data     []byte   // encoded report, set by Execute
	Degraded []string // stages whose section is empty because data was missing
	Duration time.Duration
}

// NewOrchestrator creates a new orchestrator. reader may be nil.
func NewOrchestrator(
	source contracts.PortfolioSource,
	reader contracts.SnapshotReader,
	strategy *strategyconfig.Config,
	recorder *metrics.Recorder,
	log *logger.Logger,
) (*Orchestrator, error) {
	if source == nil {
		return nil, fmt.Errorf("%w: no position source configured", contracts.ErrNoPortfolio)
	}
	if strategy == nil {
		strategy = strategyconfig.Default()
	}
	hash, err := strategyconfig.Hash(strategy)
	if err != nil {
		return nil, fmt.Errorf("hash strategy: %w", err)
	}

	o := &Orchestrator{
		source:   source,
		reader:   reader,
		strategy: strategy,
		hash:     hash,
		metrics:  recorder,
		logger:   log,
	}
	if reader != nil {
		o.cspScanner = selection.NewCSPScanner(reader, strategy.CSP, log)
		o.ccScanner = selection.NewCCScanner(reader, strategy.CC, log)
		o.profitTracker = monitor.NewProfitTracker(reader, strategy.Profit, log)
	}
	return o, nil
}

// WithWriter sets the sink whose failure fails the run (the report file)
func (o *Orchestrator) WithWriter(w contracts.ReportSink) *Orchestrator {
	o.writer = w
	return o
}

// WithPublishers adds best-effort sinks (cache, etc.)
func (o *Orchestrator) WithPublishers(p ...contracts.ReportSink) *Orchestrator {
	o.publishers = append(o.publishers, p...)
	return o
}

// Execute runs the engine and hands the encoded report to every sink.
// Nothing is written when Run fails.
func (o *Orchestrator) Execute(ctx context.Context, cfg RunConfig) (*RunResult, error) {
	result, err := o.Run(ctx, cfg)
	if err != nil {
		return nil, err
	}

	data, err := report.Marshal(result.Report)
	if err != nil {
		o.metrics.RecordRun(metrics.StatusFailed, result.Duration)
		return nil, fmt.Errorf("encode report: %w", err)
	}
	result.Data = data

	if o.writer != nil {
		if err := o.writer.Write(ctx, result.Report, data); err != nil {
			o.metrics.RecordRun(metrics.StatusFailed, result.Duration)
			return nil, fmt.Errorf("write report: %w", err)
		}
	}

	for _, p := range o.publishers {
		if err := p.Write(ctx, result.Report, data); err != nil {
			o.logger.WithError(err).WithField("run_id", result.RunID).Warn("Report publish failed")
		}
	}

	status := metrics.StatusSuccess
	if len(result.Degraded) > 0 {
		status = metrics.StatusDegraded
	}
	o.metrics.RecordRun(status, result.Duration)

	return result, nil
}

// Run builds the report in memory.
// Portfolio load → (CSP ∥ CC ∥ IV ∥ profit) → expiry → capital → plan
func (o *Orchestrator) Run(ctx context.Context, cfg RunConfig) (*RunResult, error) {
	startTime := time.Now()
	now := cfg.Now
	if now.IsZero() {
		now = time.Now()
	}

	pf, err := o.loadPortfolio(ctx)
	if err != nil {
		o.metrics.RecordRun(metrics.StatusFailed, time.Since(startTime))
		return nil, err
	}

	asOf := pf.AsOf(now)
	positions := pf.ActivePositions()

	o.logger.WithFields(map[string]interface{}{
		"source":        o.source.Name(),
		"as_of":         asOf.Format(contracts.DateLayout),
		"cc_positions":  len(pf.CCPositions),
		"csp_positions": len(pf.CSPPositions),
		"idle":          len(pf.IdlePositions),
		"strategy_hash": o.hash,
	}).Info("Starting decision run")

	sections, err := o.deriveFromSnapshot(ctx, pf, positions, asOf)
	if err != nil {
		o.metrics.RecordRun(metrics.StatusFailed, time.Since(startTime))
		return nil, err
	}

	expiring := monitor.EvaluateExpiry(positions, asOf, o.strategy.Expiry)
	eff := capital.Calculate(pf, o.strategy.Capital).Rounded()

	rep := &contracts.DecisionReport{
		PortfolioDate:     asOf.Format(contracts.DateLayout),
		SnapshotDate:      sections.snapshotDate,
		StrategyHash:      o.hash,
		ExpiringAlerts:    expiring,
		ProfitAlerts:      roundProfit(sections.profit),
		CSPCandidates:     roundCSP(sections.csp),
		CCCandidates:      roundCC(sections.cc),
		IVRankings:        roundIV(sections.iv),
		CapitalEfficiency: eff,
	}
	rep.WeeklyPlan = planner.Generate(planner.Input{
		ProfitAlerts:   rep.ProfitAlerts,
		ExpiringAlerts: rep.ExpiringAlerts,
		CSPCandidates:  rep.CSPCandidates,
		CCCandidates:   rep.CCCandidates,
		DeadMoney:      rep.CapitalEfficiency.DeadMoneyItems,
	}, o.strategy.Plan)

	runID, err := GenerateRunID(rep)
	if err != nil {
		return nil, err
	}
	rep.RunID = runID
	rep.GeneratedAt = contracts.FormatGeneratedAt(now)

	result := &RunResult{
		RunID:    runID,
		Report:   rep,
		Degraded: sections.degraded,
		Duration: time.Since(startTime),
	}
	o.recordSections(rep)

	summary := rep.Summarize()
	o.logger.WithFields(map[string]interface{}{
		"run_id":          runID,
		"expiring_alerts": summary.ExpiringAlerts,
		"profit_alerts":   summary.ProfitAlerts,
		"take_profit":     summary.TakeProfit,
		"csp_candidates":  summary.CSPCandidates,
		"cc_candidates":   summary.CCCandidates,
		"utilization":     summary.Utilization,
		"plan_items":      summary.PlanItems,
		"degraded":        sections.degraded,
		"duration":        result.Duration.String(),
	}).Info("Decision run completed")

	return result, nil
}

func (o *Orchestrator) loadPortfolio(ctx context.Context) (*contracts.Portfolio, error) {
	pf, err := o.source.Load(ctx)
	if err != nil {
		if errors.Is(err, contracts.ErrNoPortfolio) {
			return nil, err
		}
		if errors.Is(err, contracts.ErrSourceUnavailable) {
			return nil, fmt.Errorf("%w: %s source: %w", contracts.ErrNoPortfolio, o.source.Name(), err)
		}
		return nil, fmt.Errorf("load portfolio from %s: %w", o.source.Name(), err)
	}
	if pf == nil {
		return nil, fmt.Errorf("%w: %s source returned nothing", contracts.ErrNoPortfolio, o.source.Name())
	}
	return pf, nil
}

// snapshotSections holds the outputs of the concurrent stages
type snapshotSections struct {
	csp          []contracts.CSPCandidate
	cc           []contracts.CCCandidate
	iv           []contracts.IVRanking
	profit       []contracts.ProfitAlert
	snapshotDate string
	degraded     []string
}

// deriveFromSnapshot runs the four snapshot readers concurrently.
// Each stage writes only its own result; a failed stage leaves its section empty.
func (o *Orchestrator) deriveFromSnapshot(ctx context.Context, pf *contracts.Portfolio, positions []contracts.Position, asOf time.Time) (*snapshotSections, error) {
	out := &snapshotSections{
		csp:    []contracts.CSPCandidate{},
		cc:     []contracts.CCCandidate{},
		iv:     []contracts.IVRanking{},
		profit: []contracts.ProfitAlert{},
	}

	// 장기 실행 스케줄러에서 이전 실행의 캡처 날짜를 재사용하지 않도록
	if f, ok := o.reader.(flusher); ok {
		f.Flush()
	}

	if o.reader == nil {
		o.logger.Warn("No snapshot store configured, snapshot sections left empty")
		out.degraded = []string{StageCSP, StageCC, StageIV, StageProfit}
		for _, s := range out.degraded {
			o.metrics.RecordMissingData(s)
		}
		return out, nil
	}

	var (
		cspDate                         time.Time
		cspErr, ccErr, ivErr, profitErr error
		csp                             []contracts.CSPCandidate
		cc                              []contracts.CCCandidate
		iv                              []contracts.IVRanking
		profit                          []contracts.ProfitAlert
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer o.timeStage(StageCSP, time.Now())
		csp, cspDate, cspErr = o.cspScanner.Scan(gctx)
		return nil
	})
	g.Go(func() error {
		defer o.timeStage(StageCC, time.Now())
		cc, ccErr = o.ccScanner.Scan(gctx, pf.CCEligibleTickers())
		return nil
	})
	g.Go(func() error {
		defer o.timeStage(StageIV, time.Now())
		iv, ivErr = selection.IVRankings(gctx, o.reader)
		return nil
	})
	g.Go(func() error {
		defer o.timeStage(StageProfit, time.Now())
		profit, profitErr = o.profitTracker.Evaluate(gctx, positions, asOf)
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("decision run canceled: %w", err)
	}

	if o.keep(StageCSP, cspErr, out) {
		out.csp = csp
	}
	if o.keep(StageCC, ccErr, out) {
		out.cc = cc
	}
	if o.keep(StageIV, ivErr, out) {
		out.iv = iv
	}
	if o.keep(StageProfit, profitErr, out) {
		out.profit = profit
	}

	if !cspDate.IsZero() {
		out.snapshotDate = cspDate.Format(contracts.DateLayout)
	} else if d, found, err := o.reader.LatestDate(ctx, 0); err == nil && found {
		out.snapshotDate = d.Format(contracts.DateLayout)
	}

	return out, nil
}

// keep logs a failed stage and reports whether its result is usable
func (o *Orchestrator) keep(stage string, err error, out *snapshotSections) bool {
	if err == nil {
		return true
	}
	out.degraded = append(out.degraded, stage)
	o.logger.WithError(err).WithField("stage", stage).Warn("Snapshot stage failed, section left empty")
	o.metrics.RecordMissingData(stage)
	return false
}

func (o *Orchestrator) timeStage(stage string, start time.Time) {
	o.metrics.RecordStage(stage, time.Since(start))
}

func (o *Orchestrator) recordSections(rep *contracts.DecisionReport) {
	o.metrics.RecordSection("expiring_alerts", len(rep.ExpiringAlerts))
	o.metrics.RecordSection("profit_alerts", len(rep.ProfitAlerts))
	o.metrics.RecordSection("csp_candidates", len(rep.CSPCandidates))
	o.metrics.RecordSection("cc_candidates", len(rep.CCCandidates))
	o.metrics.RecordSection("iv_rankings", len(rep.IVRankings))
	o.metrics.RecordSection("weekly_plan", len(rep.WeeklyPlan))
	o.metrics.RecordUtilization(rep.CapitalEfficiency.Utilization)
}

// GenerateRunID derives a name-based UUID from the report content.
// Identical inputs give the same ID; generatedAt is excluded.
func GenerateRunID(rep *contracts.DecisionReport) (string, error) {
	clone := *rep
	clone.RunID = ""
	clone.GeneratedAt = ""

	data, err := json.Marshal(&clone)
	if err != nil {
		return "", fmt.Errorf("run id: %w", err)
	}
	return uuid.NewSHA1(runNamespace, data).String(), nil
}

func roundCSP(in []contracts.CSPCandidate) []contracts.CSPCandidate {
	out := make([]contracts.CSPCandidate, len(in))
	for i, c := range in {
		out[i] = c.Rounded()
	}
	return out
}

func roundCC(in []contracts.CCCandidate) []contracts.CCCandidate {
	out := make([]contracts.CCCandidate, len(in))
	for i, c := range in {
		out[i] = c.Rounded()
	}
	return out
}

func roundIV(in []contracts.IVRanking) []contracts.IVRanking {
	out := make([]contracts.IVRanking, len(in))
	for i, r := range in {
		out[i] = r.Rounded()
	}
	return out
}

func roundProfit(in []contracts.ProfitAlert) []contracts.ProfitAlert {
	out := make([]contracts.ProfitAlert, len(in))
	for i, a := range in {
		out[i] = a.Rounded()
	}
	return out
}
