package metrics

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Recorder records decision-run metrics on its own registry.
// ⭐ SSOT: 메트릭 정의는 여기서만
type Recorder struct {
	registry *prometheus.Registry

	runsTotal     *prometheus.CounterVec
	missingData   *prometheus.CounterVec
	sectionItems  *prometheus.GaugeVec
	utilization   prometheus.Gauge
	runDuration   prometheus.Histogram
	stageDuration *prometheus.HistogramVec
	lastSuccess   prometheus.Gauge
}

// New creates a Recorder with all collectors registered
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		runsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "wheel",
				Name:      "runs_total",
				Help:      "Decision runs by outcome",
			},
			[]string{"status"},
		),
		missingData: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "wheel",
				Name:      "missing_data_total",
				Help:      "Report sections left empty because snapshot data was missing",
			},
			[]string{"section"},
		),
		sectionItems: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "wheel",
				Name:      "report_items",
				Help:      "Item count per report section of the last run",
			},
			[]string{"section"},
		),
		utilization: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "wheel",
			Name:      "capital_utilization_percent",
			Help:      "Deployed capital over total capital of the last run",
		}),
		runDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "wheel",
			Name:      "run_duration_seconds",
			Help:      "Duration of a full decision run",
			Buckets:   prometheus.DefBuckets,
		}),
		stageDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "wheel",
				Name:      "stage_duration_seconds",
				Help:      "Duration of each derivation stage",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"stage"},
		),
		lastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "wheel",
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last successful run",
		}),
	}

	r.registry.MustRegister(
		r.runsTotal,
		r.missingData,
		r.sectionItems,
		r.utilization,
		r.runDuration,
		r.stageDuration,
		r.lastSuccess,
	)
	return r
}

// RecordRun records the outcome of one run
func (r *Recorder) RecordRun(status string, d time.Duration) {
	if r == nil {
		return
	}
	r.runsTotal.WithLabelValues(status).Inc()
	r.runDuration.Observe(d.Seconds())
	if status == StatusSuccess {
		r.lastSuccess.SetToCurrentTime()
	}
}

// RecordMissingData counts a degraded section
func (r *Recorder) RecordMissingData(section string) {
	if r == nil {
		return
	}
	r.missingData.WithLabelValues(section).Inc()
}

// RecordSection sets the item count of a report section
func (r *Recorder) RecordSection(section string, n int) {
	if r == nil {
		return
	}
	r.sectionItems.WithLabelValues(section).Set(float64(n))
}

// RecordUtilization sets the capital utilization gauge
func (r *Recorder) RecordUtilization(pct float64) {
	if r == nil {
		return
	}
	r.utilization.Set(pct)
}

// RecordStage records stage latency
func (r *Recorder) RecordStage(stage string, d time.Duration) {
	if r == nil {
		return
	}
	r.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

// Registry exposes the underlying registry (tests, /metrics)
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus text format
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Push sends all collectors to a Pushgateway. Batch runs have no scrape window.
func (r *Recorder) Push(url, job string) error {
	if r == nil || url == "" {
		return nil
	}
	if err := push.New(url, job).Gatherer(r.registry).Push(); err != nil {
		return fmt.Errorf("push metrics to %s: %w", url, err)
	}
	return nil
}

// Run outcomes
const (
	StatusSuccess  = "success"
	StatusFailed   = "failed"
	StatusDegraded = "degraded"
)
