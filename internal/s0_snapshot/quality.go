package s0_snapshot

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/wonny/aegis-wheel/internal/contracts"
)

// QualityConfig holds minimum coverage ratios (0.0 ~ 1.0)
type QualityConfig struct {
	MinIVCoverage  float64
	MinBidCoverage float64
	MinOICoverage  float64
	MinQuotes      int
}

// DefaultQualityConfig returns the gate thresholds used by status checks
func DefaultQualityConfig() QualityConfig {
	return QualityConfig{
		MinIVCoverage:  0.90,
		MinBidCoverage: 0.50, // 원격 만기/딥 OTM은 bid 0이 정상
		MinOICoverage:  0.50,
		MinQuotes:      1,
	}
}

// QualityGate scores how complete a capture date is
type QualityGate struct {
	reader contracts.CoverageReader
	config QualityConfig
}

// NewQualityGate creates a new QualityGate instance
func NewQualityGate(reader contracts.CoverageReader, config QualityConfig) *QualityGate {
	return &QualityGate{reader: reader, config: config}
}

// Check validates snapshot coverage for a capture date
// ⭐ SSOT: 스냅샷 품질 검증
func (g *QualityGate) Check(ctx context.Context, date time.Time) (*contracts.SnapshotQuality, error) {
	counts, err := g.reader.Coverage(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("check coverage: %w", err)
	}
	return Evaluate(date, counts, g.config), nil
}

// Evaluate turns raw counts into a verdict
func Evaluate(date time.Time, counts *contracts.CoverageCounts, cfg QualityConfig) *contracts.SnapshotQuality {
	q := &contracts.SnapshotQuality{
		Date:     date,
		Quotes:   counts.Quotes,
		Symbols:  counts.Symbols,
		Coverage: map[string]float64{},
	}

	ratio := func(n int) float64 {
		if counts.Quotes == 0 {
			return 0
		}
		return float64(n) / float64(counts.Quotes)
	}
	q.Coverage["iv"] = ratio(counts.WithIV)
	q.Coverage["bid"] = ratio(counts.WithBid)
	q.Coverage["ask"] = ratio(counts.WithAsk)
	q.Coverage["open_interest"] = ratio(counts.WithOI)
	q.Coverage["delta"] = ratio(counts.Delta)
	q.Coverage["volume"] = ratio(counts.Volume)

	q.QualityScore = calculateScore(q.Coverage)

	if counts.Quotes < cfg.MinQuotes {
		q.Failures = append(q.Failures, fmt.Sprintf("quotes %d < %d", counts.Quotes, cfg.MinQuotes))
	}
	check := func(key string, min float64) {
		if q.Coverage[key] < min {
			q.Failures = append(q.Failures, fmt.Sprintf("%s coverage %.2f < %.2f", key, q.Coverage[key], min))
		}
	}
	check("iv", cfg.MinIVCoverage)
	check("bid", cfg.MinBidCoverage)
	check("open_interest", cfg.MinOICoverage)

	q.Passed = len(q.Failures) == 0
	return q
}

// calculateScore averages all coverage ratios
func calculateScore(coverage map[string]float64) float64 {
	if len(coverage) == 0 {
		return 0
	}
	keys := make([]string, 0, len(coverage))
	for k := range coverage {
		keys = append(keys, k)
	}
	sort.Strings(keys) // 합산 순서 고정

	sum := 0.0
	for _, k := range keys {
		sum += coverage[k]
	}
	return sum / float64(len(keys))
}
