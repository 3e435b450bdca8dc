package contracts

import (
	"context"
	"time"
)

// CoverageCounts counts populated columns of one capture date
type CoverageCounts struct {
	Quotes  int `json:"quotes"`
	Symbols int `json:"symbols"`
	WithIV  int `json:"withIv"`
	WithBid int `json:"withBid"`
	WithAsk int `json:"withAsk"`
	WithOI  int `json:"withOi"`
	Delta   int `json:"withDelta"`
	Volume  int `json:"withVolume"`
}

// CoverageReader is implemented by stores that can count a capture date
type CoverageReader interface {
	Coverage(ctx context.Context, date time.Time) (*CoverageCounts, error)
}

// SnapshotQuality is the quality gate verdict for a capture date
// ⭐ SSOT: 스냅샷 품질 판정 결과
type SnapshotQuality struct {
	Date         time.Time          `json:"date"`
	Quotes       int                `json:"quotes"`
	Symbols      int                `json:"symbols"`
	Coverage     map[string]float64 `json:"coverage"`
	QualityScore float64            `json:"qualityScore"`
	Passed       bool               `json:"passed"`
	Failures     []string           `json:"failures,omitempty"`
}
