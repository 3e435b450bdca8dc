package selection

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/wonny/aegis-wheel/internal/contracts"
	"github.com/wonny/aegis-wheel/internal/strategyconfig"
	"github.com/wonny/aegis-wheel/pkg/logger"
)

// CSPScanner ranks cash-secured put opportunities across the snapshot universe
// ⭐ SSOT: CSP 후보 스코어링은 여기서만
type CSPScanner struct {
	reader contracts.SnapshotReader
	cfg    strategyconfig.CSP
	logger *logger.Logger
}

// NewCSPScanner creates a new CSP scanner
func NewCSPScanner(reader contracts.SnapshotReader, cfg strategyconfig.CSP, log *logger.Logger) *CSPScanner {
	return &CSPScanner{
		reader: reader,
		cfg:    cfg,
		logger: log,
	}
}

// Scan returns the top-N candidates (one per ticker) and the capture date used.
// An empty store yields an empty slice.
func (s *CSPScanner) Scan(ctx context.Context) ([]contracts.CSPCandidate, time.Time, error) {
	date, found, err := s.reader.LatestDate(ctx, s.cfg.MaxDTE)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("csp scan: %w", err)
	}
	if !found {
		s.logger.WithField("max_dte", s.cfg.MaxDTE).Warn("No snapshot date for CSP scan")
		return []contracts.CSPCandidate{}, time.Time{}, nil
	}

	quotes, err := s.reader.QueryPuts(ctx, date, s.cfg.MaxDTE, s.cfg.MinOpenInterest)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("csp scan: %w", err)
	}

	ranked := RankCSP(ScorePuts(quotes, s.cfg.YieldCap), s.cfg.TopN)

	s.logger.WithFields(map[string]interface{}{
		"date":       date.Format(contracts.DateLayout),
		"quotes":     len(quotes),
		"candidates": len(ranked),
	}).Info("CSP scan completed")

	return ranked, date, nil
}

// ScorePuts scores every usable quote. Rows with dte <= 0 or strike <= 0 produce nothing.
func ScorePuts(quotes []contracts.ChainQuote, yieldCap float64) []contracts.CSPCandidate {
	out := make([]contracts.CSPCandidate, 0, len(quotes))
	for i := range quotes {
		if c, ok := ScorePut(&quotes[i], yieldCap); ok {
			out = append(out, c)
		}
	}
	return out
}

// ScorePut computes one CSP candidate
func ScorePut(q *contracts.ChainQuote, yieldCap float64) (contracts.CSPCandidate, bool) {
	if q.DTE <= 0 || q.Strike <= 0 || q.UnderlyingPrice <= 0 {
		return contracts.CSPCandidate{}, false
	}

	mid := q.Mid()
	otmPct := (1 - q.Strike/q.UnderlyingPrice) * 100
	annYield := annualized(mid, q.Strike, q.DTE)

	yScore := math.Min(annYield, yieldCap)
	lScore := liquidityScore(q.OpenInterest, q.VolumeOrZero())
	sScore := safetyScore(otmPct)
	dScore := deltaScore(q.Delta)

	return contracts.CSPCandidate{
		Ticker:         q.Ticker,
		Strike:         q.Strike,
		DTE:            q.DTE,
		Price:          q.UnderlyingPrice,
		OTMPct:         otmPct,
		IV:             q.IVOrZero() * 100,
		Bid:            q.Bid,
		Ask:            q.AskOrZero(),
		Mid:            mid,
		Premium:        mid * 100,
		Collateral:     q.Strike * 100,
		AnnYield:       annYield,
		OI:             q.OpenInterest,
		Volume:         q.VolumeOrZero(),
		Delta:          q.Delta,
		YieldScore:     yScore,
		LiquidityScore: lScore,
		SafetyScore:    sScore,
		DeltaScore:     dScore,
		Score:          yScore * lScore * sScore * dScore / 10,
	}, true
}

// RankCSP keeps the best-scoring candidate per ticker, sorts by score desc and truncates to topN.
// Ties keep first-seen order.
func RankCSP(cands []contracts.CSPCandidate, topN int) []contracts.CSPCandidate {
	best := make(map[string]int, len(cands))
	ranked := make([]contracts.CSPCandidate, 0, len(cands))

	for _, c := range cands {
		idx, ok := best[c.Ticker]
		if !ok {
			best[c.Ticker] = len(ranked)
			ranked = append(ranked, c)
			continue
		}
		if c.Score > ranked[idx].Score {
			ranked[idx] = c
		}
	}

	// Sort by score (descending)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	if topN > 0 && len(ranked) > topN {
		ranked = ranked[:topN]
	}
	return ranked
}
