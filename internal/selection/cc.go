package selection

import (
	"context"
	"fmt"
	"sort"

	"github.com/wonny/aegis-wheel/internal/contracts"
	"github.com/wonny/aegis-wheel/internal/strategyconfig"
	"github.com/wonny/aegis-wheel/pkg/logger"
)

// CCScanner finds the best covered call for each held, uncovered ticker
// ⭐ SSOT: CC 후보 선택은 여기서만 (순수 수익률, OTM 밴드 내)
type CCScanner struct {
	reader contracts.SnapshotReader
	cfg    strategyconfig.CC
	logger *logger.Logger
}

// NewCCScanner creates a new CC scanner
func NewCCScanner(reader contracts.SnapshotReader, cfg strategyconfig.CC, log *logger.Logger) *CCScanner {
	return &CCScanner{
		reader: reader,
		cfg:    cfg,
		logger: log,
	}
}

// Scan returns at most one candidate per ticker, sorted by annYield desc
func (s *CCScanner) Scan(ctx context.Context, tickers []string) ([]contracts.CCCandidate, error) {
	if len(tickers) == 0 {
		return []contracts.CCCandidate{}, nil
	}

	date, found, err := s.reader.LatestDate(ctx, s.cfg.MaxDTE)
	if err != nil {
		return nil, fmt.Errorf("cc scan: %w", err)
	}
	if !found {
		s.logger.WithField("max_dte", s.cfg.MaxDTE).Warn("No snapshot date for CC scan")
		return []contracts.CCCandidate{}, nil
	}

	quotes, err := s.reader.QueryCallsForTickers(ctx, date, tickers, s.cfg.MaxDTE)
	if err != nil {
		return nil, fmt.Errorf("cc scan: %w", err)
	}

	best := BestCalls(quotes, s.cfg)

	s.logger.WithFields(map[string]interface{}{
		"tickers":    len(tickers),
		"quotes":     len(quotes),
		"candidates": len(best),
	}).Info("CC scan completed")

	return best, nil
}

// ScoreCall evaluates one call; ok is false outside the OTM band or below the OI floor
func ScoreCall(q *contracts.ChainQuote, cfg strategyconfig.CC) (contracts.CCCandidate, bool) {
	if q.DTE <= 0 || q.Strike <= 0 || q.UnderlyingPrice <= 0 {
		return contracts.CCCandidate{}, false
	}

	otmPct := (q.Strike/q.UnderlyingPrice - 1) * 100
	if otmPct < cfg.OTMMinPct || otmPct > cfg.OTMMaxPct || q.OpenInterest < cfg.MinOpenInterest {
		return contracts.CCCandidate{}, false
	}

	mid := q.Mid()
	return contracts.CCCandidate{
		Ticker:       q.Ticker,
		Strike:       q.Strike,
		DTE:          q.DTE,
		Price:        q.UnderlyingPrice,
		OTMPct:       otmPct,
		IV:           q.IVOrZero() * 100,
		Bid:          q.Bid,
		Ask:          q.AskOrZero(),
		Mid:          mid,
		Premium:      mid * 100,
		CoveredValue: q.UnderlyingPrice * 100,
		AnnYield:     annualized(mid, q.UnderlyingPrice, q.DTE),
		Delta:        q.Delta,
		OI:           q.OpenInterest,
	}, true
}

// BestCalls keeps the highest-annYield accepted call per ticker.
// Quotes arrive grouped per ticker in bid/strike desc order; the first of equal yields wins.
func BestCalls(quotes []contracts.ChainQuote, cfg strategyconfig.CC) []contracts.CCCandidate {
	idx := make(map[string]int)
	out := make([]contracts.CCCandidate, 0)

	for i := range quotes {
		c, ok := ScoreCall(&quotes[i], cfg)
		if !ok {
			continue
		}
		j, seen := idx[c.Ticker]
		if !seen {
			idx[c.Ticker] = len(out)
			out = append(out, c)
			continue
		}
		if c.AnnYield > out[j].AnnYield {
			out[j] = c
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].AnnYield > out[j].AnnYield
	})
	return out
}
