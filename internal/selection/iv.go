package selection

import (
	"context"
	"fmt"
	"sort"

	"github.com/wonny/aegis-wheel/internal/contracts"
)

// IVRankings returns the latest daily IV leaderboard with day-over-day change
func IVRankings(ctx context.Context, reader contracts.SnapshotReader) ([]contracts.IVRanking, error) {
	snap, err := reader.IVSummaries(ctx)
	if err != nil {
		return nil, fmt.Errorf("iv rankings: %w", err)
	}
	return RankIV(snap), nil
}

// RankIV sorts the latest rows by IV desc; ivChange is in percentage points
func RankIV(snap *contracts.IVSnapshot) []contracts.IVRanking {
	out := make([]contracts.IVRanking, 0, len(snap.Latest))
	if len(snap.Latest) == 0 {
		return out
	}

	prev := make(map[string]float64, len(snap.Previous))
	for _, r := range snap.Previous {
		prev[r.Symbol] = r.ATMIV
	}

	for _, r := range snap.Latest {
		rk := contracts.IVRanking{
			Ticker: r.Ticker,
			Price:  r.StockPrice,
			IV:     r.ATMIV * 100,
			DTE:    r.ATMDTE,
		}
		if p, ok := prev[r.Symbol]; ok {
			change := (r.ATMIV - p) * 100
			rk.IVChange = &change
		}
		out = append(out, rk)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].IV > out[j].IV
	})
	return out
}
