package s0_snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/wonny/aegis-wheel/internal/contracts"
)

// MemoryStore implements contracts.SnapshotReader over in-memory rows.
// Used by offline runs (--chain-file) and tests; predicates mirror Repository.
type MemoryStore struct {
	mu     sync.RWMutex
	quotes []contracts.ChainQuote
	ivs    []contracts.DailyIV
}

// NewMemoryStore creates a store from quotes and daily IV rows
func NewMemoryStore(quotes []contracts.ChainQuote, ivs []contracts.DailyIV) *MemoryStore {
	return &MemoryStore{quotes: quotes, ivs: ivs}
}

// fixture is the on-disk format of a chain file
type fixture struct {
	Quotes  []fixtureQuote `json:"quotes"`
	DailyIV []fixtureIV    `json:"dailyIv"`
}

type fixtureQuote struct {
	Date       string   `json:"date"`
	Symbol     string   `json:"symbol"`
	Expiry     string   `json:"expiry"`
	DTE        int      `json:"dte"`
	Strike     float64  `json:"strike"`
	Type       string   `json:"type"`
	IV         *float64 `json:"iv"`
	Bid        float64  `json:"bid"`
	Ask        *float64 `json:"ask"`
	OI         int      `json:"oi"`
	Volume     *int     `json:"volume"`
	StockPrice float64  `json:"stockPrice"`
	Delta      *float64 `json:"delta"`
}

type fixtureIV struct {
	Date       string  `json:"date"`
	Symbol     string  `json:"symbol"`
	StockPrice float64 `json:"stockPrice"`
	ATMIV      float64 `json:"atmIv"`
	ATMDTE     int     `json:"atmDte"`
}

// LoadFixture reads a chain file. Rows with a malformed date are skipped.
func LoadFixture(path, prefix string) (*MemoryStore, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read chain file: %w", err)
	}

	var fx fixture
	if err := json.Unmarshal(data, &fx); err != nil {
		return nil, fmt.Errorf("decode chain file %s: %w", path, err)
	}

	quotes := make([]contracts.ChainQuote, 0, len(fx.Quotes))
	for _, r := range fx.Quotes {
		d, err := contracts.ParseDate(r.Date)
		if err != nil {
			continue
		}
		quotes = append(quotes, contracts.ChainQuote{
			CaptureDate:     d,
			Symbol:          r.Symbol,
			Ticker:          contracts.TickerFromSymbol(r.Symbol, prefix),
			Expiry:          r.Expiry,
			DTE:             r.DTE,
			Strike:          r.Strike,
			Kind:            contracts.OptionKind(r.Type),
			IV:              r.IV,
			Bid:             r.Bid,
			Ask:             r.Ask,
			OpenInterest:    r.OI,
			Volume:          r.Volume,
			UnderlyingPrice: r.StockPrice,
			Delta:           r.Delta,
		})
	}

	ivs := make([]contracts.DailyIV, 0, len(fx.DailyIV))
	for _, r := range fx.DailyIV {
		d, err := contracts.ParseDate(r.Date)
		if err != nil {
			continue
		}
		ivs = append(ivs, contracts.DailyIV{
			CaptureDate: d,
			Symbol:      r.Symbol,
			Ticker:      contracts.TickerFromSymbol(r.Symbol, prefix),
			StockPrice:  r.StockPrice,
			ATMIV:       r.ATMIV,
			ATMDTE:      r.ATMDTE,
		})
	}

	return NewMemoryStore(quotes, ivs), nil
}

// LatestDate returns the newest capture date with at least one quote of dte <= maxDTE
func (m *MemoryStore) LatestDate(_ context.Context, maxDTE int) (time.Time, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var latest time.Time
	found := false
	for _, q := range m.quotes {
		if maxDTE > 0 && q.DTE > maxDTE {
			continue
		}
		if !found || q.CaptureDate.After(latest) {
			latest = q.CaptureDate
			found = true
		}
	}
	return latest, found, nil
}

// QueryPuts returns OTM puts with a bid, an IV and enough open interest
func (m *MemoryStore) QueryPuts(_ context.Context, date time.Time, maxDTE, minOI int) ([]contracts.ChainQuote, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := []contracts.ChainQuote{}
	for _, q := range m.quotes {
		if !q.CaptureDate.Equal(date) || q.Kind != contracts.OptionPut || q.DTE > maxDTE {
			continue
		}
		if q.IV == nil || q.Strike >= q.UnderlyingPrice || q.Bid <= 0 || q.OpenInterest < minOI {
			continue
		}
		out = append(out, q)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Symbol != out[j].Symbol {
			return out[i].Symbol < out[j].Symbol
		}
		if out[i].DTE != out[j].DTE {
			return out[i].DTE < out[j].DTE
		}
		return out[i].Strike < out[j].Strike
	})
	return out, nil
}

// QueryCallsForTickers returns OTM calls grouped in ticker order, bid/strike desc
func (m *MemoryStore) QueryCallsForTickers(_ context.Context, date time.Time, tickers []string, maxDTE int) ([]contracts.ChainQuote, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rank := make(map[string]int, len(tickers))
	for i, t := range tickers {
		if _, ok := rank[t]; !ok {
			rank[t] = i
		}
	}

	out := []contracts.ChainQuote{}
	for _, q := range m.quotes {
		if _, ok := rank[q.Ticker]; !ok {
			continue
		}
		if !q.CaptureDate.Equal(date) || q.Kind != contracts.OptionCall || q.DTE > maxDTE {
			continue
		}
		if q.IV == nil || q.Strike <= q.UnderlyingPrice || q.Bid <= 0 {
			continue
		}
		out = append(out, q)
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if rank[a.Ticker] != rank[b.Ticker] {
			return rank[a.Ticker] < rank[b.Ticker]
		}
		ra, rb := a.Bid/a.Strike, b.Bid/b.Strike
		if ra != rb {
			return ra > rb
		}
		if a.DTE != b.DTE {
			return a.DTE < b.DTE
		}
		return a.Strike < b.Strike
	})
	return out, nil
}

// FindContract returns the quote matching ticker/kind/strike closest to targetDTE, nil if none
func (m *MemoryStore) FindContract(_ context.Context, date time.Time, ticker string, kind contracts.OptionKind, strike float64, targetDTE int, tolerance float64) (*contracts.ChainQuote, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var best *contracts.ChainQuote
	for i := range m.quotes {
		q := &m.quotes[i]
		if q.Ticker != ticker || q.Kind != kind || !q.CaptureDate.Equal(date) {
			continue
		}
		if math.Abs(q.Strike-strike) >= tolerance {
			continue
		}
		if best == nil || closerContract(q, best, strike, targetDTE) {
			best = q
		}
	}

	if best == nil {
		return nil, nil
	}
	found := *best
	return &found, nil
}

// closerContract orders by |dte-target|, then dte, then strike distance
func closerContract(a, b *contracts.ChainQuote, strike float64, targetDTE int) bool {
	da, db := absInt(a.DTE-targetDTE), absInt(b.DTE-targetDTE)
	if da != db {
		return da < db
	}
	if a.DTE != b.DTE {
		return a.DTE < b.DTE
	}
	return math.Abs(a.Strike-strike) < math.Abs(b.Strike-strike)
}

// IVSummaries returns daily IV rows of the latest and previous capture dates
func (m *MemoryStore) IVSummaries(_ context.Context) (*contracts.IVSnapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snap := &contracts.IVSnapshot{
		Latest:   []contracts.DailyIV{},
		Previous: []contracts.DailyIV{},
	}

	for _, r := range m.ivs {
		if r.CaptureDate.After(snap.Date) {
			snap.Date = r.CaptureDate
		}
	}
	if snap.Date.IsZero() {
		return snap, nil
	}
	for _, r := range m.ivs {
		if r.CaptureDate.Before(snap.Date) && r.CaptureDate.After(snap.PrevDate) {
			snap.PrevDate = r.CaptureDate
		}
	}

	for _, r := range m.ivs {
		switch {
		case r.CaptureDate.Equal(snap.Date):
			snap.Latest = append(snap.Latest, r)
		case snap.HasPrevious() && r.CaptureDate.Equal(snap.PrevDate):
			snap.Previous = append(snap.Previous, r)
		}
	}

	sort.SliceStable(snap.Latest, func(i, j int) bool {
		if snap.Latest[i].ATMIV != snap.Latest[j].ATMIV {
			return snap.Latest[i].ATMIV > snap.Latest[j].ATMIV
		}
		return snap.Latest[i].Symbol < snap.Latest[j].Symbol
	})
	return snap, nil
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Coverage counts populated columns for a capture date
func (m *MemoryStore) Coverage(_ context.Context, date time.Time) (*contracts.CoverageCounts, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c := &contracts.CoverageCounts{}
	symbols := make(map[string]bool)
	for _, q := range m.quotes {
		if !q.CaptureDate.Equal(date) {
			continue
		}
		c.Quotes++
		symbols[q.Symbol] = true
		if q.IV != nil {
			c.WithIV++
		}
		if q.Bid > 0 {
			c.WithBid++
		}
		if q.Ask != nil && *q.Ask > 0 {
			c.WithAsk++
		}
		if q.OpenInterest > 0 {
			c.WithOI++
		}
		if q.Delta != nil {
			c.Delta++
		}
		if q.Volume != nil {
			c.Volume++
		}
	}
	c.Symbols = len(symbols)
	return c, nil
}
