package s0_snapshot

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/aegis-wheel/internal/contracts"
	"github.com/wonny/aegis-wheel/pkg/config"
	"github.com/wonny/aegis-wheel/pkg/database"
)

var (
	day1 = time.Date(2026, 2, 12, 0, 0, 0, 0, time.UTC)
	day2 = time.Date(2026, 2, 13, 0, 0, 0, 0, time.UTC)
)

func f64(v float64) *float64 { return &v }

func quote(date time.Time, ticker string, kind contracts.OptionKind, dte int, strike, price, bid float64, oi int) contracts.ChainQuote {
	return contracts.ChainQuote{
		CaptureDate:     date,
		Symbol:          "US." + ticker,
		Ticker:          ticker,
		DTE:             dte,
		Strike:          strike,
		Kind:            kind,
		IV:              f64(0.4),
		Bid:             bid,
		Ask:             f64(bid + 0.1),
		OpenInterest:    oi,
		UnderlyingPrice: price,
	}
}

func testStore() *MemoryStore {
	noIV := quote(day2, "PDD", contracts.OptionPut, 7, 95, 105, 1, 100)
	noIV.IV = nil

	return NewMemoryStore([]contracts.ChainQuote{
		quote(day1, "PDD", contracts.OptionPut, 8, 100, 105, 2, 50),
		quote(day2, "PDD", contracts.OptionPut, 7, 100, 105, 2, 50),
		quote(day2, "PDD", contracts.OptionPut, 7, 110, 105, 6, 50), // ITM
		quote(day2, "PDD", contracts.OptionPut, 7, 98, 105, 0, 50),  // no bid
		quote(day2, "PDD", contracts.OptionPut, 7, 97, 105, 1, 19),  // thin OI
		quote(day2, "PDD", contracts.OptionPut, 30, 90, 105, 1, 500),
		noIV,
		quote(day2, "BABA", contracts.OptionPut, 3, 80, 85, 1, 100),
		quote(day2, "TSLA", contracts.OptionCall, 7, 420, 400, 4, 80),
		quote(day2, "TSLA", contracts.OptionCall, 7, 410, 400, 6, 80),
		quote(day2, "TSLA", contracts.OptionCall, 7, 390, 400, 12, 80), // ITM
		quote(day2, "BIDU", contracts.OptionCall, 5, 110, 100, 1, 30),
	}, []contracts.DailyIV{
		{CaptureDate: day1, Symbol: "US.PDD", Ticker: "PDD", ATMIV: 0.50},
		{CaptureDate: day2, Symbol: "US.PDD", Ticker: "PDD", ATMIV: 0.55, StockPrice: 105},
		{CaptureDate: day2, Symbol: "US.TSLA", Ticker: "TSLA", ATMIV: 0.70, StockPrice: 400},
	})
}

func TestMemoryStore_LatestDate(t *testing.T) {
	ctx := context.Background()
	s := testStore()

	d, ok, err := s.LatestDate(ctx, 10)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, day2, d)

	d, ok, err = s.LatestDate(ctx, 0)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, day2, d)

	_, ok, err = NewMemoryStore(nil, nil).LatestDate(ctx, 10)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryStore_QueryPuts(t *testing.T) {
	got, err := testStore().QueryPuts(context.Background(), day2, 10, 20)
	require.NoError(t, err)

	require.Len(t, got, 2)
	// symbol order: US.BABA < US.PDD
	assert.Equal(t, "BABA", got[0].Ticker)
	assert.Equal(t, "PDD", got[1].Ticker)
	assert.Equal(t, 100.0, got[1].Strike)
}

func TestMemoryStore_QueryPuts_Empty(t *testing.T) {
	got, err := testStore().QueryPuts(context.Background(), day2.AddDate(0, 0, 1), 10, 20)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestMemoryStore_QueryCallsForTickers(t *testing.T) {
	got, err := testStore().QueryCallsForTickers(context.Background(), day2, []string{"TSLA", "BIDU"}, 10)
	require.NoError(t, err)

	require.Len(t, got, 3)
	// ticker order, then bid/strike desc
	assert.Equal(t, "TSLA", got[0].Ticker)
	assert.Equal(t, 410.0, got[0].Strike)
	assert.Equal(t, 420.0, got[1].Strike)
	assert.Equal(t, "BIDU", got[2].Ticker)

	got, err = testStore().QueryCallsForTickers(context.Background(), day2, nil, 10)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestMemoryStore_FindContract(t *testing.T) {
	ctx := context.Background()
	s := testStore()

	q, err := s.FindContract(ctx, day2, "PDD", contracts.OptionPut, 100.3, 10, 0.5)
	require.NoError(t, err)
	require.NotNil(t, q)
	assert.Equal(t, 100.0, q.Strike)
	assert.Equal(t, 7, q.DTE)

	// tolerance is strict
	q, err = s.FindContract(ctx, day2, "PDD", contracts.OptionPut, 100.5, 7, 0.5)
	require.NoError(t, err)
	assert.Nil(t, q)

	// closest dte wins
	q, err = s.FindContract(ctx, day2, "PDD", contracts.OptionPut, 90, 25, 0.5)
	require.NoError(t, err)
	require.NotNil(t, q)
	assert.Equal(t, 30, q.DTE)

	q, err = s.FindContract(ctx, day2, "PDD", contracts.OptionCall, 100, 7, 0.5)
	require.NoError(t, err)
	assert.Nil(t, q)
}

func TestMemoryStore_IVSummaries(t *testing.T) {
	snap, err := testStore().IVSummaries(context.Background())
	require.NoError(t, err)

	assert.Equal(t, day2, snap.Date)
	assert.Equal(t, day1, snap.PrevDate)
	require.Len(t, snap.Latest, 2)
	assert.Equal(t, "TSLA", snap.Latest[0].Ticker)
	require.Len(t, snap.Previous, 1)

	empty, err := NewMemoryStore(nil, nil).IVSummaries(context.Background())
	require.NoError(t, err)
	assert.False(t, empty.HasPrevious())
	assert.Empty(t, empty.Latest)
}

func TestLoadFixture(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chain.json")
	body := `{
	  "quotes": [
	    {"date": "2026-02-13", "symbol": "US.PDD", "dte": 7, "strike": 100, "type": "PUT",
	     "iv": 0.30, "bid": 2, "ask": 2.2, "oi": 50, "volume": 10, "stockPrice": 105, "delta": -0.25},
	    {"date": "13/02/2026", "symbol": "US.PDD", "dte": 7, "strike": 95, "type": "PUT",
	     "iv": 0.30, "bid": 1, "oi": 50, "stockPrice": 105}
	  ],
	  "dailyIv": [
	    {"date": "2026-02-13", "symbol": "US.PDD", "stockPrice": 105, "atmIv": 0.55, "atmDte": 7}
	  ]
	}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	s, err := LoadFixture(path, "US.")
	require.NoError(t, err)

	// malformed date row skipped
	require.Len(t, s.quotes, 1)
	q := s.quotes[0]
	assert.Equal(t, "PDD", q.Ticker)
	assert.Equal(t, day2, q.CaptureDate)
	assert.Equal(t, contracts.OptionPut, q.Kind)
	assert.Equal(t, 10, q.VolumeOrZero())
	require.Len(t, s.ivs, 1)

	_, err = LoadFixture(filepath.Join(t.TempDir(), "missing.json"), "US.")
	assert.Error(t, err)
}

type countingReader struct {
	*MemoryStore
	latestCalls int
	ivCalls     int
}

func (c *countingReader) LatestDate(ctx context.Context, maxDTE int) (time.Time, bool, error) {
	c.latestCalls++
	return c.MemoryStore.LatestDate(ctx, maxDTE)
}

func (c *countingReader) IVSummaries(ctx context.Context) (*contracts.IVSnapshot, error) {
	c.ivCalls++
	return c.MemoryStore.IVSummaries(ctx)
}

func TestCachedReader(t *testing.T) {
	ctx := context.Background()
	inner := &countingReader{MemoryStore: testStore()}
	c := NewCachedReader(inner, time.Minute)

	for i := 0; i < 3; i++ {
		d, ok, err := c.LatestDate(ctx, 10)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, day2, d)
	}
	_, _, _ = c.LatestDate(ctx, 0)
	assert.Equal(t, 2, inner.latestCalls)

	_, _ = c.IVSummaries(ctx)
	_, _ = c.IVSummaries(ctx)
	assert.Equal(t, 1, inner.ivCalls)

	// pass-through
	puts, err := c.QueryPuts(ctx, day2, 10, 20)
	require.NoError(t, err)
	assert.Len(t, puts, 2)

	c.Flush()
	_, _, _ = c.LatestDate(ctx, 10)
	assert.Equal(t, 3, inner.latestCalls)
}

func TestRepository_Integration(t *testing.T) {
	// Skip if DATABASE_URL is not set
	if os.Getenv("DATABASE_URL") == "" {
		t.Skip("DATABASE_URL not set, skipping integration test")
	}

	ctx := context.Background()
	cfg, err := config.Load()
	require.NoError(t, err)

	db, err := database.New(ctx, cfg)
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db.Pool, cfg.Database.Schema, cfg.Database.SymbolPrefix)

	date, found, err := repo.LatestDate(ctx, 10)
	require.NoError(t, err)
	if !found {
		t.Skip("snapshot store is empty")
	}

	puts, err := repo.QueryPuts(ctx, date, 10, 20)
	require.NoError(t, err)
	for _, q := range puts {
		assert.Equal(t, contracts.OptionPut, q.Kind)
		assert.Less(t, q.Strike, q.UnderlyingPrice)
		assert.GreaterOrEqual(t, q.OpenInterest, 20)
	}

	snap, err := repo.IVSummaries(ctx)
	require.NoError(t, err)
	assert.NotNil(t, snap.Latest)
}
