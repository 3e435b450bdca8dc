package s0_snapshot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/aegis-wheel/internal/contracts"
)

// Repository implements contracts.SnapshotReader on Postgres
// ⭐ SSOT: 옵션 체인 스냅샷 조회는 여기서만 (읽기 전용)
type Repository struct {
	pool   *pgxpool.Pool
	schema string
	prefix string
}

// NewRepository creates a snapshot repository.
// schema owns option_chain_snapshot and daily_iv; prefix is the feed symbol prefix ("US.").
func NewRepository(pool *pgxpool.Pool, schema, prefix string) *Repository {
	if schema == "" {
		schema = "options"
	}
	return &Repository{pool: pool, schema: schema, prefix: prefix}
}

const quoteColumns = `
	capture_date, symbol, expiry, dte, strike_price, option_type,
	implied_volatility, bid_price, ask_price, open_interest, volume,
	stock_price, delta`

func (r *Repository) chainTable() string {
	return pgx.Identifier{r.schema, "option_chain_snapshot"}.Sanitize()
}

func (r *Repository) ivTable() string {
	return pgx.Identifier{r.schema, "daily_iv"}.Sanitize()
}

// LatestDate returns the newest capture date with at least one quote of dte <= maxDTE
func (r *Repository) LatestDate(ctx context.Context, maxDTE int) (time.Time, bool, error) {
	query := fmt.Sprintf(`
		SELECT MAX(capture_date)
		FROM %s
		WHERE ($1 <= 0 OR dte <= $1)
	`, r.chainTable())

	var latest *time.Time
	if err := r.pool.QueryRow(ctx, query, maxDTE).Scan(&latest); err != nil {
		return time.Time{}, false, fmt.Errorf("latest capture date: %w", err)
	}
	if latest == nil {
		return time.Time{}, false, nil
	}
	return *latest, true, nil
}

// QueryPuts returns OTM puts with a bid, an IV and enough open interest
func (r *Repository) QueryPuts(ctx context.Context, date time.Time, maxDTE, minOI int) ([]contracts.ChainQuote, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE capture_date = $1 AND option_type = 'PUT' AND dte <= $2
		  AND implied_volatility IS NOT NULL
		  AND strike_price < stock_price
		  AND bid_price > 0
		  AND open_interest >= $3
		ORDER BY symbol, dte, strike_price
	`, quoteColumns, r.chainTable())

	rows, err := r.pool.Query(ctx, query, date, maxDTE, minOI)
	if err != nil {
		return nil, fmt.Errorf("query puts: %w", err)
	}
	return r.collectQuotes(rows)
}

// QueryCallsForTickers returns OTM calls for the given tickers.
// Rows are grouped in ticker order, each group ordered by bid/strike desc.
func (r *Repository) QueryCallsForTickers(ctx context.Context, date time.Time, tickers []string, maxDTE int) ([]contracts.ChainQuote, error) {
	if len(tickers) == 0 {
		return []contracts.ChainQuote{}, nil
	}

	symbols := make([]string, len(tickers))
	for i, t := range tickers {
		symbols[i] = contracts.SymbolFromTicker(t, r.prefix)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE capture_date = $1 AND option_type = 'CALL' AND dte <= $2
		  AND symbol = ANY($3::text[])
		  AND implied_volatility IS NOT NULL
		  AND strike_price > stock_price
		  AND bid_price > 0
		ORDER BY array_position($3::text[], symbol),
		         (bid_price / strike_price) DESC, dte, strike_price
	`, quoteColumns, r.chainTable())

	rows, err := r.pool.Query(ctx, query, date, maxDTE, symbols)
	if err != nil {
		return nil, fmt.Errorf("query calls: %w", err)
	}
	return r.collectQuotes(rows)
}

// FindContract returns the quote matching ticker/kind/strike closest to targetDTE, nil if none
func (r *Repository) FindContract(ctx context.Context, date time.Time, ticker string, kind contracts.OptionKind, strike float64, targetDTE int, tolerance float64) (*contracts.ChainQuote, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE symbol = $1 AND capture_date = $2 AND option_type = $3
		  AND ABS(strike_price - $4) < $5
		ORDER BY ABS(dte - $6), dte, ABS(strike_price - $4)
		LIMIT 1
	`, quoteColumns, r.chainTable())

	row := r.pool.QueryRow(ctx, query,
		contracts.SymbolFromTicker(ticker, r.prefix), date, string(kind), strike, tolerance, targetDTE)

	q, err := r.scanQuote(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find contract %s %s %.2f: %w", ticker, kind, strike, err)
	}
	return q, nil
}

// IVSummaries returns daily IV rows of the latest and previous capture dates
func (r *Repository) IVSummaries(ctx context.Context) (*contracts.IVSnapshot, error) {
	snap := &contracts.IVSnapshot{
		Latest:   []contracts.DailyIV{},
		Previous: []contracts.DailyIV{},
	}

	var latest *time.Time
	if err := r.pool.QueryRow(ctx, fmt.Sprintf(`SELECT MAX(capture_date) FROM %s`, r.ivTable())).Scan(&latest); err != nil {
		return nil, fmt.Errorf("latest iv date: %w", err)
	}
	if latest == nil {
		return snap, nil
	}
	snap.Date = *latest

	var prev *time.Time
	if err := r.pool.QueryRow(ctx, fmt.Sprintf(`SELECT MAX(capture_date) FROM %s WHERE capture_date < $1`, r.ivTable()), *latest).Scan(&prev); err != nil {
		return nil, fmt.Errorf("previous iv date: %w", err)
	}

	var err error
	if snap.Latest, err = r.dailyIV(ctx, *latest); err != nil {
		return nil, err
	}
	if prev != nil {
		snap.PrevDate = *prev
		if snap.Previous, err = r.dailyIV(ctx, *prev); err != nil {
			return nil, err
		}
	}
	return snap, nil
}

func (r *Repository) dailyIV(ctx context.Context, date time.Time) ([]contracts.DailyIV, error) {
	query := fmt.Sprintf(`
		SELECT capture_date, symbol, stock_price, atm_iv, atm_dte
		FROM %s
		WHERE capture_date = $1 AND atm_iv IS NOT NULL
		ORDER BY atm_iv DESC, symbol
	`, r.ivTable())

	rows, err := r.pool.Query(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("query daily iv: %w", err)
	}
	defer rows.Close()

	out := []contracts.DailyIV{}
	for rows.Next() {
		var d contracts.DailyIV
		var price *float64
		var dte *int
		if err := rows.Scan(&d.CaptureDate, &d.Symbol, &price, &d.ATMIV, &dte); err != nil {
			return nil, fmt.Errorf("scan daily iv: %w", err)
		}
		if price != nil {
			d.StockPrice = *price
		}
		if dte != nil {
			d.ATMDTE = *dte
		}
		d.Ticker = contracts.TickerFromSymbol(d.Symbol, r.prefix)
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *Repository) collectQuotes(rows pgx.Rows) ([]contracts.ChainQuote, error) {
	defer rows.Close()

	out := []contracts.ChainQuote{}
	for rows.Next() {
		q, err := r.scanQuote(rows)
		if err != nil {
			return nil, fmt.Errorf("scan quote: %w", err)
		}
		out = append(out, *q)
	}
	return out, rows.Err()
}

func (r *Repository) scanQuote(row pgx.Row) (*contracts.ChainQuote, error) {
	var q contracts.ChainQuote
	var expiry *time.Time
	var kind string
	var bid, price *float64
	var oi *int

	err := row.Scan(
		&q.CaptureDate, &q.Symbol, &expiry, &q.DTE, &q.Strike, &kind,
		&q.IV, &bid, &q.Ask, &oi, &q.Volume,
		&price, &q.Delta,
	)
	if err != nil {
		return nil, err
	}

	q.Kind = contracts.OptionKind(kind)
	q.Ticker = contracts.TickerFromSymbol(q.Symbol, r.prefix)
	if expiry != nil {
		q.Expiry = expiry.Format(contracts.DateLayout)
	}
	if bid != nil {
		q.Bid = *bid
	}
	if price != nil {
		q.UnderlyingPrice = *price
	}
	if oi != nil {
		q.OpenInterest = *oi
	}
	return &q, nil
}

// Coverage counts populated columns for a capture date
func (r *Repository) Coverage(ctx context.Context, date time.Time) (*contracts.CoverageCounts, error) {
	query := fmt.Sprintf(`
		SELECT
			COUNT(*),
			COUNT(DISTINCT symbol),
			COUNT(*) FILTER (WHERE implied_volatility IS NOT NULL),
			COUNT(*) FILTER (WHERE bid_price > 0),
			COUNT(*) FILTER (WHERE ask_price > 0),
			COUNT(*) FILTER (WHERE open_interest > 0),
			COUNT(*) FILTER (WHERE delta IS NOT NULL),
			COUNT(*) FILTER (WHERE volume IS NOT NULL)
		FROM %s
		WHERE capture_date = $1
	`, r.chainTable())

	var c contracts.CoverageCounts
	err := r.pool.QueryRow(ctx, query, date).Scan(
		&c.Quotes, &c.Symbols, &c.WithIV, &c.WithBid, &c.WithAsk, &c.WithOI, &c.Delta, &c.Volume,
	)
	if err != nil {
		return nil, fmt.Errorf("query coverage: %w", err)
	}
	return &c, nil
}
