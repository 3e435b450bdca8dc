package contracts

import (
	"context"
	"time"
)

// SnapshotReader reads the options-chain snapshot store.
// Empty results are empty slices; errors mean the store failed.
// ⭐ SSOT: 스냅샷 저장소 조회 인터페이스
type SnapshotReader interface {
	// LatestDate returns the newest capture date with a quote of dte <= maxDTE.
	// maxDTE <= 0 means no ceiling.
	LatestDate(ctx context.Context, maxDTE int) (time.Time, bool, error)
	QueryPuts(ctx context.Context, date time.Time, maxDTE, minOI int) ([]ChainQuote, error)
	// QueryCallsForTickers returns calls grouped by ticker, each group ordered by bid/strike desc
	QueryCallsForTickers(ctx context.Context, date time.Time, tickers []string, maxDTE int) ([]ChainQuote, error)
	FindContract(ctx context.Context, date time.Time, ticker string, kind OptionKind, strike float64, targetDTE int, tolerance float64) (*ChainQuote, error)
	IVSummaries(ctx context.Context) (*IVSnapshot, error)
}

// PortfolioSource loads the position record from a named adapter
// ⭐ SSOT: 포지션 소스 어댑터 인터페이스
type PortfolioSource interface {
	Name() string
	Load(ctx context.Context) (*Portfolio, error)
}

// ReportSink receives a finished report
type ReportSink interface {
	Write(ctx context.Context, report *DecisionReport, data []byte) error
}
