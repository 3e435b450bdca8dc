package contracts

import (
	"strings"
	"time"
)

// OptionKind is the contract type stored by the feed
type OptionKind string

const (
	OptionPut  OptionKind = "PUT"
	OptionCall OptionKind = "CALL"
)

// ChainQuote is one options contract observation on a capture date
// ⭐ SSOT: 피드가 만든 체인 스냅샷 행 (읽기 전용)
type ChainQuote struct {
	CaptureDate     time.Time  `json:"captureDate"`
	Symbol          string     `json:"symbol"` // feed symbol, e.g. "US.PDD"
	Ticker          string     `json:"ticker"` // prefix stripped
	Expiry          string     `json:"expiry,omitempty"`
	DTE             int        `json:"dte"`
	Strike          float64    `json:"strike"`
	Kind            OptionKind `json:"optionType"`
	IV              *float64   `json:"iv,omitempty"`
	Bid             float64    `json:"bid"`
	Ask             *float64   `json:"ask,omitempty"`
	OpenInterest    int        `json:"openInterest"`
	Volume          *int       `json:"volume,omitempty"`
	UnderlyingPrice float64    `json:"stockPrice"`
	Delta           *float64   `json:"delta,omitempty"`
}

// Mid returns (bid+ask)/2 when an ask is quoted, the bid otherwise
func (q *ChainQuote) Mid() float64 {
	if q.Ask != nil && *q.Ask > 0 {
		return (q.Bid + *q.Ask) / 2
	}
	return q.Bid
}

// AskOrZero returns the ask, 0 when missing
func (q *ChainQuote) AskOrZero() float64 {
	if q.Ask == nil {
		return 0
	}
	return *q.Ask
}

// VolumeOrZero returns the volume, 0 when missing
func (q *ChainQuote) VolumeOrZero() int {
	if q.Volume == nil {
		return 0
	}
	return *q.Volume
}

// IVOrZero returns the implied volatility, 0 when missing
func (q *ChainQuote) IVOrZero() float64 {
	if q.IV == nil {
		return 0
	}
	return *q.IV
}

// DailyIV is one at-the-money IV summary row
type DailyIV struct {
	CaptureDate time.Time `json:"captureDate"`
	Symbol      string    `json:"symbol"`
	Ticker      string    `json:"ticker"`
	StockPrice  float64   `json:"stockPrice"`
	ATMIV       float64   `json:"atmIv"`
	ATMDTE      int       `json:"atmDte"`
}

// IVSnapshot holds the two most recent daily IV capture dates
type IVSnapshot struct {
	Date     time.Time `json:"date"`
	Latest   []DailyIV `json:"latest"`
	PrevDate time.Time `json:"prevDate"`
	Previous []DailyIV `json:"previous"`
}

// HasPrevious reports whether a previous capture date exists
func (s *IVSnapshot) HasPrevious() bool {
	return !s.PrevDate.IsZero()
}

// TickerFromSymbol strips the feed prefix ("US.PDD" -> "PDD")
func TickerFromSymbol(symbol, prefix string) string {
	return strings.TrimPrefix(symbol, prefix)
}

// SymbolFromTicker adds the feed prefix ("PDD" -> "US.PDD")
func SymbolFromTicker(ticker, prefix string) string {
	if strings.HasPrefix(ticker, prefix) {
		return ticker
	}
	return prefix + ticker
}
