package contracts

import (
	"fmt"
	"time"
)

// DateLayout is the calendar date format used by positions and reports
const DateLayout = "2006-01-02"

// PositionKind is the obligation type of a held option
type PositionKind string

const (
	KindCC  PositionKind = "CC"
	KindCSP PositionKind = "CSP"
)

// OptionKind maps a position to the contract type it is short
func (k PositionKind) OptionKind() OptionKind {
	if k == KindCSP {
		return OptionPut
	}
	return OptionCall
}

// Position is a held short option
// ⭐ SSOT: 외부 포트폴리오 소스에서 받은 보유 포지션 (읽기 전용)
type Position struct {
	Ticker       string       `json:"ticker" yaml:"ticker" validate:"required"`
	Kind         PositionKind `json:"type" yaml:"type"`
	Strike       float64      `json:"strike" yaml:"strike" validate:"gt=0"`
	Expiry       string       `json:"expiry" yaml:"expiry" validate:"required"`
	Premium      float64      `json:"premium" yaml:"premium"` // total dollars, not per share
	CostPerShare float64      `json:"costPerShare" yaml:"costPerShare" validate:"gte=0"`
	Shares       *int         `json:"shares,omitempty" yaml:"shares" default:"100" validate:"omitempty,gte=0"` // nil = one contract lot
	Collateral   float64      `json:"collateral" yaml:"collateral" validate:"gte=0"`
	SellDate     string       `json:"sellDate" yaml:"sellDate"`
}

// ShareCount returns Shares, 100 when absent. An explicit 0 is kept.
func (p *Position) ShareCount() int {
	if p.Shares == nil {
		return 100
	}
	return *p.Shares
}

// ExpiryDate parses Expiry
func (p *Position) ExpiryDate() (time.Time, error) {
	return ParseDate(p.Expiry)
}

// HoldingDays returns expiry - sellDate in days
func (p *Position) HoldingDays() (int, error) {
	if p.SellDate == "" || p.Expiry == "" {
		return 0, fmt.Errorf("%s: sellDate or expiry missing", p.Ticker)
	}
	sell, err := ParseDate(p.SellDate)
	if err != nil {
		return 0, err
	}
	exp, err := ParseDate(p.Expiry)
	if err != nil {
		return 0, err
	}
	return DaysBetween(sell, exp), nil
}

// Holding is idle equity not covered by a call
type Holding struct {
	Ticker string  `json:"ticker" yaml:"ticker" validate:"required"`
	Shares int     `json:"shares" yaml:"shares" validate:"gte=0"`
	Cost   float64 `json:"cost" yaml:"cost" validate:"gte=0"` // per share
	CanCC  bool    `json:"canCC" yaml:"canCC"`
	Note   string  `json:"note,omitempty" yaml:"note"`
}

// Value returns shares × cost
func (h *Holding) Value() float64 {
	return float64(h.Shares) * h.Cost
}

// Portfolio is the structured record handed over by a position source
// ⭐ SSOT: 코어는 이 구조체에만 의존 (추출 방식 무관)
type Portfolio struct {
	UpdatedAt     string     `json:"updatedAt" yaml:"updatedAt"`
	Cash          *float64   `json:"cash" yaml:"cash" validate:"required,gte=0"`
	CCPositions   []Position `json:"ccPositions" yaml:"ccPositions" validate:"dive"`
	CSPPositions  []Position `json:"cspPositions" yaml:"cspPositions" validate:"dive"`
	IdlePositions []Holding  `json:"idlePositions" yaml:"idlePositions" validate:"dive"`

	// passed through untouched
	ClosedTrades []map[string]interface{} `json:"closedTrades,omitempty" yaml:"closedTrades"`
	WheelCycles  []map[string]interface{} `json:"wheelCycles,omitempty" yaml:"wheelCycles"`

	// Source names the adapter that produced this record
	Source string `json:"-" yaml:"-"`
}

// CashOrZero returns the cash balance
func (p *Portfolio) CashOrZero() float64 {
	if p.Cash == nil {
		return 0
	}
	return *p.Cash
}

// ActivePositions returns CC then CSP positions with Kind set
func (p *Portfolio) ActivePositions() []Position {
	out := make([]Position, 0, len(p.CCPositions)+len(p.CSPPositions))
	for _, pos := range p.CCPositions {
		pos.Kind = KindCC
		out = append(out, pos)
	}
	for _, pos := range p.CSPPositions {
		pos.Kind = KindCSP
		out = append(out, pos)
	}
	return out
}

// CCEligibleTickers returns idle tickers flagged canCC that have no open call.
// Order follows idlePositions, duplicates removed.
func (p *Portfolio) CCEligibleTickers() []string {
	covered := make(map[string]bool, len(p.CCPositions))
	for _, pos := range p.CCPositions {
		covered[pos.Ticker] = true
	}

	var out []string
	seen := make(map[string]bool)
	for _, h := range p.IdlePositions {
		if !h.CanCC || covered[h.Ticker] || seen[h.Ticker] {
			continue
		}
		seen[h.Ticker] = true
		out = append(out, h.Ticker)
	}
	return out
}

// AsOf returns the portfolio date, falling back to now's calendar date
func (p *Portfolio) AsOf(now time.Time) time.Time {
	if d, err := ParseDate(p.UpdatedAt); err == nil {
		return d
	}
	return TruncateDay(now)
}

// ParseDate parses a YYYY-MM-DD string
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

// TruncateDay drops the clock part, keeping the calendar date in UTC
func TruncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns whole calendar days from a to b
func DaysBetween(a, b time.Time) int {
	return int(TruncateDay(b).Sub(TruncateDay(a)).Hours() / 24)
}
