package contracts

import "github.com/wonny/aegis-wheel/pkg/round"

// ProfitSignal classifies a held position against its profit target
type ProfitSignal string

const (
	SignalTakeProfit  ProfitSignal = "take_profit"
	SignalApproaching ProfitSignal = "approaching"
	SignalHolding     ProfitSignal = "holding"
	SignalUnderwater  ProfitSignal = "underwater"
	// SignalSuppressed marks a position with no usable quote. Never emitted.
	SignalSuppressed ProfitSignal = "suppressed"
)

// ProfitAlert is the profit-target status of one held position
type ProfitAlert struct {
	Ticker       string       `json:"ticker"`
	Kind         PositionKind `json:"type"`
	Strike       float64      `json:"strike"`
	Expiry       string       `json:"expiry"`
	EntryPremium float64      `json:"entryPremium"`
	CurrentValue float64      `json:"currentValue"` // mid × 100
	ProfitPct    float64      `json:"profitPct"`
	CurrentPrice *float64     `json:"currentPrice"`
	Signal       ProfitSignal `json:"signal"`
	Message      string       `json:"message"`
}

// Rounded returns a copy with report precision applied
func (a ProfitAlert) Rounded() ProfitAlert {
	a.CurrentValue = round.Money(a.CurrentValue)
	a.ProfitPct = round.Pct(a.ProfitPct)
	if a.CurrentPrice != nil {
		v := round.Price(*a.CurrentPrice)
		a.CurrentPrice = &v
	}
	return a
}

// ExpiryStatus classifies days left on a position
type ExpiryStatus string

const (
	ExpiryExpired     ExpiryStatus = "expired"
	ExpiryImminent    ExpiryStatus = "imminent"
	ExpiryApproaching ExpiryStatus = "approaching"
)

// Urgency of an alert or plan item
type Urgency string

const (
	UrgencyHigh   Urgency = "high"
	UrgencyMedium Urgency = "medium"
	UrgencyLow    Urgency = "low"
)

// ExpiryAlert is raised for positions expiring within the alert window
type ExpiryAlert struct {
	Ticker   string       `json:"ticker"`
	Kind     PositionKind `json:"type"`
	Strike   float64      `json:"strike"`
	Expiry   string       `json:"expiry"`
	DTE      int          `json:"dte"`
	Premium  float64      `json:"premium"`
	Status   ExpiryStatus `json:"status"`
	Urgency  Urgency      `json:"urgency"`
	Action   string       `json:"action"`
	NextStep string       `json:"nextStep"`
}
