package monitor

import (
	"fmt"
	"sort"
	"time"

	"github.com/wonny/aegis-wheel/internal/contracts"
	"github.com/wonny/aegis-wheel/internal/strategyconfig"
)

// Wheel continuation guidance after expiry
const (
	nextStepCSPExpired = "If assigned, sell a covered call right away; if it expired OTM, keep selling puts"
	nextStepCCExpired  = "If called away, sell a put to re-enter (or exit); if it expired OTM, keep selling calls"
	nextStepImminent   = "Watch price vs strike intraday, prepare the post-expiry move"
	nextStepHold       = "Keep holding, watch for the take-profit exit"
)

// EvaluateExpiry returns alerts for positions expiring within cfg.AlertDays, sorted by dte asc.
// Positions with a malformed expiry are skipped.
func EvaluateExpiry(positions []contracts.Position, asOf time.Time, cfg strategyconfig.Expiry) []contracts.ExpiryAlert {
	alerts := []contracts.ExpiryAlert{}

	for _, p := range positions {
		expiry, err := p.ExpiryDate()
		if err != nil {
			continue
		}
		dte := contracts.DaysBetween(asOf, expiry)
		if dte > cfg.AlertDays {
			continue
		}
		alerts = append(alerts, ClassifyExpiry(p, dte, cfg))
	}

	sort.SliceStable(alerts, func(i, j int) bool {
		return alerts[i].DTE < alerts[j].DTE
	})
	return alerts
}

// ClassifyExpiry builds the alert for a position dte days from expiry
func ClassifyExpiry(p contracts.Position, dte int, cfg strategyconfig.Expiry) contracts.ExpiryAlert {
	a := contracts.ExpiryAlert{
		Ticker:  p.Ticker,
		Kind:    p.Kind,
		Strike:  p.Strike,
		Expiry:  p.Expiry,
		DTE:     dte,
		Premium: p.Premium,
	}

	switch {
	case dte <= 0:
		a.Status = contracts.ExpiryExpired
		a.Urgency = contracts.UrgencyHigh
		a.Action = "Expired, check assignment"
		if p.Kind == contracts.KindCSP {
			a.NextStep = nextStepCSPExpired
		} else {
			a.NextStep = nextStepCCExpired
		}
	case dte <= cfg.ImminentDays:
		a.Status = contracts.ExpiryImminent
		a.Urgency = contracts.UrgencyHigh
		a.Action = fmt.Sprintf("Expires in %d days, prepare next step", dte)
		a.NextStep = nextStepImminent
	default:
		a.Status = contracts.ExpiryApproaching
		a.Urgency = contracts.UrgencyMedium
		a.Action = fmt.Sprintf("Expires in %d days", dte)
		a.NextStep = nextStepHold
	}
	return a
}
