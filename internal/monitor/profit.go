package monitor

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/wonny/aegis-wheel/internal/contracts"
	"github.com/wonny/aegis-wheel/internal/strategyconfig"
	"github.com/wonny/aegis-wheel/pkg/logger"
)

// ProfitTracker marks held short options against the latest snapshot
// ⭐ SSOT: 익절 추적 로직은 여기서만
type ProfitTracker struct {
	reader contracts.SnapshotReader
	cfg    strategyconfig.Profit
	logger *logger.Logger
}

// NewProfitTracker creates a new profit tracker
func NewProfitTracker(reader contracts.SnapshotReader, cfg strategyconfig.Profit, log *logger.Logger) *ProfitTracker {
	return &ProfitTracker{
		reader: reader,
		cfg:    cfg,
		logger: log,
	}
}

// Evaluate returns one alert per position with a usable quote, sorted by profitPct desc.
// Suppressed positions (no entry premium, no quote, no mid) are omitted.
func (t *ProfitTracker) Evaluate(ctx context.Context, positions []contracts.Position, asOf time.Time) ([]contracts.ProfitAlert, error) {
	alerts := []contracts.ProfitAlert{}
	if len(positions) == 0 {
		return alerts, nil
	}

	date, found, err := t.reader.LatestDate(ctx, 0)
	if err != nil {
		return nil, fmt.Errorf("profit tracking: %w", err)
	}
	if !found {
		t.logger.Warn("No snapshot date for profit tracking")
		return alerts, nil
	}

	suppressed := 0
	for _, p := range positions {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("profit tracking: %w", err)
		}
		alert := t.evaluateOne(ctx, p, date, asOf)
		if alert.Signal == contracts.SignalSuppressed {
			suppressed++
			continue
		}
		alerts = append(alerts, alert)
	}

	sort.SliceStable(alerts, func(i, j int) bool {
		return alerts[i].ProfitPct > alerts[j].ProfitPct
	})

	t.logger.WithFields(map[string]interface{}{
		"positions":  len(positions),
		"alerts":     len(alerts),
		"suppressed": suppressed,
	}).Info("Profit tracking completed")

	return alerts, nil
}

// evaluateOne never fails the batch; lookup errors suppress only this position
func (t *ProfitTracker) evaluateOne(ctx context.Context, p contracts.Position, date, asOf time.Time) contracts.ProfitAlert {
	suppressed := contracts.ProfitAlert{Ticker: p.Ticker, Kind: p.Kind, Signal: contracts.SignalSuppressed}

	if p.Premium <= 0 {
		return suppressed
	}

	expiry, err := p.ExpiryDate()
	if err != nil {
		t.logger.WithError(err).WithField("ticker", p.Ticker).Warn("Skipping position with malformed expiry")
		return suppressed
	}
	targetDTE := contracts.DaysBetween(asOf, expiry)
	if targetDTE < 1 {
		targetDTE = 1
	}

	q, err := t.reader.FindContract(ctx, date, p.Ticker, p.Kind.OptionKind(), p.Strike, targetDTE, t.cfg.StrikeTolerance)
	if err != nil {
		t.logger.WithError(err).WithField("ticker", p.Ticker).Warn("Contract lookup failed, skipping position")
		return suppressed
	}
	if q == nil {
		t.logger.WithFields(map[string]interface{}{
			"ticker": p.Ticker,
			"type":   p.Kind,
			"strike": p.Strike,
		}).Debug("No matching contract")
		return suppressed
	}

	mid := q.Mid()
	if mid <= 0 {
		return suppressed
	}

	// 권리금은 총액($570), 옵션 가격은 주당($5.70)
	entryPerShare := p.Premium / 100
	profitPct := (entryPerShare - mid) / entryPerShare * 100
	signal, message := ClassifyProfit(profitPct, t.cfg)

	alert := contracts.ProfitAlert{
		Ticker:       p.Ticker,
		Kind:         p.Kind,
		Strike:       p.Strike,
		Expiry:       p.Expiry,
		EntryPremium: p.Premium,
		CurrentValue: mid * 100,
		ProfitPct:    profitPct,
		Signal:       signal,
		Message:      message,
	}
	if q.UnderlyingPrice > 0 {
		price := q.UnderlyingPrice
		alert.CurrentPrice = &price
	}
	return alert
}

// ClassifyProfit maps profitPct to a signal and message.
// >= take_profit: take_profit, >= approaching: approaching, >= 0: holding, < 0: underwater.
func ClassifyProfit(profitPct float64, cfg strategyconfig.Profit) (contracts.ProfitSignal, string) {
	switch {
	case profitPct >= cfg.TakeProfitPct:
		return contracts.SignalTakeProfit,
			fmt.Sprintf("Reached %.0f%% of max profit, close and redeploy", profitPct)
	case profitPct >= cfg.ApproachingPct:
		return contracts.SignalApproaching,
			fmt.Sprintf("Approaching target (%.0f%%), keep holding", profitPct)
	case profitPct < 0:
		loss := math.Abs(profitPct)
		multiple := loss / 100
		if multiple >= cfg.LossEscalateMultiple {
			return contracts.SignalUnderwater,
				fmt.Sprintf("Loss %.0f%% (%.1fx premium), evaluate stop-loss", loss, multiple)
		}
		return contracts.SignalUnderwater,
			fmt.Sprintf("Down %.0f%%, keep watching", loss)
	default:
		return contracts.SignalHolding,
			fmt.Sprintf("Profit %.0f%%, keep holding", profitPct)
	}
}
