package strategyconfig

import "fmt"

// ValidationError 검증 실패 (프로그램 중단)
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Warning 권장 위반 (경고만)
type Warning struct {
	Code    string
	Message string
}

// Validate checks all required constraints
// 실패 시 error 반환 (프로그램 중단)
func Validate(cfg *Config) error {
	// === Meta ===
	if cfg.Meta.StrategyID == "" {
		return ValidationError{"meta.strategy_id", "required"}
	}

	// === CSP ===
	if cfg.CSP.MaxDTE <= 0 {
		return ValidationError{"csp.max_dte", "must be > 0"}
	}
	if cfg.CSP.TopN <= 0 {
		return ValidationError{"csp.top_n", "must be > 0"}
	}
	if cfg.CSP.MinOpenInterest < 0 {
		return ValidationError{"csp.min_open_interest", "must be >= 0"}
	}
	if cfg.CSP.YieldCap <= 0 {
		return ValidationError{"csp.yield_cap", "must be > 0"}
	}

	// === CC ===
	if cfg.CC.MaxDTE <= 0 {
		return ValidationError{"cc.max_dte", "must be > 0"}
	}
	if cfg.CC.MinOpenInterest < 0 {
		return ValidationError{"cc.min_open_interest", "must be >= 0"}
	}
	if cfg.CC.OTMMinPct < 0 {
		return ValidationError{"cc.otm_min_pct", "must be >= 0"}
	}
	if cfg.CC.OTMMinPct > cfg.CC.OTMMaxPct {
		return ValidationError{"cc.otm_max_pct", "must be >= otm_min_pct"}
	}

	// === Profit ===
	if cfg.Profit.TakeProfitPct <= 0 || cfg.Profit.TakeProfitPct > 100 {
		return ValidationError{"profit.take_profit_pct", "must be in range (0, 100]"}
	}
	if cfg.Profit.ApproachingPct < 0 || cfg.Profit.ApproachingPct >= cfg.Profit.TakeProfitPct {
		return ValidationError{"profit.approaching_pct", "must be in range [0, take_profit_pct)"}
	}
	if cfg.Profit.LossEscalateMultiple <= 0 {
		return ValidationError{"profit.loss_escalate_multiple", "must be > 0"}
	}
	if cfg.Profit.StrikeTolerance <= 0 {
		return ValidationError{"profit.strike_tolerance", "must be > 0"}
	}

	// === Expiry ===
	if cfg.Expiry.AlertDays < 0 {
		return ValidationError{"expiry.alert_days", "must be >= 0"}
	}
	if cfg.Expiry.ImminentDays < 0 || cfg.Expiry.ImminentDays > cfg.Expiry.AlertDays {
		return ValidationError{"expiry.imminent_days", "must be in range [0, alert_days]"}
	}

	// === Plan ===
	if cfg.Plan.CSPTopN < 0 {
		return ValidationError{"plan.csp_top_n", "must be >= 0"}
	}
	if cfg.Plan.ExpiryDays < 0 {
		return ValidationError{"plan.expiry_days", "must be >= 0"}
	}
	if cfg.Plan.SevereLossPct >= 0 {
		return ValidationError{"plan.severe_loss_pct", "must be < 0"}
	}

	// === Capital ===
	if cfg.Capital.ContractShares <= 0 {
		return ValidationError{"capital.contract_shares", "must be > 0"}
	}

	return nil
}

// Warn checks recommended constraints (non-fatal)
func Warn(cfg *Config) []Warning {
	var warnings []Warning

	if cfg.CSP.MinOpenInterest < 10 {
		warnings = append(warnings, Warning{
			Code:    "LOW_OI",
			Message: "csp.min_open_interest < 10: wide spreads, mid price unreliable",
		})
	}

	if cfg.CSP.MaxDTE > 45 || cfg.CC.MaxDTE > 45 {
		warnings = append(warnings, Warning{
			Code:    "LONG_DTE",
			Message: "max_dte > 45: annualized yield overstates weekly wheel income",
		})
	}

	if cfg.Profit.TakeProfitPct < 50 {
		warnings = append(warnings, Warning{
			Code:    "EARLY_TAKE_PROFIT",
			Message: "take_profit_pct < 50: closing before most theta is collected",
		})
	}

	if cfg.Plan.ExpiryDays > cfg.Expiry.AlertDays {
		warnings = append(warnings, Warning{
			Code:    "PLAN_WINDOW",
			Message: "plan.expiry_days > expiry.alert_days: plan can never see those alerts",
		})
	}

	return warnings
}
