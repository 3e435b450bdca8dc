package strategyconfig

// Config holds every threshold the decision engine applies
// ⭐ SSOT: 엔진 임계값은 여기서만 (코드 상수 금지)
type Config struct {
	Meta    Meta    `yaml:"meta" json:"meta"`
	CSP     CSP     `yaml:"csp" json:"csp"`
	CC      CC      `yaml:"cc" json:"cc"`
	Profit  Profit  `yaml:"profit" json:"profit"`
	Expiry  Expiry  `yaml:"expiry" json:"expiry"`
	Plan    Plan    `yaml:"plan" json:"plan"`
	Capital Capital `yaml:"capital" json:"capital"`
}

// Meta 메타 정보
type Meta struct {
	StrategyID string `yaml:"strategy_id" json:"strategy_id"`
	Version    string `yaml:"version" json:"version"`
}

// CSP cash-secured put scan
type CSP struct {
	MaxDTE          int     `yaml:"max_dte" json:"max_dte"`
	TopN            int     `yaml:"top_n" json:"top_n"`
	MinOpenInterest int     `yaml:"min_open_interest" json:"min_open_interest"`
	YieldCap        float64 `yaml:"yield_cap" json:"yield_cap"` // annYield 상한 (%)
}

// CC covered call scan
type CC struct {
	MaxDTE          int     `yaml:"max_dte" json:"max_dte"`
	MinOpenInterest int     `yaml:"min_open_interest" json:"min_open_interest"`
	OTMMinPct       float64 `yaml:"otm_min_pct" json:"otm_min_pct"`
	OTMMaxPct       float64 `yaml:"otm_max_pct" json:"otm_max_pct"`
}

// Profit target tracking
type Profit struct {
	TakeProfitPct        float64 `yaml:"take_profit_pct" json:"take_profit_pct"`
	ApproachingPct       float64 `yaml:"approaching_pct" json:"approaching_pct"`
	LossEscalateMultiple float64 `yaml:"loss_escalate_multiple" json:"loss_escalate_multiple"`
	StrikeTolerance      float64 `yaml:"strike_tolerance" json:"strike_tolerance"`
}

// Expiry alert windows (days)
type Expiry struct {
	AlertDays    int `yaml:"alert_days" json:"alert_days"`
	ImminentDays int `yaml:"imminent_days" json:"imminent_days"`
}

// Plan generation
type Plan struct {
	CSPTopN       int     `yaml:"csp_top_n" json:"csp_top_n"`
	ExpiryDays    int     `yaml:"expiry_days" json:"expiry_days"`
	SevereLossPct float64 `yaml:"severe_loss_pct" json:"severe_loss_pct"` // 음수
}

// Capital efficiency
type Capital struct {
	ContractShares int `yaml:"contract_shares" json:"contract_shares"` // CC 1계약 주식 수
}

// Default returns the built-in thresholds
func Default() *Config {
	return &Config{
		Meta: Meta{
			StrategyID: "wheel_default",
			Version:    "1",
		},
		CSP: CSP{
			MaxDTE:          10,
			TopN:            10,
			MinOpenInterest: 20,
			YieldCap:        300,
		},
		CC: CC{
			MaxDTE:          10,
			MinOpenInterest: 10,
			OTMMinPct:       2,
			OTMMaxPct:       8,
		},
		Profit: Profit{
			TakeProfitPct:        80,
			ApproachingPct:       60,
			LossEscalateMultiple: 1.5,
			StrikeTolerance:      0.5,
		},
		Expiry: Expiry{
			AlertDays:    7,
			ImminentDays: 2,
		},
		Plan: Plan{
			CSPTopN:       3,
			ExpiryDays:    3,
			SevereLossPct: -150,
		},
		Capital: Capital{
			ContractShares: 100,
		},
	}
}
