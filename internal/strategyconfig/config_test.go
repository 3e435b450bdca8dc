package strategyconfig

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_Valid(t *testing.T) {
	cfg := Default()
	require.NoError(t, Validate(cfg))
	assert.Empty(t, Warn(cfg))
}

func TestLoad(t *testing.T) {
	path := "../../config/strategy/wheel.yaml"
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Skip("config file not found")
	}

	cfg, yamlData, err := Load(path)
	require.NoError(t, err)
	assert.NotEmpty(t, yamlData)

	// 파일 = 기본값
	assert.Equal(t, Default(), cfg)

	hash, err := Hash(cfg)
	require.NoError(t, err)
	assert.Len(t, hash, 64)

	defHash, _ := Hash(Default())
	assert.Equal(t, defHash, hash)
}

func TestParse_PartialOverride(t *testing.T) {
	cfg, err := Parse([]byte("csp:\n  top_n: 5\nprofit:\n  take_profit_pct: 75\n"))
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.CSP.TopN)
	assert.Equal(t, 75.0, cfg.Profit.TakeProfitPct)
	// 나머지는 기본값 유지
	assert.Equal(t, 20, cfg.CSP.MinOpenInterest)
	assert.Equal(t, 60.0, cfg.Profit.ApproachingPct)
}

func TestParse_UnknownField(t *testing.T) {
	_, err := Parse([]byte("csp:\n  topn: 5\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "topn")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		mut   func(c *Config)
		field string
	}{
		{"missing id", func(c *Config) { c.Meta.StrategyID = "" }, "meta.strategy_id"},
		{"csp dte", func(c *Config) { c.CSP.MaxDTE = 0 }, "csp.max_dte"},
		{"csp top n", func(c *Config) { c.CSP.TopN = 0 }, "csp.top_n"},
		{"yield cap", func(c *Config) { c.CSP.YieldCap = 0 }, "csp.yield_cap"},
		{"cc band", func(c *Config) { c.CC.OTMMinPct = 9 }, "cc.otm_max_pct"},
		{"take profit range", func(c *Config) { c.Profit.TakeProfitPct = 120 }, "profit.take_profit_pct"},
		{"approaching above target", func(c *Config) { c.Profit.ApproachingPct = 80 }, "profit.approaching_pct"},
		{"tolerance", func(c *Config) { c.Profit.StrikeTolerance = 0 }, "profit.strike_tolerance"},
		{"imminent window", func(c *Config) { c.Expiry.ImminentDays = 8 }, "expiry.imminent_days"},
		{"severe loss sign", func(c *Config) { c.Plan.SevereLossPct = 150 }, "plan.severe_loss_pct"},
		{"contract shares", func(c *Config) { c.Capital.ContractShares = 0 }, "capital.contract_shares"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mut(cfg)

			err := Validate(cfg)
			require.Error(t, err)

			var ve ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}

func TestWarn(t *testing.T) {
	cfg := Default()
	cfg.CSP.MinOpenInterest = 5
	cfg.Profit.TakeProfitPct = 40
	cfg.Profit.ApproachingPct = 30

	codes := map[string]bool{}
	for _, w := range Warn(cfg) {
		codes[w.Code] = true
	}
	assert.True(t, codes["LOW_OI"])
	assert.True(t, codes["EARLY_TAKE_PROFIT"])
	assert.False(t, codes["LONG_DTE"])
}

func TestHash_ChangesWithThreshold(t *testing.T) {
	a, err := Hash(Default())
	require.NoError(t, err)

	cfg := Default()
	cfg.CSP.TopN = 11
	b, err := Hash(cfg)
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestLoadOrDefault(t *testing.T) {
	cfg, err := LoadOrDefault("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	_, err = LoadOrDefault(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "s.yaml")
	require.NoError(t, os.WriteFile(path, []byte("expiry:\n  alert_days: 5\n"), 0o644))
	cfg, err = LoadOrDefault(path)
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Expiry.AlertDays)
}

func TestParse_Empty(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}
