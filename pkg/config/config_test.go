package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ducminhle1904/futures-strategy-lab/internal/backtest"
	"github.com/ducminhle1904/futures-strategy-lab/internal/strategy"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_DefaultsFillGaps(t *testing.T) {
	path := writeConfig(t, `{"symbol": "BTCUSDT", "interval": "D"}`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, backtest.DefaultConfig(), cfg.SimulationConfig())
	assert.Equal(t, strategy.DefaultParams(), cfg.StrategyParams())
	assert.Equal(t, 15, cfg.Generations())
}

func TestLoad_Overrides(t *testing.T) {
	path := writeConfig(t, `{
		"symbol": "ETHUSDT",
		"interval": "240",
		"simulation": {"initial_capital": 50000, "commission": 5, "use_trailing_stop": false},
		"strategy": {"rsi_period": 21, "slow_ma_period": 100},
		"optimizer": {"generations": 30}
	}`)

	cfg, err := Load(path)
	require.NoError(t, err)

	sim := cfg.SimulationConfig()
	assert.Equal(t, 50000.0, sim.InitialCapital)
	assert.Equal(t, 5.0, sim.Commission)
	assert.False(t, sim.UseTrailingStop)
	assert.True(t, sim.UseStopLoss) // untouched default

	params := cfg.StrategyParams()
	assert.Equal(t, 21, params.RSIPeriod)
	assert.Equal(t, 100, params.SlowMAPeriod)
	assert.Equal(t, 26, params.MACDSlow) // untouched default

	assert.Equal(t, 30, cfg.Generations())
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"missing symbol", `{"interval": "D"}`},
		{"csv without file", `{"symbol": "BTCUSDT", "data": {"source": "csv"}}`},
		{"unknown source", `{"symbol": "BTCUSDT", "data": {"source": "ftp"}}`},
		{"bad risk", `{"symbol": "BTCUSDT", "simulation": {"risk_per_trade": 150}}`},
		{"fast >= slow", `{"symbol": "BTCUSDT", "strategy": {"fast_ma_period": 60, "slow_ma_period": 50}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/config.json")
	assert.Error(t, err)
}
