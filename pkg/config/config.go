// Package config loads the lab configuration from a JSON file plus
// environment overrides (.env via godotenv) and converts it into the
// typed settings the simulator and optimizer consume.
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/ducminhle1904/futures-strategy-lab/internal/backtest"
	"github.com/ducminhle1904/futures-strategy-lab/internal/strategy"
)

// Config is the on-disk configuration shape. Zero-valued fields fall back
// to the library defaults when converted.
type Config struct {
	Symbol   string `json:"symbol"`
	Interval string `json:"interval"`

	Data struct {
		Source   string `json:"source"` // "csv" or "bybit"
		File     string `json:"file"`
		Category string `json:"category"`
		Limit    int    `json:"limit"`
	} `json:"data"`

	Contract struct {
		LotSize      float64 `json:"lot_size"`
		MarginPerLot float64 `json:"margin_per_lot"`
	} `json:"contract"`

	Simulation struct {
		InitialCapital      float64  `json:"initial_capital"`
		PositionSize        int      `json:"position_size"`
		MaxPositions        int      `json:"max_positions"`
		RiskPerTrade        float64  `json:"risk_per_trade"`
		UseStopLoss         *bool    `json:"use_stop_loss"`
		UseTrailingStop     *bool    `json:"use_trailing_stop"`
		TrailingStopPercent float64  `json:"trailing_stop_percent"`
		Commission          *float64 `json:"commission"`
		Slippage            *float64 `json:"slippage"`
	} `json:"simulation"`

	Strategy struct {
		RSIPeriod        int     `json:"rsi_period"`
		RSIOverbought    float64 `json:"rsi_overbought"`
		RSIOversold      float64 `json:"rsi_oversold"`
		MACDFast         int     `json:"macd_fast"`
		MACDSlow         int     `json:"macd_slow"`
		MACDSignal       int     `json:"macd_signal"`
		FastMAPeriod     int     `json:"fast_ma_period"`
		SlowMAPeriod     int     `json:"slow_ma_period"`
		VolatilityWindow int     `json:"volatility_window"`
		VolumeThreshold  float64 `json:"volume_threshold"`
	} `json:"strategy"`

	Optimizer struct {
		Generations int   `json:"generations"`
		Seed        int64 `json:"seed"`
	} `json:"optimizer"`

	// Populated from the environment, never from the JSON file.
	BybitAPIKey    string `json:"-"`
	BybitAPISecret string `json:"-"`
	BybitTestnet   bool   `json:"-"`
}

// Load reads the JSON file, overlays environment credentials and
// validates the result. A missing .env file is not an error.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}
	if err := json.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	_ = godotenv.Load()
	cfg.BybitAPIKey = os.Getenv("BYBIT_API_KEY")
	cfg.BybitAPISecret = os.Getenv("BYBIT_API_SECRET")
	cfg.BybitTestnet = os.Getenv("BYBIT_TESTNET") == "true"

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations the simulator cannot run.
func (c *Config) Validate() error {
	if c.Symbol == "" {
		return fmt.Errorf("symbol is required")
	}
	switch c.Data.Source {
	case "csv":
		if c.Data.File == "" {
			return fmt.Errorf("data.file is required for the csv source")
		}
	case "bybit", "":
	default:
		return fmt.Errorf("unknown data source %q", c.Data.Source)
	}
	if c.Simulation.InitialCapital < 0 {
		return fmt.Errorf("simulation.initial_capital must not be negative")
	}
	if c.Simulation.RiskPerTrade < 0 || c.Simulation.RiskPerTrade > 100 {
		return fmt.Errorf("simulation.risk_per_trade must be within [0, 100]")
	}
	if p := c.StrategyParams(); !p.Valid() {
		return fmt.Errorf("strategy periods violate fast < slow")
	}
	return nil
}

// SimulationConfig converts the simulation section, falling back to the
// engine defaults for anything left unset.
func (c *Config) SimulationConfig() backtest.Config {
	out := backtest.DefaultConfig()
	s := c.Simulation
	if s.InitialCapital > 0 {
		out.InitialCapital = s.InitialCapital
	}
	if s.PositionSize > 0 {
		out.PositionSize = s.PositionSize
	}
	if s.MaxPositions > 0 {
		out.MaxPositions = s.MaxPositions
	}
	if s.RiskPerTrade > 0 {
		out.RiskPerTrade = s.RiskPerTrade
	}
	if s.UseStopLoss != nil {
		out.UseStopLoss = *s.UseStopLoss
	}
	if s.UseTrailingStop != nil {
		out.UseTrailingStop = *s.UseTrailingStop
	}
	if s.TrailingStopPercent > 0 {
		out.TrailingStopPercent = s.TrailingStopPercent
	}
	if s.Commission != nil {
		out.Commission = *s.Commission
	}
	if s.Slippage != nil {
		out.Slippage = *s.Slippage
	}
	return out
}

// StrategyParams converts the strategy section, falling back to the
// default parameter set for anything left unset.
func (c *Config) StrategyParams() strategy.Params {
	p := strategy.DefaultParams()
	s := c.Strategy
	if s.RSIPeriod > 0 {
		p.RSIPeriod = s.RSIPeriod
	}
	if s.RSIOverbought > 0 {
		p.RSIOverbought = s.RSIOverbought
	}
	if s.RSIOversold > 0 {
		p.RSIOversold = s.RSIOversold
	}
	if s.MACDFast > 0 {
		p.MACDFast = s.MACDFast
	}
	if s.MACDSlow > 0 {
		p.MACDSlow = s.MACDSlow
	}
	if s.MACDSignal > 0 {
		p.MACDSignal = s.MACDSignal
	}
	if s.FastMAPeriod > 0 {
		p.FastMAPeriod = s.FastMAPeriod
	}
	if s.SlowMAPeriod > 0 {
		p.SlowMAPeriod = s.SlowMAPeriod
	}
	if s.VolatilityWindow > 0 {
		p.VolatilityWindow = s.VolatilityWindow
	}
	if s.VolumeThreshold > 0 {
		p.VolumeThreshold = s.VolumeThreshold
	}
	return p
}

// Generations returns the optimizer generation count with its default.
func (c *Config) Generations() int {
	if c.Optimizer.Generations > 0 {
		return c.Optimizer.Generations
	}
	return 15
}
