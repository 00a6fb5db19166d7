// Package backtest simulates rule-based strategies bar by bar over a price
// series and derives performance metrics from the resulting trade ledger.
package backtest

import (
	"time"

	"github.com/ducminhle1904/futures-strategy-lab/internal/strategy"
)

// Direction of a position or trade.
type Direction int

const (
	Long Direction = iota
	Short
)

func (d Direction) String() string {
	if d == Short {
		return "SHORT"
	}
	return "LONG"
}

// ExitReason records why a position was closed.
type ExitReason string

const (
	ExitTarget    ExitReason = "TARGET"
	ExitStopLoss  ExitReason = "STOP_LOSS"
	ExitSignal    ExitReason = "SIGNAL"
	ExitEndOfData ExitReason = "END_OF_DATA"
)

// Position is an open trade. It is owned exclusively by the engine's
// in-flight position set and mutated in place each bar (trailing-stop
// ratchet) until it exits and becomes a Trade.
type Position struct {
	Symbol       string
	Direction    Direction
	EntryDate    time.Time
	EntryPrice   float64
	Quantity     float64
	Lots         float64
	StopLoss     float64
	Target       float64
	TrailingStop float64
}

// Trade is a closed trade, immutable once appended to the ledger.
type Trade struct {
	Symbol      string
	Direction   Direction
	EntryDate   time.Time
	EntryPrice  float64
	ExitDate    time.Time
	ExitPrice   float64
	Quantity    float64
	PnL         float64 // net of round-trip commission
	PnLPercent  float64 // percent of entry notional
	Commission  float64 // round trip (2x per-side commission)
	ExitReason  ExitReason
	HoldingDays float64
}

// EquityPoint is one sample of the mark-to-market equity curve.
type EquityPoint struct {
	Date     time.Time
	Equity   float64
	Drawdown float64 // percent below the running peak
}

// Config holds the risk and execution parameters of one simulation run.
type Config struct {
	InitialCapital      float64
	PositionSize        int // maximum lots per position
	MaxPositions        int
	RiskPerTrade        float64 // percent of capital risked per trade
	UseStopLoss         bool
	UseTrailingStop     bool
	TrailingStopPercent float64
	Commission          float64 // flat, per side
	Slippage            float64 // price points, applied against the trader
}

// DefaultConfig returns the baseline simulation configuration.
func DefaultConfig() Config {
	return Config{
		InitialCapital:      100000,
		PositionSize:        10,
		MaxPositions:        3,
		RiskPerTrade:        2.0,
		UseStopLoss:         true,
		UseTrailingStop:     true,
		TrailingStopPercent: 2.0,
		Commission:          20,
		Slippage:            0.05,
	}
}

// Result aggregates everything one simulation run produced.
type Result struct {
	Symbol         string
	Config         Config
	Params         strategy.Params
	StartDate      time.Time
	EndDate        time.Time
	Trades         []Trade
	EquityCurve    []EquityPoint
	MonthlyReturns map[string]float64 // "2024-01" -> percent return
	Metrics        Metrics
	FinalCapital   float64
}
