package backtest

import "math"

// profitFactorCap is the sentinel reported when a ledger has gross wins
// but zero gross losses.
const profitFactorCap = 999.0

// tradingDaysPerYear annualizes the Sharpe-like ratio on the assumption
// that one trade is roughly one trading-day of exposure.
const tradingDaysPerYear = 252

// Metrics are derived from a trade ledger and capital trajectory. They are
// recomputable at any time and never independently mutated.
//
// RecoveryFactor and CalmarRatio share one formula on purpose: both names
// are part of the reporting surface and downstream consumers read either.
type Metrics struct {
	TotalTrades   int
	WinningTrades int
	LosingTrades  int
	WinRate       float64 // percent

	TotalPnL        float64
	TotalPnLPercent float64
	AverageWin      float64
	AverageLoss     float64 // positive magnitude
	ProfitFactor    float64

	MaxDrawdown        float64
	MaxDrawdownPercent float64

	SharpeRatio    float64
	AvgHoldingDays float64
	Expectancy     float64
	RecoveryFactor float64
	CalmarRatio    float64
}

// ComputeMetrics derives all aggregate metrics from a completed ledger.
// Degenerate denominators resolve to sentinels (profit factor 999 with
// wins and no losses, Sharpe 0 with zero variance), never to errors.
func ComputeMetrics(trades []Trade, endingCapital, startingCapital, maxDrawdownPct float64) Metrics {
	m := Metrics{
		TotalTrades:        len(trades),
		TotalPnL:           endingCapital - startingCapital,
		MaxDrawdownPercent: maxDrawdownPct,
	}
	if startingCapital > 0 {
		m.TotalPnLPercent = m.TotalPnL / startingCapital * 100
		m.MaxDrawdown = maxDrawdownPct / 100 * startingCapital
	}

	var grossWins, grossLosses, holdingSum float64
	returns := make([]float64, 0, len(trades))
	for _, trade := range trades {
		if trade.PnL > 0 {
			m.WinningTrades++
			grossWins += trade.PnL
		} else {
			m.LosingTrades++
			grossLosses += math.Abs(trade.PnL)
		}
		holdingSum += trade.HoldingDays
		returns = append(returns, trade.PnLPercent)
	}

	if m.TotalTrades > 0 {
		m.WinRate = float64(m.WinningTrades) / float64(m.TotalTrades) * 100
		m.AvgHoldingDays = holdingSum / float64(m.TotalTrades)
	}
	if m.WinningTrades > 0 {
		m.AverageWin = grossWins / float64(m.WinningTrades)
	}
	if m.LosingTrades > 0 {
		m.AverageLoss = grossLosses / float64(m.LosingTrades)
	}

	switch {
	case grossLosses > 0:
		m.ProfitFactor = grossWins / grossLosses
	case grossWins > 0:
		m.ProfitFactor = profitFactorCap
	}

	winFrac := m.WinRate / 100
	m.Expectancy = winFrac*m.AverageWin - (1-winFrac)*m.AverageLoss

	m.SharpeRatio = sharpeRatio(returns)

	if maxDrawdownPct > 0 {
		ratio := m.TotalPnLPercent / maxDrawdownPct
		m.RecoveryFactor = ratio
		m.CalmarRatio = ratio
	}

	return m
}

// sharpeRatio is mean/stddev of per-trade percent returns, annualized by
// sqrt(252). Returns 0 when the deviation is zero or undefined.
func sharpeRatio(returns []float64) float64 {
	if len(returns) < 2 {
		return 0
	}

	mean := 0.0
	for _, r := range returns {
		mean += r
	}
	mean /= float64(len(returns))

	variance := 0.0
	for _, r := range returns {
		variance += (r - mean) * (r - mean)
	}
	variance /= float64(len(returns))

	stdDev := math.Sqrt(variance)
	if stdDev == 0 {
		return 0
	}
	return mean / stdDev * math.Sqrt(tradingDaysPerYear)
}
