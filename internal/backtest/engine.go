package backtest

import (
	"fmt"
	"math"

	"github.com/ducminhle1904/futures-strategy-lab/internal/strategy"
	"github.com/ducminhle1904/futures-strategy-lab/pkg/types"
)

// Confidence a non-strong directional call must reach before the engine
// opens a position, and the margin headroom an entry must leave.
const (
	entryConfidenceFloor = 70.0
	marginBuffer         = 1.2
	equityCurveTargetLen = 500
)

// Engine runs one strategy configuration over a price series. Each Engine
// is single-use state for one Run; construct a new one per simulation.
type Engine struct {
	cfg      Config
	contract types.Contract
	params   strategy.Params

	capital    float64
	usedMargin float64
	positions  []*Position

	trades      []Trade
	equityCurve []EquityPoint
	peakEquity  float64
	maxDDPct    float64
	maxDDAbs    float64
}

// NewEngine creates an engine for the given config, instrument and
// strategy parameters.
func NewEngine(cfg Config, contract types.Contract, params strategy.Params) *Engine {
	return &Engine{
		cfg:      cfg,
		contract: contract,
		params:   params,
	}
}

// Run simulates the series bar by bar and returns the completed result.
// A series shorter than the strategy warm-up window is a fatal input
// error: no partial result is produced.
func (e *Engine) Run(series types.PriceSeries) (*Result, error) {
	if err := series.Validate(); err != nil {
		return nil, fmt.Errorf("invalid price series: %w", err)
	}

	minBars := e.params.MinBars()
	if len(series) < minBars {
		return nil, fmt.Errorf("insufficient history: %d bars, need at least %d for indicator warm-up", len(series), minBars)
	}

	e.capital = e.cfg.InitialCapital
	e.peakEquity = e.cfg.InitialCapital
	e.positions = e.positions[:0]
	e.trades = e.trades[:0]
	e.equityCurve = e.equityCurve[:0]

	sampleEvery := len(series) / equityCurveTargetLen
	if sampleEvery < 1 {
		sampleEvery = 1
	}

	for i := minBars; i < len(series); i++ {
		bar := series[i]

		e.updateTrailingStops(bar.Close)
		e.resolveExits(bar)

		if len(e.positions) < e.cfg.MaxPositions {
			e.tryEnter(series[:i+1], bar)
		}

		if (i-minBars)%sampleEvery == 0 && i != len(series)-1 {
			e.sampleEquity(bar)
		} else {
			e.trackDrawdown(bar.Close)
		}
	}

	e.closeAll(series[len(series)-1])
	e.sampleEquity(series[len(series)-1])

	result := &Result{
		Symbol:         e.contract.Symbol,
		Config:         e.cfg,
		Params:         e.params,
		StartDate:      series[0].Timestamp,
		EndDate:        series[len(series)-1].Timestamp,
		Trades:         e.trades,
		EquityCurve:    e.equityCurve,
		MonthlyReturns: monthlyReturns(e.equityCurve),
		FinalCapital:   e.capital,
	}
	result.Metrics = ComputeMetrics(e.trades, e.capital, e.cfg.InitialCapital, e.maxDDPct)
	result.Metrics.MaxDrawdown = e.maxDDAbs
	return result, nil
}

// updateTrailingStops ratchets the trailing stop toward price for every
// position sitting on unrealized profit. The stop only ever tightens.
func (e *Engine) updateTrailingStops(price float64) {
	if !e.cfg.UseTrailingStop {
		return
	}
	for _, pos := range e.positions {
		if pos.Direction == Long && price > pos.EntryPrice {
			candidate := price * (1 - e.cfg.TrailingStopPercent/100)
			pos.TrailingStop = math.Max(pos.TrailingStop, candidate)
		} else if pos.Direction == Short && price < pos.EntryPrice {
			candidate := price * (1 + e.cfg.TrailingStopPercent/100)
			if pos.TrailingStop == 0 {
				pos.TrailingStop = candidate
			} else {
				pos.TrailingStop = math.Min(pos.TrailingStop, candidate)
			}
		}
	}
}

// resolveExits closes every open position whose exit condition matched on
// this bar. Precedence, first match wins: fixed stop, trailing stop,
// target. Stop fills are degraded by slippage; target fills are exact.
func (e *Engine) resolveExits(bar types.PriceBar) {
	remaining := e.positions[:0]
	for _, pos := range e.positions {
		exitPrice, reason, matched := e.checkExit(pos, bar.Close)
		if matched {
			e.closePosition(pos, bar, exitPrice, reason)
		} else {
			remaining = append(remaining, pos)
		}
	}
	e.positions = remaining
}

func (e *Engine) checkExit(pos *Position, price float64) (float64, ExitReason, bool) {
	if pos.Direction == Long {
		if e.cfg.UseStopLoss && pos.StopLoss > 0 && price <= pos.StopLoss {
			return pos.StopLoss - e.cfg.Slippage, ExitStopLoss, true
		}
		if e.cfg.UseTrailingStop && pos.TrailingStop > 0 && price <= pos.TrailingStop {
			return pos.TrailingStop - e.cfg.Slippage, ExitStopLoss, true
		}
		if pos.Target > 0 && price >= pos.Target {
			return pos.Target, ExitTarget, true
		}
		return 0, "", false
	}

	if e.cfg.UseStopLoss && pos.StopLoss > 0 && price >= pos.StopLoss {
		return pos.StopLoss + e.cfg.Slippage, ExitStopLoss, true
	}
	if e.cfg.UseTrailingStop && pos.TrailingStop > 0 && price >= pos.TrailingStop {
		return pos.TrailingStop + e.cfg.Slippage, ExitStopLoss, true
	}
	if pos.Target > 0 && price <= pos.Target {
		return pos.Target, ExitTarget, true
	}
	return 0, "", false
}

// closePosition converts an open position into a ledger Trade and releases
// its margin. The trade record carries the round-trip commission; the
// entry-side commission was already debited, so cash is charged the exit
// side here.
func (e *Engine) closePosition(pos *Position, bar types.PriceBar, exitPrice float64, reason ExitReason) {
	gross := (exitPrice - pos.EntryPrice) * pos.Quantity
	if pos.Direction == Short {
		gross = -gross
	}
	roundTrip := 2 * e.cfg.Commission
	net := gross - roundTrip

	pnlPct := 0.0
	if notional := pos.EntryPrice * pos.Quantity; notional > 0 {
		pnlPct = net / notional * 100
	}

	e.trades = append(e.trades, Trade{
		Symbol:      pos.Symbol,
		Direction:   pos.Direction,
		EntryDate:   pos.EntryDate,
		EntryPrice:  pos.EntryPrice,
		ExitDate:    bar.Timestamp,
		ExitPrice:   exitPrice,
		Quantity:    pos.Quantity,
		PnL:         net,
		PnLPercent:  pnlPct,
		Commission:  roundTrip,
		ExitReason:  reason,
		HoldingDays: float64(bar.Timestamp.Sub(pos.EntryDate).Milliseconds()) / 86400000,
	})

	e.capital += gross - e.cfg.Commission
	e.usedMargin -= pos.Lots * e.contract.MarginPerLot
}

// tryEnter evaluates one fresh entry signal on the series truncated to the
// current bar. Entries require either a strong directional call or a
// weaker one with high confidence; sizing is risk-based and clamped to the
// lot grid. A margin shortfall is a silent no-entry, not an error.
func (e *Engine) tryEnter(window types.PriceSeries, bar types.PriceBar) {
	pred := strategy.Predict(window, e.params)

	directional := pred.Rating.Bullish() || pred.Rating.Bearish()
	if !directional {
		return
	}
	if !pred.Rating.Strong() && pred.Confidence <= entryConfidenceFloor {
		return
	}

	risk := math.Abs(pred.Price - pred.Stop)
	if risk == 0 || e.contract.LotSize <= 0 {
		return
	}

	lotSize := e.contract.LotSize
	quantity := math.Floor(e.capital*e.cfg.RiskPerTrade/100/risk/lotSize) * lotSize
	maxQty := float64(e.cfg.PositionSize) * lotSize
	quantity = math.Max(lotSize, math.Min(quantity, maxQty))
	lots := quantity / lotSize

	required := lots * e.contract.MarginPerLot
	if e.capital-e.usedMargin <= required*marginBuffer {
		return
	}

	direction := Long
	entryPrice := pred.Price + e.cfg.Slippage
	if pred.Rating.Bearish() {
		direction = Short
		entryPrice = pred.Price - e.cfg.Slippage
	}

	e.positions = append(e.positions, &Position{
		Symbol:     e.contract.Symbol,
		Direction:  direction,
		EntryDate:  bar.Timestamp,
		EntryPrice: entryPrice,
		Quantity:   quantity,
		Lots:       lots,
		StopLoss:   pred.Stop,
		Target:     pred.Target,
	})
	e.usedMargin += required
	e.capital -= e.cfg.Commission
}

// closeAll force-closes every still-open position at the final bar's close.
func (e *Engine) closeAll(last types.PriceBar) {
	for _, pos := range e.positions {
		e.closePosition(pos, last, last.Close, ExitEndOfData)
	}
	e.positions = e.positions[:0]
}

func (e *Engine) equity(price float64) float64 {
	equity := e.capital
	for _, pos := range e.positions {
		unrealized := (price - pos.EntryPrice) * pos.Quantity
		if pos.Direction == Short {
			unrealized = -unrealized
		}
		equity += unrealized
	}
	return equity
}

func (e *Engine) trackDrawdown(price float64) float64 {
	equity := e.equity(price)
	if equity > e.peakEquity {
		e.peakEquity = equity
	}

	dd := 0.0
	if e.peakEquity > 0 {
		dd = (e.peakEquity - equity) / e.peakEquity * 100
	}
	if dd > e.maxDDPct {
		e.maxDDPct = dd
	}
	if abs := e.peakEquity - equity; abs > e.maxDDAbs {
		e.maxDDAbs = abs
	}
	return dd
}

func (e *Engine) sampleEquity(bar types.PriceBar) {
	dd := e.trackDrawdown(bar.Close)
	e.equityCurve = append(e.equityCurve, EquityPoint{
		Date:     bar.Timestamp,
		Equity:   e.equity(bar.Close),
		Drawdown: dd,
	})
}

// monthlyReturns buckets equity samples by calendar year-month; each
// bucket's return is measured first sample to last sample.
func monthlyReturns(curve []EquityPoint) map[string]float64 {
	type bucket struct {
		first float64
		last  float64
	}
	buckets := make(map[string]*bucket)

	for _, point := range curve {
		key := point.Date.Format("2006-01")
		b, ok := buckets[key]
		if !ok {
			buckets[key] = &bucket{first: point.Equity, last: point.Equity}
			continue
		}
		b.last = point.Equity
	}

	out := make(map[string]float64, len(buckets))
	for key, b := range buckets {
		if b.first != 0 {
			out[key] = (b.last - b.first) / b.first * 100
		}
	}
	return out
}
