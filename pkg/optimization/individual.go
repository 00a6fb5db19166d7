// Package optimization searches the strategy parameter space with a
// steady-state genetic algorithm. Each candidate is scored by running a
// full backtest; the driver owns the generation loop and termination.
package optimization

import "github.com/ducminhle1904/futures-strategy-lab/internal/strategy"

// Individual is one candidate parameter set with its evaluation state.
// Evaluated distinguishes "not yet scored" from a legitimate fitness of
// zero; a fitness value is only meaningful when Evaluated is true.
type Individual struct {
	Params    strategy.Params
	Fitness   float64
	Profit    float64 // total return percent of the evaluation backtest
	Accuracy  float64 // win rate percent of the evaluation backtest
	Trades    int
	Evaluated bool
}

// Invalidate clears the evaluation state after the genome changed.
func (ind *Individual) Invalidate() {
	ind.Fitness = 0
	ind.Profit = 0
	ind.Accuracy = 0
	ind.Trades = 0
	ind.Evaluated = false
}
