// Package strategy turns a price window into trading signals. It owns the
// tunable parameter set the optimizer searches over, the feature extraction
// that feeds the indicator library, and the two scoring pipelines (the
// three-way BUY/SELL/HOLD signal and the five-level composite prediction).
package strategy

// Params is the fixed-shape record of tunable thresholds and periods.
// It is a value object: produced by DefaultParams, random generation or
// genetic recombination, never mutated in place by consumers.
type Params struct {
	RSIPeriod     int
	RSIOverbought float64
	RSIOversold   float64

	MACDFast   int
	MACDSlow   int
	MACDSignal int

	FastMAPeriod int
	SlowMAPeriod int

	VolatilityWindow int
	VolumeThreshold  float64
}

// DefaultParams is the library baseline configuration. The optimizer pins
// one individual of generation zero to it.
func DefaultParams() Params {
	return Params{
		RSIPeriod:        14,
		RSIOverbought:    70,
		RSIOversold:      30,
		MACDFast:         12,
		MACDSlow:         26,
		MACDSignal:       9,
		FastMAPeriod:     10,
		SlowMAPeriod:     50,
		VolatilityWindow: 20,
		VolumeThreshold:  1.5,
	}
}

// MinBars is the warm-up window: the number of bars required before the
// first entry decision can be evaluated. It covers the longest indicator
// lookback plus one transition.
func (p Params) MinBars() int {
	minBars := p.SlowMAPeriod
	if p.MACDSlow > minBars {
		minBars = p.MACDSlow
	}
	if p.RSIPeriod+1 > minBars {
		minBars = p.RSIPeriod + 1
	}
	if p.VolatilityWindow > minBars {
		minBars = p.VolatilityWindow
	}
	return minBars + 1
}

// Repair restores the fast<slow invariant for both the MACD and moving
// average period pairs by halving the offending fast value. Crossover and
// mutation call this instead of rejecting offspring; it is idempotent.
func (p Params) Repair() Params {
	for p.MACDFast >= p.MACDSlow && p.MACDFast > 1 {
		p.MACDFast /= 2
	}
	for p.FastMAPeriod >= p.SlowMAPeriod && p.FastMAPeriod > 1 {
		p.FastMAPeriod /= 2
	}
	return p
}

// Valid reports whether both fast/slow pairs satisfy the invariant.
func (p Params) Valid() bool {
	return p.MACDFast < p.MACDSlow && p.FastMAPeriod < p.SlowMAPeriod
}
