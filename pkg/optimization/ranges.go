package optimization

import (
	"math/rand"

	"github.com/ducminhle1904/futures-strategy-lab/internal/strategy"
)

// IntRange is an inclusive integer gene range.
type IntRange struct {
	Min, Max int
}

func (r IntRange) sample(rng *rand.Rand) int {
	return r.Min + rng.Intn(r.Max-r.Min+1)
}

// FloatRange is an inclusive float gene range.
type FloatRange struct {
	Min, Max float64
}

func (r FloatRange) sample(rng *rand.Rand) float64 {
	return r.Min + rng.Float64()*(r.Max-r.Min)
}

// Ranges bounds every tunable gene of a parameter set.
type Ranges struct {
	RSIPeriod     IntRange
	RSIOverbought FloatRange
	RSIOversold   FloatRange

	MACDFast   IntRange
	MACDSlow   IntRange
	MACDSignal IntRange

	FastMAPeriod IntRange
	SlowMAPeriod IntRange

	VolatilityWindow IntRange
	VolumeThreshold  FloatRange
}

// DefaultRanges returns the search space used for parameter optimization.
// The MACD and MA ranges are disjoint so a freshly sampled individual
// always has fast < slow; crossover can still break that, Repair fixes it.
func DefaultRanges() Ranges {
	return Ranges{
		RSIPeriod:     IntRange{5, 30},
		RSIOverbought: FloatRange{60, 90},
		RSIOversold:   FloatRange{10, 40},

		MACDFast:   IntRange{5, 20},
		MACDSlow:   IntRange{21, 50},
		MACDSignal: IntRange{5, 15},

		FastMAPeriod: IntRange{5, 50},
		SlowMAPeriod: IntRange{51, 200},

		VolatilityWindow: IntRange{10, 50},
		VolumeThreshold:  FloatRange{1.1, 3.0},
	}
}

// Sample draws a fully random parameter set from the ranges.
func (r Ranges) Sample(rng *rand.Rand) strategy.Params {
	p := strategy.Params{
		RSIPeriod:        r.RSIPeriod.sample(rng),
		RSIOverbought:    r.RSIOverbought.sample(rng),
		RSIOversold:      r.RSIOversold.sample(rng),
		MACDFast:         r.MACDFast.sample(rng),
		MACDSlow:         r.MACDSlow.sample(rng),
		MACDSignal:       r.MACDSignal.sample(rng),
		FastMAPeriod:     r.FastMAPeriod.sample(rng),
		SlowMAPeriod:     r.SlowMAPeriod.sample(rng),
		VolatilityWindow: r.VolatilityWindow.sample(rng),
		VolumeThreshold:  r.VolumeThreshold.sample(rng),
	}
	return p.Repair()
}
