package strategy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ducminhle1904/futures-strategy-lab/pkg/types"
)

func barSeries(closes []float64, volume float64) types.PriceSeries {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	series := make(types.PriceSeries, len(closes))
	for i, c := range closes {
		series[i] = types.PriceBar{
			Timestamp: start.Add(time.Duration(i) * 24 * time.Hour),
			Open:      c,
			High:      c + 0.5,
			Low:       c - 0.5,
			Close:     c,
			Volume:    volume,
		}
	}
	return series
}

func TestGenerateSignal_BullishEvidence(t *testing.T) {
	p := DefaultParams()
	f := Features{
		RSI:        20, // oversold: +2
		MACD:       1.0,
		MACDSignal: 0.9, // MACD above signal: +2
		FastMA:     110,
		SlowMA:     100, // fast above slow: +1.5
	}

	signal, conf := GenerateSignal(f, p)
	assert.Equal(t, SignalBuy, signal)
	assert.InDelta(t, 95.0, conf, 1e-9) // 50 + 5.5/5.5*50 capped at 95, no volatility damp
}

func TestGenerateSignal_BearishEvidence(t *testing.T) {
	p := DefaultParams()
	f := Features{
		RSI:        85, // overbought: +2
		MACD:       -1.0,
		MACDSignal: -0.9, // MACD below signal: +2
		FastMA:     95,
		SlowMA:     100, // fast below slow: +1.5
	}

	signal, _ := GenerateSignal(f, p)
	assert.Equal(t, SignalSell, signal)
}

func TestGenerateSignal_FloorBlocksWeakCalls(t *testing.T) {
	p := DefaultParams()
	// Only the MACD condition fires: score 2 does not clear the floor of 3.
	f := Features{RSI: 50, MACD: 1.0, MACDSignal: 0.9, FastMA: 100, SlowMA: 100}

	signal, _ := GenerateSignal(f, p)
	assert.Equal(t, SignalHold, signal)
}

func TestGenerateSignal_VolumeNeedsDirection(t *testing.T) {
	p := DefaultParams()
	// Volume expansion with zero price change contributes to neither side.
	f := Features{RSI: 50, VolumeRatio: 3.0, PriceChangePct: 0}

	signal, conf := GenerateSignal(f, p)
	assert.Equal(t, SignalHold, signal)
	assert.InDelta(t, 50.0, conf, 1e-9) // no evidence at all -> neutral confidence
}

func TestGenerateSignal_VolatilityDampsConfidence(t *testing.T) {
	p := DefaultParams()
	calm := Features{RSI: 20, MACD: 1, MACDSignal: 0.9, FastMA: 110, SlowMA: 100}
	noisy := calm
	noisy.Volatility = 10 // full damp: confidence scaled by 0.7

	_, calmConf := GenerateSignal(calm, p)
	_, noisyConf := GenerateSignal(noisy, p)

	assert.Less(t, noisyConf, calmConf)
	assert.InDelta(t, calmConf*0.7, noisyConf, 1e-9)
}

func TestGenerateSignal_FlatSeriesHolds(t *testing.T) {
	p := DefaultParams()
	closes := make([]float64, 120)
	for i := range closes {
		closes[i] = 100
	}

	f := ExtractFeatures(barSeries(closes, 1000), p)
	signal, _ := GenerateSignal(f, p)
	assert.Equal(t, SignalHold, signal)
}

func TestExtractFeatures(t *testing.T) {
	p := DefaultParams()
	closes := make([]float64, 120)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}

	f := ExtractFeatures(barSeries(closes, 1000), p)

	assert.Equal(t, 100.0, f.RSI) // monotonic rise: zero average loss
	assert.Greater(t, f.MACD, 0.0)
	assert.Greater(t, f.FastMA, f.SlowMA)
	assert.InDelta(t, 1.0, f.VolumeRatio, 1e-9) // constant volume
	assert.Greater(t, f.PriceChangePct, 0.0)
}
