package indicators

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSMA(t *testing.T) {
	prices := []float64{1, 2, 3, 4, 5}

	assert.Equal(t, 4.0, SMA(prices, 3)) // (3+4+5)/3
	assert.Equal(t, 3.0, SMA(prices, 5))
	assert.Equal(t, 5.0, SMA(prices, 10)) // insufficient history -> last price
	assert.Equal(t, 0.0, SMA(nil, 3))
}

func TestEMA(t *testing.T) {
	prices := []float64{10, 10, 10, 10, 10}
	assert.Equal(t, 10.0, EMA(prices, 3)) // constant series stays put

	assert.Equal(t, 42.0, EMA([]float64{42}, 14)) // insufficient history -> last price

	// Seed is SMA of first 3 = 2, then the recurrence pulls toward 4 and 5.
	rising := []float64{1, 2, 3, 4, 5}
	ema := EMA(rising, 3)
	assert.Greater(t, ema, 2.0)
	assert.Less(t, ema, 5.0)
}

func TestMACD_SignalIsFixedRatio(t *testing.T) {
	prices := make([]float64, 60)
	for i := range prices {
		prices[i] = 100 + float64(i)
	}

	macd, signal, hist := MACD(prices, 12, 26, 9)
	assert.InDelta(t, macd*0.9, signal, 1e-9)
	assert.InDelta(t, macd*0.1, hist, 1e-9)
	assert.Greater(t, macd, 0.0) // rising series -> fast EMA above slow EMA
}

func TestRSI(t *testing.T) {
	rising := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	assert.Equal(t, 100.0, RSI(rising, 5)) // zero average loss

	falling := []float64{10, 9, 8, 7, 6, 5, 4, 3, 2, 1}
	assert.Equal(t, 0.0, RSI(falling, 5))

	assert.Equal(t, 50.0, RSI([]float64{1, 2}, 14)) // insufficient history

	mixed := []float64{100, 102, 101, 103, 102, 104, 103, 105}
	rsi := RSI(mixed, 5)
	assert.GreaterOrEqual(t, rsi, 0.0)
	assert.LessOrEqual(t, rsi, 100.0)
}

func TestRSI_BoundsProperty(t *testing.T) {
	// RSI must stay in [0,100] for arbitrary windows and periods.
	prices := []float64{5, 9, 2, 14, 3, 3, 8, 1, 12, 7, 7, 7, 20, 0.5, 6}
	for period := 1; period <= len(prices); period++ {
		rsi := RSI(prices, period)
		assert.GreaterOrEqual(t, rsi, 0.0, "period %d", period)
		assert.LessOrEqual(t, rsi, 100.0, "period %d", period)
	}
}

func TestVolatility(t *testing.T) {
	assert.Equal(t, 0.0, Volatility([]float64{1, 2}, 5)) // insufficient history
	assert.Equal(t, 0.0, Volatility([]float64{3, 3, 3, 3}, 4))

	// Population std dev of {2,4,4,4,5,5,7,9} is exactly 2.
	vals := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	assert.InDelta(t, 2.0, Volatility(vals, 8), 1e-9)
}

func TestBollinger(t *testing.T) {
	vals := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	upper, middle, lower, width := Bollinger(vals, 8, 2)

	assert.InDelta(t, 5.0, middle, 1e-9)
	assert.InDelta(t, 9.0, upper, 1e-9) // 5 + 2*2
	assert.InDelta(t, 1.0, lower, 1e-9)
	assert.InDelta(t, 160.0, width, 1e-9) // (9-1)/5*100
}

func TestATR(t *testing.T) {
	highs := []float64{12, 12, 12, 12}
	lows := []float64{8, 8, 8, 8}
	closes := []float64{10, 10, 10, 10}

	// True range is high-low=4 on every bar with flat closes.
	assert.InDelta(t, 4.0, ATR(highs, lows, closes, 3), 1e-9)
	assert.Equal(t, 0.0, ATR(highs, lows, closes, 10)) // insufficient history
}

func TestOBV(t *testing.T) {
	closes := []float64{10, 11, 11, 9, 12}
	volumes := []float64{100, 200, 300, 400, 500}

	// +200 (up), 0 (flat), -400 (down), +500 (up)
	assert.Equal(t, 300.0, OBV(closes, volumes))
	assert.Equal(t, 0.0, OBV([]float64{10}, []float64{100}))
}

func TestROC(t *testing.T) {
	prices := []float64{100, 105, 110}
	assert.InDelta(t, 10.0, ROC(prices, 2), 1e-9)
	assert.Equal(t, 0.0, ROC(prices, 5)) // insufficient history
}

func TestStochastic(t *testing.T) {
	highs := []float64{10, 12, 14}
	lows := []float64{8, 9, 10}
	closes := []float64{9, 11, 14}

	// Close at the window high -> 100.
	assert.InDelta(t, 100.0, Stochastic(highs, lows, closes, 3), 1e-9)

	// Degenerate range -> neutral 50.
	flat := []float64{10, 10, 10}
	assert.Equal(t, 50.0, Stochastic(flat, flat, flat, 3))
	assert.Equal(t, 50.0, Stochastic(highs, lows, closes, 9))
}

func TestWilliamsR(t *testing.T) {
	highs := []float64{10, 12, 14}
	lows := []float64{8, 9, 10}
	closes := []float64{9, 11, 14}

	assert.InDelta(t, Stochastic(highs, lows, closes, 3)-100, WilliamsR(highs, lows, closes, 3), 1e-9)
}

func TestADX(t *testing.T) {
	assert.Equal(t, 25.0, ADX([]float64{1}, []float64{1}, []float64{1}, 14))

	// Strictly rising highs and lows: all movement is positive -> 100.
	highs := []float64{10, 11, 12, 13, 14}
	lows := []float64{9, 10, 11, 12, 13}
	closes := []float64{9.5, 10.5, 11.5, 12.5, 13.5}
	assert.InDelta(t, 100.0, ADX(highs, lows, closes, 4), 1e-9)
}

func TestTrendStrength(t *testing.T) {
	tests := []struct {
		name   string
		closes []float64
		want   float64
	}{
		{"price above fast above slow", []float64{1, 2, 3, 4, 10}, TrendStrongUp},
		{"price below fast below slow", []float64{10, 9, 8, 7, 1}, TrendStrongDown},
		{"empty series", nil, TrendNeutral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TrendStrength(tt.closes, 2, 4))
		})
	}
}

func TestTrendStrength_AllLevelsReachable(t *testing.T) {
	// Sanity check that every bucket value is one of the five levels for a
	// spread of shapes.
	shapes := [][]float64{
		{1, 2, 3, 4, 10},
		{10, 9, 8, 7, 1},
		{5, 5, 5, 5, 5},
		{10, 1, 10, 1, 6},
		{1, 10, 1, 10, 4},
	}
	levels := map[float64]bool{
		TrendStrongUp: true, TrendWeakUp: true, TrendNeutral: true,
		TrendWeakDown: true, TrendStrongDown: true,
	}
	for _, closes := range shapes {
		got := TrendStrength(closes, 2, 4)
		assert.True(t, levels[got], "unexpected level %v for %v", got, closes)
	}
}
