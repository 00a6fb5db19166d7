package indicators

// ROC is the percent change from period bars ago to the latest value.
// Returns 0 with insufficient history or a zero base price.
func ROC(prices []float64, period int) float64 {
	if period <= 0 || len(prices) < period+1 {
		return 0
	}
	base := prices[len(prices)-1-period]
	if base == 0 {
		return 0
	}
	return (prices[len(prices)-1] - base) / base * 100
}

// Stochastic places the latest close inside the trailing high/low range as
// a 0-100 value. Returns the neutral 50 when the range is degenerate or
// there is not enough data.
func Stochastic(highs, lows, closes []float64, period int) float64 {
	n := len(closes)
	if period <= 0 || n < period || len(highs) < period || len(lows) < period {
		return 50
	}

	maxHigh := highs[len(highs)-period]
	for _, h := range highs[len(highs)-period:] {
		if h > maxHigh {
			maxHigh = h
		}
	}
	minLow := lows[len(lows)-period]
	for _, l := range lows[len(lows)-period:] {
		if l < minLow {
			minLow = l
		}
	}

	if maxHigh == minLow {
		return 50
	}
	return (closes[n-1] - minLow) / (maxHigh - minLow) * 100
}

// WilliamsR is the stochastic shifted into the conventional -100..0 range.
func WilliamsR(highs, lows, closes []float64, period int) float64 {
	return Stochastic(highs, lows, closes, period) - 100
}
