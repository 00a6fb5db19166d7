// Package indicators implements the pure technical-indicator functions the
// signal layer is built on. Every function is stateless: it takes a price
// window plus a lookback period and returns a value. Where there is not
// enough history for a real answer, each function returns a documented
// neutral sentinel instead of an error.
package indicators

// SMA returns the mean of the most recent period values. With fewer than
// period values it falls back to the last price.
func SMA(prices []float64, period int) float64 {
	if len(prices) == 0 {
		return 0
	}
	if period <= 0 || len(prices) < period {
		return prices[len(prices)-1]
	}

	sum := 0.0
	for _, p := range prices[len(prices)-period:] {
		sum += p
	}
	return sum / float64(period)
}

// EMA seeds with the simple average of the first period values, then runs
// the standard recurrence forward through the rest of the window. With
// fewer than period values it falls back to the last price.
func EMA(prices []float64, period int) float64 {
	if len(prices) == 0 {
		return 0
	}
	if period <= 0 || len(prices) < period {
		return prices[len(prices)-1]
	}

	seed := 0.0
	for _, p := range prices[:period] {
		seed += p
	}
	ema := seed / float64(period)

	k := 2.0 / (float64(period) + 1.0)
	for _, p := range prices[period:] {
		ema = (p-ema)*k + ema
	}
	return ema
}

// MACD returns the MACD line, its signal line and the histogram. The signal
// line is a fixed-ratio approximation (0.9 x MACD), not a true EMA of the
// MACD series; downstream scoring depends on this simplification, so the
// signalPeriod argument is accepted for interface compatibility only.
func MACD(prices []float64, fast, slow, signalPeriod int) (macd, signal, histogram float64) {
	macd = EMA(prices, fast) - EMA(prices, slow)
	signal = macd * 0.9
	histogram = macd - signal
	return macd, signal, histogram
}
