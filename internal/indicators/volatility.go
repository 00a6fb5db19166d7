package indicators

import "math"

// Volatility is the population standard deviation of the most recent
// period values. Returns 0 with insufficient history.
func Volatility(prices []float64, period int) float64 {
	if period <= 0 || len(prices) < period {
		return 0
	}

	window := prices[len(prices)-period:]
	mean := 0.0
	for _, p := range window {
		mean += p
	}
	mean /= float64(period)

	variance := 0.0
	for _, p := range window {
		variance += (p - mean) * (p - mean)
	}
	variance /= float64(period)

	return math.Sqrt(variance)
}

// Bollinger returns the upper/middle/lower bands (SMA +/- k standard
// deviations) and the band width as a percentage of the middle band.
func Bollinger(prices []float64, period int, k float64) (upper, middle, lower, width float64) {
	middle = SMA(prices, period)
	dev := Volatility(prices, period) * k
	upper = middle + dev
	lower = middle - dev
	if middle != 0 {
		width = (upper - lower) / middle * 100
	}
	return upper, middle, lower, width
}
