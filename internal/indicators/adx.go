package indicators

import "math"

// ADX is a simplified directional-movement index: it compares summed
// positive vs. negative directional moves over the window rather than the
// smoothed Wilder construction. Returns the default 25 when there is not
// enough data or no directional movement at all.
func ADX(highs, lows, closes []float64, period int) float64 {
	n := len(closes)
	if period <= 0 || n < period+1 || len(highs) != n || len(lows) != n {
		return 25
	}

	var plusDM, minusDM float64
	for i := n - period; i < n; i++ {
		upMove := highs[i] - highs[i-1]
		downMove := lows[i-1] - lows[i]
		if upMove > downMove && upMove > 0 {
			plusDM += upMove
		}
		if downMove > upMove && downMove > 0 {
			minusDM += downMove
		}
	}

	total := plusDM + minusDM
	if total == 0 {
		return 25
	}
	return math.Abs(plusDM-minusDM) / total * 100
}
