package indicators

// Trend strength buckets. The ordering of price vs. the fast and slow
// moving averages maps onto five discrete levels.
const (
	TrendStrongUp   = 100 // price > fast > slow
	TrendWeakUp     = 70  // price > fast, fast <= slow
	TrendNeutral    = 50  // everything else
	TrendWeakDown   = 30  // price < fast, fast > slow
	TrendStrongDown = 0   // price < fast < slow
)

// TrendStrength classifies the current trend by comparing the latest close
// against the fast and slow simple moving averages.
func TrendStrength(closes []float64, smaFast, smaSlow int) float64 {
	if len(closes) == 0 {
		return TrendNeutral
	}

	price := closes[len(closes)-1]
	fast := SMA(closes, smaFast)
	slow := SMA(closes, smaSlow)

	switch {
	case price > fast && fast > slow:
		return TrendStrongUp
	case price > fast:
		return TrendWeakUp
	case price < fast && fast > slow:
		return TrendWeakDown
	case price < fast && fast < slow:
		return TrendStrongDown
	default:
		return TrendNeutral
	}
}
