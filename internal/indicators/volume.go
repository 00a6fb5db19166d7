package indicators

// OBV accumulates signed volume: volume is added on an up-close,
// subtracted on a down-close and ignored when the close is unchanged.
func OBV(closes, volumes []float64) float64 {
	obv := 0.0
	for i := 1; i < len(closes) && i < len(volumes); i++ {
		switch {
		case closes[i] > closes[i-1]:
			obv += volumes[i]
		case closes[i] < closes[i-1]:
			obv -= volumes[i]
		}
	}
	return obv
}
