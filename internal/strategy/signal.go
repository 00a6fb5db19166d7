package strategy

import "math"

// Signal is the three-way directional call.
type Signal int

const (
	SignalHold Signal = iota
	SignalBuy
	SignalSell
)

func (s Signal) String() string {
	switch s {
	case SignalBuy:
		return "BUY"
	case SignalSell:
		return "SELL"
	default:
		return "HOLD"
	}
}

// Score weights and the floor a side must clear before a directional call
// is produced.
const (
	weightRSI     = 2.0
	weightMACD    = 2.0
	weightMACross = 1.5
	weightVolume  = 1.0
	scoreFloor    = 3.0
)

// GenerateSignal scores bullish vs. bearish evidence by summing fixed
// weights for each threshold condition that holds, and returns the call
// with a 0-100 confidence. A side must beat the opposing side AND the
// fixed floor of 3, otherwise the result is HOLD. Confidence is damped
// toward uncertainty as volatility grows.
func GenerateSignal(f Features, p Params) (Signal, float64) {
	var bull, bear float64

	if f.RSI < p.RSIOversold {
		bull += weightRSI
	} else if f.RSI > p.RSIOverbought {
		bear += weightRSI
	}

	if f.MACD > f.MACDSignal {
		bull += weightMACD
	} else if f.MACD < f.MACDSignal {
		bear += weightMACD
	}

	if f.FastMA > f.SlowMA {
		bull += weightMACross
	} else if f.FastMA < f.SlowMA {
		bear += weightMACross
	}

	if f.VolumeRatio > p.VolumeThreshold {
		if f.PriceChangePct > 0 {
			bull += weightVolume
		} else if f.PriceChangePct < 0 {
			bear += weightVolume
		}
	}

	signal := SignalHold
	if bull > bear && bull > scoreFloor {
		signal = SignalBuy
	} else if bear > bull && bear > scoreFloor {
		signal = SignalSell
	}

	return signal, confidence(bull, bear, f.Volatility)
}

// confidence maps the winning/total score ratio into 50..95 and compresses
// it toward uncertainty when volatility is high.
func confidence(bull, bear, volatility float64) float64 {
	conf := 50.0
	if total := bull + bear; total > 0 {
		conf = 50 + math.Max(bull, bear)/total*50
	}
	if conf > 95 {
		conf = 95
	}

	damp := math.Min(volatility/10, 1)
	return conf * (1 - damp*0.3)
}
