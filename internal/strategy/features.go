package strategy

import (
	"github.com/ducminhle1904/futures-strategy-lab/internal/indicators"
	"github.com/ducminhle1904/futures-strategy-lab/pkg/types"
)

// Features is the fixed bundle of indicator values the scoring functions
// consume for one decision point.
type Features struct {
	RSI           float64
	MACD          float64
	MACDSignal    float64
	MACDHistogram float64

	FastMA float64
	SlowMA float64

	Volatility     float64
	VolumeRatio    float64 // current volume / average volume over the window
	PriceChangePct float64 // percent change over the volatility window
}

// ExtractFeatures slices the series into the numeric sequences the
// indicator library expects and computes the feature bundle with
// params-supplied periods.
func ExtractFeatures(series types.PriceSeries, p Params) Features {
	closes := series.Closes()
	volumes := series.Volumes()

	macd, signal, histogram := indicators.MACD(closes, p.MACDFast, p.MACDSlow, p.MACDSignal)

	volumeRatio := 0.0
	if len(volumes) > 0 {
		if avgVolume := indicators.SMA(volumes, p.VolatilityWindow); avgVolume > 0 {
			volumeRatio = volumes[len(volumes)-1] / avgVolume
		}
	}

	return Features{
		RSI:            indicators.RSI(closes, p.RSIPeriod),
		MACD:           macd,
		MACDSignal:     signal,
		MACDHistogram:  histogram,
		FastMA:         indicators.SMA(closes, p.FastMAPeriod),
		SlowMA:         indicators.SMA(closes, p.SlowMAPeriod),
		Volatility:     indicators.Volatility(closes, p.VolatilityWindow),
		VolumeRatio:    volumeRatio,
		PriceChangePct: indicators.ROC(closes, p.VolatilityWindow),
	}
}
