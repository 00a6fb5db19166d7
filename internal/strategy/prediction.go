package strategy

import (
	"math"

	"github.com/ducminhle1904/futures-strategy-lab/internal/indicators"
	"github.com/ducminhle1904/futures-strategy-lab/pkg/types"
)

// Rating is the five-level directional call produced by the composite
// prediction pipeline.
type Rating int

const (
	RatingStrongSell Rating = iota
	RatingSell
	RatingNeutral
	RatingBuy
	RatingStrongBuy
)

func (r Rating) String() string {
	switch r {
	case RatingStrongSell:
		return "STRONG_SELL"
	case RatingSell:
		return "SELL"
	case RatingNeutral:
		return "NEUTRAL"
	case RatingBuy:
		return "BUY"
	case RatingStrongBuy:
		return "STRONG_BUY"
	default:
		return "NEUTRAL"
	}
}

// Bullish reports whether the rating calls for a long.
func (r Rating) Bullish() bool { return r == RatingBuy || r == RatingStrongBuy }

// Bearish reports whether the rating calls for a short.
func (r Rating) Bearish() bool { return r == RatingSell || r == RatingStrongSell }

// Strong reports whether the rating is one of the two outer bands.
func (r Rating) Strong() bool { return r == RatingStrongBuy || r == RatingStrongSell }

// Sub-score weights of the composite 0-100 score.
const (
	weightTechnical = 0.35
	weightMomentum  = 0.25
	weightVolumeSub = 0.20
	weightTrend     = 0.20

	atrPeriod = 14
)

// Prediction is the extended output of the composite pipeline: a five-level
// rating with directional target and stop prices.
type Prediction struct {
	Rating     Rating
	Score      float64 // composite 0-100, >50 bullish
	Confidence float64
	Price      float64
	Target     float64
	Stop       float64
}

// Predict blends technical, momentum, volume and trend sub-scores
// (0.35/0.25/0.20/0.20) into a composite 0-100 score and maps it onto the
// five rating bands at the 20/40/60/80 cut points. Directional calls carry
// an ATR-derived target and stop; NEUTRAL carries neither.
func Predict(series types.PriceSeries, p Params) Prediction {
	closes := series.Closes()
	highs := series.Highs()
	lows := series.Lows()
	volumes := series.Volumes()
	f := ExtractFeatures(series, p)

	score := weightTechnical*technicalScore(closes, f, p) +
		weightMomentum*momentumScore(highs, lows, closes, f, p) +
		weightVolumeSub*volumeScore(closes, volumes, f, p) +
		weightTrend*trendScore(closes, highs, lows, p)

	rating := ratingFromScore(score)

	price := 0.0
	if len(closes) > 0 {
		price = closes[len(closes)-1]
	}

	pred := Prediction{
		Rating:     rating,
		Score:      score,
		Confidence: compositeConfidence(score, f.Volatility),
		Price:      price,
	}

	if rating == RatingNeutral || price == 0 {
		return pred
	}

	risk := indicators.ATR(highs, lows, closes, atrPeriod)
	if risk == 0 {
		risk = price * 0.02
	}

	if rating.Bullish() {
		pred.Target = price + 2*risk
		pred.Stop = price - 1.5*risk
	} else {
		pred.Target = price - 2*risk
		pred.Stop = price + 1.5*risk
	}

	return pred
}

func ratingFromScore(score float64) Rating {
	switch {
	case score < 20:
		return RatingStrongSell
	case score < 40:
		return RatingSell
	case score < 60:
		return RatingNeutral
	case score < 80:
		return RatingBuy
	default:
		return RatingStrongBuy
	}
}

// technicalScore blends RSI, MACD-vs-signal and the position of price
// inside the Bollinger bands, all read in the trend-following direction.
func technicalScore(closes []float64, f Features, p Params) float64 {
	rsiScore := f.RSI

	macdScore := 50.0
	if f.MACD > f.MACDSignal {
		macdScore = 70
	} else if f.MACD < f.MACDSignal {
		macdScore = 30
	}

	bollScore := 50.0
	upper, _, lower, width := indicators.Bollinger(closes, p.VolatilityWindow, 2)
	if width > 0 && len(closes) > 0 {
		pos := (closes[len(closes)-1] - lower) / (upper - lower)
		pos = math.Max(0, math.Min(1, pos))
		bollScore = pos * 100
	}

	return (rsiScore + macdScore + bollScore) / 3
}

// momentumScore blends rate of change with the stochastic pair.
func momentumScore(highs, lows, closes []float64, f Features, p Params) float64 {
	rocScore := 50 + math.Max(-50, math.Min(50, f.PriceChangePct))
	stoch := indicators.Stochastic(highs, lows, closes, p.RSIPeriod)
	williams := indicators.WilliamsR(highs, lows, closes, p.RSIPeriod) + 100
	return (rocScore + stoch + williams) / 3
}

// volumeScore reads volume expansion in the direction of the move plus the
// sign of on-balance volume.
func volumeScore(closes, volumes []float64, f Features, p Params) float64 {
	ratioScore := 50.0
	if f.VolumeRatio > p.VolumeThreshold {
		if f.PriceChangePct > 0 {
			ratioScore = 75
		} else if f.PriceChangePct < 0 {
			ratioScore = 25
		}
	}

	obvScore := 50.0
	if obv := indicators.OBV(closes, volumes); obv > 0 {
		obvScore = 70
	} else if obv < 0 {
		obvScore = 30
	}

	return (ratioScore + obvScore) / 2
}

// trendScore amplifies the discrete trend classification by ADX: a strong
// directional-movement reading pushes the score away from neutral.
func trendScore(closes, highs, lows []float64, p Params) float64 {
	strength := indicators.TrendStrength(closes, p.FastMAPeriod, p.SlowMAPeriod)
	adx := indicators.ADX(highs, lows, closes, p.RSIPeriod)
	return 50 + (strength-50)*(adx/100)
}

// compositeConfidence measures how far the composite score sits from the
// neutral midpoint, damped by volatility the same way the three-way signal
// confidence is.
func compositeConfidence(score, volatility float64) float64 {
	conf := 50 + math.Abs(score-50)
	if conf > 95 {
		conf = 95
	}
	damp := math.Min(volatility/10, 1)
	return conf * (1 - damp*0.3)
}
