package types

import (
	"fmt"
	"time"
)

// PriceBar is one interval of OHLCV market data. OpenInterest is populated
// for futures instruments and left zero for anything that does not report it.
type PriceBar struct {
	Timestamp    time.Time
	Open         float64
	High         float64
	Low          float64
	Close        float64
	Volume       float64
	OpenInterest float64
}

// PriceSeries is an ordered, time-ascending sequence of bars. The simulator
// relies on timestamps being unique and sorted; Validate enforces that.
type PriceSeries []PriceBar

// Closes returns the close prices in series order.
func (s PriceSeries) Closes() []float64 {
	out := make([]float64, len(s))
	for i, b := range s {
		out[i] = b.Close
	}
	return out
}

// Highs returns the high prices in series order.
func (s PriceSeries) Highs() []float64 {
	out := make([]float64, len(s))
	for i, b := range s {
		out[i] = b.High
	}
	return out
}

// Lows returns the low prices in series order.
func (s PriceSeries) Lows() []float64 {
	out := make([]float64, len(s))
	for i, b := range s {
		out[i] = b.Low
	}
	return out
}

// Volumes returns the volumes in series order.
func (s PriceSeries) Volumes() []float64 {
	out := make([]float64, len(s))
	for i, b := range s {
		out[i] = b.Volume
	}
	return out
}

// Validate checks the integrity invariants the simulator depends on:
// positive prices, high/low bounds and strictly ascending timestamps
// (duplicates are rejected, gaps are fine).
func (s PriceSeries) Validate() error {
	if len(s) == 0 {
		return fmt.Errorf("no data provided")
	}

	for i, bar := range s {
		if bar.Open <= 0 || bar.High <= 0 || bar.Low <= 0 || bar.Close <= 0 {
			return fmt.Errorf("invalid price data at index %d: prices must be positive", i)
		}

		if bar.High < bar.Low {
			return fmt.Errorf("invalid price data at index %d: high (%.4f) cannot be less than low (%.4f)",
				i, bar.High, bar.Low)
		}

		if bar.High < bar.Open || bar.High < bar.Close {
			return fmt.Errorf("invalid price data at index %d: high (%.4f) must be >= open (%.4f) and close (%.4f)",
				i, bar.High, bar.Open, bar.Close)
		}

		if bar.Low > bar.Open || bar.Low > bar.Close {
			return fmt.Errorf("invalid price data at index %d: low (%.4f) must be <= open (%.4f) and close (%.4f)",
				i, bar.Low, bar.Open, bar.Close)
		}

		if i > 0 && !bar.Timestamp.After(s[i-1].Timestamp) {
			return fmt.Errorf("invalid timestamp sequence at index %d: timestamps must be strictly ascending", i)
		}
	}

	return nil
}

// Contract holds the instrument metadata that feeds position-sizing math.
type Contract struct {
	Symbol       string
	LotSize      float64 // minimum tradeable quantity unit
	MarginPerLot float64 // margin requirement per lot
}
