package backtest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ducminhle1904/futures-strategy-lab/internal/strategy"
	"github.com/ducminhle1904/futures-strategy-lab/pkg/types"
)

func testContract() types.Contract {
	return types.Contract{Symbol: "BTCUSDT", LotSize: 1, MarginPerLot: 1000}
}

// barSeries builds daily bars around the given closes with a fixed
// high/low spread so true range (and hence targets and stops) is stable.
func barSeries(closes []float64, spread, volume float64) types.PriceSeries {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	series := make(types.PriceSeries, len(closes))
	for i, c := range closes {
		series[i] = types.PriceBar{
			Timestamp: start.Add(time.Duration(i) * 24 * time.Hour),
			Open:      c,
			High:      c + spread,
			Low:       c - spread,
			Close:     c,
			Volume:    volume,
		}
	}
	return series
}

func TestRun_FlatSeriesNeverTrades(t *testing.T) {
	closes := make([]float64, 200)
	for i := range closes {
		closes[i] = 100
	}

	engine := NewEngine(DefaultConfig(), testContract(), strategy.DefaultParams())
	result, err := engine.Run(barSeries(closes, 0.5, 1000))
	require.NoError(t, err)

	assert.Empty(t, result.Trades)
	assert.Equal(t, DefaultConfig().InitialCapital, result.FinalCapital)
	assert.Zero(t, result.Metrics.MaxDrawdownPercent)
}

func TestRun_RisingSeriesGoesLongAndProfits(t *testing.T) {
	closes := make([]float64, 300)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}

	cfg := DefaultConfig()
	engine := NewEngine(cfg, testContract(), strategy.DefaultParams())
	result, err := engine.Run(barSeries(closes, 2, 1000))
	require.NoError(t, err)

	require.NotEmpty(t, result.Trades)
	for _, trade := range result.Trades {
		assert.Equal(t, Long, trade.Direction)
		assert.Contains(t, []ExitReason{ExitTarget, ExitEndOfData}, trade.ExitReason)
	}
	assert.GreaterOrEqual(t, result.FinalCapital, cfg.InitialCapital)
}

func TestRun_LedgerInvariants(t *testing.T) {
	closes := make([]float64, 300)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}

	engine := NewEngine(DefaultConfig(), testContract(), strategy.DefaultParams())
	result, err := engine.Run(barSeries(closes, 2, 1000))
	require.NoError(t, err)

	for _, trade := range result.Trades {
		assert.False(t, trade.ExitDate.Before(trade.EntryDate))
		assert.Greater(t, trade.Quantity, 0.0)
		assert.Equal(t, 2*DefaultConfig().Commission, trade.Commission)
		assert.GreaterOrEqual(t, trade.HoldingDays, 0.0)
	}

	assert.GreaterOrEqual(t, result.Metrics.MaxDrawdownPercent, 0.0)
	require.NotEmpty(t, result.EquityCurve)
	for _, point := range result.EquityCurve {
		assert.GreaterOrEqual(t, point.Drawdown, 0.0)
	}
}

func TestRun_RespectsMaxPositions(t *testing.T) {
	closes := make([]float64, 300)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}

	cfg := DefaultConfig()
	cfg.MaxPositions = 1
	engine := NewEngine(cfg, testContract(), strategy.DefaultParams())
	result, err := engine.Run(barSeries(closes, 2, 1000))
	require.NoError(t, err)

	// With a single slot, no two trades may overlap in time.
	for i := 1; i < len(result.Trades); i++ {
		prev, cur := result.Trades[i-1], result.Trades[i]
		assert.False(t, cur.EntryDate.Before(prev.ExitDate),
			"trade %d entered before trade %d exited", i, i-1)
	}
}

func TestRun_ShortSeriesIsFatal(t *testing.T) {
	closes := []float64{100, 101, 102}
	engine := NewEngine(DefaultConfig(), testContract(), strategy.DefaultParams())

	result, err := engine.Run(barSeries(closes, 0.5, 1000))
	assert.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "insufficient history")
}

func TestRun_InvalidSeriesIsFatal(t *testing.T) {
	series := barSeries([]float64{100, 101}, 0.5, 1000)
	series[1].Timestamp = series[0].Timestamp // duplicate timestamp

	engine := NewEngine(DefaultConfig(), testContract(), strategy.DefaultParams())
	result, err := engine.Run(series)
	assert.Error(t, err)
	assert.Nil(t, result)
}

func TestRun_EquityCurveIsSparseOnLongSeries(t *testing.T) {
	closes := make([]float64, 2000)
	for i := range closes {
		closes[i] = 100
	}

	engine := NewEngine(DefaultConfig(), testContract(), strategy.DefaultParams())
	result, err := engine.Run(barSeries(closes, 0.5, 1000))
	require.NoError(t, err)

	assert.LessOrEqual(t, len(result.EquityCurve), equityCurveTargetLen+2)
	assert.NotEmpty(t, result.MonthlyReturns)
}
