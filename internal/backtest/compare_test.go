package backtest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resultWith(symbol string, ret, sharpe, winRate float64) *Result {
	return &Result{
		Symbol: symbol,
		Metrics: Metrics{
			TotalPnLPercent: ret,
			SharpeRatio:     sharpe,
			WinRate:         winRate,
		},
	}
}

func TestCompare_PicksBestsIndependently(t *testing.T) {
	cmp := Compare([]*Result{
		resultWith("BTCUSDT", 42.0, 1.1, 55.0),
		resultWith("ETHUSDT", 18.0, 2.4, 48.0),
		resultWith("SOLUSDT", 30.0, 0.9, 62.0),
	})

	require.Len(t, cmp.Rows, 3)
	assert.Equal(t, "BTCUSDT", cmp.BestByReturn)
	assert.Equal(t, "ETHUSDT", cmp.BestBySharpe)
	assert.Equal(t, "SOLUSDT", cmp.BestByWinRate)
}

func TestCompare_NegativeReturnsStillRanked(t *testing.T) {
	cmp := Compare([]*Result{
		resultWith("BTCUSDT", -12.0, -0.4, 30.0),
		resultWith("ETHUSDT", -5.0, -1.2, 25.0),
	})

	assert.Equal(t, "ETHUSDT", cmp.BestByReturn)
	assert.Equal(t, "BTCUSDT", cmp.BestBySharpe)
	assert.Equal(t, "BTCUSDT", cmp.BestByWinRate)
}

func TestCompare_Empty(t *testing.T) {
	cmp := Compare(nil)
	assert.Empty(t, cmp.Rows)
	assert.Empty(t, cmp.BestByReturn)
}
