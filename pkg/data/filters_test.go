package data

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ducminhle1904/futures-strategy-lab/pkg/types"
)

func dailySeries(n int) types.PriceSeries {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	series := make(types.PriceSeries, n)
	for i := range series {
		series[i] = types.PriceBar{
			Timestamp: start.Add(time.Duration(i) * 24 * time.Hour),
			Open:      100, High: 101, Low: 99, Close: 100, Volume: 1000,
		}
	}
	return series
}

func TestFilterByPeriod(t *testing.T) {
	series := dailySeries(30)

	trimmed := FilterByPeriod(series, 7*24*time.Hour)
	assert.Len(t, trimmed, 8) // cutoff bar is inclusive
	assert.Equal(t, series[22].Timestamp, trimmed[0].Timestamp)
}

func TestFilterByPeriod_NoOp(t *testing.T) {
	series := dailySeries(10)
	assert.Len(t, FilterByPeriod(series, 0), 10)
	assert.Len(t, FilterByPeriod(series, 365*24*time.Hour), 10)
	assert.Empty(t, FilterByPeriod(nil, time.Hour))
}

func TestParseTrailingPeriod(t *testing.T) {
	d, ok := ParseTrailingPeriod("30d")
	assert.True(t, ok)
	assert.Equal(t, 30*24*time.Hour, d)

	for _, bad := range []string{"", "30", "30h", "-5d", "d"} {
		_, ok := ParseTrailingPeriod(bad)
		assert.False(t, ok, "input %q", bad)
	}
}

func TestFilterByDateRange(t *testing.T) {
	series := dailySeries(10)
	start := series[3].Timestamp
	end := series[6].Timestamp

	out := FilterByDateRange(series, start, end)
	assert.Len(t, out, 4)
	assert.Equal(t, start, out[0].Timestamp)
	assert.Equal(t, end, out[len(out)-1].Timestamp)
}
