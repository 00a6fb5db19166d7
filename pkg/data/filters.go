package data

import (
	"strconv"
	"strings"
	"time"

	"github.com/ducminhle1904/futures-strategy-lab/pkg/types"
)

// ParseTrailingPeriod parses period strings like "7d", "30d", "365d".
func ParseTrailingPeriod(s string) (time.Duration, bool) {
	s = strings.TrimSpace(strings.ToLower(s))
	if !strings.HasSuffix(s, "d") {
		return 0, false
	}
	days, err := strconv.Atoi(strings.TrimSuffix(s, "d"))
	if err != nil || days <= 0 {
		return 0, false
	}
	return time.Duration(days) * 24 * time.Hour, true
}

// FilterByPeriod trims the series to the trailing period, measured back
// from the last bar's timestamp. A non-positive period is a no-op.
func FilterByPeriod(series types.PriceSeries, period time.Duration) types.PriceSeries {
	if period <= 0 || len(series) == 0 {
		return series
	}

	cutoff := series[len(series)-1].Timestamp.Add(-period)
	for i, bar := range series {
		if !bar.Timestamp.Before(cutoff) {
			return series[i:]
		}
	}
	return series
}

// FilterByDateRange keeps bars with start <= timestamp <= end.
func FilterByDateRange(series types.PriceSeries, start, end time.Time) types.PriceSeries {
	var out types.PriceSeries
	for _, bar := range series {
		if bar.Timestamp.Before(start) || bar.Timestamp.After(end) {
			continue
		}
		out = append(out, bar)
	}
	return out
}
