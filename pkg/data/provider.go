// Package data loads historical price series from local CSV files or the
// Bybit market data API and shapes them for the simulator.
package data

import (
	"context"

	"github.com/ducminhle1904/futures-strategy-lab/pkg/types"
)

// Provider loads a historical price series from some source.
type Provider interface {
	// Load fetches the series. Implementations return bars in ascending
	// timestamp order; callers still run Validate before simulating.
	Load(ctx context.Context) (types.PriceSeries, error)

	// Name identifies the provider for logs and reports.
	Name() string
}
