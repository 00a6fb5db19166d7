// Package common holds the data-loading and serving helpers shared by the
// backtest and optimize binaries.
package common

import (
	"context"
	"fmt"
	"net/http"
	"time"

	bybit_api "github.com/bybit-exchange/bybit.go.api"
	"go.uber.org/zap"

	"github.com/ducminhle1904/futures-strategy-lab/internal/monitoring"
	"github.com/ducminhle1904/futures-strategy-lab/pkg/config"
	"github.com/ducminhle1904/futures-strategy-lab/pkg/data"
	"github.com/ducminhle1904/futures-strategy-lab/pkg/types"
)

// LoadSeries resolves the configured provider, loads the series for the
// symbol and applies the trailing period filter. Contract metadata comes
// from the config when set, otherwise from the exchange (bybit source).
func LoadSeries(ctx context.Context, cfg *config.Config, symbol, period string) (types.PriceSeries, types.Contract, error) {
	contract := types.Contract{
		Symbol:       symbol,
		LotSize:      cfg.Contract.LotSize,
		MarginPerLot: cfg.Contract.MarginPerLot,
	}
	if contract.LotSize <= 0 {
		contract.LotSize = 1
	}

	var provider data.Provider
	switch cfg.Data.Source {
	case "csv":
		provider = data.NewCSVProvider(cfg.Data.File)
	default:
		client := NewBybitClient(cfg)
		bybit := data.NewBybitProvider(client, cfg.Data.Category, symbol, cfg.Interval, cfg.Data.Limit)
		if cfg.Contract.LotSize <= 0 {
			fetched, err := bybit.Contract(ctx)
			if err != nil {
				return nil, types.Contract{}, fmt.Errorf("fetch contract metadata: %w", err)
			}
			contract = fetched
		}
		provider = bybit
	}

	series, err := provider.Load(ctx)
	if err != nil {
		return nil, types.Contract{}, fmt.Errorf("load %s data: %w", provider.Name(), err)
	}

	if period != "" {
		d, ok := data.ParseTrailingPeriod(period)
		if !ok {
			return nil, types.Contract{}, fmt.Errorf("invalid period %q (use 7d, 30d, 365d)", period)
		}
		series = data.FilterByPeriod(series, d)
	}
	return series, contract, nil
}

// NewBybitClient builds an API client from the configured credentials.
// Market data endpoints work without a key.
func NewBybitClient(cfg *config.Config) *bybit_api.Client {
	baseURL := bybit_api.MAINNET
	if cfg.BybitTestnet {
		baseURL = bybit_api.TESTNET
	}
	return bybit_api.NewBybitHttpClient(cfg.BybitAPIKey, cfg.BybitAPISecret, bybit_api.WithBaseURL(baseURL))
}

// ServeMetrics blocks serving the Prometheus endpoint; run it in its own
// goroutine.
func ServeMetrics(addr string, log *zap.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", monitoring.Handler())
	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	log.Info("serving metrics", zap.String("addr", addr))
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("metrics server", zap.Error(err))
	}
}
