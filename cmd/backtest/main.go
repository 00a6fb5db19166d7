// Command backtest runs one strategy configuration over historical data
// for one or more symbols and reports the results.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/ducminhle1904/futures-strategy-lab/cmd/common"
	"github.com/ducminhle1904/futures-strategy-lab/internal/backtest"
	"github.com/ducminhle1904/futures-strategy-lab/internal/logger"
	"github.com/ducminhle1904/futures-strategy-lab/internal/monitoring"
	"github.com/ducminhle1904/futures-strategy-lab/pkg/config"
	"github.com/ducminhle1904/futures-strategy-lab/pkg/reporting"
)

func main() {
	var (
		configPath  = flag.String("config", "configs/backtest.json", "path to the JSON configuration file")
		symbols     = flag.String("symbols", "", "comma-separated symbol override (bybit source only)")
		period      = flag.String("period", "", "trailing period filter, e.g. 30d, 180d")
		showTrades  = flag.Bool("trades", false, "print the full trade ledger")
		excelPath   = flag.String("excel", "", "write an Excel workbook to this path")
		metricsAddr = flag.String("metrics-addr", "", "serve Prometheus metrics on this address")
		logLevel    = flag.String("log-level", "info", "log level: debug, info, warn, error")
	)
	flag.Parse()

	log, err := logger.New(*logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal("load configuration", zap.Error(err))
	}

	if *metricsAddr != "" {
		go common.ServeMetrics(*metricsAddr, log)
	}

	symbolList := []string{cfg.Symbol}
	if *symbols != "" {
		symbolList = strings.Split(*symbols, ",")
	}
	if len(symbolList) > 1 && cfg.Data.Source == "csv" {
		log.Fatal("multi-symbol comparison needs the bybit data source")
	}

	ctx := context.Background()
	reporter := reporting.NewConsoleReporter(os.Stdout)
	var results []*backtest.Result

	for _, symbol := range symbolList {
		symbol = strings.TrimSpace(symbol)
		result, err := runOne(ctx, cfg, symbol, *period, log)
		if err != nil {
			monitoring.RecordError("backtest")
			log.Fatal("backtest failed", zap.String("symbol", symbol), zap.Error(err))
		}
		results = append(results, result)
		monitoring.RecordBacktest(symbol, result.Metrics.TotalPnLPercent)

		reporter.PrintResult(result)
		reporter.PrintMonthlyReturns(result)
		if *showTrades {
			reporter.PrintTrades(result)
		}
		if *excelPath != "" {
			path := excelPathFor(*excelPath, symbol, len(symbolList) > 1)
			if err := reporting.NewExcelReporter().WriteResult(result, path); err != nil {
				log.Fatal("write excel report", zap.Error(err))
			}
			log.Info("wrote excel report", zap.String("path", path))
		}
	}

	if len(results) > 1 {
		reporter.PrintComparison(backtest.Compare(results))
	}
}

func runOne(ctx context.Context, cfg *config.Config, symbol, period string, log *zap.Logger) (*backtest.Result, error) {
	series, contract, err := common.LoadSeries(ctx, cfg, symbol, period)
	if err != nil {
		return nil, err
	}
	log.Info("loaded series",
		zap.String("symbol", symbol),
		zap.Int("bars", len(series)),
		zap.Time("start", series[0].Timestamp),
		zap.Time("end", series[len(series)-1].Timestamp))

	engine := backtest.NewEngine(cfg.SimulationConfig(), contract, cfg.StrategyParams())
	return engine.Run(series)
}

func excelPathFor(base, symbol string, multi bool) string {
	if !multi {
		return base
	}
	ext := ".xlsx"
	trimmed := strings.TrimSuffix(base, ext)
	return trimmed + "_" + symbol + ext
}
