// Command optimize searches the strategy parameter space with a genetic
// algorithm, then re-runs the best parameter set through a full backtest.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/ducminhle1904/futures-strategy-lab/cmd/common"
	"github.com/ducminhle1904/futures-strategy-lab/internal/backtest"
	"github.com/ducminhle1904/futures-strategy-lab/internal/logger"
	"github.com/ducminhle1904/futures-strategy-lab/internal/monitoring"
	"github.com/ducminhle1904/futures-strategy-lab/pkg/config"
	"github.com/ducminhle1904/futures-strategy-lab/pkg/optimization"
	"github.com/ducminhle1904/futures-strategy-lab/pkg/reporting"
)

func main() {
	var (
		configPath  = flag.String("config", "configs/backtest.json", "path to the JSON configuration file")
		period      = flag.String("period", "", "trailing period filter, e.g. 180d")
		generations = flag.Int("generations", 0, "generation count override")
		seed        = flag.Int64("seed", 0, "RNG seed (0 uses the current time)")
		excelPath   = flag.String("excel", "", "write the best result workbook to this path")
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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	series, contract, err := common.LoadSeries(ctx, cfg, cfg.Symbol, *period)
	if err != nil {
		monitoring.RecordError("data")
		log.Fatal("load data", zap.Error(err))
	}
	log.Info("loaded series", zap.String("symbol", cfg.Symbol), zap.Int("bars", len(series)))

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	gens := cfg.Generations()
	if *generations > 0 {
		gens = *generations
	}

	opt := optimization.NewOptimizer(cfg.SimulationConfig(), contract, series, rngSeed)
	pop := opt.NewPopulation()

	var best optimization.Individual
	for gen := 1; gen <= gens; gen++ {
		next, err := opt.Step(ctx, pop)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				log.Warn("optimization interrupted", zap.Int("generation", gen))
				break
			}
			log.Fatal("optimization step", zap.Int("generation", gen), zap.Error(err))
		}

		if !best.Evaluated || pop[0].Fitness > best.Fitness {
			best = *pop[0]
		}
		monitoring.RecordGeneration(cfg.Symbol, gen, best.Fitness)
		log.Info("generation complete",
			zap.Int("generation", gen),
			zap.Float64("best_fitness", pop[0].Fitness),
			zap.Float64("best_profit", pop[0].Profit),
			zap.Float64("best_accuracy", pop[0].Accuracy),
			zap.Int("best_trades", pop[0].Trades))

		if gen < gens {
			pop = next
		}
	}

	if !best.Evaluated {
		log.Fatal("no generation completed")
	}

	reporter := reporting.NewConsoleReporter(os.Stdout)
	reporter.PrintPopulation(pop)

	log.Info("best parameters",
		zap.Float64("fitness", best.Fitness),
		zap.Any("params", best.Params))

	// Re-run the winner with the full simulation config (the search itself
	// is constrained to a single position slot).
	engine := backtest.NewEngine(cfg.SimulationConfig(), contract, best.Params)
	result, err := engine.Run(series)
	if err != nil {
		log.Fatal("final backtest", zap.Error(err))
	}
	monitoring.RecordBacktest(cfg.Symbol, result.Metrics.TotalPnLPercent)
	reporter.PrintResult(result)

	if *excelPath != "" {
		if err := reporting.NewExcelReporter().WriteResult(result, *excelPath); err != nil {
			log.Fatal("write excel report", zap.Error(err))
		}
		log.Info("wrote excel report", zap.String("path", *excelPath))
	}
}
