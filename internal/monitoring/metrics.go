// Package monitoring exposes Prometheus metrics for long-running
// simulation and optimization jobs.
package monitoring

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	backtestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "strategy_lab_backtests_total",
			Help: "Total number of completed backtest runs",
		},
		[]string{"symbol"},
	)

	backtestReturn = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "strategy_lab_backtest_return_percent",
			Help: "Total return percent of the last backtest run",
		},
		[]string{"symbol"},
	)

	optimizerGeneration = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "strategy_lab_optimizer_generation",
			Help: "Current optimizer generation",
		},
		[]string{"symbol"},
	)

	optimizerBestFitness = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "strategy_lab_optimizer_best_fitness",
			Help: "Best fitness seen so far in the optimization run",
		},
		[]string{"symbol"},
	)

	errorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "strategy_lab_errors_total",
			Help: "Total number of errors",
		},
		[]string{"type"},
	)
)

func init() {
	prometheus.MustRegister(backtestsTotal)
	prometheus.MustRegister(backtestReturn)
	prometheus.MustRegister(optimizerGeneration)
	prometheus.MustRegister(optimizerBestFitness)
	prometheus.MustRegister(errorsTotal)
}

// Handler returns the Prometheus scrape endpoint handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordBacktest records a completed backtest run.
func RecordBacktest(symbol string, returnPercent float64) {
	backtestsTotal.WithLabelValues(symbol).Inc()
	backtestReturn.WithLabelValues(symbol).Set(returnPercent)
}

// RecordGeneration records optimizer progress.
func RecordGeneration(symbol string, generation int, bestFitness float64) {
	optimizerGeneration.WithLabelValues(symbol).Set(float64(generation))
	optimizerBestFitness.WithLabelValues(symbol).Set(bestFitness)
}

// RecordError records an error by category.
func RecordError(errType string) {
	errorsTotal.WithLabelValues(errType).Inc()
}
