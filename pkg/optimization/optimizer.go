package optimization

import (
	"context"
	"math/rand"
	"sort"
	"sync"

	"github.com/ducminhle1904/futures-strategy-lab/internal/backtest"
	"github.com/ducminhle1904/futures-strategy-lab/internal/strategy"
	"github.com/ducminhle1904/futures-strategy-lab/pkg/types"
)

const (
	// PopulationSize is the number of individuals per generation.
	PopulationSize = 20

	eliteCount     = 2
	parentPoolSize = 11
	mutationRate   = 0.1

	maxParallelEvaluations = 6

	lowAccuracyThreshold = 40.0
	lowAccuracyPenalty   = 50.0
	fewTradesThreshold   = 5
	fewTradesPenalty     = 20.0

	// invalidFitness ranks an individual last when its genome cannot be
	// evaluated at all (warm-up longer than the series).
	invalidFitness = -1e9
)

// Optimizer evaluates candidate parameter sets against one price series
// and evolves the population between generations. It holds its own RNG;
// a single Optimizer must not be stepped from multiple goroutines.
type Optimizer struct {
	cfg      backtest.Config
	contract types.Contract
	series   types.PriceSeries
	ranges   Ranges
	rng      *rand.Rand
}

// NewOptimizer builds an optimizer over the given series. The simulation
// config is forced to a single position slot so fitness reflects signal
// quality rather than pyramiding behavior.
func NewOptimizer(cfg backtest.Config, contract types.Contract, series types.PriceSeries, seed int64) *Optimizer {
	cfg.MaxPositions = 1
	return &Optimizer{
		cfg:      cfg,
		contract: contract,
		series:   series,
		ranges:   DefaultRanges(),
		rng:      rand.New(rand.NewSource(seed)),
	}
}

// NewPopulation seeds generation zero: index 0 is pinned to the default
// parameters so the search never loses the baseline, the rest is random.
func (o *Optimizer) NewPopulation() []*Individual {
	pop := make([]*Individual, PopulationSize)
	pop[0] = &Individual{Params: strategy.DefaultParams()}
	for i := 1; i < PopulationSize; i++ {
		pop[i] = &Individual{Params: o.ranges.Sample(o.rng)}
	}
	return pop
}

// Evaluate backtests every not-yet-evaluated individual, in parallel up to
// a fixed worker count. Already evaluated individuals (carried elites) are
// skipped. Cancelling the context abandons unstarted evaluations.
func (o *Optimizer) Evaluate(ctx context.Context, pop []*Individual) error {
	var wg sync.WaitGroup
	slots := make(chan struct{}, maxParallelEvaluations)

	for _, ind := range pop {
		if ind.Evaluated {
			continue
		}
		if err := ctx.Err(); err != nil {
			wg.Wait()
			return err
		}

		wg.Add(1)
		go func(ind *Individual) {
			defer wg.Done()
			slots <- struct{}{}
			defer func() { <-slots }()
			o.evaluateOne(ind)
		}(ind)
	}

	wg.Wait()
	return ctx.Err()
}

func (o *Optimizer) evaluateOne(ind *Individual) {
	engine := backtest.NewEngine(o.cfg, o.contract, ind.Params)
	result, err := engine.Run(o.series)
	if err != nil {
		ind.Fitness = invalidFitness
		ind.Evaluated = true
		return
	}

	ind.Profit = result.Metrics.TotalPnLPercent
	ind.Accuracy = result.Metrics.WinRate
	ind.Trades = result.Metrics.TotalTrades
	ind.Fitness = fitness(ind.Profit, ind.Accuracy, ind.Trades)
	ind.Evaluated = true
}

// fitness is the raw return percent, penalized for low hit rate and for
// results too thin to trust.
func fitness(profit, accuracy float64, trades int) float64 {
	f := profit
	if accuracy < lowAccuracyThreshold {
		f -= lowAccuracyPenalty
	}
	if trades < fewTradesThreshold {
		f -= fewTradesPenalty
	}
	return f
}

// Sort orders the population best-first by fitness.
func Sort(pop []*Individual) {
	sort.SliceStable(pop, func(i, j int) bool {
		return pop[i].Fitness > pop[j].Fitness
	})
}

// Evolve produces the next generation from an evaluated population: the
// two best individuals carry over unchanged (evaluation state included),
// the rest are bred from parents drawn uniformly out of the top of the
// ranking, with uniform crossover and per-gene mutation.
func (o *Optimizer) Evolve(pop []*Individual) []*Individual {
	Sort(pop)

	next := make([]*Individual, len(pop))
	for i := 0; i < eliteCount && i < len(pop); i++ {
		elite := *pop[i]
		next[i] = &elite
	}

	poolSize := parentPoolSize
	if poolSize > len(pop) {
		poolSize = len(pop)
	}

	for i := eliteCount; i < len(pop); i++ {
		p1 := pop[o.rng.Intn(poolSize)]
		p2 := pop[o.rng.Intn(poolSize)]
		child := o.mutate(o.crossover(p1.Params, p2.Params))
		next[i] = &Individual{Params: child.Repair()}
	}

	return next
}

// Step runs one full generation: evaluate, rank, breed. The evaluated and
// sorted current population is left in place so the caller can inspect
// the generation's best before adopting the returned offspring.
func (o *Optimizer) Step(ctx context.Context, pop []*Individual) ([]*Individual, error) {
	if err := o.Evaluate(ctx, pop); err != nil {
		return nil, err
	}
	Sort(pop)
	return o.Evolve(pop), nil
}

// crossover mixes two genomes gene by gene with equal odds.
func (o *Optimizer) crossover(a, b strategy.Params) strategy.Params {
	child := a
	if o.rng.Float64() < 0.5 {
		child.RSIPeriod = b.RSIPeriod
	}
	if o.rng.Float64() < 0.5 {
		child.RSIOverbought = b.RSIOverbought
	}
	if o.rng.Float64() < 0.5 {
		child.RSIOversold = b.RSIOversold
	}
	if o.rng.Float64() < 0.5 {
		child.MACDFast = b.MACDFast
	}
	if o.rng.Float64() < 0.5 {
		child.MACDSlow = b.MACDSlow
	}
	if o.rng.Float64() < 0.5 {
		child.MACDSignal = b.MACDSignal
	}
	if o.rng.Float64() < 0.5 {
		child.FastMAPeriod = b.FastMAPeriod
	}
	if o.rng.Float64() < 0.5 {
		child.SlowMAPeriod = b.SlowMAPeriod
	}
	if o.rng.Float64() < 0.5 {
		child.VolatilityWindow = b.VolatilityWindow
	}
	if o.rng.Float64() < 0.5 {
		child.VolumeThreshold = b.VolumeThreshold
	}
	return child
}

// mutate resamples each gene from its range with a small probability.
func (o *Optimizer) mutate(p strategy.Params) strategy.Params {
	r := o.ranges
	if o.rng.Float64() < mutationRate {
		p.RSIPeriod = r.RSIPeriod.sample(o.rng)
	}
	if o.rng.Float64() < mutationRate {
		p.RSIOverbought = r.RSIOverbought.sample(o.rng)
	}
	if o.rng.Float64() < mutationRate {
		p.RSIOversold = r.RSIOversold.sample(o.rng)
	}
	if o.rng.Float64() < mutationRate {
		p.MACDFast = r.MACDFast.sample(o.rng)
	}
	if o.rng.Float64() < mutationRate {
		p.MACDSlow = r.MACDSlow.sample(o.rng)
	}
	if o.rng.Float64() < mutationRate {
		p.MACDSignal = r.MACDSignal.sample(o.rng)
	}
	if o.rng.Float64() < mutationRate {
		p.FastMAPeriod = r.FastMAPeriod.sample(o.rng)
	}
	if o.rng.Float64() < mutationRate {
		p.SlowMAPeriod = r.SlowMAPeriod.sample(o.rng)
	}
	if o.rng.Float64() < mutationRate {
		p.VolatilityWindow = r.VolatilityWindow.sample(o.rng)
	}
	if o.rng.Float64() < mutationRate {
		p.VolumeThreshold = r.VolumeThreshold.sample(o.rng)
	}
	return p
}
