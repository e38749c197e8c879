package calculation

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rpgo/wealthsim/internal/domain"
	"github.com/rpgo/wealthsim/pkg/dateutil"
	"github.com/rpgo/wealthsim/pkg/stats"
)

// nowFunc stamps reports and times plan runs (override in tests).
var nowFunc = time.Now

// SetNowFunc overrides the clock (use only in tests).
func SetNowFunc(f func() time.Time) { nowFunc = f }

// ProgressInterval is the number of completed scenarios between progress notifications
const ProgressInterval = 1000

// ProgressFunc receives the number of completed scenarios of the current plan.
// It is called from worker goroutines and must be safe for concurrent use.
type ProgressFunc func(done, total int)

// Simulator runs the scenario x month loop for each plan and aggregates the horizons
type Simulator struct {
	params     domain.GlobalParameters
	ep         engineParams
	workers    int
	batched    bool
	gridPoints int
	progress   ProgressFunc
	logger     Logger
}

// Option configures a Simulator
type Option func(*Simulator)

// WithWorkers bounds the number of scenarios simulated concurrently
func WithWorkers(n int) Option {
	return func(s *Simulator) { s.workers = n }
}

// WithBatchedDraws switches scenario streams to block-drawn uniforms
func WithBatchedDraws(batched bool) Option {
	return func(s *Simulator) { s.batched = batched }
}

// WithProgress installs a progress callback
func WithProgress(fn ProgressFunc) Option {
	return func(s *Simulator) { s.progress = fn }
}

// WithLogger installs a logger
func WithLogger(l Logger) Option {
	return func(s *Simulator) { s.SetLogger(l) }
}

// WithGridPoints sets the density grid size of the modal estimate
func WithGridPoints(n int) Option {
	return func(s *Simulator) { s.gridPoints = n }
}

// NewSimulator validates the parameters and prepares a simulator.
// A zero seed is replaced by a time-based one.
func NewSimulator(params domain.GlobalParameters, opts ...Option) (*Simulator, error) {
	if params.Seed == 0 {
		params.Seed = seedFunc()
	}
	ep, err := compileParameters(params)
	if err != nil {
		return nil, err
	}
	s := &Simulator{
		params:     params,
		ep:         ep,
		workers:    runtime.NumCPU(),
		gridPoints: stats.DefaultGridPoints,
		logger:     NopLogger{},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.workers < 1 {
		s.workers = 1
	}
	return s, nil
}

// SetLogger replaces the logger; nil restores the no-op logger
func (s *Simulator) SetLogger(l Logger) {
	if l == nil {
		s.logger = NopLogger{}
		return
	}
	s.logger = l
}

// Seed returns the master seed the simulator runs with
func (s *Simulator) Seed() int64 { return s.ep.seed }

// Workers returns the concurrency bound
func (s *Simulator) Workers() int { return s.workers }

// Parameters returns the effective parameters, including the resolved seed
func (s *Simulator) Parameters() domain.GlobalParameters { return s.params }

// RunPlans simulates every plan in order and collects the results into a report
func (s *Simulator) RunPlans(ctx context.Context, plans []domain.Plan) (*domain.SimulationReport, error) {
	report := &domain.SimulationReport{
		GeneratedAt:  nowFunc(),
		Parameters:   s.params,
		Seed:         s.ep.seed,
		Workers:      s.workers,
		BatchedDraws: s.batched,
	}
	for i, plan := range plans {
		res, err := s.runPlan(ctx, plan, i)
		if err != nil {
			return nil, err
		}
		report.Plans = append(report.Plans, *res)
		report.Diagnostics.Merge(res.Diagnostics)
	}
	return report, nil
}

// RunPlan simulates one plan
func (s *Simulator) RunPlan(ctx context.Context, plan domain.Plan) (*domain.PlanResult, error) {
	return s.runPlan(ctx, plan, 0)
}

func (s *Simulator) runPlan(ctx context.Context, plan domain.Plan, index int) (*domain.PlanResult, error) {
	start := nowFunc()
	cp := compilePlan(plan, index, s.ep.months)
	n := s.ep.scenarios

	log := withPrefix(s.logger, "plan "+cp.name+": ")

	var diag domain.Diagnostics
	if cp.clamped {
		diag.ClampedInitialCapital++
		log.Warnf("negative initial capital %s clamped to zero", plan.InitialCapital.String())
	}
	log.Infof("simulating %d scenarios over %d months (seed %d, workers %d)", n, s.ep.months, s.ep.seed, s.workers)

	model := ScenarioModel{plan: cp, engine: s.ep.realEngine(), shocks: NewShockGenerator(s.ep.shocks)}
	shadow := ShadowAccountant{plan: cp, engine: s.ep.shadowEngine()}

	// results are addressed by scenario index so completion order never matters
	outcomes := make([][]ScenarioOutcome, n)
	diags := make([]domain.Diagnostics, n)
	var wg sync.WaitGroup
	var done atomic.Int64
	semaphore := make(chan struct{}, s.workers)

	// at most s.workers scenario goroutines exist at any time
dispatch:
	for i := 0; i < n; i++ {
		select {
		case semaphore <- struct{}{}: // Acquire semaphore
		case <-ctx.Done():
			break dispatch
		}
		if ctx.Err() != nil {
			<-semaphore
			break
		}
		wg.Add(1)
		go func(simIndex int) {
			defer wg.Done()
			defer func() { <-semaphore }() // Release semaphore
			outcomes[simIndex], diags[simIndex] = s.runScenario(model, shadow, simIndex)
			s.notify(int(done.Add(1)), n)
		}(i)
	}
	wg.Wait()
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("plan %s: simulation interrupted: %w", cp.name, err)
	}

	for _, d := range diags {
		diag.Merge(d)
	}
	if a := diag.Anomalies(); a > 0 {
		log.Warnf("%d ledger invariant anomalies detected", a)
	}

	base := computeBaselines(cp, s.ep)
	agg := HorizonAggregator{GridPoints: s.gridPoints}
	result := &domain.PlanResult{Plan: plan}
	column := make([]ScenarioOutcome, n)
	for h, years := range s.ep.horizons {
		for i := range outcomes {
			column[i] = outcomes[i][h]
		}
		rec := agg.Aggregate(years, column)
		months := dateutil.HorizonMonth(years)
		rec.IdealWealth = base.ideal[years]
		rec.LinearWealth = base.linear[years]
		rec.InitialCapitalPotential = initialCapitalPotential(cp.capital, s.ep.idealRate, months)
		rec.InitialCapitalProfit = rec.InitialCapitalPotential - cp.capital
		rec.TheoreticalCashFlow = theoreticalCashFlow(cp, months)
		if rec.Wealth.Mode.Fallback() {
			diag.KDEFallbacks++
			log.Warnf("%d-year density estimate fell back to histogram", years)
		}
		log.Debugf("%d-year horizon mean %.0f median %.0f", years, rec.Wealth.Mean, rec.Wealth.Median)
		result.Horizons = append(result.Horizons, rec)
	}
	result.Diagnostics = diag
	result.Elapsed = nowFunc().Sub(start)
	log.Infof("finished in %s", result.Elapsed)
	return result, nil
}

// runScenario advances one scenario and its shadow month by month, capturing each horizon.
func (s *Simulator) runScenario(model ScenarioModel, shadow ShadowAccountant, index int) ([]ScenarioOutcome, domain.Diagnostics) {
	horizons := s.ep.horizons
	src := NewDrawSource(s.ep.seed, index, s.batched)
	state := model.Start()
	sh := shadow.Start()
	out := make([]ScenarioOutcome, 0, len(horizons))

	var diag domain.Diagnostics
	last := dateutil.HorizonMonth(horizons[len(horizons)-1])
	next := 0
	for month := 1; month <= last; month++ {
		var rec MonthRecord
		state, rec = model.AdvanceMonth(state, month, src)
		var d domain.Diagnostics
		sh, d = shadow.Advance(sh, month, rec.Activity.Spends)
		diag.Merge(d)
		if month == dateutil.HorizonMonth(horizons[next]) {
			out = append(out, captureOutcome(state, sh, month, s.ep.savingsRate))
			next++
		}
	}
	diag.Merge(state.Stats.Diagnostics)
	return out, diag
}

func (s *Simulator) notify(done, total int) {
	if s.progress == nil {
		return
	}
	if done%ProgressInterval == 0 || done == total {
		s.progress(done, total)
	}
}
