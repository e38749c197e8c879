package calculation

import (
	"context"
	"math"
	"runtime"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/rpgo/wealthsim/internal/domain"
	"github.com/rpgo/wealthsim/pkg/stats"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPlan(name string, income, expenses, capital int64, planned ...domain.PlannedExpense) domain.Plan {
	return domain.Plan{
		Name:            name,
		InitialIncome:   decimal.NewFromInt(income),
		InitialExpenses: decimal.NewFromInt(expenses),
		InitialCapital:  decimal.NewFromInt(capital),
		PlannedExpenses: planned,
	}
}

func smallParameters(scenarios, years int) domain.GlobalParameters {
	p := domain.DefaultParameters()
	p.NumScenarios = scenarios
	p.NumMonths = years * 12
	p.Horizons = []int{years}
	return p
}

func fixClock(t *testing.T) {
	t.Helper()
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	SetNowFunc(func() time.Time { return fixed })
	t.Cleanup(func() { SetNowFunc(time.Now) })
}

func runPlan(t *testing.T, params domain.GlobalParameters, plan domain.Plan, opts ...Option) *domain.PlanResult {
	t.Helper()
	sim, err := NewSimulator(params, opts...)
	require.NoError(t, err)
	res, err := sim.RunPlan(context.Background(), plan)
	require.NoError(t, err)
	return res
}

func TestRunPlanIsReproducibleAcrossWorkerCounts(t *testing.T) {
	fixClock(t)
	params := smallParameters(150, 10)
	params.Horizons = []int{5, 10}
	plan := testPlan("B", 150000, 80000, 0)

	one := runPlan(t, params, plan, WithWorkers(1))
	many := runPlan(t, params, plan, WithWorkers(8))
	again := runPlan(t, params, plan, WithWorkers(3))
	assert.Equal(t, one, many)
	assert.Equal(t, one, again)

	params.Seed = 43
	other := runPlan(t, params, plan, WithWorkers(4))
	assert.NotEqual(t, one.Horizons[1].Samples.NetWealth, other.Horizons[1].Samples.NetWealth)
}

func TestBatchedDrawsAreReproducible(t *testing.T) {
	fixClock(t)
	params := smallParameters(100, 5)
	plan := testPlan("B", 150000, 80000, 0)

	a := runPlan(t, params, plan, WithBatchedDraws(true), WithWorkers(2))
	b := runPlan(t, params, plan, WithBatchedDraws(true), WithWorkers(5))
	assert.Equal(t, a, b)
	assert.Zero(t, a.Diagnostics.Anomalies())
}

func TestPlansShareScenarioStreams(t *testing.T) {
	fixClock(t)
	sim, err := NewSimulator(smallParameters(80, 5))
	require.NoError(t, err)

	report, err := sim.RunPlans(context.Background(), []domain.Plan{
		testPlan("first", 120000, 80000, 0),
		testPlan("twin", 120000, 80000, 0),
	})
	require.NoError(t, err)
	require.Len(t, report.Plans, 2)
	assert.Equal(t, []int{5}, report.HorizonYears())
	assert.Equal(t, int64(42), report.Seed)
	assert.Equal(t, report.Plans[0].Horizons, report.Plans[1].Horizons)
}

func TestShadowMatchesRealPathWithoutShocks(t *testing.T) {
	fixClock(t)
	params := domain.DefaultParameters().WithoutShocks()
	params.NumScenarios = 25
	params.NumMonths = 120
	params.Horizons = []int{5, 10}
	plan := testPlan("calm", 150000, 80000, 50000, domain.PlannedExpense{
		Name:         "Flat",
		Amount:       decimal.NewFromInt(400000),
		TriggerKind:  domain.TriggerSavingsTarget,
		TriggerValue: decimal.NewFromInt(400000),
	})
	require.Equal(t, params.SavingsReturnRate.InexactFloat64(), params.IdealReturnRate.InexactFloat64())

	res := runPlan(t, params, plan)
	for _, rec := range res.Horizons {
		for i, w := range rec.Samples.NetWealth {
			assert.InDelta(t, rec.IdealWealth, w, 1e-3, "scenario %d at %d years", i, rec.Years)
			assert.Equal(t, 0.0, rec.Samples.CompoundingLoss[i])
			assert.Equal(t, 0.0, rec.Samples.DirectLoss[i])
		}
		assert.Equal(t, 0.0, rec.Debt.PctInDebt)
		assert.Equal(t, 100.0, rec.Debt.Burden.NoDebt)
		require.Len(t, rec.PlannedExpenses, 1)
		assert.Equal(t, 100.0, rec.PlannedExpenses[0].FrequencyPct)
		assert.Equal(t, stats.MethodDegenerate, rec.Wealth.Mode.Method)
	}
}

func TestBaselinesForShockFreePlan(t *testing.T) {
	fixClock(t)
	params := smallParameters(5, 5)
	res := runPlan(t, params, testPlan("B", 150000, 80000, 100000))
	rec, ok := res.Horizon(5)
	require.True(t, ok)

	assert.InDelta(t, 100000+60*70000, rec.LinearWealth, 1e-6)
	assert.Greater(t, rec.IdealWealth, rec.LinearWealth)
	assert.InDelta(t, 70000, rec.TheoreticalCashFlow, 1e-9)
	potential := 100000 * math.Pow(1+0.005, 60)
	assert.InDelta(t, potential, rec.InitialCapitalPotential, 1e-6)
	assert.InDelta(t, potential-100000, rec.InitialCapitalProfit, 1e-6)
}

func TestShocksCreateCompoundingLoss(t *testing.T) {
	fixClock(t)
	res := runPlan(t, smallParameters(300, 10), testPlan("B", 150000, 80000, 0))
	rec := res.Horizons[0]

	assert.Positive(t, rec.Shocks.AvgDirectLoss)
	assert.Positive(t, rec.Shocks.AvgCompoundingLoss)
	assert.Positive(t, rec.Shocks.AvgMinorEmergencies)
	for _, c := range rec.Samples.CompoundingLoss {
		assert.GreaterOrEqual(t, c, 0.0)
	}
	assert.Less(t, rec.Wealth.Mean, rec.IdealWealth)
	assert.LessOrEqual(t, rec.Wealth.Min, rec.Wealth.P1)
	assert.LessOrEqual(t, rec.Wealth.P99, rec.Wealth.Max)
	assert.Zero(t, res.Diagnostics.Anomalies())
}

func TestDeficitPlanTriggersDebtTiers(t *testing.T) {
	fixClock(t)
	res := runPlan(t, smallParameters(50, 10), testPlan("short", 30000, 60000, 0))
	rec := res.Horizons[0]

	assert.Equal(t, 100.0, rec.Debt.PctEverRestructured)
	assert.Equal(t, 100.0, rec.Debt.PctEverBankrupt)
	assert.GreaterOrEqual(t, rec.Debt.AvgBankruptcyEvents, 1.0)
	assert.Positive(t, rec.Debt.AvgInterestPaid)
	assert.Equal(t, 100.0, rec.PctZeroContribution)
	assert.Zero(t, res.Diagnostics.Anomalies())
}

func TestNegativeCapitalIsClamped(t *testing.T) {
	fixClock(t)
	rl := &recordingLogger{}
	res := runPlan(t, smallParameters(5, 1), testPlan("neg", 100000, 80000, -1000), WithLogger(rl))
	assert.Equal(t, 1, res.Diagnostics.ClampedInitialCapital)
	assert.Equal(t, 0.0, res.Horizons[0].InitialCapitalPotential)
	require.NotEmpty(t, rl.warn)
	assert.Contains(t, rl.warn[0], "plan neg: ")
	assert.Contains(t, rl.warn[0], "clamped")
}

func TestProgressNotifications(t *testing.T) {
	fixClock(t)
	var mu sync.Mutex
	var calls []int
	progress := func(done, total int) {
		mu.Lock()
		defer mu.Unlock()
		assert.Equal(t, 2500, total)
		calls = append(calls, done)
	}
	runPlan(t, smallParameters(2500, 1), testPlan("B", 150000, 80000, 0), WithProgress(progress), WithGridPoints(100))

	sort.Ints(calls)
	assert.Equal(t, []int{1000, 2000, 2500}, calls)
}

func TestRunPlanHonorsCancellation(t *testing.T) {
	sim, err := NewSimulator(smallParameters(100, 5))
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = sim.RunPlan(ctx, testPlan("B", 150000, 80000, 0))
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWorkerPoolBoundsGoroutines(t *testing.T) {
	fixClock(t)
	const workers = 2
	baseline := runtime.NumGoroutine()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	var inFlight []int
	progress := func(done, total int) {
		mu.Lock()
		defer mu.Unlock()
		inFlight = append(inFlight, runtime.NumGoroutine()-baseline)
		cancel()
	}
	sim, err := NewSimulator(smallParameters(5000, 1), WithWorkers(workers), WithProgress(progress), WithGridPoints(100))
	require.NoError(t, err)

	_, err = sim.RunPlan(ctx, testPlan("B", 150000, 80000, 0))
	require.ErrorIs(t, err, context.Canceled)
	require.NotEmpty(t, inFlight)
	for _, g := range inFlight {
		assert.LessOrEqual(t, g, workers+2, "scenario goroutines outnumber workers")
	}
	assert.Less(t, len(inFlight), 5, "dispatch stops after cancellation")
}

func TestNewSimulatorRejectsInvalidParameters(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*domain.GlobalParameters)
	}{
		{"no scenarios", func(p *domain.GlobalParameters) { p.NumScenarios = 0 }},
		{"no months", func(p *domain.GlobalParameters) { p.NumMonths = 0 }},
		{"no horizons", func(p *domain.GlobalParameters) { p.Horizons = nil }},
		{"zero horizon", func(p *domain.GlobalParameters) { p.Horizons = []int{0, 5} }},
		{"horizon past run", func(p *domain.GlobalParameters) { p.Horizons = []int{31} }},
		{"inverted thresholds", func(p *domain.GlobalParameters) { p.BankruptcyThresholdRatio = 0.5 }},
		{"cluster lambda too large", func(p *domain.GlobalParameters) { p.Emergencies.MajorClusterLambda = 800 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := domain.DefaultParameters()
			tt.mutate(&p)
			_, err := NewSimulator(p)
			assert.ErrorIs(t, err, ErrInvalidParameters)
		})
	}
}

func TestNormalizeHorizons(t *testing.T) {
	got, err := normalizeHorizons([]int{10, 5, 5, 10, 1}, 120)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 5, 10}, got)
}

func TestZeroSeedUsesSeedFunc(t *testing.T) {
	prev := seedFunc
	SetSeedFunc(func() int64 { return 99 })
	t.Cleanup(func() { SetSeedFunc(prev) })

	p := domain.DefaultParameters()
	p.Seed = 0
	sim, err := NewSimulator(p, WithWorkers(0))
	require.NoError(t, err)
	assert.Equal(t, int64(99), sim.Seed())
	assert.Equal(t, int64(99), sim.Parameters().Seed)
	assert.Equal(t, 1, sim.Workers())
}
