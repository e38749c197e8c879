package calculation

import (
	"context"
	"math"
	"testing"

	"github.com/rpgo/wealthsim/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTraceBalanceSheetIdentity(t *testing.T) {
	plans := []domain.Plan{
		testPlan("tight", 90000, 80000, 20000, domain.PlannedExpense{
			Name:         "Car",
			Amount:       decimal.NewFromInt(150000),
			TriggerKind:  domain.TriggerTime,
			TriggerValue: decimal.NewFromInt(3),
		}),
		testPlan("deficit", 25000, 60000, 0),
	}
	sim, err := NewSimulator(smallParameters(10, 30))
	require.NoError(t, err)

	for _, plan := range plans {
		for _, scenario := range []int{0, 7} {
			rows, err := sim.Trace(plan, scenario, 0)
			require.NoError(t, err)
			require.Len(t, rows, 360)

			prev := NewLedger(plan.InitialCapital.InexactFloat64(), 200000).NetWealth()
			for _, r := range rows {
				act := r.Activity
				base := prev
				if act.Bankrupt {
					base = 0
				}
				want := base + r.Income - r.Expenses - r.Shocks.Total() - act.PlannedSpent() - act.Tax + act.Growth - act.Interest
				got := r.Ledger.NetWealth()
				tol := 1e-6 * math.Max(1, math.Abs(want))
				require.InDelta(t, want, got, tol, "%s scenario %d month %d", plan.Name, scenario, r.Month)
				prev = got
			}
		}
	}
}

func TestTraceMatchesSimulatedPath(t *testing.T) {
	params := smallParameters(8, 10)
	plan := testPlan("B", 150000, 80000, 0)
	sim, err := NewSimulator(params, WithWorkers(3))
	require.NoError(t, err)
	res, err := sim.RunPlan(context.Background(), plan)
	require.NoError(t, err)

	rows, err := sim.Trace(plan, 5, 120)
	require.NoError(t, err)
	last := rows[len(rows)-1]
	assert.Equal(t, res.Horizons[0].Samples.NetWealth[5], last.Ledger.NetWealth())
	assert.Equal(t, res.Horizons[0].Samples.FinalDebt[5], last.Ledger.Settled().Debt)
}

func TestTraceRejectsScenarioOutOfRange(t *testing.T) {
	sim, err := NewSimulator(smallParameters(3, 1))
	require.NoError(t, err)
	_, err = sim.Trace(testPlan("B", 1, 1, 0), 3, 12)
	assert.Error(t, err)
	_, err = sim.Trace(testPlan("B", 1, 1, 0), -1, 12)
	assert.Error(t, err)
}
