package calculation

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func referenceEngine() DebtEngine {
	return DebtEngine{
		CushionCap:         200000,
		ReturnRate:         0.005,
		TaxRate:            0.13,
		DebtRate:           0.02,
		RestructuringRatio: 1.0,
		BankruptcyRatio:    3.0,
	}
}

func TestAdvanceSurplusHouseholdFirstYear(t *testing.T) {
	e := referenceEngine()
	l := NewLedger(0, e.CushionCap)

	expectedSavings := 0.0
	growth := 0.0
	for m := 1; m <= 12; m++ {
		var act MonthActivity
		l, act = e.Advance(l, MonthFlow{Month: m, Income: 150000, Expenses: 80000}, nil)

		require.Equal(t, 0.0, l.Debt, "month %d", m)
		assert.True(t, act.Contributed)
		assert.LessOrEqual(t, l.Cushion, e.CushionCap)

		switch m {
		case 1:
			assert.Equal(t, 70000.0, l.Cushion)
			assert.Equal(t, 0.0, l.Savings)
		case 2:
			assert.Equal(t, 140000.0, l.Cushion)
			assert.Equal(t, 0.0, l.Savings)
		case 3:
			assert.Equal(t, 200000.0, l.Cushion)
			assert.Equal(t, 10000.0, l.Savings)
			assert.Equal(t, 0.0, act.Growth, "savings were empty when growth applied")
			expectedSavings = 10000
		default:
			g := expectedSavings * 0.005
			growth += g
			expectedSavings += g + 70000
			assert.InDelta(t, g, act.Growth, 1e-9, "month %d", m)
		}
		if m < 12 {
			assert.Equal(t, 0.0, act.Tax, "month %d", m)
		} else {
			tax := growth * 0.13
			assert.InDelta(t, tax, act.Tax, 1e-9)
			expectedSavings -= tax
		}
		if m >= 4 {
			assert.InDelta(t, expectedSavings, l.Savings, 1e-6, "month %d", m)
		}
	}
	assert.Equal(t, 200000.0, l.Cushion)
}

func TestAdvanceResetsGrowthAtCycleStart(t *testing.T) {
	e := referenceEngine()
	l := Ledger{Cushion: 200000, Savings: 1000, AnnualGrowth: 40}
	l, _ = e.Advance(l, MonthFlow{Month: 13, Income: 100, Expenses: 100}, nil)
	assert.InDelta(t, 5, l.AnnualGrowth, 1e-9)
}

func TestBankruptcyWipesLedger(t *testing.T) {
	e := referenceEngine()

	t.Run("tier transition", func(t *testing.T) {
		var act MonthActivity
		got := e.applyDebtTier(Ledger{Debt: 4_000_000, Restructured: true, AnnualGrowth: 5}, 100000, &act)
		assert.Equal(t, Ledger{}, got)
		assert.True(t, act.Bankrupt)
		assert.Equal(t, 0.0, act.Interest)
	})

	t.Run("full month with balanced flow", func(t *testing.T) {
		l := Ledger{Cushion: 50000, Savings: 20000, Debt: 5_000_000, AnnualGrowth: 100}
		got, act := e.Advance(l, MonthFlow{Month: 5, Income: 100000, Expenses: 100000}, nil)
		assert.True(t, act.Bankrupt)
		assert.Equal(t, Ledger{}, got)
	})

	t.Run("zero income with debt", func(t *testing.T) {
		var act MonthActivity
		got := e.applyDebtTier(Ledger{Debt: 1}, 0, &act)
		assert.True(t, act.Bankrupt)
		assert.Equal(t, Ledger{}, got)
	})

	t.Run("zero income without debt", func(t *testing.T) {
		var act MonthActivity
		got := e.applyDebtTier(Ledger{Cushion: 10}, 0, &act)
		assert.False(t, act.Bankrupt)
		assert.Equal(t, Ledger{Cushion: 10}, got)
	})
}

func TestRestructuringTier(t *testing.T) {
	e := referenceEngine()
	flow := MonthFlow{Month: 2, Income: 100000, Expenses: 100000}

	l, act := e.Advance(Ledger{Debt: 1_500_000}, flow, nil)
	assert.True(t, act.EnteredRestructuring)
	assert.True(t, act.Restructured)
	assert.True(t, l.Restructured)
	assert.InDelta(t, 15000, act.Interest, 1e-9)
	assert.InDelta(t, 1_515_000, l.Debt, 1e-9)

	flow.Month = 3
	l, act = e.Advance(l, flow, nil)
	assert.False(t, act.EnteredRestructuring, "entry is counted once")
	assert.True(t, act.Restructured)

	l.Debt = 500000
	flow.Month = 4
	l, act = e.Advance(l, flow, nil)
	assert.False(t, l.Restructured)
	assert.False(t, act.Restructured)
	assert.InDelta(t, 10000, act.Interest, 1e-9)
}

func TestDeficitDrawsCushionThenSavingsThenDebt(t *testing.T) {
	e := referenceEngine()
	l := Ledger{Cushion: 1000, Savings: 2000, AnnualGrowth: 10}
	l, act := e.Advance(l, MonthFlow{Month: 6, Income: 1000, Expenses: 2000, ShockCost: 3000}, nil)
	assert.False(t, act.Contributed)
	assert.Equal(t, 0.0, l.Cushion)
	assert.Equal(t, 0.0, l.Savings)
	assert.Equal(t, 0.0, l.AnnualGrowth)
	// 2000 grows by 10 before the 4000 deficit lands
	assert.InDelta(t, 990, l.Debt, 1e-9)
}

func TestFlowRepaysDebtBeforeCushion(t *testing.T) {
	e := referenceEngine()
	l, _ := e.Advance(Ledger{Debt: 1000}, MonthFlow{Month: 2, Income: 5000, Expenses: 1000}, nil)
	// 1000 debt accrues 20 interest, then 4000 surplus clears it
	assert.Equal(t, 0.0, l.Debt)
	assert.InDelta(t, 2980, l.Cushion, 1e-9)
}

func TestTaxShortfallBecomesDebtAndIsRepaid(t *testing.T) {
	e := referenceEngine()
	l := Ledger{Cushion: 5000, Savings: 1000, AnnualGrowth: 10000}
	l, act := e.Advance(l, MonthFlow{Month: 12, Income: 1000, Expenses: 1000}, nil)
	assert.InDelta(t, 10005*0.13, act.Tax, 1e-9)
	assert.Equal(t, 0.0, l.Savings)
	assert.Equal(t, 0.0, l.AnnualGrowth)
	assert.Equal(t, 0.0, l.Debt)
	assert.InDelta(t, 5000-(10005*0.13-1005), l.Cushion, 1e-9)
}

func TestAdvancePreservesInvariantsUnderRandomFlows(t *testing.T) {
	e := referenceEngine()
	rng := rand.New(rand.NewPCG(1, 2))
	l := NewLedger(250000, e.CushionCap)
	for m := 1; m <= 5000; m++ {
		f := MonthFlow{
			Month:     m,
			Income:    rng.Float64() * 200000,
			Expenses:  rng.Float64() * 150000,
			ShockCost: 0,
		}
		if rng.Float64() < 0.2 {
			f.ShockCost = rng.ExpFloat64() * 80000
		}
		var sched ExpenseSchedule
		if rng.Float64() < 0.05 {
			sched = replaySchedule{{Month: m, Name: "x", Amount: rng.Float64() * 300000}}
		}
		var act MonthActivity
		l, act = e.Advance(l, f, sched)

		require.Zero(t, act.Diagnostics.Anomalies(), "month %d: %+v", m, l)
		require.GreaterOrEqual(t, l.Cushion, 0.0)
		require.LessOrEqual(t, l.Cushion, e.CushionCap)
		require.GreaterOrEqual(t, l.Savings, 0.0)
		require.GreaterOrEqual(t, l.Debt, 0.0)
		if l.Savings <= 0 {
			require.Equal(t, 0.0, l.AnnualGrowth, "month %d", m)
		}
	}
}
