package calculation

import (
	"github.com/rpgo/wealthsim/internal/domain"
)

// plannedExpense is the float view of a domain.PlannedExpense
type plannedExpense struct {
	name    string
	amount  float64
	kind    domain.TriggerKind
	trigger float64
}

// compiledPlan resolves a plan's flows for every month of the run up front
type compiledPlan struct {
	name     string
	income   []float64
	expenses []float64
	capital  float64
	clamped  bool
	planned  []plannedExpense
}

func compilePlan(plan domain.Plan, index, months int) *compiledPlan {
	cp := &compiledPlan{
		name:     plan.Label(index),
		income:   make([]float64, months),
		expenses: make([]float64, months),
		capital:  plan.InitialCapital.InexactFloat64(),
	}
	if cp.capital < 0 {
		cp.capital = 0
		cp.clamped = true
	}
	for m := 1; m <= months; m++ {
		cp.income[m-1] = plan.IncomeAt(m).InexactFloat64()
		cp.expenses[m-1] = plan.ExpensesAt(m).InexactFloat64()
	}
	for _, pe := range plan.PlannedExpenses {
		cp.planned = append(cp.planned, plannedExpense{
			name:    pe.Name,
			amount:  pe.Amount.InexactFloat64(),
			kind:    pe.TriggerKind,
			trigger: pe.TriggerValue.InexactFloat64(),
		})
	}
	return cp
}

// flows returns income and expenses for the 1-based month
func (p *compiledPlan) flows(month int) (income, expenses float64) {
	return p.income[month-1], p.expenses[month-1]
}
