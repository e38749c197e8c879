package calculation

import (
	"math"

	"github.com/rpgo/wealthsim/internal/domain"
)

// ShadowState is the no-shock, ideal-return twin of a scenario's ledger
type ShadowState struct {
	Ledger Ledger
}

// ShadowAccountant advances the shadow path in lockstep with a scenario.
// It draws no randomness; the only input it takes from the real path is the
// timing and size of planned-expense withdrawals.
type ShadowAccountant struct {
	plan   *compiledPlan
	engine DebtEngine
}

// Start returns the month-0 shadow state
func (a ShadowAccountant) Start() ShadowState {
	return ShadowState{Ledger: NewLedger(a.plan.capital, a.engine.CushionCap)}
}

// Advance applies one month with zero shock costs, replaying spends realized on the real path
func (a ShadowAccountant) Advance(s ShadowState, month int, spends []Spend) (ShadowState, domain.Diagnostics) {
	income, expenses := a.plan.flows(month)
	l, act := a.engine.Advance(s.Ledger, MonthFlow{Month: month, Income: income, Expenses: expenses}, replaySchedule(spends))
	s.Ledger = l
	return s, act.Diagnostics
}

// CompoundingLoss is the wealth gap to the shadow path beyond the direct shock amounts
func CompoundingLoss(shadowNetWealth, realNetWealth, directLoss float64) float64 {
	return math.Max(0, shadowNetWealth-realNetWealth-directLoss)
}
