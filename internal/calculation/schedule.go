package calculation

import (
	"github.com/rpgo/wealthsim/internal/domain"
	"github.com/rpgo/wealthsim/pkg/dateutil"
)

// triggerSchedule evaluates planned-expense triggers in list order, each expense at most once.
// The completed slice is copied before the first write so earlier states stay intact.
type triggerSchedule struct {
	expenses  []plannedExpense
	completed []bool
	copied    bool
}

func newTriggerSchedule(expenses []plannedExpense, completed []bool) *triggerSchedule {
	return &triggerSchedule{expenses: expenses, completed: completed}
}

func (t *triggerSchedule) Settle(month int, l Ledger) (Ledger, []Spend) {
	var spends []Spend
	year := float64(dateutil.YearOfMonth(month))
	for i, pe := range t.expenses {
		if t.completed[i] {
			continue
		}
		var due bool
		switch pe.kind {
		case domain.TriggerTime:
			// wait until affordable rather than borrowing
			due = year >= pe.trigger && l.Savings >= pe.amount
		case domain.TriggerSavingsTarget:
			due = l.Savings >= pe.trigger
		}
		if !due {
			continue
		}
		l = l.spend(pe.amount)
		t.markCompleted(i)
		spends = append(spends, Spend{Month: month, Name: pe.name, Amount: pe.amount})
	}
	return l, spends
}

func (t *triggerSchedule) markCompleted(i int) {
	if !t.copied {
		t.completed = append([]bool(nil), t.completed...)
		t.copied = true
	}
	t.completed[i] = true
}

// replaySchedule re-applies spends realized on another path at the same months
type replaySchedule []Spend

func (r replaySchedule) Settle(month int, l Ledger) (Ledger, []Spend) {
	var applied []Spend
	for _, s := range r {
		if s.Month != month {
			continue
		}
		l = l.spend(s.Amount)
		applied = append(applied, s)
	}
	return l, applied
}
