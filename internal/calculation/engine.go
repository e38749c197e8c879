package calculation

import (
	"math"

	"github.com/rpgo/wealthsim/internal/domain"
	"github.com/rpgo/wealthsim/pkg/dateutil"
)

// DebtEngine applies the monthly transition rules to a Ledger.
// The stochastic path and the shadow path run the same engine with different return rates.
type DebtEngine struct {
	CushionCap         float64
	ReturnRate         float64
	TaxRate            float64
	DebtRate           float64
	RestructuringRatio float64
	BankruptcyRatio    float64
}

// MonthFlow is the external input to one month
type MonthFlow struct {
	Month     int
	Income    float64
	Expenses  float64
	ShockCost float64
}

// Spend is a realized planned-expense withdrawal
type Spend struct {
	Month  int
	Name   string
	Amount float64
}

// ExpenseSchedule decides which planned expenses are paid in a month
type ExpenseSchedule interface {
	Settle(month int, l Ledger) (Ledger, []Spend)
}

// MonthActivity reports what one Advance did to the ledger
type MonthActivity struct {
	Interest             float64
	Growth               float64
	Tax                  float64
	Spends               []Spend
	Bankrupt             bool
	EnteredRestructuring bool
	Restructured         bool
	Contributed          bool
	Diagnostics          domain.Diagnostics
}

// PlannedSpent returns the total of the month's planned spends
func (a MonthActivity) PlannedSpent() float64 {
	var total float64
	for _, s := range a.Spends {
		total += s.Amount
	}
	return total
}

// Advance runs one month of the protocol: growth reset, pre-interest repayment,
// debt tier transition, growth, flow allocation, planned expenses, post-expense
// repayment and the annual tax. sched may be nil when no planned expenses apply.
func (e DebtEngine) Advance(l Ledger, f MonthFlow, sched ExpenseSchedule) (Ledger, MonthActivity) {
	var act MonthActivity

	if dateutil.IsCycleStart(f.Month) {
		l.AnnualGrowth = 0
	}

	l = l.repay(cushionThenSavings)
	l = e.applyDebtTier(l, f.Income, &act)

	if l.Savings > 0 {
		act.Growth = l.Savings * e.ReturnRate
		l.Savings += act.Growth
		l.AnnualGrowth += act.Growth
	}

	available := f.Income - f.Expenses - f.ShockCost
	if l.Debt > 0 && available > 0 {
		r := math.Min(available, l.Debt)
		l.Debt -= r
		available -= r
	}
	switch {
	case available > 0:
		act.Contributed = true
		l = l.deposit(available, e.CushionCap)
	case available < 0:
		var short float64
		l, short = l.withdraw(-available, cushionThenSavings)
		l.Debt += short
	}

	if sched != nil {
		l, act.Spends = sched.Settle(f.Month, l)
	}
	l = l.repay(cushionThenSavings)

	if dateutil.IsCycleEnd(f.Month) && l.AnnualGrowth > 0 {
		act.Tax = l.AnnualGrowth * e.TaxRate
		var short float64
		l, short = l.withdraw(act.Tax, savingsOnly)
		l.Debt += short
		l = l.repay(cushionThenSavings)
	}

	act.Diagnostics = l.checkInvariants(e.CushionCap)
	return l, act
}

// applyDebtTier compares debt with annual income: above the bankruptcy multiple
// everything is written off, above the restructuring multiple interest accrues at
// half rate, otherwise at the full rate. Zero income with any debt is bankruptcy.
func (e DebtEngine) applyDebtTier(l Ledger, income float64, act *MonthActivity) Ledger {
	annual := income * dateutil.MonthsPerYear
	switch {
	case l.Debt > 0 && l.Debt > annual*e.BankruptcyRatio:
		act.Bankrupt = true
		return Ledger{}
	case l.Debt > 0 && l.Debt > annual*e.RestructuringRatio:
		if !l.Restructured {
			l.Restructured = true
			act.EnteredRestructuring = true
		}
		act.Restructured = true
		act.Interest = l.Debt * e.DebtRate * 0.5
	default:
		l.Restructured = false
		act.Interest = l.Debt * e.DebtRate
	}
	l.Debt += act.Interest
	return l
}
