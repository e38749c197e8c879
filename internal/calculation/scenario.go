package calculation

import (
	"math"
	"slices"

	"github.com/rpgo/wealthsim/internal/domain"
)

// HistoryEntry is one timestamped shock or planned withdrawal
type HistoryEntry struct {
	Month  int
	Kind   EventKind
	Name   string
	Amount float64
}

// ScenarioStats are the running debt, flow and shock tallies of one scenario
type ScenarioStats struct {
	InterestAccrued        float64
	GrowthEarned           float64
	TaxPaid                float64
	MaxDebt                float64
	DebtSum                float64
	MonthsInDebt           int
	MonthsRestructured     int
	RestructuringEvents    int
	BankruptcyEvents       int
	ZeroContributionMonths int
	CashFlow               float64
	MinorEmergencies       int
	MediumEmergencies      int
	MajorEmergencies       int
	ShockPcts              []float64
	Diagnostics            domain.Diagnostics
}

// AvgDebtWhenInDebt is the mean month-end debt over months that ended in debt
func (st ScenarioStats) AvgDebtWhenInDebt() float64 {
	if st.MonthsInDebt == 0 {
		return 0
	}
	return st.DebtSum / float64(st.MonthsInDebt)
}

func (st *ScenarioStats) record(rec MonthRecord, l Ledger) {
	act := rec.Activity
	st.InterestAccrued += act.Interest
	st.GrowthEarned += act.Growth
	st.TaxPaid += act.Tax
	if act.Bankrupt {
		st.BankruptcyEvents++
	}
	if act.EnteredRestructuring {
		st.RestructuringEvents++
	}
	if act.Restructured {
		st.MonthsRestructured++
	}
	if !act.Contributed {
		st.ZeroContributionMonths++
	}

	shock := rec.Shocks.Total()
	st.CashFlow += rec.Income - rec.Expenses - shock
	if target := rec.Income - rec.Expenses; shock > 0 && target > 0 {
		st.ShockPcts = append(st.ShockPcts, shock/target*100)
	}
	for _, ev := range rec.Shocks.Events {
		switch ev.Kind.Severity() {
		case MinorSeverity:
			st.MinorEmergencies++
		case MediumSeverity:
			st.MediumEmergencies++
		case MajorSeverity:
			st.MajorEmergencies++
		}
	}

	if l.Debt > 0 {
		st.MonthsInDebt++
		st.DebtSum += l.Debt
	}
	st.MaxDebt = math.Max(st.MaxDebt, l.Debt)
	st.Diagnostics.Merge(act.Diagnostics)
}

// ScenarioState is the full state of one stochastic path at a month boundary.
// History and ShockPcts are append-only. AdvanceMonth clips them before appending, so
// states derived from a common ancestor share its prefix but never each other's tail.
type ScenarioState struct {
	Ledger    Ledger
	Shocks    ShockState
	Completed []bool
	History   []HistoryEntry
	Stats     ScenarioStats
}

// MonthRecord is everything one scenario month produced
type MonthRecord struct {
	Month    int
	Income   float64
	Expenses float64
	Shocks   MonthShocks
	Activity MonthActivity
}

// ScenarioModel binds the read-only inputs of a stochastic path
type ScenarioModel struct {
	plan   *compiledPlan
	engine DebtEngine
	shocks ShockGenerator
}

// Start returns the month-0 state
func (m ScenarioModel) Start() ScenarioState {
	return ScenarioState{
		Ledger:    NewLedger(m.plan.capital, m.engine.CushionCap),
		Completed: make([]bool, len(m.plan.planned)),
	}
}

// AdvanceMonth draws the month's shocks from src and applies the month protocol.
// The returned state replaces s; s itself is not modified.
func (m ScenarioModel) AdvanceMonth(s ScenarioState, month int, src DrawSource) (ScenarioState, MonthRecord) {
	rec := MonthRecord{Month: month}
	rec.Income, rec.Expenses = m.plan.flows(month)
	s.Shocks, rec.Shocks = m.shocks.Next(s.Shocks, rec.Income, src)

	sched := newTriggerSchedule(m.plan.planned, s.Completed)
	s.Ledger, rec.Activity = m.engine.Advance(s.Ledger, MonthFlow{
		Month:     month,
		Income:    rec.Income,
		Expenses:  rec.Expenses,
		ShockCost: rec.Shocks.Total(),
	}, sched)
	s.Completed = sched.completed

	s.History = slices.Clip(s.History)
	s.Stats.ShockPcts = slices.Clip(s.Stats.ShockPcts)
	for _, ev := range rec.Shocks.Events {
		s.History = append(s.History, HistoryEntry{Month: month, Kind: ev.Kind, Amount: ev.Amount})
	}
	for _, sp := range rec.Activity.Spends {
		s.History = append(s.History, HistoryEntry{Month: month, Kind: PlannedWithdrawal, Name: sp.Name, Amount: sp.Amount})
	}
	s.Stats.record(rec, s.Ledger)
	return s, rec
}
