package calculation

import (
	"fmt"

	"github.com/rpgo/wealthsim/internal/domain"
)

// TraceRow is one month of a traced scenario: the month's inputs and activity
// plus both ledgers after the month closed.
type TraceRow struct {
	MonthRecord
	Ledger Ledger
	Shadow Ledger
}

// Trace replays scenario number scenario of the plan for the first months months.
// It draws from the same stream RunPlan gives that scenario, so rows match the
// simulated path exactly. months <= 0 traces the whole run.
func (s *Simulator) Trace(plan domain.Plan, scenario, months int) ([]TraceRow, error) {
	if scenario < 0 || scenario >= s.ep.scenarios {
		return nil, fmt.Errorf("scenario %d out of range [0, %d)", scenario, s.ep.scenarios)
	}
	if months <= 0 || months > s.ep.months {
		months = s.ep.months
	}
	cp := compilePlan(plan, 0, s.ep.months)
	model := ScenarioModel{plan: cp, engine: s.ep.realEngine(), shocks: NewShockGenerator(s.ep.shocks)}
	shadow := ShadowAccountant{plan: cp, engine: s.ep.shadowEngine()}

	src := NewDrawSource(s.ep.seed, scenario, s.batched)
	state := model.Start()
	sh := shadow.Start()
	rows := make([]TraceRow, 0, months)
	for month := 1; month <= months; month++ {
		var rec MonthRecord
		state, rec = model.AdvanceMonth(state, month, src)
		sh, _ = shadow.Advance(sh, month, rec.Activity.Spends)
		rows = append(rows, TraceRow{MonthRecord: rec, Ledger: state.Ledger, Shadow: sh.Ledger})
	}
	return rows, nil
}
