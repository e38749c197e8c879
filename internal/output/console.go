package output

import (
	"bytes"
	"fmt"

	"github.com/rpgo/wealthsim/internal/domain"
)

// ConsoleFormatter renders the comparative horizon tables and the per-plan breakdowns.
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string      { return "console" }
func (c ConsoleFormatter) Extension() string { return "txt" }

func (c ConsoleFormatter) Format(report *domain.SimulationReport) ([]byte, error) {
	var buf bytes.Buffer
	p := report.Parameters
	fmt.Fprintln(&buf, renderTitle("HOUSEHOLD WEALTH SIMULATION"))
	fmt.Fprintf(&buf, "  %s scenarios, %d months, seed %d, %d workers\n\n",
		printer.Sprintf("%d", p.NumScenarios), p.NumMonths, report.Seed, report.Workers)

	for _, years := range report.HorizonYears() {
		t := table{
			Title:   fmt.Sprintf("%d-year horizon", years),
			Headers: []string{"Plan", "Mean", "Median", "Mode", "P1", "P10", "Zero months", "In debt", "Avg debt"},
		}
		for i := range report.Plans {
			pr := &report.Plans[i]
			h, ok := pr.Horizon(years)
			if !ok {
				continue
			}
			t.Rows = append(t.Rows, []string{
				pr.Plan.Label(i),
				formatAmount(h.Wealth.Mean),
				formatAmount(h.Wealth.Median),
				formatAmount(h.Wealth.Mode.Mode),
				formatAmount(h.Wealth.P1),
				formatAmount(h.Wealth.P10),
				formatPct(h.PctZeroContribution),
				formatPct(h.Debt.PctInDebt),
				formatAmount(h.Debt.AvgDebtAmongDebtors),
			})
		}
		buf.WriteString(renderTable(t))
		buf.WriteString("\n")
	}

	for i := range report.Plans {
		writePlanSections(&buf, &report.Plans[i], i)
	}

	d := report.Diagnostics
	if d.Anomalies() > 0 {
		buf.WriteString(renderWarning("%d ledger invariant anomalies (cushion %d, negative %d, growth %d)",
			d.Anomalies(), d.CushionBoundViolations, d.NegativeBalanceViolations, d.GrowthWithoutSavings))
	}
	if d.KDEFallbacks > 0 {
		buf.WriteString(renderWarning("%d density estimates fell back to a histogram", d.KDEFallbacks))
	}
	if d.ClampedInitialCapital > 0 {
		buf.WriteString(renderWarning("%d plans had negative initial capital clamped to zero", d.ClampedInitialCapital))
	}
	return buf.Bytes(), nil
}

func writePlanSections(buf *bytes.Buffer, pr *domain.PlanResult, index int) {
	name := pr.Plan.Label(index)

	baseline := table{
		Title:   "Plan " + name + ": baselines",
		Headers: []string{"Horizon", "Ideal", "Linear", "Capital potential", "Cash flow", "Planned cash flow"},
	}
	shocks := table{
		Title:   "Plan " + name + ": shocks",
		Headers: []string{"Horizon", "Minor", "Medium", "Major", "Median shock", "P95 shock", "Direct loss", "Compounding", "Ratio"},
	}
	debt := table{
		Title:   "Plan " + name + ": debt",
		Headers: []string{"Horizon", "Restructured", "Bankrupt", "Months in debt", "Interest", "Max debt", "Heavy+"},
	}
	for _, h := range pr.Horizons {
		label := fmt.Sprintf("%dy", h.Years)
		baseline.Rows = append(baseline.Rows, []string{
			label,
			formatAmount(h.IdealWealth),
			formatAmount(h.LinearWealth),
			formatAmount(h.InitialCapitalPotential),
			formatAmount(h.AvgCashFlow),
			formatAmount(h.TheoreticalCashFlow),
		})
		s := h.Shocks
		shocks.Rows = append(shocks.Rows, []string{
			label,
			formatRatio(s.AvgMinorEmergencies),
			formatRatio(s.AvgMediumEmergencies),
			formatRatio(s.AvgMajorEmergencies),
			formatPct(s.MedianShockPct),
			formatPct(s.P95ShockPct),
			formatAmount(s.AvgDirectLoss),
			formatAmount(s.AvgCompoundingLoss),
			formatRatio(s.CompoundingToDirectRatio),
		})
		d := h.Debt
		debt.Rows = append(debt.Rows, []string{
			label,
			formatPct(d.PctEverRestructured),
			formatPct(d.PctEverBankrupt),
			formatRatio(d.AvgMonthsInDebt),
			formatAmount(d.AvgInterestPaid),
			formatAmount(d.AvgMaxDebt),
			formatPct(d.Burden.Heavy + d.Burden.Extreme),
		})
	}
	buf.WriteString(renderTable(baseline))
	buf.WriteString(renderTable(shocks))
	buf.WriteString(renderTable(debt))
	buf.WriteString(renderTable(modeTable(pr, name)))

	if len(pr.Horizons) > 0 {
		last := pr.Horizons[len(pr.Horizons)-1]
		buf.WriteString(renderTable(keyScenarioTable(last, name)))
		if len(last.PlannedExpenses) > 0 {
			planned := table{
				Title:   fmt.Sprintf("Plan %s: planned expenses by %d years", name, last.Years),
				Headers: []string{"Expense", "Count", "Average", "Scenarios"},
			}
			for _, pe := range last.PlannedExpenses {
				planned.Rows = append(planned.Rows, []string{
					pe.Name,
					printer.Sprintf("%d", pe.Count),
					formatAmount(pe.AvgAmount),
					formatPct(pe.FrequencyPct),
				})
			}
			buf.WriteString(renderTable(planned))
		}
	}
	buf.WriteString("\n")
}

func modeTable(pr *domain.PlanResult, name string) table {
	t := table{
		Title:   "Plan " + name + ": wealth around the mode",
		Headers: []string{"Horizon", "Mode", "Density", "Method", "Within 5%", "Within 10%", "Above", "Below"},
	}
	for _, h := range pr.Horizons {
		m := h.Wealth.Mode
		t.Rows = append(t.Rows, []string{
			fmt.Sprintf("%dy", h.Years),
			formatAmount(m.Mode),
			formatDensity(m.Density),
			string(m.Method),
			formatPct(m.ProbNearMode5Pct),
			formatPct(m.ProbNearMode10Pct),
			formatPct(m.ProbAboveMode),
			formatPct(m.ProbBelowMode),
		})
	}
	return t
}

// keyScenarioTable sets the baselines beside the notable scenarios of one horizon
func keyScenarioTable(h domain.HorizonRecord, name string) table {
	t := table{
		Title:   fmt.Sprintf("Plan %s: key scenarios at %d years", name, h.Years),
		Headers: []string{"Scenario", "Net wealth", "Direct loss", "Compounding", "Direct share"},
		Rows: [][]string{
			{"Ideal", formatAmount(h.IdealWealth), "", "", ""},
			{"Linear", formatAmount(h.LinearWealth), "", "", ""},
		},
	}
	for _, k := range keyScenarioList(h.KeyScenarios) {
		share := "-"
		if k.Scenario.ShockLoss() > 0 {
			share = formatPct(k.Scenario.DirectSharePct())
		}
		t.Rows = append(t.Rows, []string{
			fmt.Sprintf("%s (#%d)", k.Label, k.Scenario.Index),
			formatAmount(k.Scenario.NetWealth),
			formatAmount(k.Scenario.DirectLoss),
			formatAmount(k.Scenario.CompoundingLoss),
			share,
		})
	}
	return t
}

type labeledScenario struct {
	Label    string
	Scenario domain.KeyScenario
}

func keyScenarioList(ks domain.KeyScenarios) []labeledScenario {
	return []labeledScenario{
		{"Best", ks.Best},
		{"Median", ks.Median},
		{"Modal", ks.Modal},
		{"P30", ks.P30},
		{"P20", ks.P20},
		{"P10", ks.P10},
		{"P1", ks.P1},
		{"Worst", ks.Worst},
	}
}
