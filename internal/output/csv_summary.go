package output

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/rpgo/wealthsim/internal/domain"
)

// CSVSummarizer implements the summary CSV output (one row per plan and horizon).
type CSVSummarizer struct{}

func (c CSVSummarizer) Name() string      { return "csv" }
func (c CSVSummarizer) Extension() string { return "csv" }

var summaryHeader = []string{
	"Plan", "Years",
	"Mean", "Median", "Min", "Max", "P1", "P10", "P20", "P30", "P90", "P95", "P99",
	"Mode", "ModeDensity", "ModeMethod", "ProbNearMode5Pct", "ProbNearMode10Pct", "ProbAboveMode", "ProbBelowMode",
	"PctInDebt", "AvgDebtAmongDebtors", "AvgFinalDebt", "AvgMaxDebt", "AvgMonthsInDebt", "AvgDebtWhenInDebt",
	"AvgInterestPaid", "AvgMonthsRestructured", "PctEverRestructured", "PctEverBankrupt",
	"AvgMinorEmergencies", "AvgMediumEmergencies", "AvgMajorEmergencies",
	"MedianShockPct", "P90ShockPct", "P95ShockPct", "AvgDirectLoss", "AvgCompoundingLoss", "CompoundingToDirectRatio",
	"PctZeroContribution", "AvgCashFlow", "TheoreticalCashFlow", "AvgPlannedSpent", "AvgPlannedCompoundingLoss",
	"IdealWealth", "LinearWealth", "InitialCapitalPotential", "InitialCapitalProfit",
}

func init() {
	for _, k := range keyScenarioList(domain.KeyScenarios{}) {
		summaryHeader = append(summaryHeader,
			k.Label+"Scenario", k.Label+"NetWealth", k.Label+"DirectLoss", k.Label+"CompoundingLoss")
	}
}

func (c CSVSummarizer) Format(report *domain.SimulationReport) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	if err := w.Write(summaryHeader); err != nil {
		return nil, err
	}
	for i, pr := range report.Plans {
		for _, h := range pr.Horizons {
			ws, d, s, m := h.Wealth, h.Debt, h.Shocks, h.Wealth.Mode
			row := []string{pr.Plan.Label(i), strconv.Itoa(h.Years)}
			row = appendFloats(row,
				ws.Mean, ws.Median, ws.Min, ws.Max, ws.P1, ws.P10, ws.P20, ws.P30, ws.P90, ws.P95, ws.P99,
				m.Mode, m.Density)
			row = append(row, string(m.Method))
			row = appendFloats(row,
				m.ProbNearMode5Pct, m.ProbNearMode10Pct, m.ProbAboveMode, m.ProbBelowMode,
				d.PctInDebt, d.AvgDebtAmongDebtors, d.AvgFinalDebt, d.AvgMaxDebt, d.AvgMonthsInDebt, d.AvgDebtWhenInDebt,
				d.AvgInterestPaid, d.AvgMonthsRestructured, d.PctEverRestructured, d.PctEverBankrupt,
				s.AvgMinorEmergencies, s.AvgMediumEmergencies, s.AvgMajorEmergencies,
				s.MedianShockPct, s.P90ShockPct, s.P95ShockPct, s.AvgDirectLoss, s.AvgCompoundingLoss, s.CompoundingToDirectRatio,
				h.PctZeroContribution, h.AvgCashFlow, h.TheoreticalCashFlow, h.AvgPlannedSpent, h.AvgPlannedCompoundingLoss,
				h.IdealWealth, h.LinearWealth, h.InitialCapitalPotential, h.InitialCapitalProfit)
			for _, k := range keyScenarioList(h.KeyScenarios) {
				row = append(row, strconv.Itoa(k.Scenario.Index))
				row = appendFloats(row, k.Scenario.NetWealth, k.Scenario.DirectLoss, k.Scenario.CompoundingLoss)
			}
			if err := w.Write(row); err != nil {
				return nil, err
			}
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

func appendFloats(row []string, vals ...float64) []string {
	for _, v := range vals {
		row = append(row, formatFloat(v))
	}
	return row
}
