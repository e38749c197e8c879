package calculation

import (
	"math"
	"sort"

	"github.com/rpgo/wealthsim/internal/domain"
	"github.com/rpgo/wealthsim/pkg/stats"
)

// ScenarioOutcome is one scenario captured at a horizon boundary
type ScenarioOutcome struct {
	NetWealth              float64
	ShadowNetWealth        float64
	FinalDebt              float64
	DirectLoss             float64
	CompoundingLoss        float64
	PlannedSpent           float64
	PlannedCompoundingLoss float64
	Planned                []Spend
	Stats                  ScenarioStats
}

// captureOutcome snapshots a scenario at horizonMonth. Outstanding debt is settled
// on a copy of the ledger, so the scenario continues unchanged.
func captureOutcome(s ScenarioState, shadow ShadowState, horizonMonth int, savingsRate float64) ScenarioOutcome {
	out := ScenarioOutcome{
		NetWealth:       s.Ledger.NetWealth(),
		ShadowNetWealth: shadow.Ledger.NetWealth(),
		FinalDebt:       s.Ledger.Settled().Debt,
		Stats:           s.Stats,
	}
	for _, h := range s.History {
		if h.Month > horizonMonth {
			break
		}
		switch {
		case h.Kind.IsShock():
			out.DirectLoss += h.Amount
		case h.Kind == PlannedWithdrawal:
			out.PlannedSpent += h.Amount
			out.PlannedCompoundingLoss += h.Amount * (math.Pow(1+savingsRate, float64(horizonMonth-h.Month)) - 1)
			out.Planned = append(out.Planned, Spend{Month: h.Month, Name: h.Name, Amount: h.Amount})
		}
	}
	out.CompoundingLoss = CompoundingLoss(out.ShadowNetWealth, out.NetWealth, out.DirectLoss)
	return out
}

// HorizonAggregator reduces the per-scenario outcomes of one horizon to a HorizonRecord.
// Outcomes are indexed by scenario number; every statistic is computed over the whole
// sample, so the result does not depend on the order scenarios finished in.
type HorizonAggregator struct {
	GridPoints int
}

// Aggregate builds the record for a horizon of the given years
func (a HorizonAggregator) Aggregate(years int, outcomes []ScenarioOutcome) domain.HorizonRecord {
	months := years * 12
	rec := domain.HorizonRecord{Years: years, Months: months}
	n := len(outcomes)
	if n == 0 {
		return rec
	}
	fn := float64(n)

	samples := domain.HorizonSamples{
		NetWealth:       make([]float64, n),
		FinalDebt:       make([]float64, n),
		DirectLoss:      make([]float64, n),
		CompoundingLoss: make([]float64, n),
		MonthsInDebt:    make([]int, n),
	}
	for i, o := range outcomes {
		samples.NetWealth[i] = o.NetWealth
		samples.FinalDebt[i] = o.FinalDebt
		samples.DirectLoss[i] = o.DirectLoss
		samples.CompoundingLoss[i] = o.CompoundingLoss
		samples.MonthsInDebt[i] = o.Stats.MonthsInDebt
	}
	rec.Samples = samples

	grid := a.GridPoints
	if grid < 2 {
		grid = stats.DefaultGridPoints
	}
	sorted := stats.Sorted(samples.NetWealth)
	rec.Wealth = domain.WealthSummary{
		Mean:   stats.MeanSorted(sorted),
		Median: stats.Percentile(sorted, 50),
		Min:    sorted[0],
		Max:    sorted[n-1],
		P1:     stats.Percentile(sorted, 1),
		P10:    stats.Percentile(sorted, 10),
		P20:    stats.Percentile(sorted, 20),
		P30:    stats.Percentile(sorted, 30),
		P90:    stats.Percentile(sorted, 90),
		P95:    stats.Percentile(sorted, 95),
		P99:    stats.Percentile(sorted, 99),
		Mode:   stats.EstimateMode(samples.NetWealth, grid),
	}
	rec.KeyScenarios = keyScenarios(samples, rec.Wealth)

	rec.Debt = aggregateDebt(outcomes, samples.FinalDebt, years)
	rec.Shocks = aggregateShocks(outcomes, samples)

	zeroMonths := avgStat(outcomes, func(s ScenarioStats) float64 { return float64(s.ZeroContributionMonths) })
	rec.PctZeroContribution = zeroMonths / float64(months) * 100
	rec.AvgCashFlow = avgStat(outcomes, func(s ScenarioStats) float64 { return s.CashFlow }) / float64(months)

	rec.AvgPlannedSpent = meanOf(outcomes, func(o ScenarioOutcome) float64 { return o.PlannedSpent })
	rec.AvgPlannedCompoundingLoss = meanOf(outcomes, func(o ScenarioOutcome) float64 { return o.PlannedCompoundingLoss })
	rec.PlannedExpenses = plannedExpenseStats(outcomes, fn)
	return rec
}

func aggregateDebt(outcomes []ScenarioOutcome, finalDebt []float64, years int) domain.DebtSummary {
	n := float64(len(outcomes))
	var debtors []float64
	for _, d := range finalDebt {
		if d > 0 {
			debtors = append(debtors, d)
		}
	}
	var restructured, bankrupt int
	var burden domain.DebtBurden
	for _, o := range outcomes {
		if o.Stats.RestructuringEvents > 0 {
			restructured++
		}
		if o.Stats.BankruptcyEvents > 0 {
			bankrupt++
		}
		m := o.Stats.MonthsInDebt
		switch {
		case m == 0:
			burden.NoDebt++
		case m <= 2*years:
			burden.Light++
		case m <= 6*years:
			burden.Moderate++
		case m <= 10*years:
			burden.Heavy++
		default:
			burden.Extreme++
		}
	}
	burden.NoDebt = burden.NoDebt / n * 100
	burden.Light = burden.Light / n * 100
	burden.Moderate = burden.Moderate / n * 100
	burden.Heavy = burden.Heavy / n * 100
	burden.Extreme = burden.Extreme / n * 100

	return domain.DebtSummary{
		PctInDebt:              float64(len(debtors)) / n * 100,
		AvgDebtAmongDebtors:    stats.Mean(debtors),
		AvgFinalDebt:           stats.Mean(finalDebt),
		AvgMaxDebt:             avgStat(outcomes, func(s ScenarioStats) float64 { return s.MaxDebt }),
		AvgMonthsInDebt:        avgStat(outcomes, func(s ScenarioStats) float64 { return float64(s.MonthsInDebt) }),
		AvgDebtWhenInDebt:      avgStat(outcomes, ScenarioStats.AvgDebtWhenInDebt),
		AvgInterestPaid:        avgStat(outcomes, func(s ScenarioStats) float64 { return s.InterestAccrued }),
		AvgMonthsRestructured:  avgStat(outcomes, func(s ScenarioStats) float64 { return float64(s.MonthsRestructured) }),
		AvgRestructuringEvents: avgStat(outcomes, func(s ScenarioStats) float64 { return float64(s.RestructuringEvents) }),
		AvgBankruptcyEvents:    avgStat(outcomes, func(s ScenarioStats) float64 { return float64(s.BankruptcyEvents) }),
		PctEverRestructured:    float64(restructured) / n * 100,
		PctEverBankrupt:        float64(bankrupt) / n * 100,
		Burden:                 burden,
	}
}

func aggregateShocks(outcomes []ScenarioOutcome, samples domain.HorizonSamples) domain.ShockSummary {
	var pooled []float64
	for _, o := range outcomes {
		pooled = append(pooled, o.Stats.ShockPcts...)
	}
	pooled = stats.Sorted(pooled)

	sum := domain.ShockSummary{
		AvgMinorEmergencies:  avgStat(outcomes, func(s ScenarioStats) float64 { return float64(s.MinorEmergencies) }),
		AvgMediumEmergencies: avgStat(outcomes, func(s ScenarioStats) float64 { return float64(s.MediumEmergencies) }),
		AvgMajorEmergencies:  avgStat(outcomes, func(s ScenarioStats) float64 { return float64(s.MajorEmergencies) }),
		MedianShockPct:       stats.Percentile(pooled, 50),
		P90ShockPct:          stats.Percentile(pooled, 90),
		P95ShockPct:          stats.Percentile(pooled, 95),
		AvgDirectLoss:        stats.Mean(samples.DirectLoss),
		AvgCompoundingLoss:   stats.Mean(samples.CompoundingLoss),
	}
	if sum.AvgDirectLoss > 0 {
		sum.CompoundingToDirectRatio = sum.AvgCompoundingLoss / sum.AvgDirectLoss
	}
	return sum
}

func plannedExpenseStats(outcomes []ScenarioOutcome, n float64) []domain.PlannedExpenseStats {
	byName := map[string]*domain.PlannedExpenseStats{}
	amounts := map[string][]float64{}
	for _, o := range outcomes {
		seen := map[string]bool{}
		for _, sp := range o.Planned {
			st, ok := byName[sp.Name]
			if !ok {
				st = &domain.PlannedExpenseStats{Name: sp.Name}
				byName[sp.Name] = st
			}
			st.Count++
			amounts[sp.Name] = append(amounts[sp.Name], sp.Amount)
			if !seen[sp.Name] {
				seen[sp.Name] = true
				st.FrequencyPct++
			}
		}
	}
	out := make([]domain.PlannedExpenseStats, 0, len(byName))
	for name, st := range byName {
		vals := stats.Sorted(amounts[name])
		for _, v := range vals {
			st.TotalAmount += v
		}
		st.AvgAmount = st.TotalAmount / float64(st.Count)
		st.FrequencyPct = st.FrequencyPct / n * 100
		out = append(out, *st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// keyScenarios picks the best and worst scenarios and the ones closest to the median,
// the mode and the low percentiles; ties go to the lowest index.
func keyScenarios(samples domain.HorizonSamples, w domain.WealthSummary) domain.KeyScenarios {
	nw := samples.NetWealth
	best, worst := 0, 0
	for i, v := range nw {
		if v > nw[best] {
			best = i
		}
		if v < nw[worst] {
			worst = i
		}
	}
	pick := func(i int) domain.KeyScenario {
		return domain.KeyScenario{
			Index:           i,
			NetWealth:       nw[i],
			DirectLoss:      samples.DirectLoss[i],
			CompoundingLoss: samples.CompoundingLoss[i],
		}
	}
	return domain.KeyScenarios{
		Best:   pick(best),
		Worst:  pick(worst),
		Median: pick(nearest(nw, w.Median)),
		Modal:  pick(nearest(nw, w.Mode.Mode)),
		P30:    pick(nearest(nw, w.P30)),
		P20:    pick(nearest(nw, w.P20)),
		P10:    pick(nearest(nw, w.P10)),
		P1:     pick(nearest(nw, w.P1)),
	}
}

// nearest returns the index of the value closest to target
func nearest(values []float64, target float64) int {
	idx := 0
	for i, v := range values {
		if math.Abs(v-target) < math.Abs(values[idx]-target) {
			idx = i
		}
	}
	return idx
}

func meanOf(outcomes []ScenarioOutcome, f func(ScenarioOutcome) float64) float64 {
	vals := make([]float64, len(outcomes))
	for i, o := range outcomes {
		vals[i] = f(o)
	}
	return stats.Mean(vals)
}

func avgStat(outcomes []ScenarioOutcome, f func(ScenarioStats) float64) float64 {
	return meanOf(outcomes, func(o ScenarioOutcome) float64 { return f(o.Stats) })
}
