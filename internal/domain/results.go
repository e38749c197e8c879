package domain

import (
	"time"

	"github.com/rpgo/wealthsim/pkg/stats"
)

// WealthSummary describes the terminal net wealth distribution at one horizon
type WealthSummary struct {
	Mean   float64            `json:"mean"`
	Median float64            `json:"median"`
	Min    float64            `json:"min"`
	Max    float64            `json:"max"`
	P1     float64            `json:"p1"`
	P10    float64            `json:"p10"`
	P20    float64            `json:"p20"`
	P30    float64            `json:"p30"`
	P90    float64            `json:"p90"`
	P95    float64            `json:"p95"`
	P99    float64            `json:"p99"`
	Mode   stats.ModeEstimate `json:"mode"`
}

// DebtBurden buckets scenarios by months spent in debt per elapsed year, in percent of scenarios
type DebtBurden struct {
	NoDebt   float64 `json:"no_debt"`
	Light    float64 `json:"light"`    // up to 2 months per year
	Moderate float64 `json:"moderate"` // up to 6 months per year
	Heavy    float64 `json:"heavy"`    // up to 10 months per year
	Extreme  float64 `json:"extreme"`
}

// DebtSummary aggregates the debt lifecycle across scenarios
type DebtSummary struct {
	PctInDebt              float64    `json:"pct_in_debt"`
	AvgDebtAmongDebtors    float64    `json:"avg_debt_among_debtors"`
	AvgFinalDebt           float64    `json:"avg_final_debt"`
	AvgMaxDebt             float64    `json:"avg_max_debt"`
	AvgMonthsInDebt        float64    `json:"avg_months_in_debt"`
	AvgDebtWhenInDebt      float64    `json:"avg_debt_when_in_debt"`
	AvgInterestPaid        float64    `json:"avg_interest_paid"`
	AvgMonthsRestructured  float64    `json:"avg_months_restructured"`
	AvgRestructuringEvents float64    `json:"avg_restructuring_events"`
	AvgBankruptcyEvents    float64    `json:"avg_bankruptcy_events"`
	PctEverRestructured    float64    `json:"pct_ever_restructured"`
	PctEverBankrupt        float64    `json:"pct_ever_bankrupt"`
	Burden                 DebtBurden `json:"burden"`
}

// ShockSummary aggregates emergencies and the direct/compounding loss decomposition
type ShockSummary struct {
	AvgMinorEmergencies      float64 `json:"avg_minor_emergencies"`
	AvgMediumEmergencies     float64 `json:"avg_medium_emergencies"`
	AvgMajorEmergencies      float64 `json:"avg_major_emergencies"`
	MedianShockPct           float64 `json:"median_shock_pct"`
	P90ShockPct              float64 `json:"p90_shock_pct"`
	P95ShockPct              float64 `json:"p95_shock_pct"`
	AvgDirectLoss            float64 `json:"avg_direct_loss"`
	AvgCompoundingLoss       float64 `json:"avg_compounding_loss"`
	CompoundingToDirectRatio float64 `json:"compounding_to_direct_ratio"`
}

// PlannedExpenseStats summarizes how often a named planned expense was realized
type PlannedExpenseStats struct {
	Name         string  `json:"name"`
	Count        int     `json:"count"`
	TotalAmount  float64 `json:"total_amount"`
	AvgAmount    float64 `json:"avg_amount"`
	FrequencyPct float64 `json:"frequency_pct"`
}

// KeyScenario points at a notable scenario in the sample and splits its shock loss
type KeyScenario struct {
	Index           int     `json:"index"`
	NetWealth       float64 `json:"net_wealth"`
	DirectLoss      float64 `json:"direct_loss"`
	CompoundingLoss float64 `json:"compounding_loss"`
}

// ShockLoss returns the direct plus compounding loss
func (k KeyScenario) ShockLoss() float64 { return k.DirectLoss + k.CompoundingLoss }

// DirectSharePct is the direct part of the shock loss in percent; 0 when there was no loss
func (k KeyScenario) DirectSharePct() float64 {
	total := k.ShockLoss()
	if total <= 0 {
		return 0
	}
	return k.DirectLoss / total * 100
}

// KeyScenarios holds the best and worst scenarios and those closest to the median,
// the mode and the low percentiles of net wealth
type KeyScenarios struct {
	Best   KeyScenario `json:"best"`
	Worst  KeyScenario `json:"worst"`
	Median KeyScenario `json:"median"`
	Modal  KeyScenario `json:"modal"`
	P30    KeyScenario `json:"p30"`
	P20    KeyScenario `json:"p20"`
	P10    KeyScenario `json:"p10"`
	P1     KeyScenario `json:"p1"`
}

// HorizonSamples holds per-scenario terminal values, indexed by scenario number
type HorizonSamples struct {
	NetWealth       []float64 `json:"net_wealth"`
	FinalDebt       []float64 `json:"final_debt"`
	DirectLoss      []float64 `json:"direct_loss"`
	CompoundingLoss []float64 `json:"compounding_loss"`
	MonthsInDebt    []int     `json:"months_in_debt"`
}

// HorizonRecord is the aggregate outcome of one plan at one horizon
type HorizonRecord struct {
	Years  int `json:"years"`
	Months int `json:"months"`

	Wealth WealthSummary `json:"wealth"`
	Debt   DebtSummary   `json:"debt"`
	Shocks ShockSummary  `json:"shocks"`

	PctZeroContribution float64 `json:"pct_zero_contribution"`
	AvgCashFlow         float64 `json:"avg_cash_flow"`
	TheoreticalCashFlow float64 `json:"theoretical_cash_flow"`

	AvgPlannedSpent           float64               `json:"avg_planned_spent"`
	AvgPlannedCompoundingLoss float64               `json:"avg_planned_compounding_loss"`
	PlannedExpenses           []PlannedExpenseStats `json:"planned_expenses"`

	IdealWealth             float64 `json:"ideal_wealth"`
	LinearWealth            float64 `json:"linear_wealth"`
	InitialCapitalPotential float64 `json:"initial_capital_potential"`
	InitialCapitalProfit    float64 `json:"initial_capital_profit"`

	KeyScenarios KeyScenarios   `json:"key_scenarios"`
	Samples      HorizonSamples `json:"-"`
}

// Diagnostics counts bookkeeping anomalies observed during a run; none of them stop a run
type Diagnostics struct {
	CushionBoundViolations    int `json:"cushion_bound_violations"`
	NegativeBalanceViolations int `json:"negative_balance_violations"`
	GrowthWithoutSavings      int `json:"growth_without_savings"`
	KDEFallbacks              int `json:"kde_fallbacks"`
	ClampedInitialCapital     int `json:"clamped_initial_capital"`
}

// Anomalies returns the number of invariant violations
func (d Diagnostics) Anomalies() int {
	return d.CushionBoundViolations + d.NegativeBalanceViolations + d.GrowthWithoutSavings
}

// Merge adds other's counters into d
func (d *Diagnostics) Merge(other Diagnostics) {
	d.CushionBoundViolations += other.CushionBoundViolations
	d.NegativeBalanceViolations += other.NegativeBalanceViolations
	d.GrowthWithoutSavings += other.GrowthWithoutSavings
	d.KDEFallbacks += other.KDEFallbacks
	d.ClampedInitialCapital += other.ClampedInitialCapital
}

// PlanResult is the outcome of simulating one plan at every horizon
type PlanResult struct {
	Plan        Plan            `json:"plan"`
	Horizons    []HorizonRecord `json:"horizons"`
	Diagnostics Diagnostics     `json:"diagnostics"`
	Elapsed     time.Duration   `json:"elapsed"`
}

// Horizon returns the record for the given horizon year
func (r *PlanResult) Horizon(years int) (HorizonRecord, bool) {
	for _, h := range r.Horizons {
		if h.Years == years {
			return h, true
		}
	}
	return HorizonRecord{}, false
}

// SimulationReport collects every plan result of one run
type SimulationReport struct {
	GeneratedAt  time.Time        `json:"generated_at"`
	Parameters   GlobalParameters `json:"parameters"`
	Seed         int64            `json:"seed"`
	Workers      int              `json:"workers"`
	BatchedDraws bool             `json:"batched_draws"`
	Plans        []PlanResult     `json:"plans"`
	Diagnostics  Diagnostics      `json:"diagnostics"`
}

// HorizonYears returns the horizon years present in the report, in order
func (r *SimulationReport) HorizonYears() []int {
	if len(r.Plans) == 0 {
		return nil
	}
	years := make([]int, 0, len(r.Plans[0].Horizons))
	for _, h := range r.Plans[0].Horizons {
		years = append(years, h.Years)
	}
	return years
}
