package calculation

import (
	"math"

	"github.com/rpgo/wealthsim/pkg/dateutil"
)

// baselines are the deterministic reference trajectories of a plan at each horizon
type baselines struct {
	ideal  map[int]float64
	linear map[int]float64
}

// computeBaselines runs two shock-free paths through the full engine: one earning
// the ideal rate and one with no growth and no tax. Planned expenses trigger on each
// path independently.
func computeBaselines(plan *compiledPlan, p engineParams) baselines {
	ideal := p.engine(p.idealRate)
	linear := p.engine(0)
	linear.TaxRate = 0
	return baselines{
		ideal:  deterministicWealth(plan, ideal, p.horizons),
		linear: deterministicWealth(plan, linear, p.horizons),
	}
}

func deterministicWealth(plan *compiledPlan, engine DebtEngine, horizons []int) map[int]float64 {
	out := make(map[int]float64, len(horizons))
	if len(horizons) == 0 {
		return out
	}
	l := NewLedger(plan.capital, engine.CushionCap)
	completed := make([]bool, len(plan.planned))
	last := dateutil.HorizonMonth(horizons[len(horizons)-1])
	next := 0
	for month := 1; month <= last; month++ {
		income, expenses := plan.flows(month)
		sched := newTriggerSchedule(plan.planned, completed)
		l, _ = engine.Advance(l, MonthFlow{Month: month, Income: income, Expenses: expenses}, sched)
		completed = sched.completed
		for next < len(horizons) && dateutil.HorizonMonth(horizons[next]) == month {
			out[horizons[next]] = l.Settled().NetWealth()
			next++
		}
	}
	return out
}

// initialCapitalPotential is what the starting capital alone would grow to at the ideal rate
func initialCapitalPotential(capital, idealRate float64, months int) float64 {
	return capital * math.Pow(1+idealRate, float64(months))
}

// theoreticalCashFlow is the mean planned monthly surplus over the first months of the plan
func theoreticalCashFlow(plan *compiledPlan, months int) float64 {
	if months <= 0 {
		return 0
	}
	var total float64
	for m := 1; m <= months; m++ {
		income, expenses := plan.flows(m)
		total += income - expenses
	}
	return total / float64(months)
}
