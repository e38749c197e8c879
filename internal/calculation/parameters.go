package calculation

import (
	"errors"
	"fmt"
	"sort"

	"github.com/rpgo/wealthsim/internal/domain"
	"github.com/rpgo/wealthsim/pkg/dateutil"
)

// ErrInvalidParameters reports a parameter set the engine cannot run
var ErrInvalidParameters = errors.New("invalid simulation parameters")

// ShockParams are the float parameters of the ShockGenerator
type ShockParams struct {
	MinorProb  float64
	MinorCost  float64
	MediumProb float64
	MediumCost float64
	MajorProb  float64
	MajorCost  float64

	MinorClusterProb       float64
	MinorClusterMinorShare float64
	MajorClusterLambda     float64

	PartialLossProb         float64
	PartialLossRate         float64
	PartialLossDurationMean float64
	FullLossProb            float64
	FullLossDurationMean    float64
	FullLossDurationSD      float64
}

// ShockParamsFrom extracts the shock parameters from the global parameter set
func ShockParamsFrom(p domain.GlobalParameters) ShockParams {
	e, l := p.Emergencies, p.IncomeLoss
	return ShockParams{
		MinorProb:               e.MinorProb,
		MinorCost:               e.MinorCost.InexactFloat64(),
		MediumProb:              e.MediumProb,
		MediumCost:              e.MediumCost.InexactFloat64(),
		MajorProb:               e.MajorProb,
		MajorCost:               e.MajorCost.InexactFloat64(),
		MinorClusterProb:        e.MinorClusterProb,
		MinorClusterMinorShare:  e.MinorClusterMinorShare,
		MajorClusterLambda:      e.MajorClusterLambda,
		PartialLossProb:         l.PartialProb,
		PartialLossRate:         l.PartialRate,
		PartialLossDurationMean: l.PartialDurationMean,
		FullLossProb:            l.FullProb,
		FullLossDurationMean:    l.FullDurationMean,
		FullLossDurationSD:      l.FullDurationSD,
	}
}

// engineParams is the flat float view of GlobalParameters used in the hot loop
type engineParams struct {
	scenarios int
	months    int
	horizons  []int
	seed      int64

	savingsRate float64
	idealRate   float64
	taxRate     float64
	cushion     float64
	debtRate    float64

	restructuringRatio float64
	bankruptcyRatio    float64

	shocks ShockParams
}

func compileParameters(p domain.GlobalParameters) (engineParams, error) {
	if p.NumScenarios < 1 {
		return engineParams{}, fmt.Errorf("%w: num_scenarios must be positive, got %d", ErrInvalidParameters, p.NumScenarios)
	}
	if p.NumMonths < 1 {
		return engineParams{}, fmt.Errorf("%w: num_months must be positive, got %d", ErrInvalidParameters, p.NumMonths)
	}
	horizons, err := normalizeHorizons(p.Horizons, p.NumMonths)
	if err != nil {
		return engineParams{}, err
	}
	if p.RestructuringThresholdRatio <= 0 || p.BankruptcyThresholdRatio <= p.RestructuringThresholdRatio {
		return engineParams{}, fmt.Errorf("%w: thresholds must satisfy 0 < restructuring (%v) < bankruptcy (%v)",
			ErrInvalidParameters, p.RestructuringThresholdRatio, p.BankruptcyThresholdRatio)
	}
	if lambda := p.Emergencies.MajorClusterLambda; !(lambda >= 0 && lambda <= domain.MaxMajorClusterLambda) {
		return engineParams{}, fmt.Errorf("%w: major_cluster_lambda must be between 0 and %d, got %v",
			ErrInvalidParameters, domain.MaxMajorClusterLambda, lambda)
	}
	return engineParams{
		scenarios:          p.NumScenarios,
		months:             p.NumMonths,
		horizons:           horizons,
		seed:               p.Seed,
		savingsRate:        p.SavingsReturnRate.InexactFloat64(),
		idealRate:          p.IdealReturnRate.InexactFloat64(),
		taxRate:            p.TaxRate.InexactFloat64(),
		cushion:            p.CushionAmount.InexactFloat64(),
		debtRate:           p.DebtInterestRate.InexactFloat64(),
		restructuringRatio: p.RestructuringThresholdRatio,
		bankruptcyRatio:    p.BankruptcyThresholdRatio,
		shocks:             ShockParamsFrom(p),
	}, nil
}

// normalizeHorizons sorts and de-duplicates horizon years and checks they fit the run length.
func normalizeHorizons(years []int, months int) ([]int, error) {
	if len(years) == 0 {
		return nil, fmt.Errorf("%w: at least one horizon is required", ErrInvalidParameters)
	}
	out := append([]int(nil), years...)
	sort.Ints(out)
	uniq := out[:0]
	for i, y := range out {
		if y < 1 {
			return nil, fmt.Errorf("%w: horizon %d must be positive", ErrInvalidParameters, y)
		}
		if dateutil.HorizonMonth(y) > months {
			return nil, fmt.Errorf("%w: horizon %d years exceeds %d months", ErrInvalidParameters, y, months)
		}
		if i == 0 || y != out[i-1] {
			uniq = append(uniq, y)
		}
	}
	return uniq, nil
}

// realEngine is the DebtEngine of the stochastic path
func (p engineParams) realEngine() DebtEngine {
	return p.engine(p.savingsRate)
}

// shadowEngine is the DebtEngine of the no-shock ideal-return path
func (p engineParams) shadowEngine() DebtEngine {
	return p.engine(p.idealRate)
}

func (p engineParams) engine(rate float64) DebtEngine {
	return DebtEngine{
		CushionCap:         p.cushion,
		ReturnRate:         rate,
		TaxRate:            p.taxRate,
		DebtRate:           p.debtRate,
		RestructuringRatio: p.restructuringRatio,
		BankruptcyRatio:    p.bankruptcyRatio,
	}
}
