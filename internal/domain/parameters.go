package domain

import "github.com/shopspring/decimal"

// MaxMajorClusterLambda bounds the Poisson mean of forced follow-up major emergencies
const MaxMajorClusterLambda = 50

// EmergencyParameters describes the three emergency tiers and how they cluster
type EmergencyParameters struct {
	MinorProb  float64         `yaml:"minor_prob" toml:"minor_prob" json:"minor_prob"`
	MinorCost  decimal.Decimal `yaml:"minor_cost" toml:"minor_cost" json:"minor_cost"`
	MediumProb float64         `yaml:"medium_prob" toml:"medium_prob" json:"medium_prob"`
	MediumCost decimal.Decimal `yaml:"medium_cost" toml:"medium_cost" json:"medium_cost"`
	MajorProb  float64         `yaml:"major_prob" toml:"major_prob" json:"major_prob"`
	MajorCost  decimal.Decimal `yaml:"major_cost" toml:"major_cost" json:"major_cost"`

	// MinorClusterProb is the monthly probability that an active minor/medium cluster emits another event.
	MinorClusterProb float64 `yaml:"minor_cluster_prob" toml:"minor_cluster_prob" json:"minor_cluster_prob"`
	// MinorClusterMinorShare is the share of cluster continuation events that are minor (the rest are medium).
	MinorClusterMinorShare float64 `yaml:"minor_cluster_minor_share" toml:"minor_cluster_minor_share" json:"minor_cluster_minor_share"`
	// MajorClusterLambda is the Poisson mean of forced follow-up major emergencies.
	MajorClusterLambda float64 `yaml:"major_cluster_lambda" toml:"major_cluster_lambda" json:"major_cluster_lambda"`
}

// IncomeLossParameters describes partial and full income interruptions
type IncomeLossParameters struct {
	PartialProb         float64 `yaml:"partial_prob" toml:"partial_prob" json:"partial_prob"`
	PartialRate         float64 `yaml:"partial_rate" toml:"partial_rate" json:"partial_rate"`
	PartialDurationMean float64 `yaml:"partial_duration_mean" toml:"partial_duration_mean" json:"partial_duration_mean"`
	FullProb            float64 `yaml:"full_prob" toml:"full_prob" json:"full_prob"`
	FullDurationMean    float64 `yaml:"full_duration_mean" toml:"full_duration_mean" json:"full_duration_mean"`
	FullDurationSD      float64 `yaml:"full_duration_sd" toml:"full_duration_sd" json:"full_duration_sd"`
}

// GlobalParameters holds the run-wide simulation settings shared by every plan.
// Rates are monthly; threshold ratios are multiples of annual income.
type GlobalParameters struct {
	NumScenarios int   `yaml:"num_scenarios" toml:"num_scenarios" json:"num_scenarios"`
	NumMonths    int   `yaml:"num_months" toml:"num_months" json:"num_months"`
	Horizons     []int `yaml:"horizons" toml:"horizons" json:"horizons"`

	SavingsReturnRate decimal.Decimal `yaml:"savings_return_rate" toml:"savings_return_rate" json:"savings_return_rate"`
	IdealReturnRate   decimal.Decimal `yaml:"ideal_return_rate" toml:"ideal_return_rate" json:"ideal_return_rate"`
	TaxRate           decimal.Decimal `yaml:"tax_rate" toml:"tax_rate" json:"tax_rate"`
	CushionAmount     decimal.Decimal `yaml:"cushion_amount" toml:"cushion_amount" json:"cushion_amount"`
	DebtInterestRate  decimal.Decimal `yaml:"debt_interest_rate" toml:"debt_interest_rate" json:"debt_interest_rate"`

	RestructuringThresholdRatio float64 `yaml:"restructuring_threshold_ratio" toml:"restructuring_threshold_ratio" json:"restructuring_threshold_ratio"`
	BankruptcyThresholdRatio    float64 `yaml:"bankruptcy_threshold_ratio" toml:"bankruptcy_threshold_ratio" json:"bankruptcy_threshold_ratio"`

	Emergencies EmergencyParameters  `yaml:"emergencies" toml:"emergencies" json:"emergencies"`
	IncomeLoss  IncomeLossParameters `yaml:"income_loss" toml:"income_loss" json:"income_loss"`

	Seed int64 `yaml:"seed" toml:"seed" json:"seed"`
}

// DefaultParameters returns the reference parameter set: 1000 scenarios over 30 years
func DefaultParameters() GlobalParameters {
	return GlobalParameters{
		NumScenarios:                1000,
		NumMonths:                   360,
		Horizons:                    []int{5, 10, 15, 20, 25, 30},
		SavingsReturnRate:           decimal.NewFromFloat(0.005),
		IdealReturnRate:             decimal.NewFromFloat(0.06).Div(decimal.NewFromInt(12)),
		TaxRate:                     decimal.NewFromFloat(0.13),
		CushionAmount:               decimal.NewFromInt(200000),
		DebtInterestRate:            decimal.NewFromFloat(0.24).Div(decimal.NewFromInt(12)),
		RestructuringThresholdRatio: 1.0,
		BankruptcyThresholdRatio:    3.0,
		Emergencies: EmergencyParameters{
			MinorProb:              0.1,
			MinorCost:              decimal.NewFromInt(9000),
			MediumProb:             0.024,
			MediumCost:             decimal.NewFromInt(65000),
			MajorProb:              0.006,
			MajorCost:              decimal.NewFromInt(300000),
			MinorClusterProb:       0.38,
			MinorClusterMinorShare: 0.651,
			MajorClusterLambda:     0.3,
		},
		IncomeLoss: IncomeLossParameters{
			PartialProb:         0.008,
			PartialRate:         0.4,
			PartialDurationMean: 2,
			FullProb:            0.0045,
			FullDurationMean:    5,
			FullDurationSD:      1.5,
		},
		Seed: 42,
	}
}

// WithoutShocks returns a copy with every emergency and income-loss probability set to zero
func (p GlobalParameters) WithoutShocks() GlobalParameters {
	p.Horizons = append([]int(nil), p.Horizons...)
	p.Emergencies.MinorProb = 0
	p.Emergencies.MediumProb = 0
	p.Emergencies.MajorProb = 0
	p.Emergencies.MinorClusterProb = 0
	p.Emergencies.MajorClusterLambda = 0
	p.IncomeLoss.PartialProb = 0
	p.IncomeLoss.FullProb = 0
	return p
}

// Configuration is the top-level scenario file: shared parameters plus the plans to compare
type Configuration struct {
	Parameters GlobalParameters `yaml:"parameters" toml:"parameters" json:"parameters"`
	Plans      []Plan           `yaml:"plans" toml:"plans" json:"plans"`
}
