package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/rpgo/wealthsim/internal/domain"
	"github.com/rpgo/wealthsim/pkg/dateutil"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// ErrNoPlans is returned when a configuration carries no plans to simulate
var ErrNoPlans = errors.New("no plans provided")

// MaxMonths bounds the simulated run length
const MaxMonths = 1200

// FileFormat is the on-disk encoding of a scenario file
type FileFormat string

const (
	FormatYAML FileFormat = "yaml"
	FormatTOML FileFormat = "toml"
)

// FormatFromPath picks the file format from the extension. JSON is read as YAML.
func FormatFromPath(filename string) (FileFormat, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml", ".json":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("unsupported configuration extension %q", filepath.Ext(filename))
	}
}

// InputParser handles parsing of input configuration files
type InputParser struct{}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile loads configuration from a YAML or TOML file
func (ip *InputParser) LoadFromFile(filename string) (*domain.Configuration, error) {
	format, err := FormatFromPath(filename)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return ip.Parse(data, format)
}

// Parse decodes a configuration over the default parameters and validates it
func (ip *InputParser) Parse(data []byte, format FileFormat) (*domain.Configuration, error) {
	config := domain.Configuration{Parameters: domain.DefaultParameters()}
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	case FormatTOML:
		if _, err := toml.Decode(string(data), &config); err != nil {
			return nil, fmt.Errorf("failed to parse TOML: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported configuration format %q", format)
	}

	if err := ip.ValidateConfiguration(&config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &config, nil
}

// Encode writes the configuration in the given format
func (ip *InputParser) Encode(config *domain.Configuration, format FileFormat) ([]byte, error) {
	var buf bytes.Buffer
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(config); err != nil {
			return nil, fmt.Errorf("failed to encode YAML: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("failed to encode YAML: %w", err)
		}
	case FormatTOML:
		if err := toml.NewEncoder(&buf).Encode(config); err != nil {
			return nil, fmt.Errorf("failed to encode TOML: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported configuration format %q", format)
	}
	return buf.Bytes(), nil
}

// ValidateConfiguration validates the loaded configuration.
// Negative initial capital is accepted; the simulator clamps it to zero.
func (ip *InputParser) ValidateConfiguration(config *domain.Configuration) error {
	if err := ip.ValidateParameters(&config.Parameters); err != nil {
		return fmt.Errorf("parameters validation failed: %w", err)
	}

	if len(config.Plans) == 0 {
		return ErrNoPlans
	}
	seen := make(map[string]bool, len(config.Plans))
	for i, plan := range config.Plans {
		if strings.TrimSpace(plan.Name) == "" {
			return fmt.Errorf("plan %d: name is required", i+1)
		}
		if seen[plan.Name] {
			return fmt.Errorf("plan %d: duplicate name %q", i+1, plan.Name)
		}
		seen[plan.Name] = true
		if err := ip.validatePlan(&plan); err != nil {
			return fmt.Errorf("plan %s validation failed: %w", plan.Name, err)
		}
	}
	return nil
}

// ValidateParameters checks the global parameters
func (ip *InputParser) ValidateParameters(p *domain.GlobalParameters) error {
	if p.NumScenarios < 1 {
		return fmt.Errorf("num_scenarios must be at least 1, got %d", p.NumScenarios)
	}
	if p.NumMonths < 1 || p.NumMonths > MaxMonths {
		return fmt.Errorf("num_months must be between 1 and %d, got %d", MaxMonths, p.NumMonths)
	}
	if len(p.Horizons) == 0 {
		return fmt.Errorf("at least one horizon is required")
	}
	for _, h := range p.Horizons {
		if h < 1 {
			return fmt.Errorf("horizon %d must be positive", h)
		}
		if dateutil.HorizonMonth(h) > p.NumMonths {
			return fmt.Errorf("horizon %d years exceeds num_months %d", h, p.NumMonths)
		}
	}

	rates := []struct {
		name  string
		value decimal.Decimal
	}{
		{"savings_return_rate", p.SavingsReturnRate},
		{"ideal_return_rate", p.IdealReturnRate},
		{"debt_interest_rate", p.DebtInterestRate},
	}
	minusOne := decimal.NewFromInt(-1)
	for _, r := range rates {
		if r.value.LessThanOrEqual(minusOne) {
			return fmt.Errorf("%s must be greater than -1, got %s", r.name, r.value)
		}
	}
	if p.TaxRate.LessThan(decimal.Zero) || p.TaxRate.GreaterThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("tax_rate must be between 0 and 1, got %s", p.TaxRate)
	}
	if p.CushionAmount.LessThan(decimal.Zero) {
		return fmt.Errorf("cushion_amount cannot be negative")
	}
	if p.RestructuringThresholdRatio <= 0 || p.BankruptcyThresholdRatio <= p.RestructuringThresholdRatio {
		return fmt.Errorf("thresholds must satisfy 0 < restructuring (%v) < bankruptcy (%v)",
			p.RestructuringThresholdRatio, p.BankruptcyThresholdRatio)
	}

	e, l := p.Emergencies, p.IncomeLoss
	probs := []struct {
		name  string
		value float64
	}{
		{"minor_prob", e.MinorProb},
		{"medium_prob", e.MediumProb},
		{"major_prob", e.MajorProb},
		{"minor_cluster_prob", e.MinorClusterProb},
		{"minor_cluster_minor_share", e.MinorClusterMinorShare},
		{"partial_prob", l.PartialProb},
		{"partial_rate", l.PartialRate},
		{"full_prob", l.FullProb},
	}
	for _, pr := range probs {
		if pr.value < 0 || pr.value > 1 {
			return fmt.Errorf("%s must be between 0 and 1, got %v", pr.name, pr.value)
		}
	}
	if e.MinorCost.LessThan(decimal.Zero) || e.MediumCost.LessThan(decimal.Zero) || e.MajorCost.LessThan(decimal.Zero) {
		return fmt.Errorf("emergency costs cannot be negative")
	}
	if !(e.MajorClusterLambda >= 0 && e.MajorClusterLambda <= domain.MaxMajorClusterLambda) {
		return fmt.Errorf("major_cluster_lambda must be between 0 and %d, got %v", domain.MaxMajorClusterLambda, e.MajorClusterLambda)
	}
	durations := []struct {
		name  string
		value float64
	}{
		{"partial_duration_mean", l.PartialDurationMean},
		{"full_duration_mean", l.FullDurationMean},
		{"full_duration_sd", l.FullDurationSD},
	}
	for _, d := range durations {
		if !(d.value >= 0 && d.value <= MaxMonths) {
			return fmt.Errorf("%s must be between 0 and %d months, got %v", d.name, MaxMonths, d.value)
		}
	}
	return nil
}

// validatePlan validates a single plan's flows and planned expenses
func (ip *InputParser) validatePlan(plan *domain.Plan) error {
	if plan.InitialIncome.LessThan(decimal.Zero) {
		return fmt.Errorf("initial income cannot be negative")
	}
	if plan.InitialExpenses.LessThan(decimal.Zero) {
		return fmt.Errorf("initial expenses cannot be negative")
	}
	if err := validateChanges("income", plan.IncomeChanges); err != nil {
		return err
	}
	if err := validateChanges("expense", plan.ExpenseChanges); err != nil {
		return err
	}
	for _, pe := range plan.PlannedExpenses {
		if pe.Name == "" {
			return fmt.Errorf("planned expense name is required")
		}
		if pe.Amount.LessThanOrEqual(decimal.Zero) {
			return fmt.Errorf("planned expense %s: amount must be positive", pe.Name)
		}
		if !pe.TriggerKind.Valid() {
			return fmt.Errorf("planned expense %s: unknown trigger kind %q", pe.Name, pe.TriggerKind)
		}
		if pe.TriggerValue.LessThan(decimal.Zero) {
			return fmt.Errorf("planned expense %s: trigger value cannot be negative", pe.Name)
		}
	}
	return nil
}

func validateChanges(kind string, changes []domain.FlowChange) error {
	for _, c := range changes {
		if c.Month < 1 {
			return fmt.Errorf("%s change month must be at least 1, got %d", kind, c.Month)
		}
		if c.Amount.LessThan(decimal.Zero) {
			return fmt.Errorf("%s change at month %d cannot be negative", kind, c.Month)
		}
	}
	return nil
}

// CreateExampleConfiguration returns the four reference plans with the default parameters
func (ip *InputParser) CreateExampleConfiguration() *domain.Configuration {
	plan := func(name string, income int64) domain.Plan {
		return domain.Plan{
			Name:            name,
			Description:     fmt.Sprintf("monthly income %d, monthly expenses 80000", income),
			InitialIncome:   decimal.NewFromInt(income),
			InitialExpenses: decimal.NewFromInt(80000),
			InitialCapital:  decimal.Zero,
			PlannedExpenses: []domain.PlannedExpense{
				{
					Name:         "Savings Target",
					Amount:       decimal.NewFromInt(400000),
					TriggerKind:  domain.TriggerSavingsTarget,
					TriggerValue: decimal.NewFromInt(400000),
				},
			},
		}
	}
	return &domain.Configuration{
		Parameters: domain.DefaultParameters(),
		Plans: []domain.Plan{
			plan("A", 110000),
			plan("B", 150000),
			plan("C", 200000),
			plan("D", 250000),
		},
	}
}

