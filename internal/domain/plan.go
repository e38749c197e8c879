package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// TriggerKind selects how a planned expense becomes due
type TriggerKind string

const (
	// TriggerTime fires once the elapsed year reaches TriggerValue and savings cover the amount
	TriggerTime TriggerKind = "time"
	// TriggerSavingsTarget fires once savings reach TriggerValue
	TriggerSavingsTarget TriggerKind = "savings_target"
)

// Valid reports whether the trigger kind is known
func (k TriggerKind) Valid() bool {
	return k == TriggerTime || k == TriggerSavingsTarget
}

// FlowChange sets a new monthly level for income or expenses from Month onward.
// Changes are levels, not deltas: the latest change with Month <= current month wins.
type FlowChange struct {
	Month  int             `yaml:"month" toml:"month" json:"month"`
	Amount decimal.Decimal `yaml:"amount" toml:"amount" json:"amount"`
}

// PlannedExpense is a one-time purchase paid from savings when its trigger fires
type PlannedExpense struct {
	Name         string          `yaml:"name" toml:"name" json:"name"`
	Amount       decimal.Decimal `yaml:"amount" toml:"amount" json:"amount"`
	TriggerKind  TriggerKind     `yaml:"trigger_kind" toml:"trigger_kind" json:"trigger_kind"`
	TriggerValue decimal.Decimal `yaml:"trigger_value" toml:"trigger_value" json:"trigger_value"`
}

// Plan describes one household trajectory. It is read-only for the duration of a run.
type Plan struct {
	Name            string           `yaml:"name" toml:"name" json:"name"`
	Description     string           `yaml:"description,omitempty" toml:"description,omitempty" json:"description,omitempty"`
	InitialIncome   decimal.Decimal  `yaml:"initial_income" toml:"initial_income" json:"initial_income"`
	InitialExpenses decimal.Decimal  `yaml:"initial_expenses" toml:"initial_expenses" json:"initial_expenses"`
	InitialCapital  decimal.Decimal  `yaml:"initial_capital" toml:"initial_capital" json:"initial_capital"`
	IncomeChanges   []FlowChange     `yaml:"income_changes,omitempty" toml:"income_changes,omitempty" json:"income_changes,omitempty"`
	ExpenseChanges  []FlowChange     `yaml:"expense_changes,omitempty" toml:"expense_changes,omitempty" json:"expense_changes,omitempty"`
	PlannedExpenses []PlannedExpense `yaml:"planned_expenses,omitempty" toml:"planned_expenses,omitempty" json:"planned_expenses,omitempty"`
}

// IncomeAt returns the monthly income in force at the given 1-based month
func (p Plan) IncomeAt(month int) decimal.Decimal {
	return levelAt(p.InitialIncome, p.IncomeChanges, month)
}

// ExpensesAt returns the monthly expenses in force at the given 1-based month
func (p Plan) ExpensesAt(month int) decimal.Decimal {
	return levelAt(p.InitialExpenses, p.ExpenseChanges, month)
}

// levelAt picks the latest change at or before month; on equal months the later entry wins.
func levelAt(base decimal.Decimal, changes []FlowChange, month int) decimal.Decimal {
	level := base
	best := 0
	for _, c := range changes {
		if c.Month <= month && c.Month >= best {
			level = c.Amount
			best = c.Month
		}
	}
	return level
}

// Label returns the plan name, or a positional fallback for unnamed plans
func (p Plan) Label(index int) string {
	if p.Name != "" {
		return p.Name
	}
	return fmt.Sprintf("plan-%d", index+1)
}
