package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/rpgo/wealthsim/internal/domain"
	money "github.com/rpgo/wealthsim/pkg/decimal"
	"github.com/shopspring/decimal"
)

// ParametersFormatter dumps the effective run parameters and plan definitions as text.
type ParametersFormatter struct{}

func (p ParametersFormatter) Name() string      { return "parameters" }
func (p ParametersFormatter) Extension() string { return "txt" }

func (p ParametersFormatter) Format(report *domain.SimulationReport) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintln(&buf, "SIMULATION PARAMETERS")
	fmt.Fprintln(&buf, "=====================")
	if !report.GeneratedAt.IsZero() {
		fmt.Fprintf(&buf, "Generated:            %s\n", report.GeneratedAt.Format("2006-01-02 15:04:05"))
	}
	fmt.Fprintf(&buf, "Seed:                 %d\n", report.Seed)
	fmt.Fprintf(&buf, "Workers:              %d\n", report.Workers)
	fmt.Fprintf(&buf, "Batched draws:        %t\n", report.BatchedDraws)
	writeParameters(&buf, report.Parameters)

	fmt.Fprintln(&buf)
	fmt.Fprintln(&buf, "PLANS")
	fmt.Fprintln(&buf, "=====")
	for i, pr := range report.Plans {
		writePlan(&buf, pr.Plan, i)
	}
	return buf.Bytes(), nil
}

// WriteParameters renders parameters and plans without a run, for the params command
func WriteParameters(params domain.GlobalParameters, plans []domain.Plan) []byte {
	var buf bytes.Buffer
	fmt.Fprintln(&buf, "SIMULATION PARAMETERS")
	fmt.Fprintln(&buf, "=====================")
	writeParameters(&buf, params)
	fmt.Fprintln(&buf)
	fmt.Fprintln(&buf, "PLANS")
	fmt.Fprintln(&buf, "=====")
	for i, plan := range plans {
		writePlan(&buf, plan, i)
	}
	return buf.Bytes()
}

func writeParameters(buf *bytes.Buffer, p domain.GlobalParameters) {
	horizons := make([]string, len(p.Horizons))
	for i, h := range p.Horizons {
		horizons[i] = fmt.Sprintf("%d", h)
	}
	e, l := p.Emergencies, p.IncomeLoss
	fmt.Fprintf(buf, "Scenarios:            %s\n", printer.Sprintf("%d", p.NumScenarios))
	fmt.Fprintf(buf, "Months:               %d\n", p.NumMonths)
	fmt.Fprintf(buf, "Horizons (years):     %s\n", strings.Join(horizons, ", "))
	fmt.Fprintf(buf, "Savings return:       %s / month\n", asPercent(p.SavingsReturnRate))
	fmt.Fprintf(buf, "Ideal return:         %s / month\n", asPercent(p.IdealReturnRate))
	fmt.Fprintf(buf, "Tax on growth:        %s\n", asPercent(p.TaxRate))
	fmt.Fprintf(buf, "Cushion:              %s\n", FormatCurrency(p.CushionAmount))
	fmt.Fprintf(buf, "Debt interest:        %s / month\n", asPercent(p.DebtInterestRate))
	fmt.Fprintf(buf, "Restructuring above:  %.2fx annual income\n", p.RestructuringThresholdRatio)
	fmt.Fprintf(buf, "Bankruptcy above:     %.2fx annual income\n", p.BankruptcyThresholdRatio)
	fmt.Fprintln(buf, "Emergencies:")
	fmt.Fprintf(buf, "  minor               p=%.4f cost %s\n", e.MinorProb, FormatCurrency(e.MinorCost))
	fmt.Fprintf(buf, "  medium              p=%.4f cost %s\n", e.MediumProb, FormatCurrency(e.MediumCost))
	fmt.Fprintf(buf, "  major               p=%.4f cost %s\n", e.MajorProb, FormatCurrency(e.MajorCost))
	fmt.Fprintf(buf, "  minor cluster       p=%.4f minor share %.3f\n", e.MinorClusterProb, e.MinorClusterMinorShare)
	fmt.Fprintf(buf, "  major cluster       lambda=%.3f\n", e.MajorClusterLambda)
	fmt.Fprintln(buf, "Income loss:")
	fmt.Fprintf(buf, "  partial             p=%.4f rate %.0f%% mean %.1f months\n", l.PartialProb, l.PartialRate*100, l.PartialDurationMean)
	fmt.Fprintf(buf, "  full                p=%.4f mean %.1f sd %.1f months\n", l.FullProb, l.FullDurationMean, l.FullDurationSD)
}

func writePlan(buf *bytes.Buffer, plan domain.Plan, index int) {
	fmt.Fprintf(buf, "%s\n", plan.Label(index))
	if plan.Description != "" {
		fmt.Fprintf(buf, "  %s\n", plan.Description)
	}
	fmt.Fprintf(buf, "  income %s, expenses %s, capital %s\n",
		FormatCurrency(plan.InitialIncome), FormatCurrency(plan.InitialExpenses), FormatCurrency(plan.InitialCapital))
	net := money.NewMoneyFromDecimal(plan.InitialIncome).Sub(money.NewMoneyFromDecimal(plan.InitialExpenses))
	fmt.Fprintf(buf, "  net flow %s / month, %s / year\n", net.Format(), net.Annual().Format())
	for _, c := range plan.IncomeChanges {
		fmt.Fprintf(buf, "  income from month %d: %s\n", c.Month, FormatCurrency(c.Amount))
	}
	for _, c := range plan.ExpenseChanges {
		fmt.Fprintf(buf, "  expenses from month %d: %s\n", c.Month, FormatCurrency(c.Amount))
	}
	amounts := make([]money.Money, 0, len(plan.PlannedExpenses))
	for _, pe := range plan.PlannedExpenses {
		amounts = append(amounts, money.NewMoneyFromDecimal(pe.Amount))
		trigger := "savings reach " + FormatCurrency(pe.TriggerValue)
		if pe.TriggerKind == domain.TriggerTime {
			trigger = "year " + pe.TriggerValue.String()
		}
		fmt.Fprintf(buf, "  planned %s: %s when %s\n", pe.Name, FormatCurrency(pe.Amount), trigger)
	}
	if len(amounts) > 1 {
		fmt.Fprintf(buf, "  planned total %s\n", money.Sum(amounts...).Format())
	}
}

func asPercent(d decimal.Decimal) string {
	return FormatPercentage(d.Mul(decimal.NewFromInt(100)))
}
