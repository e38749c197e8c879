package output

import (
	"fmt"
	"math"

	money "github.com/rpgo/wealthsim/pkg/decimal"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// FormatCurrency formats a decimal as currency with grouped thousands and 2 decimals.
func FormatCurrency(amount decimal.Decimal) string {
	return money.NewMoneyFromDecimal(amount).Format()
}

// FormatPercentage formats a decimal as a percentage with 2 decimals.
func FormatPercentage(amount decimal.Decimal) string { return amount.StringFixed(2) + "%" }

// formatAmount rounds a simulated amount to whole units and groups thousands
func formatAmount(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Sprint(v)
	}
	return printer.Sprintf("%d", int64(math.Round(v)))
}

func formatPct(v float64) string { return fmt.Sprintf("%.1f%%", v) }

func formatRatio(v float64) string { return fmt.Sprintf("%.2f", v) }

func formatFloat(v float64) string { return fmt.Sprintf("%.6f", v) }

func formatDensity(v float64) string { return fmt.Sprintf("%.3g", v) }
