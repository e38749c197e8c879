package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/rpgo/wealthsim/internal/calculation"
	"github.com/rpgo/wealthsim/internal/config"
	"github.com/rpgo/wealthsim/internal/domain"
	"github.com/rpgo/wealthsim/pkg/dateutil"
)

func main() {
	configPath := flag.String("config", "", "scenario file; built-in plans A-D when empty")
	planName := flag.String("plan", "B", "plan name")
	scenario := flag.Int("scenario", 0, "scenario number")
	months := flag.Int("months", 24, "months to print (0 for the whole run)")
	seed := flag.Int64("seed", 0, "master seed; 0 keeps the configured seed")
	batched := flag.Bool("batched", false, "use block-drawn uniforms")
	flag.Parse()

	if err := run(*configPath, *planName, *scenario, *months, *seed, *batched); err != nil {
		fmt.Fprintln(os.Stderr, "trace_scenario:", err)
		os.Exit(1)
	}
}

func run(configPath, planName string, scenario, months int, seed int64, batched bool) error {
	parser := config.NewInputParser()
	cfg := parser.CreateExampleConfiguration()
	if configPath != "" {
		var err error
		if cfg, err = parser.LoadFromFile(configPath); err != nil {
			return err
		}
	}
	var plan *domain.Plan
	for i := range cfg.Plans {
		if cfg.Plans[i].Name == planName {
			plan = &cfg.Plans[i]
		}
	}
	if plan == nil {
		return fmt.Errorf("plan %q not found", planName)
	}

	params := cfg.Parameters
	if seed != 0 {
		params.Seed = seed
	}
	sim, err := calculation.NewSimulator(params, calculation.WithBatchedDraws(batched))
	if err != nil {
		return err
	}
	rows, err := sim.Trace(*plan, scenario, months)
	if err != nil {
		return err
	}

	fmt.Printf("Plan %s, scenario %d, seed %d\n", plan.Name, scenario, sim.Seed())
	fmt.Printf("%-7s %10s %10s %10s %10s %12s %12s %10s %10s %9s  %s\n",
		"month", "income", "expenses", "shocks", "interest", "cushion", "savings", "debt", "growth", "shadow", "events")
	for _, r := range rows {
		fmt.Printf("%-7s %10.0f %10.0f %10.0f %10.0f %12.0f %12.0f %10.0f %10.0f %9.0f  %s\n",
			dateutil.Label(r.Month), r.Income, r.Expenses, r.Shocks.Total(), r.Activity.Interest,
			r.Ledger.Cushion, r.Ledger.Savings, r.Ledger.Debt, r.Ledger.AnnualGrowth,
			r.Shadow.Cushion+r.Shadow.Savings, events(r))
	}
	return nil
}

func events(r calculation.TraceRow) string {
	var parts []string
	for _, e := range r.Shocks.Events {
		parts = append(parts, fmt.Sprintf("%s %.0f", e.Kind, e.Amount))
	}
	for _, s := range r.Activity.Spends {
		parts = append(parts, fmt.Sprintf("planned %s %.0f", s.Name, s.Amount))
	}
	if r.Activity.EnteredRestructuring {
		parts = append(parts, "restructuring")
	}
	if r.Activity.Bankrupt {
		parts = append(parts, "bankrupt")
	}
	return strings.Join(parts, ", ")
}
