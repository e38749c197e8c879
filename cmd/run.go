package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"sync"

	"github.com/rpgo/wealthsim/internal/calculation"
	"github.com/rpgo/wealthsim/internal/output"
	"github.com/spf13/cobra"
)

var (
	flagSeed      int64
	flagScenarios int
	flagWorkers   int
	flagBatched   bool
	flagFormats   []string
	flagOutDir    string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Simulate every plan and write the reports",
	Args:  cobra.NoArgs,
	RunE:  runSimulation,
}

func init() {
	runCmd.Flags().Int64Var(&flagSeed, "seed", 0, "Master seed; overrides the configured seed")
	runCmd.Flags().IntVarP(&flagScenarios, "scenarios", "s", 0, "Number of scenarios; overrides the configured count")
	runCmd.Flags().IntVarP(&flagWorkers, "workers", "w", 0, "Concurrent scenario workers (default NumCPU)")
	runCmd.Flags().BoolVar(&flagBatched, "batched", false, "Draw uniforms in blocks")
	runCmd.Flags().StringSliceVarP(&flagFormats, "format", "f", nil, "Report formats, comma separated, or all")
	runCmd.Flags().StringVarP(&flagOutDir, "out", "o", "", "Output directory for report files")
	rootCmd.AddCommand(runCmd)
}

func runSimulation(cmd *cobra.Command, _ []string) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("seed") {
		settings.Seed = flagSeed
	}
	if flags.Changed("scenarios") {
		settings.Scenarios = flagScenarios
	}
	if flags.Changed("workers") {
		settings.Workers = flagWorkers
	}
	if flags.Changed("batched") {
		settings.BatchedDraws = flagBatched
	}
	if flags.Changed("format") {
		settings.Formats = flagFormats
	}
	if flags.Changed("out") {
		settings.OutputDir = flagOutDir
	}

	logger, err := newLogger(settings.LogLevel, settings.LogFormat, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	formatters, err := output.ResolveFormatters(settings.Formats)
	if err != nil {
		return err
	}
	cfg, err := loadConfiguration()
	if err != nil {
		return err
	}

	stderr := cmd.ErrOrStderr()
	var mu sync.Mutex
	progressFn := func(done, total int) {
		mu.Lock()
		defer mu.Unlock()
		fmt.Fprintf(stderr, "\r  Simulating [%d/%d]", done, total)
		if done == total {
			fmt.Fprintln(stderr)
		}
	}
	opts := []calculation.Option{
		calculation.WithWorkers(settings.Workers),
		calculation.WithBatchedDraws(settings.BatchedDraws),
		calculation.WithLogger(logger),
	}
	if !flagQuiet {
		opts = append(opts, calculation.WithProgress(progressFn))
	}
	sim, err := calculation.NewSimulator(settings.Apply(cfg.Parameters), opts...)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	report, err := sim.RunPlans(ctx, cfg.Plans)
	if err != nil {
		return err
	}

	for _, f := range formatters {
		name, err := output.WriteFormatted(f, report, settings.OutputDir)
		if err != nil {
			logger.Errorf("write %s report: %v", f.Name(), err)
			return err
		}
		logger.Infof("wrote %s", name)
		if f.Name() != (output.ConsoleFormatter{}).Name() {
			continue
		}
		data, err := f.Format(report)
		if err != nil {
			return err
		}
		if _, err := cmd.OutOrStdout().Write(data); err != nil {
			return err
		}
	}
	return nil
}
