package config

import (
	"fmt"
	"runtime"

	"github.com/caarlos0/env/v11"
	"github.com/rpgo/wealthsim/internal/domain"
)

// RunSettings are the process-level knobs of a simulation run.
// CLI flags override them after loading.
type RunSettings struct {
	Workers      int      `env:"WEALTHSIM_WORKERS"`
	Seed         int64    `env:"WEALTHSIM_SEED"`
	Scenarios    int      `env:"WEALTHSIM_SCENARIOS"`
	BatchedDraws bool     `env:"WEALTHSIM_BATCHED_DRAWS"`
	LogLevel     string   `env:"WEALTHSIM_LOG_LEVEL" envDefault:"info"`
	LogFormat    string   `env:"WEALTHSIM_LOG_FORMAT" envDefault:"text"`
	OutputDir    string   `env:"WEALTHSIM_OUTPUT_DIR" envDefault:"simulation_results"`
	Formats      []string `env:"WEALTHSIM_FORMATS" envDefault:"console" envSeparator:","`
}

// LoadRunSettings reads run settings from the environment
func LoadRunSettings() (RunSettings, error) {
	var s RunSettings
	if err := env.Parse(&s); err != nil {
		return RunSettings{}, fmt.Errorf("parse env: %w", err)
	}
	if s.Workers <= 0 {
		s.Workers = runtime.NumCPU()
	}
	return s, nil
}

// Apply overlays the seed and scenario count onto the parameters; zero keeps the configured value
func (s RunSettings) Apply(p domain.GlobalParameters) domain.GlobalParameters {
	if s.Seed != 0 {
		p.Seed = s.Seed
	}
	if s.Scenarios > 0 {
		p.NumScenarios = s.Scenarios
	}
	return p
}
