package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rpgo/wealthsim/internal/config"
	"github.com/rpgo/wealthsim/internal/domain"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	flagConfig    string
	flagLogLevel  string
	flagLogFormat string
	flagQuiet     bool
)

var rootCmd = &cobra.Command{
	Use:   "wealthsim",
	Short: "Household wealth Monte Carlo simulator",
	Long: "Simulate household financial plans month by month under random emergencies,\n" +
		"income losses and debt, and compare the terminal wealth distributions.",
	SilenceUsage: true,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", "", "Scenario file (.yaml, .yml, .json or .toml); built-in plans A-D when empty")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level (debug, info, warn, error); overrides WEALTHSIM_LOG_LEVEL")
	rootCmd.PersistentFlags().StringVar(&flagLogFormat, "log-format", "", "Log format (text or json); overrides WEALTHSIM_LOG_FORMAT")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")
}

// loadSettings reads the environment run settings and applies the persistent flag overrides
func loadSettings() (config.RunSettings, error) {
	settings, err := config.LoadRunSettings()
	if err != nil {
		return settings, err
	}
	if flagLogLevel != "" {
		settings.LogLevel = flagLogLevel
	}
	if flagLogFormat != "" {
		settings.LogFormat = flagLogFormat
	}
	return settings, nil
}

// loadConfiguration reads --config, or falls back to the built-in example plans.
func loadConfiguration() (*domain.Configuration, error) {
	parser := config.NewInputParser()
	if flagConfig == "" {
		return parser.CreateExampleConfiguration(), nil
	}
	return parser.LoadFromFile(flagConfig)
}

func newLogger(level, format string, out io.Writer) (*logrus.Logger, error) {
	logger := logrus.New()
	logger.SetOutput(out)
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	case "text", "":
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	default:
		return nil, fmt.Errorf("unsupported log format %q", format)
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}
	logger.SetLevel(lvl)
	return logger, nil
}
