package cmd

import (
	"github.com/rpgo/wealthsim/internal/output"
	"github.com/spf13/cobra"
)

var paramsCmd = &cobra.Command{
	Use:   "params",
	Short: "Print the effective parameters and plans",
	Args:  cobra.NoArgs,
	RunE:  runParams,
}

func init() {
	rootCmd.AddCommand(paramsCmd)
}

func runParams(cmd *cobra.Command, _ []string) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}
	cfg, err := loadConfiguration()
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(output.WriteParameters(settings.Apply(cfg.Parameters), cfg.Plans))
	return err
}
