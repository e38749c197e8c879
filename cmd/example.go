package cmd

import (
	"fmt"
	"os"

	"github.com/rpgo/wealthsim/internal/config"
	"github.com/spf13/cobra"
)

var flagExampleFormat string

var exampleCmd = &cobra.Command{
	Use:   "example [file]",
	Short: "Write the built-in example configuration",
	Long: "Write the four reference plans and the default parameters.\n" +
		"The format follows the file extension unless --format is given; stdout gets YAML by default.",
	Args: cobra.MaximumNArgs(1),
	RunE: runExample,
}

func init() {
	exampleCmd.Flags().StringVarP(&flagExampleFormat, "format", "f", "yaml", "Output format (yaml or toml)")
	rootCmd.AddCommand(exampleCmd)
}

func runExample(cmd *cobra.Command, args []string) error {
	format := config.FileFormat(flagExampleFormat)
	if len(args) == 1 && !cmd.Flags().Changed("format") {
		f, err := config.FormatFromPath(args[0])
		if err != nil {
			return err
		}
		format = f
	}

	parser := config.NewInputParser()
	data, err := parser.Encode(parser.CreateExampleConfiguration(), format)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(args[0], data, 0o644); err != nil {
		return fmt.Errorf("write example configuration: %w", err)
	}
	if !flagQuiet {
		fmt.Fprintf(cmd.ErrOrStderr(), "  Example configuration written to %s\n", args[0])
	}
	return nil
}
