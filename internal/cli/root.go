package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "testmeta",
	Short: "Resolve test metadata the way the test runner sees it",
	Long: `testmeta reads a project manifest of classes, methods and their docblocks,
and answers the questions a test runner asks before running a test:
which lines it covers, which requirements are unmet, which groups it belongs
to, which tests it depends on and which hook methods run around it.

The environment requirements are checked against comes from testmeta.yaml,
an optional settings file and the --setting and --extension flags.

Exit Codes:
  0  - Success
  1  - General error
  2  - CLI usage error (invalid arguments or flags)
  3  - Panic or unexpected system error
  10 - Invalid configuration or parameters
  11 - Manifest could not be loaded or validated
  12 - Class or method not found
  13 - Invalid coverage target or ambiguous default class
  14 - Test requirements are not met (requirements command)`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		printVersionInfo()
		return nil
	}
	return rootCmd.Execute()
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.BoolP("verbose", "v", false, "Enable verbose output for all commands")
	flags.StringP("dir", "C", ".", "Project directory containing testmeta.yaml")
	flags.StringArray("setting", nil, "Runtime setting as key=value (repeatable, overrides settings file)")
	flags.StringArray("extension", nil, "Loaded extension as name or name=version (repeatable)")
	flags.String("settings-file", "", "Settings file in .env format (overrides settings_file in testmeta.yaml)")
	flags.StringP("output", "o", outputText, "Output format: text, json or yaml")

	_ = rootCmd.RegisterFlagCompletionFunc("output", completeOutputFormats)
}

// getVerboseFlag safely retrieves the verbose flag value
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to get verbose flag: %v\n", err)
		return false
	}
	return verbose
}
