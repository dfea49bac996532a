package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vvka-141/testmeta/internal/services"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <class>[::<method>]",
	Short: "Show every resolved decision for a test or a test class",
	Long: `Resolve all metadata of one test method, or of every test method of a class:
groups and size, dependencies, isolation settings, unmet requirements,
covered and used lines, and hook methods.

Invalid coverage targets are reported in the output and do not fail the command.

Examples:
  # One test
  testmeta resolve 'App\Tests\CartTest::testAdd'

  # Every test of a class, as JSON
  testmeta resolve 'App\Tests\CartTest' -o json

  # Check requirements against a different environment
  testmeta resolve 'App\Tests\CartTest' --extension intl --setting memory_limit=-1`,
	Args:              RequireClassName,
	ValidArgsFunction: completeClassNames,
	RunE:              runResolve,
}

func init() {
	rootCmd.AddCommand(resolveCmd)
}

func runResolve(cmd *cobra.Command, args []string) error {
	format, err := outputFormat(cmd)
	if err != nil {
		return err
	}
	project, err := openProject(cmd)
	if err != nil {
		return err
	}

	var reports []services.Report
	if strings.Contains(args[0], "::") {
		className, methodName, err := splitTestRef(args[0])
		if err != nil {
			return err
		}
		report, err := project.Service.Report(className, methodName)
		if err != nil {
			return err
		}
		reports = []services.Report{report}
	} else {
		reports, err = project.Service.ClassReport(args[0])
		if err != nil {
			return err
		}
	}

	if format != outputText {
		return writeStructured(cmd.OutOrStdout(), format, reports)
	}
	p := newPrinter(cmd)
	for i, r := range reports {
		if i > 0 {
			fmt.Fprintln(cmd.OutOrStdout())
		}
		renderReport(p, r)
	}
	return nil
}
