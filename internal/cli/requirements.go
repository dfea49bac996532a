package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vvka-141/testmeta/internal/requirements"
	"github.com/vvka-141/testmeta/pkg/testmeta"
)

var requirementsCmd = &cobra.Command{
	Use:   "requirements <class>::<method>",
	Short: "Check the requirements of a test against the environment",
	Long: `Evaluate the @requires metadata of a test and its class against the
configured environment and list every requirement that is not met.

Exits with code 14 when at least one requirement is not met, so the command
can gate a CI step.

Examples:
  testmeta requirements 'App\Tests\CartTest::testTotal'
  testmeta requirements 'App\Tests\CartTest::testTotal' --extension intl=2.0 -o yaml`,
	Args:              RequireTestRef,
	ValidArgsFunction: completeTestRefs,
	RunE:              runRequirements,
}

func init() {
	rootCmd.AddCommand(requirementsCmd)
}

type requirementsResult struct {
	Test     string         `json:"test" yaml:"test"`
	Declared map[string]any `json:"declared,omitempty" yaml:"declared,omitempty"`
	Missing  []string       `json:"missing" yaml:"missing"`
	At       string         `json:"at,omitempty" yaml:"at,omitempty"`
}

func runRequirements(cmd *cobra.Command, args []string) error {
	format, err := outputFormat(cmd)
	if err != nil {
		return err
	}
	className, methodName, err := splitTestRef(args[0])
	if err != nil {
		return err
	}
	project, err := openProject(cmd)
	if err != nil {
		return err
	}

	tree, err := project.Service.Requirements(className, methodName)
	if err != nil {
		return err
	}
	missing, err := project.Service.MissingRequirements(className, methodName)
	if err != nil {
		return err
	}
	messages, loc, ok := requirements.SplitLocation(missing)

	result := requirementsResult{Test: args[0], Declared: tree.ToMap(), Missing: messages}
	if ok {
		result.At = fmt.Sprintf("%s:%d", loc.File, loc.Line)
	}

	if format != outputText {
		if err := writeStructured(cmd.OutOrStdout(), format, result); err != nil {
			return err
		}
	} else {
		p := newPrinter(cmd)
		p.Title("%s", result.Test)
		renderRequirements(p, result.Missing, result.At)
	}

	if len(messages) > 0 {
		return fmt.Errorf("%s: %d unmet: %w", result.Test, len(messages), testmeta.ErrRequirementsNotMet)
	}
	return nil
}
