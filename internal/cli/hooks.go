package cli

import (
	"github.com/spf13/cobra"
)

var hooksCmd = &cobra.Command{
	Use:   "hooks <class>",
	Short: "Show the hook methods that run around the tests of a class",
	Long: `List the lifecycle hook methods of a test class in the order the runner
calls them. Hooks declared with metadata run before the conventional setUp
style methods and after the conventional tearDown style methods.

A class that is not in the manifest gets the conventional methods only.

Examples:
  testmeta hooks 'App\Tests\CartTest'
  testmeta hooks 'App\Tests\CartTest' -o json`,
	Args:              RequireClassName,
	ValidArgsFunction: completeClassNames,
	RunE:              runHooks,
}

func init() {
	rootCmd.AddCommand(hooksCmd)
}

func runHooks(cmd *cobra.Command, args []string) error {
	format, err := outputFormat(cmd)
	if err != nil {
		return err
	}
	project, err := openProject(cmd)
	if err != nil {
		return err
	}

	table := project.Service.HookMethods(args[0])
	if format != outputText {
		return writeStructured(cmd.OutOrStdout(), format, table)
	}
	p := newPrinter(cmd)
	p.Title("%s", args[0])
	renderHooks(p, table)
	return nil
}
