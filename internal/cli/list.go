package cli

import (
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list [class]",
	Short: "List test classes and their test methods",
	Long: `List the test methods of every class in the manifest, or of one class.

A method is a test when it is public and its name starts with "test", or
when it carries @test metadata. Classes without test methods are omitted.

Examples:
  testmeta list
  testmeta list 'App\Tests\CartTest' -o yaml`,
	Args:              cobra.MaximumNArgs(1),
	ValidArgsFunction: completeClassNames,
	RunE:              runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

type listEntry struct {
	Class string   `json:"class" yaml:"class"`
	Tests []string `json:"tests" yaml:"tests"`
}

func runList(cmd *cobra.Command, args []string) error {
	format, err := outputFormat(cmd)
	if err != nil {
		return err
	}
	project, err := openProject(cmd)
	if err != nil {
		return err
	}

	classes := project.Manifest.Classes()
	if len(args) == 1 {
		classes = args
	}

	var entries []listEntry
	for _, className := range classes {
		methods, err := project.Service.TestMethods(className)
		if err != nil {
			if len(args) == 1 {
				return err
			}
			continue
		}
		if len(methods) == 0 {
			continue
		}
		entry := listEntry{Class: className}
		for _, m := range methods {
			entry.Tests = append(entry.Tests, m.Name)
		}
		entries = append(entries, entry)
	}

	if format != outputText {
		return writeStructured(cmd.OutOrStdout(), format, entries)
	}
	p := newPrinter(cmd)
	for _, e := range entries {
		p.Title("%s", e.Class)
		p.List(e.Tests)
	}
	return nil
}
