package cli

import (
	"github.com/spf13/cobra"

	"github.com/vvka-141/testmeta/internal/grouping"
)

var groupsCmd = &cobra.Command{
	Use:   "groups <class>::<method>",
	Short: "Show groups, size, dependencies and isolation settings of a test",
	Long: `Classify a test: its groups (including the synthetic covers and uses
groups), its size, the tests it depends on and its isolation settings.

Examples:
  testmeta groups 'App\Tests\CartTest::testAdd'
  testmeta groups 'App\Tests\CartTest::testAdd' -o yaml`,
	Args:              RequireTestRef,
	ValidArgsFunction: completeTestRefs,
	RunE:              runGroups,
}

func init() {
	rootCmd.AddCommand(groupsCmd)
}

type groupsResult struct {
	Test         string            `json:"test" yaml:"test"`
	Groups       []string          `json:"groups" yaml:"groups"`
	Size         string            `json:"size" yaml:"size"`
	Dependencies []string          `json:"dependencies,omitempty" yaml:"dependencies,omitempty"`
	Settings     grouping.Settings `json:"settings" yaml:"settings"`
}

func runGroups(cmd *cobra.Command, args []string) error {
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
	svc := project.Service

	groups, err := svc.Groups(className, methodName)
	if err != nil {
		return err
	}
	deps, err := svc.Dependencies(className, methodName)
	if err != nil {
		return err
	}
	settings, err := svc.Settings(className, methodName)
	if err != nil {
		return err
	}
	result := groupsResult{
		Test:         args[0],
		Groups:       groups,
		Size:         grouping.SizeOf(groups).String(),
		Dependencies: grouping.Tokens(deps),
		Settings:     settings,
	}

	if format != outputText {
		return writeStructured(cmd.OutOrStdout(), format, result)
	}
	p := newPrinter(cmd)
	p.Title("%s", result.Test)
	renderClassification(p, result.Groups, result.Size, result.Dependencies, result.Settings)
	return nil
}
