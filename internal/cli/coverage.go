package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vvka-141/testmeta/internal/coverage"
	"github.com/vvka-141/testmeta/internal/tui"
)

var coverageCmd = &cobra.Command{
	Use:   "coverage <class>::<method>",
	Short: "Show the lines a test covers and uses",
	Long: `Resolve the @covers and @uses metadata of a test into source line ranges.

Unlike resolve, an invalid target or an ambiguous default class fails the
command with exit code 13.

Examples:
  testmeta coverage 'App\Tests\CartTest::testAdd'
  testmeta coverage 'App\Tests\CartTest::testAdd' -o json`,
	Args:              RequireTestRef,
	ValidArgsFunction: completeTestRefs,
	RunE:              runCoverage,
}

func init() {
	rootCmd.AddCommand(coverageCmd)
}

type coverageResult struct {
	Test         string              `json:"test" yaml:"test"`
	Enabled      bool                `json:"enabled" yaml:"enabled"`
	Covers       []string            `json:"covers,omitempty" yaml:"covers,omitempty"`
	Uses         []string            `json:"uses,omitempty" yaml:"uses,omitempty"`
	LinesCovered coverage.LineRanges `json:"linesCovered,omitempty" yaml:"lines_covered,omitempty"`
	LinesUsed    coverage.LineRanges `json:"linesUsed,omitempty" yaml:"lines_used,omitempty"`
}

func runCoverage(cmd *cobra.Command, args []string) error {
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

	covered, enabled, err := svc.CodeUnitsToBeCovered(className, methodName)
	if err != nil {
		return err
	}
	used, err := svc.CodeUnitsToBeUsed(className, methodName)
	if err != nil {
		return err
	}
	result := coverageResult{Test: args[0], Enabled: enabled, Covers: covered.References(), Uses: used.References()}
	if enabled {
		if result.LinesCovered, _, err = svc.LinesToBeCovered(className, methodName); err != nil {
			return err
		}
	}
	if result.LinesUsed, err = svc.LinesToBeUsed(className, methodName); err != nil {
		return err
	}

	if format != outputText {
		return writeStructured(cmd.OutOrStdout(), format, result)
	}
	p := newPrinter(cmd)
	p.Title("%s", result.Test)
	p.Section("Coverage")
	p.Field("Collected", strconv.FormatBool(result.Enabled))
	p.Field("Covers", tui.Join(result.Covers))
	p.Field("Uses", tui.Join(result.Uses))
	if result.Enabled {
		p.Section("Lines covered")
		p.List(formatLines(result.LinesCovered))
	}
	p.Section("Lines used")
	p.List(formatLines(result.LinesUsed))
	return nil
}
