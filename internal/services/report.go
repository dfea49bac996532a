package services

import (
	"errors"
	"fmt"

	"github.com/vvka-141/testmeta/internal/coverage"
	"github.com/vvka-141/testmeta/internal/grouping"
	"github.com/vvka-141/testmeta/internal/hooks"
	"github.com/vvka-141/testmeta/internal/requirements"
	"github.com/vvka-141/testmeta/pkg/testmeta"
)

// Report collects every resolved decision for one test method.
type Report struct {
	Class               string                `yaml:"class" json:"class"`
	Method              string                `yaml:"method" json:"method"`
	Groups              []string              `yaml:"groups" json:"groups"`
	Size                string                `yaml:"size" json:"size"`
	Dependencies        []string              `yaml:"dependencies,omitempty" json:"dependencies,omitempty"`
	Settings            grouping.Settings     `yaml:"settings" json:"settings"`
	MissingRequirements []string              `yaml:"missing_requirements,omitempty" json:"missingRequirements,omitempty"`
	RequirementsAt      string                `yaml:"requirements_at,omitempty" json:"requirementsAt,omitempty"`
	CoverageEnabled     bool                  `yaml:"coverage_enabled" json:"coverageEnabled"`
	Covers              []string              `yaml:"covers,omitempty" json:"covers,omitempty"`
	Uses                []string              `yaml:"uses,omitempty" json:"uses,omitempty"`
	LinesCovered        coverage.LineRanges   `yaml:"lines_covered,omitempty" json:"linesCovered,omitempty"`
	LinesUsed           coverage.LineRanges   `yaml:"lines_used,omitempty" json:"linesUsed,omitempty"`
	CoverageError       string                `yaml:"coverage_error,omitempty" json:"coverageError,omitempty"`
	Hooks               hooks.HookMethodTable `yaml:"hooks" json:"hooks"`
}

// Skipped reports whether the test would be skipped for unmet requirements.
func (r Report) Skipped() bool {
	return len(r.MissingRequirements) > 0
}

// Report resolves every decision for one test method.
//
// Invalid coverage targets do not fail the report; they are recorded in
// CoverageError and coverage is reported as disabled. Other errors, such as a
// failing metadata reader, are returned.
func (s *ResolutionService) Report(className, methodName string) (Report, error) {
	report := Report{Class: className, Method: methodName}

	groups, err := s.grouping.Groups(className, methodName)
	if err != nil {
		return Report{}, err
	}
	report.Groups = groups
	report.Size = grouping.SizeOf(groups).String()

	deps, err := s.grouping.Dependencies(className, methodName)
	if err != nil {
		return Report{}, err
	}
	report.Dependencies = grouping.Tokens(deps)

	if report.Settings, err = s.grouping.Settings(className, methodName); err != nil {
		return Report{}, err
	}

	missing, err := s.requirements.MissingRequirements(className, methodName)
	if err != nil {
		return Report{}, err
	}
	messages, loc, ok := requirements.SplitLocation(missing)
	report.MissingRequirements = messages
	if ok {
		report.RequirementsAt = fmt.Sprintf("%s:%d", loc.File, loc.Line)
	}

	if err := s.fillCoverage(&report); err != nil {
		return Report{}, err
	}

	report.Hooks = s.hooks.HookMethods(className)
	return report, nil
}

func (s *ResolutionService) fillCoverage(report *Report) error {
	covered, enabled, err := s.coverage.CodeUnitsToBeCovered(report.Class, report.Method)
	if err != nil {
		return s.coverageFailure(report, err)
	}
	used, err := s.coverage.CodeUnitsToBeUsed(report.Class, report.Method)
	if err != nil {
		return s.coverageFailure(report, err)
	}

	report.CoverageEnabled = enabled
	report.Covers = covered.References()
	report.Uses = used.References()
	if enabled && !covered.IsEmpty() {
		report.LinesCovered = s.mapper.ToLineRanges(covered)
	}
	if !used.IsEmpty() {
		report.LinesUsed = s.mapper.ToLineRanges(used)
	}
	return nil
}

func (s *ResolutionService) coverageFailure(report *Report, err error) error {
	if !isCoverageError(err) {
		return err
	}
	s.logger.Verbose("coverage of %s::%s not collected: %v", report.Class, report.Method, err)
	report.CoverageError = err.Error()
	return nil
}

// ClassReport returns a Report for every test method of a class, in
// inventory order.
func (s *ResolutionService) ClassReport(className string) ([]Report, error) {
	tests, err := s.TestMethods(className)
	if err != nil {
		return nil, err
	}
	reports := make([]Report, 0, len(tests))
	for _, m := range tests {
		report, err := s.Report(className, m.Name)
		if err != nil {
			return nil, fmt.Errorf("%s::%s: %w", className, m.Name, err)
		}
		reports = append(reports, report)
	}
	return reports, nil
}

func isCoverageError(err error) bool {
	return errors.Is(err, testmeta.ErrInvalidCoverageTarget) || errors.Is(err, testmeta.ErrAmbiguousDefaultClass)
}
