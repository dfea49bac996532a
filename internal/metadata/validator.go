package metadata

import (
	"strings"

	"github.com/vvka-141/testmeta/internal/version"
)

// Validate checks a collection declared at one level for structural errors.
// It checks:
//   - at most one coversDefaultClass and one usesDefaultClass per scope
//   - coverage, group and dependency targets are non-empty
//   - requirement operators and constraints parse
//
// Returns:
//   - ValidationResult with Valid=true if all checks pass, or Valid=false with detailed errors
func Validate(c Collection, level Level) ValidationResult {
	result := ValidationResult{Valid: true, Errors: []string{}}

	if n := len(OfType[CoversDefaultClass](c)); n > 1 {
		result.AddError("more than one @coversDefaultClass declared on %s (found %d)", level, n)
	}
	if n := len(OfType[UsesDefaultClass](c)); n > 1 {
		result.AddError("more than one @usesDefaultClass declared on %s (found %d)", level, n)
	}

	for _, target := range c.Targets() {
		ref := strings.TrimSpace(target.Reference())
		if ref == "" || ref == "::" {
			result.AddError("coverage target cannot be empty")
		}
	}

	for _, g := range OfType[Group](c) {
		if strings.TrimSpace(g.Name) == "" {
			result.AddError("group name cannot be empty or whitespace-only")
		}
	}

	for _, d := range OfType[DependsOnMethod](c) {
		if strings.TrimSpace(d.MethodName) == "" {
			result.AddError("@depends requires a method name")
		}
	}
	for _, d := range OfType[DependsOnClass](c) {
		if strings.TrimSpace(d.ClassName) == "" {
			result.AddError("@depends requires a class name")
		}
	}

	for _, r := range c.Requires() {
		validateRequires(&result, r)
	}

	return result
}

func validateRequires(result *ValidationResult, r Requires) {
	if r.Operator != "" {
		if _, err := version.ParseOperator(r.Operator); err != nil {
			result.AddError("@requires %s: %v", r.Kind, err)
		}
	}

	switch r.Kind {
	case RequiresRuntime, RequiresFramework:
		if r.Version == "" && r.Constraint == "" {
			result.AddError("@requires %s needs a version or a version constraint", r.Kind)
		}
		if r.Constraint != "" {
			if err := version.ValidateConstraint(r.Constraint); err != nil {
				result.AddError("@requires %s: %v", r.Kind, err)
			}
		}
	case RequiresOS, RequiresOSFamily:
		if strings.TrimSpace(r.Value) == "" {
			result.AddError("@requires %s needs a value", r.Kind)
		}
	case RequiresFunction, RequiresSetting, RequiresExtension:
		if strings.TrimSpace(r.Operand) == "" {
			result.AddError("@requires %s needs a name", r.Kind)
		}
	}
}
