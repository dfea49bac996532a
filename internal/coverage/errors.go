package coverage

import (
	"fmt"

	"github.com/vvka-141/testmeta/pkg/testmeta"
)

// CoverageTargetError reports a covers or uses target that cannot be turned into a code unit.
type CoverageTargetError struct {
	Kind    string // "Class", "Method" or "Function" for typed facts, empty for free-form targets
	Target  string
	Message string // Overrides the default message when set
	Err     error  // Underlying mapper error, if any
}

// Error returns the message naming the target kind and value.
func (e *CoverageTargetError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Kind == "" {
		return fmt.Sprintf(`"%s" is not a valid target for code coverage`, e.Target)
	}
	return fmt.Sprintf(`%s "%s" is not a valid target for code coverage`, e.Kind, e.Target)
}

// Unwrap exposes testmeta.ErrInvalidCoverageTarget and the underlying cause to errors.Is.
func (e *CoverageTargetError) Unwrap() []error {
	if e.Err == nil {
		return []error{testmeta.ErrInvalidCoverageTarget}
	}
	return []error{testmeta.ErrInvalidCoverageTarget, e.Err}
}
