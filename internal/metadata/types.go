package metadata

import "fmt"

// Level identifies where a collection of facts was declared.
type Level int

const (
	LevelClass Level = iota
	LevelMethod
)

// String returns a human-readable name for the level.
func (l Level) String() string {
	if l == LevelMethod {
		return "method"
	}
	return "class"
}

// ValidationResult contains the outcome of metadata validation.
// If Valid is false, Errors contains human-readable error messages.
type ValidationResult struct {
	Valid  bool
	Errors []string
}

// AddError appends an error message to the validation result and marks it as invalid.
func (v *ValidationResult) AddError(format string, args ...interface{}) {
	v.Valid = false
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}

// HasErrors returns true if the validation result contains errors.
func (v *ValidationResult) HasErrors() bool {
	return len(v.Errors) > 0
}

// ErrorString returns all validation errors joined with semicolons.
// Returns empty string if no errors.
func (v *ValidationResult) ErrorString() string {
	if len(v.Errors) == 0 {
		return ""
	}
	result := v.Errors[0]
	for i := 1; i < len(v.Errors); i++ {
		result += "; " + v.Errors[i]
	}
	return result
}
