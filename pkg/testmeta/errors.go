package testmeta

import (
	"errors"
	"strings"
)

// Sentinel errors for common failure scenarios.
// These enable callers to distinguish error types using errors.Is().
//
// Example usage:
//
//	ranges, ok, err := svc.LinesToBeCovered(class, method)
//	if errors.Is(err, testmeta.ErrInvalidCoverageTarget) {
//	    // Abort coverage collection for this test
//	}
var (
	// ErrInvalidConfig indicates the provided configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrInvalidManifest indicates the project manifest could not be loaded or validated.
	ErrInvalidManifest = errors.New("invalid manifest")

	// ErrMetadataNotFound indicates a class or method has no metadata because it does not exist.
	ErrMetadataNotFound = errors.New("metadata not found")

	// ErrClassNotFound indicates a class that must exist could not be found.
	ErrClassNotFound = errors.New("class not found")

	// ErrInvalidCoverageTarget indicates a covers/uses target is malformed, refers to an
	// interface, or could not be resolved to a code unit.
	ErrInvalidCoverageTarget = errors.New("invalid coverage target")

	// ErrAmbiguousDefaultClass indicates more than one default-class shortcut was declared in one scope.
	ErrAmbiguousDefaultClass = errors.New("ambiguous default class")

	// ErrInvalidVersion indicates a version string or constraint could not be parsed.
	ErrInvalidVersion = errors.New("invalid version")

	// ErrRequirementsNotMet indicates a test would be skipped because its requirements are not met.
	ErrRequirementsNotMet = errors.New("requirements not met")
)

// usageErrorPatterns match the messages cobra produces for command line misuse.
var usageErrorPatterns = []string{
	"unknown command",
	"unknown flag",
	"unknown shorthand flag",
	"accepts ",
	"requires at least",
	"required flag",
	"invalid argument",
}

// ExitCodeForError returns the appropriate exit code for an error.
// Returns ExitSuccess (0) for nil errors, semantic codes for known errors,
// and ExitGeneralError (1) for unclassified errors.
func ExitCodeForError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	switch {
	case errors.Is(err, ErrInvalidConfig):
		return ExitConfigError
	case errors.Is(err, ErrInvalidManifest):
		return ExitManifestError
	case errors.Is(err, ErrClassNotFound), errors.Is(err, ErrMetadataNotFound):
		return ExitNotFound
	case errors.Is(err, ErrInvalidCoverageTarget), errors.Is(err, ErrAmbiguousDefaultClass):
		return ExitCoverageError
	case errors.Is(err, ErrInvalidVersion):
		return ExitConfigError
	case errors.Is(err, ErrRequirementsNotMet):
		return ExitUnmetRequirement
	}

	errStr := err.Error()
	for _, pattern := range usageErrorPatterns {
		if strings.Contains(errStr, pattern) {
			return ExitUsageError
		}
	}

	return ExitGeneralError
}
