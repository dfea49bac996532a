package metadata

import (
	"fmt"
	"strings"

	"github.com/vvka-141/testmeta/pkg/testmeta"
)

// MetadataError represents a structured error with context and helpful hints.
// It includes file path, optional line number, and actionable suggestions.
type MetadataError struct {
	FilePath string // Path to the file declaring the metadata
	Line     int    // Line number (0 if unknown)
	Field    string // Annotation name (e.g., "requires", "covers") if applicable
	Message  string // Primary error message
	Hint     string // Actionable suggestion for fixing
}

// Error implements the error interface with rich formatting.
func (e *MetadataError) Error() string {
	location := e.FilePath
	if location == "" {
		location = "<unknown>"
	}
	if e.Line > 0 {
		location = fmt.Sprintf("%s (line %d)", location, e.Line)
	}

	msg := fmt.Sprintf("metadata error in %s: %s", location, e.Message)
	if e.Field != "" {
		msg = fmt.Sprintf("metadata error in %s [@%s]: %s", location, e.Field, e.Message)
	}

	if e.Hint != "" {
		msg += "\n\nHint: " + e.Hint
	}

	return msg
}

// Unwrap lets callers match metadata errors against testmeta.ErrInvalidManifest.
func (e *MetadataError) Unwrap() error {
	return testmeta.ErrInvalidManifest
}

// formatValidationErrors converts ValidationResult to a user-friendly error.
func formatValidationErrors(result ValidationResult, subject string) error {
	if result.Valid {
		return nil
	}

	var msg strings.Builder
	msg.WriteString(fmt.Sprintf("invalid metadata for %s:\n", subject))

	for i, err := range result.Errors {
		msg.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err))
	}

	return fmt.Errorf("%s%w", msg.String(), testmeta.ErrInvalidManifest)
}
