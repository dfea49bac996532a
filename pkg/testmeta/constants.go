package testmeta

// Exit codes for semantic error classification.
// These follow Unix/GNU conventions:
//   - 0: Success
//   - 1: General error
//   - 2: CLI usage error (misuse of command line)
//   - 3+: Application-specific errors
const (
	ExitSuccess          = 0  // Resolution completed successfully
	ExitGeneralError     = 1  // Unknown or unclassified error
	ExitUsageError       = 2  // CLI usage error (missing args, invalid flags)
	ExitPanic            = 3  // Internal panic (unexpected crash)
	ExitConfigError      = 10 // Invalid configuration or parameters
	ExitManifestError    = 11 // Manifest could not be loaded or validated
	ExitNotFound         = 12 // Class or method not found
	ExitCoverageError    = 13 // Invalid coverage target or ambiguous default class
	ExitUnmetRequirement = 14 // Test requirements are not met (requirements command only)
)

const (
	// RuntimeName labels runtime version requirements in diagnostics.
	RuntimeName = "PHP"

	// FrameworkName labels framework version requirements in diagnostics.
	FrameworkName = "PHPUnit"

	// AssertClass is the framework class carrying assertion helpers.
	// Methods declared directly on it are never hook methods.
	AssertClass = `PHPUnit\Framework\Assert`

	// TestCaseClass is the framework base test case.
	// Methods declared directly on it are never hook methods.
	TestCaseClass = `PHPUnit\Framework\TestCase`

	// TestMethodPrefix marks a public method as a test without explicit metadata.
	TestMethodPrefix = "test"

	// NamespaceSeparator separates namespace segments in class names.
	NamespaceSeparator = `\`

	// CoversGroupPrefix prefixes synthetic groups derived from covers targets.
	CoversGroupPrefix = "__covers_"

	// UsesGroupPrefix prefixes synthetic groups derived from uses targets.
	UsesGroupPrefix = "__uses_"
)
