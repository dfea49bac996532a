package coverage

import (
	"strings"

	"github.com/google/uuid"

	"github.com/vvka-141/testmeta/pkg/testmeta"
)

// NamespaceCodeUnit is the UUID v5 namespace code unit identities are derived in.
var NamespaceCodeUnit = uuid.NewSHA1(uuid.NameSpaceURL, []byte("testmeta/code-unit/v1"))

// Identity returns the deterministic identity of a canonical code unit reference.
func Identity(canonical string) uuid.UUID {
	return uuid.NewSHA1(NamespaceCodeUnit, []byte(canonical))
}

// CanonicalName lower-cases a class or function name and strips surrounding
// namespace separators. Class, method and function names are case-insensitive.
//
// Examples:
//   - `\App\Mailer` → `app\mailer`
//   - `App\Mailer::send` → `app\mailer::send`
func CanonicalName(name string) string {
	return strings.ToLower(strings.Trim(strings.TrimSpace(name), testmeta.NamespaceSeparator))
}
