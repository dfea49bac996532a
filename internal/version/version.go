// Package version compares runtime and framework versions against the
// operators and constraints used in @requires annotations.
package version

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/vvka-141/testmeta/pkg/testmeta"
)

// Operator is a normalized comparison operator.
type Operator string

const (
	LessThan           Operator = "<"
	LessThanOrEqual    Operator = "<="
	GreaterThan        Operator = ">"
	GreaterThanOrEqual Operator = ">="
	Equal              Operator = "=="
	NotEqual           Operator = "!="
)

var operatorAliases = map[string]Operator{
	"":   GreaterThanOrEqual,
	"<":  LessThan,
	"lt": LessThan,
	"<=": LessThanOrEqual,
	"le": LessThanOrEqual,
	">":  GreaterThan,
	"gt": GreaterThan,
	">=": GreaterThanOrEqual,
	"ge": GreaterThanOrEqual,
	"==": Equal,
	"=":  Equal,
	"eq": Equal,
	"!=": NotEqual,
	"<>": NotEqual,
	"ne": NotEqual,
}

// ParseOperator normalizes an operator. An empty operator means ">=".
func ParseOperator(s string) (Operator, error) {
	op, ok := operatorAliases[strings.TrimSpace(s)]
	if !ok {
		return "", fmt.Errorf("unknown comparison operator %q: %w", s, testmeta.ErrInvalidVersion)
	}
	return op, nil
}

var sanitizeRegex = regexp.MustCompile(`^(\d+\.\d+(\.\d+)?).*$`)

// Sanitize strips everything after the leading major.minor[.patch] of a version,
// so "8.3.0-dev" becomes "8.3.0". Versions that do not start that way are returned unchanged.
func Sanitize(v string) string {
	v = strings.TrimSpace(v)
	if m := sanitizeRegex.FindStringSubmatch(v); m != nil {
		return m[1]
	}
	return v
}

func parse(v string) (*semver.Version, error) {
	parsed, err := semver.NewVersion(strings.TrimSpace(v))
	if err == nil {
		return parsed, nil
	}
	parsed, sanitizedErr := semver.NewVersion(Sanitize(v))
	if sanitizedErr != nil {
		return nil, fmt.Errorf("parse version %q: %v: %w", v, err, testmeta.ErrInvalidVersion)
	}
	return parsed, nil
}

// Validate reports whether v can be compared as a version.
func Validate(v string) error {
	_, err := parse(Sanitize(v))
	return err
}

// Compare reports whether actual satisfies "actual op required".
// Both versions are sanitized before comparing, so "1.2.3-rc1" compares as "1.2.3".
func Compare(actual, required string, op Operator) (bool, error) {
	normalized, err := ParseOperator(string(op))
	if err != nil {
		return false, err
	}
	a, err := parse(Sanitize(actual))
	if err != nil {
		return false, err
	}
	r, err := parse(Sanitize(required))
	if err != nil {
		return false, err
	}

	cmp := a.Compare(r)
	switch normalized {
	case LessThan:
		return cmp < 0, nil
	case LessThanOrEqual:
		return cmp <= 0, nil
	case GreaterThan:
		return cmp > 0, nil
	case GreaterThanOrEqual:
		return cmp >= 0, nil
	case Equal:
		return cmp == 0, nil
	default:
		return cmp != 0, nil
	}
}

// Complies reports whether actual satisfies a Composer-style constraint such as
// "^8.1 || ~7.4". The actual version is sanitized before checking.
func Complies(actual, constraint string) (bool, error) {
	c, err := parseConstraint(constraint)
	if err != nil {
		return false, err
	}
	a, err := parse(Sanitize(actual))
	if err != nil {
		return false, err
	}
	return c.Check(a), nil
}

// ValidateConstraint reports whether constraint can be parsed.
func ValidateConstraint(constraint string) error {
	_, err := parseConstraint(constraint)
	return err
}

func parseConstraint(constraint string) (*semver.Constraints, error) {
	trimmed := strings.TrimSpace(constraint)
	if trimmed == "" {
		return nil, fmt.Errorf("empty version constraint: %w", testmeta.ErrInvalidVersion)
	}
	c, err := semver.NewConstraint(composerTilde(composerOr(trimmed)))
	if err != nil {
		return nil, fmt.Errorf("parse version constraint %q: %v: %w", constraint, err, testmeta.ErrInvalidVersion)
	}
	return c, nil
}

var orRegex = regexp.MustCompile(`\s*\|{1,2}\s*`)

// composerOr rewrites Composer's single "|" alternative separator to "||".
func composerOr(constraint string) string {
	return orRegex.ReplaceAllString(constraint, " || ")
}

var twoPartTildeRegex = regexp.MustCompile(`~\s*(\d+)\.(\d+)(?:\s|,|\||$)`)

// composerTilde rewrites "~X.Y" to ">=X.Y, <X+1". Composer treats the last given
// segment as the one allowed to move, semver treats the minor as fixed.
func composerTilde(constraint string) string {
	return twoPartTildeRegex.ReplaceAllStringFunc(constraint, func(match string) string {
		m := twoPartTildeRegex.FindStringSubmatch(match)
		major, err := strconv.Atoi(m[1])
		if err != nil {
			return match
		}
		suffix := match[len(strings.TrimRight(match, " \t,|")):]
		return fmt.Sprintf(">=%s.%s, <%d", m[1], m[2], major+1) + suffix
	})
}
