// Package requirements evaluates @requires facts against an environment and
// reports every requirement that is not met.
package requirements

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/vvka-141/testmeta/internal/environment"
	"github.com/vvka-141/testmeta/internal/introspect"
	"github.com/vvka-141/testmeta/internal/metadata"
	"github.com/vvka-141/testmeta/internal/version"
	"github.com/vvka-141/testmeta/pkg/testmeta"
)

// Location sentinel prefixes placed at the head of a missing-requirements list.
const (
	OffsetLinePrefix = "__OFFSET_LINE="
	OffsetFilePrefix = "__OFFSET_FILE="
)

// Resolver computes unmet requirements for test methods.
type Resolver struct {
	reader    metadata.Reader
	env       environment.Environment
	inspector introspect.Inspector
	logger    testmeta.Logger
}

// NewResolver creates a Resolver. The inspector is optional; without it
// "Class::method" requirements are checked against the environment's functions only.
func NewResolver(reader metadata.Reader, env environment.Environment, inspector introspect.Inspector, logger testmeta.Logger) *Resolver {
	return &Resolver{reader: reader, env: env, inspector: inspector, logger: logger}
}

// Requirements returns the merged class and method requirement tree.
// Missing class or method metadata counts as no requirements.
func (r *Resolver) Requirements(className, methodName string) (*Tree, error) {
	method, class, err := metadata.ForClassAndMethod(r.reader, className, methodName, r.logger)
	if err != nil {
		return nil, fmt.Errorf("read requirements of %s::%s: %w", className, methodName, err)
	}
	return Merged(class, method), nil
}

// MissingRequirements returns one message per unmet requirement of a test method.
func (r *Resolver) MissingRequirements(className, methodName string) ([]string, error) {
	tree, err := r.Requirements(className, methodName)
	if err != nil {
		return nil, err
	}
	return r.evaluate(tree), nil
}

// Missing evaluates already-read class and method metadata.
func (r *Resolver) Missing(class, method metadata.Collection) []string {
	return r.evaluate(Merged(class, method))
}

// Merged builds the requirement trees of both scopes and merges the method's over the class's.
func Merged(class, method metadata.Collection) *Tree {
	return MergeRecursive(BuildTree(class.Requires()), BuildTree(method.Requires()))
}

// evaluate checks every requirement category in order and collects all failures.
// The hint of the first failing category selects the offset line reported.
func (r *Resolver) evaluate(tree *Tree) []string {
	var missing []string
	hint := ""
	fail := func(h, msg string) {
		missing = append(missing, msg)
		if hint == "" {
			hint = h
		}
	}

	r.checkVersion(tree, KeyRuntime, testmeta.RuntimeName, r.env.RuntimeVersion(), fail)
	r.checkVersion(tree, KeyFramework, testmeta.FrameworkName, r.env.FrameworkVersion(), fail)

	if family := tree.str(KeyOSFamily); family != "" && family != r.env.OSFamily() {
		fail(KeyOSFamily, fmt.Sprintf("Operating system %s is required.", family))
	}

	if osName := tree.str(KeyOS); osName != "" {
		pattern := "/" + strings.ReplaceAll(osName, "/", `\/`) + "/i"
		re, err := regexp.Compile("(?i)" + osName)
		if err != nil || !re.MatchString(r.env.OSName()) {
			fail(KeyOS, fmt.Sprintf("Operating system matching %s is required.", pattern))
		}
	}

	for _, item := range tree.list(KeyFunctions) {
		name, _ := item.(string)
		if !r.functionAvailable(name) {
			fail(functionHint(name), fmt.Sprintf("Function %s is required.", name))
		}
	}

	settings := tree.subtree(KeySettings)
	for _, name := range settings.Keys() {
		want := settings.str(name)
		if got, ok := r.env.Setting(name); !ok || got != want {
			fail(settingHint(name), fmt.Sprintf(`Setting "%s" must be "%s".`, name, want))
		}
	}

	extVersions := tree.subtree(KeyExtensionVersions)
	for _, item := range tree.list(KeyExtensions) {
		name, _ := item.(string)
		if _, versioned := extVersions.Get(name); versioned {
			continue
		}
		if !r.env.ExtensionLoaded(name) {
			fail(extensionHint(name), fmt.Sprintf("Extension %s is required.", name))
		}
	}

	for _, name := range extVersions.Keys() {
		req := extVersions.subtree(name)
		op := displayOperator(req.str(fieldOperator))
		want := req.str(fieldVersion)
		ok := false
		if r.env.ExtensionLoaded(name) {
			ok = r.compare(r.env.ExtensionVersion(name), want, op)
		}
		if !ok {
			fail(extensionHint(name), fmt.Sprintf("Extension %s %s %s is required.", name, op, want))
		}
	}

	if hint == "" {
		return missing
	}
	offset := tree.subtree(KeyOffset)
	if offset == nil {
		return missing
	}
	file := offset.str(KeyOffsetFile)
	return append([]string{
		OffsetLinePrefix + strconv.Itoa(offsetLine(offset, hint)),
		OffsetFilePrefix + file,
	}, missing...)
}

// checkVersion evaluates an exact version requirement, or a constraint when no exact one exists.
func (r *Resolver) checkVersion(tree *Tree, key, label, actual string, fail func(hint, msg string)) {
	if req := tree.subtree(key); req != nil && req.str(fieldVersion) != "" {
		op := displayOperator(req.str(fieldOperator))
		want := req.str(fieldVersion)
		if !r.compare(actual, want, op) {
			fail(key, fmt.Sprintf("%s %s %s is required.", label, op, want))
		}
		return
	}

	constraintKey := key + "_constraint"
	req := tree.subtree(constraintKey)
	if req == nil || req.str(fieldConstraint) == "" {
		return
	}
	constraint := req.str(fieldConstraint)
	ok, err := version.Complies(actual, constraint)
	if err != nil && r.logger != nil {
		r.logger.Verbose("%s version %q against constraint %q: %v", label, actual, constraint, err)
	}
	if !ok {
		fail(constraintKey, fmt.Sprintf("%s version does not match the required constraint %s.", label, constraint))
	}
}

func (r *Resolver) compare(actual, required, op string) bool {
	ok, err := version.Compare(actual, required, version.Operator(op))
	if err != nil {
		if r.logger != nil {
			r.logger.Verbose("compare version %q %s %q: %v", actual, op, required, err)
		}
		return false
	}
	return ok
}

// functionAvailable accepts "Class::method" when the method exists, else a plain function.
func (r *Resolver) functionAvailable(name string) bool {
	if class, method, ok := strings.Cut(name, "::"); ok && r.inspector != nil {
		if r.inspector.ClassExists(class) && r.inspector.MethodExists(class, method) {
			return true
		}
	}
	if r.env.FunctionExists(name) {
		return true
	}
	return r.inspector != nil && r.inspector.FunctionExists(name)
}

// displayOperator returns the operator as written, or ">=" when none was given.
func displayOperator(op string) string {
	op = strings.TrimSpace(op)
	if op == "" {
		return string(version.GreaterThanOrEqual)
	}
	return op
}

// SplitLocation removes the leading location sentinels from a missing-requirements
// list. ok is false when the list carries no location.
func SplitLocation(missing []string) (messages []string, loc metadata.Location, ok bool) {
	messages = missing
	for len(messages) > 0 {
		switch {
		case strings.HasPrefix(messages[0], OffsetLinePrefix):
			if n, err := strconv.Atoi(strings.TrimPrefix(messages[0], OffsetLinePrefix)); err == nil {
				loc.Line = n
			}
		case strings.HasPrefix(messages[0], OffsetFilePrefix):
			loc.File = strings.TrimPrefix(messages[0], OffsetFilePrefix)
		default:
			return messages, loc, ok
		}
		ok = true
		messages = messages[1:]
	}
	return messages, loc, ok
}
