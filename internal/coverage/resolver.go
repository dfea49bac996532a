// Package coverage resolves covers and uses facts into code units and the
// source lines a test is allowed to cover or use.
package coverage

import (
	"fmt"
	"strings"

	"github.com/vvka-141/testmeta/internal/introspect"
	"github.com/vvka-141/testmeta/internal/metadata"
	"github.com/vvka-141/testmeta/pkg/testmeta"
)

// Mapper turns target strings into code units and code units into source lines.
//
// Resolve accepts "Class", "Class::method" and "::function" targets and fails
// with an error wrapping testmeta.ErrInvalidCoverageTarget for malformed or
// unknown targets.
type Mapper interface {
	Resolve(target string) (CodeUnit, error)
	ToLineRanges(units CodeUnitSet) LineRanges
}

// Resolver computes the code a test covers and uses.
type Resolver struct {
	reader    metadata.Reader
	mapper    Mapper
	inspector introspect.Inspector
	logger    testmeta.Logger
}

// NewResolver creates a Resolver. The inspector is used to reject interfaces as
// covers targets and may be nil.
func NewResolver(reader metadata.Reader, mapper Mapper, inspector introspect.Inspector, logger testmeta.Logger) *Resolver {
	return &Resolver{reader: reader, mapper: mapper, inspector: inspector, logger: logger}
}

// direction holds what differs between covers and uses resolution.
type direction struct {
	annotation      string
	defaultClassTag string
	targets         func(metadata.Collection) metadata.Collection
	defaultClasses  func(metadata.Collection) []string
	rejectInterface bool
}

var (
	covering = direction{
		annotation:      "@covers",
		defaultClassTag: "@coversDefaultClass",
		targets:         metadata.Collection.Covers,
		defaultClasses: func(c metadata.Collection) []string {
			var names []string
			for _, f := range metadata.OfType[metadata.CoversDefaultClass](c) {
				names = append(names, f.ClassName)
			}
			return names
		},
		rejectInterface: true,
	}
	using = direction{
		annotation:      "@uses",
		defaultClassTag: "@usesDefaultClass",
		targets:         metadata.Collection.Uses,
		defaultClasses: func(c metadata.Collection) []string {
			var names []string
			for _, f := range metadata.OfType[metadata.UsesDefaultClass](c) {
				names = append(names, f.ClassName)
			}
			return names
		},
	}
)

// CodeUnitsToBeCovered returns the code units a test covers. enabled is false
// when coverage must not be collected for the test at all.
//
// A covers fact on the method always enables collection. Otherwise a
// coversNothing fact on the method, or on the class, disables it.
func (r *Resolver) CodeUnitsToBeCovered(className, methodName string) (units CodeUnitSet, enabled bool, err error) {
	method, class, err := metadata.ForClassAndMethod(r.reader, className, methodName, r.logger)
	if err != nil {
		return CodeUnitSet{}, false, fmt.Errorf("read coverage metadata of %s::%s: %w", className, methodName, err)
	}

	if !CollectionEnabled(class, method) {
		if r.logger != nil {
			r.logger.Verbose("coverage disabled for %s::%s by @coversNothing", className, methodName)
		}
		return CodeUnitSet{}, false, nil
	}

	units, err = r.resolve(covering, className, class, method)
	if err != nil {
		return CodeUnitSet{}, false, err
	}
	return units, true, nil
}

// LinesToBeCovered returns the source lines a test covers. enabled is false
// when coverage must not be collected for the test at all.
func (r *Resolver) LinesToBeCovered(className, methodName string) (LineRanges, bool, error) {
	units, enabled, err := r.CodeUnitsToBeCovered(className, methodName)
	if err != nil || !enabled {
		return nil, enabled, err
	}
	return r.mapper.ToLineRanges(units), true, nil
}

// CodeUnitsToBeUsed returns the code units a test uses without covering them.
func (r *Resolver) CodeUnitsToBeUsed(className, methodName string) (CodeUnitSet, error) {
	method, class, err := metadata.ForClassAndMethod(r.reader, className, methodName, r.logger)
	if err != nil {
		return CodeUnitSet{}, fmt.Errorf("read coverage metadata of %s::%s: %w", className, methodName, err)
	}
	return r.resolve(using, className, class, method)
}

// LinesToBeUsed returns the source lines a test uses without covering them.
func (r *Resolver) LinesToBeUsed(className, methodName string) (LineRanges, error) {
	units, err := r.CodeUnitsToBeUsed(className, methodName)
	if err != nil {
		return nil, err
	}
	return r.mapper.ToLineRanges(units), nil
}

// CollectionEnabled reports whether coverage is collected given both scopes' metadata.
func CollectionEnabled(class, method metadata.Collection) bool {
	if method.Covers().IsNotEmpty() {
		return true
	}
	if metadata.Has[metadata.CoversNothing](method) {
		return false
	}
	return !metadata.Has[metadata.CoversNothing](class)
}

// resolve accumulates the code units of every target fact, method facts first.
func (r *Resolver) resolve(d direction, className string, class, method metadata.Collection) (CodeUnitSet, error) {
	shortcut, err := defaultClass(d, className, class)
	if err != nil {
		return CodeUnitSet{}, err
	}

	var units CodeUnitSet
	for _, fact := range d.targets(method.MergeWith(class)).Facts() {
		unit, err := r.resolveFact(d, shortcut, fact)
		if err != nil {
			return CodeUnitSet{}, err
		}
		units = units.With(unit)
	}
	return units, nil
}

func defaultClass(d direction, className string, class metadata.Collection) (string, error) {
	names := d.defaultClasses(class)
	switch len(names) {
	case 0:
		return "", nil
	case 1:
		return names[0], nil
	default:
		return "", fmt.Errorf("more than one %s annotation for class or interface \"%s\": %w",
			d.defaultClassTag, className, testmeta.ErrAmbiguousDefaultClass)
	}
}

func (r *Resolver) resolveFact(d direction, shortcut string, fact metadata.Fact) (CodeUnit, error) {
	switch f := fact.(type) {
	case metadata.Covers:
		return r.resolveFreeForm(d, shortcut, f.Target)
	case metadata.Uses:
		return r.resolveFreeForm(d, shortcut, f.Target)
	case metadata.CoversClass:
		return r.resolveTyped(KindClass, f.Reference())
	case metadata.UsesClass:
		return r.resolveTyped(KindClass, f.Reference())
	case metadata.CoversMethod:
		return r.resolveTyped(KindMethod, f.Reference())
	case metadata.UsesMethod:
		return r.resolveTyped(KindMethod, f.Reference())
	case metadata.CoversFunction:
		return r.resolveTyped(KindFunction, f.Reference())
	case metadata.UsesFunction:
		return r.resolveTyped(KindFunction, f.Reference())
	default:
		return CodeUnit{}, fmt.Errorf("unexpected coverage fact %T: %w", fact, testmeta.ErrInvalidCoverageTarget)
	}
}

func (r *Resolver) resolveTyped(kind Kind, target string) (CodeUnit, error) {
	unit, err := r.mapper.Resolve(target)
	if err != nil {
		return CodeUnit{}, &CoverageTargetError{Kind: kind.String(), Target: strings.TrimPrefix(target, "::"), Err: err}
	}
	return unit, nil
}

func (r *Resolver) resolveFreeForm(d direction, shortcut, target string) (CodeUnit, error) {
	target = strings.TrimSpace(target)
	if d.rejectInterface && r.inspector != nil && r.inspector.InterfaceExists(target) {
		return CodeUnit{}, &CoverageTargetError{
			Target:  target,
			Message: fmt.Sprintf(`Trying to %s interface "%s".`, d.annotation, target),
		}
	}
	if shortcut != "" && strings.HasPrefix(target, "::") {
		target = shortcut + target
	}

	unit, err := r.mapper.Resolve(target)
	if err != nil {
		return CodeUnit{}, &CoverageTargetError{
			Target:  target,
			Message: fmt.Sprintf(`"%s %s" is invalid`, d.annotation, target),
			Err:     err,
		}
	}
	return unit, nil
}
