package manifest

import (
	"fmt"
	"strings"

	"github.com/vvka-141/testmeta/internal/coverage"
	"github.com/vvka-141/testmeta/internal/introspect"
	"github.com/vvka-141/testmeta/internal/metadata"
	"github.com/vvka-141/testmeta/pkg/testmeta"
)

// ForClass returns the facts declared in a class's docblock.
func (m *Manifest) ForClass(className string) (metadata.Collection, error) {
	c, ok := m.classes[canonical(className)]
	if !ok {
		return metadata.Collection{}, fmt.Errorf("class %s: %w", className, testmeta.ErrMetadataNotFound)
	}
	return c.facts, nil
}

// ForMethod returns the facts declared in a method's docblock. Inherited
// methods carry the docblock of the class declaring them.
func (m *Manifest) ForMethod(className, methodName string) (metadata.Collection, error) {
	if _, ok := m.classes[canonical(className)]; !ok {
		return metadata.Collection{}, fmt.Errorf("class %s: %w", className, testmeta.ErrMetadataNotFound)
	}
	_, md := m.findMethod(className, methodName)
	if md == nil {
		return metadata.Collection{}, fmt.Errorf("method %s::%s: %w", className, methodName, testmeta.ErrMetadataNotFound)
	}
	return md.facts, nil
}

// findMethod looks a method up along the class's lineage.
func (m *Manifest) findMethod(className, methodName string) (*class, *method) {
	key := strings.ToLower(methodName)
	for _, c := range m.lineage(className) {
		if md, ok := c.methods[key]; ok {
			return c, md
		}
	}
	return nil, nil
}

// ClassExists reports whether a non-interface class is declared.
func (m *Manifest) ClassExists(className string) bool {
	c, ok := m.classes[canonical(className)]
	return ok && !c.decl.Interface
}

// InterfaceExists reports whether an interface is declared.
func (m *Manifest) InterfaceExists(name string) bool {
	c, ok := m.classes[canonical(name)]
	return ok && c.decl.Interface
}

// MethodExists reports whether a class declares or inherits a method.
func (m *Manifest) MethodExists(className, methodName string) bool {
	_, md := m.findMethod(className, methodName)
	return md != nil
}

// FunctionExists reports whether a free function is declared.
func (m *Manifest) FunctionExists(name string) bool {
	return m.hasFunction(canonical(name))
}

// Methods lists a class's own methods followed by inherited ones it does not override.
func (m *Manifest) Methods(className string) ([]introspect.Method, error) {
	chain := m.lineage(className)
	if len(chain) == 0 {
		return nil, fmt.Errorf("class %s: %w", className, testmeta.ErrClassNotFound)
	}

	var methods []introspect.Method
	seen := make(map[string]bool)
	for _, c := range chain {
		for _, key := range c.order {
			if seen[key] {
				continue
			}
			seen[key] = true
			md := c.methods[key].decl
			methods = append(methods, introspect.Method{
				Name:           md.Name,
				DeclaringClass: c.decl.Name,
				Static:         md.Static,
				Visibility:     md.Visibility,
			})
		}
	}
	return methods, nil
}

// Resolve maps a target to a code unit. Accepted forms:
//   - "Class" or "Interface"
//   - "Class::method", including inherited methods
//   - "::function"
func (m *Manifest) Resolve(target string) (coverage.CodeUnit, error) {
	target = strings.TrimSpace(target)
	if target == "" {
		return coverage.CodeUnit{}, fmt.Errorf("empty target: %w", testmeta.ErrInvalidCoverageTarget)
	}
	if strings.ContainsAny(target, "<>") {
		return coverage.CodeUnit{}, fmt.Errorf("target %s uses an unsupported selector: %w", target, testmeta.ErrInvalidCoverageTarget)
	}

	className, methodName, qualified := strings.Cut(target, "::")
	switch {
	case qualified && className == "":
		fn, ok := m.functions[canonical(methodName)]
		if !ok {
			return coverage.CodeUnit{}, fmt.Errorf("function %s is not declared: %w", methodName, testmeta.ErrInvalidCoverageTarget)
		}
		return coverage.NewFunctionUnit(fn.Name, fn.File, fn.Lines), nil

	case qualified:
		declaring, md := m.findMethod(className, methodName)
		if md == nil {
			return coverage.CodeUnit{}, fmt.Errorf("method %s::%s is not declared: %w", className, methodName, testmeta.ErrInvalidCoverageTarget)
		}
		return coverage.NewMethodUnit(declaring.decl.Name, md.decl.Name, declaring.decl.File, md.decl.Lines), nil

	default:
		c, ok := m.classes[canonical(className)]
		if !ok {
			return coverage.CodeUnit{}, fmt.Errorf("class %s is not declared: %w", className, testmeta.ErrInvalidCoverageTarget)
		}
		return coverage.NewClassUnit(c.decl.Name, c.decl.File, c.decl.Lines), nil
	}
}

// ToLineRanges maps code units to their files' line ranges, merging overlaps.
func (m *Manifest) ToLineRanges(units coverage.CodeUnitSet) coverage.LineRanges {
	ranges := coverage.LineRanges{}
	for _, u := range units.Units() {
		if u.File == "" {
			continue
		}
		ranges.Add(u.File, u.Lines)
	}
	return ranges.Normalize()
}
