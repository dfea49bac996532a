package coverage

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// Kind identifies what a code unit refers to.
type Kind int

const (
	KindClass Kind = iota
	KindMethod
	KindFunction
)

// String returns the capitalized kind name used in error messages.
func (k Kind) String() string {
	switch k {
	case KindClass:
		return "Class"
	case KindMethod:
		return "Method"
	case KindFunction:
		return "Function"
	default:
		return "Unknown"
	}
}

// LineRange is an inclusive range of source lines.
type LineRange struct {
	Start int `json:"start" yaml:"start"`
	End   int `json:"end" yaml:"end"`
}

// String renders the range as "start-end", or "line" when it spans one line.
func (r LineRange) String() string {
	if r.Start == r.End {
		return fmt.Sprintf("%d", r.Start)
	}
	return fmt.Sprintf("%d-%d", r.Start, r.End)
}

// LineRanges maps source files to their ordered line ranges.
type LineRanges map[string][]LineRange

// Files returns the files in sorted order.
func (l LineRanges) Files() []string {
	files := make([]string, 0, len(l))
	for f := range l {
		files = append(files, f)
	}
	sort.Strings(files)
	return files
}

// Add records a range for file.
func (l LineRanges) Add(file string, r LineRange) {
	l[file] = append(l[file], r)
}

// Normalize sorts every file's ranges and merges overlapping or adjacent ones.
func (l LineRanges) Normalize() LineRanges {
	out := make(LineRanges, len(l))
	for file, ranges := range l {
		sorted := append([]LineRange(nil), ranges...)
		sort.Slice(sorted, func(i, j int) bool {
			if sorted[i].Start != sorted[j].Start {
				return sorted[i].Start < sorted[j].Start
			}
			return sorted[i].End < sorted[j].End
		})

		var merged []LineRange
		for _, r := range sorted {
			if n := len(merged); n > 0 && r.Start <= merged[n-1].End+1 {
				if r.End > merged[n-1].End {
					merged[n-1].End = r.End
				}
				continue
			}
			merged = append(merged, r)
		}
		out[file] = merged
	}
	return out
}

// CodeUnit is a resolved reference to a class, method or function.
type CodeUnit struct {
	Kind         Kind
	ClassName    string
	MethodName   string
	FunctionName string
	File         string
	Lines        LineRange
	id           uuid.UUID
}

// NewClassUnit creates a code unit for a class.
func NewClassUnit(className, file string, lines LineRange) CodeUnit {
	u := CodeUnit{Kind: KindClass, ClassName: strings.TrimPrefix(className, `\`), File: file, Lines: lines}
	u.id = Identity(u.canonical())
	return u
}

// NewMethodUnit creates a code unit for a method of a class.
func NewMethodUnit(className, methodName, file string, lines LineRange) CodeUnit {
	u := CodeUnit{Kind: KindMethod, ClassName: strings.TrimPrefix(className, `\`), MethodName: methodName, File: file, Lines: lines}
	u.id = Identity(u.canonical())
	return u
}

// NewFunctionUnit creates a code unit for a free function.
func NewFunctionUnit(functionName, file string, lines LineRange) CodeUnit {
	u := CodeUnit{Kind: KindFunction, FunctionName: strings.TrimPrefix(functionName, `\`), File: file, Lines: lines}
	u.id = Identity(u.canonical())
	return u
}

// ID returns the unit's deterministic identity.
func (u CodeUnit) ID() uuid.UUID {
	return u.id
}

// Reference returns the unit in target syntax: "Class", "Class::method" or "::function".
func (u CodeUnit) Reference() string {
	switch u.Kind {
	case KindMethod:
		return u.ClassName + "::" + u.MethodName
	case KindFunction:
		return "::" + u.FunctionName
	default:
		return u.ClassName
	}
}

func (u CodeUnit) canonical() string {
	switch u.Kind {
	case KindMethod:
		return "method:" + CanonicalName(u.ClassName) + "::" + strings.ToLower(u.MethodName)
	case KindFunction:
		return "function:" + CanonicalName(u.FunctionName)
	default:
		return "class:" + CanonicalName(u.ClassName)
	}
}

// CodeUnitSet is an insertion-ordered set of code units without duplicates.
// The zero value is an empty set.
type CodeUnitSet struct {
	units []CodeUnit
	index map[uuid.UUID]struct{}
}

// NewCodeUnitSet creates a set holding units, dropping duplicates.
func NewCodeUnitSet(units ...CodeUnit) CodeUnitSet {
	var s CodeUnitSet
	for _, u := range units {
		s.add(u)
	}
	return s
}

func (s *CodeUnitSet) add(u CodeUnit) {
	if s.index == nil {
		s.index = make(map[uuid.UUID]struct{})
	}
	if _, ok := s.index[u.id]; ok {
		return
	}
	s.index[u.id] = struct{}{}
	s.units = append(s.units, u)
}

// Union returns a new set holding the units of s followed by the new units of other.
func (s CodeUnitSet) Union(other CodeUnitSet) CodeUnitSet {
	out := NewCodeUnitSet(s.units...)
	for _, u := range other.units {
		out.add(u)
	}
	return out
}

// With returns a new set with u added.
func (s CodeUnitSet) With(u CodeUnit) CodeUnitSet {
	return s.Union(NewCodeUnitSet(u))
}

// Contains reports whether a unit with the same identity is in the set.
func (s CodeUnitSet) Contains(u CodeUnit) bool {
	_, ok := s.index[u.id]
	return ok
}

// Units returns the units in insertion order.
func (s CodeUnitSet) Units() []CodeUnit {
	return append([]CodeUnit(nil), s.units...)
}

func (s CodeUnitSet) Len() int      { return len(s.units) }
func (s CodeUnitSet) IsEmpty() bool { return len(s.units) == 0 }

// References returns the reference of every unit in insertion order.
func (s CodeUnitSet) References() []string {
	refs := make([]string, len(s.units))
	for i, u := range s.units {
		refs[i] = u.Reference()
	}
	return refs
}
