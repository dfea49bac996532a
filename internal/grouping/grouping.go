// Package grouping derives a test's groups, size, execution-order dependencies
// and isolation settings from its class and method metadata.
package grouping

import (
	"fmt"

	"github.com/vvka-141/testmeta/internal/coverage"
	"github.com/vvka-141/testmeta/internal/metadata"
	"github.com/vvka-141/testmeta/pkg/testmeta"
)

// Size group names.
const (
	GroupSmall  = "small"
	GroupMedium = "medium"
	GroupLarge  = "large"
)

// Dependency is one execution-order dependency of a test.
type Dependency struct {
	ClassName    string
	MethodName   string // "class" for a dependency on a whole test class
	DeepClone    bool
	ShallowClone bool
}

// Token returns the dependency as "Class::method".
func (d Dependency) Token() string {
	return d.ClassName + "::" + d.MethodName
}

// String implements fmt.Stringer.
func (d Dependency) String() string {
	return d.Token()
}

// ClassDependency returns true if the dependency is on a whole test class.
func (d Dependency) ClassDependency() bool {
	return d.MethodName == "class"
}

// Settings holds the isolation settings of a test. Nil pointers mean unset.
type Settings struct {
	BackupGlobals               *bool `yaml:"backup_globals,omitempty" json:"backupGlobals,omitempty"`
	BackupStaticProperties      *bool `yaml:"backup_static_properties,omitempty" json:"backupStaticProperties,omitempty"`
	PreserveGlobalState         *bool `yaml:"preserve_global_state,omitempty" json:"preserveGlobalState,omitempty"`
	RunInSeparateProcess        bool  `yaml:"run_in_separate_process" json:"runInSeparateProcess"`
	RunTestsInSeparateProcesses bool  `yaml:"run_tests_in_separate_processes" json:"runTestsInSeparateProcesses"`
	RunClassInSeparateProcess   bool  `yaml:"run_class_in_separate_process" json:"runClassInSeparateProcess"`
}

// Resolver answers grouping and classification queries for test methods.
// Missing class or method metadata counts as no metadata.
type Resolver struct {
	reader metadata.Reader
	logger testmeta.Logger
}

// NewResolver creates a Resolver reading metadata from reader.
func NewResolver(reader metadata.Reader, logger testmeta.Logger) *Resolver {
	return &Resolver{reader: reader, logger: logger}
}

func (r *Resolver) read(className, methodName string) (class, method metadata.Collection, err error) {
	method, class, err = metadata.ForClassAndMethod(r.reader, className, methodName, r.logger)
	if err != nil {
		return metadata.Collection{}, metadata.Collection{}, fmt.Errorf("read metadata of %s::%s: %w", className, methodName, err)
	}
	return class, method, nil
}

// Groups returns the groups of a test method.
func (r *Resolver) Groups(className, methodName string) ([]string, error) {
	class, method, err := r.read(className, methodName)
	if err != nil {
		return nil, err
	}
	return Groups(class, method), nil
}

// Size returns the size classification of a test method.
func (r *Resolver) Size(className, methodName string) (testmeta.TestSize, error) {
	groups, err := r.Groups(className, methodName)
	if err != nil {
		return testmeta.SizeUnknown, err
	}
	return SizeOf(groups), nil
}

// Dependencies returns the execution-order dependencies of a test method.
func (r *Resolver) Dependencies(className, methodName string) ([]Dependency, error) {
	class, method, err := r.read(className, methodName)
	if err != nil {
		return nil, err
	}
	return Dependencies(class, method), nil
}

// Settings returns the isolation settings of a test method.
func (r *Resolver) Settings(className, methodName string) (Settings, error) {
	class, method, err := r.read(className, methodName)
	if err != nil {
		return Settings{}, err
	}
	return ResolveSettings(class, method), nil
}

// BackupGlobals returns the backupGlobals setting of a test method, nil when unset.
func (r *Resolver) BackupGlobals(className, methodName string) (*bool, error) {
	s, err := r.Settings(className, methodName)
	return s.BackupGlobals, err
}

// BackupStaticProperties returns the backupStaticProperties setting of a test method, nil when unset.
func (r *Resolver) BackupStaticProperties(className, methodName string) (*bool, error) {
	s, err := r.Settings(className, methodName)
	return s.BackupStaticProperties, err
}

// PreserveGlobalState returns the preserveGlobalState setting of a test method, nil when unset.
func (r *Resolver) PreserveGlobalState(className, methodName string) (*bool, error) {
	s, err := r.Settings(className, methodName)
	return s.PreserveGlobalState, err
}

// RunInSeparateProcess reports whether the test method runs in its own process.
func (r *Resolver) RunInSeparateProcess(className, methodName string) (bool, error) {
	s, err := r.Settings(className, methodName)
	return s.RunInSeparateProcess, err
}

// RunTestsInSeparateProcesses reports whether every test of the class runs in its own process.
func (r *Resolver) RunTestsInSeparateProcesses(className string) (bool, error) {
	class, err := metadata.ClassOrEmpty(r.reader, className, r.logger)
	if err != nil {
		return false, fmt.Errorf("read metadata of %s: %w", className, err)
	}
	return metadata.Has[metadata.RunTestsInSeparateProcesses](class), nil
}

// RunClassInSeparateProcess reports whether the whole class runs in one separate process.
func (r *Resolver) RunClassInSeparateProcess(className string) (bool, error) {
	class, err := metadata.ClassOrEmpty(r.reader, className, r.logger)
	if err != nil {
		return false, fmt.Errorf("read metadata of %s: %w", className, err)
	}
	return metadata.Has[metadata.RunClassInSeparateProcess](class), nil
}

// Groups collects the declared group names of both scopes, class first, plus a
// synthetic "__covers_" group per covers target and "__uses_" group per uses target.
// Synthetic names use the mapper reference, so function targets keep their "::"
// prefix ("__covers_::app\format") and match a free-form "@covers ::App\format".
// The result holds no duplicates.
func Groups(class, method metadata.Collection) []string {
	var groups []string
	seen := make(map[string]struct{})
	add := func(g string) {
		if _, ok := seen[g]; ok {
			return
		}
		seen[g] = struct{}{}
		groups = append(groups, g)
	}

	for _, fact := range class.MergeWith(method).Facts() {
		switch f := fact.(type) {
		case metadata.Group:
			add(f.Name)
		case metadata.Covers, metadata.CoversClass, metadata.CoversMethod, metadata.CoversFunction:
			add(testmeta.CoversGroupPrefix + coverage.CanonicalName(f.(metadata.CoverageTarget).Reference()))
		case metadata.Uses, metadata.UsesClass, metadata.UsesMethod, metadata.UsesFunction:
			add(testmeta.UsesGroupPrefix + coverage.CanonicalName(f.(metadata.CoverageTarget).Reference()))
		}
	}
	return groups
}

// SizeOf classifies a group list: large, then medium, then small, else unknown.
func SizeOf(groups []string) testmeta.TestSize {
	has := make(map[string]bool, len(groups))
	for _, g := range groups {
		has[g] = true
	}
	switch {
	case has[GroupLarge]:
		return testmeta.SizeLarge
	case has[GroupMedium]:
		return testmeta.SizeMedium
	case has[GroupSmall]:
		return testmeta.SizeSmall
	default:
		return testmeta.SizeUnknown
	}
}

// Dependencies returns the class's dependencies followed by the method's,
// without duplicate tokens. The first occurrence of a token keeps its clone flags.
func Dependencies(class, method metadata.Collection) []Dependency {
	var deps []Dependency
	seen := make(map[string]struct{})

	for _, fact := range class.MergeWith(method).Depends().Facts() {
		var d Dependency
		switch f := fact.(type) {
		case metadata.DependsOnClass:
			d = Dependency{ClassName: f.ClassName, MethodName: "class", DeepClone: f.DeepClone, ShallowClone: f.ShallowClone}
		case metadata.DependsOnMethod:
			d = Dependency{ClassName: f.ClassName, MethodName: f.MethodName, DeepClone: f.DeepClone, ShallowClone: f.ShallowClone}
		default:
			continue
		}
		if _, ok := seen[d.Token()]; ok {
			continue
		}
		seen[d.Token()] = struct{}{}
		deps = append(deps, d)
	}
	return deps
}

// Tokens returns the "Class::method" token of every dependency.
func Tokens(deps []Dependency) []string {
	tokens := make([]string, len(deps))
	for i, d := range deps {
		tokens[i] = d.Token()
	}
	return tokens
}

// ResolveSettings resolves each isolation setting independently: a method-level
// value wins over a class-level one, and absent both the setting is unset.
// Process isolation flags are true when the fact is present.
func ResolveSettings(class, method metadata.Collection) Settings {
	return Settings{
		BackupGlobals: toggle(class, method, func(c metadata.Collection) (bool, bool) {
			return first(metadata.OfType[metadata.BackupGlobals](c), func(f metadata.BackupGlobals) bool { return f.Enabled })
		}),
		BackupStaticProperties: toggle(class, method, func(c metadata.Collection) (bool, bool) {
			return first(metadata.OfType[metadata.BackupStaticProperties](c), func(f metadata.BackupStaticProperties) bool { return f.Enabled })
		}),
		PreserveGlobalState: toggle(class, method, func(c metadata.Collection) (bool, bool) {
			return first(metadata.OfType[metadata.PreserveGlobalState](c), func(f metadata.PreserveGlobalState) bool { return f.Enabled })
		}),
		RunInSeparateProcess:        metadata.Has[metadata.RunInSeparateProcess](method),
		RunTestsInSeparateProcesses: metadata.Has[metadata.RunTestsInSeparateProcesses](class),
		RunClassInSeparateProcess:   metadata.Has[metadata.RunClassInSeparateProcess](class),
	}
}

func toggle(class, method metadata.Collection, lookup func(metadata.Collection) (bool, bool)) *bool {
	if v, ok := lookup(method); ok {
		return &v
	}
	if v, ok := lookup(class); ok {
		return &v
	}
	return nil
}

func first[T any](facts []T, value func(T) bool) (bool, bool) {
	if len(facts) == 0 {
		return false, false
	}
	return value(facts[0]), true
}
