package services

import (
	"fmt"

	"github.com/vvka-141/testmeta/internal/coverage"
	"github.com/vvka-141/testmeta/internal/environment"
	"github.com/vvka-141/testmeta/internal/grouping"
	"github.com/vvka-141/testmeta/internal/hooks"
	"github.com/vvka-141/testmeta/internal/introspect"
	"github.com/vvka-141/testmeta/internal/metadata"
	"github.com/vvka-141/testmeta/internal/requirements"
	"github.com/vvka-141/testmeta/pkg/testmeta"
)

// ResolutionService answers every metadata question a test runner asks about
// a test method. Metadata reads go through a caching store shared by all
// resolvers.
//
// Thread-Safety: safe for concurrent use. The hook cache and the metadata
// store belong to this instance; create a new service to start from a cold cache.
type ResolutionService struct {
	inspector    introspect.Inspector
	mapper       coverage.Mapper
	logger       testmeta.Logger
	requirements *requirements.Resolver
	coverage     *coverage.Resolver
	grouping     *grouping.Resolver
	hooks        *hooks.Resolver
}

// NewResolutionService creates a ResolutionService with all dependencies injected.
//
// Panics on nil dependencies: these are wiring mistakes that should fail at
// startup. Metadata and coverage problems are returned as errors by the
// individual queries.
func NewResolutionService(
	reader metadata.Reader,
	inspector introspect.Inspector,
	mapper coverage.Mapper,
	env environment.Environment,
	logger testmeta.Logger,
) *ResolutionService {
	if reader == nil {
		panic("reader cannot be nil")
	}
	if inspector == nil {
		panic("inspector cannot be nil")
	}
	if mapper == nil {
		panic("mapper cannot be nil")
	}
	if env == nil {
		panic("env cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}

	store := metadata.NewStore(reader, logger)
	return &ResolutionService{
		inspector:    inspector,
		mapper:       mapper,
		logger:       logger,
		requirements: requirements.NewResolver(store, env, inspector, logger),
		coverage:     coverage.NewResolver(store, mapper, inspector, logger),
		grouping:     grouping.NewResolver(store, logger),
		hooks:        hooks.NewResolver(store, inspector, logger),
	}
}

// LinesToBeCovered returns the source lines a test intends to cover. ok is
// false when coverage collection is disabled for the test.
func (s *ResolutionService) LinesToBeCovered(className, methodName string) (coverage.LineRanges, bool, error) {
	return s.coverage.LinesToBeCovered(className, methodName)
}

// LinesToBeUsed returns the source lines a test may execute without covering them.
func (s *ResolutionService) LinesToBeUsed(className, methodName string) (coverage.LineRanges, error) {
	return s.coverage.LinesToBeUsed(className, methodName)
}

// CodeUnitsToBeCovered returns the code units behind LinesToBeCovered.
func (s *ResolutionService) CodeUnitsToBeCovered(className, methodName string) (coverage.CodeUnitSet, bool, error) {
	return s.coverage.CodeUnitsToBeCovered(className, methodName)
}

// CodeUnitsToBeUsed returns the code units behind LinesToBeUsed.
func (s *ResolutionService) CodeUnitsToBeUsed(className, methodName string) (coverage.CodeUnitSet, error) {
	return s.coverage.CodeUnitsToBeUsed(className, methodName)
}

// Requirements returns the merged requirement tree of a test.
func (s *ResolutionService) Requirements(className, methodName string) (*requirements.Tree, error) {
	return s.requirements.Requirements(className, methodName)
}

// MissingRequirements returns the messages of every unmet requirement,
// preceded by location sentinels when something is missing.
func (s *ResolutionService) MissingRequirements(className, methodName string) ([]string, error) {
	return s.requirements.MissingRequirements(className, methodName)
}

// Groups returns the groups of a test.
func (s *ResolutionService) Groups(className, methodName string) ([]string, error) {
	return s.grouping.Groups(className, methodName)
}

// Size returns the declared size of a test.
func (s *ResolutionService) Size(className, methodName string) (testmeta.TestSize, error) {
	return s.grouping.Size(className, methodName)
}

// Dependencies returns the tests a test depends on.
func (s *ResolutionService) Dependencies(className, methodName string) ([]grouping.Dependency, error) {
	return s.grouping.Dependencies(className, methodName)
}

// Settings returns the isolation settings of a test.
func (s *ResolutionService) Settings(className, methodName string) (grouping.Settings, error) {
	return s.grouping.Settings(className, methodName)
}

// HookMethods returns the hook methods of a class.
func (s *ResolutionService) HookMethods(className string) hooks.HookMethodTable {
	return s.hooks.HookMethods(className)
}

// IsTestMethod reports whether m is a test method of the class.
func (s *ResolutionService) IsTestMethod(className string, m introspect.Method) bool {
	return s.hooks.IsTestMethod(className, m)
}

// TestMethods lists the test methods of a class.
func (s *ResolutionService) TestMethods(className string) ([]introspect.Method, error) {
	if !s.inspector.ClassExists(className) {
		return nil, fmt.Errorf("%s: %w", className, testmeta.ErrClassNotFound)
	}
	return s.hooks.TestMethods(className)
}
