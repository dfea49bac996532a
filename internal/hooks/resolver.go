// Package hooks finds the lifecycle hook methods of test classes and decides
// which methods are tests.
package hooks

import (
	"strings"
	"sync"

	"github.com/vvka-141/testmeta/internal/introspect"
	"github.com/vvka-141/testmeta/internal/metadata"
	"github.com/vvka-141/testmeta/pkg/testmeta"
)

// frameworkClasses declare methods that are never hooks of a test class.
var frameworkClasses = []string{testmeta.AssertClass, testmeta.TestCaseClass}

// Resolver computes hook method tables and caches them per class.
// The cache lives as long as the Resolver. Safe for concurrent use.
type Resolver struct {
	reader    metadata.Reader
	inspector introspect.Inspector
	logger    testmeta.Logger

	mu    sync.RWMutex
	cache map[string]HookMethodTable
}

// NewResolver creates a Resolver with an empty cache.
func NewResolver(reader metadata.Reader, inspector introspect.Inspector, logger testmeta.Logger) *Resolver {
	return &Resolver{
		reader:    reader,
		inspector: inspector,
		logger:    logger,
		cache:     make(map[string]HookMethodTable),
	}
}

// HookMethods returns the hook method table of a class.
//
// A class that is not loaded gets the default table, which is not cached.
// Otherwise every declared or inherited method, except those declared by the
// framework's assertion and test case classes, is checked for hook facts:
//   - static methods with beforeClass are prepended to BeforeClass
//   - static methods with afterClass are appended to AfterClass
//   - methods with before or preCondition are prepended to Before or PreCondition
//   - methods with postCondition or after are appended to PostCondition or After
//
// Introspection or metadata failures end the scan; the table built so far is
// cached and returned.
func (r *Resolver) HookMethods(className string) HookMethodTable {
	r.mu.RLock()
	table, ok := r.cache[className]
	r.mu.RUnlock()
	if ok {
		r.verbose("hook methods of %s served from cache", className)
		return table.clone()
	}

	if !r.inspector.ClassExists(className) {
		r.verbose("class %s is not loaded, using default hook methods", className)
		return DefaultTable()
	}

	table = r.scan(className)

	r.mu.Lock()
	if existing, ok := r.cache[className]; ok {
		table = existing
	} else {
		r.cache[className] = table
	}
	r.mu.Unlock()

	return table.clone()
}

func (r *Resolver) scan(className string) HookMethodTable {
	table := DefaultTable()

	methods, err := r.inspector.Methods(className)
	if err != nil {
		r.verbose("listing methods of %s failed, using default hook methods: %v", className, err)
		return table
	}

	for _, m := range methods {
		if declaredByFramework(m) {
			continue
		}
		facts, err := metadata.MethodOrEmpty(r.reader, className, m.Name, r.logger)
		if err != nil {
			r.verbose("reading metadata of %s::%s failed, stopping hook scan: %v", className, m.Name, err)
			return table
		}

		if m.Static {
			if metadata.Has[metadata.BeforeClass](facts) {
				table.Add(testmeta.HookBeforeClass, m.Name)
			}
			if metadata.Has[metadata.AfterClass](facts) {
				table.Add(testmeta.HookAfterClass, m.Name)
			}
		}
		if metadata.Has[metadata.Before](facts) {
			table.Add(testmeta.HookBefore, m.Name)
		}
		if metadata.Has[metadata.PreCondition](facts) {
			table.Add(testmeta.HookPreCondition, m.Name)
		}
		if metadata.Has[metadata.PostCondition](facts) {
			table.Add(testmeta.HookPostCondition, m.Name)
		}
		if metadata.Has[metadata.After](facts) {
			table.Add(testmeta.HookAfter, m.Name)
		}
	}
	return table
}

// Reset clears the cache.
func (r *Resolver) Reset() {
	r.mu.Lock()
	r.cache = make(map[string]HookMethodTable)
	r.mu.Unlock()
}

// Cached returns the number of classes in the cache.
func (r *Resolver) Cached() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.cache)
}

// IsTestMethod reports whether m is a test: it must be public and either be
// named with the "test" prefix or carry a test fact.
func (r *Resolver) IsTestMethod(className string, m introspect.Method) bool {
	if !m.IsPublic() {
		return false
	}
	if strings.HasPrefix(m.Name, testmeta.TestMethodPrefix) {
		return true
	}
	facts, err := metadata.MethodOrEmpty(r.reader, className, m.Name, r.logger)
	if err != nil {
		r.verbose("reading metadata of %s::%s failed: %v", className, m.Name, err)
		return false
	}
	return metadata.Has[metadata.Test](facts)
}

// TestMethods returns the test methods of a class in inventory order.
func (r *Resolver) TestMethods(className string) ([]introspect.Method, error) {
	methods, err := r.inspector.Methods(className)
	if err != nil {
		return nil, err
	}
	var tests []introspect.Method
	for _, m := range methods {
		if declaredByFramework(m) {
			continue
		}
		if r.IsTestMethod(className, m) {
			tests = append(tests, m)
		}
	}
	return tests, nil
}

func declaredByFramework(m introspect.Method) bool {
	declaring := strings.TrimPrefix(m.DeclaringClass, testmeta.NamespaceSeparator)
	for _, fc := range frameworkClasses {
		if strings.EqualFold(declaring, fc) {
			return true
		}
	}
	return false
}

func (r *Resolver) verbose(format string, args ...interface{}) {
	if r.logger != nil {
		r.logger.Verbose(format, args...)
	}
}
