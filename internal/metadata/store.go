package metadata

import (
	"errors"
	"sync"

	"github.com/vvka-141/testmeta/pkg/testmeta"
)

// Reader produces the metadata declared on classes and methods.
//
// Both methods fail with an error wrapping testmeta.ErrMetadataNotFound when the
// class or method does not exist.
type Reader interface {
	ForClass(className string) (Collection, error)
	ForMethod(className, methodName string) (Collection, error)
}

// Store is a read-through cache in front of a Reader, keyed by class name.
// Metadata is immutable once read, so entries are never invalidated.
// Safe for concurrent use by multiple goroutines.
type Store struct {
	reader Reader
	logger testmeta.Logger

	mu      sync.RWMutex
	classes map[string]*classEntry
}

type classEntry struct {
	facts   Collection
	err     error
	methods map[string]methodEntry
}

type methodEntry struct {
	facts Collection
	err   error
}

// NewStore creates a Store reading through to reader.
func NewStore(reader Reader, logger testmeta.Logger) *Store {
	return &Store{
		reader:  reader,
		logger:  logger,
		classes: make(map[string]*classEntry),
	}
}

// ForClass returns the metadata declared on a class.
func (s *Store) ForClass(className string) (Collection, error) {
	s.mu.RLock()
	entry, ok := s.classes[className]
	s.mu.RUnlock()
	if ok {
		return entry.facts, entry.err
	}

	facts, err := s.reader.ForClass(className)

	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.classes[className]; ok {
		return existing.facts, existing.err
	}
	s.classes[className] = &classEntry{facts: facts, err: err, methods: make(map[string]methodEntry)}
	return facts, err
}

// ForMethod returns the metadata declared on a method.
func (s *Store) ForMethod(className, methodName string) (Collection, error) {
	s.mu.RLock()
	if entry, ok := s.classes[className]; ok {
		if m, ok := entry.methods[methodName]; ok {
			s.mu.RUnlock()
			return m.facts, m.err
		}
	}
	s.mu.RUnlock()

	facts, err := s.reader.ForMethod(className, methodName)

	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.classes[className]
	if !ok {
		classFacts, classErr := s.reader.ForClass(className)
		entry = &classEntry{facts: classFacts, err: classErr, methods: make(map[string]methodEntry)}
		s.classes[className] = entry
	}
	if existing, ok := entry.methods[methodName]; ok {
		return existing.facts, existing.err
	}
	entry.methods[methodName] = methodEntry{facts: facts, err: err}
	return facts, err
}

// ClassOrEmpty returns the class metadata, treating a missing class as empty metadata.
// Errors other than not-found are returned unchanged.
func ClassOrEmpty(r Reader, className string, logger testmeta.Logger) (Collection, error) {
	facts, err := r.ForClass(className)
	return orEmpty(facts, err, logger)
}

// MethodOrEmpty returns the method metadata, treating a missing class or method as empty metadata.
// Errors other than not-found are returned unchanged.
func MethodOrEmpty(r Reader, className, methodName string, logger testmeta.Logger) (Collection, error) {
	facts, err := r.ForMethod(className, methodName)
	return orEmpty(facts, err, logger)
}

// ForClassAndMethod returns the method metadata followed by the class metadata,
// the order in which method-level facts take precedence.
func ForClassAndMethod(r Reader, className, methodName string, logger testmeta.Logger) (method, class Collection, err error) {
	method, err = MethodOrEmpty(r, className, methodName, logger)
	if err != nil {
		return Collection{}, Collection{}, err
	}
	class, err = ClassOrEmpty(r, className, logger)
	if err != nil {
		return Collection{}, Collection{}, err
	}
	return method, class, nil
}

func orEmpty(facts Collection, err error, logger testmeta.Logger) (Collection, error) {
	if err == nil {
		return facts, nil
	}
	if errors.Is(err, testmeta.ErrMetadataNotFound) {
		if logger != nil {
			logger.Verbose("treating missing metadata as empty: %v", err)
		}
		return Collection{}, nil
	}
	return Collection{}, err
}
