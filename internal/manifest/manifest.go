// Package manifest loads a YAML description of the code under test and serves
// it as the metadata reader, class inspector and code unit mapper the
// resolvers consume.
//
// A manifest lists classes with their methods and docblocks, plus free
// functions:
//
//	classes:
//	  - name: App\Tests\MailerTest
//	    file: tests/MailerTest.php
//	    lines: {start: 9, end: 60}
//	    parent: PHPUnit\Framework\TestCase
//	    doc_line: 5
//	    doc: |
//	      /**
//	       * @coversDefaultClass \App\Mailer
//	       */
//	    methods:
//	      - name: testSend
//	        visibility: public
//	        lines: {start: 20, end: 31}
//	        doc_line: 16
//	        doc: |
//	          /**
//	           * @covers ::send
//	           */
//	functions:
//	  - name: App\format
//	    file: src/functions.php
//	    lines: {start: 3, end: 8}
//
// Docblocks are parsed and validated when the manifest is loaded; every
// problem found is reported together.
package manifest

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vvka-141/testmeta/internal/coverage"
	"github.com/vvka-141/testmeta/internal/introspect"
	"github.com/vvka-141/testmeta/internal/metadata"
	"github.com/vvka-141/testmeta/pkg/testmeta"
)

// Document is the YAML form of a manifest.
type Document struct {
	Classes   []ClassDecl    `yaml:"classes"`
	Functions []FunctionDecl `yaml:"functions,omitempty"`
}

// ClassDecl declares a class or interface.
type ClassDecl struct {
	Name      string             `yaml:"name"`
	File      string             `yaml:"file"`
	Lines     coverage.LineRange `yaml:"lines"`
	Parent    string             `yaml:"parent,omitempty"`
	Interface bool               `yaml:"interface,omitempty"`
	DocLine   int                `yaml:"doc_line,omitempty"`
	Doc       string             `yaml:"doc,omitempty"`
	Methods   []MethodDecl       `yaml:"methods,omitempty"`
}

// MethodDecl declares a method of a class.
type MethodDecl struct {
	Name       string                `yaml:"name"`
	Static     bool                  `yaml:"static,omitempty"`
	Visibility introspect.Visibility `yaml:"visibility,omitempty"`
	Lines      coverage.LineRange    `yaml:"lines"`
	DocLine    int                   `yaml:"doc_line,omitempty"`
	Doc        string                `yaml:"doc,omitempty"`
}

// FunctionDecl declares a free function.
type FunctionDecl struct {
	Name  string             `yaml:"name"`
	File  string             `yaml:"file"`
	Lines coverage.LineRange `yaml:"lines"`
}

// Manifest is a loaded, validated manifest. It is immutable and safe for
// concurrent use.
type Manifest struct {
	classes   map[string]*class
	order     []string
	functions map[string]FunctionDecl
	logger    testmeta.Logger
}

type class struct {
	decl    ClassDecl
	facts   metadata.Collection
	methods map[string]*method
	order   []string
}

type method struct {
	decl  MethodDecl
	facts metadata.Collection
}

var (
	_ metadata.Reader      = (*Manifest)(nil)
	_ introspect.Inspector = (*Manifest)(nil)
	_ coverage.Mapper      = (*Manifest)(nil)
)

// Load reads and parses a manifest file.
func Load(path string, logger testmeta.Logger) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("manifest %s does not exist: %w", path, testmeta.ErrInvalidManifest)
		}
		return nil, fmt.Errorf("read manifest %s: %w", path, err)
	}
	m, err := Parse(data, logger)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// Parse decodes and validates manifest YAML.
func Parse(data []byte, logger testmeta.Logger) (*Manifest, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode manifest: %v: %w", err, testmeta.ErrInvalidManifest)
	}
	return New(doc, logger)
}

// New builds a Manifest from a decoded document. Docblocks are extracted and
// validated; all problems are returned joined.
func New(doc Document, logger testmeta.Logger) (*Manifest, error) {
	m := &Manifest{
		classes:   make(map[string]*class),
		functions: make(map[string]FunctionDecl),
		logger:    logger,
	}

	var errs []error
	for _, decl := range doc.Classes {
		if err := m.addClass(decl); err != nil {
			errs = append(errs, err)
		}
	}
	for _, fn := range doc.Functions {
		key := canonical(fn.Name)
		switch {
		case key == "":
			errs = append(errs, fmt.Errorf("function without a name in %s: %w", fn.File, testmeta.ErrInvalidManifest))
		case m.hasFunction(key):
			errs = append(errs, fmt.Errorf("function %s declared twice: %w", fn.Name, testmeta.ErrInvalidManifest))
		default:
			m.functions[key] = fn
		}
	}
	errs = append(errs, m.checkHierarchy()...)

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	if logger != nil {
		logger.Verbose("manifest loaded: %d classes, %d functions", len(m.classes), len(m.functions))
	}
	return m, nil
}

func (m *Manifest) hasFunction(key string) bool {
	_, ok := m.functions[key]
	return ok
}

func (m *Manifest) addClass(decl ClassDecl) error {
	key := canonical(decl.Name)
	if key == "" {
		return fmt.Errorf("class without a name in %s: %w", decl.File, testmeta.ErrInvalidManifest)
	}
	if _, ok := m.classes[key]; ok {
		return fmt.Errorf("class %s declared twice: %w", decl.Name, testmeta.ErrInvalidManifest)
	}
	decl.Name = strings.TrimPrefix(decl.Name, testmeta.NamespaceSeparator)
	decl.Parent = strings.TrimPrefix(decl.Parent, testmeta.NamespaceSeparator)

	var errs []error
	facts, err := metadata.ExtractAndValidate(decl.Doc, metadata.Source{
		ClassName: decl.Name,
		File:      decl.File,
		Line:      decl.DocLine,
	}, metadata.LevelClass)
	if err != nil {
		errs = append(errs, err)
	}

	c := &class{decl: decl, facts: facts, methods: make(map[string]*method)}
	for _, md := range decl.Methods {
		mkey := strings.ToLower(md.Name)
		if mkey == "" {
			errs = append(errs, fmt.Errorf("method without a name in class %s: %w", decl.Name, testmeta.ErrInvalidManifest))
			continue
		}
		if _, ok := c.methods[mkey]; ok {
			errs = append(errs, fmt.Errorf("method %s::%s declared twice: %w", decl.Name, md.Name, testmeta.ErrInvalidManifest))
			continue
		}
		if md.Visibility == "" {
			md.Visibility = introspect.Public
		}
		switch md.Visibility {
		case introspect.Public, introspect.Protected, introspect.Private:
		default:
			errs = append(errs, fmt.Errorf("method %s::%s has unknown visibility %q: %w", decl.Name, md.Name, md.Visibility, testmeta.ErrInvalidManifest))
		}

		mfacts, err := metadata.ExtractAndValidate(md.Doc, metadata.Source{
			ClassName: decl.Name,
			File:      decl.File,
			Line:      md.DocLine,
		}, metadata.LevelMethod)
		if err != nil {
			errs = append(errs, err)
		}
		c.methods[mkey] = &method{decl: md, facts: mfacts}
		c.order = append(c.order, mkey)
	}

	m.classes[key] = c
	m.order = append(m.order, key)
	return errors.Join(errs...)
}

// checkHierarchy reports unknown parents and inheritance cycles. Parents that
// are framework classes may be absent from the manifest.
func (m *Manifest) checkHierarchy() []error {
	var errs []error
	for _, key := range m.order {
		c := m.classes[key]
		seen := map[string]bool{key: true}
		for parent := c.decl.Parent; parent != ""; {
			pkey := canonical(parent)
			if seen[pkey] {
				errs = append(errs, fmt.Errorf("class %s has an inheritance cycle through %s: %w", c.decl.Name, parent, testmeta.ErrInvalidManifest))
				break
			}
			seen[pkey] = true
			p, ok := m.classes[pkey]
			if !ok {
				if !isFrameworkClass(parent) {
					errs = append(errs, fmt.Errorf("class %s extends unknown class %s: %w", c.decl.Name, parent, testmeta.ErrInvalidManifest))
				}
				break
			}
			parent = p.decl.Parent
		}
	}
	return errs
}

// Classes returns the names of all declared classes and interfaces in declaration order.
func (m *Manifest) Classes() []string {
	names := make([]string, len(m.order))
	for i, key := range m.order {
		names[i] = m.classes[key].decl.Name
	}
	return names
}

// Class returns the declaration of a class.
func (m *Manifest) Class(name string) (ClassDecl, bool) {
	c, ok := m.classes[canonical(name)]
	if !ok {
		return ClassDecl{}, false
	}
	return c.decl, true
}

// IsSubclassOf reports whether className extends ancestor, directly or not.
func (m *Manifest) IsSubclassOf(className, ancestor string) bool {
	target := canonical(ancestor)
	for _, c := range m.lineage(className) {
		if canonical(c.decl.Parent) == target {
			return true
		}
	}
	return false
}

// lineage returns the class followed by its known ancestors.
func (m *Manifest) lineage(className string) []*class {
	var chain []*class
	seen := make(map[string]bool)
	for key := canonical(className); key != "" && !seen[key]; {
		seen[key] = true
		c, ok := m.classes[key]
		if !ok {
			break
		}
		chain = append(chain, c)
		key = canonical(c.decl.Parent)
	}
	return chain
}

func canonical(name string) string {
	return coverage.CanonicalName(name)
}

func isFrameworkClass(name string) bool {
	return strings.HasPrefix(canonical(name), "phpunit\\")
}
