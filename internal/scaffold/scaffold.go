// Package scaffold creates a starter testmeta project from embedded templates.
package scaffold

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vvka-141/testmeta/internal/config"
	"github.com/vvka-141/testmeta/pkg/testmeta"
)

//go:embed all:templates
var templatesFS embed.FS

// ErrProjectExists is returned when the target directory already holds a testmeta.yaml.
var ErrProjectExists = errors.New("project already initialized")

var namespaceRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\\[A-Za-z_][A-Za-z0-9_]*)*$`)

var templateDescriptions = map[string]string{
	"basic":   "Example classes covering coverage, requirements, groups and hooks",
	"minimal": "One test class, no settings file",
}

// Description returns a one-line summary of a template, or "" for unknown names.
func Description(templateName string) string {
	return templateDescriptions[templateName]
}

// ValidateNamespace checks that namespace is a backslash-separated list of
// identifiers. Leading and trailing separators are ignored.
func ValidateNamespace(namespace string) error {
	namespace = strings.Trim(namespace, `\`)
	if !namespaceRegex.MatchString(namespace) {
		return fmt.Errorf("namespace %q is not a valid namespace: %w", namespace, testmeta.ErrInvalidConfig)
	}
	return nil
}

// Scaffolder handles project initialization from templates
type Scaffolder struct {
	logger testmeta.Logger
}

// NewScaffolder creates a new Scaffolder instance
func NewScaffolder(logger testmeta.Logger) *Scaffolder {
	return &Scaffolder{logger: logger}
}

// CreateProject writes the files of a template into targetPath, replacing
// {{NAMESPACE}} with the given root namespace. It returns the written files
// relative to targetPath, sorted.
func (s *Scaffolder) CreateProject(namespace, templateName, targetPath string) ([]string, error) {
	if err := ValidateNamespace(namespace); err != nil {
		return nil, err
	}
	namespace = strings.Trim(namespace, `\`)

	templatePath := path.Join("templates", templateName)
	if _, err := templatesFS.ReadDir(templatePath); err != nil {
		return nil, fmt.Errorf("template '%s' not found: %w", templateName, err)
	}

	if _, err := os.Stat(filepath.Join(targetPath, config.ConfigFileName)); err == nil {
		return nil, fmt.Errorf("%s already contains %s: %w", targetPath, config.ConfigFileName, ErrProjectExists)
	}

	if err := os.MkdirAll(targetPath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create project directory: %w", err)
	}

	s.logger.Verbose("creating project at %s with template '%s'", targetPath, templateName)
	written, err := s.copyTemplateFiles(templatePath, targetPath, namespace)
	if err != nil {
		return nil, fmt.Errorf("failed to copy template files: %w", err)
	}
	sort.Strings(written)
	return written, nil
}

// ApplyEnvironment overrides the environment block of the testmeta.yaml in
// targetPath. Empty runtime and framework values and a nil extension map keep
// what the file already declares; settings and functions are never touched.
func (s *Scaffolder) ApplyEnvironment(targetPath string, env config.EnvironmentConfig) error {
	configPath := filepath.Join(targetPath, config.ConfigFileName)
	data, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", configPath, err)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("%s: %v: %w", configPath, err, testmeta.ErrInvalidConfig)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
		return fmt.Errorf("%s: expected a mapping: %w", configPath, testmeta.ErrInvalidConfig)
	}

	var cfg config.ProjectConfig
	if err := doc.Decode(&cfg); err != nil {
		return fmt.Errorf("%s: %v: %w", configPath, err, testmeta.ErrInvalidConfig)
	}
	merged := cfg.Environment
	if env.Runtime != "" {
		merged.Runtime = env.Runtime
	}
	if env.Framework != "" {
		merged.Framework = env.Framework
	}
	if env.Extensions != nil {
		merged.Extensions = env.Extensions
	}

	var envNode yaml.Node
	if err := envNode.Encode(merged); err != nil {
		return fmt.Errorf("failed to encode environment: %w", err)
	}
	setMappingValue(doc.Content[0], "environment", &envNode)

	var buf strings.Builder
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return fmt.Errorf("failed to encode %s: %w", configPath, err)
	}
	if err := enc.Close(); err != nil {
		return err
	}

	s.logger.Verbose("updated environment in %s", configPath)
	return os.WriteFile(configPath, []byte(buf.String()), 0644)
}

func setMappingValue(mapping *yaml.Node, key string, value *yaml.Node) {
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value == key {
			mapping.Content[i+1] = value
			return
		}
	}
	mapping.Content = append(mapping.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
		value,
	)
}

// copyTemplateFiles copies files from the embedded template to the target directory.
// Existing files other than testmeta.yaml are left untouched.
func (s *Scaffolder) copyTemplateFiles(templatePath, targetPath, namespace string) ([]string, error) {
	var written []string
	err := fs.WalkDir(templatesFS, templatePath, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if p == templatePath {
			return nil
		}

		relPath := strings.TrimPrefix(p, templatePath+"/")
		targetFilePath := filepath.Join(targetPath, filepath.FromSlash(relPath))

		if d.IsDir() {
			return os.MkdirAll(targetFilePath, 0755)
		}
		if _, err := os.Stat(targetFilePath); err == nil {
			s.logger.Verbose("keeping existing file: %s", relPath)
			return nil
		}

		content, err := templatesFS.ReadFile(p)
		if err != nil {
			return fmt.Errorf("failed to read template file %s: %w", p, err)
		}

		s.logger.Verbose("creating file: %s", relPath)
		if err := os.WriteFile(targetFilePath, []byte(processTemplate(string(content), namespace)), 0644); err != nil {
			return fmt.Errorf("failed to write file %s: %w", targetFilePath, err)
		}
		written = append(written, relPath)
		return nil
	})
	return written, err
}

// processTemplate replaces template variables in content
func processTemplate(content, namespace string) string {
	return strings.ReplaceAll(content, "{{NAMESPACE}}", namespace)
}

// ListTemplates returns available template names
func ListTemplates() ([]string, error) {
	entries, err := templatesFS.ReadDir("templates")
	if err != nil {
		return nil, err
	}

	var templates []string
	for _, entry := range entries {
		if entry.IsDir() {
			templates = append(templates, entry.Name())
		}
	}
	return templates, nil
}
