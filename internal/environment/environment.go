// Package environment describes the runtime a test would execute in, as seen by
// @requires evaluation.
package environment

import (
	"runtime"
	"sort"
	"strings"

	"github.com/vvka-141/testmeta/internal/config"
	"github.com/vvka-141/testmeta/internal/params"
)

// Environment answers the questions requirement evaluation asks about the runtime.
type Environment interface {
	RuntimeVersion() string
	FrameworkVersion() string
	OSFamily() string
	OSName() string
	ExtensionLoaded(name string) bool
	ExtensionVersion(name string) string
	Setting(name string) (string, bool)
	FunctionExists(name string) bool
}

// Static is an Environment with fixed values, typically built from configuration.
// Extension and function names are matched case-insensitively, settings exactly.
type Static struct {
	Runtime    string
	Framework  string
	Family     string
	Name       string
	Extensions map[string]string // extension name -> version ("" when unknown)
	Settings   map[string]string
	Functions  []string
}

var _ Environment = (*Static)(nil)

// RuntimeVersion returns the configured runtime version.
func (s *Static) RuntimeVersion() string { return s.Runtime }

// FrameworkVersion returns the configured test framework version.
func (s *Static) FrameworkVersion() string { return s.Framework }

// OSFamily returns the configured family, or the host's when unset.
func (s *Static) OSFamily() string {
	if s.Family != "" {
		return s.Family
	}
	family, _ := hostOS(runtime.GOOS)
	return family
}

// OSName returns the configured operating system name, or the host's when unset.
func (s *Static) OSName() string {
	if s.Name != "" {
		return s.Name
	}
	_, name := hostOS(runtime.GOOS)
	return name
}

// ExtensionLoaded reports whether the named extension is configured.
func (s *Static) ExtensionLoaded(name string) bool {
	_, ok := s.lookupExtension(name)
	return ok
}

// ExtensionVersion returns the version of the named extension, or "" when it is
// not loaded or has no known version.
func (s *Static) ExtensionVersion(name string) string {
	v, _ := s.lookupExtension(name)
	return v
}

func (s *Static) lookupExtension(name string) (string, bool) {
	for ext, v := range s.Extensions {
		if strings.EqualFold(ext, name) {
			return v, true
		}
	}
	return "", false
}

// Setting returns the value of a runtime setting and whether it is set.
func (s *Static) Setting(name string) (string, bool) {
	v, ok := s.Settings[name]
	return v, ok
}

// FunctionExists reports whether name is a configured function. A leading
// namespace separator is ignored.
func (s *Static) FunctionExists(name string) bool {
	name = strings.TrimPrefix(name, `\`)
	for _, fn := range s.Functions {
		if strings.EqualFold(strings.TrimPrefix(fn, `\`), name) {
			return true
		}
	}
	return false
}

// ExtensionNames returns the loaded extensions in sorted order.
func (s *Static) ExtensionNames() []string {
	names := make([]string, 0, len(s.Extensions))
	for name := range s.Extensions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// hostOS maps a GOOS value to the family and name the runtime reports for it.
func hostOS(goos string) (family, name string) {
	switch goos {
	case "linux":
		return "Linux", "Linux"
	case "darwin":
		return "Darwin", "Darwin"
	case "windows":
		return "Windows", "WINNT"
	case "freebsd":
		return "BSD", "FreeBSD"
	case "openbsd":
		return "BSD", "OpenBSD"
	case "netbsd":
		return "BSD", "NetBSD"
	case "dragonfly":
		return "BSD", "DragonFly"
	case "solaris", "illumos":
		return "Solaris", "SunOS"
	default:
		return "Unknown", goos
	}
}

// FromConfig builds a Static environment from configuration. The settings and
// extensions maps, typically from a settings file and command line flags,
// override the configured ones.
func FromConfig(cfg config.EnvironmentConfig, settings, extensions map[string]string) *Static {
	return &Static{
		Runtime:    cfg.Runtime,
		Framework:  cfg.Framework,
		Family:     cfg.OSFamily,
		Name:       cfg.OS,
		Extensions: params.Merge(cfg.Extensions, extensions),
		Settings:   params.Merge(cfg.Settings, settings),
		Functions:  append([]string(nil), cfg.Functions...),
	}
}
