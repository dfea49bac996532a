package params

import (
	"fmt"
	"strings"
)

// ParseKeyValuePairs converts "key=value" strings into a map.
//
// Example:
//
//	settings, err := ParseKeyValuePairs([]string{"memory_limit=-1", "display_errors=On"})
//	// Returns: map[string]string{"memory_limit": "-1", "display_errors": "On"}
func ParseKeyValuePairs(pairs []string) (map[string]string, error) {
	result := make(map[string]string, len(pairs))

	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("setting %q is not in key=value format (example: --setting memory_limit=-1)", pair)
		}
		key = strings.TrimSpace(key)
		if key == "" {
			return nil, fmt.Errorf("setting has empty key: %q", pair)
		}
		result[key] = value
	}

	return result, nil
}

// ParseExtensions converts "name" or "name=version" strings into a map of
// loaded extensions. An extension given without a version maps to "".
//
// Example:
//
//	exts, err := ParseExtensions([]string{"pdo=8.2.4", "intl"})
//	// Returns: map[string]string{"pdo": "8.2.4", "intl": ""}
func ParseExtensions(pairs []string) (map[string]string, error) {
	result := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		name, version, _ := strings.Cut(pair, "=")
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, fmt.Errorf("extension has empty name: %q", pair)
		}
		result[name] = strings.TrimSpace(version)
	}
	return result, nil
}

// Merge combines maps left to right; later maps override earlier ones.
func Merge(layers ...map[string]string) map[string]string {
	result := make(map[string]string)
	for _, layer := range layers {
		for k, v := range layer {
			result[k] = v
		}
	}
	return result
}
