package params

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// ErrSettingsFileNotFound is returned when a settings file does not exist.
var ErrSettingsFileNotFound = errors.New("settings file not found")

// ParseSettings parses runtime settings written in .env format:
//
//	# comment
//	memory_limit=-1
//	display_errors="On"
func ParseSettings(content []byte) (map[string]string, error) {
	settings, err := godotenv.Parse(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("parse settings: %w", err)
	}
	return settings, nil
}

// ReadSettingsFile reads and parses a settings file.
func ReadSettingsFile(path string) (map[string]string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", path, ErrSettingsFileNotFound)
		}
		return nil, fmt.Errorf("read settings file %s: %w", path, err)
	}
	settings, err := ParseSettings(content)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return settings, nil
}
