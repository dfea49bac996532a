// Package params parses the runtime settings and extensions given on the
// command line or in settings files.
//
// Settings describe the effective configuration values "@requires setting"
// annotations are checked against. They come from three layers, later layers
// overriding earlier ones:
//
//  1. the environment.settings map of testmeta.yaml
//  2. a settings file in .env format (settings_file or --settings-file)
//  3. --setting key=value flags
//
// # Example Usage
//
//	fromFile, err := params.ReadSettingsFile("runtime.env")
//	fromFlags, err := params.ParseKeyValuePairs([]string{"memory_limit=-1"})
//	settings := params.Merge(cfg.Environment.Settings, fromFile, fromFlags)
package params
