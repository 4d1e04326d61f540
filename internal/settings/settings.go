// Package settings holds the editor settings that drive config resolution.
//
// A Snapshot is taken immediately before each resolution and passed by value; nothing
// in this module keeps settings between runs.
package settings

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Setting keys, as they appear under the "jestrunner" section of the editor settings.
const (
	Section        = "jestrunner"
	KeyProjectPath = "projectPath"
	KeyConfigPath  = "configPath"
	KeyJestCommand = "jestCommand"
	KeyRunOptions  = "runOptions"
)

// Snapshot is a point-in-time copy of the settings read by key.
type Snapshot struct {
	// ProjectPath is absolute or relative to the workspace root. Empty means unset.
	ProjectPath string
	ConfigPath  ConfigPathSetting
	// JestCommand overrides the command used to launch Jest. Empty means the default.
	JestCommand string
	RunOptions  []string
}

// WithOverrides returns a copy of s with the non-empty values replaced. A configPath
// override is always a single path.
func (s Snapshot) WithOverrides(projectPath, configPath string) Snapshot {
	if projectPath != "" {
		s.ProjectPath = projectPath
	}
	if configPath != "" {
		s.ConfigPath = Single(configPath)
	}
	return s
}

// ConfigPathKind tells which shape the configPath setting has.
type ConfigPathKind int

const (
	ConfigPathAbsent ConfigPathKind = iota
	ConfigPathSingle
	ConfigPathGlobMap
)

func (k ConfigPathKind) String() string {
	switch k {
	case ConfigPathSingle:
		return "single"
	case ConfigPathGlobMap:
		return "glob-map"
	default:
		return "absent"
	}
}

// GlobEntry maps one glob pattern to a config path.
type GlobEntry struct {
	Pattern string `json:"pattern" yaml:"pattern"`
	Path    string `json:"path" yaml:"path"`
}

// ConfigPathSetting is absent, a single path, or an ordered list of glob entries.
// Globs keep declaration order; the first matching entry wins.
type ConfigPathSetting struct {
	Kind  ConfigPathKind
	Path  string
	Globs []GlobEntry
}

// Single returns a configPath holding one path. An empty path is treated as absent.
func Single(path string) ConfigPathSetting {
	if path == "" {
		return ConfigPathSetting{}
	}
	return ConfigPathSetting{Kind: ConfigPathSingle, Path: path}
}

// GlobMap returns a configPath holding the given entries in order.
func GlobMap(entries ...GlobEntry) ConfigPathSetting {
	return ConfigPathSetting{Kind: ConfigPathGlobMap, Globs: entries}
}

// IsAbsent reports whether no configPath was set.
func (c ConfigPathSetting) IsAbsent() bool {
	return c.Kind == ConfigPathAbsent
}

// UnmarshalYAML accepts a scalar path, a mapping of pattern to path, or null.
// Mapping order is preserved.
func (c *ConfigPathSetting) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		if node.Tag == "!!null" {
			*c = ConfigPathSetting{}
			return nil
		}
		*c = Single(node.Value)
		return nil
	case yaml.MappingNode:
		entries := make([]GlobEntry, 0, len(node.Content)/2)
		for i := 0; i+1 < len(node.Content); i += 2 {
			key, value := node.Content[i], node.Content[i+1]
			if value.Kind != yaml.ScalarNode {
				return fmt.Errorf("%s.%s: value for pattern %q must be a string (line %d)",
					Section, KeyConfigPath, key.Value, value.Line)
			}
			entries = append(entries, GlobEntry{Pattern: key.Value, Path: value.Value})
		}
		*c = GlobMap(entries...)
		return nil
	default:
		return fmt.Errorf("%s.%s must be a string or a mapping of glob patterns to paths (line %d)",
			Section, KeyConfigPath, node.Line)
	}
}
