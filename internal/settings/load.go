package settings

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"github.com/tidwall/gjson"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// Load reads an editor settings file. JSON files (including VS Code's commented
// settings.json and *.code-workspace files) are read with gjson; anything else is
// read as YAML. A missing file yields an empty Snapshot.
func Load(fs afero.Fs, path string) (Snapshot, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Snapshot{}, nil
		}
		return Snapshot{}, fmt.Errorf("failed to read settings file %s: %w", path, err)
	}

	var snap Snapshot
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json", ".jsonc", ".code-workspace":
		snap, err = parseJSON(data, ext == ".code-workspace")
	default:
		snap, err = parseYAML(data)
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to parse settings file %s: %w", path, err)
	}
	return snap, nil
}

func parseJSON(data []byte, workspaceFile bool) (Snapshot, error) {
	data = jsonc.ToJSON(data)
	if len(bytes.TrimSpace(data)) == 0 {
		return Snapshot{}, nil
	}
	if !gjson.ValidBytes(data) {
		return Snapshot{}, errors.New("invalid JSON")
	}

	root := gjson.ParseBytes(data)
	if workspaceFile {
		root = root.Get("settings")
		if !root.Exists() {
			return Snapshot{}, nil
		}
	}
	if !root.IsObject() {
		return Snapshot{}, errors.New("settings must be a JSON object")
	}

	var snap Snapshot
	var err error
	if snap.ProjectPath, err = jsonString(root, KeyProjectPath); err != nil {
		return Snapshot{}, err
	}
	if snap.JestCommand, err = jsonString(root, KeyJestCommand); err != nil {
		return Snapshot{}, err
	}

	switch r := lookupJSON(root, KeyConfigPath); {
	case !r.Exists() || r.Type == gjson.Null:
	case r.Type == gjson.String:
		snap.ConfigPath = Single(r.Str)
	case r.IsObject():
		var entries []GlobEntry
		r.ForEach(func(key, value gjson.Result) bool {
			if value.Type != gjson.String {
				err = fmt.Errorf("%s.%s: value for pattern %q must be a string", Section, KeyConfigPath, key.String())
				return false
			}
			entries = append(entries, GlobEntry{Pattern: key.String(), Path: value.Str})
			return true
		})
		if err != nil {
			return Snapshot{}, err
		}
		snap.ConfigPath = GlobMap(entries...)
	default:
		return Snapshot{}, fmt.Errorf("%s.%s must be a string or an object of glob patterns to paths", Section, KeyConfigPath)
	}

	if r := lookupJSON(root, KeyRunOptions); r.Exists() && r.Type != gjson.Null {
		if !r.IsArray() {
			return Snapshot{}, fmt.Errorf("%s.%s must be an array of strings", Section, KeyRunOptions)
		}
		for _, opt := range r.Array() {
			snap.RunOptions = append(snap.RunOptions, opt.String())
		}
	}
	return snap, nil
}

// lookupJSON finds a setting written either flat ("jestrunner.configPath") or nested.
func lookupJSON(root gjson.Result, key string) gjson.Result {
	if r := root.Get(gjson.Escape(Section + "." + key)); r.Exists() {
		return r
	}
	return root.Get(Section + "." + key)
}

func jsonString(root gjson.Result, key string) (string, error) {
	r := lookupJSON(root, key)
	switch r.Type {
	case gjson.Null:
		return "", nil
	case gjson.String:
		return r.Str, nil
	default:
		return "", fmt.Errorf("%s.%s must be a string", Section, key)
	}
}

func parseYAML(data []byte) (Snapshot, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Snapshot{}, err
	}
	if len(doc.Content) == 0 {
		return Snapshot{}, nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return Snapshot{}, fmt.Errorf("settings must be a mapping (line %d)", root.Line)
	}

	var snap Snapshot
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, value := root.Content[i].Value, root.Content[i+1]
		switch {
		case key == Section && value.Kind == yaml.MappingNode:
			for j := 0; j+1 < len(value.Content); j += 2 {
				if err := snap.apply(value.Content[j].Value, value.Content[j+1]); err != nil {
					return Snapshot{}, err
				}
			}
		case strings.HasPrefix(key, Section+"."):
			if err := snap.apply(strings.TrimPrefix(key, Section+"."), value); err != nil {
				return Snapshot{}, err
			}
		}
	}
	return snap, nil
}

func (s *Snapshot) apply(key string, node *yaml.Node) error {
	var err error
	switch key {
	case KeyProjectPath:
		err = node.Decode(&s.ProjectPath)
	case KeyConfigPath:
		err = node.Decode(&s.ConfigPath)
	case KeyJestCommand:
		err = node.Decode(&s.JestCommand)
	case KeyRunOptions:
		err = node.Decode(&s.RunOptions)
	}
	if err != nil {
		return fmt.Errorf("%s.%s: %w", Section, key, err)
	}
	return nil
}
