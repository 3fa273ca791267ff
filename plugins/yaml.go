package plugins

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefinitionFile pairs a parsed rule definition with its on-disk source.
// Path carries a "#n" suffix when the source holds several definitions.
type DefinitionFile struct {
	Definition RuleDefinition
	Path       string
}

// ParseDefinitionYAML decodes and validates a single rule definition payload.
func ParseDefinitionYAML(data []byte) (RuleDefinition, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return RuleDefinition{}, fmt.Errorf("plugin: definition payload is empty")
	}
	var def RuleDefinition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return RuleDefinition{}, fmt.Errorf("plugin: decode definition: %w", err)
	}
	if err := def.Validate(); err != nil {
		return RuleDefinition{}, err
	}
	return def.Normalized(), nil
}

// ParseDefinitionStream decodes every "---" separated definition in data.
// Empty documents, such as the one after a trailing "---", are skipped.
func ParseDefinitionStream(data []byte) ([]RuleDefinition, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	var defs []RuleDefinition
	for doc := 0; ; doc++ {
		var node yaml.Node
		err := dec.Decode(&node)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("plugin: decode document[%d]: %w", doc, err)
		}
		if isEmptyDocument(&node) {
			continue
		}
		var def RuleDefinition
		if err := node.Decode(&def); err != nil {
			return nil, fmt.Errorf("plugin: decode document[%d]: %w", doc, err)
		}
		if err := def.Validate(); err != nil {
			return nil, fmt.Errorf("document[%d]: %w", doc, err)
		}
		defs = append(defs, def.Normalized())
	}
	if len(defs) == 0 {
		return nil, fmt.Errorf("plugin: definition payload is empty")
	}
	return defs, nil
}

func isEmptyDocument(node *yaml.Node) bool {
	if node.Kind == yaml.DocumentNode {
		if len(node.Content) == 0 {
			return true
		}
		node = node.Content[0]
	}
	return node.Kind == 0 || (node.Kind == yaml.ScalarNode && node.Tag == "!!null")
}

// LoadDefinitionFile reads a YAML file and returns every definition in it.
func LoadDefinitionFile(path string) ([]DefinitionFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("plugin: stat %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("plugin: %s is a directory", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("plugin: read %s: %w", path, err)
	}
	defs, err := ParseDefinitionStream(data)
	if err != nil {
		return nil, fmt.Errorf("plugin: %s: %w", path, err)
	}
	clean := filepath.Clean(path)
	if len(defs) == 1 {
		return []DefinitionFile{{Definition: defs[0], Path: clean}}, nil
	}
	files := make([]DefinitionFile, len(defs))
	for i, def := range defs {
		files[i] = DefinitionFile{Definition: def, Path: fmt.Sprintf("%s#%d", clean, i+1)}
	}
	return files, nil
}

// LoadDefinitionDir scans a directory for *.yaml rules and returns the parsed
// definitions ordered by file name. Missing directories mean "no plugins".
func LoadDefinitionDir(dir string) ([]DefinitionFile, error) {
	trimmed := strings.TrimSpace(dir)
	if trimmed == "" {
		return nil, nil
	}
	entries, err := os.ReadDir(trimmed)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("plugin: read %s: %w", trimmed, err)
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !isYAMLFile(entry.Name()) {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	var defs []DefinitionFile
	for _, name := range names {
		fileDefs, err := LoadDefinitionFile(filepath.Join(trimmed, name))
		if err != nil {
			return nil, err
		}
		defs = append(defs, fileDefs...)
	}
	return defs, nil
}

func isYAMLFile(name string) bool {
	lower := strings.ToLower(strings.TrimSpace(name))
	return strings.HasSuffix(lower, ".yaml") || strings.HasSuffix(lower, ".yml")
}
