package plugins

import (
	"fmt"

	"github.com/kingrea/composer-fixer/internal/rules"
)

// LoadRules discovers YAML and Go rule definitions in dir and builds them in
// load order: YAML files first, then Go files, each sorted by name. IDs must
// be unique and must not shadow any reserved (standard) rule ID.
func LoadRules(dir string, reserved []string) ([]rules.Rule, error) {
	defs, err := loadAllDefinitionFiles(dir)
	if err != nil {
		return nil, err
	}
	if len(defs) == 0 {
		return nil, nil
	}
	seen := make(map[string]string, len(defs)+len(reserved))
	for _, id := range reserved {
		seen[id] = "built-in rules"
	}
	loaded := make([]rules.Rule, 0, len(defs))
	for _, file := range defs {
		def := file.Definition
		if existing, ok := seen[def.ID]; ok {
			return nil, fmt.Errorf("plugin: duplicate rule id %s (%s and %s)", def.ID, existing, file.Path)
		}
		seen[def.ID] = file.Path
		rule, err := NewRule(def)
		if err != nil {
			return nil, fmt.Errorf("plugin: build %s from %s: %w", def.ID, file.Path, err)
		}
		loaded = append(loaded, rule)
	}
	return loaded, nil
}

func loadAllDefinitionFiles(dir string) ([]DefinitionFile, error) {
	yamlDefs, err := LoadDefinitionDir(dir)
	if err != nil {
		return nil, err
	}
	goDefs, err := LoadGoDefinitionDir(dir)
	if err != nil {
		return nil, err
	}
	return append(yamlDefs, goDefs...), nil
}
