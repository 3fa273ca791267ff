package plugins

import (
	"os"
	"path/filepath"
	"testing"
)

const goPluginSource = `package main

func RuleDefinitions() ([]map[string]any, error) {
	return []map[string]any{
		{
			"id":    "branch-alias",
			"op":    "set",
			"path":  "extra.branch-alias.dev-master",
			"value": "1.x-dev",
		},
	}, nil
}`

func TestLoadGoDefinitionDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "go-plugin.go"), []byte(goPluginSource), 0644); err != nil {
		t.Fatalf("write plugin: %v", err)
	}
	defs, err := LoadGoDefinitionDir(dir)
	if err != nil {
		t.Fatalf("load go defs: %v", err)
	}
	if len(defs) != 1 {
		t.Fatalf("expected 1 definition, got %d", len(defs))
	}
	def := defs[0].Definition
	if def.ID != "branch-alias" || def.Op != OpSet || def.Path != "extra.branch-alias.dev-master" {
		t.Fatalf("unexpected definition: %+v", def)
	}
}

func TestLoadGoDefinitionDirMissingFunc(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "broken.go"), []byte("package main\n"), 0644); err != nil {
		t.Fatalf("write broken plugin: %v", err)
	}
	if _, err := LoadGoDefinitionDir(dir); err == nil {
		t.Fatalf("expected error for missing RuleDefinitions function")
	}
}
