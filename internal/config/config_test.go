package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kingrea/composer-fixer/internal/rules"
)

func TestLoadDefaultsWhenMissing(t *testing.T) {
	projectDir := t.TempDir()
	c, err := Load(projectDir, "")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if c.Loaded {
		t.Fatalf("expected no config file to be loaded")
	}
	if c.PackagesRoot() != filepath.Join(projectDir, "packages") {
		t.Fatalf("unexpected packages root %s", c.PackagesRoot())
	}
	if c.PackagesPattern() != "*/composer.json" {
		t.Fatalf("unexpected pattern %s", c.PackagesPattern())
	}
	if c.PluginsDir() != filepath.Join(projectDir, ".composer-fixer", "rules") {
		t.Fatalf("unexpected plugins dir %s", c.PluginsDir())
	}
	got := c.RuleDefaults()
	want := rules.StandardDefaults()
	if got.Homepage != want.Homepage || got.IssueURL != want.IssueURL || got.PHPVersion != want.PHPVersion {
		t.Fatalf("unexpected defaults %+v", got)
	}
	if len(got.Authors) != 1 || got.Authors[0] != want.Authors[0] {
		t.Fatalf("unexpected authors %+v", got.Authors)
	}
	if strings.Join(got.KeyOrder, ",") != strings.Join(want.KeyOrder, ",") {
		t.Fatalf("unexpected key order %v", got.KeyOrder)
	}
}

func TestLoadParsesYaml(t *testing.T) {
	projectDir := t.TempDir()
	configYAML := strings.TrimSpace(`
version: 1
packages:
  root: libs
defaults:
  homepage: https://example.com/mono
  php: "^8.1"
  authors:
    - name: Jane
      email: jane@example.com
      role: Maintainer
key_order: [name, require, " extra "]
rules:
  disabled: [Set-License, set-license, " ", sort-keywords]
plugins:
  dir: /opt/fixer-rules
`)
	if err := os.WriteFile(filepath.Join(projectDir, FileName), []byte(configYAML), 0644); err != nil {
		t.Fatal(err)
	}
	c, err := Load(projectDir, "")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !c.Loaded {
		t.Fatalf("expected config file to be loaded")
	}
	if c.PackagesRoot() != filepath.Join(projectDir, "libs") {
		t.Fatalf("unexpected packages root %s", c.PackagesRoot())
	}
	if c.PluginsDir() != "/opt/fixer-rules" {
		t.Fatalf("unexpected plugins dir %s", c.PluginsDir())
	}
	d := c.RuleDefaults()
	if d.Homepage != "https://example.com/mono" || d.PHPVersion != "^8.1" {
		t.Fatalf("overrides not applied: %+v", d)
	}
	if d.License != "MIT" || d.IssueURL != "https://github.com/suin/php/issues" {
		t.Fatalf("missing fields should fall back to defaults: %+v", d)
	}
	if len(d.Authors) != 1 || d.Authors[0].Name != "Jane" || d.Authors[0].Homepage != "" {
		t.Fatalf("unexpected authors %+v", d.Authors)
	}
	if strings.Join(d.KeyOrder, ",") != "name,require,extra" {
		t.Fatalf("unexpected key order %v", d.KeyOrder)
	}
	disabled := c.DisabledRules()
	if strings.Join(disabled, ",") != "set-license,sort-keywords" {
		t.Fatalf("unexpected disabled rules %v", disabled)
	}
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	cases := map[string]string{
		"bad yaml":    "version: [",
		"bad version": "version: 2",
		"no author":   "defaults:\n  authors:\n    - email: x@example.com\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			projectDir := t.TempDir()
			if err := os.WriteFile(filepath.Join(projectDir, FileName), []byte(body), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(projectDir, ""); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestLoadExplicitPathMustExist(t *testing.T) {
	projectDir := t.TempDir()
	if _, err := Load(projectDir, "custom.yaml"); err == nil {
		t.Fatalf("expected error for missing explicit config")
	}
}

func TestInitConfigFileRoundTrips(t *testing.T) {
	projectDir := t.TempDir()
	path, created, err := InitConfigFile(projectDir)
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	if !created {
		t.Fatalf("expected file to be created")
	}
	if _, created, err = InitConfigFile(projectDir); err != nil || created {
		t.Fatalf("second init should be a no-op, created=%v err=%v", created, err)
	}
	c, err := Load(projectDir, "")
	if err != nil {
		t.Fatalf("load generated config: %v", err)
	}
	if c.Path != path || !c.Loaded {
		t.Fatalf("generated config not loaded from %s", path)
	}
	got := c.RuleDefaults()
	want := rules.StandardDefaults()
	if got.Authors[0] != want.Authors[0] || got.PHPVersion != want.PHPVersion || got.MinimumStability != want.MinimumStability {
		t.Fatalf("generated config diverges from standard defaults: %+v", got)
	}
	if len(c.DisabledRules()) != 0 {
		t.Fatalf("expected no disabled rules")
	}
}
