// internal/config/config.go
//
// This package loads the optional .composer-fixer.yaml file from the project
// root. Without the file the fixer uses the suin/php defaults.

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kingrea/composer-fixer/internal/discovery"
	"github.com/kingrea/composer-fixer/internal/rules"
)

const (
	// FileName is the project configuration file looked up in the project root.
	FileName = ".composer-fixer.yaml"

	// StateDir holds project-local extensions such as plugin rules.
	StateDir = ".composer-fixer"

	defaultPackagesRoot = "packages"
)

const defaultProjectConfigYAML = `# composer-fixer project configuration
version: 1

# Where the package manifests live, relative to this file.
packages:
  root: packages
  pattern: "*/composer.json"

# Values injected into every manifest.
defaults:
  homepage: https://github.com/suin/php
  issues: https://github.com/suin/php/issues
  license: MIT
  minimum_stability: stable
  php: ">=7.1 <7.4.0"
  authors:
    - name: suin
      email: suinyeze@gmail.com
      homepage: https://github.com/suin
      role: Developer

# Rules to skip. arrange-top-level-keys always runs.
rules:
  disabled: []

# Extra rule definitions (*.yaml and *.go).
plugins:
  dir: .composer-fixer/rules
`

// PackagesConfig tells discovery where to look.
type PackagesConfig struct {
	Root    string `yaml:"root"`
	Pattern string `yaml:"pattern"`
}

// AuthorConfig is one entry of defaults.authors.
type AuthorConfig struct {
	Name     string `yaml:"name"`
	Email    string `yaml:"email"`
	Homepage string `yaml:"homepage"`
	Role     string `yaml:"role"`
}

// DefaultsConfig captures the values the standard rules inject.
type DefaultsConfig struct {
	Homepage         string         `yaml:"homepage"`
	Issues           string         `yaml:"issues"`
	License          string         `yaml:"license"`
	MinimumStability string         `yaml:"minimum_stability"`
	PHP              string         `yaml:"php"`
	Authors          []AuthorConfig `yaml:"authors"`
}

// RulesConfig toggles standard rules.
type RulesConfig struct {
	Disabled []string `yaml:"disabled,omitempty"`
}

// PluginsConfig locates plugin rule definitions.
type PluginsConfig struct {
	Dir string `yaml:"dir"`
}

// ProjectConfig models .composer-fixer.yaml.
type ProjectConfig struct {
	Version  int            `yaml:"version"`
	Packages PackagesConfig `yaml:"packages"`
	Defaults DefaultsConfig `yaml:"defaults"`
	KeyOrder []string       `yaml:"key_order,omitempty"`
	Rules    RulesConfig    `yaml:"rules"`
	Plugins  PluginsConfig  `yaml:"plugins"`
}

// Config holds the runtime configuration.
type Config struct {
	// ProjectDir is the monorepo root; relative paths resolve against it.
	ProjectDir string

	// Path is the configuration file that was (or would be) loaded.
	Path string

	// Loaded is false when no configuration file exists.
	Loaded bool

	Project ProjectConfig
}

// Load reads the configuration for projectDir. When path is empty the file
// is looked up as projectDir/.composer-fixer.yaml and a missing file yields
// the defaults. An explicit path must exist.
func Load(projectDir, path string) (*Config, error) {
	explicit := strings.TrimSpace(path) != ""
	if !explicit {
		path = filepath.Join(projectDir, FileName)
	}
	cfg := &Config{
		ProjectDir: projectDir,
		Path:       resolvePath(projectDir, path),
		Project:    defaultProjectConfig(),
	}
	if err := cfg.loadProjectConfig(explicit); err != nil {
		return nil, err
	}
	return cfg, nil
}

// InitConfigFile writes the default configuration into projectDir unless a
// file already exists. It returns the file path and whether it was created.
func InitConfigFile(projectDir string) (string, bool, error) {
	path := filepath.Join(projectDir, FileName)
	created, err := ensureProjectConfig(path)
	if err != nil {
		return path, false, fmt.Errorf("config: init %s: %w", path, err)
	}
	return path, created, nil
}

// PackagesRoot returns the absolute-or-project-relative packages directory.
func (c *Config) PackagesRoot() string {
	return resolvePath(c.baseDir(), c.Project.Packages.Root)
}

// PackagesPattern returns the discovery glob.
func (c *Config) PackagesPattern() string {
	return c.Project.Packages.Pattern
}

// PluginsDir returns the directory scanned for plugin rules.
func (c *Config) PluginsDir() string {
	return resolvePath(c.baseDir(), c.Project.Plugins.Dir)
}

// DisabledRules returns the rule IDs that should not run.
func (c *Config) DisabledRules() []string {
	return append([]string(nil), c.Project.Rules.Disabled...)
}

// RuleDefaults converts the configuration into rule defaults.
func (c *Config) RuleDefaults() rules.Defaults {
	d := c.Project.Defaults
	defaults := rules.Defaults{
		Homepage:         d.Homepage,
		IssueURL:         d.Issues,
		License:          d.License,
		MinimumStability: d.MinimumStability,
		PHPVersion:       d.PHP,
		KeyOrder:         append([]string(nil), c.Project.KeyOrder...),
	}
	for _, a := range d.Authors {
		defaults.Authors = append(defaults.Authors, rules.Author{
			Name:     a.Name,
			Email:    a.Email,
			Homepage: a.Homepage,
			Role:     a.Role,
		})
	}
	return defaults
}

// baseDir is the directory relative config paths resolve against: the
// config file's directory when one was loaded, the project dir otherwise.
func (c *Config) baseDir() string {
	if c.Loaded && c.Path != "" {
		return filepath.Dir(c.Path)
	}
	return c.ProjectDir
}

func (c *Config) loadProjectConfig(required bool) error {
	data, err := os.ReadFile(c.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !required {
			return nil
		}
		return fmt.Errorf("config: read %s: %w", c.Path, err)
	}

	var parsed ProjectConfig
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("config: parse %s: %w", c.Path, err)
	}

	parsed.applyDefaults()
	parsed.normalize()
	if err := parsed.validate(); err != nil {
		return fmt.Errorf("config: %s: %w", c.Path, err)
	}

	c.Project = parsed
	c.Loaded = true
	return nil
}

func defaultProjectConfig() ProjectConfig {
	std := rules.StandardDefaults()
	authors := make([]AuthorConfig, 0, len(std.Authors))
	for _, a := range std.Authors {
		authors = append(authors, AuthorConfig{Name: a.Name, Email: a.Email, Homepage: a.Homepage, Role: a.Role})
	}
	return ProjectConfig{
		Version: 1,
		Packages: PackagesConfig{
			Root:    defaultPackagesRoot,
			Pattern: discovery.DefaultPattern,
		},
		Defaults: DefaultsConfig{
			Homepage:         std.Homepage,
			Issues:           std.IssueURL,
			License:          std.License,
			MinimumStability: std.MinimumStability,
			PHP:              std.PHPVersion,
			Authors:          authors,
		},
		KeyOrder: std.KeyOrder,
		Plugins:  PluginsConfig{Dir: filepath.Join(StateDir, "rules")},
	}
}

// applyDefaults fills every field the file left out from the standard
// configuration. An explicit empty authors list is kept.
func (pc *ProjectConfig) applyDefaults() {
	def := defaultProjectConfig()
	if pc.Version == 0 {
		pc.Version = def.Version
	}
	if strings.TrimSpace(pc.Packages.Root) == "" {
		pc.Packages.Root = def.Packages.Root
	}
	if strings.TrimSpace(pc.Packages.Pattern) == "" {
		pc.Packages.Pattern = def.Packages.Pattern
	}
	if strings.TrimSpace(pc.Defaults.Homepage) == "" {
		pc.Defaults.Homepage = def.Defaults.Homepage
	}
	if strings.TrimSpace(pc.Defaults.Issues) == "" {
		pc.Defaults.Issues = def.Defaults.Issues
	}
	if strings.TrimSpace(pc.Defaults.License) == "" {
		pc.Defaults.License = def.Defaults.License
	}
	if strings.TrimSpace(pc.Defaults.MinimumStability) == "" {
		pc.Defaults.MinimumStability = def.Defaults.MinimumStability
	}
	if strings.TrimSpace(pc.Defaults.PHP) == "" {
		pc.Defaults.PHP = def.Defaults.PHP
	}
	if pc.Defaults.Authors == nil {
		pc.Defaults.Authors = def.Defaults.Authors
	}
	if len(pc.KeyOrder) == 0 {
		pc.KeyOrder = def.KeyOrder
	}
	if strings.TrimSpace(pc.Plugins.Dir) == "" {
		pc.Plugins.Dir = def.Plugins.Dir
	}
}

func (pc *ProjectConfig) normalize() {
	pc.Packages.Root = strings.TrimSpace(pc.Packages.Root)
	pc.Packages.Pattern = strings.TrimSpace(pc.Packages.Pattern)
	pc.Plugins.Dir = strings.TrimSpace(pc.Plugins.Dir)
	for i, key := range pc.KeyOrder {
		pc.KeyOrder[i] = strings.TrimSpace(key)
	}
	disabled := pc.Rules.Disabled[:0]
	for _, id := range pc.Rules.Disabled {
		id = strings.ToLower(strings.TrimSpace(id))
		if id == "" || contains(disabled, id) {
			continue
		}
		disabled = append(disabled, id)
	}
	pc.Rules.Disabled = disabled
}

func (pc *ProjectConfig) validate() error {
	if pc.Version != 1 {
		return fmt.Errorf("unsupported config version %d", pc.Version)
	}
	for i, key := range pc.KeyOrder {
		if key == "" {
			return fmt.Errorf("key_order[%d] is empty", i)
		}
	}
	for i, author := range pc.Defaults.Authors {
		if strings.TrimSpace(author.Name) == "" {
			return fmt.Errorf("defaults.authors[%d]: name is required", i)
		}
	}
	return nil
}

func contains(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}

func resolvePath(base, candidate string) string {
	trimmed := strings.TrimSpace(candidate)
	if trimmed == "" {
		return ""
	}
	if filepath.IsAbs(trimmed) {
		return filepath.Clean(trimmed)
	}
	return filepath.Clean(filepath.Join(base, trimmed))
}

func ensureProjectConfig(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return false, err
	}
	if err := os.WriteFile(path, []byte(defaultProjectConfigYAML), 0o644); err != nil {
		return false, err
	}
	return true, nil
}
