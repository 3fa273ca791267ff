package rules

import (
	"fmt"
	"strings"

	"github.com/kingrea/composer-fixer/internal/document"
)

// Author is one entry of the manifest "authors" list.
type Author struct {
	Name     string
	Email    string
	Homepage string
	Role     string
}

// Defaults carries the constant values the standard rules inject.
type Defaults struct {
	Homepage         string
	IssueURL         string
	License          string
	MinimumStability string
	PHPVersion       string
	Authors          []Author
	KeyOrder         []string
}

// StandardKeyOrder is the canonical top-level key order of a manifest.
var StandardKeyOrder = []string{
	"name",
	"type",
	"description",
	"keywords",
	"homepage",
	"license",
	"authors",
	"minimum-stability",
	"prefer-stable",
	"support",
	"require",
	"require-dev",
	"conflict",
	"replace",
	"provide",
	"suggest",
	"autoload",
	"autoload-dev",
	"repositories",
	"config",
	"scripts",
	"scripts-descriptions",
	"extra",
}

// StandardDefaults returns the values used for the suin/php monorepo.
func StandardDefaults() Defaults {
	return Defaults{
		Homepage:         "https://github.com/suin/php",
		IssueURL:         "https://github.com/suin/php/issues",
		License:          "MIT",
		MinimumStability: "stable",
		PHPVersion:       ">=7.1 <7.4.0",
		Authors: []Author{
			{
				Name:     "suin",
				Email:    "suinyeze@gmail.com",
				Homepage: "https://github.com/suin",
				Role:     "Developer",
			},
		},
		KeyOrder: append([]string(nil), StandardKeyOrder...),
	}
}

// Validate reports missing values that would make a rule write garbage.
func (d Defaults) Validate() error {
	required := []struct {
		name  string
		value string
	}{
		{"homepage", d.Homepage},
		{"issue url", d.IssueURL},
		{"license", d.License},
		{"minimum stability", d.MinimumStability},
		{"php version", d.PHPVersion},
	}
	for _, field := range required {
		if strings.TrimSpace(field.value) == "" {
			return fmt.Errorf("rules: %s is required", field.name)
		}
	}
	if len(d.KeyOrder) == 0 {
		return fmt.Errorf("rules: key order is required")
	}
	seen := make(map[string]bool, len(d.KeyOrder))
	for _, key := range d.KeyOrder {
		if seen[key] {
			return fmt.Errorf("rules: key order lists %q twice", key)
		}
		seen[key] = true
	}
	for i, author := range d.Authors {
		if strings.TrimSpace(author.Name) == "" {
			return fmt.Errorf("rules: authors[%d]: name is required", i)
		}
	}
	return nil
}

// authorsValue renders the author records as a manifest list. Every record
// carries all four fields in name, email, homepage, role order.
func (d Defaults) authorsValue() document.List {
	list := make(document.List, 0, len(d.Authors))
	for _, author := range d.Authors {
		record := document.NewObject()
		record.Set("name", author.Name)
		record.Set("email", author.Email)
		record.Set("homepage", author.Homepage)
		record.Set("role", author.Role)
		list = append(list, record)
	}
	return list
}

func (d Defaults) supportValue() *document.Object {
	support := document.NewObject()
	support.Set("issues", d.IssueURL)
	return support
}
