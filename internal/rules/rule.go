// Package rules holds the transformations that normalize a composer.json
// manifest. Every rule is pure: it never mutates the document it receives
// and returns a new one instead.
package rules

import "github.com/kingrea/composer-fixer/internal/document"

// Rule identifiers for the standard sequence.
const (
	IDEnsureName             = "ensure-name"
	IDEnsureType             = "ensure-type"
	IDEnsureDescription      = "ensure-description"
	IDEnsureKeywords         = "ensure-keywords"
	IDSortKeywords           = "sort-keywords"
	IDSetHomepage            = "set-homepage"
	IDSetLicense             = "set-license"
	IDSetAuthors             = "set-authors"
	IDSetMinimumStability    = "set-minimum-stability"
	IDSetPreferStable        = "set-prefer-stable"
	IDEnableSortPackages     = "enable-sort-packages"
	IDEnsureSupport          = "ensure-support"
	IDSetPHPRequirement      = "set-php-requirement"
	IDSortAutoloadSections   = "sort-autoload-sections"
	IDSortDependencyPackages = "sort-dependency-packages"
	IDArrangeTopLevelKeys    = "arrange-top-level-keys"
)

// StandardOrder is the fixed order in which the standard rules run.
// sort-dependency-packages follows set-php-requirement so the injected php
// entry is sorted too, and arrange-top-level-keys is always last.
var StandardOrder = []string{
	IDEnsureName,
	IDEnsureType,
	IDEnsureDescription,
	IDEnsureKeywords,
	IDSortKeywords,
	IDSetHomepage,
	IDSetLicense,
	IDSetAuthors,
	IDSetMinimumStability,
	IDSetPreferStable,
	IDEnableSortPackages,
	IDEnsureSupport,
	IDSetPHPRequirement,
	IDSortAutoloadSections,
	IDSortDependencyPackages,
	IDArrangeTopLevelKeys,
}

// Rule maps one manifest to another.
type Rule interface {
	ID() string
	Apply(doc *document.Object) *document.Object
}

// Func adapts a plain function to the Rule interface.
type Func struct {
	Name string
	Fn   func(doc *document.Object) *document.Object
}

// ID returns the rule name.
func (f Func) ID() string { return f.Name }

// Apply runs the wrapped function.
func (f Func) Apply(doc *document.Object) *document.Object { return f.Fn(doc) }

// EnsureKey sets key to value only when the key is absent. A key holding
// null counts as present.
func EnsureKey(id, key string, value any) Rule {
	return Func{Name: id, Fn: func(doc *document.Object) *document.Object {
		if doc.Has(key) {
			return doc
		}
		out := cloneOrNew(doc)
		out.Set(key, document.CloneValue(value))
		return out
	}}
}

// SetKey unconditionally sets key to value.
func SetKey(id, key string, value any) Rule {
	return SetPath(id, value, key)
}

// SetPath unconditionally sets the nested key path to value, creating any
// missing parent objects.
func SetPath(id string, value any, path ...string) Rule {
	segments := append([]string(nil), path...)
	return Func{Name: id, Fn: func(doc *document.Object) *document.Object {
		out := cloneOrNew(doc)
		out.SetPath(document.CloneValue(value), segments...)
		return out
	}}
}

func cloneOrNew(doc *document.Object) *document.Object {
	if doc == nil {
		return document.NewObject()
	}
	return doc.Clone()
}
