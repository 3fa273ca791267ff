package rules

import (
	"strings"

	"github.com/kingrea/composer-fixer/internal/document"
)

var (
	autoloadSections = []string{"autoload", "autoload-dev"}
	// Namespace maps are sorted by key.
	autoloadMaps = []string{"psr-4", "psr-0"}
	// Path lists are sorted by value.
	autoloadLists = []string{"classmap", "files", "exclude-from-classmap"}

	dependencySections = []string{"require", "require-dev"}
)

// SortKeywords sorts the keywords list ascending when it is a list.
func SortKeywords() Rule {
	return Func{Name: IDSortKeywords, Fn: func(doc *document.Object) *document.Object {
		keywords, ok := doc.List("keywords")
		if !ok {
			return doc
		}
		out := doc.Clone()
		out.Set("keywords", document.SortList(keywords))
		return out
	}}
}

// SortAutoloadSections orders namespace maps by key and path lists by value
// inside autoload and autoload-dev.
func SortAutoloadSections() Rule {
	return Func{Name: IDSortAutoloadSections, Fn: func(doc *document.Object) *document.Object {
		out := doc.Clone()
		for _, name := range autoloadSections {
			section, ok := out.Object(name)
			if !ok {
				continue
			}
			for _, key := range autoloadMaps {
				if mapping, ok := section.Object(key); ok {
					section.Set(key, document.SortKeysAscending(mapping))
				}
			}
			for _, key := range autoloadLists {
				if list, ok := section.List(key); ok {
					section.Set(key, document.SortList(list))
				}
			}
		}
		return out
	}}
}

// SortDependencyPackages orders require and require-dev so that php comes
// first, then regular packages, then ext-* extensions, each group ascending.
func SortDependencyPackages() Rule {
	return Func{Name: IDSortDependencyPackages, Fn: func(doc *document.Object) *document.Object {
		out := doc.Clone()
		for _, name := range dependencySections {
			packages, ok := out.Object(name)
			if !ok {
				continue
			}
			out.Set(name, document.SortKeys(packages, lessPackage))
		}
		return out
	}}
}

func lessPackage(a, b string) bool {
	if ra, rb := packageRank(a), packageRank(b); ra != rb {
		return ra < rb
	}
	return a < b
}

func packageRank(name string) int {
	switch {
	case name == "php":
		return 0
	case strings.HasPrefix(name, "ext-"):
		return 2
	default:
		return 1
	}
}
