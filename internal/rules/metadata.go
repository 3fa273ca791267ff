package rules

import "github.com/kingrea/composer-fixer/internal/document"

// EnsureName adds an empty name when it is missing.
func EnsureName() Rule { return EnsureKey(IDEnsureName, "name", "") }

// EnsureType defaults the package type to library.
func EnsureType() Rule { return EnsureKey(IDEnsureType, "type", "library") }

// EnsureDescription adds an empty description when it is missing.
func EnsureDescription() Rule { return EnsureKey(IDEnsureDescription, "description", "") }

// EnsureKeywords adds an empty keywords list when it is missing.
func EnsureKeywords() Rule {
	return EnsureKey(IDEnsureKeywords, "keywords", document.List{})
}

// SetHomepage replaces the homepage with url.
func SetHomepage(url string) Rule { return SetKey(IDSetHomepage, "homepage", url) }

// SetLicense replaces the license with license.
func SetLicense(license string) Rule { return SetKey(IDSetLicense, "license", license) }

// SetAuthors replaces the authors list with the configured records.
func SetAuthors(authors []Author) Rule {
	return SetKey(IDSetAuthors, "authors", Defaults{Authors: authors}.authorsValue())
}

// SetMinimumStability replaces minimum-stability with stability.
func SetMinimumStability(stability string) Rule {
	return SetKey(IDSetMinimumStability, "minimum-stability", stability)
}

// SetPreferStable sets prefer-stable to true.
func SetPreferStable() Rule { return SetKey(IDSetPreferStable, "prefer-stable", true) }

// EnableSortPackages turns on config.sort-packages.
func EnableSortPackages() Rule {
	return SetPath(IDEnableSortPackages, true, "config", "sort-packages")
}

// EnsureSupport points support.issues at the issue tracker. Any other
// support entries are dropped.
func EnsureSupport(issueURL string) Rule {
	return SetKey(IDEnsureSupport, "support", Defaults{IssueURL: issueURL}.supportValue())
}

// SetPHPRequirement pins require.php to constraint.
func SetPHPRequirement(constraint string) Rule {
	return SetPath(IDSetPHPRequirement, constraint, "require", "php")
}
