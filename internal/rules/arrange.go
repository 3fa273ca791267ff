package rules

import "github.com/kingrea/composer-fixer/internal/document"

// ArrangeTopLevelKeys reorders top-level keys to follow order. Keys missing
// from order keep their relative order after the known ones.
func ArrangeTopLevelKeys(order []string) Rule {
	order = append([]string(nil), order...)
	return Func{Name: IDArrangeTopLevelKeys, Fn: func(doc *document.Object) *document.Object {
		out := document.NewObject()
		for _, key := range order {
			if value, ok := doc.Get(key); ok {
				out.Set(key, document.CloneValue(value))
			}
		}
		doc.Range(func(key string, value any) bool {
			if !out.Has(key) {
				out.Set(key, document.CloneValue(value))
			}
			return true
		})
		return out
	}}
}
