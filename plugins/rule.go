package plugins

import (
	"fmt"

	"github.com/kingrea/composer-fixer/internal/document"
	"github.com/kingrea/composer-fixer/internal/rules"
)

// pathRule applies a RuleDefinition's op at its key path.
type pathRule struct {
	def   RuleDefinition
	path  []string
	value any
}

// NewRule validates def and builds the rule it describes.
func NewRule(def RuleDefinition) (rules.Rule, error) {
	if err := def.Validate(); err != nil {
		return nil, err
	}
	normalized := def.Normalized()
	rule := &pathRule{
		def:  normalized,
		path: document.SplitPath(normalized.Path),
	}
	if normalized.Op.needsValue() {
		value, err := nodeValue(normalized.Value)
		if err != nil {
			return nil, fmt.Errorf("plugin %s: value: %w", normalized.ID, err)
		}
		rule.value = value
	}
	return rule, nil
}

func (r *pathRule) ID() string { return r.def.ID }

// Description returns the human readable summary from the definition.
func (r *pathRule) Description() string {
	if r.def.Description != "" {
		return r.def.Description
	}
	return fmt.Sprintf("%s %s", r.def.Op, r.def.Path)
}

func (r *pathRule) Apply(doc *document.Object) *document.Object {
	current, exists := doc.Lookup(r.path...)
	switch r.def.Op {
	case OpDefault:
		if exists {
			return doc
		}
		return r.write(doc, document.CloneValue(r.value))
	case OpSet:
		return r.write(doc, document.CloneValue(r.value))
	case OpRemove:
		if !exists {
			return doc
		}
		out := doc.Clone()
		out.DeletePath(r.path...)
		return out
	case OpSortList:
		list, ok := current.(document.List)
		if !exists || !ok {
			return doc
		}
		return r.write(doc, document.SortList(list))
	case OpSortKeys:
		obj, ok := current.(*document.Object)
		if !exists || !ok {
			return doc
		}
		return r.write(doc, document.SortKeysAscending(obj))
	default:
		return doc
	}
}

func (r *pathRule) write(doc *document.Object, value any) *document.Object {
	out := doc.Clone()
	if out == nil {
		out = document.NewObject()
	}
	out.SetPath(value, r.path...)
	return out
}
