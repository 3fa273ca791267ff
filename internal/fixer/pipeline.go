// Package fixer runs the rule set over composer.json manifests and rewrites
// the files that do not already match.
package fixer

import (
	"errors"

	"github.com/kingrea/composer-fixer/internal/document"
	"github.com/kingrea/composer-fixer/internal/rules"
)

// maxPasses bounds how often the sequence is re-run while it keeps changing
// its own output.
const maxPasses = 4

// ErrUnstable is returned when the rule sequence still changes its own
// output after maxPasses passes, usually because two rules fight over the
// same key.
var ErrUnstable = errors.New("fixer: rule sequence does not settle")

// Pipeline applies rules in a fixed order, each consuming the previous
// rule's output.
type Pipeline struct {
	rules []rules.Rule
}

// NewPipeline builds a pipeline from an ordered rule list.
func NewPipeline(rs ...rules.Rule) *Pipeline {
	return &Pipeline{rules: append([]rules.Rule(nil), rs...)}
}

// Rules returns the rule sequence.
func (p *Pipeline) Rules() []rules.Rule {
	return append([]rules.Rule(nil), p.rules...)
}

// Apply runs every rule over doc once and returns the result. doc is not
// modified.
func (p *Pipeline) Apply(doc *document.Object) *document.Object {
	current := doc
	for _, rule := range p.rules {
		current = rule.Apply(current)
	}
	return current
}

// Fix applies the pipeline until a pass leaves the document unchanged, so
// fixing the result again is a no-op. It reports whether the result differs
// from doc.
func (p *Pipeline) Fix(doc *document.Object) (*document.Object, bool, error) {
	fixed := p.Apply(doc)
	for pass := 1; ; pass++ {
		next := p.Apply(fixed)
		if next.Equal(fixed) {
			break
		}
		if pass == maxPasses {
			return nil, false, ErrUnstable
		}
		fixed = next
	}
	return fixed, !doc.Equal(fixed), nil
}
