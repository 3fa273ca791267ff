package fixer

import (
	"fmt"
	"os"

	"github.com/kingrea/composer-fixer/internal/document"
)

// writeFile is swapped in tests to simulate write failures.
var writeFile = os.WriteFile

// Outcome describes what happened to one manifest.
type Outcome struct {
	Path string
	// Changed is true when the fixed document differs from the parsed input.
	Changed bool
	// Written is true when the file on disk was replaced.
	Written bool
}

// Fixed reports the per-file fixed count, 0 or 1.
func (o Outcome) Fixed() int {
	if o.Changed {
		return 1
	}
	return 0
}

// FixBytes parses data, applies the pipeline and serializes the result when
// it differs. Parse failures return before any rule runs.
func (p *Pipeline) FixBytes(data []byte) ([]byte, bool, error) {
	doc, err := document.Parse(data)
	if err != nil {
		return nil, false, err
	}
	fixed, changed, err := p.Fix(doc)
	if err != nil {
		return nil, false, err
	}
	if !changed {
		return nil, false, nil
	}
	out, err := document.Encode(fixed)
	if err != nil {
		return nil, false, err
	}
	return out, true, nil
}

// FixFile reads the manifest at path and, when write is true and the
// document changed, replaces the whole file with the fixed document.
func (p *Pipeline) FixFile(path string, write bool) (Outcome, error) {
	outcome := Outcome{Path: path}
	info, err := os.Stat(path)
	if err != nil {
		return outcome, fmt.Errorf("fixer: stat %s: %w", path, err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return outcome, fmt.Errorf("fixer: read %s: %w", path, err)
	}
	out, changed, err := p.FixBytes(data)
	if err != nil {
		return outcome, fmt.Errorf("fixer: %s: %w", path, err)
	}
	if !changed {
		return outcome, nil
	}
	outcome.Changed = true
	if !write {
		return outcome, nil
	}
	if err := writeFile(path, out, info.Mode().Perm()); err != nil {
		return outcome, fmt.Errorf("fixer: write %s: %w", path, err)
	}
	outcome.Written = true
	return outcome, nil
}
