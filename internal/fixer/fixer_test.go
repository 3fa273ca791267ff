package fixer

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/kingrea/composer-fixer/internal/document"
	"github.com/kingrea/composer-fixer/internal/rules"
)

const fixedExample = `{
    "name": "",
    "type": "library",
    "description": "",
    "keywords": [
        "a",
        "b"
    ],
    "homepage": "https://github.com/suin/php",
    "license": "MIT",
    "authors": [
        {
            "name": "suin",
            "email": "suinyeze@gmail.com",
            "homepage": "https://github.com/suin",
            "role": "Developer"
        }
    ],
    "minimum-stability": "stable",
    "prefer-stable": true,
    "support": {
        "issues": "https://github.com/suin/php/issues"
    },
    "require": {
        "php": ">=7.1 <7.4.0",
        "vendor/x": "*"
    },
    "config": {
        "sort-packages": true
    }
}
`

var idempotenceInputs = []string{
	`{}`,
	`{"keywords":["b","a"],"require":{"vendor/x":"*","php":"*"}}`,
	`{"extra":{"branch-alias":{"dev-master":"1.x-dev"}},"name":"suin/json","config":"bogus","require-dev":{"ext-json":"*","phpunit/phpunit":"^7"}}`,
	`{"autoload":{"psr-4":{"B\\":"src/b","A\\":"src/a"},"files":["z.php","a.php"]},"custom":[1,2,3],"name":null,"description":"日本語"}`,
	`{"require":[],"autoload-dev":{"classmap":["tests/"]},"keywords":"scalar"}`,
}

func standardPipeline(t *testing.T) *Pipeline {
	t.Helper()
	seq, err := rules.NewStandardRegistry().Sequence(rules.StandardDefaults(), nil)
	if err != nil {
		t.Fatalf("build rule sequence: %v", err)
	}
	return NewPipeline(seq...)
}

func mustParse(t *testing.T, raw string) *document.Object {
	t.Helper()
	doc, err := document.Parse([]byte(raw))
	if err != nil {
		t.Fatalf("parse %s: %v", raw, err)
	}
	return doc
}

func writeManifest(t *testing.T, dir, pkg, contents string) string {
	t.Helper()
	pkgDir := filepath.Join(dir, pkg)
	if err := os.MkdirAll(pkgDir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", pkgDir, err)
	}
	path := filepath.Join(pkgDir, "composer.json")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func TestFixBytesEndToEnd(t *testing.T) {
	p := standardPipeline(t)
	out, changed, err := p.FixBytes([]byte(`{"keywords":["b","a"],"require":{"vendor/x":"*","php":"*"}}`))
	if err != nil {
		t.Fatalf("fix: %v", err)
	}
	if !changed {
		t.Fatalf("expected document to change")
	}
	if string(out) != fixedExample {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestPipelineIsIdempotent(t *testing.T) {
	p := standardPipeline(t)
	for _, raw := range idempotenceInputs {
		once := p.Apply(mustParse(t, raw))
		twice, changed, err := p.Fix(once)
		if err != nil {
			t.Fatalf("fix %s: %v", raw, err)
		}
		if changed {
			t.Fatalf("second pass changed %s", raw)
		}
		if !once.Equal(twice) {
			t.Fatalf("second pass not equal for %s", raw)
		}
	}
}

func TestPipelineIsIdempotentAcrossSerialization(t *testing.T) {
	p := standardPipeline(t)
	for _, raw := range idempotenceInputs {
		out, changed, err := p.FixBytes([]byte(raw))
		if err != nil {
			t.Fatalf("fix %s: %v", raw, err)
		}
		if !changed {
			t.Fatalf("expected %s to change", raw)
		}
		again, changed, err := p.FixBytes(out)
		if err != nil {
			t.Fatalf("refix %s: %v", raw, err)
		}
		if changed {
			t.Fatalf("fixed output of %s was not a fixed point:\n%s\n%s", raw, out, again)
		}
	}
}

func TestPipelineWithExtraRuleIsIdempotent(t *testing.T) {
	addPHPUnit := rules.SetPath("require-phpunit", "^7.5", "require-dev", "phpunit/phpunit")
	seq, err := rules.NewStandardRegistry().Sequence(rules.StandardDefaults(), nil, addPHPUnit)
	if err != nil {
		t.Fatalf("build rule sequence: %v", err)
	}
	p := NewPipeline(seq...)

	out, changed, err := p.FixBytes([]byte(`{"require-dev":{"ext-json":"*"}}`))
	if err != nil || !changed {
		t.Fatalf("first fix: changed=%v err=%v", changed, err)
	}
	doc := mustParse(t, string(out))
	dev, _ := doc.Object("require-dev")
	if got := dev.Keys(); len(got) != 2 || got[0] != "phpunit/phpunit" || got[1] != "ext-json" {
		t.Fatalf("require-dev keys = %v", got)
	}
	again, changed, err := p.FixBytes(out)
	if err != nil {
		t.Fatalf("second fix: %v", err)
	}
	if changed {
		t.Fatalf("second fix rewrote the manifest:\n%s", again)
	}
}

func TestFixSettlesWhenLaterRuleUndoesEarlierOrder(t *testing.T) {
	sortConfig := rules.Func{Name: "sort-config", Fn: func(doc *document.Object) *document.Object {
		config, ok := doc.Object("config")
		if !ok {
			return doc
		}
		out := doc.Clone()
		out.Set("config", document.SortKeysAscending(config))
		return out
	}}
	p := NewPipeline(sortConfig, rules.EnableSortPackages())

	fixed, changed, err := p.Fix(mustParse(t, `{"config":{"vendor-dir":"lib"}}`))
	if err != nil || !changed {
		t.Fatalf("fix: changed=%v err=%v", changed, err)
	}
	config, _ := fixed.Object("config")
	if got := config.Keys(); got[0] != "sort-packages" || got[1] != "vendor-dir" {
		t.Fatalf("config keys = %v", got)
	}
	if _, changed, _ := p.Fix(fixed); changed {
		t.Fatalf("fixed document is not a fixed point")
	}
}

func TestFixReportsRulesThatNeverSettle(t *testing.T) {
	flip := rules.Func{Name: "flip", Fn: func(doc *document.Object) *document.Object {
		out := doc.Clone()
		v, _ := out.Get("flag")
		b, _ := v.(bool)
		out.Set("flag", !b)
		return out
	}}
	_, _, err := NewPipeline(flip).Fix(mustParse(t, `{}`))
	if !errors.Is(err, ErrUnstable) {
		t.Fatalf("expected ErrUnstable, got %v", err)
	}
}

func TestPipelineDoesNotMutateInput(t *testing.T) {
	p := standardPipeline(t)
	raw := `{"require":{"b/b":"1","a/a":"1"},"keywords":["z","y"]}`
	doc := mustParse(t, raw)
	p.Apply(doc)
	if !doc.Equal(mustParse(t, raw)) {
		t.Fatalf("input document was mutated")
	}
}

func TestFixBytesRejectsNonObjects(t *testing.T) {
	p := standardPipeline(t)
	for _, raw := range []string{`[]`, `"x"`, `{"broken":`, ``} {
		if _, _, err := p.FixBytes([]byte(raw)); err == nil {
			t.Fatalf("expected error for %q", raw)
		}
	}
	_, _, err := p.FixBytes([]byte(`[1]`))
	if !errors.Is(err, document.ErrNotObject) {
		t.Fatalf("expected ErrNotObject, got %v", err)
	}
}

func TestFixFileLeavesMalformedFilesUntouched(t *testing.T) {
	dir := t.TempDir()
	path := writeManifest(t, dir, "broken", `{"name": "x",`)
	_, err := standardPipeline(t).FixFile(path, true)
	if err == nil {
		t.Fatalf("expected parse error")
	}
	data, readErr := os.ReadFile(path)
	if readErr != nil {
		t.Fatalf("read: %v", readErr)
	}
	if string(data) != `{"name": "x",` {
		t.Fatalf("malformed file was rewritten: %q", data)
	}
}

func TestFixFileIgnoresFormattingOnlyDifferences(t *testing.T) {
	dir := t.TempDir()
	compact, _, err := standardPipeline(t).FixBytes([]byte(`{}`))
	if err != nil {
		t.Fatalf("fix: %v", err)
	}
	doc := mustParse(t, string(compact))
	raw, err := document.Compact(doc)
	if err != nil {
		t.Fatalf("compact: %v", err)
	}
	path := writeManifest(t, dir, "compact", string(raw))

	outcome, err := standardPipeline(t).FixFile(path, true)
	if err != nil {
		t.Fatalf("fix file: %v", err)
	}
	if outcome.Changed || outcome.Written || outcome.Fixed() != 0 {
		t.Fatalf("expected untouched outcome, got %+v", outcome)
	}
	data, _ := os.ReadFile(path)
	if string(data) != string(raw) {
		t.Fatalf("file should not be rewritten")
	}
}

type recordingReporter struct {
	events  []string
	summary Summary
}

func (r *recordingReporter) FileFixed(o Outcome) { r.events = append(r.events, "fixed:"+o.Path) }
func (r *recordingReporter) FileDone(o Outcome) {
	r.events = append(r.events, "done:"+o.Path)
}
func (r *recordingReporter) Finished(s Summary) { r.summary = s }

func TestRunnerProcessesFilesInOrder(t *testing.T) {
	dir := t.TempDir()
	first := writeManifest(t, dir, "a", `{"keywords":["b","a"],"require":{"vendor/x":"*","php":"*"}}`)
	second := writeManifest(t, dir, "b", fixedExample)

	reporter := &recordingReporter{}
	runner := NewRunner(standardPipeline(t), WithReporter(reporter))
	summary, err := runner.Run([]string{first, second})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	want := []string{"fixed:" + first, "done:" + first, "done:" + second}
	if len(reporter.events) != len(want) {
		t.Fatalf("unexpected events %v", reporter.events)
	}
	for i := range want {
		if reporter.events[i] != want[i] {
			t.Fatalf("event %d: want %s got %s", i, want[i], reporter.events[i])
		}
	}
	if summary.Processed != 2 || summary.Fixed != 1 || reporter.summary.Fixed != 1 {
		t.Fatalf("unexpected summary %+v", summary)
	}
	data, _ := os.ReadFile(first)
	if string(data) != fixedExample {
		t.Fatalf("first manifest not rewritten:\n%s", data)
	}
}

func TestRunnerSecondRunFixesNothing(t *testing.T) {
	dir := t.TempDir()
	path := writeManifest(t, dir, "a", `{"name":"suin/a","require-dev":{"phpunit/phpunit":"^7"}}`)
	runner := NewRunner(standardPipeline(t))
	if _, err := runner.Run([]string{path}); err != nil {
		t.Fatalf("first run: %v", err)
	}
	summary, err := runner.Run([]string{path})
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if summary.Fixed != 0 {
		t.Fatalf("expected 0 fixed on second run, got %d", summary.Fixed)
	}
}

func TestRunnerDryRunDoesNotWrite(t *testing.T) {
	dir := t.TempDir()
	path := writeManifest(t, dir, "a", `{}`)
	summary, err := NewRunner(standardPipeline(t), WithDryRun(true)).Run([]string{path})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if summary.Fixed != 1 {
		t.Fatalf("expected change to be detected, got %+v", summary)
	}
	data, _ := os.ReadFile(path)
	if string(data) != `{}` {
		t.Fatalf("dry run wrote the file: %q", data)
	}
}

func TestRunnerStopsOnFirstError(t *testing.T) {
	dir := t.TempDir()
	bad := writeManifest(t, dir, "a", `not json`)
	good := writeManifest(t, dir, "b", `{}`)
	reporter := &recordingReporter{}
	summary, err := NewRunner(standardPipeline(t), WithReporter(reporter)).Run([]string{bad, good})
	if err == nil {
		t.Fatalf("expected error")
	}
	if summary.Processed != 0 || len(reporter.events) != 0 {
		t.Fatalf("nothing should be processed after the failure: %+v %v", summary, reporter.events)
	}
	data, _ := os.ReadFile(good)
	if string(data) != `{}` {
		t.Fatalf("later manifest should be untouched")
	}
}

func TestFixFileReportsReadOnlyManifest(t *testing.T) {
	dir := t.TempDir()
	raw := `{"name":"x"}`
	path := writeManifest(t, dir, "locked", raw)
	if err := os.Chmod(path, 0o444); err != nil {
		t.Fatalf("chmod: %v", err)
	}
	if f, err := os.OpenFile(path, os.O_WRONLY, 0); err == nil {
		f.Close()
		t.Skip("file permissions are not enforced for this user")
	}

	outcome, err := standardPipeline(t).FixFile(path, true)
	if err == nil {
		t.Fatalf("expected write error")
	}
	if outcome.Written {
		t.Fatalf("outcome must not be marked written")
	}
	data, _ := os.ReadFile(path)
	if string(data) != raw {
		t.Fatalf("manifest changed: %s", data)
	}
}

func TestRunnerStopsOnWriteFailure(t *testing.T) {
	dir := t.TempDir()
	first := writeManifest(t, dir, "a", `{"name":"a"}`)
	second := writeManifest(t, dir, "b", `{"name":"b"}`)

	diskFull := errors.New("no space left on device")
	original := writeFile
	writeFile = func(name string, data []byte, perm os.FileMode) error {
		if name == first {
			return diskFull
		}
		return original(name, data, perm)
	}
	t.Cleanup(func() { writeFile = original })

	rep := &recordingReporter{}
	summary, err := NewRunner(standardPipeline(t), WithReporter(rep)).Run([]string{first, second})
	if !errors.Is(err, diskFull) {
		t.Fatalf("expected write error, got %v", err)
	}
	if summary.Processed != 0 || len(rep.events) != 0 {
		t.Fatalf("run should stop at the failing file: %+v events=%v", summary, rep.events)
	}
	data, _ := os.ReadFile(second)
	if string(data) != `{"name":"b"}` {
		t.Fatalf("second manifest should not be touched: %s", data)
	}
}
