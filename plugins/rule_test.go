package plugins

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kingrea/composer-fixer/internal/document"
	"github.com/kingrea/composer-fixer/internal/rules"
)

func mustRule(t *testing.T, body string) rules.Rule {
	t.Helper()
	def, err := ParseDefinitionYAML([]byte(body))
	require.NoError(t, err)
	rule, err := NewRule(def)
	require.NoError(t, err)
	return rule
}

func mustDoc(t *testing.T, raw string) *document.Object {
	t.Helper()
	doc, err := document.Parse([]byte(raw))
	require.NoError(t, err)
	return doc
}

func TestDefaultOpKeepsExistingValue(t *testing.T) {
	rule := mustRule(t, sampleDefinition)

	out := rule.Apply(mustDoc(t, `{"require-dev":{"phpunit/phpunit":"^8"}}`))
	v, _ := out.Lookup("require-dev", "phpunit/phpunit")
	assert.Equal(t, "^8", v)

	out = rule.Apply(mustDoc(t, `{}`))
	v, ok := out.Lookup("require-dev", "phpunit/phpunit")
	require.True(t, ok)
	assert.Equal(t, "^7.5", v)
}

func TestSetOpKeepsMappingOrder(t *testing.T) {
	rule := mustRule(t, "id: scripts\nop: set\npath: scripts\nvalue:\n  test: phpunit\n  analyse: phpstan\n  count: 3\n  strict: true\n  none: null\n")
	doc := mustDoc(t, `{"name":"x"}`)

	out := rule.Apply(doc)

	scripts, ok := out.Object("scripts")
	require.True(t, ok)
	assert.Equal(t, []string{"test", "analyse", "count", "strict", "none"}, scripts.Keys())
	count, _ := scripts.Get("count")
	assert.Equal(t, document.Number("3"), count)
	strict, _ := scripts.Get("strict")
	assert.Equal(t, true, strict)
	assert.False(t, doc.Has("scripts"), "input must not be mutated")
}

func TestRemoveAndSortOps(t *testing.T) {
	doc := mustDoc(t, `{"archive":{"exclude":["/tests"]},"suggest":{"b/b":"","a/a":""},"bin":["z","a"]}`)

	out := mustRule(t, "id: drop-archive\nop: remove\npath: archive\n").Apply(doc)
	assert.False(t, out.Has("archive"))

	out = mustRule(t, "id: sort-suggest\nop: sort-keys\npath: suggest\n").Apply(out)
	suggest, _ := out.Object("suggest")
	assert.Equal(t, []string{"a/a", "b/b"}, suggest.Keys())

	out = mustRule(t, "id: sort-bin\nop: sort-list\npath: bin\n").Apply(out)
	bin, _ := out.List("bin")
	assert.Equal(t, document.List{"a", "z"}, bin)
	assert.Equal(t, []string{"suggest", "bin"}, out.Keys())

	missing := mustDoc(t, `{}`)
	assert.Same(t, missing, mustRule(t, "id: sort-bin\nop: sort-list\npath: bin\n").Apply(missing))
}
