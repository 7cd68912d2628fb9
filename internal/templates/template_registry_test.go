package templates

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplateRegistry_BuiltinPairs(t *testing.T) {
	registry := NewTemplateRegistry()

	assert.Equal(t, []string{"shared-ptr", "unique-ptr"}, registry.Names())

	for _, name := range registry.Names() {
		pair := registry.MustGet(name)
		assert.Equal(t, name, pair.Name)
		assert.NotEmpty(t, pair.Description)
		assert.True(t, strings.HasPrefix(pair.Declaration, GeneratedMarker+"\n"), name)
		assert.True(t, strings.HasPrefix(pair.Definition, GeneratedMarker+"\n"), name)
		assert.Contains(t, pair.Declaration, "{{.MethodDeclarations}}")
		assert.Contains(t, pair.Definition, "{{.MethodDefinitions}}")
	}
}

func TestTemplateRegistry_Get(t *testing.T) {
	registry := NewTemplateRegistry()

	_, ok := registry.Get(DefaultPair)
	assert.True(t, ok)

	_, ok = registry.Get("raw-ptr")
	assert.False(t, ok)

	assert.Panics(t, func() { registry.MustGet("raw-ptr") })
}

func TestTemplateRegistry_Source(t *testing.T) {
	source := DefaultTemplateRegistry.Source()

	names, err := source.List()
	require.NoError(t, err)
	assert.Equal(t, []string{
		"shared-ptr.cpp.tmpl",
		"shared-ptr.h.tmpl",
		"unique-ptr.cpp.tmpl",
		"unique-ptr.h.tmpl",
	}, names)

	pairs, err := Pairs(source)
	require.NoError(t, err)
	assert.Equal(t, []string{"shared-ptr", "unique-ptr"}, pairs)
}
