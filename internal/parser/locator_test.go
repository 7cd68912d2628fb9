package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/bridgegen/internal/errors"
)

func TestLocateInterface_Shape(t *testing.T) {
	iface, err := LocateInterface("class Shape { virtual double area() const = 0; virtual void scale(double f) = 0; };")
	require.NoError(t, err)

	assert.Equal(t, "Shape", iface.Name)
	assert.Empty(t, iface.Namespace)
	require.Len(t, iface.Methods, 2)
	assert.Equal(t, "area", iface.Methods[0].Name)
	assert.Equal(t, "scale", iface.Methods[1].Name)
}

func TestLocateInterface_Heads(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{
			name:   "base classes",
			source: "class IShape : public IBase, protected Other<int, float> { virtual void f() = 0; };",
			want:   "IShape",
		},
		{
			name:   "final",
			source: "class IShape final { virtual void f() = 0; };",
			want:   "IShape",
		},
		{
			name:   "export macro",
			source: "class GFX_API IShape { virtual void f() = 0; };",
			want:   "IShape",
		},
		{
			name:   "attribute and alignas",
			source: "class [[nodiscard]] alignas(16) IShape { virtual void f() = 0; };",
			want:   "IShape",
		},
		{
			name:   "struct with virtual methods",
			source: "struct IShape { virtual void f() = 0; };",
			want:   "IShape",
		},
		{
			name: "skips forward declarations, enums and aggregates",
			source: `
class Forward;
enum class Color { Red, Green };
struct Point { int x; int y; };
union Bits { int i; float f; };
friend class Buddy;
class IShape { virtual void f() = 0; };`,
			want: "IShape",
		},
		{
			name:   "template parameters are not classes",
			source: "template <class T, class U> class IStore { virtual T get(U key) = 0; };",
			want:   "IStore",
		},
		{
			name:   "first qualifying class wins",
			source: "class IFirst { virtual void a() = 0; };\nclass ISecond { virtual void b() = 0; };",
			want:   "IFirst",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			iface, err := LocateInterface(tt.source)
			require.NoError(t, err)
			assert.Equal(t, tt.want, iface.Name)
		})
	}
}

func TestLocateInterface_Namespaces(t *testing.T) {
	source := `
namespace util { struct Helper { int x; }; }
namespace gfx {
namespace detail {
class IRenderer {
public:
    virtual void draw() = 0;
};
}
}
`
	iface, err := LocateInterface(source)
	require.NoError(t, err)
	assert.Equal(t, "IRenderer", iface.Name)
	assert.Equal(t, "gfx::detail", iface.Namespace)
	assert.Equal(t, "gfx::detail::IRenderer", iface.QualifiedName())
}

func TestLocateInterface_NestedNamespaceSyntax(t *testing.T) {
	iface, err := LocateInterface("namespace a::b { namespace { } class IX { virtual void f() = 0; }; }")
	require.NoError(t, err)
	assert.Equal(t, "a::b", iface.Namespace)
}

func TestLocateInterface_ClosedNamespaceIsPopped(t *testing.T) {
	iface, err := LocateInterface("namespace a { } class IX { virtual void f() = 0; };")
	require.NoError(t, err)
	assert.Empty(t, iface.Namespace)
}

func TestLocateInterface_Lines(t *testing.T) {
	source := "#pragma once\n" +
		"\n" +
		"class IWork {\n" +
		"public:\n" +
		"    virtual void run() = 0;\n" +
		"\n" +
		"    virtual int count() const = 0;\n" +
		"};\n"

	iface, err := LocateInterface(source)
	require.NoError(t, err)
	assert.Equal(t, 3, iface.Line)
	require.Len(t, iface.Methods, 2)
	assert.Equal(t, 5, iface.Methods[0].Line)
	assert.Equal(t, 7, iface.Methods[1].Line)
}

func TestLocateInterface_IgnoresBracesInCommentsAndLiterals(t *testing.T) {
	source := `
// class Commented {
class IText {
    /* } */
    virtual void put(char c = '}') = 0;
    virtual void say(const char* s = "{{") = 0;
};`
	iface, err := LocateInterface(source)
	require.NoError(t, err)
	require.Len(t, iface.Methods, 2)
	assert.Equal(t, "'}'", iface.Methods[0].Parameters[0].Default)
	assert.Equal(t, `"{{"`, iface.Methods[1].Parameters[0].Default)
}

func TestLocateInterface_NoPureVirtualMethods(t *testing.T) {
	source := "class Widget {\n    virtual void paint();\n    int size() const;\n};"

	_, err := LocateInterface(source)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.NoPureVirtualMethodsCode))
	assert.False(t, errors.HasCode(err, errors.NoInterfaceFoundCode))
	assert.Contains(t, err.Error(), "Widget")

	var be errors.BridgeError
	require.ErrorAs(t, err, &be)
	assert.Equal(t, 1, be.Location().Line)
}

func TestLocateInterface_NoInterfaceFound(t *testing.T) {
	sources := []string{
		"",
		"// only a comment",
		"struct Point { int x; };",
		"enum class Mode { A, B };",
		"class Forward;",
		"int main() { return 0; }",
	}
	for _, source := range sources {
		_, err := LocateInterface(source)
		require.Error(t, err, "source %q", source)
		assert.True(t, errors.HasCode(err, errors.NoInterfaceFoundCode), "source %q", source)
	}
}

func TestLocateInterface_Unbalanced(t *testing.T) {
	source := "#pragma once\nclass IBroken {\n    virtual void f() = 0;\n"

	_, err := LocateInterface(source)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.UnbalancedDelimitersCode))

	var be errors.BridgeError
	require.ErrorAs(t, err, &be)
	assert.Equal(t, 2, be.Location().Line)
	assert.Equal(t, strings.Index(source, "{"), be.Context()["offset"])
}
