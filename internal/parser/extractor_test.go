package parser

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/bridgegen/internal/models"
)

func TestExtractMethods_Shape(t *testing.T) {
	body := `
    virtual double area() const = 0;
    virtual void scale(double f) = 0;
`
	methods, err := ExtractMethods(body)
	require.NoError(t, err)
	require.Len(t, methods, 2)

	assert.Equal(t, models.MethodSignature{ReturnType: "double", Name: "area", IsConst: true, Line: 2}, methods[0])
	assert.Equal(t, models.MethodSignature{
		ReturnType: "void",
		Name:       "scale",
		Parameters: []models.Parameter{{Type: "double", Name: "f"}},
		Line:       3,
	}, methods[1])
}

func TestExtractMethods_NestedComma(t *testing.T) {
	methods, err := ExtractMethods("virtual void put(std::map<int,int> m) = 0;")
	require.NoError(t, err)
	require.Len(t, methods, 1)
	assert.Equal(t, []models.Parameter{{Type: "std::map<int,int>", Name: "m"}}, methods[0].Parameters)
}

func TestExtractMethods_Parameters(t *testing.T) {
	tests := []struct {
		name string
		decl string
		want []models.Parameter
	}{
		{
			name: "no parameters",
			decl: "virtual int f() = 0;",
			want: nil,
		},
		{
			name: "lone void",
			decl: "virtual int f(void) = 0;",
			want: nil,
		},
		{
			name: "references and pointers",
			decl: "virtual void f(const std::string& name, int* out) = 0;",
			want: []models.Parameter{
				{Type: "const std::string&", Name: "name"},
				{Type: "int*", Name: "out"},
			},
		},
		{
			name: "deeply nested template",
			decl: "virtual void f(std::vector<std::pair<int, std::map<K, V>>> items, int n) = 0;",
			want: []models.Parameter{
				{Type: "std::vector<std::pair<int, std::map<K, V>>>", Name: "items"},
				{Type: "int", Name: "n"},
			},
		},
		{
			name: "function type with inner parameter list",
			decl: "virtual void on(std::function<void(int, int)> cb) = 0;",
			want: []models.Parameter{
				{Type: "std::function<void(int, int)>", Name: "cb"},
			},
		},
		{
			name: "default arguments",
			decl: `virtual void log(const char* msg = "a, b", int level = max(1, 2)) = 0;`,
			want: []models.Parameter{
				{Type: "const char*", Name: "msg", Default: `"a, b"`},
				{Type: "int", Name: "level", Default: "max(1, 2)"},
			},
		},
		{
			name: "braced default",
			decl: "virtual void f(std::vector<int> v = {1, 2}) = 0;",
			want: []models.Parameter{
				{Type: "std::vector<int>", Name: "v", Default: "{1, 2}"},
			},
		},
		{
			name: "type-only parameters",
			decl: "virtual void f(int, const Foo&, unsigned int, std::string) = 0;",
			want: []models.Parameter{
				{Type: "int"},
				{Type: "const Foo&"},
				{Type: "unsigned int"},
				{Type: "std::string"},
			},
		},
		{
			name: "qualified or elaborated type without a name",
			decl: "virtual void f(const Widget, struct Foo, volatile unsigned) = 0;",
			want: []models.Parameter{
				{Type: "const Widget"},
				{Type: "struct Foo"},
				{Type: "volatile unsigned"},
			},
		},
		{
			name: "elaborated type with a name",
			decl: "virtual void f(const struct Foo foo, unsigned n) = 0;",
			want: []models.Parameter{
				{Type: "const struct Foo", Name: "foo"},
				{Type: "unsigned", Name: "n"},
			},
		},
		{
			name: "comparison in a default argument",
			decl: "virtual void f(bool x = a < b, int y) = 0;",
			want: []models.Parameter{
				{Type: "bool", Name: "x", Default: "a < b"},
				{Type: "int", Name: "y"},
			},
		},
		{
			name: "template default next to a comparison",
			decl: "virtual void f(std::map<int, int> m = {}, bool x = a > b) = 0;",
			want: []models.Parameter{
				{Type: "std::map<int, int>", Name: "m", Default: "{}"},
				{Type: "bool", Name: "x", Default: "a > b"},
			},
		},
		{
			name: "arrays",
			decl: "virtual void f(int values[4], char grid[2][3], const int (&ref)[4], int[8]) = 0;",
			want: []models.Parameter{
				{Type: "int[4]", Name: "values", Declarator: "int values[4]"},
				{Type: "char[2][3]", Name: "grid", Declarator: "char grid[2][3]"},
				{Type: "const int (&)[4]", Name: "ref", Declarator: "const int (&ref)[4]"},
				{Type: "int[8]"},
			},
		},
		{
			name: "function pointers",
			decl: "virtual void f(void (*cb)(int, int), void (*)(int), int n) = 0;",
			want: []models.Parameter{
				{Type: "void (*)(int, int)", Name: "cb", Declarator: "void (*cb)(int, int)"},
				{Type: "void (*)(int)"},
				{Type: "int", Name: "n"},
			},
		},
		{
			name: "comments and line breaks collapse",
			decl: "virtual void f(const   Foo & /* the foo */ foo,\n        int   n) = 0;",
			want: []models.Parameter{
				{Type: "const Foo &", Name: "foo"},
				{Type: "int", Name: "n"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			methods, err := ExtractMethods(tt.decl)
			require.NoError(t, err)
			require.Len(t, methods, 1)
			assert.Equal(t, tt.want, methods[0].Parameters)
		})
	}
}

func TestExtractMethods_ReturnTypes(t *testing.T) {
	tests := []struct {
		decl string
		want string
	}{
		{"virtual std::shared_ptr<Texture> load(int id) = 0;", "std::shared_ptr<Texture>"},
		{"virtual const std::vector<std::string>& names() const = 0;", "const std::vector<std::string>&"},
		{"virtual unsigned long long size() const = 0;", "unsigned long long"},
		{"virtual MyType* create() = 0;", "MyType*"},
		{"virtual std::map<std::string, std::pair<int, int>> index() = 0;", "std::map<std::string, std::pair<int, int>>"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			methods, err := ExtractMethods(tt.decl)
			require.NoError(t, err)
			require.Len(t, methods, 1)
			assert.Equal(t, tt.want, methods[0].ReturnType)
		})
	}
}

func TestExtractMethods_Qualifiers(t *testing.T) {
	methods, err := ExtractMethods(`
		virtual int a() const noexcept = 0;
		virtual int b() noexcept = 0;
		virtual int c() const = 0;
		virtual int d() = 0;
	`)
	require.NoError(t, err)
	require.Len(t, methods, 4)

	assert.True(t, methods[0].IsConst)
	assert.True(t, methods[0].IsNoexcept)
	assert.False(t, methods[1].IsConst)
	assert.True(t, methods[1].IsNoexcept)
	assert.True(t, methods[2].IsConst)
	assert.False(t, methods[2].IsNoexcept)
	assert.False(t, methods[3].IsConst)
	assert.False(t, methods[3].IsNoexcept)
}

func TestExtractMethods_SkipsNonPure(t *testing.T) {
	body := `
	public:
		virtual ~IWork() = default;
		virtual void run() = 0;
		virtual void stop();
		virtual int inlineValue() { return 1; }
		virtual bool operator==(const IWork& other) const = 0;
		virtual void overridden() override;
		void helper(int x);
		struct Nested {
			virtual void hidden() = 0;
		};
		virtual int count() const = 0;
	`
	methods, err := ExtractMethods(body)
	require.NoError(t, err)

	var names []string
	for _, m := range methods {
		names = append(names, m.Name)
	}
	assert.Equal(t, []string{"run", "count"}, names)
}

func TestExtractMethods_Empty(t *testing.T) {
	for _, body := range []string{"", "int x;", "void f();", "// virtual void f() = 0;"} {
		methods, err := ExtractMethods(body)
		require.NoError(t, err)
		assert.Empty(t, methods, "body %q", body)
	}
}

func TestExtractMethods_OrderAndOverloads(t *testing.T) {
	body := `
		virtual void write(int v) = 0;
		virtual void write(const std::string& v) = 0;
		virtual int read() = 0;
		virtual void write(double v) = 0;
	`
	methods, err := ExtractMethods(body)
	require.NoError(t, err)
	require.Len(t, methods, 4)

	var got []string
	for _, m := range methods {
		got = append(got, m.Name+"("+m.ParameterList(false)+")")
	}
	assert.Equal(t, []string{
		"write(int v)",
		"write(const std::string& v)",
		"read()",
		"write(double v)",
	}, got)
}

func TestExtractMethods_RoundTrip(t *testing.T) {
	returnTypes := []string{"void", "int", "bool", "double", "MyType*", "std::shared_ptr<T>", "CustomStruct", "const std::string&"}
	paramSets := [][]models.Parameter{
		nil,
		{{Type: "int", Name: "a"}},
		{{Type: "const Foo&", Name: "foo"}, {Type: "std::map<int, std::string>", Name: "index"}},
		{{Type: "float", Name: "x"}, {Type: "float", Name: "y"}, {Type: "float", Name: "z"}},
	}

	for _, rt := range returnTypes {
		for pi, params := range paramSets {
			for _, isConst := range []bool{false, true} {
				want := models.MethodSignature{
					ReturnType: rt,
					Name:       "method",
					Parameters: params,
					IsConst:    isConst,
					Line:       1,
				}
				t.Run(fmt.Sprintf("%s/%d/const=%v", rt, pi, isConst), func(t *testing.T) {
					body := "virtual " + want.Signature() + " = 0;"
					methods, err := ExtractMethods(body)
					require.NoError(t, err)
					require.Len(t, methods, 1)
					assert.Equal(t, want, methods[0])
				})
			}
		}
	}
}
