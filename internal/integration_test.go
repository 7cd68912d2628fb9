package internal

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/bridgegen/internal/errors"
	"github.com/toyz/bridgegen/internal/generator"
	"github.com/toyz/bridgegen/internal/parser"
	"github.com/toyz/bridgegen/internal/templates"
)

// TestBridgeGenerationIntegration runs a realistic header through locate,
// extract, transform and emit
func TestBridgeGenerationIntegration(t *testing.T) {
	source := `#pragma once
#include <cstdint>
#include <string>
#include <vector>

#define STORE_API {  /* not a scope */

struct Options { int retries; };   // plain aggregate, not an interface

namespace storage {
namespace detail { class Impl; }

/**
 * Key/value store. Braces in comments { like these } must not matter.
 */
class IStore : public Base<int, std::map<int, int>> {
public:
    struct Entry { std::string key; };          // nested type, skipped

    virtual ~IStore() = default;
    virtual bool put(const std::string& key,
                     const std::vector<uint8_t>& value,
                     int ttl = 60) = 0;
    virtual const std::string& lastKey() const = 0;
    virtual std::vector<std::string> scan(const std::string& prefix = "{") const noexcept = 0;
    virtual uint64_t size() const = 0;
    virtual void clear() = 0;
    virtual Options* options() = 0;

    // inline helpers are not part of the contract
    bool empty() const { return size() == 0; }
    virtual void flush() override;
};

} // namespace storage
`

	p := parser.NewParser()
	iface, err := p.ParseSource("storage/IStore.h", source)
	require.NoError(t, err)

	assert.Equal(t, "IStore", iface.Name)
	assert.Equal(t, "storage", iface.Namespace)
	assert.Equal(t, "storage::IStore", iface.QualifiedName())

	names := make([]string, 0, len(iface.Methods))
	for _, m := range iface.Methods {
		names = append(names, m.Name)
	}
	assert.Equal(t, []string{"put", "lastKey", "scan", "size", "clear", "options"}, names)

	put := iface.Methods[0]
	require.Len(t, put.Parameters, 3)
	assert.Equal(t, "const std::vector<uint8_t>&", put.Parameters[1].Type)
	assert.Equal(t, "60", put.Parameters[2].Default)
	assert.True(t, iface.Methods[2].IsNoexcept)

	naming, err := generator.NewNamingConvention(generator.NamingStripPrefix, "I", "Bridge")
	require.NoError(t, err)
	gen := generator.NewGeneratorWithOptions(generator.Options{Naming: naming})

	bridge, err := gen.Generate(iface)
	require.NoError(t, err)
	assert.Equal(t, "StoreBridge", bridge.BridgeName)
	assert.Equal(t, 6, bridge.MethodCount)

	header := bridge.Declaration.Content
	assert.True(t, strings.HasPrefix(header, templates.GeneratedMarker))
	assert.Contains(t, header, "namespace storage {")
	assert.Contains(t, header, "bool put(const std::string& key, const std::vector<uint8_t>& value, int ttl = 60);")
	assert.Contains(t, header, `std::vector<std::string> scan(const std::string& prefix = "{") const noexcept;`)

	impl := bridge.Definition.Content
	assert.Contains(t, impl, `#include "IStore.h"`)
	assert.Contains(t, impl, "bool StoreBridge::put(const std::string& key, const std::vector<uint8_t>& value, int ttl) {")
	assert.Contains(t, impl, "return impl_ ? impl_->put(key, value, ttl) : false;")
	assert.Contains(t, impl, "static std::decay_t<const std::string&> fallback{};")
	assert.Contains(t, impl, "return impl_ ? impl_->size() : 0;")
	assert.Contains(t, impl, "return impl_ ? impl_->options() : nullptr;")
	assert.Contains(t, impl, "        impl_->clear();")
	assert.NotContains(t, impl, "empty()")
	assert.NotContains(t, impl, "flush()")
}

// TestBridgeGenerationErrors checks that each failure kind surfaces with its code
func TestBridgeGenerationErrors(t *testing.T) {
	tests := []struct {
		name   string
		source string
		code   errors.ErrorCode
	}{
		{
			name:   "no class at all",
			source: "enum class Mode { A, B };\nclass Fwd;\n",
			code:   errors.NoInterfaceFoundCode,
		},
		{
			name:   "unclosed class body",
			source: "class IBroken {\npublic:\n    virtual void f() = 0;\n",
			code:   errors.UnbalancedDelimitersCode,
		},
		{
			name:   "class without pure virtual methods",
			source: "class Concrete {\npublic:\n    void f();\n};\n",
			code:   errors.NoPureVirtualMethodsCode,
		},
		{
			name:   "unnamed parameter",
			source: "class ICodec {\npublic:\n    virtual int encode(const char*, int size) = 0;\n};\n",
			code:   errors.UnforwardableParameterCode,
		},
		{
			name:   "qualified type without a name",
			source: "class IView {\npublic:\n    virtual void show(const Widget) = 0;\n};\n",
			code:   errors.UnforwardableParameterCode,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			iface, err := parser.NewParser().ParseSource("input.h", tt.source)
			if err == nil {
				_, err = generator.NewGenerator().Generate(iface)
			}
			require.Error(t, err)
			assert.Equal(t, tt.code, errors.CodeOf(err), err.Error())
		})
	}
}

// TestBridgeGenerationDeclarators forwards parameters whose name sits inside
// the declarator
func TestBridgeGenerationDeclarators(t *testing.T) {
	source := `class ISink {
public:
    virtual void write(const char data[64], void (*done)(int, bool), bool flush = a < b, int retries) = 0;
    virtual Sink* const next() = 0;
};
`
	iface, err := parser.NewParser().ParseSource("ISink.h", source)
	require.NoError(t, err)
	require.Len(t, iface.Methods, 2)
	require.Len(t, iface.Methods[0].Parameters, 4)

	bridge, err := generator.NewGenerator().Generate(iface)
	require.NoError(t, err)

	assert.Contains(t, bridge.Declaration.Content,
		"void write(const char data[64], void (*done)(int, bool), bool flush = a < b, int retries);")

	impl := bridge.Definition.Content
	assert.Contains(t, impl, "void ISinkBridge::write(const char data[64], void (*done)(int, bool), bool flush, int retries) {")
	assert.Contains(t, impl, "impl_->write(data, done, flush, retries);")
	assert.Contains(t, impl, "return impl_ ? impl_->next() : nullptr;")
}
