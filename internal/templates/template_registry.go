package templates

import "sort"

// GeneratedMarker is the first line of every built-in template. clean only
// removes files that start with it.
const GeneratedMarker = "// Auto generated file"

// DefaultPair is the template pair used when none is configured
const DefaultPair = "unique-ptr"

// Template file suffixes; a pair named p is stored as p.h.tmpl and p.cpp.tmpl
const (
	DeclarationSuffix = ".h.tmpl"
	DefinitionSuffix  = ".cpp.tmpl"
)

// DeclarationName returns the template name of a pair's declaration unit
func DeclarationName(pair string) string {
	return pair + DeclarationSuffix
}

// DefinitionName returns the template name of a pair's definition unit
func DefinitionName(pair string) string {
	return pair + DefinitionSuffix
}

// Pair holds the declaration and definition templates of one bridge flavour
type Pair struct {
	Name        string
	Description string
	Declaration string
	Definition  string
}

// TemplateRegistry provides a centralized way to access the built-in pairs
type TemplateRegistry struct {
	pairs map[string]Pair
}

// NewTemplateRegistry creates a new template registry with all built-in pairs
func NewTemplateRegistry() *TemplateRegistry {
	registry := &TemplateRegistry{
		pairs: make(map[string]Pair),
	}

	registry.registerUniquePtrTemplates()
	registry.registerSharedPtrTemplates()

	return registry
}

// Get retrieves a pair by name
func (tr *TemplateRegistry) Get(name string) (Pair, bool) {
	pair, exists := tr.pairs[name]
	return pair, exists
}

// MustGet retrieves a pair by name, panics if not found
func (tr *TemplateRegistry) MustGet(name string) Pair {
	pair, exists := tr.pairs[name]
	if !exists {
		panic("template pair not found: " + name)
	}
	return pair
}

// Names returns the registered pair names in sorted order
func (tr *TemplateRegistry) Names() []string {
	names := make([]string, 0, len(tr.pairs))
	for name := range tr.pairs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Source exposes the built-in pairs as a TemplateSource
func (tr *TemplateRegistry) Source() MapSource {
	source := make(MapSource, 2*len(tr.pairs))
	for name, pair := range tr.pairs {
		source[DeclarationName(name)] = pair.Declaration
		source[DefinitionName(name)] = pair.Definition
	}
	return source
}

// registerUniquePtrTemplates registers the owning pair: the bridge takes a
// unique_ptr to the implementation and is built through a make<Bridge> factory
func (tr *TemplateRegistry) registerUniquePtrTemplates() {
	tr.pairs["unique-ptr"] = Pair{
		Name:        "unique-ptr",
		Description: "bridge owns the implementation through std::unique_ptr",
		Declaration: GeneratedMarker + `
#pragma once
#include <memory>

{{.ForwardDeclaration}}

class {{.BridgeName}} {
public:
    explicit {{.BridgeName}}(std::unique_ptr<{{.QualifiedInterfaceName}}>&& impl);
    ~{{.BridgeName}}();

{{.MethodDeclarations}}
private:
    std::unique_ptr<{{.QualifiedInterfaceName}}> impl_;
};

// Factory constructor taking the real interface
std::unique_ptr<{{.BridgeName}}> make{{.BridgeName}}(std::unique_ptr<{{.QualifiedInterfaceName}}>&& impl);
`,
		Definition: GeneratedMarker + `
#include "{{.BridgeHeader}}"
#include "{{.InterfaceHeader}}"

{{.BridgeName}}::{{.BridgeName}}(std::unique_ptr<{{.QualifiedInterfaceName}}>&& impl)
    : impl_(std::move(impl)) {}

{{.BridgeName}}::~{{.BridgeName}}() = default;

{{.MethodDefinitions}}

std::unique_ptr<{{.BridgeName}}> make{{.BridgeName}}(std::unique_ptr<{{.QualifiedInterfaceName}}>&& impl) {
    return std::make_unique<{{.BridgeName}}>(std::move(impl));
}
`,
	}
}

// registerSharedPtrTemplates registers the shared-ownership pair
func (tr *TemplateRegistry) registerSharedPtrTemplates() {
	tr.pairs["shared-ptr"] = Pair{
		Name:        "shared-ptr",
		Description: "bridge shares the implementation through std::shared_ptr",
		Declaration: GeneratedMarker + `
#pragma once
#include <memory>

{{.ForwardDeclaration}}

class {{.BridgeName}} {
public:
    explicit {{.BridgeName}}(std::shared_ptr<{{.QualifiedInterfaceName}}> impl);

{{.MethodDeclarations}}
private:
    std::shared_ptr<{{.QualifiedInterfaceName}}> impl_;
};

// Factory constructor sharing the real interface
std::shared_ptr<{{.BridgeName}}> make{{.BridgeName}}(std::shared_ptr<{{.QualifiedInterfaceName}}> impl);
`,
		Definition: GeneratedMarker + `
#include "{{.BridgeHeader}}"
#include "{{.InterfaceHeader}}"

#include <utility>

{{.BridgeName}}::{{.BridgeName}}(std::shared_ptr<{{.QualifiedInterfaceName}}> impl)
    : impl_(std::move(impl)) {}

{{.MethodDefinitions}}

std::shared_ptr<{{.BridgeName}}> make{{.BridgeName}}(std::shared_ptr<{{.QualifiedInterfaceName}}> impl) {
    return std::make_shared<{{.BridgeName}}>(std::move(impl));
}
`,
	}
}

// DefaultTemplateRegistry holds the built-in pairs
var DefaultTemplateRegistry = NewTemplateRegistry()
