package generator

import (
	"github.com/toyz/bridgegen/internal/errors"
	"github.com/toyz/bridgegen/internal/models"
	"github.com/toyz/bridgegen/internal/templates"
)

// Options configures a Generator. Zero values select the defaults.
type Options struct {
	Naming    NamingConvention
	Style     ForwardingStyle
	Templates templates.TemplateSource
	Pair      string
	HeaderExt string
	SourceExt string
}

// Generator implements the CodeGenerator interface
type Generator struct {
	naming    NamingConvention
	style     ForwardingStyle
	source    templates.TemplateSource
	pair      string
	headerExt string
	sourceExt string
	emitter   *templates.Emitter
}

// NewGenerator creates a generator with the built-in unique-ptr pair and suffix naming
func NewGenerator() *Generator {
	return NewGeneratorWithOptions(Options{})
}

// NewGeneratorWithOptions creates a generator from opts
func NewGeneratorWithOptions(opts Options) *Generator {
	if opts.Naming == nil {
		opts.Naming = SuffixNaming{Suffix: DefaultSuffix}
	}
	if opts.Style == "" {
		opts.Style = StyleGuarded
	}
	if opts.Templates == nil {
		opts.Templates = templates.DefaultTemplateRegistry.Source()
	}
	if opts.Pair == "" {
		opts.Pair = templates.DefaultPair
	}
	if opts.HeaderExt == "" {
		opts.HeaderExt = ".h"
	}
	if opts.SourceExt == "" {
		opts.SourceExt = ".cpp"
	}

	return &Generator{
		naming:    opts.Naming,
		style:     opts.Style,
		source:    opts.Templates,
		pair:      opts.Pair,
		headerExt: opts.HeaderExt,
		sourceExt: opts.SourceExt,
		emitter:   templates.NewEmitter(opts.HeaderExt),
	}
}

// BridgeName returns the name the bridge for iface will get
func (g *Generator) BridgeName(iface *models.InterfaceDescriptor) string {
	return g.naming.BridgeName(iface.Name)
}

// Describe transforms every method of iface. The first method that cannot
// be forwarded aborts the whole bridge.
func (g *Generator) Describe(iface *models.InterfaceDescriptor) (*models.BridgeDescriptor, error) {
	if iface == nil {
		return nil, errors.New(errors.GenerationErrorCode, "interface descriptor cannot be nil")
	}

	bridgeName := g.BridgeName(iface)
	transformer := NewTransformer(bridgeName, g.style)

	bridge := &models.BridgeDescriptor{
		DerivedName:  bridgeName,
		Interface:    iface,
		Declarations: make([]string, 0, len(iface.Methods)),
		Definitions:  make([]string, 0, len(iface.Methods)),
	}

	for _, method := range iface.Methods {
		transform, err := transformer.Transform(method)
		if err != nil {
			if be, ok := err.(*errors.BaseError); ok && iface.File != "" {
				return nil, be.WithFile(iface.File)
			}
			return nil, err
		}
		bridge.Declarations = append(bridge.Declarations, transform.Declaration)
		bridge.Definitions = append(bridge.Definitions, transform.Definition)
	}

	return bridge, nil
}

// Generate describes iface and emits both units from the configured pair
func (g *Generator) Generate(iface *models.InterfaceDescriptor) (*models.GeneratedBridge, error) {
	bridge, err := g.Describe(iface)
	if err != nil {
		return nil, err
	}

	declarationTemplate, definitionTemplate, err := templates.LoadPair(g.source, g.pair)
	if err != nil {
		return nil, err
	}

	declaration, definition, err := g.emitter.Emit(bridge, declarationTemplate, definitionTemplate)
	if err != nil {
		return nil, err
	}

	return &models.GeneratedBridge{
		BridgeName:  bridge.DerivedName,
		Interface:   iface.QualifiedName(),
		MethodCount: len(iface.Methods),
		Declaration: models.GeneratedFile{
			Name:    bridge.DerivedName + g.headerExt,
			Content: declaration,
		},
		Definition: models.GeneratedFile{
			Name:    bridge.DerivedName + g.sourceExt,
			Content: definition,
		},
	}, nil
}

// Pair returns the name of the template pair in use
func (g *Generator) Pair() string {
	return g.pair
}
