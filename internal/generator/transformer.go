package generator

import (
	"strings"

	"github.com/toyz/bridgegen/internal/errors"
	"github.com/toyz/bridgegen/internal/models"
)

// implField is the bridge member holding the wrapped implementation
const implField = "impl_"

// bodyIndent is the indentation of statements inside a generated definition
const bodyIndent = "    "

// MethodTransform is the generated text for one forwarded method
type MethodTransform struct {
	Declaration    string // member declaration for the bridge class body
	ForwardingBody string // statements forwarding to the implementation
	Definition     string // out-of-class definition wrapping ForwardingBody
}

// Transformer turns parsed method signatures into bridge members
type Transformer struct {
	bridgeName string
	style      ForwardingStyle
}

// NewTransformer creates a transformer for members of bridgeName
func NewTransformer(bridgeName string, style ForwardingStyle) *Transformer {
	if style == "" {
		style = StyleGuarded
	}
	return &Transformer{bridgeName: bridgeName, style: style}
}

// Declaration returns the member declaration, default arguments included
func (t *Transformer) Declaration(m models.MethodSignature) string {
	return m.Signature() + ";"
}

// CallExpression returns impl_->name(args). Every parameter must be named.
func (t *Transformer) CallExpression(m models.MethodSignature) (string, error) {
	names := make([]string, 0, len(m.Parameters))
	for i, p := range m.Parameters {
		if p.Name == "" {
			return "", errors.UnforwardableParameter(m.Name, t.Declaration(m), i).
				WithLocation(errors.SourceLocation{Line: m.Line})
		}
		names = append(names, p.Name)
	}
	return implField + "->" + m.Name + "(" + strings.Join(names, ", ") + ")", nil
}

// ForwardingBody returns the statements that forward m to the implementation
func (t *Transformer) ForwardingBody(m models.MethodSignature) (string, error) {
	call, err := t.CallExpression(m)
	if err != nil {
		return "", err
	}

	if t.style == StyleDirect {
		if IsVoid(m.ReturnType) {
			return call + ";", nil
		}
		return "return " + call + ";", nil
	}

	switch {
	case IsVoid(m.ReturnType):
		return "if (" + implField + ") {\n" + bodyIndent + call + ";\n}", nil
	case IsReference(m.ReturnType):
		// a reference cannot bind a temporary, so the fallback outlives the call
		result := "fallback"
		if IsRvalueReference(m.ReturnType) {
			result = "std::move(fallback)"
		}
		return "if (" + implField + ") {\n" +
			bodyIndent + "return " + call + ";\n" +
			"}\n" +
			"static std::decay_t<" + collapse(m.ReturnType) + "> fallback{};\n" +
			"return " + result + ";", nil
	default:
		return "return " + implField + " ? " + call + " : " + DefaultValue(m.ReturnType) + ";", nil
	}
}

// Definition returns the out-of-class definition of m on the bridge
func (t *Transformer) Definition(m models.MethodSignature) (string, error) {
	transform, err := t.Transform(m)
	if err != nil {
		return "", err
	}
	return transform.Definition, nil
}

// Transform produces all generated text for m
func (t *Transformer) Transform(m models.MethodSignature) (MethodTransform, error) {
	body, err := t.ForwardingBody(m)
	if err != nil {
		return MethodTransform{}, err
	}
	return MethodTransform{
		Declaration:    t.Declaration(m),
		ForwardingBody: body,
		Definition:     t.definitionHead(m) + " {\n" + indent(body, bodyIndent) + "\n}",
	}, nil
}

// definitionHead drops default arguments, which may only appear on the declaration
func (t *Transformer) definitionHead(m models.MethodSignature) string {
	return m.ReturnType + " " + t.bridgeName + "::" + m.Name + "(" + m.ParameterList(false) + ")" + m.Qualifiers()
}

func indent(text, prefix string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = prefix + line
		}
	}
	return strings.Join(lines, "\n")
}
