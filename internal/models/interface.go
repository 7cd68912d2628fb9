package models

import "strings"

// Parameter represents one declared parameter of a pure-virtual method
type Parameter struct {
	Type       string // parameter type expression, e.g. "const std::string&"
	Name       string // parameter name, empty for type-only declarations
	Default    string // default argument text, empty when none
	Declarator string // full declaration when the name sits inside the type, e.g. "int v[4]"
}

// Render returns the parameter as it appears in a declaration
func (p Parameter) Render(withDefault bool) string {
	text := p.Type
	switch {
	case p.Declarator != "":
		text = p.Declarator
	case p.Name != "":
		text += " " + p.Name
	}
	if withDefault && p.Default != "" {
		text += " = " + p.Default
	}
	return text
}

// MethodSignature represents a parsed pure-virtual method declaration
type MethodSignature struct {
	ReturnType string      // return type expression
	Name       string      // method name
	Parameters []Parameter // parameters in declaration order
	IsConst    bool        // declared with a trailing const qualifier
	IsNoexcept bool        // declared noexcept
	Line       int         // 1-based line of the declaration, 0 when unknown
}

// ParameterList joins the parameters the way they are written between parentheses
func (m MethodSignature) ParameterList(withDefaults bool) string {
	parts := make([]string, 0, len(m.Parameters))
	for _, p := range m.Parameters {
		parts = append(parts, p.Render(withDefaults))
	}
	return strings.Join(parts, ", ")
}

// Qualifiers returns the trailing qualifiers with a leading space, or ""
func (m MethodSignature) Qualifiers() string {
	var q string
	if m.IsConst {
		q += " const"
	}
	if m.IsNoexcept {
		q += " noexcept"
	}
	return q
}

// Signature renders the method as it was declared, without the pure-virtual marker
func (m MethodSignature) Signature() string {
	return m.ReturnType + " " + m.Name + "(" + m.ParameterList(true) + ")" + m.Qualifiers()
}

// InterfaceDescriptor represents the abstract class located in a header
type InterfaceDescriptor struct {
	Name      string            // class name
	Kind      string            // "class" or "struct"
	Namespace string            // enclosing namespaces joined with "::", empty at global scope
	File      string            // header path the interface was read from, empty for in-memory input
	Line      int               // 1-based line of the class keyword
	Methods   []MethodSignature // pure-virtual methods in declaration order
}

// ClassKey returns the keyword the interface was declared with
func (d *InterfaceDescriptor) ClassKey() string {
	if d.Kind == "" {
		return "class"
	}
	return d.Kind
}

// QualifiedName returns the class name prefixed by its namespace
func (d *InterfaceDescriptor) QualifiedName() string {
	if d.Namespace == "" {
		return d.Name
	}
	return d.Namespace + "::" + d.Name
}
