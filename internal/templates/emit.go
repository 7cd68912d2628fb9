package templates

import (
	"bytes"
	"path/filepath"
	"strings"
	"text/template"
	"unicode"

	"github.com/toyz/bridgegen/internal/errors"
	"github.com/toyz/bridgegen/internal/models"
)

// MethodData is one forwarded method as seen by templates
type MethodData struct {
	Name        string
	Declaration string // "void scale(double f);"
	Definition  string // full out-of-class definition
}

// Data is the value templates are executed against
type Data struct {
	BridgeName             string
	InterfaceName          string
	QualifiedInterfaceName string
	Namespace              string
	ForwardDeclaration     string
	InterfaceHeader        string
	BridgeHeader           string
	GuardMacro             string
	MethodDeclarations     string // declarations indented for a class body, one per line
	MethodDefinitions      string // definitions separated by blank lines
	Methods                []MethodData
}

// Emitter fills template pairs from bridge descriptors
type Emitter struct {
	headerExt string
}

// NewEmitter creates an emitter whose generated headers use headerExt
func NewEmitter(headerExt string) *Emitter {
	if headerExt == "" {
		headerExt = ".h"
	}
	return &Emitter{headerExt: headerExt}
}

// NewData derives the template data for bridge
func (e *Emitter) NewData(bridge *models.BridgeDescriptor) Data {
	iface := bridge.Interface

	data := Data{
		BridgeName:             bridge.DerivedName,
		InterfaceName:          iface.Name,
		QualifiedInterfaceName: iface.QualifiedName(),
		Namespace:              iface.Namespace,
		ForwardDeclaration:     forwardDeclaration(iface),
		InterfaceHeader:        iface.Name + e.headerExt,
		BridgeHeader:           bridge.DerivedName + e.headerExt,
		GuardMacro:             guardMacro(bridge.DerivedName),
	}
	if iface.File != "" {
		data.InterfaceHeader = filepath.Base(iface.File)
	}

	declarations := make([]string, 0, len(bridge.Declarations))
	for _, decl := range bridge.Declarations {
		declarations = append(declarations, "    "+decl)
	}
	data.MethodDeclarations = strings.Join(declarations, "\n")
	data.MethodDefinitions = strings.Join(bridge.Definitions, "\n\n")

	for i, method := range iface.Methods {
		if i >= len(bridge.Declarations) || i >= len(bridge.Definitions) {
			break
		}
		data.Methods = append(data.Methods, MethodData{
			Name:        method.Name,
			Declaration: bridge.Declarations[i],
			Definition:  bridge.Definitions[i],
		})
	}

	return data
}

// Emit executes the declaration and definition templates against bridge
func (e *Emitter) Emit(bridge *models.BridgeDescriptor, declarationTemplate, definitionTemplate string) (string, string, error) {
	data := e.NewData(bridge)

	declaration, err := ExecuteTemplate(bridge.DerivedName+e.headerExt, declarationTemplate, data)
	if err != nil {
		return "", "", err
	}
	definition, err := ExecuteTemplate(bridge.DerivedName+" definition", definitionTemplate, data)
	if err != nil {
		return "", "", err
	}
	return declaration, definition, nil
}

// ExecuteTemplate parses and executes templateStr with the bridge helper functions
func ExecuteTemplate(name, templateStr string, data interface{}) (string, error) {
	funcMap := template.FuncMap{
		"upper":       strings.ToUpper,
		"lower":       strings.ToLower,
		"toCamelCase": toCamelCase,
	}

	tmpl, err := template.New(name).Funcs(funcMap).Option("missingkey=error").Parse(templateStr)
	if err != nil {
		return "", errors.WrapTemplateError(name, "parse", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", errors.WrapTemplateError(name, "execute", err)
	}

	return buf.String(), nil
}

// forwardDeclaration declares the interface, inside its namespace if any
func forwardDeclaration(iface *models.InterfaceDescriptor) string {
	decl := iface.ClassKey() + " " + iface.Name + ";"
	if iface.Namespace == "" {
		return decl
	}
	return "namespace " + iface.Namespace + " {\n" + decl + "\n}"
}

// guardMacro turns IShapeBridge into ISHAPEBRIDGE_H
func guardMacro(name string) string {
	var b strings.Builder
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToUpper(r))
		} else {
			b.WriteByte('_')
		}
	}
	b.WriteString("_H")
	return b.String()
}

func toCamelCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
