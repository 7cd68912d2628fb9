package parser

const (
	// Keywords that open a candidate interface declaration
	KeywordClass  = "class"
	KeywordStruct = "struct"

	// Keywords recognised around declarations
	KeywordVirtual   = "virtual"
	KeywordConst     = "const"
	KeywordNoexcept  = "noexcept"
	KeywordNamespace = "namespace"
	KeywordEnum      = "enum"
	KeywordFriend    = "friend"
	KeywordFinal     = "final"
	KeywordOperator  = "operator"
	KeywordVoid      = "void"

	// PureVirtualMarker is the literal that follows '=' in a pure-virtual declaration
	PureVirtualMarker = "0"
)

// typeKeywords can end a type-only parameter and never name a parameter
var typeKeywords = map[string]bool{
	"void":     true,
	"bool":     true,
	"char":     true,
	"wchar_t":  true,
	"char8_t":  true,
	"char16_t": true,
	"char32_t": true,
	"short":    true,
	"int":      true,
	"long":     true,
	"float":    true,
	"double":   true,
	"signed":   true,
	"unsigned": true,
	"auto":     true,
	"const":    true,
	"volatile": true,
	"struct":   true,
	"class":    true,
	"enum":     true,
	"union":    true,
	"typename": true,
}

// typeElaborators may precede a type name without making the segment named
var typeElaborators = map[string]bool{
	"const":    true,
	"volatile": true,
	"struct":   true,
	"class":    true,
	"enum":     true,
	"union":    true,
	"typename": true,
}

// isParameterName reports whether an identifier may be used as a parameter name
func isParameterName(ident string) bool {
	return !typeKeywords[ident]
}
