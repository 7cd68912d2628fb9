package generator

import (
	"regexp"
	"strings"
)

// leadingQualifiers do not change which fallback a type gets
var leadingQualifiers = []string{"const", "volatile", "constexpr", "static"}

// trailingQualifiers apply to the outermost type, as in "Foo* const"
var trailingQualifiers = []string{"const", "volatile"}

// builtinIntegerWords may be combined to spell an integer type, e.g. "unsigned long long"
var builtinIntegerWords = map[string]bool{
	"signed":   true,
	"unsigned": true,
	"short":    true,
	"int":      true,
	"long":     true,
	"char":     true,
	"wchar_t":  true,
	"char8_t":  true,
	"char16_t": true,
	"char32_t": true,
}

var fixedWidthInteger = regexp.MustCompile(
	`^(?:std::)?(?:u?int(?:8|16|32|64|max|ptr)_t|u?int_(?:fast|least)(?:8|16|32|64)_t|s?size_t|ptrdiff_t)$`)

// DefaultValue returns the expression a guarded bridge yields when no
// implementation is attached. It is total: "" for void, and value
// initialisation for anything it does not recognise.
func DefaultValue(returnType string) string {
	t := stripQualifiers(returnType)

	switch {
	case t == "void":
		return ""
	case IsReference(t):
		return "std::decay_t<" + collapse(returnType) + ">{}"
	case strings.HasSuffix(t, "*"):
		return "nullptr"
	case t == "bool":
		return "false"
	case t == "float":
		return "0.0f"
	case t == "double" || t == "long double":
		return "0.0"
	case isInteger(t):
		return "0"
	}

	// smart pointers, optional and function value-initialise to empty
	return t + "{}"
}

// IsReference reports whether the type is an lvalue or rvalue reference
func IsReference(returnType string) bool {
	return strings.HasSuffix(strings.TrimSpace(returnType), "&")
}

// IsRvalueReference reports whether the type ends in &&
func IsRvalueReference(returnType string) bool {
	return strings.HasSuffix(strings.TrimSpace(returnType), "&&")
}

// IsVoid reports whether a return type produces no value
func IsVoid(returnType string) bool {
	return stripQualifiers(returnType) == "void"
}

func stripQualifiers(returnType string) string {
	t := collapse(returnType)
	for {
		stripped := false
		for _, q := range leadingQualifiers {
			if rest, ok := strings.CutPrefix(t, q+" "); ok {
				t = rest
				stripped = true
			}
		}
		for _, q := range trailingQualifiers {
			if rest, ok := strings.CutSuffix(t, q); ok && rest != "" && !isIdentByte(rest[len(rest)-1]) {
				t = strings.TrimSpace(rest)
				stripped = true
			}
		}
		if !stripped {
			return t
		}
	}
}

func isInteger(t string) bool {
	if fixedWidthInteger.MatchString(t) {
		return true
	}
	words := strings.Fields(t)
	if len(words) == 0 {
		return false
	}
	for _, w := range words {
		if !builtinIntegerWords[w] {
			return false
		}
	}
	return true
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func isIdentByte(b byte) bool {
	return b == '_' || b >= '0' && b <= '9' || b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z'
}
