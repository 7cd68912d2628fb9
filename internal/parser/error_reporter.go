package parser

import (
	stderrors "errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/toyz/bridgegen/internal/errors"
)

var pureSuffix = regexp.MustCompile(`=\s*0\s*;`)

// ParseErrorReporter turns parse failures into source-aware diagnostics
type ParseErrorReporter struct {
	contextLines int
}

// NewParseErrorReporter creates a reporter that shows contextLines lines
// before the offending one
func NewParseErrorReporter(contextLines int) *ParseErrorReporter {
	if contextLines < 0 {
		contextLines = 0
	}
	return &ParseErrorReporter{contextLines: contextLines}
}

// Snippet renders the source line that err points at, with a caret under
// the reported column. It returns "" when err carries no line.
func (r *ParseErrorReporter) Snippet(err error, source string) string {
	var be errors.BridgeError
	if !stderrors.As(err, &be) {
		return ""
	}
	loc := be.Location()
	lines := strings.Split(source, "\n")
	if loc.Line <= 0 || loc.Line > len(lines) {
		return ""
	}

	var b strings.Builder
	first := loc.Line - r.contextLines
	if first < 1 {
		first = 1
	}
	width := len(fmt.Sprint(loc.Line))
	for n := first; n <= loc.Line; n++ {
		fmt.Fprintf(&b, "%*d | %s\n", width, n, strings.TrimRight(lines[n-1], "\r"))
	}
	if loc.Column > 0 {
		fmt.Fprintf(&b, "%s | %s^\n", strings.Repeat(" ", width), strings.Repeat(" ", loc.Column-1))
	}
	return b.String()
}

// Explain returns extra hints for a parse failure based on what the source
// actually contains
func (r *ParseErrorReporter) Explain(err error, source string) []string {
	switch errors.CodeOf(err) {
	case errors.NoPureVirtualMethodsCode:
		return r.explainNotPure(source)
	case errors.NoInterfaceFoundCode:
		return r.explainNoInterface(source)
	case errors.UnbalancedDelimitersCode:
		return []string{"Braces inside comments and string literals are ignored; count the remaining ones"}
	}
	return nil
}

// explainNotPure points at virtual declarations that are missing "= 0"
func (r *ParseErrorReporter) explainNotPure(source string) []string {
	var hints []string
	for i, line := range strings.Split(Mask(source), "\n") {
		if !strings.Contains(line, KeywordVirtual) || strings.Contains(line, "~") {
			continue
		}
		if !pureSuffix.MatchString(line) {
			hints = append(hints, fmt.Sprintf("line %d: virtual method is not pure: %s", i+1, collapseSpace(line)))
		}
	}
	return hints
}

func (r *ParseErrorReporter) explainNoInterface(source string) []string {
	masked := Mask(source)
	switch {
	case strings.Contains(masked, KeywordStruct):
		return []string{"Structs are only treated as interfaces when they declare virtual methods"}
	case strings.TrimSpace(masked) == "":
		return []string{"The input contains only comments or preprocessor directives"}
	}
	return nil
}
