package parser

import (
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/toyz/bridgegen/internal/models"
)

// ExtractMethods scans a class body for pure-virtual method declarations of
// the form
//
//	virtual <return-type> <name> ( <parameters> ) [const] [noexcept] = 0 ;
//
// Only declarations at the top level of block are considered; nested type
// bodies and inline method bodies are skipped. Declarations that do not fit
// the grammar are ignored, so an empty result is not an error.
func ExtractMethods(block string) ([]models.MethodSignature, error) {
	all, err := tokenize(block)
	if err != nil {
		return nil, err
	}
	text := stripComments(block, all)
	toks := significant(all)

	var methods []models.MethodSignature
	depth := 0
	for i := 0; i < len(toks); i++ {
		t := toks[i]
		switch {
		case isPunct(t, "{"):
			depth++
		case isPunct(t, "}"):
			if depth > 0 {
				depth--
			}
		case depth == 0 && isIdent(t, KeywordVirtual):
			if method, next, ok := parseMethod(text, toks, i+1); ok {
				method.Line = t.Pos.Line
				methods = append(methods, method)
				i = next - 1
			}
		}
	}

	return methods, nil
}

// parseMethod reads one declaration starting just after "virtual". It returns
// the signature, the index of the token following the terminating ';' and
// whether the tokens matched the pure-virtual grammar.
func parseMethod(text string, toks []lexer.Token, start int) (models.MethodSignature, int, bool) {
	var none models.MethodSignature

	open, ok := findParamsOpen(toks, start)
	if !ok {
		return none, 0, false
	}

	nameIdx := open - 1
	if nameIdx <= start {
		return none, 0, false // no return type
	}
	name := toks[nameIdx]
	if name.Type != tokIdent || name.Value == KeywordOperator || !isParameterName(name.Value) {
		return none, 0, false
	}
	if prev := toks[nameIdx-1]; prev.Type == tokScope || isPunct(prev, "~") {
		return none, 0, false
	}

	closeIdx, ok := matchParen(toks, open)
	if !ok {
		return none, 0, false
	}

	method := models.MethodSignature{
		ReturnType: spanText(text, toks[start:nameIdx]),
		Name:       name.Value,
		Parameters: parseParameters(text, toks[open+1:closeIdx]),
	}

	i := closeIdx + 1
	if i < len(toks) && isIdent(toks[i], KeywordConst) {
		method.IsConst = true
		i++
	}
	if i < len(toks) && isIdent(toks[i], KeywordNoexcept) {
		method.IsNoexcept = true
		i++
	}

	if i+2 >= len(toks) ||
		!isPunct(toks[i], "=") ||
		toks[i+1].Type != tokNumber || toks[i+1].Value != PureVirtualMarker ||
		!isPunct(toks[i+2], ";") {
		return none, 0, false
	}

	return method, i + 3, true
}

// findParamsOpen locates the '(' that opens the parameter list, stepping over
// template argument lists in the return type.
func findParamsOpen(toks []lexer.Token, start int) (int, bool) {
	angle := 0
	for j := start; j < len(toks); j++ {
		t := toks[j]
		if t.Type != tokPunct {
			continue
		}
		switch t.Value {
		case "<":
			if j > start && toks[j-1].Type == tokIdent {
				angle++
			}
		case ">":
			if angle > 0 {
				angle--
			}
		case "(":
			if angle == 0 {
				return j, true
			}
		case ";", "{", "}", "=":
			return 0, false
		}
	}
	return 0, false
}

// matchParen returns the index of the ')' matching the '(' at open
func matchParen(toks []lexer.Token, open int) (int, bool) {
	depth := 0
	for j := open; j < len(toks); j++ {
		switch {
		case isPunct(toks[j], "("):
			depth++
		case isPunct(toks[j], ")"):
			depth--
			if depth == 0 {
				return j, true
			}
		case isPunct(toks[j], ";"):
			return 0, false
		}
	}
	return 0, false
}

// parseParameters splits a parameter list on top-level commas
func parseParameters(text string, toks []lexer.Token) []models.Parameter {
	if len(toks) == 0 {
		return nil
	}
	if len(toks) == 1 && isIdent(toks[0], KeywordVoid) {
		return nil
	}

	segments := splitTopLevel(toks, ",")
	params := make([]models.Parameter, 0, len(segments))
	for _, segment := range segments {
		params = append(params, parseParameter(text, segment))
	}
	return params
}

// parseParameter separates one segment into type, name and default argument
func parseParameter(text string, toks []lexer.Token) models.Parameter {
	var param models.Parameter

	decl := toks
	if eq := indexTopLevel(toks, "="); eq >= 0 {
		decl = toks[:eq]
		param.Default = spanText(text, toks[eq+1:])
	}
	if len(decl) == 0 {
		return param
	}

	nameIdx := declaratorName(decl)
	if nameIdx < 0 {
		param.Type = spanText(text, decl)
		return param
	}

	param.Name = decl[nameIdx].Value
	param.Type = spanText(text, decl[:nameIdx])
	if nameIdx < len(decl)-1 {
		param.Type += spanText(text, decl[nameIdx+1:])
		param.Declarator = spanText(text, decl)
	}
	return param
}

// declaratorName returns the index of the parameter name in decl, or -1 for
// a type-only declaration. The name is the trailing identifier, the one
// before trailing array bounds, or the one inside a (*name) group.
func declaratorName(decl []lexer.Token) int {
	end := len(decl)
	for end > 0 && isPunct(decl[end-1], "]") {
		open := matchBackward(decl, end-1, "[", "]")
		if open < 0 {
			return -1
		}
		end = open
	}
	if end > 0 && decl[end-1].Type == tokIdent {
		if isTrailingName(decl[:end]) {
			return end - 1
		}
		return -1
	}
	return groupedName(decl)
}

// isTrailingName reports whether the last token of decl names the parameter
// rather than ending its type
func isTrailingName(decl []lexer.Token) bool {
	n := len(decl)
	if n < 2 || !isParameterName(decl[n-1].Value) || decl[n-2].Type == tokScope {
		return false
	}
	for _, t := range decl[:n-1] {
		if t.Type != tokIdent || !typeElaborators[t.Value] {
			return true
		}
	}
	// "const Widget" and "struct Foo" are types without a name
	return false
}

// groupedName finds the name of a function pointer or array reference
// declarator such as "void (*cb)(int)" or "int (&v)[4]"
func groupedName(decl []lexer.Token) int {
	var depth nesting
	for j := 1; j < len(decl); j++ {
		if isPunct(decl[j], "(") && depth.topLevel() {
			closeIdx, ok := matchParen(decl, j)
			if !ok {
				return -1
			}
			inner := decl[j+1 : closeIdx]
			if len(inner) >= 2 && (isPunct(inner[0], "*") || isPunct(inner[0], "&")) {
				last := inner[len(inner)-1]
				if last.Type == tokIdent && isParameterName(last.Value) && inner[len(inner)-2].Type != tokScope {
					return closeIdx - 1
				}
			}
			return -1
		}
		depth.step(decl, j)
	}
	return -1
}

// matchBackward returns the index of the open token matching the close token at end
func matchBackward(toks []lexer.Token, end int, open, closing string) int {
	depth := 0
	for j := end; j >= 0; j-- {
		switch {
		case isPunct(toks[j], closing):
			depth++
		case isPunct(toks[j], open):
			depth--
			if depth == 0 {
				return j
			}
		}
	}
	return -1
}

// nesting tracks bracket depth while walking a token list. A '<' only opens
// a template argument list when it directly follows an identifier. In
// literal mode a '<' or '>' inside a default argument is an operator.
type nesting struct {
	paren, square, brace, angle int

	literal   bool
	inDefault bool
}

func (n *nesting) step(toks []lexer.Token, j int) {
	t := toks[j]
	if t.Type != tokPunct {
		return
	}
	switch t.Value {
	case "(":
		n.paren++
	case ")":
		n.paren--
	case "[":
		n.square++
	case "]":
		n.square--
	case "{":
		n.brace++
	case "}":
		n.brace--
	case "=":
		if n.literal && n.topLevel() {
			n.inDefault = true
		}
	case "<":
		if !n.inDefault && j > 0 && toks[j-1].Type == tokIdent {
			n.angle++
		}
	case ">":
		if !n.inDefault && n.angle > 0 {
			n.angle--
		}
	}
}

func (n *nesting) topLevel() bool {
	return n.paren <= 0 && n.square <= 0 && n.brace <= 0 && n.angle <= 0
}

// splitTopLevel splits toks at punctuation sep outside any brackets. A '<'
// left open at the end was a comparison in a default argument, so the list
// is split again with defaults read literally.
func splitTopLevel(toks []lexer.Token, sep string) [][]lexer.Token {
	segments, depth := split(toks, sep, false)
	if depth.angle > 0 {
		segments, _ = split(toks, sep, true)
	}
	return segments
}

func split(toks []lexer.Token, sep string, literal bool) ([][]lexer.Token, nesting) {
	var (
		segments [][]lexer.Token
		begin    int
	)
	depth := nesting{literal: literal}
	for j := range toks {
		if isPunct(toks[j], sep) && depth.topLevel() {
			segments = append(segments, toks[begin:j])
			begin = j + 1
			depth.inDefault = false
			continue
		}
		depth.step(toks, j)
	}
	return append(segments, toks[begin:]), depth
}

// indexTopLevel returns the index of the first top-level sep, or -1
func indexTopLevel(toks []lexer.Token, sep string) int {
	var depth nesting
	for j := range toks {
		if isPunct(toks[j], sep) && depth.topLevel() {
			return j
		}
		depth.step(toks, j)
	}
	return -1
}
