package parser

import (
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
)

// cppLexer tokenizes the subset of C++ needed to read interface headers.
// Every input character matches some rule, so lexing cannot fail on
// malformed headers; stray characters come out as Punct.
var cppLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "BlockComment", Pattern: `/\*(?s:.*?)\*/`},
	{Name: "LineComment", Pattern: `//[^\n]*`},
	{Name: "Preprocessor", Pattern: `#(?:\\\n|[^\n])*`},
	{Name: "String", Pattern: `"(?:\\.|[^"\\\n])*"`},
	{Name: "Char", Pattern: `'(?:\\.|[^'\\\n])*'`},
	{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_]*`},
	{Name: "Number", Pattern: `[0-9][0-9A-Za-z_.']*`},
	{Name: "Scope", Pattern: `::`},
	{Name: "Punct", Pattern: `[^\sA-Za-z0-9_]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var (
	symbols = cppLexer.Symbols()

	tokBlockComment = symbols["BlockComment"]
	tokLineComment  = symbols["LineComment"]
	tokPreprocessor = symbols["Preprocessor"]
	tokString       = symbols["String"]
	tokChar         = symbols["Char"]
	tokIdent        = symbols["Ident"]
	tokNumber       = symbols["Number"]
	tokScope        = symbols["Scope"]
	tokPunct        = symbols["Punct"]
	tokWhitespace   = symbols["Whitespace"]
)

// tokenize lexes text into its full token stream, EOF excluded
func tokenize(text string) ([]lexer.Token, error) {
	lex, err := cppLexer.LexString("", text)
	if err != nil {
		return nil, err
	}
	tokens, err := lexer.ConsumeAll(lex)
	if err != nil {
		return nil, err
	}
	if n := len(tokens); n > 0 && tokens[n-1].EOF() {
		tokens = tokens[:n-1]
	}
	return tokens, nil
}

// significant drops whitespace, comments and preprocessor lines
func significant(tokens []lexer.Token) []lexer.Token {
	out := make([]lexer.Token, 0, len(tokens))
	for _, t := range tokens {
		switch t.Type {
		case tokWhitespace, tokBlockComment, tokLineComment, tokPreprocessor:
			continue
		}
		out = append(out, t)
	}
	return out
}

// blank replaces the characters of every token whose type is in kinds with
// spaces. Newlines survive so offsets, lines and columns stay valid.
func blank(text string, tokens []lexer.Token, kinds ...lexer.TokenType) string {
	buf := []byte(text)
	for _, t := range tokens {
		if !hasKind(t.Type, kinds) {
			continue
		}
		end := t.Pos.Offset + len(t.Value)
		for i := t.Pos.Offset; i < end && i < len(buf); i++ {
			if buf[i] != '\n' {
				buf[i] = ' '
			}
		}
	}
	return string(buf)
}

func hasKind(kind lexer.TokenType, kinds []lexer.TokenType) bool {
	for _, k := range kinds {
		if k == kind {
			return true
		}
	}
	return false
}

// Mask returns text with comments, preprocessor lines and string or
// character literals blanked out. The result has the same length as text.
func Mask(text string) string {
	tokens, err := tokenize(text)
	if err != nil {
		return text
	}
	return blank(text, tokens, tokBlockComment, tokLineComment, tokPreprocessor, tokString, tokChar)
}

// stripComments blanks only comments and preprocessor lines, keeping literals
func stripComments(text string, tokens []lexer.Token) string {
	return blank(text, tokens, tokBlockComment, tokLineComment, tokPreprocessor)
}

// spanText returns the collapsed source text covered by toks
func spanText(text string, toks []lexer.Token) string {
	if len(toks) == 0 {
		return ""
	}
	first, last := toks[0], toks[len(toks)-1]
	return collapseSpace(text[first.Pos.Offset : last.Pos.Offset+len(last.Value)])
}

// collapseSpace trims s and folds every whitespace run into one space
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func isPunct(t lexer.Token, value string) bool {
	return t.Type == tokPunct && t.Value == value
}

func isIdent(t lexer.Token, value string) bool {
	return t.Type == tokIdent && t.Value == value
}
