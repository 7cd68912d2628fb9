package parser

import (
	stderrors "errors"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"

	"github.com/toyz/bridgegen/internal/errors"
	"github.com/toyz/bridgegen/internal/models"
)

// classHead is a class or struct declaration whose body starts at open
type classHead struct {
	keyword lexer.Token
	name    string
	open    int // index into the significant token list
}

type namespaceScope struct {
	name  string
	depth int
}

// LocateInterface finds the first qualifying class declaration in text and
// returns it with its pure-virtual methods. A class always qualifies; a
// struct qualifies only when its body mentions virtual, otherwise it is a
// plain aggregate. Enumerations and unions never qualify.
func LocateInterface(text string) (*models.InterfaceDescriptor, error) {
	all, err := tokenize(text)
	if err != nil {
		return nil, errors.Wrap(errors.UnknownErrorCode, "failed to tokenize input", err)
	}
	masked := blank(text, all, tokBlockComment, tokLineComment, tokPreprocessor, tokString, tokChar)
	toks := significant(all)

	var namespaces []namespaceScope
	depth := 0

	for i := 0; i < len(toks); i++ {
		t := toks[i]
		switch {
		case isPunct(t, "{"):
			depth++

		case isPunct(t, "}"):
			if n := len(namespaces); n > 0 && namespaces[n-1].depth == depth {
				namespaces = namespaces[:n-1]
			}
			if depth > 0 {
				depth--
			}

		case isIdent(t, KeywordNamespace):
			name, open, ok := parseNamespaceHead(toks, i+1)
			if !ok {
				continue
			}
			depth++
			namespaces = append(namespaces, namespaceScope{name: name, depth: depth})
			i = open

		case isIdent(t, KeywordClass), isIdent(t, KeywordStruct):
			head, ok := parseClassHead(toks, i)
			if !ok {
				continue
			}

			openTok := toks[head.open]
			_, end, err := ScanBlock(masked, openTok.Pos.Offset)
			if err != nil {
				return nil, withPosition(err, openTok.Pos)
			}
			closeIdx := lastTokenBefore(toks, head.open, end)

			if t.Value == KeywordStruct && !mentionsVirtual(toks[head.open+1:closeIdx]) {
				i = closeIdx
				continue
			}

			body := text[openTok.Pos.Offset+1 : end-1]
			methods, err := ExtractMethods(body)
			if err != nil {
				return nil, errors.Wrap(errors.UnknownErrorCode, "failed to tokenize class body", err)
			}
			if len(methods) == 0 {
				return nil, errors.NoPureVirtualMethods(head.name).
					WithLocation(errors.SourceLocation{Line: t.Pos.Line, Column: t.Pos.Column}).
					WithContext("body", errors.Excerpt(strings.TrimSpace(body)))
			}

			// ExtractMethods counts lines from the start of body
			for m := range methods {
				methods[m].Line += openTok.Pos.Line - 1
			}

			return &models.InterfaceDescriptor{
				Name:      head.name,
				Kind:      t.Value,
				Namespace: joinNamespaces(namespaces),
				Line:      t.Pos.Line,
				Methods:   methods,
			}, nil
		}
	}

	return nil, errors.NoInterfaceFound()
}

// parseClassHead checks whether the keyword at i opens a class definition.
// Between the keyword and the name it tolerates attributes and export
// macros; the name is the last identifier before a base clause, final or
// the opening brace.
func parseClassHead(toks []lexer.Token, i int) (classHead, bool) {
	head := classHead{keyword: toks[i]}

	if i > 0 {
		prev := toks[i-1]
		if isIdent(prev, KeywordEnum) || isIdent(prev, KeywordFriend) || isPunct(prev, "<") || isPunct(prev, ",") {
			return head, false
		}
	}

	j := i + 1
nameLoop:
	for ; j < len(toks); j++ {
		t := toks[j]
		switch {
		case isPunct(t, "[") && j+1 < len(toks) && isPunct(toks[j+1], "["):
			end, ok := skipAttribute(toks, j)
			if !ok {
				return head, false
			}
			j = end
		case t.Type == tokIdent && t.Value == KeywordFinal:
			break nameLoop
		case t.Type == tokIdent && j+1 < len(toks) && isPunct(toks[j+1], "("):
			// alignas(...), __declspec(...) and similar
			end, ok := matchParen(toks, j+1)
			if !ok {
				return head, false
			}
			j = end
		case t.Type == tokIdent:
			if t.Value == KeywordClass || t.Value == KeywordStruct {
				return head, false
			}
			head.name = t.Value
		default:
			break nameLoop
		}
	}
	if head.name == "" {
		return head, false
	}

	angle := 0
	for ; j < len(toks); j++ {
		t := toks[j]
		switch {
		case isPunct(t, "{"):
			head.open = j
			return head, true
		case isPunct(t, "<"):
			angle++
		case isPunct(t, ">"):
			if angle > 0 {
				angle--
			}
		case isPunct(t, "(") && angle == 0:
			return head, false
		case isPunct(t, ";"), isPunct(t, ")") && angle == 0, isPunct(t, "="), isPunct(t, "}"):
			return head, false
		case isIdent(t, KeywordClass), isIdent(t, KeywordStruct):
			return head, false
		}
	}
	return head, false
}

// skipAttribute returns the index of the final ']' of a [[...]] attribute
func skipAttribute(toks []lexer.Token, j int) (int, bool) {
	depth := 0
	for ; j < len(toks); j++ {
		switch {
		case isPunct(toks[j], "["):
			depth++
		case isPunct(toks[j], "]"):
			depth--
			if depth == 0 {
				return j, true
			}
		}
	}
	return 0, false
}

// parseNamespaceHead reads "name(::name)* {" or "{" after the namespace
// keyword and returns the name and the index of the opening brace.
func parseNamespaceHead(toks []lexer.Token, j int) (string, int, bool) {
	var parts []string
	for ; j < len(toks); j++ {
		t := toks[j]
		switch {
		case isPunct(t, "{"):
			return strings.Join(parts, "::"), j, true
		case t.Type == tokIdent:
			parts = append(parts, t.Value)
		case t.Type == tokScope:
		default:
			return "", 0, false
		}
	}
	return "", 0, false
}

func joinNamespaces(scopes []namespaceScope) string {
	var names []string
	for _, s := range scopes {
		if s.name != "" {
			names = append(names, s.name)
		}
	}
	return strings.Join(names, "::")
}

// lastTokenBefore returns the index of the last token starting before offset
func lastTokenBefore(toks []lexer.Token, from, offset int) int {
	idx := from
	for j := from; j < len(toks) && toks[j].Pos.Offset < offset; j++ {
		idx = j
	}
	return idx
}

func mentionsVirtual(toks []lexer.Token) bool {
	for _, t := range toks {
		if isIdent(t, KeywordVirtual) {
			return true
		}
	}
	return false
}

// withPosition attaches a line and column to scanner errors
func withPosition(err error, pos lexer.Position) error {
	var be *errors.BaseError
	if stderrors.As(err, &be) {
		be.WithLocation(errors.SourceLocation{Line: pos.Line, Column: pos.Column})
	}
	return err
}
