package parser

import "github.com/toyz/bridgegen/internal/errors"

// ScanBlock returns the text strictly between the brace at openIndex and its
// matching closing brace, plus the index just past that closing brace.
func ScanBlock(text string, openIndex int) (string, int, error) {
	return ScanDelimited(text, openIndex, '{', '}')
}

// ScanDelimited is ScanBlock for an arbitrary pair of delimiter bytes
func ScanDelimited(text string, openIndex int, open, close byte) (string, int, error) {
	if openIndex < 0 || openIndex >= len(text) || text[openIndex] != open {
		found := ""
		if openIndex >= 0 && openIndex < len(text) {
			found = string(text[openIndex])
		}
		return "", 0, errors.InvalidStart(openIndex, found)
	}

	depth := 1
	i := openIndex + 1
	for ; i < len(text) && depth > 0; i++ {
		switch text[i] {
		case open:
			depth++
		case close:
			depth--
		}
	}

	if depth != 0 {
		return "", 0, errors.UnbalancedDelimiters(openIndex, text[openIndex:])
	}

	return text[openIndex+1 : i-1], i, nil
}
