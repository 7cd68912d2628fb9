package generator

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/toyz/bridgegen/internal/errors"
)

// Naming convention identifiers accepted in configuration
const (
	NamingSuffix      = "suffix"
	NamingStripPrefix = "strip-prefix"

	DefaultSuffix = "Bridge"
	DefaultMarker = "I"
)

// NamingConvention derives the bridge class name from the interface name
type NamingConvention interface {
	BridgeName(interfaceName string) string
}

// SuffixNaming appends Suffix: IShape becomes IShapeBridge
type SuffixNaming struct {
	Suffix string
}

// BridgeName implements NamingConvention
func (n SuffixNaming) BridgeName(interfaceName string) string {
	return interfaceName + n.Suffix
}

// StripPrefixNaming drops a leading Marker before appending Suffix: IWork
// becomes WorkBridge. The marker is only stripped when an upper-case letter
// follows it, so Item stays ItemBridge.
type StripPrefixNaming struct {
	Marker string
	Suffix string
}

// BridgeName implements NamingConvention
func (n StripPrefixNaming) BridgeName(interfaceName string) string {
	rest, ok := strings.CutPrefix(interfaceName, n.Marker)
	if ok && n.Marker != "" {
		if r, _ := utf8.DecodeRuneInString(rest); unicode.IsUpper(r) {
			return rest + n.Suffix
		}
	}
	return interfaceName + n.Suffix
}

// NewNamingConvention builds the convention named kind
func NewNamingConvention(kind, marker, suffix string) (NamingConvention, error) {
	switch kind {
	case NamingSuffix, "":
		return SuffixNaming{Suffix: suffix}, nil
	case NamingStripPrefix:
		return StripPrefixNaming{Marker: marker, Suffix: suffix}, nil
	default:
		return nil, errors.ConfigurationError("naming", fmt.Sprintf("unknown naming convention %q", kind)).
			WithSuggestion(fmt.Sprintf("Use %q or %q", NamingSuffix, NamingStripPrefix))
	}
}

// ForwardingStyle selects how bridge methods reach the implementation
type ForwardingStyle string

const (
	// StyleGuarded checks impl_ before every call and falls back to a default value
	StyleGuarded ForwardingStyle = "guarded"
	// StyleDirect forwards unconditionally
	StyleDirect ForwardingStyle = "direct"
)

// ParseForwardingStyle validates a configured style name
func ParseForwardingStyle(name string) (ForwardingStyle, error) {
	switch ForwardingStyle(name) {
	case StyleGuarded, "":
		return StyleGuarded, nil
	case StyleDirect:
		return StyleDirect, nil
	default:
		return "", errors.ConfigurationError("style", fmt.Sprintf("unknown forwarding style %q", name)).
			WithSuggestion(fmt.Sprintf("Use %q or %q", StyleGuarded, StyleDirect))
	}
}
