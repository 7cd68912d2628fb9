package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/bridgegen/internal/errors"
)

func TestNamingConventions(t *testing.T) {
	tests := []struct {
		kind  string
		iface string
		want  string
	}{
		{NamingSuffix, "IShape", "IShapeBridge"},
		{NamingSuffix, "Shape", "ShapeBridge"},
		{"", "IShape", "IShapeBridge"},
		{NamingStripPrefix, "IWork", "WorkBridge"},
		{NamingStripPrefix, "Work", "WorkBridge"},
		{NamingStripPrefix, "Item", "ItemBridge"},
		{NamingStripPrefix, "I", "IBridge"},
	}

	for _, tt := range tests {
		t.Run(tt.kind+"/"+tt.iface, func(t *testing.T) {
			naming, err := NewNamingConvention(tt.kind, DefaultMarker, DefaultSuffix)
			require.NoError(t, err)
			assert.Equal(t, tt.want, naming.BridgeName(tt.iface))
		})
	}
}

func TestNamingConventions_CustomSuffix(t *testing.T) {
	naming, err := NewNamingConvention(NamingStripPrefix, "Abstract", "Proxy")
	require.NoError(t, err)
	assert.Equal(t, "RendererProxy", naming.BridgeName("AbstractRenderer"))
}

func TestNewNamingConvention_Unknown(t *testing.T) {
	_, err := NewNamingConvention("camel", DefaultMarker, DefaultSuffix)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ConfigurationErrorCode))
}

func TestParseForwardingStyle(t *testing.T) {
	style, err := ParseForwardingStyle("")
	require.NoError(t, err)
	assert.Equal(t, StyleGuarded, style)

	style, err = ParseForwardingStyle("direct")
	require.NoError(t, err)
	assert.Equal(t, StyleDirect, style)

	_, err = ParseForwardingStyle("lazy")
	assert.True(t, errors.HasCode(err, errors.ConfigurationErrorCode))
}
