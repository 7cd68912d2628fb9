package generator

import "github.com/toyz/bridgegen/internal/models"

// CodeGenerator defines the interface for turning a parsed interface into bridge units
type CodeGenerator interface {
	Describe(iface *models.InterfaceDescriptor) (*models.BridgeDescriptor, error)
	Generate(iface *models.InterfaceDescriptor) (*models.GeneratedBridge, error)
	BridgeName(iface *models.InterfaceDescriptor) string
}

var _ CodeGenerator = (*Generator)(nil)
