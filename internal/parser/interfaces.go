package parser

import "github.com/toyz/bridgegen/internal/models"

// InterfaceParser defines the interface for reading a C++ header and extracting its abstract interface
type InterfaceParser interface {
	ParseFile(path string) (*models.InterfaceDescriptor, error)
	ParseSource(filename, source string) (*models.InterfaceDescriptor, error)
}
