package models

// BridgeDescriptor represents the forwarding adapter derived from an interface
type BridgeDescriptor struct {
	DerivedName  string               // bridge class name
	Interface    *InterfaceDescriptor // wrapped interface
	Declarations []string             // method declarations in interface order
	Definitions  []string             // method definitions in interface order
}

// GeneratedFile represents one emitted text artifact
type GeneratedFile struct {
	Name    string // file name, e.g. "IShapeBridge.h"
	Content string // generated C++ content
}

// GeneratedBridge represents the declaration and definition units for one interface
type GeneratedBridge struct {
	BridgeName  string        // derived bridge class name
	Interface   string        // qualified interface name
	MethodCount int           // number of forwarded methods
	Declaration GeneratedFile // header unit
	Definition  GeneratedFile // source unit
}
