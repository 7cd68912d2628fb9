package parser

import (
	stderrors "errors"

	"github.com/toyz/bridgegen/internal/errors"
	"github.com/toyz/bridgegen/internal/models"
	"github.com/toyz/bridgegen/internal/utils"
)

// Parser implements the InterfaceParser interface
type Parser struct {
	reader *utils.FileReader
}

// NewParser creates a new header parser with its own file cache
func NewParser() *Parser {
	return NewParserWithReader(utils.NewFileReader())
}

// NewParserWithReader creates a parser that shares reader's cache
func NewParserWithReader(reader *utils.FileReader) *Parser {
	return &Parser{reader: reader}
}

// ParseFile reads the header at path and extracts its first abstract interface
func (p *Parser) ParseFile(path string) (*models.InterfaceDescriptor, error) {
	source, err := p.reader.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return p.ParseSource(path, source)
}

// ParseSource extracts the first abstract interface from source. filename is
// only used to annotate the descriptor and any error.
func (p *Parser) ParseSource(filename, source string) (*models.InterfaceDescriptor, error) {
	iface, err := LocateInterface(source)
	if err != nil {
		var be *errors.BaseError
		if filename != "" && stderrors.As(err, &be) {
			be.WithFile(filename)
		}
		return nil, err
	}

	iface.File = filename
	return iface, nil
}
