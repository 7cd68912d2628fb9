package templates

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/toyz/bridgegen/internal/errors"
	"github.com/toyz/bridgegen/internal/utils"
)

// ErrTemplateNotFound is the cause of every lookup miss
var ErrTemplateNotFound = stderrors.New("template not found")

// TemplateSource maps template names to template text
type TemplateSource interface {
	Template(name string) (string, error)
	List() ([]string, error)
}

func notFound(name string) error {
	return errors.TemplateError(name, "load", "no such template").WithCause(ErrTemplateNotFound)
}

// MapSource is an in-memory TemplateSource
type MapSource map[string]string

// Template returns the named template
func (m MapSource) Template(name string) (string, error) {
	text, ok := m[name]
	if !ok {
		return "", notFound(name)
	}
	return text, nil
}

// List returns the template names in sorted order
func (m MapSource) List() ([]string, error) {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// DirSource loads templates from files in a directory. Contents are cached
// until the file changes on disk.
type DirSource struct {
	dir    string
	reader *utils.FileReader
}

// NewDirSource creates a source reading from dir
func NewDirSource(dir string, reader *utils.FileReader) *DirSource {
	if reader == nil {
		reader = utils.NewFileReader()
	}
	return &DirSource{dir: dir, reader: reader}
}

// Template reads dir/name
func (d *DirSource) Template(name string) (string, error) {
	if name == "" || strings.ContainsAny(name, `/\`) {
		return "", notFound(name)
	}
	path := filepath.Join(d.dir, name)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return "", notFound(name)
	}

	text, err := d.reader.ReadFile(path)
	if err != nil {
		return "", errors.WrapTemplateError(name, "load", err)
	}
	return text, nil
}

// List returns the template files in the directory
func (d *DirSource) List() ([]string, error) {
	entries, err := os.ReadDir(d.dir)
	if err != nil {
		return nil, errors.WrapFileSystemError("list", d.dir, err)
	}

	var names []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() {
			continue
		}
		if strings.HasSuffix(name, DeclarationSuffix) || strings.HasSuffix(name, DefinitionSuffix) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

// ChainSource consults each source in order; the first hit wins
type ChainSource []TemplateSource

// Template returns the named template from the first source that has it
func (c ChainSource) Template(name string) (string, error) {
	for _, source := range c {
		text, err := source.Template(name)
		if err == nil {
			return text, nil
		}
		if !stderrors.Is(err, ErrTemplateNotFound) {
			return "", err
		}
	}
	return "", notFound(name)
}

// List merges the names of all sources
func (c ChainSource) List() ([]string, error) {
	seen := make(map[string]bool)
	var names []string
	for _, source := range c {
		list, err := source.List()
		if err != nil {
			return nil, err
		}
		for _, name := range list {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	sort.Strings(names)
	return names, nil
}

// Pairs returns the names of pairs for which source has both units
func Pairs(source TemplateSource) ([]string, error) {
	names, err := source.List()
	if err != nil {
		return nil, err
	}

	have := make(map[string]bool, len(names))
	for _, name := range names {
		have[name] = true
	}

	var pairs []string
	for _, name := range names {
		if pair, ok := strings.CutSuffix(name, DeclarationSuffix); ok && have[DefinitionName(pair)] {
			pairs = append(pairs, pair)
		}
	}
	return pairs, nil
}

// LoadPair fetches both units of the named pair
func LoadPair(source TemplateSource, pair string) (declaration, definition string, err error) {
	declaration, err = source.Template(DeclarationName(pair))
	if err != nil {
		return "", "", err
	}
	definition, err = source.Template(DefinitionName(pair))
	if err != nil {
		return "", "", err
	}
	return declaration, definition, nil
}

// NewSource builds the template source for a run: templates in dir, when
// set, override the built-in pairs
func NewSource(dir string, reader *utils.FileReader) TemplateSource {
	builtin := DefaultTemplateRegistry.Source()
	if dir == "" {
		return builtin
	}
	return ChainSource{NewDirSource(dir, reader), builtin}
}
