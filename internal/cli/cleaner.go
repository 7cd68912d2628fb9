package cli

import (
	"path/filepath"
	"strings"

	"github.com/toyz/bridgegen/internal/templates"
	"github.com/toyz/bridgegen/internal/utils"
)

// Cleaner handles cleaning up generated files
type Cleaner struct {
	fileProcessor *utils.FileProcessor
	suffixes      []string
}

// NewCleaner creates a cleaner removing units whose names end in one of suffixes
func NewCleaner(suffixes []string) *Cleaner {
	return &Cleaner{
		fileProcessor: utils.NewFileProcessor(),
		suffixes:      suffixes,
	}
}

// CleanGeneratedFiles removes generated bridge units under paths. A path
// may be a directory (always walked recursively, "dir/..." is accepted too)
// or a single file. Files without the generated marker are never touched.
func (c *Cleaner) CleanGeneratedFiles(paths []string) ([]string, error) {
	if len(paths) == 0 {
		paths = []string{"."}
	}

	bases := make([]string, 0, len(paths))
	for _, path := range paths {
		base := strings.TrimSuffix(filepath.ToSlash(path), RecursiveSuffix)
		if base == "" {
			base = "."
		}
		bases = append(bases, filepath.FromSlash(base))
	}

	return c.fileProcessor.CleanGenerated(bases, templates.GeneratedMarker, c.suffixes)
}
