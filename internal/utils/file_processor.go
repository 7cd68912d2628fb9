package utils

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/toyz/bridgegen/internal/errors"
)

// FileProcessor provides utilities for walking header trees and cleaning
// generated output
type FileProcessor struct {
	fileReader *FileReader
}

// NewFileProcessor creates a new file processor
func NewFileProcessor() *FileProcessor {
	return &FileProcessor{
		fileReader: NewFileReader(),
	}
}

// NewFileProcessorWithReader creates a file processor with an existing FileReader
func NewFileProcessorWithReader(reader *FileReader) *FileProcessor {
	return &FileProcessor{
		fileReader: reader,
	}
}

// FileFilter defines a function that determines whether a file should be processed
type FileFilter func(path string, info os.DirEntry) bool

// DirectoryFilter defines a function that determines whether a directory should be descended into
type DirectoryFilter func(path string, info os.DirEntry) bool

// FileWalkOptions configures file walking behavior
type FileWalkOptions struct {
	FileFilter      FileFilter
	DirectoryFilter DirectoryFilter
	SkipErrors      bool
}

// MatchAny reports whether the slash-separated path matches any doublestar pattern
func MatchAny(patterns []string, path string) bool {
	for _, pattern := range patterns {
		if matched, err := doublestar.Match(pattern, path); err == nil && matched {
			return true
		}
	}
	return false
}

// relSlash returns path relative to root with forward slashes
func relSlash(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

// GlobFileFilter accepts files under root whose relative path matches an
// include pattern and no exclude pattern
func GlobFileFilter(root string, include, exclude []string) FileFilter {
	return func(path string, info os.DirEntry) bool {
		if info.IsDir() {
			return false
		}
		rel := relSlash(root, path)
		return MatchAny(include, rel) && !MatchAny(exclude, rel)
	}
}

// GeneratedFileFilter accepts files whose name ends in one of suffixes and
// whose content starts with marker
func GeneratedFileFilter(reader *FileReader, marker string, suffixes []string) FileFilter {
	return func(path string, info os.DirEntry) bool {
		if info.IsDir() {
			return false
		}
		name := info.Name()
		matched := false
		for _, suffix := range suffixes {
			if strings.HasSuffix(name, suffix) && len(name) > len(suffix) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
		content, err := reader.ReadFile(path)
		return err == nil && strings.HasPrefix(content, marker)
	}
}

// DefaultDirectoryFilter skips hidden directories and those matching an
// exclude pattern, relative to root
func DefaultDirectoryFilter(root string, exclude []string) DirectoryFilter {
	return func(path string, info os.DirEntry) bool {
		if !info.IsDir() {
			return true
		}
		if filepath.Clean(path) == filepath.Clean(root) {
			return true
		}

		name := info.Name()
		if strings.HasPrefix(name, ".") && name != "." && name != ".." {
			return false
		}
		return !MatchAny(exclude, relSlash(root, path)+"/")
	}
}

// WalkFiles walks through files in a directory tree with filtering. The
// result is sorted so repeated runs see headers in the same order.
func (fp *FileProcessor) WalkFiles(rootDir string, options FileWalkOptions) ([]string, error) {
	var matchedFiles []string

	err := filepath.WalkDir(rootDir, func(path string, entry os.DirEntry, err error) error {
		if err != nil {
			if options.SkipErrors {
				return nil
			}
			return err
		}

		if entry.IsDir() {
			if options.DirectoryFilter != nil && !options.DirectoryFilter(path, entry) {
				return filepath.SkipDir
			}
			return nil
		}

		if options.FileFilter == nil || options.FileFilter(path, entry) {
			matchedFiles = append(matchedFiles, path)
		}
		return nil
	})
	if err != nil {
		return nil, errors.WrapFileSystemError("walk", rootDir, err)
	}

	sort.Strings(matchedFiles)
	return matchedFiles, nil
}

// CleanGenerated removes generated units under each base path. A base path
// may also name a single file. It returns the removed paths.
func (fp *FileProcessor) CleanGenerated(basePaths []string, marker string, suffixes []string) ([]string, error) {
	var removed []string
	filter := GeneratedFileFilter(fp.fileReader, marker, suffixes)
	failures := errors.NewMultipleErrors()

	for _, base := range basePaths {
		info, err := os.Stat(base)
		if err != nil {
			failures.Add(errors.WrapFileSystemError("stat", base, err))
			continue
		}

		var candidates []string
		if info.IsDir() {
			candidates, err = fp.WalkFiles(base, FileWalkOptions{
				FileFilter:      filter,
				DirectoryFilter: DefaultDirectoryFilter(base, nil),
				SkipErrors:      true,
			})
			if err != nil {
				failures.Add(err)
				continue
			}
		} else if filter(base, dirEntry{info}) {
			candidates = []string{base}
		}

		for _, path := range candidates {
			if err := os.Remove(path); err != nil {
				failures.Add(errors.WrapFileSystemError("remove", path, err))
				continue
			}
			fp.fileReader.InvalidateFile(path)
			removed = append(removed, path)
		}
	}

	return removed, failures.ErrOrNil()
}

// GetFileReader returns the underlying FileReader for advanced operations
func (fp *FileProcessor) GetFileReader() *FileReader {
	return fp.fileReader
}

// dirEntry adapts an os.FileInfo for filters that expect a DirEntry
type dirEntry struct {
	info os.FileInfo
}

func (f dirEntry) Name() string               { return f.info.Name() }
func (f dirEntry) IsDir() bool                { return f.info.IsDir() }
func (f dirEntry) Type() os.FileMode          { return f.info.Mode().Type() }
func (f dirEntry) Info() (os.FileInfo, error) { return f.info, nil }
