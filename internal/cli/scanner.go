package cli

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/toyz/bridgegen/internal/errors"
	"github.com/toyz/bridgegen/internal/utils"
)

// RecursiveSuffix marks a directory argument that is scanned recursively, as in "include/..."
const RecursiveSuffix = "/..."

// HeaderInput is one header selected for generation
type HeaderInput struct {
	Path string

	// Explicit is set when the header was named directly rather than found
	// by a directory walk or glob
	Explicit bool
}

// HeaderScanner resolves command line inputs to header files
type HeaderScanner struct {
	fileProcessor *utils.FileProcessor
	include       []string
	exclude       []string
	generated     utils.FileFilter // matches our own output, never scanned as input
}

// NewHeaderScanner creates a scanner applying include and exclude inside directories
func NewHeaderScanner(processor *utils.FileProcessor, include, exclude []string) *HeaderScanner {
	if processor == nil {
		processor = utils.NewFileProcessor()
	}
	return &HeaderScanner{
		fileProcessor: processor,
		include:       include,
		exclude:       exclude,
	}
}

// SkipGenerated keeps discovery away from units a previous run wrote:
// files ending in one of suffixes whose first line is marker
func (s *HeaderScanner) SkipGenerated(marker string, suffixes []string) *HeaderScanner {
	s.generated = utils.GeneratedFileFilter(s.fileProcessor.GetFileReader(), marker, suffixes)
	return s
}

func (s *HeaderScanner) isGenerated(path string, entry os.DirEntry) bool {
	return s.generated != nil && s.generated(path, entry)
}

// Scan resolves inputs. Each input is a header file, a directory (its direct
// children), a directory followed by "/..." (recursive) or a doublestar glob.
// The result is sorted and free of duplicates.
func (s *HeaderScanner) Scan(inputs []string) ([]HeaderInput, error) {
	found := make(map[string]bool) // path -> explicit
	failures := errors.NewMultipleErrors()

	add := func(path string, explicit bool) {
		path = filepath.Clean(path)
		found[path] = found[path] || explicit
	}

	for _, input := range inputs {
		switch {
		case strings.HasSuffix(filepath.ToSlash(input), RecursiveSuffix):
			base := strings.TrimSuffix(filepath.ToSlash(input), RecursiveSuffix)
			if base == "" {
				base = "."
			}
			paths, err := s.scanDirectory(filepath.FromSlash(base), true)
			if err != nil {
				failures.Add(err)
				continue
			}
			for _, path := range paths {
				add(path, false)
			}

		case hasGlobMeta(input):
			paths, err := s.scanGlob(input)
			if err != nil {
				failures.Add(err)
				continue
			}
			for _, path := range paths {
				add(path, false)
			}

		default:
			info, err := os.Stat(input)
			if err != nil {
				failures.Add(errors.WrapFileSystemError("stat", input, err).
					WithSuggestion("Pass a header file, a directory, dir/... or a glob such as 'include/**/*.h'"))
				continue
			}
			if !info.IsDir() {
				add(input, true)
				continue
			}
			paths, err := s.scanDirectory(input, false)
			if err != nil {
				failures.Add(err)
				continue
			}
			for _, path := range paths {
				add(path, false)
			}
		}
	}

	headers := make([]HeaderInput, 0, len(found))
	for path, explicit := range found {
		headers = append(headers, HeaderInput{Path: path, Explicit: explicit})
	}
	sort.Slice(headers, func(i, j int) bool { return headers[i].Path < headers[j].Path })

	return headers, failures.ErrOrNil()
}

// scanDirectory lists headers under root that match the include patterns
func (s *HeaderScanner) scanDirectory(root string, recursive bool) ([]string, error) {
	dirFilter := utils.DefaultDirectoryFilter(root, s.exclude)
	if !recursive {
		dirFilter = func(path string, info os.DirEntry) bool {
			return filepath.Clean(path) == filepath.Clean(root)
		}
	}

	matches := utils.GlobFileFilter(root, s.include, s.exclude)
	return s.fileProcessor.WalkFiles(root, utils.FileWalkOptions{
		FileFilter: func(path string, entry os.DirEntry) bool {
			return matches(path, entry) && !s.isGenerated(path, entry)
		},
		DirectoryFilter: dirFilter,
	})
}

// scanGlob expands a doublestar pattern. Matches are taken as headers
// regardless of include, but exclude still applies.
func (s *HeaderScanner) scanGlob(pattern string) ([]string, error) {
	matches, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return nil, errors.WrapFileSystemError("expand glob", pattern, err)
	}

	var paths []string
	for _, match := range matches {
		info, err := os.Stat(match)
		if err != nil || info.IsDir() {
			continue
		}
		if utils.MatchAny(s.exclude, filepath.ToSlash(match)) || s.isGenerated(match, fs.FileInfoToDirEntry(info)) {
			continue
		}
		paths = append(paths, match)
	}
	return paths, nil
}

func hasGlobMeta(input string) bool {
	return strings.ContainsAny(input, "*?[{")
}
