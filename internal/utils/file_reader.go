package utils

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/toyz/bridgegen/internal/errors"
)

// FileReader reads header and template files, caching contents until the
// file changes on disk
type FileReader struct {
	contentCache *Cache[string, string]
}

// NewFileReader creates a new FileReader instance with caching
func NewFileReader() *FileReader {
	return &FileReader{
		contentCache: NewCache[string, string](),
	}
}

// ReadFile reads a file and returns its contents as a string with caching
func (fr *FileReader) ReadFile(filePath string) (string, error) {
	cleanPath, err := fr.validateAndCleanPath(filePath)
	if err != nil {
		return "", err
	}

	return fr.contentCache.GetOrLoadFile(cleanPath, cleanPath, func() (string, error) {
		content, err := os.ReadFile(cleanPath)
		if err != nil {
			return "", errors.WrapFileSystemError("read", cleanPath, err)
		}
		return string(content), nil
	})
}

// ClearCache clears all cached files
func (fr *FileReader) ClearCache() {
	fr.contentCache.Clear()
}

// InvalidateFile removes a specific file from the cache
func (fr *FileReader) InvalidateFile(filePath string) {
	fr.contentCache.Delete(filepath.Clean(filePath))
}

// CachedFiles returns the number of files currently cached
func (fr *FileReader) CachedFiles() int {
	return fr.contentCache.Size()
}

// validateAndCleanPath validates and cleans a file path
func (fr *FileReader) validateAndCleanPath(filePath string) (string, error) {
	if err := NotEmpty("filePath")(filePath); err != nil {
		return "", errors.WrapFileSystemError("read", filePath, err)
	}

	cleanPath := filepath.Clean(filePath)

	// ".." is only allowed as a leading relative component
	if strings.Contains(cleanPath, "..") && !strings.HasPrefix(cleanPath, "..") {
		return "", errors.New(errors.FileSystemErrorCode, "path traversal not allowed in file path: "+filePath).
			WithContext("path", filePath)
	}

	info, err := os.Stat(cleanPath)
	if err != nil {
		return "", errors.WrapFileSystemError("stat", cleanPath, err)
	}
	if info.IsDir() {
		return "", errors.New(errors.FileSystemErrorCode, "expected a file but found a directory: "+cleanPath).
			WithContext("path", cleanPath)
	}

	return cleanPath, nil
}
