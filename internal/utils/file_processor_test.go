package utils

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("Failed to create test file %s: %v", name, err)
		}
	}
}

func TestFileProcessor_WalkHeaders(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"IShape.h":              "class IShape {};",
		"gfx/IRenderer.hpp":     "class IRenderer {};",
		"gfx/renderer.cpp":      "",
		"build/IGenerated.h":    "",
		".hidden/ISecret.h":     "",
		"third_party/lib/IX.h":  "",
		"docs/README.md":        "",
		"gfx/detail/IDetail.hh": "",
	})

	include := []string{"**/*.h", "**/*.hpp", "**/*.hh"}
	exclude := []string{"**/build/**", "**/third_party/**"}

	fp := NewFileProcessor()
	files, err := fp.WalkFiles(root, FileWalkOptions{
		FileFilter:      GlobFileFilter(root, include, exclude),
		DirectoryFilter: DefaultDirectoryFilter(root, exclude),
	})
	if err != nil {
		t.Fatalf("WalkFiles failed: %v", err)
	}

	var rel []string
	for _, f := range files {
		rel = append(rel, relSlash(root, f))
	}
	expected := []string{"IShape.h", "gfx/IRenderer.hpp", "gfx/detail/IDetail.hh"}
	if !reflect.DeepEqual(rel, expected) {
		t.Errorf("expected %v, got %v", expected, rel)
	}
}

func TestFileProcessor_WalkMissingRoot(t *testing.T) {
	fp := NewFileProcessor()
	if _, err := fp.WalkFiles(filepath.Join(t.TempDir(), "missing"), FileWalkOptions{}); err == nil {
		t.Error("expected an error for a missing root")
	}
}

func TestMatchAny(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"IShape.h", true},
		{"a/b/IShape.h", true},
		{"IShape.cpp", false},
		{"build/", false},
	}
	for _, tt := range tests {
		if got := MatchAny([]string{"**/*.h"}, tt.path); got != tt.want {
			t.Errorf("MatchAny(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestFileProcessor_CleanGenerated(t *testing.T) {
	root := t.TempDir()
	marker := "// Auto generated file"
	writeTree(t, root, map[string]string{
		"IShapeBridge.h":      marker + "\n#pragma once\n",
		"IShapeBridge.cpp":    marker + "\n#include \"IShapeBridge.h\"\n",
		"HandWrittenBridge.h": "#pragma once\n",
		"IShape.h":            marker + "\n",
		"sub/IWorkBridge.cpp": marker + "\n",
		"Bridge.h":            marker + "\n",
	})

	fp := NewFileProcessor()
	removed, err := fp.CleanGenerated([]string{root}, marker, []string{"Bridge.h", "Bridge.cpp"})
	if err != nil {
		t.Fatalf("CleanGenerated failed: %v", err)
	}
	if len(removed) != 3 {
		t.Errorf("expected 3 removed files, got %v", removed)
	}

	for _, kept := range []string{"HandWrittenBridge.h", "IShape.h", "Bridge.h"} {
		if _, err := os.Stat(filepath.Join(root, kept)); err != nil {
			t.Errorf("expected %s to survive: %v", kept, err)
		}
	}
	for _, gone := range []string{"IShapeBridge.h", "IShapeBridge.cpp", "sub/IWorkBridge.cpp"} {
		if _, err := os.Stat(filepath.Join(root, filepath.FromSlash(gone))); !os.IsNotExist(err) {
			t.Errorf("expected %s to be removed", gone)
		}
	}
}

func TestFileProcessor_CleanSingleFile(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"IWorkBridge.h": "// Auto generated file\n"})

	fp := NewFileProcessor()
	removed, err := fp.CleanGenerated([]string{filepath.Join(root, "IWorkBridge.h")}, "// Auto generated file", []string{"Bridge.h"})
	if err != nil {
		t.Fatalf("CleanGenerated failed: %v", err)
	}
	if len(removed) != 1 {
		t.Errorf("expected one removed file, got %v", removed)
	}

	if _, err := fp.CleanGenerated([]string{filepath.Join(root, "missing")}, "x", nil); err == nil {
		t.Error("expected an error for a missing path")
	}
}
