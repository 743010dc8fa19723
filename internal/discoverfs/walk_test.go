package discoverfs

import (
	"os"
	"path/filepath"
	"sort"
	"testing"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestSwiftFilesFindsNestedSources(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "App.swift"))
	touch(t, filepath.Join(root, "Modules", "Feature", "Widget.swift"))
	touch(t, filepath.Join(root, "README.md"))

	files := SwiftFiles(root)
	sort.Strings(files)

	if len(files) != 2 {
		t.Fatalf("expected 2 .swift files, got %d: %v", len(files), files)
	}
}

func TestSwiftFilesIgnoresVCSAndBuildDirectories(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "App.swift"))
	touch(t, filepath.Join(root, ".git", "Ignored.swift"))
	touch(t, filepath.Join(root, ".build", "Ignored.swift"))
	touch(t, filepath.Join(root, "DerivedData", "Ignored.swift"))
	touch(t, filepath.Join(root, "node_modules", "Ignored.swift"))

	files := SwiftFiles(root)
	if len(files) != 1 {
		t.Fatalf("expected only the root-level .swift file, got %d: %v", len(files), files)
	}
}

func TestSwiftFilesIgnoresDotDirectoriesGenerally(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, ".hidden", "Ignored.swift"))
	touch(t, filepath.Join(root, "Visible.swift"))

	files := SwiftFiles(root)
	if len(files) != 1 {
		t.Fatalf("expected dot-directories to be skipped, got %d: %v", len(files), files)
	}
}
