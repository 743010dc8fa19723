// Package discoverfs enumerates the Swift source files a run should scan,
// skipping VCS and build-output directories.
package discoverfs

import (
	"io/fs"
	"path/filepath"
	"strings"
)

var ignoredDirs = map[string]bool{
	".git":         true,
	".build":       true,
	".swiftpm":     true,
	"node_modules": true,
	"Pods":         true,
	"DerivedData":  true,
	".divet":       true,
}

// SwiftFiles walks root and returns every ".swift" file path, skipping
// version-control, build-output, and package-manager directories. A walk
// error on one entry is swallowed and the walk continues: one bad
// directory entry does not abort the run.
func SwiftFiles(root string) []string {
	var files []string
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			name := d.Name()
			if ignoredDirs[name] || (strings.HasPrefix(name, ".") && path != root) {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(d.Name(), ".swift") {
			files = append(files, path)
		}
		return nil
	})
	return files
}
