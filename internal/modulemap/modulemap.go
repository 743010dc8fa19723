// Package modulemap implements a read-only, file-path-to-module lookup
// populated once by an external package-manifest reader
// (internal/manifest).
package modulemap

import (
	"path/filepath"
	"sort"
	"strings"
)

// Module holds everything the core knows about one declared module.
type Module struct {
	Name         string
	SourcePath   string // canonical, slash-separated, no trailing slash
	DirectDeps   []string
	IsTestTarget bool
}

// ModuleMap answers module-for-file and transitive-dependency queries. It is
// built once via Add and Build, then treated as immutable.
type ModuleMap struct {
	modules map[string]*Module
	// prefixes, longest first, for module_for_file's prefix match.
	prefixes []string
	byPrefix map[string]string // source path -> module name

	// dependents is the reverse index of DirectDeps, built by Build.
	dependents map[string][]string
}

// New returns an empty ModuleMap ready for Add calls.
func New() *ModuleMap {
	return &ModuleMap{
		modules:  make(map[string]*Module),
		byPrefix: make(map[string]string),
	}
}

// Add registers a module. Call Build once after all Add calls complete.
func (mm *ModuleMap) Add(m Module) {
	m.SourcePath = normalize(m.SourcePath)
	mm.modules[m.Name] = &m
	if m.SourcePath != "" {
		mm.byPrefix[m.SourcePath] = m.Name
	}
}

// Build finalizes the map: sorts prefixes longest-first for module_for_file,
// and constructs the reverse-dependents index used by Ancestors.
func (mm *ModuleMap) Build() {
	mm.prefixes = mm.prefixes[:0]
	for p := range mm.byPrefix {
		mm.prefixes = append(mm.prefixes, p)
	}
	sort.Slice(mm.prefixes, func(i, j int) bool {
		return len(mm.prefixes[i]) > len(mm.prefixes[j])
	})

	mm.dependents = make(map[string][]string)
	for _, m := range mm.modules {
		for _, dep := range m.DirectDeps {
			mm.dependents[dep] = append(mm.dependents[dep], m.Name)
		}
	}
}

func normalize(p string) string {
	return strings.TrimSuffix(filepath.ToSlash(p), "/")
}

// ModuleForFile returns the module owning path, chosen as the longest
// registered source-path prefix of path. Reports ok=false when no module
// contains it.
func (mm *ModuleMap) ModuleForFile(path string) (name string, ok bool) {
	canonical := normalize(path)
	for _, prefix := range mm.prefixes {
		if canonical == prefix || strings.HasPrefix(canonical, prefix+"/") {
			return mm.byPrefix[prefix], true
		}
	}
	return "", false
}

// SourcesFallback implements C1's fallback rule: the directory component
// immediately following the last "Sources" path segment, used by the CLI
// driver (when attributing a file to a module before scanning it) and the
// Satisfaction Analyzer when ModuleForFile finds nothing.
func SourcesFallback(path string) (name string, ok bool) {
	parts := strings.Split(normalize(path), "/")
	lastSources := -1
	for i, p := range parts {
		if p == "Sources" {
			lastSources = i
		}
	}
	if lastSources == -1 || lastSources+1 >= len(parts) {
		return "", false
	}
	return parts[lastSources+1], true
}

// DirectDependencies returns the module's declared direct dependencies, or
// nil if the module is unknown.
func (mm *ModuleMap) DirectDependencies(name string) []string {
	m, ok := mm.modules[name]
	if !ok {
		return nil
	}
	return m.DirectDeps
}

// Ancestors returns every module that transitively depends on name, via a
// breadth-first search over the reverse-dependents index.
func (mm *ModuleMap) Ancestors(name string) []string {
	visited := map[string]bool{name: true}
	queue := []string{name}
	var result []string

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, dependent := range mm.dependents[cur] {
			if visited[dependent] {
				continue
			}
			visited[dependent] = true
			result = append(result, dependent)
			queue = append(queue, dependent)
		}
	}
	return result
}

// AllModuleNames returns every registered module name, sorted.
func (mm *ModuleMap) AllModuleNames() []string {
	names := make([]string, 0, len(mm.modules))
	for name := range mm.modules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Module returns the registered module by name, if any.
func (mm *ModuleMap) Module(name string) (Module, bool) {
	m, ok := mm.modules[name]
	if !ok {
		return Module{}, false
	}
	return *m, true
}
