package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"divet/internal/aggregate"
	"divet/internal/cache"
	"divet/internal/config"
	"divet/internal/diagnostic"
	"divet/internal/discover"
	"divet/internal/discoverfs"
	"divet/internal/graph"
	"divet/internal/logging"
	"divet/internal/manifest"
	"divet/internal/modulemap"
	"divet/internal/paths"
	"divet/internal/repostate"
	"divet/internal/scanner"
)

// run is one fully assembled analysis pass: the project's resolved
// configuration, its Module Map, the aggregated scan results, and the
// graphs built from them. cmd subcommands each drive it differently
// (analyze prints diagnostics, find filters by type, modules only needs mm).
type run struct {
	cfg     *config.Config
	mm      *modulemap.ModuleMap
	results *discover.ScanResults
	graphs  []*graph.DependencyGraph
	cache   *cache.Cache
	logger  *logging.Logger
}

// newLogger builds the run's logger; every command shares the same human,
// info-level defaults.
func newLogger() *logging.Logger {
	return logging.NewLogger(logging.Config{Format: logging.HumanFormat, Level: logging.InfoLevel})
}

// resolveConfig layers CLI flags over the loaded project config: flags win
// over both config files, and both files win over the built-in defaults.
func resolveConfig() (*config.Config, error) {
	projectRoot, err := filepath.Abs(flagProject)
	if err != nil {
		return nil, fmt.Errorf("resolving project root: %w", err)
	}
	info, err := os.Stat(projectRoot)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("project root %q is not a directory", projectRoot)
	}

	loaded, err := config.Load(projectRoot)
	if err != nil {
		return nil, err
	}
	cfg := loaded.Config
	cfg.ProjectRoot = projectRoot

	if flagModules != "" {
		cfg.ModulesDir = flagModules
	}
	if flagAppSource != "" {
		cfg.AppSourceDir = flagAppSource
	}
	if flagMode != "" {
		cfg.Mode = flagMode
	}
	switch {
	case flagNoCache:
		cfg.CacheMode = string(cache.ModeNoCache)
	case flagCacheOnly:
		cfg.CacheMode = string(cache.ModeCacheOnly)
	}

	if cfg.ModulesDir == "" {
		cfg.ModulesDir = "Modules"
	}
	return cfg, nil
}

// perform executes the full pipeline: manifest -> module map, filesystem
// enumeration -> cache-checked scan -> aggregation -> graph build.
func perform(ctx context.Context, cfg *config.Config, logger *logging.Logger) (*run, error) {
	modulesDir := cfg.ModulesDir
	if !filepath.IsAbs(modulesDir) {
		modulesDir = filepath.Join(cfg.ProjectRoot, modulesDir)
	}

	mm, err := manifest.Read(manifest.Mode(cfg.Mode), cfg.ProjectRoot, modulesDir)
	if err != nil {
		return nil, fmt.Errorf("reading package manifest: %w", err)
	}

	branch := "unknown"
	if repostate.IsGitRepository(cfg.ProjectRoot) {
		branch = repostate.CurrentBranch(cfg.ProjectRoot)
	}
	cacheFile, err := paths.CacheFilePath(cfg.ProjectRoot, branch)
	if err != nil {
		return nil, fmt.Errorf("resolving cache path: %w", err)
	}

	c := cache.New(cacheFile, cache.Mode(cfg.CacheMode), logger)

	scanRoots := []string{cfg.ProjectRoot}
	if cfg.AppSourceDir != "" {
		appDir := cfg.AppSourceDir
		if !filepath.IsAbs(appDir) {
			appDir = filepath.Join(cfg.ProjectRoot, appDir)
		}
		if appDir != cfg.ProjectRoot {
			scanRoots = append(scanRoots, appDir)
		}
	}

	var allFiles []string
	seen := make(map[string]bool)
	for _, root := range scanRoots {
		for _, f := range discoverfs.SwiftFiles(root) {
			if !seen[f] {
				seen[f] = true
				allFiles = append(allFiles, f)
			}
		}
	}

	parser := scanner.NewParser()
	var records []discover.ScannedFileData

	for _, path := range allFiles {
		info, err := os.Stat(path)
		if err != nil {
			logger.Warn("stat failed, skipping file", map[string]interface{}{"path": path, "error": err.Error()})
			continue
		}
		mtime := float64(info.ModTime().UnixNano()) / 1e9

		if entry, hit := c.GetCached(path, mtime); hit {
			records = append(records, entry)
			continue
		}
		if c.IsCacheOnly() {
			continue
		}

		source, err := os.ReadFile(path)
		if err != nil {
			logger.Warn("read failed, skipping file", map[string]interface{}{"path": path, "error": err.Error()})
			continue
		}

		moduleName, _ := resolveModule(mm, path)
		scanned, err := scanner.ScanFile(ctx, parser, path, moduleName, source, mtime)
		if err != nil {
			logger.Warn("parse failed, skipping file", map[string]interface{}{"path": path, "error": err.Error()})
			continue
		}

		c.Update(path, *scanned)
		records = append(records, *scanned)
	}

	c.PruneStale()
	c.Save()

	results := aggregate.Reduce(records)

	nodeModule := make(map[string]string, len(results.Nodes))
	for _, n := range results.Nodes {
		nodeModule[n.TypeName] = n.ModuleName
	}
	graphs := graph.Build(results.Roots, results.Edges, func(t string) (string, bool) {
		m, ok := nodeModule[t]
		return m, ok
	})

	return &run{cfg: cfg, mm: mm, results: results, graphs: graphs, cache: c, logger: logger}, nil
}

// resolveModule attributes a scanned file to a module: the Module Map's
// longest-prefix match, falling back to the Sources-directory rule, else
// the empty string.
func resolveModule(mm *modulemap.ModuleMap, path string) (string, bool) {
	if name, ok := mm.ModuleForFile(path); ok {
		return name, true
	}
	if name, ok := modulemap.SourcesFallback(path); ok {
		return name, true
	}
	return "", false
}

func exitWithDiagnostics(diags []diagnostic.Diagnostic, cacheOnlyMiss bool) {
	if cacheOnlyMiss || diagnostic.HasError(diags) {
		os.Exit(1)
	}
}
