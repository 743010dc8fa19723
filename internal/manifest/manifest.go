// Package manifest is the package-manifest reader: it reads a project's
// module declarations and populates a modulemap.ModuleMap. Two readers are
// provided, selected by the "mode" configuration option: a MODULES.toml
// reader for distributed projects, and a YAML module-map reader for
// monorepos that declare dependencies directly rather than via per-module
// manifest files.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"divet/internal/modulemap"
)

// Mode selects which manifest reader populates the Module Map.
type Mode string

const (
	ModeDistributed Mode = "distributed"
	ModeMonorepo    Mode = "monorepo"
)

// ModulesDeclarationFile is the default MODULES.toml filename for
// distributed-mode projects.
const ModulesDeclarationFile = "MODULES.toml"

// boundaryDeclaration mirrors the allowed_dependencies a module declares
// against other modules in distributed mode.
type boundaryDeclaration struct {
	AllowedDependencies []string `toml:"allowed_dependencies,omitempty"`
}

type moduleDeclaration struct {
	Name       string               `toml:"name"`
	Path       string               `toml:"path"`
	Boundaries *boundaryDeclaration `toml:"boundaries,omitempty"`
	IsTest     bool                 `toml:"is_test_target,omitempty"`
}

type modulesFile struct {
	Version int                 `toml:"version"`
	Modules []moduleDeclaration `toml:"module"`
}

// ReadDistributed parses <modulesDir>/MODULES.toml and populates a built
// modulemap.ModuleMap from it. An absent file yields an empty map, not an
// error: a project may have no declared modules.
func ReadDistributed(modulesDir string) (*modulemap.ModuleMap, error) {
	path := filepath.Join(modulesDir, ModulesDeclarationFile)

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		mm := modulemap.New()
		mm.Build()
		return mm, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var file modulesFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	mm := modulemap.New()
	for _, decl := range file.Modules {
		m := modulemap.Module{
			Name:         decl.Name,
			SourcePath:   filepath.Join(modulesDir, decl.Path),
			IsTestTarget: decl.IsTest,
		}
		if decl.Boundaries != nil {
			m.DirectDeps = decl.Boundaries.AllowedDependencies
		}
		mm.Add(m)
	}
	mm.Build()
	return mm, nil
}

// monorepoModule is one entry of a monorepo module map: monorepos declare
// their dependency edges directly (there is no per-module manifest file to
// read), in a single YAML document at the project root.
type monorepoModule struct {
	Name       string   `yaml:"name"`
	Path       string   `yaml:"path"`
	DependsOn  []string `yaml:"dependsOn"`
	IsTest     bool     `yaml:"isTestTarget"`
}

type monorepoMap struct {
	Modules []monorepoModule `yaml:"modules"`
}

// MonorepoMapFile is the default filename for a monorepo's module map.
const MonorepoMapFile = "divet-modules.yaml"

// ReadMonorepo parses <projectRoot>/divet-modules.yaml and populates a built
// modulemap.ModuleMap from it. An absent file yields an empty map.
func ReadMonorepo(projectRoot string) (*modulemap.ModuleMap, error) {
	path := filepath.Join(projectRoot, MonorepoMapFile)

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		mm := modulemap.New()
		mm.Build()
		return mm, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var doc monorepoMap
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	mm := modulemap.New()
	for _, decl := range doc.Modules {
		mm.Add(modulemap.Module{
			Name:         decl.Name,
			SourcePath:   filepath.Join(projectRoot, decl.Path),
			DirectDeps:   decl.DependsOn,
			IsTestTarget: decl.IsTest,
		})
	}
	mm.Build()
	return mm, nil
}

// Read dispatches to the reader named by mode.
func Read(mode Mode, projectRoot, modulesDir string) (*modulemap.ModuleMap, error) {
	switch mode {
	case ModeMonorepo:
		return ReadMonorepo(projectRoot)
	case ModeDistributed, "":
		return ReadDistributed(modulesDir)
	default:
		return nil, fmt.Errorf("unknown manifest mode %q", mode)
	}
}
