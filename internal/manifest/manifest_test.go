package manifest

import (
	"os"
	"path/filepath"
	"testing"
)

func TestReadDistributedParsesModulesToml(t *testing.T) {
	dir := t.TempDir()
	contents := `version = 1

[[module]]
name = "Core"
path = "Core"

[[module]]
name = "Feature"
path = "Feature"

  [module.boundaries]
  allowed_dependencies = ["Core"]
`
	if err := os.WriteFile(filepath.Join(dir, ModulesDeclarationFile), []byte(contents), 0o644); err != nil {
		t.Fatalf("seed MODULES.toml: %v", err)
	}

	mm, err := ReadDistributed(dir)
	if err != nil {
		t.Fatalf("ReadDistributed: %v", err)
	}

	if _, ok := mm.Module("Core"); !ok {
		t.Error("expected Core to be registered")
	}
	feature, ok := mm.Module("Feature")
	if !ok {
		t.Fatal("expected Feature to be registered")
	}
	if len(feature.DirectDeps) != 1 || feature.DirectDeps[0] != "Core" {
		t.Errorf("expected Feature to depend on Core, got %v", feature.DirectDeps)
	}
}

func TestReadDistributedAbsentFileYieldsEmptyMap(t *testing.T) {
	dir := t.TempDir()
	mm, err := ReadDistributed(dir)
	if err != nil {
		t.Fatalf("expected no error for an absent MODULES.toml, got %v", err)
	}
	if len(mm.AllModuleNames()) != 0 {
		t.Errorf("expected an empty module map, got %v", mm.AllModuleNames())
	}
}

func TestReadMonorepoParsesYAML(t *testing.T) {
	dir := t.TempDir()
	contents := `modules:
  - name: Core
    path: Modules/Core
  - name: Feature
    path: Modules/Feature
    dependsOn: [Core]
`
	if err := os.WriteFile(filepath.Join(dir, MonorepoMapFile), []byte(contents), 0o644); err != nil {
		t.Fatalf("seed divet-modules.yaml: %v", err)
	}

	mm, err := ReadMonorepo(dir)
	if err != nil {
		t.Fatalf("ReadMonorepo: %v", err)
	}

	feature, ok := mm.Module("Feature")
	if !ok {
		t.Fatal("expected Feature to be registered")
	}
	if len(feature.DirectDeps) != 1 || feature.DirectDeps[0] != "Core" {
		t.Errorf("expected Feature to depend on Core, got %v", feature.DirectDeps)
	}
}

func TestReadMonorepoAbsentFileYieldsEmptyMap(t *testing.T) {
	dir := t.TempDir()
	mm, err := ReadMonorepo(dir)
	if err != nil {
		t.Fatalf("expected no error for an absent divet-modules.yaml, got %v", err)
	}
	if len(mm.AllModuleNames()) != 0 {
		t.Errorf("expected an empty module map, got %v", mm.AllModuleNames())
	}
}

func TestReadDispatchesByMode(t *testing.T) {
	dir := t.TempDir()

	if _, err := Read(ModeDistributed, dir, dir); err != nil {
		t.Errorf("Read(ModeDistributed): %v", err)
	}
	if _, err := Read(ModeMonorepo, dir, dir); err != nil {
		t.Errorf("Read(ModeMonorepo): %v", err)
	}
	if _, err := Read("bogus", dir, dir); err == nil {
		t.Error("expected an error for an unknown mode")
	}
}
