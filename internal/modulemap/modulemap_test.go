package modulemap

import (
	"reflect"
	"sort"
	"testing"
)

func buildMap(t *testing.T) *ModuleMap {
	t.Helper()
	mm := New()
	mm.Add(Module{Name: "Core", SourcePath: "Modules/Core/Sources/Core"})
	mm.Add(Module{Name: "Feature", SourcePath: "Modules/Feature/Sources/Feature", DirectDeps: []string{"Core"}})
	mm.Add(Module{Name: "App", SourcePath: "Modules/App/Sources/App", DirectDeps: []string{"Feature"}})
	mm.Build()
	return mm
}

func TestModuleForFileLongestPrefixMatch(t *testing.T) {
	mm := buildMap(t)

	name, ok := mm.ModuleForFile("Modules/Feature/Sources/Feature/Widget.swift")
	if !ok || name != "Feature" {
		t.Fatalf("got (%q, %v), want (Feature, true)", name, ok)
	}

	if _, ok := mm.ModuleForFile("Unrelated/File.swift"); ok {
		t.Fatal("expected no match for a path outside any registered prefix")
	}
}

func TestModuleForFileExactPrefixBoundary(t *testing.T) {
	mm := New()
	mm.Add(Module{Name: "Core", SourcePath: "Modules/Core"})
	mm.Add(Module{Name: "CoreExtras", SourcePath: "Modules/CoreExtras"})
	mm.Build()

	// "Modules/CoreExtras/X.swift" must not be misattributed to Core just
	// because "Modules/Core" is a textual prefix of "Modules/CoreExtras".
	name, ok := mm.ModuleForFile("Modules/CoreExtras/X.swift")
	if !ok || name != "CoreExtras" {
		t.Fatalf("got (%q, %v), want (CoreExtras, true)", name, ok)
	}
}

func TestSourcesFallback(t *testing.T) {
	name, ok := SourcesFallback("Modules/Feature/Sources/Feature/Widget.swift")
	if !ok || name != "Feature" {
		t.Fatalf("got (%q, %v), want (Feature, true)", name, ok)
	}

	if _, ok := SourcesFallback("Modules/Feature/Widget.swift"); ok {
		t.Fatal("expected no fallback without a Sources segment")
	}

	if _, ok := SourcesFallback("a/Sources"); ok {
		t.Fatal("expected no fallback when Sources is the final segment")
	}
}

func TestAncestorsTransitiveBFS(t *testing.T) {
	mm := buildMap(t)

	ancestors := mm.Ancestors("Core")
	sort.Strings(ancestors)
	want := []string{"App", "Feature"}
	if !reflect.DeepEqual(ancestors, want) {
		t.Errorf("Ancestors(Core) = %v, want %v", ancestors, want)
	}

	if got := mm.Ancestors("App"); len(got) != 0 {
		t.Errorf("expected App to have no ancestors, got %v", got)
	}
}

func TestDirectDependenciesUnknownModule(t *testing.T) {
	mm := buildMap(t)
	if got := mm.DirectDependencies("Nonexistent"); got != nil {
		t.Errorf("expected nil for unknown module, got %v", got)
	}
}

func TestAllModuleNamesSorted(t *testing.T) {
	mm := buildMap(t)
	want := []string{"App", "Core", "Feature"}
	if got := mm.AllModuleNames(); !reflect.DeepEqual(got, want) {
		t.Errorf("AllModuleNames() = %v, want %v", got, want)
	}
}
