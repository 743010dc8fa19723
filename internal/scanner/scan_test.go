package scanner

import (
	"context"
	"testing"

	"divet/internal/discover"
)

func scanSnippet(t *testing.T, source string) *discover.ScannedFileData {
	t.Helper()
	p := NewParser()
	data, err := ScanFile(context.Background(), p, "/repo/Feature/FeatureFile.swift", "Feature", []byte(source), 123.0)
	if err != nil {
		t.Fatalf("ScanFile: %v", err)
	}
	return data
}

func TestScanFileFunctionLevelExplicitBuilderRoot(t *testing.T) {
	src := `func makeRoot() {
    let root = DependencyBuilder<AppRoot>()
}
`
	data := scanSnippet(t, src)
	if len(data.Roots) != 1 {
		t.Fatalf("expected 1 root, got %d: %+v", len(data.Roots), data.Roots)
	}
	root := data.Roots[0]
	if root.RootTypeName != "AppRoot" {
		t.Errorf("RootTypeName = %q, want AppRoot", root.RootTypeName)
	}
	if root.Origin.FunctionName != "makeRoot" {
		t.Errorf("Origin.FunctionName = %q, want makeRoot", root.Origin.FunctionName)
	}
}

func TestScanFilePropertyInitializerShorthandRootOnly(t *testing.T) {
	src := `class AppNode {
    let child = RootDependencyBuilder.buildChild(Feature.self)
}
`
	data := scanSnippet(t, src)
	if len(data.Roots) != 1 {
		t.Fatalf("expected 1 root, got %d: %+v", len(data.Roots), data.Roots)
	}
	root := data.Roots[0]
	if root.RootTypeName != "Feature" {
		t.Errorf("RootTypeName = %q, want Feature", root.RootTypeName)
	}
	if root.Origin.FunctionName != "" {
		t.Errorf("Origin.FunctionName = %q, want empty for a property-initializer root", root.Origin.FunctionName)
	}
}

// TestScanFilePropertyInitializerRejectsExplicitBuilderForm pins down that
// the explicit DependencyBuilder<T>() form is function-level only: written
// as a property initializer, it must not be recognized as a root at all.
func TestScanFilePropertyInitializerRejectsExplicitBuilderForm(t *testing.T) {
	src := `class AppNode {
    let child = DependencyBuilder<Feature>()
}
`
	data := scanSnippet(t, src)
	if len(data.Roots) != 0 {
		t.Fatalf("expected no roots for a property-initializer explicit-builder call, got %+v", data.Roots)
	}
}

func TestScanFileTwoRootsInOneFunctionFlushesFirst(t *testing.T) {
	src := `func makeRoots() {
    let first = RootDependencyBuilder.buildChild(FirstRoot.self)
    let second = RootDependencyBuilder.buildChild(SecondRoot.self)
}
`
	data := scanSnippet(t, src)
	if len(data.Roots) != 2 {
		t.Fatalf("expected 2 roots, got %d: %+v", len(data.Roots), data.Roots)
	}
	if data.Roots[0].RootTypeName != "FirstRoot" {
		t.Errorf("Roots[0].RootTypeName = %q, want FirstRoot", data.Roots[0].RootTypeName)
	}
	if data.Roots[1].RootTypeName != "SecondRoot" {
		t.Errorf("Roots[1].RootTypeName = %q, want SecondRoot", data.Roots[1].RootTypeName)
	}
}

func TestScanFileBuildChildResolvesFromTrackedLocalVar(t *testing.T) {
	src := `func assemble() {
    let parent = RootDependencyBuilder.buildChild(Parent.self)
    let child = parent.buildChild(Child.self)
}
`
	data := scanSnippet(t, src)
	if len(data.Roots) != 1 {
		t.Fatalf("expected 1 root, got %d: %+v", len(data.Roots), data.Roots)
	}
	edges := data.Roots[0].InitialEdges
	if len(edges) != 1 {
		t.Fatalf("expected 1 initial edge on the root, got %d: %+v", len(edges), edges)
	}
	if edges[0].From != "Parent" || edges[0].To != "Child" {
		t.Errorf("edge = %+v, want From=Parent To=Child", edges[0])
	}
}

func TestScanFileBuildChildFallsBackToModuleWithNoTrackedReceiver(t *testing.T) {
	src := `func wireUp() {
    someUnknownVar.buildChild(Orphan.self)
}
`
	data := scanSnippet(t, src)
	if len(data.Edges) != 1 {
		t.Fatalf("expected 1 top-level edge, got %d: %+v", len(data.Edges), data.Edges)
	}
	if data.Edges[0].From != "Feature" || data.Edges[0].To != "Orphan" {
		t.Errorf("edge = %+v, want From=Feature (the file's module) To=Orphan", data.Edges[0])
	}
}

func TestScanFileRegisterChainIsolationSuffixNormalization(t *testing.T) {
	src := `@DependencyRequirements
class FeatureNode {
    func registerDependencies() {
        container.mainActor.registerDependency(Service.self)
    }
}
`
	data := scanSnippet(t, src)
	if data.Node == nil {
		t.Fatalf("expected a discovered node")
	}
	if len(data.Provisions) != 1 {
		t.Fatalf("expected 1 provision, got %d: %+v", len(data.Provisions), data.Provisions)
	}
	dep := data.Provisions[0]
	if dep.Type != "Service" {
		t.Errorf("Type = %q, want Service", dep.Type)
	}
	if !dep.IsMainActor {
		t.Error("expected IsMainActor=true after stripping the .mainActor isolation suffix")
	}
	if dep.IsLocal {
		t.Error("expected IsLocal=false")
	}
	want := discover.NodeScope("FeatureNode")
	if dep.Scope != want {
		t.Errorf("Scope = %+v, want %+v", dep.Scope, want)
	}
}
