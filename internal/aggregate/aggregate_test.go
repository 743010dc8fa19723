package aggregate

import (
	"testing"

	"divet/internal/discover"
)

func TestReduceKeepsFirstNodeOnTypeNameCollision(t *testing.T) {
	files := []discover.ScannedFileData{
		{
			FilePath:   "a.swift",
			ModuleName: "ModuleA",
			Node: &discover.DiscoveredNode{
				TypeName:   "Leaf",
				ModuleName: "ModuleA",
				Location:   discover.FileLocation{FilePath: "a.swift", Line: 1},
				Requirements: []discover.Dependency{{Type: "S"}},
			},
		},
		{
			FilePath:   "b.swift",
			ModuleName: "ModuleB",
			Node: &discover.DiscoveredNode{
				TypeName:   "Leaf",
				ModuleName: "ModuleB",
				Location:   discover.FileLocation{FilePath: "b.swift", Line: 1},
				Requirements: []discover.Dependency{{Type: "T"}},
			},
		},
	}

	results := Reduce(files)

	if len(results.Nodes) != 1 {
		t.Fatalf("expected exactly 1 node kept, got %d", len(results.Nodes))
	}
	if results.Nodes[0].ModuleName != "ModuleA" {
		t.Errorf("expected the first file's node to win, got module %q", results.Nodes[0].ModuleName)
	}
	if len(results.Requirements["ModuleB"]) != 0 {
		t.Errorf("expected the second file's requirements to be dropped, got %v", results.Requirements["ModuleB"])
	}
	if len(results.Requirements["ModuleA"]) != 1 {
		t.Errorf("expected the first file's requirements to survive, got %v", results.Requirements["ModuleA"])
	}
}

func TestReducePreservesDuplicateRootsAndEdges(t *testing.T) {
	files := []discover.ScannedFileData{
		{
			ModuleName: "App",
			Roots:      []discover.DiscoveredRoot{{RootTypeName: "Root"}, {RootTypeName: "Root"}},
			Edges:      []discover.DiscoveredEdge{{From: "Root", To: "A"}},
		},
	}

	results := Reduce(files)

	if len(results.Roots) != 2 {
		t.Errorf("expected duplicate roots preserved, got %d", len(results.Roots))
	}
	if len(results.Edges) != 1 {
		t.Errorf("expected 1 edge, got %d", len(results.Edges))
	}
}

func TestReduceIndexesProvidedInputsByTargetModuleNotScanningModule(t *testing.T) {
	files := []discover.ScannedFileData{
		{
			ModuleName: "Scanner",
			ProvidedInputs: []discover.ProvidedInput{
				{Type: "UserID", TargetModule: "Feature"},
			},
		},
	}

	results := Reduce(files)

	if len(results.ProvidedInputs["Feature"]) != 1 {
		t.Errorf("expected ProvidedInputs indexed under TargetModule Feature, got %v", results.ProvidedInputs)
	}
	if len(results.ProvidedInputs["Scanner"]) != 0 {
		t.Errorf("expected nothing indexed under the scanning module Scanner, got %v", results.ProvidedInputs["Scanner"])
	}
}
