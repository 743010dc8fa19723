package discover

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestScannedFileDataJSONRoundTrip(t *testing.T) {
	original := ScannedFileData{
		FilePath:   "Feature/Widget.swift",
		ModuleName: "Feature",
		Mtime:      1700000000.123,
		Node: &DiscoveredNode{
			TypeName:   "Widget",
			ModuleName: "Feature",
			Location:   FileLocation{FilePath: "Feature/Widget.swift", Line: 10},
			Requirements: []Dependency{
				{Type: "Service", Scope: ModuleScope()},
			},
		},
		Roots: []DiscoveredRoot{
			{RootTypeName: "AppRoot", Origin: GraphOrigin{FileName: "App.swift", FunctionName: "main"}},
		},
	}

	data, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var roundTripped ScannedFileData
	if err := json.Unmarshal(data, &roundTripped); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	if !reflect.DeepEqual(original, roundTripped) {
		t.Errorf("round trip mismatch:\noriginal:     %+v\nroundTripped: %+v", original, roundTripped)
	}
}

func TestDependencySatisfies(t *testing.T) {
	tests := []struct {
		name string
		prov Dependency
		req  Dependency
		want bool
	}{
		{"exact match", Dependency{Type: "S"}, Dependency{Type: "S"}, true},
		{"type mismatch", Dependency{Type: "S"}, Dependency{Type: "T"}, false},
		{"keyed matches keyed", Dependency{Type: "S", HasKey: true, Key: "k"}, Dependency{Type: "S", HasKey: true, Key: "k"}, true},
		{"keyed does not match unkeyed", Dependency{Type: "S", HasKey: true, Key: "k"}, Dependency{Type: "S"}, false},
		{"different keys", Dependency{Type: "S", HasKey: true, Key: "a"}, Dependency{Type: "S", HasKey: true, Key: "b"}, false},
		{"mainActor mismatch", Dependency{Type: "S", IsMainActor: true}, Dependency{Type: "S"}, false},
		{"scope ignored", Dependency{Type: "S", Scope: NodeScope("X")}, Dependency{Type: "S", Scope: ModuleScope()}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.prov.Satisfies(tt.req); got != tt.want {
				t.Errorf("Satisfies() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestScopeVisibleOnModule(t *testing.T) {
	s := ModuleScope()
	if !s.VisibleOn(GraphOrigin{}, nil) {
		t.Error("expected module scope to always be visible")
	}
}

func TestScopeVisibleOnNode(t *testing.T) {
	s := NodeScope("Feature")
	if s.VisibleOn(GraphOrigin{}, map[string]bool{"Other": true}) {
		t.Error("expected node scope invisible when its type is not on the path")
	}
	if !s.VisibleOn(GraphOrigin{}, map[string]bool{"Feature": true}) {
		t.Error("expected node scope visible when its type is on the path")
	}
}

func TestScopeVisibleOnGraphRoot(t *testing.T) {
	s := GraphRootScope("App.swift", "main")

	matching := GraphOrigin{FilePath: "App.swift", FunctionName: "main"}
	if !s.VisibleOn(matching, nil) {
		t.Error("expected graph-root scope visible for the matching origin")
	}

	other := GraphOrigin{FilePath: "App.swift", FunctionName: "otherRoot"}
	if s.VisibleOn(other, nil) {
		t.Error("expected graph-root scope invisible for a different function in the same file")
	}
}
