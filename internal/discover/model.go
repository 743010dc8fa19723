package discover

// Dependency represents both a requirement and a provision; which it means
// is positional — which slice of a ScannedFileData it lives in. The
// satisfies relation compares (Type, Key, IsMainActor, IsLocal) only; Scope
// gates visibility but is never part of the match key.
type Dependency struct {
	Type        string        `json:"type"`
	Key         string        `json:"key,omitempty"` // empty means "no key"
	HasKey      bool          `json:"hasKey"`
	IsMainActor bool          `json:"isMainActor"`
	IsLocal     bool          `json:"isLocal"`
	Scope       Scope         `json:"scope"`
	Location    *FileLocation `json:"location,omitempty"`
}

// Satisfies reports whether p (a provision) satisfies req (a requirement)
// under the four-tuple match, ignoring scope.
func (p Dependency) Satisfies(req Dependency) bool {
	if p.Type != req.Type {
		return false
	}
	if p.HasKey != req.HasKey || (p.HasKey && p.Key != req.Key) {
		return false
	}
	if p.IsMainActor != req.IsMainActor {
		return false
	}
	if p.IsLocal != req.IsLocal {
		return false
	}
	return true
}

// InputRequirement is a runtime value a node's module must be supplied by a
// parent, keyed by type only.
type InputRequirement struct {
	Type string `json:"type"`
}

// ProvidedInput is the input-requirement analogue of Dependency: a runtime
// value supplied by a registration site. TargetModule is the module (or, for
// buildChild-closure provisions, the child type name) that receives it.
type ProvidedInput struct {
	Type         string       `json:"type"`
	TargetModule string       `json:"targetModule"`
	Location     FileLocation `json:"location"`
	Scope        Scope        `json:"scope"`
}

// DiscoveredNode is a user-defined type carrying DI requirements.
type DiscoveredNode struct {
	TypeName   string       `json:"typeName"`
	ModuleName string       `json:"moduleName"`
	Location   FileLocation `json:"location"`

	Requirements      []Dependency       `json:"requirements,omitempty"`
	InputRequirements []InputRequirement `json:"inputRequirements,omitempty"`
}

// DiscoveredEdge is a parent->child relation produced by a buildChild idiom.
// From may be a resolved type name or a module-name placeholder awaiting
// resolution by the Graph Builder.
type DiscoveredEdge struct {
	From     string       `json:"from"`
	To       string       `json:"to"`
	Location FileLocation `json:"location"`
}

// DiscoveredRoot is a graph root: the site that instantiated a type
// parameterized builder. InitialEdges were discovered syntactically inside
// the function where the root was instantiated, before closure scopes
// close.
type DiscoveredRoot struct {
	RootTypeName string           `json:"rootTypeName"`
	Origin       GraphOrigin      `json:"origin"`
	InitialEdges []DiscoveredEdge `json:"initialEdges,omitempty"`
}

// ScannedFileData is the output of scanning a single source file (C3).
type ScannedFileData struct {
	FilePath   string  `json:"filePath"`
	ModuleName string  `json:"moduleName"`
	Mtime      float64 `json:"mtime"` // seconds since epoch, fractional

	Node  *DiscoveredNode  `json:"discoveredNode,omitempty"`
	Roots []DiscoveredRoot `json:"discoveredRoots,omitempty"`
	Edges []DiscoveredEdge `json:"discoveredEdges,omitempty"`

	Provisions        []Dependency    `json:"provisions,omitempty"`
	ProvidedInputs    []ProvidedInput `json:"providedInputs,omitempty"`
	MockRegistrations []Dependency    `json:"mockRegistrations,omitempty"`
}

// ScanResults is the by-module aggregation produced by C4, consumed by C5
// and C7.
type ScanResults struct {
	// Requirements indexed by owning module name.
	Requirements map[string][]Dependency
	// InputRequirements indexed by owning module name.
	InputRequirements map[string][]InputRequirement

	// Provisions indexed by the module that declared them (non-local and
	// local alike; callers filter by IsLocal as needed).
	Provisions map[string][]Dependency

	// ProvidedInputs indexed by TargetModule (not by the scanning file's
	// own module).
	ProvidedInputs map[string][]ProvidedInput

	// Flat sequences, in discovery order. Roots and Edges keep duplicates;
	// Nodes keep only the first node seen for each type name.
	Nodes []DiscoveredNode
	Roots []DiscoveredRoot
	Edges []DiscoveredEdge
}

// NewScanResults returns an empty, ready to populate ScanResults.
func NewScanResults() *ScanResults {
	return &ScanResults{
		Requirements:      make(map[string][]Dependency),
		InputRequirements: make(map[string][]InputRequirement),
		Provisions:        make(map[string][]Dependency),
		ProvidedInputs:    make(map[string][]ProvidedInput),
	}
}
