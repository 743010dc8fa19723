package scanner

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"divet/internal/discover"
)

// funcScan is an explicit, per-function "enclosing context" state object
// replacing the original visitor's ambient mutable fields (local variable
// table, pending root, current root). It is created fresh on function
// entry and discarded on exit; nothing about it survives across functions.
type funcScan struct {
	functionName  string
	enclosingType string // qualified name of the node-conforming type, "" if none

	localVars map[string]string // tracked variable name -> resolved/child type

	pendingRoot *discover.DiscoveredRoot // root accumulating InitialEdges, nil if none

	braceDepth   int
	closureStack []closureEntry
}

type closureEntry struct {
	childType string
	baseDepth int
}

func newFuncScan(functionName, enclosingType string) *funcScan {
	return &funcScan{
		functionName:  functionName,
		enclosingType: enclosingType,
		localVars:     make(map[string]string),
	}
}

func newTopLevelFunc() *funcScan {
	return &funcScan{localVars: make(map[string]string)}
}

// currentTargetModule resolves provideInput's target_module: the top
// buildChild closure's child type if we're inside one, else the current
// module.
func (fs *funcScan) currentTargetModule(defaultModule string) string {
	if len(fs.closureStack) > 0 {
		return fs.closureStack[len(fs.closureStack)-1].childType
	}
	return defaultModule
}

// scanFunctionBody splits a function declaration's text into lines and
// feeds each through the idiom recognizers, carrying fs across the whole
// body. baseLine is n's 1-based starting line for location reporting.
func (s *fileScan) scanFunctionBody(n *sitter.Node, text string, fs *funcScan) {
	baseLine := int(n.StartPoint().Row) + 1
	lines := strings.Split(text, "\n")
	for i, raw := range lines {
		s.processLine(fs, raw, baseLine+i)
	}
}

// processLine recognizes at most one idiom per source line. Real Swift
// statements are rarely split this finely in practice for the constructs
// this scanner targets (each idiom is conventionally written on its own
// line in the framework's style), so this is a deliberate simplification
// of full-statement parsing, not a generic Swift parser.
func (s *fileScan) processLine(fs *funcScan, rawLine string, lineNo int) {
	line := strings.TrimSpace(rawLine)

	if s.previewDepth > 0 {
		s.previewDepth += strings.Count(line, "{") - strings.Count(line, "}")
		if s.previewDepth < 0 {
			s.previewDepth = 0
		}
		return
	}
	if containsPreviewMarker(line) {
		depth := strings.Count(line, "{") - strings.Count(line, "}")
		if depth < 1 {
			depth = 1
		}
		s.previewDepth = depth
		return
	}

	netBraces := strings.Count(line, "{") - strings.Count(line, "}")
	defer func() {
		fs.braceDepth += netBraces
		for len(fs.closureStack) > 0 && fs.braceDepth <= fs.closureStack[len(fs.closureStack)-1].baseDepth {
			fs.closureStack = fs.closureStack[:len(fs.closureStack)-1]
		}
	}()

	if line == "" {
		return
	}

	loc := discover.FileLocation{FilePath: s.filePath, Line: lineNo}

	if lhs, rhs, ok := MatchFreeze(line); ok {
		if t, tracked := fs.localVars[rhs]; tracked {
			fs.localVars[lhs] = t
		}
		return
	}

	if name, expr, ok := MatchVarAssignment(line); ok {
		if s.handleRootOrEdgeExpr(fs, expr, loc, name) {
			return
		}
	}

	if s.handleRootOrEdgeExpr(fs, line, loc, "") {
		return
	}

	if rc, ok := MatchRegisterChain(line); ok {
		s.handleRegisterCall(fs, rc, loc)
		return
	}

	if t, ok := MatchProvideInput(line); ok {
		target := fs.currentTargetModule(s.moduleName)
		scope := discover.GraphRootScope(s.filePath, fs.functionName)
		if fs.functionName == "" {
			scope = discover.ModuleScope()
		}
		s.result.ProvidedInputs = append(s.result.ProvidedInputs, discover.ProvidedInput{
			Type:         t,
			TargetModule: target,
			Location:     loc,
			Scope:        scope,
		})
		return
	}
}

func containsPreviewMarker(line string) bool {
	return strings.Contains(line, "#Preview") || strings.Contains(line, "@Preview")
}

// handleRootOrEdgeExpr tries, in order, the shorthand root idiom, the
// explicit-builder root idiom, and a plain buildChild edge against expr.
// assignTo, if non-empty, is the local variable name the result (if any)
// should be tracked under. Returns true if expr matched one of the three.
func (s *fileScan) handleRootOrEdgeExpr(fs *funcScan, expr string, loc discover.FileLocation, assignTo string) bool {
	if t, ok := MatchRootShorthand(expr); ok {
		s.flushPendingRoot(fs)
		fs.pendingRoot = &discover.DiscoveredRoot{
			RootTypeName: t,
			Origin: discover.GraphOrigin{
				FileName:     s.fileName,
				FunctionName: fs.functionName,
				FilePath:     s.filePath,
				Line:         loc.Line,
			},
		}
		if assignTo != "" {
			fs.localVars[assignTo] = t
		}
		return true
	}

	if t, ok := MatchDependencyBuilderCall(expr); ok {
		s.flushPendingRoot(fs)
		fs.pendingRoot = &discover.DiscoveredRoot{
			RootTypeName: t,
			Origin: discover.GraphOrigin{
				FileName:     s.fileName,
				FunctionName: fs.functionName,
				FilePath:     s.filePath,
				Line:         loc.Line,
			},
		}
		if assignTo != "" {
			fs.localVars[assignTo] = t
		}
		return true
	}

	if bc, ok := MatchBuildChild(expr); ok {
		from := s.resolveEdgeFrom(fs, bc.Receiver)
		edge := discover.DiscoveredEdge{From: from, To: bc.Child, Location: loc}
		if fs.pendingRoot != nil {
			fs.pendingRoot.InitialEdges = append(fs.pendingRoot.InitialEdges, edge)
		} else {
			s.result.Edges = append(s.result.Edges, edge)
		}
		if assignTo != "" {
			fs.localVars[assignTo] = bc.Child
		}
		if bc.HasClosure {
			fs.closureStack = append(fs.closureStack, closureEntry{childType: bc.Child, baseDepth: fs.braceDepth})
		}
		return true
	}

	return false
}

// resolveEdgeFrom resolves a buildChild receiver to the edge's From type:
// a tracked local variable wins, then the function's pending root, then
// the enclosing node type, and finally the file's own module as a last
// resort.
func (s *fileScan) resolveEdgeFrom(fs *funcScan, receiver string) string {
	if t, ok := fs.localVars[receiver]; ok {
		return t
	}
	if fs.pendingRoot != nil {
		return fs.pendingRoot.RootTypeName
	}
	if fs.enclosingType != "" && s.result.Node != nil && s.result.Node.TypeName == fs.enclosingType {
		return fs.enclosingType
	}
	return s.moduleName
}

// handleRegisterCall classifies a register* call by its enclosing function
// name (registerDependencies -> Node scope, mockRegistration -> mock list,
// else GraphRoot scope).
func (s *fileScan) handleRegisterCall(fs *funcScan, rc RegisterCall, loc discover.FileLocation) {
	dep := discover.Dependency{
		Type:        rc.Type,
		Key:         rc.Key,
		HasKey:      rc.HasKey,
		IsMainActor: rc.IsMainActor,
		IsLocal:     rc.IsLocal,
		Location:    &loc,
	}

	switch {
	case fs.functionName == "mockRegistration":
		s.result.MockRegistrations = append(s.result.MockRegistrations, dep)
	case fs.functionName == "registerDependencies" && fs.enclosingType != "":
		dep.Scope = discover.NodeScope(fs.enclosingType)
		s.result.Provisions = append(s.result.Provisions, dep)
	case fs.functionName != "":
		dep.Scope = discover.GraphRootScope(s.filePath, fs.functionName)
		s.result.Provisions = append(s.result.Provisions, dep)
	default:
		dep.Scope = discover.ModuleScope()
		s.result.Provisions = append(s.result.Provisions, dep)
	}
}

// flushPendingRoot finalizes fs's in-progress root, if any, appending it to
// the file's discovered roots and clearing the slot so a second root in the
// same function starts fresh.
func (s *fileScan) flushPendingRoot(fs *funcScan) {
	if fs == nil || fs.pendingRoot == nil {
		return
	}
	s.result.Roots = append(s.result.Roots, *fs.pendingRoot)
	fs.pendingRoot = nil
}
