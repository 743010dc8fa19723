// Package graph implements the dependency graph builder and path
// enumerator. The DependencyGraph representation is dense parallel arrays
// keyed by integer node IDs rather than pointer-linked nodes (nodeNames
// []string + nodeIdx map + outEdges [][]int): cyclic structures stay cheap
// to copy when kept out of reference-cycle form.
package graph

import (
	"divet/internal/discover"
)

// genericSentinels are the type names the Graph Builder never treats as a
// real root.
var genericSentinels = map[string]bool{
	"T": true, "U": true, "V": true, "W": true,
	"Element": true, "Key": true, "Value": true, "Result": true,
}

// IsGenericSentinel reports whether name is a filtered-out generic type
// parameter rather than a real root type.
func IsGenericSentinel(name string) bool {
	if len(name) == 1 && name[0] >= 'A' && name[0] <= 'Z' {
		return true
	}
	return genericSentinels[name]
}

// DependencyGraph is one graph built from a single DiscoveredRoot: a dense
// set of reachable node type names and the edges among them.
type DependencyGraph struct {
	Origin   discover.GraphOrigin
	RootType string

	nodeNames []string
	nodeIdx   map[string]int
	outEdges  [][]int // adjacency by node ID, values are node IDs

	edgeLocations map[[2]int]discover.FileLocation
}

func newGraph(origin discover.GraphOrigin, rootType string) *DependencyGraph {
	g := &DependencyGraph{
		Origin:        origin,
		RootType:      rootType,
		nodeIdx:       make(map[string]int),
		edgeLocations: make(map[[2]int]discover.FileLocation),
	}
	g.addNode(rootType)
	return g
}

func (g *DependencyGraph) addNode(name string) int {
	if id, ok := g.nodeIdx[name]; ok {
		return id
	}
	id := len(g.nodeNames)
	g.nodeNames = append(g.nodeNames, name)
	g.nodeIdx[name] = id
	g.outEdges = append(g.outEdges, nil)
	return id
}

func (g *DependencyGraph) addEdge(from, to string, loc discover.FileLocation) {
	if from == to {
		return
	}
	fromID := g.addNode(from)
	toID := g.addNode(to)

	for _, existing := range g.outEdges[fromID] {
		if existing == toID {
			return
		}
	}
	g.outEdges[fromID] = append(g.outEdges[fromID], toID)
	g.edgeLocations[[2]int{fromID, toID}] = loc
}

// Nodes returns the set of type names reachable from the root, in discovery
// order.
func (g *DependencyGraph) Nodes() []string {
	out := make([]string, len(g.nodeNames))
	copy(out, g.nodeNames)
	return out
}

// Contains reports whether typeName is one of this graph's nodes.
func (g *DependencyGraph) Contains(typeName string) bool {
	_, ok := g.nodeIdx[typeName]
	return ok
}

// globalEdge is one entry of the flat edge list the builder scans when
// resolving a node's outgoing edges.
type globalEdge struct {
	From string
	To   string
	Loc  discover.FileLocation
}

// Build constructs one DependencyGraph per non-generic-sentinel discovered
// root. moduleOf resolves a node's owning module for placeholder-edge
// resolution (nil-safe: return "", false when unknown).
func Build(roots []discover.DiscoveredRoot, edges []discover.DiscoveredEdge, moduleOf func(typeName string) (string, bool)) []*DependencyGraph {
	globalEdges := make([]globalEdge, 0, len(edges))
	for _, e := range edges {
		globalEdges = append(globalEdges, globalEdge{From: e.From, To: e.To, Loc: e.Location})
	}

	var graphs []*DependencyGraph
	for _, root := range roots {
		if IsGenericSentinel(root.RootTypeName) {
			continue
		}
		graphs = append(graphs, buildOne(root, globalEdges, moduleOf))
	}
	return graphs
}

func buildOne(root discover.DiscoveredRoot, globalEdges []globalEdge, moduleOf func(string) (string, bool)) *DependencyGraph {
	g := newGraph(root.Origin, root.RootTypeName)

	worklist := []string{root.RootTypeName}
	enqueued := map[string]bool{root.RootTypeName: true}

	enqueue := func(name string) {
		if !enqueued[name] {
			enqueued[name] = true
			worklist = append(worklist, name)
		}
	}

	for _, ie := range root.InitialEdges {
		if ie.From == ie.To {
			continue
		}
		g.addEdge(ie.From, ie.To, ie.Location)
		enqueue(ie.To)
	}

	for len(worklist) > 0 {
		n := worklist[0]
		worklist = worklist[1:]

		nodeModule, hasModule := "", false
		if moduleOf != nil {
			nodeModule, hasModule = moduleOf(n)
		}

		for _, ge := range globalEdges {
			switch {
			case ge.From == n:
				g.addEdge(n, ge.To, ge.Loc)
				enqueue(ge.To)
			case hasModule && ge.From == nodeModule:
				g.addEdge(n, ge.To, ge.Loc)
				enqueue(ge.To)
			}
		}
	}

	return g
}

// Orphans returns the discovered nodes whose type name appears in none of
// graphs' node sets.
func Orphans(nodes []discover.DiscoveredNode, graphs []*DependencyGraph) []discover.DiscoveredNode {
	var orphans []discover.DiscoveredNode
	for _, n := range nodes {
		reached := false
		for _, g := range graphs {
			if g.Contains(n.TypeName) {
				reached = true
				break
			}
		}
		if !reached {
			orphans = append(orphans, n)
		}
	}
	return orphans
}

// PathsTo enumerates every simple path from g's root to v, by depth-first
// search over outgoing edges, forbidding reuse of any type already on the
// current prefix. If v is the root, the single path [RootType] is
// returned. Traversal order follows the graph's own edge order, which is
// not guaranteed stable across runs; callers must sort before display.
func (g *DependencyGraph) PathsTo(v string) [][]string {
	targetID, ok := g.nodeIdx[v]
	if !ok {
		return nil
	}
	rootID := g.nodeIdx[g.RootType]

	var paths [][]string
	visited := make([]bool, len(g.nodeNames))
	var current []int

	var dfs func(nodeID int)
	dfs = func(nodeID int) {
		visited[nodeID] = true
		current = append(current, nodeID)
		defer func() {
			current = current[:len(current)-1]
			visited[nodeID] = false
		}()

		if nodeID == targetID {
			path := make([]string, len(current))
			for i, id := range current {
				path[i] = g.nodeNames[id]
			}
			paths = append(paths, path)
			return
		}

		for _, next := range g.outEdges[nodeID] {
			if !visited[next] {
				dfs(next)
			}
		}
	}
	dfs(rootID)
	return paths
}
