// Package analyzer implements the Satisfaction Analyzer (C7): for each
// requirement and input requirement reachable in a built graph, it decides
// per-path satisfaction under scope visibility and emits diagnostics.
package analyzer

import (
	"fmt"
	"sort"

	"divet/internal/diagnostic"
	"divet/internal/discover"
	"divet/internal/graph"
	"divet/internal/modulemap"
)

const maxFailingPathsShown = 5

// Analyzer holds the frozen inputs a run needs: the Module Map and the
// aggregated scan results. It is constructed once per run and has no
// mutable state beyond what each Analyze call returns.
type Analyzer struct {
	mm      *modulemap.ModuleMap
	results *discover.ScanResults

	nodeByType map[string]discover.DiscoveredNode
}

// New builds an Analyzer over a module map and aggregated scan results.
func New(mm *modulemap.ModuleMap, results *discover.ScanResults) *Analyzer {
	a := &Analyzer{mm: mm, results: results, nodeByType: make(map[string]discover.DiscoveredNode)}
	for _, n := range results.Nodes {
		if _, exists := a.nodeByType[n.TypeName]; !exists {
			a.nodeByType[n.TypeName] = n
		}
	}
	return a
}

// Analyze runs the full satisfaction check over every built graph and
// returns diagnostics sorted by the message's trailing colon-delimited
// segment. showValidPaths, when true, adds the complement (satisfying
// paths) to each diagnostic's context lines.
func (a *Analyzer) Analyze(graphs []*graph.DependencyGraph, showValidPaths bool) []diagnostic.Diagnostic {
	var diags []diagnostic.Diagnostic

	for _, g := range graphs {
		for _, v := range g.Nodes() {
			node, ok := a.nodeByType[v]
			if !ok {
				continue
			}
			m := node.ModuleName
			reqs := a.results.Requirements[m]
			inputs := a.results.InputRequirements[m]
			if len(reqs) == 0 && len(inputs) == 0 {
				continue
			}

			paths := g.PathsTo(v)

			for _, req := range reqs {
				if d, unsatisfied := a.checkRequirement(g, v, node, m, req, paths, showValidPaths); unsatisfied {
					diags = append(diags, d)
				}
			}
			for _, ir := range inputs {
				if d, unsatisfied := a.checkInput(g, v, node, m, ir, paths, showValidPaths); unsatisfied {
					diags = append(diags, d)
				}
			}
		}
	}

	for _, orphan := range graph.Orphans(a.results.Nodes, graphs) {
		diags = append(diags, diagnostic.Diagnostic{
			Severity: diagnostic.SeverityWarning,
			Message:  fmt.Sprintf("Orphan node: %s is never reached from any graph root", orphan.TypeName),
			Location: &discover.FileLocation{FilePath: orphan.Location.FilePath, Line: orphan.Location.Line},
		})
	}

	diagnostic.SortByDependencyName(diags)
	return diags
}

// checkRequirement decides one requirement's satisfaction for node v and
// returns the diagnostic to emit when it is unsatisfied.
func (a *Analyzer) checkRequirement(g *graph.DependencyGraph, v string, node discover.DiscoveredNode, m string, req discover.Dependency, paths [][]string, showValidPaths bool) (diagnostic.Diagnostic, bool) {
	if req.IsLocal {
		return a.checkLocalRequirement(node, m, req)
	}
	return a.checkInheritedRequirement(g, v, node, m, req, paths, showValidPaths)
}

func (a *Analyzer) checkLocalRequirement(node discover.DiscoveredNode, m string, req discover.Dependency) (diagnostic.Diagnostic, bool) {
	locals := filterLocal(a.results.Provisions[m])
	for _, p := range locals {
		if p.Satisfies(req) {
			return diagnostic.Diagnostic{}, false
		}
	}

	var context []string
	if keys := differingKeys(locals, req); len(keys) > 0 {
		context = append(context, fmt.Sprintf("same-type local provisions with a different key: %v", keys))
	}
	if isolationMismatch(locals, req) {
		context = append(context, "a same-type local provision exists with a differing isolation flag")
	}

	return diagnostic.Diagnostic{
		Severity:     diagnostic.SeverityError,
		Message:      fmt.Sprintf("Missing dependency in %s: %s", m, formatDependency(req)),
		Location:     &discover.FileLocation{FilePath: node.Location.FilePath, Line: node.Location.Line},
		ContextLines: context,
	}, true
}

func (a *Analyzer) checkInheritedRequirement(g *graph.DependencyGraph, v string, node discover.DiscoveredNode, m string, req discover.Dependency, paths [][]string, showValidPaths bool) (diagnostic.Diagnostic, bool) {
	var failing, satisfying [][]string

	for _, path := range paths {
		available := a.availableProvisions(g, path, m)
		satisfied := false
		for _, p := range available {
			if p.Satisfies(req) {
				satisfied = true
				break
			}
		}
		if satisfied {
			satisfying = append(satisfying, path)
		} else {
			failing = append(failing, path)
		}
	}

	if len(failing) == 0 {
		return diagnostic.Diagnostic{}, false
	}

	allProvisions := a.results.Provisions[m]
	for _, path := range paths {
		allProvisions = append(allProvisions, a.availableProvisions(g, path, m)...)
	}

	var context []string
	context = append(context, fmt.Sprintf("(%d of %d paths satisfy this requirement)", len(satisfying), len(paths)))
	if keys := differingKeys(allProvisions, req); len(keys) > 0 {
		context = append(context, fmt.Sprintf("same-type provisions with a different key: %v", keys))
	}
	if isolationMismatch(allProvisions, req) {
		context = append(context, "a same-type provision exists with a differing isolation flag")
	}
	context = append(context, formatPaths("failing paths", failing)...)
	if showValidPaths {
		context = append(context, formatPaths("satisfying paths", satisfying)...)
	}

	return diagnostic.Diagnostic{
		Severity:     diagnostic.SeverityError,
		Message:      fmt.Sprintf("Missing dependency in %s: %s", m, formatDependency(req)),
		Location:     &discover.FileLocation{FilePath: node.Location.FilePath, Line: node.Location.Line},
		GraphOrigin:  &g.Origin,
		ContextLines: context,
	}, true
}

func (a *Analyzer) checkInput(g *graph.DependencyGraph, v string, node discover.DiscoveredNode, m string, ir discover.InputRequirement, paths [][]string, showValidPaths bool) (diagnostic.Diagnostic, bool) {
	var failing, satisfying [][]string

	for _, path := range paths {
		available := a.availableInputTypes(g, path, m, v)
		if available[ir.Type] {
			satisfying = append(satisfying, path)
		} else {
			failing = append(failing, path)
		}
	}

	if len(failing) == 0 {
		return diagnostic.Diagnostic{}, false
	}

	context := []string{fmt.Sprintf("(%d of %d paths satisfy this requirement)", len(satisfying), len(paths))}
	context = append(context, formatPaths("failing paths", failing)...)
	if showValidPaths {
		context = append(context, formatPaths("satisfying paths", satisfying)...)
	}

	return diagnostic.Diagnostic{
		Severity:     diagnostic.SeverityError,
		Message:      fmt.Sprintf("Missing input for %s: %s", m, ir.Type),
		Location:     &discover.FileLocation{FilePath: node.Location.FilePath, Line: node.Location.Line},
		GraphOrigin:  &g.Origin,
		ContextLines: context,
	}, true
}

// availableProvisions builds the visible, non-local provision set for one
// path.
func (a *Analyzer) availableProvisions(g *graph.DependencyGraph, path []string, m string) []discover.Dependency {
	pathTypes := make(map[string]bool, len(path))
	for _, t := range path {
		pathTypes[t] = true
	}

	modules := map[string]bool{}
	var moduleOrder []string
	addModule := func(name string) {
		if name != "" && !modules[name] {
			modules[name] = true
			moduleOrder = append(moduleOrder, name)
		}
	}
	addModule(m)
	for _, n := range path {
		for _, c := range a.candidateModules(n, g) {
			addModule(c)
		}
	}

	var out []discover.Dependency
	for _, mod := range moduleOrder {
		for _, p := range a.results.Provisions[mod] {
			if p.IsLocal {
				continue
			}
			if p.Scope.VisibleOn(g.Origin, pathTypes) {
				out = append(out, p)
			}
		}
	}
	return out
}

// availableInputTypes builds the set of input types visible on one path,
// indexed by each path node's candidate modules and type name, plus m and
// v.
func (a *Analyzer) availableInputTypes(g *graph.DependencyGraph, path []string, m, v string) map[string]bool {
	keys := map[string]bool{m: true, v: true}
	for _, n := range path {
		keys[n] = true
		for _, c := range a.candidateModules(n, g) {
			keys[c] = true
		}
	}

	types := make(map[string]bool)
	for key := range keys {
		for _, pi := range a.results.ProvidedInputs[key] {
			types[pi.Type] = true
		}
	}
	return types
}

// candidateModules returns every module whose provisions should be
// considered reachable from a path node: the node's own declared module,
// plus — for an undiscovered root type — the module owning the file that
// instantiated it and the root type name itself used as a module key.
func (a *Analyzer) candidateModules(n string, g *graph.DependencyGraph) []string {
	var modules []string
	seen := map[string]bool{}
	add := func(name string) {
		if name != "" && !seen[name] {
			seen[name] = true
			modules = append(modules, name)
		}
	}

	node, discovered := a.nodeByType[n]
	if discovered {
		add(node.ModuleName)
	}

	if n == g.RootType && !discovered {
		if modName, ok := a.mm.ModuleForFile(g.Origin.FilePath); ok {
			add(modName)
		} else if modName, ok := modulemap.SourcesFallback(g.Origin.FilePath); ok {
			add(modName)
		}
		add(n)
	}

	return modules
}

// FindDependency implements the find-dependency mode: one info diagnostic
// per node requiring typeName, marked satisfied or not across every path.
func (a *Analyzer) FindDependency(graphs []*graph.DependencyGraph, typeName string) []diagnostic.Diagnostic {
	var diags []diagnostic.Diagnostic

	for _, g := range graphs {
		for _, v := range g.Nodes() {
			node, ok := a.nodeByType[v]
			if !ok {
				continue
			}
			m := node.ModuleName
			paths := g.PathsTo(v)

			for _, req := range a.results.Requirements[m] {
				if req.Type != typeName {
					continue
				}
				satisfied := a.requirementSatisfiedEverywhere(g, v, node, m, req, paths)
				diags = append(diags, findDiagnostic(node, g, m, typeName, satisfied))
			}
		}
	}

	diagnostic.SortByDependencyName(diags)
	return diags
}

func (a *Analyzer) requirementSatisfiedEverywhere(g *graph.DependencyGraph, v string, node discover.DiscoveredNode, m string, req discover.Dependency, paths [][]string) bool {
	if req.IsLocal {
		for _, p := range filterLocal(a.results.Provisions[m]) {
			if p.Satisfies(req) {
				return true
			}
		}
		return false
	}
	for _, path := range paths {
		satisfied := false
		for _, p := range a.availableProvisions(g, path, m) {
			if p.Satisfies(req) {
				satisfied = true
				break
			}
		}
		if !satisfied {
			return false
		}
	}
	return true
}

func findDiagnostic(node discover.DiscoveredNode, g *graph.DependencyGraph, m, typeName string, satisfied bool) diagnostic.Diagnostic {
	mark := "✅"
	if !satisfied {
		mark = "❌"
	}
	return diagnostic.Diagnostic{
		Severity:    diagnostic.SeverityInfo,
		Message:     fmt.Sprintf("%s %s requires %s (module %s)", mark, node.TypeName, typeName, m),
		Location:    &discover.FileLocation{FilePath: node.Location.FilePath, Line: node.Location.Line},
		GraphOrigin: &g.Origin,
	}
}

func filterLocal(deps []discover.Dependency) []discover.Dependency {
	var out []discover.Dependency
	for _, d := range deps {
		if d.IsLocal {
			out = append(out, d)
		}
	}
	return out
}

func differingKeys(provisions []discover.Dependency, req discover.Dependency) []string {
	seen := map[string]bool{}
	var keys []string
	for _, p := range provisions {
		if p.Type != req.Type {
			continue
		}
		if p.HasKey == req.HasKey && p.Key == req.Key {
			continue
		}
		k := p.Key
		if !p.HasKey {
			k = "<none>"
		}
		if !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

func isolationMismatch(provisions []discover.Dependency, req discover.Dependency) bool {
	for _, p := range provisions {
		if p.Type == req.Type && p.HasKey == req.HasKey && p.Key == req.Key && p.IsMainActor != req.IsMainActor {
			return true
		}
	}
	return false
}

func formatDependency(d discover.Dependency) string {
	s := d.Type
	if d.HasKey {
		s += fmt.Sprintf("(key: %s)", d.Key)
	}
	if d.IsMainActor {
		s += " [mainActor]"
	}
	if d.IsLocal {
		s += " [local]"
	}
	return s
}

func formatPaths(label string, paths [][]string) []string {
	if len(paths) == 0 {
		return nil
	}
	shown := paths
	overflow := 0
	if len(shown) > maxFailingPathsShown {
		overflow = len(shown) - maxFailingPathsShown
		shown = shown[:maxFailingPathsShown]
	}
	lines := []string{label + ":"}
	for _, p := range shown {
		lines = append(lines, "  "+pathString(p))
	}
	if overflow > 0 {
		lines = append(lines, fmt.Sprintf("  ... and %d more", overflow))
	}
	return lines
}

func pathString(path []string) string {
	out := ""
	for i, t := range path {
		if i > 0 {
			out += " -> "
		}
		out += t
	}
	return out
}
