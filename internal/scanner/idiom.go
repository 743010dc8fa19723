package scanner

import (
	"regexp"
	"strings"
)

// This file holds the Scanner's pure, tree-independent idiom recognizers:
// given already-extracted source text for one call or attribute, they
// decide what DI idiom (if any) it expresses. Keeping them free of
// *sitter.Node lets each idiom be exercised directly by table-driven tests
// without a working parse tree.

var (
	markerAttrRe  = regexp.MustCompile(`@DependencyRequirements\s*(\(([^)]*)\))?`)
	dependencyBuilderCallRe = regexp.MustCompile(`\bDependencyBuilder\s*<\s*([A-Za-z_][A-Za-z0-9_.]*)\s*>\s*\(\s*\)`)
	rootShorthandRe = regexp.MustCompile(`\bRootDependencyBuilder\.buildChild\s*\(\s*([A-Za-z_][A-Za-z0-9_.]*)\.self`)
	buildChildRe    = regexp.MustCompile(`\b([A-Za-z_][A-Za-z0-9_]*)\.buildChild\s*\(\s*([A-Za-z_][A-Za-z0-9_.]*)\.self`)
	freezeRe        = regexp.MustCompile(`\b([A-Za-z_][A-Za-z0-9_]*)\s*=\s*([A-Za-z_][A-Za-z0-9_]*)\.freeze\s*\(\s*\)`)
	assignRe        = regexp.MustCompile(`\b(?:let|var)\s+([A-Za-z_][A-Za-z0-9_]*)\s*=\s*(.+)`)
	registerChainRe = regexp.MustCompile(`\b([A-Za-z_][A-Za-z0-9_]*((?:\.mainActor|\.local)*)\.register[A-Za-z0-9_]*)\s*\(\s*([A-Za-z_][A-Za-z0-9_.]*)\.self(?:\s*,\s*key\s*:\s*([^)]+))?\s*\)`)
	provideInputRe  = regexp.MustCompile(`\bprovideInput\s*\(\s*([A-Za-z_][A-Za-z0-9_.]*)\.self`)
)

// NodeAttribute describes a recognized @DependencyRequirements(...) marker,
// or a bare presence with no argument list.
type NodeAttribute struct {
	Present bool
	Args    string // raw text between the parens, empty if no parens
}

// FindMarkerAttribute scans text (normally the few lines preceding a type
// declaration) for the marker attribute.
func FindMarkerAttribute(text string) NodeAttribute {
	m := markerAttrRe.FindStringSubmatch(text)
	if m == nil {
		return NodeAttribute{}
	}
	return NodeAttribute{Present: true, Args: strings.TrimSpace(m[2])}
}

// ConformsToMarkerProtocol reports whether a type's heritage clause text
// names the DependencyRequirements protocol, the alternative to the marker
// attribute.
func ConformsToMarkerProtocol(heritage string) bool {
	for _, part := range strings.Split(heritage, ",") {
		if strings.TrimSpace(part) == "DependencyRequirements" {
			return true
		}
	}
	return false
}

// AttributeBucket is one of the labeled argument buckets the marker
// attribute's argument list can carry.
type AttributeBucket int

const (
	BucketOrdinary AttributeBucket = iota
	BucketMainActor
	BucketLocal
	BucketLocalMainActor
	BucketInputs
)

// ParsedAttributeArg is one top-level, comma-separated entry of the marker
// attribute's argument list, already classified into its bucket.
type ParsedAttributeArg struct {
	Bucket AttributeBucket
	// Items is the list literal's element texts (unparsed further here;
	// each becomes one Dependency/InputRequirement downstream).
	Items []string
}

// ParseAttributeArgs splits a marker attribute's argument text (the
// content between its parens) into its labeled buckets. Each label
// introduces one list-literal-valued argument; unlabeled content is the
// plain requirements list.
func ParseAttributeArgs(args string) []ParsedAttributeArg {
	if strings.TrimSpace(args) == "" {
		return nil
	}

	var results []ParsedAttributeArg
	for _, seg := range splitTopLevelArgs(args) {
		seg = strings.TrimSpace(seg)
		if seg == "" {
			continue
		}

		label, rest, hasLabel := splitLabel(seg)
		items := splitListLiteral(rest)

		bucket := BucketOrdinary
		switch label {
		case "mainActor":
			bucket = BucketMainActor
		case "local":
			bucket = BucketLocal
		case "localMainActor":
			bucket = BucketLocalMainActor
		case "inputs":
			bucket = BucketInputs
		default:
			if hasLabel {
				// Unrecognized label: ignore it rather than erroring.
				continue
			}
		}
		results = append(results, ParsedAttributeArg{Bucket: bucket, Items: items})
	}
	return results
}

// splitTopLevelArgs splits a comma-separated argument list, respecting
// nested brackets/parens so that list-literal commas don't split early.
func splitTopLevelArgs(s string) []string {
	var parts []string
	depth := 0
	start := 0
	for i, r := range s {
		switch r {
		case '(', '[':
			depth++
		case ')', ']':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	parts = append(parts, s[start:])
	return parts
}

// splitLabel splits "label: rest" from a bare expression, reporting
// whether a label was present.
func splitLabel(seg string) (label, rest string, hasLabel bool) {
	idx := strings.Index(seg, ":")
	if idx == -1 {
		return "", seg, false
	}
	candidate := strings.TrimSpace(seg[:idx])
	if candidate == "" || strings.ContainsAny(candidate, " \t([") {
		return "", seg, false
	}
	return candidate, strings.TrimSpace(seg[idx+1:]), true
}

// splitListLiteral extracts the comma-separated element texts of a
// "[a, b, c]" literal. Non-list input yields a single-element slice.
func splitListLiteral(s string) []string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]") {
		inner := s[1 : len(s)-1]
		var items []string
		for _, part := range splitTopLevelArgs(inner) {
			part = strings.TrimSpace(part)
			if part != "" {
				items = append(items, part)
			}
		}
		return items
	}
	if s == "" {
		return nil
	}
	return []string{s}
}

// IsRegisterDeclarationProperty reports whether a property's name is one of
// the two hand-written equivalents of the marker attribute.
func IsRegisterDeclarationProperty(name string) bool {
	return name == "requirements" || name == "inputRequirements"
}

// MatchDependencyBuilderCall extracts T from a `DependencyBuilder<T>()`
// call.
func MatchDependencyBuilderCall(text string) (typeName string, ok bool) {
	m := dependencyBuilderCallRe.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// MatchRootShorthand extracts T from `RootDependencyBuilder.buildChild(T.self)`.
func MatchRootShorthand(text string) (typeName string, ok bool) {
	m := rootShorthandRe.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// BuildChildCall is one `X.buildChild(Y.self, ...)` call.
type BuildChildCall struct {
	Receiver string
	Child    string
	HasClosure bool
}

// MatchBuildChild extracts the receiver and child type of a buildChild
// call, and whether it carries a trailing closure.
func MatchBuildChild(text string) (BuildChildCall, bool) {
	m := buildChildRe.FindStringSubmatch(text)
	if m == nil {
		return BuildChildCall{}, false
	}
	return BuildChildCall{
		Receiver:   m[1],
		Child:      m[2],
		HasClosure: strings.Contains(text, "{"),
	}, true
}

// MatchFreeze extracts "lhs = rhs.freeze()" assignments that propagate a
// tracked variable's type under a new name.
func MatchFreeze(text string) (lhs, rhs string, ok bool) {
	m := freezeRe.FindStringSubmatch(text)
	if m == nil {
		return "", "", false
	}
	return m[1], m[2], true
}

// MatchVarAssignment extracts "let/var name = expr" bindings, used to seed
// the local variable table when expr is itself a tracked buildChild result.
func MatchVarAssignment(text string) (name, expr string, ok bool) {
	m := assignRe.FindStringSubmatch(text)
	if m == nil {
		return "", "", false
	}
	return m[1], strings.TrimSpace(m[2]), true
}

// RegisterCall is one recognized registration access-chain call.
type RegisterCall struct {
	Root        string
	Type        string
	Key         string
	HasKey      bool
	IsMainActor bool
	IsLocal     bool
}

var chainSuffixes = []string{".mainActor.local", ".local.mainActor", ".mainActor", ".local"}

// MatchRegisterChain recognizes the five register* access-chain shapes,
// normalizing the chain by stripping the longest matching isolation suffix
// to recover the root variable name.
func MatchRegisterChain(text string) (RegisterCall, bool) {
	m := registerChainRe.FindStringSubmatch(text)
	if m == nil {
		return RegisterCall{}, false
	}
	chain := m[1]
	root := chain
	for _, suffix := range chainSuffixes {
		idx := strings.Index(chain, suffix+".register")
		if idx >= 0 {
			root = chain[:idx]
			break
		}
	}

	call := RegisterCall{
		Root:        root,
		Type:        cleanTypeRef(m[3]),
		IsMainActor: strings.Contains(chain, ".mainActor."),
		IsLocal:     strings.Contains(chain, ".local."),
	}
	if len(m) > 4 && strings.TrimSpace(m[4]) != "" {
		call.HasKey = true
		call.Key = strings.TrimSpace(m[4])
	}
	return call, true
}

// MatchProvideInput extracts T from a `provideInput(T.self, ...)` call.
func MatchProvideInput(text string) (typeName string, ok bool) {
	m := provideInputRe.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// IsPreviewMacro reports whether a macro/attribute name is "Preview", whose
// expansions must be skipped entirely.
func IsPreviewMacro(name string) bool {
	return name == "Preview"
}
