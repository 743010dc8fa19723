package scanner

import (
	"context"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"divet/internal/discover"
)

// ScanFile walks a single Swift source file and produces its
// ScannedFileData. An unreadable or unparseable file is the caller's
// concern (no record, or a best-effort partial tree); ScanFile itself
// only needs bytes and a successful parse.
func ScanFile(ctx context.Context, parser *Parser, filePath, moduleName string, source []byte, mtime float64) (*discover.ScannedFileData, error) {
	root, err := parser.Parse(ctx, source)
	if err != nil {
		return nil, err
	}

	s := &fileScan{
		filePath:   filePath,
		fileName:   baseName(filePath),
		moduleName: moduleName,
		source:     source,
		result: &discover.ScannedFileData{
			FilePath:   filePath,
			ModuleName: moduleName,
			Mtime:      mtime,
		},
	}
	s.walkTypeBody(root, nil, newTopLevelFunc())
	s.flushPendingRoot(s.top)
	return s.result, nil
}

func baseName(path string) string {
	idx := strings.LastIndexByte(path, '/')
	if idx < 0 {
		return path
	}
	return path[idx+1:]
}

// fileScan carries per-file state while walking: the result accumulator
// and the "top-level" function scan state used for property initializers
// that aren't inside any function. The type-name stack is passed down
// through walkTypeBody rather than stored here.
type fileScan struct {
	filePath   string
	fileName   string
	moduleName string
	source     []byte
	result     *discover.ScannedFileData
	top        *funcScan

	// previewDepth tracks brace nesting while skipping a #Preview/@Preview
	// macro body; 0 means not currently skipping.
	previewDepth int
}

// qualifiedName joins a type stack into "Outer.Inner.Name".
func qualifiedName(stack []string) string {
	return strings.Join(stack, ".")
}

// walkTypeBody recurses through n looking for nested type declarations and
// function declarations, maintaining typeStack for qualified naming.
// fs is the enclosing function-scan context, used only for property
// initializers that appear directly inside a type body (no function).
func (s *fileScan) walkTypeBody(n *sitter.Node, typeStack []string, fs *funcScan) {
	if n == nil {
		return
	}
	s.top = fs

	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		text := child.Content(s.source)
		kind := child.Type()

		switch {
		case kind == kindClassDecl && isTypeDeclKeyword(firstField(text)):
			name := declaredName(text)
			if name == "" {
				s.walkTypeBody(child, typeStack, fs)
				continue
			}
			newStack := append(append([]string{}, typeStack...), name)
			s.maybeRegisterNode(child, text, newStack)
			s.walkTypeBody(child, newStack, fs)

		case kind == kindProtocolDecl:
			// Protocols never carry requirements; still recurse for nested decls.
			s.walkTypeBody(child, typeStack, fs)

		case kind == kindFunctionDecl:
			fname := declaredName(text)
			childFS := newFuncScan(fname, qualifiedName(typeStack))
			s.scanFunctionBody(child, text, childFS)
			s.flushPendingRoot(childFS)
			s.walkTypeBody(child, typeStack, fs)

		case kind == kindPropertyDecl:
			s.scanPropertyDecl(text, typeStack, fs)
			s.walkTypeBody(child, typeStack, fs)

		default:
			s.walkTypeBody(child, typeStack, fs)
		}
	}
}

func firstField(text string) string {
	fields := splitIdentFields(text)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// maybeRegisterNode checks a type declaration for the marker attribute or
// protocol conformance, recording the file's DiscoveredNode on first
// match. Later matches within the same file are ignored.
func (s *fileScan) maybeRegisterNode(n *sitter.Node, declText string, qualifiedStack []string) {
	if s.result.Node != nil {
		return
	}

	attrText := textBefore(n, s.source, 3)
	attr := FindMarkerAttribute(attrText)
	conforms := ConformsToMarkerProtocol(heritageClause(declText))
	if !attr.Present && !conforms {
		return
	}

	name := qualifiedName(qualifiedStack)
	line := int(n.StartPoint().Row) + 1

	node := &discover.DiscoveredNode{
		TypeName:   name,
		ModuleName: s.moduleName,
		Location:   discover.FileLocation{FilePath: s.filePath, Line: line},
	}
	if attr.Present {
		for _, arg := range ParseAttributeArgs(attr.Args) {
			applyAttributeBucket(node, arg)
		}
	}
	s.result.Node = node
}

func applyAttributeBucket(node *discover.DiscoveredNode, arg ParsedAttributeArg) {
	if arg.Bucket == BucketInputs {
		for _, item := range arg.Items {
			node.InputRequirements = append(node.InputRequirements, discover.InputRequirement{Type: cleanTypeRef(item)})
		}
		return
	}
	isMainActor := arg.Bucket == BucketMainActor || arg.Bucket == BucketLocalMainActor
	isLocal := arg.Bucket == BucketLocal || arg.Bucket == BucketLocalMainActor
	for _, item := range arg.Items {
		typeName, key, hasKey := parseRequirementItem(item)
		node.Requirements = append(node.Requirements, discover.Dependency{
			Type:        typeName,
			Key:         key,
			HasKey:      hasKey,
			IsMainActor: isMainActor,
			IsLocal:     isLocal,
		})
	}
}

// parseRequirementItem parses one requirement-list element, of the form
// "T.self" or "T.self(key: K)".
func parseRequirementItem(item string) (typeName, key string, hasKey bool) {
	item = strings.TrimSpace(item)
	keyIdx := strings.Index(item, "key:")
	if keyIdx >= 0 {
		typeName = cleanTypeRef(item[:keyIdx])
		rest := strings.TrimSpace(item[keyIdx+len("key:"):])
		rest = strings.TrimSuffix(strings.TrimPrefix(rest, "("), ")")
		return typeName, strings.TrimSpace(rest), true
	}
	return cleanTypeRef(item), "", false
}

func cleanTypeRef(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, ".self")
	if idx := strings.IndexByte(s, '('); idx >= 0 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}

// scanPropertyDecl handles the hand-written "requirements"/"inputRequirements"
// property equivalent, and property initializers containing a shorthand
// root call.
func (s *fileScan) scanPropertyDecl(text string, typeStack []string, fs *funcScan) {
	name := declaredName(text)
	eq := strings.IndexByte(text, '=')
	if eq < 0 {
		return
	}
	initializer := strings.TrimSpace(text[eq+1:])

	if IsRegisterDeclarationProperty(name) && s.result.Node != nil {
		items := splitListLiteral(initializer)
		bucket := BucketOrdinary
		if name == "inputRequirements" {
			bucket = BucketInputs
		}
		applyAttributeBucket(s.result.Node, ParsedAttributeArg{Bucket: bucket, Items: items})
		return
	}

	// Property-initializer root: evaluated with no enclosing function, so
	// a discovered root is emitted immediately with empty InitialEdges.
	// Only the shorthand form is valid here; the explicit-builder form is
	// function-level only.
	s.scanLineForRootOnly(initializer)
}

func (s *fileScan) scanLineForRootOnly(line string) {
	if strings.Contains(line, "Preview") {
		return
	}
	if t, ok := MatchRootShorthand(line); ok {
		s.result.Roots = append(s.result.Roots, discover.DiscoveredRoot{
			RootTypeName: t,
			Origin:       discover.GraphOrigin{FileName: s.fileName, FilePath: s.filePath},
		})
	}
}
