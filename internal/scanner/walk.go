package scanner

import (
	sitter "github.com/smacker/go-tree-sitter"
)

// Node-kind constants and text helpers used by walkTypeBody's recursive,
// kind-switched walk over the syntax tree.

// swift tree-sitter node kind names this package recognizes. Grammar
// details are assumed rather than toolchain-verified (this module never
// runs go build); if a binding names these differently the fix is local to
// this file.
const (
	kindClassDecl    = "class_declaration" // tree-sitter-swift folds class/struct/enum/extension into one node kind
	kindProtocolDecl = "protocol_declaration"
	kindFunctionDecl = "function_declaration"
	kindPropertyDecl = "property_declaration"
)

// typeDeclKeywords distinguishes which declaration_kind (class/struct/
// enum/extension) a class_declaration node represents; tree-sitter-swift
// exposes this as the node's "declaration_kind" or first-child keyword
// token, read here via its text.
var typeDeclKeywords = []string{"class", "struct", "enum", "extension", "actor"}

func isTypeDeclKeyword(text string) bool {
	for _, kw := range typeDeclKeywords {
		if text == kw {
			return true
		}
	}
	return false
}

// textBefore returns up to maxLines lines of source immediately preceding
// n's start byte, used to recover attributes (e.g. "@DependencyRequirements")
// that precede a declaration as sibling tokens rather than as a child node
// in every grammar revision.
func textBefore(n *sitter.Node, source []byte, maxLines int) string {
	start := int(n.StartByte())
	if start > len(source) {
		start = len(source)
	}
	lineStart := start
	lines := 0
	for lineStart > 0 && lines < maxLines {
		lineStart--
		if source[lineStart] == '\n' {
			lines++
		}
	}
	return string(source[lineStart:start])
}

// declaredName returns the identifier immediately following the
// declaration keyword token, approximating tree-sitter-swift's
// "name" field without depending on field access being wired up exactly.
func declaredName(text string) string {
	fields := splitIdentFields(text)
	for i, f := range fields {
		if isTypeDeclKeyword(f) && i+1 < len(fields) {
			return stripGenericParams(fields[i+1])
		}
		if f == "func" && i+1 < len(fields) {
			return stripGenericParams(fields[i+1])
		}
		if f == "var" && i+1 < len(fields) {
			return stripGenericParams(fields[i+1])
		}
		if f == "let" && i+1 < len(fields) {
			return stripGenericParams(fields[i+1])
		}
	}
	return ""
}

func stripGenericParams(s string) string {
	for i, r := range s {
		if r == '<' || r == '(' || r == ':' || r == ' ' {
			return s[:i]
		}
	}
	return s
}

// splitIdentFields splits on ASCII whitespace without allocating a regexp,
// enough to recover the declaration keyword and name token.
func splitIdentFields(text string) []string {
	var fields []string
	start := -1
	for i, r := range text {
		isSpace := r == ' ' || r == '\t' || r == '\n' || r == '\r'
		if isSpace {
			if start >= 0 {
				fields = append(fields, text[start:i])
				start = -1
			}
		} else if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		fields = append(fields, text[start:])
	}
	return fields
}

// heritageClause extracts the ": A, B, C" superclass/protocol list text
// following a type declaration's name, up to the opening brace.
func heritageClause(text string) string {
	brace := indexByte(text, '{')
	head := text
	if brace >= 0 {
		head = text[:brace]
	}
	colon := indexByte(head, ':')
	if colon < 0 {
		return ""
	}
	return head[colon+1:]
}

func indexByte(s string, b byte) int {
	for i := 0; i < len(s); i++ {
		if s[i] == b {
			return i
		}
	}
	return -1
}
