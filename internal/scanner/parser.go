// Package scanner walks the Swift abstract syntax tree of one source file
// and emits a discover.ScannedFileData record. The tree is produced by
// github.com/smacker/go-tree-sitter's swift grammar binding.
package scanner

import (
	"context"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/swift"
)

// Parser wraps a tree-sitter parser configured for Swift. It carries no
// state between calls; each Parse is independent.
type Parser struct {
	inner *sitter.Parser
}

// NewParser returns a Parser ready to parse Swift source.
func NewParser() *Parser {
	p := sitter.NewParser()
	p.SetLanguage(swift.GetLanguage())
	return &Parser{inner: p}
}

// Parse produces the root node of source's syntax tree.
func (p *Parser) Parse(ctx context.Context, source []byte) (*sitter.Node, error) {
	tree, err := p.inner.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, err
	}
	return tree.RootNode(), nil
}
