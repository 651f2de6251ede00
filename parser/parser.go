// Package parser provides tree-sitter parsing and query execution.
package parser

import (
	"context"
	"fmt"
	"os"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/arjunmahishi/stanalyzer/lang"
)

// Parser wraps a tree-sitter parser for a specific language.
// A Parser is not safe for concurrent use; give each goroutine its own.
type Parser struct {
	parser *sitter.Parser
	lang   lang.Language
}

// New creates a new Parser for the given language.
func New(language lang.Language) *Parser {
	p := sitter.NewParser()
	p.SetLanguage(language.TreeSitterLang())
	return &Parser{
		parser: p,
		lang:   language,
	}
}

// Parse parses source code and returns the syntax tree.
func (p *Parser) Parse(source []byte) (*sitter.Tree, error) {
	tree, err := p.parser.ParseCtx(context.Background(), nil, source)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	return tree, nil
}

// ParseFile reads and parses a file.
func (p *Parser) ParseFile(path string) (*sitter.Tree, []byte, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read file: %w", err)
	}
	tree, err := p.Parse(source)
	if err != nil {
		return nil, nil, err
	}
	return tree, source, nil
}

// Close releases the underlying tree-sitter parser.
func (p *Parser) Close() {
	p.parser.Close()
}

// Query represents a compiled tree-sitter query.
// A compiled Query may be shared across goroutines.
type Query struct {
	query        *sitter.Query
	captureNames []string
}

// Capture is one captured node of a match.
type Capture struct {
	Name string
	Node *sitter.Node
}

// Match is one query match in document order.
type Match struct {
	Pattern  int
	Captures []Capture
}

// NewQuery compiles a tree-sitter query string.
func NewQuery(queryStr string, language lang.Language) (*Query, error) {
	q, err := sitter.NewQuery([]byte(queryStr), language.TreeSitterLang())
	if err != nil {
		return nil, fmt.Errorf("compile query: %w", err)
	}

	captureCount := int(q.CaptureCount())
	captureNames := make([]string, captureCount)
	for i := 0; i < captureCount; i++ {
		captureNames[i] = q.CaptureNameForId(uint32(i))
	}

	return &Query{
		query:        q,
		captureNames: captureNames,
	}, nil
}

// Run executes the query on a syntax tree and returns its matches.
func (q *Query) Run(tree *sitter.Tree, source []byte) []Match {
	cursor := sitter.NewQueryCursor()
	defer cursor.Close()
	cursor.Exec(q.query, tree.RootNode())

	var matches []Match
	for {
		match, ok := cursor.NextMatch()
		if !ok {
			break
		}
		match = cursor.FilterPredicates(match, source)

		result := Match{Pattern: int(match.PatternIndex)}
		for _, capture := range match.Captures {
			result.Captures = append(result.Captures, Capture{
				Name: q.captureName(capture.Index),
				Node: capture.Node,
			})
		}
		matches = append(matches, result)
	}

	return matches
}

func (q *Query) captureName(index uint32) string {
	if int(index) >= len(q.captureNames) {
		return fmt.Sprintf("capture_%d", index)
	}
	return q.captureNames[index]
}

// Text returns the source text spanned by a node.
func Text(node *sitter.Node, source []byte) string {
	if node == nil {
		return ""
	}
	return string(source[node.StartByte():node.EndByte()])
}
