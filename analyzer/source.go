package analyzer

import (
	"os"

	"github.com/arjunmahishi/stanalyzer/frontend"
	"github.com/arjunmahishi/stanalyzer/types"
)

// Source is the front end the extractor reads declarations from.
type Source interface {
	// ListTypes returns every type declared under root, nested and local
	// ones included.
	ListTypes(root string) ([]TypeDecl, error)
}

// TypeDecl is one type declaration as the front end reports it.
type TypeDecl interface {
	Kind() types.Kind
	SimpleName() string
	QualifiedName() string
	FilePath() (string, bool)
	SourceText() string
	Position() string
	AllMethods() []Executable
	Constructors() []Executable
}

// Executable is a method or constructor.
type Executable interface {
	Name() string
	Signature() string
	SourceText() string
	HasValidPosition() bool
}

// TreeSitterSource adapts the tree-sitter front end to Source.
type TreeSitterSource struct {
	loader *frontend.Loader
}

// NewTreeSitterSource creates a Source with its own parser. Give each
// goroutine its own Source.
func NewTreeSitterSource(opts frontend.Options) (*TreeSitterSource, error) {
	loader, err := frontend.NewLoader(opts)
	if err != nil {
		return nil, err
	}
	return &TreeSitterSource{loader: loader}, nil
}

// ListTypes loads every source under root. A root that is a single
// source file loads just that file.
func (s *TreeSitterSource) ListTypes(root string) ([]TypeDecl, error) {
	load := s.loader.Load
	if info, err := os.Stat(root); err == nil && !info.IsDir() {
		load = s.loader.LoadFile
	}
	prog, err := load(root)
	if err != nil {
		return nil, err
	}
	return declsOf(prog), nil
}

// ListFiles is ListTypes over in-memory sources.
func (s *TreeSitterSource) ListFiles(files []frontend.File) []TypeDecl {
	return declsOf(s.loader.LoadFiles(files))
}

func (s *TreeSitterSource) Close() {
	s.loader.Close()
}

func declsOf(prog *frontend.Program) []TypeDecl {
	decls := make([]TypeDecl, 0, len(prog.Types()))
	for _, t := range prog.Types() {
		decls = append(decls, typeDecl{t})
	}
	return decls
}

type typeDecl struct {
	*frontend.Type
}

func (d typeDecl) AllMethods() []Executable {
	return executables(d.Type.AllMethods())
}

func (d typeDecl) Constructors() []Executable {
	return executables(d.Type.Constructors())
}

func executables(methods []*frontend.Method) []Executable {
	out := make([]Executable, len(methods))
	for i, m := range methods {
		out[i] = m
	}
	return out
}
