// Package frontend builds a declaration graph of Java sources with
// tree-sitter: the types a source root declares, their kinds and text, and
// the methods and constructors applicable to each.
package frontend

import (
	"fmt"

	"github.com/arjunmahishi/stanalyzer/types"
)

// Program is the linked set of declarations loaded from one source root.
// It is not safe for concurrent use.
type Program struct {
	types []*Type
	byQN  map[string]*Type
}

func newProgram() *Program {
	return &Program{byQN: make(map[string]*Type)}
}

// Types returns every named type declaration in load order: files in
// lexical order, declarations within a file in source order.
func (p *Program) Types() []*Type {
	return p.types
}

// Lookup returns the declaration with the given qualified name. When two
// files declare the same name the first one loaded wins.
func (p *Program) Lookup(qualifiedName string) *Type {
	return p.byQN[qualifiedName]
}

func (p *Program) add(t *Type) {
	p.types = append(p.types, t)
	if _, ok := p.byQN[t.qualifiedName]; !ok {
		p.byQN[t.qualifiedName] = t
	}
}

// unit is the per-file context names are resolved in.
type unit struct {
	path     string
	pkg      string
	types    map[string]*Type
	imports  map[string]string
	onDemand []string
}

// Type is one class, interface, annotation, enum or record declaration.
type Type struct {
	kind          types.Kind
	simpleName    string
	qualifiedName string
	line          int
	source        string
	anonymous     bool
	local         bool

	unit            *unit
	outer           *Type
	enclosingMethod *Method
	members         map[string]*Type
	locals          map[string]*Type
	tparams         []typeParam
	superclass      *typeRef
	interfaces      []typeRef

	methods []*Method
	ctors   []*Method

	prog      *Program
	all       []*Method
	resolving bool
}

// Kind reports the declaration category. Enums and records are
// types.Unsupported.
func (t *Type) Kind() types.Kind { return t.kind }

func (t *Type) SimpleName() string { return t.simpleName }

// QualifiedName is the binary name: nested and local types are joined to
// their enclosing type with '$'.
func (t *Type) QualifiedName() string { return t.qualifiedName }

// FilePath returns the file the type was declared in. ok is false when the
// source came without a path.
func (t *Type) FilePath() (path string, ok bool) {
	return t.unit.path, t.unit.path != ""
}

// SourceText returns the declaration text, including a Javadoc comment
// directly above it.
func (t *Type) SourceText() string { return t.source }

func (t *Type) Position() string {
	return position(t.unit.path, t.line)
}

// Local reports whether the type was declared inside a method or
// initializer body.
func (t *Type) Local() bool { return t.local }

// Outer returns the enclosing type, or nil for a top-level type.
func (t *Type) Outer() *Type {
	if t.outer != nil && t.outer.anonymous {
		return t.outer.outer
	}
	return t.outer
}

// DeclaredMethods returns the methods written in the type's body.
func (t *Type) DeclaredMethods() []*Method { return t.methods }

// Method is a method or constructor. Members inherited from java.lang
// types are synthetic and have no valid position.
type Method struct {
	name      string
	params    []typeRef
	tparams   []typeParam
	signature string
	source    string
	line      int
	valid     bool
	private   bool
	static    bool
	owner     *Type
}

func (m *Method) Name() string { return m.name }

// Signature is the name followed by the erased, qualified parameter
// types, e.g. "put(java.lang.Object,int[])".
func (m *Method) Signature() string { return m.signature }

func (m *Method) SourceText() string { return m.source }

func (m *Method) HasValidPosition() bool { return m.valid }

// Owner returns the declaring type, or nil for synthetic members.
func (m *Method) Owner() *Type { return m.owner }

func (m *Method) Position() string {
	if !m.valid || m.owner == nil {
		return ""
	}
	return position(m.owner.unit.path, m.line)
}

func position(path string, line int) string {
	if path == "" {
		path = types.UnknownPath
	}
	return fmt.Sprintf("%s:%d", path, line)
}
