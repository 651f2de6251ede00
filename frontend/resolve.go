package frontend

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/arjunmahishi/stanalyzer/parser"
)

// maxBoundDepth stops erasure of type variables bounded by each other.
const maxBoundDepth = 8

// typeRef is a type as written, without type arguments or annotations.
type typeRef struct {
	name string // dotted, e.g. "Map.Entry"
	dims int
}

type typeParam struct {
	name  string
	bound typeRef // zero when unbounded
}

func typeRefOf(n *sitter.Node, src []byte) typeRef {
	if n == nil {
		return typeRef{}
	}
	switch n.Type() {
	case "array_type":
		r := typeRefOf(n.ChildByFieldName("element"), src)
		r.dims += dimsOf(n.ChildByFieldName("dimensions"), src)
		return r
	case "generic_type", "annotated_type":
		for i := 0; i < int(n.NamedChildCount()); i++ {
			c := n.NamedChild(i)
			if isTypeNode(c.Type()) {
				return typeRefOf(c, src)
			}
		}
		return typeRef{}
	case "scoped_type_identifier":
		var parts []string
		for i := 0; i < int(n.NamedChildCount()); i++ {
			c := n.NamedChild(i)
			switch c.Type() {
			case "type_identifier":
				parts = append(parts, parser.Text(c, src))
			case "scoped_type_identifier", "generic_type":
				parts = append(parts, typeRefOf(c, src).name)
			}
		}
		return typeRef{name: strings.Join(parts, ".")}
	}
	return typeRef{name: strings.TrimSpace(parser.Text(n, src))}
}

func isTypeNode(kind string) bool {
	switch kind {
	case "type_identifier", "scoped_type_identifier", "generic_type", "array_type",
		"annotated_type", "integral_type", "floating_point_type", "boolean_type", "void_type":
		return true
	}
	return false
}

func dimsOf(n *sitter.Node, src []byte) int {
	if n == nil {
		return 0
	}
	return strings.Count(parser.Text(n, src), "[")
}

func typeParamsOf(n *sitter.Node, src []byte) []typeParam {
	if n == nil {
		return nil
	}
	var params []typeParam
	for i := 0; i < int(n.NamedChildCount()); i++ {
		tp := n.NamedChild(i)
		if tp.Type() != "type_parameter" {
			continue
		}
		var p typeParam
		for j := 0; j < int(tp.NamedChildCount()); j++ {
			c := tp.NamedChild(j)
			switch c.Type() {
			case "type_identifier", "identifier":
				if p.name == "" {
					p.name = parser.Text(c, src)
				}
			case "type_bound":
				for k := 0; k < int(c.NamedChildCount()); k++ {
					if b := c.NamedChild(k); isTypeNode(b.Type()) {
						p.bound = typeRefOf(b, src)
						break
					}
				}
			}
		}
		if p.name != "" {
			params = append(params, p)
		}
	}
	return params
}

// paramsOf returns the parameter types of a formal_parameters node. The
// receiver parameter is not part of a signature and is skipped.
func paramsOf(n *sitter.Node, src []byte) []typeRef {
	if n == nil {
		return nil
	}
	var params []typeRef
	for i := 0; i < int(n.NamedChildCount()); i++ {
		p := n.NamedChild(i)
		switch p.Type() {
		case "formal_parameter":
			r := typeRefOf(p.ChildByFieldName("type"), src)
			r.dims += dimsOf(p.ChildByFieldName("dimensions"), src)
			params = append(params, r)
		case "spread_parameter":
			var r typeRef
			for j := 0; j < int(p.NamedChildCount()); j++ {
				if c := p.NamedChild(j); isTypeNode(c.Type()) {
					r = typeRefOf(c, src)
					break
				}
			}
			r.dims++
			params = append(params, r)
		}
	}
	return params
}

// signature renders name(T1,T2) with each parameter erased and qualified
// as seen from m's declaration.
func (p *Program) signature(m *Method, name string) string {
	parts := make([]string, len(m.params))
	for i, ref := range m.params {
		parts[i] = p.erase(ref, m.owner, m, 0)
	}
	return name + "(" + strings.Join(parts, ",") + ")"
}

// erase qualifies ref and replaces type variables with their erasure.
func (p *Program) erase(ref typeRef, scope *Type, m *Method, depth int) string {
	dims := strings.Repeat("[]", ref.dims)
	name := ref.name
	if name == "" {
		return "java.lang.Object" + dims
	}
	if _, ok := primitives[name]; ok {
		return name + dims
	}
	if !strings.Contains(name, ".") {
		if tp, ok := lookupTypeParam(name, scope, m); ok {
			if tp.bound.name == "" || depth >= maxBoundDepth {
				return "java.lang.Object" + dims
			}
			return p.erase(tp.bound, scope, m, depth+1) + dims
		}
	}
	qn, _ := p.lookup(name, scope, scopeUnit(scope))
	return qn + dims
}

func scopeUnit(t *Type) *unit {
	if t == nil {
		return nil
	}
	return t.unit
}

func lookupTypeParam(name string, scope *Type, m *Method) (typeParam, bool) {
	if m != nil {
		for _, tp := range m.tparams {
			if tp.name == name {
				return tp, true
			}
		}
	}
	for s := scope; s != nil; s = s.outer {
		for _, tp := range s.tparams {
			if tp.name == name {
				return tp, true
			}
		}
		if em := s.enclosingMethod; em != nil {
			for _, tp := range em.tparams {
				if tp.name == name {
					return tp, true
				}
			}
		}
	}
	return typeParam{}, false
}

// lookup resolves a dotted type name written inside scope. It returns the
// qualified name and, when the type is declared in this program, its
// declaration. Unresolvable names come back as written.
func (p *Program) lookup(name string, scope *Type, u *unit) (string, *Type) {
	segs := strings.Split(name, ".")
	qn, t, ok := p.resolveSimple(segs[0], scope, u)
	if ok {
		if t != nil {
			return p.descend(t, segs[1:])
		}
		if len(segs) > 1 {
			qn += "." + strings.Join(segs[1:], ".")
		}
		return qn, nil
	}
	if len(segs) > 1 {
		if t := p.lookupQualified(name); t != nil {
			return t.qualifiedName, t
		}
	}
	return name, nil
}

// resolveSimple looks a simple type name up through enclosing scopes, the
// file's own types, single-type imports, the package, on-demand imports
// (program types first, then well-known JDK packages) and java.lang, in
// that order.
func (p *Program) resolveSimple(name string, scope *Type, u *unit) (string, *Type, bool) {
	for s := scope; s != nil; s = s.outer {
		if !s.anonymous && s.simpleName == name {
			return s.qualifiedName, s, true
		}
		if t, ok := s.members[name]; ok {
			return t.qualifiedName, t, true
		}
		if t, ok := s.locals[name]; ok {
			return t.qualifiedName, t, true
		}
	}
	if u != nil {
		if t, ok := u.types[name]; ok {
			return t.qualifiedName, t, true
		}
		if fq, ok := u.imports[name]; ok {
			if t := p.lookupQualified(fq); t != nil {
				return t.qualifiedName, t, true
			}
			return fq, nil, true
		}
		if t, ok := p.byQN[joinName(u.pkg, name)]; ok && t.outer == nil {
			return t.qualifiedName, t, true
		}
		for _, od := range u.onDemand {
			if t := p.lookupQualified(od + "." + name); t != nil {
				return t.qualifiedName, t, true
			}
		}
		for _, od := range u.onDemand {
			if _, ok := knownPackages[od][name]; ok {
				return od + "." + name, nil, true
			}
		}
	}
	if _, ok := javaLang[name]; ok {
		return "java.lang." + name, nil, true
	}
	return "", nil, false
}

// lookupQualified finds a program type by a dotted canonical name such as
// "com.x.Outer.Inner".
func (p *Program) lookupQualified(name string) *Type {
	if t, ok := p.byQN[name]; ok {
		return t
	}
	segs := strings.Split(name, ".")
	for i := len(segs) - 1; i >= 1; i-- {
		t, ok := p.byQN[strings.Join(segs[:i], ".")]
		if !ok {
			continue
		}
		for _, seg := range segs[i:] {
			if t = t.members[seg]; t == nil {
				return nil
			}
		}
		return t
	}
	return nil
}

// descend follows member type names below t. Names it cannot find are
// appended as written.
func (p *Program) descend(t *Type, rest []string) (string, *Type) {
	for i, seg := range rest {
		next, ok := t.members[seg]
		if !ok {
			return t.qualifiedName + "$" + strings.Join(rest[i:], "$"), nil
		}
		t = next
	}
	return t.qualifiedName, t
}

func joinName(pkg, name string) string {
	if pkg == "" {
		return name
	}
	return pkg + "." + name
}
