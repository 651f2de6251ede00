package frontend

import "github.com/arjunmahishi/stanalyzer/types"

// AllMethods returns the methods applicable to t: its declared methods,
// then methods inherited from supertypes declared in the same program that
// t does not override and that are not private, then the members of
// java.lang.Object (classes) or java.lang.annotation.Annotation
// (annotation types) that are not already present. Supertypes are visited
// superclass first, then interfaces in declaration order.
func (t *Type) AllMethods() []*Method {
	if t.all != nil {
		return t.all
	}
	if t.resolving {
		// Cyclic hierarchy; only the declared methods are known here.
		return t.methods
	}
	t.resolving = true
	defer func() { t.resolving = false }()

	seen := make(map[string]struct{}, len(t.methods))
	all := make([]*Method, 0, len(t.methods))
	for _, m := range t.methods {
		seen[m.signature] = struct{}{}
		all = append(all, m)
	}

	for _, sup := range t.Supertypes() {
		for _, m := range sup.AllMethods() {
			if m.owner == nil || m.private {
				continue
			}
			if m.static && m.owner.kind == types.Interface {
				continue
			}
			if _, ok := seen[m.signature]; ok {
				continue
			}
			seen[m.signature] = struct{}{}
			all = append(all, m)
		}
	}

	var builtins []builtinMethod
	switch t.kind {
	case types.Interface:
	case types.Annotation:
		builtins = annotationMethods
	default:
		builtins = objectMethods
	}
	for _, b := range builtins {
		if _, ok := seen[b.signature]; ok {
			continue
		}
		seen[b.signature] = struct{}{}
		all = append(all, &Method{name: b.name, signature: b.signature})
	}

	t.all = all
	return all
}

// Constructors returns the declared constructors of a class, or a single
// synthetic no-argument constructor when it declares none. Other kinds
// return their declared constructors, if any.
func (t *Type) Constructors() []*Method {
	return t.ctors
}

// Supertypes returns the superclass and interfaces of t that are declared
// in the same program. Supertypes from outside the program are omitted.
func (t *Type) Supertypes() []*Type {
	var refs []typeRef
	if t.superclass != nil {
		refs = append(refs, *t.superclass)
	}
	refs = append(refs, t.interfaces...)

	var out []*Type
	for _, ref := range refs {
		// Supertype names are resolved outside the type's own body.
		_, sup := t.prog.lookup(ref.name, t.outer, t.unit)
		if sup == nil || sup == t {
			continue
		}
		out = append(out, sup)
	}
	return out
}
