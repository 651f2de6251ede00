package frontend

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arjunmahishi/stanalyzer/scanner"
	"github.com/arjunmahishi/stanalyzer/types"
)

func load(t *testing.T, files ...File) *Program {
	t.Helper()
	l, err := NewLoader(Options{})
	require.NoError(t, err)
	defer l.Close()
	return l.LoadFiles(files)
}

func javaFile(path, src string) File {
	return File{Path: path, Src: []byte(src)}
}

func qualifiedNames(prog *Program) []string {
	var names []string
	for _, t := range prog.Types() {
		names = append(names, t.QualifiedName())
	}
	return names
}

func signatures(methods []*Method, validOnly bool) []string {
	var sigs []string
	for _, m := range methods {
		if validOnly && !m.HasValidPosition() {
			continue
		}
		sigs = append(sigs, m.Signature())
	}
	return sigs
}

func TestServiceScenario(t *testing.T) {
	prog := load(t, javaFile("/svc/src/main/java/com/x/Foo.java", `package com.x;

interface I {}

class C implements I {
    C() {}
    void m() {}
}
`))

	require.Equal(t, []string{"com.x.I", "com.x.C"}, qualifiedNames(prog))

	i := prog.Lookup("com.x.I")
	require.Equal(t, types.Interface, i.Kind())
	require.Empty(t, i.AllMethods())

	c := prog.Lookup("com.x.C")
	require.Equal(t, types.Class, c.Kind())
	require.Equal(t, "C", c.SimpleName())
	require.Equal(t, []string{"m()"}, signatures(c.AllMethods(), true))
	require.Equal(t, []string{"C()"}, signatures(c.Constructors(), true))

	path, ok := c.FilePath()
	require.True(t, ok)
	require.Equal(t, "/svc/src/main/java/com/x/Foo.java", path)
	require.Equal(t, "/svc/src/main/java/com/x/Foo.java:5", c.Position())
	require.True(t, strings.HasPrefix(c.SourceText(), "class C implements I {"))
	require.True(t, strings.HasSuffix(c.SourceText(), "}"))
}

func TestNestedLocalAndAnonymousNames(t *testing.T) {
	prog := load(t, javaFile("Outer.java", `package p;

public class Outer {
    static class Inner {
        interface Deep {}
    }
    void run() {
        class Local {}
        Runnable r = new Runnable() {
            public void run() {
                class Local {}
            }
        };
    }
    void other() {
        class Local {}
    }
}
`))

	require.Equal(t, []string{
		"p.Outer",
		"p.Outer$Inner",
		"p.Outer$Inner$Deep",
		"p.Outer$1Local",
		"p.Outer$1$1Local",
		"p.Outer$2Local",
	}, qualifiedNames(prog))

	outer := prog.Lookup("p.Outer")
	var declared []string
	for _, m := range outer.DeclaredMethods() {
		declared = append(declared, m.Name())
	}
	require.Equal(t, []string{"run", "other"}, declared)

	local := prog.Lookup("p.Outer$1Local")
	require.True(t, local.Local())
	require.Equal(t, "Local", local.SimpleName())
	require.Equal(t, outer, local.Outer())
	require.Equal(t, []string{"Local()"}, signatures(local.Constructors(), false))

	inner := prog.Lookup("p.Outer$Inner")
	require.False(t, inner.Local())
	require.Equal(t, outer, inner.Outer())
}

func TestSignatureErasure(t *testing.T) {
	prog := load(t,
		javaFile("com/acme/model/Entity.java", `package com.acme.model;
public class Entity {}
`),
		javaFile("com/acme/svc/Repo.java", `package com.acme.svc;

import java.util.List;
import java.util.Map;
import com.acme.model.*;

public class Repo<T extends Entity, K> {
    public <E extends Comparable<E>> void save(T item, K key, E extra) {}
    public void batch(List<? extends T> items, Map.Entry<String, Integer> entry, int[] ids, String... names) {}
    public void matrix(@Deprecated long values[][], Helper h, Repo.Helper h2, java.time.Instant at) {}
    public Repo(final Entity seed) {}
    static class Helper {}
}
`))

	repo := prog.Lookup("com.acme.svc.Repo")
	require.NotNil(t, repo)
	require.Equal(t, []string{
		"save(com.acme.model.Entity,java.lang.Object,java.lang.Comparable)",
		"batch(java.util.List,java.util.Map.Entry,int[],java.lang.String[])",
		"matrix(long[][],com.acme.svc.Repo$Helper,com.acme.svc.Repo$Helper,java.time.Instant)",
	}, signatures(repo.DeclaredMethods(), true))
	require.Equal(t, []string{"Repo(com.acme.model.Entity)"}, signatures(repo.Constructors(), true))
}

func TestInheritedMethods(t *testing.T) {
	prog := load(t, javaFile("com/x/Base.java", `package com.x;

public abstract class Base implements Named {
    public String name() { return "b"; }
    protected void hook() {}
    private void secret() {}
    public String toString() { return name(); }
}

interface Named {
    String name();
    default String label() { return name(); }
    static Named of() { return null; }
}

class Child extends Base {
    protected void hook() {}
}
`))

	child := prog.Lookup("com.x.Child")
	all := child.AllMethods()

	var owned []string
	for _, m := range all {
		if m.HasValidPosition() {
			owned = append(owned, m.Owner().SimpleName()+"."+m.Signature())
		}
	}
	require.Equal(t, []string{
		"Child.hook()",
		"Base.name()",
		"Base.toString()",
		"Named.label()",
	}, owned)

	// java.lang.Object members are present but synthetic, and toString is
	// not repeated.
	sigs := signatures(all, false)
	require.Contains(t, sigs, "equals(java.lang.Object)")
	require.Contains(t, sigs, "wait(long,int)")
	count := 0
	for _, s := range sigs {
		if s == "toString()" {
			count++
		}
	}
	require.Equal(t, 1, count)
	for _, m := range all {
		if m.Signature() == "equals(java.lang.Object)" {
			require.False(t, m.HasValidPosition())
			require.Nil(t, m.Owner())
			require.Empty(t, m.Position())
		}
	}

	ctors := child.Constructors()
	require.Len(t, ctors, 1)
	require.Equal(t, "Child()", ctors[0].Signature())
	require.False(t, ctors[0].HasValidPosition())

	require.Len(t, child.Supertypes(), 1)
	require.Equal(t, "com.x.Base", child.Supertypes()[0].QualifiedName())
}

func TestAnnotationType(t *testing.T) {
	prog := load(t, javaFile("com/x/Tag.java", `package com.x;

/** Marks things. */
public @interface Tag {
    String value() default "";
    int weight();
}
`))

	tag := prog.Lookup("com.x.Tag")
	require.Equal(t, types.Annotation, tag.Kind())
	require.True(t, strings.HasPrefix(tag.SourceText(), "/** Marks things. */\npublic @interface Tag"))
	require.Equal(t, []string{"value()", "weight()"}, signatures(tag.AllMethods(), true))
	require.Equal(t, []string{
		"value()", "weight()",
		"annotationType()", "equals(java.lang.Object)", "hashCode()", "toString()",
	}, signatures(tag.AllMethods(), false))
	require.Empty(t, tag.Constructors())
}

func TestEnumAndRecordAreUnsupported(t *testing.T) {
	prog := load(t, javaFile("com/x/Op.java", `package com.x;

enum Op {
    PLUS { int apply(int a, int b) { return a + b; } };
    abstract int apply(int a, int b);
    static class Registry {}
}

record Point(int x, int y) {}
`))

	require.Equal(t, []string{"com.x.Op", "com.x.Op$Registry", "com.x.Point"}, qualifiedNames(prog))
	require.Equal(t, types.Unsupported, prog.Lookup("com.x.Op").Kind())
	require.Equal(t, types.Unsupported, prog.Lookup("com.x.Point").Kind())
	require.Equal(t, types.Class, prog.Lookup("com.x.Op$Registry").Kind())
	require.Equal(t, []string{"apply(int,int)"}, signatures(prog.Lookup("com.x.Op").DeclaredMethods(), true))
}

func TestJavadocOnlyWhenAdjacent(t *testing.T) {
	prog := load(t, javaFile("A.java", `/* license */
class A {
    /** Doc. */
    void documented() {}

    // plain
    void plain() {}
}
`))

	a := prog.Lookup("A")
	require.True(t, strings.HasPrefix(a.SourceText(), "class A"))

	methods := a.DeclaredMethods()
	require.Len(t, methods, 2)
	require.Equal(t, "/** Doc. */\n    void documented() {}", methods[0].SourceText())
	require.Equal(t, "void plain() {}", methods[1].SourceText())
	require.Equal(t, "A.java:4", methods[0].Position())
}

func TestUnknownPath(t *testing.T) {
	prog := load(t, javaFile("", "package g; class Generated {}"))

	g := prog.Lookup("g.Generated")
	require.NotNil(t, g)
	path, ok := g.FilePath()
	require.False(t, ok)
	require.Empty(t, path)
	require.Equal(t, types.UnknownPath+":1", g.Position())
}

func TestSyntaxErrorsAreTolerated(t *testing.T) {
	prog := load(t,
		javaFile("Broken.java", "class Broken { void m( }"),
		javaFile("Ok.java", "class Ok { void run() {} }"),
	)

	ok := prog.Lookup("Ok")
	require.NotNil(t, ok)
	require.Equal(t, []string{"run()"}, signatures(ok.DeclaredMethods(), true))
}

func TestDuplicateQualifiedNames(t *testing.T) {
	prog := load(t,
		javaFile("a/Dup.java", "package d; class Dup { void first() {} }"),
		javaFile("b/Dup.java", "package d; class Dup { void second() {} }"),
	)

	require.Equal(t, []string{"d.Dup", "d.Dup"}, qualifiedNames(prog))
	require.Equal(t, "first", prog.Lookup("d.Dup").DeclaredMethods()[0].Name())
}

func TestCyclicHierarchyTerminates(t *testing.T) {
	prog := load(t, javaFile("Cycle.java", `
class A extends B { void a() {} }
class B extends A { void b() {} }
`))

	sigs := signatures(prog.Lookup("A").AllMethods(), true)
	require.Equal(t, []string{"a()", "b()"}, sigs)
}

func TestLoadFromDisk(t *testing.T) {
	root := t.TempDir()
	write := func(name, content string) {
		p := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0644))
	}
	write("com/x/build/Tool.java", "package com.x.build; public class Tool {}")
	write("com/x/gen/Stub.java", "package com.x.gen; public class Stub {}")
	write(".gitignore", "gen/\n")

	l, err := NewLoader(Options{RespectGitignore: true})
	require.NoError(t, err)
	defer l.Close()

	prog, err := l.Load(root)
	require.NoError(t, err)
	require.Equal(t, []string{"com.x.build.Tool"}, qualifiedNames(prog))

	path, ok := prog.Lookup("com.x.build.Tool").FilePath()
	require.True(t, ok)
	require.Equal(t, filepath.Join(root, "com", "x", "build", "Tool.java"), path)

	l2, err := NewLoader(Options{})
	require.NoError(t, err)
	defer l2.Close()
	prog, err = l2.Load(root)
	require.NoError(t, err)
	require.Len(t, prog.Types(), 2)
}

func TestLoadMissingRoot(t *testing.T) {
	l, err := NewLoader(Options{})
	require.NoError(t, err)
	defer l.Close()

	prog, err := l.Load(filepath.Join(t.TempDir(), "svc", "src", "main", "java"))
	require.NoError(t, err)
	require.Empty(t, prog.Types())
}

func TestOnDemandImportsOfJDKPackages(t *testing.T) {
	prog := load(t, javaFile("com/acme/Gen.java", `package com.acme;

import java.util.*;
import java.io.*;
import com.acme.model.*;

public class Gen {
    public <T extends Comparable<T>> void gen(Map<String, T> m, T t, List<String>[] ls, File f, Widget w) {}
}
`))

	gen := prog.Lookup("com.acme.Gen")
	require.NotNil(t, gen)
	require.Equal(t, []string{
		"gen(java.util.Map,java.lang.Comparable,java.util.List[],java.io.File,Widget)",
	}, signatures(gen.DeclaredMethods(), true))
}

func TestOnDemandImportPrefersProgramTypes(t *testing.T) {
	prog := load(t,
		javaFile("com/acme/util/Path.java", `package com.acme.util;
public class Path {}
`),
		javaFile("com/acme/Walker.java", `package com.acme;

import java.nio.file.*;
import com.acme.util.*;

class Walker {
    void walk(Path p, Files f) {}
}
`))

	require.Equal(t, []string{"walk(com.acme.util.Path,java.nio.file.Files)"},
		signatures(prog.Lookup("com.acme.Walker").DeclaredMethods(), true))
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Foo.java")
	require.NoError(t, os.WriteFile(path, []byte("package com.x;\nclass Foo { void run() {} }\n"), 0644))
	notes := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(notes, []byte("hello"), 0644))

	l, err := NewLoader(Options{})
	require.NoError(t, err)
	defer l.Close()

	prog, err := l.LoadFile(path)
	require.NoError(t, err)
	require.Equal(t, []string{"com.x.Foo"}, qualifiedNames(prog))
	got, ok := prog.Lookup("com.x.Foo").FilePath()
	require.True(t, ok)
	require.Equal(t, path, got)
	require.Equal(t, []string{"run()"}, signatures(prog.Lookup("com.x.Foo").AllMethods(), true))

	_, err = l.LoadFile(notes)
	require.ErrorIs(t, err, scanner.ErrUnsupportedFile)

	_, err = l.LoadFile(filepath.Join(dir, "Gone.java"))
	require.Error(t, err)
}
