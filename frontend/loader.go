package frontend

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/arjunmahishi/stanalyzer/lang"
	"github.com/arjunmahishi/stanalyzer/logging"
	"github.com/arjunmahishi/stanalyzer/parser"
	"github.com/arjunmahishi/stanalyzer/scanner"
	"github.com/arjunmahishi/stanalyzer/types"
)

// File is one in-memory compilation unit. An empty Path means the location
// is unknown.
type File struct {
	Path string
	Src  []byte
}

// Options configures a Loader.
type Options struct {
	Logger logging.Logger

	// MaxBytes skips source files larger than this size.
	// If 0, no size limit is enforced.
	MaxBytes int64

	// RespectGitignore skips files matched by the .gitignore at the
	// source root or at IgnoreRoot.
	RespectGitignore bool
	IgnoreRoot       string
}

// Loader parses Java sources into a Program. A Loader owns a tree-sitter
// parser and is not safe for concurrent use.
type Loader struct {
	opts   Options
	log    logging.Logger
	lang   lang.Language
	parser *parser.Parser
	decls  *parser.Query
	header *parser.Query
}

// NewLoader creates a Java loader.
func NewLoader(opts Options) (*Loader, error) {
	language := lang.Get("java")
	if language == nil {
		return nil, errors.New("java language not registered")
	}
	decls, err := parser.NewQuery(language.DeclarationsQuery(), language)
	if err != nil {
		return nil, fmt.Errorf("declarations query: %w", err)
	}
	header, err := parser.NewQuery(language.HeaderQuery(), language)
	if err != nil {
		return nil, fmt.Errorf("header query: %w", err)
	}

	logger := opts.Logger
	if logger == nil {
		logger = logging.Nop()
	}

	return &Loader{
		opts:   opts,
		log:    logger,
		lang:   language,
		parser: parser.New(language),
		decls:  decls,
		header: header,
	}, nil
}

// Close releases the loader's parser.
func (l *Loader) Close() {
	l.parser.Close()
}

// Load parses every .java file under root. A missing root is an empty
// program. Files that cannot be read are skipped.
func (l *Loader) Load(root string) (*Program, error) {
	cfg := scanner.Config{
		Root:       root,
		Language:   l.lang,
		IgnoreDirs: scanner.VCSDirs(),
		MaxBytes:   l.opts.MaxBytes,
		OnError: func(path string, err error) {
			l.log.Debug("skipping unreadable entry", "path", path, "error", err)
		},
	}
	if l.opts.RespectGitignore {
		cfg.Ignores = append(cfg.Ignores, scanner.IgnoreRules{Rules: scanner.LoadGitignore(root)})
		if l.opts.IgnoreRoot != "" {
			cfg.Ignores = append(cfg.Ignores, scanner.IgnoreRules{
				Rules: scanner.LoadGitignore(l.opts.IgnoreRoot),
				Base:  l.opts.IgnoreRoot,
			})
		}
	}

	jobs, err := scanner.New(cfg).Collect()
	if err != nil {
		if errors.Is(err, scanner.ErrRootNotFound) {
			l.log.Warn("source root not found", "root", root)
			return newProgram(), nil
		}
		return nil, fmt.Errorf("collect sources: %w", err)
	}

	files := make([]File, 0, len(jobs))
	for _, job := range jobs {
		src, err := os.ReadFile(job.AbsPath)
		if err != nil {
			l.log.Debug("skipping unreadable file", "path", job.AbsPath, "error", err)
			continue
		}
		files = append(files, File{Path: job.AbsPath, Src: src})
	}
	return l.LoadFiles(files), nil
}

// LoadFiles parses the given files, in order, and links them into one
// program.
func (l *Loader) LoadFiles(files []File) *Program {
	prog := newProgram()
	for _, f := range files {
		if err := l.collect(prog, f); err != nil {
			l.log.Debug("skipping file", "path", f.Path, "error", err)
		}
	}
	prog.link()
	return prog
}

// LoadFile parses a single .java file into a program of its own.
func (l *Loader) LoadFile(path string) (*Program, error) {
	job, err := scanner.New(scanner.Config{Language: l.lang}).CollectSingle(path)
	if err != nil {
		return nil, err
	}
	tree, src, err := l.parser.ParseFile(job.AbsPath)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	prog := newProgram()
	l.collectTree(prog, File{Path: job.AbsPath, Src: src}, tree)
	prog.link()
	return prog, nil
}

func (l *Loader) collect(prog *Program, f File) error {
	tree, err := l.parser.Parse(f.Src)
	if err != nil {
		return err
	}
	// Everything needed later is copied out of the tree before it closes.
	defer tree.Close()

	l.collectTree(prog, f, tree)
	return nil
}

func (l *Loader) collectTree(prog *Program, f File, tree *sitter.Tree) {
	if tree.RootNode().HasError() {
		l.log.Debug("source has syntax errors, continuing", "path", f.Path)
	}

	u := &unit{
		path:    f.Path,
		types:   make(map[string]*Type),
		imports: make(map[string]string),
	}
	for _, m := range l.header.Run(tree, f.Src) {
		for _, c := range m.Captures {
			switch c.Name {
			case "package":
				u.pkg = packageName(c.Node, f.Src)
			case "import":
				u.addImport(c.Node, f.Src)
			}
		}
	}

	var captured []parser.Capture
	for _, m := range l.decls.Run(tree, f.Src) {
		captured = append(captured, m.Captures...)
	}
	// Outer declarations first so every node's owner is known when it is
	// reached.
	sort.SliceStable(captured, func(i, j int) bool {
		a, b := captured[i].Node, captured[j].Node
		if a.StartByte() != b.StartByte() {
			return a.StartByte() < b.StartByte()
		}
		return a.EndByte() > b.EndByte()
	})

	c := &fileCollector{
		prog:     prog,
		unit:     u,
		src:      f.Src,
		owners:   make(map[nodeKey]*Type),
		methods:  make(map[nodeKey]*Method),
		counters: make(map[string]int),
	}
	for _, capture := range captured {
		switch capture.Name {
		case "type":
			c.addType(capture.Node)
		case "anonymous":
			c.addAnonymous(capture.Node)
		case "method":
			c.addMethod(capture.Node, false)
		case "constructor":
			c.addMethod(capture.Node, true)
		}
	}
}

type nodeKey struct {
	start, end uint32
	kind       string
}

func keyOf(n *sitter.Node) nodeKey {
	return nodeKey{start: n.StartByte(), end: n.EndByte(), kind: n.Type()}
}

// bodyNodes are the nodes between a type declaration and its members.
var bodyNodes = map[string]struct{}{
	"class_body":             {},
	"interface_body":         {},
	"annotation_type_body":   {},
	"enum_body":              {},
	"enum_body_declarations": {},
}

type fileCollector struct {
	prog     *Program
	unit     *unit
	src      []byte
	owners   map[nodeKey]*Type
	methods  map[nodeKey]*Method
	counters map[string]int
}

// placement finds the type that directly encloses n, the nearest method
// between them, and whether n sits inside a code body rather than in a
// type body.
func (c *fileCollector) placement(n *sitter.Node) (owner *Type, method *Method, local bool) {
	for p := n.Parent(); p != nil; p = p.Parent() {
		k := keyOf(p)
		if t, ok := c.owners[k]; ok {
			return t, method, local
		}
		if m, ok := c.methods[k]; ok && method == nil {
			method = m
		}
		if p.Type() == "program" {
			return nil, method, local
		}
		if _, ok := bodyNodes[p.Type()]; !ok {
			local = true
		}
	}
	return nil, method, local
}

// nextIndex numbers local and anonymous classes per enclosing type the way
// javac does: the first free index for the name.
func (c *fileCollector) nextIndex(owner *Type, name string) int {
	key := owner.qualifiedName + "\x00" + name
	c.counters[key]++
	return c.counters[key]
}

func (c *fileCollector) newType(owner *Type) *Type {
	return &Type{
		unit:    c.unit,
		outer:   owner,
		members: make(map[string]*Type),
		locals:  make(map[string]*Type),
		prog:    c.prog,
	}
}

func (c *fileCollector) addType(n *sitter.Node) {
	name := parser.Text(n.ChildByFieldName("name"), c.src)
	if name == "" {
		return
	}
	owner, method, local := c.placement(n)

	t := c.newType(owner)
	t.kind = kindOf(n.Type())
	t.simpleName = name
	t.line = int(n.StartPoint().Row) + 1
	t.source = sourceWithDoc(n, c.src)
	t.tparams = typeParamsOf(n.ChildByFieldName("type_parameters"), c.src)

	switch {
	case owner == nil:
		t.qualifiedName = joinName(c.unit.pkg, name)
		if _, ok := c.unit.types[name]; !ok {
			c.unit.types[name] = t
		}
	case local:
		t.local = true
		t.enclosingMethod = method
		t.qualifiedName = owner.qualifiedName + "$" + strconv.Itoa(c.nextIndex(owner, name)) + name
		if _, ok := owner.locals[name]; !ok {
			owner.locals[name] = t
		}
	default:
		t.qualifiedName = owner.qualifiedName + "$" + name
		owner.members[name] = t
	}

	c.addSupertypes(t, n)
	c.owners[keyOf(n)] = t
	c.prog.add(t)
}

func (c *fileCollector) addSupertypes(t *Type, n *sitter.Node) {
	if sc := n.ChildByFieldName("superclass"); sc != nil {
		for i := 0; i < int(sc.NamedChildCount()); i++ {
			if child := sc.NamedChild(i); isTypeNode(child.Type()) {
				ref := typeRefOf(child, c.src)
				t.superclass = &ref
				break
			}
		}
	}

	ifaces := n.ChildByFieldName("interfaces")
	if ifaces == nil {
		ifaces = namedChildOfType(n, "extends_interfaces")
	}
	if ifaces == nil {
		return
	}
	list := ifaces
	if l := namedChildOfType(ifaces, "type_list"); l != nil {
		list = l
	}
	for i := 0; i < int(list.NamedChildCount()); i++ {
		if child := list.NamedChild(i); isTypeNode(child.Type()) {
			t.interfaces = append(t.interfaces, typeRefOf(child, c.src))
		}
	}
}

// addAnonymous registers an anonymous class body as a scope. It is not a
// declaration and is never added to the program.
func (c *fileCollector) addAnonymous(body *sitter.Node) {
	owner, _, _ := c.placement(body)
	if owner == nil {
		return
	}
	t := c.newType(owner)
	t.anonymous = true
	t.kind = types.Class
	t.qualifiedName = owner.qualifiedName + "$" + strconv.Itoa(c.nextIndex(owner, ""))
	c.owners[keyOf(body)] = t
}

func (c *fileCollector) addMethod(n *sitter.Node, ctor bool) {
	owner, _, _ := c.placement(n)
	if owner == nil {
		return
	}

	m := &Method{
		name:    parser.Text(n.ChildByFieldName("name"), c.src),
		params:  paramsOf(n.ChildByFieldName("parameters"), c.src),
		tparams: typeParamsOf(n.ChildByFieldName("type_parameters"), c.src),
		source:  sourceWithDoc(n, c.src),
		line:    int(n.StartPoint().Row) + 1,
		valid:   true,
		owner:   owner,
	}
	if ctor {
		m.name = owner.simpleName
	}
	if mods := namedChildOfType(n, "modifiers"); mods != nil {
		for i := 0; i < int(mods.ChildCount()); i++ {
			switch mods.Child(i).Type() {
			case "private":
				m.private = true
			case "static":
				m.static = true
			}
		}
	}
	c.methods[keyOf(n)] = m

	if owner.anonymous || m.name == "" {
		return
	}
	if ctor {
		owner.ctors = append(owner.ctors, m)
	} else {
		owner.methods = append(owner.methods, m)
	}
}

// link computes member signatures once every file is collected, and gives
// classes without constructors their default one.
func (p *Program) link() {
	for _, t := range p.types {
		for _, m := range t.methods {
			m.signature = p.signature(m, m.name)
		}
		for _, m := range t.ctors {
			m.signature = p.signature(m, t.simpleName)
		}
		if t.kind == types.Class && len(t.ctors) == 0 {
			t.ctors = []*Method{{
				name:      t.simpleName,
				signature: t.simpleName + "()",
				owner:     t,
			}}
		}
	}
}

func kindOf(nodeType string) types.Kind {
	switch nodeType {
	case "class_declaration":
		return types.Class
	case "interface_declaration":
		return types.Interface
	case "annotation_type_declaration":
		return types.Annotation
	}
	return types.Unsupported
}

func (u *unit) addImport(n *sitter.Node, src []byte) {
	var name string
	var static, wildcard bool
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		switch c.Type() {
		case "static":
			static = true
		case "asterisk", "*":
			wildcard = true
		case "scoped_identifier", "identifier":
			name = parser.Text(c, src)
		}
	}
	if static || name == "" {
		return
	}
	if wildcard {
		u.onDemand = append(u.onDemand, name)
		return
	}
	u.imports[name[strings.LastIndex(name, ".")+1:]] = name
}

func packageName(n *sitter.Node, src []byte) string {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		if c.Type() == "scoped_identifier" || c.Type() == "identifier" {
			return parser.Text(c, src)
		}
	}
	return ""
}

// sourceWithDoc returns the text of n, starting at a Javadoc comment that
// directly precedes it.
func sourceWithDoc(n *sitter.Node, src []byte) string {
	start := n.StartByte()
	if prev := n.PrevSibling(); prev != nil && isComment(prev.Type()) {
		text := parser.Text(prev, src)
		between := string(src[prev.EndByte():start])
		if strings.HasPrefix(text, "/**") && strings.TrimSpace(between) == "" {
			start = prev.StartByte()
		}
	}
	return string(src[start:n.EndByte()])
}

func isComment(kind string) bool {
	return kind == "block_comment" || kind == "comment"
}

func namedChildOfType(n *sitter.Node, kind string) *sitter.Node {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if c := n.NamedChild(i); c.Type() == kind {
			return c
		}
	}
	return nil
}
