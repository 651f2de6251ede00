package lang

import (
	_ "embed"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/java"
)

//go:embed queries/java/declarations.scm
var javaDeclarationsQuery string

//go:embed queries/java/header.scm
var javaHeaderQuery string

// Java implements the Language interface for Java source code.
type Java struct{}

func init() {
	Register(&Java{})
}

func (j *Java) Name() string {
	return "java"
}

func (j *Java) Extensions() []string {
	return []string{".java"}
}

func (j *Java) TreeSitterLang() *sitter.Language {
	return java.GetLanguage()
}

func (j *Java) DeclarationsQuery() string {
	return javaDeclarationsQuery
}

func (j *Java) HeaderQuery() string {
	return javaHeaderQuery
}
