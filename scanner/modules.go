package scanner

import (
	"os"
	"path/filepath"
)

// ModuleOptions configures module discovery.
type ModuleOptions struct {
	// IgnoreTests prunes every directory named "test".
	IgnoreTests bool

	// OnError is told about directories that could not be listed. They are
	// treated as having no children.
	OnError func(path string, err error)
}

// Modules walks root depth-first and returns one source root per directory
// named "src" it meets, as <src>/main/java. The search does not descend
// into a matched "src" directory. Children are visited in name order. The
// root may be a symbolic link to a directory; links below it are not
// followed.
func Modules(root string, opts ModuleOptions) []string {
	info, err := os.Stat(root)
	if err != nil {
		if opts.OnError != nil {
			opts.OnError(root, err)
		}
		return nil
	}
	if !info.IsDir() {
		return nil
	}

	var found []string
	walkModules(root, opts, &found)
	return found
}

func walkModules(dir string, opts ModuleOptions, found *[]string) {
	switch filepath.Base(dir) {
	case "src":
		*found = append(*found, filepath.Join(dir, "main", "java"))
		return
	case "test":
		if opts.IgnoreTests {
			return
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if opts.OnError != nil {
			opts.OnError(dir, err)
		}
		return
	}

	for _, e := range entries {
		// DirEntry reports the link itself, so symlinked dirs are skipped.
		if !e.IsDir() {
			continue
		}
		walkModules(filepath.Join(dir, e.Name()), opts, found)
	}
}
