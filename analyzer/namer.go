package analyzer

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// modulePattern captures the directory right above src/main/java.
var modulePattern = regexp.MustCompile(`.*/(.*)/src/main/java/?`)

// Namer assigns module ids for one run. It is not safe for concurrent use;
// ids are assigned in discovery order before extraction starts.
type Namer struct {
	names []string
	used  map[string]struct{}
}

func NewNamer() *Namer {
	return &Namer{used: make(map[string]struct{})}
}

// Name returns the id for the module rooted at rootPath, discovered at
// position index. A name that is already taken gets "_<k>" appended, where
// k counts the ids assigned so far that start with it. The count is by
// prefix, so "ab", "a", "a" name as "ab", "a", "a_2". If that id is taken
// too, k is raised until it is free.
func (n *Namer) Name(rootPath string, index int) string {
	return n.NameOr(rootPath, fmt.Sprintf("NO_NAME_FOUND_%d", index))
}

// NameOr is Name with fallback used when rootPath has no module name.
func (n *Namer) NameOr(rootPath, fallback string) string {
	var name string
	if m := modulePattern.FindStringSubmatch(filepath.ToSlash(rootPath)); m != nil {
		name = m[1]
	}
	if name == "" {
		name = fallback
	}

	if n.taken(name) {
		k := 0
		for _, prev := range n.names {
			if strings.HasPrefix(prev, name) {
				k++
			}
		}
		candidate := fmt.Sprintf("%s_%d", name, k)
		for n.taken(candidate) {
			k++
			candidate = fmt.Sprintf("%s_%d", name, k)
		}
		name = candidate
	}

	n.names = append(n.names, name)
	n.used[name] = struct{}{}
	return name
}

func (n *Namer) taken(name string) bool {
	_, ok := n.used[name]
	return ok
}

// Names returns the ids assigned so far, in order.
func (n *Namer) Names() []string {
	return append([]string(nil), n.names...)
}
