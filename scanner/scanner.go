// Package scanner finds module source roots and the source files inside them.
package scanner

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"

	"github.com/arjunmahishi/stanalyzer/lang"
)

// ErrRootNotFound is returned by Collect when the root does not exist.
var ErrRootNotFound = errors.New("scan root not found")

// ErrUnsupportedFile is returned by CollectSingle for a file of another
// language.
var ErrUnsupportedFile = errors.New("unsupported source file")

// DefaultIgnoreDirs returns the default list of directories to ignore.
func DefaultIgnoreDirs() map[string]struct{} {
	return map[string]struct{}{
		".git":         {},
		".hg":          {},
		".svn":         {},
		".jj":          {},
		".idea":        {},
		"node_modules": {},
		"build":        {},
		"target":       {},
		".gradle":      {},
		".cache":       {},
	}
}

// VCSDirs returns only the version control directories. Source roots use
// it since a package may well be named "build" or "target".
func VCSDirs() map[string]struct{} {
	return map[string]struct{}{
		".git": {},
		".hg":  {},
		".svn": {},
		".jj":  {},
	}
}

// FileJob represents a file to be processed.
type FileJob struct {
	AbsPath     string
	DisplayPath string
}

// Config holds scanner configuration.
type Config struct {
	Root       string
	Language   lang.Language
	IgnoreDirs map[string]struct{}
	MaxBytes   int64

	// Ignores skips files matched by any of the rule sets.
	Ignores []IgnoreRules

	// OnError is told about entries that could not be read. The walk
	// continues past them.
	OnError func(path string, err error)
}

// IgnoreRules is a compiled .gitignore and the directory its patterns are
// relative to. An empty Base means the scan root.
type IgnoreRules struct {
	Rules *ignore.GitIgnore
	Base  string
}

// Scanner discovers files for processing.
type Scanner struct {
	cfg Config
}

// New creates a new Scanner with the given configuration.
func New(cfg Config) *Scanner {
	if cfg.IgnoreDirs == nil {
		cfg.IgnoreDirs = DefaultIgnoreDirs()
	}
	return &Scanner{cfg: cfg}
}

// Collect finds all matching files under the root, in lexical order.
func (s *Scanner) Collect() ([]FileJob, error) {
	absRoot, err := filepath.Abs(s.cfg.Root)
	if err != nil {
		return nil, fmt.Errorf("resolve root: %w", err)
	}
	if _, err := os.Stat(absRoot); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrRootNotFound, absRoot)
		}
		return nil, fmt.Errorf("stat root: %w", err)
	}

	// WalkDir does not descend into a root that is a symlink. Walk the
	// target and report paths under the root as given.
	walkRoot := absRoot
	if info, err := os.Lstat(absRoot); err == nil && info.Mode()&fs.ModeSymlink != 0 {
		if resolved, err := filepath.EvalSymlinks(absRoot); err == nil {
			walkRoot = resolved
		}
	}

	var jobs []FileJob
	err = filepath.WalkDir(walkRoot, func(path string, d fs.DirEntry, err error) error {
		if walkRoot != absRoot {
			if rel, relErr := filepath.Rel(walkRoot, path); relErr == nil {
				path = filepath.Join(absRoot, rel)
			}
		}
		if err != nil {
			if path == absRoot {
				return err
			}
			s.reportError(path, err)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			if path == absRoot {
				return nil
			}
			if s.shouldIgnoreDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}

		if !s.isSupportedFile(d.Name()) {
			return nil
		}

		if s.isIgnored(absRoot, path) {
			return nil
		}

		if s.cfg.MaxBytes > 0 {
			info, err := d.Info()
			if err != nil {
				// Skip files we can't stat
				s.reportError(path, err)
				return nil
			}
			if info.Size() > s.cfg.MaxBytes {
				return nil
			}
		}

		rel, err := filepath.Rel(absRoot, path)
		if err != nil {
			rel = path
		}

		jobs = append(jobs, FileJob{
			AbsPath:     path,
			DisplayPath: filepath.ToSlash(rel),
		})
		return nil
	})

	if err != nil {
		return nil, err
	}

	return jobs, nil
}

// CollectSingle returns a single file as a FileJob. The file must be one
// the scanner's language handles.
func (s *Scanner) CollectSingle(filePath string) (FileJob, error) {
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return FileJob{}, fmt.Errorf("resolve path: %w", err)
	}
	info, err := os.Stat(absPath)
	if err != nil {
		return FileJob{}, fmt.Errorf("stat file: %w", err)
	}
	if info.IsDir() {
		return FileJob{}, fmt.Errorf("%s is a directory", absPath)
	}

	language := lang.ByExtension(strings.ToLower(filepath.Ext(absPath)))
	if language == nil || language.Name() != s.cfg.Language.Name() {
		return FileJob{}, fmt.Errorf("%w: %s (languages: %s)",
			ErrUnsupportedFile, absPath, strings.Join(lang.List(), ", "))
	}

	return FileJob{
		AbsPath:     absPath,
		DisplayPath: filepath.Base(absPath),
	}, nil
}

// LoadGitignore compiles the .gitignore file in dir. It returns nil when
// there is none.
func LoadGitignore(dir string) *ignore.GitIgnore {
	gi, err := ignore.CompileIgnoreFile(filepath.Join(dir, ".gitignore"))
	if err != nil {
		return nil
	}
	return gi
}

func (s *Scanner) shouldIgnoreDir(name string) bool {
	_, ok := s.cfg.IgnoreDirs[name]
	return ok
}

func (s *Scanner) isIgnored(root, path string) bool {
	for _, ig := range s.cfg.Ignores {
		if ig.Rules == nil {
			continue
		}
		base := ig.Base
		if base == "" {
			base = root
		}
		rel, err := filepath.Rel(base, path)
		if err != nil || strings.HasPrefix(rel, "..") {
			continue
		}
		if ig.Rules.MatchesPath(filepath.ToSlash(rel)) {
			return true
		}
	}
	return false
}

func (s *Scanner) isSupportedFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" {
		return false
	}
	for _, e := range s.cfg.Language.Extensions() {
		if ext == e {
			return true
		}
	}
	return false
}

func (s *Scanner) reportError(path string, err error) {
	if s.cfg.OnError != nil {
		s.cfg.OnError(path, err)
	}
}
