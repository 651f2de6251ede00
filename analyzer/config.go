package analyzer

import (
	"runtime"

	"github.com/arjunmahishi/stanalyzer/frontend"
	"github.com/arjunmahishi/stanalyzer/logging"
)

// Config configures an analysis run.
type Config struct {
	// IgnoreTests skips directories named "test" during module discovery.
	IgnoreTests bool

	// Monolithic skips discovery and analyzes the root as a single module.
	Monolithic bool

	// Jobs is the number of modules extracted in parallel.
	// If 0, defaults to number of CPUs. 1 extracts strictly in order.
	Jobs int

	// MaxBytes skips source files larger than this size.
	// If 0, no size limit is enforced.
	MaxBytes int64

	// RespectGitignore skips sources matched by the .gitignore of a
	// module root or of the analysis root.
	RespectGitignore bool

	// Logger receives progress and diagnostics. Defaults to a logger that
	// drops everything.
	Logger logging.Logger

	// NewSource builds the front end one worker extracts with. It is
	// called once per worker with the absolute analysis root. Defaults to
	// the tree-sitter front end.
	NewSource func(analysisRoot string) (Source, error)
}

func (c Config) withDefaults() Config {
	if c.Jobs <= 0 {
		c.Jobs = runtime.NumCPU()
	}
	if c.Logger == nil {
		c.Logger = logging.Nop()
	}
	if c.NewSource == nil {
		c.NewSource = func(analysisRoot string) (Source, error) {
			src, err := NewTreeSitterSource(frontend.Options{
				Logger:           c.Logger,
				MaxBytes:         c.MaxBytes,
				RespectGitignore: c.RespectGitignore,
				IgnoreRoot:       analysisRoot,
			})
			if err != nil {
				return nil, err
			}
			return src, nil
		}
	}
	return c
}
