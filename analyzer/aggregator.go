package analyzer

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/arjunmahishi/stanalyzer/logging"
	"github.com/arjunmahishi/stanalyzer/scanner"
	"github.com/arjunmahishi/stanalyzer/types"
)

// Result is the outcome of one analysis run. Types and Members are
// ordered by module discovery order, then by the order the front end
// reported them within a module.
type Result struct {
	Project string
	Modules []types.Module
	Types   []types.TypeRecord
	Members []types.MemberRecord
}

// Aggregator discovers the modules of a tree and extracts them all.
type Aggregator struct {
	cfg Config
	log logging.Logger
}

func NewAggregator(cfg Config) *Aggregator {
	cfg = cfg.withDefaults()
	return &Aggregator{cfg: cfg, log: cfg.Logger}
}

// Discover returns the modules under rootDir with their ids assigned, in
// discovery order.
func (a *Aggregator) Discover(rootDir string) (string, []types.Module, error) {
	root, err := filepath.Abs(rootDir)
	if err != nil {
		return "", nil, fmt.Errorf("resolve root: %w", err)
	}

	if a.cfg.Monolithic {
		return root, a.monolith(root), nil
	}

	roots := scanner.Modules(root, scanner.ModuleOptions{
		IgnoreTests: a.cfg.IgnoreTests,
		OnError: func(path string, err error) {
			a.log.Debug("cannot list directory", "path", path, "error", err)
		},
	})

	namer := NewNamer()
	modules := make([]types.Module, len(roots))
	for i, r := range roots {
		modules[i] = types.Module{ID: namer.Name(r, i), RootPath: r, Index: i}
		a.log.Debug("found module", "module", modules[i].ID, "root", r)
	}
	return root, modules, nil
}

// monolith treats the whole tree as one module named after the project,
// unless the root itself is a <name>/src/main/java source root.
func (a *Aggregator) monolith(root string) []types.Module {
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		a.log.Debug("project root is not a directory", "root", root)
		return nil
	}
	id := NewNamer().NameOr(root, filepath.Base(root))
	a.log.Debug("monolithic project, using the root as the only module", "module", id, "root", root)
	return []types.Module{{ID: id, RootPath: root, Index: 0}}
}

// Run analyzes every module under rootDir. Ids are assigned before any
// extraction starts; extraction fans out over Config.Jobs workers and the
// per-module catalogs are concatenated in discovery order.
func (a *Aggregator) Run(rootDir string) (*Result, error) {
	root, modules, err := a.Discover(rootDir)
	if err != nil {
		return nil, err
	}

	catalogs, err := a.runWorkers(root, modules)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Project: filepath.Base(root),
		Modules: modules,
		Types:   []types.TypeRecord{},
		Members: []types.MemberRecord{},
	}
	for _, c := range catalogs {
		res.Types = append(res.Types, c.Types...)
		res.Members = append(res.Members, c.Members...)
	}

	a.log.Info("analysis finished",
		"project", res.Project,
		"modules", len(res.Modules),
		"types", len(res.Types),
		"members", len(res.Members),
	)
	return res, nil
}

type moduleResult struct {
	index   int
	catalog Catalog
}

// runWorkers extracts each module with one Source per worker. Results are
// stored by module index.
func (a *Aggregator) runWorkers(root string, modules []types.Module) ([]Catalog, error) {
	catalogs := make([]Catalog, len(modules))
	if len(modules) == 0 {
		return catalogs, nil
	}

	workerCount := a.cfg.Jobs
	if workerCount < 1 {
		workerCount = 1
	}
	if workerCount > len(modules) {
		workerCount = len(modules)
	}

	sources := make([]Source, 0, workerCount)
	defer func() {
		for _, s := range sources {
			if c, ok := s.(interface{ Close() }); ok {
				c.Close()
			}
		}
	}()
	for i := 0; i < workerCount; i++ {
		s, err := a.cfg.NewSource(root)
		if err != nil {
			return nil, fmt.Errorf("create source: %w", err)
		}
		sources = append(sources, s)
	}

	jobQueue := make(chan int, len(modules))
	results := make(chan moduleResult, len(modules))
	var wg sync.WaitGroup

	worker := func(source Source) {
		defer wg.Done()
		ex := NewExtractor(source, a.log)
		for idx := range jobQueue {
			m := modules[idx]
			a.log.Debug("working on module", "module", m.ID)
			cat, err := ex.Extract(m.RootPath, m.ID)
			if err != nil {
				a.log.Error("module extraction failed", "module", m.ID, "error", err)
			}
			results <- moduleResult{index: idx, catalog: cat}
		}
	}

	wg.Add(workerCount)
	for _, s := range sources {
		go worker(s)
	}

	for i := range modules {
		jobQueue <- i
	}
	close(jobQueue)

	go func() {
		wg.Wait()
		close(results)
	}()

	for r := range results {
		catalogs[r.index] = r.catalog
	}
	return catalogs, nil
}
