package analyzer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/arjunmahishi/stanalyzer/types"
)

// TestRunWorkers checks that module catalogs come back in discovery order
// whatever the worker count. Run with -race to catch data races.
func TestRunWorkers(t *testing.T) {
	tests := []struct {
		name        string
		moduleCount int
		jobs        int
	}{
		{"single_module_single_worker", 1, 1},
		{"multiple_modules_single_worker", 5, 1},
		{"multiple_modules_multiple_workers", 10, 4},
		{"more_workers_than_modules", 3, 10},
		{"many_modules_high_concurrency", 40, 16},
		{"zero_jobs_defaults_to_cpus", 5, 0},
		{"no_modules", 0, 4},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			root := t.TempDir()
			expected := generateModules(t, root, tc.moduleCount)

			agg := NewAggregator(Config{Jobs: tc.jobs})
			res, err := agg.Run(root)
			require.NoError(t, err)

			require.Equal(t, filepath.Base(root), res.Project)
			require.Len(t, res.Modules, tc.moduleCount)
			require.NotNil(t, res.Types)
			require.NotNil(t, res.Members)

			var got []string
			for _, rec := range res.Types {
				got = append(got, rec.ModuleID+"/"+rec.QualifiedName)
			}
			if tc.moduleCount == 0 {
				require.Empty(t, got)
				return
			}
			require.Equal(t, expected, got)

			// Every module id in the records belongs to a discovered module.
			ids := make(map[string]bool)
			for _, m := range res.Modules {
				ids[m.ID] = true
			}
			for _, m := range res.Members {
				require.True(t, ids[m.ModuleID], m.ModuleID)
			}
			require.Len(t, res.Members, tc.moduleCount)
		})
	}
}

// generateModules creates count services, each with one class holding a
// method, and returns "<id>/<qualified name>" in discovery order.
func generateModules(t *testing.T, root string, count int) []string {
	t.Helper()

	var expected []string
	for i := range count {
		svc := fmt.Sprintf("svc%03d", i)
		dir := filepath.Join(root, svc, "src", "main", "java", "com", "x")
		require.NoError(t, os.MkdirAll(dir, 0755))

		content := fmt.Sprintf(`package com.x;

public class Handler%d {
    public void handle() {}
}
`, i)
		require.NoError(t, os.WriteFile(filepath.Join(dir, fmt.Sprintf("Handler%d.java", i)), []byte(content), 0644))
		expected = append(expected, fmt.Sprintf("%s/com.x.Handler%d", svc, i))
	}
	return expected
}

func TestRunIsIdempotent(t *testing.T) {
	root := t.TempDir()
	generateModules(t, root, 6)

	first, err := NewAggregator(Config{Jobs: 3}).Run(root)
	require.NoError(t, err)
	second, err := NewAggregator(Config{Jobs: 1}).Run(root)
	require.NoError(t, err)

	require.Equal(t, first.Types, second.Types)
	require.Equal(t, first.Members, second.Members)
}

// slowSource finishes modules in reverse order of submission.
type slowSource struct{}

func (slowSource) ListTypes(root string) ([]TypeDecl, error) {
	name := filepath.Base(filepath.Dir(filepath.Dir(filepath.Dir(root))))
	var n int
	fmt.Sscanf(name, "m%d", &n)
	time.Sleep(time.Duration(10-n) * 5 * time.Millisecond)
	return []TypeDecl{fakeDecl{kind: types.Class, simple: name, qualified: "p." + name, path: root}}, nil
}

func TestRunMergesInDiscoveryOrder(t *testing.T) {
	root := t.TempDir()
	for i := 0; i < 8; i++ {
		require.NoError(t, os.MkdirAll(filepath.Join(root, fmt.Sprintf("m%d", i), "src"), 0755))
	}

	agg := NewAggregator(Config{
		Jobs:      8,
		NewSource: func(string) (Source, error) { return slowSource{}, nil },
	})
	res, err := agg.Run(root)
	require.NoError(t, err)

	var got []string
	for _, rec := range res.Types {
		got = append(got, rec.SimpleName+"@"+rec.ModuleID)
	}
	require.Equal(t, []string{
		"m0@m0", "m1@m1", "m2@m2", "m3@m3", "m4@m4", "m5@m5", "m6@m6", "m7@m7",
	}, got)
}

func TestRunSourceFactoryError(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "svc", "src"), 0755))

	agg := NewAggregator(Config{
		NewSource: func(string) (Source, error) { return nil, errors.New("no grammar") },
	})
	_, err := agg.Run(root)
	require.Error(t, err)
	require.Contains(t, err.Error(), "no grammar")
}

func TestRunFailingModuleIsEmpty(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "svc", "src"), 0755))

	agg := NewAggregator(Config{
		NewSource: func(string) (Source, error) {
			return fakeSource{err: errors.New("unreadable")}, nil
		},
	})
	res, err := agg.Run(root)
	require.NoError(t, err)
	require.Len(t, res.Modules, 1)
	require.Empty(t, res.Types)
}

func TestDiscoverThroughSymlinkedRoot(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges")
	}
	project := t.TempDir()
	generateModules(t, project, 2)
	link := filepath.Join(t.TempDir(), "link")
	require.NoError(t, os.Symlink(project, link))

	root, modules, err := NewAggregator(Config{Jobs: 1}).Discover(link)
	require.NoError(t, err)
	require.Equal(t, link, root)
	require.Len(t, modules, 2)
	require.Equal(t, "svc000", modules[0].ID)

	res, err := NewAggregator(Config{Jobs: 2}).Run(link)
	require.NoError(t, err)
	require.Equal(t, "link", res.Project)
	require.Len(t, res.Types, 2)
	require.Len(t, res.Members, 2)
}

func TestMonolithicRun(t *testing.T) {
	project := filepath.Join(t.TempDir(), "shop")
	expected := generateModules(t, project, 3)
	require.Len(t, expected, 3)

	res, err := NewAggregator(Config{Jobs: 2, Monolithic: true}).Run(project)
	require.NoError(t, err)
	require.Equal(t, []types.Module{{ID: "shop", RootPath: project, Index: 0}}, res.Modules)
	require.Len(t, res.Types, 3)
	for _, rec := range res.Types {
		require.Equal(t, "shop", rec.ModuleID)
	}

	// A source root given directly keeps its module name.
	srcRoot := filepath.Join(project, "svc001", "src", "main", "java")
	_, modules, err := NewAggregator(Config{Monolithic: true}).Discover(srcRoot)
	require.NoError(t, err)
	require.Equal(t, "svc001", modules[0].ID)

	// A file is not a project.
	file := filepath.Join(t.TempDir(), "App.java")
	require.NoError(t, os.WriteFile(file, []byte("class App {}"), 0644))
	_, modules, err = NewAggregator(Config{Monolithic: true}).Discover(file)
	require.NoError(t, err)
	require.Empty(t, modules)
}
