package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/arjunmahishi/stanalyzer/analyzer"
	"github.com/arjunmahishi/stanalyzer/frontend"
	"github.com/arjunmahishi/stanalyzer/output"
)

func (a *app) inspectCommand() *cli.Command {
	return &cli.Command{
		Name:  "inspect",
		Usage: "extract a single source root or file and print its catalog",
		Description: "Without --module, --path is taken as the source root itself,\n" +
			"or as a lone .java file.\n" +
			"With --module, --path is a project and the named module is extracted.\n\n" +
			"Examples:\n" +
			"  stanalyzer --path orders/src/main/java inspect\n" +
			"  stanalyzer --path orders/src/main/java/com/acme/Order.java inspect\n" +
			"  stanalyzer --path . inspect --module orders",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "module",
				Usage: "id of a discovered module to extract",
			},
			&cli.BoolFlag{
				Name:  "compact",
				Usage: "print JSON on one line",
			},
		},
		Action: a.runInspect,
	}
}

func (a *app) runInspect(_ context.Context, cmd *cli.Command) error {
	path, cfg, logger, closeLog, err := a.prepare(cmd)
	if err != nil {
		return err
	}
	defer closeLog()

	path, err = filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}
	analysisRoot := path
	moduleRoot := path
	moduleID := analyzer.NewNamer().Name(path, 0)

	if id := cmd.String("module"); id != "" {
		_, modules, err := analyzer.NewAggregator(analyzerConfig(cfg, logger)).Discover(path)
		if err != nil {
			return err
		}
		found := false
		for _, m := range modules {
			if m.ID == id {
				moduleRoot, moduleID, found = m.RootPath, m.ID, true
				break
			}
		}
		if !found {
			return fmt.Errorf("module %q not found under %s", id, path)
		}
	}

	src, err := analyzer.NewTreeSitterSource(frontend.Options{
		Logger:           logger,
		MaxBytes:         cfg.MaxBytes,
		RespectGitignore: cfg.RespectGitignore,
		IgnoreRoot:       analysisRoot,
	})
	if err != nil {
		return err
	}
	defer src.Close()

	catalog, err := analyzer.NewExtractor(src, logger).Extract(moduleRoot, moduleID)
	if err != nil {
		return err
	}

	w := output.New(output.Config{Compact: cmd.Bool("compact"), Output: a.stdout})
	return w.Write(catalog)
}
