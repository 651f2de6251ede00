package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/arjunmahishi/stanalyzer/analyzer"
	"github.com/arjunmahishi/stanalyzer/output"
	"github.com/arjunmahishi/stanalyzer/types"
)

// modulesReport is printed by the modules command.
type modulesReport struct {
	Root    string         `json:"root"`
	Modules []types.Module `json:"modules"`
}

func (a *app) modulesCommand() *cli.Command {
	return &cli.Command{
		Name:  "modules",
		Usage: "list the module source roots found under --path and their ids",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "compact",
				Usage: "print JSON on one line",
			},
		},
		Action: a.runModules,
	}
}

func (a *app) runModules(_ context.Context, cmd *cli.Command) error {
	path, cfg, logger, closeLog, err := a.prepare(cmd)
	if err != nil {
		return err
	}
	defer closeLog()

	root, modules, err := analyzer.NewAggregator(analyzerConfig(cfg, logger)).Discover(path)
	if err != nil {
		return err
	}
	if modules == nil {
		modules = []types.Module{}
	}

	w := output.New(output.Config{Compact: cmd.Bool("compact"), Output: a.stdout})
	return w.Write(modulesReport{Root: root, Modules: modules})
}
