package main

import (
	"context"
	"errors"
	"io"
	"os"
	"runtime"

	"github.com/urfave/cli/v3"

	"github.com/arjunmahishi/stanalyzer/analyzer"
	"github.com/arjunmahishi/stanalyzer/config"
	"github.com/arjunmahishi/stanalyzer/logging"
	"github.com/arjunmahishi/stanalyzer/output"
)

func main() {
	// Environment from .env must be in place before flags read it.
	if err := config.LoadDotEnv(); err != nil {
		output.WriteError(err)
		os.Exit(1)
	}
	if err := newApp(os.Stdout, os.Stderr).Run(context.Background(), os.Args); err != nil {
		output.WriteError(err)
		os.Exit(1)
	}
}

// app carries the streams commands write to.
type app struct {
	stdout io.Writer
	stderr io.Writer
}

func newApp(stdout, stderr io.Writer) *cli.Command {
	a := &app{stdout: stdout, stderr: stderr}
	return &cli.Command{
		Name:      "stanalyzer",
		Usage:     "catalog the types and methods of every Java module in a tree",
		Writer:    stdout,
		ErrWriter: stderr,
		Flags:     sharedFlags(),
		Action:    a.runAnalyze,
		Commands: []*cli.Command{
			a.modulesCommand(),
			a.inspectCommand(),
			exampleConfigCommand(stdout),
		},
	}
}

// env binds a flag to its STANALYZER_* environment variable.
func env(name string) cli.ValueSourceChain {
	return cli.EnvVars(config.EnvPrefix + name)
}

// sharedFlags are read by every command that analyzes a tree. A flag or
// its environment variable beats the config file.
func sharedFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "path",
			Aliases: []string{"p"},
			Usage:   "root of the project to analyze (required)",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Value:   output.DefaultRoot,
			Usage:   "catalog root; files go to <output>/<project>",
			Sources: env("OUTPUT"),
		},
		&cli.StringFlag{
			Name:    "logging",
			Aliases: []string{"l"},
			Value:   "default",
			Usage:   "console log level: default, debug, info, warning, error",
			Sources: env("LOG_LEVEL"),
		},
		&cli.StringFlag{
			Name:    "log-file",
			Usage:   "also write every record at debug level to this file",
			Sources: env("LOG_FILE"),
		},
		&cli.StringFlag{
			Name:    "config",
			Usage:   "path to a TOML config file",
			Sources: env("CONFIG"),
		},
		&cli.BoolFlag{
			Name:    "monolithic",
			Aliases: []string{"m"},
			Usage:   "analyze the whole tree as one module named after the project",
			Sources: env("MONOLITHIC"),
		},
		&cli.BoolFlag{
			Name:    "ignore-tests",
			Usage:   "skip directories named test during module discovery",
			Sources: env("IGNORE_TESTS"),
		},
		&cli.IntFlag{
			Name:    "jobs",
			Aliases: []string{"j"},
			Value:   runtime.NumCPU(),
			Usage:   "number of modules extracted in parallel",
			Sources: env("JOBS"),
		},
		&cli.Int64Flag{
			Name:    "max-bytes",
			Usage:   "skip source files larger than this (0 for no limit)",
			Sources: env("MAX_BYTES"),
		},
		&cli.BoolFlag{
			Name:    "respect-gitignore",
			Usage:   "skip sources matched by .gitignore files",
			Sources: env("RESPECT_GITIGNORE"),
		},
	}
}

// settings starts from the defaults and the config file, then applies the
// flags that were set on the command line or through the environment.
func settings(cmd *cli.Command) (config.Config, error) {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return config.Config{}, err
	}

	if cmd.IsSet("output") {
		cfg.Output = cmd.String("output")
	}
	if cmd.IsSet("logging") {
		cfg.LogLevel = cmd.String("logging")
	}
	if cmd.IsSet("log-file") {
		cfg.LogFile = cmd.String("log-file")
	}
	if cmd.IsSet("monolithic") {
		cfg.Monolithic = cmd.Bool("monolithic")
	}
	if cmd.IsSet("ignore-tests") {
		cfg.IgnoreTests = cmd.Bool("ignore-tests")
	}
	if cmd.IsSet("jobs") {
		cfg.Jobs = cmd.Int("jobs")
	}
	if cmd.IsSet("max-bytes") {
		cfg.MaxBytes = cmd.Int64("max-bytes")
	}
	if cmd.IsSet("respect-gitignore") {
		cfg.RespectGitignore = cmd.Bool("respect-gitignore")
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func requirePath(cmd *cli.Command) (string, error) {
	path := cmd.String("path")
	if path == "" {
		return "", errors.New("--path is required")
	}
	return path, nil
}

// newLogger builds the console logger and, when a log file is configured,
// fans out to it as well. The returned func closes the file.
func (a *app) newLogger(cfg config.Config) (logging.Logger, func(), error) {
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	console := logging.New(a.stderr, level)
	if cfg.LogFile == "" {
		return console, func() {}, nil
	}

	fileLogger, f, err := logging.NewFile(cfg.LogFile)
	if err != nil {
		return nil, nil, err
	}
	return logging.Multi{console, fileLogger}, func() { f.Close() }, nil
}

func analyzerConfig(cfg config.Config, logger logging.Logger) analyzer.Config {
	return analyzer.Config{
		IgnoreTests:      cfg.IgnoreTests,
		Monolithic:       cfg.Monolithic,
		Jobs:             cfg.Jobs,
		MaxBytes:         cfg.MaxBytes,
		RespectGitignore: cfg.RespectGitignore,
		Logger:           logger,
	}
}

// prepare is the common start of every analyzing command.
func (a *app) prepare(cmd *cli.Command) (string, config.Config, logging.Logger, func(), error) {
	path, err := requirePath(cmd)
	if err != nil {
		return "", config.Config{}, nil, nil, err
	}
	cfg, err := settings(cmd)
	if err != nil {
		return "", config.Config{}, nil, nil, err
	}
	logger, closeLog, err := a.newLogger(cfg)
	if err != nil {
		return "", config.Config{}, nil, nil, err
	}
	return path, cfg, logger, closeLog, nil
}

func (a *app) runAnalyze(_ context.Context, cmd *cli.Command) error {
	path, cfg, logger, closeLog, err := a.prepare(cmd)
	if err != nil {
		return err
	}
	defer closeLog()

	res, err := analyzer.NewAggregator(analyzerConfig(cfg, logger)).Run(path)
	if err != nil {
		return err
	}

	if err := output.WriteCatalog(cfg.Output, res.Project, res.Types, res.Members); err != nil {
		logger.Error("writing catalogs failed", "error", err)
		return err
	}

	typePath, methodPath := output.CatalogPaths(cfg.Output, res.Project)
	logger.Info("catalogs written", "types", typePath, "methods", methodPath)
	return nil
}
