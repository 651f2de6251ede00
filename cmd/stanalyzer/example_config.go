package main

import (
	"context"
	_ "embed"
	"fmt"
	"io"

	"github.com/urfave/cli/v3"
)

//go:embed example_config.toml
var exampleConfig string

func exampleConfigCommand(w io.Writer) *cli.Command {
	return &cli.Command{
		Name:  "example-config",
		Usage: "print an annotated sample config file",
		Description: "Every key is optional. Flags override the file and STANALYZER_*\n" +
			"environment variables override the file too.\n\n" +
			"Examples:\n" +
			"  stanalyzer example-config > stanalyzer.toml\n" +
			"  stanalyzer --config stanalyzer.toml --path .",
		Action: func(_ context.Context, _ *cli.Command) error {
			_, err := fmt.Fprint(w, exampleConfig)
			return err
		},
	}
}
