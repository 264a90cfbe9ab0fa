package main

import (
	"errors"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

var (
	version = "dev"
	commit  = "none"    //nolint:unused // set via ldflags at build time
	date    = "unknown" //nolint:unused // set via ldflags at build time
)

// getPaths returns paths from positional args, defaulting to ["."]
func getPaths(c *cli.Context) []string {
	if c.Args().Len() > 0 {
		return c.Args().Slice()
	}
	return []string{"."}
}

func newApp(stdout, stderr io.Writer) *cli.App {
	return &cli.App{
		Name:      "husk",
		Usage:     "Find dead code in JavaScript and TypeScript projects",
		Version:   version,
		ArgsUsage: "[path...]",
		Description: `husk finds functions, classes, constants, typed properties, type
definitions, exports, console calls and package.json dependencies that
nothing in the project references.

Suppress a finding with "// @husk-ignore" on or above the line, or a whole
file with "// @husk-ignore-file" before its first line of code.`,
		Writer:    stdout,
		ErrWriter: stderr,
		Flags:     analyzeFlags(),
		Action:    runAnalyzeCmd,
		Commands: []*cli.Command{
			analyzeCmd(),
			initCmd(),
			configCmd(),
			cacheCmd(),
			mcpCmd(),
		},
		// main decides the exit code.
		ExitErrHandler: func(*cli.Context, error) {},
	}
}

func main() {
	// .env may set HUSK_CONFIG or HUSK_DEBUG.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		color.Yellow("Ignoring .env: %v", err)
	}

	app := newApp(os.Stdout, os.Stderr)
	if err := app.Run(os.Args); err != nil {
		var exit cli.ExitCoder
		if errors.As(err, &exit) {
			if msg := exit.Error(); msg != "" {
				color.Red("%s", msg)
			}
			os.Exit(exit.ExitCode())
		}
		color.Red("Error: %v", err)
		os.Exit(1)
	}
}
