package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/panbanda/husk/pkg/config"
)

func configCmd() *cli.Command {
	configFlag := func() cli.Flag {
		return &cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to config file",
			EnvVars: []string{"HUSK_CONFIG"},
		}
	}
	return &cli.Command{
		Name:  "config",
		Usage: "Configuration management commands",
		Subcommands: []*cli.Command{
			{
				Name:  "show",
				Usage: "Show the effective configuration",
				Description: `Shows the defaults merged with the config file found in the current
directory, or the file given with --config.

Examples:
  husk config show
  husk config show --format yaml
  husk config show -c husk.toml`,
				Flags: []cli.Flag{
					configFlag(),
					&cli.StringFlag{
						Name:  "format",
						Value: "toml",
						Usage: "Output format: toml or yaml",
					},
				},
				Action: runConfigShow,
			},
			{
				Name:  "validate",
				Usage: "Validate a configuration file",
				Description: `Checks a config file for syntax errors and out-of-range values.

Examples:
  husk config validate
  husk config validate -c .husk/husk.toml`,
				Flags:  []cli.Flag{configFlag()},
				Action: runConfigValidate,
			},
		},
	}
}

// resolveConfig loads --config or the config found in the current directory.
// The returned source is empty when the defaults are in effect.
func resolveConfig(c *cli.Context) (*config.Config, string, error) {
	path := c.String("config")
	if path == "" {
		path = config.Find(".")
	}
	if path == "" {
		return config.DefaultConfig(), "", nil
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, path, err
	}
	return cfg, path, nil
}

func runConfigShow(c *cli.Context) error {
	cfg, source, err := resolveConfig(c)
	if err != nil {
		return err
	}

	content, err := marshalConfig(cfg, c.String("format"))
	if err != nil {
		return err
	}

	if source != "" {
		fmt.Fprintf(c.App.Writer, "# Configuration from: %s\n\n", source)
	} else {
		fmt.Fprintln(c.App.Writer, "# Default configuration (no config file found)")
	}
	fmt.Fprint(c.App.Writer, string(content))
	return nil
}

func runConfigValidate(c *cli.Context) error {
	_, source, err := resolveConfig(c)
	if err != nil {
		fmt.Fprintln(c.App.ErrWriter, color.RedString("Configuration validation failed:"))
		fmt.Fprintf(c.App.ErrWriter, "  - %s\n", err)
		return err
	}

	if source != "" {
		fmt.Fprintln(c.App.Writer, color.GreenString("Configuration valid: %s", source))
	} else {
		fmt.Fprintln(c.App.Writer, color.YellowString("No config file found. Default configuration is valid."))
	}
	return nil
}
