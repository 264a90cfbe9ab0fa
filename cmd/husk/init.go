package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/pelletier/go-toml"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/panbanda/husk/pkg/config"
)

func initCmd() *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: "Write a config file with the default settings",
		Description: `Creates husk.toml in the current directory. Use --output to pick a
different location and --format yaml for a YAML file.

Examples:
  husk init                          # Creates husk.toml
  husk init -o .husk/husk.toml       # Creates config in .husk directory
  husk init --format yaml -o husk.yaml
  husk init --force                  # Overwrite an existing file`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Value:   "husk.toml",
				Usage:   "Output file path",
			},
			&cli.StringFlag{
				Name:  "format",
				Value: "toml",
				Usage: "Config format: toml or yaml",
			},
			&cli.BoolFlag{
				Name:  "force",
				Usage: "Overwrite an existing config file",
			},
		},
		Action: runInit,
	}
}

func runInit(c *cli.Context) error {
	outputPath := c.String("output")

	if _, err := os.Stat(outputPath); err == nil && !c.Bool("force") {
		return fmt.Errorf("config file %q already exists (use --force to overwrite)", outputPath)
	}

	if dir := filepath.Dir(outputPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %q: %w", dir, err)
		}
	}

	content, err := generateDefaultConfig(c.String("format"))
	if err != nil {
		return err
	}
	if err := os.WriteFile(outputPath, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	fmt.Fprintln(c.App.Writer, color.GreenString("Created %s", outputPath))
	fmt.Fprintln(c.App.Writer, "Edit this file to customize analysis settings.")
	return nil
}

func generateDefaultConfig(format string) (string, error) {
	content, err := marshalConfig(config.DefaultConfig(), format)
	if err != nil {
		return "", err
	}

	var buf strings.Builder
	buf.WriteString("# husk configuration\n")
	buf.WriteString("# Suppress findings with // @husk-ignore or // @husk-ignore-file\n\n")
	buf.Write(content)
	return buf.String(), nil
}

// marshalConfig encodes cfg as TOML or YAML.
func marshalConfig(cfg *config.Config, format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case "toml", "":
		out, err := toml.Marshal(cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal config to TOML: %w", err)
		}
		return out, nil
	case "yaml", "yml":
		out, err := yaml.Marshal(cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal config to YAML: %w", err)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unknown config format %q (want toml or yaml)", format)
	}
}
