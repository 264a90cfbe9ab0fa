package main

import (
	"fmt"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/panbanda/husk/internal/cache"
	"github.com/panbanda/husk/internal/output"
	"github.com/panbanda/husk/pkg/config"
)

func cacheCmd() *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Inspect or clear the detection cache",
		Subcommands: []*cli.Command{
			{
				Name:      "stats",
				Usage:     "Show the number and size of cached entries",
				ArgsUsage: "[path]",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to config file",
						EnvVars: []string{"HUSK_CONFIG"},
					},
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Value:   "json",
						Usage:   "Output format: json or toon",
					},
				},
				Action: runCacheStats,
			},
			{
				Name:      "clear",
				Usage:     "Remove every cached entry",
				ArgsUsage: "[path]",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to config file",
						EnvVars: []string{"HUSK_CONFIG"},
					},
				},
				Action: runCacheClear,
			},
		},
	}
}

// cacheStats is what `cache stats` prints.
type cacheStats struct {
	Dir       string `json:"dir" toon:"dir"`
	Entries   int    `json:"entries" toon:"entries"`
	TotalSize int64  `json:"total_size" toon:"total_size"`
}

// openProjectCache opens the cache of the project named by the first
// argument, or the current directory.
func openProjectCache(c *cli.Context) (*cache.Cache, error) {
	root, err := filepath.Abs(getPaths(c)[0])
	if err != nil {
		return nil, err
	}
	var cfg *config.Config
	if path := c.String("config"); path != "" {
		cfg, err = config.Load(path)
	} else {
		cfg, err = config.LoadOrDefault(root)
	}
	if err != nil {
		return nil, err
	}
	return cache.Open(root, cfg)
}

func runCacheStats(c *cli.Context) error {
	dc, err := openProjectCache(c)
	if err != nil {
		return err
	}
	f := output.NewWriterFormatter(output.ParseFormat(c.String("format")), c.App.Writer, false)
	if !dc.Enabled() {
		f.Warning("cache is disabled in the configuration")
		return nil
	}

	stats, err := dc.GetStats()
	if err != nil {
		return fmt.Errorf("read cache: %w", err)
	}
	return f.Output(cacheStats{Dir: dc.Dir(), Entries: stats.Entries, TotalSize: stats.TotalSize})
}

func runCacheClear(c *cli.Context) error {
	dc, err := openProjectCache(c)
	if err != nil {
		return err
	}
	f := output.NewWriterFormatter(output.FormatText, c.App.Writer, !color.NoColor)
	if !dc.Enabled() {
		f.Warning("cache is disabled in the configuration")
		return nil
	}

	stats, err := dc.GetStats()
	if err != nil {
		return fmt.Errorf("read cache: %w", err)
	}
	if err := dc.Clear(); err != nil {
		return fmt.Errorf("clear cache: %w", err)
	}
	f.Success("Removed %d entries from %s", stats.Entries, dc.Dir())
	return nil
}
