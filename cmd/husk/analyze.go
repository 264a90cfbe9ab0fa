package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v2"

	"github.com/panbanda/husk/internal/cache"
	"github.com/panbanda/husk/internal/logging"
	"github.com/panbanda/husk/internal/output"
	"github.com/panbanda/husk/internal/progress"
	"github.com/panbanda/husk/pkg/analyzer/deadcode"
	"github.com/panbanda/husk/pkg/config"
	"github.com/panbanda/husk/pkg/models"
	"github.com/panbanda/husk/pkg/source"
	"github.com/panbanda/husk/pkg/watch"
)

// exitDeadCode is the exit status of --fail-on-dead when dead code is found.
const exitDeadCode = 2

func analyzeCmd() *cli.Command {
	return &cli.Command{
		Name:      "analyze",
		Aliases:   []string{"a"},
		Usage:     "Detect unused declarations and dependencies",
		ArgsUsage: "[path...]",
		Flags:     analyzeFlags(),
		Action:    runAnalyzeCmd,
	}
}

// analyzeFlags returns fresh flag values; the app and the analyze command
// must not share them.
func analyzeFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to config file (TOML, YAML, or JSON)",
			EnvVars: []string{"HUSK_CONFIG"},
		},
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "Output format: text, json, markdown, toon (default from config)",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Write output to file",
		},
		&cli.BoolFlag{
			Name:    "debug",
			Usage:   "Print the detection and verification debug streams",
			EnvVars: []string{"HUSK_DEBUG"},
		},
		&cli.BoolFlag{
			Name:  "no-cache",
			Usage: "Disable the detection cache",
		},
		&cli.BoolFlag{
			Name:  "no-annotations",
			Usage: "Ignore @husk-ignore markers",
		},
		&cli.IntFlag{
			Name:  "context-lines",
			Usage: "How many lines above a function an ignore marker may sit",
		},
		&cli.BoolFlag{
			Name:    "watch",
			Aliases: []string{"w"},
			Usage:   "Re-analyze when files change",
		},
		&cli.DurationFlag{
			Name:  "debounce",
			Value: watch.DefaultDebounce,
			Usage: "Quiet period before a change triggers re-analysis",
		},
		&cli.BoolFlag{
			Name:  "fail-on-dead",
			Usage: fmt.Sprintf("Exit with status %d when dead code is found", exitDeadCode),
		},
	}
}

// loadConfig resolves the config for root and applies command-line
// overrides.
func loadConfig(c *cli.Context, root string) (*config.Config, error) {
	var cfg *config.Config
	var err error
	if path := c.String("config"); path != "" {
		cfg, err = config.Load(path)
	} else {
		cfg, err = config.LoadOrDefault(root)
	}
	if err != nil {
		return nil, err
	}

	if c.Bool("debug") {
		cfg.Debug = true
	}
	if c.Bool("no-cache") {
		cfg.Cache.Enabled = false
	}
	if c.Bool("no-annotations") {
		cfg.Annotations.Enabled = false
	}
	if c.IsSet("context-lines") {
		cfg.Annotations.ContextLines = c.Int("context-lines")
	}
	if c.IsSet("format") {
		cfg.Output.Format = c.String("format")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// session holds what one project root needs across repeated runs.
type session struct {
	root   string
	cfg    *config.Config
	logger *logging.Logger
	source *source.CachedSource
	cache  *cache.Cache
	engine *deadcode.Analyzer
	bars   *progress.Phases
}

func newSession(c *cli.Context, path string) (*session, error) {
	root, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("invalid path %s: %w", path, err)
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", path)
	}

	cfg, err := loadConfig(c, root)
	if err != nil {
		return nil, err
	}

	s := &session{
		root:   root,
		cfg:    cfg,
		logger: logging.NewWithWriter(c.App.ErrWriter, cfg.Debug),
		cache:  cache.Disabled(),
	}
	if dc, err := cache.Open(root, cfg); err != nil {
		s.logger.Warnf("cache disabled: %v", err)
	} else {
		s.cache = dc
	}
	if s.source, err = source.NewCached(source.NewFilesystem(), source.DefaultCacheSize); err != nil {
		return nil, err
	}

	opts := []deadcode.Option{
		deadcode.WithLogger(s.logger),
		deadcode.WithSource(s.source),
		deadcode.WithCache(s.cache),
	}
	if !cfg.Debug && isTerminal(c.App.ErrWriter) {
		s.bars = progress.NewPhases(c.App.ErrWriter)
		opts = append(opts, deadcode.WithProgress(s.bars.Report))
	}
	s.engine = deadcode.New(cfg, opts...)
	return s, nil
}

func (s *session) analyze(ctx context.Context) (*models.AnalysisResult, error) {
	res, err := s.engine.Analyze(ctx, s.root)
	if s.bars != nil {
		s.bars.Finish()
	}
	return res, err
}

// changed drops cached content and detection results for paths.
func (s *session) changed(paths []string) {
	for _, path := range paths {
		s.source.Forget(path)
		if err := s.cache.Invalidate(path); err != nil {
			s.logger.Warnf("invalidate %s: %v", path, err)
		}
	}
}

func (s *session) close() {
	s.engine.Close()
	s.source.Purge()
}

func runAnalyzeCmd(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	paths := getPaths(c)
	if c.Bool("watch") {
		return runWatch(ctx, c, paths[0])
	}

	var formatter *output.Formatter
	foundDead := false
	for _, path := range paths {
		s, err := newSession(c, path)
		if err != nil {
			return err
		}
		res, err := s.analyze(ctx)
		s.close()
		if err != nil {
			return err
		}

		if formatter == nil {
			if formatter, err = newFormatter(c, s.cfg); err != nil {
				return err
			}
			defer formatter.Close()
		}
		if err := formatter.Output(output.NewDeadCodeReport(res, s.root)); err != nil {
			return err
		}
		foundDead = foundDead || res.HasDeadCode()
	}

	if foundDead && c.Bool("fail-on-dead") {
		return cli.Exit("dead code found", exitDeadCode)
	}
	return nil
}

func runWatch(ctx context.Context, c *cli.Context, path string) error {
	s, err := newSession(c, path)
	if err != nil {
		return err
	}
	defer s.close()

	formatter, err := newFormatter(c, s.cfg)
	if err != nil {
		return err
	}
	defer formatter.Close()

	report := func(ctx context.Context) {
		res, err := s.analyze(ctx)
		if err != nil {
			if ctx.Err() == nil {
				color.New(color.FgRed).Fprintf(c.App.ErrWriter, "Error: %v\n", err)
			}
			return
		}
		if err := formatter.Output(output.NewDeadCodeReport(res, s.root)); err != nil {
			color.New(color.FgRed).Fprintf(c.App.ErrWriter, "Error: %v\n", err)
		}
	}
	report(ctx)

	watcher, err := watch.NewWatcher(s.root, s.cfg, c.Duration("debounce"))
	if err != nil {
		return err
	}
	defer watcher.Stop()
	watcher.SetOutput(c.App.ErrWriter)
	watcher.SetCallback(func(ctx context.Context, changed []string) {
		s.changed(changed)
		report(ctx)
	})

	if err := watcher.Start(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

func newFormatter(c *cli.Context, cfg *config.Config) (*output.Formatter, error) {
	format := output.ParseFormat(cfg.Output.Format)
	colored := cfg.Output.Color && !color.NoColor
	if out := c.String("output"); out != "" {
		return output.NewFormatter(format, out, false)
	}
	return output.NewWriterFormatter(format, c.App.Writer, colored), nil
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w any) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
