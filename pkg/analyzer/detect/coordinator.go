package detect

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"
	"sort"

	"github.com/panbanda/husk/internal/cache"
	"github.com/panbanda/husk/internal/fileproc"
	"github.com/panbanda/husk/internal/logging"
	"github.com/panbanda/husk/internal/scanner"
	"github.com/panbanda/husk/pkg/analyzer"
	"github.com/panbanda/husk/pkg/annotation"
	"github.com/panbanda/husk/pkg/config"
	"github.com/panbanda/husk/pkg/lexical"
	"github.com/panbanda/husk/pkg/models"
	"github.com/panbanda/husk/pkg/source"
)

// Coordinator discovers source files, runs the detectors over them and
// merges the results into one declaration table.
type Coordinator struct {
	config *config.Config
	ann    *annotation.Analyzer
	logger *logging.Logger
	source source.ContentSource
	cache  *cache.Cache
}

// Option is a functional option for configuring Coordinator.
type Option func(*Coordinator)

// WithLogger sets the logger for warnings and the detection debug stream.
func WithLogger(l *logging.Logger) Option {
	return func(c *Coordinator) {
		c.logger = l
	}
}

// WithSource sets where file content is read from.
func WithSource(src source.ContentSource) Option {
	return func(c *Coordinator) {
		c.source = src
	}
}

// WithCache sets the detection result cache.
func WithCache(ch *cache.Cache) Option {
	return func(c *Coordinator) {
		c.cache = ch
	}
}

// New creates a detection coordinator.
func New(cfg *config.Config, opts ...Option) *Coordinator {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	c := &Coordinator{
		config: cfg,
		ann: annotation.New(
			annotation.WithEnabled(cfg.Annotations.Enabled),
			annotation.WithContextLines(cfg.Annotations.ContextLines),
		),
		logger: logging.Discard(),
		source: source.NewFilesystem(),
		cache:  cache.Disabled(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Annotations returns the annotation analyzer built from the configuration.
func (c *Coordinator) Annotations() *annotation.Analyzer {
	return c.ann
}

// Result is the output of detection.
type Result struct {
	// Table holds every detected declaration.
	Table *models.Table
	// Files lists the scanned source files in sorted order.
	Files []string
	// Manifest is the manifest path when one was read.
	Manifest string
	// Skipped counts source files that could not be read.
	Skipped int
}

type fileResult struct {
	path  string
	decls []models.Declaration
}

// Detect scans root and returns the merged declaration table. Unreadable
// files and an unreadable or malformed manifest are logged and skipped; only
// a failure to enumerate root is returned as an error.
func (c *Coordinator) Detect(ctx context.Context, root string) (*Result, error) {
	files, err := scanner.NewScanner(c.config, c.logger).ScanDir(root)
	if err != nil {
		return nil, err
	}

	if tracker := analyzer.TrackerFromContext(ctx); tracker != nil {
		tracker.Start(analyzer.PhaseDetection, len(files))
	}

	results, errs := fileproc.MapSourceFiles(ctx, files, c.source, c.detectFile)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	skipped := errs.Sorted()
	for _, e := range skipped {
		c.logger.Warnf("skipping %s: %v", e.Path, e.Err)
	}

	// merge in path order so that repeated runs produce the same table
	sort.Slice(results, func(i, j int) bool { return results[i].path < results[j].path })

	table := models.NewTable()
	for _, r := range results {
		c.merge(table, r.decls)
	}

	res := &Result{Table: table, Files: files, Skipped: len(skipped)}
	if manifest, decls := c.detectDependencies(root); manifest != "" {
		res.Manifest = manifest
		c.merge(table, decls)
	}
	return res, nil
}

func (c *Coordinator) detectFile(path string, content []byte) (fileResult, error) {
	if decls, ok := c.cache.Lookup(path, content); ok {
		return fileResult{path: path, decls: decls}, nil
	}
	lines := lexical.SplitLines(string(content))
	decls := DetectFile(path, lines, c.ann)
	if err := c.cache.Store(path, content, decls); err != nil {
		c.logger.Warnf("caching %s: %v", path, err)
	}
	return fileResult{path: path, decls: decls}, nil
}

func (c *Coordinator) merge(table *models.Table, decls []models.Declaration) {
	for _, d := range decls {
		stored, inserted := table.Merge(d)
		if inserted {
			c.logger.Debugf(logging.StreamDetection, "%s %s at %s", stored.Kind, stored.Name, stored.Location)
		}
	}
}

// detectDependencies reads the manifest under root. It returns the manifest
// path and its declarations, or "" when there is no readable manifest.
func (c *Coordinator) detectDependencies(root string) (string, []models.Declaration) {
	if c.config.Analysis.Manifest == "" {
		return "", nil
	}
	path := filepath.Join(root, c.config.Analysis.Manifest)
	raw, err := c.source.Read(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			c.logger.Warnf("reading manifest %s: %v", path, err)
		}
		return "", nil
	}
	decls, err := Dependencies(path, raw)
	if err != nil {
		c.logger.Warnf("ignoring dependencies: %v", err)
		return path, nil
	}
	return path, decls
}
