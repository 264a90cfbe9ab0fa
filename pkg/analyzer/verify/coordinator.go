package verify

import (
	"context"
	"sort"

	"github.com/panbanda/husk/internal/fileproc"
	"github.com/panbanda/husk/internal/logging"
	"github.com/panbanda/husk/pkg/analyzer"
	"github.com/panbanda/husk/pkg/config"
	"github.com/panbanda/husk/pkg/models"
	"github.com/panbanda/husk/pkg/source"
)

// Coordinator reads the files of a run and applies every verifier to the
// declaration table.
type Coordinator struct {
	config *config.Config
	logger *logging.Logger
	source source.ContentSource
}

// Option is a functional option for configuring Coordinator.
type Option func(*Coordinator)

// WithLogger sets the logger for warnings and the verification debug stream.
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

// New creates a verification coordinator.
func New(cfg *config.Config, opts ...Option) *Coordinator {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	c := &Coordinator{
		config: cfg,
		logger: logging.Discard(),
		source: source.NewFilesystem(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Stats summarises the verified table.
type Stats struct {
	Total  int `json:"total"`
	Used   int `json:"used"`
	Unused int `json:"unused"`
}

// Verify sets the usage flags of every declaration in table. It reads the
// scanned files plus every file a declaration points at, runs the
// single-file verifiers per file in parallel, then the export, dependency
// and deprecation verifiers over all files. Unreadable files are logged and
// contribute nothing. The only error is cancellation of ctx.
func (c *Coordinator) Verify(ctx context.Context, table *models.Table, files []string) (Stats, error) {
	paths := unionPaths(files, table.Files())

	if tracker := analyzer.TrackerFromContext(ctx); tracker != nil {
		tracker.Start(analyzer.PhaseVerification, len(paths))
	}

	read, errs := fileproc.MapSourceFiles(ctx, paths, c.source, func(path string, content []byte) (*File, error) {
		return NewFile(path, content), nil
	})
	if err := ctx.Err(); err != nil {
		return Stats{}, err
	}
	for _, e := range errs.Sorted() {
		c.logger.Warnf("skipping %s: %v", e.Path, e.Err)
	}

	byPath := make(map[string]*File, len(read))
	for _, f := range read {
		byPath[f.Path] = f
	}

	groups := table.ByFile()
	local := make([]string, 0, len(groups))
	for p := range groups {
		if byPath[p] != nil {
			local = append(local, p)
		}
	}
	sort.Strings(local)

	// reading and verifying each tick once per file
	if tracker := analyzer.TrackerFromContext(ctx); tracker != nil {
		tracker.Add(len(local))
	}

	// each task only touches declarations located in its own file
	err := fileproc.ForEach(ctx, local, func(_ context.Context, p string) {
		f, decls := byPath[p], groups[p]
		for _, verify := range FileVerifiers() {
			verify(f, decls)
		}
	})
	if err != nil {
		return Stats{}, err
	}

	Exports(byPath, table, c.config.Analysis.Extensions)
	Dependencies(byPath, table)
	Deprecated(byPath, table)

	return c.report(table), nil
}

func (c *Coordinator) report(table *models.Table) Stats {
	var s Stats
	sorted := table.Sorted()
	for _, d := range sorted {
		s.Total++
		if d.IsUsed() {
			s.Used++
		} else {
			s.Unused++
		}
	}

	if c.logger.DebugEnabled() {
		c.logger.Debugf(logging.StreamVerification, "total %d, used %d, unused %d", s.Total, s.Used, s.Unused)
		for _, d := range sorted {
			status := "unused"
			if d.IsUsed() {
				status = "used"
			}
			c.logger.Debugf(logging.StreamVerification, "%s %s at %s: %s", d.Kind, d.Name, d.Location, status)
		}
	}
	return s
}

// unionPaths merges two path lists into one sorted list without duplicates.
func unionPaths(a, b []string) []string {
	seen := make(map[string]bool, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, list := range [][]string{a, b} {
		for _, p := range list {
			if !seen[p] {
				seen[p] = true
				out = append(out, p)
			}
		}
	}
	sort.Strings(out)
	return out
}
