// Package deadcode runs detection and verification over a project tree and
// extracts the dead, deprecated and local-only declarations.
package deadcode

import (
	"context"
	"fmt"
	"time"

	"github.com/panbanda/husk/internal/cache"
	"github.com/panbanda/husk/internal/logging"
	"github.com/panbanda/husk/pkg/analyzer"
	"github.com/panbanda/husk/pkg/analyzer/detect"
	"github.com/panbanda/husk/pkg/analyzer/verify"
	"github.com/panbanda/husk/pkg/config"
	"github.com/panbanda/husk/pkg/models"
	"github.com/panbanda/husk/pkg/source"
)

// Analyzer is the two-phase dead code engine.
type Analyzer struct {
	config   *config.Config
	logger   *logging.Logger
	progress analyzer.ProgressFunc
	source   source.ContentSource
	cache    *cache.Cache

	// ownedSource is set when the engine created its own content cache; it
	// is purged at the start of every run.
	ownedSource *source.CachedSource
}

// Compile-time check that Analyzer implements analyzer.Analyzer.
var _ analyzer.Analyzer[*models.AnalysisResult] = (*Analyzer)(nil)

// Option is a functional option for configuring Analyzer.
type Option func(*Analyzer)

// WithLogger sets the logger shared by both phases.
func WithLogger(l *logging.Logger) Option {
	return func(a *Analyzer) {
		a.logger = l
	}
}

// WithProgress reports per-phase progress to fn.
func WithProgress(fn analyzer.ProgressFunc) Option {
	return func(a *Analyzer) {
		a.progress = fn
	}
}

// WithSource sets where file content is read from. Both phases read through
// the same source.
func WithSource(src source.ContentSource) Option {
	return func(a *Analyzer) {
		a.source = src
	}
}

// WithCache sets the detection result cache.
func WithCache(c *cache.Cache) Option {
	return func(a *Analyzer) {
		a.cache = c
	}
}

// New creates a dead code analyzer. Without WithSource, file content is
// read once per run through an in-memory cache shared by both phases. A
// caller-supplied source is never purged, so a long-lived CachedSource must
// be told about changed files with Forget.
func New(cfg *config.Config, opts ...Option) *Analyzer {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	a := &Analyzer{
		config: cfg,
		logger: logging.Discard(),
		cache:  cache.Disabled(),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.source == nil {
		if cached, err := source.NewCached(source.NewFilesystem(), source.DefaultCacheSize); err == nil {
			a.source = cached
			a.ownedSource = cached
		} else {
			a.source = source.NewFilesystem()
		}
	}
	return a
}

// Source returns the content source both phases read through.
func (a *Analyzer) Source() source.ContentSource {
	return a.source
}

// Analyze detects every declaration under root, verifies its usage and
// returns the extracted result. It fails only when root cannot be
// enumerated or ctx is cancelled.
func (a *Analyzer) Analyze(ctx context.Context, root string) (*models.AnalysisResult, error) {
	start := time.Now()
	if a.ownedSource != nil {
		a.ownedSource.Purge()
	}
	if a.progress != nil && analyzer.TrackerFromContext(ctx) == nil {
		ctx = analyzer.WithTracker(ctx, analyzer.NewTracker(a.progress))
	}

	detector := detect.New(a.config,
		detect.WithLogger(a.logger),
		detect.WithSource(a.source),
		detect.WithCache(a.cache),
	)
	detected, err := detector.Detect(ctx, root)
	if err != nil {
		return nil, fmt.Errorf("detect %s: %w", root, err)
	}

	verifier := verify.New(a.config,
		verify.WithLogger(a.logger),
		verify.WithSource(a.source),
	)
	if _, err := verifier.Verify(ctx, detected.Table, detected.Files); err != nil {
		return nil, fmt.Errorf("verify %s: %w", root, err)
	}

	return models.NewAnalysisResult(detected.Table, time.Since(start)), nil
}

// Close drops any content the engine holds in memory. The analyzer stays
// usable.
func (a *Analyzer) Close() {
	if a.ownedSource != nil {
		a.ownedSource.Purge()
	}
}
