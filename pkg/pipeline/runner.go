package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/stackdraw/pkg/cache"
	"github.com/matzehuels/stackdraw/pkg/canvas"
	"github.com/matzehuels/stackdraw/pkg/diagram"
	"github.com/matzehuels/stackdraw/pkg/observability"
)

// Runner executes the pipeline behind the artifact cache. The CLI and the
// HTTP server share one implementation; a Runner holds no per-call state
// and may be used from several goroutines.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner fills in a DefaultKeyer, a NullCache and the default logger for
// nil arguments.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute renders a document source in every requested format. Cached
// artifacts are returned without parsing when all formats hit.
func (r *Runner) Execute(ctx context.Context, source []byte, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	logger := opts.Logger

	result := &Result{DocHash: cache.Hash(source)}

	if !opts.Refresh {
		if artifacts, ok := r.lookup(ctx, result.DocHash, opts); ok {
			result.Artifacts = artifacts
			result.CacheInfo.RenderHit = true
			logger.Debug("artifacts from cache", "hash", result.DocHash[:12], "formats", opts.Formats)
			return result, nil
		}
	}

	hooks := observability.Pipeline()

	// Stage 1: Parse
	start := time.Now()
	doc, err := diagram.Parse(source, opts.Format)
	if err != nil {
		hooks.OnParseComplete(ctx, string(opts.Format), 0, time.Since(start), err)
		return nil, err
	}
	result.Document = doc
	result.Stats.ParseTime = time.Since(start)
	result.Stats.ElementCount = len(doc.Elements)
	hooks.OnParseComplete(ctx, string(opts.Format), result.Stats.ElementCount, result.Stats.ParseTime, nil)

	// Stage 2: Build
	start = time.Now()
	c, err := r.Build(ctx, doc, opts)
	if err != nil {
		hooks.OnBuildComplete(ctx, 0, time.Since(start), err)
		return nil, err
	}
	result.Canvas = c
	result.Stats.BuildTime = time.Since(start)
	result.Stats.EntityCount = len(c.Entities())
	hooks.OnBuildComplete(ctx, result.Stats.EntityCount, result.Stats.BuildTime, nil)

	logger.Debug("built canvas",
		"elements", result.Stats.ElementCount,
		"entities", result.Stats.EntityCount,
		"duration", result.Stats.BuildTime)

	// Stage 3: Render
	start = time.Now()
	artifacts, err := Render(ctx, c, opts)
	result.Stats.RenderTime = time.Since(start)
	hooks.OnRenderComplete(ctx, opts.Formats, result.Stats.RenderTime, err)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts

	ttl := opts.TTL
	if ttl == 0 {
		ttl = cache.DefaultTTL
	}
	for format, data := range artifacts {
		variant := opts.formatKey(format)
		if err := r.Cache.Set(ctx, r.Keyer.ArtifactKey(result.DocHash, variant), data, ttl); err != nil {
			logger.Warn("cache write failed", "format", format, "err", err)
			continue
		}
		observability.Cache().OnCacheSet(ctx, variant, len(data))
	}

	logger.Debug("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Build draws a parsed document on a canvas.
func (r *Runner) Build(ctx context.Context, doc *diagram.Document, opts Options) (*canvas.Canvas, error) {
	var buildOpts []diagram.BuildOption
	if opts.Measurer != nil {
		buildOpts = append(buildOpts, diagram.WithMeasurer(opts.Measurer))
	}
	c, err := diagram.Build(ctx, doc, buildOpts...)
	if err != nil {
		return nil, fmt.Errorf("build: %w", err)
	}
	return c, nil
}

// lookup returns the cached artifacts when every requested format hits.
func (r *Runner) lookup(ctx context.Context, docHash string, opts Options) (map[string][]byte, bool) {
	artifacts := make(map[string][]byte, len(opts.Formats))
	hooks := observability.Cache()
	for _, format := range opts.Formats {
		variant := opts.formatKey(format)
		data, hit, err := r.Cache.Get(ctx, r.Keyer.ArtifactKey(docHash, variant))
		if err != nil || !hit {
			hooks.OnCacheMiss(ctx, variant)
			return nil, false
		}
		hooks.OnCacheHit(ctx, variant)
		artifacts[format] = data
	}
	return artifacts, true
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
