// Package dominant wires the loader, sampler and extractor into the
// dominant-colour pipeline: path in, hex colours out.
package dominant

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/jmylchreest/dominant/internal/colour"
	imgload "github.com/jmylchreest/dominant/internal/image"
	"github.com/jmylchreest/dominant/internal/sampler"
	"github.com/jmylchreest/dominant/internal/seed"
	httputil "github.com/jmylchreest/dominant/internal/util/http"
)

// DefaultColours is the number of colours extracted when none is given.
const DefaultColours = 5

// Options configures a pipeline run.
type Options struct {
	Colours   int
	Sampler   sampler.Config
	Algorithm colour.Algorithm
	Seed      seed.Config

	NInit         int
	MaxIterations int
	Tolerance     float64

	// Workers bounds batch parallelism. Zero means runtime.NumCPU().
	Workers int
	// FetchTimeout bounds URL downloads. Zero uses the HTTP default.
	FetchTimeout time.Duration
	// CacheDir, when set, keeps downloaded images for reuse.
	CacheDir string
	// RefreshCache downloads URLs again even when CacheDir holds a copy.
	RefreshCache bool
}

// DefaultOptions returns the reference configuration: 5 colours from a
// 150×150 bicubic downsample, k-means with seed 42, 10 initialisations
// and at most 300 iterations.
func DefaultOptions() Options {
	return Options{
		Colours:       DefaultColours,
		Sampler:       sampler.DefaultConfig(),
		Algorithm:     colour.AlgorithmKMeans,
		Seed:          seed.DefaultConfig(),
		NInit:         colour.DefaultNInit,
		MaxIterations: colour.DefaultMaxIterations,
		Tolerance:     colour.DefaultTolerance,
	}
}

// Validate checks everything that can be rejected before touching an image.
// The colour count is checked by the clusterer, which knows the number of
// samples.
func (o Options) Validate() error {
	if err := o.Sampler.Validate(); err != nil {
		return fmt.Errorf("invalid sampler configuration: %w", err)
	}
	if !colour.IsValidAlgorithm(o.Algorithm) {
		return fmt.Errorf("invalid algorithm: %s (valid: %v)", o.Algorithm, colour.ValidAlgorithms())
	}
	if _, err := seed.ParseMode(string(o.Seed.Mode)); err != nil {
		return err
	}
	if o.Algorithm == colour.AlgorithmProminent && o.Seed.Mode != seed.ModeRandom {
		return fmt.Errorf("algorithm %s cannot be seeded and is only accepted with seed mode %s",
			o.Algorithm, seed.ModeRandom)
	}
	if o.NInit < 0 || o.MaxIterations < 0 || o.Tolerance < 0 || o.Workers < 0 {
		return fmt.Errorf("n-init, max-iter, tolerance and workers must not be negative")
	}
	return nil
}

// Extractor runs the pipeline. It keeps no per-image state, so one value
// may serve many concurrent extractions.
type Extractor struct {
	opts    Options
	loader  imgload.Loader
	sampler *sampler.Sampler
	logger  hclog.Logger
}

// Option customises an Extractor.
type Option func(*Extractor)

// WithLogger sets the logger used for pipeline diagnostics.
func WithLogger(l hclog.Logger) Option {
	return func(e *Extractor) {
		e.logger = l
	}
}

// WithLoader replaces the default file/URL loader.
func WithLoader(l imgload.Loader) Option {
	return func(e *Extractor) {
		e.loader = l
	}
}

// New creates an Extractor for opts.
func New(opts Options, options ...Option) (*Extractor, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	s, err := sampler.New(opts.Sampler)
	if err != nil {
		return nil, err
	}

	fetch := httputil.FetchOptions{Timeout: opts.FetchTimeout}
	e := &Extractor{
		opts:    opts,
		loader:  imgload.NewSmartLoader(fetch, opts.CacheDir, opts.RefreshCache),
		sampler: s,
		logger:  hclog.NewNullLogger(),
	}
	for _, o := range options {
		o(e)
	}
	return e, nil
}

// Extract returns the dominant colours of the image at path, in cluster
// order. Errors match imgload.ErrDecode or colour.ErrInvalidClusterCount.
func (e *Extractor) Extract(ctx context.Context, path string) (*colour.Palette, error) {
	log := e.logger.With("path", path)

	img, err := e.loader.Load(ctx, path)
	if err != nil {
		return nil, err
	}
	b := img.Bounds()
	log.Debug("image decoded", "width", b.Dx(), "height", b.Dy())

	s, err := seed.Calculate(img, path, e.opts.Seed)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate seed: %w", err)
	}

	extractor, err := colour.NewExtractor(e.opts.Algorithm, colour.ExtractorOptions{
		Seed:          s,
		NInit:         e.opts.NInit,
		MaxIterations: e.opts.MaxIterations,
		Tolerance:     e.opts.Tolerance,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create extractor: %w", err)
	}

	w, h := e.sampler.Size()
	log.Trace("sampling image", "width", w, "height", h, "algorithm", e.opts.Algorithm, "seed", s)

	var palette *colour.Palette
	if se, ok := extractor.(colour.SampleExtractor); ok {
		palette, err = se.ExtractSamples(e.sampler.Sample(img), e.opts.Colours)
	} else {
		palette, err = extractor.Extract(e.sampler.Normalise(img), e.opts.Colours)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to extract colours: %w", err)
	}
	log.Debug("colours extracted", "count", palette.Len())
	return palette, nil
}

// DominantColours is the boundary form of Extract: the hex colours, or an
// empty slice when nothing could be extracted. The cause is logged.
func (e *Extractor) DominantColours(ctx context.Context, path string) []string {
	palette, err := e.Extract(ctx, path)
	if err != nil {
		e.logger.Error("colour extraction failed", "path", path, "error", err)
		return []string{}
	}
	return palette.ToHex()
}

func (e *Extractor) workers(jobs int) int {
	w := e.opts.Workers
	if w <= 0 {
		w = runtime.NumCPU()
	}
	return max(1, min(w, jobs))
}
