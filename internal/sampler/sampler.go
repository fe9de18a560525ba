// Package sampler normalises decoded images to a fixed working resolution
// and flattens them into colour samples.
package sampler

import (
	"fmt"
	"image"
	"image/color"

	"github.com/jmylchreest/dominant/internal/colour"
)

// Default working resolution.
const (
	DefaultWidth  = 150
	DefaultHeight = 150
)

// Config selects the working resolution and resampling filter.
type Config struct {
	Width     int
	Height    int
	Resampler string
}

// DefaultConfig returns 150×150 with the default resampler.
func DefaultConfig() Config {
	return Config{
		Width:     DefaultWidth,
		Height:    DefaultHeight,
		Resampler: DefaultResampler,
	}
}

// Validate checks the working size and resampler name.
func (c Config) Validate() error {
	if c.Width < 1 || c.Height < 1 {
		return fmt.Errorf("working size must be at least 1x1, got %dx%d", c.Width, c.Height)
	}
	if _, err := LookupResampler(c.Resampler); err != nil {
		return err
	}
	return nil
}

// Sampler turns images into SampleSets of exactly Width×Height samples.
// It holds no per-image state and is safe for concurrent use.
type Sampler struct {
	width, height int
	resampler     Resampler
}

// New creates a Sampler from cfg.
func New(cfg Config) (*Sampler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	r, _ := LookupResampler(cfg.Resampler)
	return &Sampler{width: cfg.Width, height: cfg.Height, resampler: r}, nil
}

// Size returns the working resolution.
func (s *Sampler) Size() (width, height int) {
	return s.width, s.height
}

// Normalise drops alpha and resizes img to the working resolution.
// An image already at that size is copied without resampling.
func (s *Sampler) Normalise(img image.Image) *image.RGBA {
	opaque := opaqueCopy(img)
	if opaque.Rect.Dx() == s.width && opaque.Rect.Dy() == s.height {
		return opaque
	}
	return s.resampler.Resample(opaque, s.width, s.height)
}

// Sample normalises img and flattens it in row-major order.
func (s *Sampler) Sample(img image.Image) colour.SampleSet {
	return colour.SamplesFromImage(s.Normalise(img))
}

// opaqueCopy converts img to a zero-origin RGBA image with every pixel's
// un-premultiplied channels kept and alpha forced to 255.
func opaqueCopy(img image.Image) *image.RGBA {
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := colour.ToRGB(img.At(x, y))
			dst.SetRGBA(x-b.Min.X, y-b.Min.Y, color.RGBA{R: c.R, G: c.G, B: c.B, A: 255})
		}
	}
	return dst
}
