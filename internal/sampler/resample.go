package sampler

import (
	"fmt"
	"image"
	"slices"

	"github.com/disintegration/imaging"
	"github.com/nfnt/resize"
	xdraw "golang.org/x/image/draw"
)

// Resampler scales an opaque image to exactly width×height.
type Resampler interface {
	Resample(src image.Image, width, height int) *image.RGBA
}

// ResamplerFunc adapts a function to the Resampler interface.
type ResamplerFunc func(src image.Image, width, height int) *image.RGBA

// Resample calls f.
func (f ResamplerFunc) Resample(src image.Image, width, height int) *image.RGBA {
	return f(src, width, height)
}

// Resampler names.
const (
	CatmullRom = "catmullrom"
	BiLinear   = "bilinear"
	Nearest    = "nearest"
	Lanczos3   = "lanczos3"
	Mitchell   = "mitchell"
	Box        = "box"
	Hamming    = "hamming"
)

// DefaultResampler is a bicubic filter.
const DefaultResampler = CatmullRom

var resamplers = map[string]Resampler{
	CatmullRom: kernel(xdraw.CatmullRom),
	BiLinear:   kernel(xdraw.BiLinear),
	Nearest:    kernel(xdraw.NearestNeighbor),
	Lanczos3:   nfnt(resize.Lanczos3),
	Mitchell:   nfnt(resize.MitchellNetravali),
	Box:        filter(imaging.Box),
	Hamming:    filter(imaging.Hamming),
}

// ResamplerNames returns the registered resampler names, sorted.
func ResamplerNames() []string {
	names := make([]string, 0, len(resamplers))
	for name := range resamplers {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// LookupResampler returns the resampler registered under name.
func LookupResampler(name string) (Resampler, error) {
	r, ok := resamplers[name]
	if !ok {
		return nil, fmt.Errorf("unknown resampler: %s (valid: %v)", name, ResamplerNames())
	}
	return r, nil
}

func kernel(s xdraw.Scaler) Resampler {
	return ResamplerFunc(func(src image.Image, width, height int) *image.RGBA {
		dst := image.NewRGBA(image.Rect(0, 0, width, height))
		s.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
		return dst
	})
}

func nfnt(interp resize.InterpolationFunction) Resampler {
	return ResamplerFunc(func(src image.Image, width, height int) *image.RGBA {
		return toRGBA(resize.Resize(uint(width), uint(height), src, interp)) // #nosec G115 -- sizes are validated positive
	})
}

func filter(f imaging.ResampleFilter) Resampler {
	return ResamplerFunc(func(src image.Image, width, height int) *image.RGBA {
		return toRGBA(imaging.Resize(src, width, height, f))
	})
}

// toRGBA copies img into a zero-origin *image.RGBA unless it already is one.
func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Bounds().Min == (image.Point{}) {
		return rgba
	}
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	xdraw.Draw(dst, dst.Bounds(), img, b.Min, xdraw.Src)
	return dst
}
