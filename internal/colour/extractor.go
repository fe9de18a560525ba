package colour

import (
	"fmt"
	"image"
	"slices"
)

// Extractor defines the interface for colour extraction algorithms.
type Extractor interface {
	// Extract extracts a colour palette from an image.
	// The count parameter specifies the number of colours to extract.
	Extract(img image.Image, count int) (*Palette, error)
}

// SampleExtractor is implemented by extractors that can work directly on
// an already flattened SampleSet.
type SampleExtractor interface {
	ExtractSamples(samples SampleSet, count int) (*Palette, error)
}

// Algorithm represents the colour extraction algorithm type.
type Algorithm string

const (
	// AlgorithmKMeans clusters every sample with seeded Lloyd k-means.
	AlgorithmKMeans Algorithm = "kmeans"

	// AlgorithmProminent delegates to the prominentcolor library.
	AlgorithmProminent Algorithm = "prominent"
)

// ValidAlgorithms returns a list of valid algorithm names.
func ValidAlgorithms() []Algorithm {
	return []Algorithm{
		AlgorithmKMeans,
		AlgorithmProminent,
	}
}

// IsValidAlgorithm checks if the given algorithm name is valid.
func IsValidAlgorithm(alg Algorithm) bool {
	return slices.Contains(ValidAlgorithms(), alg)
}

// ExtractorOptions tunes the extractors. Zero NInit or MaxIterations
// select the package defaults.
type ExtractorOptions struct {
	Seed          int64
	NInit         int
	MaxIterations int
	Tolerance     float64
}

// NewExtractor creates a new Extractor based on the specified algorithm.
func NewExtractor(alg Algorithm, opts ExtractorOptions) (Extractor, error) {
	switch alg {
	case AlgorithmKMeans:
		return NewKMeansExtractor(opts), nil
	case AlgorithmProminent:
		return NewProminentExtractor(), nil
	default:
		return nil, fmt.Errorf("unknown algorithm: %s (valid algorithms: %v)", alg, ValidAlgorithms())
	}
}

// KMeansExtractor adapts KMeans to the Extractor interface.
type KMeansExtractor struct {
	opts ExtractorOptions
}

// NewKMeansExtractor creates a KMeansExtractor.
func NewKMeansExtractor(opts ExtractorOptions) *KMeansExtractor {
	return &KMeansExtractor{opts: opts}
}

// Extract clusters every pixel of img into count colours.
// Returns colours with their relative weights (cluster sizes).
func (e *KMeansExtractor) Extract(img image.Image, count int) (*Palette, error) {
	if img == nil {
		return nil, fmt.Errorf("image cannot be nil")
	}
	return e.ExtractSamples(SamplesFromImage(img), count)
}

// ExtractSamples clusters samples into count colours.
func (e *KMeansExtractor) ExtractSamples(samples SampleSet, count int) (*Palette, error) {
	km := &KMeans{
		NInit:         e.opts.NInit,
		MaxIterations: e.opts.MaxIterations,
		Tolerance:     e.opts.Tolerance,
		Seed:          e.opts.Seed,
	}
	result, err := km.Cluster(samples, count)
	if err != nil {
		return nil, err
	}
	return result.Palette(), nil
}
