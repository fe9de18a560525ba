package colour

import (
	"fmt"
	"image"

	"github.com/EdlinOrg/prominentcolor"
)

// ProminentExtractor extracts colours with the prominentcolor library.
// Colours are returned most frequent first. The library reseeds from the
// clock whenever it has to cluster, so results are not reproducible.
type ProminentExtractor struct {
	arguments int
}

// NewProminentExtractor creates a ProminentExtractor that looks at the
// whole image rather than a centre crop.
func NewProminentExtractor() *ProminentExtractor {
	return &ProminentExtractor{
		arguments: prominentcolor.ArgumentNoCropping,
	}
}

// Extract returns exactly count colours or an error.
func (e *ProminentExtractor) Extract(img image.Image, count int) (*Palette, error) {
	if img == nil {
		return nil, fmt.Errorf("image cannot be nil")
	}
	bounds := img.Bounds()
	available := bounds.Dx() * bounds.Dy()
	if count < 1 || count > available {
		return nil, &ClusterCountError{Requested: count, Available: available}
	}

	size := uint(max(bounds.Dx(), bounds.Dy())) // #nosec G115 -- image dimensions are non-negative
	items, err := prominentcolor.KmeansWithAll(count, img, e.arguments, size, nil)
	if err != nil {
		return nil, fmt.Errorf("prominentcolor extraction failed: %w", err)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: no opaque colours found", ErrInvalidClusterCount)
	}

	// Fewer distinct colours than requested: the extra entries repeat the
	// found colours in order and carry no weight.
	total := 0
	for _, item := range items[:min(count, len(items))] {
		total += item.Cnt
	}
	colours := make([]RGB, count)
	weights := make([]float64, count)
	for i := range count {
		item := items[i%len(items)]
		colours[i] = RGB{R: uint8(item.Color.R), G: uint8(item.Color.G), B: uint8(item.Color.B)} // #nosec G115 -- channels are 0-255
		if i < len(items) && total > 0 {
			weights[i] = float64(item.Cnt) / float64(total)
		}
	}
	return NewPaletteWithWeights(colours, weights), nil
}
