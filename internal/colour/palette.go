// Package colour provides the colour data model and the clustering used to
// find the dominant colours of an image.
package colour

import (
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// RGB is a single 8-bit RGB sample.
type RGB struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// String returns the RGB color as a string in the format "rgb(r, g, b)".
func (rgb RGB) String() string {
	return fmt.Sprintf("rgb(%d, %d, %d)", rgb.R, rgb.G, rgb.B)
}

// Hex returns the RGB color as a lowercase hex string (e.g., "#ff0a00").
func (rgb RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", rgb.R, rgb.G, rgb.B)
}

// HSL returns hue (0-360), saturation (0-1) and lightness (0-1).
func (rgb RGB) HSL() (h, s, l float64) {
	c := colorful.Color{
		R: float64(rgb.R) / 255.0,
		G: float64(rgb.G) / 255.0,
		B: float64(rgb.B) / 255.0,
	}
	return c.Hsl()
}

// ToRGB converts a color.Color to RGB, discarding alpha.
// Channels are taken un-premultiplied so a translucent pixel keeps its hue.
func ToRGB(c color.Color) RGB {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return RGB{R: n.R, G: n.G, B: n.B}
}

// SampleSet is the flattened, row-major pixel data of one image.
// It is never modified once built.
type SampleSet []RGB

// SamplesFromImage flattens img into a SampleSet in row-major order.
func SamplesFromImage(img image.Image) SampleSet {
	bounds := img.Bounds()
	samples := make(SampleSet, 0, bounds.Dx()*bounds.Dy())
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			samples = append(samples, ToRGB(img.At(x, y)))
		}
	}
	return samples
}

// Palette represents the colours extracted from an image, in cluster order.
type Palette struct {
	Colours []RGB
	// Weights holds the share of samples each colour represents (sums to 1).
	// Nil when the extractor does not report cluster sizes.
	Weights []float64
}

// NewPalette creates a new Palette with the given colours.
func NewPalette(colours []RGB) *Palette {
	return &Palette{
		Colours: colours,
	}
}

// NewPaletteWithWeights creates a Palette with per-colour weights.
func NewPaletteWithWeights(colours []RGB, weights []float64) *Palette {
	return &Palette{
		Colours: colours,
		Weights: weights,
	}
}

// Len returns the number of colours in the palette.
func (p *Palette) Len() int {
	return len(p.Colours)
}

// ToHex converts the palette colours to hex strings.
// Returns a slice of hex colour codes (e.g., ["#1a2b3c", "#4d5e6f"]).
func (p *Palette) ToHex() []string {
	hexColours := make([]string, len(p.Colours))
	for i, c := range p.Colours {
		hexColours[i] = c.Hex()
	}
	return hexColours
}

// HSL is the JSON form of a colour in HSL space.
type HSL struct {
	H float64 `json:"h"`
	S float64 `json:"s"`
	L float64 `json:"l"`
}

// ColourJSON represents a colour in JSON output format.
type ColourJSON struct {
	Hex    string  `json:"hex"`
	RGB    RGB     `json:"rgb"`
	HSL    HSL     `json:"hsl"`
	Weight float64 `json:"weight,omitempty"`
}

// PaletteJSON represents the palette in JSON format.
type PaletteJSON struct {
	Count   int          `json:"count"`
	Colours []ColourJSON `json:"colours"`
}

// JSON returns the JSON model of the palette.
func (p *Palette) JSON() PaletteJSON {
	colours := make([]ColourJSON, len(p.Colours))
	for i, c := range p.Colours {
		h, s, l := c.HSL()
		colours[i] = ColourJSON{
			Hex: c.Hex(),
			RGB: c,
			HSL: HSL{H: round2(h), S: round2(s), L: round2(l)},
		}
		if i < len(p.Weights) {
			colours[i].Weight = round2(p.Weights[i])
		}
	}
	return PaletteJSON{
		Count:   len(p.Colours),
		Colours: colours,
	}
}

// ToJSON converts the palette to indented JSON.
func (p *Palette) ToJSON() ([]byte, error) {
	return json.MarshalIndent(p.JSON(), "", "  ")
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
