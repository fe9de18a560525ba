package colour

import (
	"encoding/json"
	"image"
	"image/color"
	"slices"
	"strings"
	"testing"
)

func TestRGBHex(t *testing.T) {
	tests := []struct {
		rgb  RGB
		want string
	}{
		{RGB{R: 255, G: 10, B: 0}, "#ff0a00"},
		{RGB{}, "#000000"},
		{RGB{R: 255, G: 255, B: 255}, "#ffffff"},
		{RGB{R: 1, G: 2, B: 3}, "#010203"},
	}

	for _, tt := range tests {
		if got := tt.rgb.Hex(); got != tt.want {
			t.Errorf("Hex(%v) = %s, want %s", tt.rgb, got, tt.want)
		}
	}
}

func TestRGBString(t *testing.T) {
	if got := (RGB{R: 12, G: 34, B: 56}).String(); got != "rgb(12, 34, 56)" {
		t.Errorf("String() = %s", got)
	}
}

func TestToRGBDiscardsAlpha(t *testing.T) {
	tests := []struct {
		name string
		in   color.Color
		want RGB
	}{
		{"opaque", color.RGBA{R: 10, G: 20, B: 30, A: 255}, RGB{R: 10, G: 20, B: 30}},
		{"translucent non-premultiplied", color.NRGBA{R: 200, G: 100, B: 50, A: 40}, RGB{R: 200, G: 100, B: 50}},
		{"half-transparent premultiplied", color.RGBA{R: 128, A: 128}, RGB{R: 255}},
		{"gray", color.Gray{Y: 77}, RGB{R: 77, G: 77, B: 77}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ToRGB(tt.in); got != tt.want {
				t.Errorf("ToRGB() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSamplesFromImageRowMajor(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.NRGBA{R: 1, A: 255})
	img.Set(1, 0, color.NRGBA{R: 2, A: 255})
	img.Set(0, 1, color.NRGBA{R: 3, A: 255})
	img.Set(1, 1, color.NRGBA{R: 4, A: 0})

	samples := SamplesFromImage(img)

	want := SampleSet{{R: 1}, {R: 2}, {R: 3}, {R: 4}}
	if !slices.Equal(samples, want) {
		t.Errorf("SamplesFromImage() = %v, want %v", samples, want)
	}
}

func TestSamplesFromImageOffsetBounds(t *testing.T) {
	img := image.NewRGBA(image.Rect(5, 5, 8, 7))
	if got := len(SamplesFromImage(img)); got != 6 {
		t.Errorf("Expected 6 samples, got %d", got)
	}
}

func TestPaletteAccessors(t *testing.T) {
	palette := NewPalette([]RGB{{R: 255}, {G: 255}, {B: 255}})

	if palette.Len() != 3 {
		t.Fatalf("Expected palette length 3, got %d", palette.Len())
	}
	if got := palette.ToHex(); !slices.Equal(got, []string{"#ff0000", "#00ff00", "#0000ff"}) {
		t.Errorf("ToHex() = %v", got)
	}
}

func TestPaletteToJSON(t *testing.T) {
	palette := NewPaletteWithWeights([]RGB{{R: 255}, {R: 255, G: 255, B: 255}}, []float64{0.666666, 0.333334})

	data, err := palette.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() error = %v", err)
	}

	var decoded PaletteJSON
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal error = %v", err)
	}

	if decoded.Count != 2 || len(decoded.Colours) != 2 {
		t.Fatalf("Unexpected decoded palette %+v", decoded)
	}
	first := decoded.Colours[0]
	if first.Hex != "#ff0000" || first.RGB != (RGB{R: 255}) {
		t.Errorf("Unexpected first colour %+v", first)
	}
	if first.HSL != (HSL{H: 0, S: 1, L: 0.5}) {
		t.Errorf("Unexpected HSL %+v", first.HSL)
	}
	if first.Weight != 0.67 || decoded.Colours[1].Weight != 0.33 {
		t.Errorf("Expected weights rounded to 2 places, got %v and %v", first.Weight, decoded.Colours[1].Weight)
	}
}

func TestEmptyPaletteJSON(t *testing.T) {
	data, err := NewPalette(nil).ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() error = %v", err)
	}
	if !strings.Contains(string(data), `"colours": []`) {
		t.Errorf("Expected empty colours array, got %s", data)
	}
	if !strings.Contains(string(data), `"count": 0`) {
		t.Errorf("Expected zero count, got %s", data)
	}
}

func TestPaletteJSONOmitsMissingWeights(t *testing.T) {
	data, err := NewPalette([]RGB{{B: 9}}).ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() error = %v", err)
	}
	if strings.Contains(string(data), "weight") {
		t.Errorf("Expected no weight field, got %s", data)
	}
}
