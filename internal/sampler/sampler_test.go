package sampler

import (
	"image"
	"image/color"
	"testing"

	"github.com/jmylchreest/dominant/internal/colour"
)

func solidImage(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"default", DefaultConfig(), false},
		{"tiny", Config{Width: 1, Height: 1, Resampler: Nearest}, false},
		{"zero width", Config{Width: 0, Height: 150, Resampler: CatmullRom}, true},
		{"negative height", Config{Width: 150, Height: -1, Resampler: CatmullRom}, true},
		{"unknown resampler", Config{Width: 10, Height: 10, Resampler: "sinc"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if _, err := New(tt.cfg); (err != nil) != tt.wantErr {
				t.Errorf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDefaultSize(t *testing.T) {
	s, err := New(DefaultConfig())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if w, h := s.Size(); w != 150 || h != 150 {
		t.Errorf("Size() = %dx%d, want 150x150", w, h)
	}
}

func TestEveryResamplerProducesWorkingSize(t *testing.T) {
	solid := color.NRGBA{R: 40, G: 120, B: 200, A: 255}
	inputs := map[string]image.Image{
		"downscale": solidImage(400, 300, solid),
		"upscale":   solidImage(7, 3, solid),
	}

	for _, name := range ResamplerNames() {
		s, err := New(Config{Width: 150, Height: 150, Resampler: name})
		if err != nil {
			t.Fatalf("New(%s) error = %v", name, err)
		}
		for label, img := range inputs {
			t.Run(name+"/"+label, func(t *testing.T) {
				samples := s.Sample(img)
				if len(samples) != 150*150 {
					t.Fatalf("Expected %d samples, got %d", 150*150, len(samples))
				}
				for i, c := range samples {
					if !near(c, colour.RGB{R: 40, G: 120, B: 200}, 1) {
						t.Fatalf("Sample %d = %v, want solid colour", i, c)
					}
				}
			})
		}
	}
}

func TestNormaliseSameSizeIsIdentity(t *testing.T) {
	src := image.NewNRGBA(image.Rect(10, 20, 13, 22))
	want := make([]colour.RGB, 0, 6)
	for y := 20; y < 22; y++ {
		for x := 10; x < 13; x++ {
			c := color.NRGBA{R: uint8(x * 7), G: uint8(y * 5), B: uint8(x + y), A: 255}
			src.SetNRGBA(x, y, c)
			want = append(want, colour.RGB{R: c.R, G: c.G, B: c.B})
		}
	}

	s, err := New(Config{Width: 3, Height: 2, Resampler: Lanczos3})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	out := s.Normalise(src)

	if out.Rect != image.Rect(0, 0, 3, 2) {
		t.Fatalf("Expected zero-origin 3x2 image, got %v", out.Rect)
	}
	got := colour.SamplesFromImage(out)
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Pixel %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestNormaliseDiscardsAlpha(t *testing.T) {
	src := solidImage(4, 4, color.NRGBA{R: 200, G: 10, B: 90, A: 0})

	s, err := New(Config{Width: 4, Height: 4, Resampler: Nearest})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	out := s.Normalise(src)

	for y := range 4 {
		for x := range 4 {
			if got := out.RGBAAt(x, y); got != (color.RGBA{R: 200, G: 10, B: 90, A: 255}) {
				t.Fatalf("Pixel (%d,%d) = %v, want opaque source colour", x, y, got)
			}
		}
	}
}

func TestNearestUpscaleKeepsQuadrants(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	src.SetNRGBA(0, 0, color.NRGBA{R: 255, A: 255})
	src.SetNRGBA(1, 0, color.NRGBA{G: 255, A: 255})
	src.SetNRGBA(0, 1, color.NRGBA{B: 255, A: 255})
	src.SetNRGBA(1, 1, color.NRGBA{R: 255, G: 255, B: 255, A: 255})

	s, err := New(Config{Width: 4, Height: 4, Resampler: Nearest})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	samples := s.Sample(src)

	counts := map[colour.RGB]int{}
	for _, c := range samples {
		counts[c]++
	}
	for _, c := range []colour.RGB{{R: 255}, {G: 255}, {B: 255}, {R: 255, G: 255, B: 255}} {
		if counts[c] != 4 {
			t.Errorf("Expected 4 samples of %s, got %d", c.Hex(), counts[c])
		}
	}
}

func TestLookupResampler(t *testing.T) {
	if _, err := LookupResampler(DefaultResampler); err != nil {
		t.Errorf("LookupResampler(default) error = %v", err)
	}
	if _, err := LookupResampler("CatmullRom"); err == nil {
		t.Error("Expected names to be case sensitive")
	}
}

func near(a, b colour.RGB, tol int) bool {
	d := func(x, y uint8) int {
		if x > y {
			return int(x - y)
		}
		return int(y - x)
	}
	return d(a.R, b.R) <= tol && d(a.G, b.G) <= tol && d(a.B, b.B) <= tol
}
