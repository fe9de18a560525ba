// Package seed derives the k-means seed for a clustering run.
// Every mode except ModeRandom is deterministic for identical inputs.
package seed

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"image"
	"math/rand/v2"
	"path/filepath"
	"slices"
	"strings"
)

// DefaultValue is the seed used by ModeFixed when none is configured.
const DefaultValue int64 = 42

// Mode determines how the seed is generated.
type Mode string

const (
	// ModeFixed uses Config.Value (default 42).
	ModeFixed Mode = "fixed"
	// ModeContent hashes the image pixels, so the same picture gives the
	// same seed wherever it lives.
	ModeContent Mode = "content"
	// ModeFilepath hashes the absolute file path (or URL).
	ModeFilepath Mode = "filepath"
	// ModeRandom varies every run.
	ModeRandom Mode = "random"
)

// Config holds configuration for seed generation.
type Config struct {
	Mode  Mode
	Value int64 // only used by ModeFixed
}

// DefaultConfig returns the fixed-seed configuration.
func DefaultConfig() Config {
	return Config{Mode: ModeFixed, Value: DefaultValue}
}

// Calculate determines the seed for one image.
// img is required for ModeContent, imagePath for ModeFilepath.
func Calculate(img image.Image, imagePath string, config Config) (int64, error) {
	switch config.Mode {
	case ModeFixed, "":
		return config.Value, nil
	case ModeContent:
		if img == nil {
			return 0, fmt.Errorf("image is required for content-based seed mode")
		}
		return ContentSeed(img), nil
	case ModeFilepath:
		if imagePath == "" {
			return 0, fmt.Errorf("image path is required for filepath-based seed mode")
		}
		return FilepathSeed(imagePath), nil
	case ModeRandom:
		return rand.Int64(), nil // #nosec G404 -- intentionally non-deterministic
	default:
		return 0, fmt.Errorf("unknown seed mode: %s", config.Mode)
	}
}

// ContentSeed hashes the dimensions and a grid of pixels of img.
func ContentSeed(img image.Image) int64 {
	bounds := img.Bounds()
	hasher := sha256.New()

	dimBytes := make([]byte, 8)
	binary.LittleEndian.PutUint32(dimBytes[0:4], uint32(bounds.Dx())) // #nosec G115 -- image dimensions are safe to convert
	binary.LittleEndian.PutUint32(dimBytes[4:8], uint32(bounds.Dy())) // #nosec G115 -- image dimensions are safe to convert
	hasher.Write(dimBytes)

	// Roughly a 100x100 grid is enough to tell images apart.
	step := max(bounds.Dx()/100, bounds.Dy()/100, 1)
	pixelBytes := make([]byte, 4)
	for y := bounds.Min.Y; y < bounds.Max.Y; y += step {
		for x := bounds.Min.X; x < bounds.Max.X; x += step {
			r, g, b, a := img.At(x, y).RGBA()
			pixelBytes[0] = byte(r >> 8)
			pixelBytes[1] = byte(g >> 8)
			pixelBytes[2] = byte(b >> 8)
			pixelBytes[3] = byte(a >> 8)
			hasher.Write(pixelBytes)
		}
	}

	return hashToSeed(hasher.Sum(nil))
}

// FilepathSeed hashes the absolute form of imagePath. URLs are hashed as-is.
func FilepathSeed(imagePath string) int64 {
	absPath := imagePath
	if !isURL(imagePath) {
		if abs, err := filepath.Abs(imagePath); err == nil {
			absPath = abs
		}
	}
	sum := sha256.Sum256([]byte(absPath))
	return hashToSeed(sum[:])
}

func hashToSeed(hash []byte) int64 {
	return int64(binary.LittleEndian.Uint64(hash[:8])) // #nosec G115 -- hash conversion is safe
}

func isURL(path string) bool {
	return strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://")
}

// ValidModes returns a list of valid seed modes.
func ValidModes() []Mode {
	return []Mode{ModeFixed, ModeContent, ModeFilepath, ModeRandom}
}

// ParseMode converts a string to a Mode.
func ParseMode(s string) (Mode, error) {
	mode := Mode(s)
	if slices.Contains(ValidModes(), mode) {
		return mode, nil
	}
	return "", fmt.Errorf("invalid seed mode: %s (valid: fixed, content, filepath, random)", s)
}
