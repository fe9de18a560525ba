package cli

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jmylchreest/dominant/internal/colour"
	"github.com/jmylchreest/dominant/internal/dominant"
	imgload "github.com/jmylchreest/dominant/internal/image"
	"github.com/jmylchreest/dominant/internal/sampler"
	"github.com/jmylchreest/dominant/internal/seed"
	httputil "github.com/jmylchreest/dominant/internal/util/http"
	"github.com/jmylchreest/dominant/internal/util/imagecache"
)

// Output formats.
const (
	formatHex  = "hex"
	formatRGB  = "rgb"
	formatJSON = "json"
	formatList = "list"
)

func validFormats() []string {
	return []string{formatHex, formatRGB, formatJSON, formatList}
}

func newExtractCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract <image|directory|url>...",
		Short: "Extract dominant colours from images",
		Long: `Extract the dominant colours of one or more images.

Each image is resized to the working resolution (150x150 by default) and
its pixels are clustered into the requested number of colours. Colours are
printed in cluster order, not sorted by frequency. Directories expand to
the images they contain; several inputs are processed in parallel.

When an image cannot be processed the reason is logged and an empty result
is printed. Use --strict to exit with an error instead.

Supported image formats: JPEG, PNG, GIF, WebP, BMP, TIFF (optionally .xz compressed)

Examples:
  # Extract 5 colours (default) from an image
  dominant extract wallpaper.jpg

  # Extract 8 colours as JSON with cluster weights
  dominant extract -c 8 -f json wallpaper.png

  # Print in the "Dominant Colors: [...]" list form
  dominant extract -f list photo.jpg

  # Process a whole directory with 4 workers
  dominant extract -w 4 ~/Pictures/wallpapers

  # Seed from image content instead of the fixed seed
  dominant extract --seed-mode content photo.jpg

  # Fetch a URL once and reuse the download on later runs
  dominant extract --cache https://example.com/wallpaper.jpg`,
		Args: cobra.MinimumNArgs(1),
		RunE: runExtract,
	}

	f := cmd.Flags()
	f.IntP("colours", "c", dominant.DefaultColours, "number of colours to extract")
	f.Int("width", sampler.DefaultWidth, "working width in pixels")
	f.Int("height", sampler.DefaultHeight, "working height in pixels")
	f.String("resampler", sampler.DefaultResampler,
		fmt.Sprintf("resampling filter (%s)", strings.Join(sampler.ResamplerNames(), ", ")))
	f.StringP("algorithm", "a", string(colour.AlgorithmKMeans),
		"extraction algorithm (kmeans, prominent); prominent is unseeded and needs --seed-mode random")
	f.String("seed-mode", string(seed.ModeFixed), "k-means seed mode (fixed, content, filepath, random)")
	f.Int64("seed", seed.DefaultValue, "seed value for --seed-mode=fixed")
	f.Int("n-init", colour.DefaultNInit, "number of k-means initialisations; the lowest inertia wins")
	f.Int("max-iter", colour.DefaultMaxIterations, "maximum k-means iterations per initialisation")
	f.Float64("tolerance", colour.DefaultTolerance, "relative centroid shift at which k-means stops")
	f.IntP("workers", "w", 0, "parallel workers for multiple images (0 = number of CPUs)")
	f.Duration("timeout", httputil.DefaultTimeout, "timeout for fetching images from URLs")
	f.String("cache-dir", "", "keep images fetched from URLs in this directory and reuse them")
	f.Bool("cache", false, "cache images fetched from URLs in the user cache directory")
	f.Bool("refresh-cache", false, "download URLs again even when a cached copy exists")
	f.StringP("format", "f", formatHex, "output format (hex, rgb, json, list)")
	f.StringP("output", "o", "", "output file (default: stdout)")
	f.Bool("preview", false, "show colour swatches when writing to a terminal")
	f.Bool("strict", false, "exit with an error if any image fails")

	return cmd
}

// optionsFromConfig builds pipeline options from bound flags and env.
func optionsFromConfig(v *viper.Viper) (dominant.Options, error) {
	mode, err := seed.ParseMode(v.GetString("seed-mode"))
	if err != nil {
		return dominant.Options{}, err
	}

	opts := dominant.DefaultOptions()
	opts.Colours = v.GetInt("colours")
	opts.Sampler = sampler.Config{
		Width:     v.GetInt("width"),
		Height:    v.GetInt("height"),
		Resampler: v.GetString("resampler"),
	}
	opts.Algorithm = colour.Algorithm(v.GetString("algorithm"))
	opts.Seed = seed.Config{Mode: mode, Value: v.GetInt64("seed")}
	opts.NInit = v.GetInt("n-init")
	opts.MaxIterations = v.GetInt("max-iter")
	opts.Tolerance = v.GetFloat64("tolerance")
	opts.Workers = v.GetInt("workers")
	opts.FetchTimeout = v.GetDuration("timeout")
	opts.CacheDir = v.GetString("cache-dir")
	if opts.CacheDir == "" && v.GetBool("cache") {
		dir, err := imagecache.DefaultDir()
		if err != nil {
			return dominant.Options{}, err
		}
		opts.CacheDir = dir
	}
	opts.RefreshCache = v.GetBool("refresh-cache")

	return opts, opts.Validate()
}

// runExtract executes the extract command.
func runExtract(cmd *cobra.Command, args []string) error {
	v, err := bindConfig(cmd)
	if err != nil {
		return err
	}
	logger := newLogger(cmd.ErrOrStderr(), v.GetBool("verbose"), v.GetBool("quiet"))

	format := v.GetString("format")
	if !slices.Contains(validFormats(), format) {
		return fmt.Errorf("unsupported format: %s (supported: %s)", format, strings.Join(validFormats(), ", "))
	}

	opts, err := optionsFromConfig(v)
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	extractor, err := dominant.New(opts, dominant.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("failed to create extractor: %w", err)
	}

	var paths []string
	failures := 0
	for _, arg := range args {
		expanded, err := imgload.ExpandPaths([]string{arg})
		if err != nil {
			logger.Error("cannot read input", "path", arg, "error", err)
			failures++
			continue
		}
		paths = append(paths, expanded...)
	}

	logger.Debug("extracting colours", "images", len(paths), "colours", opts.Colours,
		"algorithm", opts.Algorithm, "seed_mode", opts.Seed.Mode)

	results := extractor.ExtractBatch(cmd.Context(), paths)
	for _, r := range results {
		if r.Err != nil {
			failures++
		}
	}

	outputPath := v.GetString("output")
	showPreview := v.GetBool("preview") && outputPath == "" && colour.SupportsANSIColours(cmd.OutOrStdout())
	single := len(args) == 1 && len(paths) <= 1

	output, err := render(results, format, single, showPreview)
	if err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}

	if outputPath != "" {
		logger.Debug("writing output", "file", outputPath)
		if err := os.WriteFile(outputPath, []byte(output), 0o644); err != nil { // #nosec G306 - output is not sensitive
			return fmt.Errorf("failed to write output file: %w", err)
		}
	} else {
		fmt.Fprint(cmd.OutOrStdout(), output)
	}

	if failures > 0 && v.GetBool("strict") {
		return fmt.Errorf("no colours extracted for %d input(s)", failures)
	}
	return nil
}
