package dominant

import (
	"context"
	"sync"

	"github.com/jmylchreest/dominant/internal/colour"
)

// Result is the outcome for one input of a batch.
type Result struct {
	Path    string
	Palette *colour.Palette
	Err     error
}

// Hex returns the colours as hex strings, empty when the input failed.
func (r Result) Hex() []string {
	if r.Err != nil || r.Palette == nil {
		return []string{}
	}
	return r.Palette.ToHex()
}

// ExtractBatch extracts every path on a fixed pool of workers. Each image
// is an independent run; results are returned in input order. Once ctx is
// done, inputs not yet started fail with ctx's error.
func (e *Extractor) ExtractBatch(ctx context.Context, paths []string) []Result {
	results := make([]Result, len(paths))
	if len(paths) == 0 {
		return results
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for range e.workers(len(paths)) {
		wg.Go(func() {
			for i := range jobs {
				results[i] = e.extractOne(ctx, paths[i])
			}
		})
	}

	for i := range paths {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return results
}

func (e *Extractor) extractOne(ctx context.Context, path string) Result {
	if err := ctx.Err(); err != nil {
		return Result{Path: path, Err: err}
	}
	palette, err := e.Extract(ctx, path)
	if err != nil {
		e.logger.Error("colour extraction failed", "path", path, "error", err)
		return Result{Path: path, Err: err}
	}
	return Result{Path: path, Palette: palette}
}
