package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jmylchreest/dominant/internal/colour"
	"github.com/jmylchreest/dominant/internal/dominant"
)

// previewWidth is the swatch width in terminal cells.
const previewWidth = 8

// render formats batch results. A single input prints its colours alone;
// several inputs are labelled with their path. Failed inputs render as an
// empty result.
func render(results []dominant.Result, format string, single, showPreview bool) (string, error) {
	if single {
		var palette *colour.Palette
		if len(results) == 1 && results[0].Err == nil {
			palette = results[0].Palette
		}
		return renderPalette(palette, format, showPreview)
	}

	switch format {
	case formatHex, formatRGB:
		table := NewTable([]string{"IMAGE", "COLOURS"})
		for _, r := range results {
			table.AddRow([]string{r.Path, strings.Join(colourStrings(r.Palette, r.Err, format), " ")})
		}
		return table.Render(), nil
	case formatJSON:
		return renderBatchJSON(results)
	case formatList:
		var b strings.Builder
		for _, r := range results {
			fmt.Fprintf(&b, "%s: %s\n", r.Path, formatDominantList(r.Hex()))
		}
		return b.String(), nil
	default:
		return "", fmt.Errorf("unsupported format: %s", format)
	}
}

// renderPalette formats a single palette; nil renders the empty result.
func renderPalette(palette *colour.Palette, format string, showPreview bool) (string, error) {
	if palette == nil {
		palette = colour.NewPalette(nil)
	}

	switch format {
	case formatHex:
		var b strings.Builder
		for _, c := range palette.Colours {
			if showPreview {
				b.WriteString(colour.FormatColourWithPreview(c, previewWidth))
			} else {
				b.WriteString(c.Hex())
			}
			b.WriteString("\n")
		}
		return b.String(), nil
	case formatRGB:
		var b strings.Builder
		for _, c := range palette.Colours {
			if showPreview {
				b.WriteString(colour.ColourPreviewWithText(c, c.Hex(), previewWidth) + "  ")
			}
			b.WriteString(c.String() + "\n")
		}
		return b.String(), nil
	case formatJSON:
		data, err := palette.ToJSON()
		if err != nil {
			return "", fmt.Errorf("failed to convert to JSON: %w", err)
		}
		return string(data) + "\n", nil
	case formatList:
		return formatDominantList(palette.ToHex()) + "\n", nil
	default:
		return "", fmt.Errorf("unsupported format: %s", format)
	}
}

// formatDominantList renders hex colours as: Dominant Colors: ['#aabbcc', ...]
func formatDominantList(hex []string) string {
	quoted := make([]string, len(hex))
	for i, h := range hex {
		quoted[i] = "'" + h + "'"
	}
	return "Dominant Colors: [" + strings.Join(quoted, ", ") + "]"
}

func colourStrings(palette *colour.Palette, err error, format string) []string {
	if err != nil || palette == nil {
		return nil
	}
	out := make([]string, palette.Len())
	for i, c := range palette.Colours {
		if format == formatRGB {
			out[i] = c.String()
		} else {
			out[i] = c.Hex()
		}
	}
	return out
}

type batchEntryJSON struct {
	Path string `json:"path"`
	colour.PaletteJSON
	Error string `json:"error,omitempty"`
}

func renderBatchJSON(results []dominant.Result) (string, error) {
	entries := make([]batchEntryJSON, len(results))
	for i, r := range results {
		palette := r.Palette
		if r.Err != nil || palette == nil {
			palette = colour.NewPalette(nil)
		}
		entries[i] = batchEntryJSON{Path: r.Path, PaletteJSON: palette.JSON()}
		if r.Err != nil {
			entries[i].Error = r.Err.Error()
		}
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to convert to JSON: %w", err)
	}
	return string(data) + "\n", nil
}
