package cli

import (
	"strings"
	"testing"
)

func TestNewTable(t *testing.T) {
	table := NewTable([]string{"IMAGE", "COLOURS"})

	if table == nil {
		t.Fatal("NewTable returned nil")
	}
	if len(table.headers) != 2 {
		t.Errorf("Expected 2 headers, got %d", len(table.headers))
	}
	if table.padding != 2 {
		t.Errorf("Expected padding of 2, got %d", table.padding)
	}
}

func TestTableAddRow(t *testing.T) {
	table := NewTable([]string{"Name", "Age"})

	table.AddRow([]string{"Alice", "30"})
	table.AddRow([]string{"Bob"})
	table.AddRow([]string{"Charlie", "25", "Extra"})

	if len(table.rows) != 3 {
		t.Fatalf("Expected 3 rows, got %d", len(table.rows))
	}
	if len(table.rows[1]) != 2 || table.rows[1][1] != "" {
		t.Errorf("Expected short row padded with empty cell, got %q", table.rows[1])
	}
	if len(table.rows[2]) != 2 {
		t.Errorf("Expected long row truncated to 2 columns, got %d", len(table.rows[2]))
	}
}

func TestTableRender(t *testing.T) {
	table := NewTable([]string{"IMAGE", "COLOURS"})
	table.AddRow([]string{"a.png", "#ff0000 #00ff00"})
	table.AddRow([]string{"longer-name.png", ""})

	got := table.Render()
	want := "IMAGE            COLOURS\n" +
		"---------------  ---------------\n" +
		"a.png            #ff0000 #00ff00\n" +
		"longer-name.png  \n"

	if got != want {
		t.Errorf("Render() mismatch\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestTableRenderNoHeaders(t *testing.T) {
	if got := NewTable(nil).Render(); got != "" {
		t.Errorf("Expected empty render, got %q", got)
	}
}

func TestPadRight(t *testing.T) {
	tests := []struct {
		input string
		width int
		want  string
	}{
		{"abc", 5, "abc  "},
		{"abc", 3, "abc"},
		{"abcdef", 3, "abcdef"},
		{"", 2, "  "},
	}

	for _, tt := range tests {
		if got := padRight(tt.input, tt.width); got != tt.want {
			t.Errorf("padRight(%q, %d) = %q, want %q", tt.input, tt.width, got, tt.want)
		}
	}
}

func TestTableRenderLinesHaveNoTrailingSpaceExceptEmptyCell(t *testing.T) {
	table := NewTable([]string{"A", "B"})
	table.AddRow([]string{"x", "y"})
	for _, line := range strings.Split(strings.TrimSuffix(table.Render(), "\n"), "\n") {
		if strings.HasSuffix(line, " ") {
			t.Errorf("Unexpected trailing space in %q", line)
		}
	}
}
