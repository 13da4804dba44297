package parser

import (
	"errors"
	"strings"
	"testing"
)

func TestTextParser_LineRuns(t *testing.T) {
	input := "Alpha one.\nAlpha two.\n\nBeta."
	p := &TextParser{}
	ex, err := p.Parse(strings.NewReader(input), "notes.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if ex.Title != "notes" {
		t.Errorf("expected title %q, got %q", "notes", ex.Title)
	}
	if len(ex.Runs) != 3 {
		t.Fatalf("expected 3 runs, got %d", len(ex.Runs))
	}

	want := []string{"Alpha one.", "Alpha two.", "Beta."}
	for i, w := range want {
		if ex.Runs[i].Text != w {
			t.Errorf("run[%d]: expected %q, got %q", i, w, ex.Runs[i].Text)
		}
	}
	// The blank line advances the line counter so segmentation can see
	// the layout gap.
	if ex.Runs[2].Line-ex.Runs[1].Line != 2 {
		t.Errorf("expected line gap of 2 across the blank line, got %d",
			ex.Runs[2].Line-ex.Runs[1].Line)
	}
	if ex.Quality.HasFontInfo {
		t.Errorf("plain text must not report font metadata")
	}
}

func TestTextParser_EmptyInput(t *testing.T) {
	p := &TextParser{}
	if _, err := p.Parse(strings.NewReader(""), "empty.txt"); !errors.Is(err, ErrNoText) {
		t.Fatalf("expected ErrNoText, got %v", err)
	}
}

func TestTextParser_WhitespaceOnlyLines(t *testing.T) {
	p := &TextParser{}
	ex, err := p.Parse(strings.NewReader("Para one.\n   \nPara two."), "ws.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ex.Runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(ex.Runs))
	}
}

func TestForFile_Dispatch(t *testing.T) {
	cases := []struct {
		name string
		ok   bool
	}{
		{"a.txt", true},
		{"a.md", true},
		{"a.csv", true},
		{"a.html", true},
		{"a.pdf", true},
		{"a.docx", true},
		{"a.PDF", true},
		{"a.exe", false},
		{"noext", false},
	}
	for _, c := range cases {
		_, err := ForFile(c.name)
		if c.ok && err != nil {
			t.Errorf("%s: expected a parser, got %v", c.name, err)
		}
		if !c.ok && !errors.Is(err, ErrUnsupportedFormat) {
			t.Errorf("%s: expected ErrUnsupportedFormat, got %v", c.name, err)
		}
	}
}

func TestIsSupportedExtension(t *testing.T) {
	if !IsSupportedExtension("report.pdf") {
		t.Errorf("expected .pdf supported")
	}
	if IsSupportedExtension("archive.zip") {
		t.Errorf("expected .zip unsupported")
	}
}
