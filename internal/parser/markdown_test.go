package parser

import (
	"errors"
	"strings"
	"testing"
)

func TestMarkdownParser_HeadingsAndBody(t *testing.T) {
	input := "# Quarterly Report\n\nRevenue details appear in this paragraph.\n\n## Revenue\n\n- subscriptions up\n- services flat\n"
	p := &MarkdownParser{}
	ex, err := p.Parse(strings.NewReader(input), "report.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if ex.Title != "Quarterly Report" {
		t.Errorf("expected title from the H1, got %q", ex.Title)
	}
	if len(ex.Runs) < 5 {
		t.Fatalf("expected at least 5 runs, got %d", len(ex.Runs))
	}
	if ex.Runs[0].Text != "Quarterly Report" || ex.Runs[0].HeadingLevel != 1 {
		t.Errorf("expected H1 first run, got %+v", ex.Runs[0])
	}

	revenue := -1
	for i := range ex.Runs {
		if ex.Runs[i].Text == "Revenue" {
			revenue = i
			break
		}
	}
	if revenue < 0 {
		t.Fatalf("expected a 'Revenue' heading run")
	}
	if ex.Runs[revenue].HeadingLevel != 2 {
		t.Errorf("expected heading level 2, got %d", ex.Runs[revenue].HeadingLevel)
	}

	foundItem := false
	for _, r := range ex.Runs {
		if r.Text == "- subscriptions up" && r.HeadingLevel == 0 {
			foundItem = true
		}
	}
	if !foundItem {
		t.Errorf("expected list items as dash-prefixed body runs")
	}
}

func TestMarkdownParser_DeepHeadingsCapped(t *testing.T) {
	p := &MarkdownParser{}
	ex, err := p.Parse(strings.NewReader("#### Deep Heading\n\nbody text\n"), "deep.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ex.Runs[0].HeadingLevel != 3 {
		t.Errorf("expected deep headings capped at level 3, got %d", ex.Runs[0].HeadingLevel)
	}
	// Only a leading H1 may override the filename title.
	if ex.Title != "deep" {
		t.Errorf("expected filename title, got %q", ex.Title)
	}
}

func TestMarkdownParser_EmptyInput(t *testing.T) {
	p := &MarkdownParser{}
	if _, err := p.Parse(strings.NewReader(""), "empty.md"); !errors.Is(err, ErrNoText) {
		t.Fatalf("expected ErrNoText, got %v", err)
	}
}
