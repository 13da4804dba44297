package parser

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestCSVParser_RowsKeyedByHeader(t *testing.T) {
	input := "name,amount\nwidgets,120\ngadgets,75\n"
	p := &CSVParser{}
	ex, err := p.Parse(strings.NewReader(input), "sales.csv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if ex.Title != "sales" {
		t.Errorf("expected title %q, got %q", "sales", ex.Title)
	}
	// One batch heading plus two data rows.
	if len(ex.Runs) != 3 {
		t.Fatalf("expected 3 runs, got %d", len(ex.Runs))
	}
	if ex.Runs[0].HeadingLevel != 2 || !strings.HasPrefix(ex.Runs[0].Text, "Rows ") {
		t.Errorf("expected a batch heading run, got %+v", ex.Runs[0])
	}
	if ex.Runs[1].Text != "name: widgets, amount: 120" {
		t.Errorf("expected header-keyed row text, got %q", ex.Runs[1].Text)
	}
}

func TestCSVParser_BatchesLargeFiles(t *testing.T) {
	var b strings.Builder
	b.WriteString("id,value\n")
	for i := 0; i < 45; i++ {
		fmt.Fprintf(&b, "%d,v%d\n", i, i)
	}
	p := &CSVParser{}
	ex, err := p.Parse(strings.NewReader(b.String()), "big.csv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	headings := 0
	for _, r := range ex.Runs {
		if r.HeadingLevel == 2 {
			headings++
		}
	}
	// 45 rows in batches of 20 -> 3 batch headings.
	if headings != 3 {
		t.Errorf("expected 3 batch headings, got %d", headings)
	}
}

func TestCSVParser_HeaderOnly(t *testing.T) {
	p := &CSVParser{}
	if _, err := p.Parse(strings.NewReader("name,amount\n"), "empty.csv"); !errors.Is(err, ErrNoText) {
		t.Fatalf("expected ErrNoText for header-only file, got %v", err)
	}
}
