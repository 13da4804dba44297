package segment

import (
	"reflect"
	"strings"
	"testing"

	"github.com/dgallion1/docrank/internal/document"
)

func fontRun(text string, page, line int, size float64) document.TextRun {
	return document.TextRun{Text: text, Page: page, Line: line, FontSize: size, HasFontInfo: true}
}

func plainRun(text string, page, line int) document.TextRun {
	return document.TextRun{Text: text, Page: page, Line: line}
}

const bodyLine = "alpha beta gamma delta epsilon zeta eta theta iota kappa"

func TestSegment_FontSizeBoundaries(t *testing.T) {
	runs := []document.TextRun{
		fontRun("Introduction", 1, 0, 16),
		fontRun(bodyLine, 1, 1, 10),
		fontRun(bodyLine, 1, 2, 10),
		fontRun("Revenue Analysis", 1, 3, 16),
		fontRun(bodyLine, 1, 4, 10),
		fontRun(bodyLine, 1, 5, 10),
	}

	got := Segment("report.pdf", runs, DefaultConfig())
	if len(got) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(got))
	}
	if got[0].HeadingRun == nil || got[0].HeadingRun.Text != "Introduction" {
		t.Errorf("expected first heading 'Introduction', got %+v", got[0].HeadingRun)
	}
	if got[1].HeadingRun == nil || got[1].HeadingRun.Text != "Revenue Analysis" {
		t.Errorf("expected second heading 'Revenue Analysis', got %+v", got[1].HeadingRun)
	}
	if got[0].RunEnd != got[1].RunStart {
		t.Errorf("expected contiguous candidates, got end=%d start=%d", got[0].RunEnd, got[1].RunStart)
	}
	if got[0].RunStart != 0 || got[1].RunEnd != len(runs) {
		t.Errorf("expected full coverage, got [%d,%d) [%d,%d)",
			got[0].RunStart, got[0].RunEnd, got[1].RunStart, got[1].RunEnd)
	}
}

func TestSegment_NumberedHeadingsWithoutFontInfo(t *testing.T) {
	runs := []document.TextRun{
		plainRun("1. Overview", 1, 0),
		plainRun(bodyLine, 1, 1),
		plainRun(bodyLine, 1, 2),
		plainRun("2. Detailed Findings", 1, 3),
		plainRun(bodyLine, 1, 4),
		plainRun(bodyLine, 1, 5),
	}

	got := Segment("notes.txt", runs, DefaultConfig())
	if len(got) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(got))
	}
	for i, c := range got {
		if c.HeadingRun == nil {
			t.Errorf("candidate %d: expected a heading run", i)
		}
	}
	if got[1].HeadingRun.Text != "2. Detailed Findings" {
		t.Errorf("expected second heading '2. Detailed Findings', got %q", got[1].HeadingRun.Text)
	}
}

func TestSegment_GapTitleCaseBoundary(t *testing.T) {
	runs := []document.TextRun{
		plainRun("the first paragraph talks about many ordinary things at length here", 1, 0),
		plainRun(bodyLine, 1, 1),
		// Blank line in the source advances the line counter by 2.
		plainRun("Key Findings And Results", 1, 3),
		plainRun(bodyLine, 1, 4),
		plainRun(bodyLine, 1, 5),
	}

	got := Segment("memo.txt", runs, DefaultConfig())
	if len(got) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(got))
	}
	if got[1].HeadingRun == nil || got[1].HeadingRun.Text != "Key Findings And Results" {
		t.Errorf("expected gap boundary at title-case line, got %+v", got[1].HeadingRun)
	}
}

func TestSegment_WholeDocumentFallback(t *testing.T) {
	// Fifty words of plain prose with no heading signals collapses to a
	// single section spanning the entire document.
	var runs []document.TextRun
	for i := 0; i < 5; i++ {
		runs = append(runs, plainRun("plain prose continues here without any heading signals at all.", 1, i))
	}

	got := Segment("plain.txt", runs, DefaultConfig())
	if len(got) != 1 {
		t.Fatalf("expected 1 fallback candidate, got %d", len(got))
	}
	c := got[0]
	if c.HeadingRun != nil {
		t.Errorf("fallback candidate must not carry a heading run")
	}
	if c.RunStart != 0 || c.RunEnd != len(runs) {
		t.Errorf("expected whole-document range, got [%d,%d)", c.RunStart, c.RunEnd)
	}
	if c.WordCount != 50 {
		t.Errorf("expected 50 words, got %d", c.WordCount)
	}
}

func TestSegment_DiscardsShortCandidates(t *testing.T) {
	runs := []document.TextRun{
		fontRun("Stub Heading", 1, 0, 16),
		fontRun("too short", 1, 1, 10),
		fontRun("Real Heading", 1, 2, 16),
		fontRun(bodyLine, 1, 3, 10),
		fontRun(bodyLine, 1, 4, 10),
	}

	got := Segment("doc.pdf", runs, DefaultConfig())
	if len(got) != 1 {
		t.Fatalf("expected 1 surviving candidate, got %d", len(got))
	}
	if got[0].HeadingRun.Text != "Real Heading" {
		t.Errorf("expected 'Real Heading' to survive, got %q", got[0].HeadingRun.Text)
	}
}

func TestSegment_NoOverlapAndStable(t *testing.T) {
	var runs []document.TextRun
	runs = append(runs, fontRun("1. First Part", 1, 0, 14))
	for i := 1; i <= 3; i++ {
		runs = append(runs, fontRun(bodyLine, 1, i, 10))
	}
	runs = append(runs, fontRun("SECOND PART", 2, 0, 14))
	for i := 1; i <= 3; i++ {
		runs = append(runs, fontRun(bodyLine, 2, i, 10))
	}
	runs = append(runs, fontRun("2.1 Sub Part", 2, 4, 12))
	for i := 5; i <= 7; i++ {
		runs = append(runs, fontRun(bodyLine, 2, i, 10))
	}

	a := Segment("multi.pdf", runs, DefaultConfig())
	if len(a) < 2 {
		t.Fatalf("expected multiple candidates, got %d", len(a))
	}
	for i := 1; i < len(a); i++ {
		if a[i].RunStart < a[i-1].RunEnd {
			t.Errorf("candidates %d and %d overlap: [%d,%d) [%d,%d)",
				i-1, i, a[i-1].RunStart, a[i-1].RunEnd, a[i].RunStart, a[i].RunEnd)
		}
	}

	b := Segment("multi.pdf", runs, DefaultConfig())
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("segmentation not stable across runs")
	}
}

func TestSegment_Empty(t *testing.T) {
	if got := Segment("empty.txt", nil, DefaultConfig()); got != nil {
		t.Errorf("expected nil for empty input, got %v", got)
	}
}

func TestPageBodySizes_WordWeightedMode(t *testing.T) {
	runs := []document.TextRun{
		fontRun("Big Heading", 1, 0, 16),
		fontRun(bodyLine, 1, 1, 10),
		fontRun(bodyLine, 1, 2, 10),
	}
	modes := PageBodySizes(runs)
	if modes[1] != 10 {
		t.Errorf("expected body mode 10, got %f", modes[1])
	}
}

func TestPageBodySizes_TieFavorsSmallerSize(t *testing.T) {
	runs := []document.TextRun{
		fontRun("one two three four five", 1, 0, 12),
		fontRun("one two three four five", 1, 1, 10),
	}
	modes := PageBodySizes(runs)
	if modes[1] != 10 {
		t.Errorf("expected tie to resolve to smaller size, got %f", modes[1])
	}
}

func TestPageBodySizes_SkipsRunsWithoutFontInfo(t *testing.T) {
	runs := []document.TextRun{plainRun(bodyLine, 1, 0)}
	if modes := PageBodySizes(runs); len(modes) != 0 {
		t.Errorf("expected no modes without font metadata, got %v", modes)
	}
}

func TestOutlineLevel_ExplicitMarkup(t *testing.T) {
	cases := []struct {
		level int
		want  string
	}{{1, "H1"}, {2, "H2"}, {3, "H3"}, {4, "H3"}}
	for _, c := range cases {
		run := &document.TextRun{Text: "Heading", HeadingLevel: c.level}
		if got := OutlineLevel(run, 10); got != c.want {
			t.Errorf("level %d: expected %s, got %s", c.level, c.want, got)
		}
	}
}

func TestOutlineLevel_FontRatio(t *testing.T) {
	cases := []struct {
		size float64
		want string
	}{{15, "H1"}, {12.5, "H2"}, {10.5, "H3"}}
	for _, c := range cases {
		run := &document.TextRun{Text: "Heading", FontSize: c.size, HasFontInfo: true}
		if got := OutlineLevel(run, 10); got != c.want {
			t.Errorf("size %.1f: expected %s, got %s", c.size, c.want, got)
		}
	}
}

func TestOutlineLevel_NumberingDepth(t *testing.T) {
	cases := []struct {
		text string
		want string
	}{
		{"2. Title", "H1"},
		{"2.3 Subsection Title", "H2"},
		{"2.3.1 Deep Subsection", "H3"},
	}
	for _, c := range cases {
		run := &document.TextRun{Text: c.text}
		if got := OutlineLevel(run, 0); got != c.want {
			t.Errorf("%q: expected %s, got %s", c.text, c.want, got)
		}
	}
	if got := OutlineLevel(nil, 0); got != "H1" {
		t.Errorf("expected H1 for nil run, got %s", got)
	}
	if got := OutlineLevel(&document.TextRun{Text: "Plain Heading"}, 0); got != "H2" {
		t.Errorf("expected default H2, got %s", got)
	}
}

func TestSegment_TextJoinsRuns(t *testing.T) {
	runs := []document.TextRun{
		plainRun("1. Heading", 1, 0),
		plainRun(bodyLine, 1, 1),
		plainRun(bodyLine, 1, 2),
	}
	got := Segment("d.txt", runs, DefaultConfig())
	if len(got) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(got))
	}
	if !strings.HasPrefix(got[0].Text, "1. Heading\n") {
		t.Errorf("expected newline-joined text, got %q", got[0].Text)
	}
}
