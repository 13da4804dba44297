package parser

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"sort"
	"strings"

	"github.com/dgallion1/docrank/internal/document"
	pdflib "github.com/ledongthuc/pdf"
)

// PDFParser handles PDF files. It reads positioned text fragments with
// font metadata where the library exposes them, falls back to plain
// text extraction per page, and finally to pdftotext if available.
type PDFParser struct {
	FallbackPdftotext bool
}

func (p *PDFParser) Parse(r io.Reader, filename string) (*Extraction, error) {
	// ledongthuc/pdf requires a ReadSeeker+size, so we write to a temp file.
	tmp, err := os.CreateTemp("", "docrank-pdf-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	tmp.Close()

	runs, pageCount, err := extractPDFRuns(tmpPath)
	if err != nil && p.FallbackPdftotext {
		runs, pageCount, err = extractPdftotext(tmpPath)
	}
	if err != nil {
		return nil, fmt.Errorf("extract pdf text: %w", err)
	}
	if len(runs) == 0 {
		return nil, ErrNoText
	}

	ex := &Extraction{
		Title:   baseTitle(filename),
		Runs:    runs,
		Quality: measureQuality(runs, pageCount),
	}
	if ex.Quality.PrintableRatio < 0.5 {
		// Mostly garbage glyphs, likely a scanned or broken encoding PDF.
		return nil, fmt.Errorf("%w: printable ratio %.2f", ErrNoText, ex.Quality.PrintableRatio)
	}
	return ex, nil
}

func extractPDFRuns(path string) ([]document.TextRun, int, error) {
	f, reader, err := pdflib.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()

	var runs []document.TextRun
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageRuns := assembleLines(page.Content().Text, i)
		if len(pageRuns) == 0 {
			// Content stream decoding came up empty; plain text still works
			// on some producers. These runs carry no font metadata.
			text, err := page.GetPlainText(nil)
			if err != nil {
				continue
			}
			pageRuns = runsFromLines(text, i)
		}
		runs = append(runs, pageRuns...)
	}
	return runs, numPages, nil
}

// assembleLines groups positioned text fragments into line-level runs.
// Fragments on the same baseline (within half the font size) belong to
// one line; lines are emitted top to bottom, left to right.
func assembleLines(frags []pdflib.Text, page int) []document.TextRun {
	if len(frags) == 0 {
		return nil
	}
	sorted := make([]pdflib.Text, len(frags))
	copy(sorted, frags)
	// PDF origin is bottom-left: larger Y is higher on the page.
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Y != sorted[j].Y {
			return sorted[i].Y > sorted[j].Y
		}
		return sorted[i].X < sorted[j].X
	})

	var runs []document.TextRun
	var buf strings.Builder
	var cur document.TextRun
	lineIdx := 0
	open := false

	flush := func() {
		if !open {
			return
		}
		cur.Text = strings.TrimSpace(buf.String())
		buf.Reset()
		open = false
		if cur.Text == "" {
			return
		}
		runs = append(runs, cur)
	}

	for _, fr := range sorted {
		tol := fr.FontSize * 0.5
		if tol < 2 {
			tol = 2
		}
		if !open || cur.Y-fr.Y > tol {
			flush()
			if len(runs) > 0 {
				lineIdx++
				// Vertical whitespace beyond one line height shows up as a
				// line index gap, which segmentation reads as a layout gap.
				if prev := runs[len(runs)-1]; prev.Page == page && prev.FontSize > 0 &&
					prev.Y-fr.Y > prev.FontSize*2.2 {
					lineIdx++
				}
			}
			cur = document.TextRun{
				Page:        page,
				X:           fr.X,
				Y:           fr.Y,
				FontSize:    fr.FontSize,
				Bold:        isBoldFont(fr.Font),
				Italic:      isItalicFont(fr.Font),
				Line:        lineIdx,
				HasFontInfo: true,
			}
			open = true
		}
		if fr.FontSize > cur.FontSize {
			cur.FontSize = fr.FontSize
			cur.Bold = isBoldFont(fr.Font)
			cur.Italic = isItalicFont(fr.Font)
		}
		if buf.Len() > 0 && fr.X > cur.X+cur.Width+1.0 && !strings.HasPrefix(fr.S, " ") &&
			!strings.HasSuffix(buf.String(), " ") {
			buf.WriteByte(' ')
		}
		buf.WriteString(fr.S)
		if end := fr.X + fr.W - cur.X; end > cur.Width {
			cur.Width = end
		}
	}
	flush()
	return runs
}

func isBoldFont(name string) bool {
	lower := strings.ToLower(name)
	return strings.Contains(lower, "bold") || strings.Contains(lower, "black") ||
		strings.Contains(lower, "heavy")
}

func isItalicFont(name string) bool {
	lower := strings.ToLower(name)
	return strings.Contains(lower, "italic") || strings.Contains(lower, "oblique")
}

func extractPdftotext(path string) ([]document.TextRun, int, error) {
	cmd := exec.Command("pdftotext", "-layout", path, "-")
	out, err := cmd.Output()
	if err != nil {
		return nil, 0, fmt.Errorf("pdftotext: %w", err)
	}
	pages := strings.Split(string(out), "\f")
	var runs []document.TextRun
	for i, page := range pages {
		runs = append(runs, runsFromLines(page, i+1)...)
	}
	return runs, len(pages), nil
}
