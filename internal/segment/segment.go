// Package segment groups a document's TextRun sequence into section
// candidates. Boundaries come from three heading signals: numbered
// heading patterns, font size above the page's body-text mode, and
// layout gaps followed by short title-case or all-caps lines.
// Segmentation depends only on the input run sequence and is
// order-stable: the same input produces the same candidates every run.
package segment

import (
	"math"
	"regexp"
	"strings"

	"github.com/dgallion1/docrank/internal/document"
	"github.com/dgallion1/docrank/internal/textutil"
)

// Config controls segmentation behavior.
type Config struct {
	MinSectionWords    int     // Candidates below this word count are discarded as noise.
	MaxSectionsPerPage int     // Cap on candidates starting on one page.
	MaxHeadingWords    int     // A boundary line must be at most this many words.
	FontSizeDelta      float64 // Points above the body mode that count as a heading size.
	TitleCaseMin       float64 // Minimum title-case word ratio for gap-triggered boundaries.
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		MinSectionWords:    15,
		MaxSectionsPerPage: 15,
		MaxHeadingWords:    12,
		FontSizeDelta:      0.45,
		TitleCaseMin:       0.6,
	}
}

var numberedHeadingRe = regexp.MustCompile(`^(?:\d+(?:\.\d+)*[.):]?|[A-Z][.)]|[IVXLC]+\.)\s+\p{Lu}`)

// Segment produces the ordered candidate sequence for one document.
func Segment(doc string, runs []document.TextRun, cfg Config) []document.SectionCandidate {
	if cfg.MinSectionWords <= 0 {
		cfg.MinSectionWords = 15
	}
	if cfg.MaxHeadingWords <= 0 {
		cfg.MaxHeadingWords = 12
	}
	if len(runs) == 0 {
		return nil
	}

	bodySizes := PageBodySizes(runs)

	var out []document.SectionCandidate
	start := 0
	hasHeading := headingSignal(runs[0], bodySizes, cfg)

	flush := func(end int) {
		if end <= start {
			return
		}
		c := build(doc, runs, start, end, hasHeading)
		if c.WordCount >= cfg.MinSectionWords {
			out = append(out, c)
		}
		// Otherwise the range is discarded as noise; coverage invariant
		// still holds since ranges never overlap.
	}

	for i := 1; i < len(runs); i++ {
		if !isBoundary(runs, i, bodySizes, cfg) {
			continue
		}
		// Consecutive triggers with no body text collapse into the later
		// heading: a heading-only open candidate never survives the
		// minimum word count anyway, so closing it discards it.
		flush(i)
		start = i
		hasHeading = true
	}
	flush(len(runs))

	if len(out) == 0 {
		// Whole-document fallback: no detected sections, keep everything.
		c := build(doc, runs, 0, len(runs), false)
		if c.WordCount > 0 {
			out = append(out, c)
		}
		return out
	}

	return capPerPage(out, cfg.MaxSectionsPerPage)
}

func isBoundary(runs []document.TextRun, i int, bodySizes map[int]float64, cfg Config) bool {
	run := runs[i]
	if headingSignal(run, bodySizes, cfg) {
		return true
	}

	// Layout gap + short line + title-case or all-caps text.
	words := document.Words(run.Text)
	if words == 0 || words > cfg.MaxHeadingWords {
		return false
	}
	prev := runs[i-1]
	gap := run.Page != prev.Page || run.Line-prev.Line > 1
	if gap && !endsSentence(run.Text) {
		if textutil.IsAllCaps(run.Text) || textutil.TitleCaseRatio(run.Text) >= cfg.TitleCaseMin {
			return true
		}
	}
	return false
}

// headingSignal reports the position-independent heading signals:
// explicit markup, numbered-heading pattern, or oversized font.
func headingSignal(run document.TextRun, bodySizes map[int]float64, cfg Config) bool {
	words := document.Words(run.Text)
	if words == 0 {
		return false
	}

	// Explicit heading markup from structured formats.
	if run.HeadingLevel > 0 {
		return true
	}

	if words > cfg.MaxHeadingWords {
		return false
	}

	// Numbered-heading pattern: enumeration followed by capitalized text.
	if numberedHeadingRe.MatchString(run.Text) {
		return true
	}

	// Font size strictly above the page's body-text mode. Bold runs at
	// body size also qualify when they do not read like a sentence.
	if run.HasFontInfo {
		if body, ok := bodySizes[run.Page]; ok {
			if run.FontSize > body+cfg.FontSizeDelta {
				return true
			}
			if run.Bold && run.FontSize >= body && !endsSentence(run.Text) {
				return true
			}
		}
	}
	return false
}

func endsSentence(s string) bool {
	s = strings.TrimRight(s, " ")
	return strings.HasSuffix(s, ".") || strings.HasSuffix(s, ",") ||
		strings.HasSuffix(s, ";") || strings.HasSuffix(s, ":")
}

func build(doc string, runs []document.TextRun, start, end int, hasHeading bool) document.SectionCandidate {
	sub := runs[start:end]
	var text strings.Builder
	for i, r := range sub {
		if i > 0 {
			text.WriteByte('\n')
		}
		text.WriteString(r.Text)
	}
	c := document.SectionCandidate{
		Document:  doc,
		Runs:      sub,
		RunStart:  start,
		RunEnd:    end,
		StartPage: sub[0].Page,
		EndPage:   sub[len(sub)-1].Page,
		Text:      text.String(),
	}
	c.WordCount = document.Words(c.Text)
	if hasHeading {
		c.HeadingRun = &sub[0]
	}
	return c
}

func capPerPage(cands []document.SectionCandidate, max int) []document.SectionCandidate {
	if max <= 0 {
		return cands
	}
	perPage := make(map[int]int)
	out := cands[:0]
	for _, c := range cands {
		if perPage[c.StartPage] >= max {
			continue
		}
		perPage[c.StartPage]++
		out = append(out, c)
	}
	return out
}

// PageBodySizes computes the body-text font size mode for each page:
// the most frequent size (rounded to half points), weighted by word
// count so long paragraphs dominate headings. Pages without font
// metadata are absent from the map.
func PageBodySizes(runs []document.TextRun) map[int]float64 {
	type key struct {
		page int
		size float64
	}
	counts := make(map[key]int)
	for _, r := range runs {
		if !r.HasFontInfo || r.FontSize <= 0 {
			continue
		}
		k := key{r.Page, math.Round(r.FontSize*2) / 2}
		counts[k] += document.Words(r.Text)
	}

	modes := make(map[int]float64)
	best := make(map[int]int)
	for k, n := range counts {
		if n > best[k.page] || (n == best[k.page] && k.size < modes[k.page]) {
			best[k.page] = n
			modes[k.page] = k.size
		}
	}
	return modes
}

// OutlineLevel assigns H1/H2/H3 to a heading run. Explicit markup wins;
// otherwise font size relative to the page body mode decides, and with
// no font metadata the numbering depth does.
func OutlineLevel(run *document.TextRun, bodySize float64) string {
	if run == nil {
		return "H1"
	}
	if run.HeadingLevel > 0 {
		switch run.HeadingLevel {
		case 1:
			return "H1"
		case 2:
			return "H2"
		default:
			return "H3"
		}
	}
	if run.HasFontInfo && bodySize > 0 {
		ratio := run.FontSize / bodySize
		switch {
		case ratio >= 1.5:
			return "H1"
		case ratio >= 1.2:
			return "H2"
		default:
			return "H3"
		}
	}
	if m := numberedHeadingRe.FindString(run.Text); m != "" {
		num := strings.TrimRight(strings.Fields(m)[0], ".):")
		switch strings.Count(num, ".") {
		case 0:
			return "H1"
		case 1:
			return "H2"
		default:
			return "H3"
		}
	}
	return "H2"
}
