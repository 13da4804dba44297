// Package summary produces extractive sub-section summaries for
// top-ranked sections: verbatim sentences only, scored by TF-IDF
// against the offline corpus profile, position, and structure, then
// re-ordered to original document order for readability.
package summary

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/dgallion1/docrank/internal/document"
	"github.com/dgallion1/docrank/internal/lexicon"
	"github.com/dgallion1/docrank/internal/textutil"
)

// Weights holds the sentence-scoring coefficients.
type Weights struct {
	TFIDF            float64
	Position         float64
	PositionDecay    float64 // Exponential decay constant in sentences; leading sentences favored.
	Structural       float64 // Bonus for bullets, numbered items and numeric content.
	MaxSentences     int     // N, bounded selection size.
	MinSentenceWords int     // Sentences below this are skipped when longer ones exist.
}

// DefaultWeights returns the defaults used in production runs.
func DefaultWeights() Weights {
	return Weights{
		TFIDF:            1.0,
		Position:         2.0,
		PositionDecay:    4.0,
		Structural:       1.5,
		MaxSentences:     4,
		MinSentenceWords: 4,
	}
}

var (
	listItemRe = regexp.MustCompile(`^\s*(?:[-*•]|\d+[.)])\s+`)
	numericRe  = regexp.MustCompile(`\d+(?:[.,]\d+)?%?`)
)

// Summarize selects up to w.MaxSentences sentences from the section.
// The chosen sentences are emitted in original order; a section with
// fewer sentences than the bound is taken whole.
func Summarize(sec *document.Section, tables *lexicon.Tables, docType string, w Weights) document.SubSectionSummary {
	if w.MaxSentences < 3 {
		w.MaxSentences = 3
	}
	if w.MaxSentences > 5 {
		w.MaxSentences = 5
	}
	if w.PositionDecay <= 0 {
		w.PositionDecay = 4.0
	}

	sentences := textutil.Sentences(sec.Text)
	out := document.SubSectionSummary{
		Document:   sec.Document,
		PageNumber: sec.StartPage,
	}

	if len(sentences) <= w.MaxSentences {
		out.RefinedText = strings.Join(sentences, " ")
		return out
	}

	dw := tables.WeightsFor(docType)

	type scored struct {
		idx   int
		score float64
		words int
	}
	ranked := make([]scored, len(sentences))
	for i, sent := range sentences {
		ranked[i] = scored{
			idx:   i,
			score: sentenceScore(sent, i, tables, dw, w),
			words: document.Words(sent),
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].idx < ranked[j].idx
	})

	selected := make([]int, 0, w.MaxSentences)
	for _, s := range ranked {
		if len(selected) == w.MaxSentences {
			break
		}
		if s.words < w.MinSentenceWords {
			continue
		}
		selected = append(selected, s.idx)
	}
	// All sentences were below the word floor; take the top ones anyway.
	if len(selected) == 0 {
		for _, s := range ranked[:w.MaxSentences] {
			selected = append(selected, s.idx)
		}
	}
	sort.Ints(selected)

	parts := make([]string, len(selected))
	for i, idx := range selected {
		parts[i] = sentences[idx]
	}
	out.RefinedText = strings.Join(parts, " ")
	if first := selected[0]; first < len(sentences) {
		out.PageNumber = pageOfSentence(sec, first, len(sentences))
	}
	return out
}

// sentenceScore is the weighted feature sum for one sentence, scaled by
// the document-type weight vector.
func sentenceScore(sent string, idx int, tables *lexicon.Tables, dw lexicon.DomainWeights, w Weights) float64 {
	tokens := textutil.Tokenize(sent, 2)
	tfidf := 0.0
	if len(tokens) > 0 {
		for _, t := range tokens {
			tfidf += tables.IDF(textutil.Stem(t))
		}
		tfidf /= float64(len(tokens))
	}

	position := math.Exp(-float64(idx) / w.PositionDecay)

	structural := 0.0
	if listItemRe.MatchString(sent) {
		structural = 1.0
	} else if len(numericRe.FindAllString(sent, 2)) >= 2 {
		structural = 0.6
	}

	return dw.TFIDF*w.TFIDF*tfidf + dw.Position*w.Position*position + dw.Structural*w.Structural*structural
}

// pageOfSentence maps a sentence index back to a page by linear
// interpolation over the section's page span. Sections rarely cross
// more than a page or two, so this stays close enough for citation.
func pageOfSentence(sec *document.Section, idx, total int) int {
	if sec.EndPage <= sec.StartPage || total <= 1 {
		return sec.StartPage
	}
	span := sec.EndPage - sec.StartPage
	return sec.StartPage + (idx*span)/(total-1)
}
