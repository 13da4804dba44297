// Package title assigns a human-readable title to every section
// candidate. Strategies are tried in order until one produces a title;
// the chain always terminates with a page-numbered placeholder, so no
// section is ever untitled.
package title

import (
	"fmt"
	"strings"

	"github.com/dgallion1/docrank/internal/document"
	"github.com/dgallion1/docrank/internal/textutil"
)

// Strategy produces a title for a candidate or reports that it cannot.
type Strategy interface {
	Infer(c *document.SectionCandidate) (string, bool)
}

// Inferencer runs the strategy chain and bounds the display length.
type Inferencer struct {
	strategies []Strategy
	maxLen     int
}

// New builds the default chain: heading run, first sentence, keyphrases.
func New(maxLen int, stopwords map[string]bool) *Inferencer {
	if maxLen <= 0 {
		maxLen = 80
	}
	return &Inferencer{
		maxLen: maxLen,
		strategies: []Strategy{
			headingStrategy{},
			firstSentenceStrategy{},
			keyphraseStrategy{stopwords: stopwords},
		},
	}
}

// Infer returns a non-empty title of at most the configured length.
func (inf *Inferencer) Infer(c *document.SectionCandidate) string {
	for _, s := range inf.strategies {
		if t, ok := s.Infer(c); ok {
			return textutil.Truncate(t, inf.maxLen)
		}
	}
	return textutil.Truncate(fmt.Sprintf("Untitled Section (page %d)", c.StartPage), inf.maxLen)
}

// headingStrategy uses the run that triggered the section boundary.
type headingStrategy struct{}

func (headingStrategy) Infer(c *document.SectionCandidate) (string, bool) {
	if c.HeadingRun == nil {
		return "", false
	}
	t := textutil.CollapseSpaces(c.HeadingRun.Text)
	if t == "" {
		return "", false
	}
	return t, true
}

// firstSentenceStrategy takes the candidate's first sentence when it
// sits in a plausible title range: more than one word, not a paragraph,
// and not dominated by function words.
type firstSentenceStrategy struct{}

var commonWords = map[string]bool{
	"the": true, "a": true, "an": true, "and": true, "or": true, "but": true,
	"in": true, "on": true, "at": true, "to": true, "for": true, "of": true,
	"with": true, "is": true, "are": true, "was": true, "were": true,
}

func (firstSentenceStrategy) Infer(c *document.SectionCandidate) (string, bool) {
	sentences := textutil.Sentences(c.Text)
	if len(sentences) == 0 {
		return "", false
	}
	first := textutil.CollapseSpaces(sentences[0])
	words := strings.Fields(strings.ToLower(first))
	if len(words) < 2 || len(words) > 14 || len(first) > 150 {
		return "", false
	}
	common := 0
	for _, w := range words {
		if commonWords[w] {
			common++
		}
	}
	if common*2 >= len(words) {
		return "", false
	}
	return strings.TrimRight(first, ".!?"), true
}

// keyphraseStrategy joins the top body keyphrases into a synthetic title.
type keyphraseStrategy struct {
	stopwords map[string]bool
}

func (s keyphraseStrategy) Infer(c *document.SectionCandidate) (string, bool) {
	phrases := textutil.Keyphrases(c.Text, s.stopwords, 2, 3, 2)
	if len(phrases) == 0 {
		phrases = textutil.Keyphrases(c.Text, s.stopwords, 1, 1, 3)
	}
	if len(phrases) == 0 {
		return "", false
	}
	parts := make([]string, len(phrases))
	for i, p := range phrases {
		parts[i] = titleCase(p.Text)
	}
	return strings.Join(parts, " - "), true
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r := []rune(w)
		r[0] = []rune(strings.ToUpper(string(r[0])))[0]
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}
