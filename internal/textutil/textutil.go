// Package textutil holds the shared text primitives used by
// segmentation, scoring and summarization: tokenization, stemming,
// sentence splitting and keyphrase extraction. Everything here is
// deterministic: same input, same output, no randomness.
package textutil

import (
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/kljensen/snowball/english"
)

var (
	wordRe       = regexp.MustCompile(`[\pL\pN][\pL\pN'-]*`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// CollapseSpaces trims s and collapses any whitespace run to a single space.
func CollapseSpaces(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}

// Tokenize lowercases s and returns its word tokens of at least minLen runes.
func Tokenize(s string, minLen int) []string {
	raw := wordRe.FindAllString(strings.ToLower(s), -1)
	if minLen <= 1 {
		return raw
	}
	out := raw[:0]
	for _, w := range raw {
		if len([]rune(w)) >= minLen {
			out = append(out, w)
		}
	}
	return out
}

// Stem reduces a lowercase token to its stem. Tokens the stemmer cannot
// handle are returned unchanged.
func Stem(word string) string {
	if word == "" {
		return word
	}
	return english.Stem(word, false)
}

// StemAll stems every token, preserving order.
func StemAll(tokens []string) []string {
	out := make([]string, len(tokens))
	for i, t := range tokens {
		out[i] = Stem(t)
	}
	return out
}

// Sentences splits text into trimmed sentences. A sentence ends at
// '.', '!' or '?' followed by whitespace, or at a line break: PDF text
// frequently carries list items and table rows without terminal
// punctuation, and those must stay selectable as summary units.
func Sentences(text string) []string {
	var sentences []string
	var current strings.Builder

	flush := func() {
		s := strings.TrimSpace(current.String())
		if s != "" {
			sentences = append(sentences, s)
		}
		current.Reset()
	}

	runes := []rune(text)
	for i, r := range runes {
		if r == '\n' {
			flush()
			continue
		}
		current.WriteRune(r)
		if r == '.' || r == '!' || r == '?' {
			if i+1 >= len(runes) || unicode.IsSpace(runes[i+1]) {
				flush()
			}
		}
	}
	flush()

	return sentences
}

// Keyphrase is a representative n-gram with its occurrence count.
type Keyphrase struct {
	Text  string // Surface form (lowercase, space joined)
	Count int
	first int // First occurrence index, for deterministic ordering
}

// Keyphrases extracts up to max frequency-ranked n-grams (ngramMin to
// ngramMax tokens) from text, skipping stopword tokens. Ties rank by
// first occurrence, so the result is stable across runs.
func Keyphrases(text string, stopwords map[string]bool, ngramMin, ngramMax, max int) []Keyphrase {
	if ngramMin < 1 {
		ngramMin = 1
	}
	if ngramMax < ngramMin {
		ngramMax = ngramMin
	}

	tokens := Tokenize(text, 3)
	content := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if !stopwords[t] {
			content = append(content, t)
		}
	}

	counts := make(map[string]*Keyphrase)
	pos := 0
	for n := ngramMin; n <= ngramMax; n++ {
		for i := 0; i+n <= len(content); i++ {
			phrase := strings.Join(content[i:i+n], " ")
			if kp, ok := counts[phrase]; ok {
				kp.Count++
			} else {
				counts[phrase] = &Keyphrase{Text: phrase, Count: 1, first: pos}
			}
			pos++
		}
	}

	ranked := make([]Keyphrase, 0, len(counts))
	for _, kp := range counts {
		// Longer phrases repeat less; weight count by length so a
		// twice-seen bigram outranks a twice-seen unigram.
		ranked = append(ranked, *kp)
	}
	sort.Slice(ranked, func(i, j int) bool {
		si := ranked[i].Count * len(strings.Fields(ranked[i].Text))
		sj := ranked[j].Count * len(strings.Fields(ranked[j].Text))
		if si != sj {
			return si > sj
		}
		return ranked[i].first < ranked[j].first
	})

	if max > 0 && len(ranked) > max {
		ranked = ranked[:max]
	}
	return ranked
}

// TermFrequencies counts stemmed token occurrences in text.
func TermFrequencies(text string) map[string]int {
	freq := make(map[string]int)
	for _, t := range Tokenize(text, 2) {
		freq[Stem(t)]++
	}
	return freq
}

// TitleCaseRatio reports the fraction of words starting with an upper
// case letter. All-caps words count as title case.
func TitleCaseRatio(s string) float64 {
	words := strings.Fields(s)
	if len(words) == 0 {
		return 0
	}
	cap := 0
	for _, w := range words {
		r := []rune(w)[0]
		if unicode.IsUpper(r) || unicode.IsDigit(r) {
			cap++
		}
	}
	return float64(cap) / float64(len(words))
}

// IsAllCaps reports whether s contains letters and none of them lowercase.
func IsAllCaps(s string) bool {
	hasLetter := false
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsLetter(r) {
			hasLetter = true
		}
	}
	return hasLetter
}

// Truncate shortens s to at most max runes, appending an ellipsis when
// anything was cut.
func Truncate(s string, max int) string {
	if max <= 3 {
		max = 3
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return strings.TrimSpace(string(runes[:max-3])) + "..."
}
