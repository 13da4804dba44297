// Package score computes persona and job conditioned relevance for
// section candidates and assigns the collection-wide importance
// ranking. Given fixed inputs the scores and ranks are bit-identical
// across runs: every data structure is iterated in a defined order.
package score

import (
	"math"
	"sort"
	"strings"

	"github.com/dgallion1/docrank/internal/document"
	"github.com/dgallion1/docrank/internal/lexicon"
	"github.com/dgallion1/docrank/internal/textutil"
)

// Weights holds the scoring coefficients. Kept as an explicit versioned
// structure so each knob can be tested and tuned in isolation.
type Weights struct {
	PenaltyFactor      float64 // Multiplicative damp for boilerplate matches (must be <= 1).
	InstructionalBonus float64 // Additive bonus for how-to / step-list / comparison cues.
	KeyphraseCount     int     // Representative phrases extracted per section.
	NgramMin           int
	NgramMax           int

	// Length normalization, carried over from the reference heuristics:
	// substantial sections get a mild boost, fragments a mild damp.
	LongSectionWords  int
	LongSectionBoost  float64
	ShortSectionWords int
	ShortSectionDamp  float64
}

// DefaultWeights returns the defaults used in production runs.
func DefaultWeights() Weights {
	return Weights{
		PenaltyFactor:      0.3,
		InstructionalBonus: 12,
		KeyphraseCount:     8,
		NgramMin:           1,
		NgramMax:           3,
		LongSectionWords:   50,
		LongSectionBoost:   1.2,
		ShortSectionWords:  20,
		ShortSectionDamp:   0.8,
	}
}

// Scorer scores sections against one persona profile. Read-only after
// construction, safe to share.
type Scorer struct {
	profile   *lexicon.Profile
	stopwords map[string]bool
	weights   Weights
	jobNorm   string // normalized job description, empty when malformed
}

// NewScorer builds a scorer for a persona profile.
func NewScorer(profile *lexicon.Profile, stopwords map[string]bool, w Weights) *Scorer {
	if w.PenaltyFactor <= 0 || w.PenaltyFactor > 1 {
		w.PenaltyFactor = 0.3
	}
	if w.KeyphraseCount <= 0 {
		w.KeyphraseCount = 8
	}
	return &Scorer{
		profile:   profile,
		stopwords: stopwords,
		weights:   w,
		jobNorm:   textutil.CollapseSpaces(strings.ToLower(profile.Job)),
	}
}

// Score computes the relevance score for one section:
//
//	job_score * persona_boost * penalty * length_mult + instructional_bonus
//
// With an empty job description the job factor drops out entirely and
// ranking degrades to the lexicon boost alone, never to a hard failure.
func (s *Scorer) Score(sec *document.Section) float64 {
	text := sec.Text
	lower := strings.ToLower(text)

	boost := s.personaBoost(lower)
	base := boost
	if s.jobNorm != "" {
		base = s.jobScore(text) * boost
	}

	penalty := 1.0
	for _, re := range s.profile.Penalty {
		if re.MatchString(text) {
			penalty = s.weights.PenaltyFactor
			break
		}
	}

	mult := 1.0
	if sec.WordCount > s.weights.LongSectionWords && s.weights.LongSectionBoost > 0 {
		mult = s.weights.LongSectionBoost
	} else if sec.WordCount < s.weights.ShortSectionWords && s.weights.ShortSectionDamp > 0 {
		mult = s.weights.ShortSectionDamp
	}

	bonus := 0.0
	for _, re := range s.profile.Cues {
		if re.MatchString(text) {
			bonus = s.weights.InstructionalBonus
			break
		}
	}

	return base*penalty*mult + bonus
}

// jobScore is the best fuzzy partial match between the job description
// and the section's representative keyphrases, in [0,100]. Sections
// with no extractable keyphrases score zero.
func (s *Scorer) jobScore(text string) float64 {
	phrases := textutil.Keyphrases(text, s.stopwords, s.weights.NgramMin, s.weights.NgramMax, s.weights.KeyphraseCount)
	best := 0.0
	for _, kp := range phrases {
		if m := FuzzyPartial(s.jobNorm, kp.Text); m > best {
			best = m
			if best >= 100 {
				break
			}
		}
	}
	return best
}

// personaBoost is log(1 + weighted lexicon term frequency). Single-word
// lexicon entries match stemmed tokens; multi-word entries match as
// case-insensitive substrings.
func (s *Scorer) personaBoost(lowerText string) float64 {
	freq := textutil.TermFrequencies(lowerText)
	sum := 0.0
	for term, weight := range s.profile.Lexicon {
		if strings.ContainsAny(term, " \t") {
			sum += float64(strings.Count(lowerText, term)) * weight
			continue
		}
		sum += float64(freq[term]) * weight
	}
	return math.Log(1 + sum)
}

// Rank scores every section and assigns importance ranks by strictly
// descending score across the whole collection. Ties break by document
// order, then original section order, so re-running on unchanged inputs
// reproduces identical ranks.
func (s *Scorer) Rank(sections []*document.Section) {
	for _, sec := range sections {
		sec.RelevanceScore = s.Score(sec)
	}
	sort.SliceStable(sections, func(i, j int) bool {
		if sections[i].RelevanceScore != sections[j].RelevanceScore {
			return sections[i].RelevanceScore > sections[j].RelevanceScore
		}
		if sections[i].DocOrder != sections[j].DocOrder {
			return sections[i].DocOrder < sections[j].DocOrder
		}
		return sections[i].SectionOrder < sections[j].SectionOrder
	})
	for i, sec := range sections {
		sec.ImportanceRank = i + 1
	}
}
