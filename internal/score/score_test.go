package score

import (
	"testing"

	"github.com/dgallion1/docrank/internal/document"
	"github.com/dgallion1/docrank/internal/lexicon"
)

func loadTables(t *testing.T) *lexicon.Tables {
	t.Helper()
	tables, err := lexicon.Load("")
	if err != nil {
		t.Fatalf("load tables: %v", err)
	}
	return tables
}

func makeSection(doc string, order int, text string) *document.Section {
	c := document.SectionCandidate{Document: doc, Text: text, StartPage: 1, EndPage: 1}
	c.WordCount = document.Words(text)
	return &document.Section{SectionCandidate: c, SectionOrder: order}
}

const revenueText = "Revenue grew twelve percent in the third quarter driven by subscription growth. " +
	"Quarterly earnings and profit margin improved while the fiscal forecast points to continued revenue growth next year."

const neutralText = "Birds fly south wherever winter approaches and trees shed their leaves quietly " +
	"along riverbanks while fog settles across quiet valleys every single morning without fail."

func TestScorer_RevenueOutranksBoilerplate(t *testing.T) {
	tables := loadTables(t)
	profile := tables.ProfileFor("Investment Analyst", "Analyze revenue trends across quarterly reports")
	s := NewScorer(profile, tables.Stopwords, DefaultWeights())

	relevant := makeSection("report.pdf", 0, revenueText)
	boilerplate := makeSection("report.pdf", 1,
		"All rights reserved. Reproduction of this material in whole or in part without written permission is prohibited under the applicable terms and conditions of use.")

	if s.Score(relevant) <= s.Score(boilerplate) {
		t.Fatalf("expected revenue section %.2f to outrank boilerplate %.2f",
			s.Score(relevant), s.Score(boilerplate))
	}
}

func TestScorer_PenaltyDampensScore(t *testing.T) {
	tables := loadTables(t)
	profile := tables.ProfileFor("Financial Analyst", "Analyze revenue trends")
	s := NewScorer(profile, tables.Stopwords, DefaultWeights())

	clean := makeSection("a.pdf", 0, revenueText)
	flagged := makeSection("a.pdf", 1, revenueText+"\nAll rights reserved.")

	cleanScore := s.Score(clean)
	flaggedScore := s.Score(flagged)
	if cleanScore <= 0 {
		t.Fatalf("expected positive score for relevant section, got %f", cleanScore)
	}
	if flaggedScore >= cleanScore {
		t.Errorf("expected penalty to dampen score: clean=%f flagged=%f", cleanScore, flaggedScore)
	}
}

func TestScorer_EmptyJobFallsBackToLexiconBoost(t *testing.T) {
	tables := loadTables(t)
	profile := tables.ProfileFor("Financial Analyst", "")
	s := NewScorer(profile, tables.Stopwords, DefaultWeights())

	relevant := makeSection("a.pdf", 0, revenueText)
	neutral := makeSection("a.pdf", 1, neutralText)

	if got := s.Score(relevant); got <= 0 {
		t.Fatalf("expected positive lexicon-boost score with empty job, got %f", got)
	}
	if s.Score(relevant) <= s.Score(neutral) {
		t.Errorf("expected lexicon terms to dominate ranking with empty job")
	}
}

func TestScorer_InstructionalBonus(t *testing.T) {
	tables := loadTables(t)
	profile := tables.ProfileFor("HR professional", "Create fillable forms for onboarding")
	s := NewScorer(profile, tables.Stopwords, DefaultWeights())

	howTo := makeSection("guide.pdf", 0,
		"How to create fillable forms for employee onboarding across every department in the organization using the built-in editor tools provided.")
	plain := makeSection("guide.pdf", 1,
		"Fillable form features exist for employee onboarding across every department in the organization inside the built-in editor tools provided.")

	if s.Score(howTo) <= s.Score(plain) {
		t.Errorf("expected instructional section to score higher: howto=%f plain=%f",
			s.Score(howTo), s.Score(plain))
	}
}

func TestRank_UniqueRanksAcrossDocuments(t *testing.T) {
	tables := loadTables(t)
	profile := tables.ProfileFor("Financial Analyst", "Analyze revenue trends")
	s := NewScorer(profile, tables.Stopwords, DefaultWeights())

	var sections []*document.Section
	for d := 0; d < 3; d++ {
		docName := []string{"a.pdf", "b.pdf", "c.pdf"}[d]
		for i := 0; i < 2; i++ {
			sec := makeSection(docName, i, revenueText)
			sec.DocOrder = d
			sections = append(sections, sec)
		}
	}
	s.Rank(sections)

	seen := make(map[int]bool)
	for _, sec := range sections {
		if sec.ImportanceRank < 1 || sec.ImportanceRank > len(sections) {
			t.Errorf("rank %d out of range", sec.ImportanceRank)
		}
		if seen[sec.ImportanceRank] {
			t.Errorf("duplicate rank %d", sec.ImportanceRank)
		}
		seen[sec.ImportanceRank] = true
	}
	for i := 1; i < len(sections); i++ {
		if sections[i].RelevanceScore > sections[i-1].RelevanceScore {
			t.Errorf("scores not descending at %d", i)
		}
	}
	// Identical texts score identically; ties must resolve by document
	// order, then section order.
	for i := 1; i < len(sections); i++ {
		prev, cur := sections[i-1], sections[i]
		if prev.RelevanceScore == cur.RelevanceScore {
			if prev.DocOrder > cur.DocOrder ||
				(prev.DocOrder == cur.DocOrder && prev.SectionOrder > cur.SectionOrder) {
				t.Errorf("tie at rank %d broken out of order", cur.ImportanceRank)
			}
		}
	}
}

func TestRank_Deterministic(t *testing.T) {
	tables := loadTables(t)
	profile := tables.ProfileFor("Researcher", "Survey methodology and benchmark results")
	s := NewScorer(profile, tables.Stopwords, DefaultWeights())

	build := func() []*document.Section {
		texts := []string{
			"The methodology chapter explains the experiment design and the benchmark datasets used for every evaluation run reported in the findings below.",
			neutralText,
			revenueText,
		}
		var out []*document.Section
		for i, txt := range texts {
			sec := makeSection("paper.pdf", i, txt)
			sec.DocOrder = 0
			out = append(out, sec)
		}
		return out
	}

	a, b := build(), build()
	s.Rank(a)
	s.Rank(b)
	for i := range a {
		if a[i].SectionOrder != b[i].SectionOrder || a[i].ImportanceRank != b[i].ImportanceRank {
			t.Fatalf("ranking not reproducible at position %d", i)
		}
		if a[i].RelevanceScore != b[i].RelevanceScore {
			t.Fatalf("scores not reproducible at position %d: %f vs %f", i, a[i].RelevanceScore, b[i].RelevanceScore)
		}
	}
}

func TestFuzzyPartial(t *testing.T) {
	if got := FuzzyPartial("revenue", "analyze revenue trends"); got != 100 {
		t.Errorf("expected substring match 100, got %f", got)
	}
	if got := FuzzyPartial("quartely report", "quarterly report"); got < 80 || got >= 100 {
		t.Errorf("expected near-match in [80,100), got %f", got)
	}
	if got := FuzzyPartial("", "anything"); got != 0 {
		t.Errorf("expected 0 for empty input, got %f", got)
	}
	if got := FuzzyPartial("alpha", "zzz"); got > 30 {
		t.Errorf("expected low score for unrelated strings, got %f", got)
	}
}
