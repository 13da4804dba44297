// Package lexicon loads the static lookup tables the pipeline depends
// on: domain lexicons, penalty and instructional-cue patterns, document
// type cues and the offline TF-IDF corpus profile. Tables are loaded
// once at process start and are immutable afterwards, so they can be
// shared across parallel per-document work without locking.
package lexicon

import (
	_ "embed"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/dgallion1/docrank/internal/textutil"
	"gopkg.in/yaml.v3"
)

//go:embed tables.yaml
var defaultTables []byte

// rawTables mirrors the YAML file layout.
type rawTables struct {
	Version        int                   `yaml:"version"`
	Stopwords      []string              `yaml:"stopwords"`
	GenericLexicon map[string]float64    `yaml:"generic_lexicon"`
	Domains        map[string]rawDomain  `yaml:"domains"`
	PenaltyPats    []string              `yaml:"penalty_patterns"`
	Cues           []string              `yaml:"instructional_cues"`
	DocTypeCues    map[string][]string   `yaml:"doc_type_cues"`
	SummaryWeights map[string]rawWeights `yaml:"summary_domain_weights"`
	Corpus         rawCorpus             `yaml:"corpus"`
}

type rawDomain struct {
	Triggers []string           `yaml:"triggers"`
	Lexicon  map[string]float64 `yaml:"lexicon"`
}

type rawWeights struct {
	TFIDF      float64 `yaml:"tfidf"`
	Position   float64 `yaml:"position"`
	Structural float64 `yaml:"structural"`
}

type rawCorpus struct {
	Documents int                `yaml:"documents"`
	DF        map[string]float64 `yaml:"document_frequency"`
}

// Domain is one domain category with its activation triggers and
// weighted term map (keys stemmed at load time).
type Domain struct {
	Name     string
	Triggers []string
	Lexicon  map[string]float64
}

// DomainWeights scales summary sentence features per document type.
type DomainWeights struct {
	TFIDF      float64
	Position   float64
	Structural float64
}

// Tables is the compiled, immutable table set.
type Tables struct {
	Version        int
	Stopwords      map[string]bool
	GenericLexicon map[string]float64 // stemmed keys
	Domains        []Domain           // sorted by name for determinism
	Penalty        []*regexp.Regexp
	Cues           []*regexp.Regexp
	DocTypeCues    map[string][]string
	SummaryWeights map[string]DomainWeights
	corpusDocs     float64
	corpusDF       map[string]float64 // stemmed keys
}

// Load compiles the embedded default tables, then overlays any *.yaml
// or *.yml files found in dir (lexically ordered). An empty dir loads
// defaults only.
func Load(dir string) (*Tables, error) {
	var raw rawTables
	if err := yaml.Unmarshal(defaultTables, &raw); err != nil {
		return nil, fmt.Errorf("parse embedded tables: %w", err)
	}

	if dir != "" {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, fmt.Errorf("read lexicon dir: %w", err)
		}
		var names []string
		for _, e := range entries {
			ext := filepath.Ext(e.Name())
			if !e.IsDir() && (ext == ".yaml" || ext == ".yml") {
				names = append(names, e.Name())
			}
		}
		sort.Strings(names)
		for _, name := range names {
			data, err := os.ReadFile(filepath.Join(dir, name))
			if err != nil {
				return nil, fmt.Errorf("read %s: %w", name, err)
			}
			var overlay rawTables
			if err := yaml.Unmarshal(data, &overlay); err != nil {
				return nil, fmt.Errorf("parse %s: %w", name, err)
			}
			merge(&raw, &overlay)
		}
	}

	return compile(&raw)
}

// merge overlays non-empty fields of src onto dst. Maps merge per key,
// lists replace wholesale when the overlay provides one.
func merge(dst, src *rawTables) {
	if src.Version != 0 {
		dst.Version = src.Version
	}
	if len(src.Stopwords) > 0 {
		dst.Stopwords = src.Stopwords
	}
	for k, v := range src.GenericLexicon {
		if dst.GenericLexicon == nil {
			dst.GenericLexicon = map[string]float64{}
		}
		dst.GenericLexicon[k] = v
	}
	for name, d := range src.Domains {
		if dst.Domains == nil {
			dst.Domains = map[string]rawDomain{}
		}
		dst.Domains[name] = d
	}
	if len(src.PenaltyPats) > 0 {
		dst.PenaltyPats = src.PenaltyPats
	}
	if len(src.Cues) > 0 {
		dst.Cues = src.Cues
	}
	for k, v := range src.DocTypeCues {
		if dst.DocTypeCues == nil {
			dst.DocTypeCues = map[string][]string{}
		}
		dst.DocTypeCues[k] = v
	}
	for k, v := range src.SummaryWeights {
		if dst.SummaryWeights == nil {
			dst.SummaryWeights = map[string]rawWeights{}
		}
		dst.SummaryWeights[k] = v
	}
	if src.Corpus.Documents > 0 {
		dst.Corpus.Documents = src.Corpus.Documents
	}
	for k, v := range src.Corpus.DF {
		if dst.Corpus.DF == nil {
			dst.Corpus.DF = map[string]float64{}
		}
		dst.Corpus.DF[k] = v
	}
}

func compile(raw *rawTables) (*Tables, error) {
	t := &Tables{
		Version:        raw.Version,
		Stopwords:      make(map[string]bool, len(raw.Stopwords)),
		GenericLexicon: stemKeys(raw.GenericLexicon),
		DocTypeCues:    raw.DocTypeCues,
		SummaryWeights: make(map[string]DomainWeights, len(raw.SummaryWeights)),
		corpusDocs:     float64(raw.Corpus.Documents),
		corpusDF:       stemKeys(raw.Corpus.DF),
	}
	for _, w := range raw.Stopwords {
		t.Stopwords[strings.ToLower(w)] = true
	}

	names := make([]string, 0, len(raw.Domains))
	for name := range raw.Domains {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		d := raw.Domains[name]
		triggers := make([]string, len(d.Triggers))
		for i, tr := range d.Triggers {
			triggers[i] = strings.ToLower(tr)
		}
		t.Domains = append(t.Domains, Domain{
			Name:     name,
			Triggers: triggers,
			Lexicon:  stemKeys(d.Lexicon),
		})
	}

	for i, pat := range raw.PenaltyPats {
		re, err := regexp.Compile(pat)
		if err != nil {
			return nil, fmt.Errorf("penalty pattern %d: %w", i, err)
		}
		t.Penalty = append(t.Penalty, re)
	}
	for i, pat := range raw.Cues {
		re, err := regexp.Compile(pat)
		if err != nil {
			return nil, fmt.Errorf("instructional cue %d: %w", i, err)
		}
		t.Cues = append(t.Cues, re)
	}

	for name, w := range raw.SummaryWeights {
		t.SummaryWeights[name] = DomainWeights{TFIDF: w.TFIDF, Position: w.Position, Structural: w.Structural}
	}
	if _, ok := t.SummaryWeights["generic"]; !ok {
		t.SummaryWeights["generic"] = DomainWeights{TFIDF: 1, Position: 1, Structural: 1}
	}
	if t.corpusDocs <= 0 {
		t.corpusDocs = 1
	}
	return t, nil
}

func stemKeys(m map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(m))
	for k, v := range m {
		key := textutil.Stem(strings.ToLower(k))
		// Multi-word lexicon entries are matched unstemmed.
		if strings.ContainsAny(k, " \t") {
			key = strings.ToLower(k)
		}
		if v > out[key] {
			out[key] = v
		}
	}
	return out
}

// Profile is a persona conditioned view over the tables: the merged
// lexicon for every domain the persona and job text activate, plus the
// shared pattern sets. Read-only during scoring.
type Profile struct {
	Persona string
	Job     string
	Lexicon map[string]float64 // stemmed term -> weight
	Penalty []*regexp.Regexp
	Cues    []*regexp.Regexp
	Domains []string // activated domain names, sorted
}

// ProfileFor builds the profile for a persona and job description. A
// domain activates when any of its triggers occurs in the combined
// persona and job text. When nothing activates, the generic lexicon
// alone applies (the MissingPersonaLexicon fallback).
func (t *Tables) ProfileFor(persona, job string) *Profile {
	combined := strings.ToLower(persona + " " + job)

	p := &Profile{
		Persona: persona,
		Job:     job,
		Lexicon: make(map[string]float64, len(t.GenericLexicon)),
		Penalty: t.Penalty,
		Cues:    t.Cues,
	}
	for k, v := range t.GenericLexicon {
		p.Lexicon[k] = v
	}
	for _, d := range t.Domains {
		for _, trigger := range d.Triggers {
			if strings.Contains(combined, trigger) {
				p.Domains = append(p.Domains, d.Name)
				for k, v := range d.Lexicon {
					if v > p.Lexicon[k] {
						p.Lexicon[k] = v
					}
				}
				break
			}
		}
	}
	return p
}

// IDF returns the inverse document frequency of a stemmed term against
// the offline corpus profile. Unknown terms get the maximum IDF.
func (t *Tables) IDF(stem string) float64 {
	df := t.corpusDF[stem]
	return math.Log((t.corpusDocs+1)/(df+1)) + 1
}

// DocTypeFor picks the summary weight domain for a document from its
// section titles: the first cue list (in sorted domain order) with two
// or more hits wins. A non-empty hint short-circuits detection when it
// names a known weight vector.
func (t *Tables) DocTypeFor(hint string, sectionTitles []string) string {
	if hint != "" {
		if _, ok := t.SummaryWeights[strings.ToLower(hint)]; ok {
			return strings.ToLower(hint)
		}
	}
	joined := strings.ToLower(strings.Join(sectionTitles, "\n"))

	names := make([]string, 0, len(t.DocTypeCues))
	for name := range t.DocTypeCues {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		hits := 0
		for _, cue := range t.DocTypeCues[name] {
			if strings.Contains(joined, strings.ToLower(cue)) {
				hits++
			}
		}
		if hits >= 2 {
			return name
		}
	}
	return "generic"
}

// WeightsFor returns the summary weight vector for a document type,
// falling back to generic.
func (t *Tables) WeightsFor(docType string) DomainWeights {
	if w, ok := t.SummaryWeights[docType]; ok {
		return w
	}
	return t.SummaryWeights["generic"]
}
