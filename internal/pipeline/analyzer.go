package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dgallion1/docrank/internal/config"
	"github.com/dgallion1/docrank/internal/document"
	"github.com/dgallion1/docrank/internal/lexicon"
	"github.com/dgallion1/docrank/internal/parser"
	"github.com/dgallion1/docrank/internal/score"
	"github.com/dgallion1/docrank/internal/segment"
	"github.com/dgallion1/docrank/internal/summary"
	"github.com/dgallion1/docrank/internal/title"
)

// ProcessorVersion is stamped into every output record.
const ProcessorVersion = "docrank/1.0"

// FileInput is one document of a collection.
type FileInput struct {
	Name string
	Data []byte
}

// CollectionInput describes one persona analysis run.
type CollectionInput struct {
	Documents   []FileInput
	Persona     string
	Job         string
	DocTypeHint string
	TopK        int // 0 uses the configured default
}

// Analyzer runs the core pipeline: extract, segment, title, score,
// summarize. It is read-only after construction and safe for
// concurrent use.
type Analyzer struct {
	tables *lexicon.Tables
	log    *slog.Logger
	stats  *Stats

	segCfg   segment.Config
	scoreW   score.Weights
	sumW     summary.Weights
	titler   *title.Inferencer
	topK     int
	maxDocs  int
	budget   time.Duration
	pdftotxt bool
}

// NewAnalyzer wires the pipeline from configuration and loaded tables.
func NewAnalyzer(cfg config.Config, tables *lexicon.Tables, log *slog.Logger) *Analyzer {
	segCfg := segment.DefaultConfig()
	if cfg.MinSectionWords > 0 {
		segCfg.MinSectionWords = cfg.MinSectionWords
	}
	if cfg.MaxSectionsPerPage > 0 {
		segCfg.MaxSectionsPerPage = cfg.MaxSectionsPerPage
	}
	sumW := summary.DefaultWeights()
	if cfg.SummarySentences > 0 {
		sumW.MaxSentences = cfg.SummarySentences
	}
	topK := cfg.TopKSections
	if topK <= 0 {
		topK = 5
	}
	maxDocs := cfg.MaxConcurrentDocs
	if maxDocs <= 0 {
		maxDocs = 4
	}
	return &Analyzer{
		tables:   tables,
		log:      log,
		stats:    NewStats(time.Hour),
		segCfg:   segCfg,
		scoreW:   score.DefaultWeights(),
		sumW:     sumW,
		titler:   title.New(cfg.TitleMaxLen, tables.Stopwords),
		topK:     topK,
		maxDocs:  maxDocs,
		budget:   cfg.ProcessBudget,
		pdftotxt: cfg.PDFFallbackPdftotext,
	}
}

// Stats exposes the rolling stage latency window.
func (a *Analyzer) Stats() *Stats { return a.stats }

// extractDocument decodes one document into titled sections.
func (a *Analyzer) extractDocument(name string, data []byte) (*parser.Extraction, []*document.Section, error) {
	p, err := parser.ForFile(name)
	if err != nil {
		return nil, nil, err
	}
	if pdf, ok := p.(*parser.PDFParser); ok {
		pdf.FallbackPdftotext = a.pdftotxt
	}

	start := time.Now()
	ex, err := p.Parse(bytes.NewReader(data), name)
	a.stats.Record("parse", time.Since(start).Milliseconds())
	if err != nil {
		return nil, nil, fmt.Errorf("parse %s: %w", name, err)
	}
	if !ex.Quality.HasFontInfo {
		a.log.Info("no font metadata, using text-pattern segmentation", "doc", name)
	}

	start = time.Now()
	candidates := segment.Segment(name, ex.Runs, a.segCfg)
	sections := make([]*document.Section, len(candidates))
	for i, c := range candidates {
		sec := &document.Section{SectionCandidate: c, SectionOrder: i}
		sec.Title = a.titler.Infer(&sec.SectionCandidate)
		sections[i] = sec
	}
	a.stats.Record("segment", time.Since(start).Milliseconds())

	return ex, sections, nil
}

// OutlineDocument produces the single-document outline record. A
// document with no detected headings yields a valid outline with an
// empty entry list.
func (a *Analyzer) OutlineDocument(name string, data []byte) (*document.Outline, error) {
	ex, sections, err := a.extractDocument(name, data)
	if err != nil {
		return nil, err
	}

	bodySizes := segment.PageBodySizes(ex.Runs)
	out := &document.Outline{
		Title:   ex.Title,
		Entries: []document.OutlineEntry{},
	}
	for _, sec := range sections {
		if sec.HeadingRun == nil {
			continue
		}
		level := segment.OutlineLevel(sec.HeadingRun, bodySizes[sec.HeadingRun.Page])
		out.Entries = append(out.Entries, document.OutlineEntry{
			Level: level,
			Text:  sec.Title,
			Page:  sec.StartPage,
		})
		if level == "H1" && sec.StartPage == 1 && out.Title == ex.Title {
			out.Title = sec.Title
		}
	}
	return out, nil
}

// docState carries one document's results across the barrier.
type docState struct {
	name     string
	sections []*document.Section
	err      error
}

// AnalyzeCollection runs the full persona pipeline over a document set.
// Documents are segmented and titled independently (bounded fan-out);
// scoring and ranking happen collection-wide after every document has
// finished, in a single post-barrier pass.
func (a *Analyzer) AnalyzeCollection(ctx context.Context, in CollectionInput) (*document.CollectionResult, error) {
	started := time.Now()
	topK := in.TopK
	if topK <= 0 {
		topK = a.topK
	}

	states := make([]docState, len(in.Documents))
	sem := make(chan struct{}, a.maxDocs)
	var wg sync.WaitGroup

	for i, doc := range in.Documents {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, doc FileInput) {
			defer wg.Done()
			defer func() { <-sem }()
			_, sections, err := a.extractDocument(doc.Name, doc.Data)
			states[i] = docState{name: doc.Name, sections: sections, err: err}
		}(i, doc)
	}
	wg.Wait()

	meta := document.CollectionMetadata{
		InputDocuments:      make([]string, 0, len(in.Documents)),
		Persona:             in.Persona,
		JobToBeDone:         in.Job,
		ProcessingTimestamp: time.Now().UTC().Format(time.RFC3339),
		ProcessorVersion:    ProcessorVersion,
	}

	// Aggregation is ordered by input position, not goroutine completion,
	// so ranking tie-breaks are reproducible.
	var all []*document.Section
	docOrder := 0
	for _, st := range states {
		meta.InputDocuments = append(meta.InputDocuments, st.name)
		if st.err != nil {
			a.log.Warn("document failed, skipping", "doc", st.name, "error", st.err)
			meta.FailedDocuments = append(meta.FailedDocuments, st.name)
			continue
		}
		for _, sec := range st.sections {
			sec.DocOrder = docOrder
			all = append(all, sec)
		}
		docOrder++
	}

	profile := a.tables.ProfileFor(in.Persona, in.Job)
	if len(profile.Domains) == 0 {
		a.log.Info("no domain lexicon matched persona, using generic", "persona", in.Persona)
	}
	if in.Job == "" {
		a.log.Warn("empty job description, ranking by lexicon boost only")
	}

	start := time.Now()
	scorer := score.NewScorer(profile, a.tables.Stopwords, a.scoreW)
	scorer.Rank(all)
	a.stats.Record("score", time.Since(start).Milliseconds())

	docTypes := a.detectDocTypes(in.DocTypeHint, states)

	result := &document.CollectionResult{
		Metadata:           meta,
		ExtractedSections:  []document.RankedSection{},
		SubsectionAnalysis: []document.SubSectionSummary{},
	}

	start = time.Now()
	for _, sec := range all {
		if sec.ImportanceRank > topK {
			break
		}
		result.ExtractedSections = append(result.ExtractedSections, document.RankedSection{
			Document:       sec.Document,
			SectionTitle:   sec.Title,
			ImportanceRank: sec.ImportanceRank,
			PageNumber:     sec.StartPage,
		})
		result.SubsectionAnalysis = append(result.SubsectionAnalysis,
			summary.Summarize(sec, a.tables, docTypes[sec.Document], a.sumW))
	}
	a.stats.Record("summarize", time.Since(start).Milliseconds())

	if a.budget > 0 && time.Since(started) > a.budget {
		a.log.Warn("processing exceeded time budget",
			"budget", a.budget, "elapsed", time.Since(started))
	}
	a.log.Info("collection analyzed",
		"documents", len(in.Documents),
		"failed", len(meta.FailedDocuments),
		"sections", len(all),
		"ranked", len(result.ExtractedSections),
	)
	return result, nil
}

// detectDocTypes picks the summary weight domain per document from its
// section titles.
func (a *Analyzer) detectDocTypes(hint string, states []docState) map[string]string {
	out := make(map[string]string, len(states))
	for _, st := range states {
		if st.err != nil {
			continue
		}
		titles := make([]string, len(st.sections))
		for i, sec := range st.sections {
			titles[i] = sec.Title
		}
		out[st.name] = a.tables.DocTypeFor(hint, titles)
	}
	return out
}
