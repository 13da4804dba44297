package document

// TextRun is an atomic unit of extracted text: one line-level fragment
// with position and font metadata from the decoder.
type TextRun struct {
	Text     string  // Run text content
	Page     int     // 1-based page number
	X        float64 // Left edge in page coordinates (0 if unknown)
	Y        float64 // Baseline in page coordinates (0 if unknown)
	Width    float64 // Run width (0 if unknown)
	FontSize float64 // Font size in points (0 if unknown)
	Bold     bool
	Italic   bool
	Line int // Line index within the page, in reading order

	// HeadingLevel is set for formats that carry explicit heading markup
	// (markdown, HTML, DOCX styles). 0 means no explicit heading.
	HeadingLevel int

	// HasFontInfo is false when the source format provides no font
	// metadata; segmentation then relies on text patterns alone.
	HasFontInfo bool
}

// SectionCandidate is a contiguous run range grouped under one putative
// heading. Candidates for a document never overlap in run ranges.
type SectionCandidate struct {
	Document   string     // Source document identifier (filename)
	Runs       []TextRun  // Constituent runs, document reading order
	HeadingRun *TextRun   // Run that triggered the boundary, if any
	RunStart   int        // Index of first constituent run in the input sequence
	RunEnd     int        // Index one past the last constituent run
	StartPage  int
	EndPage    int
	Text       string // Concatenated body text
	WordCount  int
}

// Section is a candidate enriched with a title and, after scoring, a
// relevance score and collection-wide importance rank.
type Section struct {
	SectionCandidate

	Title          string
	Level          string // H1, H2 or H3 (outline mode)
	RelevanceScore float64
	ImportanceRank int // 1 = most relevant; unique within one ranking run

	// DocOrder and SectionOrder record original positions for
	// deterministic tie-breaking during ranking.
	DocOrder     int
	SectionOrder int
}

// OutlineEntry is one heading in a single-document outline.
type OutlineEntry struct {
	Level string `json:"level"`
	Text  string `json:"text"`
	Page  int    `json:"page"`
}

// Outline is the single-document output record.
type Outline struct {
	Title   string         `json:"title"`
	Entries []OutlineEntry `json:"outline"`
}

// CollectionMetadata describes one persona analysis run.
type CollectionMetadata struct {
	InputDocuments      []string `json:"input_documents"`
	Persona             string   `json:"persona"`
	JobToBeDone         string   `json:"job_to_be_done"`
	ProcessingTimestamp string   `json:"processing_timestamp"`
	ProcessorVersion    string   `json:"processor_version"`
	FailedDocuments     []string `json:"failed_documents,omitempty"`
}

// RankedSection is one entry of the collection-wide relevance ranking.
type RankedSection struct {
	Document       string `json:"document"`
	SectionTitle   string `json:"section_title"`
	ImportanceRank int    `json:"importance_rank"`
	PageNumber     int    `json:"page_number"`
}

// SubSectionSummary is the extractive summary of one top-ranked section.
type SubSectionSummary struct {
	Document    string `json:"document"`
	RefinedText string `json:"refined_text"`
	PageNumber  int    `json:"page_number"`
}

// CollectionResult is the persona analysis output record.
type CollectionResult struct {
	Metadata           CollectionMetadata  `json:"metadata"`
	ExtractedSections  []RankedSection     `json:"extracted_sections"`
	SubsectionAnalysis []SubSectionSummary `json:"subsection_analysis"`
}

// Words counts whitespace-separated words in s the same way everywhere
// word-count thresholds are applied.
func Words(s string) int {
	n := 0
	inWord := false
	for _, r := range s {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			inWord = false
		} else if !inWord {
			inWord = true
			n++
		}
	}
	return n
}
