package parser

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/docrank/internal/document"
)

// CSVParser handles CSV files. Each batch of rows becomes a heading run
// plus one body run per row, keyed by the header row.
type CSVParser struct{}

func (p *CSVParser) Parse(r io.Reader, filename string) (*Extraction, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(records) == 0 {
		return nil, ErrNoText
	}

	headers := records[0]
	dataRows := records[1:]

	const batchSize = 20
	var runs []document.TextRun
	line := 0

	for i := 0; i < len(dataRows); i += batchSize {
		end := i + batchSize
		if end > len(dataRows) {
			end = len(dataRows)
		}

		line++
		runs = append(runs, document.TextRun{
			Text:         fmt.Sprintf("Rows %d-%d", i+2, end+1), // 1-indexed, skip header
			Page:         1,
			Line:         line,
			HeadingLevel: 2,
		})
		line++

		for _, row := range dataRows[i:end] {
			var text strings.Builder
			for j, cell := range row {
				if j > 0 {
					text.WriteString(", ")
				}
				if j < len(headers) {
					text.WriteString(headers[j] + ": " + cell)
				} else {
					text.WriteString(cell)
				}
			}
			runs = append(runs, document.TextRun{Text: text.String(), Page: 1, Line: line})
			line++
		}
	}

	if len(runs) == 0 {
		return nil, ErrNoText
	}
	return &Extraction{
		Title:   baseTitle(filename),
		Runs:    runs,
		Quality: measureQuality(runs, 1),
	}, nil
}
