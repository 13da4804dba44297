package parser

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dgallion1/docrank/internal/document"
	"github.com/fumiama/go-docx"
)

// DOCXParser handles .docx files. Heading styles map to heading runs.
type DOCXParser struct{}

func (p *DOCXParser) Parse(r io.Reader, filename string) (*Extraction, error) {
	// go-docx needs a ReadSeeker+size, so write to a temp file.
	tmp, err := os.CreateTemp("", "docrank-docx-*.docx")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	size, err := io.Copy(tmp, r)
	if err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("seek temp file: %w", err)
	}

	doc, err := docx.Parse(tmp, int64(size))
	tmp.Close()
	if err != nil {
		return nil, fmt.Errorf("parse docx: %w", err)
	}

	var runs []document.TextRun
	line := 0
	for _, item := range doc.Document.Body.Items {
		para, ok := item.(*docx.Paragraph)
		if !ok {
			continue
		}
		text := docxParagraphText(para)
		if text == "" {
			line++
			continue
		}
		level := docxHeadingLevel(para)
		if level > 3 {
			level = 3
		}
		if level > 0 {
			line++
		}
		runs = append(runs, document.TextRun{
			Text:         text,
			Page:         1,
			Line:         line,
			HeadingLevel: level,
		})
		line++
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

func docxHeadingLevel(para *docx.Paragraph) int {
	if para.Properties == nil || para.Properties.Style == nil {
		return 0
	}
	style := strings.ToLower(para.Properties.Style.Val)
	for lvl := 1; lvl <= 6; lvl++ {
		if style == fmt.Sprintf("heading%d", lvl) || style == fmt.Sprintf("heading %d", lvl) {
			return lvl
		}
	}
	return 0
}

func docxParagraphText(para *docx.Paragraph) string {
	var buf strings.Builder
	for _, child := range para.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		for _, rc := range run.Children {
			if t, ok := rc.(*docx.Text); ok {
				buf.WriteString(t.Text)
			}
		}
	}
	return strings.TrimSpace(buf.String())
}
