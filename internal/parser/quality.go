package parser

import (
	"unicode"

	"github.com/dgallion1/docrank/internal/document"
)

// Quality captures metrics about extraction quality, used to decide
// whether a decode counts as failed and to log degraded documents.
type Quality struct {
	PageCount      int     `json:"page_count"`
	CharsPerPage   float64 `json:"chars_per_page"`
	PrintableRatio float64 `json:"printable_ratio"`
	HasFontInfo    bool    `json:"has_font_info"`
}

func measureQuality(runs []document.TextRun, pageCount int) Quality {
	total := 0
	printable := 0
	hasFont := false
	for _, run := range runs {
		if run.HasFontInfo {
			hasFont = true
		}
		for _, r := range run.Text {
			total++
			if isGarbageRune(r) {
				continue
			}
			if unicode.IsPrint(r) {
				printable++
			}
		}
	}
	q := Quality{PageCount: pageCount, HasFontInfo: hasFont, PrintableRatio: 1}
	if pageCount > 0 {
		q.CharsPerPage = float64(total) / float64(pageCount)
	}
	if total > 0 {
		q.PrintableRatio = float64(printable) / float64(total)
	}
	return q
}

func isGarbageRune(r rune) bool {
	// Private Use Area
	if r >= 0xE000 && r <= 0xF8FF {
		return true
	}
	// Replacement character
	if r == 0xFFFD {
		return true
	}
	// Control chars except whitespace
	if r < 0x0020 && r != '\n' && r != '\r' && r != '\t' {
		return true
	}
	return false
}
