package parser

import (
	"bufio"
	"io"
	"strings"
)

// TextParser handles plain text files. Runs carry no font metadata, so
// segmentation falls back to text-pattern heuristics.
type TextParser struct{}

func (p *TextParser) Parse(r io.Reader, filename string) (*Extraction, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	runs := runsFromLines(strings.Join(lines, "\n"), 1)
	if len(runs) == 0 {
		return nil, ErrNoText
	}

	return &Extraction{
		Title:   baseTitle(filename),
		Runs:    runs,
		Quality: measureQuality(runs, 1),
	}, nil
}
