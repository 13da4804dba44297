package parser

import (
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/docrank/internal/document"
	"golang.org/x/net/html"
)

// HTMLParser handles HTML files. h1-h6 become heading runs; block text
// becomes body runs. No font metadata.
type HTMLParser struct{}

func (p *HTMLParser) Parse(r io.Reader, filename string) (*Extraction, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	title := baseTitle(filename)
	if t := findTitle(doc); t != "" {
		title = t
	}

	var runs []document.TextRun
	line := 0

	emit := func(text string, level int) {
		text = strings.TrimSpace(strings.Join(strings.Fields(text), " "))
		if text == "" {
			return
		}
		if level > 3 {
			level = 3
		}
		if level > 0 {
			line++ // blank space before headings
		}
		runs = append(runs, document.TextRun{
			Text:         text,
			Page:         1,
			Line:         line,
			HeadingLevel: level,
		})
		line++
	}

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "head", "nav", "noscript":
				return
			case "h1", "h2", "h3", "h4", "h5", "h6":
				emit(textContent(n), int(n.Data[1]-'0'))
				return
			case "p", "li", "td", "th", "pre", "blockquote", "figcaption":
				emit(textContent(n), 0)
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	if len(runs) == 0 {
		return nil, ErrNoText
	}
	return &Extraction{
		Title:   title,
		Runs:    runs,
		Quality: measureQuality(runs, 1),
	}, nil
}

func findTitle(doc *html.Node) string {
	var title string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if title != "" {
			return
		}
		if n.Type == html.ElementNode && n.Data == "title" {
			title = strings.TrimSpace(textContent(n))
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return title
}

func textContent(n *html.Node) string {
	var buf strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
			buf.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return buf.String()
}
