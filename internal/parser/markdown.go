package parser

import (
	"io"
	"strings"

	"github.com/dgallion1/docrank/internal/document"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownParser handles Markdown files using goldmark. Headings map to
// runs with an explicit heading level; everything else becomes body runs.
type MarkdownParser struct{}

func (p *MarkdownParser) Parse(r io.Reader, filename string) (*Extraction, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	md := goldmark.New()
	reader := text.NewReader(src)
	doc := md.Parser().Parse(reader)

	title := baseTitle(filename)
	var runs []document.TextRun
	line := 0

	var walk func(n ast.Node)
	walk = func(n ast.Node) {
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			switch node := c.(type) {
			case *ast.Heading:
				headingText := nodeText(node, src)
				if headingText == "" {
					continue
				}
				if node.Level == 1 && len(runs) == 0 {
					title = headingText
				}
				line += 2 // headings render with surrounding blank space
				level := node.Level
				if level > 3 {
					level = 3
				}
				runs = append(runs, document.TextRun{
					Text:         headingText,
					Page:         1,
					Line:         line,
					HeadingLevel: level,
				})
				line++
			case *ast.Paragraph, *ast.Blockquote, *ast.CodeBlock, *ast.FencedCodeBlock:
				for _, part := range strings.Split(nodeText(c, src), "\n") {
					part = strings.TrimSpace(part)
					if part == "" {
						continue
					}
					runs = append(runs, document.TextRun{Text: part, Page: 1, Line: line})
					line++
				}
			case *ast.List:
				for item := node.FirstChild(); item != nil; item = item.NextSibling() {
					itemText := strings.TrimSpace(nodeText(item, src))
					if itemText == "" {
						continue
					}
					runs = append(runs, document.TextRun{Text: "- " + itemText, Page: 1, Line: line})
					line++
				}
			default:
				walk(c)
			}
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

// nodeText collects the raw text of a node and its descendants.
func nodeText(n ast.Node, src []byte) string {
	var buf strings.Builder
	var walk func(n ast.Node)
	walk = func(n ast.Node) {
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			switch t := c.(type) {
			case *ast.Text:
				buf.Write(t.Segment.Value(src))
				if t.SoftLineBreak() || t.HardLineBreak() {
					buf.WriteByte('\n')
				}
			case *ast.AutoLink:
				buf.Write(t.URL(src))
			default:
				if c.Type() == ast.TypeBlock {
					lines := c.Lines()
					if c.ChildCount() == 0 && lines != nil && lines.Len() > 0 {
						for i := 0; i < lines.Len(); i++ {
							seg := lines.At(i)
							buf.Write(seg.Value(src))
						}
						continue
					}
				}
				walk(c)
			}
		}
	}
	walk(n)
	return strings.TrimSpace(buf.String())
}
