package render

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// SectionFromMarkdown flattens a markdown unit into a Section. The first
// heading becomes the section heading; fallbackHeading is used when the
// text carries none. Block-level elements become plain paragraphs, list
// items keep a bullet marker.
func SectionFromMarkdown(fallbackHeading, markdown string) Section {
	source := []byte(markdown)
	doc := goldmark.New().Parser().Parse(text.NewReader(source))

	section := Section{Heading: strings.TrimSpace(fallbackHeading)}
	headingSeen := false

	for node := doc.FirstChild(); node != nil; node = node.NextSibling() {
		switch n := node.(type) {
		case *ast.Heading:
			title := strings.TrimSpace(extractText(n, source))
			if title == "" {
				continue
			}
			if !headingSeen {
				section.Heading = title
				headingSeen = true
				continue
			}
			// Sub-headings become their own short paragraph.
			section.Paragraphs = append(section.Paragraphs, title)
		case *ast.Paragraph, *ast.TextBlock, *ast.Blockquote:
			if p := strings.TrimSpace(extractText(node, source)); p != "" {
				section.Paragraphs = append(section.Paragraphs, p)
			}
		case *ast.List:
			section.Paragraphs = append(section.Paragraphs, flattenList(n, source)...)
		case *ast.FencedCodeBlock:
			if code := strings.TrimSpace(extractCode(n, source)); code != "" {
				section.Paragraphs = append(section.Paragraphs, code)
			}
		case *ast.CodeBlock:
			if code := strings.TrimSpace(extractCode(n, source)); code != "" {
				section.Paragraphs = append(section.Paragraphs, code)
			}
		}
	}

	return section
}

func flattenList(list *ast.List, source []byte) []string {
	var items []string
	for item := list.FirstChild(); item != nil; item = item.NextSibling() {
		line := strings.TrimSpace(extractText(item, source))
		if line == "" {
			continue
		}
		items = append(items, "• "+line)
	}
	return items
}

// extractText collects the plain text under a node, joining soft breaks
// with spaces.
func extractText(node ast.Node, source []byte) string {
	var sb strings.Builder
	_ = ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := n.(type) {
		case *ast.Text:
			sb.Write(t.Segment.Value(source))
			if t.SoftLineBreak() || t.HardLineBreak() {
				sb.WriteByte(' ')
			}
		case *ast.CodeSpan:
			for c := t.FirstChild(); c != nil; c = c.NextSibling() {
				if txt, ok := c.(*ast.Text); ok {
					sb.Write(txt.Segment.Value(source))
				}
			}
			return ast.WalkSkipChildren, nil
		case *ast.AutoLink:
			sb.Write(t.URL(source))
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return collapseSpaces(sb.String())
}

func extractCode(node ast.Node, source []byte) string {
	var sb strings.Builder
	lines := node.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		sb.Write(seg.Value(source))
	}
	return sb.String()
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
