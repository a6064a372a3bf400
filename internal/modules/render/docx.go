package render

import (
	"bytes"
	"fmt"

	"github.com/fumiama/go-docx"
)

// Font sizes are half-points, per OOXML.
const (
	docxTitleSize    = "52"
	docxSubtitleSize = "26"
	docxHeadingSize  = "32"
	docxBodySize     = "22"
)

// DOCXRenderer renders a Document as an OOXML word processing file.
type DOCXRenderer struct{}

func (r *DOCXRenderer) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
}
func (r *DOCXRenderer) Ext() string { return "docx" }

func (r *DOCXRenderer) Render(doc Document) ([]byte, error) {
	w := docx.New().WithDefaultTheme()

	title := w.AddParagraph()
	title.AddText(doc.Title).Size(docxTitleSize).Bold()
	title.Justification("center")

	if doc.Subtitle != "" {
		subtitle := w.AddParagraph()
		subtitle.AddText(doc.Subtitle).Size(docxSubtitleSize).Italic()
		subtitle.Justification("center")
	}
	w.AddParagraph() // spacer after the title block

	for _, section := range doc.Sections {
		heading := w.AddParagraph()
		heading.AddText(section.Heading).Size(docxHeadingSize).Bold()

		for _, para := range section.Paragraphs {
			p := w.AddParagraph()
			p.AddText(para).Size(docxBodySize)
			p.Justification("both")
		}
		w.AddParagraph()
	}

	var buf bytes.Buffer
	if _, err := w.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("docx output: %w", err)
	}
	return buf.Bytes(), nil
}
