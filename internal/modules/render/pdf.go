package render

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

const (
	pdfMargin         = 20.0
	pdfTitleSize      = 26.0
	pdfSubtitleSize   = 13.0
	pdfHeadingSize    = 17.0
	pdfBodySize       = 11.0
	pdfBodyLineHeight = 6.0
)

// PDFRenderer renders a Document as an A4 PDF with a title page and one
// page run per section.
type PDFRenderer struct{}

func (r *PDFRenderer) ContentType() string { return "application/pdf" }
func (r *PDFRenderer) Ext() string         { return "pdf" }

func (r *PDFRenderer) Render(doc Document) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(true, pdfMargin)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageWidth, _ := pdf.GetPageSize()
	contentWidth := pageWidth - 2*pdfMargin

	// Title page.
	pdf.AddPage()
	pdf.SetY(80)
	pdf.SetFont("Helvetica", "B", pdfTitleSize)
	pdf.MultiCell(contentWidth, 12, tr(doc.Title), "", "C", false)
	if doc.Subtitle != "" {
		pdf.Ln(8)
		pdf.SetFont("Helvetica", "I", pdfSubtitleSize)
		pdf.MultiCell(contentWidth, 7, tr(doc.Subtitle), "", "C", false)
	}

	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Helvetica", "", 9)
		pdf.CellFormat(0, 10, fmt.Sprintf("%d", pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	for _, section := range doc.Sections {
		pdf.AddPage()
		pdf.SetFont("Helvetica", "B", pdfHeadingSize)
		pdf.MultiCell(contentWidth, 9, tr(section.Heading), "", "L", false)
		pdf.Ln(4)

		pdf.SetFont("Helvetica", "", pdfBodySize)
		for _, para := range section.Paragraphs {
			pdf.MultiCell(contentWidth, pdfBodyLineHeight, tr(para), "", "J", false)
			pdf.Ln(3)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf output: %w", err)
	}
	return buf.Bytes(), nil
}
