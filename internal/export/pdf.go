package export

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
)

// US Letter in points, with the text block anchored at x=100.
const (
	PageWidth      = 612.0
	PageHeight     = 792.0
	LeftMargin     = 100.0
	RightMargin    = 100.0
	PrintableWidth = PageWidth - LeftMargin - RightMargin
	TopY           = 750.0
	BottomMargin   = 50.0
)

func setStyle(pdf *fpdf.Fpdf, style Style) {
	switch style {
	case StyleTitle:
		pdf.SetFont("Helvetica", "B", 14)
	default:
		pdf.SetFont("Helvetica", "", 11)
	}
}

// RenderPDF draws doc onto as many Letter pages as it needs and returns the whole file.
func RenderPDF(doc Document) ([]byte, error) {
	pdf := fpdf.New("P", "pt", "Letter", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle(doc.Title, true)
	pdf.SetCreator("cronicas-api", true)

	// core fonts are cp1252; the translator maps accented Spanish text onto it
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	measureFor := func(style Style) MeasureFunc {
		return func(s string) float64 {
			setStyle(pdf, style)
			return pdf.GetStringWidth(tr(s))
		}
	}

	pages := Paginate(Layout(doc, PrintableWidth, measureFor), Geometry{Top: TopY, Bottom: BottomMargin})
	for _, page := range pages {
		pdf.AddPage()
		for _, pl := range page.Lines {
			setStyle(pdf, pl.Style)
			pdf.Text(LeftMargin, PageHeight-pl.Y, tr(pl.Text))
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf failed: %w", err)
	}
	return buf.Bytes(), nil
}
