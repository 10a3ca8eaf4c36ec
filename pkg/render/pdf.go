package render

import (
	"bytes"
	"fmt"

	"codeberg.org/go-pdf/fpdf"
	"golang.org/x/text/encoding/charmap"

	"github.com/gardar/formscribe/pkg/record"
)

const (
	pdfMargin     = 40.0
	pdfFieldWidth = 160.0
	pdfLineHeight = 14.0
	pdfFontSize   = 10.0
)

// PDF renders rec as an A4 document with a title and a bordered table.
func PDF(rec *record.Record, title string) ([]byte, error) {
	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(true, pdfMargin)
	pdf.AddPage()

	pageWidth, _ := pdf.GetPageSize()
	valueWidth := pageWidth - 2*pdfMargin - pdfFieldWidth

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 24, latin1(title), "", 1, "L", false, 0, "")
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "B", pdfFontSize)
	pdf.SetFillColor(230, 230, 230)
	pdf.CellFormat(pdfFieldWidth, pdfLineHeight+4, FieldHeader, "1", 0, "L", true, 0, "")
	pdf.CellFormat(valueWidth, pdfLineHeight+4, ValueHeader, "1", 1, "L", true, 0, "")

	pdf.SetFont("Helvetica", "", pdfFontSize)
	for _, r := range Rows(rec) {
		value := latin1(r.Value)
		lines := len(pdf.SplitLines([]byte(value), valueWidth))
		if lines < 1 {
			lines = 1
		}
		height := float64(lines) * pdfLineHeight

		_, pageHeight := pdf.GetPageSize()
		if _, y := pdf.GetXY(); y+height > pageHeight-pdfMargin {
			pdf.AddPage()
		}

		x, y := pdf.GetXY()
		pdf.CellFormat(pdfFieldWidth, height, latin1(r.Field), "1", 0, "LT", false, 0, "")
		pdf.SetXY(x+pdfFieldWidth, y)
		pdf.MultiCell(valueWidth, pdfLineHeight, value, "1", "L", false)
		pdf.SetXY(x, y+height)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return buf.Bytes(), nil
}

// latin1 converts s for the PDF core fonts, falling back to s when it has characters outside
// ISO-8859-1.
func latin1(s string) string {
	out, err := charmap.ISO8859_1.NewEncoder().String(s)
	if err != nil {
		return s
	}
	return out
}
