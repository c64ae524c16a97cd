package report

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// PDFBuilder lays out a paginated A4 document from ordered blocks: section
// headers, tables, embedded chart images, free text and insight callouts.
// A running vertical cursor triggers a page break whenever the next block
// would overflow the writable area. Every page after the cover carries a
// footer with the report title, page number, generation timestamp and the
// confidentiality notice.
type PDFBuilder struct {
	pdf         *gofpdf.Fpdf
	title       string
	notice      string
	generatedAt time.Time

	pageW   float64
	pageH   float64
	marginL float64
	marginR float64
	marginB float64

	images int
}

const (
	pdfRowHeight    = 6
	pdfFooterHeight = 16
)

// NewPDFBuilder starts a document with its cover page already added.
func NewPDFBuilder(title, subtitle, notice string, generatedAt time.Time) *PDFBuilder {
	pdf := gofpdf.New("P", "mm", "A4", "")
	b := &PDFBuilder{
		pdf:         pdf,
		title:       title,
		notice:      notice,
		generatedAt: generatedAt,
	}
	b.pageW, b.pageH = pdf.GetPageSize()
	b.marginL, _, b.marginR, b.marginB = pdf.GetMargins()

	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		if pdf.PageNo() == 1 {
			return
		}
		pdf.SetY(-15)
		pdf.SetFont("Helvetica", "I", 7)
		pdf.SetTextColor(120, 120, 120)
		left := fmt.Sprintf("%s - generated %s", b.title, b.generatedAt.Format("2006-01-02 15:04"))
		pdf.CellFormat(b.contentWidth()/2, 5, left, "", 0, "L", false, 0, "")
		pdf.CellFormat(b.contentWidth()/2, 5, fmt.Sprintf("Page %d of {nb}", pdf.PageNo()), "", 1, "R", false, 0, "")
		pdf.CellFormat(b.contentWidth(), 4, b.notice, "", 0, "C", false, 0, "")
	})

	b.cover(subtitle)
	return b
}

func (b *PDFBuilder) contentWidth() float64 {
	return b.pageW - b.marginL - b.marginR
}

// ensure breaks the page when fewer than h millimeters remain.
func (b *PDFBuilder) ensure(h float64) {
	if b.pdf.GetY()+h > b.pageH-b.marginB-pdfFooterHeight {
		b.pdf.AddPage()
	}
}

func (b *PDFBuilder) cover(subtitle string) {
	pdf := b.pdf
	pdf.AddPage()
	pdf.SetY(90)
	pdf.SetFont("Helvetica", "B", 26)
	pdf.SetTextColor(31, 58, 95)
	pdf.MultiCell(b.contentWidth(), 12, b.title, "", "C", false)
	pdf.Ln(4)
	pdf.SetFont("Helvetica", "", 14)
	pdf.SetTextColor(90, 90, 90)
	pdf.MultiCell(b.contentWidth(), 8, subtitle, "", "C", false)
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 10)
	pdf.MultiCell(b.contentWidth(), 6, "Generated "+b.generatedAt.Format("2006-01-02 15:04"), "", "C", false)
	pdf.SetY(-40)
	pdf.SetFont("Helvetica", "I", 9)
	pdf.SetTextColor(120, 120, 120)
	pdf.MultiCell(b.contentWidth(), 5, b.notice, "", "C", false)
}

// NewPage forces an explicit page break.
func (b *PDFBuilder) NewPage() {
	b.pdf.AddPage()
}

// SectionHeader writes a banner-style section title.
func (b *PDFBuilder) SectionHeader(text string) {
	b.ensure(20)
	pdf := b.pdf
	pdf.Ln(3)
	pdf.SetFont("Helvetica", "B", 13)
	pdf.SetFillColor(31, 58, 95)
	pdf.SetTextColor(255, 255, 255)
	pdf.CellFormat(b.contentWidth(), 9, "  "+text, "", 1, "L", true, 0, "")
	pdf.Ln(3)
	pdf.SetTextColor(0, 0, 0)
}

// Text writes a free-text paragraph.
func (b *PDFBuilder) Text(text string) {
	b.ensure(12)
	pdf := b.pdf
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(40, 40, 40)
	pdf.MultiCell(b.contentWidth(), 5.5, text, "", "L", false)
	pdf.Ln(2)
}

// Callout writes a highlighted insight box.
func (b *PDFBuilder) Callout(text string) {
	b.ensure(16)
	pdf := b.pdf
	pdf.SetFont("Helvetica", "I", 10)
	pdf.SetFillColor(235, 242, 250)
	pdf.SetTextColor(31, 58, 95)
	pdf.MultiCell(b.contentWidth(), 6.5, text, "", "L", true)
	pdf.Ln(3)
	pdf.SetTextColor(0, 0, 0)
}

// Table writes a header row plus body rows with explicit column widths.
// The header is repeated when rows spill onto a new page.
func (b *PDFBuilder) Table(headers []string, widths []float64, rows [][]string) {
	b.ensure(pdfRowHeight * 3)
	b.tableHeader(headers, widths)
	for _, row := range rows {
		if b.pdf.GetY()+pdfRowHeight > b.pageH-b.marginB-pdfFooterHeight {
			b.pdf.AddPage()
			b.tableHeader(headers, widths)
		}
		b.pdf.SetFont("Helvetica", "", 9)
		b.pdf.SetTextColor(40, 40, 40)
		for i, cell := range row {
			w := widths[i%len(widths)]
			ln := 0
			if i == len(row)-1 {
				ln = 1
			}
			b.pdf.CellFormat(w, pdfRowHeight, cell, "1", ln, "L", false, 0, "")
		}
	}
	b.pdf.Ln(3)
}

func (b *PDFBuilder) tableHeader(headers []string, widths []float64) {
	pdf := b.pdf
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(222, 230, 240)
	pdf.SetTextColor(31, 58, 95)
	for i, h := range headers {
		w := widths[i%len(widths)]
		ln := 0
		if i == len(headers)-1 {
			ln = 1
		}
		pdf.CellFormat(w, pdfRowHeight, h, "1", ln, "L", true, 0, "")
	}
}

// Image embeds a pre-rendered PNG at a fixed size, centered horizontally.
func (b *PDFBuilder) Image(png []byte, w, h float64) {
	if len(png) == 0 {
		return
	}
	b.ensure(h + 6)
	b.images++
	name := fmt.Sprintf("chart-%d", b.images)
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	b.pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(png))
	x := b.marginL + (b.contentWidth()-w)/2
	y := b.pdf.GetY()
	b.pdf.ImageOptions(name, x, y, w, h, false, opts, 0, "")
	b.pdf.SetY(y + h + 4)
}

// PageCount reports the number of pages laid out so far.
func (b *PDFBuilder) PageCount() int {
	return b.pdf.PageCount()
}

// Bytes finalizes the document.
func (b *PDFBuilder) Bytes() ([]byte, error) {
	if b.pdf.Err() {
		return nil, fmt.Errorf("assemble pdf: %w", b.pdf.Error())
	}
	var buf bytes.Buffer
	if err := b.pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("assemble pdf: %w", err)
	}
	return buf.Bytes(), nil
}
