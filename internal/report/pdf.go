package report

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/go-pdf/fpdf"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"

	"trading-report/internal/interfaces"
	"trading-report/internal/types"
)

type rgb struct{ r, g, b int }

var (
	darkBlue  = rgb{0, 0, 139}
	darkGreen = rgb{0, 100, 0}
	red       = rgb{255, 0, 0}
	black     = rgb{0, 0, 0}
	lightBlue = rgb{173, 216, 230}
	beige     = rgb{245, 245, 220}
	grey      = rgb{128, 128, 128}
)

// PDFOptions controls page setup and metadata
type PDFOptions struct {
	PageSize string // A4 or Letter
	Compress bool
	Author   string
}

// PDFRenderer lays a report out as a PDF document
type PDFRenderer struct {
	opts PDFOptions
}

var _ interfaces.Renderer = (*PDFRenderer)(nil)

func NewPDFRenderer(opts PDFOptions) *PDFRenderer {
	if opts.PageSize == "" {
		opts.PageSize = "A4"
	}
	return &PDFRenderer{opts: opts}
}

// fontFamily is the embedded Go font family, registered per document so
// agent text outside Latin-1 keeps its characters.
const fontFamily = "Go"

type pdfDoc struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
}

// bmpOnly replaces runes above U+FFFF, which fpdf's UTF-8 fonts cannot
// encode and reject for the whole document.
func bmpOnly(s string) string {
	return strings.Map(func(r rune) rune {
		if r > 0xFFFF {
			return utf8.RuneError
		}
		return r
	}, s)
}

// Render produces the PDF bytes. Nothing touches the filesystem.
func (r *PDFRenderer) Render(report *types.Report) ([]byte, error) {
	pdf := fpdf.New("P", "pt", pageSize(r.opts.PageSize), "")
	pdf.AddUTF8FontFromBytes(fontFamily, "", goregular.TTF)
	pdf.AddUTF8FontFromBytes(fontFamily, "B", gobold.TTF)
	pdf.AddUTF8FontFromBytes(fontFamily, "I", goitalic.TTF)
	pdf.SetMargins(72, 72, 72)
	pdf.SetAutoPageBreak(true, 36)
	pdf.SetCompression(r.opts.Compress)
	pdf.SetTitle(bmpOnly(report.Title), true)
	pdf.SetSubject(fmt.Sprintf("%s %s", report.Symbol, report.Date), true)
	pdf.SetCreator("trading-report", true)
	if r.opts.Author != "" {
		pdf.SetAuthor(bmpOnly(r.opts.Author), true)
	}
	pdf.SetCreationDate(report.GeneratedAt)
	pdf.SetModificationDate(report.GeneratedAt)
	pdf.AliasNbPages("")

	d := &pdfDoc{pdf: pdf, tr: bmpOnly}
	pdf.SetFooterFunc(d.footer)
	pdf.AddPage()

	d.title(report.Title)
	for _, s := range report.Sections {
		if s.PageBreakBefore {
			pdf.AddPage()
		}
		d.sectionHeader(s.Title)
		if s.ID == types.SectionExecutiveSummary {
			d.summaryTable(s.Summary)
			d.sectionHeader("Final Trading Decision")
			d.decision(s.Body)
			continue
		}
		if s.Body != "" {
			d.paragraphs(s.Body)
		}
		for _, sub := range s.Subsections {
			d.subsectionHeader(sub.Title)
			d.paragraphs(sub.Body)
		}
		pdf.Ln(15)
	}

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("failed to lay out pdf: %w", err)
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func pageSize(s string) string {
	if strings.EqualFold(s, "letter") {
		return "Letter"
	}
	return "A4"
}

func (d *pdfDoc) setText(c rgb) { d.pdf.SetTextColor(c.r, c.g, c.b) }
func (d *pdfDoc) setFill(c rgb) { d.pdf.SetFillColor(c.r, c.g, c.b) }
func (d *pdfDoc) setDraw(c rgb) { d.pdf.SetDrawColor(c.r, c.g, c.b) }

func (d *pdfDoc) title(text string) {
	d.pdf.SetFont(fontFamily, "B", 24)
	d.setText(darkBlue)
	d.pdf.MultiCell(0, 30, d.tr(text), "", "C", false)
	d.pdf.Ln(20)
}

func (d *pdfDoc) sectionHeader(text string) {
	d.pdf.Ln(8)
	d.pdf.SetFont(fontFamily, "B", 16)
	d.setText(darkBlue)
	d.setDraw(darkBlue)
	d.pdf.SetLineWidth(1)
	d.pdf.CellFormat(0, 26, d.tr(text), "1", 1, "L", false, 0, "")
	d.pdf.Ln(12)
}

func (d *pdfDoc) subsectionHeader(text string) {
	d.pdf.Ln(4)
	d.pdf.SetFont(fontFamily, "B", 14)
	d.setText(darkGreen)
	d.pdf.CellFormat(0, 18, d.tr(text), "", 1, "L", false, 0, "")
	d.pdf.Ln(4)
}

func (d *pdfDoc) paragraphs(body string) {
	d.pdf.SetFont(fontFamily, "", 10)
	d.setText(black)
	for i, p := range strings.Split(body, "\n\n") {
		if i > 0 {
			d.pdf.Ln(6)
		}
		d.pdf.MultiCell(0, 13, d.tr(p), "", "J", false)
	}
}

func (d *pdfDoc) summaryTable(rows []types.SummaryRow) {
	d.setDraw(black)
	d.pdf.SetLineWidth(1)
	for i, row := range rows {
		if i == 0 {
			d.pdf.SetFont(fontFamily, "B", 12)
			d.setFill(lightBlue)
			d.setText(darkBlue)
		} else {
			d.pdf.SetFont(fontFamily, "", 10)
			d.setFill(beige)
			d.setText(black)
		}
		d.pdf.CellFormat(144, 20, d.tr(row.Label), "1", 0, "L", true, 0, "")
		d.pdf.CellFormat(216, 20, d.tr(row.Value), "1", 1, "L", true, 0, "")
	}
	d.pdf.Ln(20)
}

func (d *pdfDoc) decision(label string) {
	d.pdf.SetFont(fontFamily, "B", 14)
	d.setText(red)
	d.pdf.CellFormat(0, 20, d.tr(label), "", 1, "C", false, 0, "")
	d.pdf.Ln(20)
}

func (d *pdfDoc) footer() {
	d.pdf.SetY(-30)
	d.pdf.SetFont(fontFamily, "I", 8)
	d.setText(grey)
	d.pdf.CellFormat(0, 10, fmt.Sprintf("Page %d/{nb}", d.pdf.PageNo()), "", 0, "C", false, 0, "")
}
