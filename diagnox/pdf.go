package diagnox

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-pdf/fpdf"
	"golang.org/x/text/encoding/charmap"
)

// PDFOptions controls the exported document.
type PDFOptions struct {
	Title    string
	Compress bool
}

// PDFRenderer writes an AnalysisResult as a paginated report.
type PDFRenderer struct {
	opts PDFOptions
}

// NewPDFRenderer constructs a renderer.
func NewPDFRenderer(opts PDFOptions) *PDFRenderer {
	if opts.Title == "" {
		opts.Title = "DiagnoX Symptom Analysis Report"
	}
	return &PDFRenderer{opts: opts}
}

var typographic = strings.NewReplacer(
	"‘", "'", "’", "'", "“", "\"", "”", "\"",
	"–", "-", "—", "-", "…", "...", "•", "-",
)

// Latin1 transcodes text to ISO-8859-1, one byte per character, which is what
// the PDF core fonts accept. Runes outside the charset become '?'.
func Latin1(text string) string {
	text = typographic.Replace(text)
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if c, ok := charmap.ISO8859_1.EncodeRune(r); ok {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('?')
	}
	return b.String()
}

// Render returns the PDF bytes for res.
func (r *PDFRenderer) Render(res AnalysisResult) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.Write(&buf, res); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteFile renders res to path.
func (r *PDFRenderer) WriteFile(path string, res AnalysisResult) error {
	data, err := r.Render(res)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

// Write renders res to w.
func (r *PDFRenderer) Write(w io.Writer, res AnalysisResult) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(r.opts.Compress)
	pdf.SetTitle(Latin1(r.opts.Title), false)
	pdf.SetAuthor("DiagnoX", false)
	pdf.SetCreator("diagnox", false)
	pdf.SetCreationDate(res.GeneratedAt)
	pdf.SetModificationDate(res.GeneratedAt)
	pdf.AliasNbPages("")
	pdf.SetAutoPageBreak(true, 20)
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.SetTextColor(120, 120, 120)
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d/{nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.SetTextColor(15, 23, 42)
	pdf.CellFormat(0, 10, Latin1(r.opts.Title), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(100, 116, 139)
	pdf.CellFormat(0, 5, Latin1("Generated: "+res.GeneratedAt.Format(reportTimeLayout)), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 5, Latin1("Report ID: "+res.ID), "", 1, "C", false, 0, "")
	pdf.Ln(6)

	section(pdf, "Reported Symptoms")
	body(pdf, strings.Join(DisplayNames(res.Symptoms), ", "))

	section(pdf, "Severity")
	body(pdf, res.Severity.String())
	if res.Severity == SeveritySevere {
		pdf.Ln(2)
		pdf.SetFillColor(253, 236, 234)
		pdf.SetDrawColor(176, 0, 32)
		pdf.SetTextColor(176, 0, 32)
		pdf.SetFont("Helvetica", "B", 12)
		pdf.MultiCell(0, 8, Latin1(SevereWarningTitle), "LTR", "C", true)
		pdf.SetFont("Helvetica", "", 10)
		pdf.MultiCell(0, 6, Latin1(SevereWarningText), "LBR", "C", true)
		pdf.SetTextColor(0, 0, 0)
	}

	section(pdf, "Differential Diagnosis")
	if len(res.Predictions) == 0 {
		body(pdf, "No predictions.")
	}
	for i, d := range res.Predictions {
		pdf.SetFont("Helvetica", "", 11)
		pdf.CellFormat(0, 7, Latin1(fmt.Sprintf("%d. %s - %s", i+1, d.Label, FormatPercent(d.Probability))), "", 1, "L", false, 0, "")
	}

	section(pdf, "Recommendations")
	for _, d := range res.Predictions {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(0, 7, Latin1(d.Label), "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		left, _, _, _ := pdf.GetMargins()
		for _, item := range d.Suggestions.Items {
			pdf.SetX(left + 5)
			pdf.MultiCell(0, 6, Latin1("- "+item), "", "L", false)
		}
		pdf.Ln(1)
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(100, 116, 139)
	pdf.MultiCell(0, 4, Latin1(Disclaimer), "", "L", false)

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return nil
}

func section(pdf *fpdf.Fpdf, title string) {
	pdf.Ln(3)
	pdf.SetFont("Helvetica", "B", 13)
	pdf.SetTextColor(15, 23, 42)
	pdf.CellFormat(0, 8, Latin1(title), "B", 1, "L", false, 0, "")
	pdf.Ln(1)
}

func body(pdf *fpdf.Fpdf, text string) {
	pdf.SetFont("Helvetica", "", 11)
	pdf.SetTextColor(30, 41, 59)
	pdf.MultiCell(0, 6, Latin1(text), "", "L", false)
}
