package pdf

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
	"github.com/vcscsvcscs/stress-assessment/pkg/model"
	"go.uber.org/zap"
)

// PDFGenerator renders assessment reports as printable PDF documents
type PDFGenerator struct {
	logger *zap.Logger
}

// NewPDFGenerator creates a new PDFGenerator
func NewPDFGenerator(logger *zap.Logger) *PDFGenerator {
	return &PDFGenerator{
		logger: logger,
	}
}

// Generate converts the markdown content of an assessment report into PDF
// bytes. The report markdown uses headings, label lines, list items and
// horizontal rules only; anything else renders as body text.
func (g *PDFGenerator) Generate(report *model.AssessmentReport) ([]byte, error) {
	g.logger.Info("generating PDF report",
		zap.String("report_id", report.ID),
		zap.String("report_type", string(report.Type)),
	)

	// Create new PDF
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)

	// Core fonts are cp1252, report text may carry characters beyond ASCII
	translate := pdf.UnicodeTranslatorFromDescriptor("")

	// Add page
	pdf.AddPage()

	for _, line := range strings.Split(report.Content, "\n") {
		g.writeLine(pdf, translate(strings.TrimRight(line, " ")))
	}

	// Generate PDF bytes
	var buf bytes.Buffer
	err := pdf.Output(&buf)
	if err != nil {
		g.logger.Error("failed to generate PDF", zap.Error(err))
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	g.logger.Info("PDF report generated successfully",
		zap.Int("size_bytes", buf.Len()),
	)

	return buf.Bytes(), nil
}

// writeLine maps one markdown line onto the matching PDF style
func (g *PDFGenerator) writeLine(pdf *gofpdf.Fpdf, line string) {
	switch {
	case line == "":
		pdf.Ln(2)
	case line == "---":
		g.addDivider(pdf)
	case strings.HasPrefix(line, "# "):
		g.addTitle(pdf, strings.TrimPrefix(line, "# "))
	case strings.HasPrefix(line, "## "):
		g.addSectionHeader(pdf, strings.TrimPrefix(line, "## "))
	case strings.HasPrefix(line, "### "):
		g.addSubHeader(pdf, strings.TrimPrefix(line, "### "))
	case strings.HasPrefix(line, "- "):
		g.addListItem(pdf, strings.TrimPrefix(line, "- "))
	case isNumberedItem(line):
		g.addListItem(pdf, line)
	default:
		g.addBodyText(pdf, line)
	}
}

// addTitle adds the centered report title
func (g *PDFGenerator) addTitle(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont("Arial", "B", 20)
	pdf.CellFormat(0, 10, title, "", 1, "C", false, 0, "")
	pdf.Ln(3)
	pdf.SetFont("Arial", "", 10)
}

// addSectionHeader adds a section header
func (g *PDFGenerator) addSectionHeader(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont("Arial", "B", 14)
	pdf.SetFillColor(230, 230, 230)
	pdf.CellFormat(0, 10, title, "", 1, "L", true, 0, "")
	pdf.Ln(3)
	pdf.SetFont("Arial", "", 10)
}

// addSubHeader adds a subsection header
func (g *PDFGenerator) addSubHeader(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(0, 7, title, "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 10)
}

// addListItem adds an indented list entry
func (g *PDFGenerator) addListItem(pdf *gofpdf.Fpdf, item string) {
	pdf.MultiCell(0, 5, fmt.Sprintf("  - %s", stripEmphasis(item)), "", "L", false)
}

// addBodyText adds a wrapped text line, bolding label-led lines
func (g *PDFGenerator) addBodyText(pdf *gofpdf.Fpdf, line string) {
	if strings.HasPrefix(line, "**") {
		pdf.SetFont("Arial", "B", 10)
		pdf.MultiCell(0, 5, stripEmphasis(line), "", "L", false)
		pdf.SetFont("Arial", "", 10)
		return
	}
	pdf.MultiCell(0, 5, stripEmphasis(line), "", "L", false)
}

// addDivider draws a horizontal rule between report blocks
func (g *PDFGenerator) addDivider(pdf *gofpdf.Fpdf) {
	pdf.Ln(2)
	y := pdf.GetY()
	pdf.SetDrawColor(200, 200, 200)
	pdf.Line(20, y, 190, y)
	pdf.Ln(4)
}

// stripEmphasis removes markdown bold markers
func stripEmphasis(line string) string {
	return strings.ReplaceAll(line, "**", "")
}

// isNumberedItem reports whether the line is an ordered list entry like "3. "
func isNumberedItem(line string) bool {
	digits := 0
	for digits < len(line) && line[digits] >= '0' && line[digits] <= '9' {
		digits++
	}
	return digits > 0 && strings.HasPrefix(line[digits:], ". ")
}
