// Package pdf renders quote snapshots into paginated PDF documents with
// github.com/jung-kurt/gofpdf. The renderer is a pure formatter: it lays
// out the figures it is given and computes nothing itself.
package pdf

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"

	"github.com/summitpoint/quotedesk/internal/domain"
)

// RendererConfig contains configuration for the renderer.
type RendererConfig struct {
	// CompanyName appears in the document header and footer.
	CompanyName string

	// Terms is the boilerplate printed at the bottom of the document.
	Terms string
}

// Renderer implements ports.DocumentRenderer.
type Renderer struct {
	company string
	terms   string

	// now is swappable for deterministic output in tests.
	now func() time.Time
}

// NewRenderer creates a new renderer.
func NewRenderer(cfg RendererConfig) *Renderer {
	return &Renderer{
		company: cfg.CompanyName,
		terms:   cfg.Terms,
		now:     time.Now,
	}
}

const (
	colName  = 80.0
	colQty   = 22.0
	colUnit  = 28.0
	colPrice = 30.0
	colTotal = 30.0
)

// Render lays the snapshot out on A4 pages. Long item lists flow across
// page breaks; the totals block always follows the last item row.
func (r *Renderer) Render(snapshot domain.QuoteDraft, pricing domain.TierPricing) ([]byte, error) {
	doc := gofpdf.New("P", "mm", "A4", "")
	doc.SetTitle(fmt.Sprintf("Quote %s", snapshot.Number), false)
	doc.SetAutoPageBreak(true, 20)
	doc.AddPage()

	r.header(doc, snapshot)
	r.customerBlock(doc, snapshot.Customer)
	r.itemsTable(doc, snapshot.Items)
	r.laborAndTotals(doc, snapshot, pricing)

	if snapshot.Notes != "" {
		doc.Ln(4)
		doc.SetFont("Helvetica", "B", 10)
		doc.Cell(0, 6, "Notes")
		doc.Ln(6)
		doc.SetFont("Helvetica", "", 9)
		doc.MultiCell(0, 5, snapshot.Notes, "", "L", false)
	}

	r.footer(doc)

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("writing pdf: %w", err)
	}

	return buf.Bytes(), nil
}

func (r *Renderer) header(doc *gofpdf.Fpdf, snapshot domain.QuoteDraft) {
	doc.SetFont("Helvetica", "B", 18)
	doc.Cell(0, 10, r.company)
	doc.Ln(10)

	doc.SetFont("Helvetica", "B", 13)
	doc.Cell(0, 8, fmt.Sprintf("Quote %s", snapshot.Number))
	doc.Ln(7)

	doc.SetFont("Helvetica", "", 10)
	doc.Cell(0, 6, fmt.Sprintf("Prepared %s", r.now().Format("January 2, 2006")))
	doc.Ln(6)
	tier := string(snapshot.Tier)
	if tier == "" {
		tier = string(domain.TierStandard)
	}

	doc.Cell(0, 6, fmt.Sprintf("Pricing tier: %s", strings.ToUpper(tier[:1])+tier[1:]))
	doc.Ln(10)
}

func (r *Renderer) customerBlock(doc *gofpdf.Fpdf, c domain.Customer) {
	doc.SetFont("Helvetica", "B", 10)
	doc.Cell(0, 6, "Prepared for")
	doc.Ln(6)

	doc.SetFont("Helvetica", "", 10)
	doc.Cell(0, 5, c.Name)
	doc.Ln(5)

	for _, line := range []string{c.Address, c.Email, c.Phone} {
		if line == "" {
			continue
		}

		doc.Cell(0, 5, line)
		doc.Ln(5)
	}

	doc.Ln(5)
}

func (r *Renderer) itemsTable(doc *gofpdf.Fpdf, items domain.Items) {
	doc.SetFont("Helvetica", "B", 10)
	doc.SetFillColor(235, 235, 235)
	doc.CellFormat(colName, 7, "Item", "1", 0, "L", true, 0, "")
	doc.CellFormat(colQty, 7, "Qty", "1", 0, "R", true, 0, "")
	doc.CellFormat(colUnit, 7, "Unit", "1", 0, "L", true, 0, "")
	doc.CellFormat(colPrice, 7, "Unit Price", "1", 0, "R", true, 0, "")
	doc.CellFormat(colTotal, 7, "Subtotal", "1", 0, "R", true, 0, "")
	doc.Ln(7)

	doc.SetFont("Helvetica", "", 9)

	for _, it := range items {
		doc.CellFormat(colName, 6, trim(it.Name, 48), "1", 0, "L", false, 0, "")
		doc.CellFormat(colQty, 6, it.Quantity.String(), "1", 0, "R", false, 0, "")
		doc.CellFormat(colUnit, 6, it.UnitLabel, "1", 0, "L", false, 0, "")
		doc.CellFormat(colPrice, 6, money(it.UnitPrice), "1", 0, "R", false, 0, "")
		doc.CellFormat(colTotal, 6, money(it.Subtotal), "1", 0, "R", false, 0, "")
		doc.Ln(6)
	}
}

func (r *Renderer) laborAndTotals(doc *gofpdf.Fpdf, snapshot domain.QuoteDraft, pricing domain.TierPricing) {
	doc.Ln(4)

	label := func(text string, value decimal.Decimal, bold bool) {
		style := ""
		if bold {
			style = "B"
		}

		doc.SetFont("Helvetica", style, 10)
		doc.CellFormat(colName+colQty+colUnit+colPrice, 6, text, "", 0, "R", false, 0, "")
		doc.CellFormat(colTotal, 6, money(value), "", 0, "R", false, 0, "")
		doc.Ln(6)
	}

	label("Materials", pricing.Materials, false)
	label(fmt.Sprintf("Labor (%s hrs @ %s/hr)", snapshot.LaborHours.String(), money(snapshot.LaborRate)), pricing.Labor, false)
	label(fmt.Sprintf("Markup (%s%%)", snapshot.MarkupPercent.String()), pricing.Markup, false)

	doc.SetDrawColor(120, 120, 120)
	doc.Line(120, doc.GetY(), 190, doc.GetY())
	doc.Ln(1)

	label("Total", pricing.Total, true)
}

func (r *Renderer) footer(doc *gofpdf.Fpdf) {
	if r.terms == "" {
		return
	}

	doc.Ln(6)
	doc.SetFont("Helvetica", "", 8)
	doc.SetTextColor(90, 90, 90)
	doc.MultiCell(0, 4, r.terms, "", "L", false)
	doc.SetTextColor(0, 0, 0)
}

func money(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

// trim shortens long item names to the column width. The suffix stays
// plain ASCII because the core fonts write cp1252 bytes raw.
func trim(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}

	return string(r[:max-3]) + "..."
}
