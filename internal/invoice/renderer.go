package invoice

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/agnar3901/sign-manufacturing-app/config"
	"github.com/agnar3901/sign-manufacturing-app/internal/models"

	"github.com/jung-kurt/gofpdf"
)

// FormatAmount renders a money value the way it appears everywhere in the
// system: rupee-prefixed with two decimals.
func FormatAmount(v float64) string {
	return fmt.Sprintf("₹%.2f", v)
}

// Totals is the computed totals block of an invoice.
type Totals struct {
	Subtotal       float64
	DiscountAmount float64 // subtotal * discount / 100, 0 when no discount
	Total          float64
}

// ComputeTotals derives the totals block from quantity, rate and the
// optional discount percentage.
func ComputeTotals(o *models.Order) Totals {
	subtotal := float64(o.Quantity) * o.Rate
	discountAmount := subtotal * o.DiscountPercent() / 100
	return Totals{
		Subtotal:       subtotal,
		DiscountAmount: discountAmount,
		Total:          subtotal - discountAmount,
	}
}

// Description builds the line-item description, annotated with material and
// lamination when present. Lamination is only meaningful for foam items.
func Description(o *models.Order) string {
	lines := []string{o.ItemType}
	if o.Material != "" {
		lines = append(lines, "Material: "+o.Material)
	}
	if o.ItemType == "foam" && o.Lamination != nil {
		lam := "No"
		if *o.Lamination {
			lam = "Yes"
		}
		lines = append(lines, "Lamination: "+lam)
	}
	return strings.Join(lines, "\n")
}

// Renderer turns an order record into a paginated PDF invoice. It is a pure
// transformation: the only side effect is the file written to the
// caller-supplied path.
type Renderer struct {
	company config.CompanyInfo
}

func NewRenderer(company config.CompanyInfo) *Renderer {
	return &Renderer{company: company}
}

// Generate writes the invoice PDF for the order to outPath, creating parent
// directories as needed. Missing optional fields (material, lamination,
// discount, notes) are simply omitted from the layout.
func (r *Renderer) Generate(o *models.Order, outPath string) error {
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("create invoice directory: %w", err)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(25, 25, 25)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	// Company header
	pdf.SetFont("Helvetica", "B", 22)
	pdf.SetTextColor(37, 99, 235)
	pdf.CellFormat(0, 12, tr(r.company.Name), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(0, 6, tr(r.company.Tagline), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 6, tr(r.company.Address), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 6, tr(fmt.Sprintf("Phone: %s | Email: %s", r.company.Phone, r.company.Email)), "", 1, "C", false, 0, "")
	pdf.Ln(6)

	// Invoice number and date block
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(45, 8, "Invoice Number:", "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 12)
	pdf.CellFormat(0, 8, tr(o.InvoiceID), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(45, 8, "Date:", "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 12)
	pdf.CellFormat(0, 8, time.Now().Format("January 02, 2006"), "", 1, "L", false, 0, "")
	pdf.Ln(8)

	// Customer block
	pdf.SetFont("Helvetica", "B", 13)
	pdf.SetTextColor(31, 41, 55)
	pdf.CellFormat(0, 8, "Bill To:", "", 1, "L", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(0, 6, tr(o.CustomerName), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 6, tr("Phone: "+o.PhoneNumber), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, tr("Email: "+o.EmailAddress), "", 1, "L", false, 0, "")
	pdf.Ln(8)

	r.writeItemTable(pdf, tr, o)
	r.writeTotals(pdf, tr, o)

	// Payment and delivery block
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(35, 6, "Payment Mode:", "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 6, tr(o.PaymentMode), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(35, 6, "Delivery Type:", "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 6, tr(o.DeliveryType), "", 1, "L", false, 0, "")

	if o.Notes != "" {
		pdf.Ln(6)
		pdf.SetFont("Helvetica", "B", 13)
		pdf.SetTextColor(31, 41, 55)
		pdf.CellFormat(0, 8, "Notes:", "", 1, "L", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
		pdf.SetFont("Helvetica", "", 11)
		pdf.MultiCell(0, 6, tr(o.Notes), "", "L", false)
	}

	// Footer
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(128, 128, 128)
	pdf.CellFormat(0, 5, tr(fmt.Sprintf("Thank you for choosing %s!", r.company.Name)), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 5, tr(fmt.Sprintf("For any queries, please contact us at %s", r.company.Phone)), "", 1, "C", false, 0, "")

	if err := pdf.OutputFileAndClose(outPath); err != nil {
		return fmt.Errorf("write invoice pdf: %w", err)
	}
	return nil
}

func (r *Renderer) writeItemTable(pdf *gofpdf.Fpdf, tr func(string) string, o *models.Order) {
	pdf.SetFont("Helvetica", "B", 13)
	pdf.SetTextColor(31, 41, 55)
	pdf.CellFormat(0, 8, "Order Details:", "", 1, "L", false, 0, "")

	colWidths := []float64{55, 30, 20, 25, 30}
	headers := []string{"Description", "Size", "Qty", "Rate", "Amount"}

	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetFillColor(37, 99, 235)
	pdf.SetTextColor(255, 255, 255)
	for i, h := range headers {
		pdf.CellFormat(colWidths[i], 9, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(0, 0, 0)

	desc := Description(o)
	descLines := strings.Split(desc, "\n")
	rowHeight := float64(len(descLines)) * 6
	if rowHeight < 9 {
		rowHeight = 9
	}

	x, y := pdf.GetXY()
	pdf.MultiCell(colWidths[0], rowHeight/float64(len(descLines)), tr(desc), "1", "C", false)
	pdf.SetXY(x+colWidths[0], y)
	cells := []string{
		o.Size,
		fmt.Sprintf("%d", o.Quantity),
		FormatAmount(o.Rate),
		FormatAmount(o.Total),
	}
	for i, c := range cells {
		pdf.CellFormat(colWidths[i+1], rowHeight, tr(c), "1", 0, "C", false, 0, "")
	}
	pdf.Ln(rowHeight)
	pdf.Ln(6)
}

func (r *Renderer) writeTotals(pdf *gofpdf.Fpdf, tr func(string) string, o *models.Order) {
	t := ComputeTotals(o)

	pdf.SetFont("Helvetica", "", 12)
	pdf.CellFormat(120, 7, "Subtotal:", "", 0, "R", false, 0, "")
	pdf.CellFormat(40, 7, tr(FormatAmount(t.Subtotal)), "", 1, "R", false, 0, "")

	if o.DiscountPercent() != 0 {
		pdf.CellFormat(120, 7, tr(fmt.Sprintf("Discount (%g%%):", o.DiscountPercent())), "", 0, "R", false, 0, "")
		pdf.CellFormat(40, 7, tr("-"+FormatAmount(t.DiscountAmount)), "", 1, "R", false, 0, "")
	}

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(120, 8, "Total Amount:", "T", 0, "R", false, 0, "")
	pdf.CellFormat(40, 8, tr(FormatAmount(t.Total)), "T", 1, "R", false, 0, "")
}
