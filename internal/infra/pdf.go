package infra

// pdf.go renders 80mm thermal receipts with go-pdf/fpdf. Sales and
// deliveries share the layout: company header, document info, line table,
// totals block and footer. Page height grows with the number of lines.

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/st9-8/mouegne/internal/config"
	"github.com/st9-8/mouegne/internal/model"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

const receiptWidth = 80.0 // mm, matches PRINT_MEDIA X80mm

type receiptLine struct {
	name     string
	quantity int
	price    decimal.Decimal
	total    decimal.Decimal
}

type receiptDoc struct {
	title    string
	number   string
	date     string
	info     [][2]string // label, value pairs under the header
	lines    []receiptLine
	subTotal decimal.Decimal
	tax      decimal.Decimal
	taxPct   decimal.Decimal
	grand    decimal.Decimal
	paid     decimal.Decimal
	change   decimal.Decimal
	footer   string
}

// RenderSaleReceipt renders the receipt of a sale. The sale must carry its
// Details (with Item) and Customer.
func RenderSaleReceipt(s *model.Sale, company config.Company) ([]byte, error) {
	doc := receiptDoc{
		title:    "Sale receipt",
		number:   shortID(s.ID.String()),
		date:     s.CreatedAt.Format("02/01/2006 15:04"),
		subTotal: s.SubTotal,
		tax:      s.TaxAmount,
		taxPct:   s.TaxPercentage,
		grand:    s.GrandTotal,
		paid:     s.AmountPaid,
		change:   s.AmountChange,
		footer:   "Thank you for your purchase!",
	}
	if s.Customer != nil {
		doc.info = append(doc.info, [2]string{"Customer", s.Customer.FullName()})
	}
	for _, d := range s.Details {
		doc.lines = append(doc.lines, receiptLine{name: itemName(d.Item), quantity: d.Quantity, price: d.Price, total: d.TotalDetail})
	}
	return renderReceipt(doc, company)
}

// RenderDeliveryReceipt renders the slip of a delivery, booked or confirmed.
func RenderDeliveryReceipt(d *model.Delivery, company config.Company) ([]byte, error) {
	status := "To deliver"
	if d.Delivered() {
		status = "Delivered"
	}
	doc := receiptDoc{
		title:  "Delivery receipt",
		number: shortID(d.ID.String()),
		date:   d.UpdatedAt.Format("02/01/2006 15:04"),
		info: [][2]string{
			{"Customer", d.CustomerName},
			{"Phone", d.PhoneNumber},
			{"Location", d.Location},
			{"Delivery date", d.DeliveryDate.Format("02/01/2006 15:04")},
			{"Status", status},
		},
		subTotal: d.SubTotal,
		tax:      d.TaxAmount,
		taxPct:   d.TaxPercentage,
		grand:    d.GrandTotal,
		paid:     d.AmountPaid,
		change:   d.AmountChange,
		footer:   "Thank you for your trust!",
	}
	for _, det := range d.Details {
		doc.lines = append(doc.lines, receiptLine{name: itemName(det.Item), quantity: det.Quantity, price: det.Price, total: det.TotalDetail})
	}
	return renderReceipt(doc, company)
}

// SaveReceipt writes a rendered PDF under storagePath and returns the path
// relative to it.
func SaveReceipt(storagePath, name string, data []byte) (string, error) {
	if err := os.MkdirAll(storagePath, 0o755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}
	if err := os.WriteFile(filepath.Join(storagePath, name), data, 0o644); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}
	return name, nil
}

func renderReceipt(doc receiptDoc, company config.Company) ([]byte, error) {
	height := 95 + float64(len(doc.info))*4 + float64(len(doc.lines))*5
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: receiptWidth, Ht: height},
	})
	pdf.SetMargins(4, 4, 4)
	pdf.SetAutoPageBreak(false, 4)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 8
	currency := company.Currency

	// header
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(contentW, 7, tr(company.Name), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 7)
	for _, l := range []string{company.Address, company.Phone, company.Email} {
		if l != "" {
			pdf.CellFormat(contentW, 4, tr(l), "", 1, "C", false, 0, "")
		}
	}
	if company.TaxNumber != "" {
		pdf.CellFormat(contentW, 4, tr("Tax number: "+company.TaxNumber), "", 1, "C", false, 0, "")
	}
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(contentW, 5, tr(doc.title+" #"+doc.number), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(contentW, 4, doc.date, "", 1, "L", false, 0, "")
	for _, kv := range doc.info {
		pdf.CellFormat(contentW*0.35, 4, tr(kv[0]+":"), "", 0, "L", false, 0, "")
		pdf.CellFormat(contentW*0.65, 4, tr(kv[1]), "", 1, "L", false, 0, "")
	}
	pdf.Ln(1)
	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(2)

	// lines
	col1 := contentW * 0.42
	col2 := contentW * 0.12
	col3 := contentW * 0.22
	col4 := contentW * 0.24

	pdf.SetFont("Helvetica", "B", 7)
	pdf.CellFormat(col1, 5, "Item", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 5, "Qty", "B", 0, "C", false, 0, "")
	pdf.CellFormat(col3, 5, "Price", "B", 0, "R", false, 0, "")
	pdf.CellFormat(col4, 5, "Total", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	for _, l := range doc.lines {
		name := l.name
		if len([]rune(name)) > 20 {
			name = string([]rune(name)[:19]) + "."
		}
		pdf.CellFormat(col1, 5, tr(name), "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 5, fmt.Sprintf("%d", l.quantity), "", 0, "C", false, 0, "")
		pdf.CellFormat(col3, 5, l.price.StringFixed(2), "", 0, "R", false, 0, "")
		pdf.CellFormat(col4, 5, l.total.StringFixed(2), "", 1, "R", false, 0, "")
	}

	pdf.Ln(2)
	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(2)

	// totals
	labelW := col1 + col2 + col3
	row := func(label string, v decimal.Decimal) {
		pdf.CellFormat(labelW, 4, tr(label), "", 0, "L", false, 0, "")
		pdf.CellFormat(col4, 4, v.StringFixed(2), "", 1, "R", false, 0, "")
	}
	pdf.SetFont("Helvetica", "", 7)
	row("Sub total:", doc.subTotal)
	row(fmt.Sprintf("Tax (%s%%):", doc.taxPct.String()), doc.tax)
	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(labelW, 6, tr("TOTAL ("+currency+"):"), "", 0, "L", false, 0, "")
	pdf.CellFormat(col4, 6, doc.grand.StringFixed(2), "", 1, "R", false, 0, "")
	pdf.SetFont("Helvetica", "", 7)
	row("Paid:", doc.paid)
	row("Change:", doc.change)

	pdf.Ln(3)
	pdf.SetFont("Helvetica", "I", 7)
	pdf.CellFormat(contentW, 4, tr(doc.footer), "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf: render: %w", err)
	}
	return buf.Bytes(), nil
}

func itemName(i *model.Item) string {
	if i == nil {
		return ""
	}
	return i.Name
}

func shortID(id string) string {
	if len(id) < 8 {
		return id
	}
	return id[:8]
}
