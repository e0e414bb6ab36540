package ticket

// pdf.go — PDF rendition of the ticket for download/archival.
// Same block sequence as BuildHTML, laid out on a thermal-sized page
// (58mm or 80mm wide) with go-pdf/fpdf. When show_barcode is set a real
// Code 128 symbol is drawn instead of the HTML mount point.

import (
	"bytes"
	"fmt"
	"image/png"
	"strconv"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/code128"
	"github.com/go-pdf/fpdf"

	"ticketera/internal/format"
)

// BuildPDF renders the ticket to PDF bytes. Unlike BuildHTML it can fail:
// the PDF encoder or the barcode generator may reject the input.
func BuildPDF(sale *Sale, profile BusinessProfile, cfg TicketConfig) ([]byte, error) {
	pageW := 80.0
	if cfg.PaperWidth == 58 {
		pageW = 58.0
	}

	// Thermal paper is continuous; estimate a tall-enough page instead of
	// paginating. 4mm per body line plus fixed header/footer allowance.
	lines := len(sale.Items)*2 + len(sale.PaymentBreakdown) + 30
	pageH := float64(lines) * 4.0

	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: pageW, Ht: pageH},
	})
	pdf.SetMargins(4, 4, 4)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	contentW := pageW - 8
	col := contentW / 2

	sep := func() {
		pdf.Ln(1)
		pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
		pdf.Ln(2)
	}
	line := func(label, value string) {
		pdf.SetFont("Courier", "", 7)
		pdf.CellFormat(col, 4, tr(label), "", 0, "L", false, 0, "")
		pdf.CellFormat(col, 4, tr(value), "", 1, "R", false, 0, "")
	}
	center := func(s string, size float64, style string) {
		pdf.SetFont("Courier", style, size)
		pdf.CellFormat(contentW, size*0.55, tr(s), "", 1, "C", false, 0, "")
	}

	// Header.
	if cfg.ShowBusinessInfo {
		name := profile.Name
		if name == "" {
			name = "MI NEGOCIO"
		}
		center(name, 11, "B")
		if profile.Address != "" {
			center(profile.Address, 7, "")
		}
		if profile.Phone != "" {
			center("Tel: "+profile.Phone, 7, "")
		}
		if cfg.ShowCUIT && profile.CUIT != "" {
			center("CUIT: "+profile.CUIT, 7, "")
		}
		if profile.Email != "" {
			center(profile.Email, 7, "")
		}
	}
	if cfg.HeaderMessage != "" {
		sep()
		center(cfg.HeaderMessage, 7, "")
	}
	sep()

	fiscal := cfg.FiscalType
	if fiscal == "" {
		fiscal = "TICKET"
	}
	center(fmt.Sprintf("%s #%d", fiscal, sale.ID), 9, "B")
	center(format.DateTime(sale.CreatedAt), 7, "")
	sep()

	if cfg.ShowCustomer && sale.HasCustomer() {
		line("Cliente:", sale.CustomerName)
		if sale.CustomerDocument != "" {
			line("DNI/CUIT:", sale.CustomerDocument)
		}
	}
	if cfg.ShowCashier && sale.CashierName != "" {
		line("Cajero:", sale.CashierName)
	}
	sep()

	pdf.SetFont("Courier", "B", 7)
	pdf.CellFormat(contentW, 4, "DETALLE DE COMPRA", "", 1, "L", false, 0, "")
	sep()
	for _, item := range sale.Items {
		pdf.SetFont("Courier", "B", 7)
		pdf.CellFormat(contentW, 4, tr(item.ProductName), "", 1, "L", false, 0, "")
		detail := fmt.Sprintf("%s %s x %s",
			format.QuantityValue(item.Quantity, item.UnitType),
			format.UnitShort(item.UnitType),
			format.Currency(item.UnitPrice))
		pdf.SetFont("Courier", "", 6)
		pdf.CellFormat(col, 4, tr(detail), "", 0, "L", false, 0, "")
		pdf.CellFormat(col, 4, tr(format.Currency(item.LineTotal())), "", 1, "R", false, 0, "")
	}
	sep()

	line("Subtotal:", format.Currency(sale.Subtotal))
	if cfg.ShowTaxBreakdown && sale.Tax.IsPositive() {
		line("IVA (21%):", format.Currency(sale.Tax))
	}
	sep()
	pdf.SetFont("Courier", "B", 9)
	pdf.CellFormat(col, 5, "TOTAL:", "", 0, "L", false, 0, "")
	pdf.CellFormat(col, 5, tr(format.Currency(sale.Total)), "", 1, "R", false, 0, "")

	if cfg.ShowPaymentMethod {
		sep()
		if sale.PaymentMethod == PaymentMultiple && len(sale.PaymentBreakdown) > 0 {
			pdf.SetFont("Courier", "B", 7)
			pdf.CellFormat(contentW, 4, "FORMAS DE PAGO:", "", 1, "L", false, 0, "")
			for _, share := range sale.PaymentBreakdown {
				line(PaymentMethodLabel(share.Method)+":", format.Currency(share.Amount))
			}
		} else {
			line("Forma de pago:", PaymentMethodLabel(sale.PaymentMethod))
		}
	}

	if cfg.IncludeCAE && sale.CAE != "" {
		sep()
		center("CAE: "+sale.CAE, 7, "")
		center("Vto. CAE: "+sale.CAEExpiration, 7, "")
	}

	if cfg.ShowBarcode {
		if err := drawBarcode(pdf, sale.ID, pageW); err != nil {
			return nil, fmt.Errorf("ticket: barcode: %w", err)
		}
	}

	if cfg.ReturnPolicy != "" {
		sep()
		center("POLÍTICA DE DEVOLUCIONES", 7, "B")
		center(cfg.ReturnPolicy, 6, "")
	}

	footer := cfg.FooterMessage
	if footer == "" {
		footer = profile.FooterMessage
	}
	if footer != "" {
		sep()
		center(footer, 7, "I")
	}
	if profile.Slogan != "" {
		center(profile.Slogan, 6, "I")
	}
	if profile.Website != "" {
		center(profile.Website, 6, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("ticket: write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// drawBarcode renders the sale id as Code 128 centered on the page.
func drawBarcode(pdf *fpdf.Fpdf, saleID int64, pageW float64) error {
	code, err := code128.Encode(strconv.FormatInt(saleID, 10))
	if err != nil {
		return err
	}
	scaled, err := barcode.Scale(code, 200, 50)
	if err != nil {
		return err
	}
	var img bytes.Buffer
	if err := png.Encode(&img, scaled); err != nil {
		return err
	}

	name := fmt.Sprintf("barcode-%d", saleID)
	pdf.RegisterImageOptionsReader(name, fpdf.ImageOptions{ImageType: "PNG"}, &img)
	if pdf.Err() {
		return pdf.Error()
	}
	w := pageW - 16
	pdf.Ln(2)
	pdf.ImageOptions(name, (pageW-w)/2, pdf.GetY(), w, 10, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")
	pdf.Ln(12)
	return nil
}
