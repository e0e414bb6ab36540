package ticket

// builder.go — thermal ticket document builder.
// Produces one self-contained HTML document per sale, sized to the configured
// paper width (58mm → 220px, 80mm → 300px), monospace, ready for the OS print
// dialog, a preview window, or download. Block order is fixed; every optional
// block is gated by its config flag AND the presence of its data, so the
// builder never fails for missing optional fields.

import (
	"fmt"
	"html"
	"strings"

	"ticketera/internal/format"
)

// fontTier holds the pixel sizes for each text role at one font_size tier.
type fontTier struct {
	body     int
	name     int // business name
	detail   int // item details / footer
	total    int
}

var fontTiers = map[FontSize]fontTier{
	FontSmall:  {body: 10, name: 14, detail: 9, total: 12},
	FontNormal: {body: 12, name: 16, detail: 11, total: 14},
	FontLarge:  {body: 14, name: 18, detail: 13, total: 16},
}

func tierFor(size FontSize) fontTier {
	if t, ok := fontTiers[size]; ok {
		return t
	}
	return fontTiers[FontNormal]
}

// paperWidthPx maps paper width in mm to the rendered column width.
func paperWidthPx(mm int) string {
	if mm == 58 {
		return "220px"
	}
	return "300px"
}

// BuildHTML renders the printable ticket document for a sale.
// It never returns an error: a zero-value profile degrades to placeholder
// headers and absent optional data simply omits the corresponding block.
func BuildHTML(sale *Sale, profile BusinessProfile, cfg TicketConfig) string {
	t := tierFor(cfg.FontSize)
	var b strings.Builder

	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"UTF-8\">\n")
	writeStyles(&b, cfg.PaperWidth, t)
	b.WriteString("</head>\n<body>\n<div class=\"ticket\">\n")

	writeHeader(&b, profile, cfg)

	// Free-text header message.
	if cfg.HeaderMessage != "" {
		b.WriteString(`<div class="separator"></div>`)
		fmt.Fprintf(&b, `<div class="center">%s</div>`, esc(cfg.HeaderMessage))
	}
	b.WriteString(`<div class="double-separator"></div>`)

	// Document title: fiscal type + sale id, then creation timestamp.
	fiscal := cfg.FiscalType
	if fiscal == "" {
		fiscal = "TICKET"
	}
	fmt.Fprintf(&b, `<div class="center bold">%s #%d</div>`, esc(fiscal), sale.ID)
	fmt.Fprintf(&b, `<div class="center">%s</div>`, format.DateTime(sale.CreatedAt))
	b.WriteString(`<div class="separator"></div>`)

	writeCustomer(&b, sale, cfg)
	writeCashier(&b, sale, cfg)
	b.WriteString(`<div class="separator"></div>`)

	writeItems(&b, sale)
	b.WriteString(`<div class="double-separator"></div>`)

	writeTotals(&b, sale, cfg, t)
	writePayments(&b, sale, cfg)
	writeCAE(&b, sale, cfg)

	// Barcode mount point: drawing is delegated to the host's barcode
	// renderer, keyed by sale id.
	if cfg.ShowBarcode {
		fmt.Fprintf(&b, `<div class="barcode"><svg id="barcode-%d"></svg></div>`, sale.ID)
	}

	if cfg.ReturnPolicy != "" {
		b.WriteString(`<div class="double-separator"></div>`)
		b.WriteString(`<div class="footer"><div class="bold">POLÍTICA DE DEVOLUCIONES</div>`)
		fmt.Fprintf(&b, `<div>%s</div></div>`, esc(cfg.ReturnPolicy))
	}

	writeFooter(&b, profile, cfg)

	b.WriteString("\n</div>\n</body>\n</html>\n")
	return b.String()
}

func writeStyles(b *strings.Builder, paperMM int, t fontTier) {
	if paperMM != 58 {
		paperMM = 80
	}
	fmt.Fprintf(b, `<style>
@media print {
  @page { margin: 0; size: %dmm auto; }
  body { margin: 0; padding: 0; }
}
body { font-family: 'Courier New', monospace; font-size: %dpx; line-height: 1.4; width: %s; margin: 0 auto; padding: 10px; color: #000; }
.ticket { width: 100%%; }
.center { text-align: center; }
.bold { font-weight: bold; }
.separator { border-top: 1px dashed #000; margin: 8px 0; }
.double-separator { border-top: 2px solid #000; margin: 8px 0; }
.header { text-align: center; margin-bottom: 10px; }
.business-name { font-size: %dpx; font-weight: bold; margin-bottom: 5px; }
.info-line { display: flex; justify-content: space-between; margin: 3px 0; }
.item-row { margin: 5px 0; }
.item-name { font-weight: bold; }
.item-details { display: flex; justify-content: space-between; font-size: %dpx; }
.total-section { margin-top: 10px; font-weight: bold; }
.footer { text-align: center; margin-top: 15px; font-size: %dpx; }
.barcode { text-align: center; margin: 10px 0; }
</style>
`, paperMM, t.body, paperWidthPx(paperMM), t.name, t.detail, t.detail)
}

func writeHeader(b *strings.Builder, profile BusinessProfile, cfg TicketConfig) {
	if !cfg.ShowBusinessInfo {
		return
	}
	b.WriteString(`<div class="header">`)
	if cfg.ShowLogo && profile.LogoURL != "" {
		fmt.Fprintf(b, `<img src="%s" style="max-width: 80px; margin-bottom: 5px;" alt="Logo">`, esc(profile.LogoURL))
	}
	name := profile.Name
	if name == "" {
		name = "MI NEGOCIO"
	}
	fmt.Fprintf(b, `<div class="business-name">%s</div>`, esc(name))
	if profile.Address != "" {
		fmt.Fprintf(b, `<div>%s</div>`, esc(profile.Address))
	}
	if profile.Phone != "" {
		fmt.Fprintf(b, `<div>Tel: %s</div>`, esc(profile.Phone))
	}
	if cfg.ShowCUIT && profile.CUIT != "" {
		fmt.Fprintf(b, `<div>CUIT: %s</div>`, esc(profile.CUIT))
	}
	if profile.Email != "" {
		fmt.Fprintf(b, `<div>%s</div>`, esc(profile.Email))
	}
	b.WriteString(`</div>`)
}

func writeCustomer(b *strings.Builder, sale *Sale, cfg TicketConfig) {
	if !cfg.ShowCustomer || !sale.HasCustomer() {
		return
	}
	infoLine(b, "Cliente:", esc(sale.CustomerName))
	if sale.CustomerDocument != "" {
		infoLine(b, "DNI/CUIT:", esc(sale.CustomerDocument))
	}
}

func writeCashier(b *strings.Builder, sale *Sale, cfg TicketConfig) {
	if !cfg.ShowCashier || sale.CashierName == "" {
		return
	}
	infoLine(b, "Cajero:", esc(sale.CashierName))
}

func writeItems(b *strings.Builder, sale *Sale) {
	b.WriteString(`<div class="bold">DETALLE DE COMPRA</div>`)
	b.WriteString(`<div class="separator"></div>`)
	for _, item := range sale.Items {
		b.WriteString(`<div class="item-row">`)
		fmt.Fprintf(b, `<div class="item-name">%s</div>`, esc(item.ProductName))
		fmt.Fprintf(b, `<div class="item-details"><span>%s %s x %s</span><span>%s</span></div>`,
			format.QuantityValue(item.Quantity, item.UnitType),
			format.UnitShort(item.UnitType),
			format.Currency(item.UnitPrice),
			format.Currency(item.LineTotal()))
		b.WriteString(`</div>`)
	}
}

func writeTotals(b *strings.Builder, sale *Sale, cfg TicketConfig, t fontTier) {
	infoLine(b, "Subtotal:", format.Currency(sale.Subtotal))
	if cfg.ShowTaxBreakdown && sale.Tax.IsPositive() {
		infoLine(b, "IVA (21%):", format.Currency(sale.Tax))
	}
	b.WriteString(`<div class="double-separator"></div>`)
	fmt.Fprintf(b, `<div class="info-line total-section" style="font-size: %dpx;"><span>TOTAL:</span><span>%s</span></div>`,
		t.total, format.Currency(sale.Total))
}

func writePayments(b *strings.Builder, sale *Sale, cfg TicketConfig) {
	if !cfg.ShowPaymentMethod {
		return
	}
	b.WriteString(`<div class="separator"></div>`)
	if sale.PaymentMethod == PaymentMultiple && len(sale.PaymentBreakdown) > 0 {
		b.WriteString(`<div class="bold">FORMAS DE PAGO:</div>`)
		for _, share := range sale.PaymentBreakdown {
			infoLine(b, esc(PaymentMethodLabel(share.Method))+":", format.Currency(share.Amount))
		}
		return
	}
	infoLine(b, "Forma de pago:", esc(PaymentMethodLabel(sale.PaymentMethod)))
}

func writeCAE(b *strings.Builder, sale *Sale, cfg TicketConfig) {
	if !cfg.IncludeCAE || sale.CAE == "" {
		return
	}
	b.WriteString(`<div class="separator"></div><div class="center">`)
	fmt.Fprintf(b, `<div>CAE: %s</div>`, esc(sale.CAE))
	fmt.Fprintf(b, `<div>Vto. CAE: %s</div>`, esc(sale.CAEExpiration))
	b.WriteString(`</div>`)
}

func writeFooter(b *strings.Builder, profile BusinessProfile, cfg TicketConfig) {
	// Ticket-level footer message overrides the business-level default.
	footer := cfg.FooterMessage
	if footer == "" {
		footer = profile.FooterMessage
	}
	if footer != "" {
		b.WriteString(`<div class="double-separator"></div>`)
		fmt.Fprintf(b, `<div class="footer">%s</div>`, esc(footer))
	}
	if profile.Slogan != "" {
		fmt.Fprintf(b, `<div class="footer">%s</div>`, esc(profile.Slogan))
	}
	if profile.Website != "" {
		fmt.Fprintf(b, `<div class="footer">%s</div>`, esc(profile.Website))
	}
}

func infoLine(b *strings.Builder, label, value string) {
	fmt.Fprintf(b, `<div class="info-line"><span>%s</span><span>%s</span></div>`, label, value)
}

func esc(s string) string { return html.EscapeString(s) }
