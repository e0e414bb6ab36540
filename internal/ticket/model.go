// Package ticket owns the printable-receipt data model and the document
// builder. A Sale handed to this package is immutable: the builder reads it,
// never mutates it, and tolerates every optional field being absent.
package ticket

import (
	"time"

	"github.com/shopspring/decimal"

	"ticketera/internal/format"
)

// WalkInCustomer is the placeholder name for sales without a customer
// account. The customer block is suppressed for it.
const WalkInCustomer = "Consumidor Final"

// PaymentMultiple marks a sale settled with more than one payment method;
// the per-method breakdown lives in Sale.PaymentBreakdown.
const PaymentMultiple = "multiple"

// LineItem is one sold product line. Quantity is an integer count for
// unit-type products and a decimal (min 0.001) for weight-type ones.
type LineItem struct {
	ProductName string          `json:"product_name"`
	UnitType    format.UnitType `json:"product_unit_type"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// LineTotal is quantity × unit price.
func (li LineItem) LineTotal() decimal.Decimal {
	return li.Quantity.Mul(li.UnitPrice)
}

// PaymentShare is one method's portion of a multi-method payment.
type PaymentShare struct {
	Method string          `json:"method"`
	Amount decimal.Decimal `json:"amount"`
}

// Sale is a completed sale as handed to the print subsystem.
// CAE / CAEExpiration carry the fiscal authorization when the sale was
// invoiced through AFIP; both empty otherwise.
type Sale struct {
	ID               int64           `json:"id"`
	CreatedAt        time.Time       `json:"created_at"`
	CustomerName     string          `json:"customer_name"`
	CustomerDocument string          `json:"customer_document"`
	CashierName      string          `json:"cashier_name"`
	Items            []LineItem      `json:"items"`
	Subtotal         decimal.Decimal `json:"subtotal"`
	Tax              decimal.Decimal `json:"tax"`
	Total            decimal.Decimal `json:"total"`
	PaymentMethod    string          `json:"payment_method"`
	PaymentBreakdown []PaymentShare  `json:"payment_methods_formatted,omitempty"`
	CAE              string          `json:"cae,omitempty"`
	CAEExpiration    string          `json:"cae_expiration,omitempty"`
}

// HasCustomer reports whether the sale carries a real customer (named and
// not the walk-in placeholder).
func (s *Sale) HasCustomer() bool {
	return s.CustomerName != "" && s.CustomerName != WalkInCustomer
}

// BusinessProfile is the business identity printed on ticket headers and
// footers. Read-only input to rendering; empty fields degrade to omission
// (or the placeholder name for Name).
type BusinessProfile struct {
	Name          string `json:"business_name"`
	Address       string `json:"business_address"`
	Phone         string `json:"business_phone"`
	Email         string `json:"business_email"`
	CUIT          string `json:"business_cuit"`
	Website       string `json:"business_website"`
	LogoURL       string `json:"business_logo,omitempty"`
	Slogan        string `json:"business_slogan"`
	FooterMessage string `json:"business_footer_message"`
}

// FontSize selects one of three discrete ticket font tiers.
type FontSize string

const (
	FontSmall  FontSize = "small"
	FontNormal FontSize = "normal"
	FontLarge  FontSize = "large"
)

// TicketConfig controls which optional blocks render and how. Each flag
// independently gates one document section; there is no ordering dependency
// between them. IncludeCAE additionally requires the Sale to carry a CAE.
type TicketConfig struct {
	EnablePrint       bool     `json:"enable_print"`
	AutoPrint         bool     `json:"auto_print"`
	PrinterName       string   `json:"printer_name"`
	PaperWidth        int      `json:"paper_width"` // 58 | 80 (mm)
	ShowLogo          bool     `json:"show_logo"`
	ShowBusinessInfo  bool     `json:"show_business_info"`
	ShowCUIT          bool     `json:"show_cuit"`
	ShowBarcode       bool     `json:"show_barcode"`
	ShowQR            bool     `json:"show_qr"`
	FontSize          FontSize `json:"font_size"`
	CopiesCount       int      `json:"copies_count"`
	HeaderMessage     string   `json:"header_message"`
	FooterMessage     string   `json:"footer_message"`
	ReturnPolicy      string   `json:"return_policy"`
	ShowCashier       bool     `json:"show_cashier"`
	ShowCustomer      bool     `json:"show_customer"`
	ShowPaymentMethod bool     `json:"show_payment_method"`
	ShowTaxBreakdown  bool     `json:"show_tax_breakdown"`
	FiscalType        string   `json:"fiscal_type"`
	IncludeCAE        bool     `json:"include_cae"`
}

// DefaultTicketConfig mirrors the defaults the configuration store seeds for
// a fresh installation.
func DefaultTicketConfig() TicketConfig {
	return TicketConfig{
		EnablePrint:       true,
		PaperWidth:        80,
		ShowLogo:          true,
		ShowBusinessInfo:  true,
		ShowCUIT:          true,
		FontSize:          FontNormal,
		CopiesCount:       1,
		FooterMessage:     "Gracias por su compra",
		ShowCashier:       true,
		ShowCustomer:      true,
		ShowPaymentMethod: true,
		ShowTaxBreakdown:  true,
		FiscalType:        "TICKET",
	}
}

// DefaultBusinessProfile is the placeholder profile used until the backend
// one is fetched.
func DefaultBusinessProfile() BusinessProfile {
	return BusinessProfile{
		Name:          "Mi Negocio",
		FooterMessage: "Gracias por su compra. Vuelva pronto!",
	}
}

// Copies bounds for a single print action.
const (
	MinCopies = 1
	MaxCopies = 5
)

// ClampCopies forces a requested copy count into [MinCopies, MaxCopies].
func ClampCopies(n int) int {
	if n < MinCopies {
		return MinCopies
	}
	if n > MaxCopies {
		return MaxCopies
	}
	return n
}

// PrintJob is the ephemeral value describing one print action. Created per
// invocation, never persisted.
type PrintJob struct {
	Sale    *Sale
	Profile BusinessProfile
	Config  TicketConfig
	Copies  int
}

// paymentLabels maps internal payment method codes to their printed labels.
var paymentLabels = map[string]string{
	"efectivo":         "Efectivo",
	"tarjeta_credito":  "Tarjeta de Crédito",
	"tarjeta_debito":   "Tarjeta de Débito",
	"transferencia":    "Transferencia",
	"cuenta_corriente": "Cuenta Corriente",
	PaymentMultiple:    "Múltiples",
}

// PaymentMethodLabel returns the printable label for a payment method code.
// Unknown codes pass through verbatim.
func PaymentMethodLabel(method string) string {
	if label, ok := paymentLabels[method]; ok {
		return label
	}
	return method
}
