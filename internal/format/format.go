// Package format provides locale-aware display formatting for monetary
// amounts, quantities, dates, and percentages. Every function is total:
// malformed input produces a readable fallback, never a panic or an error.
// Locale is fixed to es-AR (thousand '.', decimal ',', America/Argentina/
// Buenos_Aires timezone) — the system is not multi-locale.
package format

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// UnitType distinguishes discrete products (sold by unit) from continuous
// ones (sold by weight).
type UnitType string

const (
	UnitUnits  UnitType = "unidades"
	UnitWeight UnitType = "kg"
)

// BuenosAires is the fixed display timezone. LoadLocation can fail on hosts
// without tzdata; UTC-3 has no DST so a fixed zone is an exact fallback.
var BuenosAires = loadBuenosAires()

func loadBuenosAires() *time.Location {
	if loc, err := time.LoadLocation("America/Argentina/Buenos_Aires"); err == nil {
		return loc
	}
	return time.FixedZone("-03", -3*60*60)
}

// Currency formats an amount as Argentine pesos: "$1.500,00".
// Two fraction digits always; negative amounts keep the sign before the "$".
func Currency(amount decimal.Decimal) string {
	neg := amount.IsNegative()
	s := amount.Abs().StringFixed(2)

	intPart := s[:len(s)-3]
	fracPart := s[len(s)-2:]

	out := "$" + groupThousands(intPart) + "," + fracPart
	if neg {
		return "-" + out
	}
	return out
}

// CurrencyFloat formats a float amount as Argentine pesos. NaN and ±Inf
// render as the formatted zero, matching the "invalid amount → $0,00"
// contract for values arriving from untyped JSON.
func CurrencyFloat(amount float64) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return Currency(decimal.Zero)
	}
	return Currency(decimal.NewFromFloat(amount))
}

// Number formats a plain number with es-AR thousand separators.
func Number(n decimal.Decimal) string {
	neg := n.IsNegative()
	s := n.Abs().String()

	intPart := s
	fracPart := ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, fracPart = s[:i], s[i+1:]
	}

	out := groupThousands(intPart)
	if fracPart != "" {
		out += "," + fracPart
	}
	if neg {
		return "-" + out
	}
	return out
}

// groupThousands inserts '.' every three digits: "1500000" → "1.500.000".
func groupThousands(digits string) string {
	n := len(digits)
	if n <= 3 {
		return digits
	}
	var b strings.Builder
	head := n % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < n; i += 3 {
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// QuantityValue renders the bare quantity number for a unit type.
// Weight: up to 3 fraction digits with trailing zeros stripped ("0.250" →
// "0.25", "3.000" → "3"). Units: floored integer. The decimal point stays
// '.' here — quantities on the ticket mirror the raw numeric entry, only
// currency uses the ',' separator.
func QuantityValue(q decimal.Decimal, unit UnitType) string {
	if unit == UnitWeight {
		s := q.StringFixed(3)
		s = strings.TrimRight(s, "0")
		return strings.TrimSuffix(s, ".")
	}
	return q.Floor().String()
}

// Quantity renders a quantity with its long unit label: "2.5 kg", "3 unidades".
func Quantity(q decimal.Decimal, unit UnitType) string {
	return QuantityValue(q, unit) + " " + UnitLabel(unit)
}

// UnitLabel returns the long label for a unit type.
func UnitLabel(unit UnitType) string {
	if unit == UnitWeight {
		return "kg"
	}
	return "unidades"
}

// UnitShort returns the compact label used on ticket item rows.
func UnitShort(unit UnitType) string {
	if unit == UnitWeight {
		return "kg"
	}
	return "un"
}

// Stock formats a stock level; negative levels keep their sign so deficits
// are visible in movement listings.
func Stock(stock decimal.Decimal, unit UnitType, showUnit bool) string {
	v := QuantityValue(stock, unit)
	if stock.IsNegative() && !strings.HasPrefix(v, "-") {
		v = "-" + v
	}
	if !showUnit {
		return v
	}
	return v + " " + UnitLabel(unit)
}

// MovementQuantity formats the magnitude of a stock movement (sign dropped).
func MovementQuantity(q decimal.Decimal, unit UnitType) string {
	return Quantity(q.Abs(), unit)
}

// ValidateQuantity reports whether q is sellable for the unit type:
// units must be positive integers, weight at least 0.001 kg.
func ValidateQuantity(q decimal.Decimal, unit UnitType) bool {
	if q.Sign() <= 0 {
		return false
	}
	if unit == UnitWeight {
		return q.GreaterThanOrEqual(decimal.NewFromFloat(0.001))
	}
	return q.IsInteger()
}

// QuantityStep returns the input step hint for a unit type.
func QuantityStep(unit UnitType) string {
	if unit == UnitWeight {
		return "0.001"
	}
	return "1"
}

// QuantityMin returns the minimum input value for a unit type.
func QuantityMin(unit UnitType) string {
	if unit == UnitWeight {
		return "0.001"
	}
	return "1"
}

// Percentage formats a percentage value (21 → "21,0%"). One fraction digit
// minimum, two maximum.
func Percentage(v decimal.Decimal) string {
	s := v.StringFixed(2)
	if strings.HasSuffix(s, "0") {
		s = s[:len(s)-1]
	}
	return strings.Replace(s, ".", ",", 1) + "%"
}

var spanishMonths = [...]string{
	"enero", "febrero", "marzo", "abril", "mayo", "junio",
	"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
}

var spanishWeekdays = [...]string{
	"domingo", "lunes", "martes", "miércoles", "jueves", "viernes", "sábado",
}

// monthShort is the es-AR abbreviated month ("ene", "feb", …).
func monthShort(m time.Month) string {
	return spanishMonths[m-1][:3]
}

const (
	msgNoDate      = "Fecha no disponible"
	msgInvalidDate = "Fecha inválida"
)

// Date formats a date long-form in Spanish: "10 de febrero de 2026".
// The zero time renders as the missing-date message.
func Date(t time.Time) string {
	if t.IsZero() {
		return msgNoDate
	}
	t = t.In(BuenosAires)
	return fmt.Sprintf("%d de %s de %d", t.Day(), spanishMonths[t.Month()-1], t.Year())
}

// DateTime formats a timestamp as "02/01/2006 15:04" in Buenos Aires time.
func DateTime(t time.Time) string {
	if t.IsZero() {
		return msgNoDate
	}
	return t.In(BuenosAires).Format("02/01/2006 15:04")
}

// ParseLocalDate parses "YYYY-MM-DD" (an ISO timestamp prefix also works)
// as a local date, avoiding the UTC-midnight shift that would show the
// previous day in UTC-3. Returns the zero time when unparseable.
func ParseLocalDate(s string) time.Time {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, 'T'); i >= 0 {
		s = s[:i]
	}
	t, err := time.ParseInLocation("2006-01-02", s, BuenosAires)
	if err != nil {
		return time.Time{}
	}
	return t
}

// PeriodLabelShort renders a period value for chart axes: "mar 10 feb".
// Unparseable input comes back verbatim rather than as a raw timestamp.
func PeriodLabelShort(period string) string {
	t := ParseLocalDate(period)
	if t.IsZero() {
		return period
	}
	return fmt.Sprintf("%s %d %s", spanishWeekdays[t.Weekday()][:3], t.Day(), monthShort(t.Month()))
}

// DateRange summarizes a date range for subtitles. Identical start and end
// collapse to one long-form date ("lunes, 10 de febrero"); otherwise
// "1 feb – 10 feb 2026". Unparseable bounds fall back to "start hasta end".
func DateRange(startStr, endStr string) string {
	start := ParseLocalDate(startStr)
	end := ParseLocalDate(endStr)
	if start.IsZero() || end.IsZero() {
		return startStr + " hasta " + endStr
	}
	if start.Equal(end) {
		return fmt.Sprintf("%s, %d de %s", spanishWeekdays[start.Weekday()], start.Day(), spanishMonths[start.Month()-1])
	}
	return fmt.Sprintf("%d %s – %d %s %d",
		start.Day(), monthShort(start.Month()),
		end.Day(), monthShort(end.Month()), end.Year())
}
