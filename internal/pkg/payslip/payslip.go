package payslip

import (
	"bytes"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Payslip holds the values printed on one employee's monthly payslip.
type Payslip struct {
	EmployeeName   string
	EmployeeCode   string
	DepartmentName string
	Month          int
	Year           int
	TotalHours     decimal.Decimal
	BaseSalary     decimal.Decimal
	OvertimePay    decimal.Decimal
	NetPay         decimal.Decimal
	Status         string
	CalculatedAt   time.Time
}

type Generator struct {
	companyName string
	currency    string
}

func NewGenerator(companyName, currency string) *Generator {
	return &Generator{companyName: companyName, currency: currency}
}

// Render returns the payslip as a single-page A4 PDF.
func (g *Generator) Render(p Payslip) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("Payslip %s %04d-%02d", p.EmployeeCode, p.Year, p.Month), true)
	pdf.SetCreator(g.companyName, true)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	text := func(s string) string { return tr(FoldToLatin1(s)) }

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, text(g.companyName))
	pdf.Ln(10)
	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 8, fmt.Sprintf("Payslip - %s %d", time.Month(p.Month), p.Year))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	g.row(pdf, "Employee", text(p.EmployeeName))
	g.row(pdf, "Employee code", text(p.EmployeeCode))
	if p.DepartmentName != "" {
		g.row(pdf, "Department", text(p.DepartmentName))
	}
	g.row(pdf, "Status", strings.ToUpper(p.Status))
	g.row(pdf, "Calculated at", p.CalculatedAt.UTC().Format("2006-01-02 15:04 MST"))
	pdf.Ln(4)

	g.row(pdf, "Hours worked", p.TotalHours.StringFixed(2))
	g.row(pdf, "Base salary", g.money(p.BaseSalary))
	g.row(pdf, "Overtime pay", g.money(p.OvertimePay))
	pdf.SetFont("Helvetica", "B", 11)
	g.row(pdf, "Net pay", g.money(p.NetPay))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render payslip: %w", err)
	}
	return buf.Bytes(), nil
}

func (g *Generator) row(pdf *gofpdf.Fpdf, label, value string) {
	pdf.CellFormat(50, 7, label, "", 0, "L", false, 0, "")
	pdf.CellFormat(0, 7, value, "", 1, "L", false, 0, "")
}

func (g *Generator) money(d decimal.Decimal) string {
	return g.currency + " " + FormatAmount(d)
}

// FormatAmount renders a whole-unit amount with thousands separators.
func FormatAmount(d decimal.Decimal) string {
	s := d.Round(0).StringFixed(0)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	var b strings.Builder
	for i, c := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}

var latinFallback = map[rune]string{
	'Đ': "D", 'đ': "d",
	'Ł': "L", 'ł': "l",
	'Ħ': "H", 'ħ': "h",
}

// FoldToLatin1 keeps Latin-1 text as is and strips diacritics from other
// letters, since the core PDF fonts only cover cp1252.
func FoldToLatin1(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r <= unicode.MaxLatin1 {
			b.WriteRune(r)
			continue
		}
		if alt, ok := latinFallback[r]; ok {
			b.WriteString(alt)
			continue
		}
		stripMarks := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
		folded, _, err := transform.String(stripMarks, string(r))
		if err != nil {
			folded = "?"
		}
		b.WriteString(folded)
	}
	return b.String()
}
