package documents

import (
	"bytes"
	"context"
	"embed"
	"html/template"
	"maps"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

//go:embed templates/*.html
var templateFS embed.FS

const defaultInvoiceTemplate = "templates/invoice_a4.html"

// PracticeDetails is the letterhead block rendered at the top of documents.
type PracticeDetails struct {
	Name    string
	Address string
	Phone   string
	Email   string
	ABN     string
}

// InvoiceLine is one charge item row on the invoice.
type InvoiceLine struct {
	PatientName string
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	Amount      decimal.Decimal
}

// InvoiceData is the data bound to the invoice template.
type InvoiceData struct {
	InvoiceNumber string
	IssuedAt      time.Time

	Practice PracticeDetails

	CustomerName    string
	CustomerAddress string

	Lines      []InvoiceLine
	Total      decimal.Decimal
	AmountPaid decimal.Decimal
	BalanceDue decimal.Decimal

	Notes string
}

// InvoiceTemplateEngine renders invoice data to HTML using Go's
// html/template package with formatting helpers.
type InvoiceTemplateEngine struct {
	funcMap  template.FuncMap
	template *template.Template
}

// NewInvoiceTemplateEngine creates an engine with the embedded default
// invoice template parsed and ready.
func NewInvoiceTemplateEngine() (*InvoiceTemplateEngine, error) {
	e := &InvoiceTemplateEngine{}

	e.funcMap = template.FuncMap{
		"formatMoney":    formatMoney,
		"formatMoneyRaw": formatMoneyRaw,
		"formatDate":     formatDate,
		"formatDateTime": formatDateTime,
		"formatDecimal":  formatDecimal,
		"upper":          strings.ToUpper,
		"lower":          strings.ToLower,
		"trim":           strings.TrimSpace,
		"shortUUID":      shortUUID,
	}

	tmpl, err := template.New("invoice_a4.html").Funcs(e.funcMap).ParseFS(templateFS, defaultInvoiceTemplate)
	if err != nil {
		return nil, NewRenderError(ErrCodeInvalidHTML, "failed to parse invoice template", err)
	}
	e.template = tmpl

	return e, nil
}

// RenderInvoice renders the invoice data with the embedded template.
func (e *InvoiceTemplateEngine) RenderInvoice(ctx context.Context, data *InvoiceData) (string, error) {
	if data == nil {
		return "", NewRenderError(ErrCodeInvalidHTML, "invoice data is nil", nil)
	}

	var buf bytes.Buffer
	if err := e.template.Execute(&buf, data); err != nil {
		return "", NewRenderError(ErrCodeRenderFailed, "failed to execute invoice template", err)
	}

	return buf.String(), nil
}

// RenderString renders an ad-hoc template string with the engine's helpers.
func (e *InvoiceTemplateEngine) RenderString(ctx context.Context, name, content string, data interface{}) (string, error) {
	if content == "" {
		return "", NewRenderError(ErrCodeInvalidHTML, "template content is empty", nil)
	}

	tmpl, err := template.New(name).Funcs(e.funcMap).Parse(content)
	if err != nil {
		return "", NewRenderError(ErrCodeInvalidHTML, "failed to parse template", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", NewRenderError(ErrCodeRenderFailed, "failed to execute template", err)
	}

	return buf.String(), nil
}

// GetFuncMap returns a copy of the template function map
func (e *InvoiceTemplateEngine) GetFuncMap() template.FuncMap {
	funcMap := make(template.FuncMap, len(e.funcMap))
	maps.Copy(funcMap, e.funcMap)
	return funcMap
}

// formatMoney formats a decimal value as currency with symbol
// Example: 1234.56 -> "$1,234.56"
func formatMoney(v interface{}) string {
	return "$" + formatMoneyRaw(v)
}

// formatMoneyRaw formats a decimal value as currency without symbol
// Example: 1234.56 -> "1,234.56"
func formatMoneyRaw(v interface{}) string {
	d := toDecimal(v)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}

	parts := strings.Split(d.StringFixed(2), ".")
	intPart := parts[0]
	decPart := "00"
	if len(parts) > 1 {
		decPart = parts[1]
	}

	var result strings.Builder
	for i, c := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			result.WriteRune(',')
		}
		result.WriteRune(c)
	}

	return sign + result.String() + "." + decPart
}

// formatDate formats a time value as "2006-01-02"
func formatDate(v interface{}) string {
	t := toTime(v)
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

// formatDateTime formats a time value as "2006-01-02 15:04:05"
func formatDateTime(v interface{}) string {
	t := toTime(v)
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02 15:04:05")
}

// formatDecimal formats a decimal with specified precision
func formatDecimal(v interface{}, precision int) string {
	return toDecimal(v).StringFixed(int32(precision))
}

// shortUUID returns the first 8 characters of a UUID
func shortUUID(v interface{}) string {
	s := ""
	switch u := v.(type) {
	case uuid.UUID:
		s = u.String()
	case string:
		s = u
	}
	if len(s) > 8 {
		return s[:8]
	}
	return s
}

func toDecimal(v interface{}) decimal.Decimal {
	switch d := v.(type) {
	case decimal.Decimal:
		return d
	case *decimal.Decimal:
		if d != nil {
			return *d
		}
	case int:
		return decimal.NewFromInt(int64(d))
	case int64:
		return decimal.NewFromInt(d)
	case float64:
		return decimal.NewFromFloat(d)
	case string:
		if parsed, err := decimal.NewFromString(d); err == nil {
			return parsed
		}
	}
	return decimal.Zero
}

func toTime(v interface{}) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case *time.Time:
		if t != nil {
			return *t
		}
	}
	return time.Time{}
}
