package printing

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"maps"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

//go:embed templates/*.html
var templateFS embed.FS

// TemplateEngine renders the document templates. Every document type is a
// body template executed inside the shared layout.
type TemplateEngine struct {
	funcMap   template.FuncMap
	lang      language.Tag
	templates map[string]*template.Template
}

// TemplateEngineOption configures the template engine
type TemplateEngineOption func(*TemplateEngine)

// WithLanguage sets the locale used for number formatting
func WithLanguage(tag language.Tag) TemplateEngineOption {
	return func(e *TemplateEngine) {
		e.lang = tag
	}
}

// WithFuncs adds template functions
func WithFuncs(funcs template.FuncMap) TemplateEngineOption {
	return func(e *TemplateEngine) {
		maps.Copy(e.funcMap, funcs)
	}
}

// NewTemplateEngine parses the embedded templates. It panics if they do not
// parse, which only a broken build can cause.
func NewTemplateEngine(opts ...TemplateEngineOption) *TemplateEngine {
	e := &TemplateEngine{lang: language.Indonesian}
	e.funcMap = template.FuncMap{
		"formatDate":    formatDate,
		"formatDecimal": formatDecimal,
		"title":         titleCase,
		"upper":         strings.ToUpper,
		"default":       defaultFunc,
		"nl2br":         nl2br,
	}
	for _, opt := range opts {
		opt(e)
	}

	printer := message.NewPrinter(e.lang)
	e.funcMap["formatMoney"] = func(amount decimal.Decimal, code string) string {
		return formatMoney(printer, amount, code)
	}
	e.funcMap["formatNumber"] = func(v int) string {
		return printer.Sprintf("%d", v)
	}

	templates, err := e.parseAll()
	if err != nil {
		panic(err)
	}
	e.templates = templates
	return e
}

func (e *TemplateEngine) parseAll() (map[string]*template.Template, error) {
	layout, err := template.New("layout.html").Funcs(e.funcMap).ParseFS(templateFS, "templates/layout.html")
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}

	out := make(map[string]*template.Template)
	for _, name := range templateNames() {
		clone, err := layout.Clone()
		if err != nil {
			return nil, err
		}
		t, err := clone.ParseFS(templateFS, "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		out[name] = t
	}
	return out, nil
}

// Has reports whether a template with the given name exists
func (e *TemplateEngine) Has(name string) bool {
	_, ok := e.templates[name]
	return ok
}

// Render executes the named document template with data
func (e *TemplateEngine) Render(name string, data any) (string, error) {
	t, ok := e.templates[name]
	if !ok {
		return "", NewRenderError(ErrCodeUnknownTemplate, "no template for "+name, nil)
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		return "", NewRenderError(ErrCodeRenderFailed, "failed to execute template", err)
	}
	return buf.String(), nil
}

// RenderString renders a template string with the provided data
func (e *TemplateEngine) RenderString(name, content string, data any) (string, error) {
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
func (e *TemplateEngine) GetFuncMap() template.FuncMap {
	funcMap := make(template.FuncMap, len(e.funcMap))
	maps.Copy(funcMap, e.funcMap)
	return funcMap
}

// =============================================================================
// Template Functions
// =============================================================================

var currencySymbols = map[string]string{
	"IDR": "Rp",
	"USD": "US$",
	"SGD": "S$",
}

// formatMoney formats an amount with the currency's cash precision and the
// locale's digit grouping.
// Example: 12000000 IDR -> "Rp 12.000.000"
func formatMoney(p *message.Printer, amount decimal.Decimal, code string) string {
	code = strings.ToUpper(code)
	scale := 2
	if unit, err := currency.ParseISO(code); err == nil {
		scale, _ = currency.Cash.Rounding(unit)
	}
	symbol, ok := currencySymbols[code]
	if !ok {
		symbol = code
	}

	sign := ""
	if amount.IsNegative() {
		sign = "-"
		amount = amount.Abs()
	}
	rounded := amount.Round(int32(scale))
	whole := rounded.IntPart()
	out := sign + symbol + " " + p.Sprintf("%d", whole)
	if scale > 0 {
		frac := rounded.Sub(decimal.NewFromInt(whole)).Shift(int32(scale)).IntPart()
		out += decimalSeparator(p) + fmt.Sprintf("%0*d", scale, frac)
	}
	return out
}

// decimalSeparator returns the locale's decimal mark
func decimalSeparator(p *message.Printer) string {
	s := p.Sprintf("%.1f", 0.5)
	if strings.Contains(s, ",") {
		return ","
	}
	return "."
}

// formatDate formats a time value as "2 January 2006"
func formatDate(v any) string {
	t := toTime(v)
	if t.IsZero() {
		return ""
	}
	return t.Format("2 January 2006")
}

// formatDecimal formats a decimal with specified precision
func formatDecimal(v decimal.Decimal, precision int) string {
	return v.StringFixed(int32(precision))
}

func titleCase(s string) string {
	return cases.Title(language.English).String(strings.ToLower(s))
}

func defaultFunc(def, val any) any {
	switch v := val.(type) {
	case nil:
		return def
	case string:
		if strings.TrimSpace(v) == "" {
			return def
		}
	}
	return val
}

func nl2br(s string) template.HTML {
	return template.HTML(strings.ReplaceAll(template.HTMLEscapeString(s), "\n", "<br>"))
}

func toTime(v any) time.Time {
	switch val := v.(type) {
	case time.Time:
		return val
	case *time.Time:
		if val == nil {
			return time.Time{}
		}
		return *val
	default:
		return time.Time{}
	}
}
