package printing

import (
	"strings"
	"testing"
	"time"

	"github.com/nestapp/backend/internal/domain/deal"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func sampleData() DocumentData {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	moveIn := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	return DocumentData{
		DocType:     string(deal.DocLeaseAgreement),
		DocTitle:    deal.DocLeaseAgreement.Label(),
		DealCode:    "NEST-00001",
		VersionNo:   2,
		GeneratedAt: start,
		Company: CompanyData{
			LegalName:      "PT Nest Hospitality",
			Address:        "Jl. Sudirman 1\nJakarta",
			SignatoryName:  "Sari Dewi",
			SignatoryTitle: "Director",
		},
		Tenant:      TenantData{FullName: "Budi Santoso", CompanyName: "Acme <Ltd>", Phone: "+6281234"},
		Unit:        UnitData{Code: "A-101", Type: "Studio"},
		TermLabel:   "monthly",
		StartDate:   start,
		ListPrice:   decimal.NewFromInt(12000000),
		Price:       decimal.NewFromInt(11500000),
		Currency:    "IDR",
		MoveInDate:  &moveIn,
		MoveInNotes: "Early check-in",
	}
}

func TestNewTemplateEngine_ParsesEveryDocumentType(t *testing.T) {
	engine := NewTemplateEngine()
	for _, dt := range []deal.DocumentType{
		deal.DocBookingConfirmation, deal.DocLOODraft, deal.DocLOOFinal, deal.DocLeaseAgreement,
		deal.DocOfficialConfirmation, deal.DocMoveInConfirmation, deal.DocUnitHandover,
	} {
		layout, ok := LayoutFor(dt)
		require.True(t, ok, dt)
		assert.True(t, engine.Has(layout.Template), dt)
		assert.Equal(t, PageA4, layout.Page)
	}
}

func TestTemplateEngine_Render(t *testing.T) {
	engine := NewTemplateEngine()

	html, err := engine.Render("lease_agreement", sampleData())
	require.NoError(t, err)

	assert.Contains(t, html, "<title>Lease Agreement NEST-00001</title>")
	assert.Contains(t, html, "PT Nest Hospitality")
	assert.Contains(t, html, "Jl. Sudirman 1<br>Jakarta")
	assert.Contains(t, html, "Budi Santoso")
	assert.Contains(t, html, "Acme &lt;Ltd&gt;")
	assert.Contains(t, html, "1 March 2026")
	assert.Contains(t, html, "Rp 11.500.000")
	assert.Contains(t, html, "Monthly")
	assert.Contains(t, html, "Sari Dewi")
	assert.Contains(t, html, "Director")
	assert.NotContains(t, html, "End date")
}

func TestTemplateEngine_Render_DocumentSpecificContent(t *testing.T) {
	engine := NewTemplateEngine()
	data := sampleData()

	draft, err := engine.Render("loo_draft", data)
	require.NoError(t, err)
	assert.Contains(t, draft, "DRAFT")
	assert.Contains(t, draft, "Rp 12.000.000")

	moveIn, err := engine.Render("move_in_confirmation", data)
	require.NoError(t, err)
	assert.Contains(t, moveIn, "2 March 2026")
	assert.Contains(t, moveIn, "Early check-in")

	data.Company.SignatoryName = ""
	booking, err := engine.Render("booking_confirmation", data)
	require.NoError(t, err)
	assert.Contains(t, booking, "Authorised Signatory")
}

func TestTemplateEngine_Render_UnknownTemplate(t *testing.T) {
	_, err := NewTemplateEngine().Render("invoice", sampleData())
	var re *RenderError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, ErrCodeUnknownTemplate, re.Code)
}

func TestTemplateEngine_RenderString(t *testing.T) {
	engine := NewTemplateEngine()

	out, err := engine.RenderString("footer", footerTemplate, sampleData())
	require.NoError(t, err)
	assert.Contains(t, out, "NEST-00001")
	assert.Contains(t, out, "Lease Agreement v2")
	assert.Contains(t, out, `class="pageNumber"`)

	_, err = engine.RenderString("empty", "", nil)
	require.Error(t, err)

	_, err = engine.RenderString("bad", "{{.Broken", nil)
	require.Error(t, err)
}

func TestTemplateEngine_Options(t *testing.T) {
	engine := NewTemplateEngine(
		WithLanguage(language.English),
		WithFuncs(map[string]any{"shout": strings.ToUpper}),
	)
	out, err := engine.RenderString("x", `{{shout "hi"}} {{formatMoney .Price "USD"}}`, map[string]any{
		"Price": decimal.RequireFromString("1234.5"),
	})
	require.NoError(t, err)
	assert.Equal(t, "HI US$ 1,234.50", out)
	assert.NotNil(t, engine.GetFuncMap()["formatDate"])
}

func TestFormatMoney(t *testing.T) {
	id := message.NewPrinter(language.Indonesian)
	en := message.NewPrinter(language.English)

	assert.True(t, strings.HasPrefix(formatMoney(id, decimal.NewFromInt(12000000), "IDR"), "Rp 12.000.000"))
	assert.True(t, strings.HasPrefix(formatMoney(id, decimal.NewFromInt(-500), "idr"), "-Rp 500"))
	assert.Equal(t, "S$ 99.90", formatMoney(en, decimal.RequireFromString("99.9"), "SGD"))
	assert.Equal(t, "XYZ 1.00", formatMoney(en, decimal.NewFromInt(1), "XYZ"))
}

func TestFormatDate(t *testing.T) {
	d := time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, "16 October 2026", formatDate(d))
	assert.Equal(t, "16 October 2026", formatDate(&d))
	assert.Equal(t, "", formatDate((*time.Time)(nil)))
	assert.Equal(t, "", formatDate("2026-10-16"))
}

func TestTemplateHelpers(t *testing.T) {
	assert.Equal(t, "Six Months", titleCase("SIX MONTHS"))
	assert.Equal(t, "-", defaultFunc("-", "  "))
	assert.Equal(t, "x", defaultFunc("-", "x"))
	assert.Equal(t, "-", defaultFunc("-", nil))
	assert.Equal(t, "a &amp; b<br>c", string(nl2br("a & b\nc")))
	assert.Equal(t, "10.50", formatDecimal(decimal.RequireFromString("10.5"), 2))
}
