package printing

import (
	"strings"

	"github.com/nestapp/backend/internal/domain/deal"
)

// DocumentLayout is the template and page setup used for a document type
type DocumentLayout struct {
	DocType  deal.DocumentType
	Template string
	Page     PageSize
	Margins  Margins
}

var documentLayouts = map[deal.DocumentType]DocumentLayout{}

func init() {
	for _, dt := range []deal.DocumentType{
		deal.DocBookingConfirmation,
		deal.DocLOODraft,
		deal.DocLOOFinal,
		deal.DocLeaseAgreement,
		deal.DocOfficialConfirmation,
		deal.DocMoveInConfirmation,
		deal.DocUnitHandover,
	} {
		documentLayouts[dt] = DocumentLayout{
			DocType:  dt,
			Template: strings.ToLower(string(dt)),
			Page:     PageA4,
			Margins:  DefaultMargins(),
		}
	}
}

// LayoutFor returns the layout of a document type
func LayoutFor(dt deal.DocumentType) (DocumentLayout, bool) {
	l, ok := documentLayouts[dt]
	return l, ok
}

// templateNames lists every body template that must exist
func templateNames() []string {
	names := make([]string, 0, len(documentLayouts))
	for _, l := range documentLayouts {
		names = append(names, l.Template)
	}
	return names
}

// footerTemplate is printed on every page by the chromedp renderer. Chrome
// fills the pageNumber and totalPages spans.
const footerTemplate = `<div style="font-size:8px;width:100%;text-align:center;color:#666;">
{{.DealCode}} &middot; {{.DocTitle}} v{{.VersionNo}} &middot; <span class="pageNumber"></span>/<span class="totalPages"></span>
</div>`
