package deal

import (
	"strings"

	"github.com/nestapp/backend/internal/domain/shared"
)

// StepID identifies a step in a deal journey
type StepID string

const (
	StepSelectUnit                   StepID = "SELECT_UNIT"
	StepGenerateBookingConfirmation  StepID = "GENERATE_BOOKING_CONFIRMATION"
	StepGenerateLOODraft             StepID = "GENERATE_LOO_DRAFT"
	StepFinalizeLOO                  StepID = "FINALIZE_LOO"
	StepGenerateLeaseAgreement       StepID = "GENERATE_LEASE_AGREEMENT"
	StepGenerateOfficialConfirmation StepID = "GENERATE_OFFICIAL_CONFIRMATION"
	StepRequestInvoice               StepID = "REQUEST_INVOICE"
	StepUploadInvoice                StepID = "UPLOAD_INVOICE"
	StepGenerateMoveIn               StepID = "GENERATE_MOVE_IN"
	StepGenerateHandover             StepID = "GENERATE_HANDOVER"
	StepDealClosed                   StepID = "DEAL_CLOSED"
)

// ParseStepID parses a step identifier. It does not check journey membership.
func ParseStepID(s string) (StepID, error) {
	id := StepID(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := stepCatalog[id]; !ok {
		return "", shared.NewValidationError("unknown step %q", s)
	}
	return id, nil
}

// ActionKind is the kind of action that completes a step
type ActionKind string

const (
	ActionSelect         ActionKind = "select"
	ActionGenerate       ActionKind = "generate"
	ActionInvoiceRequest ActionKind = "invoice-request"
	ActionInvoiceUpload  ActionKind = "invoice-upload"
	ActionClose          ActionKind = "close"
)

// DocumentType is the type of document produced by a generate step
type DocumentType string

const (
	DocBookingConfirmation  DocumentType = "BOOKING_CONFIRMATION"
	DocLOODraft             DocumentType = "LOO_DRAFT"
	DocLOOFinal             DocumentType = "LOO_FINAL"
	DocLeaseAgreement       DocumentType = "LEASE_AGREEMENT"
	DocOfficialConfirmation DocumentType = "OFFICIAL_CONFIRMATION"
	DocMoveInConfirmation   DocumentType = "MOVE_IN_CONFIRMATION"
	DocUnitHandover         DocumentType = "UNIT_HANDOVER"
)

var documentLabels = map[DocumentType]string{
	DocBookingConfirmation:  "Booking Confirmation",
	DocLOODraft:             "Letter of Offer – Draft",
	DocLOOFinal:             "Letter of Offer – Final",
	DocLeaseAgreement:       "Lease Agreement",
	DocOfficialConfirmation: "Official Confirmation Letter",
	DocMoveInConfirmation:   "Move-in Confirmation",
	DocUnitHandover:         "Unit Handover Certificate",
}

// Label returns the human readable document title
func (d DocumentType) Label() string {
	if l, ok := documentLabels[d]; ok {
		return l
	}
	return string(d)
}

// IsValid reports whether d is a known document type
func (d DocumentType) IsValid() bool {
	_, ok := documentLabels[d]
	return ok
}

// ParseDocumentType parses a document type name
func ParseDocumentType(s string) (DocumentType, error) {
	d := DocumentType(strings.ToUpper(strings.TrimSpace(s)))
	if !d.IsValid() {
		return "", shared.NewValidationError("unknown document type %q", s)
	}
	return d, nil
}

// JourneyStep is one step of a journey. It is derived from the registry and
// never persisted.
type JourneyStep struct {
	ID      StepID
	Label   string
	Action  ActionKind
	DocType DocumentType // empty unless Action is ActionGenerate
}

// IsPricingStep reports whether the deal price may still be negotiated while
// this step is current.
func (s JourneyStep) IsPricingStep() bool {
	return s.ID == StepFinalizeLOO || s.ID == StepGenerateBookingConfirmation
}

var stepCatalog = map[StepID]JourneyStep{
	StepSelectUnit:                   {ID: StepSelectUnit, Label: "Select Unit", Action: ActionSelect},
	StepGenerateBookingConfirmation:  {ID: StepGenerateBookingConfirmation, Label: "Generate Booking Confirmation", Action: ActionGenerate, DocType: DocBookingConfirmation},
	StepGenerateLOODraft:             {ID: StepGenerateLOODraft, Label: "Generate Offer (LOO Draft)", Action: ActionGenerate, DocType: DocLOODraft},
	StepFinalizeLOO:                  {ID: StepFinalizeLOO, Label: "Finalize Offer (LOO Final)", Action: ActionGenerate, DocType: DocLOOFinal},
	StepGenerateLeaseAgreement:       {ID: StepGenerateLeaseAgreement, Label: "Generate Lease Agreement", Action: ActionGenerate, DocType: DocLeaseAgreement},
	StepGenerateOfficialConfirmation: {ID: StepGenerateOfficialConfirmation, Label: "Generate Official Confirmation Letter", Action: ActionGenerate, DocType: DocOfficialConfirmation},
	StepRequestInvoice:               {ID: StepRequestInvoice, Label: "Request Invoice", Action: ActionInvoiceRequest},
	StepUploadInvoice:                {ID: StepUploadInvoice, Label: "Upload Invoice", Action: ActionInvoiceUpload},
	StepGenerateMoveIn:               {ID: StepGenerateMoveIn, Label: "Generate Move-in Confirmation", Action: ActionGenerate, DocType: DocMoveInConfirmation},
	StepGenerateHandover:             {ID: StepGenerateHandover, Label: "Generate Unit Handover Certificate", Action: ActionGenerate, DocType: DocUnitHandover},
	StepDealClosed:                   {ID: StepDealClosed, Label: "Deal Closed", Action: ActionClose},
}

// JourneyRegistry maps each term type to its ordered step sequence.
// It is built once and is safe for concurrent use; callers only ever
// receive copies of the sequences.
type JourneyRegistry struct {
	journeys map[TermType][]JourneyStep
}

// NewJourneyRegistry builds the registry of journey definitions
func NewJourneyRegistry() *JourneyRegistry {
	daily := buildJourney(
		StepSelectUnit,
		StepGenerateBookingConfirmation,
		StepGenerateOfficialConfirmation,
		StepRequestInvoice,
		StepUploadInvoice,
		StepGenerateHandover,
		StepDealClosed,
	)
	lease := buildJourney(
		StepSelectUnit,
		StepGenerateLOODraft,
		StepFinalizeLOO,
		StepGenerateLeaseAgreement,
		StepGenerateOfficialConfirmation,
		StepRequestInvoice,
		StepUploadInvoice,
		StepGenerateMoveIn,
		StepGenerateHandover,
		StepDealClosed,
	)
	return &JourneyRegistry{
		journeys: map[TermType][]JourneyStep{
			TermDaily:        daily,
			TermMonthly:      lease,
			TermSixMonths:    lease,
			TermTwelveMonths: lease,
		},
	}
}

func buildJourney(ids ...StepID) []JourneyStep {
	steps := make([]JourneyStep, len(ids))
	for i, id := range ids {
		steps[i] = stepCatalog[id]
	}
	return steps
}

// StepsFor returns the ordered steps for a term type. Unknown term types
// yield nil; TermType values are validated at the boundary.
func (r *JourneyRegistry) StepsFor(term TermType) []JourneyStep {
	steps, ok := r.journeys[term]
	if !ok {
		return nil
	}
	out := make([]JourneyStep, len(steps))
	copy(out, steps)
	return out
}

// IndexOf returns the position of step in the term's journey, or -1
func (r *JourneyRegistry) IndexOf(term TermType, step StepID) int {
	for i, s := range r.journeys[term] {
		if s.ID == step {
			return i
		}
	}
	return -1
}

// Contains reports whether step belongs to the term's journey
func (r *JourneyRegistry) Contains(term TermType, step StepID) bool {
	return r.IndexOf(term, step) >= 0
}

// Step returns the definition of step within the term's journey
func (r *JourneyRegistry) Step(term TermType, step StepID) (JourneyStep, bool) {
	idx := r.IndexOf(term, step)
	if idx < 0 {
		return JourneyStep{}, false
	}
	return r.journeys[term][idx], true
}

// StepForDocument returns the generate step producing docType in the term's journey
func (r *JourneyRegistry) StepForDocument(term TermType, docType DocumentType) (JourneyStep, bool) {
	for _, s := range r.journeys[term] {
		if s.Action == ActionGenerate && s.DocType == docType {
			return s, true
		}
	}
	return JourneyStep{}, false
}
