package deal

import (
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/nestapp/backend/internal/domain/audit"
	"github.com/nestapp/backend/internal/domain/deal"
	"github.com/shopspring/decimal"
)

// CreateDealRequest is the input for creating a deal
type CreateDealRequest struct {
	TenantID  uuid.UUID  `json:"tenant_id" binding:"required"`
	UnitID    uuid.UUID  `json:"unit_id" binding:"required"`
	TermType  string     `json:"term_type" binding:"required,term_type"`
	StartDate time.Time  `json:"start_date" binding:"required"`
	EndDate   *time.Time `json:"end_date"`
	Currency  string     `json:"currency" binding:"omitempty,len=3"`
}

// CommandOptions carry the retry-safety controls of a mutating call
type CommandOptions struct {
	// IdempotencyKey suppresses a repeated execution of the same request
	IdempotencyKey string
	// ExpectedStep fails the call with STATE_CONFLICT unless the deal is at this step
	ExpectedStep string
}

// ActionRequest is the optional body of generate-document, request-invoice and close
type ActionRequest struct {
	ExpectedStep string `json:"expected_step" binding:"omitempty,journey_step"`
}

// InvoiceUpload is an uploaded invoice file
type InvoiceUpload struct {
	FileName    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// CancelDealRequest is the body of cancel
type CancelDealRequest struct {
	Reason       string `json:"reason" binding:"required"`
	ExpectedStep string `json:"expected_step" binding:"omitempty,journey_step"`
}

// OverrideRequest is the body of emergency-override
type OverrideRequest struct {
	Reason       string `json:"reason" binding:"required"`
	TargetStep   string `json:"target_step" binding:"required,journey_step"`
	ExpectedStep string `json:"expected_step" binding:"omitempty,journey_step"`
}

// SetDealPriceRequest is the body of set-deal-price
type SetDealPriceRequest struct {
	DealPrice    decimal.Decimal `json:"deal_price" binding:"required"`
	ExpectedStep string          `json:"expected_step" binding:"omitempty,journey_step"`
}

// SetMoveInRequest is the body of set-move-in-details
type SetMoveInRequest struct {
	MoveInDate   time.Time `json:"move_in_date" binding:"required"`
	MoveInNotes  string    `json:"move_in_notes" binding:"max=2000"`
	ExpectedStep string    `json:"expected_step" binding:"omitempty,journey_step"`
}

// DealResponse represents a deal in API responses
type DealResponse struct {
	ID                 uuid.UUID           `json:"id"`
	DealCode           string              `json:"deal_code"`
	TenantID           uuid.UUID           `json:"tenant_id"`
	UnitID             uuid.UUID           `json:"unit_id"`
	TermType           string              `json:"term_type"`
	StartDate          time.Time           `json:"start_date"`
	EndDate            *time.Time          `json:"end_date,omitempty"`
	ListPrice          decimal.Decimal     `json:"list_price"`
	DealPrice          *decimal.Decimal    `json:"deal_price"`
	Currency           string              `json:"currency"`
	Status             string              `json:"status"`
	CurrentStep        string              `json:"current_step"`
	BlockedReason      *string             `json:"blocked_reason"`
	InvoiceRequestedAt *time.Time          `json:"invoice_requested_at"`
	CancelledAt        *time.Time          `json:"cancelled_at"`
	CancellationReason *string             `json:"cancellation_reason"`
	MoveInDate         *time.Time          `json:"move_in_date"`
	MoveInNotes        *string             `json:"move_in_notes"`
	OverrideStep       *string             `json:"override_step,omitempty"`
	OverrideAt         *time.Time          `json:"override_at,omitempty"`
	Documents          []DocumentResponse  `json:"documents,omitempty"`
	Attachments        []AttachmentSummary `json:"finance_attachments,omitempty"`
	Version            int                 `json:"version"`
	CreatedAt          time.Time           `json:"created_at"`
	UpdatedAt          time.Time           `json:"updated_at"`
}

// DocumentResponse represents a deal document with its versions
type DocumentResponse struct {
	ID            uuid.UUID                 `json:"id"`
	DocType       string                    `json:"doc_type"`
	Label         string                    `json:"label"`
	LatestVersion int                       `json:"latest_version"`
	Versions      []DocumentVersionResponse `json:"versions"`
}

// DocumentVersionResponse represents one document version
type DocumentVersionResponse struct {
	VersionNo      int       `json:"version_no"`
	HTMLPath       string    `json:"html_path"`
	PDFPath        string    `json:"pdf_path"`
	SignatoryName  string    `json:"signatory_name,omitempty"`
	SignatoryTitle string    `json:"signatory_title,omitempty"`
	Channel        string    `json:"channel"`
	IsLatest       bool      `json:"is_latest"`
	GeneratedAt    time.Time `json:"generated_at"`
}

// AttachmentSummary represents a finance attachment
type AttachmentSummary struct {
	ID         uuid.UUID `json:"id"`
	Type       string    `json:"attachment_type"`
	FileName   string    `json:"file_name"`
	FilePath   string    `json:"file_path"`
	Channel    string    `json:"channel"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// JourneyStepResponse is one row of the journey view
type JourneyStepResponse struct {
	Step          string  `json:"step"`
	Label         string  `json:"label"`
	Index         int     `json:"index"`
	Status        string  `json:"status"`
	BlockedReason *string `json:"blocked_reason,omitempty"`
}

// JourneyResponse is the derived journey of a deal
type JourneyResponse struct {
	DealID      uuid.UUID             `json:"deal_id"`
	DealCode    string                `json:"deal_code"`
	Status      string                `json:"status"`
	CurrentStep string                `json:"current_step"`
	Steps       []JourneyStepResponse `json:"steps"`
}

// ActionResult is returned by every engine operation
type ActionResult struct {
	Message  string          `json:"message"`
	Replayed bool            `json:"replayed,omitempty"`
	Deal     DealResponse    `json:"deal"`
	Journey  JourneyResponse `json:"journey"`
}

// AuditLogResponse represents an audit entry
type AuditLogResponse struct {
	ID        uuid.UUID      `json:"id"`
	DealID    *uuid.UUID     `json:"deal_id,omitempty"`
	Actor     string         `json:"actor"`
	Channel   string         `json:"channel"`
	Executor  string         `json:"executor"`
	Action    string         `json:"action"`
	Summary   string         `json:"summary"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// DocumentDownload is an open stream of a stored document version
type DocumentDownload struct {
	FileName string
	Body     io.ReadCloser
}

func optString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// ToDealResponse converts a deal and its children into a response
func ToDealResponse(d *deal.Deal, docs []deal.Document, attachments []deal.FinanceAttachment) DealResponse {
	resp := DealResponse{
		ID:                 d.ID,
		DealCode:           d.DealCode,
		TenantID:           d.TenantID,
		UnitID:             d.UnitID,
		TermType:           string(d.TermType),
		StartDate:          d.StartDate,
		EndDate:            d.EndDate,
		ListPrice:          d.ListPrice.Amount(),
		Currency:           string(d.Currency()),
		Status:             string(d.Status),
		CurrentStep:        string(d.CurrentStep),
		BlockedReason:      optString(d.BlockedReason),
		InvoiceRequestedAt: d.InvoiceRequestedAt,
		CancelledAt:        d.CancelledAt,
		CancellationReason: optString(d.CancellationReason),
		MoveInDate:         d.MoveInDate,
		MoveInNotes:        optString(d.MoveInNotes),
		OverrideStep:       optString(string(d.OverrideStep)),
		OverrideAt:         d.OverrideAt,
		Version:            d.Version,
		CreatedAt:          d.CreatedAt,
		UpdatedAt:          d.UpdatedAt,
	}
	if d.DealPrice != nil {
		p := d.DealPrice.Amount()
		resp.DealPrice = &p
	}
	for i := range docs {
		resp.Documents = append(resp.Documents, toDocumentResponse(&docs[i]))
	}
	for _, a := range attachments {
		resp.Attachments = append(resp.Attachments, AttachmentSummary{
			ID:         a.ID,
			Type:       string(a.Type),
			FileName:   a.FileName,
			FilePath:   a.FilePath,
			Channel:    string(a.Channel),
			UploadedAt: a.UploadedAt,
		})
	}
	return resp
}

func toDocumentResponse(doc *deal.Document) DocumentResponse {
	resp := DocumentResponse{
		ID:            doc.ID,
		DocType:       string(doc.DocType),
		Label:         doc.DocType.Label(),
		LatestVersion: doc.LatestVersion,
		Versions:      make([]DocumentVersionResponse, 0, len(doc.Versions)),
	}
	for _, v := range doc.Versions {
		resp.Versions = append(resp.Versions, DocumentVersionResponse{
			VersionNo:      v.VersionNo,
			HTMLPath:       v.HTMLPath,
			PDFPath:        v.PDFPath,
			SignatoryName:  v.SignatoryName,
			SignatoryTitle: v.SignatoryTitle,
			Channel:        string(v.Channel),
			IsLatest:       v.VersionNo == doc.LatestVersion,
			GeneratedAt:    v.GeneratedAt,
		})
	}
	return resp
}

// ToJourneyResponse converts a resolution into the journey view
func ToJourneyResponse(d *deal.Deal, res deal.Resolution) JourneyResponse {
	resp := JourneyResponse{
		DealID:      d.ID,
		DealCode:    d.DealCode,
		Status:      string(d.Status),
		CurrentStep: string(res.Current().ID),
		Steps:       make([]JourneyStepResponse, len(res.Steps)),
	}
	for i, s := range res.Steps {
		row := JourneyStepResponse{
			Step:   string(s.Step.ID),
			Label:  s.Step.Label,
			Index:  i,
			Status: string(res.StatusAt(i)),
		}
		if i == res.CurrentIndex {
			row.BlockedReason = optString(res.BlockedReason)
		}
		resp.Steps[i] = row
	}
	return resp
}

// ToAuditLogResponse converts an audit entry into a response
func ToAuditLogResponse(l audit.Log) AuditLogResponse {
	return AuditLogResponse{
		ID:        l.ID,
		DealID:    l.DealID,
		Actor:     l.Actor,
		Channel:   string(l.Channel),
		Executor:  string(l.Executor),
		Action:    string(l.Action),
		Summary:   l.Summary,
		Metadata:  l.Metadata,
		CreatedAt: l.CreatedAt,
	}
}
