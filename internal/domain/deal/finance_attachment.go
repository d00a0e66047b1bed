package deal

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nestapp/backend/internal/domain/shared"
)

// AttachmentType classifies a finance attachment
type AttachmentType string

const (
	AttachmentInvoice AttachmentType = "INVOICE"
	AttachmentReceipt AttachmentType = "RECEIPT"
)

// FinanceAttachment is a finance file stored against a deal
type FinanceAttachment struct {
	shared.BaseEntity
	DealID     uuid.UUID
	Type       AttachmentType
	FileName   string
	FilePath   string
	Channel    shared.Channel
	UploadedAt time.Time
}

// NewFinanceAttachment creates an attachment record for a stored file
func NewFinanceAttachment(dealID uuid.UUID, typ AttachmentType, fileName, filePath string, channel shared.Channel, now time.Time) (*FinanceAttachment, error) {
	if strings.TrimSpace(fileName) == "" {
		return nil, shared.NewValidationError("file name is required")
	}
	if filePath == "" {
		return nil, shared.NewValidationError("file path is required")
	}
	a := &FinanceAttachment{
		BaseEntity: shared.NewBaseEntity(),
		DealID:     dealID,
		Type:       typ,
		FileName:   fileName,
		FilePath:   filePath,
		Channel:    channel,
		UploadedAt: now,
	}
	a.CreatedAt = now
	a.UpdatedAt = now
	return a, nil
}

// InvoicePath builds the storage path for an uploaded invoice
func InvoicePath(dealID uuid.UUID, originalName string) string {
	ext := "pdf"
	if i := strings.LastIndex(originalName, "."); i >= 0 && i < len(originalName)-1 {
		ext = strings.ToLower(originalName[i+1:])
	}
	return fmt.Sprintf("finance/%s/invoice_%s.%s", dealID, shortToken(), ext)
}

// DocumentPaths builds the storage paths for one attempt at producing a
// document version. Every call returns fresh paths, so an attempt that loses
// the version race never overwrites the files of the committed version.
func DocumentPaths(dealID uuid.UUID, docType DocumentType, versionNo int) (htmlPath, pdfPath string) {
	base := fmt.Sprintf("documents/%s/%s_v%d_%s", dealID, docType, versionNo, shortToken())
	return base + ".html", base + ".pdf"
}

func shortToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}
