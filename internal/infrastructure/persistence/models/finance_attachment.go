package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/nestapp/backend/internal/domain/deal"
	"github.com/nestapp/backend/internal/domain/shared"
)

// FinanceAttachmentModel is the persistence model for a finance attachment.
type FinanceAttachmentModel struct {
	BaseModel
	DealID     uuid.UUID `gorm:"type:uuid;not null;index"`
	Type       string    `gorm:"type:varchar(20);not null"`
	FileName   string    `gorm:"type:varchar(255);not null"`
	FilePath   string    `gorm:"type:varchar(500);not null"`
	Channel    string    `gorm:"type:varchar(20);not null;default:'WEB'"`
	UploadedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (FinanceAttachmentModel) TableName() string {
	return "finance_attachments"
}

// ToDomain converts the persistence model to a domain FinanceAttachment.
func (m *FinanceAttachmentModel) ToDomain() *deal.FinanceAttachment {
	return &deal.FinanceAttachment{
		BaseEntity: m.BaseModel.ToDomain(),
		DealID:     m.DealID,
		Type:       deal.AttachmentType(m.Type),
		FileName:   m.FileName,
		FilePath:   m.FilePath,
		Channel:    shared.Channel(m.Channel),
		UploadedAt: m.UploadedAt,
	}
}

// FinanceAttachmentModelFromDomain creates a new persistence model from a domain FinanceAttachment.
func FinanceAttachmentModelFromDomain(a *deal.FinanceAttachment) *FinanceAttachmentModel {
	m := &FinanceAttachmentModel{
		DealID:     a.DealID,
		Type:       string(a.Type),
		FileName:   a.FileName,
		FilePath:   a.FilePath,
		Channel:    string(a.Channel),
		UploadedAt: a.UploadedAt,
	}
	m.FromDomainBaseEntity(a.BaseEntity)
	return m
}
