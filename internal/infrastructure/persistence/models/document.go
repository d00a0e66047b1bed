package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/nestapp/backend/internal/domain/deal"
	"github.com/nestapp/backend/internal/domain/shared"
)

// DocumentModel is the persistence model for a deal's document record.
type DocumentModel struct {
	BaseModel
	DealID        uuid.UUID              `gorm:"type:uuid;not null;uniqueIndex:idx_documents_deal_type,priority:1"`
	DocType       string                 `gorm:"type:varchar(50);not null;uniqueIndex:idx_documents_deal_type,priority:2"`
	LatestVersion int                    `gorm:"not null;default:0"`
	Versions      []DocumentVersionModel `gorm:"foreignKey:DocumentID;references:ID"`
}

// TableName returns the table name for GORM
func (DocumentModel) TableName() string {
	return "documents"
}

// ToDomain converts the persistence model to a domain Document.
func (m *DocumentModel) ToDomain() *deal.Document {
	doc := &deal.Document{
		BaseEntity:    m.BaseModel.ToDomain(),
		DealID:        m.DealID,
		DocType:       deal.DocumentType(m.DocType),
		LatestVersion: m.LatestVersion,
		Versions:      make([]deal.DocumentVersion, len(m.Versions)),
	}
	for i := range m.Versions {
		doc.Versions[i] = *m.Versions[i].ToDomain()
	}
	return doc
}

// FromDomain populates the persistence model from a domain Document.
// Versions are written separately.
func (m *DocumentModel) FromDomain(d *deal.Document) {
	m.FromDomainBaseEntity(d.BaseEntity)
	m.DealID = d.DealID
	m.DocType = string(d.DocType)
	m.LatestVersion = d.LatestVersion
}

// DocumentVersionModel is the persistence model for one immutable document version.
type DocumentVersionModel struct {
	BaseModel
	DocumentID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_document_versions_doc_no,priority:1"`
	VersionNo      int       `gorm:"not null;uniqueIndex:idx_document_versions_doc_no,priority:2"`
	HTMLPath       string    `gorm:"type:varchar(500);not null"`
	PDFPath        string    `gorm:"type:varchar(500);not null"`
	SignatoryName  string    `gorm:"type:varchar(200)"`
	SignatoryTitle string    `gorm:"type:varchar(200)"`
	Channel        string    `gorm:"type:varchar(20);not null;default:'WEB'"`
	GeneratedAt    time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (DocumentVersionModel) TableName() string {
	return "document_versions"
}

// ToDomain converts the persistence model to a domain DocumentVersion.
func (m *DocumentVersionModel) ToDomain() *deal.DocumentVersion {
	return &deal.DocumentVersion{
		BaseEntity:     m.BaseModel.ToDomain(),
		DocumentID:     m.DocumentID,
		VersionNo:      m.VersionNo,
		HTMLPath:       m.HTMLPath,
		PDFPath:        m.PDFPath,
		SignatoryName:  m.SignatoryName,
		SignatoryTitle: m.SignatoryTitle,
		Channel:        shared.Channel(m.Channel),
		GeneratedAt:    m.GeneratedAt,
	}
}

// DocumentVersionModelFromDomain creates a new persistence model from a domain DocumentVersion.
func DocumentVersionModelFromDomain(v *deal.DocumentVersion) *DocumentVersionModel {
	m := &DocumentVersionModel{
		DocumentID:     v.DocumentID,
		VersionNo:      v.VersionNo,
		HTMLPath:       v.HTMLPath,
		PDFPath:        v.PDFPath,
		SignatoryName:  v.SignatoryName,
		SignatoryTitle: v.SignatoryTitle,
		Channel:        string(v.Channel),
		GeneratedAt:    v.GeneratedAt,
	}
	m.FromDomainBaseEntity(v.BaseEntity)
	return m
}
