package deal

import (
	"time"

	"github.com/google/uuid"
	"github.com/nestapp/backend/internal/domain/shared"
)

// Document is the per-deal record of one document type. Versions are
// append-only and numbered from 1 without gaps.
type Document struct {
	shared.BaseEntity
	DealID        uuid.UUID
	DocType       DocumentType
	LatestVersion int
	Versions      []DocumentVersion // ascending by VersionNo
}

// DocumentVersion is one immutable rendition of a document
type DocumentVersion struct {
	shared.BaseEntity
	DocumentID     uuid.UUID
	VersionNo      int
	HTMLPath       string
	PDFPath        string
	SignatoryName  string
	SignatoryTitle string
	Channel        shared.Channel
	GeneratedAt    time.Time
}

// NewDocument creates an empty document record for a deal
func NewDocument(dealID uuid.UUID, docType DocumentType) *Document {
	return &Document{
		BaseEntity: shared.NewBaseEntity(),
		DealID:     dealID,
		DocType:    docType,
	}
}

// NextVersionNo returns the number the next version must carry
func (d *Document) NextVersionNo() int {
	return d.LatestVersion + 1
}

// NewVersion prepares the next version of the document. The version only
// becomes part of the document through AppendVersion.
func (d *Document) NewVersion(htmlPath, pdfPath, signatoryName, signatoryTitle string, channel shared.Channel, now time.Time) DocumentVersion {
	return DocumentVersion{
		BaseEntity:     shared.NewBaseEntity(),
		DocumentID:     d.ID,
		VersionNo:      d.NextVersionNo(),
		HTMLPath:       htmlPath,
		PDFPath:        pdfPath,
		SignatoryName:  signatoryName,
		SignatoryTitle: signatoryTitle,
		Channel:        channel,
		GeneratedAt:    now,
	}
}

// AppendVersion adds v as the new latest version
func (d *Document) AppendVersion(v DocumentVersion) error {
	if v.VersionNo != d.NextVersionNo() {
		return shared.NewStateConflictError("document %s expects version %d, got %d", d.DocType, d.NextVersionNo(), v.VersionNo)
	}
	d.Versions = append(d.Versions, v)
	d.LatestVersion = v.VersionNo
	return nil
}

// Latest returns the latest version, or nil when none exists
func (d *Document) Latest() *DocumentVersion {
	return d.Version(d.LatestVersion)
}

// Version returns the version with the given number, or nil
func (d *Document) Version(no int) *DocumentVersion {
	for i := range d.Versions {
		if d.Versions[i].VersionNo == no {
			return &d.Versions[i]
		}
	}
	return nil
}

// GeneratedSince reports whether any version was generated at or after t
func (d *Document) GeneratedSince(t time.Time) bool {
	for _, v := range d.Versions {
		if !v.GeneratedAt.Before(t) {
			return true
		}
	}
	return false
}

// checkIntegrity verifies that the version sequence is gapless and matches
// LatestVersion.
func (d *Document) checkIntegrity() error {
	if len(d.Versions) != d.LatestVersion {
		return shared.NewDataIntegrityError("document %s of deal %s has latest_version %d but %d versions",
			d.DocType, d.DealID, d.LatestVersion, len(d.Versions))
	}
	for i, v := range d.Versions {
		if v.VersionNo != i+1 {
			return shared.NewDataIntegrityError("document %s of deal %s has a gap at version %d",
				d.DocType, d.DealID, i+1)
		}
	}
	return nil
}
