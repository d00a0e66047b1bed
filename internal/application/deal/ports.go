package deal

import (
	"context"
	"io"

	"github.com/nestapp/backend/internal/domain/deal"
	"github.com/nestapp/backend/internal/domain/settings"
	"github.com/nestapp/backend/internal/domain/tenant"
	"github.com/nestapp/backend/internal/domain/unit"
)

// ProduceRequest describes one document version to produce
type ProduceRequest struct {
	Deal      *deal.Deal
	Tenant    *tenant.Tenant
	Unit      *unit.Unit
	Settings  settings.Settings
	DocType   deal.DocumentType
	VersionNo int
	HTMLPath  string
	PDFPath   string
}

// ProducedDocument is where a produced document was stored
type ProducedDocument struct {
	HTMLPath string
	PDFPath  string
}

// DocumentProducer renders and stores the files of one document version
type DocumentProducer interface {
	Produce(ctx context.Context, req ProduceRequest) (*ProducedDocument, error)
}

// FileStore stores and retrieves files by path
type FileStore interface {
	Put(ctx context.Context, path string, body io.Reader, size int64, contentType string) error
	Get(ctx context.Context, path string) (io.ReadCloser, error)
}

// ActionRecorder counts engine outcomes. Implementations must not block.
type ActionRecorder interface {
	RecordAction(ctx context.Context, action string, outcome string)
}

type noopRecorder struct{}

func (noopRecorder) RecordAction(context.Context, string, string) {}
