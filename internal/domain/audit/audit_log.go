package audit

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nestapp/backend/internal/domain/shared"
)

// Action is the closed set of audited actions
type Action string

const (
	ActionCreateDeal             Action = "CREATE_DEAL"
	ActionUpdateDeal             Action = "UPDATE_DEAL"
	ActionProgressDeal           Action = "PROGRESS_DEAL"
	ActionCancelDeal             Action = "CANCEL_DEAL"
	ActionEmergencyOverride      Action = "EMERGENCY_OVERRIDE"
	ActionGenerateDocument       Action = "GENERATE_DOCUMENT"
	ActionRequestInvoice         Action = "REQUEST_INVOICE"
	ActionUploadInvoice          Action = "UPLOAD_INVOICE"
	ActionCreateTenant           Action = "CREATE_TENANT"
	ActionUpdateTenant           Action = "UPDATE_TENANT"
	ActionCreateUnit             Action = "CREATE_UNIT"
	ActionUpdateUnit             Action = "UPDATE_UNIT"
	ActionUploadStaticDocument   Action = "UPLOAD_STATIC_DOCUMENT"
	ActionActivateStaticDocument Action = "ACTIVATE_STATIC_DOCUMENT"
	ActionUpdateSettings         Action = "UPDATE_SETTINGS"
)

var knownActions = map[Action]struct{}{
	ActionCreateDeal: {}, ActionUpdateDeal: {}, ActionProgressDeal: {}, ActionCancelDeal: {},
	ActionEmergencyOverride: {}, ActionGenerateDocument: {}, ActionRequestInvoice: {},
	ActionUploadInvoice: {}, ActionCreateTenant: {}, ActionUpdateTenant: {}, ActionCreateUnit: {},
	ActionUpdateUnit: {}, ActionUploadStaticDocument: {}, ActionActivateStaticDocument: {},
	ActionUpdateSettings: {},
}

// IsValid reports whether a is part of the closed action set
func (a Action) IsValid() bool {
	_, ok := knownActions[a]
	return ok
}

// Log is one immutable audit entry
type Log struct {
	ID        uuid.UUID
	DealID    *uuid.UUID
	Actor     string
	Channel   shared.Channel
	Executor  shared.Executor
	Action    Action
	Summary   string
	Metadata  map[string]any
	CreatedAt time.Time
}

// NewLog builds an entry for the given caller
func NewLog(identity shared.Identity, action Action, summary string, dealID *uuid.UUID, metadata map[string]any) (*Log, error) {
	if !action.IsValid() {
		return nil, shared.NewValidationError("unknown audit action %q", action)
	}
	if strings.TrimSpace(summary) == "" {
		return nil, shared.NewValidationError("audit summary is required")
	}
	identity = shared.NewIdentity(identity.Actor, identity.Channel)
	return &Log{
		ID:        uuid.New(),
		DealID:    dealID,
		Actor:     identity.Actor,
		Channel:   identity.Channel,
		Executor:  identity.Executor(),
		Action:    action,
		Summary:   summary,
		Metadata:  metadata,
		CreatedAt: time.Now(),
	}, nil
}

// Repository is append-only; there is no update or delete
type Repository interface {
	Append(ctx context.Context, entry *Log) error
	// FindByDeal returns a deal's entries in the order they were written
	FindByDeal(ctx context.Context, dealID uuid.UUID) ([]Log, error)
}
