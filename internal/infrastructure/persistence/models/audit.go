package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/nestapp/backend/internal/domain/audit"
	"github.com/nestapp/backend/internal/domain/shared"
	"gorm.io/datatypes"
)

// AuditLogModel is the persistence model for an append-only audit entry.
type AuditLogModel struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key"`
	DealID    *uuid.UUID     `gorm:"type:uuid;index:idx_audit_logs_deal_created,priority:1"`
	Actor     string         `gorm:"type:varchar(100);not null"`
	Channel   string         `gorm:"type:varchar(20);not null"`
	Executor  string         `gorm:"type:varchar(20);not null"`
	Action    string         `gorm:"type:varchar(50);not null;index"`
	Summary   string         `gorm:"type:text;not null"`
	Metadata  datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt time.Time      `gorm:"not null;index:idx_audit_logs_deal_created,priority:2"`
}

// TableName returns the table name for GORM
func (AuditLogModel) TableName() string {
	return "audit_logs"
}

// ToDomain converts the persistence model to a domain audit Log.
func (m *AuditLogModel) ToDomain() *audit.Log {
	l := &audit.Log{
		ID:        m.ID,
		DealID:    m.DealID,
		Actor:     m.Actor,
		Channel:   shared.Channel(m.Channel),
		Executor:  shared.Executor(m.Executor),
		Action:    audit.Action(m.Action),
		Summary:   m.Summary,
		CreatedAt: m.CreatedAt,
	}
	if len(m.Metadata) > 0 {
		// rows are written by AuditLogModelFromDomain, so the JSON is well formed
		_ = json.Unmarshal(m.Metadata, &l.Metadata)
	}
	return l
}

// AuditLogModelFromDomain creates a new persistence model from a domain audit Log.
func AuditLogModelFromDomain(l *audit.Log) (*AuditLogModel, error) {
	m := &AuditLogModel{
		ID:        l.ID,
		DealID:    l.DealID,
		Actor:     l.Actor,
		Channel:   string(l.Channel),
		Executor:  string(l.Executor),
		Action:    string(l.Action),
		Summary:   l.Summary,
		CreatedAt: l.CreatedAt,
	}
	if l.Metadata != nil {
		raw, err := json.Marshal(l.Metadata)
		if err != nil {
			return nil, err
		}
		m.Metadata = datatypes.JSON(raw)
	}
	return m, nil
}
