package persistence

import "github.com/nestapp/backend/internal/infrastructure/persistence/models"

// AllModels returns every persistence model in dependency order
func AllModels() []any {
	return []any{
		&models.TenantModel{},
		&models.UnitModel{},
		&models.DealModel{},
		&models.DocumentModel{},
		&models.DocumentVersionModel{},
		&models.FinanceAttachmentModel{},
		&models.AuditLogModel{},
		&models.SettingsModel{},
	}
}
