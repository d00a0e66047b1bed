// Package models contains GORM-specific persistence models that map to database tables.
// These models are separate from domain entities to keep the domain layer pure and free
// from ORM concerns.
//
// Key Principles:
// 1. Domain entities should be free of GORM tags and infrastructure concerns
// 2. Persistence models contain all GORM annotations and table mappings
// 3. Mappers convert between domain entities and persistence models
// 4. Repositories use persistence models for database operations
//
// Structure:
// - base.go: Base persistence models (BaseModel, AggregateModel)
// - deal.go: Deal aggregate
// - document.go: Documents and their immutable versions
// - finance_attachment.go: Uploaded invoices and receipts
// - directory.go: Tenants, units and company settings
// - audit.go: Append-only audit log
package models
