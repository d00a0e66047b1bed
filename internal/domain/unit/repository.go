package unit

import (
	"context"

	"github.com/google/uuid"
)

// UnitRepository persists units
type UnitRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Unit, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
	Create(ctx context.Context, u *Unit) error
	// SaveWithLock writes u only if the stored version is u.Version-1
	SaveWithLock(ctx context.Context, u *Unit) error
}
