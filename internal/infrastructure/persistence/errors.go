package persistence

import (
	"errors"

	"github.com/nestapp/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// translateError maps gorm failures onto domain errors. Databases are opened
// with TranslateError so unique violations surface as gorm.ErrDuplicatedKey.
func translateError(err error, resource string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return shared.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return shared.WrapDomainError(shared.CodeConcurrency, resource+" was written concurrently, retry the request", err)
	default:
		return err
	}
}

func concurrencyConflict(resource string) error {
	return shared.NewDomainError(shared.CodeConcurrency, resource+" was modified by another request")
}
