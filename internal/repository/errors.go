package repository

import (
	"errors"

	"adhub/internal/domain"

	"gorm.io/gorm"
)

// translate maps gorm sentinel errors onto domain errors.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return domain.ErrNotFound
	default:
		return err
	}
}
