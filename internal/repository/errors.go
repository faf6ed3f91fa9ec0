package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	apperrors "stylesync/internal/errors"
)

const (
	pqUniqueViolation    = "23505"
	pqExclusionViolation = "23P01"
)

// mapError translates driver errors into the domain errors callers check
// with errors.Is.
func mapError(err error, what string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", what, apperrors.ErrNotFound)
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case pqExclusionViolation:
			return fmt.Errorf("%s: %w", what, apperrors.ErrSlotTaken)
		case pqUniqueViolation:
			return fmt.Errorf("%s: %w: %s", what, apperrors.ErrInvalidInput, pqErr.Constraint)
		}
	}
	return fmt.Errorf("%s: %w", what, err)
}
