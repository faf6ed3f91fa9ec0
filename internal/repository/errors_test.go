package repository

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	apperrors "stylesync/internal/errors"
)

func TestMapError(t *testing.T) {
	assert.Nil(t, mapError(nil, "noop"))
	assert.ErrorIs(t, mapError(sql.ErrNoRows, "get booking"), apperrors.ErrNotFound)
	assert.ErrorIs(t, mapError(&pq.Error{Code: pqExclusionViolation}, "confirm"), apperrors.ErrSlotTaken)
	assert.ErrorIs(t, mapError(&pq.Error{Code: pqUniqueViolation, Constraint: "bookings_code_key"}, "insert"), apperrors.ErrInvalidInput)

	boom := errors.New("connection reset")
	err := mapError(boom, "list")
	assert.ErrorIs(t, err, boom)
	assert.EqualError(t, err, "list: connection reset")
}
