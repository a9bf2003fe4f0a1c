package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsUniqueViolation(t *testing.T) {
	dup := &pgconn.PgError{
		Code:           "23505",
		ConstraintName: "idx_appointments_active_slot",
	}
	assert.True(t, isUniqueViolation(dup))

	// Wrapped errors still match; gorm wraps driver errors.
	assert.True(t, isUniqueViolation(fmt.Errorf("inserting appointment: %w", dup)))

	assert.False(t, isUniqueViolation(nil))
	assert.False(t, isUniqueViolation(errors.New("connection refused")))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}))
}
