package pgsql

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestConditions_NumbersPlaceholdersInOrder(t *testing.T) {
	var c conditions
	assert.Equal(t, "", c.where())

	c.add("user_id = %s", "u1")
	c.add("(week_start, timesheet_id) < (%s, %s)", "2024-01-15", "u1-2024-W03")
	limit := c.next(21)

	assert.Equal(t, " WHERE user_id = $1 AND (week_start, timesheet_id) < ($2, $3)", c.where())
	assert.Equal(t, "$4", limit)
	assert.Equal(t, []any{"u1", "2024-01-15", "u1-2024-W03", 21}, c.args)
}

func TestIsUniqueViolation(t *testing.T) {
	wrapped := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})

	assert.True(t, isUniqueViolation(wrapped))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, isUniqueViolation(errors.New("boom")))
}

func TestIsForeignKeyViolation(t *testing.T) {
	wrapped := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23503"})

	assert.True(t, isForeignKeyViolation(wrapped))
	assert.False(t, isForeignKeyViolation(&pgconn.PgError{Code: "23505"}))
	assert.False(t, isForeignKeyViolation(errors.New("boom")))
}
