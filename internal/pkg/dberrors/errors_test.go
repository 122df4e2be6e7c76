package dberrors

import (
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestConstraintHelpers(t *testing.T) {
	dup := fmt.Errorf("insert user: %w", &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})
	assert.True(t, IsDuplicateConstraintError(dup, "users_email_key"))
	assert.False(t, IsDuplicateConstraintError(dup, "other_key"))

	fk := &pgconn.PgError{Code: "23503", ConstraintName: "event_attendees_user_id_fkey"}
	assert.True(t, IsForeignKeyError(fk))
	assert.False(t, IsForeignKeyError(dup))

	name, ok := CheckConstraintName(&pgconn.PgError{Code: "23514", ConstraintName: "events_dates_check"})
	assert.True(t, ok)
	assert.Equal(t, "events_dates_check", name)

	_, ok = CheckConstraintName(fmt.Errorf("plain"))
	assert.False(t, ok)
}
