package utils

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestIsPGUniqueViolation(t *testing.T) {
	dup := &pgconn.PgError{Code: "23505"}
	if !IsPGUniqueViolation(fmt.Errorf("insert: %w", dup)) {
		t.Error("wrapped 23505 should match")
	}
	if IsPGUniqueViolation(&pgconn.PgError{Code: "23503"}) {
		t.Error("foreign key violation should not match")
	}
	if IsUniqueViolation(errors.New("plain")) {
		t.Error("plain error should not match")
	}
	if IsUniqueViolation(nil) {
		t.Error("nil should not match")
	}
}
