// Package dberrors maps driver failures onto the domain error kinds so that
// callers only ever match errs sentinels.
package dberrors

import (
	"errors"
	"strings"

	"dispatch/internal/pkg/errs"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Postgres SQLSTATEs that mean another writer won the row.
const (
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
	codeLockNotAvailable     = "55P03"
	codeUniqueViolation      = "23505"
)

// Translate maps err for the entity identified by id. Unknown failures pass
// through unchanged.
func Translate(entity string, id any, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, errs.ErrObjectNotFound) || errors.Is(err, errs.ErrConcurrentModification) {
		return err
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errs.NewObjectNotFoundErrorWithCause(entity, id, err)
	}

	if IsConflict(err) {
		return errs.NewConcurrentModificationErrorWithCause(entity, id, err)
	}

	return err
}

// IsConflict reports whether err is a write conflict raised by the database
// rather than by the compare-and-set itself.
func IsConflict(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch strings.TrimSpace(pgErr.Code) {
		case codeSerializationFailure, codeDeadlockDetected, codeLockNotAvailable:
			return true
		}
		return false
	}

	// sqlite reports busy writers only through the message.
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "database is locked") ||
		strings.Contains(msg, "sqlite_busy") ||
		strings.Contains(msg, "deadlock")
}

// IsDuplicate reports a primary key or unique constraint violation.
func IsDuplicate(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == codeUniqueViolation
	}

	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key")
}
