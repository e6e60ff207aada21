package services

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/dinehall/reservation-app/utils"
)

const pgUniqueViolation = "23505"

// translateDuplicate remaps a unique-constraint violation raised by the store
// into the same client error the in-process check would have produced. Two
// concurrent requests can both pass validation before either commits; the
// partial unique index is the backstop and its rejection must not leak as an
// internal error.
func translateDuplicate(err error, message string) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return utils.NewConflictError(message)
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return utils.NewConflictError(message)
	}
	return err
}
