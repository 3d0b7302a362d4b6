package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/bhudevswayam/service-app/pkg/apperr"
)

const uniqueViolation = "23505"

// classify maps driver errors onto the apperr taxonomy.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return apperr.Wrap(apperr.KindDuplicateEmail, apperr.ErrDuplicateEmail.Message, err)
	}
	return apperr.Wrap(apperr.KindStoreUnavailable, apperr.ErrStoreUnavailable.Message, err)
}
