package db

import (
	"errors"

	"github.com/jackc/pgconn"
)

// IsUniqueViolation reports whether err is a Postgres unique-constraint
// violation (duplicate email, promo code, ...).
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
