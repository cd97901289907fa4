package pg

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrInvalidConnectionString marks an unparseable PG_CONN_URL.
	ErrInvalidConnectionString = errors.New("invalid postgres connection string")
	// ErrNotReady means the database never answered a ping within the
	// retry budget.
	ErrNotReady = errors.New("postgres not ready")
	// ErrHealthcheckFailed wraps ping failures from Healthcheck.
	ErrHealthcheckFailed = errors.New("postgres healthcheck failed")
	// ErrMigrationFailed wraps goose failures; the schema may be left at
	// an intermediate version.
	ErrMigrationFailed = errors.New("migration failed")
	// ErrMigrationsDirMissing means the configured migrations path does
	// not exist on disk.
	ErrMigrationsDirMissing = errors.New("migrations directory missing")
)

// IsNotFoundError reports whether err is the driver's no-rows result.
// Storage layers translate it into their own not-found errors.
func IsNotFoundError(err error) bool {
	return err != nil && errors.Is(err, pgx.ErrNoRows)
}

// IsDuplicateKeyError detects unique constraint violations (SQLSTATE
// 23505). Fires on subdomain collisions, duplicate audit numbers, and
// similar uniqueness rules.
func IsDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
