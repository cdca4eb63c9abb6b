package pg

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrFailedToOpenDBConnection = errors.New("pg.connect_failed")
	ErrEmptyConnectionString    = errors.New("pg.empty_connection_string")
	ErrHealthcheckFailed        = errors.New("pg.healthcheck_failed")
	ErrFailedToParseDBConfig    = errors.New("pg.invalid_config")
	ErrFailedToApplyMigrations  = errors.New("pg.migrations_failed")
	ErrMigrationsDirNotFound    = errors.New("pg.migrations_dir_not_found")
	ErrMigrationPathNotProvided = errors.New("pg.migrations_path_missing")
)

// IsDuplicateKeyError reports a unique constraint violation (SQLSTATE 23505).
func IsDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
