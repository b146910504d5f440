package repositories

import (
	"errors"
	"strings"

	"github.com/bookcatalog/backend/internal/apperrors"
	"github.com/go-sql-driver/mysql"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// MySQL server error numbers
const (
	mysqlDuplicateEntry  = 1062
	mysqlRowIsReferenced = 1451
	mysqlNoReferencedRow = 1452
	mysqlCheckViolated   = 3819
)

const (
	sqlitePrimaryResultMask  = 0xff
	constraintUniqueFragment = "UNIQUE"
)

// mapWriteError converts store constraint violations into domain errors.
// Errors that are not constraint violations are returned unchanged.
func mapWriteError(entity string, err error) error {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		switch mysqlErr.Number {
		case mysqlDuplicateEntry:
			return apperrors.Conflict(entity + " already exists").WithCause(err)
		case mysqlNoReferencedRow:
			return apperrors.NotFound("referenced entity not found").WithCause(err)
		case mysqlRowIsReferenced:
			return apperrors.Conflict(entity + " is still referenced").WithCause(err)
		case mysqlCheckViolated:
			return apperrors.Validation("invalid " + entity).WithCause(err)
		}
		return err
	}

	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return apperrors.Conflict(entity + " already exists").WithCause(err)
		case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
			return apperrors.NotFound("referenced entity not found").WithCause(err)
		case sqlite3.SQLITE_CONSTRAINT_CHECK:
			return apperrors.Validation("invalid " + entity).WithCause(err)
		}
		// Without extended result codes only the primary code is reported
		if sqliteErr.Code()&sqlitePrimaryResultMask == sqlite3.SQLITE_CONSTRAINT &&
			strings.Contains(sqliteErr.Error(), constraintUniqueFragment) {
			return apperrors.Conflict(entity + " already exists").WithCause(err)
		}
	}

	return err
}
