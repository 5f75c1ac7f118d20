package models

import (
	"database/sql"
	"errors"

	"github.com/relabs-tech/jobly/core/apperr"
	"github.com/relabs-tech/jobly/core/csql"
)

// translate maps a database error to an application error. onUnique and onForeignKey
// are returned for unique and foreign key violations if not nil, any other error
// becomes an internal error.
func translate(err error, onUnique, onForeignKey *apperr.Error) error {
	if err == nil {
		return nil
	}
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		return err
	}
	switch csql.PQCode(err) {
	case csql.CodeUniqueViolation:
		if onUnique != nil {
			return onUnique
		}
		return apperr.BadRequest("Duplicate entry")
	case csql.CodeForeignKeyViolation:
		if onForeignKey != nil {
			return onForeignKey
		}
		return apperr.NotFound("Referenced entity not found")
	case csql.CodeCheckViolation, csql.CodeNotNullViolation, csql.CodeInvalidText, csql.CodeNumericOutOfRange:
		return apperr.BadRequest("Invalid value")
	}
	return apperr.Internal(err)
}

// exists reports whether row, the result of a "SELECT 1 ..." query, holds a row
func exists(row *sql.Row) (bool, error) {
	var one int
	err := row.Scan(&one)
	if err == csql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func nullString(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	return &s.String
}

func nullInt(i sql.NullInt64) *int {
	if !i.Valid {
		return nil
	}
	v := int(i.Int64)
	return &v
}
