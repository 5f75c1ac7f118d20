// Package csql provides the postgres database handle of jobly.
package csql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/lib/pq"

	"github.com/relabs-tech/jobly/core/logger"
)

// DB encapsulates a standard sql.DB with a schema
type DB struct {
	*sql.DB
	Schema string
	dsn    string
}

// ErrNoRows is returned by Scan when QueryRow doesn't return a
// row. In such a case, QueryRow returns a placeholder *Row value that
// defers this error until a Scan.
var ErrNoRows = sql.ErrNoRows

// postgres error codes handled by the stores
const (
	CodeUniqueViolation     = "23505"
	CodeForeignKeyViolation = "23503"
	CodeNotNullViolation    = "23502"
	CodeCheckViolation      = "23514"
	CodeInvalidText         = "22P02"
	CodeNumericOutOfRange   = "22003"
)

var schemaName = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// OpenWithSchema opens a postgres database with a schema. dataSourceName is a key/value
// connection string without password, the password is passed separately so it does not
// end up in logs.
// The schema gets created if it does not exist yet and is the search path of all connections.
func OpenWithSchema(dataSourceName, password, schema string) *DB {
	db, err := Open(context.Background(), dataSourceName, password, schema)
	if err != nil {
		panic(err)
	}
	return db
}

// Open is like OpenWithSchema but returns an error instead of panicking
func Open(ctx context.Context, dataSourceName, password, schema string) (*DB, error) {
	rlog := logger.FromContext(ctx)
	rlog.Infoln("connecting to postgres database: ", dataSourceName)
	if len(schema) == 0 {
		schema = "public"
	}
	if !schemaName.MatchString(schema) {
		return nil, fmt.Errorf("invalid schema name '%s'", schema)
	}

	dsn := dataSourceName
	if len(password) > 0 {
		dsn += " password=" + quoteValue(password)
	}
	dsn += " search_path=" + schema

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	if err = db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	if schema != "public" {
		rlog.Infoln("selected database schema:", schema)
		if _, err = db.ExecContext(ctx, `CREATE schema IF NOT EXISTS `+schema+`;`); err != nil {
			db.Close()
			return nil, err
		}
	}
	return &DB{DB: db, Schema: schema, dsn: dsn}, nil
}

// quoteValue quotes a value of a key/value connection string
func quoteValue(v string) string {
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `'`, `\'`)
	return "'" + v + "'"
}

// Table returns the schema qualified name of a table
func (db *DB) Table(name string) string {
	return db.Schema + "." + name
}

// ClearSchema clears all the data contained in the database's schema
// Technically this is done by dropping the schema and then recreating it
func (db *DB) ClearSchema() {
	if db.Schema == "public" {
		panic("refuse to drop public schema")
	}
	_, err := db.Exec(`DROP SCHEMA ` + db.Schema + ` CASCADE;
	CREATE schema IF NOT EXISTS ` + db.Schema + `;`)
	if err != nil {
		logger.Default().WithError(err).Errorln("clear schema error:", db.Schema)
	}
}

// PQCode returns the postgres error code of err, or an empty string if err is not
// a postgres error
func PQCode(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	return ""
}
