package models

import (
	"context"
	"fmt"

	"github.com/relabs-tech/jobly/core/apperr"
	"github.com/relabs-tech/jobly/core/csql"
)

// association is a many-to-many join table between a left and a right entity.
//
// Adding a pair checks that both sides exist and that the pair is new before inserting.
// The checks give precise errors, the unique constraint on the join table is what keeps
// concurrent adds from inserting a pair twice.
type association struct {
	db *csql.DB

	leftExistsQuery  string
	rightExistsQuery string
	pairExistsQuery  string
	insertQuery      string
	deleteQuery      string

	leftMissing  func(left interface{}) *apperr.Error
	rightMissing func(right interface{}) *apperr.Error
	duplicate    func(left, right interface{}) *apperr.Error
	pairMissing  func(left, right interface{}) *apperr.Error
}

type associationTables struct {
	table       string
	leftTable   string
	leftKey     string
	leftColumn  string
	rightTable  string
	rightKey    string
	rightColumn string
}

func newAssociation(db *csql.DB, t associationTables) *association {
	return &association{
		db:               db,
		leftExistsQuery:  fmt.Sprintf(`SELECT 1 FROM %s WHERE %s = $1;`, db.Table(t.leftTable), t.leftKey),
		rightExistsQuery: fmt.Sprintf(`SELECT 1 FROM %s WHERE %s = $1;`, db.Table(t.rightTable), t.rightKey),
		pairExistsQuery:  fmt.Sprintf(`SELECT 1 FROM %s WHERE %s = $1 AND %s = $2;`, db.Table(t.table), t.leftColumn, t.rightColumn),
		insertQuery:      fmt.Sprintf(`INSERT INTO %s (%s, %s) VALUES ($1, $2);`, db.Table(t.table), t.leftColumn, t.rightColumn),
		deleteQuery:      fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND %s = $2 RETURNING 1;`, db.Table(t.table), t.leftColumn, t.rightColumn),
	}
}

// add inserts the pair (left, right)
func (a *association) add(ctx context.Context, left, right interface{}) error {
	ok, err := exists(a.db.QueryRowContext(ctx, a.leftExistsQuery, left))
	if err != nil {
		return apperr.Internal(err)
	}
	if !ok {
		return a.leftMissing(left)
	}

	ok, err = exists(a.db.QueryRowContext(ctx, a.rightExistsQuery, right))
	if err != nil {
		return apperr.Internal(err)
	}
	if !ok {
		return a.rightMissing(right)
	}

	ok, err = exists(a.db.QueryRowContext(ctx, a.pairExistsQuery, left, right))
	if err != nil {
		return apperr.Internal(err)
	}
	if ok {
		return a.duplicate(left, right)
	}

	// a foreign key violation means one side was removed after the checks
	if _, err = a.db.ExecContext(ctx, a.insertQuery, left, right); err != nil {
		return translate(err, a.duplicate(left, right), nil)
	}
	return nil
}

// remove deletes the pair (left, right)
func (a *association) remove(ctx context.Context, left, right interface{}) error {
	ok, err := exists(a.db.QueryRowContext(ctx, a.deleteQuery, left, right))
	if err != nil {
		return apperr.Internal(err)
	}
	if !ok {
		return a.pairMissing(left, right)
	}
	return nil
}
