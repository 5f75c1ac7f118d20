// Package sqlhelper builds SQL fragments shared by the jobly stores.
package sqlhelper

import (
	"strconv"
	"strings"

	"github.com/relabs-tech/jobly/core/apperr"
)

// Field is a named value of a partial update
type Field struct {
	Name  string
	Value interface{}
}

// Fields is an ordered list of fields. The order determines the order of the
// generated SET fragments and placeholders.
type Fields []Field

// Add appends a field
func (f *Fields) Add(name string, value interface{}) {
	*f = append(*f, Field{Name: name, Value: value})
}

// Placeholder returns the positional parameter $n
func Placeholder(n int) string {
	return "$" + strconv.Itoa(n)
}

// ForPartialUpdate builds the SET clause of an UPDATE statement for the given fields.
//
// Each field becomes a fragment "<column>"=$i with i starting at 1, fragments are joined
// with ", ". The column is looked up in fieldToColumn, fields without an entry use their
// name verbatim. values holds the field values in the same order, so a caller can use
// Placeholder(len(values)+1) for the key of the WHERE clause.
//
// An empty list of fields is a BadRequest "No data".
func ForPartialUpdate(data Fields, fieldToColumn map[string]string) (setClause string, values []interface{}, err error) {
	if len(data) == 0 {
		return "", nil, apperr.BadRequest("No data")
	}

	fragments := make([]string, 0, len(data))
	values = make([]interface{}, 0, len(data))
	for i, field := range data {
		column, ok := fieldToColumn[field.Name]
		if !ok {
			column = field.Name
		}
		fragments = append(fragments, `"`+column+`"=`+Placeholder(i+1))
		values = append(values, field.Value)
	}
	return strings.Join(fragments, ", "), values, nil
}
