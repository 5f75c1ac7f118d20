package models

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/relabs-tech/jobly/core/apperr"
	"github.com/relabs-tech/jobly/core/csql"
	"github.com/relabs-tech/jobly/core/sqlhelper"
)

// Companies is the company store
type Companies struct {
	db *csql.DB

	insertQuery  string
	existsQuery  string
	selectQuery  string
	getQuery     string
	jobsQuery    string
	updateQuery  string
	deleteQuery  string
	orderBy      string
	setLogoQuery string
}

const companyColumnList = `handle, name, description, num_employees, logo_url`

// NewCompanies returns a company store
func NewCompanies(db *csql.DB) *Companies {
	table := db.Table("companies")
	return &Companies{
		db:           db,
		insertQuery:  fmt.Sprintf(`INSERT INTO %s (%s) VALUES ($1, $2, $3, $4, $5) RETURNING %s;`, table, companyColumnList, companyColumnList),
		existsQuery:  fmt.Sprintf(`SELECT 1 FROM %s WHERE handle = $1;`, table),
		selectQuery:  fmt.Sprintf(`SELECT %s FROM %s`, companyColumnList, table),
		getQuery:     fmt.Sprintf(`SELECT %s FROM %s WHERE handle = $1;`, companyColumnList, table),
		jobsQuery:    fmt.Sprintf(`SELECT id, title, salary, equity FROM %s WHERE company_handle = $1 ORDER BY id;`, db.Table("jobs")),
		updateQuery:  `UPDATE ` + table + ` SET %s WHERE handle = %s RETURNING ` + companyColumnList + `;`,
		deleteQuery:  fmt.Sprintf(`DELETE FROM %s WHERE handle = $1 RETURNING 1;`, table),
		orderBy:      ` ORDER BY name`,
		setLogoQuery: fmt.Sprintf(`UPDATE %s SET logo_url = $1 WHERE handle = $2 RETURNING %s;`, table, companyColumnList),
	}
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanCompany(row scanner) (*Company, error) {
	var c Company
	var numEmployees sql.NullInt64
	var logoURL sql.NullString
	if err := row.Scan(&c.Handle, &c.Name, &c.Description, &numEmployees, &logoURL); err != nil {
		return nil, err
	}
	c.NumEmployees = nullInt(numEmployees)
	c.LogoURL = nullString(logoURL)
	return &c, nil
}

// Create creates a company. A company with the same handle must not exist yet.
func (s *Companies) Create(ctx context.Context, data CompanyNew) (*Company, error) {
	duplicate, err := exists(s.db.QueryRowContext(ctx, s.existsQuery, data.Handle))
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if duplicate {
		return nil, apperr.BadRequest("Duplicate company: %s", data.Handle)
	}

	company, err := scanCompany(s.db.QueryRowContext(ctx, s.insertQuery,
		data.Handle, data.Name, data.Description, data.NumEmployees, data.LogoURL))
	if err != nil {
		return nil, translate(err, apperr.BadRequest("Duplicate company: %s", data.Handle), nil)
	}
	return company, nil
}

// FindAll returns all companies matching filter, ordered by name
func (s *Companies) FindAll(ctx context.Context, filter CompanyFilter) ([]Company, error) {
	if filter.MinEmployees != nil && filter.MaxEmployees != nil && *filter.MinEmployees > *filter.MaxEmployees {
		return nil, apperr.BadRequest("Min employees cannot be greater than max")
	}

	var conditions []string
	var values []interface{}
	if filter.MinEmployees != nil {
		values = append(values, *filter.MinEmployees)
		conditions = append(conditions, "num_employees >= "+sqlhelper.Placeholder(len(values)))
	}
	if filter.MaxEmployees != nil {
		values = append(values, *filter.MaxEmployees)
		conditions = append(conditions, "num_employees <= "+sqlhelper.Placeholder(len(values)))
	}
	if filter.Name != nil {
		values = append(values, "%"+escapeLike(*filter.Name)+"%")
		conditions = append(conditions, "name ILIKE "+sqlhelper.Placeholder(len(values)))
	}

	query := s.selectQuery
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += s.orderBy + ";"

	rows, err := s.db.QueryContext(ctx, query, values...)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	defer rows.Close()

	companies := []Company{}
	for rows.Next() {
		company, err := scanCompany(rows)
		if err != nil {
			return nil, apperr.Internal(err)
		}
		companies = append(companies, *company)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Internal(err)
	}
	return companies, nil
}

// Get returns the company with the given handle and its jobs
func (s *Companies) Get(ctx context.Context, handle string) (*CompanyDetail, error) {
	company, err := scanCompany(s.db.QueryRowContext(ctx, s.getQuery, handle))
	if err == csql.ErrNoRows {
		return nil, apperr.NotFound("No company: %s", handle)
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}

	rows, err := s.db.QueryContext(ctx, s.jobsQuery, handle)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	defer rows.Close()

	detail := &CompanyDetail{Company: *company, Jobs: []JobSummary{}}
	for rows.Next() {
		var job JobSummary
		var salary sql.NullInt64
		var equity sql.NullString
		if err := rows.Scan(&job.ID, &job.Title, &salary, &equity); err != nil {
			return nil, apperr.Internal(err)
		}
		job.Salary = nullInt(salary)
		job.Equity = nullString(equity)
		detail.Jobs = append(detail.Jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Internal(err)
	}
	return detail, nil
}

// Update applies a partial update to the company with the given handle.
// The handle cannot be changed.
func (s *Companies) Update(ctx context.Context, handle string, data CompanyUpdate) (*Company, error) {
	setClause, values, err := sqlhelper.ForPartialUpdate(data.Fields(), companyColumns)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf(s.updateQuery, setClause, sqlhelper.Placeholder(len(values)+1))
	company, err := scanCompany(s.db.QueryRowContext(ctx, query, append(values, handle)...))
	if err == csql.ErrNoRows {
		return nil, apperr.NotFound("No company: %s", handle)
	}
	if err != nil {
		return nil, translate(err, apperr.BadRequest("Duplicate company name"), nil)
	}
	return company, nil
}

// SetLogo sets the logo url of the company with the given handle
func (s *Companies) SetLogo(ctx context.Context, handle string, logoURL string) (*Company, error) {
	company, err := scanCompany(s.db.QueryRowContext(ctx, s.setLogoQuery, logoURL, handle))
	if err == csql.ErrNoRows {
		return nil, apperr.NotFound("No company: %s", handle)
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return company, nil
}

// Remove deletes the company with the given handle together with its jobs
func (s *Companies) Remove(ctx context.Context, handle string) error {
	found, err := exists(s.db.QueryRowContext(ctx, s.deleteQuery, handle))
	if err != nil {
		return apperr.Internal(err)
	}
	if !found {
		return apperr.NotFound("No company: %s", handle)
	}
	return nil
}

// escapeLike escapes the wildcards of a LIKE pattern
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
