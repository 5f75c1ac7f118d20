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

// Jobs is the job store
type Jobs struct {
	db *csql.DB

	companyExistsQuery string
	insertQuery        string
	selectQuery        string
	getQuery           string
	technologiesQuery  string
	updateQuery        string
	deleteQuery        string

	technologies *association
}

const jobColumnList = `id, title, salary, equity, company_handle`

// NewJobs returns a job store
func NewJobs(db *csql.DB) *Jobs {
	table := db.Table("jobs")
	s := &Jobs{
		db:                 db,
		companyExistsQuery: fmt.Sprintf(`SELECT 1 FROM %s WHERE handle = $1;`, db.Table("companies")),
		insertQuery:        fmt.Sprintf(`INSERT INTO %s (title, salary, equity, company_handle) VALUES ($1, $2, $3, $4) RETURNING %s;`, table, jobColumnList),
		selectQuery:        fmt.Sprintf(`SELECT %s FROM %s`, jobColumnList, table),
		getQuery: fmt.Sprintf(`SELECT j.id, j.title, j.salary, j.equity, j.company_handle,
 c.handle, c.name, c.description, c.num_employees, c.logo_url
 FROM %s j JOIN %s c ON c.handle = j.company_handle WHERE j.id = $1;`, table, db.Table("companies")),
		technologiesQuery: fmt.Sprintf(`SELECT tech_id FROM %s WHERE job_id = $1 ORDER BY tech_id;`, db.Table("job_technologies")),
		updateQuery:       `UPDATE ` + table + ` SET %s WHERE id = %s RETURNING ` + jobColumnList + `;`,
		deleteQuery:       fmt.Sprintf(`DELETE FROM %s WHERE id = $1 RETURNING 1;`, table),
	}

	s.technologies = newAssociation(db, associationTables{
		table:       "job_technologies",
		leftTable:   "jobs",
		leftKey:     "id",
		leftColumn:  "job_id",
		rightTable:  "technologies",
		rightKey:    "id",
		rightColumn: "tech_id",
	})
	s.technologies.leftMissing = func(id interface{}) *apperr.Error {
		return apperr.NotFound("No job: %v", id)
	}
	s.technologies.rightMissing = func(techID interface{}) *apperr.Error {
		return apperr.NotFound("No technology: %v", techID)
	}
	s.technologies.duplicate = func(id, techID interface{}) *apperr.Error {
		return apperr.BadRequest("Job %v is already associated with technology %v", id, techID)
	}
	s.technologies.pairMissing = func(id, techID interface{}) *apperr.Error {
		return apperr.NotFound("Job %v is not associated with technology %v", id, techID)
	}
	return s
}

func scanJob(row scanner, extra ...interface{}) (*Job, error) {
	var j Job
	var salary sql.NullInt64
	var equity sql.NullString
	dest := append([]interface{}{&j.ID, &j.Title, &salary, &equity, &j.CompanyHandle}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	j.Salary = nullInt(salary)
	j.Equity = nullString(equity)
	return &j, nil
}

// Create creates a job for an existing company
func (s *Jobs) Create(ctx context.Context, data JobNew) (*Job, error) {
	found, err := exists(s.db.QueryRowContext(ctx, s.companyExistsQuery, data.CompanyHandle))
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if !found {
		return nil, apperr.NotFound("No company: %s", data.CompanyHandle)
	}

	job, err := scanJob(s.db.QueryRowContext(ctx, s.insertQuery, data.Title, data.Salary, data.Equity, data.CompanyHandle))
	if err != nil {
		return nil, translate(err, nil, apperr.NotFound("No company: %s", data.CompanyHandle))
	}
	return job, nil
}

// FindAll returns all jobs matching filter, ordered by title
func (s *Jobs) FindAll(ctx context.Context, filter JobFilter) ([]Job, error) {
	var conditions []string
	var values []interface{}
	if filter.Title != nil {
		values = append(values, "%"+escapeLike(*filter.Title)+"%")
		conditions = append(conditions, "title ILIKE "+sqlhelper.Placeholder(len(values)))
	}
	if filter.MinSalary != nil {
		values = append(values, *filter.MinSalary)
		conditions = append(conditions, "salary >= "+sqlhelper.Placeholder(len(values)))
	}
	if filter.HasEquity != nil && *filter.HasEquity {
		conditions = append(conditions, "equity > 0")
	}

	query := s.selectQuery
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY title, id;"

	rows, err := s.db.QueryContext(ctx, query, values...)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	defer rows.Close()

	jobs := []Job{}
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, apperr.Internal(err)
		}
		jobs = append(jobs, *job)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Internal(err)
	}
	return jobs, nil
}

// Get returns the job with the given id together with its company and technologies
func (s *Jobs) Get(ctx context.Context, id int) (*JobDetail, error) {
	var company Company
	var numEmployees sql.NullInt64
	var logoURL sql.NullString
	job, err := scanJob(s.db.QueryRowContext(ctx, s.getQuery, id),
		&company.Handle, &company.Name, &company.Description, &numEmployees, &logoURL)
	if err == csql.ErrNoRows {
		return nil, apperr.NotFound("No job: %d", id)
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	company.NumEmployees = nullInt(numEmployees)
	company.LogoURL = nullString(logoURL)

	technologies, err := queryIDs(ctx, s.db, s.technologiesQuery, id)
	if err != nil {
		return nil, err
	}
	return &JobDetail{Job: *job, Company: &company, Technologies: technologies}, nil
}

// Update applies a partial update to the job with the given id. The job can be moved
// to another existing company.
func (s *Jobs) Update(ctx context.Context, id int, data JobUpdate) (*Job, error) {
	setClause, values, err := sqlhelper.ForPartialUpdate(data.Fields(), jobColumns)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf(s.updateQuery, setClause, sqlhelper.Placeholder(len(values)+1))
	job, err := scanJob(s.db.QueryRowContext(ctx, query, append(values, id)...))
	if err == csql.ErrNoRows {
		return nil, apperr.NotFound("No job: %d", id)
	}
	if err != nil {
		var handle string
		if data.CompanyHandle != nil {
			handle = *data.CompanyHandle
		}
		return nil, translate(err, nil, apperr.NotFound("No company: %s", handle))
	}
	return job, nil
}

// Remove deletes the job with the given id
func (s *Jobs) Remove(ctx context.Context, id int) error {
	found, err := exists(s.db.QueryRowContext(ctx, s.deleteQuery, id))
	if err != nil {
		return apperr.Internal(err)
	}
	if !found {
		return apperr.NotFound("No job: %d", id)
	}
	return nil
}

// AddTechnology associates the job with a technology
func (s *Jobs) AddTechnology(ctx context.Context, id, techID int) error {
	return s.technologies.add(ctx, id, techID)
}

// RemoveTechnology removes the association of the job with a technology
func (s *Jobs) RemoveTechnology(ctx context.Context, id, techID int) error {
	return s.technologies.remove(ctx, id, techID)
}

// queryIDs returns the integer column of all rows of query
func queryIDs(ctx context.Context, db *csql.DB, query string, args ...interface{}) ([]int, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	defer rows.Close()
	ids := []int{}
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, apperr.Internal(err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Internal(err)
	}
	return ids, nil
}
