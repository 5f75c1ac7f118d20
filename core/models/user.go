package models

import (
	"context"
	"fmt"

	"github.com/relabs-tech/jobly/core/access"
	"github.com/relabs-tech/jobly/core/apperr"
	"github.com/relabs-tech/jobly/core/csql"
	"github.com/relabs-tech/jobly/core/sqlhelper"
)

// Users is the user store
type Users struct {
	db         *csql.DB
	bcryptCost int

	authQuery         string
	existsQuery       string
	insertQuery       string
	selectAllQuery    string
	getQuery          string
	applicationsQuery string
	technologiesQuery string
	updateQuery       string
	deleteQuery       string

	applications *association
	technologies *association
}

const userColumnList = `username, first_name, last_name, email, is_admin`

// NewUsers returns a user store. Passwords are hashed with the given bcrypt cost.
func NewUsers(db *csql.DB, bcryptCost int) *Users {
	table := db.Table("users")
	s := &Users{
		db:                db,
		bcryptCost:        bcryptCost,
		authQuery:         fmt.Sprintf(`SELECT %s, password FROM %s WHERE username = $1;`, userColumnList, table),
		existsQuery:       fmt.Sprintf(`SELECT 1 FROM %s WHERE username = $1;`, table),
		insertQuery:       fmt.Sprintf(`INSERT INTO %s (username, password, first_name, last_name, email, is_admin) VALUES ($1, $2, $3, $4, $5, $6) RETURNING %s;`, table, userColumnList),
		selectAllQuery:    fmt.Sprintf(`SELECT %s FROM %s ORDER BY username;`, userColumnList, table),
		getQuery:          fmt.Sprintf(`SELECT %s FROM %s WHERE username = $1;`, userColumnList, table),
		applicationsQuery: fmt.Sprintf(`SELECT job_id FROM %s WHERE username = $1 ORDER BY job_id;`, db.Table("applications")),
		technologiesQuery: fmt.Sprintf(`SELECT tech_id FROM %s WHERE user_username = $1 ORDER BY tech_id;`, db.Table("user_technologies")),
		updateQuery:       `UPDATE ` + table + ` SET %s WHERE username = %s RETURNING ` + userColumnList + `;`,
		deleteQuery:       fmt.Sprintf(`DELETE FROM %s WHERE username = $1 RETURNING 1;`, table),
	}

	userMissing := func(username interface{}) *apperr.Error {
		return apperr.NotFound("No user: %v", username)
	}

	s.applications = newAssociation(db, associationTables{
		table:       "applications",
		leftTable:   "users",
		leftKey:     "username",
		leftColumn:  "username",
		rightTable:  "jobs",
		rightKey:    "id",
		rightColumn: "job_id",
	})
	s.applications.leftMissing = userMissing
	s.applications.rightMissing = func(jobID interface{}) *apperr.Error {
		return apperr.NotFound("No job: %v", jobID)
	}
	s.applications.duplicate = func(username, jobID interface{}) *apperr.Error {
		return apperr.BadRequest("User %v already applied to job %v", username, jobID)
	}
	s.applications.pairMissing = func(username, jobID interface{}) *apperr.Error {
		return apperr.NotFound("User %v did not apply to job %v", username, jobID)
	}

	s.technologies = newAssociation(db, associationTables{
		table:       "user_technologies",
		leftTable:   "users",
		leftKey:     "username",
		leftColumn:  "user_username",
		rightTable:  "technologies",
		rightKey:    "id",
		rightColumn: "tech_id",
	})
	s.technologies.leftMissing = userMissing
	s.technologies.rightMissing = func(techID interface{}) *apperr.Error {
		return apperr.NotFound("No technology: %v", techID)
	}
	s.technologies.duplicate = func(username, techID interface{}) *apperr.Error {
		return apperr.BadRequest("User %v is already associated with technology %v", username, techID)
	}
	s.technologies.pairMissing = func(username, techID interface{}) *apperr.Error {
		return apperr.NotFound("User %v is not associated with technology %v", username, techID)
	}
	return s
}

func scanUser(row scanner, extra ...interface{}) (*User, error) {
	var u User
	dest := append([]interface{}{&u.Username, &u.FirstName, &u.LastName, &u.Email, &u.IsAdmin}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return &u, nil
}

// Authenticate returns the user if the password matches
func (s *Users) Authenticate(ctx context.Context, username, password string) (*User, error) {
	var hash string
	user, err := scanUser(s.db.QueryRowContext(ctx, s.authQuery, username), &hash)
	if err != nil && err != csql.ErrNoRows {
		return nil, apperr.Internal(err)
	}
	if err == nil && access.CheckPassword(hash, password) {
		return user, nil
	}
	return nil, apperr.Unauthorized("Invalid username/password")
}

// Register creates a user. The username must not be taken.
func (s *Users) Register(ctx context.Context, data UserNew) (*User, error) {
	duplicate, err := exists(s.db.QueryRowContext(ctx, s.existsQuery, data.Username))
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if duplicate {
		return nil, apperr.BadRequest("Duplicate username: %s", data.Username)
	}

	hash, err := access.HashPassword(data.Password, s.bcryptCost)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	user, err := scanUser(s.db.QueryRowContext(ctx, s.insertQuery,
		data.Username, hash, data.FirstName, data.LastName, data.Email, data.IsAdmin))
	if err != nil {
		return nil, translate(err, apperr.BadRequest("Duplicate username: %s", data.Username), nil)
	}
	return user, nil
}

// FindAll returns all users ordered by username
func (s *Users) FindAll(ctx context.Context) ([]User, error) {
	rows, err := s.db.QueryContext(ctx, s.selectAllQuery)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	defer rows.Close()
	users := []User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, apperr.Internal(err)
		}
		users = append(users, *user)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Internal(err)
	}
	return users, nil
}

// Get returns the user with the given username together with the ids of the jobs
// they applied to and of their technologies
func (s *Users) Get(ctx context.Context, username string) (*UserDetail, error) {
	user, err := scanUser(s.db.QueryRowContext(ctx, s.getQuery, username))
	if err == csql.ErrNoRows {
		return nil, apperr.NotFound("No user: %s", username)
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	applications, err := queryIDs(ctx, s.db, s.applicationsQuery, username)
	if err != nil {
		return nil, err
	}
	technologies, err := queryIDs(ctx, s.db, s.technologiesQuery, username)
	if err != nil {
		return nil, err
	}
	return &UserDetail{User: *user, Applications: applications, Technologies: technologies}, nil
}

// Update applies a partial update to the user with the given username. A new password
// is stored as hash.
func (s *Users) Update(ctx context.Context, username string, data UserUpdate) (*User, error) {
	if data.Password != nil {
		hash, err := access.HashPassword(*data.Password, s.bcryptCost)
		if err != nil {
			return nil, apperr.Internal(err)
		}
		data.Password = &hash
	}
	setClause, values, err := sqlhelper.ForPartialUpdate(data.Fields(), userColumns)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf(s.updateQuery, setClause, sqlhelper.Placeholder(len(values)+1))
	user, err := scanUser(s.db.QueryRowContext(ctx, query, append(values, username)...))
	if err == csql.ErrNoRows {
		return nil, apperr.NotFound("No user: %s", username)
	}
	if err != nil {
		return nil, translate(err, nil, nil)
	}
	return user, nil
}

// Remove deletes the user with the given username
func (s *Users) Remove(ctx context.Context, username string) error {
	found, err := exists(s.db.QueryRowContext(ctx, s.deleteQuery, username))
	if err != nil {
		return apperr.Internal(err)
	}
	if !found {
		return apperr.NotFound("No user: %s", username)
	}
	return nil
}

// Apply records that the user applied to a job
func (s *Users) Apply(ctx context.Context, username string, jobID int) error {
	return s.applications.add(ctx, username, jobID)
}

// AddTechnology associates the user with a technology
func (s *Users) AddTechnology(ctx context.Context, username string, techID int) error {
	return s.technologies.add(ctx, username, techID)
}

// RemoveTechnology removes the association of the user with a technology
func (s *Users) RemoveTechnology(ctx context.Context, username string, techID int) error {
	return s.technologies.remove(ctx, username, techID)
}
