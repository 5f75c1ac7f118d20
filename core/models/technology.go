package models

import (
	"context"
	"fmt"

	"github.com/relabs-tech/jobly/core/apperr"
	"github.com/relabs-tech/jobly/core/csql"
)

// Technologies is the technology store
type Technologies struct {
	db *csql.DB

	insertQuery    string
	existsQuery    string
	selectAllQuery string
	getQuery       string
	deleteQuery    string
}

// NewTechnologies returns a technology store
func NewTechnologies(db *csql.DB) *Technologies {
	table := db.Table("technologies")
	return &Technologies{
		db:             db,
		insertQuery:    fmt.Sprintf(`INSERT INTO %s (name) VALUES ($1) RETURNING id, name;`, table),
		existsQuery:    fmt.Sprintf(`SELECT 1 FROM %s WHERE name = $1;`, table),
		selectAllQuery: fmt.Sprintf(`SELECT id, name FROM %s ORDER BY name;`, table),
		getQuery:       fmt.Sprintf(`SELECT id, name FROM %s WHERE id = $1;`, table),
		deleteQuery:    fmt.Sprintf(`DELETE FROM %s WHERE id = $1 RETURNING 1;`, table),
	}
}

// Create creates a technology. Technology names are unique.
func (s *Technologies) Create(ctx context.Context, data TechnologyNew) (*Technology, error) {
	duplicate, err := exists(s.db.QueryRowContext(ctx, s.existsQuery, data.Name))
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if duplicate {
		return nil, apperr.BadRequest("Duplicate technology: %s", data.Name)
	}
	var t Technology
	err = s.db.QueryRowContext(ctx, s.insertQuery, data.Name).Scan(&t.ID, &t.Name)
	if err != nil {
		return nil, translate(err, apperr.BadRequest("Duplicate technology: %s", data.Name), nil)
	}
	return &t, nil
}

// FindAll returns all technologies ordered by name
func (s *Technologies) FindAll(ctx context.Context) ([]Technology, error) {
	rows, err := s.db.QueryContext(ctx, s.selectAllQuery)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	defer rows.Close()
	technologies := []Technology{}
	for rows.Next() {
		var t Technology
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, apperr.Internal(err)
		}
		technologies = append(technologies, t)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Internal(err)
	}
	return technologies, nil
}

// Get returns the technology with the given id
func (s *Technologies) Get(ctx context.Context, id int) (*Technology, error) {
	var t Technology
	err := s.db.QueryRowContext(ctx, s.getQuery, id).Scan(&t.ID, &t.Name)
	if err == csql.ErrNoRows {
		return nil, apperr.NotFound("No technology: %d", id)
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return &t, nil
}

// Remove deletes the technology with the given id and all its associations
func (s *Technologies) Remove(ctx context.Context, id int) error {
	found, err := exists(s.db.QueryRowContext(ctx, s.deleteQuery, id))
	if err != nil {
		return apperr.Internal(err)
	}
	if !found {
		return apperr.NotFound("No technology: %d", id)
	}
	return nil
}
