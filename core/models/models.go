/*
Package models implements the jobly entities on top of postgres.

Each store is created with an injected *csql.DB and prepares its SQL once at
construction. All operations return errors from package apperr: NotFound when a
referenced key does not exist, BadRequest for duplicates and invalid input. Database
failures are wrapped as internal errors.
*/
package models

import (
	"github.com/relabs-tech/jobly/core/sqlhelper"
)

// Company is a company posting jobs
type Company struct {
	Handle       string  `json:"handle"`
	Name         string  `json:"name"`
	Description  string  `json:"description"`
	NumEmployees *int    `json:"numEmployees"`
	LogoURL      *string `json:"logoUrl"`
}

// CompanyDetail is a company with its jobs
type CompanyDetail struct {
	Company
	Jobs []JobSummary `json:"jobs"`
}

// CompanyNew is the data for a new company
type CompanyNew struct {
	Handle       string  `json:"handle"`
	Name         string  `json:"name"`
	Description  string  `json:"description"`
	NumEmployees *int    `json:"numEmployees"`
	LogoURL      *string `json:"logoUrl"`
}

// CompanyUpdate holds the fields of a partial company update. Nil fields are left untouched.
type CompanyUpdate struct {
	Name         *string `json:"name"`
	Description  *string `json:"description"`
	NumEmployees *int    `json:"numEmployees"`
	LogoURL      *string `json:"logoUrl"`
}

var companyColumns = map[string]string{
	"numEmployees": "num_employees",
	"logoUrl":      "logo_url",
}

// Fields returns the set fields in declaration order
func (u CompanyUpdate) Fields() sqlhelper.Fields {
	var f sqlhelper.Fields
	if u.Name != nil {
		f.Add("name", *u.Name)
	}
	if u.Description != nil {
		f.Add("description", *u.Description)
	}
	if u.NumEmployees != nil {
		f.Add("numEmployees", *u.NumEmployees)
	}
	if u.LogoURL != nil {
		f.Add("logoUrl", *u.LogoURL)
	}
	return f
}

// CompanyFilter filters FindAll. Nil fields do not filter, set fields are combined with AND.
type CompanyFilter struct {
	MinEmployees *int
	MaxEmployees *int
	// Name matches case-insensitive anywhere in the company name
	Name *string
}

// Job is a job posted by a company. Equity is a decimal string between 0 and 1.
type Job struct {
	ID            int     `json:"id"`
	Title         string  `json:"title"`
	Salary        *int    `json:"salary"`
	Equity        *string `json:"equity"`
	CompanyHandle string  `json:"companyHandle"`
}

// JobSummary is a job as listed with its company
type JobSummary struct {
	ID     int     `json:"id"`
	Title  string  `json:"title"`
	Salary *int    `json:"salary"`
	Equity *string `json:"equity"`
}

// JobDetail is a job with its company and the ids of its technologies
type JobDetail struct {
	Job
	Company      *Company `json:"company"`
	Technologies []int    `json:"technologies"`
}

// JobNew is the data for a new job
type JobNew struct {
	Title         string  `json:"title"`
	Salary        *int    `json:"salary"`
	Equity        *string `json:"equity"`
	CompanyHandle string  `json:"companyHandle"`
}

// JobUpdate holds the fields of a partial job update. Nil fields are left untouched.
type JobUpdate struct {
	Title         *string `json:"title"`
	Salary        *int    `json:"salary"`
	Equity        *string `json:"equity"`
	CompanyHandle *string `json:"companyHandle"`
}

var jobColumns = map[string]string{
	"companyHandle": "company_handle",
}

// Fields returns the set fields in declaration order
func (u JobUpdate) Fields() sqlhelper.Fields {
	var f sqlhelper.Fields
	if u.Title != nil {
		f.Add("title", *u.Title)
	}
	if u.Salary != nil {
		f.Add("salary", *u.Salary)
	}
	if u.Equity != nil {
		f.Add("equity", *u.Equity)
	}
	if u.CompanyHandle != nil {
		f.Add("companyHandle", *u.CompanyHandle)
	}
	return f
}

// JobFilter filters FindAll. Nil fields do not filter, set fields are combined with AND.
type JobFilter struct {
	// Title matches case-insensitive anywhere in the title
	Title     *string
	MinSalary *int
	// HasEquity true only returns jobs with non-zero equity, false does not filter
	HasEquity *bool
}

// User is a jobly user. The password hash never leaves the store.
type User struct {
	Username  string `json:"username"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	IsAdmin   bool   `json:"isAdmin"`
}

// UserDetail is a user with the ids of the jobs applied to and of their technologies
type UserDetail struct {
	User
	Applications []int `json:"applications"`
	Technologies []int `json:"technologies"`
}

// UserNew is the data for a new user
type UserNew struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	IsAdmin   bool   `json:"isAdmin"`
}

// UserUpdate holds the fields of a partial user update. Nil fields are left untouched.
type UserUpdate struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Password  *string `json:"password"`
	Email     *string `json:"email"`
	IsAdmin   *bool   `json:"isAdmin"`
}

var userColumns = map[string]string{
	"firstName": "first_name",
	"lastName":  "last_name",
	"isAdmin":   "is_admin",
}

// Fields returns the set fields in declaration order. The password is passed as given,
// the store replaces it with its hash.
func (u UserUpdate) Fields() sqlhelper.Fields {
	var f sqlhelper.Fields
	if u.FirstName != nil {
		f.Add("firstName", *u.FirstName)
	}
	if u.LastName != nil {
		f.Add("lastName", *u.LastName)
	}
	if u.Password != nil {
		f.Add("password", *u.Password)
	}
	if u.Email != nil {
		f.Add("email", *u.Email)
	}
	if u.IsAdmin != nil {
		f.Add("isAdmin", *u.IsAdmin)
	}
	return f
}

// Technology is a technology users know and jobs require
type Technology struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// TechnologyNew is the data for a new technology
type TechnologyNew struct {
	Name string `json:"name"`
}
