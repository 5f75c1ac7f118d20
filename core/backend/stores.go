package backend

import (
	"context"

	"github.com/relabs-tech/jobly/core/models"
)

// CompanyStore is implemented by models.Companies
type CompanyStore interface {
	Create(ctx context.Context, data models.CompanyNew) (*models.Company, error)
	FindAll(ctx context.Context, filter models.CompanyFilter) ([]models.Company, error)
	Get(ctx context.Context, handle string) (*models.CompanyDetail, error)
	Update(ctx context.Context, handle string, data models.CompanyUpdate) (*models.Company, error)
	SetLogo(ctx context.Context, handle string, logoURL string) (*models.Company, error)
	Remove(ctx context.Context, handle string) error
}

// JobStore is implemented by models.Jobs
type JobStore interface {
	Create(ctx context.Context, data models.JobNew) (*models.Job, error)
	FindAll(ctx context.Context, filter models.JobFilter) ([]models.Job, error)
	Get(ctx context.Context, id int) (*models.JobDetail, error)
	Update(ctx context.Context, id int, data models.JobUpdate) (*models.Job, error)
	Remove(ctx context.Context, id int) error
	AddTechnology(ctx context.Context, id, techID int) error
	RemoveTechnology(ctx context.Context, id, techID int) error
}

// UserStore is implemented by models.Users
type UserStore interface {
	Authenticate(ctx context.Context, username, password string) (*models.User, error)
	Register(ctx context.Context, data models.UserNew) (*models.User, error)
	FindAll(ctx context.Context) ([]models.User, error)
	Get(ctx context.Context, username string) (*models.UserDetail, error)
	Update(ctx context.Context, username string, data models.UserUpdate) (*models.User, error)
	Remove(ctx context.Context, username string) error
	Apply(ctx context.Context, username string, jobID int) error
	AddTechnology(ctx context.Context, username string, techID int) error
	RemoveTechnology(ctx context.Context, username string, techID int) error
}

// TechnologyStore is implemented by models.Technologies
type TechnologyStore interface {
	Create(ctx context.Context, data models.TechnologyNew) (*models.Technology, error)
	FindAll(ctx context.Context) ([]models.Technology, error)
	Get(ctx context.Context, id int) (*models.Technology, error)
	Remove(ctx context.Context, id int) error
}

var (
	_ CompanyStore    = (*models.Companies)(nil)
	_ JobStore        = (*models.Jobs)(nil)
	_ UserStore       = (*models.Users)(nil)
	_ TechnologyStore = (*models.Technologies)(nil)
)
