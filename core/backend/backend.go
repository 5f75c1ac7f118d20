package backend

import (
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/relabs-tech/jobly/core"
	"github.com/relabs-tech/jobly/core/access"
	"github.com/relabs-tech/jobly/core/apperr"
	"github.com/relabs-tech/jobly/core/csql"
	"github.com/relabs-tech/jobly/core/kss"
	"github.com/relabs-tech/jobly/core/logger"
	"github.com/relabs-tech/jobly/core/models"
	"github.com/relabs-tech/jobly/core/schema"
)

// Backend is the jobly rest backend
type Backend struct {
	db        *csql.DB
	router    *mux.Router
	tokens    *access.Tokens
	validator *schema.Validator
	notifier  core.Notifier
	logos     kss.Driver

	companies    CompanyStore
	jobs         JobStore
	users        UserStore
	technologies TechnologyStore
}

// Builder is a builder helper for the Backend
type Builder struct {
	// DB is a postgres database. Mandatory unless all stores are set.
	DB *csql.DB
	// Router is a mux router. This is mandatory.
	Router *mux.Router
	// Tokens issues and verifies session tokens. This is mandatory.
	Tokens *access.Tokens
	// Notifier receives a notification for every successful mutation. This is optional.
	Notifier core.Notifier
	// Logos stores company logos. Without it, the logo route is not installed.
	Logos kss.Driver
	// BcryptCost is the bcrypt work factor for the default user store
	BcryptCost int

	// The stores default to the postgres stores of package models on DB
	Companies    CompanyStore
	Jobs         JobStore
	Users        UserStore
	Technologies TechnologyStore
}

// New realizes the actual backend. It installs the middleware and adds the
// routes to the router.
func New(bb *Builder) *Backend {
	if bb.Router == nil {
		panic("Router is missing")
	}
	if bb.Tokens == nil {
		panic("Tokens is missing")
	}

	validator, err := schema.NewJoblyValidator()
	if err != nil {
		panic(err)
	}

	b := &Backend{
		db:           bb.DB,
		router:       bb.Router,
		tokens:       bb.Tokens,
		validator:    validator,
		notifier:     bb.Notifier,
		logos:        bb.Logos,
		companies:    bb.Companies,
		jobs:         bb.Jobs,
		users:        bb.Users,
		technologies: bb.Technologies,
	}

	if b.companies == nil || b.jobs == nil || b.users == nil || b.technologies == nil {
		if bb.DB == nil {
			panic("DB is missing")
		}
	}
	if b.companies == nil {
		b.companies = models.NewCompanies(bb.DB)
	}
	if b.jobs == nil {
		b.jobs = models.NewJobs(bb.DB)
	}
	if b.users == nil {
		b.users = models.NewUsers(bb.DB, bb.BcryptCost)
	}
	if b.technologies == nil {
		b.technologies = models.NewTechnologies(bb.DB)
	}

	logger.AddRequestID(b.router)
	b.router.Use(handlers.RecoveryHandler(
		handlers.RecoveryLogger(logger.Default()),
		handlers.PrintRecoveryStack(true),
	))
	b.handleCORS()
	b.handleCompression()
	b.router.Use(access.NewJwtMiddelware(b.tokens))

	notFound := logger.RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apperr.Write(w, r, apperr.NotFound("Not Found"))
	}))
	b.router.NotFoundHandler = notFound
	b.router.MethodNotAllowedHandler = notFound

	access.HandleAuthorizationRoute(b.router)
	b.handleAuth(b.router)
	b.handleCompanies(b.router)
	b.handleJobs(b.router)
	b.handleUsers(b.router)
	b.handleTechnologies(b.router)
	b.handleVersion(b.router)
	b.handleHealth(b.router)
	b.handleStatistics(b.router)
	return b
}

// Tokens returns the token issuer of this backend
func (b *Backend) Tokens() *access.Tokens {
	return b.tokens
}
