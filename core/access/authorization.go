/*
Package access provides utilities for access control

An Authorization is added to a request context by the JWT middleware when the request
carries a valid session token, either as "Authorization: Bearer" header or as "Jobly-JWT"
cookie. Handlers check it with RequireLogin, RequireAdmin and RequireAdminOrUser.
*/
package access

import (
	"context"
	"net/http"

	"github.com/goccy/go-json"
	"github.com/gorilla/mux"

	"github.com/relabs-tech/jobly/core/apperr"
	"github.com/relabs-tech/jobly/core/logger"
)

// contextKey is the type for context keys. Go linter does not like plain strings
type contextKey string

// the predefined context key
const (
	contextKeyAuthorization contextKey = "_authorization_"
)

// Authorization is a context object which stores the authorization of a user
type Authorization struct {
	Username string `json:"username"`
	IsAdmin  bool   `json:"isAdmin"`
}

// IsUser returns true if the authorization belongs to the given user
func (a *Authorization) IsUser(username string) bool {
	return a != nil && a.Username == username
}

// ContextWithAuthorization returns a new context with this authorization added to it
func ContextWithAuthorization(ctx context.Context, auth *Authorization) context.Context {
	return context.WithValue(ctx, contextKeyAuthorization, auth)
}

// AuthorizationFromContext retrieves an authorization from the context
func AuthorizationFromContext(ctx context.Context) *Authorization {
	a, ok := ctx.Value(contextKeyAuthorization).(*Authorization)
	if ok {
		return a
	}
	return nil
}

// ErrAdminRequired is returned by RequireAdmin for authenticated users without admin privileges
const ErrAdminRequired = "Admin privileges required"

// RequireLogin returns an Unauthorized error if there is no authorization
func RequireLogin(auth *Authorization) error {
	if auth == nil {
		return apperr.Unauthorized("Unauthorized")
	}
	return nil
}

// RequireAdmin returns an Unauthorized error if there is no authorization and a
// BadRequest error if the authorized user is not an admin
func RequireAdmin(auth *Authorization) error {
	if err := RequireLogin(auth); err != nil {
		return err
	}
	if !auth.IsAdmin {
		return apperr.BadRequest(ErrAdminRequired)
	}
	return nil
}

// RequireAdminOrUser returns an Unauthorized error unless the authorization is an admin
// or belongs to username
func RequireAdminOrUser(auth *Authorization, username string) error {
	if err := RequireLogin(auth); err != nil {
		return err
	}
	if !auth.IsAdmin && !auth.IsUser(username) {
		return apperr.Unauthorized("Unauthorized")
	}
	return nil
}

// HandleAuthorizationRoute adds a route /authorization GET to the router
//
// The route returns the current authorization for provided bearer token.
func HandleAuthorizationRoute(router *mux.Router) {
	logger.Default().Debugln("authorization")
	logger.Default().Debugln("  handle route: /authorization GET")
	router.HandleFunc("/authorization", func(w http.ResponseWriter, r *http.Request) {
		logger.FromContext(r.Context()).Debugln("called route for", r.URL, r.Method)
		auth := AuthorizationFromContext(r.Context())
		if auth == nil {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		jsonData, _ := json.Marshal(auth)
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Write(jsonData)
	}).Methods(http.MethodOptions, http.MethodGet)
}
