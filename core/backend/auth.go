package backend

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/relabs-tech/jobly/core"
	"github.com/relabs-tech/jobly/core/access"
	"github.com/relabs-tech/jobly/core/apperr"
	"github.com/relabs-tech/jobly/core/logger"
	"github.com/relabs-tech/jobly/core/models"
	"github.com/relabs-tech/jobly/core/schema"
)

type tokenResponse struct {
	Token string `json:"token"`
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (b *Backend) handleAuth(router *mux.Router) {
	logger.Default().Debugln("auth")
	addRoute(router, "/auth/token", http.MethodPost, b.authToken)
	addRoute(router, "/auth/register", http.MethodPost, b.authRegister)
}

func (b *Backend) createToken(user *models.User) (string, error) {
	token, err := b.tokens.Create(access.Authorization{Username: user.Username, IsAdmin: user.IsAdmin})
	if err != nil {
		return "", apperr.Internal(err)
	}
	return token, nil
}

func (b *Backend) authToken(w http.ResponseWriter, r *http.Request) error {
	var c credentials
	if err := b.decode(r, schema.UserAuth, &c); err != nil {
		return err
	}
	user, err := b.users.Authenticate(r.Context(), c.Username, c.Password)
	if err != nil {
		return err
	}
	token, err := b.createToken(user)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, tokenResponse{Token: token})
}

func (b *Backend) authRegister(w http.ResponseWriter, r *http.Request) error {
	var data models.UserNew
	if err := b.decode(r, schema.UserRegister, &data); err != nil {
		return err
	}
	data.IsAdmin = false
	user, err := b.users.Register(r.Context(), data)
	if err != nil {
		return err
	}
	b.notify(r.Context(), core.ResourceUser, core.OperationCreate, user.Username)
	token, err := b.createToken(user)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusCreated, tokenResponse{Token: token})
}
