package backend

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/relabs-tech/jobly/core/access"
	"github.com/relabs-tech/jobly/core/logger"
)

var (
	// Version is the version of the curent build
	Version = "unset"
)

func (b *Backend) handleVersion(router *mux.Router) {
	logger.Default().Debugln("version")
	addRoute(router, "/version", http.MethodGet, func(w http.ResponseWriter, r *http.Request) error {
		if err := access.RequireAdmin(access.AuthorizationFromContext(r.Context())); err != nil {
			return err
		}
		return writeJSON(w, http.StatusOK, map[string]string{"version": Version})
	})
}
