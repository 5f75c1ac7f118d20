package backend

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/relabs-tech/jobly/core/logger"
)

func (b *Backend) handleHealth(router *mux.Router) {
	logger.Default().Debugln("health")
	addRoute(router, "/health", http.MethodGet, func(w http.ResponseWriter, r *http.Request) error {
		if b.db != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
			defer cancel()
			if err := b.db.PingContext(ctx); err != nil {
				logger.FromContext(r.Context()).WithError(err).Errorln("Error 4720: database ping")
				return writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			}
		}
		return writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
}
