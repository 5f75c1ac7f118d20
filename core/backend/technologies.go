package backend

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/relabs-tech/jobly/core"
	"github.com/relabs-tech/jobly/core/access"
	"github.com/relabs-tech/jobly/core/logger"
	"github.com/relabs-tech/jobly/core/models"
	"github.com/relabs-tech/jobly/core/schema"
)

func (b *Backend) handleTechnologies(router *mux.Router) {
	logger.Default().Debugln("technologies")
	addRoute(router, "/technologies", http.MethodPost, b.createTechnology)
	addRoute(router, "/technologies", http.MethodGet, b.listTechnologies)
	addRoute(router, "/technologies/{id}", http.MethodGet, b.getTechnology)
	addRoute(router, "/technologies/{id}", http.MethodDelete, b.deleteTechnology)
}

func (b *Backend) createTechnology(w http.ResponseWriter, r *http.Request) error {
	if err := access.RequireAdmin(access.AuthorizationFromContext(r.Context())); err != nil {
		return err
	}
	var data models.TechnologyNew
	if err := b.decode(r, schema.TechnologyNew, &data); err != nil {
		return err
	}
	technology, err := b.technologies.Create(r.Context(), data)
	if err != nil {
		return err
	}
	b.notify(r.Context(), core.ResourceTechnology, core.OperationCreate, strconv.Itoa(technology.ID))
	return writeJSON(w, http.StatusCreated, map[string]interface{}{"technology": technology})
}

func (b *Backend) listTechnologies(w http.ResponseWriter, r *http.Request) error {
	technologies, err := b.technologies.FindAll(r.Context())
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, map[string]interface{}{"technologies": technologies})
}

func (b *Backend) getTechnology(w http.ResponseWriter, r *http.Request) error {
	id, err := pathInt(r, "id", "technology")
	if err != nil {
		return err
	}
	technology, err := b.technologies.Get(r.Context(), id)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, map[string]interface{}{"technology": technology})
}

func (b *Backend) deleteTechnology(w http.ResponseWriter, r *http.Request) error {
	if err := access.RequireAdmin(access.AuthorizationFromContext(r.Context())); err != nil {
		return err
	}
	id, err := pathInt(r, "id", "technology")
	if err != nil {
		return err
	}
	if err := b.technologies.Remove(r.Context(), id); err != nil {
		return err
	}
	b.notify(r.Context(), core.ResourceTechnology, core.OperationDelete, strconv.Itoa(id))
	return writeJSON(w, http.StatusOK, map[string]int{"deleted": id})
}
