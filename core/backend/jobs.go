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

type jobResponse struct {
	Job interface{} `json:"job"`
}

func (b *Backend) handleJobs(router *mux.Router) {
	logger.Default().Debugln("jobs")
	addRoute(router, "/jobs", http.MethodPost, b.createJob)
	addRoute(router, "/jobs", http.MethodGet, b.listJobs)
	addRoute(router, "/jobs/{id}", http.MethodGet, b.getJob)
	addRoute(router, "/jobs/{id}", http.MethodPatch, b.updateJob)
	addRoute(router, "/jobs/{id}", http.MethodDelete, b.deleteJob)
	addRoute(router, "/jobs/{id}/technologies/{techId}", http.MethodPost, b.addJobTechnology)
	addRoute(router, "/jobs/{id}/technologies/{techId}", http.MethodDelete, b.removeJobTechnology)
}

func (b *Backend) createJob(w http.ResponseWriter, r *http.Request) error {
	if err := access.RequireAdmin(access.AuthorizationFromContext(r.Context())); err != nil {
		return err
	}
	var data models.JobNew
	if err := b.decode(r, schema.JobNew, &data); err != nil {
		return err
	}
	job, err := b.jobs.Create(r.Context(), data)
	if err != nil {
		return err
	}
	b.notify(r.Context(), core.ResourceJob, core.OperationCreate, strconv.Itoa(job.ID))
	return writeJSON(w, http.StatusCreated, jobResponse{Job: job})
}

func (b *Backend) listJobs(w http.ResponseWriter, r *http.Request) error {
	if err := checkQuery(r, "title", "minSalary", "hasEquity"); err != nil {
		return err
	}
	var filter models.JobFilter
	var err error
	filter.Title = queryString(r, "title")
	if filter.MinSalary, err = queryInt(r, "minSalary"); err != nil {
		return err
	}
	if filter.HasEquity, err = queryBool(r, "hasEquity"); err != nil {
		return err
	}

	jobs, err := b.jobs.FindAll(r.Context(), filter)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, map[string]interface{}{"jobs": jobs})
}

func (b *Backend) getJob(w http.ResponseWriter, r *http.Request) error {
	id, err := pathInt(r, "id", "job")
	if err != nil {
		return err
	}
	job, err := b.jobs.Get(r.Context(), id)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, jobResponse{Job: job})
}

func (b *Backend) updateJob(w http.ResponseWriter, r *http.Request) error {
	if err := access.RequireAdmin(access.AuthorizationFromContext(r.Context())); err != nil {
		return err
	}
	id, err := pathInt(r, "id", "job")
	if err != nil {
		return err
	}
	var data models.JobUpdate
	if err := b.decode(r, schema.JobUpdate, &data); err != nil {
		return err
	}
	job, err := b.jobs.Update(r.Context(), id, data)
	if err != nil {
		return err
	}
	b.notify(r.Context(), core.ResourceJob, core.OperationUpdate, strconv.Itoa(id))
	return writeJSON(w, http.StatusOK, jobResponse{Job: job})
}

func (b *Backend) deleteJob(w http.ResponseWriter, r *http.Request) error {
	if err := access.RequireAdmin(access.AuthorizationFromContext(r.Context())); err != nil {
		return err
	}
	id, err := pathInt(r, "id", "job")
	if err != nil {
		return err
	}
	if err := b.jobs.Remove(r.Context(), id); err != nil {
		return err
	}
	b.notify(r.Context(), core.ResourceJob, core.OperationDelete, strconv.Itoa(id))
	return writeJSON(w, http.StatusOK, map[string]int{"deleted": id})
}

func (b *Backend) addJobTechnology(w http.ResponseWriter, r *http.Request) error {
	if err := access.RequireAdmin(access.AuthorizationFromContext(r.Context())); err != nil {
		return err
	}
	id, err := pathInt(r, "id", "job")
	if err != nil {
		return err
	}
	techID, err := pathInt(r, "techId", "technology")
	if err != nil {
		return err
	}
	if err := b.jobs.AddTechnology(r.Context(), id, techID); err != nil {
		return err
	}
	b.notify(r.Context(), core.ResourceJobTechnology, core.OperationCreate, strconv.Itoa(id)+"/"+strconv.Itoa(techID))
	return writeJSON(w, http.StatusOK, map[string]int{"applied": techID})
}

func (b *Backend) removeJobTechnology(w http.ResponseWriter, r *http.Request) error {
	if err := access.RequireAdmin(access.AuthorizationFromContext(r.Context())); err != nil {
		return err
	}
	id, err := pathInt(r, "id", "job")
	if err != nil {
		return err
	}
	techID, err := pathInt(r, "techId", "technology")
	if err != nil {
		return err
	}
	if err := b.jobs.RemoveTechnology(r.Context(), id, techID); err != nil {
		return err
	}
	b.notify(r.Context(), core.ResourceJobTechnology, core.OperationDelete, strconv.Itoa(id)+"/"+strconv.Itoa(techID))
	return writeJSON(w, http.StatusOK, map[string]int{"removed": techID})
}
