package backend

import (
	"bytes"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/relabs-tech/jobly/core"
	"github.com/relabs-tech/jobly/core/access"
	"github.com/relabs-tech/jobly/core/apperr"
	"github.com/relabs-tech/jobly/core/kss"
	"github.com/relabs-tech/jobly/core/logger"
	"github.com/relabs-tech/jobly/core/models"
	"github.com/relabs-tech/jobly/core/schema"
)

// maxLogoSize limits uploaded company logos
const maxLogoSize = 2 << 20

type companyResponse struct {
	Company interface{} `json:"company"`
}

func (b *Backend) handleCompanies(router *mux.Router) {
	logger.Default().Debugln("companies")
	addRoute(router, "/companies", http.MethodPost, b.createCompany)
	addRoute(router, "/companies", http.MethodGet, b.listCompanies)
	addRoute(router, "/companies/{handle}", http.MethodGet, b.getCompany)
	addRoute(router, "/companies/{handle}", http.MethodPatch, b.updateCompany)
	addRoute(router, "/companies/{handle}", http.MethodDelete, b.deleteCompany)
	if b.logos != nil {
		addRoute(router, "/companies/{handle}/logo", http.MethodPut, b.uploadLogo)
	}
}

func (b *Backend) createCompany(w http.ResponseWriter, r *http.Request) error {
	if err := access.RequireAdmin(access.AuthorizationFromContext(r.Context())); err != nil {
		return err
	}
	var data models.CompanyNew
	if err := b.decode(r, schema.CompanyNew, &data); err != nil {
		return err
	}
	company, err := b.companies.Create(r.Context(), data)
	if err != nil {
		return err
	}
	b.notify(r.Context(), core.ResourceCompany, core.OperationCreate, company.Handle)
	return writeJSON(w, http.StatusCreated, companyResponse{Company: company})
}

func (b *Backend) listCompanies(w http.ResponseWriter, r *http.Request) error {
	if err := checkQuery(r, "minEmployees", "maxEmployees", "name"); err != nil {
		return err
	}
	var filter models.CompanyFilter
	var err error
	if filter.MinEmployees, err = queryInt(r, "minEmployees"); err != nil {
		return err
	}
	if filter.MaxEmployees, err = queryInt(r, "maxEmployees"); err != nil {
		return err
	}
	filter.Name = queryString(r, "name")

	companies, err := b.companies.FindAll(r.Context(), filter)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, map[string]interface{}{"companies": companies})
}

func (b *Backend) getCompany(w http.ResponseWriter, r *http.Request) error {
	company, err := b.companies.Get(r.Context(), mux.Vars(r)["handle"])
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, companyResponse{Company: company})
}

func (b *Backend) updateCompany(w http.ResponseWriter, r *http.Request) error {
	if err := access.RequireAdmin(access.AuthorizationFromContext(r.Context())); err != nil {
		return err
	}
	var data models.CompanyUpdate
	if err := b.decode(r, schema.CompanyUpdate, &data); err != nil {
		return err
	}
	handle := mux.Vars(r)["handle"]
	company, err := b.companies.Update(r.Context(), handle, data)
	if err != nil {
		return err
	}
	b.notify(r.Context(), core.ResourceCompany, core.OperationUpdate, handle)
	return writeJSON(w, http.StatusOK, companyResponse{Company: company})
}

func (b *Backend) deleteCompany(w http.ResponseWriter, r *http.Request) error {
	if err := access.RequireAdmin(access.AuthorizationFromContext(r.Context())); err != nil {
		return err
	}
	handle := mux.Vars(r)["handle"]
	if err := b.companies.Remove(r.Context(), handle); err != nil {
		return err
	}
	if b.logos != nil {
		if err := b.logos.DeleteAllWithPrefix(r.Context(), handle+"/"); err != nil {
			logger.FromContext(r.Context()).WithError(err).Errorln("Error 4711: cannot delete logos of", handle)
		}
	}
	b.notify(r.Context(), core.ResourceCompany, core.OperationDelete, handle)
	return writeJSON(w, http.StatusOK, map[string]string{"deleted": handle})
}

// uploadLogo stores the request body as new logo of the company and sets its logoUrl
func (b *Backend) uploadLogo(w http.ResponseWriter, r *http.Request) error {
	if err := access.RequireAdmin(access.AuthorizationFromContext(r.Context())); err != nil {
		return err
	}
	contentType := r.Header.Get("Content-Type")
	extension := kss.ExtensionForContentType(contentType)
	if extension == "" {
		return apperr.BadRequest("Unsupported logo content type: %s", contentType)
	}

	handle := mux.Vars(r)["handle"]
	previous, err := b.companies.Get(r.Context(), handle)
	if err != nil {
		return err
	}

	data, err := io.ReadAll(io.LimitReader(r.Body, maxLogoSize+1))
	if err != nil {
		return apperr.BadRequest("cannot read logo: %s", err)
	}
	if len(data) == 0 {
		return apperr.BadRequest("No data")
	}
	if len(data) > maxLogoSize {
		return apperr.BadRequest("logo too large")
	}

	key := handle + "/" + uuid.New().String() + extension
	logoURL, err := b.logos.Upload(r.Context(), key, contentType, bytes.NewReader(data))
	if err != nil {
		return apperr.Internal(err)
	}
	company, err := b.companies.SetLogo(r.Context(), handle, logoURL)
	if err != nil {
		return err
	}
	if previous.LogoURL != nil {
		if oldKey, ok := logoKey(handle, *previous.LogoURL); ok && oldKey != key {
			if err := b.logos.Delete(r.Context(), oldKey); err != nil {
				logger.FromContext(r.Context()).WithError(err).Errorln("Error 4712: cannot delete previous logo", oldKey)
			}
		}
	}
	b.notify(r.Context(), core.ResourceCompany, core.OperationUpdate, handle)
	return writeJSON(w, http.StatusOK, companyResponse{Company: company})
}

// logoKey returns the storage key of a logo URL created by uploadLogo. URLs which were
// not uploaded for the company, like a logoUrl set with PATCH, yield false.
func logoKey(handle, logoURL string) (string, bool) {
	u, err := url.Parse(logoURL)
	if err != nil {
		return "", false
	}
	prefix := "/" + handle + "/"
	i := strings.LastIndex(u.Path, prefix)
	if i < 0 {
		return "", false
	}
	name := u.Path[i+len(prefix):]
	if _, err := uuid.Parse(strings.TrimSuffix(name, path.Ext(name))); err != nil {
		return "", false
	}
	return handle + "/" + name, true
}
