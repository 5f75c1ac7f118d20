package backend

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/mux"

	"github.com/relabs-tech/jobly/core"
	"github.com/relabs-tech/jobly/core/apperr"
	"github.com/relabs-tech/jobly/core/logger"
)

// maxBodySize limits JSON request bodies
const maxBodySize = 1 << 20

// handlerFunc is a route handler. A returned error is translated by apperr.Write.
type handlerFunc func(w http.ResponseWriter, r *http.Request) error

// addRoute adds a route for path and method to router
func addRoute(router *mux.Router, path string, method string, h handlerFunc) {
	logger.Default().Debugln("  handle route:", path, method)
	router.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
		logger.FromContext(r.Context()).Debugln("called route for", r.URL, r.Method)
		if err := h(w, r); err != nil {
			apperr.Write(w, r, err)
		}
	}).Methods(http.MethodOptions, method)
}

// writeJSON writes v as JSON response with the given status
func writeJSON(w http.ResponseWriter, status int, v interface{}) error {
	jsonData, err := json.Marshal(v)
	if err != nil {
		return apperr.Internal(err)
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	w.Write(jsonData)
	return nil
}

// decode validates the request body against the schema schemaID and decodes it into target
func (b *Backend) decode(r *http.Request, schemaID string, target interface{}) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize+1))
	if err != nil {
		return apperr.BadRequest("cannot read body: %s", err)
	}
	if len(body) > maxBodySize {
		return apperr.BadRequest("body too large")
	}
	if err := b.validator.ValidateBytes(body, schemaID); err != nil {
		return err
	}
	decoder := json.NewDecoder(bytes.NewReader(body))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(target); err != nil {
		return apperr.BadRequest("invalid body: %s", err)
	}
	return nil
}

// checkQuery returns a BadRequest error if r has query parameters other than allowed
func checkQuery(r *http.Request, allowed ...string) error {
	for key := range r.URL.Query() {
		found := false
		for _, a := range allowed {
			found = found || a == key
		}
		if !found {
			return apperr.BadRequest("unknown query parameter %s", key)
		}
	}
	return nil
}

func queryString(r *http.Request, name string) *string {
	values, ok := r.URL.Query()[name]
	if !ok || len(values) == 0 {
		return nil
	}
	return &values[0]
}

func queryInt(r *http.Request, name string) (*int, error) {
	s := queryString(r, name)
	if s == nil {
		return nil, nil
	}
	v, err := strconv.ParseInt(*s, 10, 32)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return nil, apperr.BadRequest("%s is out of range", name)
		}
		return nil, apperr.BadRequest("%s must be an integer", name)
	}
	i := int(v)
	return &i, nil
}

func queryBool(r *http.Request, name string) (*bool, error) {
	s := queryString(r, name)
	if s == nil {
		return nil, nil
	}
	v, err := strconv.ParseBool(*s)
	if err != nil {
		return nil, apperr.BadRequest("%s must be a boolean", name)
	}
	return &v, nil
}

// pathInt reads the integer key name of a resource from the path. Keys beyond the range of
// an INTEGER column cannot exist, so they are reported as not found.
func pathInt(r *http.Request, name, resource string) (int, error) {
	s := mux.Vars(r)[name]
	v, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return 0, apperr.NotFound("No %s: %s", resource, s)
		}
		return 0, apperr.BadRequest("%s must be an integer", name)
	}
	return int(v), nil
}

// notify sends a notification about a successful mutation. Failures are logged.
func (b *Backend) notify(ctx context.Context, resource string, operation core.Operation, key string) {
	if b.notifier == nil {
		return
	}
	notification := core.Notification{
		Resource:  resource,
		Operation: operation,
		Key:       key,
		RequestID: logger.RequestIDFromContext(ctx),
		Timestamp: time.Now().UTC(),
	}
	if err := b.notifier.Notify(ctx, notification); err != nil {
		logger.FromContext(ctx).WithError(err).Errorln("Error 4710: notify", operation, resource, key)
	}
}
