/*
Package client provides easy and fast in-process access to the jobly REST api

Instead of marshalling HTTP, the client talks directly to the mux router. The client
is the tool of choice for unit tests and for adapters like the lambda handler. Created
with NewWithURL, the same client talks to a remote server over HTTP.
*/
package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/mux"

	"github.com/relabs-tech/jobly/core/access"
)

// Client provides easy access to the REST API.
type Client struct {
	router     *mux.Router
	httpClient *http.Client
	url        string
	token      string
	auth       *access.Authorization
	ctx        context.Context

	defaultHeaders map[string]string
}

// NewWithRouter creates a client to make pseudo-REST requests to the backend,
// through the mux router
//
// WithAuthorization() adds an authorization to the request context.
// WithContext() specifies a different base context all together.
func NewWithRouter(router *mux.Router) Client {
	return Client{
		router:         router,
		defaultHeaders: map[string]string{},
	}
}

// NewWithURL creates a client to make REST requests to the backend
//
// WithToken adds an authorization token to the request header.
func NewWithURL(url string) Client {
	return Client{
		url:            strings.TrimSuffix(url, "/"),
		httpClient:     &http.Client{Timeout: 20 * time.Second},
		defaultHeaders: map[string]string{},
	}
}

// WithHeader returns a new client with a default header added
func (c Client) WithHeader(key string, value string) Client {
	headers := map[string]string{key: value}
	for k, v := range c.defaultHeaders {
		if k != key {
			headers[k] = v
		}
	}
	c.defaultHeaders = headers
	return c
}

// WithToken returns a new client with a bearer token
func (c Client) WithToken(token string) Client {
	c.token = token
	return c
}

// WithAuthorization returns a new client with specific authorizations
// (this works only directly against the mux router, for a normal client
//
//	use WithToken())
func (c Client) WithAuthorization(auth *access.Authorization) Client {
	c.auth = auth
	return c
}

// WithAdminAuthorization returns a new client authorized as admin user
func (c Client) WithAdminAuthorization() Client {
	return c.WithAuthorization(&access.Authorization{Username: "admin", IsAdmin: true})
}

// WithContext returns a new client with specific request context
func (c Client) WithContext(ctx context.Context) Client {
	c.ctx = ctx
	return c
}

// Context returns the request context of this client
func (c Client) Context() context.Context {
	ctx := c.ctx
	if c.ctx == nil {
		ctx = context.Background()
	}
	if c.auth != nil {
		ctx = access.ContextWithAuthorization(ctx, c.auth)
	}
	return ctx
}

// Do sends r through the router or over HTTP and returns the response with its body read
func (c Client) Do(r *http.Request) (*http.Response, []byte, error) {
	for key, value := range c.defaultHeaders {
		r.Header.Set(key, value)
	}
	if c.token != "" {
		r.Header.Set("Authorization", "Bearer "+c.token)
	}

	if c.router != nil {
		rec := httptest.NewRecorder()
		c.router.ServeHTTP(rec, r)
		return rec.Result(), rec.Body.Bytes(), nil
	}

	res, err := c.httpClient.Do(r)
	if err != nil {
		return nil, nil, err
	}
	defer res.Body.Close()
	resBody, err := io.ReadAll(res.Body)
	return res, resBody, err
}

func (c Client) raw(method, path string, header map[string]string, body []byte, result interface{}, expected ...int) (int, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	r, err := http.NewRequestWithContext(c.Context(), method, c.url+path, reader)
	if err != nil {
		return http.StatusBadRequest, fmt.Errorf("%s %s: %w", method, path, err)
	}
	if body != nil {
		r.Header.Set("Content-Type", "application/json")
	}
	for key, value := range header {
		r.Header.Set(key, value)
	}

	res, resBody, err := c.Do(r)
	if err != nil {
		return http.StatusInternalServerError, err
	}
	status := res.StatusCode
	if status == http.StatusNoContent {
		return status, nil
	}

	found := false
	for _, e := range expected {
		found = found || e == status
	}
	if !found {
		return status, fmt.Errorf("handler returned wrong status code: got %v want %v. Error: %s",
			status, expected[0], strings.TrimSpace(string(resBody)))
	}

	if len(resBody) > 0 && result != nil {
		if raw, ok := result.(*[]byte); ok {
			*raw = resBody
		} else {
			err = json.Unmarshal(resBody, result)
		}
	}
	return status, err
}

func marshal(method, path string, body interface{}) ([]byte, error) {
	if j, ok := body.([]byte); ok {
		return j, nil
	}
	j, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("%s to %s: %w", method, path, err)
	}
	return j, nil
}

// RawGet gets the resource from path. Expects http.StatusOK as response, otherwise it will
// flag an error. Returns the actual http status code.
//
// The path can be extend with query strings.
//
// result can be map[string]interface{} or a raw *[]byte.
// result can be nil.
func (c Client) RawGet(path string, result interface{}) (int, error) {
	return c.raw(http.MethodGet, path, nil, nil, result, http.StatusOK)
}

// RawPost posts a resource to path. Expects http.StatusCreated or http.StatusOK as response,
// otherwise it will flag an error. Returns the actual http status code.
//
// body can also be a []byte, result can also be raw *[]byte.
// result can be nil.
func (c Client) RawPost(path string, body interface{}, result interface{}) (int, error) {
	j, err := marshal(http.MethodPost, path, body)
	if err != nil {
		return http.StatusBadRequest, err
	}
	return c.raw(http.MethodPost, path, nil, j, result, http.StatusCreated, http.StatusOK)
}

// RawPatch partially updates the resource at path. Expects http.StatusOK as response,
// otherwise it will flag an error. Returns the actual http status code.
//
// body can also be a []byte, result can also be raw *[]byte.
// result can be nil.
func (c Client) RawPatch(path string, body interface{}, result interface{}) (int, error) {
	j, err := marshal(http.MethodPatch, path, body)
	if err != nil {
		return http.StatusBadRequest, err
	}
	return c.raw(http.MethodPatch, path, nil, j, result, http.StatusOK)
}

// RawPutBlob puts binary data with the given content type to path. Expects http.StatusOK
// as response, otherwise it will flag an error. Returns the actual http status code.
func (c Client) RawPutBlob(path string, contentType string, blob []byte, result interface{}) (int, error) {
	r, err := http.NewRequestWithContext(c.Context(), http.MethodPut, c.url+path, bytes.NewReader(blob))
	if err != nil {
		return http.StatusBadRequest, err
	}
	r.Header.Set("Content-Type", contentType)
	res, resBody, err := c.Do(r)
	if err != nil {
		return http.StatusInternalServerError, err
	}
	if res.StatusCode != http.StatusOK {
		return res.StatusCode, fmt.Errorf("handler returned wrong status code: got %v want %v. Error: %s",
			res.StatusCode, http.StatusOK, strings.TrimSpace(string(resBody)))
	}
	if result != nil {
		err = json.Unmarshal(resBody, result)
	}
	return res.StatusCode, err
}

// RawDelete deletes the resource at path. Expects http.StatusOK as response, otherwise it
// will flag an error. Returns the actual http status code.
//
// result can be nil.
func (c Client) RawDelete(path string, result interface{}) (int, error) {
	return c.raw(http.MethodDelete, path, nil, nil, result, http.StatusOK)
}
