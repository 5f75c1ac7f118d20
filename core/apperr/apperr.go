/*
Package apperr provides the typed errors returned by the jobly stores and handlers
and their translation into HTTP responses.

Every error that reaches a handler is written with Write. Errors of kind NotFound,
BadRequest and Unauthorized carry a message meant for the client, any other error
is an internal error and only a generic message leaves the process.
*/
package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	goerrors "github.com/go-errors/errors"
	"github.com/goccy/go-json"

	"github.com/relabs-tech/jobly/core/logger"
)

// Kind classifies an application error
type Kind int

// all error kinds
const (
	KindInternal Kind = iota
	KindNotFound
	KindBadRequest
	KindUnauthorized
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "NOT_FOUND"
	case KindBadRequest:
		return "BAD_REQUEST"
	case KindUnauthorized:
		return "UNAUTHORIZED"
	default:
		return "INTERNAL"
	}
}

// Error is an application error with a kind, a client facing message and
// an optional cause.
type Error struct {
	Kind    Kind
	Message string
	// Details lists individual problems, e.g. all schema violations of a request body
	Details []string
	Err     error
	stack   []byte
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Stack returns the stack trace captured when the error was created
func (e *Error) Stack() []byte {
	return e.stack
}

func newError(kind Kind, message string, err error) *Error {
	var stack []byte
	if err != nil {
		var stackErr *goerrors.Error
		if errors.As(err, &stackErr) {
			stack = stackErr.Stack()
		} else {
			stack = goerrors.Wrap(err, 3).Stack()
		}
	} else {
		stack = goerrors.Wrap(message, 3).Stack()
	}
	return &Error{Kind: kind, Message: message, Err: err, stack: stack}
}

// NotFound returns an error for a missing resource
func NotFound(format string, a ...interface{}) *Error {
	return newError(KindNotFound, fmt.Sprintf(format, a...), nil)
}

// BadRequest returns an error for a request that cannot be served as sent
func BadRequest(format string, a ...interface{}) *Error {
	return newError(KindBadRequest, fmt.Sprintf(format, a...), nil)
}

// BadRequestList returns a BadRequest error carrying a list of problems. The message
// is the list joined by newlines.
func BadRequestList(details []string) *Error {
	e := newError(KindBadRequest, strings.Join(details, "\n"), nil)
	e.Details = details
	return e
}

// Unauthorized returns an error for a missing or insufficient authorization
func Unauthorized(format string, a ...interface{}) *Error {
	return newError(KindUnauthorized, fmt.Sprintf(format, a...), nil)
}

// Internal wraps an unexpected error
func Internal(err error) *Error {
	return newError(KindInternal, "Internal Server Error", err)
}

// KindOf returns the kind of err. Errors not created by this package are internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Is reports whether err is an application error of the given kind
func Is(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

// StatusCode returns the HTTP status code for err
func StatusCode(err error) int {
	switch KindOf(err) {
	case KindNotFound:
		return http.StatusNotFound
	case KindBadRequest:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// Body is the JSON error body returned to clients
type Body struct {
	Error BodyError `json:"error"`
}

// BodyError is the content of Body
type BodyError struct {
	Message interface{} `json:"message"`
	Status  int         `json:"status"`
}

// Write translates err into an HTTP response. Internal errors are logged with their
// stack and answered with a generic message.
func Write(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusCode(err)
	body := Body{Error: BodyError{Status: status}}

	var e *Error
	if status == http.StatusInternalServerError {
		rlog := logger.FromContext(r.Context())
		if errors.As(err, &e) && len(e.stack) > 0 {
			rlog = rlog.WithField("stack", string(e.stack))
		}
		rlog.WithError(err).Errorln("Error 4700: internal error for", r.Method, r.URL)
		body.Error.Message = http.StatusText(http.StatusInternalServerError)
	} else {
		errors.As(err, &e)
		if len(e.Details) > 0 {
			body.Error.Message = e.Details
		} else {
			body.Error.Message = e.Message
		}
		logger.FromContext(r.Context()).Debugln("request failed:", status, e.Message)
	}

	jsonData, _ := json.Marshal(body)
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	w.Write(jsonData)
}
