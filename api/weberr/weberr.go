package weberr

import (
	"errors"
	"net/http"
)

type Opt func(error) error

func Wrap(err error, opts ...Opt) error {
	for _, opt := range opts {
		err = opt(err)
	}
	return err
}

func WithResponse(body interface{}, status int) Opt {
	return func(err error) error {
		return &responseError{error: err, body: body, status: status}
	}
}

func WithFields(fields map[string]interface{}) Opt {
	return func(err error) error {
		return &fieldsError{error: err, fields: fields}
	}
}

type fielder interface {
	Fields() map[string]interface{}
}

// Fields collects the log fields attached anywhere in the chain of err.
func Fields(err error) (fields map[string]interface{}, ok bool) {
	var fe fielder
	if errors.As(err, &fe) {
		return fe.Fields(), true
	}
	return nil, false
}

type fieldsError struct {
	error
	fields map[string]interface{}
}

func (e *fieldsError) Fields() map[string]interface{} { return e.fields }

func (e *fieldsError) Unwrap() error { return e.error }

type responder interface {
	Response() (body interface{}, status int)
}

func Response(err error) (body interface{}, status int, ok bool) {
	var re responder
	if errors.As(err, &re) {
		body, code := re.Response()
		return body, code, true
	}
	return nil, 0, false
}

// Status is the HTTP status err should be answered with.
func Status(err error) int {
	if _, code, ok := Response(err); ok {
		return code
	}
	return http.StatusInternalServerError
}

// Message is the client-safe text for err. Errors without a response
// get the generic internal error text.
func Message(err error) string {
	if body, _, ok := Response(err); ok {
		if er, ok := body.(*ErrorResponse); ok {
			return er.Error
		}
	}
	return http.StatusText(http.StatusInternalServerError)
}

type responseError struct {
	error
	body   interface{}
	status int
}

func (e *responseError) Response() (interface{}, int) {
	return e.body, e.status
}

func (e *responseError) Unwrap() error {
	return e.error
}
