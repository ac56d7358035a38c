package web

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
)

type Handler func(ctx context.Context, w http.ResponseWriter, r *http.Request) error

type Middleware func(Handler) Handler

func WrapMiddleware(mw []Middleware, handler Handler) Handler {
	for i := len(mw) - 1; i >= 0; i-- {
		h := mw[i]
		if h != nil {
			handler = h(handler)
		}
	}

	return handler
}

type errSlotKey int

const slotKey errSlotKey = 1

type errSlot struct {
	err error
}

// Adapt turns a net/http middleware into a Middleware. The error returned by
// the inner handler, or reported with SetError by the wrapped middleware,
// is handed back to the outer chain.
func Adapt(hmw func(http.Handler) http.Handler) Middleware {
	return func(next Handler) Handler {
		h := hmw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			SetError(r, next(r.Context(), w, r))
		}))

		return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			slot := &errSlot{}
			h.ServeHTTP(w, r.WithContext(context.WithValue(ctx, slotKey, slot)))
			return slot.err
		}
	}
}

// SetError records err for the Adapt call that is serving r.
func SetError(r *http.Request, err error) {
	if slot, ok := r.Context().Value(slotKey).(*errSlot); ok {
		slot.err = err
	}
}

func Respond(ctx context.Context, w http.ResponseWriter, data interface{}, statusCode int) error {
	if statusCode == http.StatusNoContent {
		w.WriteHeader(statusCode)
		return nil
	}

	jsonData, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("cannot marshal response data: %w", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if _, err := w.Write(jsonData); err != nil {
		return fmt.Errorf("cannot write response data to response writer: %w", err)
	}

	return nil
}

// Redirect answers a form submission with a See Other to url.
func Redirect(w http.ResponseWriter, r *http.Request, url string) error {
	http.Redirect(w, r, url, http.StatusSeeOther)
	return nil
}

// WantsJSON reports whether the client asked for a JSON answer.
func WantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

func Param(r *http.Request, key string) string {
	m := mux.Vars(r)
	return m[key]
}
