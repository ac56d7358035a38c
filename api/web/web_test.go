package web_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/irsalhamdi/course-shop/api/web"
)

type key struct{}

func TestAdapt(t *testing.T) {
	stdmw := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Wrapped", "yes")
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), key{}, "v")))
		})
	}

	want := errors.New("inner")
	h := web.Adapt(stdmw)(func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		if ctx.Value(key{}) != "v" {
			t.Error("context of the wrapped middleware lost")
		}
		return want
	})

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	if err := h(r.Context(), w, r); !errors.Is(err, want) {
		t.Fatalf("got %v, want the inner error", err)
	}
	if w.Header().Get("X-Wrapped") != "yes" {
		t.Fatal("middleware not applied")
	}
}

func TestAdaptSetError(t *testing.T) {
	reject := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			web.SetError(r, errors.New("rejected"))
		})
	}

	called := false
	h := web.Adapt(reject)(func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		called = true
		return nil
	})

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	if err := h(r.Context(), httptest.NewRecorder(), r); err == nil || err.Error() != "rejected" {
		t.Fatalf("got %v", err)
	}
	if called {
		t.Fatal("inner handler called")
	}
}

func TestWrapMiddlewareOrder(t *testing.T) {
	var order []string
	mw := func(name string) web.Middleware {
		return func(next web.Handler) web.Handler {
			return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
				order = append(order, name)
				return next(ctx, w, r)
			}
		}
	}

	h := web.WrapMiddleware([]web.Middleware{mw("outer"), nil, mw("inner")}, func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		order = append(order, "handler")
		return nil
	})

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	if err := h(r.Context(), httptest.NewRecorder(), r); err != nil {
		t.Fatal(err)
	}
	if len(order) != 3 || order[0] != "outer" || order[1] != "inner" || order[2] != "handler" {
		t.Fatalf("got %v", order)
	}
}
