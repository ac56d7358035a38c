package home

import (
	"context"
	"fmt"
	"net/http"

	"github.com/irsalhamdi/course-shop/api/view"
	"github.com/irsalhamdi/course-shop/api/web"
	"github.com/irsalhamdi/course-shop/api/weberr"
)

func HandleIndex(v *view.View) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		return v.Render(ctx, w, http.StatusOK, "index", view.Page{
			Title:  "Home page",
			Active: "home",
		})
	}
}

// HandleNotFound answers paths matched by no route and no public file.
func HandleNotFound() web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		return weberr.NotFound(fmt.Errorf("no route for %s %s", r.Method, r.URL.Path))
	}
}
