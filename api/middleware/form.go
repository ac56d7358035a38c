package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/irsalhamdi/course-shop/api/web"
	"github.com/irsalhamdi/course-shop/api/weberr"
)

// ParseForm parses urlencoded bodies up front. Multipart bodies are left
// to the upload middleware.
func ParseForm() web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
				if err := r.ParseForm(); err != nil {
					return weberr.BadRequest(fmt.Errorf("parsing form: %w", err))
				}
			}
			return handler(ctx, w, r)
		}
		return h
	}
	return m
}
