package middleware

import (
	"context"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/gorilla/csrf"
	"github.com/irsalhamdi/course-shop/api/view"
	"github.com/irsalhamdi/course-shop/api/web"
)

// Vars exposes the authentication flag and the CSRF token to templates.
func Vars(sm *scs.SessionManager, sessionKey string) web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			ctx = view.SetVars(ctx, view.Vars{
				IsAuth:    sm.Exists(ctx, sessionKey),
				CSRFToken: csrf.Token(r),
				CSRFField: csrf.TemplateField(r),
			})
			return handler(ctx, w, r.WithContext(ctx))
		}
		return h
	}
	return m
}
