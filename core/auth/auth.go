package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/irsalhamdi/course-shop/api/web"
	"github.com/irsalhamdi/course-shop/core/claims"
	"github.com/irsalhamdi/course-shop/core/user"
	"github.com/irsalhamdi/course-shop/database"
)

// UserIDKey is the session key holding the id of the logged in user.
const UserIDKey = "userID"

const LoginURL = "/auth/login#login"

// LoadAndSave loads the session of the request and commits it afterwards.
// Failures of the session store are handled by sm.ErrorFunc.
func LoadAndSave(sm *scs.SessionManager) web.Middleware {
	return web.Adapt(sm.LoadAndSave)
}

// LoadUser attaches the claims of the logged in user to the context.
// A session without a user, or pointing to a user that no longer exists,
// is served anonymously.
func LoadUser(users user.Store, sm *scs.SessionManager) web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			id := sm.GetString(ctx, UserIDKey)
			if id == "" {
				return handler(ctx, w, r)
			}

			u, err := users.Fetch(ctx, id)
			switch {
			case errors.Is(err, database.ErrNotFound):
				sm.Remove(ctx, UserIDKey)
				return handler(ctx, w, r)
			case err != nil:
				return err
			}

			ctx = claims.Set(ctx, claims.Claims{
				UserID:    u.ID,
				Name:      u.Name,
				Email:     u.Email,
				AvatarURL: u.AvatarURL,
			})
			return handler(ctx, w, r.WithContext(ctx))
		}
		return h
	}
	return m
}

// Authenticate sends anonymous requests to the login page.
func Authenticate() web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			if !claims.IsAuthenticated(ctx) {
				http.Redirect(w, r, LoginURL, http.StatusFound)
				return nil
			}
			return handler(ctx, w, r)
		}
		return h
	}
	return m
}
