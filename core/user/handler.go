package user

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/irsalhamdi/course-shop/api/view"
	"github.com/irsalhamdi/course-shop/api/web"
	"github.com/irsalhamdi/course-shop/api/weberr"
	"github.com/irsalhamdi/course-shop/core/claims"
	"github.com/irsalhamdi/course-shop/upload"
	"github.com/irsalhamdi/course-shop/validate"
)

func current(ctx context.Context, store Store) (User, error) {
	clm, err := claims.Get(ctx)
	if err != nil {
		return User{}, weberr.NotAuthorized(errors.New("user not authenticated"))
	}

	u, err := store.Fetch(ctx, clm.UserID)
	if err != nil {
		return User{}, fmt.Errorf("fetching current user: %w", err)
	}
	return u, nil
}

func HandleProfile(store Store, v *view.View) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		u, err := current(ctx, store)
		if err != nil {
			return err
		}

		return v.Render(ctx, w, http.StatusOK, "profile", view.Page{
			Title:  "Profile",
			Active: "profile",
			Data:   u,
			Form:   map[string]string{"name": u.Name},
		})
	}
}

func HandleProfileUpdate(store Store, v *view.View) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		u, err := current(ctx, store)
		if err != nil {
			return err
		}

		up := ProfileUp{Name: strings.TrimSpace(r.PostFormValue("name"))}
		if err := validate.Check(up); err != nil {
			fe, ok := validate.AsFieldErrors(err)
			if !ok {
				return fmt.Errorf("validating profile: %w", err)
			}

			return v.Render(ctx, w, http.StatusUnprocessableEntity, "profile", view.Page{
				Title:  "Profile",
				Active: "profile",
				Data:   u,
				Form:   map[string]string{"name": up.Name},
				Errors: fe,
			})
		}

		var avatar string
		if f, ok := upload.Claim(ctx); ok {
			avatar = f.URL
		}

		if err := store.UpdateProfile(ctx, u.ID, up.Name, avatar); err != nil {
			return err
		}

		return web.Redirect(w, r, "/profile")
	}
}
