package cart

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/irsalhamdi/course-shop/api/view"
	"github.com/irsalhamdi/course-shop/api/web"
	"github.com/irsalhamdi/course-shop/api/weberr"
	"github.com/irsalhamdi/course-shop/core/claims"
	"github.com/irsalhamdi/course-shop/core/course"
	"github.com/irsalhamdi/course-shop/core/user"
	"github.com/irsalhamdi/course-shop/database"
	"github.com/irsalhamdi/course-shop/validate"
)

func currentUser(ctx context.Context, users user.Store) (user.User, error) {
	clm, err := claims.Get(ctx)
	if err != nil {
		return user.User{}, weberr.NotAuthorized(errors.New("user not authenticated"))
	}

	u, err := users.Fetch(ctx, clm.UserID)
	if err != nil {
		return user.User{}, fmt.Errorf("fetching current user: %w", err)
	}
	return u, nil
}

func HandleShow(users user.Store, courses course.Store, v *view.View) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		u, err := currentUser(ctx, users)
		if err != nil {
			return err
		}

		crt, err := Build(ctx, courses, u)
		if err != nil {
			return err
		}

		return v.Render(ctx, w, http.StatusOK, "card", view.Page{
			Title:  "Cart",
			Active: "card",
			Data:   crt,
		})
	}
}

func HandleCreateItem(users user.Store, courses course.Store) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		clm, err := claims.Get(ctx)
		if err != nil {
			return weberr.NotAuthorized(errors.New("user not authenticated"))
		}

		id := r.PostFormValue("id")
		if err := validate.CheckID(id); err != nil {
			return weberr.BadRequest(err)
		}

		if _, err := courses.Fetch(ctx, id); err != nil {
			if errors.Is(err, database.ErrNotFound) {
				return weberr.NotFound(err)
			}
			return err
		}

		if err := users.AddToCart(ctx, clm.UserID, id); err != nil {
			return err
		}

		return web.Redirect(w, r, "/card")
	}
}

// HandleDeleteItem answers fetch calls with the updated cart as JSON and
// plain form posts with a redirect back to the cart.
func HandleDeleteItem(users user.Store, courses course.Store) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		clm, err := claims.Get(ctx)
		if err != nil {
			return weberr.NotAuthorized(errors.New("user not authenticated"))
		}

		id := web.Param(r, "id")
		if err := validate.CheckID(id); err != nil {
			return weberr.BadRequest(err)
		}

		if err := users.RemoveFromCart(ctx, clm.UserID, id); err != nil {
			return err
		}

		if r.Method != http.MethodDelete && !web.WantsJSON(r) {
			return web.Redirect(w, r, "/card")
		}

		u, err := users.Fetch(ctx, clm.UserID)
		if err != nil {
			return fmt.Errorf("fetching current user: %w", err)
		}

		crt, err := Build(ctx, courses, u)
		if err != nil {
			return err
		}

		return web.Respond(ctx, w, crt, http.StatusOK)
	}
}
