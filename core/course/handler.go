package course

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/irsalhamdi/course-shop/api/view"
	"github.com/irsalhamdi/course-shop/api/web"
	"github.com/irsalhamdi/course-shop/api/weberr"
	"github.com/irsalhamdi/course-shop/core/claims"
	"github.com/irsalhamdi/course-shop/database"
	"github.com/irsalhamdi/course-shop/validate"
)

func decodeForm(r *http.Request) CourseNew {
	return CourseNew{
		Title:    strings.TrimSpace(r.PostFormValue("title")),
		Price:    strings.TrimSpace(r.PostFormValue("price")),
		ImageURL: strings.TrimSpace(r.PostFormValue("img")),
	}
}

func fetch(ctx context.Context, store Store, id string) (Course, error) {
	if err := validate.CheckID(id); err != nil {
		return Course{}, weberr.NotFound(err)
	}

	c, err := store.Fetch(ctx, id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return Course{}, weberr.NotFound(err)
		}
		return Course{}, err
	}
	return c, nil
}

func HandleList(store Store, v *view.View) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		courses, err := store.List(ctx)
		if err != nil {
			return err
		}

		return v.Render(ctx, w, http.StatusOK, "courses", view.Page{
			Title:  "Courses",
			Active: "courses",
			Data:   courses,
		})
	}
}

func HandleShow(store Store, v *view.View) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		c, err := fetch(ctx, store, web.Param(r, "id"))
		if err != nil {
			return err
		}

		return v.Render(ctx, w, http.StatusOK, "course", view.Page{
			Title:  "Course " + c.Title,
			Layout: view.LayoutEmpty,
			Data:   c,
		})
	}
}

func HandleAddForm(v *view.View) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		return v.Render(ctx, w, http.StatusOK, "add", view.Page{
			Title:  "Add course",
			Active: "add",
		})
	}
}

func HandleCreate(store Store, v *view.View) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		clm, err := claims.Get(ctx)
		if err != nil {
			return weberr.NotAuthorized(errors.New("user not authenticated"))
		}

		form := decodeForm(r)
		if err := validate.Check(form); err != nil {
			fe, ok := validate.AsFieldErrors(err)
			if !ok {
				return fmt.Errorf("validating course: %w", err)
			}

			return v.Render(ctx, w, http.StatusUnprocessableEntity, "add", view.Page{
				Title:  "Add course",
				Active: "add",
				Form:   form.Values(),
				Errors: fe,
			})
		}

		now := time.Now().UTC()
		c := Course{
			ID:        validate.GenerateID(),
			Title:     form.Title,
			Price:     form.PriceValue(),
			ImageURL:  form.ImageURL,
			UserID:    clm.UserID,
			CreatedAt: now,
			UpdatedAt: now,
		}

		if err := store.Create(ctx, c); err != nil {
			return err
		}

		return web.Redirect(w, r, "/courses")
	}
}

func HandleEditForm(store Store, v *view.View) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		c, err := fetch(ctx, store, web.Param(r, "id"))
		if err != nil {
			return err
		}

		if !claims.IsUser(ctx, c.UserID) {
			return web.Redirect(w, r, "/courses")
		}

		return v.Render(ctx, w, http.StatusOK, "course-edit", view.Page{
			Title: "Edit " + c.Title,
			Data:  c,
			Form:  formValues(c),
		})
	}
}

func HandleEdit(store Store, v *view.View) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		c, err := fetch(ctx, store, r.PostFormValue("id"))
		if err != nil {
			return err
		}

		if !claims.IsUser(ctx, c.UserID) {
			return web.Redirect(w, r, "/courses")
		}

		form := decodeForm(r)
		if err := validate.Check(form); err != nil {
			fe, ok := validate.AsFieldErrors(err)
			if !ok {
				return fmt.Errorf("validating course: %w", err)
			}

			return v.Render(ctx, w, http.StatusUnprocessableEntity, "course-edit", view.Page{
				Title:  "Edit " + c.Title,
				Data:   c,
				Form:   form.Values(),
				Errors: fe,
			})
		}

		c.Title = form.Title
		c.Price = form.PriceValue()
		c.ImageURL = form.ImageURL
		c.UpdatedAt = time.Now().UTC()

		if err := store.Update(ctx, c); err != nil {
			if errors.Is(err, database.ErrNotFound) {
				return web.Redirect(w, r, "/courses")
			}
			return err
		}

		return web.Redirect(w, r, "/courses")
	}
}

func HandleRemove(store Store) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		clm, err := claims.Get(ctx)
		if err != nil {
			return weberr.NotAuthorized(errors.New("user not authenticated"))
		}

		id := r.PostFormValue("id")
		if err := validate.CheckID(id); err != nil {
			return weberr.BadRequest(err)
		}

		if err := store.Delete(ctx, id, clm.UserID); err != nil && !errors.Is(err, database.ErrNotFound) {
			return err
		}

		return web.Redirect(w, r, "/courses")
	}
}
