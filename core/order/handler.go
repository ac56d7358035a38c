package order

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/irsalhamdi/course-shop/api/view"
	"github.com/irsalhamdi/course-shop/api/web"
	"github.com/irsalhamdi/course-shop/api/weberr"
	"github.com/irsalhamdi/course-shop/core/cart"
	"github.com/irsalhamdi/course-shop/core/claims"
	"github.com/irsalhamdi/course-shop/core/course"
	"github.com/irsalhamdi/course-shop/core/user"
	"github.com/irsalhamdi/course-shop/validate"
	"github.com/prometheus/client_golang/prometheus"
)

var ErrEmptyCart = errors.New("no items to checkout")

// Checkout turns the cart of userID into an order and takes the ordered
// lines out of the cart. When that fails the order is removed again, so the
// cart is cleared exactly when an order is returned.
func Checkout(ctx context.Context, users user.Store, courses course.Store, orders Store, userID string) (Order, error) {
	u, err := users.Fetch(ctx, userID)
	if err != nil {
		return Order{}, fmt.Errorf("fetching user: %w", err)
	}

	crt, err := cart.Build(ctx, courses, u)
	if err != nil {
		return Order{}, fmt.Errorf("fetching details of cart items: %w", err)
	}

	if len(crt.Items) == 0 {
		return Order{}, ErrEmptyCart
	}

	ord := Order{
		ID:      validate.GenerateID(),
		User:    Owner{UserID: u.ID, Name: u.Name},
		Courses: make([]Line, 0, len(crt.Items)),
		Date:    time.Now().UTC(),
	}
	for _, it := range crt.Items {
		ord.Courses = append(ord.Courses, Line{
			Course: Snapshot{
				ID:       it.ID,
				Title:    it.Title,
				Price:    it.Price,
				ImageURL: it.ImageURL,
			},
			Count: it.Count,
		})
	}

	if err := orders.Create(ctx, ord); err != nil {
		return Order{}, fmt.Errorf("creating order: %w", err)
	}

	if err := users.ClearCart(ctx, u.ID, u.Cart); err != nil {
		if derr := orders.Delete(ctx, ord.ID); derr != nil {
			return Order{}, fmt.Errorf("flushing cart: %w (rolling back order[%s]: %v)", err, ord.ID, derr)
		}
		return Order{}, fmt.Errorf("flushing cart: %w", err)
	}

	return ord, nil
}

func HandleList(orders Store, v *view.View) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		clm, err := claims.Get(ctx)
		if err != nil {
			return weberr.NotAuthorized(errors.New("user not authenticated"))
		}

		ords, err := orders.ListByUser(ctx, clm.UserID)
		if err != nil {
			return err
		}

		return v.Render(ctx, w, http.StatusOK, "orders", view.Page{
			Title:  "Orders",
			Active: "orders",
			Data:   ords,
		})
	}
}

func HandleCreate(users user.Store, courses course.Store, orders Store, created prometheus.Counter) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		clm, err := claims.Get(ctx)
		if err != nil {
			return weberr.NotAuthorized(errors.New("user not authenticated"))
		}

		if _, err := Checkout(ctx, users, courses, orders, clm.UserID); err != nil {
			if errors.Is(err, ErrEmptyCart) {
				return web.Redirect(w, r, "/card")
			}
			return err
		}
		created.Inc()

		return web.Redirect(w, r, "/orders")
	}
}
