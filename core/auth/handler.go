package auth

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/irsalhamdi/course-shop/api/flash"
	"github.com/irsalhamdi/course-shop/api/view"
	"github.com/irsalhamdi/course-shop/api/web"
	"github.com/irsalhamdi/course-shop/core/user"
	"github.com/irsalhamdi/course-shop/database"
	"github.com/irsalhamdi/course-shop/rate"
	"github.com/irsalhamdi/course-shop/validate"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

const (
	FlashLogin    = "loginError"
	FlashRegister = "registerError"
)

func loginPage(form map[string]string, fe validate.FieldErrors) view.Page {
	return view.Page{
		Title:  "Authorization",
		Active: "login",
		Form:   form,
		Errors: fe,
	}
}

func HandleLoginForm(v *view.View) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		return v.Render(ctx, w, http.StatusOK, "login", loginPage(nil, nil))
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func HandleLogin(users user.Store, sm *scs.SessionManager, limiter *rate.Limiter) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		if !limiter.Check(clientIP(r)) {
			flash.Add(ctx, FlashLogin, validate.Message("login.throttle"))
			return web.Redirect(w, r, LoginURL)
		}

		email := validate.NormalizeEmail(r.PostFormValue("email"))
		password := r.PostFormValue("password")

		u, err := users.FetchByEmail(ctx, email)
		if err != nil {
			if errors.Is(err, database.ErrNotFound) {
				flash.Add(ctx, FlashLogin, validate.Message("login.invalid"))
				return web.Redirect(w, r, LoginURL)
			}
			return err
		}

		if err := bcrypt.CompareHashAndPassword(u.Password, []byte(password)); err != nil {
			flash.Add(ctx, FlashLogin, validate.Message("login.invalid"))
			return web.Redirect(w, r, LoginURL)
		}

		if err := logIn(ctx, sm, u.ID); err != nil {
			return err
		}

		return web.Redirect(w, r, "/")
	}
}

func HandleRegister(users user.Store, sm *scs.SessionManager, v *view.View, log logrus.FieldLogger, registered prometheus.Counter) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		reg := decodeRegistration(r)

		fe, err := CheckRegistration(ctx, users, log, &reg)
		if err != nil {
			return fmt.Errorf("validating registration: %w", err)
		}
		if len(fe) > 0 {
			return v.Render(ctx, w, http.StatusUnprocessableEntity, "login", loginPage(reg.Values(), fe))
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(reg.Password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hashing password: %w", err)
		}

		now := time.Now().UTC()
		u := user.User{
			ID:        validate.GenerateID(),
			Email:     reg.Email,
			Name:      reg.Name,
			Password:  hash,
			Cart:      []user.CartItem{},
			CreatedAt: now,
			UpdatedAt: now,
		}

		if err := users.Create(ctx, u); err != nil {
			if errors.Is(err, database.ErrDuplicate) {
				fe.Add("email", validate.Message("email.taken"))
				return v.Render(ctx, w, http.StatusUnprocessableEntity, "login", loginPage(reg.Values(), fe))
			}
			return err
		}
		registered.Inc()

		if err := logIn(ctx, sm, u.ID); err != nil {
			return err
		}

		return web.Redirect(w, r, "/")
	}
}

func HandleLogout(sm *scs.SessionManager) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		if err := sm.Destroy(ctx); err != nil {
			return fmt.Errorf("destroying session: %w", err)
		}
		return web.Redirect(w, r, LoginURL)
	}
}

func logIn(ctx context.Context, sm *scs.SessionManager, userID string) error {
	if err := sm.RenewToken(ctx); err != nil {
		return fmt.Errorf("renewing session token: %w", err)
	}
	sm.Put(ctx, UserIDKey, userID)
	return nil
}
