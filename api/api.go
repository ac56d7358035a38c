package api

import (
	"io/fs"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/gorilla/mux"
	"github.com/irsalhamdi/course-shop/api/flash"
	"github.com/irsalhamdi/course-shop/api/middleware"
	"github.com/irsalhamdi/course-shop/api/view"
	"github.com/irsalhamdi/course-shop/api/web"
	"github.com/irsalhamdi/course-shop/core/auth"
	"github.com/irsalhamdi/course-shop/core/cart"
	"github.com/irsalhamdi/course-shop/core/course"
	"github.com/irsalhamdi/course-shop/core/home"
	"github.com/irsalhamdi/course-shop/core/order"
	"github.com/irsalhamdi/course-shop/core/user"
	"github.com/irsalhamdi/course-shop/rate"
	"github.com/irsalhamdi/course-shop/upload"
	"github.com/sirupsen/logrus"
)

type APIConfig struct {
	Log     logrus.FieldLogger
	Users   user.Store
	Courses course.Store
	Orders  order.Store
	Session *scs.SessionManager
	View    *view.View
	Public  fs.FS

	Uploads        upload.Storage
	UploadMaxBytes int64
	// UploadDir is served under /images/ when uploads are kept on disk.
	UploadDir string

	CSRFKey      []byte
	SecureCookie bool
	Limiter      *rate.Limiter
	Metrics      *middleware.Metrics
}

type api struct {
	*mux.Router
	mw  []web.Middleware
	log logrus.FieldLogger
}

func APIMux(cfg APIConfig) http.Handler {
	a := &api{
		Router: mux.NewRouter(),
		log:    cfg.Log,
	}

	cfg.Session.ErrorFunc = middleware.ErrorPage(cfg.Log, cfg.View)

	a.mw = append(a.mw, middleware.RequestID())
	a.mw = append(a.mw, middleware.Logger(cfg.Log))
	a.mw = append(a.mw, cfg.Metrics.Middleware())
	a.mw = append(a.mw, middleware.Compress())
	a.mw = append(a.mw, auth.LoadAndSave(cfg.Session))
	a.mw = append(a.mw, middleware.Errors(cfg.Log, cfg.View))
	a.mw = append(a.mw, middleware.Panics())
	a.mw = append(a.mw, middleware.ParseForm())
	a.mw = append(a.mw, upload.Single("avatar", cfg.UploadMaxBytes, cfg.Uploads, cfg.Log))
	a.mw = append(a.mw, middleware.CSRF(cfg.CSRFKey, cfg.SecureCookie))
	a.mw = append(a.mw, flash.Middleware(cfg.Session))
	a.mw = append(a.mw, middleware.Vars(cfg.Session, auth.UserIDKey))
	a.mw = append(a.mw, auth.LoadUser(cfg.Users, cfg.Session))

	authen := auth.Authenticate()

	a.Handle(http.MethodGet, "/", home.HandleIndex(cfg.View))

	a.Handle(http.MethodGet, "/courses", course.HandleList(cfg.Courses, cfg.View))
	a.Handle(http.MethodGet, "/courses/{id}", course.HandleShow(cfg.Courses, cfg.View))
	a.Handle(http.MethodGet, "/courses/{id}/edit", course.HandleEditForm(cfg.Courses, cfg.View), authen)
	a.Handle(http.MethodPost, "/courses/edit", course.HandleEdit(cfg.Courses, cfg.View), authen)
	a.Handle(http.MethodPost, "/courses/remove", course.HandleRemove(cfg.Courses), authen)

	a.Handle(http.MethodGet, "/add", course.HandleAddForm(cfg.View), authen)
	a.Handle(http.MethodPost, "/add", course.HandleCreate(cfg.Courses, cfg.View), authen)

	a.Handle(http.MethodGet, "/card", cart.HandleShow(cfg.Users, cfg.Courses, cfg.View), authen)
	a.Handle(http.MethodPost, "/card/add", cart.HandleCreateItem(cfg.Users, cfg.Courses), authen)
	a.Handle(http.MethodDelete, "/card/remove/{id}", cart.HandleDeleteItem(cfg.Users, cfg.Courses), authen)
	a.Handle(http.MethodPost, "/card/remove/{id}", cart.HandleDeleteItem(cfg.Users, cfg.Courses), authen)

	a.Handle(http.MethodGet, "/orders", order.HandleList(cfg.Orders, cfg.View), authen)
	a.Handle(http.MethodPost, "/orders", order.HandleCreate(cfg.Users, cfg.Courses, cfg.Orders, cfg.Metrics.OrdersCreated), authen)

	a.Handle(http.MethodGet, "/auth/login", auth.HandleLoginForm(cfg.View))
	a.Handle(http.MethodPost, "/auth/login", auth.HandleLogin(cfg.Users, cfg.Session, cfg.Limiter))
	a.Handle(http.MethodPost, "/auth/register", auth.HandleRegister(cfg.Users, cfg.Session, cfg.View, cfg.Log, cfg.Metrics.UsersRegistered))
	a.Handle(http.MethodGet, "/auth/logout", auth.HandleLogout(cfg.Session))

	a.Handle(http.MethodGet, "/profile", user.HandleProfile(cfg.Users, cfg.View), authen)
	a.Handle(http.MethodPost, "/profile", user.HandleProfileUpdate(cfg.Users, cfg.View), authen)

	a.Router.Handle("/metrics", cfg.Metrics.Handler()).Methods(http.MethodGet)

	if cfg.UploadDir != "" {
		images := http.StripPrefix("/images/", http.FileServer(http.Dir(cfg.UploadDir)))
		a.Router.PathPrefix("/images/").Handler(images).Methods(http.MethodGet, http.MethodHead)
	}

	a.Router.NotFoundHandler = middleware.Static(cfg.Public, a.wrap(home.HandleNotFound()))

	return a.Router
}

func (a *api) Handle(method string, path string, handler web.Handler, mw ...web.Middleware) {

	handler = web.WrapMiddleware(mw, handler)

	a.Router.Handle(path, a.wrap(handler)).Methods(method)
}

func (a *api) wrap(handler web.Handler) http.Handler {

	handler = web.WrapMiddleware(a.mw, handler)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		ctx := r.Context()

		if err := handler(ctx, w, r); err != nil {

			a.log.WithFields(logrus.Fields{
				"req_id":  middleware.ContextRequestID(ctx),
				"message": err,
			}).Error("ERROR")
		}
	})
}
