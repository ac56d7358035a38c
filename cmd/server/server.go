package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/alexedwards/scs/v2"
	"github.com/alexedwards/scs/v2/memstore"
	"github.com/ardanlabs/conf/v3"
	"github.com/irsalhamdi/course-shop/api"
	"github.com/irsalhamdi/course-shop/api/middleware"
	"github.com/irsalhamdi/course-shop/api/view"
	"github.com/irsalhamdi/course-shop/assets"
	"github.com/irsalhamdi/course-shop/config"
	"github.com/irsalhamdi/course-shop/core/course"
	"github.com/irsalhamdi/course-shop/core/order"
	"github.com/irsalhamdi/course-shop/core/user"
	"github.com/irsalhamdi/course-shop/database"
	"github.com/irsalhamdi/course-shop/rate"
	"github.com/irsalhamdi/course-shop/upload"
	"github.com/irsalhamdi/course-shop/validate"
	"github.com/sirupsen/logrus"
)

var build = "develop"

func main() {
	log := logrus.New()
	log.SetOutput(os.Stdout)
	log.SetFormatter(&logrus.JSONFormatter{})

	if err := Run(log); err != nil {
		if errors.Is(err, conf.ErrHelpWanted) {
			return
		}
		log.Error(err)
		os.Exit(1)
	}
}

type stores struct {
	users   user.Store
	courses course.Store
	orders  order.Store
	session scs.Store
	close   func(ctx context.Context) error
}

func openStores(ctx context.Context, cfg config.DB) (stores, error) {
	switch cfg.Driver {
	case "memory":
		return stores{
			users:   user.NewMemStore(),
			courses: course.NewMemStore(),
			orders:  order.NewMemStore(),
			session: memstore.New(),
			close:   func(context.Context) error { return nil },
		}, nil

	case "mongo":
		db, err := database.Open(ctx, cfg)
		if err != nil {
			return stores{}, fmt.Errorf("failed to open db connection: %w", err)
		}
		return stores{
			users:   user.NewMongoStore(db),
			courses: course.NewMongoStore(db),
			orders:  order.NewMongoStore(db),
			session: database.NewSessionStore(db),
			close:   db.Close,
		}, nil
	}

	return stores{}, fmt.Errorf("unknown db driver %q", cfg.Driver)
}

func openUploads(ctx context.Context, cfg config.Upload) (upload.Storage, string, error) {
	if cfg.Minio.Endpoint == "" {
		d, err := upload.NewDisk(cfg.Dir, "/images")
		if err != nil {
			return nil, "", err
		}
		return d, cfg.Dir, nil
	}

	m, err := upload.NewMinio(cfg.Minio)
	if err != nil {
		return nil, "", err
	}
	if err := m.EnsureBucket(ctx); err != nil {
		return nil, "", err
	}
	return m, "", nil
}

func Run(logger *logrus.Logger) error {
	cfg, help, err := config.Load(build)
	if err != nil {
		if errors.Is(err, conf.ErrHelpWanted) {
			fmt.Println(help)
			return err
		}
		return fmt.Errorf("parsing config: %w", err)
	}

	logger.Infof("starting server, build %s", build)
	defer logger.Info("shutdown complete")

	out, err := conf.String(&cfg)
	if err != nil {
		return fmt.Errorf("generating config for output: %w", err)
	}
	logger.Infof("config:\n%s", out)

	if err := validate.SetLocale(cfg.Locale); err != nil {
		return err
	}

	lw := logger.Writer()
	defer lw.Close()
	errLog := log.New(lw, "", 0)

	ctx := context.Background()

	st, err := openStores(ctx, cfg.DB)
	if err != nil {
		return err
	}
	defer func() {
		if err := st.close(context.Background()); err != nil {
			logger.WithError(err).Error("closing db connection")
		}
	}()

	uploads, uploadDir, err := openUploads(ctx, cfg.Upload)
	if err != nil {
		return fmt.Errorf("failed to set up upload storage: %w", err)
	}

	v, err := view.New(assets.Views())
	if err != nil {
		return fmt.Errorf("failed to parse templates: %w", err)
	}

	sessionManager := scs.New()
	sessionManager.Store = st.session
	sessionManager.Lifetime = cfg.Session.Lifetime
	sessionManager.Cookie.Name = "session"
	sessionManager.Cookie.Secure = cfg.Session.Secure
	sessionManager.Cookie.SameSite = http.SameSiteLaxMode

	limiter := rate.NewLimiter(cfg.Login.Burst, cfg.Login.Expiry, rate.Every(cfg.Login.Interval))
	defer limiter.Stop()

	mux := api.APIMux(api.APIConfig{
		Log:            logger,
		Users:          st.users,
		Courses:        st.courses,
		Orders:         st.orders,
		Session:        sessionManager,
		View:           v,
		Public:         assets.Public(),
		Uploads:        uploads,
		UploadMaxBytes: cfg.Upload.MaxBytes,
		UploadDir:      uploadDir,
		CSRFKey:        middleware.CSRFKey(cfg.Session.Secret),
		SecureCookie:   cfg.Session.Secure,
		Limiter:        limiter,
		Metrics:        middleware.NewMetrics(),
	})

	api := http.Server{
		Handler:      mux,
		Addr:         cfg.Web.Address(),
		ReadTimeout:  cfg.Web.ReadTimeout,
		WriteTimeout: cfg.Web.WriteTimeout,
		IdleTimeout:  cfg.Web.IdleTimeout,
		ErrorLog:     errLog,
	}

	serverErrors := make(chan error, 1)

	go func() {
		logger.Infof("starting api router at %s", api.Addr)
		serverErrors <- api.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Infof("shutting down: signal %s", sig)

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Web.ShutdownTimeout)
		defer cancel()

		if err := api.Shutdown(ctx); err != nil {
			api.Close()
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
	}
	return nil
}
