package middleware

import (
	"context"
	"net/http"

	"github.com/irsalhamdi/course-shop/api/view"
	"github.com/irsalhamdi/course-shop/api/web"
	"github.com/irsalhamdi/course-shop/api/weberr"
	"github.com/sirupsen/logrus"
)

// ErrorData is handed to the "404" and "error" pages.
type ErrorData struct {
	Status  int
	Message string
}

func Errors(log logrus.FieldLogger, v *view.View) web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {

			err := handler(ctx, w, r)
			if err == nil {
				return nil
			}

			fields := map[string]interface{}{
				"req_id":  ContextRequestID(ctx),
				"method":  r.Method,
				"path":    r.URL.Path,
				"message": err,
			}
			if f, ok := weberr.Fields(err); ok {
				for k, v := range f {
					fields[k] = v
				}
			}

			status := weberr.Status(err)
			entry := log.WithFields(logrus.Fields(fields))
			if status >= http.StatusInternalServerError {
				entry.Error("ERROR")
			} else {
				entry.Info("request rejected")
			}

			if web.WantsJSON(r) {
				return web.Respond(ctx, w, weberr.ErrorResponse{Error: weberr.Message(err)}, status)
			}

			if rerr := renderError(ctx, w, v, status, weberr.Message(err)); rerr != nil {
				log.WithField("req_id", ContextRequestID(ctx)).WithError(rerr).Error("rendering error page")
				http.Error(w, http.StatusText(status), status)
			}
			return nil
		}
		return h
	}
	return m
}

func renderError(ctx context.Context, w http.ResponseWriter, v *view.View, status int, msg string) error {
	page := "error"
	if status == http.StatusNotFound {
		page = "404"
	}

	return v.Render(ctx, w, status, page, view.Page{
		Title: http.StatusText(status),
		Data:  ErrorData{Status: status, Message: msg},
	})
}

// ErrorPage answers requests whose session could not be loaded or saved.
// It has the signature of scs.SessionManager.ErrorFunc.
func ErrorPage(log logrus.FieldLogger, v *view.View) func(http.ResponseWriter, *http.Request, error) {
	return func(w http.ResponseWriter, r *http.Request, err error) {
		ctx := r.Context()
		log.WithFields(logrus.Fields{
			"req_id":  ContextRequestID(ctx),
			"method":  r.Method,
			"path":    r.URL.Path,
			"message": err,
		}).Error("SESSION")

		msg := weberr.Message(weberr.InternalError(err))
		if rerr := renderError(ctx, w, v, http.StatusInternalServerError, msg); rerr != nil {
			http.Error(w, msg, http.StatusInternalServerError)
		}
	}
}
