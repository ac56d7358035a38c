package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/irsalhamdi/course-shop/api/web"
	"github.com/sirupsen/logrus"
	"github.com/zenazn/goji/web/mutil"
)

// Logger writes one access log line per request once the response is done.
func Logger(log logrus.FieldLogger) web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {

			log := log.WithFields(logrus.Fields{
				"req_id":     ContextRequestID(ctx),
				"method":     r.Method,
				"path":       r.URL.Path,
				"remoteaddr": r.RemoteAddr,
			})

			startTime := time.Now().UTC()

			lw := mutil.WrapWriter(w)
			err := handler(ctx, lw, r)

			status := lw.Status()
			if status == 0 {
				status = http.StatusOK
			}

			log = log.WithFields(logrus.Fields{
				"statuscode": status,
				"bytes":      lw.BytesWritten(),
				"since":      time.Since(startTime).String(),
			})
			if status >= http.StatusInternalServerError {
				log.Warn("completed")
			} else {
				log.Info("completed")
			}
			return err
		}
		return h
	}
	return m
}
