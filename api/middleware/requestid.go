package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/irsalhamdi/course-shop/api/web"
)

const (
	RequestIDHeader = "X-Request-Id"

	// Client ids longer than this are truncated.
	MaxRequestIDLength = 128
)

type reqIDKeyCtx int

const reqIDKey reqIDKeyCtx = 1

// RequestID tags every request with an id, reusing the client's
// X-Request-Id when it is printable ASCII, and echoes it in the response.
func RequestID() web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			id := cleanRequestID(r.Header.Get(RequestIDHeader))
			if id == "" {
				id = uuid.NewString()
			}

			ctx = context.WithValue(ctx, reqIDKey, id)
			w.Header().Set(RequestIDHeader, id)

			return handler(ctx, w, r.WithContext(ctx))
		}
		return h
	}
	return m
}

func cleanRequestID(id string) string {
	if len(id) > MaxRequestIDLength {
		id = id[:MaxRequestIDLength]
	}
	for i := 0; i < len(id); i++ {
		if id[i] < 0x21 || id[i] > 0x7e {
			return ""
		}
	}
	return id
}

// ContextRequestID returns the id stored by RequestID, or "".
func ContextRequestID(ctx context.Context) string {
	id, _ := ctx.Value(reqIDKey).(string)
	return id
}
