package middleware

import (
	"net/http"

	"github.com/irsalhamdi/course-shop/api/web"
	"github.com/klauspost/compress/gzhttp"
)

// Compress gzips responses for clients that accept it.
func Compress() web.Middleware {
	return web.Adapt(func(h http.Handler) http.Handler {
		return gzhttp.GzipHandler(h)
	})
}
