package middleware

import (
	"crypto/sha256"
	"net/http"

	"github.com/gorilla/csrf"
	"github.com/irsalhamdi/course-shop/api/web"
	"github.com/irsalhamdi/course-shop/api/weberr"
)

const (
	CSRFField  = "_csrf"
	CSRFHeader = "X-XSRF-TOKEN"
)

// CSRFKey derives the 32 byte authentication key from the session secret.
func CSRFKey(secret string) []byte {
	sum := sha256.Sum256([]byte("csrf:" + secret))
	return sum[:]
}

// CSRF rejects unsafe requests without a valid token with 403. The token
// is accepted from the form field or the request header.
func CSRF(key []byte, secure bool) web.Middleware {
	fail := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		web.SetError(r, weberr.Forbidden(csrf.FailureReason(r)))
	})

	protect := csrf.Protect(key,
		csrf.Secure(secure),
		csrf.Path("/"),
		csrf.HttpOnly(true),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.FieldName(CSRFField),
		csrf.RequestHeader(CSRFHeader),
		csrf.ErrorHandler(fail),
	)
	return web.Adapt(protect)
}
