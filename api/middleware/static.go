package middleware

import (
	"io/fs"
	"net/http"
	"path"
	"strings"
)

// Static serves files of fsys that exist and hands everything else to next.
func Static(fsys fs.FS, next http.Handler) http.Handler {
	files := http.FileServer(http.FS(fsys))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet || r.Method == http.MethodHead {
			name := strings.TrimPrefix(path.Clean(r.URL.Path), "/")
			if name != "" {
				if st, err := fs.Stat(fsys, name); err == nil && !st.IsDir() {
					files.ServeHTTP(w, r)
					return
				}
			}
		}
		next.ServeHTTP(w, r)
	})
}
