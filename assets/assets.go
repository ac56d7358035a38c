// Package assets embeds the HTML templates and the public files.
package assets

import (
	"embed"
	"io/fs"
)

//go:embed views
var views embed.FS

//go:embed public
var public embed.FS

// Views holds layouts/, partials/ and pages/.
func Views() fs.FS {
	sub, err := fs.Sub(views, "views")
	if err != nil {
		panic(err)
	}
	return sub
}

// Public holds the files served from the site root.
func Public() fs.FS {
	sub, err := fs.Sub(public, "public")
	if err != nil {
		panic(err)
	}
	return sub
}
