// Package view renders the server-side HTML pages.
//
// Every page is parsed together with the layouts and partials, so a page
// file only has to define its "content" block. Render executes into a buffer
// first: a failing template never leaves a half written page behind.
package view

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"strings"

	"github.com/irsalhamdi/course-shop/api/flash"
	"github.com/irsalhamdi/course-shop/core/claims"
	"github.com/irsalhamdi/course-shop/validate"
)

const (
	LayoutMain  = "main"
	LayoutEmpty = "empty"
)

// Page is what a handler hands to Render.
type Page struct {
	Title  string
	Active string
	Layout string
	Data   any
	Form   map[string]string
	Errors validate.FieldErrors
}

// Vars are injected into every render by the vars middleware.
type Vars struct {
	IsAuth    bool
	CSRFToken string
	CSRFField template.HTML
}

type varsKey int

const key varsKey = 1

func SetVars(ctx context.Context, v Vars) context.Context {
	return context.WithValue(ctx, key, v)
}

func GetVars(ctx context.Context) Vars {
	v, _ := ctx.Value(key).(Vars)
	return v
}

type templateData struct {
	Page
	Vars
	User  claims.Claims
	Flash map[string][]string
}

type View struct {
	pages map[string]*template.Template
}

// New parses layouts/*.html, partials/*.html and pages/*.html from fsys.
func New(fsys fs.FS) (*View, error) {
	shared, err := template.New("").Funcs(Funcs()).ParseFS(fsys, "layouts/*.html", "partials/*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing layouts: %w", err)
	}

	files, err := fs.Glob(fsys, "pages/*.html")
	if err != nil {
		return nil, fmt.Errorf("listing pages: %w", err)
	}

	v := View{pages: make(map[string]*template.Template, len(files))}
	for _, f := range files {
		t, err := shared.Clone()
		if err != nil {
			return nil, fmt.Errorf("cloning layouts for %s: %w", f, err)
		}
		if t, err = t.ParseFS(fsys, f); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", f, err)
		}

		name := strings.TrimSuffix(path.Base(f), path.Ext(f))
		v.pages[name] = t
	}

	return &v, nil
}

// Has reports whether a page called name was parsed.
func (v *View) Has(name string) bool {
	_, ok := v.pages[name]
	return ok
}

func (v *View) Render(ctx context.Context, w http.ResponseWriter, status int, name string, p Page) error {
	t, ok := v.pages[name]
	if !ok {
		return fmt.Errorf("page %q does not exist", name)
	}

	if p.Layout == "" {
		p.Layout = LayoutMain
	}

	data := templateData{
		Page:  p,
		Vars:  GetVars(ctx),
		Flash: flash.Pop(ctx),
	}
	if c, err := claims.Get(ctx); err == nil {
		data.User = c
		data.IsAuth = true
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, p.Layout, data); err != nil {
		return fmt.Errorf("executing page %q: %w", name, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)

	if _, err := buf.WriteTo(w); err != nil {
		return fmt.Errorf("writing page %q: %w", name, err)
	}
	return nil
}
