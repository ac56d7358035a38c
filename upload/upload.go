// Package upload extracts a single uploaded file from multipart requests
// and hands it to a Storage.
package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/irsalhamdi/course-shop/api/web"
	"github.com/irsalhamdi/course-shop/api/weberr"
	"github.com/irsalhamdi/course-shop/random"
	"github.com/sirupsen/logrus"
)

// Storage persists an uploaded file under name and returns the URL it is served from.
type Storage interface {
	Save(ctx context.Context, name string, r io.Reader, size int64, contentType string) (string, error)
	Delete(ctx context.Context, name string) error
}

// File is the stored upload attached to the request.
type File struct {
	Name        string
	Field       string
	Filename    string
	ContentType string
	Size        int64
	URL         string
}

var allowedTypes = map[string]string{
	"image/png":  ".png",
	"image/jpg":  ".jpg",
	"image/jpeg": ".jpg",
}

type ctxKey int

const fileKey ctxKey = 1

type stored struct {
	file File
	kept bool
}

// FromContext returns the file stored for the request without claiming it.
func FromContext(ctx context.Context) (File, bool) {
	s, ok := ctx.Value(fileKey).(*stored)
	if !ok {
		return File{}, false
	}
	return s.file, true
}

// Claim marks the stored file as referenced. Unclaimed files are deleted
// when the request ends.
func Claim(ctx context.Context) (File, bool) {
	s, ok := ctx.Value(fileKey).(*stored)
	if !ok {
		return File{}, false
	}
	s.kept = true
	return s.file, true
}

// Single stores the file of the given form field when the request is a
// multipart form. Files that are not png or jpeg images are ignored.
// The stored file is deleted again unless the handler claims it and
// succeeds. The multipart temporary files are removed once the handler
// returns.
func Single(field string, maxBytes int64, store Storage, log logrus.FieldLogger) web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
				return handler(ctx, w, r)
			}

			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			if err := r.ParseMultipartForm(maxBytes); err != nil {
				return weberr.BadRequest(fmt.Errorf("parsing multipart form: %w", err))
			}
			defer r.MultipartForm.RemoveAll()

			f, hdr, err := r.FormFile(field)
			switch {
			case errors.Is(err, http.ErrMissingFile):
				return handler(ctx, w, r)
			case err != nil:
				return weberr.BadRequest(fmt.Errorf("reading file %q: %w", field, err))
			}
			defer f.Close()

			file, ok, err := save(ctx, store, field, f, hdr)
			if err != nil {
				return err
			}
			if !ok {
				log.WithFields(logrus.Fields{
					"field":        field,
					"content_type": hdr.Header.Get("Content-Type"),
				}).Info("upload ignored")
				return handler(ctx, w, r)
			}

			s := &stored{file: file}
			ctx = context.WithValue(ctx, fileKey, s)
			herr := handler(ctx, w, r.WithContext(ctx))

			if herr != nil || !s.kept {
				if err := store.Delete(context.WithoutCancel(ctx), file.Name); err != nil {
					log.WithError(err).WithField("file", file.Name).Warn("removing unused upload")
				}
			}
			return herr
		}
		return h
	}
	return m
}

func save(ctx context.Context, store Storage, field string, f multipart.File, hdr *multipart.FileHeader) (File, bool, error) {
	ct := hdr.Header.Get("Content-Type")
	ext, ok := allowedTypes[ct]
	if !ok {
		return File{}, false, nil
	}

	suffix, err := random.StringSecure(8)
	if err != nil {
		return File{}, false, fmt.Errorf("naming upload: %w", err)
	}
	name := fmt.Sprintf("%s-%s%s", time.Now().UTC().Format("20060102T150405"), suffix, ext)

	url, err := store.Save(ctx, name, f, hdr.Size, ct)
	if err != nil {
		return File{}, false, fmt.Errorf("storing upload %s: %w", name, err)
	}

	return File{
		Name:        name,
		Field:       field,
		Filename:    path.Base(hdr.Filename),
		ContentType: ct,
		Size:        hdr.Size,
		URL:         url,
	}, true, nil
}
