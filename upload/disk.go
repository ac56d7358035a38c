package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// Disk writes uploads into a directory served under URLPrefix.
type Disk struct {
	Dir       string
	URLPrefix string
}

func NewDisk(dir, urlPrefix string) (*Disk, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating upload dir: %w", err)
	}
	return &Disk{Dir: dir, URLPrefix: urlPrefix}, nil
}

func (d *Disk) Save(ctx context.Context, name string, r io.Reader, size int64, contentType string) (string, error) {
	f, err := os.OpenFile(filepath.Join(d.Dir, filepath.Base(name)), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", err
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("writing %s: %w", name, err)
	}

	if err := f.Close(); err != nil {
		return "", err
	}
	return d.URLPrefix + "/" + filepath.Base(name), nil
}

func (d *Disk) Delete(ctx context.Context, name string) error {
	err := os.Remove(filepath.Join(d.Dir, filepath.Base(name)))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing %s: %w", name, err)
	}
	return nil
}
