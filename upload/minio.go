package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/irsalhamdi/course-shop/config"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Minio stores uploads in an S3 compatible bucket.
type Minio struct {
	mc        *minio.Client
	bucket    string
	publicURL string
}

func NewMinio(cfg config.Minio) (*Minio, error) {
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, errors.New("minio access key and secret key are required")
	}

	mc, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("creating minio client: %w", err)
	}

	public := cfg.PublicURL
	if public == "" {
		scheme := "http"
		if cfg.UseSSL {
			scheme = "https"
		}
		public = fmt.Sprintf("%s://%s/%s", scheme, cfg.Endpoint, cfg.Bucket)
	}

	return &Minio{mc: mc, bucket: cfg.Bucket, publicURL: strings.TrimSuffix(public, "/")}, nil
}

func (m *Minio) EnsureBucket(ctx context.Context) error {
	exists, err := m.mc.BucketExists(ctx, m.bucket)
	if err != nil {
		return fmt.Errorf("checking bucket %s: %w", m.bucket, err)
	}
	if exists {
		return nil
	}
	if err := m.mc.MakeBucket(ctx, m.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("creating bucket %s: %w", m.bucket, err)
	}
	return nil
}

func (m *Minio) Save(ctx context.Context, name string, r io.Reader, size int64, contentType string) (string, error) {
	_, err := m.mc.PutObject(ctx, m.bucket, name, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("uploading %s: %w", name, err)
	}
	return m.publicURL + "/" + name, nil
}

func (m *Minio) Delete(ctx context.Context, name string) error {
	if err := m.mc.RemoveObject(ctx, m.bucket, name, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("removing %s: %w", name, err)
	}
	return nil
}
