// Package artifact loads the externally produced model artifacts: the fitted
// min-max scaler and the trained forest classifier.
package artifact

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/Veraticus/potability/internal/common"
	"github.com/Veraticus/potability/internal/config"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const s3Scheme = "s3://"

// Loader reads artifact bytes from local storage or an S3-compatible bucket.
type Loader struct {
	s3 *minio.Client
}

// NewLoader creates a loader. Object storage is only configured when an
// endpoint is given; s3:// locations fail otherwise.
func NewLoader(cfg config.ObjectStorage) (*Loader, error) {
	if cfg.Endpoint == "" {
		return &Loader{}, nil
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.Secure,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 client: %w", err)
	}

	return &Loader{s3: client}, nil
}

// Load returns the artifact at location. Every failure wraps ErrResourceUnavailable.
func (l *Loader) Load(ctx context.Context, location string) ([]byte, error) {
	if strings.TrimSpace(location) == "" {
		return nil, common.Unavailable("artifact location is empty", nil)
	}

	if strings.HasPrefix(location, s3Scheme) {
		return l.loadObject(ctx, location)
	}

	path := config.ExpandPath(location)
	data, err := os.ReadFile(path) //nolint:gosec // operator-configured path
	if err != nil {
		return nil, common.Unavailable(path, err)
	}

	slog.Debug("Read artifact from disk", "path", path, "bytes", len(data))
	return data, nil
}

func (l *Loader) loadObject(ctx context.Context, location string) ([]byte, error) {
	bucket, key, err := splitObjectLocation(location)
	if err != nil {
		return nil, common.Unavailable(location, err)
	}
	if l.s3 == nil {
		return nil, common.Unavailable(location, fmt.Errorf("object storage endpoint is not configured"))
	}

	obj, err := l.s3.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, common.Unavailable(location, fmt.Errorf("s3 get object: %w", err))
	}
	defer func() { _ = obj.Close() }()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, common.Unavailable(location, fmt.Errorf("s3 read object: %w", err))
	}

	slog.Debug("Read artifact from object storage", "bucket", bucket, "key", key, "bytes", len(data))
	return data, nil
}

func splitObjectLocation(location string) (bucket, key string, err error) {
	rest := strings.TrimPrefix(location, s3Scheme)
	bucket, key, ok := strings.Cut(rest, "/")
	if !ok || bucket == "" || key == "" {
		return "", "", fmt.Errorf("want s3://bucket/key, got %q", location)
	}
	return bucket, key, nil
}
