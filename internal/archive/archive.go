// Package archive keeps an audit copy of uploaded import files in object
// storage. It is best-effort: the import pipeline proceeds whether or not
// the copy lands.
package archive

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"

	"github.com/nmanzi/partsdb/internal/config"
)

type Archiver struct {
	client *minio.Client
	bucket string
	logger *zap.Logger
}

// New returns nil, nil when no endpoint is configured; archiving is optional.
func New(cfg config.MinIOConfig, logger *zap.Logger) (*Archiver, error) {
	if cfg.Endpoint == "" {
		return nil, nil
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}
	return &Archiver{client: client, bucket: cfg.Bucket, logger: logger}, nil
}

// StoreImport writes the raw CSV under imports/<date>/<uuid>.csv and returns
// the object key.
func (a *Archiver) StoreImport(ctx context.Context, data []byte) (string, error) {
	key := fmt.Sprintf("imports/%s/%s.csv", time.Now().Format("2006-01-02"), uuid.New().String())
	_, err := a.client.PutObject(ctx, a.bucket, key, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: "text/csv"})
	if err != nil {
		return "", fmt.Errorf("put object: %w", err)
	}
	a.logger.Info("archived import file",
		zap.String("bucket", a.bucket),
		zap.String("key", key),
		zap.Int("size", len(data)),
	)
	return key, nil
}

// EnsureBucket creates the bucket if it does not exist yet.
func (a *Archiver) EnsureBucket(ctx context.Context) error {
	exists, err := a.client.BucketExists(ctx, a.bucket)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return a.client.MakeBucket(ctx, a.bucket, minio.MakeBucketOptions{})
}
