// Package labelstore persists opaque label bytes a caller has already
// rendered (ZPL, PDF, whatever) under a caller-supplied or randomly
// generated reference. The core never renders a label itself — it only
// sinks and serves bytes handed to it, once an order is packed or shipped.
package labelstore

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"wms-core/internal/config"
)

// Sink is the label persistence contract. Put returns a reference the
// caller can hand back to Get later (e.g. to reprint a shipping label).
type Sink interface {
	Put(ctx context.Context, ref string, data []byte) (string, error)
	Get(ctx context.Context, ref string) ([]byte, error)
}

// MinIOSink implements Sink over an S3-compatible object store.
type MinIOSink struct {
	client *minio.Client
	bucket string
}

// NewMinIOSink connects to the configured object store and ensures the
// label bucket exists, creating it if necessary.
func NewMinIOSink(ctx context.Context, cfg config.ObjectStoreConfig) (*MinIOSink, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create object store client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check label bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create label bucket: %w", err)
		}
	}

	return &MinIOSink{client: client, bucket: cfg.Bucket}, nil
}

// Put writes data under ref, generating a ref when the caller passes an
// empty string. Returns the ref used.
func (s *MinIOSink) Put(ctx context.Context, ref string, data []byte) (string, error) {
	if ref == "" {
		ref = uuid.New().String()
	}
	_, err := s.client.PutObject(ctx, s.bucket, ref, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/octet-stream",
	})
	if err != nil {
		return "", fmt.Errorf("put label %s: %w", ref, err)
	}
	return ref, nil
}

// Get reads back the bytes previously stored under ref.
func (s *MinIOSink) Get(ctx context.Context, ref string) ([]byte, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, ref, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get label %s: %w", ref, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, fmt.Errorf("read label %s: %w", ref, err)
	}
	return data, nil
}

// NoopSink discards every label; used in tests and wherever no object store
// is configured.
type NoopSink struct{}

func (NoopSink) Put(ctx context.Context, ref string, data []byte) (string, error) { return ref, nil }
func (NoopSink) Get(ctx context.Context, ref string) ([]byte, error)              { return nil, nil }
