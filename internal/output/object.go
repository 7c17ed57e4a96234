package output

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"

	miniogo "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const yamlContentType = "application/yaml"

// ObjectSink uploads the document to an S3 compatible bucket
type ObjectSink struct {
	client *miniogo.Client
	bucket string
	key    string
}

// NewObjectSink creates a MinIO client for cfg. No request is made until Write.
func NewObjectSink(_ context.Context, cfg StorageConfig, bucket, key string) (*ObjectSink, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("object storage endpoint is required for s3://%s/%s", bucket, key)
	}

	client, err := miniogo.New(cfg.Endpoint, &miniogo.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create object storage client: %w", err)
	}

	return &ObjectSink{client: client, bucket: bucket, key: key}, nil
}

// Write uploads data as one object, replacing any existing one
func (s *ObjectSink) Write(ctx context.Context, data []byte) error {
	_, err := s.client.PutObject(ctx, s.bucket, s.key, bytes.NewReader(data), int64(len(data)),
		miniogo.PutObjectOptions{ContentType: yamlContentType})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", s, describeObjectError(err))
	}
	return nil
}

func (s *ObjectSink) String() string {
	return "s3://" + s.bucket + "/" + s.key
}

// describeObjectError turns S3 error responses into short causes
func describeObjectError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return err
	}

	var resp miniogo.ErrorResponse
	if errors.As(err, &resp) {
		switch {
		case resp.Code == "NoSuchBucket" || resp.StatusCode == http.StatusNotFound:
			return fmt.Errorf("bucket %q does not exist: %w", resp.BucketName, err)
		case resp.Code == "AccessDenied" || resp.StatusCode == http.StatusForbidden:
			return fmt.Errorf("access denied: %w", err)
		}
	}
	return err
}
