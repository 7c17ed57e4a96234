// Package output persists the generated document.
//
// A destination is either a local path, "-" for stdout, or an object URL
// (s3://bucket/key or minio://bucket/key) written through the MinIO client.
//
//	sink, err := output.Open(ctx, ".tbls.yml", output.StorageConfig{})
//	if err != nil { ... }
//	err = sink.Write(ctx, data)
package output

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Stdout is the destination that writes to standard output
const Stdout = "-"

// Sink receives the whole document in one write
type Sink interface {
	Write(ctx context.Context, data []byte) error
	String() string
}

// StorageConfig holds the object storage settings used for s3:// and
// minio:// destinations
type StorageConfig struct {
	Endpoint  string // host:port of the storage server
	AccessKey string
	SecretKey string
	UseSSL    bool
	Region    string
}

// Open returns the sink for dest
func Open(ctx context.Context, dest string, cfg StorageConfig) (Sink, error) {
	if dest == "" {
		return nil, fmt.Errorf("output destination is required")
	}

	if bucket, key, ok := parseObjectURL(dest); ok {
		if bucket == "" || key == "" {
			return nil, fmt.Errorf("object destination %s needs a bucket and a key", dest)
		}
		return NewObjectSink(ctx, cfg, bucket, key)
	}

	if dest == Stdout {
		return &WriterSink{w: os.Stdout, name: "stdout"}, nil
	}
	return &FileSink{Path: dest}, nil
}

// parseObjectURL splits scheme://bucket/key/with/slashes
func parseObjectURL(dest string) (bucket, key string, ok bool) {
	for _, scheme := range []string{"s3://", "minio://"} {
		if rest, found := strings.CutPrefix(dest, scheme); found {
			bucket, key, _ = strings.Cut(rest, "/")
			return bucket, key, true
		}
	}
	return "", "", false
}

// FileSink writes the document to a local file, creating parent directories
type FileSink struct {
	Path string
}

func (s *FileSink) Write(_ context.Context, data []byte) error {
	if dir := filepath.Dir(s.Path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(s.Path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", s.Path, err)
	}
	return nil
}

func (s *FileSink) String() string {
	return s.Path
}

// WriterSink writes the document to an io.Writer
type WriterSink struct {
	w    io.Writer
	name string
}

// NewWriterSink wraps w
func NewWriterSink(w io.Writer, name string) *WriterSink {
	return &WriterSink{w: w, name: name}
}

func (s *WriterSink) Write(_ context.Context, data []byte) error {
	if _, err := s.w.Write(data); err != nil {
		return fmt.Errorf("failed to write to %s: %w", s.name, err)
	}
	return nil
}

func (s *WriterSink) String() string {
	return s.name
}
