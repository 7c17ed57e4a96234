package output

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	miniogo "github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen(t *testing.T) {
	ctx := context.Background()

	t.Run("file", func(t *testing.T) {
		sink, err := Open(ctx, "docs/.tbls.yml", StorageConfig{})
		require.NoError(t, err)
		assert.IsType(t, &FileSink{}, sink)
		assert.Equal(t, "docs/.tbls.yml", sink.String())
	})

	t.Run("stdout", func(t *testing.T) {
		sink, err := Open(ctx, Stdout, StorageConfig{})
		require.NoError(t, err)
		assert.IsType(t, &WriterSink{}, sink)
		assert.Equal(t, "stdout", sink.String())
	})

	t.Run("object", func(t *testing.T) {
		sink, err := Open(ctx, "s3://docs/app/.tbls.yml", StorageConfig{Endpoint: "localhost:9000"})
		require.NoError(t, err)
		assert.IsType(t, &ObjectSink{}, sink)
		assert.Equal(t, "s3://docs/app/.tbls.yml", sink.String())
	})

	t.Run("empty", func(t *testing.T) {
		_, err := Open(ctx, "", StorageConfig{})
		assert.Error(t, err)
	})

	t.Run("object without key", func(t *testing.T) {
		_, err := Open(ctx, "minio://docs", StorageConfig{Endpoint: "localhost:9000"})
		assert.ErrorContains(t, err, "needs a bucket and a key")
	})

	t.Run("object without endpoint", func(t *testing.T) {
		_, err := Open(ctx, "s3://docs/.tbls.yml", StorageConfig{})
		assert.ErrorContains(t, err, "endpoint is required")
	})
}

func TestParseObjectURL(t *testing.T) {
	tests := []struct {
		dest     string
		bucket   string
		key      string
		isObject bool
	}{
		{"s3://bucket/key.yml", "bucket", "key.yml", true},
		{"minio://bucket/a/b/c.yml", "bucket", "a/b/c.yml", true},
		{"s3://bucket", "bucket", "", true},
		{".tbls.yml", "", "", false},
		{"/tmp/s3://odd", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.dest, func(t *testing.T) {
			bucket, key, ok := parseObjectURL(tt.dest)
			assert.Equal(t, tt.isObject, ok)
			assert.Equal(t, tt.bucket, bucket)
			assert.Equal(t, tt.key, key)
		})
	}
}

func TestFileSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", ".tbls.yml")
	sink := &FileSink{Path: path}

	require.NoError(t, sink.Write(context.Background(), []byte("name: app\n")))
	require.NoError(t, sink.Write(context.Background(), []byte("name: shop\n")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "name: shop\n", string(data))
}

func TestFileSinkError(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0644))

	sink := &FileSink{Path: filepath.Join(blocker, ".tbls.yml")}
	assert.Error(t, sink.Write(context.Background(), []byte("x")))
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("broken pipe")
}

func TestWriterSink(t *testing.T) {
	buf := &bytes.Buffer{}
	sink := NewWriterSink(buf, "buffer")
	require.NoError(t, sink.Write(context.Background(), []byte("name: app\n")))
	assert.Equal(t, "name: app\n", buf.String())

	err := NewWriterSink(failingWriter{}, "pipe").Write(context.Background(), []byte("x"))
	assert.ErrorContains(t, err, "failed to write to pipe: broken pipe")
}

func TestDescribeObjectError(t *testing.T) {
	missing := miniogo.ErrorResponse{Code: "NoSuchBucket", BucketName: "docs", StatusCode: 404}
	err := describeObjectError(missing)
	assert.ErrorContains(t, err, `bucket "docs" does not exist`)

	denied := miniogo.ErrorResponse{Code: "AccessDenied", StatusCode: 403}
	assert.ErrorContains(t, describeObjectError(denied), "access denied")

	other := errors.New("dial tcp: connection refused")
	assert.Equal(t, other, describeObjectError(other))

	assert.ErrorIs(t, describeObjectError(context.Canceled), context.Canceled)
}
