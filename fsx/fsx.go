// Package fsx reads files from local disk or S3 behind one interface, so
// commands can take either a path or an s3://bucket/key URI.
package fsx

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Abraxas-365/wacloud/errx"
)

// FileInfo represents information about a file
type FileInfo struct {
	Name        string            // Base name of the file
	Size        int64             // File size in bytes
	ModTime     time.Time         // Modification time
	ContentType string            // MIME type (when available)
	Metadata    map[string]string // Additional metadata
}

// FileSystem is the read side of a file store
type FileSystem interface {
	ReadFile(ctx context.Context, path string) ([]byte, error)
	ReadFileStream(ctx context.Context, path string) (io.ReadCloser, error)
	Stat(ctx context.Context, path string) (FileInfo, error)
	Exists(ctx context.Context, path string) (bool, error)
}

// ErrorRegistry holds fsx error definitions
var ErrorRegistry = errx.NewRegistry("FS")

var (
	ErrNotFound   = ErrorRegistry.Register("NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "File not found")
	ErrInvalidURI = ErrorRegistry.Register("INVALID_URI", errx.TypeBadRequest, http.StatusBadRequest, "Invalid file URI")
	ErrReadFailed = ErrorRegistry.Register("READ_FAILED", errx.TypeInternal, http.StatusInternalServerError, "Failed to read file")
)

// SplitS3URI splits s3://bucket/key. ok is false for anything else.
func SplitS3URI(uri string) (bucket, key string, ok bool) {
	rest, found := strings.CutPrefix(uri, "s3://")
	if !found {
		return "", "", false
	}
	bucket, key, _ = strings.Cut(rest, "/")
	return bucket, key, true
}

// readAll drains a stream opened by fs
func readAll(ctx context.Context, fs FileSystem, path string) ([]byte, error) {
	rc, err := fs.ReadFileStream(ctx, path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, ErrorRegistry.New(ErrReadFailed).WithDetail("path", path).WithCause(err)
	}
	return data, nil
}
