package fsx

import (
	"context"
	"errors"
	"io"
)

// ErrNotExist is returned when a path has no object behind it
var ErrNotExist = errors.New("fsx: file does not exist")

// FileSystem is the object storage used for résumé files
type FileSystem interface {
	// Join builds a storage path from segments
	Join(elem ...string) string

	// WriteFile stores data at path, replacing any existing object
	WriteFile(ctx context.Context, path string, data []byte) error

	// WriteFileStream stores the contents of r at path
	WriteFileStream(ctx context.Context, path string, r io.Reader) error

	// ReadFile returns the full contents of path
	ReadFile(ctx context.Context, path string) ([]byte, error)

	// ReadFileStream opens path for streaming; the caller closes it
	ReadFileStream(ctx context.Context, path string) (io.ReadCloser, error)

	// CopyFile copies src to dst inside the same storage
	CopyFile(ctx context.Context, src, dst string) error

	// DeleteFile removes path. Deleting a missing path is not an error.
	DeleteFile(ctx context.Context, path string) error

	// Exists reports whether path holds an object
	Exists(ctx context.Context, path string) (bool, error)
}
