// Package storage is the filesystem abstraction for uploaded product
// images. Two drivers are available:
//   - "local": local filesystem, served back under /storage (default)
//   - "s3"   : S3-compatible object storage (AWS S3, MinIO, R2, Spaces)
//
//	disk, _ := storage.New(ctx)
//	_ = disk.Put(ctx, "products/7/a.png", r, "image/png")
//	url := disk.URL("products/7/a.png")
package storage

import (
	"context"
	"errors"
	"io"
)

// ErrInvalidPath is returned for paths that are empty or escape the disk
// root.
var ErrInvalidPath = errors.New("storage: invalid path")

// Disk is the driver interface. Paths are slash-separated and relative.
type Disk interface {
	// Put writes r to path, replacing any existing object.
	Put(ctx context.Context, path string, r io.Reader, contentType string) error

	// Delete removes path. Deleting a missing object is not an error.
	Delete(ctx context.Context, path string) error

	// Exists reports whether an object is stored at path.
	Exists(ctx context.Context, path string) (bool, error)

	// URL returns the public URL for path.
	URL(path string) string
}
