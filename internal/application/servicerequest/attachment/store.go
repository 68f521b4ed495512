// Package attachment stores root-cause-analysis files for service requests.
package attachment

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound is returned by BlobStore.Open when nothing is stored at the path.
var ErrNotFound = errors.New("attachment not found")

// BlobStore persists attachment bytes under a public path of the form
// /uploads/<name>.
type BlobStore interface {
	// Store writes data under name and returns its public path.
	Store(ctx context.Context, data []byte, name string) (string, error)
	// Delete removes the blob at path. A missing blob is not an error; the
	// boolean reports whether anything was removed.
	Delete(ctx context.Context, path string) (bool, error)
	Open(ctx context.Context, path string) (io.ReadCloser, error)
}
