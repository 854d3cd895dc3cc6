package object

import (
	"context"
	"io"
)

// ObjectStore defines the contract for saving and retrieving binary objects.
type ObjectStore interface {
	Save(ctx context.Context, namespace string, fileName string, r io.Reader) (storageKey string, sizeBytes int64, mimeType string, err error)
	Open(ctx context.Context, storageKey string) (io.ReadCloser, error)
	// Path resolves a storage key to a local filesystem path when the
	// backing store is file-based; external PDF tooling needs real paths.
	Path(storageKey string) (string, error)
}
