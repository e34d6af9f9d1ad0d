package ports

import (
	"context"
	"io"
)

type PutObjectInput struct {
	ObjectKey   string
	ContentType string
	Reader      io.Reader
	Size        int64
}

type PutObjectOutput struct {
	// ObjectKey identifies the stored object. localfs echoes the input key;
	// gdrive returns the Drive file id.
	ObjectKey string
	Size      int64
}

// StorageProvider is implemented by localfs and gdrive. Receipts are write
// only; operators read them from the backend directly.
type StorageProvider interface {
	Provider() string

	PutObject(ctx context.Context, in PutObjectInput) (PutObjectOutput, error)
}
