package blob

import (
	"context"
	"io"
)

// Store is the blob backend the file service talks to. The MinIO client
// implements it in production; tests substitute an in-memory fake.
type Store interface {
	Put(ctx context.Context, objectName string, r io.Reader, size int64, contentType string) error
	PresignedURL(ctx context.Context, objectName string) (string, error)
	Delete(ctx context.Context, objectName string) error
}
