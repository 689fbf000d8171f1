package storage

import (
	"context"
	"io"
)

// Uploader stores customer-submitted images (payment proofs, QR codes) and
// returns a publicly retrievable URL per object.
type Uploader interface {
	Upload(ctx context.Context, bucket, key, contentType string, body io.Reader) (string, error)
	Remove(ctx context.Context, bucket, key string) error
}
