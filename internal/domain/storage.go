package domain

import "context"

// BlobStore holds the raw uploaded PDFs.
type BlobStore interface {
	Upload(ctx context.Context, path string, data []byte, contentType string) error
	Download(ctx context.Context, path string) ([]byte, error)
	PublicURL(path string) string
}
