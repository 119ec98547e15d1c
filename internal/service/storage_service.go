package service

import (
	"bytes"
	"context"
	"fmt"
	"sync"

	storage_go "github.com/supabase-community/storage-go"
)

// SupabaseStorage is a domain.BlobStore backed by a Supabase Storage bucket.
type SupabaseStorage struct {
	client     *storage_go.Client
	bucket     string
	publicBase string

	// storage-go writes upload options into headers shared by every request
	// made through the client. Uploads hold the write lock.
	mu sync.RWMutex
}

// NewStorageService wraps a storage client for one bucket. publicBase
// overrides the public URL prefix; empty means use the client's own URL.
func NewStorageService(client *storage_go.Client, bucket, publicBase string) *SupabaseStorage {
	return &SupabaseStorage{
		client:     client,
		bucket:     bucket,
		publicBase: publicBase,
	}
}

// Upload writes data to path, replacing any existing object.
func (s *SupabaseStorage) Upload(ctx context.Context, path string, data []byte, contentType string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	upsert := true
	opts := storage_go.FileOptions{
		ContentType: &contentType,
		Upsert:      &upsert,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.client.UploadFile(s.bucket, path, bytes.NewReader(data), opts); err != nil {
		return fmt.Errorf("upload %s/%s: %w", s.bucket, path, err)
	}
	return nil
}

// Download fetches an object with the service credentials.
func (s *SupabaseStorage) Download(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := s.client.DownloadFile(s.bucket, path)
	if err != nil {
		return nil, fmt.Errorf("download %s/%s: %w", s.bucket, path, err)
	}
	return data, nil
}

// PublicURL returns the unauthenticated URL of an object in a public bucket.
func (s *SupabaseStorage) PublicURL(path string) string {
	if s.publicBase != "" {
		return s.publicBase + "/" + s.bucket + "/" + path
	}
	return s.client.GetPublicUrl(s.bucket, path).SignedURL
}
