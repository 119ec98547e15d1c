package minio

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Store is a domain.BlobStore backed by an S3-compatible MinIO bucket.
type Store struct {
	client     *minio.Client
	bucketName string
	publicBase string
}

// New connects to MinIO and makes sure the bucket exists.
func New(ctx context.Context, endpoint, region, bucket, accessKey, secretKey string, useSSL bool, publicBase string) (*Store, error) {
	cli, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
		Region: region,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	exists, err := cli.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %s: %w", bucket, err)
	}
	if !exists {
		if err := cli.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: region}); err != nil {
			return nil, fmt.Errorf("create bucket %s: %w", bucket, err)
		}
	}

	return NewWithClient(cli, bucket, publicBase), nil
}

// NewWithClient wraps an existing client without touching the network.
func NewWithClient(cli *minio.Client, bucket, publicBase string) *Store {
	return &Store{client: cli, bucketName: bucket, publicBase: publicBase}
}

// Upload writes data under key, replacing any existing object.
func (s *Store) Upload(ctx context.Context, key string, data []byte, contentType string) error {
	_, err := s.client.PutObject(ctx, s.bucketName, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("put %s/%s: %w", s.bucketName, key, err)
	}
	return nil
}

// Download reads the whole object into memory.
func (s *Store) Download(ctx context.Context, key string) ([]byte, error) {
	obj, err := s.client.GetObject(ctx, s.bucketName, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get %s/%s: %w", s.bucketName, key, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		if resp := minio.ToErrorResponse(err); resp.StatusCode != 0 {
			return nil, fmt.Errorf("get %s/%s: status %d %s: %w", s.bucketName, key, resp.StatusCode, resp.Code, err)
		}
		return nil, fmt.Errorf("read %s/%s: %w", s.bucketName, key, err)
	}
	return data, nil
}

// PublicURL assumes an anonymous-read bucket policy; private buckets need a presigned URL instead.
func (s *Store) PublicURL(key string) string {
	if s.publicBase != "" {
		return s.publicBase + "/" + s.bucketName + "/" + key
	}
	u := s.client.EndpointURL()
	return fmt.Sprintf("%s://%s/%s/%s", u.Scheme, u.Host, s.bucketName, key)
}
