package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"contract-analyzer/internal/domain"
	apperrors "contract-analyzer/pkg/errors"

	storage_go "github.com/supabase-community/storage-go"
)

// ByteSource yields the raw bytes stored at a blob path and the name of the
// strategy that produced them.
type ByteSource interface {
	Fetch(ctx context.Context, path string) ([]byte, string, error)
}

// RetrievalStrategy is one way of reading a blob. status is the HTTP status
// observed, or 0 when the strategy saw none.
type RetrievalStrategy interface {
	Name() string
	Retrieve(ctx context.Context, path string) (data []byte, status int, err error)
}

// DirectDownload reads through the blob store's authenticated path.
type DirectDownload struct {
	store domain.BlobStore
}

func NewDirectDownload(store domain.BlobStore) *DirectDownload {
	return &DirectDownload{store: store}
}

func (d *DirectDownload) Name() string { return "direct" }

func (d *DirectDownload) Retrieve(ctx context.Context, path string) ([]byte, int, error) {
	data, err := d.store.Download(ctx, path)
	if err != nil {
		var se *storage_go.StorageError
		if errors.As(err, &se) {
			return nil, se.Status, err
		}
		return nil, 0, err
	}
	return data, http.StatusOK, nil
}

// PublicURLFetch reads the object anonymously through its public URL.
type PublicURLFetch struct {
	store  domain.BlobStore
	client *http.Client
}

// NewPublicURLFetch uses http.DefaultClient when client is nil.
func NewPublicURLFetch(store domain.BlobStore, client *http.Client) *PublicURLFetch {
	if client == nil {
		client = http.DefaultClient
	}
	return &PublicURLFetch{store: store, client: client}
}

func (p *PublicURLFetch) Name() string { return "public_url" }

func (p *PublicURLFetch) Retrieve(ctx context.Context, path string) ([]byte, int, error) {
	url := p.store.PublicURL(path)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("build request: %w", err)
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("fetch public url: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, resp.StatusCode, fmt.Errorf("failed to fetch from public URL: %d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read public url body: %w", err)
	}
	return data, resp.StatusCode, nil
}

// RetrievalChain tries each strategy in order; the first non-empty payload wins.
type RetrievalChain struct {
	strategies []RetrievalStrategy
	logger     domain.Logger
}

func NewRetrievalChain(logger domain.Logger, strategies ...RetrievalStrategy) *RetrievalChain {
	return &RetrievalChain{strategies: strategies, logger: logger}
}

// Fetch tries each strategy in order. When none produces data, the last one
// decides the outcome: zero bytes is an empty payload error, a failure is a
// retrieval error carrying the last HTTP status seen.
func (c *RetrievalChain) Fetch(ctx context.Context, path string) ([]byte, string, error) {
	var (
		lastErr    error
		lastStatus int
		lastEmpty  bool
	)

	for _, s := range c.strategies {
		if err := ctx.Err(); err != nil {
			return nil, "", err
		}

		data, status, err := s.Retrieve(ctx, path)
		if status != 0 {
			lastStatus = status
		}
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, "", ctxErr
			}
			c.logger.Warn("Retrieval strategy failed, trying next", "strategy", s.Name(), "path", path, "status", status, "error", err)
			lastErr = err
			lastEmpty = false
			continue
		}
		if len(data) == 0 {
			c.logger.Warn("Retrieval strategy returned no data", "strategy", s.Name(), "path", path)
			lastEmpty = true
			continue
		}

		c.logger.Debug("Retrieved file", "strategy", s.Name(), "path", path, "size", len(data))
		return data, s.Name(), nil
	}

	if lastEmpty {
		return nil, "", apperrors.NewEmptyPayloadError(path, domain.ErrEmptyPayload)
	}
	if lastErr == nil {
		lastErr = errors.New("no retrieval strategy configured")
	}
	return nil, "", apperrors.NewRetrievalError(path, lastStatus, fmt.Errorf("%w: %w", domain.ErrRetrievalFailed, lastErr))
}
