package repository

import (
	"context"
	"sync/atomic"
	"time"

	"contract-analyzer/internal/domain"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// CachedDocumentRepository keeps recently read records in memory. Misses and
// not-found results go to the wrapped store; Save invalidates the file name.
type CachedDocumentRepository struct {
	inner domain.DocumentRecordStore
	cache *expirable.LRU[string, domain.DocumentRecord]
	// saves counts completed writes so a read that raced a Save does not
	// repopulate the cache with the older version.
	saves  atomic.Uint64
	logger domain.Logger
}

func NewCachedDocumentRepository(inner domain.DocumentRecordStore, size int, ttl time.Duration, logger domain.Logger) *CachedDocumentRepository {
	return &CachedDocumentRepository{
		inner:  inner,
		cache:  expirable.NewLRU[string, domain.DocumentRecord](size, nil, ttl),
		logger: logger,
	}
}

func (c *CachedDocumentRepository) Save(ctx context.Context, record *domain.DocumentRecord) error {
	err := c.inner.Save(ctx, record)
	c.saves.Add(1)
	c.cache.Remove(record.FileName)
	return err
}

func (c *CachedDocumentRepository) FindLatestByFileName(ctx context.Context, fileName string) (*domain.DocumentRecord, error) {
	if rec, ok := c.cache.Get(fileName); ok {
		c.logger.Debug("Document record cache hit", "file_name", fileName)
		return &rec, nil
	}

	before := c.saves.Load()
	rec, err := c.inner.FindLatestByFileName(ctx, fileName)
	if err != nil {
		return nil, err
	}
	if c.saves.Load() == before {
		c.cache.Add(fileName, *rec)
	}
	return rec, nil
}
