package config

import (
	"context"
	"fmt"
	"os"
	"time"

	"contract-analyzer/internal/domain"
	"contract-analyzer/internal/infra/llm"
	"contract-analyzer/internal/infra/minio"
	"contract-analyzer/internal/infra/supabase"
	"contract-analyzer/internal/repository"
	"contract-analyzer/internal/service"
	"contract-analyzer/pkg/logger"
)

// Container holds all application dependencies
type Container struct {
	Config          domain.Config
	Logger          domain.Logger
	SupabaseClient  *supabase.Client
	BlobStore       domain.BlobStore
	RecordStore     domain.DocumentRecordStore
	Extractor       domain.TextExtractor
	Backend         domain.GenerationBackend
	DocumentService *service.DocumentService
	AnalysisService *service.AnalysisService

	closers []func()
}

// NewContainer builds every client once. Close releases what it opened.
func NewContainer(ctx context.Context, config domain.Config) (*Container, error) {
	appLogger := logger.NewLoggerWithWriter(config.GetLogLevel(), config.GetLogFormat(), os.Stdout)
	c := &Container{Config: config, Logger: appLogger}

	if config.GetStorageProvider() == "supabase" || config.GetRecordStore() == "supabase" {
		c.SupabaseClient = supabase.NewClient(config, appLogger)
		if err := c.SupabaseClient.Initialize(); err != nil {
			return nil, err
		}
	}

	blobs, err := c.newBlobStore(ctx)
	if err != nil {
		c.Close()
		return nil, err
	}
	c.BlobStore = blobs

	records, err := c.newRecordStore(ctx)
	if err != nil {
		c.Close()
		return nil, err
	}
	c.RecordStore = records

	backend, err := c.newBackend(ctx)
	if err != nil {
		c.Close()
		return nil, err
	}
	c.Backend = backend

	c.Extractor = service.NewFallbackExtractor(appLogger,
		service.NewPDFProcessor(appLogger),
		service.NewPlainPDFExtractor(),
	)
	source := service.NewRetrievalChain(appLogger,
		service.NewDirectDownload(blobs),
		service.NewPublicURLFetch(blobs, nil),
	)

	c.DocumentService = service.NewDocumentService(blobs, source, c.Extractor, records, config.GetStoragePrefix(), appLogger)
	c.AnalysisService = service.NewAnalysisService(records, backend, appLogger)

	appLogger.Info("Container initialized",
		"storage", config.GetStorageProvider(),
		"record_store", config.GetRecordStore(),
		"generation", backend.Name(),
	)
	return c, nil
}

func (c *Container) newBlobStore(ctx context.Context) (domain.BlobStore, error) {
	cfg := c.Config
	switch cfg.GetStorageProvider() {
	case "supabase":
		return service.NewStorageService(c.SupabaseClient.Storage(), cfg.GetStorageBucket(), cfg.GetPublicBaseURL()), nil
	case "minio":
		return minio.New(ctx,
			cfg.GetMinioEndpoint(),
			cfg.GetMinioRegion(),
			cfg.GetStorageBucket(),
			cfg.GetMinioAccessKey(),
			cfg.GetMinioSecretKey(),
			cfg.GetMinioUseSSL(),
			cfg.GetPublicBaseURL(),
		)
	default:
		return nil, fmt.Errorf("unknown STORAGE_PROVIDER %q", cfg.GetStorageProvider())
	}
}

func (c *Container) newRecordStore(ctx context.Context) (domain.DocumentRecordStore, error) {
	cfg := c.Config
	var store domain.DocumentRecordStore

	switch cfg.GetRecordStore() {
	case "supabase":
		store = repository.NewSupabaseDocumentRepository(c.SupabaseClient.DB(), cfg.GetDocumentsTable(), c.Logger)
	case "postgres":
		if cfg.GetDatabaseURL() == "" {
			return nil, fmt.Errorf("DATABASE_URL is required when RECORD_STORE=postgres")
		}
		db, err := repository.NewDB(ctx, cfg.GetDatabaseURL())
		if err != nil {
			return nil, err
		}
		c.closers = append(c.closers, db.Close)

		repo := repository.NewPostgresDocumentRepository(db.Pool, cfg.GetDocumentsTable(), c.Logger)
		if err := repo.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		store = repo
	default:
		return nil, fmt.Errorf("unknown RECORD_STORE %q", cfg.GetRecordStore())
	}

	if size := cfg.GetRecordCacheSize(); size > 0 {
		ttl := time.Duration(cfg.GetRecordCacheTTLSeconds()) * time.Second
		store = repository.NewCachedDocumentRepository(store, size, ttl, c.Logger)
	}
	return store, nil
}

func (c *Container) newBackend(ctx context.Context) (domain.GenerationBackend, error) {
	cfg := c.Config
	switch provider := cfg.GetGenerationProvider(); provider {
	case "groq", "openai":
		if cfg.GetGenerationAPIKey() == "" {
			c.Logger.Warn("No generation API key configured; analysis requests will fail", "provider", provider)
		}
		return llm.NewOpenAIBackend(provider, cfg.GetGenerationAPIKey(), cfg.GetGenerationBaseURL(), cfg.GetGenerationModel(), nil), nil
	case "vertex":
		backend, err := llm.NewVertexBackend(ctx, cfg.GetGCPProjectID(), cfg.GetGCPLocation(), cfg.GetVertexModel())
		if err != nil {
			return nil, err
		}
		c.closers = append(c.closers, func() {
			if err := backend.Close(); err != nil {
				c.Logger.Warn("Failed to close vertex client", "error", err)
			}
		})
		return backend, nil
	default:
		return nil, fmt.Errorf("unknown GENERATION_PROVIDER %q", provider)
	}
}

// Close releases pooled connections and clients in reverse order.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	c.closers = nil
}
