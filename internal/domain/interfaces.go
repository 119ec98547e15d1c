package domain

import "context"

// Logger defines the interface for logging operations
type Logger interface {
	Info(msg string, fields ...interface{})
	Error(msg string, err error, fields ...interface{})
	Debug(msg string, fields ...interface{})
	Warn(msg string, fields ...interface{})
}

// Config defines the interface for configuration management
type Config interface {
	GetServerPort() string
	GetMaxFileSize() int64
	GetLogLevel() string
	GetLogFormat() string
	GetAllowedOrigins() []string

	GetSupabaseURL() string
	GetSupabaseKey() string

	GetStorageProvider() string
	GetStorageBucket() string
	GetStoragePrefix() string
	GetPublicBaseURL() string
	GetMinioEndpoint() string
	GetMinioAccessKey() string
	GetMinioSecretKey() string
	GetMinioRegion() string
	GetMinioUseSSL() bool

	GetRecordStore() string
	GetDatabaseURL() string
	GetDocumentsTable() string
	GetRecordCacheSize() int
	GetRecordCacheTTLSeconds() int64

	GetGenerationProvider() string
	GetGenerationAPIKey() string
	GetGenerationBaseURL() string
	GetGenerationModel() string
	GetGCPProjectID() string
	GetGCPLocation() string
	GetVertexModel() string
}

// DocumentService uploads PDFs and ingests their text.
type DocumentService interface {
	Upload(ctx context.Context, fileName string, data []byte) (string, error)
	Ingest(ctx context.Context, fileName string) (*IngestResult, error)
}

// AnalysisService answers analysis requests over ingested documents.
type AnalysisService interface {
	Analyze(ctx context.Context, req AnalysisRequest) (*AnalysisResult, error)
}
