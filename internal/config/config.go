package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"contract-analyzer/internal/domain"

	"gopkg.in/yaml.v3"
)

// AppConfig implements the domain.Config interface
type AppConfig struct {
	ServerPort     string
	MaxFileSize    int64
	LogLevel       string
	LogFormat      string
	AllowedOrigins []string

	SupabaseURL string
	SupabaseKey string

	StorageProvider string
	StorageBucket   string
	StoragePrefix   string
	PublicBaseURL   string
	MinioEndpoint   string
	MinioAccessKey  string
	MinioSecretKey  string
	MinioRegion     string
	MinioUseSSL     bool

	RecordStore           string
	DatabaseURL           string
	DocumentsTable        string
	RecordCacheSize       int
	RecordCacheTTLSeconds int64

	GenerationProvider string
	GenerationAPIKey   string
	GenerationBaseURL  string
	GenerationModel    string
	GCPProjectID       string
	GCPLocation        string
	VertexModel        string
}

// source resolves a key from the environment first, then from an optional
// YAML file whose keys are the environment variable names.
type source struct {
	file map[string]string
}

// NewConfig creates a configuration from environment variables only.
func NewConfig() domain.Config {
	return build(source{})
}

// Load reads CONFIG_PATH (if set) as a YAML file of defaults, then applies
// environment overrides.
func Load() (*AppConfig, error) {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		return build(source{}), nil
	}
	return LoadFile(path)
}

// LoadFile is Load with an explicit YAML path.
func LoadFile(path string) (*AppConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	values := map[string]string{}
	if err := yaml.Unmarshal(raw, &values); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return build(source{file: values}), nil
}

func build(src source) *AppConfig {
	return &AppConfig{
		// Cloud Run (and many PaaS) provide the listening port via PORT.
		// Keep SERVER_PORT for local/dev compatibility.
		ServerPort:     src.getOrDefault("PORT", src.getOrDefault("SERVER_PORT", "8080")),
		MaxFileSize:    src.getInt64OrDefault("MAX_FILE_SIZE", 50*1024*1024), // 50MB default
		LogLevel:       src.getOrDefault("LOG_LEVEL", "info"),
		LogFormat:      src.getOrDefault("LOG_FORMAT", "text"),
		AllowedOrigins: src.getListOrDefault("ALLOWED_ORIGINS", []string{"http://localhost:3000", "http://localhost:5173"}),

		SupabaseURL: strings.TrimRight(src.getOrDefault("SUPABASE_URL", ""), "/"),
		// The service role key is needed for server-side storage writes; the
		// anon key works when bucket and table policies allow it.
		SupabaseKey: src.getOrDefault("SUPABASE_SERVICE_ROLE_KEY", src.getOrDefault("SUPABASE_ANON_KEY", "")),

		StorageProvider: src.getOrDefault("STORAGE_PROVIDER", "supabase"),
		StorageBucket:   src.getOrDefault("STORAGE_BUCKET", "documents"),
		StoragePrefix:   strings.Trim(src.getOrDefault("STORAGE_PREFIX", "contracts"), "/"),
		PublicBaseURL:   strings.TrimRight(src.getOrDefault("PUBLIC_BASE_URL", ""), "/"),
		MinioEndpoint:   src.getOrDefault("MINIO_ENDPOINT", "localhost:9000"),
		MinioAccessKey:  src.getOrDefault("MINIO_ACCESS_KEY", ""),
		MinioSecretKey:  src.getOrDefault("MINIO_SECRET_KEY", ""),
		MinioRegion:     src.getOrDefault("MINIO_REGION", "us-east-1"),
		MinioUseSSL:     src.getBoolOrDefault("MINIO_USE_SSL", false),

		RecordStore:           src.getOrDefault("RECORD_STORE", "supabase"),
		DatabaseURL:           src.getOrDefault("DATABASE_URL", ""),
		DocumentsTable:        src.getOrDefault("DOCUMENTS_TABLE", "documents"),
		RecordCacheSize:       int(src.getInt64OrDefault("RECORD_CACHE_SIZE", 256)),
		RecordCacheTTLSeconds: src.getInt64OrDefault("RECORD_CACHE_TTL", 300),

		GenerationProvider: src.getOrDefault("GENERATION_PROVIDER", "groq"),
		GenerationAPIKey:   src.getOrDefault("GROQ_API_KEY", src.getOrDefault("OPENAI_API_KEY", "")),
		GenerationBaseURL:  src.getOrDefault("GENERATION_BASE_URL", "https://api.groq.com/openai/v1"),
		GenerationModel:    src.getOrDefault("GENERATION_MODEL", "llama3-8b-8192"),
		GCPProjectID:       src.getOrDefault("GCP_PROJECT_ID", ""),
		GCPLocation:        src.getOrDefault("GCP_LOCATION", "us-central1"),
		VertexModel:        src.getOrDefault("VERTEX_MODEL", "gemini-2.0-flash-001"),
	}
}

// GetServerPort returns the server port
func (c *AppConfig) GetServerPort() string { return c.ServerPort }

// GetMaxFileSize returns the maximum allowed upload size in bytes
func (c *AppConfig) GetMaxFileSize() int64 { return c.MaxFileSize }

// GetLogLevel returns the logging level
func (c *AppConfig) GetLogLevel() string { return c.LogLevel }

func (c *AppConfig) GetLogFormat() string { return c.LogFormat }

func (c *AppConfig) GetAllowedOrigins() []string { return c.AllowedOrigins }

// GetSupabaseURL returns the Supabase project URL without a trailing slash
func (c *AppConfig) GetSupabaseURL() string { return c.SupabaseURL }

// GetSupabaseKey returns the Supabase API key
func (c *AppConfig) GetSupabaseKey() string { return c.SupabaseKey }

func (c *AppConfig) GetStorageProvider() string { return c.StorageProvider }
func (c *AppConfig) GetStorageBucket() string { return c.StorageBucket }
func (c *AppConfig) GetStoragePrefix() string { return c.StoragePrefix }

// GetPublicBaseURL returns the base used for public object URLs. Empty means
// the blob store derives it.
func (c *AppConfig) GetPublicBaseURL() string { return c.PublicBaseURL }
func (c *AppConfig) GetMinioEndpoint() string { return c.MinioEndpoint }
func (c *AppConfig) GetMinioAccessKey() string { return c.MinioAccessKey }
func (c *AppConfig) GetMinioSecretKey() string { return c.MinioSecretKey }
func (c *AppConfig) GetMinioRegion() string { return c.MinioRegion }
func (c *AppConfig) GetMinioUseSSL() bool { return c.MinioUseSSL }

func (c *AppConfig) GetRecordStore() string { return c.RecordStore }
func (c *AppConfig) GetDatabaseURL() string { return c.DatabaseURL }
func (c *AppConfig) GetDocumentsTable() string { return c.DocumentsTable }

// GetRecordCacheSize returns the record cache capacity; 0 disables the cache.
func (c *AppConfig) GetRecordCacheSize() int { return c.RecordCacheSize }
func (c *AppConfig) GetRecordCacheTTLSeconds() int64 { return c.RecordCacheTTLSeconds }
func (c *AppConfig) GetGenerationProvider() string { return c.GenerationProvider }
func (c *AppConfig) GetGenerationAPIKey() string { return c.GenerationAPIKey }
func (c *AppConfig) GetGenerationBaseURL() string { return c.GenerationBaseURL }
func (c *AppConfig) GetGenerationModel() string { return c.GenerationModel }
func (c *AppConfig) GetGCPProjectID() string { return c.GCPProjectID }
func (c *AppConfig) GetGCPLocation() string { return c.GCPLocation }
func (c *AppConfig) GetVertexModel() string { return c.VertexModel }

// Helper functions for environment variable handling
func (s source) getOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	if value := s.file[key]; value != "" {
		return value
	}
	return defaultValue
}

func (s source) getInt64OrDefault(key string, defaultValue int64) int64 {
	if value := s.getOrDefault(key, ""); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func (s source) getBoolOrDefault(key string, defaultValue bool) bool {
	if value := s.getOrDefault(key, ""); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func (s source) getListOrDefault(key string, defaultValue []string) []string {
	value := s.getOrDefault(key, "")
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
