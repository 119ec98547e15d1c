package supabase

import (
	"testing"

	"contract-analyzer/internal/domain"
)

type stubConfig struct {
	domain.Config
	url, key string
}

func (c stubConfig) GetSupabaseURL() string { return c.url }
func (c stubConfig) GetSupabaseKey() string { return c.key }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})         {}
func (nopLogger) Error(string, error, ...interface{}) {}
func (nopLogger) Debug(string, ...interface{})        {}
func (nopLogger) Warn(string, ...interface{})         {}

func TestClient_Initialize(t *testing.T) {
	c := NewClient(stubConfig{url: "http://localhost:54321/", key: "service-role"}, nopLogger{})
	if c.Storage() != nil {
		t.Fatalf("expected nil storage before Initialize")
	}
	if err := c.Initialize(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.DB() == nil || c.Storage() == nil {
		t.Fatalf("expected initialized clients")
	}
}

func TestClient_InitializeMissingCredentials(t *testing.T) {
	for _, cfg := range []stubConfig{{url: "http://localhost:54321"}, {key: "k"}} {
		if err := NewClient(cfg, nopLogger{}).Initialize(); err == nil {
			t.Fatalf("expected error for %+v", cfg)
		}
	}
}
