package supabase

import (
	"fmt"
	"strings"

	"contract-analyzer/internal/domain"

	storage_go "github.com/supabase-community/storage-go"
	"github.com/supabase-community/supabase-go"
)

const clientInfo = "contract-analyzer"

// Client owns the Supabase handle shared by the blob store and the
// PostgREST record store.
type Client struct {
	client *supabase.Client
	config domain.Config
	logger domain.Logger
}

func NewClient(config domain.Config, logger domain.Logger) *Client {
	return &Client{
		config: config,
		logger: logger,
	}
}

// Initialize builds the client. No request is sent to Supabase.
func (s *Client) Initialize() error {
	supabaseURL := strings.TrimRight(s.config.GetSupabaseURL(), "/")
	supabaseKey := s.config.GetSupabaseKey()

	if supabaseURL == "" || supabaseKey == "" {
		return fmt.Errorf("supabase URL and key must be provided")
	}

	client, err := supabase.NewClient(supabaseURL, supabaseKey, &supabase.ClientOptions{
		Headers: map[string]string{"X-Client-Info": clientInfo},
	})
	if err != nil {
		return fmt.Errorf("failed to create Supabase client: %w", err)
	}

	s.client = client
	s.logger.Info("Supabase client initialized", "url", supabaseURL)
	return nil
}

// DB returns the underlying client; nil until Initialize succeeds.
func (s *Client) DB() *supabase.Client {
	return s.client
}

// Storage returns the storage API client.
func (s *Client) Storage() *storage_go.Client {
	if s.client == nil {
		return nil
	}
	return s.client.Storage
}
