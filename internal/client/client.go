// Package client is a Go client for the contract analyzer HTTP API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"contract-analyzer/internal/domain"
)

const defaultTimeout = 5 * time.Minute

// APIError is a non-2xx answer from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Message)
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New uses a client with a five minute timeout when httpClient is nil.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

type UploadResult struct {
	Success bool   `json:"success"`
	URL     string `json:"url"`
}

type ParseResult struct {
	Success bool `json:"success"`
	Length  int  `json:"length"`
}

// UploadFile sends a local PDF as multipart form data.
func (c *Client) UploadFile(ctx context.Context, path string) (*UploadResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	part, err := mw.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	var out UploadResult
	if err := c.do(ctx, "/upload", mw.FormDataContentType(), body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Parse asks the server to extract and store the text of an uploaded file.
func (c *Client) Parse(ctx context.Context, fileName string) (*ParseResult, error) {
	payload, err := json.Marshal(map[string]string{"fileName": fileName})
	if err != nil {
		return nil, err
	}
	var out ParseResult
	if err := c.do(ctx, "/parse", "application/json", bytes.NewReader(payload), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Analyze(ctx context.Context, req domain.AnalysisRequest) (*domain.AnalysisResult, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	var out domain.AnalysisResult
	if err := c.do(ctx, "/analyze", "application/json", bytes.NewReader(payload), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, path, contentType string, body io.Reader, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request %s: %w", path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var e struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(raw, &e) != nil || e.Error == "" {
			e.Error = strings.TrimSpace(string(raw))
		}
		return &APIError{StatusCode: resp.StatusCode, Message: e.Error}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
