package domain

import (
	"context"
	"strings"
	"time"
)

// NoTextSentinel is stored in place of extracted text when a PDF yields nothing.
const NoTextSentinel = "⚠ No text found in PDF"

// DocumentRecord is the persisted result of ingesting one PDF.
// FileName is the lookup key; a file can be ingested more than once and
// the most recent record wins on read.
type DocumentRecord struct {
	ID             string    `json:"id"`
	FileName       string    `json:"file_name"`
	SourceLocation string    `json:"file_url"`
	Text           string    `json:"text"`
	CreatedAt      time.Time `json:"created_at"`
}

// Validate checks the fields required before a record is persisted.
func (r *DocumentRecord) Validate() error {
	if strings.TrimSpace(r.FileName) == "" {
		return &ValidationError{Field: "file_name", Message: "file name is required"}
	}
	if r.SourceLocation == "" {
		return &ValidationError{Field: "file_url", Message: "source location is required"}
	}
	if r.Text == "" {
		return &ValidationError{Field: "text", Message: "text is required"}
	}
	return nil
}

// IngestResult describes a completed ingestion.
type IngestResult struct {
	FileName       string `json:"fileName"`
	SourceLocation string `json:"sourceLocation"`
	TextLength     int    `json:"length"`
	UsedSentinel   bool   `json:"usedSentinel"`
	Source         string `json:"source"`
}

// DocumentRecordStore persists and looks up extracted document text.
type DocumentRecordStore interface {
	Save(ctx context.Context, record *DocumentRecord) error
	// FindLatestByFileName returns ErrDocumentNotFound when no record exists.
	FindLatestByFileName(ctx context.Context, fileName string) (*DocumentRecord, error)
}
