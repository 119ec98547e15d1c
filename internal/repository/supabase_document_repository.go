package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"contract-analyzer/internal/domain"

	"github.com/supabase-community/postgrest-go"
)

// PostgrestClient is the part of the Supabase client used for table access.
// Both *supabase.Client and *postgrest.Client satisfy it.
type PostgrestClient interface {
	From(table string) *postgrest.QueryBuilder
}

// SupabaseDocumentRepository stores document records in a PostgREST table
// with columns id, file_name, file_url, text and created_at.
type SupabaseDocumentRepository struct {
	db     PostgrestClient
	table  string
	logger domain.Logger
}

// NewSupabaseDocumentRepository creates a new Supabase document repository
func NewSupabaseDocumentRepository(db PostgrestClient, table string, logger domain.Logger) *SupabaseDocumentRepository {
	return &SupabaseDocumentRepository{
		db:     db,
		table:  table,
		logger: logger,
	}
}

// Save appends a new row; earlier rows for the same file name are kept.
func (r *SupabaseDocumentRepository) Save(ctx context.Context, record *domain.DocumentRecord) error {
	if err := record.Validate(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	row := map[string]interface{}{
		"file_name": record.FileName,
		"file_url":  record.SourceLocation,
		"text":      sanitizeText(record.Text),
	}

	if _, _, err := r.db.From(r.table).Insert(row, false, "", "minimal", "").Execute(); err != nil {
		r.logger.Error("Failed to insert document record", err, "file_name", record.FileName)
		return fmt.Errorf("insert document record: %w", err)
	}

	r.logger.Info("Document record created", "file_name", record.FileName, "text_length", len(record.Text))
	return nil
}

// FindLatestByFileName returns the most recently created row for fileName.
func (r *SupabaseDocumentRepository) FindLatestByFileName(ctx context.Context, fileName string) (*domain.DocumentRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, _, err := r.db.From(r.table).
		Select("id,file_name,file_url,text,created_at", "", false).
		Eq("file_name", fileName).
		Order("created_at", &postgrest.OrderOpts{Ascending: false}).
		Limit(1, "").
		Execute()
	if err != nil {
		return nil, fmt.Errorf("select document record: %w", err)
	}

	var rows []map[string]interface{}
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("decode document record: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrDocumentNotFound, fileName)
	}

	return mapToRecord(rows[0]), nil
}

func mapToRecord(data map[string]interface{}) *domain.DocumentRecord {
	record := &domain.DocumentRecord{
		ID:             getID(data, "id"),
		FileName:       getString(data, "file_name"),
		SourceLocation: getString(data, "file_url"),
		Text:           getString(data, "text"),
	}
	if ts := getString(data, "created_at"); ts != "" {
		if t, err := time.Parse(time.RFC3339Nano, ts); err == nil {
			record.CreatedAt = t
		}
	}
	return record
}

// getID accepts both bigint and uuid primary keys.
func getID(data map[string]interface{}, key string) string {
	switch v := data[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatInt(int64(v), 10)
	}
	return ""
}

func getString(data map[string]interface{}, key string) string {
	if val, ok := data[key]; ok && val != nil {
		if str, ok := val.(string); ok {
			return str
		}
	}
	return ""
}
